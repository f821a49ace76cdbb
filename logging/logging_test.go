package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (fw *failingWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func TestTUIMode(t *testing.T) {
	require.NoError(t, Init(true, "DEBUG", "text", ""))

	slog.Info("Initial log")

	var pane bytes.Buffer
	require.NoError(t, SetOutput(&pane))
	assert.Contains(t, pane.String(), "Initial log", "buffered lines are flushed to the new target")

	slog.Info("Live log")
	assert.Contains(t, pane.String(), "Live log")

	BufferOutput()
	slog.Info("Buffered log")
	assert.NotContains(t, pane.String(), "Buffered log")

	var second bytes.Buffer
	require.NoError(t, SetOutput(&second))
	assert.Contains(t, second.String(), "Buffered log")
	require.NoError(t, Close())
}

func TestFileLogging_JSON(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gestureleds.log")
	require.NoError(t, Init(true, "INFO", "json", file))

	slog.Info("Wave Gesture", "base", "BLUE")
	slog.Debug("not written")
	require.NoError(t, Close())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"msg":"Wave Gesture"`)
	assert.Contains(t, string(content), `"base":"BLUE"`)
	assert.NotContains(t, string(content), "not written")
}

func TestFileLogging_BufferedLinesWrittenOnce(t *testing.T) {
	file := filepath.Join(t.TempDir(), "gestureleds.log")
	require.NoError(t, Init(true, "INFO", "text", file))

	slog.Info("before the pane exists")
	require.NoError(t, Close())

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(content), "before the pane exists"))
}

func TestStderrFallback(t *testing.T) {
	require.NoError(t, Init(true, "DEBUG", "text", ""))
	slog.Info("Shutdown log")

	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stderr = w

	var wg sync.WaitGroup
	wg.Add(1)
	var captured string
	go func() {
		defer wg.Done()
		buf := make([]byte, 1024)
		n, _ := r.Read(buf)
		captured = string(buf[:n])
	}()

	closeErr := Close()
	w.Close()
	wg.Wait()
	os.Stderr = oldStderr

	require.NoError(t, closeErr)
	assert.Contains(t, captured, "Shutdown log")
}

func TestSetLevel(t *testing.T) {
	require.NoError(t, Init(true, "WARN", "text", ""))
	var out bytes.Buffer
	require.NoError(t, SetOutput(&out))

	slog.Info("hidden")
	assert.NotContains(t, out.String(), "hidden")

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, slog.LevelDebug, Level())
	slog.Debug("visible")
	assert.Contains(t, out.String(), "visible")

	assert.Error(t, SetLevel("LOUD"))
	assert.Equal(t, slog.LevelDebug, Level(), "an invalid level keeps the current one")
	require.NoError(t, Close())
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" ERROR ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		assert.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("TRACE")
	assert.Error(t, err)
}

func TestInit_BadLevel(t *testing.T) {
	assert.Error(t, Init(true, "chatty", "text", ""))
}

func TestWriteErrorIsReported(t *testing.T) {
	w := &teeWriter{pending: &bytes.Buffer{}, target: &failingWriter{}}
	n, err := w.Write([]byte("line\n"))
	assert.Equal(t, 5, n)
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "write failed"))
}
