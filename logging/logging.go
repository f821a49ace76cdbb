package logging

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// teeWriter holds log output back until a target is attached (the TUI
// draws its log pane only after startup) and copies every line to an
// optional file.
type teeWriter struct {
	mu        sync.Mutex
	pending   *bytes.Buffer
	target    io.Writer
	file      *os.File
	buffering bool
}

func (w *teeWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	var firstErr error
	switch {
	case w.buffering:
		w.pending.Write(p)
	case w.target != nil:
		if _, err := w.target.Write(p); err != nil {
			firstErr = err
		}
	}
	if w.file != nil {
		if _, err := w.file.Write(p); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return len(p), firstErr
}

var (
	writer = &teeWriter{pending: &bytes.Buffer{}}
	level  = new(slog.LevelVar)
)

// ParseLevel maps DEBUG, INFO, WARN and ERROR (case insensitive) to a
// slog level. Anything else is an error.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Init installs the default slog logger. With bufferOutput set nothing
// is written to a terminal until SetOutput is called. An empty file
// disables logging to a file.
func Init(bufferOutput bool, levelStr, format, file string) error {
	lvl, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}
	level.Set(lvl)

	w := &teeWriter{pending: &bytes.Buffer{}, buffering: bufferOutput}
	if !bufferOutput {
		w.target = os.Stderr
	}
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return fmt.Errorf("open log file %s: %w", file, err)
		}
		w.file = f
	}
	writer = w

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

// SetLevel changes the level of the running logger.
func SetLevel(levelStr string) error {
	lvl, err := ParseLevel(levelStr)
	if err != nil {
		return err
	}
	if lvl != level.Level() {
		level.Set(lvl)
		slog.Info("Log level changed", "level", lvl)
	}
	return nil
}

// Level returns the current level.
func Level() slog.Level {
	return level.Level()
}

// SetOutput flushes what was buffered to target and logs to it live
// from now on.
func SetOutput(target io.Writer) error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	if writer.pending.Len() > 0 {
		if _, err := target.Write(writer.pending.Bytes()); err != nil {
			return err
		}
		writer.pending.Reset()
	}
	writer.target = target
	writer.buffering = false
	return nil
}

// BufferOutput detaches the current target and buffers again.
func BufferOutput() {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	writer.target = nil
	writer.buffering = true
}

// Close closes the log file. Every line already went to the file in
// Write, so buffered lines are only written out (to stderr) when there
// is no file.
func Close() error {
	writer.mu.Lock()
	defer writer.mu.Unlock()

	var firstErr error
	if writer.file != nil {
		if err := writer.file.Close(); err != nil {
			firstErr = err
		}
		writer.file = nil
	} else if writer.target == nil && writer.pending.Len() > 0 {
		if _, err := os.Stderr.Write(writer.pending.Bytes()); err != nil {
			firstErr = err
		}
	}
	writer.pending.Reset()
	return firstErr
}
