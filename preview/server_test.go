package preview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	r "lautenbacher.net/gestureleds/ring"
)

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var f Frame
	require.NoError(t, json.Unmarshal(data, &f))
	return f
}

func TestServer_Commit(t *testing.T) {
	s := NewServer("")
	s.SetBrightness(51)
	s.Commit([]r.Color{r.RED, r.OFF})

	f, seq := s.frames.Latest()
	assert.Equal(t, uint64(1), seq)
	assert.Equal(t, uint64(1), f.FrameID)
	assert.Equal(t, uint8(51), f.Brightness)
	assert.Equal(t, []string{"RED", "OFF"}, f.Colors)
	require.Len(t, f.RGB, 6)
	assert.Equal(t, byte(51), f.RGB[0])
	assert.Equal(t, []byte{0, 0, 0}, f.RGB[3:])
}

func TestServer_FramesOverWebsocket(t *testing.T) {
	s := NewServer("")
	s.startBroadcast()
	defer s.Stop()
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	s.Commit([]r.Color{r.GREEN, r.GREEN, r.GREEN, r.GREEN})

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/frames"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	first := readFrame(t, conn)
	assert.Equal(t, uint64(1), first.FrameID)
	assert.Equal(t, []string{"GREEN", "GREEN", "GREEN", "GREEN"}, first.Colors)

	s.Commit([]r.Color{r.BLUE, r.OFF, r.OFF, r.OFF})
	var next Frame
	for next.FrameID < 2 {
		next = readFrame(t, conn)
	}
	assert.Equal(t, uint64(2), next.FrameID)
	assert.Equal(t, "BLUE", next.Colors[0])
}

func TestServer_Health(t *testing.T) {
	s := NewServer("")
	s.Commit([]r.Color{r.WHITE})
	rec := httptest.NewRecorder()

	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["frame_id"])
	assert.Equal(t, float64(0), resp["clients"])
}

func TestServer_StartAndStop(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	require.NoError(t, s.Start())
	s.Stop()
}

func TestServer_ListenError(t *testing.T) {
	s := NewServer("256.0.0.1:99999")
	assert.Error(t, s.Start())
}
