package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	r "lautenbacher.net/gestureleds/ring"
	u "lautenbacher.net/gestureleds/util"
)

const WRITE_TIMEOUT = 200 * time.Millisecond

// Frame is what a browser receives for every committed ring frame.
type Frame struct {
	T          int64    `json:"t"`
	FrameID    uint64   `json:"frame_id"`
	Brightness uint8    `json:"brightness"`
	Colors     []string `json:"colors"`
	RGB        []byte   `json:"rgb"`
}

// Server is a ring.Display that mirrors the ring to websocket clients.
// Commit never blocks the controller; a separate goroutine broadcasts
// the newest frame.
type Server struct {
	listen     string
	brightness uint8
	frames     *u.AtomicEvent[Frame]
	startTime  time.Time

	mu      sync.Mutex
	clients map[*websocket.Conn]bool

	srv      *http.Server
	stopChan chan bool
	wg       sync.WaitGroup
}

func NewServer(listen string) *Server {
	return &Server{
		listen:     listen,
		brightness: 255,
		frames:     u.NewAtomicEvent[Frame](),
		startTime:  time.Now(),
		clients:    map[*websocket.Conn]bool{},
		stopChan:   make(chan bool),
	}
}

func (s *Server) SetBrightness(level uint8) {
	s.brightness = level
}

func (s *Server) Commit(frame []r.Color) {
	_, seq := s.frames.Latest()
	f := Frame{
		T:          time.Now().UnixNano(),
		FrameID:    seq + 1,
		Brightness: s.brightness,
		Colors:     make([]string, len(frame)),
		RGB:        make([]byte, 0, 3*len(frame)),
	}
	for i, led := range r.ToLeds(frame, s.brightness, nil) {
		f.Colors[i] = frame[i].String()
		f.RGB = append(f.RGB, channel(led.Red), channel(led.Green), channel(led.Blue))
	}
	s.frames.Send(f)
}

func channel(v float64) byte {
	return byte(math.Round(math.Min(math.Max(v, 0), 255)))
}

// Handler routes /ws/frames and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws/frames", s.HandleFramesWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

// Start listens on the configured address and starts broadcasting.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("preview: listen on %s: %w", s.listen, err)
	}
	s.srv = &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 5 * time.Second}
	s.startBroadcast()
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Preview server failed", "error", err)
		}
	}()
	slog.Info("Preview server listening", "addr", ln.Addr().String())
	return nil
}

func (s *Server) startBroadcast() {
	s.wg.Add(1)
	go s.broadcastDriver()
}

// Stop shuts the HTTP server down and closes all client connections.
func (s *Server) Stop() {
	close(s.stopChan)
	s.wg.Wait()
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.srv.Shutdown(ctx); err != nil {
			slog.Error("Error shutting down preview server", "error", err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.Close()
		delete(s.clients, c)
	}
}

func (s *Server) broadcastDriver() {
	defer s.wg.Done()
	for {
		select {
		case <-s.stopChan:
			slog.Info("Ending preview broadcast go-routine")
			return
		case <-s.frames.Channel():
			s.broadcastFrame(s.frames.Value())
		}
	}
}

func (s *Server) broadcastFrame(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		slog.Error("Error encoding preview frame", "error", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
		if err := c.WriteMessage(websocket.TextMessage, b); err != nil {
			slog.Debug("Dropping preview client", "error", err)
			c.Close()
			delete(s.clients, c)
		}
	}
}

// HandleFramesWS upgrades to a websocket, sends the current frame and
// registers the client for all following ones.
func (s *Server) HandleFramesWS(w http.ResponseWriter, req *http.Request) {
	up := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := up.Upgrade(w, req, nil)
	if err != nil {
		slog.Debug("Websocket upgrade failed", "error", err)
		return
	}

	s.mu.Lock()
	s.clients[conn] = true
	if f, seq := s.frames.Latest(); seq > 0 {
		if b, err := json.Marshal(f); err == nil {
			conn.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT))
			_ = conn.WriteMessage(websocket.TextMessage, b)
		}
	}
	s.mu.Unlock()
	slog.Info("Preview client connected", "remote", req.RemoteAddr)

	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.clients, conn)
			s.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) HandleHealth(w http.ResponseWriter, req *http.Request) {
	_, seq := s.frames.Latest()
	s.mu.Lock()
	clients := len(s.clients)
	s.mu.Unlock()
	resp := map[string]any{
		"frame_id": seq,
		"clients":  clients,
		"uptime_s": time.Since(s.startTime).Seconds(),
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
