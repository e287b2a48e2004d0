// Package server exposes the editor session over HTTP and streams palette
// changes to browsers over WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/saturn-colors/internal/editor"
	"github.com/Faultbox/saturn-colors/pkg/palette"
)

const (
	maxBodyBytes = 64 << 10
	writeWait    = 10 * time.Second
	sendBuffer   = 16
)

// Server serves the HTTP API for one session.
type Server struct {
	session  *editor.Session
	codec    *palette.Codec
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu          sync.Mutex
	clients     map[*client]struct{}
	unsubscribe func()
}

// client is one WebSocket connection. Palette updates coalesce in stale:
// the writer always sends the session's current palette, so a burst of
// changes ends on the newest one however slow the client is.
type client struct {
	conn    *websocket.Conn
	stale   chan struct{} // capacity 1
	replies chan []byte   // per-client answers such as errors
	done    chan struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:    conn,
		stale:   make(chan struct{}, 1),
		replies: make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}
}

// markStale asks the writer to send the current palette.
func (c *client) markStale() {
	select {
	case c.stale <- struct{}{}:
	default:
	}
}

// New creates a server. allowedOrigins limits WebSocket origins; empty
// allows any.
func New(session *editor.Session, codec *palette.Codec, allowedOrigins []string, log *zap.Logger) *Server {
	if codec == nil {
		codec = palette.NewCodec(palette.TableSM64US)
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		session: session,
		codec:   codec,
		log:     log,
		clients: make(map[*client]struct{}),
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: originChecker(allowedOrigins),
	}
	s.unsubscribe = session.Subscribe(s.broadcast)
	return s
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		return set[r.Header.Get("Origin")]
	}
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/palette", s.handleGetPalette)
	mux.HandleFunc("PUT /api/palette", s.handlePutPalette)
	mux.HandleFunc("POST /api/encode", s.handleEncode)
	mux.HandleFunc("POST /api/decode", s.handleDecode)
	mux.HandleFunc("POST /api/import", s.handleImport)
	mux.HandleFunc("POST /api/random", s.handleRandom)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	mux.HandleFunc("GET /ws", s.handleWS)
	return mux
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// Close stops broadcasting and disconnects every WebSocket client.
func (s *Server) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	for c := range s.clients {
		close(c.done)
		delete(s.clients, c)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Debug("writing response failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, Message{Type: TypeError, Error: err.Error()})
}

func readBody(r *http.Request) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (s *Server) handleGetPalette(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, toJSON(s.session.Snapshot(), s.codec))
}

func (s *Server) handlePutPalette(w http.ResponseWriter, r *http.Request) {
	var in PaletteJSON
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := applyJSON(s.session.Snapshot(), in)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.session.Replace(p)
	s.writeJSON(w, http.StatusOK, toJSON(p, s.codec))
}

// handleEncode turns a palette document into code text without touching the
// session. Slots left out of the body use stock colors.
func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	var in PaletteJSON
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&in); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := applyJSON(palette.Default(), in)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, s.codec.Encode(p))
}

// handleDecode parses code text into a palette without touching the session.
func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	text, err := readBody(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	p, err := s.codec.Decode(text)
	if err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toJSON(p, s.codec))
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	text, err := readBody(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.session.Import(text); err != nil {
		s.writeError(w, http.StatusUnprocessableEntity, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toJSON(s.session.Snapshot(), s.codec))
}

func (s *Server) handleRandom(w http.ResponseWriter, r *http.Request) {
	if r.URL.Query().Get("lucky") != "" {
		s.session.Lucky()
	} else {
		s.session.Randomize()
	}
	s.writeJSON(w, http.StatusOK, toJSON(s.session.Snapshot(), s.codec))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.session.Reset()
	s.writeJSON(w, http.StatusOK, toJSON(s.session.Snapshot(), s.codec))
}
