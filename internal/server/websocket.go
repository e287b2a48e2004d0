package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/Faultbox/saturn-colors/pkg/palette"
)

func (s *Server) paletteMessage(p palette.Palette) []byte {
	pj := toJSON(p, s.codec)
	data, _ := json.Marshal(Message{Type: TypePalette, Palette: &pj})
	return data
}

// broadcast marks every client stale. The palette itself is read when the
// frame is written.
func (s *Server) broadcast(palette.Palette) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		c.markStale()
	}
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	// Register before the first frame so no change can fall in between.
	c := newClient(conn)
	c.markStale()
	s.mu.Lock()
	s.clients[c] = struct{}{}
	count := len(s.clients)
	s.mu.Unlock()
	s.log.Info("client connected", zap.String("remote", r.RemoteAddr), zap.Int("clients", count))

	go s.writeLoop(c)
	s.readLoop(c)
}

func (s *Server) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; ok {
		delete(s.clients, c)
		close(c.done)
	}
}

func (s *Server) writeLoop(c *client) {
	defer c.conn.Close()
	for {
		var data []byte
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-c.stale:
			data = s.paletteMessage(s.session.Snapshot())
		case data = <-c.replies:
		}

		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			s.log.Debug("websocket write failed", zap.Error(err))
			s.removeClient(c)
			return
		}
	}
}

func (s *Server) readLoop(c *client) {
	defer s.removeClient(c)
	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		if err := s.apply(msg); err != nil {
			s.reply(c, Message{Type: TypeError, Error: err.Error()})
		}
	}
}

// reply queues a message for one client, unless it is gone or backed up.
func (s *Server) reply(c *client, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	select {
	case c.replies <- data:
	default:
		s.log.Debug("dropping reply for slow client")
	}
}

// apply runs a client command against the session. Successful commands are
// answered by the broadcast that the session change triggers.
func (s *Server) apply(msg Message) error {
	switch msg.Type {
	case TypeSet:
		slot, err := palette.ParseSlot(msg.Slot)
		if err != nil {
			return err
		}
		field, err := palette.ParseField(msg.Field)
		if err != nil {
			return err
		}
		return s.session.SetHex(slot, field, msg.Color)
	case TypeRandom:
		s.session.Randomize()
	case TypeLucky:
		s.session.Lucky()
	case TypeReset:
		s.session.Reset()
	case TypeImport:
		return s.session.Import(msg.Code)
	default:
		return fmt.Errorf("unknown message type %q", msg.Type)
	}
	return nil
}
