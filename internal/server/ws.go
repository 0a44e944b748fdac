package server

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// handleWS streams snapshot updates over a WebSocket connection.
//
// The connection receives the current snapshot immediately, then every
// update until the client disconnects or the server shuts down. The stream
// is one-way; messages from the client are ignored.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", "error", err, "remote", r.RemoteAddr)
		return
	}
	defer func() { _ = conn.CloseNow() }()

	ctx := r.Context()
	s.logger.Debug("websocket client connected", "remote", r.RemoteAddr)

	ch := s.store.Subscribe()
	defer s.store.Unsubscribe(ch)

	if snap, ok := s.store.Get(); ok {
		if err := wsjson.Write(ctx, conn, snap); err != nil {
			return
		}
	}

	for {
		select {
		case snap, ok := <-ch:
			if !ok {
				_ = conn.Close(websocket.StatusNormalClosure, "shutting down")
				return
			}
			if err := wsjson.Write(ctx, conn, snap); err != nil {
				s.logger.Debug("websocket client disconnected", "remote", r.RemoteAddr)
				return
			}
		case <-ctx.Done():
			_ = conn.Close(websocket.StatusNormalClosure, "shutting down")
			return
		}
	}
}
