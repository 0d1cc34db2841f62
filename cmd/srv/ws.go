package main

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/strivelab/backend/internal/model"
	"github.com/strivelab/backend/pkg/ws"
	"github.com/strivelab/backend/pkg/xcontext"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// serveFriendsWs streams live friend aggregations to the client. The
// subscription lives as long as the connection.
func (s *srv) serveFriendsWs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wsConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot upgrade websocket: %v", err)
		return
	}

	conn := ws.NewConn(wsConn)
	defer conn.Close()

	sub, err := s.friendsDomain.Subscribe(ctx, "")
	if err != nil {
		_ = conn.Write(model.FriendsUpdate{Error: err.Error()})
		return
	}
	defer sub.Stop()

	for {
		select {
		case update, ok := <-sub.Updates():
			if !ok {
				return
			}

			if err := conn.Write(update); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot write to websocket: %v", err)
				return
			}

		case _, ok := <-conn.R:
			if !ok {
				// Client went away.
				return
			}
		}
	}
}
