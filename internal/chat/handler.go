package chat

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeConnection upgrades the request and hands the connection to the hub.
// The caller has already authenticated the token and resolved the username.
// Returns after the pumps are started; the connection outlives the request
// handler.
func ServeConnection(hub *Hub, w http.ResponseWriter, r *http.Request, username, token string) error {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return err
	}

	client := newClient(conn, uuid.NewString(), username, token)
	hub.register <- client

	go client.writePump()
	go client.readPump(hub)
	go client.keepAlive()

	return nil
}
