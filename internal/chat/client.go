package chat

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	sendBufferSize = 32
	pingInterval   = 30 * time.Second
	maxFrameBytes  = 512 * 1024
)

// Client is one live websocket connection. The hub loop owns its protocol
// state; the client only moves bytes: readPump feeds inbound frames to the
// hub, writePump drains the send channel, keepAlive pings the peer.
type Client struct {
	Conn     *websocket.Conn
	ID       string
	Username string
	Token    string

	send     chan *Envelope
	done     chan struct{}
	mu       sync.Mutex
	isClosed bool
}

func newClient(conn *websocket.Conn, id, username, token string) *Client {
	return &Client{
		Conn:     conn,
		ID:       id,
		Username: username,
		Token:    token,
		send:     make(chan *Envelope, sendBufferSize),
		done:     make(chan struct{}),
	}
}

// closeSend closes the send channel exactly once, letting writePump wind
// down. Called by the hub when it removes the client.
func (cl *Client) closeSend() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.isClosed {
		return
	}
	cl.isClosed = true
	close(cl.send)
}

func (cl *Client) keepAlive() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-cl.done:
			return
		case <-ticker.C:
			if err := cl.Conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}
}

func (cl *Client) writePump() {
	defer cl.Conn.Close()

	for envelope := range cl.send {
		if err := cl.Conn.WriteJSON(envelope); err != nil {
			log.Printf("Error writing to client %s: %v", cl.ID, err)
			return
		}
	}

	// Channel closed by the hub; say goodbye properly before the deferred
	// close tears the connection down.
	deadline := time.Now().Add(time.Second)
	_ = cl.Conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
}

func (cl *Client) readPump(hub *Hub) {
	defer func() {
		close(cl.done)
		hub.unregister <- cl
		log.Printf("Client %s (%s) disconnected", cl.ID, cl.Username)
	}()

	cl.Conn.SetReadLimit(maxFrameBytes)

	for {
		_, payload, err := cl.Conn.ReadMessage()
		if err != nil {
			// Close-code-agnostic: clean and abnormal closes run the same
			// cleanup; only unexpected ones are worth logging.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				log.Printf("Error reading from client %s: %v", cl.ID, err)
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(payload, &frame); err != nil {
			// Bad envelope shape is dropped; the connection stays alive.
			log.Printf("Dropping malformed frame from client %s: %v", cl.ID, err)
			continue
		}

		hub.inbound <- inboundFrame{
			connectionID: cl.ID,
			frame:        &frame,
		}
	}
}
