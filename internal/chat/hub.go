package chat

import (
	"log"
)

type inboundFrame struct {
	connectionID string
	frame        *Frame
}

// Hub owns the set of live client connections and runs the single event loop
// that feeds the router. Because every register, inbound frame, and
// unregister passes through the loop, frames from one connection are handled
// in arrival order and broadcasts preserve each sender's causal order.
type Hub struct {
	router     *Router
	registry   *Registry
	directory  *Directory
	clients    map[string]*Client
	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame

	// Connections that failed a send during the current event; drained
	// after each event so cleanup never recurses into a broadcast.
	dead []string
}

func NewHub(registry *Registry, directory *Directory, hooks ...MessageHook) *Hub {
	h := &Hub{
		registry:   registry,
		directory:  directory,
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame, 64),
	}
	h.router = NewRouter(registry, directory, h, hooks...)
	return h
}

func (h *Hub) Router() *Router {
	return h.router
}

// RoomInfos builds the REST room listing: every room with its member
// usernames resolved through the registry.
func (h *Hub) RoomInfos() []RoomInfo {
	summaries := h.directory.ListRooms()
	infos := make([]RoomInfo, 0, len(summaries))

	for _, summary := range summaries {
		members := make([]string, 0, summary.MemberCount)
		for _, connectionID := range h.directory.MembersOf(summary.Name) {
			session, err := h.registry.Lookup(connectionID)
			if err != nil {
				continue
			}
			members = append(members, session.Username)
		}
		infos = append(infos, RoomInfo{
			Name:        summary.Name,
			MemberCount: summary.MemberCount,
			Members:     members,
		})
	}
	return infos
}

// Run is the hub event loop. It must run in its own goroutine and runs for
// the life of the process.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client.ID] = client
			incConnections()
			if err := h.router.Connect(client.ID, client.Username, client.Token); err != nil {
				log.Printf("Rejecting connection %s: %v", client.ID, err)
				h.removeClient(client.ID)
			}

		case client := <-h.unregister:
			if _, found := h.clients[client.ID]; found {
				h.router.Disconnect(client.ID)
				h.removeClient(client.ID)
			}

		case msg := <-h.inbound:
			h.router.HandleFrame(msg.connectionID, msg.frame)
		}

		h.reapDead()
		setRooms(h.directory.RoomCount())
	}
}

// SendTo implements Sender. Called only from the hub loop goroutine (the
// router runs inside it), so the clients map needs no lock here. A full send
// buffer means the peer stopped reading; the connection is marked dead and
// reaped after the current event.
func (h *Hub) SendTo(connectionID string, envelope *Envelope) bool {
	client, found := h.clients[connectionID]
	if !found {
		return false
	}

	select {
	case client.send <- envelope:
		addDelivered(1)
		return true
	default:
		log.Printf("Send buffer full for %s; dropping connection", connectionID)
		h.dead = append(h.dead, connectionID)
		return false
	}
}

// reapDead runs close cleanup for connections that failed a send. Cleanup
// broadcasts user_left, which can itself mark more connections dead, so the
// loop drains until quiet. removeClient makes each cleanup run at most once.
func (h *Hub) reapDead() {
	for len(h.dead) > 0 {
		connectionID := h.dead[0]
		h.dead = h.dead[1:]

		if _, found := h.clients[connectionID]; !found {
			continue
		}
		h.router.Disconnect(connectionID)
		h.removeClient(connectionID)
	}
}

func (h *Hub) removeClient(connectionID string) {
	client, found := h.clients[connectionID]
	if !found {
		return
	}
	delete(h.clients, connectionID)
	client.closeSend()
	decConnections()
}
