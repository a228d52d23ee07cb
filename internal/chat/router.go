package chat

import (
	"fmt"
	"log"
	"sync"
	"time"
)

// Sender delivers one envelope to one live connection. Implementations are
// best-effort: a false return means the connection is dead and the caller
// will be handed a Disconnect for it.
type Sender interface {
	SendTo(connectionID string, envelope *Envelope) bool
}

// MessageHook observes every relayed room message, e.g. for archiving to
// storage or publishing to an external bus. Hooks must not block.
type MessageHook func(room, username, message string, sentAt time.Time)

// Router is the protocol state machine. It decodes inbound frames, validates
// them against session state, mutates registry and directory as a pair, and
// fans the resulting envelopes out through the Sender.
//
// All exported methods serialize on an internal mutex, so a join/leave and
// its SetCurrentRoom update are never observed half-applied.
type Router struct {
	mu        sync.Mutex
	registry  *Registry
	directory *Directory
	sender    Sender
	hooks     []MessageHook
	now       func() time.Time
}

func NewRouter(registry *Registry, directory *Directory, sender Sender, hooks ...MessageHook) *Router {
	return &Router{
		registry:  registry,
		directory: directory,
		sender:    sender,
		hooks:     hooks,
		now:       time.Now,
	}
}

// Connect registers the session and sends the welcome envelope followed by
// an initial room_list. The ordering is part of the protocol contract.
func (rt *Router) Connect(connectionID, username, token string) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	session, err := rt.registry.Register(connectionID, username, token)
	if err != nil {
		return err
	}

	rt.sender.SendTo(connectionID, &Envelope{
		Type:    TypeWelcome,
		Message: fmt.Sprintf("Welcome to the chat, %s!", session.Username),
	})
	rt.sender.SendTo(connectionID, &Envelope{
		Type: TypeRoomList,
		Data: rt.directory.ListRooms(),
	})
	return nil
}

// HandleFrame processes one inbound frame from a connected client. Invalid
// frames never tear down the connection: they are dropped with a unicast
// error acknowledgment, and unknown types are ignored outright so newer
// clients keep working against this server.
func (rt *Router) HandleFrame(connectionID string, frame *Frame) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	session, err := rt.registry.Lookup(connectionID)
	if err != nil {
		return
	}

	switch frame.Type {
	case TypeGetRooms:
		rt.sender.SendTo(connectionID, &Envelope{
			Type: TypeRoomList,
			Data: rt.directory.ListRooms(),
		})

	case TypeJoinRoom:
		rt.handleJoin(session, frame.DataString())

	case TypeLeaveRoom:
		rt.handleLeave(session)

	case TypeRoomMessage:
		rt.handleRoomMessage(session, frame.Message)

	case TypeChangeUsername:
		rt.handleRename(session, frame.DataString())

	default:
		log.Printf("Ignoring unknown message type %q from %s", frame.Type, connectionID)
	}
}

// Disconnect runs close cleanup for a connection: leave the held room,
// notify its members, and drop the session. Safe to call more than once;
// only the first call for a live session does anything, so racing transport
// failures and an explicit close collapse to a single cleanup.
func (rt *Router) Disconnect(connectionID string) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	session, err := rt.registry.Lookup(connectionID)
	if err != nil {
		return
	}

	rt.registry.Unregister(connectionID)

	if session.CurrentRoom != "" {
		rt.directory.Leave(session.CurrentRoom, connectionID)
		rt.broadcast(session.CurrentRoom, &Envelope{
			Type:     TypeUserLeft,
			Room:     session.CurrentRoom,
			Username: session.Username,
			Message:  fmt.Sprintf("%s has left the room.", session.Username),
		}, "")
	}
}

func (rt *Router) handleJoin(session Session, room string) {
	if room == "" {
		rt.sendError(session.ConnectionID, "Room name cannot be empty")
		return
	}

	if session.CurrentRoom == room {
		// Already a member; re-acknowledge without touching membership.
		rt.sendRoomJoined(session.ConnectionID, room)
		return
	}

	if session.CurrentRoom != "" {
		old := session.CurrentRoom
		rt.directory.Leave(old, session.ConnectionID)
		rt.broadcast(old, &Envelope{
			Type:     TypeUserLeft,
			Room:     old,
			Username: session.Username,
			Message:  fmt.Sprintf("%s has left the room.", session.Username),
		}, session.ConnectionID)
	}

	rt.directory.Join(room, session.ConnectionID)
	if err := rt.registry.SetCurrentRoom(session.ConnectionID, room); err != nil {
		// Session vanished mid-join; undo the membership we just added.
		rt.directory.Leave(room, session.ConnectionID)
		return
	}

	rt.sendRoomJoined(session.ConnectionID, room)
	rt.broadcast(room, &Envelope{
		Type:     TypeUserJoined,
		Room:     room,
		Username: session.Username,
		Message:  fmt.Sprintf("%s has joined the room.", session.Username),
	}, session.ConnectionID)
}

func (rt *Router) handleLeave(session Session) {
	if session.CurrentRoom == "" {
		rt.sendError(session.ConnectionID, "You are not in a room")
		return
	}

	room := session.CurrentRoom
	rt.directory.Leave(room, session.ConnectionID)
	if err := rt.registry.SetCurrentRoom(session.ConnectionID, ""); err != nil {
		return
	}

	rt.sender.SendTo(session.ConnectionID, &Envelope{
		Type:    TypeRoomLeft,
		Room:    room,
		Message: fmt.Sprintf("You left %s", room),
	})
	rt.broadcast(room, &Envelope{
		Type:     TypeUserLeft,
		Room:     room,
		Username: session.Username,
		Message:  fmt.Sprintf("%s has left the room.", session.Username),
	}, session.ConnectionID)
}

func (rt *Router) handleRoomMessage(session Session, message string) {
	if session.CurrentRoom == "" {
		rt.sendError(session.ConnectionID, "You must join a room first to send messages")
		return
	}
	if message == "" {
		rt.sendError(session.ConnectionID, "Message cannot be empty")
		return
	}

	sentAt := rt.now()
	rt.broadcast(session.CurrentRoom, &Envelope{
		Type:      TypeRoomMessage,
		Room:      session.CurrentRoom,
		Username:  session.Username,
		Message:   message,
		Timestamp: sentAt.UnixMilli(),
	}, "")

	for _, hook := range rt.hooks {
		hook(session.CurrentRoom, session.Username, message, sentAt)
	}
}

func (rt *Router) handleRename(session Session, newUsername string) {
	if newUsername == session.Username {
		// Nothing changed; suppress the ack and the broadcast entirely.
		return
	}

	if err := rt.registry.Rename(session.ConnectionID, newUsername); err != nil {
		rt.sendError(session.ConnectionID, err.Error())
		return
	}

	renamed, err := rt.registry.Lookup(session.ConnectionID)
	if err != nil {
		return
	}

	rt.sender.SendTo(session.ConnectionID, &Envelope{
		Type:     TypeUsernameChanged,
		Username: renamed.Username,
		// The client derives the new name from the last word of this text.
		Message: fmt.Sprintf("Username changed to %s", renamed.Username),
	})

	if session.CurrentRoom != "" {
		rt.broadcast(session.CurrentRoom, &Envelope{
			Type:     TypeUserRenamed,
			Room:     session.CurrentRoom,
			Username: renamed.Username,
			Message:  fmt.Sprintf("%s is now known as %s", session.Username, renamed.Username),
		}, session.ConnectionID)
	}
}

func (rt *Router) sendRoomJoined(connectionID, room string) {
	rt.sender.SendTo(connectionID, &Envelope{
		Type:    TypeRoomJoined,
		Room:    room,
		Message: fmt.Sprintf("Welcome to %s", room),
	})
}

func (rt *Router) sendError(connectionID, message string) {
	rt.sender.SendTo(connectionID, &Envelope{
		Type:    TypeError,
		Message: message,
	})
}

// broadcast fans an envelope out to every member of the room, skipping
// excluding when non-empty. Delivery failures are isolated per recipient;
// the Sender reports them and schedules cleanup on its own.
func (rt *Router) broadcast(room string, envelope *Envelope, excluding string) {
	for _, connectionID := range rt.directory.MembersOf(room) {
		if connectionID == excluding {
			continue
		}
		rt.sender.SendTo(connectionID, envelope)
	}
}
