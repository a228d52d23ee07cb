package chat

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"room-chat-backend/utils"
)

var (
	ErrNotFound            = errors.New("chat: connection not found")
	ErrDuplicateConnection = errors.New("chat: connection already registered")
)

// Session is the per-connection state held by the registry. CurrentRoom is
// empty while the connection is not in any room; when set it must match a
// directory membership, which the router keeps in step.
type Session struct {
	ConnectionID string
	Username     string
	Token        string
	CurrentRoom  string
}

// Registry is the single source of truth for live connections. Callers get
// value copies; all mutation goes through registry methods.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

func (r *Registry) Register(connectionID, username, token string) (Session, error) {
	name, err := utils.NormalizeUsername(username)
	if err != nil {
		return Session{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.sessions[connectionID]; found {
		return Session{}, fmt.Errorf("%w: %s", ErrDuplicateConnection, connectionID)
	}

	session := &Session{
		ConnectionID: connectionID,
		Username:     name,
		Token:        token,
	}
	r.sessions[connectionID] = session

	return *session, nil
}

func (r *Registry) Lookup(connectionID string) (Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, found := r.sessions[connectionID]
	if !found {
		return Session{}, fmt.Errorf("%w: %s", ErrNotFound, connectionID)
	}
	return *session, nil
}

// Rename updates the session's display name. Room membership is untouched;
// broadcasting the change is the router's job.
func (r *Registry) Rename(connectionID, newUsername string) error {
	name, err := utils.NormalizeUsername(newUsername)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	session, found := r.sessions[connectionID]
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, connectionID)
	}
	session.Username = name
	return nil
}

// SetCurrentRoom records which room the connection occupies; the empty string
// clears it. Only the router calls this, paired with a directory mutation.
func (r *Registry) SetCurrentRoom(connectionID, room string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, found := r.sessions[connectionID]
	if !found {
		return fmt.Errorf("%w: %s", ErrNotFound, connectionID)
	}
	session.CurrentRoom = room
	return nil
}

func (r *Registry) Unregister(connectionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, connectionID)
}

// AllConnections returns a snapshot of every live session, ordered by
// connection ID so repeated calls are stable.
func (r *Registry) AllConnections() []Session {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]Session, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, *session)
	}
	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].ConnectionID < sessions[j].ConnectionID
	})
	return sessions
}
