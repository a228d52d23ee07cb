package chat

import (
	"sort"
	"sync"
)

// Directory tracks the set of rooms and their member connections. Rooms are
// created on first join and pruned when the last member leaves, so a listed
// room always has at least one member.
type Directory struct {
	mu    sync.RWMutex
	rooms map[string]map[string]struct{}
}

func NewDirectory() *Directory {
	return &Directory{
		rooms: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection to the named room, creating the room if absent.
// Joining a room the connection is already in is a no-op.
func (d *Directory) Join(room, connectionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, found := d.rooms[room]
	if !found {
		members = make(map[string]struct{})
		d.rooms[room] = members
	}
	members[connectionID] = struct{}{}
}

// Leave removes the connection from the named room, pruning the room once
// empty. A leave for an unknown room or non-member is a no-op.
func (d *Directory) Leave(room, connectionID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, found := d.rooms[room]
	if !found {
		return
	}
	delete(members, connectionID)
	if len(members) == 0 {
		delete(d.rooms, room)
	}
}

// ListRooms returns summaries in lexicographic name order; the ordering is
// stable across calls absent mutation.
func (d *Directory) ListRooms() []RoomSummary {
	d.mu.RLock()
	defer d.mu.RUnlock()

	summaries := make([]RoomSummary, 0, len(d.rooms))
	for name, members := range d.rooms {
		summaries = append(summaries, RoomSummary{
			Name:        name,
			MemberCount: len(members),
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Name < summaries[j].Name
	})
	return summaries
}

// MembersOf returns the connection IDs currently in the room, used for
// broadcast fan-out. The result is a copy and safe to iterate while the
// directory mutates.
func (d *Directory) MembersOf(room string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members, found := d.rooms[room]
	if !found {
		return nil
	}

	ids := make([]string, 0, len(members))
	for id := range members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (d *Directory) RoomCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
