package chat

import (
	"reflect"
	"testing"
)

func TestDirectoryJoinCreatesRoom(t *testing.T) {
	directory := NewDirectory()

	directory.Join("general", "c1")

	rooms := directory.ListRooms()
	if len(rooms) != 1 {
		t.Fatalf("expected 1 room, got %d", len(rooms))
	}
	if rooms[0].Name != "general" || rooms[0].MemberCount != 1 {
		t.Fatalf("unexpected summary: %#v", rooms[0])
	}
}

func TestDirectoryJoinIsIdempotent(t *testing.T) {
	directory := NewDirectory()

	directory.Join("general", "c1")
	directory.Join("general", "c1")

	if got := directory.ListRooms()[0].MemberCount; got != 1 {
		t.Fatalf("expected 1 member after double join, got %d", got)
	}
}

func TestDirectoryLeavePrunesEmptyRoom(t *testing.T) {
	directory := NewDirectory()

	directory.Join("general", "c1")
	directory.Join("general", "c2")

	directory.Leave("general", "c1")
	if got := directory.ListRooms()[0].MemberCount; got != 1 {
		t.Fatalf("expected 1 member, got %d", got)
	}

	directory.Leave("general", "c2")
	if got := directory.RoomCount(); got != 0 {
		t.Fatalf("expected empty room to be pruned, have %d rooms", got)
	}
}

func TestDirectoryLeaveUnknownRoomIsNoop(t *testing.T) {
	directory := NewDirectory()
	directory.Leave("nowhere", "c1")
	directory.Join("general", "c1")
	directory.Leave("general", "stranger")

	if got := directory.ListRooms()[0].MemberCount; got != 1 {
		t.Fatalf("expected 1 member, got %d", got)
	}
}

func TestDirectoryListRoomsSorted(t *testing.T) {
	directory := NewDirectory()
	directory.Join("zebra", "c1")
	directory.Join("alpha", "c2")
	directory.Join("mango", "c3")

	var names []string
	for _, room := range directory.ListRooms() {
		names = append(names, room.Name)
	}
	if !reflect.DeepEqual(names, []string{"alpha", "mango", "zebra"}) {
		t.Fatalf("expected sorted names, got %v", names)
	}
}

func TestDirectoryMembersOf(t *testing.T) {
	directory := NewDirectory()
	directory.Join("general", "c2")
	directory.Join("general", "c1")

	members := directory.MembersOf("general")
	if !reflect.DeepEqual(members, []string{"c1", "c2"}) {
		t.Fatalf("expected [c1 c2], got %v", members)
	}
	if got := directory.MembersOf("nowhere"); got != nil {
		t.Fatalf("expected nil for unknown room, got %v", got)
	}
}
