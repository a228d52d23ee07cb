// Package chat implements the room-chat protocol core: connection registry,
// room directory, message routing, and broadcast fan-out over websockets.
package chat

import "encoding/json"

// Message types sent by the server.
const (
	TypeWelcome         = "welcome"
	TypeRoomList        = "room_list"
	TypeRoomJoined      = "room_joined"
	TypeRoomLeft        = "room_left"
	TypeRoomMessage     = "room_message"
	TypeUserJoined      = "user_joined"
	TypeUserLeft        = "user_left"
	TypeUserRenamed     = "user_renamed"
	TypeUsernameChanged = "username_changed"
	TypeError           = "error"
)

// Message types sent by the client. TypeRoomMessage appears in both directions.
const (
	TypeJoinRoom       = "join_room"
	TypeLeaveRoom      = "leave_room"
	TypeGetRooms       = "get_rooms"
	TypeChangeUsername = "change_username"
)

// Envelope is the outbound wire unit, one JSON object per websocket frame.
// Data is polymorphic: a []RoomSummary on room_list, absent otherwise.
// Timestamp is epoch milliseconds, server-assigned on room_message.
type Envelope struct {
	Type      string `json:"type"`
	Room      string `json:"room,omitempty"`
	Username  string `json:"username,omitempty"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp,omitempty"`
}

// Frame is an inbound envelope. Data stays raw until the router knows which
// shape the message type calls for.
type Frame struct {
	Type    string          `json:"type"`
	Room    string          `json:"room,omitempty"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// DataString decodes Data as a plain JSON string (room name on join_room,
// new name on change_username). Returns "" when Data is absent or not a string.
func (f *Frame) DataString() string {
	if len(f.Data) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(f.Data, &s); err != nil {
		return ""
	}
	return s
}

// RoomSummary is the room_list entry shape the browser client renders.
type RoomSummary struct {
	Name        string `json:"name"`
	MemberCount int    `json:"memberCount"`
}

// RoomInfo extends RoomSummary with member usernames for the REST listing.
type RoomInfo struct {
	Name        string   `json:"name"`
	MemberCount int      `json:"memberCount"`
	Members     []string `json:"members"`
}
