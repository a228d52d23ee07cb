package dto

type RoomInfo struct {
	Name        string   `json:"name"`
	MemberCount int      `json:"memberCount"`
	Members     []string `json:"members"`
}

type RoomListResponse struct {
	Rooms []RoomInfo `json:"rooms"`
}

type MessageResponse struct {
	Username  string `json:"username"`
	Message   string `json:"message"`
	Timestamp int64  `json:"timestamp"`
}

type MessageListResponse struct {
	Room     string            `json:"room"`
	Messages []MessageResponse `json:"messages"`
}
