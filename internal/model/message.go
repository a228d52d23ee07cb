package model

const MessagesTable = "RoomMessages"

// MessageItem is one archived room message. The table is keyed by room
// (partition) and sentAt (sort), so recent-history queries are a single
// partition read in reverse order.
type MessageItem struct {
	Room      string `dynamodbav:"room"`
	SentAt    int64  `dynamodbav:"sentAt"`
	MessageID string `dynamodbav:"messageId"`
	Username  string `dynamodbav:"username"`
	Body      string `dynamodbav:"body"`
}
