package model

import "time"

// Conversation 描述一个会话及其最近消息摘要。
type Conversation struct {
	ID          string
	Peer        User
	LastMessage string
	UnreadCount int
	UpdatedAt   time.Time
}

// Message 描述会话中的一条消息。
type Message struct {
	ID             string
	ConversationID string
	SenderID       string
	Text           string
	SentAt         time.Time
	Read           bool
}
