package entity

import "time"

// AdminInboxID is the single administrative identity on one side of every
// conversation.
const AdminInboxID = "admin"

type Message struct {
	BaseSimple
	SenderID   string `db:"sender_id" json:"sender_id"`
	ReceiverID string `db:"receiver_id" json:"receiver_id"`
	Body       string `db:"message" json:"message"`
	Read       bool   `db:"read" json:"read"`
}

type Conversation struct {
	UserID          string
	LastMessage     string
	LastMessageTime time.Time
	UnreadCount     int64
}
