package response

import (
	"time"

	"rental-booking/internal/data/entity"
)

type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Message    string    `json:"message"`
	Read       bool      `json:"read"`
	CreatedAt  time.Time `json:"created_at"`
}

type ConversationResponse struct {
	UserID          string    `json:"user_id"`
	UserName        string    `json:"user_name"`
	UserEmail       string    `json:"user_email"`
	LastMessage     string    `json:"last_message"`
	LastMessageTime time.Time `json:"last_message_time"`
	UnreadCount     int64     `json:"unread_count"`
}

type MarkReadResponse struct {
	Count int64 `json:"count"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

func MessageToResponse(m *entity.Message) MessageResponse {
	return MessageResponse{
		ID:         m.ID.String(),
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Message:    m.Body,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}
