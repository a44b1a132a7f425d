package repository

import (
	"context"
	"fmt"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"

	"go.uber.org/zap"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error
	// FindThread returns the conversation between userID and the admin
	// inbox, oldest first.
	FindThread(ctx context.Context, userID string) ([]*entity.Message, error)
	// ListConversations returns one summary per user, newest activity first.
	ListConversations(ctx context.Context) ([]*entity.Conversation, error)
	MarkRead(ctx context.Context, senderID, receiverID string) (int64, error)
	CountUnread(ctx context.Context, receiverID string) (int64, error)
}

type messageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMessageRepository(db database.PgxIface, log *zap.Logger) MessageRepository {
	return &messageRepository{
		db:  db,
		log: log.With(zap.String("repository", "message")),
	}
}

func (r *messageRepository) Create(ctx context.Context, msg *entity.Message) error {
	query := `
		INSERT INTO messages (id, sender_id, receiver_id, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, msg.ID, msg.SenderID, msg.ReceiverID, msg.Body, msg.Read, msg.CreatedAt)
	if err != nil {
		r.log.Error("Failed to create message",
			zap.Error(err),
			zap.String("sender_id", msg.SenderID),
			zap.String("receiver_id", msg.ReceiverID),
		)
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *messageRepository) FindThread(ctx context.Context, userID string) ([]*entity.Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, message, read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID, entity.AdminInboxID)
	if err != nil {
		r.log.Error("Failed to load thread", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("load thread for %s: %w", userID, err)
	}
	defer rows.Close()

	var msgs []*entity.Message
	for rows.Next() {
		var m entity.Message
		if err := rows.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &m.Body, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		msgs = append(msgs, &m)
	}

	return msgs, rows.Err()
}

func (r *messageRepository) ListConversations(ctx context.Context) ([]*entity.Conversation, error) {
	query := `
		WITH admin_messages AS (
			SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END AS user_id,
			       message, created_at
			FROM messages
			WHERE sender_id = $1 OR receiver_id = $1
		), latest AS (
			SELECT DISTINCT ON (user_id) user_id, message, created_at
			FROM admin_messages
			ORDER BY user_id, created_at DESC
		)
		SELECT l.user_id, l.message, l.created_at,
		       (SELECT COUNT(*) FROM messages m
		        WHERE m.sender_id = l.user_id AND m.receiver_id = $1 AND m.read = FALSE)
		FROM latest l
		ORDER BY l.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, entity.AdminInboxID)
	if err != nil {
		r.log.Error("Failed to list conversations", zap.Error(err))
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	defer rows.Close()

	var convs []*entity.Conversation
	for rows.Next() {
		var c entity.Conversation
		if err := rows.Scan(&c.UserID, &c.LastMessage, &c.LastMessageTime, &c.UnreadCount); err != nil {
			return nil, fmt.Errorf("scan conversation: %w", err)
		}
		convs = append(convs, &c)
	}

	return convs, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, senderID, receiverID string) (int64, error) {
	query := `
		UPDATE messages
		SET read = TRUE
		WHERE sender_id = $1 AND receiver_id = $2 AND read = FALSE
	`

	result, err := r.db.Exec(ctx, query, senderID, receiverID)
	if err != nil {
		r.log.Error("Failed to mark messages read",
			zap.Error(err),
			zap.String("sender_id", senderID),
			zap.String("receiver_id", receiverID),
		)
		return 0, fmt.Errorf("mark messages read: %w", err)
	}

	return result.RowsAffected(), nil
}

func (r *messageRepository) CountUnread(ctx context.Context, receiverID string) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND read = FALSE`
	if err := r.db.QueryRow(ctx, query, receiverID).Scan(&count); err != nil {
		r.log.Error("Failed to count unread messages", zap.Error(err), zap.String("receiver_id", receiverID))
		return 0, fmt.Errorf("count unread for %s: %w", receiverID, err)
	}
	return count, nil
}
