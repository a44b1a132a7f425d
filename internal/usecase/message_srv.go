package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const eventNewMessage = "newMessage"

// Caller is the authenticated side of a messaging request.
type Caller struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// Identity is the messaging id: "admin" for staff, the user id otherwise.
func (c Caller) Identity() string {
	if c.IsAdmin {
		return entity.AdminInboxID
	}
	return c.UserID.String()
}

// MessageService relays chat between customers and the shared admin inbox.
type MessageService interface {
	Send(ctx context.Context, caller Caller, req *request.SendMessageRequest) (*response.MessageResponse, error)
	Thread(ctx context.Context, caller Caller, userID string) ([]response.MessageResponse, error)
	Conversations(ctx context.Context) ([]response.ConversationResponse, error)
	MarkRead(ctx context.Context, caller Caller, userID string, readByAdmin bool) (*response.MarkReadResponse, error)
	UnreadCount(ctx context.Context, caller Caller, receiverID string) (*response.UnreadCountResponse, error)
}

type messageService struct {
	repo    *repository.Repository
	emitter Emitter
	log     *zap.Logger
}

func NewMessageService(repo *repository.Repository, emitter Emitter, log *zap.Logger) MessageService {
	return &messageService{
		repo:    repo,
		emitter: emitter,
		log:     log.With(zap.String("service", "message")),
	}
}

func (s *messageService) Send(ctx context.Context, caller Caller, req *request.SendMessageRequest) (*response.MessageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	receiver := strings.TrimSpace(req.ReceiverID)
	if caller.IsAdmin {
		if receiver == entity.AdminInboxID {
			return nil, newError(ErrValidation, "Admin cannot message the admin inbox")
		}
		if _, err := uuid.Parse(receiver); err != nil {
			return nil, newError(ErrValidation, "Invalid receiver")
		}
	} else if receiver != entity.AdminInboxID {
		return nil, newError(ErrValidation, "Messages can only be sent to admin")
	}

	msg := &entity.Message{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		SenderID:   caller.Identity(),
		ReceiverID: receiver,
		Body:       req.Message,
	}

	if err := s.repo.Message.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	resp := response.MessageToResponse(msg)
	if s.emitter != nil {
		if err := s.emitter.EmitToUser(ctx, receiver, eventNewMessage, resp); err != nil {
			s.log.Warn("Failed to push message", zap.String("receiver_id", receiver), zap.Error(err))
		}
	}
	return &resp, nil
}

// canAccess allows staff into any thread and customers into their own.
func canAccess(caller Caller, userID string) bool {
	return caller.IsAdmin || userID == caller.UserID.String()
}

func (s *messageService) Thread(ctx context.Context, caller Caller, userID string) ([]response.MessageResponse, error) {
	if !canAccess(caller, userID) {
		return nil, newError(ErrForbidden, "You can only read your own messages")
	}

	msgs, err := s.repo.Message.FindThread(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}

	out := make([]response.MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, response.MessageToResponse(m))
	}
	return out, nil
}

func (s *messageService) Conversations(ctx context.Context) ([]response.ConversationResponse, error) {
	convs, err := s.repo.Message.ListConversations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(convs))
	for _, c := range convs {
		if id, err := uuid.Parse(c.UserID); err == nil {
			ids = append(ids, id)
		}
	}
	users, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load conversation users: %w", err)
	}

	out := make([]response.ConversationResponse, 0, len(convs))
	for _, c := range convs {
		item := response.ConversationResponse{
			UserID:          c.UserID,
			UserName:        "Unknown User",
			LastMessage:     c.LastMessage,
			LastMessageTime: c.LastMessageTime,
			UnreadCount:     c.UnreadCount,
		}
		if id, err := uuid.Parse(c.UserID); err == nil {
			if u, ok := users[id]; ok {
				item.UserName = u.FullName
				item.UserEmail = u.Email
			}
		}
		out = append(out, item)
	}
	return out, nil
}

// MarkRead clears one direction of a thread. readByAdmin marks what the user
// sent to admin; otherwise what admin sent to the user.
func (s *messageService) MarkRead(ctx context.Context, caller Caller, userID string, readByAdmin bool) (*response.MarkReadResponse, error) {
	sender, receiver := entity.AdminInboxID, userID
	if readByAdmin {
		if !caller.IsAdmin {
			return nil, newError(ErrForbidden, "Admin access required")
		}
		sender, receiver = userID, entity.AdminInboxID
	} else if !canAccess(caller, userID) {
		return nil, newError(ErrForbidden, "You can only read your own messages")
	}

	count, err := s.repo.Message.MarkRead(ctx, sender, receiver)
	if err != nil {
		return nil, fmt.Errorf("mark messages read: %w", err)
	}

	s.log.Debug("Messages marked read", zap.String("sender_id", sender), zap.String("receiver_id", receiver), zap.Int64("count", count))
	return &response.MarkReadResponse{Count: count}, nil
}

func (s *messageService) UnreadCount(ctx context.Context, caller Caller, receiverID string) (*response.UnreadCountResponse, error) {
	if !canAccess(caller, receiverID) {
		return nil, newError(ErrForbidden, "You can only read your own messages")
	}

	count, err := s.repo.Message.CountUnread(ctx, receiverID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	return &response.UnreadCountResponse{UnreadCount: count}, nil
}
