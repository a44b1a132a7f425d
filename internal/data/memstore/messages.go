package memstore

import (
	"context"
	"sort"

	"rental-booking/internal/data/entity"
)

type messageStore struct{ *db }

func (s *messageStore) Create(_ context.Context, msg *entity.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *msg
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *messageStore) FindThread(_ context.Context, userID string) ([]*entity.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var thread []*entity.Message
	for _, m := range s.messages {
		if (m.SenderID == userID && m.ReceiverID == entity.AdminInboxID) ||
			(m.SenderID == entity.AdminInboxID && m.ReceiverID == userID) {
			cp := *m
			thread = append(thread, &cp)
		}
	}
	sort.SliceStable(thread, func(i, j int) bool { return thread[i].CreatedAt.Before(thread[j].CreatedAt) })
	return thread, nil
}

func (s *messageStore) ListConversations(_ context.Context) ([]*entity.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byUser := make(map[string]*entity.Conversation)
	for _, m := range s.messages {
		var userID string
		switch {
		case m.SenderID == entity.AdminInboxID:
			userID = m.ReceiverID
		case m.ReceiverID == entity.AdminInboxID:
			userID = m.SenderID
		default:
			continue
		}

		conv, ok := byUser[userID]
		if !ok {
			conv = &entity.Conversation{UserID: userID}
			byUser[userID] = conv
		}
		if !m.CreatedAt.Before(conv.LastMessageTime) {
			conv.LastMessage = m.Body
			conv.LastMessageTime = m.CreatedAt
		}
		if m.ReceiverID == entity.AdminInboxID && !m.Read {
			conv.UnreadCount++
		}
	}

	convs := make([]*entity.Conversation, 0, len(byUser))
	for _, c := range byUser {
		convs = append(convs, c)
	}
	sort.Slice(convs, func(i, j int) bool { return convs[i].LastMessageTime.After(convs[j].LastMessageTime) })
	return convs, nil
}

func (s *messageStore) MarkRead(_ context.Context, senderID, receiverID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, m := range s.messages {
		if m.SenderID == senderID && m.ReceiverID == receiverID && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (s *messageStore) CountUnread(_ context.Context, receiverID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, m := range s.messages {
		if m.ReceiverID == receiverID && !m.Read {
			n++
		}
	}
	return n, nil
}
