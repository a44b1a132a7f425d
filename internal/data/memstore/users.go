package memstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"

	"github.com/google/uuid"
)

type userStore struct{ *db }

func (s *userStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("create user %s: duplicate email", user.Email)
		}
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *userStore) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *userStore) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *userStore) FindByIDs(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[uuid.UUID]*entity.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			cp := *u
			out[id] = &cp
		}
	}
	return out, nil
}

func (s *userStore) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]*entity.User, 0, len(s.users))
	for _, u := range s.users {
		cp := *u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], nil
}

func (s *userStore) CountAll(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}

func (s *userStore) Update(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("update user %s: %w", user.ID, repository.ErrNotFound)
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *userStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, id)
	for token, sess := range s.sessions {
		if sess.UserID == id {
			delete(s.sessions, token)
		}
	}
	kept := s.otps[:0]
	for _, o := range s.otps {
		if o.UserID != id {
			kept = append(kept, o)
		}
	}
	s.otps = kept
	return nil
}
