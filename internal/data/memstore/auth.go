package memstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"

	"github.com/google/uuid"
)

type sessionStore struct{ *db }

func (s *sessionStore) Create(_ context.Context, session *entity.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *session
	s.sessions[session.Token.String()] = &cp
	return nil
}

func (s *sessionStore) FindValidSession(_ context.Context, token string) (*entity.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[token]
	if !ok || sess.RevokedAt != nil || !sess.ExpiresAt.After(time.Now()) {
		return nil, nil
	}
	user, ok := s.users[sess.UserID]
	if !ok {
		return nil, nil
	}

	cp := *sess
	cp.Role = user.Role
	return &cp, nil
}

func (s *sessionStore) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok || sess.RevokedAt != nil {
		return fmt.Errorf("revoke session: %w", repository.ErrNotFound)
	}
	now := time.Now()
	sess.RevokedAt = &now
	return nil
}

type otpStore struct{ *db }

func (s *otpStore) Create(_ context.Context, otp *entity.OTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *otp
	s.otps = append(s.otps, &cp)
	return nil
}

func (s *otpStore) FindLatest(_ context.Context, email string, otpType entity.OTPType) (*entity.OTP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *entity.OTP
	for _, o := range s.otps {
		if o.IsUsed || o.OTPType != otpType || !strings.EqualFold(o.Email, email) {
			continue
		}
		if latest == nil || !o.CreatedAt.Before(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *otpStore) MarkAsUsed(_ context.Context, otpID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.otps {
		if o.ID == otpID {
			o.IsUsed = true
			return nil
		}
	}
	return fmt.Errorf("mark OTP %s as used: %w", otpID, repository.ErrNotFound)
}
