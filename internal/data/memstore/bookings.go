package memstore

import (
	"context"
	"fmt"
	"sort"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"

	"github.com/google/uuid"
)

type bookingStore struct{ *db }

func cloneBooking(b *entity.Booking) *entity.Booking {
	cp := *b
	cp.Items = append([]entity.BookingItem(nil), b.Items...)
	return &cp
}

func (s *bookingStore) Create(_ context.Context, b *entity.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[b.ID]; exists {
		return fmt.Errorf("create booking %s: duplicate id", b.ID)
	}
	s.bookings[b.ID] = cloneBooking(b)
	return nil
}

func (s *bookingStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, nil
	}
	return cloneBooking(b), nil
}

func (s *bookingStore) FindAll(_ context.Context, filter repository.BookingFilter) ([]*entity.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var list []*entity.Booking
	for _, b := range s.bookings {
		if filter.UserID != nil && b.UserID != *filter.UserID {
			continue
		}
		if filter.PaymentMethod != nil && b.PaymentMethod != *filter.PaymentMethod {
			continue
		}
		if filter.PaymentStatus != nil && b.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		list = append(list, cloneBooking(b))
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (s *bookingStore) SetStatus(_ context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("set booking status %s: %w", id, repository.ErrNotFound)
	}
	stored.Status = status
	stored.UpdatedAt = at
	return nil
}

func (s *bookingStore) ResolveIssue(_ context.Context, id uuid.UUID, res repository.IssueResolution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("resolve booking issue %s: %w", id, repository.ErrNotFound)
	}
	notes := res.IssueNotes
	stored.AdditionalPayment = res.AdditionalPayment
	stored.IssueNotes = &notes
	stored.Status = res.Status
	if stored.ResolvedAt == nil {
		at := res.At
		stored.ResolvedAt = &at
	}
	stored.UpdatedAt = res.At
	return nil
}

func (s *bookingStore) Transition(_ context.Context, b *entity.Booking, fromStatus entity.BookingStatus, fromPayment entity.PaymentStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[b.ID]
	if !ok || stored.Status != fromStatus || stored.PaymentStatus != fromPayment {
		return false, nil
	}
	applyMutable(stored, b)
	return true, nil
}

// applyMutable mirrors the column set the SQL transition touches.
func applyMutable(dst, src *entity.Booking) {
	dst.Status = src.Status
	dst.PaymentStatus = src.PaymentStatus
	dst.RejectionReason = src.RejectionReason
	dst.AdditionalPayment = src.AdditionalPayment
	dst.IssueNotes = src.IssueNotes
	dst.PaymentVerifiedAt = src.PaymentVerifiedAt
	dst.RejectedAt = src.RejectedAt
	dst.ResolvedAt = src.ResolvedAt
	dst.CancelledAt = src.CancelledAt
	dst.UpdatedAt = src.UpdatedAt
}
