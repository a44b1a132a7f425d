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
	"rental-booking/internal/metrics"
	"rental-booking/internal/notification"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRejectionReason = "Payment verification failed"

// PaymentService is the staff gate for gcash bookings. A booking passes it
// once: approved or rejected.
type PaymentService interface {
	VerifyPayment(ctx context.Context, bookingID uuid.UUID, req *request.VerifyPaymentRequest) (string, error)
	Diagnostics(ctx context.Context) (*response.PaymentDiagnosticsResponse, error)
}

type paymentService struct {
	repo     *repository.Repository
	notifier Notifications
	log      *zap.Logger
	now      func() time.Time
}

func NewPaymentService(repo *repository.Repository, notifier Notifications, log *zap.Logger) PaymentService {
	return &paymentService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "payment")),
		now:      time.Now,
	}
}

func (s *paymentService) VerifyPayment(ctx context.Context, bookingID uuid.UUID, req *request.VerifyPaymentRequest) (string, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return "", validationError(errs)
	}

	b, err := s.repo.Booking.FindByID(ctx, bookingID)
	if err != nil {
		return "", fmt.Errorf("find booking: %w", err)
	}
	if b == nil {
		return "", newError(ErrNotFound, "Booking not found")
	}
	if b.PaymentStatus != entity.PaymentStatusPendingVerification {
		return "", newError(ErrNotPendingVerification, "This booking is not pending payment verification")
	}

	owner, err := s.repo.User.FindByID(ctx, b.UserID)
	if err != nil {
		return "", fmt.Errorf("find booking owner: %w", err)
	}
	if owner == nil {
		return "", newError(ErrNotFound, "User not found")
	}

	if *req.Approved {
		return s.approve(ctx, b)
	}
	return s.reject(ctx, b, owner, req.RejectionReason)
}

func (s *paymentService) approve(ctx context.Context, b *entity.Booking) (string, error) {
	fromStatus := b.Status
	now := s.now()
	b.PaymentStatus = entity.PaymentStatusPaid
	b.Status = entity.BookingStatusConfirmed
	b.PaymentVerifiedAt = &now
	b.UpdatedAt = now

	if err := s.transition(ctx, b, fromStatus); err != nil {
		return "", err
	}

	metrics.IncPaymentVerification("approved")
	s.log.Info("Payment approved", zap.String("booking_id", b.ID.String()))

	queueReceipt(ctx, s.repo, s.notifier, b, s.log)
	return "Payment verified and booking confirmed. Receipt sent to customer.", nil
}

func (s *paymentService) reject(ctx context.Context, b *entity.Booking, owner *entity.User, reason string) (string, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectionReason
	}

	fromStatus := b.Status
	now := s.now()
	b.PaymentStatus = entity.PaymentStatusRejected
	b.Status = entity.BookingStatusCancelled
	b.RejectionReason = &reason
	b.RejectedAt = &now
	b.UpdatedAt = now

	if err := s.transition(ctx, b, fromStatus); err != nil {
		return "", err
	}

	// Stock goes back only after this request won the transition.
	releaseAll(ctx, s.repo, b.Items, releaseCauseReject, s.log)

	metrics.IncPaymentVerification("rejected")
	s.log.Info("Payment rejected", zap.String("booking_id", b.ID.String()), zap.String("reason", reason))

	s.notifier.QueueRejection(notification.Rejection{
		BookingID: b.ID.String(),
		To:        owner.Email,
		Name:      owner.FullName,
		Items:     b.Items,
		StartDate: b.StartDate,
		EndDate:   b.EndDate,
		TotalCost: b.TotalCost,
		Reason:    reason,
	})

	return "Payment rejected and booking cancelled. Quantities restored.", nil
}

func (s *paymentService) transition(ctx context.Context, b *entity.Booking, fromStatus entity.BookingStatus) error {
	changed, err := s.repo.Booking.Transition(ctx, b, fromStatus, entity.PaymentStatusPendingVerification)
	if err != nil {
		return fmt.Errorf("verify payment: %w", err)
	}
	if !changed {
		return newError(ErrNotPendingVerification, "This booking is not pending payment verification")
	}
	return nil
}

func (s *paymentService) Diagnostics(ctx context.Context) (*response.PaymentDiagnosticsResponse, error) {
	bookings, err := s.repo.Booking.FindAll(ctx, repository.BookingFilter{})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	resp := &response.PaymentDiagnosticsResponse{
		TotalBookings:              len(bookings),
		PendingVerificationDetails: []response.PendingVerificationDetail{},
		AllPaymentStatuses:         []entity.PaymentStatus{},
		AllPaymentMethods:          []entity.PaymentMethod{},
	}

	statuses := make(map[entity.PaymentStatus]struct{})
	methods := make(map[entity.PaymentMethod]struct{})
	for _, b := range bookings {
		if _, ok := statuses[b.PaymentStatus]; !ok {
			statuses[b.PaymentStatus] = struct{}{}
			resp.AllPaymentStatuses = append(resp.AllPaymentStatuses, b.PaymentStatus)
		}
		if _, ok := methods[b.PaymentMethod]; !ok {
			methods[b.PaymentMethod] = struct{}{}
			resp.AllPaymentMethods = append(resp.AllPaymentMethods, b.PaymentMethod)
		}

		if b.PaymentMethod != entity.PaymentMethodGCash {
			continue
		}
		resp.GCashPayments++

		if b.PaymentStatus != entity.PaymentStatusPendingVerification {
			continue
		}
		resp.PendingVerification++
		resp.PendingVerificationDetails = append(resp.PendingVerificationDetails, response.PendingVerificationDetail{
			ID:             b.ID.String(),
			UserID:         b.UserID.String(),
			PaymentMethod:  b.PaymentMethod,
			PaymentStatus:  b.PaymentStatus,
			ProofOfPayment: b.ProofOfPayment,
			HasProof:       b.ProofOfPayment != nil && *b.ProofOfPayment != "",
			Status:         b.Status,
			TotalCost:      b.TotalCost,
			ItemCount:      len(b.Items),
		})
	}

	return resp, nil
}
