package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
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

const (
	msgBookedGCash = "Booking submitted! Your payment is under review. You'll receive a confirmation email once approved."
	msgBookedCash  = "Booking successful! Check your email for the receipt."
)

type BookingService interface {
	CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error)
	ListBookings(ctx context.Context, userID *uuid.UUID) ([]response.BookingResponse, error)
	GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*response.BookingResponse, error)
	CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) error
	ResolveIssue(ctx context.Context, bookingID uuid.UUID, req *request.ResolveIssueRequest) error
}

type bookingService struct {
	repo     *repository.Repository
	notifier Notifications
	log      *zap.Logger
	now      func() time.Time
}

func NewBookingService(repo *repository.Repository, notifier Notifications, log *zap.Logger) BookingService {
	return &bookingService{
		repo:     repo,
		notifier: notifier,
		log:      log.With(zap.String("service", "booking")),
		now:      time.Now,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, userID uuid.UUID, req *request.CreateBookingRequest) (*response.CreateBookingResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return nil, newError(ErrValidation, "Invalid start date")
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return nil, newError(ErrValidation, "Invalid end date")
	}
	if end.Before(start) {
		return nil, newError(ErrValidation, "End date cannot be before start date")
	}
	if len(req.Items) == 0 {
		return nil, newError(ErrValidation, "Cart is empty")
	}

	days := entity.RentalDays(start, end)

	// Resolve and check every line before touching stock.
	items := make([]entity.BookingItem, 0, len(req.Items))
	total := 0.0
	for _, line := range req.Items {
		itemType := entity.ItemType(line.Type)
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, notFoundItem(itemType, line.ItemID)
		}

		resolved, err := lookupItem(ctx, s.repo, itemType, itemID)
		if err != nil {
			return nil, fmt.Errorf("resolve %s %s: %w", itemType, itemID, err)
		}
		if resolved == nil {
			return nil, notFoundItem(itemType, itemID.String())
		}
		if resolved.available < line.Quantity {
			return nil, &InsufficientStockError{
				Item:      resolved.item.ItemName,
				Available: resolved.available,
				Requested: line.Quantity,
			}
		}

		it := resolved.item
		it.Quantity = line.Quantity
		it.LineCost = entity.LineCost(it.Type, it.UnitPrice, it.Quantity, days)
		total += it.LineCost
		items = append(items, it)
	}

	if err := reserveAll(ctx, s.repo, items, s.log); err != nil {
		s.log.Warn("Reservation failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	method := entity.PaymentMethod(req.PaymentMethod)
	now := s.now()
	booking := &entity.Booking{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID:        userID,
		StartDate:     start,
		EndDate:       end,
		Items:         items,
		TotalCost:     total,
		Notes:         strings.TrimSpace(req.Notes),
		Status:        entity.BookingStatusPending,
		PaymentMethod: method,
		PaymentStatus: entity.PaymentStatusUnpaid,
	}
	if method == entity.PaymentMethodGCash {
		booking.PaymentStatus = entity.PaymentStatusPendingVerification
		if req.ProofOfPayment != nil && strings.TrimSpace(*req.ProofOfPayment) != "" {
			proof := strings.TrimSpace(*req.ProofOfPayment)
			booking.ProofOfPayment = &proof
		}
	}

	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		releaseAll(ctx, s.repo, items, releaseCauseCompensate, s.log)
		return nil, fmt.Errorf("create booking: %w", err)
	}

	metrics.IncBookingCreated(string(method))
	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("payment_method", string(method)),
		zap.Float64("total_cost", total),
		zap.Int("rental_days", days))

	resp := &response.CreateBookingResponse{BookingID: booking.ID.String(), Message: msgBookedCash}
	if method == entity.PaymentMethodGCash {
		resp.Message = msgBookedGCash
		return resp, nil
	}

	queueReceipt(ctx, s.repo, s.notifier, booking, s.log)
	return resp, nil
}

func (s *bookingService) ListBookings(ctx context.Context, userID *uuid.UUID) ([]response.BookingResponse, error) {
	bookings, err := s.repo.Booking.FindAll(ctx, repository.BookingFilter{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(bookings))
	seen := make(map[uuid.UUID]struct{}, len(bookings))
	for _, b := range bookings {
		if _, ok := seen[b.UserID]; !ok {
			seen[b.UserID] = struct{}{}
			ids = append(ids, b.UserID)
		}
	}

	owners, err := s.repo.User.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load booking owners: %w", err)
	}

	out := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, response.BookingToResponse(b, owners[b.UserID]))
	}
	return out, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID, requesterID uuid.UUID, isAdmin bool) (*response.BookingResponse, error) {
	b, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && b.UserID != requesterID {
		return nil, newError(ErrForbidden, "You can only view your own bookings")
	}

	owner, err := s.repo.User.FindByID(ctx, b.UserID)
	if err != nil {
		return nil, fmt.Errorf("load booking owner: %w", err)
	}

	resp := response.BookingToResponse(b, owner)
	return &resp, nil
}

// CancelBooking lets an owner withdraw a pending booking and returns its
// stock. A gcash booking still awaiting review leaves the verification queue
// as unpaid.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID, userID uuid.UUID) error {
	b, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if b.UserID != userID {
		return newError(ErrForbidden, "You can only cancel your own bookings")
	}
	if b.Status != entity.BookingStatusPending {
		return newError(ErrInvalidState, "Only pending bookings can be cancelled")
	}

	fromStatus, fromPayment := b.Status, b.PaymentStatus
	now := s.now()
	b.Status = entity.BookingStatusCancelled
	b.CancelledAt = &now
	b.UpdatedAt = now
	if b.PaymentStatus == entity.PaymentStatusPendingVerification {
		b.PaymentStatus = entity.PaymentStatusUnpaid
	}

	changed, err := s.repo.Booking.Transition(ctx, b, fromStatus, fromPayment)
	if err != nil {
		return fmt.Errorf("cancel booking: %w", err)
	}
	if !changed {
		return newError(ErrInvalidState, "Only pending bookings can be cancelled")
	}

	releaseAll(ctx, s.repo, b.Items, releaseCauseCancel, s.log)

	s.log.Info("Booking cancelled", zap.String("booking_id", bookingID.String()), zap.String("user_id", userID.String()))
	return nil
}

// UpdateStatus is the staff override: any known status may follow any other
// and stock is left alone.
func (s *bookingService) UpdateStatus(ctx context.Context, bookingID uuid.UUID, req *request.UpdateBookingStatusRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}
	status := entity.BookingStatus(strings.TrimSpace(req.Status))
	if !status.Valid() {
		return newError(ErrValidation, "Invalid booking status: %s", req.Status)
	}

	if err := s.repo.Booking.SetStatus(ctx, bookingID, status, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Booking not found")
		}
		return fmt.Errorf("update booking status: %w", err)
	}

	s.log.Info("Booking status updated", zap.String("booking_id", bookingID.String()), zap.String("status", string(status)))
	return nil
}

// parseAmount reads a non-negative amount. Anything unreadable counts as zero.
func parseAmount(raw string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func (s *bookingService) ResolveIssue(ctx context.Context, bookingID uuid.UUID, req *request.ResolveIssueRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	status := entity.BookingStatusResolved
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status = entity.BookingStatus(raw)
		if !status.Valid() {
			return newError(ErrValidation, "Invalid booking status: %s", req.Status)
		}
	}

	res := repository.IssueResolution{
		AdditionalPayment: parseAmount(string(req.AdditionalPayment)),
		IssueNotes:        req.IssueNotes,
		Status:            status,
		At:                s.now(),
	}
	if err := s.repo.Booking.ResolveIssue(ctx, bookingID, res); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Booking not found")
		}
		return fmt.Errorf("resolve issue: %w", err)
	}

	s.log.Info("Booking issue resolved",
		zap.String("booking_id", bookingID.String()),
		zap.Float64("additional_payment", res.AdditionalPayment))
	return nil
}

func (s *bookingService) findBooking(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	b, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find booking: %w", err)
	}
	if b == nil {
		return nil, newError(ErrNotFound, "Booking not found")
	}
	return b, nil
}

// queueReceipt looks up the owner and hands a receipt to the dispatcher. A
// missing owner only costs the email.
func queueReceipt(ctx context.Context, repo *repository.Repository, notifier Notifications, b *entity.Booking, log *zap.Logger) {
	owner, err := repo.User.FindByID(ctx, b.UserID)
	if err != nil || owner == nil {
		log.Warn("Receipt skipped, booking owner unavailable",
			zap.String("booking_id", b.ID.String()), zap.Error(err))
		return
	}

	notifier.QueueReceipt(notification.Receipt{
		BookingID:     b.ID.String(),
		To:            owner.Email,
		Name:          owner.FullName,
		Items:         b.Items,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		RentalDays:    b.RentalDays(),
		TotalCost:     b.TotalCost,
		PaymentMethod: b.PaymentMethod,
	})
}
