package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingFilter struct {
	UserID        *uuid.UUID
	PaymentMethod *entity.PaymentMethod
	PaymentStatus *entity.PaymentStatus
}

type IssueResolution struct {
	AdditionalPayment float64
	IssueNotes        string
	Status            entity.BookingStatus
	At                time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	// FindAll returns bookings newest first.
	FindAll(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error)
	// SetStatus overwrites the status column only.
	SetStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error
	// ResolveIssue writes the issue columns and the status. resolved_at keeps
	// its first value.
	ResolveIssue(ctx context.Context, id uuid.UUID, res IssueResolution) error
	// Transition writes the booking only if the stored row still has the
	// given status and payment status. It reports whether the row changed.
	Transition(ctx context.Context, booking *entity.Booking, fromStatus entity.BookingStatus, fromPayment entity.PaymentStatus) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, user_id, start_date, end_date, items, total_cost, notes, status,
		       payment_method, payment_status, proof_of_payment, rejection_reason,
		       additional_payment, issue_notes, payment_verified_at, rejected_at,
		       resolved_at, cancelled_at, created_at, updated_at`

func scanBooking(row scanner) (*entity.Booking, error) {
	var (
		b     entity.Booking
		items []byte
	)
	err := row.Scan(
		&b.ID,
		&b.UserID,
		&b.StartDate,
		&b.EndDate,
		&items,
		&b.TotalCost,
		&b.Notes,
		&b.Status,
		&b.PaymentMethod,
		&b.PaymentStatus,
		&b.ProofOfPayment,
		&b.RejectionReason,
		&b.AdditionalPayment,
		&b.IssueNotes,
		&b.PaymentVerifiedAt,
		&b.RejectedAt,
		&b.ResolvedAt,
		&b.CancelledAt,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(items, &b.Items); err != nil {
		return nil, fmt.Errorf("decode booking items: %w", err)
	}
	return &b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *entity.Booking) error {
	items, err := json.Marshal(b.Items)
	if err != nil {
		return fmt.Errorf("encode booking items: %w", err)
	}

	query := `
		INSERT INTO bookings (id, user_id, start_date, end_date, items, total_cost, notes,
		                      status, payment_method, payment_status, proof_of_payment,
		                      additional_payment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err = r.db.Exec(ctx, query,
		b.ID,
		b.UserID,
		b.StartDate,
		b.EndDate,
		items,
		b.TotalCost,
		b.Notes,
		b.Status,
		b.PaymentMethod,
		b.PaymentStatus,
		b.ProofOfPayment,
		b.AdditionalPayment,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_id", b.ID.String()),
			zap.String("user_id", b.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", b.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking", zap.Error(err), zap.String("booking_id", id.String()))
		return nil, fmt.Errorf("find booking %s: %w", id.String(), err)
	}

	return b, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, filter BookingFilter) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE ($1::uuid IS NULL OR user_id = $1)
		  AND ($2::text IS NULL OR payment_method = $2)
		  AND ($3::text IS NULL OR payment_status = $3)
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, filter.UserID, filter.PaymentMethod, filter.PaymentStatus)
	if err != nil {
		r.log.Error("Failed to list bookings", zap.Error(err))
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}

	return bookings, rows.Err()
}

const bookingUpdateSet = `
		SET status = $2, payment_status = $3, rejection_reason = $4,
		    additional_payment = $5, issue_notes = $6, payment_verified_at = $7,
		    rejected_at = $8, resolved_at = $9, cancelled_at = $10, updated_at = $11`

func bookingUpdateArgs(b *entity.Booking) []any {
	return []any{
		b.ID,
		b.Status,
		b.PaymentStatus,
		b.RejectionReason,
		b.AdditionalPayment,
		b.IssueNotes,
		b.PaymentVerifiedAt,
		b.RejectedAt,
		b.ResolvedAt,
		b.CancelledAt,
		b.UpdatedAt,
	}
}

func (r *bookingRepository) SetStatus(ctx context.Context, id uuid.UUID, status entity.BookingStatus, at time.Time) error {
	query := `UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status, at)
	if err != nil {
		r.log.Error("Failed to set booking status", zap.Error(err), zap.String("booking_id", id.String()))
		return fmt.Errorf("set booking status %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("set booking status %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) ResolveIssue(ctx context.Context, id uuid.UUID, res IssueResolution) error {
	query := `
		UPDATE bookings
		SET additional_payment = $2, issue_notes = $3, status = $4,
		    resolved_at = COALESCE(resolved_at, $5), updated_at = $5
		WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, res.AdditionalPayment, res.IssueNotes, res.Status, res.At)
	if err != nil {
		r.log.Error("Failed to resolve booking issue", zap.Error(err), zap.String("booking_id", id.String()))
		return fmt.Errorf("resolve booking issue %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("resolve booking issue %s: %w", id.String(), ErrNotFound)
	}

	return nil
}

func (r *bookingRepository) Transition(ctx context.Context, b *entity.Booking, fromStatus entity.BookingStatus, fromPayment entity.PaymentStatus) (bool, error) {
	query := `UPDATE bookings` + bookingUpdateSet + `
		WHERE id = $1 AND status = $12 AND payment_status = $13`

	args := append(bookingUpdateArgs(b), fromStatus, fromPayment)

	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to transition booking",
			zap.Error(err),
			zap.String("booking_id", b.ID.String()),
			zap.String("from_status", string(fromStatus)),
			zap.String("to_status", string(b.Status)),
		)
		return false, fmt.Errorf("transition booking %s: %w", b.ID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}
