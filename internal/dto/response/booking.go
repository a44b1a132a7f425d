package response

import (
	"time"

	"rental-booking/internal/data/entity"
)

type BookingCustomer struct {
	FullName string `json:"full_name"`
}

type BookingResponse struct {
	ID                string               `json:"id"`
	UserID            string               `json:"user_id"`
	StartDate         time.Time            `json:"start_date"`
	EndDate           time.Time            `json:"end_date"`
	RentalDays        int                  `json:"rental_days"`
	Items             []entity.BookingItem `json:"items"`
	TotalCost         float64              `json:"total_cost"`
	Status            entity.BookingStatus `json:"status"`
	Notes             string               `json:"notes"`
	PaymentMethod     entity.PaymentMethod `json:"payment_method"`
	PaymentStatus     entity.PaymentStatus `json:"payment_status"`
	ProofOfPayment    *string              `json:"proof_of_payment"`
	RejectionReason   *string              `json:"rejection_reason"`
	AdditionalPayment float64              `json:"additional_payment"`
	IssueNotes        *string              `json:"issue_notes"`
	BookedAt          time.Time            `json:"booked_at"`
	PaymentVerifiedAt *time.Time           `json:"payment_verified_at,omitempty"`
	RejectedAt        *time.Time           `json:"rejected_at,omitempty"`
	ResolvedAt        *time.Time           `json:"resolved_at,omitempty"`
	CancelledAt       *time.Time           `json:"cancelled_at,omitempty"`
	Customer          *BookingCustomer     `json:"customer"`
}

type CreateBookingResponse struct {
	BookingID string `json:"booking_id"`
	Message   string `json:"message"`
}

type PendingVerificationDetail struct {
	ID             string               `json:"id"`
	UserID         string               `json:"user_id"`
	PaymentMethod  entity.PaymentMethod `json:"payment_method"`
	PaymentStatus  entity.PaymentStatus `json:"payment_status"`
	ProofOfPayment *string              `json:"proof_of_payment"`
	HasProof       bool                 `json:"has_proof"`
	Status         entity.BookingStatus `json:"status"`
	TotalCost      float64              `json:"total_cost"`
	ItemCount      int                  `json:"item_count"`
}

// PaymentDiagnosticsResponse summarises the verification queue for staff.
type PaymentDiagnosticsResponse struct {
	TotalBookings              int                         `json:"total_bookings"`
	GCashPayments              int                         `json:"gcash_payments"`
	PendingVerification        int                         `json:"pending_verification"`
	PendingVerificationDetails []PendingVerificationDetail `json:"pending_verification_details"`
	AllPaymentStatuses         []entity.PaymentStatus      `json:"all_payment_statuses"`
	AllPaymentMethods          []entity.PaymentMethod      `json:"all_payment_methods"`
}

// BookingToResponse leaves Customer nil when the owner account is gone.
func BookingToResponse(b *entity.Booking, owner *entity.User) BookingResponse {
	items := b.Items
	if items == nil {
		items = []entity.BookingItem{}
	}

	resp := BookingResponse{
		ID:                b.ID.String(),
		UserID:            b.UserID.String(),
		StartDate:         b.StartDate,
		EndDate:           b.EndDate,
		RentalDays:        b.RentalDays(),
		Items:             items,
		TotalCost:         b.TotalCost,
		Status:            b.Status,
		Notes:             b.Notes,
		PaymentMethod:     b.PaymentMethod,
		PaymentStatus:     b.PaymentStatus,
		ProofOfPayment:    b.ProofOfPayment,
		RejectionReason:   b.RejectionReason,
		AdditionalPayment: b.AdditionalPayment,
		IssueNotes:        b.IssueNotes,
		BookedAt:          b.CreatedAt,
		PaymentVerifiedAt: b.PaymentVerifiedAt,
		RejectedAt:        b.RejectedAt,
		ResolvedAt:        b.ResolvedAt,
		CancelledAt:       b.CancelledAt,
	}
	if owner != nil {
		resp.Customer = &BookingCustomer{FullName: owner.FullName}
	}
	return resp
}
