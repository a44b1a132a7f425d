package entity

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending            BookingStatus = "pending"
	BookingStatusConfirmed          BookingStatus = "confirmed"
	BookingStatusInProgress         BookingStatus = "in-progress"
	BookingStatusCompleted          BookingStatus = "completed"
	BookingStatusCancelled          BookingStatus = "cancelled"
	BookingStatusOverdue            BookingStatus = "overdue"
	BookingStatusReturnedWithIssues BookingStatus = "returned-with-issues"
	BookingStatusResolved           BookingStatus = "resolved"
)

var bookingStatuses = map[BookingStatus]struct{}{
	BookingStatusPending:            {},
	BookingStatusConfirmed:          {},
	BookingStatusInProgress:         {},
	BookingStatusCompleted:          {},
	BookingStatusCancelled:          {},
	BookingStatusOverdue:            {},
	BookingStatusReturnedWithIssues: {},
	BookingStatusResolved:           {},
}

func (s BookingStatus) Valid() bool {
	_, ok := bookingStatuses[s]
	return ok
}

type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodGCash PaymentMethod = "gcash"
)

// Label is the customer-facing name used in emails.
func (m PaymentMethod) Label() string {
	if m == PaymentMethodGCash {
		return "GCash"
	}
	return "Cash on Pickup"
}

type PaymentStatus string

const (
	PaymentStatusUnpaid              PaymentStatus = "unpaid"
	PaymentStatusPendingVerification PaymentStatus = "pending_verification"
	PaymentStatusPaid                PaymentStatus = "paid"
	PaymentStatusRejected            PaymentStatus = "rejected"
)

type ItemType string

const (
	ItemTypeEquipment ItemType = "equipment"
	ItemTypePackage   ItemType = "package"
)

func (t ItemType) Valid() bool {
	return t == ItemTypeEquipment || t == ItemTypePackage
}

// BookingItem is a snapshot of a catalog item taken at booking time. Later
// catalog edits never change it.
type BookingItem struct {
	Type      ItemType  `json:"type"`
	ItemID    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	UnitPrice float64   `json:"unit_price"`
	Quantity  int       `json:"quantity"`
	LineCost  float64   `json:"line_cost"`
}

type Booking struct {
	BaseNoDelete
	UserID            uuid.UUID     `db:"user_id"`
	StartDate         time.Time     `db:"start_date"`
	EndDate           time.Time     `db:"end_date"`
	Items             []BookingItem `db:"items"`
	TotalCost         float64       `db:"total_cost"`
	Notes             string        `db:"notes"`
	Status            BookingStatus `db:"status"`
	PaymentMethod     PaymentMethod `db:"payment_method"`
	PaymentStatus     PaymentStatus `db:"payment_status"`
	ProofOfPayment    *string       `db:"proof_of_payment"`
	RejectionReason   *string       `db:"rejection_reason"`
	AdditionalPayment float64       `db:"additional_payment"`
	IssueNotes        *string       `db:"issue_notes"`
	PaymentVerifiedAt *time.Time    `db:"payment_verified_at"`
	RejectedAt        *time.Time    `db:"rejected_at"`
	ResolvedAt        *time.Time    `db:"resolved_at"`
	CancelledAt       *time.Time    `db:"cancelled_at"`
}

func (b *Booking) RentalDays() int {
	return RentalDays(b.StartDate, b.EndDate)
}

// RentalDays counts started 24h periods between start and end, never less
// than one.
func RentalDays(start, end time.Time) int {
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	if days < 1 {
		return 1
	}
	return days
}

// LineCost prices equipment per day and packages flat.
func LineCost(itemType ItemType, unitPrice float64, quantity, days int) float64 {
	if itemType == ItemTypePackage {
		return unitPrice * float64(quantity)
	}
	return float64(days) * unitPrice * float64(quantity)
}
