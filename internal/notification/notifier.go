// Package notification renders and delivers the transactional emails: OTP,
// booking receipt and payment rejection.
package notification

import (
	"context"
	"time"

	"rental-booking/internal/data/entity"
)

type OTPMessage struct {
	To        string
	Name      string
	Code      string
	ExpiresIn time.Duration
}

type Receipt struct {
	BookingID     string
	To            string
	Name          string
	Items         []entity.BookingItem
	StartDate     time.Time
	EndDate       time.Time
	RentalDays    int
	TotalCost     float64
	PaymentMethod entity.PaymentMethod
}

type Rejection struct {
	BookingID string
	To        string
	Name      string
	Items     []entity.BookingItem
	StartDate time.Time
	EndDate   time.Time
	TotalCost float64
	Reason    string
}

// Notifier delivers one message synchronously.
type Notifier interface {
	SendOTP(ctx context.Context, msg OTPMessage) error
	SendReceipt(ctx context.Context, r Receipt) error
	SendRejection(ctx context.Context, r Rejection) error
}
