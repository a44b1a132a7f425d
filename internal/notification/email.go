package notification

import (
	"context"
	"fmt"
)

// EmailNotifier renders a template and hands it to a Mailer.
type EmailNotifier struct {
	mailer  Mailer
	support string
}

func NewEmailNotifier(mailer Mailer, support string) *EmailNotifier {
	return &EmailNotifier{
		mailer:  mailer,
		support: support,
	}
}

func (n *EmailNotifier) SendOTP(ctx context.Context, msg OTPMessage) error {
	body, err := renderOTP(msg)
	if err != nil {
		return err
	}
	return n.mailer.Send(ctx, msg.To, "Remrose - Email Verification OTP", body)
}

func (n *EmailNotifier) SendReceipt(ctx context.Context, r Receipt) error {
	body, err := renderReceipt(r, n.support)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Remrose - Booking Receipt #%s", r.BookingID)
	return n.mailer.Send(ctx, r.To, subject, body)
}

func (n *EmailNotifier) SendRejection(ctx context.Context, r Rejection) error {
	body, err := renderRejection(r, n.support)
	if err != nil {
		return err
	}
	subject := fmt.Sprintf("Remrose - Payment Verification Failed for Booking #%s", r.BookingID)
	return n.mailer.Send(ctx, r.To, subject, body)
}
