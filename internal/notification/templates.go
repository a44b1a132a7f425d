package notification

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"rental-booking/internal/data/entity"
)

var funcs = template.FuncMap{
	"peso": func(v float64) string { return fmt.Sprintf("₱%.2f", v) },
	"date": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"mul":  func(a float64, b int) float64 { return a * float64(b) },
	"isPackage": func(t entity.ItemType) bool {
		return t == entity.ItemTypePackage
	},
}

var otpTemplate = template.Must(template.New("otp").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #7c3aed;">Welcome to Remrose, {{.Name}}!</h2>
  <p>Thank you for signing up. Please use the following OTP to verify your email address:</p>
  <div style="background-color: #f3f4f6; padding: 20px; text-align: center; margin: 20px 0; border-radius: 8px;">
    <h1 style="color: #7c3aed; font-size: 36px; letter-spacing: 8px; margin: 0;">{{.Code}}</h1>
  </div>
  <p>This OTP will expire in {{.Minutes}} minutes.</p>
  <p>If you didn't request this, please ignore this email.</p>
  <p style="color: #6b7280; font-size: 12px;">This is an automated message from Remrose. Please do not reply.</p>
</div>`))

var receiptTemplate = template.Must(template.New("receipt").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #7c3aed;">Remrose Rentals</h1>
  <p>Booking Receipt</p>
  <h2>Hello {{.Name}},</h2>
  <p>Thank you for your booking! Here are your booking details:</p>
  <p><strong>Booking ID:</strong> {{.BookingID}}</p>
  <p><strong>Rental Period:</strong> {{date .StartDate}} - {{date .EndDate}}</p>
  <p><strong>Duration:</strong> {{.RentalDays}} day(s)</p>
  <p><strong>Payment Method:</strong> {{.PaymentMethod.Label}}</p>
  <table style="width: 100%; border-collapse: collapse;">
    <tr><th align="left">Item</th><th align="left">Details</th><th align="right">Amount</th></tr>
    {{- range .Items}}
    <tr>
      <td>{{.ItemName}}</td>
      {{- if isPackage .Type}}
      <td>{{.Quantity}} × {{peso .UnitPrice}} (flat)</td>
      {{- else}}
      <td>{{.Quantity}} × {{peso .UnitPrice}}/day × {{$.RentalDays}} day(s)</td>
      {{- end}}
      <td align="right">{{peso .LineCost}}</td>
    </tr>
    {{- end}}
    <tr><td colspan="2"><strong>Total</strong></td><td align="right"><strong>{{peso .TotalCost}}</strong></td></tr>
  </table>
  <p><strong>Important:</strong> Please bring this receipt and a valid ID when picking up your items.</p>
  <p>For inquiries or assistance, contact us at: <strong>{{.Support}}</strong></p>
  <p style="color: #6b7280; font-size: 12px;">This is an automated message from Remrose. Please do not reply.</p>
</div>`))

var rejectionTemplate = template.Must(template.New("rejection").Funcs(funcs).Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #ef4444;">Remrose Rentals</h1>
  <p>Payment Verification Failed</p>
  <h2>Hello {{.Name}},</h2>
  <p>Unfortunately, we were unable to verify your GCash payment for the following booking:</p>
  <p><strong>Booking ID:</strong> {{.BookingID}}</p>
  <p><strong>Rental Period:</strong> {{date .StartDate}} - {{date .EndDate}}</p>
  <p><strong>Amount:</strong> {{peso .TotalCost}}</p>
  <h3>Rented Items:</h3>
  <ul>
    {{- range .Items}}
    <li>{{.ItemName}} - Qty: {{.Quantity}}</li>
    {{- end}}
  </ul>
  <h3>Reason for Rejection:</h3>
  <p><strong>{{.Reason}}</strong></p>
  <p>Your booking has been cancelled and the items have been returned to inventory. If you would like to rebook, please:</p>
  <ol>
    <li>Visit our website and create a new booking</li>
    <li>Ensure your payment screenshot is clear and shows the full transaction details</li>
    <li>Double-check that the payment amount matches your booking total</li>
  </ol>
  <p>For inquiries or assistance, contact us at: <strong>{{.Support}}</strong></p>
  <p style="color: #6b7280; font-size: 12px;">This is an automated message from Remrose. Please do not reply.</p>
</div>`))

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func renderOTP(msg OTPMessage) (string, error) {
	return render(otpTemplate, struct {
		OTPMessage
		Minutes int
	}{msg, int(msg.ExpiresIn.Minutes())})
}

func renderReceipt(r Receipt, support string) (string, error) {
	return render(receiptTemplate, struct {
		Receipt
		Support string
	}{r, support})
}

func renderRejection(r Rejection, support string) (string, error) {
	return render(rejectionTemplate, struct {
		Rejection
		Support string
	}{r, support})
}
