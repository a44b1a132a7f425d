package request

import (
	"encoding/json"
	"strings"
)

type BookingLineRequest struct {
	Type     string `json:"type" validate:"required,oneof=equipment package"`
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gte=1"`
}

// CreateBookingRequest is validated field by field first. An empty item list
// is reported separately as an empty cart.
type CreateBookingRequest struct {
	StartDate      string               `json:"start_date" validate:"required"`
	EndDate        string               `json:"end_date" validate:"required"`
	Items          []BookingLineRequest `json:"items" validate:"dive"`
	PaymentMethod  string               `json:"payment_method" validate:"required,oneof=cash gcash"`
	Notes          string               `json:"notes" validate:"max=1000"`
	ProofOfPayment *string              `json:"proof_of_payment,omitempty"`
}

type VerifyPaymentRequest struct {
	Approved        *bool  `json:"approved" validate:"required"`
	RejectionReason string `json:"rejection_reason" validate:"max=500"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ResolveIssueRequest struct {
	AdditionalPayment LooseText `json:"additional_payment"`
	IssueNotes        string    `json:"issue_notes" validate:"max=2000"`
	Status            string    `json:"status"`
}

// LooseText keeps the raw text of a JSON string or number, so amounts typed
// into a form field reach the service unparsed.
type LooseText string

func (t *LooseText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = LooseText(s)
		return nil
	}
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		raw = ""
	}
	*t = LooseText(raw)
	return nil
}
