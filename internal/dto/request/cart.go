package request

type CartItemRequest struct {
	Type     string `json:"type" validate:"required,oneof=equipment package"`
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity"`
}

type CartDatesRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

type CheckoutRequest struct {
	PaymentMethod  string  `json:"payment_method" validate:"required,oneof=cash gcash"`
	Notes          string  `json:"notes" validate:"max=1000"`
	ProofOfPayment *string `json:"proof_of_payment,omitempty"`
}
