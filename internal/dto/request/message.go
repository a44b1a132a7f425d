package request

type SendMessageRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	Message    string `json:"message" validate:"required,max=2000"`
}
