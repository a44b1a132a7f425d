package request

// UpdateProfileRequest leaves phone and address untouched when they are omitted.
type UpdateProfileRequest struct {
	FullName string  `json:"full_name" validate:"required,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Address  *string `json:"address,omitempty" validate:"omitempty,max=255"`
}
