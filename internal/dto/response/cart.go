package response

import (
	"time"

	"rental-booking/internal/cart"
)

type CartResponse struct {
	Lines          []cart.Line `json:"lines"`
	StartDate      *time.Time  `json:"start_date"`
	EndDate        *time.Time  `json:"end_date"`
	RentalDays     int         `json:"rental_days"`
	Count          int         `json:"count"`
	EstimatedTotal float64     `json:"estimated_total"`
	Valid          bool        `json:"valid"`
}

func CartToResponse(c *cart.Cart) CartResponse {
	lines := c.Lines
	if lines == nil {
		lines = []cart.Line{}
	}
	return CartResponse{
		Lines:          lines,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		RentalDays:     c.RentalDays(),
		Count:          c.Count(),
		EstimatedTotal: c.EstimatedTotal(),
		Valid:          c.Valid(),
	}
}
