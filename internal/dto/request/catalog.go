package request

import (
	"encoding/json"
	"fmt"

	"rental-booking/pkg/utils"
)

type EquipmentRequest struct {
	Name              string  `json:"name" validate:"required,max=150"`
	Category          string  `json:"category" validate:"required,max=100"`
	Description       string  `json:"description"`
	PricePerDay       float64 `json:"price_per_day" validate:"gte=0"`
	AvailableQuantity int     `json:"available_quantity" validate:"gte=0"`
	Featured          bool    `json:"featured"`
	Available         *bool   `json:"available,omitempty"`
	ImageURL          string  `json:"image_url"`
}

type PackageRequest struct {
	Name              string    `json:"name" validate:"required,max=150"`
	Description       string    `json:"description"`
	Price             float64   `json:"price" validate:"gte=0"`
	Pax               int       `json:"pax" validate:"gte=0"`
	Category          string    `json:"category"`
	AvailableQuantity int       `json:"available_quantity"`
	Items             LabelList `json:"items"`
	TableChairs       LabelList `json:"table_chairs"`
	CateringEquipment LabelList `json:"catering_equipment"`
	Extras            LabelList `json:"extras"`
	ImageURL          string    `json:"image_url"`
}

// LabelList accepts either a JSON array or newline separated text, the way
// the admin form submits it. Entries are trimmed and blanks dropped.
type LabelList []string

func (l *LabelList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*l = LabelList{}
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = utils.SplitLabels(text)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("labels must be text or a list of strings")
	}
	*l = utils.CleanLabels(list)
	return nil
}
