package response

import (
	"time"

	"rental-booking/internal/data/entity"
)

type EquipmentResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Category          string    `json:"category"`
	Description       string    `json:"description"`
	PricePerDay       float64   `json:"price_per_day"`
	AvailableQuantity int       `json:"available_quantity"`
	Featured          bool      `json:"featured"`
	Available         bool      `json:"available"`
	ImageURL          string    `json:"image_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type PackageResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Description       string    `json:"description"`
	Price             float64   `json:"price"`
	Pax               int       `json:"pax"`
	Category          string    `json:"category"`
	AvailableQuantity int       `json:"available_quantity"`
	Items             []string  `json:"items"`
	TableChairs       []string  `json:"table_chairs"`
	CateringEquipment []string  `json:"catering_equipment"`
	Extras            []string  `json:"extras"`
	ImageURL          string    `json:"image_url"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type CreatedResponse struct {
	ID string `json:"id"`
}

func EquipmentToResponse(e *entity.Equipment) EquipmentResponse {
	return EquipmentResponse{
		ID:                e.ID.String(),
		Name:              e.Name,
		Category:          e.Category,
		Description:       e.Description,
		PricePerDay:       e.PricePerDay,
		AvailableQuantity: e.AvailableQuantity,
		Featured:          e.Featured,
		Available:         e.Available,
		ImageURL:          e.ImageURL,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func nonNil(labels []string) []string {
	if labels == nil {
		return []string{}
	}
	return labels
}

func PackageToResponse(p *entity.Package) PackageResponse {
	return PackageResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		Description:       p.Description,
		Price:             p.Price,
		Pax:               p.Pax,
		Category:          p.Category,
		AvailableQuantity: p.AvailableQuantity,
		Items:             nonNil(p.Items),
		TableChairs:       nonNil(p.TableChairs),
		CateringEquipment: nonNil(p.CateringEquipment),
		Extras:            nonNil(p.Extras),
		ImageURL:          p.ImageURL,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
