package entity

const DefaultPackageCategory = "General"

// Package is a flat-priced bundle. The label lists are descriptive only and
// are never reserved individually.
type Package struct {
	BaseNoDelete
	Name              string   `db:"name"`
	Description       string   `db:"description"`
	Price             float64  `db:"price"`
	Pax               int      `db:"pax"`
	Category          string   `db:"category"`
	AvailableQuantity int      `db:"available_quantity"`
	Items             []string `db:"items"`
	TableChairs       []string `db:"table_chairs"`
	CateringEquipment []string `db:"catering_equipment"`
	Extras            []string `db:"extras"`
	ImageURL          string   `db:"image_url"`
}
