package entity

const DefaultImageURL = "/images/placeholder.svg"

type Equipment struct {
	BaseNoDelete
	Name              string  `db:"name"`
	Category          string  `db:"category"`
	Description       string  `db:"description"`
	PricePerDay       float64 `db:"price_per_day"`
	AvailableQuantity int     `db:"available_quantity"`
	Featured          bool    `db:"featured"`
	Available         bool    `db:"available"`
	ImageURL          string  `db:"image_url"`
}
