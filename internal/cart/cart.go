// Package cart holds the server-side staging area a customer fills before
// checkout: item lines, quantities and one shared rental window.
package cart

import (
	"errors"
	"fmt"
	"time"

	"rental-booking/internal/data/entity"

	"github.com/google/uuid"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrLineNotFound    = errors.New("item is not in the cart")
	ErrInvalidDates    = errors.New("end date cannot be before start date")
)

// StockError is returned when equipment would exceed the stock captured when
// the line was added.
type StockError struct {
	Name      string
	Available int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("Only %d available for %s", e.Available, e.Name)
}

type Line struct {
	Type              entity.ItemType `json:"type"`
	ItemID            uuid.UUID       `json:"item_id"`
	Name              string          `json:"name"`
	UnitPrice         float64         `json:"unit_price"`
	AvailableQuantity int             `json:"available_quantity"`
	Quantity          int             `json:"quantity"`
}

type Cart struct {
	UserID    uuid.UUID  `json:"user_id"`
	Lines     []Line     `json:"lines"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func New(userID uuid.UUID) *Cart {
	return &Cart{UserID: userID, Lines: []Line{}}
}

func (c *Cart) find(itemType entity.ItemType, id uuid.UUID) int {
	for i, l := range c.Lines {
		if l.Type == itemType && l.ItemID == id {
			return i
		}
	}
	return -1
}

// Add merges the quantity into an existing line of the same item or appends
// a new one.
func (c *Cart) Add(line Line) error {
	if line.Quantity < 1 {
		return ErrInvalidQuantity
	}

	if i := c.find(line.Type, line.ItemID); i > -1 {
		existing := &c.Lines[i]
		newQty := existing.Quantity + line.Quantity
		if existing.Type == entity.ItemTypeEquipment && newQty > existing.AvailableQuantity {
			return &StockError{Name: existing.Name, Available: existing.AvailableQuantity}
		}
		existing.Quantity = newQty
		return nil
	}

	if line.Type == entity.ItemTypeEquipment && line.Quantity > line.AvailableQuantity {
		return &StockError{Name: line.Name, Available: line.AvailableQuantity}
	}

	c.Lines = append(c.Lines, line)
	return nil
}

func (c *Cart) Remove(itemType entity.ItemType, id uuid.UUID) bool {
	i := c.find(itemType, id)
	if i < 0 {
		return false
	}
	c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	return true
}

func (c *Cart) UpdateQuantity(itemType entity.ItemType, id uuid.UUID, qty int) error {
	i := c.find(itemType, id)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty < 1 {
		return ErrInvalidQuantity
	}

	line := &c.Lines[i]
	if line.Type == entity.ItemTypeEquipment && qty > line.AvailableQuantity {
		return &StockError{Name: line.Name, Available: line.AvailableQuantity}
	}
	line.Quantity = qty
	return nil
}

func (c *Cart) SetDates(start, end time.Time) error {
	if end.Before(start) {
		return ErrInvalidDates
	}
	c.StartDate = &start
	c.EndDate = &end
	return nil
}

// Clear empties the lines and forgets the rental window.
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.StartDate = nil
	c.EndDate = nil
}

// RentalDays is zero until a valid window is set.
func (c *Cart) RentalDays() int {
	if c.StartDate == nil || c.EndDate == nil || c.EndDate.Before(*c.StartDate) {
		return 0
	}
	return entity.RentalDays(*c.StartDate, *c.EndDate)
}

func (c *Cart) Count() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

// Valid reports whether the cart can be checked out.
func (c *Cart) Valid() bool {
	if len(c.Lines) == 0 || c.RentalDays() == 0 {
		return false
	}
	for _, l := range c.Lines {
		if l.Quantity <= 0 {
			return false
		}
	}
	return true
}

// EstimatedTotal prices the cart with the snapshot prices. The booking
// engine recomputes it from the live catalog at checkout.
func (c *Cart) EstimatedTotal() float64 {
	days := c.RentalDays()
	total := 0.0
	for _, l := range c.Lines {
		total += entity.LineCost(l.Type, l.UnitPrice, l.Quantity, days)
	}
	return total
}
