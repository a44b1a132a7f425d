package cart

import (
	"testing"
	"time"

	"rental-booking/internal/data/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chairs(id uuid.UUID, qty int) Line {
	return Line{
		Type:              entity.ItemTypeEquipment,
		ItemID:            id,
		Name:              "Tiffany Chair",
		UnitPrice:         50,
		AvailableQuantity: 10,
		Quantity:          qty,
	}
}

func TestCart_AddMergesLines(t *testing.T) {
	c := New(uuid.New())
	id := uuid.New()

	require.NoError(t, c.Add(chairs(id, 3)))
	require.NoError(t, c.Add(chairs(id, 4)))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 7, c.Lines[0].Quantity)
	assert.Equal(t, 7, c.Count())
}

func TestCart_AddRespectsEquipmentStock(t *testing.T) {
	c := New(uuid.New())
	id := uuid.New()

	require.NoError(t, c.Add(chairs(id, 8)))

	err := c.Add(chairs(id, 3))
	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 10, stockErr.Available)
	assert.Equal(t, 8, c.Lines[0].Quantity, "rejected add must leave the line untouched")

	assert.ErrorAs(t, New(uuid.New()).Add(chairs(id, 11)), &stockErr)
}

func TestCart_PackagesIgnoreSnapshotStock(t *testing.T) {
	c := New(uuid.New())
	pkg := Line{Type: entity.ItemTypePackage, ItemID: uuid.New(), Name: "Wedding Set", UnitPrice: 15000, Quantity: 2}

	require.NoError(t, c.Add(pkg))
	assert.Equal(t, 2, c.Count())
}

func TestCart_AddRejectsNonPositive(t *testing.T) {
	c := New(uuid.New())
	assert.ErrorIs(t, c.Add(chairs(uuid.New(), 0)), ErrInvalidQuantity)
	assert.Empty(t, c.Lines)
}

func TestCart_UpdateAndRemove(t *testing.T) {
	c := New(uuid.New())
	id := uuid.New()
	require.NoError(t, c.Add(chairs(id, 2)))

	require.NoError(t, c.UpdateQuantity(entity.ItemTypeEquipment, id, 5))
	assert.Equal(t, 5, c.Lines[0].Quantity)

	assert.ErrorIs(t, c.UpdateQuantity(entity.ItemTypeEquipment, id, 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.UpdateQuantity(entity.ItemTypePackage, id, 1), ErrLineNotFound)

	var stockErr *StockError
	assert.ErrorAs(t, c.UpdateQuantity(entity.ItemTypeEquipment, id, 11), &stockErr)

	assert.True(t, c.Remove(entity.ItemTypeEquipment, id))
	assert.False(t, c.Remove(entity.ItemTypeEquipment, id))
	assert.Empty(t, c.Lines)
}

func TestCart_RentalDays(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		end  time.Time
		want int
	}{
		{"same day counts as one", start, 1},
		{"three full days", start.AddDate(0, 0, 3), 3},
		{"partial day rounds up", start.Add(25 * time.Hour), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(uuid.New())
			require.NoError(t, c.SetDates(start, tt.end))
			assert.Equal(t, tt.want, c.RentalDays())
		})
	}

	c := New(uuid.New())
	assert.Equal(t, 0, c.RentalDays(), "no dates yet")
	assert.ErrorIs(t, c.SetDates(start, start.Add(-time.Hour)), ErrInvalidDates)
}

func TestCart_ValidAndTotal(t *testing.T) {
	c := New(uuid.New())
	assert.False(t, c.Valid())

	require.NoError(t, c.Add(chairs(uuid.New(), 2)))
	assert.False(t, c.Valid(), "dates are required")

	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, c.SetDates(start, start.AddDate(0, 0, 3)))
	assert.True(t, c.Valid())

	require.NoError(t, c.Add(Line{Type: entity.ItemTypePackage, ItemID: uuid.New(), UnitPrice: 1000, Quantity: 1}))
	// 3 days * 50 * 2 + 1000 flat
	assert.Equal(t, 1300.0, c.EstimatedTotal())

	c.Clear()
	assert.Empty(t, c.Lines)
	assert.Nil(t, c.StartDate)
	assert.Equal(t, 0, c.Count())
}
