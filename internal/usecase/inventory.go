package usecase

import (
	"context"
	"fmt"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	releaseCauseCancel     = "cancel"
	releaseCauseReject     = "reject"
	releaseCauseCompensate = "compensate"
)

// resolvedLine is a request line matched against the live catalog.
type resolvedLine struct {
	item      entity.BookingItem
	available int
}

// lookupItem returns the catalog name, price and stock for one line, or
// nil when the item does not exist.
func lookupItem(ctx context.Context, repo *repository.Repository, itemType entity.ItemType, id uuid.UUID) (*resolvedLine, error) {
	switch itemType {
	case entity.ItemTypeEquipment:
		e, err := repo.Equipment.FindByID(ctx, id)
		if err != nil || e == nil {
			return nil, err
		}
		return &resolvedLine{
			item:      entity.BookingItem{Type: itemType, ItemID: e.ID, ItemName: e.Name, UnitPrice: e.PricePerDay},
			available: e.AvailableQuantity,
		}, nil
	case entity.ItemTypePackage:
		p, err := repo.Package.FindByID(ctx, id)
		if err != nil || p == nil {
			return nil, err
		}
		return &resolvedLine{
			item:      entity.BookingItem{Type: itemType, ItemID: p.ID, ItemName: p.Name, UnitPrice: p.Price},
			available: p.AvailableQuantity,
		}, nil
	default:
		return nil, fmt.Errorf("unknown item type %q", itemType)
	}
}

func notFoundItem(itemType entity.ItemType, id string) error {
	if itemType == entity.ItemTypePackage {
		return newError(ErrNotFound, "Package not found: %s", id)
	}
	return newError(ErrNotFound, "Equipment not found: %s", id)
}

// reserveAll reserves every line in order. When one line cannot be reserved
// the lines already taken are released before returning, so a failed call
// leaves stock untouched.
func reserveAll(ctx context.Context, repo *repository.Repository, items []entity.BookingItem, log *zap.Logger) error {
	for i, it := range items {
		ok, err := repo.Inventory.Reserve(ctx, it.Type, it.ItemID, it.Quantity)
		if err == nil && ok {
			continue
		}

		releaseAll(ctx, repo, items[:i], releaseCauseCompensate, log)

		if err != nil {
			metrics.IncReservationFailed(string(it.Type), "error")
			return fmt.Errorf("reserve %s %s: %w", it.Type, it.ItemID, err)
		}

		metrics.IncReservationFailed(string(it.Type), "insufficient_stock")
		available := 0
		if current, lookupErr := lookupItem(ctx, repo, it.Type, it.ItemID); lookupErr == nil && current != nil {
			available = current.available
		}
		return &InsufficientStockError{Item: it.ItemName, Available: available, Requested: it.Quantity}
	}
	return nil
}

// releaseAll returns every line to stock. Failures are logged; a release
// that cannot be applied must not block the state change that caused it.
func releaseAll(ctx context.Context, repo *repository.Repository, items []entity.BookingItem, cause string, log *zap.Logger) {
	for _, it := range items {
		if err := repo.Inventory.Release(ctx, it.Type, it.ItemID, it.Quantity); err != nil {
			log.Error("Failed to release stock",
				zap.Error(err),
				zap.String("item_type", string(it.Type)),
				zap.String("item_id", it.ItemID.String()),
				zap.Int("quantity", it.Quantity),
				zap.String("cause", cause))
			continue
		}
		metrics.AddStockReleased(string(it.Type), cause, it.Quantity)
	}
}
