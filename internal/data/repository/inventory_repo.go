package repository

import (
	"context"
	"fmt"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryRepository owns the available_quantity counters of both catalogs.
type InventoryRepository interface {
	// Reserve decrements the counter only if enough units remain. It reports
	// false, without error, when the stock is short or the item is gone.
	Reserve(ctx context.Context, itemType entity.ItemType, id uuid.UUID, qty int) (bool, error)
	// Release increments the counter unconditionally. A missing item is not
	// an error.
	Release(ctx context.Context, itemType entity.ItemType, id uuid.UUID, qty int) error
}

type inventoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewInventoryRepository(db database.PgxIface, log *zap.Logger) InventoryRepository {
	return &inventoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "inventory")),
	}
}

func inventoryTable(itemType entity.ItemType) (string, error) {
	switch itemType {
	case entity.ItemTypeEquipment:
		return "equipment", nil
	case entity.ItemTypePackage:
		return "packages", nil
	default:
		return "", fmt.Errorf("unknown item type %q", itemType)
	}
}

func (r *inventoryRepository) Reserve(ctx context.Context, itemType entity.ItemType, id uuid.UUID, qty int) (bool, error) {
	table, err := inventoryTable(itemType)
	if err != nil {
		return false, err
	}

	// single conditional update, safe under concurrent checkouts
	query := `
		UPDATE ` + table + `
		SET available_quantity = available_quantity - $2, updated_at = NOW()
		WHERE id = $1 AND available_quantity >= $2
	`

	result, err := r.db.Exec(ctx, query, id, qty)
	if err != nil {
		r.log.Error("Failed to reserve stock",
			zap.Error(err),
			zap.String("item_type", string(itemType)),
			zap.String("item_id", id.String()),
			zap.Int("quantity", qty),
		)
		return false, fmt.Errorf("reserve %s %s: %w", itemType, id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *inventoryRepository) Release(ctx context.Context, itemType entity.ItemType, id uuid.UUID, qty int) error {
	table, err := inventoryTable(itemType)
	if err != nil {
		return err
	}

	query := `
		UPDATE ` + table + `
		SET available_quantity = available_quantity + $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query, id, qty)
	if err != nil {
		r.log.Error("Failed to release stock",
			zap.Error(err),
			zap.String("item_type", string(itemType)),
			zap.String("item_id", id.String()),
			zap.Int("quantity", qty),
		)
		return fmt.Errorf("release %s %s: %w", itemType, id.String(), err)
	}

	if result.RowsAffected() == 0 {
		r.log.Warn("Released stock for missing item",
			zap.String("item_type", string(itemType)),
			zap.String("item_id", id.String()),
			zap.Int("quantity", qty),
		)
	}

	return nil
}
