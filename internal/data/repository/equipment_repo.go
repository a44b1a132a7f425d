package repository

import (
	"context"
	"errors"
	"fmt"

	"rental-booking/internal/data/entity"
	"rental-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type EquipmentRepository interface {
	Create(ctx context.Context, equipment *entity.Equipment) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Equipment, error)
	FindAll(ctx context.Context) ([]*entity.Equipment, error)
	Update(ctx context.Context, equipment *entity.Equipment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type equipmentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEquipmentRepository(db database.PgxIface, log *zap.Logger) EquipmentRepository {
	return &equipmentRepository{
		db:  db,
		log: log.With(zap.String("repository", "equipment")),
	}
}

const equipmentColumns = `id, name, category, description, price_per_day, available_quantity,
		       featured, available, image_url, created_at, updated_at`

func scanEquipment(row scanner) (*entity.Equipment, error) {
	var e entity.Equipment
	err := row.Scan(
		&e.ID,
		&e.Name,
		&e.Category,
		&e.Description,
		&e.PricePerDay,
		&e.AvailableQuantity,
		&e.Featured,
		&e.Available,
		&e.ImageURL,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equipmentRepository) Create(ctx context.Context, e *entity.Equipment) error {
	query := `
		INSERT INTO equipment (id, name, category, description, price_per_day, available_quantity,
		                       featured, available, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		e.ID, e.Name, e.Category, e.Description, e.PricePerDay, e.AvailableQuantity,
		e.Featured, e.Available, e.ImageURL, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create equipment", zap.Error(err), zap.String("name", e.Name))
		return fmt.Errorf("create equipment %s: %w", e.Name, err)
	}

	return nil
}

func (r *equipmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`

	e, err := scanEquipment(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find equipment", zap.Error(err), zap.String("equipment_id", id.String()))
		return nil, fmt.Errorf("find equipment %s: %w", id.String(), err)
	}

	return e, nil
}

func (r *equipmentRepository) FindAll(ctx context.Context) ([]*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment ORDER BY featured DESC, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list equipment", zap.Error(err))
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()

	var list []*entity.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		list = append(list, e)
	}

	return list, rows.Err()
}

func (r *equipmentRepository) Update(ctx context.Context, e *entity.Equipment) error {
	query := `
		UPDATE equipment
		SET name = $2, category = $3, description = $4, price_per_day = $5,
		    available_quantity = $6, featured = $7, available = $8, image_url = $9,
		    updated_at = $10
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		e.ID, e.Name, e.Category, e.Description, e.PricePerDay,
		e.AvailableQuantity, e.Featured, e.Available, e.ImageURL, e.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update equipment", zap.Error(err), zap.String("equipment_id", e.ID.String()))
		return fmt.Errorf("update equipment %s: %w", e.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update equipment %s: %w", e.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *equipmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete equipment", zap.Error(err), zap.String("equipment_id", id.String()))
		return fmt.Errorf("delete equipment %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete equipment %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
