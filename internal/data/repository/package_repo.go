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

type PackageRepository interface {
	Create(ctx context.Context, pkg *entity.Package) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error)
	FindAll(ctx context.Context) ([]*entity.Package, error)
	Update(ctx context.Context, pkg *entity.Package) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type packageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPackageRepository(db database.PgxIface, log *zap.Logger) PackageRepository {
	return &packageRepository{
		db:  db,
		log: log.With(zap.String("repository", "package")),
	}
}

const packageColumns = `id, name, description, price, pax, category, available_quantity,
		       items, table_chairs, catering_equipment, extras, image_url,
		       created_at, updated_at`

func scanPackage(row scanner) (*entity.Package, error) {
	var p entity.Package
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Pax,
		&p.Category,
		&p.AvailableQuantity,
		&p.Items,
		&p.TableChairs,
		&p.CateringEquipment,
		&p.Extras,
		&p.ImageURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *packageRepository) Create(ctx context.Context, p *entity.Package) error {
	query := `
		INSERT INTO packages (id, name, description, price, pax, category, available_quantity,
		                      items, table_chairs, catering_equipment, extras, image_url,
		                      created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Pax, p.Category, p.AvailableQuantity,
		p.Items, p.TableChairs, p.CateringEquipment, p.Extras, p.ImageURL,
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to create package", zap.Error(err), zap.String("name", p.Name))
		return fmt.Errorf("create package %s: %w", p.Name, err)
	}

	return nil
}

func (r *packageRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages WHERE id = $1`

	p, err := scanPackage(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find package", zap.Error(err), zap.String("package_id", id.String()))
		return nil, fmt.Errorf("find package %s: %w", id.String(), err)
	}

	return p, nil
}

func (r *packageRepository) FindAll(ctx context.Context) ([]*entity.Package, error) {
	query := `SELECT ` + packageColumns + ` FROM packages ORDER BY category, name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to list packages", zap.Error(err))
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	var list []*entity.Package
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package: %w", err)
		}
		list = append(list, p)
	}

	return list, rows.Err()
}

func (r *packageRepository) Update(ctx context.Context, p *entity.Package) error {
	query := `
		UPDATE packages
		SET name = $2, description = $3, price = $4, pax = $5, category = $6,
		    available_quantity = $7, items = $8, table_chairs = $9,
		    catering_equipment = $10, extras = $11, image_url = $12, updated_at = $13
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.Price, p.Pax, p.Category,
		p.AvailableQuantity, p.Items, p.TableChairs,
		p.CateringEquipment, p.Extras, p.ImageURL, p.UpdatedAt,
	)
	if err != nil {
		r.log.Error("Failed to update package", zap.Error(err), zap.String("package_id", p.ID.String()))
		return fmt.Errorf("update package %s: %w", p.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update package %s: %w", p.ID.String(), ErrNotFound)
	}

	return nil
}

func (r *packageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete package", zap.Error(err), zap.String("package_id", id.String()))
		return fmt.Errorf("delete package %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete package %s: %w", id.String(), ErrNotFound)
	}

	return nil
}
