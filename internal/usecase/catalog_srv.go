package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"
	"rental-booking/internal/dto/request"
	"rental-booking/internal/dto/response"
	"rental-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CatalogService manages equipment and packages. Deleting an item never
// touches bookings, which keep their own snapshot.
type CatalogService interface {
	ListEquipment(ctx context.Context) ([]response.EquipmentResponse, error)
	GetEquipment(ctx context.Context, id uuid.UUID) (*response.EquipmentResponse, error)
	CreateEquipment(ctx context.Context, req *request.EquipmentRequest) (*response.EquipmentResponse, error)
	UpdateEquipment(ctx context.Context, id uuid.UUID, req *request.EquipmentRequest) (*response.EquipmentResponse, error)
	DeleteEquipment(ctx context.Context, id uuid.UUID) error

	ListPackages(ctx context.Context) ([]response.PackageResponse, error)
	GetPackage(ctx context.Context, id uuid.UUID) (*response.PackageResponse, error)
	CreatePackage(ctx context.Context, req *request.PackageRequest) (*response.PackageResponse, error)
	UpdatePackage(ctx context.Context, id uuid.UUID, req *request.PackageRequest) (*response.PackageResponse, error)
	DeletePackage(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewCatalogService(repo *repository.Repository, log *zap.Logger) CatalogService {
	return &catalogService{
		repo: repo,
		log:  log.With(zap.String("service", "catalog")),
	}
}

func (s *catalogService) ListEquipment(ctx context.Context) ([]response.EquipmentResponse, error) {
	items, err := s.repo.Equipment.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}

	out := make([]response.EquipmentResponse, 0, len(items))
	for _, e := range items {
		out = append(out, response.EquipmentToResponse(e))
	}
	return out, nil
}

func (s *catalogService) GetEquipment(ctx context.Context, id uuid.UUID) (*response.EquipmentResponse, error) {
	e, err := s.repo.Equipment.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	if e == nil {
		return nil, newError(ErrNotFound, "Equipment not found")
	}
	resp := response.EquipmentToResponse(e)
	return &resp, nil
}

func applyEquipment(e *entity.Equipment, req *request.EquipmentRequest) {
	e.Name = strings.TrimSpace(req.Name)
	e.Category = strings.TrimSpace(req.Category)
	e.Description = req.Description
	e.PricePerDay = req.PricePerDay
	e.AvailableQuantity = req.AvailableQuantity
	e.Featured = req.Featured
	e.Available = req.Available == nil || *req.Available
	if req.ImageURL != "" {
		e.ImageURL = req.ImageURL
	}
	if e.ImageURL == "" {
		e.ImageURL = entity.DefaultImageURL
	}
}

func (s *catalogService) CreateEquipment(ctx context.Context, req *request.EquipmentRequest) (*response.EquipmentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	now := time.Now()
	e := &entity.Equipment{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
	}
	applyEquipment(e, req)

	if err := s.repo.Equipment.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create equipment: %w", err)
	}

	s.log.Info("Equipment added", zap.String("equipment_id", e.ID.String()), zap.String("name", e.Name))
	resp := response.EquipmentToResponse(e)
	return &resp, nil
}

func (s *catalogService) UpdateEquipment(ctx context.Context, id uuid.UUID, req *request.EquipmentRequest) (*response.EquipmentResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	e, err := s.repo.Equipment.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find equipment: %w", err)
	}
	if e == nil {
		return nil, newError(ErrNotFound, "Equipment not found")
	}

	applyEquipment(e, req)
	e.UpdatedAt = time.Now()

	if err := s.repo.Equipment.Update(ctx, e); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Equipment not found")
		}
		return nil, fmt.Errorf("update equipment: %w", err)
	}

	resp := response.EquipmentToResponse(e)
	return &resp, nil
}

func (s *catalogService) DeleteEquipment(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Equipment.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Equipment not found")
		}
		return fmt.Errorf("delete equipment: %w", err)
	}
	s.log.Info("Equipment deleted", zap.String("equipment_id", id.String()))
	return nil
}

func (s *catalogService) ListPackages(ctx context.Context) ([]response.PackageResponse, error) {
	items, err := s.repo.Package.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	out := make([]response.PackageResponse, 0, len(items))
	for _, p := range items {
		out = append(out, response.PackageToResponse(p))
	}
	return out, nil
}

func (s *catalogService) GetPackage(ctx context.Context, id uuid.UUID) (*response.PackageResponse, error) {
	p, err := s.repo.Package.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get package: %w", err)
	}
	if p == nil {
		return nil, newError(ErrNotFound, "Package not found")
	}
	resp := response.PackageToResponse(p)
	return &resp, nil
}

func applyPackage(p *entity.Package, req *request.PackageRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Price = req.Price
	p.Pax = req.Pax
	p.Category = strings.TrimSpace(req.Category)
	if p.Category == "" {
		p.Category = entity.DefaultPackageCategory
	}
	p.AvailableQuantity = req.AvailableQuantity
	if p.AvailableQuantity <= 0 {
		p.AvailableQuantity = 1
	}
	p.Items = []string(req.Items)
	p.TableChairs = []string(req.TableChairs)
	p.CateringEquipment = []string(req.CateringEquipment)
	p.Extras = []string(req.Extras)
	if req.ImageURL != "" {
		p.ImageURL = req.ImageURL
	}
	if p.ImageURL == "" {
		p.ImageURL = entity.DefaultImageURL
	}
}

func (s *catalogService) CreatePackage(ctx context.Context, req *request.PackageRequest) (*response.PackageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	now := time.Now()
	p := &entity.Package{
		BaseNoDelete: entity.BaseNoDelete{ID: uuid.New(), CreatedAt: now, UpdatedAt: now},
	}
	applyPackage(p, req)

	if err := s.repo.Package.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	s.log.Info("Package added", zap.String("package_id", p.ID.String()), zap.String("name", p.Name))
	resp := response.PackageToResponse(p)
	return &resp, nil
}

func (s *catalogService) UpdatePackage(ctx context.Context, id uuid.UUID, req *request.PackageRequest) (*response.PackageResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	p, err := s.repo.Package.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find package: %w", err)
	}
	if p == nil {
		return nil, newError(ErrNotFound, "Package not found")
	}

	applyPackage(p, req)
	p.UpdatedAt = time.Now()

	if err := s.repo.Package.Update(ctx, p); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrNotFound, "Package not found")
		}
		return nil, fmt.Errorf("update package: %w", err)
	}

	resp := response.PackageToResponse(p)
	return &resp, nil
}

func (s *catalogService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Package.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newError(ErrNotFound, "Package not found")
		}
		return fmt.Errorf("delete package: %w", err)
	}
	s.log.Info("Package deleted", zap.String("package_id", id.String()))
	return nil
}
