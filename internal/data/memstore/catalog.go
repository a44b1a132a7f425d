package memstore

import (
	"context"
	"fmt"
	"sort"

	"rental-booking/internal/data/entity"
	"rental-booking/internal/data/repository"

	"github.com/google/uuid"
)

type equipmentStore struct{ *db }

func (s *equipmentStore) Create(_ context.Context, e *entity.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *e
	s.equipment[e.ID] = &cp
	return nil
}

func (s *equipmentStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.equipment[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (s *equipmentStore) FindAll(_ context.Context) ([]*entity.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*entity.Equipment, 0, len(s.equipment))
	for _, e := range s.equipment {
		cp := *e
		list = append(list, &cp)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Featured != list[j].Featured {
			return list[i].Featured
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (s *equipmentStore) Update(_ context.Context, e *entity.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.equipment[e.ID]; !ok {
		return fmt.Errorf("update equipment %s: %w", e.ID, repository.ErrNotFound)
	}
	cp := *e
	s.equipment[e.ID] = &cp
	return nil
}

func (s *equipmentStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.equipment[id]; !ok {
		return fmt.Errorf("delete equipment %s: %w", id, repository.ErrNotFound)
	}
	delete(s.equipment, id)
	return nil
}

type packageStore struct{ *db }

func clonePackage(p *entity.Package) *entity.Package {
	cp := *p
	cp.Items = append([]string(nil), p.Items...)
	cp.TableChairs = append([]string(nil), p.TableChairs...)
	cp.CateringEquipment = append([]string(nil), p.CateringEquipment...)
	cp.Extras = append([]string(nil), p.Extras...)
	return &cp
}

func (s *packageStore) Create(_ context.Context, p *entity.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.packages[p.ID] = clonePackage(p)
	return nil
}

func (s *packageStore) FindByID(_ context.Context, id uuid.UUID) (*entity.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.packages[id]
	if !ok {
		return nil, nil
	}
	return clonePackage(p), nil
}

func (s *packageStore) FindAll(_ context.Context) ([]*entity.Package, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*entity.Package, 0, len(s.packages))
	for _, p := range s.packages {
		list = append(list, clonePackage(p))
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Category != list[j].Category {
			return list[i].Category < list[j].Category
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

func (s *packageStore) Update(_ context.Context, p *entity.Package) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[p.ID]; !ok {
		return fmt.Errorf("update package %s: %w", p.ID, repository.ErrNotFound)
	}
	s.packages[p.ID] = clonePackage(p)
	return nil
}

func (s *packageStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.packages[id]; !ok {
		return fmt.Errorf("delete package %s: %w", id, repository.ErrNotFound)
	}
	delete(s.packages, id)
	return nil
}

type inventoryStore struct{ *db }

// counter must be called with mu held.
func (s *inventoryStore) counter(itemType entity.ItemType, id uuid.UUID) (*int, error) {
	switch itemType {
	case entity.ItemTypeEquipment:
		if e, ok := s.equipment[id]; ok {
			return &e.AvailableQuantity, nil
		}
	case entity.ItemTypePackage:
		if p, ok := s.packages[id]; ok {
			return &p.AvailableQuantity, nil
		}
	default:
		return nil, fmt.Errorf("unknown item type %q", itemType)
	}
	return nil, nil
}

func (s *inventoryStore) Reserve(_ context.Context, itemType entity.ItemType, id uuid.UUID, qty int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	available, err := s.counter(itemType, id)
	if err != nil || available == nil {
		return false, err
	}
	if *available < qty {
		return false, nil
	}
	*available -= qty
	return true, nil
}

func (s *inventoryStore) Release(_ context.Context, itemType entity.ItemType, id uuid.UUID, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	available, err := s.counter(itemType, id)
	if err != nil || available == nil {
		return err
	}
	*available += qty
	return nil
}
