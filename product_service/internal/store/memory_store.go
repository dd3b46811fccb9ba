package store

import (
	"context"
	"slices"
	"sync"
	"time"

	perrors "github.com/inventario/inventario/product_service/internal/errors"
)

// MemoryStore implements ProductStore using an in-memory map.
// Deleted products stay in the map as tombstones.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[int64]Product
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory ProductStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]Product),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) FindAll(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if p.DeletedAt == nil {
			list = append(list, p)
		}
	}
	sortByID(list)
	return list, nil
}

func (s *MemoryStore) FindByID(_ context.Context, id int64) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.live(id)
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

func (s *MemoryStore) FindAllByID(_ context.Context, ids []int64) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{}, len(ids))
	list := make([]Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if p, ok := s.live(id); ok {
			list = append(list, p)
		}
	}
	sortByID(list)
	return list, nil
}

func (s *MemoryStore) ExistsByID(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.live(id)
	return ok, nil
}

func (s *MemoryStore) Save(_ context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(product.ID); ok {
		return nil, perrors.ErrProductExists
	}
	now := s.now()
	product.CreatedAt = now
	product.UpdatedAt = now
	product.DeletedAt = nil
	s.products[product.ID] = product
	return &product, nil
}

func (s *MemoryStore) Update(_ context.Context, id int64, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.live(id)
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	current.Active = product.Active
	current.Name = product.Name
	current.Price = product.Price
	current.Stock = product.Stock
	current.Brand = product.Brand
	current.UpdatedAt = s.now()
	s.products[id] = current
	return &current, nil
}

func (s *MemoryStore) DeleteByID(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.live(id)
	if !ok {
		return perrors.ErrProductNotFound
	}
	now := s.now()
	current.DeletedAt = &now
	current.UpdatedAt = now
	s.products[id] = current
	return nil
}

func (s *MemoryStore) Ping(_ context.Context) error {
	return nil
}

// live returns the product if present and not deleted. Callers hold the lock.
func (s *MemoryStore) live(id int64) (Product, bool) {
	p, ok := s.products[id]
	if !ok || p.DeletedAt != nil {
		return Product{}, false
	}
	return p, true
}

func sortByID(list []Product) {
	slices.SortFunc(list, func(a, b Product) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
}
