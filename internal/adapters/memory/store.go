package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"supplyrisk/internal/domain"
)

type entry struct {
	mu       sync.Mutex
	supplier domain.Supplier
}

// Store is a process-memory SupplierRepository. Writers to one supplier are
// serialized; readers always see a fully applied value.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func New() *Store {
	return &Store{entries: map[string]*entry{}}
}

func (st *Store) Insert(ctx context.Context, s domain.Supplier) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.entries[s.ID]; ok {
		return fmt.Errorf("supplier %s already exists", s.ID)
	}
	st.entries[s.ID] = &entry{supplier: s.Clone()}
	return nil
}

func (st *Store) lookup(id string) (*entry, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	e, ok := st.entries[id]
	return e, ok
}

func (st *Store) Get(ctx context.Context, id string) (domain.Supplier, bool, error) {
	e, ok := st.lookup(id)
	if !ok {
		return domain.Supplier{}, false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.supplier.Clone(), true, nil
}

func (st *Store) List(ctx context.Context) ([]domain.Supplier, error) {
	st.mu.RLock()
	all := make([]*entry, 0, len(st.entries))
	for _, e := range st.entries {
		all = append(all, e)
	}
	st.mu.RUnlock()

	out := make([]domain.Supplier, 0, len(all))
	for _, e := range all {
		e.mu.Lock()
		out = append(out, e.supplier.Clone())
		e.mu.Unlock()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (st *Store) Mutate(ctx context.Context, id string, fn func(*domain.Supplier) error) (domain.Supplier, error) {
	e, ok := st.lookup(id)
	if !ok {
		return domain.Supplier{}, fmt.Errorf("supplier %s: %w", id, domain.ErrNotFound)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return domain.Supplier{}, err
	}
	next := e.supplier.Clone()
	if err := fn(&next); err != nil {
		return domain.Supplier{}, err
	}
	e.supplier = next
	return next.Clone(), nil
}
