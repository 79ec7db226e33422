package inventory_test

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/facility"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Repositorio en memoria con transacciones copy-on-write
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu    sync.Mutex
	units map[string]*entity.ProductUnit
	// failUpdateOn hace fallar UpdateStock para ese id (simula error a mitad de la tx).
	failUpdateOn string
}

func newStore(units ...*entity.ProductUnit) *memStore {
	s := &memStore{units: make(map[string]*entity.ProductUnit)}
	for _, u := range units {
		s.units[u.ID] = cloneUnit(u)
	}
	return s
}

func (s *memStore) get(id string) *entity.ProductUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.units[id]; ok {
		return cloneUnit(u)
	}
	return nil
}

func (s *memStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.units)
}

func (s *memStore) all() []*entity.ProductUnit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*entity.ProductUnit, 0, len(s.units))
	for _, u := range s.units {
		out = append(out, cloneUnit(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SKU < out[j].SKU })
	return out
}

// Repo acceso sin transacción (lecturas del caso de uso).
func (s *memStore) Repo() repository.ProductUnitRepository {
	return &memRepo{store: s, direct: true}
}

// Run copia el estado, ejecuta fn y solo publica la copia si fn no falla.
func (s *memStore) Run(ctx context.Context, fn func(units repository.ProductUnitRepository) error) error {
	s.mu.Lock()
	snapshot := make(map[string]*entity.ProductUnit, len(s.units))
	for id, u := range s.units {
		snapshot[id] = cloneUnit(u)
	}
	s.mu.Unlock()

	if err := fn(&memRepo{store: s, data: snapshot}); err != nil {
		return err
	}
	s.mu.Lock()
	s.units = snapshot
	s.mu.Unlock()
	return nil
}

func cloneUnit(u *entity.ProductUnit) *entity.ProductUnit {
	c := *u
	c.Distributions = append([]entity.Distribution(nil), u.Distributions...)
	c.Placements = append([]entity.Placement(nil), u.Placements...)
	if u.ExpiryDate != nil {
		e := *u.ExpiryDate
		c.ExpiryDate = &e
	}
	return &c
}

type memRepo struct {
	store  *memStore
	data   map[string]*entity.ProductUnit
	direct bool
}

// m mapa visible: el vigente del store o la copia de la transacción.
func (r *memRepo) m() map[string]*entity.ProductUnit {
	if r.direct {
		return r.store.units
	}
	return r.data
}

func (r *memRepo) lock() func() {
	if r.direct {
		r.store.mu.Lock()
		return r.store.mu.Unlock
	}
	return func() {}
}

func (r *memRepo) filter(keep func(u *entity.ProductUnit) bool) []*entity.ProductUnit {
	out := make([]*entity.ProductUnit, 0)
	for _, u := range r.m() {
		if keep(u) {
			out = append(out, cloneUnit(u))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReceivedDate.Equal(out[j].ReceivedDate) {
			return out[i].ReceivedDate.Before(out[j].ReceivedDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *memRepo) Create(_ context.Context, u *entity.ProductUnit) error {
	defer r.lock()()
	if _, ok := r.m()[u.ID]; ok {
		return domain.ErrDuplicate
	}
	r.m()[u.ID] = cloneUnit(u)
	return nil
}

func (r *memRepo) GetByID(_ context.Context, facilityID, id string) (*entity.ProductUnit, error) {
	defer r.lock()()
	u, ok := r.m()[id]
	if !ok || u.FacilityID != facilityID {
		return nil, nil
	}
	return cloneUnit(u), nil
}

func (r *memRepo) GetByIDForUpdate(ctx context.Context, facilityID, id string) (*entity.ProductUnit, error) {
	return r.GetByID(ctx, facilityID, id)
}

func (r *memRepo) ListByFacility(_ context.Context, facilityID, name string, limit, offset int) ([]*entity.ProductUnit, error) {
	defer r.lock()()
	all := r.filter(func(u *entity.ProductUnit) bool {
		return u.FacilityID == facilityID && (name == "" || u.Name == name)
	})
	if offset >= len(all) {
		return []*entity.ProductUnit{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *memRepo) ListForSummary(_ context.Context, facilityID, name string) ([]*entity.ProductUnit, error) {
	defer r.lock()()
	return r.filter(func(u *entity.ProductUnit) bool {
		return u.FacilityID == facilityID && (name == "" || u.Name == name)
	}), nil
}

func (r *memRepo) ListActiveForUpdate(_ context.Context, facilityID, name string) ([]*entity.ProductUnit, error) {
	defer r.lock()()
	return r.filter(func(u *entity.ProductUnit) bool {
		return u.FacilityID == facilityID && u.Name == name && u.IsAvailable()
	}), nil
}

func (r *memRepo) ListBatchIDs(_ context.Context, facilityID, prefix string) ([]string, error) {
	defer r.lock()()
	seen := map[string]bool{}
	var out []string
	for _, u := range r.m() {
		if u.FacilityID == facilityID && strings.HasPrefix(u.BatchID, prefix+"-") && !seen[u.BatchID] {
			seen[u.BatchID] = true
			out = append(out, u.BatchID)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}

func (r *memRepo) CountInBatch(_ context.Context, facilityID, batchID string) (int, error) {
	defer r.lock()()
	n := 0
	for _, u := range r.m() {
		if u.FacilityID == facilityID && u.BatchID == batchID {
			n++
		}
	}
	return n, nil
}

func (r *memRepo) ExistsName(_ context.Context, facilityID, name string) (bool, error) {
	defer r.lock()()
	for _, u := range r.m() {
		if u.FacilityID == facilityID && u.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRepo) UpdateStock(_ context.Context, u *entity.ProductUnit) error {
	defer r.lock()()
	if r.store.failUpdateOn == u.ID {
		return errors.New("update stock: conexión perdida")
	}
	stored, ok := r.m()[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Quantity = u.Quantity
	stored.Status = u.Status
	stored.Distributions = append([]entity.Distribution(nil), u.Distributions...)
	stored.Placements = append([]entity.Placement(nil), u.Placements...)
	stored.UpdatedAt = u.UpdatedAt
	return nil
}

func (r *memRepo) UpdatePlacements(_ context.Context, u *entity.ProductUnit) error {
	defer r.lock()()
	stored, ok := r.m()[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored.Placements = append([]entity.Placement(nil), u.Placements...)
	stored.UpdatedAt = u.UpdatedAt
	return nil
}

func (r *memRepo) ListExpiring(_ context.Context, facilityID string, before time.Time) ([]*entity.ProductUnit, error) {
	defer r.lock()()
	return r.filter(func(u *entity.ProductUnit) bool {
		return u.FacilityID == facilityID && u.ExpiryDate != nil && u.ExpiryDate.Before(before) && u.IsAvailable()
	}), nil
}

func (r *memRepo) StockByProduct(_ context.Context, facilityID string) ([]entity.StockLevel, error) {
	defer r.lock()()
	byName := map[string]*entity.StockLevel{}
	var names []string
	for _, u := range r.m() {
		if u.FacilityID != facilityID || u.Status != entity.UnitStatusActive {
			continue
		}
		l, ok := byName[u.Name]
		if !ok {
			l = &entity.StockLevel{FacilityID: facilityID, ProductName: u.Name, Remaining: decimal.Zero}
			byName[u.Name] = l
			names = append(names, u.Name)
		}
		l.Remaining = l.Remaining.Add(u.Quantity)
		l.UnitCount++
	}
	sort.Strings(names)
	out := make([]entity.StockLevel, 0, len(names))
	for _, n := range names {
		out = append(out, *byName[n])
	}
	return out, nil
}

func (r *memRepo) ListFacilityIDs(_ context.Context) ([]string, error) {
	defer r.lock()()
	seen := map[string]bool{}
	var out []string
	for _, u := range r.m() {
		if !seen[u.FacilityID] {
			seen[u.FacilityID] = true
			out = append(out, u.FacilityID)
		}
	}
	sort.Strings(out)
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Locker y configuración
// ──────────────────────────────────────────────────────────────────────────────

// mutexLocker bloqueo en proceso por clave que registra las claves pedidas.
type mutexLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	keys  []string
	err   error
}

func newLocker() *mutexLocker {
	return &mutexLocker{locks: map[string]*sync.Mutex{}}
}

func (l *mutexLocker) Lock(_ context.Context, key string) (func(), error) {
	l.mu.Lock()
	if l.err != nil {
		l.mu.Unlock()
		return func() {}, l.err
	}
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.keys = append(l.keys, key)
	l.mu.Unlock()
	m.Lock()
	return m.Unlock, nil
}

type resolverConfigs struct {
	r *facility.Resolver
}

func (c resolverConfigs) Resolve(_ context.Context, id string) (*entity.FacilityConfig, error) {
	return c.r.Resolve(id)
}

// configsWith registro embebido más overrides.
func configsWith(t *testing.T, overrides ...*entity.FacilityConfig) resolverConfigs {
	t.Helper()
	reg, err := facility.DefaultRegistry()
	require.NoError(t, err)
	reg, err = reg.WithOverrides(overrides...)
	require.NoError(t, err)
	return resolverConfigs{r: facility.NewResolver(reg)}
}

func boolPtr(b bool) *bool { return &b }

func jan(d int) time.Time {
	return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC)
}

func stockUnit(id, facilityID, name string, received time.Time, qty, price int64) *entity.ProductUnit {
	return &entity.ProductUnit{
		ID:              id,
		FacilityID:      facilityID,
		Name:            name,
		SKU:             "SKU-" + id,
		BatchID:         "WI-001",
		Quantity:        decimal.NewFromInt(qty),
		InitialQuantity: decimal.NewNullDecimal(decimal.NewFromInt(qty)),
		PricePerUnit:    decimal.NewFromInt(price),
		ReceivedDate:    received,
		Status:          entity.UnitStatusActive,
	}
}
