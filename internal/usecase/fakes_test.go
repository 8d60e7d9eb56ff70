package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory/internal/domain"
	"github.com/DRSN-tech/inventory/pkg/e"
	"github.com/jackc/pgx/v5"
)

// memStore общий для всех фейковых репозиториев.
type memStore struct {
	mu         sync.Mutex
	nextID     int64
	clock      time.Time
	categories []domain.Category
	products   []domain.Product
	links      []domain.ProductCategory
	events     []*OutboxEvent

	createErr error
	countErr  error
}

func newMemStore(categories ...string) *memStore {
	s := &memStore{clock: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	for i, name := range categories {
		s.categories = append(s.categories, domain.Category{ID: int64(i + 1), Name: name})
	}

	return s
}

type snapshot struct {
	nextID   int64
	products []domain.Product
	links    []domain.ProductCategory
	events   []*OutboxEvent
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return snapshot{
		nextID:   s.nextID,
		products: append([]domain.Product(nil), s.products...),
		links:    append([]domain.ProductCategory(nil), s.links...),
		events:   append([]*OutboxEvent(nil), s.events...),
	}
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID = snap.nextID
	s.products = snap.products
	s.links = snap.links
	s.events = snap.events
}

func (s *memStore) productsNamed(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, p := range s.products {
		if p.Name == name {
			n++
		}
	}
	return n
}

func (s *memStore) linksOf(productID int64) []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int64
	for _, l := range s.links {
		if l.ProductID == productID {
			ids = append(ids, l.CategoryID)
		}
	}
	return ids
}

// fakeTxManager откатывает изменения memStore, если fn вернула ошибку.
type fakeTxManager struct {
	store *memStore
	opts  []pgx.TxOptions
}

func (f *fakeTxManager) Do(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	f.opts = append(f.opts, opts)

	snap := f.store.snapshot()
	if err := fn(ctx); err != nil {
		f.store.restore(snap)
		return err
	}

	return nil
}

type fakeProductRepo struct {
	s *memStore
}

func (r *fakeProductRepo) Create(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.createErr != nil {
		return nil, r.s.createErr
	}

	r.s.nextID++
	r.s.clock = r.s.clock.Add(time.Second)

	created := *product
	created.ID = r.s.nextID
	created.CreatedAt = r.s.clock
	r.s.products = append(r.s.products, created)

	return &created, nil
}

func (r *fakeProductRepo) AttachCategories(_ context.Context, links []domain.ProductCategory) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.links = append(r.s.links, links...)
	return nil
}

func (r *fakeProductRepo) ExistsByName(_ context.Context, name string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, p := range r.s.products {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProductRepo) matching(filter ProductFilter) []domain.Product {
	var out []domain.Product
	for _, p := range r.s.products {
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Search)) {
			continue
		}

		if len(filter.CategoryIDs) > 0 && !r.hasAnyCategory(p.ID, filter.CategoryIDs) {
			continue
		}

		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out
}

func (r *fakeProductRepo) hasAnyCategory(productID int64, ids []int64) bool {
	for _, l := range r.s.links {
		if l.ProductID != productID {
			continue
		}
		for _, id := range ids {
			if l.CategoryID == id {
				return true
			}
		}
	}
	return false
}

func (r *fakeProductRepo) List(_ context.Context, filter ProductFilter, offset, limit int) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	all := r.matching(filter)
	if offset >= len(all) {
		return nil, nil
	}

	end := offset + limit
	if end > len(all) {
		end = len(all)
	}

	return append([]domain.Product(nil), all[offset:end]...), nil
}

func (r *fakeProductRepo) Count(_ context.Context, filter ProductFilter) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.countErr != nil {
		return 0, r.s.countErr
	}

	return len(r.matching(filter)), nil
}

func (r *fakeProductRepo) Delete(_ context.Context, id int64) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for i, p := range r.s.products {
		if p.ID != id {
			continue
		}

		r.s.products = append(r.s.products[:i:i], r.s.products[i+1:]...)

		kept := r.s.links[:0:0]
		for _, l := range r.s.links {
			if l.ProductID != id {
				kept = append(kept, l)
			}
		}
		r.s.links = kept

		return &p, nil
	}

	return nil, e.ErrProductNotFound
}

type fakeCategoryRepo struct {
	s       *memStore
	listErr error
	calls   int
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]domain.Category, error) {
	r.calls++
	if r.listErr != nil {
		return nil, r.listErr
	}

	out := append([]domain.Category(nil), r.s.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *fakeCategoryRepo) GetByIDs(_ context.Context, ids []int64) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.s.categories {
		for _, id := range ids {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeCategoryRepo) ListByProductIDs(_ context.Context, productIDs []int64) (map[int64][]domain.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	byID := make(map[int64]domain.Category, len(r.s.categories))
	for _, c := range r.s.categories {
		byID[c.ID] = c
	}

	out := make(map[int64][]domain.Category)
	for _, l := range r.s.links {
		for _, pid := range productIDs {
			if l.ProductID == pid {
				out[pid] = append(out[pid], byID[l.CategoryID])
			}
		}
	}
	return out, nil
}

type fakeRecorder struct {
	s   *memStore
	err error
}

func (f *fakeRecorder) Record(_ context.Context, event *OutboxEvent) error {
	if f.err != nil {
		return f.err
	}

	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	f.s.events = append(f.s.events, event)
	return nil
}

type fakeCache struct {
	categories []domain.Category
	hit        bool
	getErr     error
	setErr     error
	sets       int
}

func (f *fakeCache) GetCategories(context.Context) ([]domain.Category, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.categories, f.hit, nil
}

func (f *fakeCache) SetCategories(_ context.Context, categories []domain.Category) error {
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.categories = categories
	f.hit = true
	return nil
}

var errBoom = errors.New("boom")
