// Package testutil provee dobles de test en memoria: repositorios sobre maps
// y un TxRunner falso con semántica snapshot/rollback, para probar los casos
// de uso transaccionales sin PostgreSQL.
package testutil

import (
	"sort"
	"time"

	"github.com/fulfila/stock-api/internal/domain/entity"
)

// MemStore es el estado compartido de todos los repositorios en memoria.
type MemStore struct {
	Businesses map[string]*entity.Business
	Products   map[string]*entity.Product
	Storages   map[string]*entity.Storage
	Stocks     map[string]*entity.Stock
	Orders     map[string]*entity.MovementOrder
	Movements  []*entity.Movement
}

// NewMemStore crea un store vacío.
func NewMemStore() *MemStore {
	return &MemStore{
		Businesses: map[string]*entity.Business{},
		Products:   map[string]*entity.Product{},
		Storages:   map[string]*entity.Storage{},
		Stocks:     map[string]*entity.Stock{},
		Orders:     map[string]*entity.MovementOrder{},
	}
}

// snapshot clona el estado completo; restore lo repone. Entre ambos se simula
// la transacción: un error del callback deja el store como estaba.
func (s *MemStore) snapshot() *MemStore {
	cp := NewMemStore()
	for k, v := range s.Businesses {
		c := *v
		cp.Businesses[k] = &c
	}
	for k, v := range s.Products {
		c := *v
		cp.Products[k] = &c
	}
	for k, v := range s.Storages {
		c := *v
		cp.Storages[k] = &c
	}
	for k, v := range s.Stocks {
		c := *v
		cp.Stocks[k] = &c
	}
	for k, v := range s.Orders {
		c := *v
		cp.Orders[k] = &c
	}
	cp.Movements = make([]*entity.Movement, len(s.Movements))
	for i, m := range s.Movements {
		c := *m
		cp.Movements[i] = &c
	}
	return cp
}

func (s *MemStore) restore(snap *MemStore) {
	s.Businesses = snap.Businesses
	s.Products = snap.Products
	s.Storages = snap.Storages
	s.Stocks = snap.Stocks
	s.Orders = snap.Orders
	s.Movements = snap.Movements
}

// ──────────────────────────────────────────────────────────────────────────────
// Repositorios en memoria. Igual que los repos de Postgres, los getters
// devuelven (nil, nil) cuando no hay fila, y siempre copias: el caller muta y
// persiste con Save/Update explícito.
// ──────────────────────────────────────────────────────────────────────────────

// MemBusinessRepo implementa repository.BusinessRepository.
type MemBusinessRepo struct{ S *MemStore }

func (r *MemBusinessRepo) Create(b *entity.Business) error {
	c := *b
	r.S.Businesses[b.ID] = &c
	return nil
}

func (r *MemBusinessRepo) GetByID(id string) (*entity.Business, error) {
	b, ok := r.S.Businesses[id]
	if !ok {
		return nil, nil
	}
	c := *b
	return &c, nil
}

func (r *MemBusinessRepo) List(limit, offset int) ([]*entity.Business, error) {
	out := make([]*entity.Business, 0, len(r.S.Businesses))
	for _, b := range r.S.Businesses {
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// MemProductRepo implementa repository.ProductRepository.
type MemProductRepo struct{ S *MemStore }

func (r *MemProductRepo) Create(p *entity.Product) error {
	c := *p
	r.S.Products[p.ID] = &c
	return nil
}

func (r *MemProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.S.Products[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

func (r *MemProductRepo) GetByBusinessEANSKU(businessID, ean, sku string) (*entity.Product, error) {
	for _, p := range r.S.Products {
		if p.BusinessID == businessID && p.EAN == ean && p.SKU == sku {
			c := *p
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemProductRepo) Update(p *entity.Product) error {
	c := *p
	r.S.Products[p.ID] = &c
	return nil
}

// AdjustStockTotals replica la mutación atómica del repo de Postgres:
// TotalStock += delta; ReservedStock acotado en cero cuando delta < 0;
// Status pasa a EmptyStock cuando el total llega a cero y vuelve a Published
// cuando se recupera (Hidden nunca se toca automáticamente).
func (r *MemProductRepo) AdjustStockTotals(productID string, delta int) (*entity.Product, error) {
	p, ok := r.S.Products[productID]
	if !ok {
		return nil, nil
	}
	p.TotalStock += delta
	if delta < 0 {
		p.ReservedStock += delta
		if p.ReservedStock < 0 {
			p.ReservedStock = 0
		}
	}
	switch {
	case p.Status == entity.ProductStatusHidden:
		// lo maneja el operador; nunca cambia solo
	case p.TotalStock <= 0:
		p.Status = entity.ProductStatusEmptyStock
	case p.Status == entity.ProductStatusEmptyStock:
		p.Status = entity.ProductStatusPublished
	}
	p.UpdatedAt = time.Now()
	c := *p
	return &c, nil
}

func (r *MemProductRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.S.Products {
		if p.BusinessID == businessID {
			c := *p
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *MemProductRepo) Delete(id string) error {
	delete(r.S.Products, id)
	return nil
}

// MemStorageRepo implementa repository.StorageRepository.
type MemStorageRepo struct{ S *MemStore }

func (r *MemStorageRepo) Create(st *entity.Storage) error {
	c := *st
	r.S.Storages[st.ID] = &c
	return nil
}

func (r *MemStorageRepo) GetByID(id string) (*entity.Storage, error) {
	st, ok := r.S.Storages[id]
	if !ok {
		return nil, nil
	}
	c := *st
	return &c, nil
}

func (r *MemStorageRepo) GetByRagSite(rag, site string) (*entity.Storage, error) {
	for _, st := range r.S.Storages {
		if st.Rag == rag && st.Site == site {
			c := *st
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemStorageRepo) Update(st *entity.Storage) error {
	c := *st
	r.S.Storages[st.ID] = &c
	return nil
}

func (r *MemStorageRepo) List(limit, offset int) ([]*entity.Storage, error) {
	out := make([]*entity.Storage, 0, len(r.S.Storages))
	for _, st := range r.S.Storages {
		c := *st
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

// MemStockRepo implementa repository.StockRepository. No hay locking real:
// los tests son secuenciales, GetForUpdate equivale a Get.
type MemStockRepo struct{ S *MemStore }

func (r *MemStockRepo) Get(productID, storageID string) (*entity.Stock, error) {
	for _, st := range r.S.Stocks {
		if st.ProductID == productID && st.StorageID == storageID {
			c := *st
			return &c, nil
		}
	}
	return nil, nil
}

func (r *MemStockRepo) GetForUpdate(productID, storageID string) (*entity.Stock, error) {
	return r.Get(productID, storageID)
}

func (r *MemStockRepo) GetByID(id string) (*entity.Stock, error) {
	st, ok := r.S.Stocks[id]
	if !ok {
		return nil, nil
	}
	c := *st
	return &c, nil
}

func (r *MemStockRepo) GetByIDForUpdate(id string) (*entity.Stock, error) {
	return r.GetByID(id)
}

func (r *MemStockRepo) Save(st *entity.Stock) error {
	c := *st
	r.S.Stocks[st.ID] = &c
	return nil
}

func (r *MemStockRepo) ListByProduct(productID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for _, st := range r.S.Stocks {
		if st.ProductID == productID {
			c := *st
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// MemMovementRepo implementa repository.MovementRepository (append-only).
type MemMovementRepo struct{ S *MemStore }

func (r *MemMovementRepo) Create(m *entity.Movement) error {
	c := *m
	r.S.Movements = append(r.S.Movements, &c)
	return nil
}

func (r *MemMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(m *entity.Movement) bool { return m.ProductID == productID }, from, to, limit, offset)
}

func (r *MemMovementRepo) ListByStorage(storageID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(m *entity.Movement) bool { return m.StorageID == storageID }, from, to, limit, offset)
}

func (r *MemMovementRepo) ListByBusiness(businessID string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	return r.list(func(m *entity.Movement) bool { return m.BusinessID == businessID }, from, to, limit, offset)
}

func (r *MemMovementRepo) list(match func(*entity.Movement) bool, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.S.Movements {
		if !match(m) {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && m.Date.After(*to) {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	return paginate(out, limit, offset), nil
}

// MemMovementOrderRepo implementa repository.MovementOrderRepository.
type MemMovementOrderRepo struct{ S *MemStore }

func (r *MemMovementOrderRepo) Create(o *entity.MovementOrder) error {
	c := *o
	r.S.Orders[o.ID] = &c
	return nil
}

func (r *MemMovementOrderRepo) GetByID(id string) (*entity.MovementOrder, error) {
	o, ok := r.S.Orders[id]
	if !ok {
		return nil, nil
	}
	c := *o
	return &c, nil
}

// GetByIDForUpdate no bloquea (no hay concurrencia real en el store en
// memoria); devuelve lo mismo que GetByID.
func (r *MemMovementOrderRepo) GetByIDForUpdate(id string) (*entity.MovementOrder, error) {
	return r.GetByID(id)
}

func (r *MemMovementOrderRepo) Update(o *entity.MovementOrder) error {
	c := *o
	r.S.Orders[o.ID] = &c
	return nil
}

func (r *MemMovementOrderRepo) UpdateState(id, state string) error {
	o, ok := r.S.Orders[id]
	if !ok {
		return nil
	}
	o.State = state
	o.UpdatedAt = time.Now()
	return nil
}

func (r *MemMovementOrderRepo) ListByBusiness(businessID string, limit, offset int) ([]*entity.MovementOrder, error) {
	var out []*entity.MovementOrder
	for _, o := range r.S.Orders {
		if o.BusinessID == businessID {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *MemMovementOrderRepo) ListByState(state string, limit, offset int) ([]*entity.MovementOrder, error) {
	var out []*entity.MovementOrder
	for _, o := range r.S.Orders {
		if o.State == state {
			c := *o
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return paginate(out, limit, offset), nil
}

func (r *MemMovementOrderRepo) Delete(id string) error {
	delete(r.S.Orders, id)
	return nil
}

func paginate[T any](in []T, limit, offset int) []T {
	if offset >= len(in) {
		return nil
	}
	in = in[offset:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}
