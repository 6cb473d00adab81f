package http_test

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Ezequielnz/backend-sub001/internal/domain"
	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

// Dobles en memoria con el mismo contrato que los repositorios Postgres, para
// levantar la API completa en los tests de extremo a extremo del router.

type memTransferRepo struct {
	headers map[string]*entity.StockTransfer
	items   map[string][]entity.StockTransferItem
}

func newMemTransferRepo() *memTransferRepo {
	return &memTransferRepo{
		headers: map[string]*entity.StockTransfer{},
		items:   map[string][]entity.StockTransferItem{},
	}
}

func (r *memTransferRepo) CreateHeader(_ context.Context, t *entity.StockTransfer) error {
	cp := *t
	cp.Items = nil
	r.headers[t.ID] = &cp
	return nil
}

func (r *memTransferRepo) CreateItems(_ context.Context, items []entity.StockTransferItem) error {
	for _, it := range items {
		r.items[it.TransferID] = append(r.items[it.TransferID], it)
	}
	return nil
}

func (r *memTransferRepo) GetByID(_ context.Context, businessID, id string) (*entity.StockTransfer, error) {
	t, ok := r.headers[id]
	if !ok || t.BusinessID != businessID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *memTransferRepo) GetByIDForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, businessID, id)
}

func (r *memTransferRepo) ListItems(_ context.Context, transferID string) ([]entity.StockTransferItem, error) {
	return append([]entity.StockTransferItem(nil), r.items[transferID]...), nil
}

func (r *memTransferRepo) ListItemsByTransferIDs(_ context.Context, ids []string) (map[string][]entity.StockTransferItem, error) {
	out := make(map[string][]entity.StockTransferItem, len(ids))
	for _, id := range ids {
		out[id] = append([]entity.StockTransferItem(nil), r.items[id]...)
	}
	return out, nil
}

func (r *memTransferRepo) List(_ context.Context, businessID string, f repository.TransferFilter) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	for _, t := range r.headers {
		if t.BusinessID != businessID {
			continue
		}
		if f.State != nil && t.State != *f.State {
			continue
		}
		if f.OriginBranchID != nil && t.OriginBranchID != *f.OriginBranchID {
			continue
		}
		if f.DestinationBranchID != nil && t.DestinationBranchID != *f.DestinationBranchID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (r *memTransferRepo) UpdateHeader(_ context.Context, t *entity.StockTransfer) error {
	cp := *t
	cp.Items = nil
	r.headers[t.ID] = &cp
	return nil
}

func (r *memTransferRepo) Delete(_ context.Context, businessID, id string) error {
	if t, ok := r.headers[id]; ok && t.BusinessID == businessID {
		delete(r.headers, id)
		delete(r.items, id)
	}
	return nil
}

type memBranchStockRepo struct {
	rows map[string]decimal.Decimal
}

func newMemBranchStockRepo() *memBranchStockRepo {
	return &memBranchStockRepo{rows: map[string]decimal.Decimal{}}
}

func (r *memBranchStockRepo) key(biz, br, prod string) string { return biz + "|" + br + "|" + prod }

func (r *memBranchStockRepo) set(biz, br, prod string, qty int64) {
	r.rows[r.key(biz, br, prod)] = decimal.NewFromInt(qty)
}

func (r *memBranchStockRepo) Get(_ context.Context, biz, br, prod string) (*entity.BranchStock, error) {
	return &entity.BranchStock{BusinessID: biz, BranchID: br, ProductID: prod, Quantity: r.rows[r.key(biz, br, prod)]}, nil
}

func (r *memBranchStockRepo) GetForUpdate(ctx context.Context, biz, br, prod string) (*entity.BranchStock, error) {
	return r.Get(ctx, biz, br, prod)
}

func (r *memBranchStockRepo) Upsert(_ context.Context, s *entity.BranchStock) error {
	r.rows[r.key(s.BusinessID, s.BranchID, s.ProductID)] = s.Quantity
	return nil
}

func (r *memBranchStockRepo) ListByBranch(_ context.Context, _, _ string, _, _ int) ([]*entity.BranchStock, error) {
	return nil, nil
}

type memBusinessStockRepo struct {
	rows map[string]decimal.Decimal
}

func newMemBusinessStockRepo() *memBusinessStockRepo {
	return &memBusinessStockRepo{rows: map[string]decimal.Decimal{}}
}

func (r *memBusinessStockRepo) Get(_ context.Context, biz, prod string) (*entity.BusinessStock, error) {
	return &entity.BusinessStock{BusinessID: biz, ProductID: prod, Quantity: r.rows[biz+"|"+prod]}, nil
}

func (r *memBusinessStockRepo) GetForUpdate(ctx context.Context, biz, prod string) (*entity.BusinessStock, error) {
	return r.Get(ctx, biz, prod)
}

func (r *memBusinessStockRepo) Upsert(_ context.Context, s *entity.BusinessStock) error {
	r.rows[s.BusinessID+"|"+s.ProductID] = s.Quantity
	return nil
}

func (r *memBusinessStockRepo) ListByBusiness(_ context.Context, _ string, _, _ int) ([]*entity.BusinessStock, error) {
	return nil, nil
}

type memBranchRepo struct {
	branches map[string]*entity.Branch
}

func (r *memBranchRepo) Create(_ context.Context, b *entity.Branch) error {
	r.branches[b.ID] = b
	return nil
}

func (r *memBranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	return r.branches[id], nil
}

func (r *memBranchRepo) Update(_ context.Context, b *entity.Branch) error {
	r.branches[b.ID] = b
	return nil
}

func (r *memBranchRepo) ListByBusiness(_ context.Context, businessID string, _, _ int) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.branches {
		if b.BusinessID == businessID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBranchRepo) Delete(_ context.Context, id string) error {
	delete(r.branches, id)
	return nil
}

type memProductRepo struct {
	products map[string]*entity.Product
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *memProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *memProductRepo) ListByBusiness(_ context.Context, businessID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memSettingsRepo struct {
	rows map[string]*entity.BranchSettings
}

func newMemSettingsRepo() *memSettingsRepo {
	return &memSettingsRepo{rows: map[string]*entity.BranchSettings{}}
}

func (r *memSettingsRepo) Get(_ context.Context, businessID string) (*entity.BranchSettings, error) {
	s, ok := r.rows[businessID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *memSettingsRepo) Create(_ context.Context, s *entity.BranchSettings) error {
	if _, ok := r.rows[s.BusinessID]; ok {
		return fmt.Errorf("%w: branch settings business %s", domain.ErrDuplicate, s.BusinessID)
	}
	cp := *s
	r.rows[s.BusinessID] = &cp
	return nil
}

func (r *memSettingsRepo) Update(_ context.Context, s *entity.BranchSettings) error {
	if _, ok := r.rows[s.BusinessID]; !ok {
		return fmt.Errorf("%w: branch settings business %s", domain.ErrNotFound, s.BusinessID)
	}
	cp := *s
	r.rows[s.BusinessID] = &cp
	return nil
}

// memTxRunner entrega los repositorios en memoria dentro del callback.
type memTxRunner struct {
	transfers     *memTransferRepo
	branchStock   *memBranchStockRepo
	businessStock *memBusinessStockRepo
}

func (r *memTxRunner) Run(_ context.Context, fn func(
	repository.StockTransferRepository,
	repository.BranchStockRepository,
	repository.BusinessStockRepository,
) error) error {
	return fn(r.transfers, r.branchStock, r.businessStock)
}
