package transfer_test

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles en memoria de los puertos de persistencia. Imitan el contrato de los
// repositorios Postgres: GetByID devuelve (nil, nil) cuando no hay fila, los
// ledgers devuelven fila en cero cuando no existe todavía y el borrado del
// encabezado arrastra el detalle.
// ──────────────────────────────────────────────────────────────────────────────

var errItemsRechazados = errors.New("insert de detalle rechazado")

type fakeTransferRepo struct {
	headers map[string]*entity.StockTransfer
	items   map[string][]entity.StockTransferItem

	failCreateItems bool
	deleted         []string
}

func newFakeTransferRepo() *fakeTransferRepo {
	return &fakeTransferRepo{
		headers: map[string]*entity.StockTransfer{},
		items:   map[string][]entity.StockTransferItem{},
	}
}

func (r *fakeTransferRepo) CreateHeader(_ context.Context, t *entity.StockTransfer) error {
	cp := *t
	cp.Items = nil
	r.headers[t.ID] = &cp
	return nil
}

func (r *fakeTransferRepo) CreateItems(_ context.Context, items []entity.StockTransferItem) error {
	if r.failCreateItems {
		return errItemsRechazados
	}
	for _, it := range items {
		r.items[it.TransferID] = append(r.items[it.TransferID], it)
	}
	return nil
}

func (r *fakeTransferRepo) GetByID(_ context.Context, businessID, id string) (*entity.StockTransfer, error) {
	t, ok := r.headers[id]
	if !ok || t.BusinessID != businessID {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *fakeTransferRepo) GetByIDForUpdate(ctx context.Context, businessID, id string) (*entity.StockTransfer, error) {
	return r.GetByID(ctx, businessID, id)
}

func (r *fakeTransferRepo) ListItems(_ context.Context, transferID string) ([]entity.StockTransferItem, error) {
	return append([]entity.StockTransferItem(nil), r.items[transferID]...), nil
}

func (r *fakeTransferRepo) ListItemsByTransferIDs(_ context.Context, transferIDs []string) (map[string][]entity.StockTransferItem, error) {
	out := make(map[string][]entity.StockTransferItem, len(transferIDs))
	for _, id := range transferIDs {
		out[id] = append([]entity.StockTransferItem(nil), r.items[id]...)
	}
	return out, nil
}

func (r *fakeTransferRepo) List(_ context.Context, businessID string, filter repository.TransferFilter) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	for _, t := range r.headers {
		if t.BusinessID != businessID {
			continue
		}
		if filter.State != nil && t.State != *filter.State {
			continue
		}
		if filter.OriginBranchID != nil && t.OriginBranchID != *filter.OriginBranchID {
			continue
		}
		if filter.DestinationBranchID != nil && t.DestinationBranchID != *filter.DestinationBranchID {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *fakeTransferRepo) UpdateHeader(_ context.Context, t *entity.StockTransfer) error {
	if _, ok := r.headers[t.ID]; !ok {
		return fmt.Errorf("encabezado %s no existe", t.ID)
	}
	cp := *t
	cp.Items = nil
	r.headers[t.ID] = &cp
	return nil
}

func (r *fakeTransferRepo) Delete(_ context.Context, businessID, id string) error {
	t, ok := r.headers[id]
	if !ok || t.BusinessID != businessID {
		return nil
	}
	delete(r.headers, id)
	delete(r.items, id)
	r.deleted = append(r.deleted, id)
	return nil
}

// ── Ledger por sucursal ───────────────────────────────────────────────────────

type fakeBranchStockRepo struct {
	rows map[string]decimal.Decimal // negocio|sucursal|producto -> cantidad

	// locked imita el contrato del adaptador Postgres: GetForUpdate materializa
	// y bloquea la fila. unlockedWrites cuenta upserts sobre filas sin bloquear,
	// la escritura que en Postgres perdería créditos concurrentes.
	locked         map[string]bool
	unlockedWrites int
}

func newFakeBranchStockRepo() *fakeBranchStockRepo {
	return &fakeBranchStockRepo{
		rows:   map[string]decimal.Decimal{},
		locked: map[string]bool{},
	}
}

func branchKey(businessID, branchID, productID string) string {
	return businessID + "|" + branchID + "|" + productID
}

func (r *fakeBranchStockRepo) set(businessID, branchID, productID string, qty int64) {
	r.rows[branchKey(businessID, branchID, productID)] = decimal.NewFromInt(qty)
}

func (r *fakeBranchStockRepo) qty(businessID, branchID, productID string) decimal.Decimal {
	return r.rows[branchKey(businessID, branchID, productID)]
}

func (r *fakeBranchStockRepo) Get(_ context.Context, businessID, branchID, productID string) (*entity.BranchStock, error) {
	return &entity.BranchStock{
		BusinessID: businessID,
		BranchID:   branchID,
		ProductID:  productID,
		Quantity:   r.rows[branchKey(businessID, branchID, productID)],
	}, nil
}

func (r *fakeBranchStockRepo) GetForUpdate(ctx context.Context, businessID, branchID, productID string) (*entity.BranchStock, error) {
	key := branchKey(businessID, branchID, productID)
	if _, ok := r.rows[key]; !ok {
		r.rows[key] = decimal.Zero
	}
	r.locked[key] = true
	return r.Get(ctx, businessID, branchID, productID)
}

func (r *fakeBranchStockRepo) Upsert(_ context.Context, stock *entity.BranchStock) error {
	key := branchKey(stock.BusinessID, stock.BranchID, stock.ProductID)
	if !r.locked[key] {
		r.unlockedWrites++
	}
	r.rows[key] = stock.Quantity
	return nil
}

func (r *fakeBranchStockRepo) ListByBranch(_ context.Context, _, _ string, _, _ int) ([]*entity.BranchStock, error) {
	return nil, nil
}

// ── Ledger agregado ──────────────────────────────────────────────────────────

type fakeBusinessStockRepo struct {
	rows    map[string]decimal.Decimal // negocio|producto -> cantidad
	upserts int
}

func newFakeBusinessStockRepo() *fakeBusinessStockRepo {
	return &fakeBusinessStockRepo{rows: map[string]decimal.Decimal{}}
}

func (r *fakeBusinessStockRepo) set(businessID, productID string, qty int64) {
	r.rows[businessID+"|"+productID] = decimal.NewFromInt(qty)
}

func (r *fakeBusinessStockRepo) Get(_ context.Context, businessID, productID string) (*entity.BusinessStock, error) {
	return &entity.BusinessStock{
		BusinessID: businessID,
		ProductID:  productID,
		Quantity:   r.rows[businessID+"|"+productID],
	}, nil
}

func (r *fakeBusinessStockRepo) GetForUpdate(ctx context.Context, businessID, productID string) (*entity.BusinessStock, error) {
	return r.Get(ctx, businessID, productID)
}

func (r *fakeBusinessStockRepo) Upsert(_ context.Context, stock *entity.BusinessStock) error {
	r.upserts++
	r.rows[stock.BusinessID+"|"+stock.ProductID] = stock.Quantity
	return nil
}

func (r *fakeBusinessStockRepo) ListByBusiness(_ context.Context, _ string, _, _ int) ([]*entity.BusinessStock, error) {
	return nil, nil
}

// ── Sucursales y productos ───────────────────────────────────────────────────

type fakeBranchRepo struct {
	branches map[string]*entity.Branch
}

func newFakeBranchRepo(branches ...*entity.Branch) *fakeBranchRepo {
	r := &fakeBranchRepo{branches: map[string]*entity.Branch{}}
	for _, b := range branches {
		r.branches[b.ID] = b
	}
	return r
}

func (r *fakeBranchRepo) Create(_ context.Context, b *entity.Branch) error {
	r.branches[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) GetByID(_ context.Context, id string) (*entity.Branch, error) {
	return r.branches[id], nil
}

func (r *fakeBranchRepo) Update(_ context.Context, b *entity.Branch) error {
	r.branches[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) ListByBusiness(_ context.Context, businessID string, _, _ int) ([]*entity.Branch, error) {
	var out []*entity.Branch
	for _, b := range r.branches {
		if b.BusinessID == businessID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBranchRepo) Delete(_ context.Context, id string) error {
	delete(r.branches, id)
	return nil
}

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]*entity.Product{}}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return r.products[id], nil
}

func (r *fakeProductRepo) GetByIDs(_ context.Context, ids []string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, id := range ids {
		if p, ok := r.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListByBusiness(_ context.Context, businessID string, _, _ int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.products {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ── TxRunner y publisher ─────────────────────────────────────────────────────

// fakeTxRunner entrega los mismos repositorios en memoria dentro del callback;
// no hay transacción real que abrir en los tests de unidad.
type fakeTxRunner struct {
	transfers     *fakeTransferRepo
	branchStock   *fakeBranchStockRepo
	businessStock *fakeBusinessStockRepo
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	repository.StockTransferRepository,
	repository.BranchStockRepository,
	repository.BusinessStockRepository,
) error) error {
	return fn(r.transfers, r.branchStock, r.businessStock)
}

type publishedEvent struct {
	Type    string
	Payload any
}

type fakePublisher struct {
	events []publishedEvent
}

func (p *fakePublisher) Enqueue(eventType string, payload any) {
	p.events = append(p.events, publishedEvent{Type: eventType, Payload: payload})
}

func (p *fakePublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, ev := range p.events {
		out = append(out, ev.Type)
	}
	return out
}
