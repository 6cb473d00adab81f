package transfer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Ezequielnz/backend-sub001/internal/application/dto"
	"github.com/Ezequielnz/backend-sub001/internal/domain"
	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
	"github.com/Ezequielnz/backend-sub001/pkg/logger"
	"github.com/Ezequielnz/backend-sub001/pkg/metrics"
)

// Eventos de ciclo de vida publicados por el servicio.
const (
	EventCreated   = "stock_transfer.created"
	EventConfirmed = "stock_transfer.confirmed"
	EventReceived  = "stock_transfer.received"
	EventDeleted   = "stock_transfer.deleted"
)

// Deps dependencias compartidas del servicio de traslados.
// Transfers/Branches/Products van atados al pool; TxRunner abre transacciones
// con repositorios atados a la tx para las transiciones de estado.
type Deps struct {
	TxRunner  TxRunner
	Transfers repository.StockTransferRepository
	Branches  repository.BranchRepository
	Products  repository.ProductRepository
	Publisher EventPublisher
	Log       *logger.Logger
}

// Service orquesta la creación y el ciclo de vida de los traslados de stock.
// Se construye por petición, con el negocio, el usuario actuante y la
// configuración de sucursales ya cargada (se inyecta como valor, nunca se
// vuelve a consultar dentro de una operación).
type Service struct {
	deps       Deps
	businessID string
	userID     string
	settings   *entity.BranchSettings
}

// NewService construye el servicio para un negocio y usuario concretos.
// settings puede ser nil; en ese caso rigen los valores por defecto
// (per_branch, traslados permitidos, sin auto-confirmación).
func NewService(deps Deps, businessID, userID string, settings *entity.BranchSettings) *Service {
	return &Service{deps: deps, businessID: businessID, userID: userID, settings: settings}
}

// CreateItemInput línea de detalle para crear un traslado.
type CreateItemInput struct {
	ProductID string
	Quantity  decimal.Decimal
	Unit      *string
	Lot       *string
	Metadata  map[string]any
}

// CreateInput entrada para Create.
type CreateInput struct {
	OriginBranchID      string
	DestinationBranchID string
	Comments            *string
	Metadata            map[string]any
	Items               []CreateItemInput
}

// ListInput filtros para List.
type ListInput struct {
	State               *string
	OriginBranchID      *string
	DestinationBranchID *string
	Limit               int
}

func (s *Service) inventoryMode() string {
	if s.settings == nil {
		return entity.InventoryModePerBranch
	}
	return s.settings.InventoryMode
}

func (s *Service) allowTransfers() bool {
	return s.settings == nil || s.settings.AllowTransfers
}

func (s *Service) autoConfirm() bool {
	return s.settings != nil && s.settings.AutoConfirmTransfers
}

// List devuelve los traslados del negocio (cada uno con su detalle) ordenados
// por fecha de creación descendente. Limit <= 0 devuelve vacío sin consultar.
func (s *Service) List(ctx context.Context, in ListInput) ([]*entity.StockTransfer, error) {
	if in.Limit <= 0 {
		return []*entity.StockTransfer{}, nil
	}
	if in.State != nil && !entity.ValidTransferState(*in.State) {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, *in.State)
	}
	headers, err := s.deps.Transfers.List(ctx, s.businessID, repository.TransferFilter{
		State:               in.State,
		OriginBranchID:      in.OriginBranchID,
		DestinationBranchID: in.DestinationBranchID,
		Limit:               in.Limit,
	})
	if err != nil {
		return nil, err
	}
	if len(headers) == 0 {
		return []*entity.StockTransfer{}, nil
	}
	ids := make([]string, 0, len(headers))
	for _, h := range headers {
		ids = append(ids, h.ID)
	}
	itemsByTransfer, err := s.deps.Transfers.ListItemsByTransferIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, h := range headers {
		h.Items = itemsByTransfer[h.ID]
		hydrate(h)
	}
	return headers, nil
}

// Create valida el payload, persiste encabezado + detalle y publica el evento
// created. La inserción es un saga de dos pasos: si el detalle falla después
// del encabezado, se ejecuta un borrado compensatorio best-effort del
// encabezado y se devuelve el error original. Con auto_confirm_transfers el
// traslado continúa al algoritmo de confirmación y el caller lo recibe ya
// en estado confirmed.
func (s *Service) Create(ctx context.Context, in CreateInput) (*entity.StockTransfer, error) {
	if !s.allowTransfers() {
		return nil, domain.ErrTransfersDisabled
	}
	if in.OriginBranchID == "" || in.DestinationBranchID == "" {
		return nil, fmt.Errorf("%w: origen y destino son requeridos", domain.ErrInvalidInput)
	}
	if in.OriginBranchID == in.DestinationBranchID {
		return nil, fmt.Errorf("%w: origen y destino deben ser sucursales distintas", domain.ErrInvalidInput)
	}
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el traslado requiere al menos un item", domain.ErrInvalidInput)
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, fmt.Errorf("%w: items[%d].producto_id requerido", domain.ErrInvalidInput, i)
		}
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: items[%d].cantidad debe ser mayor que cero", domain.ErrInvalidInput, i)
		}
	}

	if err := s.validateBranch(ctx, in.OriginBranchID); err != nil {
		return nil, err
	}
	if err := s.validateBranch(ctx, in.DestinationBranchID); err != nil {
		return nil, err
	}
	if err := s.validateProducts(ctx, in.Items); err != nil {
		return nil, err
	}

	now := time.Now()
	mode := s.inventoryMode()
	header := &entity.StockTransfer{
		ID:                     uuid.New().String(),
		BusinessID:             s.businessID,
		OriginBranchID:         in.OriginBranchID,
		DestinationBranchID:    in.DestinationBranchID,
		State:                  entity.TransferStateDraft,
		InventoryModeSource:    mode,
		InventoryModeTarget:    mode,
		AllowTransfersSnapshot: s.allowTransfers(),
		CreatedBy:              s.userID,
		Comments:               in.Comments,
		Metadata:               in.Metadata,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	items := make([]entity.StockTransferItem, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, entity.StockTransferItem{
			ID:         uuid.New().String(),
			TransferID: header.ID,
			BusinessID: s.businessID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			Unit:       it.Unit,
			Lot:        it.Lot,
			Metadata:   it.Metadata,
			CreatedAt:  now,
		})
	}

	if err := s.deps.Transfers.CreateHeader(ctx, header); err != nil {
		return nil, err
	}
	if err := s.deps.Transfers.CreateItems(ctx, items); err != nil {
		// Paso compensatorio del saga: eliminar el encabezado huérfano.
		// Best-effort: la falla de la compensación se registra y no enmascara
		// el error original.
		metrics.TransferCompensations.Inc()
		if delErr := s.deps.Transfers.Delete(ctx, s.businessID, header.ID); delErr != nil {
			s.deps.Log.Error().Err(delErr).
				Str("transfer_id", header.ID).
				Str("business_id", s.businessID).
				Msg("falló el borrado compensatorio del encabezado")
		} else {
			s.deps.Log.Warn().
				Str("transfer_id", header.ID).
				Str("business_id", s.businessID).
				Msg("detalle no insertado, encabezado eliminado por compensación")
		}
		return nil, err
	}
	header.Items = items
	hydrate(header)

	s.publish(EventCreated, dto.TransferEventPayload{Transfer: dto.NewTransferResponse(header)})

	if s.autoConfirm() {
		return s.confirm(ctx, header.ID, true)
	}
	return header, nil
}

// Get obtiene un traslado con su detalle. Hidratación defensiva: metadata y
// timestamps ausentes se rellenan con valores seguros para que los
// consumidores nunca vean campos requeridos vacíos.
func (s *Service) Get(ctx context.Context, id string) (*entity.StockTransfer, error) {
	t, err := s.deps.Transfers.GetByID(ctx, s.businessID, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
	}
	items, err := s.deps.Transfers.ListItems(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	t.Items = items
	hydrate(t)
	return t, nil
}

// Confirm transiciona draft → confirmed debitando el ledger de origen.
func (s *Service) Confirm(ctx context.Context, id string) (*entity.StockTransfer, error) {
	return s.confirm(ctx, id, false)
}

// confirm ejecuta el algoritmo de confirmación dentro de una transacción:
// bloquea el encabezado, agrega cantidades por producto (las líneas duplicadas
// se suman), verifica disponibilidad para TODOS los productos antes de mutar
// ledger alguno y solo entonces debita. En modo centralized la disponibilidad
// se verifica contra el ledger agregado pero no se escribe: ese ledger se
// recalcula fuera de este subsistema.
func (s *Service) confirm(ctx context.Context, id string, auto bool) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	err := s.deps.TxRunner.Run(ctx, func(
		transfers repository.StockTransferRepository,
		branchStock repository.BranchStockRepository,
		businessStock repository.BusinessStockRepository,
	) error {
		t, err := transfers.GetByIDForUpdate(ctx, s.businessID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
		}
		if t.State != entity.TransferStateDraft {
			return fmt.Errorf("%w: confirmar requiere estado draft, actual %s", domain.ErrInvalidState, t.State)
		}
		items, err := transfers.ListItems(ctx, t.ID)
		if err != nil {
			return err
		}
		t.Items = items
		required, order := aggregateByProduct(items)

		now := time.Now()
		if s.inventoryMode() == entity.InventoryModePerBranch {
			// Bloquear y verificar todas las filas antes de debitar ninguna.
			rows := make(map[string]*entity.BranchStock, len(order))
			for _, pid := range order {
				row, err := branchStock.GetForUpdate(ctx, s.businessID, t.OriginBranchID, pid)
				if err != nil {
					return err
				}
				if row.Quantity.LessThan(required[pid]) {
					return fmt.Errorf("%w: producto %s, disponible %s, requerido %s",
						domain.ErrInsufficientStock, pid, row.Quantity.String(), required[pid].String())
				}
				rows[pid] = row
			}
			for _, pid := range order {
				row := rows[pid]
				row.Quantity = row.Quantity.Sub(required[pid])
				row.UpdatedAt = now
				if err := branchStock.Upsert(ctx, row); err != nil {
					return err
				}
			}
		} else {
			for _, pid := range order {
				row, err := businessStock.GetForUpdate(ctx, s.businessID, pid)
				if err != nil {
					return err
				}
				if row.Quantity.LessThan(required[pid]) {
					return fmt.Errorf("%w: producto %s, disponible %s, requerido %s",
						domain.ErrInsufficientStock, pid, row.Quantity.String(), required[pid].String())
				}
			}
		}

		t.State = entity.TransferStateConfirmed
		if t.ApprovedBy == nil {
			approver := s.userID
			t.ApprovedBy = &approver
		}
		t.UpdatedAt = now
		if err := transfers.UpdateHeader(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	hydrate(out)
	s.publish(EventConfirmed, dto.TransferEventPayload{Transfer: dto.NewTransferResponse(out), Auto: auto})
	return out, nil
}

// Receive transiciona confirmed → received acreditando el ledger de la
// sucursal destino (la fila se materializa y bloquea antes de escribir).
// En modo centralized ningún ledger por sucursal se toca.
func (s *Service) Receive(ctx context.Context, id string) (*entity.StockTransfer, error) {
	var out *entity.StockTransfer
	err := s.deps.TxRunner.Run(ctx, func(
		transfers repository.StockTransferRepository,
		branchStock repository.BranchStockRepository,
		_ repository.BusinessStockRepository,
	) error {
		t, err := transfers.GetByIDForUpdate(ctx, s.businessID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
		}
		if t.State != entity.TransferStateConfirmed {
			return fmt.Errorf("%w: recibir requiere estado confirmed, actual %s", domain.ErrInvalidState, t.State)
		}
		items, err := transfers.ListItems(ctx, t.ID)
		if err != nil {
			return err
		}
		t.Items = items
		required, order := aggregateByProduct(items)

		now := time.Now()
		if s.inventoryMode() == entity.InventoryModePerBranch {
			for _, pid := range order {
				row, err := branchStock.GetForUpdate(ctx, s.businessID, t.DestinationBranchID, pid)
				if err != nil {
					return err
				}
				row.Quantity = row.Quantity.Add(required[pid])
				row.UpdatedAt = now
				if err := branchStock.Upsert(ctx, row); err != nil {
					return err
				}
			}
		}

		t.State = entity.TransferStateReceived
		t.UpdatedAt = now
		if err := transfers.UpdateHeader(ctx, t); err != nil {
			return err
		}
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	hydrate(out)
	s.publish(EventReceived, dto.TransferEventPayload{Transfer: dto.NewTransferResponse(out)})
	return out, nil
}

// Delete elimina un traslado en borrador (encabezado + detalle en cascada).
// Cualquier otro estado es rechazado.
func (s *Service) Delete(ctx context.Context, id string) error {
	var deleted *entity.StockTransfer
	err := s.deps.TxRunner.Run(ctx, func(
		transfers repository.StockTransferRepository,
		_ repository.BranchStockRepository,
		_ repository.BusinessStockRepository,
	) error {
		t, err := transfers.GetByIDForUpdate(ctx, s.businessID, id)
		if err != nil {
			return err
		}
		if t == nil {
			return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, id)
		}
		if t.State != entity.TransferStateDraft {
			return fmt.Errorf("%w: solo un traslado en draft puede eliminarse, actual %s", domain.ErrInvalidState, t.State)
		}
		items, err := transfers.ListItems(ctx, t.ID)
		if err != nil {
			return err
		}
		t.Items = items
		if err := transfers.Delete(ctx, s.businessID, t.ID); err != nil {
			return err
		}
		deleted = t
		return nil
	})
	if err != nil {
		return err
	}
	hydrate(deleted)
	s.publish(EventDeleted, dto.TransferEventPayload{Transfer: dto.NewTransferResponse(deleted)})
	return nil
}

// validateBranch verifica que la sucursal exista y pertenezca al negocio.
func (s *Service) validateBranch(ctx context.Context, branchID string) error {
	b, err := s.deps.Branches.GetByID(ctx, branchID)
	if err != nil {
		return err
	}
	if b == nil || b.BusinessID != s.businessID {
		return fmt.Errorf("%w: sucursal %s no pertenece al negocio", domain.ErrInvalidInput, branchID)
	}
	return nil
}

// validateProducts verifica existencia y pertenencia de todos los productos
// referenciados (deduplicados) en una sola consulta.
func (s *Service) validateProducts(ctx context.Context, items []CreateItemInput) error {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.ProductID]; ok {
			continue
		}
		seen[it.ProductID] = struct{}{}
		ids = append(ids, it.ProductID)
	}
	products, err := s.deps.Products.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	found := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		found[p.ID] = p
	}
	for _, id := range ids {
		p, ok := found[id]
		if !ok || p.BusinessID != s.businessID {
			return fmt.Errorf("%w: producto %s no pertenece al negocio", domain.ErrInvalidInput, id)
		}
	}
	return nil
}

func (s *Service) publish(eventType string, payload dto.TransferEventPayload) {
	if s.deps.Publisher == nil {
		return
	}
	s.deps.Publisher.Enqueue(eventType, payload)
}

// aggregateByProduct suma cantidades por producto (las líneas duplicadas de un
// mismo producto se agregan) y devuelve los IDs en orden lexicográfico para un
// orden de bloqueo determinista entre traslados concurrentes.
func aggregateByProduct(items []entity.StockTransferItem) (map[string]decimal.Decimal, []string) {
	required := make(map[string]decimal.Decimal, len(items))
	order := make([]string, 0, len(items))
	for _, it := range items {
		if cur, ok := required[it.ProductID]; ok {
			required[it.ProductID] = cur.Add(it.Quantity)
			continue
		}
		required[it.ProductID] = it.Quantity
		order = append(order, it.ProductID)
	}
	sort.Strings(order)
	return required, order
}

// hydrate rellena campos ausentes con valores seguros.
func hydrate(t *entity.StockTransfer) {
	if t == nil {
		return
	}
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	for i := range t.Items {
		if t.Items[i].Metadata == nil {
			t.Items[i].Metadata = map[string]any{}
		}
		if t.Items[i].CreatedAt.IsZero() {
			t.Items[i].CreatedAt = t.CreatedAt
		}
	}
}
