package settings_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ezequielnz/backend-sub001/internal/application/dto"
	"github.com/Ezequielnz/backend-sub001/internal/application/settings"
	"github.com/Ezequielnz/backend-sub001/internal/domain"
	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/pkg/logger"
)

const bizID = "00000000-0000-0000-0000-0000000000b1"

// fakeSettingsRepo imita el contrato del repositorio Postgres: Get devuelve
// (nil, nil) sin fila, Create respeta la clave única por negocio.
type fakeSettingsRepo struct {
	rows    map[string]*entity.BranchSettings
	creates int
	updates int

	// hideFromGet hace que el próximo Get devuelva (nil, nil) aunque la fila
	// exista: simula otra petición ganando el insert entre el Get y el Create.
	hideFromGet bool
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{rows: map[string]*entity.BranchSettings{}}
}

func (r *fakeSettingsRepo) Get(_ context.Context, businessID string) (*entity.BranchSettings, error) {
	if r.hideFromGet {
		r.hideFromGet = false
		return nil, nil
	}
	s, ok := r.rows[businessID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSettingsRepo) Create(_ context.Context, s *entity.BranchSettings) error {
	r.creates++
	if _, ok := r.rows[s.BusinessID]; ok {
		return fmt.Errorf("%w: branch settings business %s", domain.ErrDuplicate, s.BusinessID)
	}
	cp := *s
	r.rows[s.BusinessID] = &cp
	return nil
}

func (r *fakeSettingsRepo) Update(_ context.Context, s *entity.BranchSettings) error {
	r.updates++
	if _, ok := r.rows[s.BusinessID]; !ok {
		return fmt.Errorf("%w: branch settings business %s", domain.ErrNotFound, s.BusinessID)
	}
	cp := *s
	r.rows[s.BusinessID] = &cp
	return nil
}

func newUseCase(repo *fakeSettingsRepo) *settings.UseCase {
	return settings.NewUseCase(repo, logger.New(logger.Config{Env: "production", Level: "error"}))
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// ──────────────────────────────────────────────────────────────────────────────
// Fetch
// ──────────────────────────────────────────────────────────────────────────────

func TestFetch_SinFilaYSinEnsure(t *testing.T) {
	repo := newFakeSettingsRepo()
	uc := newUseCase(repo)

	out, err := uc.Fetch(context.Background(), bizID, false)

	require.NoError(t, err)
	assert.Nil(t, out, "sin ensureExists no se crea nada")
	assert.Zero(t, repo.creates)
}

// La primera consulta con ensureExists materializa la fila por defecto.
func TestFetch_CreacionPerezosa(t *testing.T) {
	repo := newFakeSettingsRepo()
	uc := newUseCase(repo)

	out, err := uc.Fetch(context.Background(), bizID, true)

	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, entity.InventoryModePerBranch, out.InventoryMode)
	assert.Equal(t, entity.ScopeModeShared, out.ServicesMode)
	assert.Equal(t, entity.ScopeModeShared, out.CatalogMode)
	assert.True(t, out.AllowTransfers)
	assert.False(t, out.AutoConfirmTransfers)
	assert.Nil(t, out.DefaultBranchID)
	assert.NotNil(t, out.Metadata)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, 1, repo.creates)

	// La segunda consulta reutiliza la fila existente.
	again, err := uc.Fetch(context.Background(), bizID, true)
	require.NoError(t, err)
	assert.Equal(t, out.ID, again.ID)
	assert.Equal(t, 1, repo.creates, "no debe intentarse un segundo insert")
}

// Un insert perdedor de la carrera (clave única) se descarta y se relee la
// fila ganadora.
func TestFetch_CarreraDeCreacion(t *testing.T) {
	repo := newFakeSettingsRepo()
	uc := newUseCase(repo)

	// La fila ganadora ya existe pero el primer Get no la ve: el Create del
	// caso de uso chocará contra la clave única y deberá releer.
	ganadora := entity.DefaultBranchSettings(bizID)
	ganadora.ID = "fila-ganadora"
	repo.rows[bizID] = ganadora
	repo.hideFromGet = true

	out, err := uc.Fetch(context.Background(), bizID, true)

	require.NoError(t, err)
	assert.Equal(t, "fila-ganadora", out.ID, "debe releerse la fila ganadora")
	assert.Equal(t, 1, repo.creates, "el insert perdedor se intenta una sola vez")
}

func TestFetch_BusinessIDVacio(t *testing.T) {
	uc := newUseCase(newFakeSettingsRepo())

	_, err := uc.Fetch(context.Background(), "", true)

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Update
// ──────────────────────────────────────────────────────────────────────────────

func seeded(t *testing.T) (*fakeSettingsRepo, *settings.UseCase) {
	t.Helper()
	repo := newFakeSettingsRepo()
	uc := newUseCase(repo)
	_, err := uc.Fetch(context.Background(), bizID, true)
	require.NoError(t, err)
	return repo, uc
}

func TestUpdate_SinConfiguracion(t *testing.T) {
	uc := newUseCase(newFakeSettingsRepo())

	_, err := uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		AllowTransfers: boolPtr(false),
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Un patch vacío o sin cambios efectivos no escribe.
func TestUpdate_SinCambiosNoEscribe(t *testing.T) {
	repo, uc := seeded(t)

	_, err := uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{})
	require.NoError(t, err)

	// Mismos valores actuales: tampoco cuenta como cambio.
	_, err = uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		AllowTransfers: boolPtr(true),
		InventoryMode:  strPtr(entity.InventoryModePerBranch),
	})
	require.NoError(t, err)

	assert.Zero(t, repo.updates, "un no-op nunca debe tocar la base")
}

func TestUpdate_ModoInvalido(t *testing.T) {
	_, uc := seeded(t)

	_, err := uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		InventoryMode: strPtr("hibrido"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// El cambio de modo de inventario deja pista de auditoría en metadata: el
// backend no migra ledgers, avisa que hay reconciliación pendiente.
func TestUpdate_CambioDeModoDejaAuditoria(t *testing.T) {
	repo, uc := seeded(t)

	out, err := uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		InventoryMode: strPtr(entity.InventoryModeCentralized),
	})

	require.NoError(t, err)
	assert.Equal(t, entity.InventoryModeCentralized, out.InventoryMode)
	assert.Equal(t, entity.InventoryModePerBranch, out.Metadata[entity.MetaPreviousMode])
	assert.Equal(t, true, out.Metadata[entity.MetaSyncRequired])
	assert.NotEmpty(t, out.Metadata[entity.MetaChangedAt])
	assert.Equal(t, 1, repo.updates)
}

func TestUpdate_DesasignarSucursalPorDefecto(t *testing.T) {
	repo, uc := seeded(t)

	out, err := uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		DefaultBranchID: strPtr("00000000-0000-0000-0000-0000000000s1"),
	})
	require.NoError(t, err)
	require.NotNil(t, out.DefaultBranchID)

	// Cadena vacía desasigna.
	out, err = uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		DefaultBranchID: strPtr(""),
	})
	require.NoError(t, err)
	assert.Nil(t, out.DefaultBranchID, "cadena vacía debe desasignar la sucursal por defecto")
	assert.Equal(t, 2, repo.updates)
}

// Las claves de metadata del patch se integran sin pisar las existentes no
// mencionadas.
func TestUpdate_MetadataSeIntegra(t *testing.T) {
	_, uc := seeded(t)

	out, err := uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		Metadata: map[string]any{"zona": "norte"},
	})
	require.NoError(t, err)

	out, err = uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		Metadata: map[string]any{"horario": "extendido"},
	})
	require.NoError(t, err)

	assert.Equal(t, "norte", out.Metadata["zona"])
	assert.Equal(t, "extendido", out.Metadata["horario"])
}

// Metadata es un mapa libre: los valores pueden ser objetos anidados, que en
// Go no son comparables con ==. Repetir el mismo patch anidado no debe entrar
// en pánico ni contar como cambio.
func TestUpdate_MetadataAnidadaRepetida(t *testing.T) {
	repo, uc := seeded(t)

	patch := func() dto.UpdateBranchSettingsRequest {
		return dto.UpdateBranchSettingsRequest{
			Metadata: map[string]any{
				"impresion": map[string]any{"formato": "ticket", "copias": float64(2)},
				"horarios":  []any{"lunes", "martes"},
			},
		}
	}

	out, err := uc.Update(context.Background(), bizID, patch())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"formato": "ticket", "copias": float64(2)}, out.Metadata["impresion"])
	assert.Equal(t, 1, repo.updates)

	// Mismo patch otra vez: valor idéntico, sin escritura.
	out, err = uc.Update(context.Background(), bizID, patch())
	require.NoError(t, err)
	assert.Equal(t, 1, repo.updates, "un valor anidado idéntico no debe reescribirse")

	// Un valor anidado distinto sí cuenta como cambio.
	out, err = uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		Metadata: map[string]any{"impresion": map[string]any{"formato": "carta", "copias": float64(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"formato": "carta", "copias": float64(1)}, out.Metadata["impresion"])
	assert.Equal(t, 2, repo.updates)
}

func TestUpdate_FlagsDeTraslado(t *testing.T) {
	repo, uc := seeded(t)

	out, err := uc.Update(context.Background(), bizID, dto.UpdateBranchSettingsRequest{
		AllowTransfers:       boolPtr(false),
		AutoConfirmTransfers: boolPtr(true),
	})

	require.NoError(t, err)
	assert.False(t, out.AllowTransfers)
	assert.True(t, out.AutoConfirmTransfers)
	assert.Equal(t, 1, repo.updates, "ambos flags deben persistirse en una sola escritura")
}
