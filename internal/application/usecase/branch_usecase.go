package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Ezequielnz/backend-sub001/internal/application/dto"
	"github.com/Ezequielnz/backend-sub001/internal/domain"
	"github.com/Ezequielnz/backend-sub001/internal/domain/entity"
	"github.com/Ezequielnz/backend-sub001/internal/domain/repository"
)

// BranchUseCase casos de uso CRUD para sucursales.
type BranchUseCase struct {
	repo repository.BranchRepository
}

// NewBranchUseCase construye el caso de uso.
func NewBranchUseCase(repo repository.BranchRepository) *BranchUseCase {
	return &BranchUseCase{repo: repo}
}

// Create crea una nueva sucursal del negocio.
func (uc *BranchUseCase) Create(ctx context.Context, businessID string, in dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name requerido", domain.ErrInvalidInput)
	}
	now := time.Now()
	branch := &entity.Branch{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		Name:       in.Name,
		Address:    in.Address,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// GetByID obtiene una sucursal del negocio.
func (uc *BranchUseCase) GetByID(ctx context.Context, businessID, id string) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.BusinessID != businessID {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, id)
	}
	return toBranchResponse(branch), nil
}

// Update actualiza nombre/dirección de una sucursal.
func (uc *BranchUseCase) Update(ctx context.Context, businessID, id string, in dto.UpdateBranchRequest) (*dto.BranchResponse, error) {
	branch, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil || branch.BusinessID != businessID {
		return nil, fmt.Errorf("%w: sucursal %s", domain.ErrNotFound, id)
	}
	if in.Name != nil {
		branch.Name = *in.Name
	}
	if in.Address != nil {
		branch.Address = *in.Address
	}
	branch.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return toBranchResponse(branch), nil
}

// List lista sucursales del negocio con paginación.
func (uc *BranchUseCase) List(ctx context.Context, businessID string, limit, offset int) (*dto.BranchListResponse, error) {
	list, err := uc.repo.ListByBusiness(ctx, businessID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.BranchResponse, 0, len(list))
	for _, b := range list {
		items = append(items, *toBranchResponse(b))
	}
	return &dto.BranchListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toBranchResponse(b *entity.Branch) *dto.BranchResponse {
	if b == nil {
		return nil
	}
	return &dto.BranchResponse{
		ID:         b.ID,
		BusinessID: b.BusinessID,
		Name:       b.Name,
		Address:    b.Address,
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
}
