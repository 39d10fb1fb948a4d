package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// BusinessUseCase aplica reglas de negocio para los vendedores del marketplace.
type BusinessUseCase struct {
	repo repository.BusinessRepository
}

// NewBusinessUseCase construye el caso de uso con el puerto de persistencia.
func NewBusinessUseCase(repo repository.BusinessRepository) *BusinessUseCase {
	return &BusinessUseCase{repo: repo}
}

// Create registra un business. Genera ID; devuelve domain.ErrDuplicate si el
// tax_id ya existe.
func (uc *BusinessUseCase) Create(in dto.CreateBusinessRequest) (*entity.Business, error) {
	if in.Name == "" || in.TaxID == "" {
		return nil, domain.ErrMissingParameter
	}
	now := time.Now()
	business := &entity.Business{
		ID:        uuid.New().String(),
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(business); err != nil {
		return nil, err
	}
	return business, nil
}

// GetByID obtiene un business por ID.
func (uc *BusinessUseCase) GetByID(id string) (*entity.Business, error) {
	business, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if business == nil {
		return nil, &domain.NotFoundError{Entity: "business", Key: id}
	}
	return business, nil
}

// List lista businesses con paginación.
func (uc *BusinessUseCase) List(limit, offset int) ([]*entity.Business, error) {
	return uc.repo.List(limit, offset)
}
