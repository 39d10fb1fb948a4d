package usecase

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// StorageUseCase CRUD de ubicaciones de bodega.
type StorageUseCase struct {
	storageRepo repository.StorageRepository
}

// NewStorageUseCase construye el caso de uso.
func NewStorageUseCase(storageRepo repository.StorageRepository) *StorageUseCase {
	return &StorageUseCase{storageRepo: storageRepo}
}

// Create valida y persiste una ubicación nueva; (rag, site) es clave única.
func (uc *StorageUseCase) Create(in dto.CreateStorageRequest) (*entity.Storage, error) {
	if in.Rag == "" || in.Site == "" || in.Positions <= 0 {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.storageRepo.GetByRagSite(in.Rag, in.Site)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	storage := &entity.Storage{
		ID:            uuid.New().String(),
		Rag:           in.Rag,
		Site:          in.Site,
		Positions:     in.Positions,
		TotalCapacity: in.TotalCapacity,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.storageRepo.Create(storage); err != nil {
		return nil, err
	}
	return storage, nil
}

// GetByID obtiene una ubicación por ID.
func (uc *StorageUseCase) GetByID(id string) (*entity.Storage, error) {
	storage, err := uc.storageRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if storage == nil {
		return nil, &domain.NotFoundError{Entity: "ubicación", Key: id}
	}
	return storage, nil
}

// List lista todas las ubicaciones.
func (uc *StorageUseCase) List(limit, offset int) ([]*entity.Storage, error) {
	return uc.storageRepo.List(limit, offset)
}

// Update modifica posiciones, capacidad y el flag disabled.
func (uc *StorageUseCase) Update(id string, in dto.UpdateStorageRequest) (*entity.Storage, error) {
	storage, err := uc.GetByID(id)
	if err != nil {
		return nil, err
	}
	if in.Positions != nil {
		if *in.Positions <= 0 {
			return nil, domain.ErrInvalidInput
		}
		storage.Positions = *in.Positions
	}
	if in.TotalCapacity != nil {
		storage.TotalCapacity = *in.TotalCapacity
	}
	if in.Disabled != nil {
		storage.Disabled = *in.Disabled
	}
	storage.UpdatedAt = time.Now()
	if err := uc.storageRepo.Update(storage); err != nil {
		return nil, err
	}
	return storage, nil
}
