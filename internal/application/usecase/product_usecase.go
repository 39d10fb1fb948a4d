package usecase

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fulfila/stock-api/internal/application/dto"
	"github.com/fulfila/stock-api/internal/domain"
	"github.com/fulfila/stock-api/internal/domain/entity"
	"github.com/fulfila/stock-api/internal/domain/repository"
)

// ProductUseCase CRUD de productos del catálogo.
type ProductUseCase struct {
	productRepo repository.ProductRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo}
}

// Create valida y persiste un producto nuevo con stock en cero.
func (uc *ProductUseCase) Create(businessID string, in dto.CreateProductRequest) (*entity.Product, error) {
	if in.EAN == "" || in.SKU == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	product := &entity.Product{
		ID:         uuid.New().String(),
		BusinessID: businessID,
		EAN:        in.EAN,
		SKU:        in.SKU,
		Name:       in.Name,
		Price:      in.Price,
		VolumeType: in.VolumeType,
		Weight:     in.Weight,
		Status:     entity.ProductStatusEmptyStock,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID obtiene un producto verificando pertenencia al business.
func (uc *ProductUseCase) GetByID(businessID, id string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "producto", Key: id}
	}
	if product.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

// List lista los productos de un business.
func (uc *ProductUseCase) List(businessID string, limit, offset int) ([]*entity.Product, error) {
	return uc.productRepo.ListByBusiness(businessID, limit, offset)
}

// Update modifica los datos comerciales; los agregados de stock solo los
// toca el ledger.
func (uc *ProductUseCase) Update(businessID, id string, in dto.UpdateProductRequest) (*entity.Product, error) {
	product, err := uc.GetByID(businessID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != "" {
		product.Name = in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.VolumeType != "" {
		product.VolumeType = in.VolumeType
	}
	if in.Weight != nil {
		product.Weight = *in.Weight
	}
	if in.Status != "" {
		product.Status = in.Status
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return product, nil
}
