package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/enum"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"github.com/sangkips/tavern-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
	signals     Signals
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository, signals Signals) *ProductService {
	return &ProductService{
		productRepo: productRepo,
		signals:     signals,
	}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID        uuid.UUID
	Name          string
	Category      enum.ProductCategory
	Quantity      int
	QuantityAlert int
	BuyingPrice   decimal.Decimal
	SellingPrice  decimal.Decimal
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	slug := utils.Slugify(input.Name)
	existing, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewBadRequestError("A product with this name already exists")
	}

	product := &entity.Product{
		Name:          input.Name,
		Slug:          slug,
		Category:      input.Category,
		Quantity:      input.Quantity,
		QuantityAlert: input.QuantityAlert,
		BuyingPrice:   entity.DecimalToCents(input.BuyingPrice),
		SellingPrice:  entity.DecimalToCents(input.SellingPrice),
		Active:        true,
		CreatedBy:     input.UserID,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewBadRequestError("A product with this name already exists")
		}
		return nil, err
	}

	s.changed()
	return product, nil
}

// GetProductByID retrieves a product by ID
func (s *ProductService) GetProductByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering; results are cached until the
// next catalog or stock write.
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	params.Pagination.Validate()
	key := fmt.Sprintf("%slist:%s:%s:%t:%t:%s:%s:%d:%d", cachePrefixProducts,
		params.Search, params.Category, params.LowStock, params.ActiveOnly,
		params.SortBy, params.SortOrder, params.Pagination.Page, params.Pagination.PerPage)

	if s.signals.Cache != nil {
		if cached, ok := s.signals.Cache.Get(key); ok {
			return cached.(*pagination.PaginatedResult[entity.Product]), nil
		}
	}

	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	result := pagination.NewPaginatedResult(products, pag)
	if s.signals.Cache != nil {
		s.signals.Cache.Set(key, result)
	}
	return result, nil
}

// GetLowStockProducts returns active products at or below their alert level
func (s *ProductService) GetLowStockProducts(ctx context.Context) ([]entity.Product, error) {
	products, err := s.productRepo.GetLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []entity.Product{}
	}
	return products, nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID            uuid.UUID
	Name          *string
	Category      *enum.ProductCategory
	Quantity      *int
	QuantityAlert *int
	BuyingPrice   *decimal.Decimal
	SellingPrice  *decimal.Decimal
	Active        *bool
}

// UpdateProduct updates a product
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProductByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil && *input.Name != product.Name {
		slug := utils.Slugify(*input.Name)
		existing, err := s.productRepo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != product.ID {
			return nil, apperror.NewBadRequestError("A product with this name already exists")
		}
		product.Name = *input.Name
		product.Slug = slug
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Quantity != nil {
		product.Quantity = *input.Quantity
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.BuyingPrice != nil {
		product.BuyingPrice = entity.DecimalToCents(*input.BuyingPrice)
	}
	if input.SellingPrice != nil {
		product.SellingPrice = entity.DecimalToCents(*input.SellingPrice)
	}
	if input.Active != nil {
		product.Active = *input.Active
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.NewBadRequestError("A product with this name already exists")
		}
		return nil, err
	}

	s.changed()
	return product, nil
}

// Restock sets the stock of a product to an absolute quantity
func (s *ProductService) Restock(ctx context.Context, id uuid.UUID, quantity int) (*entity.Product, error) {
	if quantity < 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{Field: "quantity", Message: "must be no less than 0"}})
	}
	product, err := s.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.UpdateQuantity(ctx, id, quantity); err != nil {
		return nil, err
	}
	product.Quantity = quantity

	s.changed()
	return product, nil
}

// DeleteProduct soft-deletes a product
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProductByID(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed()
	return nil
}

func (s *ProductService) changed() {
	s.signals.invalidate(cachePrefixProducts)
	s.signals.broadcast(realtime.ProductsUpdated)
}
