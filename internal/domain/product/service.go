// internal/domain/product/service.go
package product

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/pagination"
	"github.com/shopfront/storefront-api/internal/pkg/validation"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Service handles catalog business logic
type Service struct {
	repo   Repository
	cache  Cache
	logger logrus.FieldLogger
}

// NewService creates a new product service. A nil cache disables caching.
func NewService(repo Repository, cache Cache, logger logrus.FieldLogger) *Service {
	if cache == nil {
		cache = noCache{}
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

// ProductListRequest represents product list query parameters
type ProductListRequest struct {
	Page     int
	Limit    int
	Category string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
}

// ProductCreateRequest represents product creation data
type ProductCreateRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Price       *decimal.Decimal `json:"price"`
	Description string           `json:"description" validate:"required"`
	Category    string           `json:"category" validate:"required,max=100"`
	Rating      *float64         `json:"rating" validate:"omitempty,min=0,max=5"`
}

// ProductUpdateRequest represents a partial product update. Nil fields are
// left unchanged.
type ProductUpdateRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price"`
	Description *string          `json:"description"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Rating      *float64         `json:"rating" validate:"omitempty,min=0,max=5"`
}

// Pagination is the page metadata of a product listing.
type Pagination struct {
	pagination.Page
	TotalProducts int64 `json:"totalProducts"`
}

// ProductResponse represents a page of products
type ProductResponse struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// CreateProduct validates and stores a new product.
func (s *Service) CreateProduct(ctx context.Context, req *ProductCreateRequest) (*Product, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	req.Category = strings.TrimSpace(req.Category)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if req.Price == nil {
		return nil, apperror.InvalidArgument("price is required",
			apperror.FieldError{Field: "price", Message: "price is required"})
	}
	if req.Price.IsNegative() {
		return nil, negativePrice()
	}

	now := time.Now().UTC()
	p := &Product{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Price:       *req.Price,
		Description: req.Description,
		Category:    req.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperror.Unexpected("Failed to create product", err)
	}

	s.logger.WithField("product_id", p.ID).Info("product created")
	return p, nil
}

// GetProduct returns one product, served from cache when possible.
func (s *Service) GetProduct(ctx context.Context, id string) (*Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Failed to load product")
	}

	s.cache.Set(ctx, p)
	return p, nil
}

// UpdateProduct applies a partial update.
func (s *Service) UpdateProduct(ctx context.Context, id string, req *ProductUpdateRequest) (*Product, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Failed to load product")
	}

	if req.Name != nil {
		if p.Name = strings.TrimSpace(*req.Name); p.Name == "" {
			return nil, emptyField("name")
		}
	}
	if req.Description != nil {
		if p.Description = strings.TrimSpace(*req.Description); p.Description == "" {
			return nil, emptyField("description")
		}
	}
	if req.Category != nil {
		if p.Category = strings.TrimSpace(*req.Category); p.Category == "" {
			return nil, emptyField("category")
		}
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, negativePrice()
		}
		p.Price = *req.Price
	}
	if req.Rating != nil {
		p.Rating = *req.Rating
	}
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, notFoundOr(err, "Failed to update product")
	}

	s.cache.Invalidate(ctx, id)
	return p, nil
}

// DeleteProduct removes a product and returns what was deleted.
func (s *Service) DeleteProduct(ctx context.Context, id string) (*Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Failed to load product")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, notFoundOr(err, "Failed to delete product")
	}

	s.cache.Invalidate(ctx, id)
	s.logger.WithField("product_id", id).Info("product deleted")
	return p, nil
}

// GetProducts lists products with optional category and price filters.
func (s *Service) GetProducts(ctx context.Context, req *ProductListRequest) (*ProductResponse, error) {
	if req.MinPrice != nil && req.MaxPrice != nil && req.MinPrice.GreaterThan(*req.MaxPrice) {
		return nil, apperror.InvalidArgument("minPrice cannot be greater than maxPrice")
	}

	params := pagination.New(req.Page, req.Limit, pagination.DefaultLimit)
	return s.list(ctx, params, Filter{
		Category: strings.TrimSpace(req.Category),
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
	})
}

// SearchProducts matches query against name, description and category.
func (s *Service) SearchProducts(ctx context.Context, query string, page, limit int) (*ProductResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperror.InvalidArgument("Search query is required",
			apperror.FieldError{Field: "query", Message: "Search query is required"})
	}

	params := pagination.New(page, limit, pagination.DefaultLimit)
	return s.list(ctx, params, Filter{Query: query})
}

func (s *Service) list(ctx context.Context, params pagination.Params, filter Filter) (*ProductResponse, error) {
	filter.Offset = params.Offset()
	filter.Limit = params.Limit

	products, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Unexpected("Failed to list products", err)
	}
	if products == nil {
		products = []Product{}
	}

	return &ProductResponse{
		Products: products,
		Pagination: Pagination{
			Page:          params.Meta(total),
			TotalProducts: total,
		},
	}, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.NotFound("Product not found")
	}
	return apperror.Unexpected(message, err)
}

func negativePrice() error {
	return apperror.InvalidArgument("price must be a non-negative number",
		apperror.FieldError{Field: "price", Message: "price must be a non-negative number"})
}

func emptyField(field string) error {
	msg := field + " cannot be empty"
	return apperror.InvalidArgument(msg, apperror.FieldError{Field: field, Message: msg})
}
