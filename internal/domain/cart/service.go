// internal/domain/cart/service.go
package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/domain/product"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ProductLookup resolves catalog products for price snapshots and display.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*product.Product, error)
}

// Service handles cart business logic
type Service struct {
	repo     Repository
	products ProductLookup
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a new cart service
func NewService(repo Repository, products ProductLookup, logger logrus.FieldLogger) *Service {
	return &Service{
		repo:     repo,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// AddToCartRequest represents add to cart request
type AddToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// UpdateCartItemRequest represents update cart item request
type UpdateCartItemRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

// ItemView is a cart line with the current catalog product attached.
// Product is nil when the product no longer exists.
type ItemView struct {
	Item
	Product *product.Product `json:"product"`
}

// CartView is a cart populated for display.
type CartView struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Items       []ItemView      `json:"items"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	TotalItems  int             `json:"totalItems"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// Summary is the compact cart total.
type Summary struct {
	TotalItems  int             `json:"totalItems"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// GetCart returns the caller's cart, creating an empty one on first access.
func (s *Service) GetCart(ctx context.Context, userID string) (*CartView, error) {
	c, err := s.load(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	view := &CartView{
		ID:          c.ID,
		UserID:      c.UserID,
		Items:       make([]ItemView, 0, len(c.Items)),
		TotalAmount: c.TotalAmount,
		TotalItems:  c.TotalItems,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	for _, item := range c.Items {
		p, err := s.products.GetProduct(ctx, item.ProductID)
		if err != nil && !apperror.IsKind(err, apperror.KindNotFound) {
			return nil, err
		}
		view.Items = append(view.Items, ItemView{Item: item, Product: p})
	}

	return view, nil
}

// Snapshot returns the caller's materialized cart without catalog data.
func (s *Service) Snapshot(ctx context.Context, userID string) (*Cart, error) {
	return s.load(ctx, userID, true)
}

// AddToCart adds quantity of a product to the caller's cart.
func (s *Service) AddToCart(ctx context.Context, userID string, req *AddToCartRequest) (*Cart, error) {
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, apperror.InvalidArgument("Product ID is required",
			apperror.FieldError{Field: "productId", Message: "Product ID is required"})
	}
	if req.Quantity < 1 {
		return nil, invalidQuantity("Quantity must be a positive integer")
	}

	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	c, err := s.load(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	if err := c.AddItem(Snapshot{ProductID: p.ID, Name: p.Name, Price: p.Price}, req.Quantity); err != nil {
		return nil, invalidQuantity(err.Error())
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateCartItem sets the quantity of a line; zero removes it.
func (s *Service) UpdateCartItem(ctx context.Context, userID string, req *UpdateCartItemRequest) (*Cart, error) {
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		return nil, apperror.InvalidArgument("Product ID is required",
			apperror.FieldError{Field: "productId", Message: "Product ID is required"})
	}
	if req.Quantity == nil || *req.Quantity < 0 {
		return nil, invalidQuantity("Quantity must be a non-negative integer")
	}

	c, err := s.load(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	if err := c.UpdateItemQuantity(productID, *req.Quantity); err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return nil, apperror.NotFound("Item not found in cart")
		}
		return nil, invalidQuantity(err.Error())
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// RemoveFromCart deletes a line from the caller's cart.
func (s *Service) RemoveFromCart(ctx context.Context, userID, productID string) (*Cart, error) {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return nil, apperror.InvalidArgument("Product ID is required",
			apperror.FieldError{Field: "productId", Message: "Product ID is required"})
	}

	c, err := s.load(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearCart empties the caller's cart. Clearing an empty cart is a no-op.
func (s *Service) ClearCart(ctx context.Context, userID string) (*Cart, error) {
	c, err := s.load(ctx, userID, true)
	if err != nil {
		return nil, err
	}

	c.Clear()
	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// ClearForUser empties a cart after a successful checkout.
func (s *Service) ClearForUser(ctx context.Context, userID string) error {
	_, err := s.ClearCart(ctx, userID)
	return err
}

// GetCartCount returns the total quantity in the caller's cart.
func (s *Service) GetCartCount(ctx context.Context, userID string) (int, error) {
	summary, err := s.GetCartSummary(ctx, userID)
	if err != nil {
		return 0, err
	}
	return summary.TotalItems, nil
}

// GetCartSummary returns totals, zero when the caller has no cart.
func (s *Service) GetCartSummary(ctx context.Context, userID string) (*Summary, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return &Summary{TotalAmount: decimal.Zero}, nil
		}
		return nil, apperror.Unexpected("Failed to load cart", err)
	}
	return &Summary{TotalItems: c.TotalItems, TotalAmount: c.TotalAmount}, nil
}

func (s *Service) load(ctx context.Context, userID string, create bool) (*Cart, error) {
	c, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		if c.Items == nil {
			c.Items = []Item{}
		}
		return c, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Unexpected("Failed to load cart", err)
	}
	if !create {
		return nil, apperror.NotFound("Cart not found")
	}

	c = New(uuid.NewString(), userID, s.now().UTC())
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, apperror.Unexpected("Failed to create cart", err)
	}
	return c, nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(ctx, c); err != nil {
		s.logger.WithError(err).WithField("user_id", c.UserID).Error("failed to save cart")
		return apperror.Unexpected("Failed to save cart", err)
	}
	return nil
}

func invalidQuantity(msg string) error {
	return apperror.InvalidArgument(msg, apperror.FieldError{Field: "quantity", Message: msg})
}
