// internal/domain/order/service.go
package order

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopfront/storefront-api/internal/domain"
	"github.com/shopfront/storefront-api/internal/domain/cart"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/auth"
	"github.com/shopfront/storefront-api/internal/pkg/events"
	"github.com/shopfront/storefront-api/internal/pkg/pagination"
	"github.com/shopfront/storefront-api/internal/pkg/validation"
	"github.com/sirupsen/logrus"
)

// CartSource supplies the cart frozen at checkout and clears it once paid.
type CartSource interface {
	Snapshot(ctx context.Context, userID string) (*cart.Cart, error)
	ClearForUser(ctx context.Context, userID string) error
}

// InvoiceRenderer renders an order as a PDF document.
type InvoiceRenderer interface {
	GenerateInvoice(o *Order) (*bytes.Buffer, error)
}

// Service handles order business logic
type Service struct {
	repo     Repository
	carts    CartSource
	invoices InvoiceRenderer
	events   events.Publisher
	logger   logrus.FieldLogger
	now      func() time.Time
}

// NewService creates a new order service
func NewService(repo Repository, carts CartSource, invoices InvoiceRenderer, publisher events.Publisher, logger logrus.FieldLogger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:     repo,
		carts:    carts,
		invoices: invoices,
		events:   publisher,
		logger:   logger,
		now:      time.Now,
	}
}

// CheckoutRequest represents checkout data
type CheckoutRequest struct {
	ShippingAddress AddressRequest `json:"shippingAddress"`
	PhoneNumber     string         `json:"phoneNumber" validate:"omitempty,max=30"`
	Notes           string         `json:"notes" validate:"omitempty,max=1000"`
}

// AddressRequest represents the shipping address of a checkout
type AddressRequest struct {
	Street  string `json:"street" validate:"required,max=255"`
	City    string `json:"city" validate:"required,max=100"`
	State   string `json:"state" validate:"omitempty,max=100"`
	ZipCode string `json:"zipCode" validate:"required,max=20"`
	Country string `json:"country" validate:"required,max=100"`
}

// UpdateStatusRequest represents an admin status change
type UpdateStatusRequest struct {
	OrderStatus OrderStatus `json:"orderStatus"`
}

// OrderPagination is the page metadata of an order listing.
type OrderPagination struct {
	pagination.Page
	TotalOrders int64 `json:"totalOrders"`
}

// OrderListResponse represents a page of orders
type OrderListResponse struct {
	Orders     []Order         `json:"orders"`
	Pagination OrderPagination `json:"pagination"`
}

// Checkout freezes the caller's cart into a pending order.
func (s *Service) Checkout(ctx context.Context, principal auth.Principal, req *CheckoutRequest) (*Order, error) {
	trimAddress(&req.ShippingAddress)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	c, err := s.carts.Snapshot(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, apperror.InvalidArgument("Cart is empty")
	}

	now := s.now().UTC()
	o := &Order{
		ID:            uuid.NewString(),
		OrderNumber:   GenerateOrderNumber(now),
		UserID:        principal.ID,
		Items:         make([]Item, 0, len(c.Items)),
		TotalAmount:   c.TotalAmount,
		TotalItems:    c.TotalItems,
		PaymentStatus: PaymentStatusPending,
		OrderStatus:   OrderStatusPending,
		ShippingAddress: Address{
			Street:  req.ShippingAddress.Street,
			City:    req.ShippingAddress.City,
			State:   req.ShippingAddress.State,
			ZipCode: req.ShippingAddress.ZipCode,
			Country: req.ShippingAddress.Country,
		},
		Email:       principal.Email,
		PhoneNumber: req.PhoneNumber,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, line := range c.Items {
		o.Items = append(o.Items, Item{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			Price:       line.Price,
			Quantity:    line.Quantity,
			TotalPrice:  line.TotalPrice,
		})
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, apperror.Unexpected("Failed to create order", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"user_id":      o.UserID,
	}).Info("order created")
	s.publish(ctx, events.OrderCreated, o)

	return o, nil
}

// GetUserOrders lists the caller's orders newest first.
func (s *Service) GetUserOrders(ctx context.Context, userID string, page, limit int) (*OrderListResponse, error) {
	return s.list(ctx, ListFilter{UserID: userID}, pagination.New(page, limit, pagination.DefaultLimit))
}

// GetUserOrder returns one of the caller's orders. Orders of other accounts
// are reported as missing.
func (s *Service) GetUserOrder(ctx context.Context, userID, id string) (*Order, error) {
	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperror.NotFound("Order not found")
	}
	return o, nil
}

// GetOrder returns any order by id.
func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Order not found")
		}
		return nil, apperror.Unexpected("Failed to load order", err)
	}
	return o, nil
}

// GetInvoice renders the caller's order as a PDF.
func (s *Service) GetInvoice(ctx context.Context, userID, id string) ([]byte, *Order, error) {
	o, err := s.GetUserOrder(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}

	buf, err := s.invoices.GenerateInvoice(o)
	if err != nil {
		return nil, nil, apperror.Unexpected("Failed to generate invoice", err)
	}
	return buf.Bytes(), o, nil
}

// GetOrders lists every order, optionally filtered by status.
func (s *Service) GetOrders(ctx context.Context, status string, page, limit int) (*OrderListResponse, error) {
	filter := ListFilter{}
	if status = strings.TrimSpace(status); status != "" {
		filter.OrderStatus = OrderStatus(strings.ToLower(status))
		if !filter.OrderStatus.IsValid() {
			return nil, apperror.InvalidArgument("Invalid order status")
		}
	}
	return s.list(ctx, filter, pagination.New(page, limit, pagination.DefaultLimit))
}

// UpdateOrderStatus moves an order along its lifecycle.
func (s *Service) UpdateOrderStatus(ctx context.Context, id string, req *UpdateStatusRequest) (*Order, error) {
	next := OrderStatus(strings.ToLower(strings.TrimSpace(string(req.OrderStatus))))
	if !next.IsValid() {
		return nil, apperror.InvalidArgument("Invalid order status",
			apperror.FieldError{Field: "orderStatus", Message: "Invalid order status"})
	}

	o, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.OrderStatus.IsTerminal() {
		return nil, apperror.InvalidArgument("Order is already " + string(o.OrderStatus))
	}
	if !o.OrderStatus.CanTransitionTo(next) {
		return nil, apperror.InvalidArgument("Cannot change order status from " + string(o.OrderStatus) + " to " + string(next))
	}

	o.OrderStatus = next
	o.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, apperror.Unexpected("Failed to update order", err)
	}

	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "order_status": next}).Info("order status updated")
	return o, nil
}

// FindByPaymentIntent returns the order linked to intentID, or nil.
func (s *Service) FindByPaymentIntent(ctx context.Context, intentID string) (*Order, error) {
	o, err := s.repo.FindByPaymentIntentID(ctx, intentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, apperror.Unexpected("Failed to load order", err)
	}
	return o, nil
}

// LinkPaymentIntent records the intent created to pay for o.
func (s *Service) LinkPaymentIntent(ctx context.Context, o *Order, intentID string) error {
	if o.IsPaid() {
		return apperror.InvalidArgument("Order is already paid")
	}
	if o.OrderStatus == OrderStatusCancelled {
		return apperror.InvalidArgument("Order is cancelled")
	}

	o.PaymentIntentID = &intentID
	if o.PaymentStatus == PaymentStatusFailed {
		o.PaymentStatus = PaymentStatusPending
	}
	o.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return apperror.Conflict("Payment intent is already linked to another order")
		}
		return apperror.Unexpected("Failed to update order", err)
	}
	return nil
}

// MarkPaid completes the payment of o, confirms it and empties the owner's
// cart. Repeated calls are no-ops.
func (s *Service) MarkPaid(ctx context.Context, o *Order, intentID string) error {
	if o.IsPaid() {
		return nil
	}

	now := s.now().UTC()
	o.PaymentIntentID = &intentID
	o.PaymentStatus = PaymentStatusCompleted
	if o.OrderStatus == OrderStatusPending {
		o.OrderStatus = OrderStatusConfirmed
	}
	o.PaidAt = &now
	o.UpdatedAt = now

	if err := s.repo.Update(ctx, o); err != nil {
		return apperror.Unexpected("Failed to update order", err)
	}

	if err := s.carts.ClearForUser(ctx, o.UserID); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID).Warn("failed to clear cart after payment")
	}

	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "payment_intent_id": intentID}).Info("order paid")
	s.publish(ctx, events.PaymentSucceeded, o)
	return nil
}

// MarkPaymentFailed records a rejected payment. Paid orders are left alone.
func (s *Service) MarkPaymentFailed(ctx context.Context, o *Order, intentID string) error {
	if o.IsPaid() {
		return nil
	}

	o.PaymentIntentID = &intentID
	o.PaymentStatus = PaymentStatusFailed
	o.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		return apperror.Unexpected("Failed to update order", err)
	}

	s.logger.WithFields(logrus.Fields{"order_id": o.ID, "payment_intent_id": intentID}).Warn("order payment failed")
	s.publish(ctx, events.PaymentFailed, o)
	return nil
}

func (s *Service) list(ctx context.Context, filter ListFilter, params pagination.Params) (*OrderListResponse, error) {
	filter.Offset = params.Offset()
	filter.Limit = params.Limit

	orders, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperror.Unexpected("Failed to list orders", err)
	}
	if orders == nil {
		orders = []Order{}
	}

	return &OrderListResponse{
		Orders: orders,
		Pagination: OrderPagination{
			Page:        params.Meta(total),
			TotalOrders: total,
		},
	}, nil
}

func (s *Service) publish(ctx context.Context, routingKey string, o *Order) {
	event := events.OrderEvent{
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		UserID:          o.UserID,
		Email:           o.Email,
		TotalAmount:     o.TotalAmount,
		TotalItems:      o.TotalItems,
		PaymentIntentID: o.IntentID(),
		Status:          string(o.PaymentStatus),
		OccurredAt:      s.now().UTC(),
	}
	if err := s.events.Publish(ctx, routingKey, event); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"order_id":    o.ID,
			"routing_key": routingKey,
		}).Warn("failed to publish order event")
	}
}

func trimAddress(a *AddressRequest) {
	a.Street = strings.TrimSpace(a.Street)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.ZipCode = strings.TrimSpace(a.ZipCode)
	a.Country = strings.TrimSpace(a.Country)
}
