package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"resto/internal/activity"
	"resto/internal/models"
	"resto/internal/repositories"
	"resto/internal/validation"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("resto/services")

// PriceSource decides where line item prices come from.
type PriceSource string

const (
	// PriceFromCatalog pins each line to the menu item's price at creation time.
	PriceFromCatalog PriceSource = "catalog"
	// PriceFromClient keeps the submitted price, e.g. for promotional overrides.
	PriceFromClient PriceSource = "client"
)

// OrderOptions are the feature switches of the order workflow.
type OrderOptions struct {
	PriceSource       PriceSource
	StrictTransitions bool
	PerPage           int
}

// CatalogReader is the catalog view order creation needs.
type CatalogReader interface {
	RestaurantExists(ctx context.Context, id string) (bool, error)
	MenuItemsByIDs(ctx context.Context, ids []string) ([]models.MenuItem, error)
}

// CreateOrderInput is the create-order command as submitted by a client.
type CreateOrderInput struct {
	RestaurantID  string                 `json:"restaurant_id"`
	CustomerName  string                 `json:"customer_name" validate:"max=100"`
	CustomerPhone string                 `json:"customer_phone" validate:"omitempty,phone"`
	CustomerEmail string                 `json:"customer_email" validate:"omitempty,email,max=100"`
	Items         []models.CandidateItem `json:"items"`
}

// UpdateStatusInput changes an order's status. When ExpectedStatus is set the update only
// applies if the stored status still equals it.
type UpdateStatusInput struct {
	Status         string `json:"status"`
	ExpectedStatus string `json:"expected_status,omitempty"`
}

// OrderQuery filters the order listing. Page is 1-based.
type OrderQuery struct {
	Search string
	Status string
	Page   int
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orders    repositories.OrderRepository
	catalog   CatalogReader
	publisher EventPublisher
	activity  *activity.Recorder
	validate  *validation.Validator
	opts      OrderOptions
	now       func() time.Time

	created       metric.Int64Counter
	statusUpdates metric.Int64Counter
}

// NewOrderService creates a new OrderService. publisher and recorder may be nil.
func NewOrderService(orders repositories.OrderRepository, catalog CatalogReader, publisher EventPublisher, recorder *activity.Recorder, opts OrderOptions) *OrderService {
	if opts.PriceSource == "" {
		opts.PriceSource = PriceFromCatalog
	}
	if opts.PerPage <= 0 {
		opts.PerPage = 10
	}

	meter := otel.Meter("resto/services")
	created, err := meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders committed, with their line items"))
	if err != nil {
		log.Printf("Failed to create orders_created_total counter: %v", err)
	}
	statusUpdates, err := meter.Int64Counter("order_status_updates_total",
		metric.WithDescription("Order status changes applied"))
	if err != nil {
		log.Printf("Failed to create order_status_updates_total counter: %v", err)
	}

	return &OrderService{
		orders:        orders,
		catalog:       catalog,
		publisher:     publisher,
		activity:      recorder,
		validate:      validation.New(),
		opts:          opts,
		now:           func() time.Time { return time.Now().UTC() },
		created:       created,
		statusUpdates: statusUpdates,
	}
}

// CreateOrder validates the command, resolves every line against the catalog and stores the
// order with its items atomically.
func (s *OrderService) CreateOrder(ctx context.Context, rc models.RequestContext, input CreateOrderInput) (*models.Order, error) {
	ctx, span := tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.String("restaurant.id", input.RestaurantID)))
	defer span.End()

	order, err := s.buildOrder(input)
	if err != nil {
		return nil, spanError(span, err)
	}

	exists, err := s.catalog.RestaurantExists(ctx, order.RestaurantID)
	if err != nil {
		return nil, spanError(span, err)
	}
	if !exists {
		return nil, spanError(span, models.NotFoundf("restaurant with ID %s not found", order.RestaurantID))
	}

	if err := s.priceItems(ctx, order); err != nil {
		return nil, spanError(span, err)
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, spanError(span, err)
	}
	span.SetAttributes(attribute.String("order.id", order.ID))
	if s.created != nil {
		s.created.Add(ctx, 1, metric.WithAttributes(attribute.String("restaurant.id", order.RestaurantID)))
	}

	publish(ctx, s.publisher, EventOrderCreated, models.OrderCreatedEvent{
		Type:         EventOrderCreated,
		OrderID:      order.ID,
		RestaurantID: order.RestaurantID,
		CustomerName: order.CustomerName,
		Total:        order.TotalAmount,
		Items:        order.Items,
		Timestamp:    order.CreatedAt,
	})
	s.activity.Record(ctx, rc.UserID, "create_order",
		fmt.Sprintf("Created order %s for %s (%s)", order.ID, order.CustomerName, models.FormatCurrency(order.TotalAmount)))

	return order, nil
}

// buildOrder runs every local check and reports all of them at once.
func (s *OrderService) buildOrder(input CreateOrderInput) (*models.Order, error) {
	verr := &models.ValidationError{}
	if err := s.validate.Struct(input); err != nil {
		var fieldErrs *models.ValidationError
		if !errors.As(err, &fieldErrs) {
			return nil, err
		}
		verr.Errors = append(verr.Errors, fieldErrs.Errors...)
	}

	order, err := models.NewOrder(input.RestaurantID, input.CustomerName, input.CustomerPhone, input.CustomerEmail,
		models.FilterLineItems(input.Items), s.now())
	if err != nil {
		var orderErrs *models.ValidationError
		if !errors.As(err, &orderErrs) {
			return nil, err
		}
		verr.Errors = append(orderErrs.Errors, verr.Errors...)
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return order, nil
}

// priceItems checks that every line names an orderable item of the order's restaurant and
// fixes its price according to the configured price source.
func (s *OrderService) priceItems(ctx context.Context, order *models.Order) error {
	ids := make([]string, 0, len(order.Items))
	seen := make(map[string]bool, len(order.Items))
	for _, item := range order.Items {
		if !seen[item.MenuItemID] {
			seen[item.MenuItemID] = true
			ids = append(ids, item.MenuItemID)
		}
	}

	found, err := s.catalog.MenuItemsByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]models.MenuItem, len(found))
	for _, mi := range found {
		byID[mi.ID] = mi
	}

	verr := &models.ValidationError{}
	for i := range order.Items {
		line := &order.Items[i]
		mi, ok := byID[line.MenuItemID]
		if !ok {
			return models.NotFoundf("menu item with ID %s not found", line.MenuItemID)
		}
		if mi.RestaurantID != order.RestaurantID {
			verr.Add("items", fmt.Sprintf("Menu item %s does not belong to this restaurant", mi.Name))
			continue
		}
		if !mi.Availability {
			verr.Add("items", fmt.Sprintf("Menu item %s is not available", mi.Name))
			continue
		}
		line.ItemName = mi.Name
		if s.opts.PriceSource == PriceFromClient {
			continue
		}
		if !line.Price.IsZero() && !line.Price.Equal(mi.Price) {
			log.Printf("Submitted price %s for menu item %s differs from catalog price %s; using catalog price",
				line.Price, mi.ID, mi.Price)
		}
		line.Price = mi.Price
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	order.TotalAmount = models.ComputeTotal(order.Items)
	return nil
}

// UpdateStatus moves an order to a new status. Without strict transitions any status may follow
// any other, backwards included.
func (s *OrderService) UpdateStatus(ctx context.Context, rc models.RequestContext, orderID string, input UpdateStatusInput) error {
	ctx, span := tracer.Start(ctx, "OrderService.UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()

	status, err := models.ParseOrderStatus(input.Status)
	if err != nil {
		return spanError(span, err)
	}
	var expected *models.OrderStatus
	if input.ExpectedStatus != "" {
		e, err := models.ParseOrderStatus(input.ExpectedStatus)
		if err != nil {
			return spanError(span, err)
		}
		expected = &e
	}

	if s.opts.StrictTransitions {
		current, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return spanError(span, err)
		}
		if expected != nil && *expected != current.Status {
			return spanError(span, fmt.Errorf("order %s is %s, not %s: %w", orderID, current.Status, *expected, models.ErrStatusConflict))
		}
		if !models.CanTransition(current.Status, status) {
			return spanError(span, fmt.Errorf("%s -> %s: %w", current.Status, status, models.ErrInvalidTransition))
		}
		expected = &current.Status
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status, expected); err != nil {
		return spanError(span, err)
	}
	if s.statusUpdates != nil {
		s.statusUpdates.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
	}

	publish(ctx, s.publisher, EventOrderStatusChanged, models.OrderStatusChangedEvent{
		Type:      EventOrderStatusChanged,
		OrderID:   orderID,
		Status:    status,
		Timestamp: s.now(),
	})
	s.activity.Record(ctx, rc.UserID, "update_order_status",
		fmt.Sprintf("Order %s status changed to %s", orderID, status))
	return nil
}

// GetOrder returns an order with its items.
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// ListOrders returns one page of orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, q OrderQuery) (models.Page[models.Order], error) {
	filter := models.OrderFilter{Search: q.Search}
	if q.Status != "" {
		status, err := models.ParseOrderStatus(q.Status)
		if err != nil {
			return models.Page[models.Order]{}, err
		}
		filter.Status = status
	}
	filter.Limit, filter.Offset = models.Paginate(q.Page, s.opts.PerPage)

	orders, total, err := s.orders.List(ctx, filter)
	if err != nil {
		return models.Page[models.Order]{}, err
	}
	return models.NewPage(orders, total, q.Page, s.opts.PerPage), nil
}

// DeleteOrder removes an order and its items.
func (s *OrderService) DeleteOrder(ctx context.Context, rc models.RequestContext, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return err
	}
	s.activity.Record(ctx, rc.UserID, "delete_order", fmt.Sprintf("Deleted order %s", id))
	return nil
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
