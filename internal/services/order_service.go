package services

import (
	"context"
	"fmt"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/repositories"
)

const (
	// DefaultTaxRate is applied to invoices unless configured otherwise.
	DefaultTaxRate = 0.19

	defaultLineConcurrency = 8
)

// OrderService handles business logic related to orders, most notably the
// checkout workflow that turns a cart into a completed, invoiced order.
type OrderService struct {
	orderRepo   repositories.OrderRepository
	settler     Settler
	taxRate     float64
	concurrency int
	events      EventPublisher
	logger      *zap.Logger
	now         func() time.Time
}

// OrderOption customises an OrderService.
type OrderOption func(*OrderService)

// WithSettler replaces the settlement wait.
func WithSettler(s Settler) OrderOption {
	return func(o *OrderService) {
		if s != nil {
			o.settler = s
		}
	}
}

// WithTaxRate sets the tax rate sent with invoice requests.
func WithTaxRate(rate float64) OrderOption {
	return func(o *OrderService) {
		if rate >= 0 {
			o.taxRate = rate
		}
	}
}

// WithLineConcurrency bounds concurrent line attachment calls.
func WithLineConcurrency(n int) OrderOption {
	return func(o *OrderService) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithEventPublisher publishes order events after successful checkouts.
func WithEventPublisher(p EventPublisher) OrderOption {
	return func(o *OrderService) {
		o.events = p
	}
}

// WithOrderLogger attaches a logger.
func WithOrderLogger(logger *zap.Logger) OrderOption {
	return func(o *OrderService) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewOrderService creates a new OrderService.
func NewOrderService(orderRepo repositories.OrderRepository, opts ...OrderOption) *OrderService {
	s := &OrderService{
		orderRepo:   orderRepo,
		settler:     FixedDelaySettler{Delay: DefaultSettleInterval},
		taxRate:     DefaultTaxRate,
		concurrency: defaultLineConcurrency,
		logger:      zap.NewNop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAllOrders retrieves all orders.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.OrderWithInvoice, error) {
	return s.orderRepo.GetAll(ctx)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(ctx context.Context, id int64) (*models.OrderWithInvoice, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// UpdateOrderStatus transitions an order. Terminal orders cannot move again.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if !status.Valid() {
		return fmt.Errorf("invalid order status: %s", status)
	}
	current, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if current.Status.Terminal() && current.Status != status {
		return fmt.Errorf("order %d is already %s", id, current.Status)
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %d: %w", id, err)
	}

	current.Status = status
	s.publish(ctx, EventOrderStatus, current)
	return nil
}

// CancelOrder marks a pending order as cancelled.
func (s *OrderService) CancelOrder(ctx context.Context, id int64) error {
	return s.UpdateOrderStatus(ctx, id, models.OrderCancelled)
}

// DeleteOrder removes an order.
func (s *OrderService) DeleteOrder(ctx context.Context, id int64) error {
	return s.orderRepo.DeleteByID(ctx, id)
}

// Checkout places an order for a cart snapshot. The total is computed from
// the snapshot; the caller clears the cart after success.
func (s *OrderService) Checkout(ctx context.Context, snap cart.Snapshot, employeeID int64) (*models.OrderWithInvoice, error) {
	if snap.Client == nil {
		return nil, ErrNoClient
	}
	if len(snap.Products) == 0 && len(snap.Services) == 0 {
		return nil, ErrEmptyCart
	}
	draft := models.OrderDraft{
		ClientID:   snap.Client.ID,
		EmployeeID: employeeID,
		TotalPrice: cart.TotalAmount(snap.Products, snap.Services),
	}
	return s.CreateOrderWithItems(ctx, draft, snap.Products, snap.Services)
}

// CreateOrderWithItems runs the checkout workflow: create the header, attach
// product lines, attach service lines, wait for settlement, mark the order
// completed and generate its invoice. Steps run strictly in sequence; calls
// within a line step run concurrently and are all attempted before the step
// fails. A failure returns an *OrchestrationStepError and leaves the order
// in the stage it reached.
func (s *OrderService) CreateOrderWithItems(ctx context.Context, draft models.OrderDraft, products []models.Product, services []models.Service) (*models.OrderWithInvoice, error) {
	plan := PlanLines(products, services)

	header, err := s.orderRepo.Create(ctx, draft)
	if err != nil {
		return nil, s.fail(StepCreateHeader, StageComposing, 0, err)
	}
	orderID := header.ID
	s.logger.Debug("order header created",
		zap.Int64("order_id", orderID),
		zap.Int("product_lines", len(plan.Products)),
		zap.Int("service_lines", len(plan.Services)),
	)

	err = s.batch(len(plan.Products), func(i int) error {
		line := plan.Products[i]
		line.OrderID = orderID
		return s.orderRepo.AddProductLine(ctx, line)
	})
	if err != nil {
		return nil, s.fail(StepAttachProducts, StageHeaderCreated, orderID, err)
	}

	err = s.batch(len(plan.Services), func(i int) error {
		line := plan.Services[i]
		line.OrderID = orderID
		return s.orderRepo.AddServiceLine(ctx, line)
	})
	if err != nil {
		return nil, s.fail(StepAttachServices, StageHeaderCreated, orderID, err)
	}

	if err := s.settler.Settle(ctx, orderID); err != nil {
		return nil, s.fail(StepSettle, StageLinesAttached, orderID, err)
	}

	if err := s.orderRepo.UpdateStatus(ctx, orderID, models.OrderCompleted); err != nil {
		return nil, s.fail(StepComplete, StageLinesAttached, orderID, err)
	}

	link, err := s.orderRepo.GenerateInvoice(ctx, orderID, s.taxRate)
	if err != nil {
		return nil, s.fail(StepInvoice, StageCompleted, orderID, err)
	}

	result := s.readBack(ctx, *header)
	result.Status = models.OrderCompleted
	result.InvoiceLink = link

	s.logger.Info("order invoiced",
		zap.Int64("order_id", orderID),
		zap.Int64("client_id", result.ClientID),
		zap.Float64("total_price", result.TotalPrice),
	)
	s.publish(ctx, EventOrderInvoiced, &result)
	return &result, nil
}

// batch runs fn for every index on a bounded pool. Every call is attempted;
// the joined errors are returned.
func (s *OrderService) batch(n int, fn func(i int) error) error {
	if n == 0 {
		return nil
	}
	p := pool.New().WithMaxGoroutines(s.concurrency).WithErrors()
	for i := 0; i < n; i++ {
		i := i
		p.Go(func() error {
			return fn(i)
		})
	}
	return p.Wait()
}

// readBack fetches the persisted order for its timestamps. The checkout has
// already succeeded, so a failed read falls back to the header.
func (s *OrderService) readBack(ctx context.Context, header models.Order) models.OrderWithInvoice {
	stored, err := s.orderRepo.GetByID(ctx, header.ID)
	if err != nil {
		s.logger.Warn("failed to read back invoiced order",
			zap.Int64("order_id", header.ID),
			zap.Error(err),
		)
		now := s.now()
		return models.OrderWithInvoice{Order: header, CreatedAt: now, UpdatedAt: now}
	}
	return *stored
}

func (s *OrderService) fail(step Step, reached Stage, orderID int64, err error) error {
	s.logger.Error("checkout step failed",
		zap.String("step", string(step)),
		zap.Stringer("reached", reached),
		zap.Int64("order_id", orderID),
		zap.Error(err),
	)
	return &OrchestrationStepError{Step: step, Reached: reached, OrderID: orderID, Err: err}
}

// publish sends an order event if a publisher is configured. Failures are
// logged and never affect the order.
func (s *OrderService) publish(ctx context.Context, routingKey string, order *models.OrderWithInvoice) {
	if s.events == nil {
		return
	}
	event := OrderEvent{
		Type:        routingKey,
		OrderID:     order.ID,
		ClientID:    order.ClientID,
		EmployeeID:  order.EmployeeID,
		Status:      string(order.Status),
		TotalPrice:  order.TotalPrice,
		InvoiceLink: order.InvoiceLink,
		OccurredAt:  s.now().UTC(),
	}
	if err := s.events.PublishJSON(ctx, routingKey, event); err != nil {
		s.logger.Warn("failed to publish order event",
			zap.String("routing_key", routingKey),
			zap.Int64("order_id", order.ID),
			zap.Error(err),
		)
	}
}
