package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"purechain-store/internal/broker"
	"purechain-store/internal/cart"
	"purechain-store/internal/models"
	"purechain-store/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCart is returned when checkout is attempted with no cart lines.
// It is a user-facing validation condition, not a system failure.
var ErrEmptyCart = errors.New("cart is empty")

// OrderGateway is the slice of the sheet gateway checkout writes through.
type OrderGateway interface {
	CreateOrder(ctx context.Context, row models.NewOrderRow) (string, error)
	UpdateStock(ctx context.Context, productID string, delta int) error
}

// OrderArchive persists placed-order stubs locally.
type OrderArchive interface {
	Append(orders ...models.PlacedOrder) error
}

// CheckoutResult is what a checkout attempt produced. On failure, Orders holds
// the stubs for lines that were created before the failing one; those orders
// exist on the backend and are not rolled back.
type CheckoutResult struct {
	Success bool                 `json:"success"`
	Orders  []models.PlacedOrder `json:"orders"`
	Err     error                `json:"-"`
}

// CheckoutSequencer drains the cart into order-creation and stock-decrement
// writes, strictly one line at a time so sheet writes stay serialized and
// order numbering follows cart order.
type CheckoutSequencer struct {
	gateway OrderGateway
	cart    *cart.Cart
	archive OrderArchive
	events  *broker.EventPublisher
	logger  *zap.Logger
}

// NewCheckoutSequencer creates a checkout sequencer. events may be nil.
func NewCheckoutSequencer(gw OrderGateway, c *cart.Cart, archive OrderArchive, events *broker.EventPublisher) *CheckoutSequencer {
	return &CheckoutSequencer{
		gateway: gw,
		cart:    c,
		archive: archive,
		events:  events,
		logger:  util.GetLogger(),
	}
}

// Checkout converts the current cart into placed orders. Per line: create the
// order row, resolve an order id (synthesizing one when the backend stays
// silent), attempt the best-effort stock decrement, and record a stub. A
// failed order-creation aborts the run and leaves the cart untouched; only a
// fully successful run persists the stubs and clears the cart.
func (s *CheckoutSequencer) Checkout(ctx context.Context) *CheckoutResult {
	ctx, span := util.StartSpan(ctx, "CheckoutSequencer.Checkout")
	defer span.End()

	items := s.cart.Items()
	if len(items) == 0 {
		util.CheckoutsFailedTotal.WithLabelValues("empty_cart").Inc()
		return &CheckoutResult{Err: ErrEmptyCart}
	}

	placed := make([]models.PlacedOrder, 0, len(items))
	for _, item := range items {
		now := time.Now()
		row := models.NewOrderRow{
			ProductID:   item.ID,
			Quantity:    item.Quantity,
			DateTime:    now.Format(time.RFC3339),
			Status:      models.StatusPending,
			ProcessTime: "",
		}

		orderID, err := s.gateway.CreateOrder(ctx, row)
		if err != nil {
			util.CheckoutsFailedTotal.WithLabelValues("create_order").Inc()
			s.logger.Error("Order creation failed, aborting checkout",
				zap.String("product_id", item.ID),
				zap.Int("orders_placed", len(placed)),
				zap.Error(err))
			return &CheckoutResult{
				Success: false,
				Orders:  placed,
				Err:     fmt.Errorf("failed to create order for %s: %w", item.Name, err),
			}
		}
		if orderID == "" {
			orderID = fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), item.ID)
		}

		// Best effort, at most one attempt: a failed decrement never blocks
		// the order that was already created.
		if err := s.gateway.UpdateStock(ctx, item.ID, -item.Quantity); err != nil {
			util.StockDecrementFailures.Inc()
			s.logger.Warn("Stock decrement failed",
				zap.String("order_id", orderID),
				zap.String("product_id", item.ID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			s.publishStockDecrementFailed(ctx, orderID, item, err)
		}

		order := models.PlacedOrder{
			OrderID:     orderID,
			ProductID:   item.ID,
			ProductName: item.Name,
			Quantity:    item.Quantity,
			Price:       item.Price,
			DateTime:    row.DateTime,
			Status:      models.StatusPending,
		}
		placed = append(placed, order)

		util.OrdersPlacedTotal.Inc()
		s.logger.Info("Order placed",
			zap.String("order_id", orderID),
			zap.String("product_id", item.ID),
			zap.Int("quantity", item.Quantity))
		s.publishOrderPlaced(ctx, order)
	}

	if err := s.archive.Append(placed...); err != nil {
		s.logger.Error("Failed to persist placed orders locally", zap.Error(err))
	}
	s.cart.Clear()

	util.CheckoutsCompletedTotal.Inc()
	s.publishCheckoutCompleted(ctx, placed)

	return &CheckoutResult{Success: true, Orders: placed}
}

func (s *CheckoutSequencer) publishOrderPlaced(ctx context.Context, order models.PlacedOrder) {
	if s.events == nil {
		return
	}
	event := &models.OrderPlacedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderPlaced,
			Timestamp: time.Now(),
		},
		OrderID:     order.OrderID,
		ProductID:   order.ProductID,
		ProductName: order.ProductName,
		Quantity:    order.Quantity,
		UnitPrice:   order.Price,
	}
	if err := s.events.PublishOrderPlaced(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderPlaced event", zap.Error(err))
	}
}

func (s *CheckoutSequencer) publishStockDecrementFailed(ctx context.Context, orderID string, item models.CartItem, cause error) {
	if s.events == nil {
		return
	}
	event := &models.StockDecrementFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeStockDecrementFailed,
			Timestamp: time.Now(),
		},
		OrderID:   orderID,
		ProductID: item.ID,
		Quantity:  item.Quantity,
		Reason:    cause.Error(),
	}
	if err := s.events.PublishStockDecrementFailed(ctx, event); err != nil {
		s.logger.Error("Failed to publish StockDecrementFailed event", zap.Error(err))
	}
}

func (s *CheckoutSequencer) publishCheckoutCompleted(ctx context.Context, placed []models.PlacedOrder) {
	if s.events == nil {
		return
	}

	ids := make([]string, len(placed))
	var subtotal float64
	for i, o := range placed {
		ids[i] = o.OrderID
		subtotal += o.Price * float64(o.Quantity)
	}

	event := &models.CheckoutCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeCheckoutCompleted,
			Timestamp: time.Now(),
		},
		OrderIDs: ids,
		Lines:    len(placed),
		Subtotal: subtotal,
	}
	if err := s.events.PublishCheckoutCompleted(ctx, event); err != nil {
		s.logger.Error("Failed to publish CheckoutCompleted event", zap.Error(err))
	}
}
