package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
	"golden-samovar/internal/xpkg/logger"
)

// orderNumberAttempts bounds the regeneration loop when a generated order
// number collides with an existing one.
const orderNumberAttempts = 2

type OrderService struct {
	users  repository.UserRepository
	menu   repository.MenuRepository
	orders repository.OrderRepository
	tx     repository.TxManager
	mylog  logger.Logger

	now func() time.Time
}

func NewOrderService(
	users repository.UserRepository,
	menu repository.MenuRepository,
	orders repository.OrderRepository,
	tx repository.TxManager,
	mylog logger.Logger,
) *OrderService {
	return &OrderService{
		users:  users,
		menu:   menu,
		orders: orders,
		tx:     tx,
		mylog:  mylog,
		now:    time.Now,
	}
}

type CartLine struct {
	MenuItemID int64  `json:"menu_item_id"`
	Quantity   int    `json:"quantity"`
	Notes      string `json:"notes,omitempty"`
}

type CreateOrderInput struct {
	Items           []CartLine           `json:"items"`
	DeliveryType    domain.DeliveryType  `json:"delivery_type"`
	DeliveryAddress string               `json:"delivery_address,omitempty"`
	DeliveryTime    *time.Time           `json:"delivery_time,omitempty"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	Notes           string               `json:"notes,omitempty"`
	BonusPointsUsed int                  `json:"bonus_points_used"`
}

func (in CreateOrderInput) validate() error {
	if len(in.Items) == 0 {
		return apperrors.ErrEmptyCart
	}
	for i, line := range in.Items {
		if line.MenuItemID <= 0 {
			return apperrors.Validation("item %d: menu_item_id is required", i+1)
		}
		if line.Quantity < 1 {
			return apperrors.Validation("item %d: quantity must be at least 1", i+1)
		}
	}
	if !in.DeliveryType.Valid() {
		return apperrors.Validation("unknown delivery type: %s", in.DeliveryType)
	}
	if in.DeliveryType == domain.DeliveryTypeDelivery && in.DeliveryAddress == "" {
		return apperrors.Validation("delivery address is required for delivery orders")
	}
	if !in.PaymentMethod.Valid() {
		return apperrors.Validation("unknown payment method: %s", in.PaymentMethod)
	}
	if in.BonusPointsUsed < 0 {
		return apperrors.Validation("bonus_points_used cannot be negative")
	}
	return nil
}

// Create validates the cart, prices it against the current catalog, applies
// the points redemption and accrual, and persists everything atomically.
// On an order-number collision the whole transaction is retried once with a
// freshly generated number.
func (s *OrderService) Create(ctx context.Context, userID int64, in CreateOrderInput) (*domain.Order, error) {
	mylog := s.mylog.Action("create_order")

	if err := in.validate(); err != nil {
		return nil, err
	}

	var created *domain.Order
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		created, err = s.tryCreate(ctx, userID, in)
		if errors.Is(err, apperrors.ErrOrderNumberTaken) {
			mylog.Warn("order number collision, regenerating")
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrOrderNumberTaken) {
			return nil, apperrors.Internal("could not allocate a unique order number", err)
		}
		return nil, err
	}

	mylog.With("order_number", created.OrderNumber).With("total_amount", created.TotalAmount).
		Info("order created")
	return created, nil
}

func (s *OrderService) tryCreate(ctx context.Context, userID int64, in CreateOrderInput) (*domain.Order, error) {
	order := &domain.Order{
		OrderNumber:     s.generateOrderNumber(),
		UserID:          userID,
		Status:          domain.OrderStatusNew,
		DeliveryType:    in.DeliveryType,
		DeliveryAddress: in.DeliveryAddress,
		DeliveryTime:    in.DeliveryTime,
		PaymentMethod:   in.PaymentMethod,
		Notes:           in.Notes,
		BonusPointsUsed: in.BonusPointsUsed,
	}

	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		// Resolve the whole cart in one read; a shrunken result set means
		// some item is missing or unavailable, and the order is rejected
		// whole.
		distinct := distinctIDs(in.Items)
		menuItems, err := s.menu.ListAvailableByIDs(ctx, distinct)
		if err != nil {
			return err
		}
		if len(menuItems) != len(distinct) {
			return apperrors.ErrItemsUnavailable
		}
		byID := make(map[int64]domain.MenuItem, len(menuItems))
		for _, it := range menuItems {
			byID[it.ID] = it
		}

		var subtotal domain.Money
		order.Items = make([]domain.OrderItem, 0, len(in.Items))
		for _, line := range in.Items {
			menuItem := byID[line.MenuItemID]
			lineTotal := menuItem.Price * domain.Money(line.Quantity)
			subtotal += lineTotal
			order.Items = append(order.Items, domain.OrderItem{
				MenuItemID: menuItem.ID,
				Name:       menuItem.Name,
				Quantity:   line.Quantity,
				UnitPrice:  menuItem.Price,
				LineTotal:  lineTotal,
				Notes:      line.Notes,
			})
		}

		total := subtotal
		if in.BonusPointsUsed > 0 {
			total -= domain.RedemptionDiscount(in.BonusPointsUsed)
			if total < 0 {
				total = 0
			}
		}
		order.TotalAmount = total

		if err := s.orders.Create(ctx, order); err != nil {
			return err
		}

		// Debit the redeemed points first; the repository guard rejects a
		// debit past zero, which also covers redeeming more than the
		// current balance.
		if in.BonusPointsUsed > 0 {
			if _, err := s.users.AddBonusPoints(ctx, userID, -in.BonusPointsUsed); err != nil {
				return err
			}
		}
		if accrued := domain.AccruedPoints(total); accrued > 0 {
			if _, err := s.users.AddBonusPoints(ctx, userID, accrued); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// generateOrderNumber derives a human-readable number from the date plus a
// random suffix; uniqueness is enforced by the store and handled by the
// caller's retry.
func (s *OrderService) generateOrderNumber() string {
	return fmt.Sprintf("%s-%03d", s.now().Format("060102"), rand.Intn(1000))
}

func distinctIDs(lines []CartLine) []int64 {
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, line := range lines {
		if !seen[line.MenuItemID] {
			seen[line.MenuItemID] = true
			ids = append(ids, line.MenuItemID)
		}
	}
	return ids
}

// Get returns a single order; clients may only read their own.
func (s *OrderService) Get(ctx context.Context, p Principal, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(p, ActionReadOrder, order.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

// ListMine returns the caller's orders, optionally filtered by status.
func (s *OrderService) ListMine(ctx context.Context, userID int64, status domain.OrderStatus) ([]domain.Order, error) {
	if status != "" && !status.Valid() {
		return nil, apperrors.Validation("unknown order status: %s", status)
	}
	return s.orders.List(ctx, repository.OrderFilter{UserID: userID, Status: status})
}

// ListAll is the staff view over all orders.
func (s *OrderService) ListAll(ctx context.Context, p Principal, f repository.OrderFilter) ([]domain.Order, error) {
	if err := Authorize(p, ActionListAllOrders, 0); err != nil {
		return nil, err
	}
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperrors.Validation("unknown order status: %s", f.Status)
	}
	return s.orders.List(ctx, f)
}

// UpdateStatus drives a forward transition of the order state machine.
// Delivered orders are marked paid as a side effect.
func (s *OrderService) UpdateStatus(ctx context.Context, p Principal, orderID int64, next domain.OrderStatus) (*domain.Order, error) {
	if err := Authorize(p, ActionAdvanceOrder, 0); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, apperrors.Validation("unknown order status: %s", next)
	}

	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, apperrors.InvalidStatusTransition(string(order.Status), string(next))
	}

	isPaid := next == domain.OrderStatusDelivered
	if err := s.orders.UpdateStatus(ctx, orderID, order.Status, next, isPaid); err != nil {
		return nil, err
	}

	s.mylog.Action("order_status_updated").
		With("order_number", order.OrderNumber).With("status", next).
		Info("order status updated")

	order.Status = next
	order.IsPaid = order.IsPaid || isPaid
	return order, nil
}

// Cancel cancels a non-terminal order and returns any redeemed points to
// the owner. Both mutations share one transaction.
func (s *OrderService) Cancel(ctx context.Context, p Principal, orderID int64) (*domain.Order, error) {
	var cancelled *domain.Order
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		order, err := s.orders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if err := Authorize(p, ActionCancelOrder, order.UserID); err != nil {
			return err
		}
		if order.Status.Terminal() {
			return apperrors.Business("order in status %s cannot be cancelled", order.Status)
		}

		if order.BonusPointsUsed > 0 {
			if _, err := s.users.AddBonusPoints(ctx, order.UserID, order.BonusPointsUsed); err != nil {
				return err
			}
		}
		if err := s.orders.UpdateStatus(ctx, orderID, order.Status, domain.OrderStatusCancelled, false); err != nil {
			return err
		}

		order.Status = domain.OrderStatusCancelled
		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mylog.Action("order_cancelled").With("order_number", cancelled.OrderNumber).Info("order cancelled")
	return cancelled, nil
}
