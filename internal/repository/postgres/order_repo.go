package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
)

type OrderRepo struct {
	store *Store
}

func NewOrderRepo(store *Store) *OrderRepo {
	return &OrderRepo{store: store}
}

var _ repository.OrderRepository = (*OrderRepo)(nil)

const orderColumns = `id, order_number, user_id, status, total_amount, delivery_type,
	COALESCE(delivery_address, ''), delivery_time, payment_method, is_paid,
	COALESCE(notes, ''), bonus_points_used, created_at`

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	q := r.store.q(ctx)

	err := q.QueryRow(ctx, `
		INSERT INTO orders (
			order_number, user_id, status, total_amount, delivery_type,
			delivery_address, delivery_time, payment_method, is_paid, notes, bonus_points_used
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at
	`,
		o.OrderNumber, o.UserID, o.Status, o.TotalAmount, o.DeliveryType,
		nullIfEmpty(o.DeliveryAddress), o.DeliveryTime, o.PaymentMethod, o.IsPaid,
		nullIfEmpty(o.Notes), o.BonusPointsUsed,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "orders_order_number_key") {
			return apperrors.ErrOrderNumberTaken
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for i := range o.Items {
		item := &o.Items[i]
		item.OrderID = o.ID
		err := q.QueryRow(ctx, `
			INSERT INTO order_items (order_id, menu_item_id, name, quantity, unit_price, line_total, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id
		`, item.OrderID, item.MenuItemID, item.Name, item.Quantity, item.UnitPrice, item.LineTotal, nullIfEmpty(item.Notes),
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	var o domain.Order
	err := r.store.q(ctx).QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id,
	).Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.TotalAmount, &o.DeliveryType,
		&o.DeliveryAddress, &o.DeliveryTime, &o.PaymentMethod, &o.IsPaid, &o.Notes,
		&o.BonusPointsUsed, &o.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.loadItems(ctx, []int64{o.ID})
	if err != nil {
		return nil, err
	}
	o.Items = items[o.ID]
	return &o, nil
}

func (r *OrderRepo) List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []any{}

	if f.UserID != 0 {
		args = append(args, f.UserID)
		query += fmt.Sprintf(` AND user_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		query += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.Date != "" {
		args = append(args, f.Date)
		query += fmt.Sprintf(` AND created_at::date = $%d::date`, len(args))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.store.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	var ids []int64
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.UserID, &o.Status, &o.TotalAmount, &o.DeliveryType,
			&o.DeliveryAddress, &o.DeliveryTime, &o.PaymentMethod, &o.IsPaid, &o.Notes,
			&o.BonusPointsUsed, &o.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
		ids = append(ids, o.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	items, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range orders {
		orders[i].Items = items[orders[i].ID]
	}
	return orders, nil
}

func (r *OrderRepo) loadItems(ctx context.Context, orderIDs []int64) (map[int64][]domain.OrderItem, error) {
	rows, err := r.store.q(ctx).Query(ctx, `
		SELECT id, order_id, menu_item_id, name, quantity, unit_price, line_total, COALESCE(notes, '')
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY id
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := make(map[int64][]domain.OrderItem)
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.MenuItemID, &it.Name, &it.Quantity, &it.UnitPrice, &it.LineTotal, &it.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items[it.OrderID] = append(items[it.OrderID], it)
	}
	return items, rows.Err()
}

// UpdateStatus guards on the previous status so a concurrent transition
// request observes a clean conflict instead of overwriting.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, isPaid bool) error {
	tag, err := r.store.q(ctx).Exec(ctx, `
		UPDATE orders SET status = $1, is_paid = is_paid OR $2 WHERE id = $3 AND status = $4
	`, to, isPaid, id, from)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		cur, getErr := r.GetByID(ctx, id)
		if getErr != nil {
			return getErr
		}
		return apperrors.InvalidStatusTransition(string(cur.Status), string(to))
	}
	return nil
}

// nullIfEmpty maps "" to NULL for optional text columns.
func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
