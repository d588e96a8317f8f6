package repository

import (
	"context"

	"golden-samovar/internal/domain"
)

// TxManager runs fn inside a storage transaction. The context passed to fn
// carries the transaction; repository calls made with it join the same unit
// of work and either all commit or all roll back.
type TxManager interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error

	// WithSerializableTx is like WithTx but with isolation strong enough
	// that a count-then-insert cannot race past a capacity limit. The
	// implementation may retry fn on serialization failures, so fn must be
	// safe to re-run.
	WithSerializableTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type UserFilter struct {
	Role   domain.Role // empty = any
	Search string      // substring over name/email
}

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, f UserFilter) ([]domain.User, error)
	Update(ctx context.Context, u *domain.User) error

	// AddBonusPoints atomically applies delta to the user's balance and
	// returns the new value. A delta that would drive the balance negative
	// fails with ErrInsufficientPoints and changes nothing.
	AddBonusPoints(ctx context.Context, userID int64, delta int) (int, error)
}

type MenuFilter struct {
	CategoryID int64 // 0 = any
	Available  *bool
	Search     string
}

type MenuRepository interface {
	CreateCategory(ctx context.Context, c *domain.Category) error
	UpdateCategory(ctx context.Context, c *domain.Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]domain.Category, error)

	CreateItem(ctx context.Context, it *domain.MenuItem) error
	GetItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	UpdateItem(ctx context.Context, it *domain.MenuItem) error
	DeleteItem(ctx context.Context, id int64) error
	ListItems(ctx context.Context, f MenuFilter) ([]domain.MenuItem, error)

	// ListAvailableByIDs resolves the cart's menu item ids in one batch,
	// returning only rows that exist and are marked available.
	ListAvailableByIDs(ctx context.Context, ids []int64) ([]domain.MenuItem, error)
}

type OrderFilter struct {
	UserID int64              // 0 = any
	Status domain.OrderStatus // empty = any
	Date   string             // YYYY-MM-DD, matches creation day
}

type OrderRepository interface {
	// Create inserts the order header and all items. Fails with
	// ErrOrderNumberTaken when the generated number collides.
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, f OrderFilter) ([]domain.Order, error)

	// UpdateStatus moves the order from one status to another; the guard on
	// the previous status makes concurrent transition requests lose cleanly.
	UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, isPaid bool) error
}

type BookingFilter struct {
	UserID int64
	Status domain.BookingStatus
	Date   string // YYYY-MM-DD, matches booking date
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.TableBooking) error
	GetByID(ctx context.Context, id int64) (*domain.TableBooking, error)
	List(ctx context.Context, f BookingFilter) ([]domain.TableBooking, error)
	Update(ctx context.Context, b *domain.TableBooking) error

	// CountActive counts pending/confirmed bookings for the exact slot.
	CountActive(ctx context.Context, date, timeOfDay string) (int, error)

	// ActiveCountsByTime returns slot occupancy for a whole day keyed by
	// booking time.
	ActiveCountsByTime(ctx context.Context, date string) (map[string]int, error)
}
