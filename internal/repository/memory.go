package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/xpkg/apperrors"
)

// MemoryStore is an in-memory implementation of every repository plus the
// TxManager. Transactions are emulated with the global write lock, which also
// makes them trivially serializable. It backs the service and handler tests.
type MemoryStore struct {
	mu sync.RWMutex

	nextUserID    int64
	nextCatID     int64
	nextItemID    int64
	nextOrderID   int64
	nextLineID    int64
	nextBookingID int64

	users      map[int64]domain.User
	categories map[int64]domain.Category
	menuItems  map[int64]domain.MenuItem
	orders     map[int64]domain.Order
	bookings   map[int64]domain.TableBooking
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextUserID:    1,
		nextCatID:     1,
		nextItemID:    1,
		nextOrderID:   1,
		nextLineID:    1,
		nextBookingID: 1,
		users:         make(map[int64]domain.User),
		categories:    make(map[int64]domain.Category),
		menuItems:     make(map[int64]domain.MenuItem),
		orders:        make(map[int64]domain.Order),
		bookings:      make(map[int64]domain.TableBooking),
	}
}

// Orders and bookings are exposed through wrapper types because their
// interface method names collide with the user repository's.
var (
	_ UserRepository    = (*MemoryStore)(nil)
	_ MenuRepository    = (*MemoryStore)(nil)
	_ OrderRepository   = (*MemoryOrders)(nil)
	_ BookingRepository = (*MemoryBookings)(nil)
	_ TxManager         = (*MemoryStore)(nil)
)

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, _ := ctx.Value(txKey{}).(bool)
	return v
}

// Locking helpers skip the mutex when the context is already inside a
// transaction, which holds the write lock for its whole duration.
func (m *MemoryStore) rlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.RLock()
	}
}

func (m *MemoryStore) runlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.RUnlock()
	}
}

func (m *MemoryStore) wlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.Lock()
	}
}

func (m *MemoryStore) wunlock(ctx context.Context) {
	if !inTx(ctx) {
		m.mu.Unlock()
	}
}

// WithTx holds the write lock for the duration of fn and restores the
// pre-transaction snapshot when fn fails, so partial writes never leak.
func (m *MemoryStore) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.snapshot()
	ctx = context.WithValue(ctx, txKey{}, true)
	if err := fn(ctx); err != nil {
		m.restore(snapshot)
		return err
	}
	return nil
}

func (m *MemoryStore) WithSerializableTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.WithTx(ctx, fn)
}

type memSnapshot struct {
	users    map[int64]domain.User
	orders   map[int64]domain.Order
	bookings map[int64]domain.TableBooking
}

// snapshot copies the mutable-by-transaction tables so a failed fn can be
// undone; catalog tables are not written inside transactions.
func (m *MemoryStore) snapshot() memSnapshot {
	s := memSnapshot{
		users:    make(map[int64]domain.User, len(m.users)),
		orders:   make(map[int64]domain.Order, len(m.orders)),
		bookings: make(map[int64]domain.TableBooking, len(m.bookings)),
	}
	for id, u := range m.users {
		s.users[id] = u
	}
	for id, o := range m.orders {
		s.orders[id] = cloneOrder(o)
	}
	for id, b := range m.bookings {
		s.bookings[id] = b
	}
	return s
}

func (m *MemoryStore) restore(s memSnapshot) {
	m.users = s.users
	m.orders = s.orders
	m.bookings = s.bookings
}

func cloneOrder(o domain.Order) domain.Order {
	cp := o
	cp.Items = make([]domain.OrderItem, len(o.Items))
	copy(cp.Items, o.Items)
	return cp
}

// --- UserRepository ---

func (m *MemoryStore) Create(ctx context.Context, u *domain.User) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return apperrors.ErrEmailTaken
		}
	}
	u.ID = m.nextUserID
	m.nextUserID++
	u.CreatedAt = time.Now().UTC()
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	u, ok := m.users[id]
	if !ok {
		return nil, apperrors.NotFound("user not found")
	}
	cp := u
	return &cp, nil
}

func (m *MemoryStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := u
			return &cp, nil
		}
	}
	return nil, apperrors.NotFound("user not found")
}

func (m *MemoryStore) List(ctx context.Context, f UserFilter) ([]domain.User, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	out := make([]domain.User, 0)
	for _, u := range m.users {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Search != "" && !matchesUser(u, f.Search) {
			continue
		}
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func matchesUser(u domain.User, search string) bool {
	s := strings.ToLower(search)
	return strings.Contains(strings.ToLower(u.FirstName), s) ||
		strings.Contains(strings.ToLower(u.LastName), s) ||
		strings.Contains(strings.ToLower(u.Email), s)
}

func (m *MemoryStore) Update(ctx context.Context, u *domain.User) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	if _, ok := m.users[u.ID]; !ok {
		return apperrors.NotFound("user not found")
	}
	m.users[u.ID] = *u
	return nil
}

func (m *MemoryStore) AddBonusPoints(ctx context.Context, userID int64, delta int) (int, error) {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	u, ok := m.users[userID]
	if !ok {
		return 0, apperrors.NotFound("user not found")
	}
	if u.BonusPoints+delta < 0 {
		return 0, apperrors.ErrInsufficientPoints
	}
	u.BonusPoints += delta
	m.users[userID] = u
	return u.BonusPoints, nil
}

// --- MenuRepository ---

func (m *MemoryStore) CreateCategory(ctx context.Context, c *domain.Category) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	c.ID = m.nextCatID
	m.nextCatID++
	m.categories[c.ID] = *c
	return nil
}

func (m *MemoryStore) UpdateCategory(ctx context.Context, c *domain.Category) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	if _, ok := m.categories[c.ID]; !ok {
		return apperrors.NotFound("category not found")
	}
	m.categories[c.ID] = *c
	return nil
}

func (m *MemoryStore) DeleteCategory(ctx context.Context, id int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	if _, ok := m.categories[id]; !ok {
		return apperrors.NotFound("category not found")
	}
	delete(m.categories, id)
	return nil
}

func (m *MemoryStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	out := make([]domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) CreateItem(ctx context.Context, it *domain.MenuItem) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	it.ID = m.nextItemID
	m.nextItemID++
	m.menuItems[it.ID] = *it
	return nil
}

func (m *MemoryStore) GetItem(ctx context.Context, id int64) (*domain.MenuItem, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	it, ok := m.menuItems[id]
	if !ok {
		return nil, apperrors.NotFound("menu item not found")
	}
	cp := it
	return &cp, nil
}

func (m *MemoryStore) UpdateItem(ctx context.Context, it *domain.MenuItem) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	if _, ok := m.menuItems[it.ID]; !ok {
		return apperrors.NotFound("menu item not found")
	}
	m.menuItems[it.ID] = *it
	return nil
}

func (m *MemoryStore) DeleteItem(ctx context.Context, id int64) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	if _, ok := m.menuItems[id]; !ok {
		return apperrors.NotFound("menu item not found")
	}
	delete(m.menuItems, id)
	return nil
}

func (m *MemoryStore) ListItems(ctx context.Context, f MenuFilter) ([]domain.MenuItem, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	out := make([]domain.MenuItem, 0)
	for _, it := range m.menuItems {
		if f.CategoryID != 0 && it.CategoryID != f.CategoryID {
			continue
		}
		if f.Available != nil && it.IsAvailable != *f.Available {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(it.Name+" "+it.Description), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *MemoryStore) ListAvailableByIDs(ctx context.Context, ids []int64) ([]domain.MenuItem, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	seen := make(map[int64]bool, len(ids))
	out := make([]domain.MenuItem, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if it, ok := m.menuItems[id]; ok && it.IsAvailable {
			out = append(out, it)
		}
	}
	return out, nil
}

// --- OrderRepository ---

func (m *MemoryStore) CreateOrder(ctx context.Context, o *domain.Order) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	for _, existing := range m.orders {
		if existing.OrderNumber == o.OrderNumber {
			return apperrors.ErrOrderNumberTaken
		}
	}
	o.ID = m.nextOrderID
	m.nextOrderID++
	o.CreatedAt = time.Now().UTC()
	for i := range o.Items {
		o.Items[i].ID = m.nextLineID
		m.nextLineID++
		o.Items[i].OrderID = o.ID
	}
	m.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (m *MemoryStore) GetOrderByID(ctx context.Context, id int64) (*domain.Order, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	o, ok := m.orders[id]
	if !ok {
		return nil, apperrors.NotFound("order not found")
	}
	cp := cloneOrder(o)
	return &cp, nil
}

func (m *MemoryStore) ListOrders(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	out := make([]domain.Order, 0)
	for _, o := range m.orders {
		if f.UserID != 0 && o.UserID != f.UserID {
			continue
		}
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.Date != "" && o.CreatedAt.Format("2006-01-02") != f.Date {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *MemoryStore) UpdateOrderStatus(ctx context.Context, id int64, from, to domain.OrderStatus, isPaid bool) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	o, ok := m.orders[id]
	if !ok {
		return apperrors.NotFound("order not found")
	}
	if o.Status != from {
		return apperrors.InvalidStatusTransition(string(o.Status), string(to))
	}
	o.Status = to
	o.IsPaid = o.IsPaid || isPaid
	m.orders[id] = o
	return nil
}

// --- BookingRepository ---

func (m *MemoryStore) CreateBooking(ctx context.Context, b *domain.TableBooking) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	b.ID = m.nextBookingID
	m.nextBookingID++
	b.CreatedAt = time.Now().UTC()
	m.bookings[b.ID] = *b
	return nil
}

func (m *MemoryStore) GetBookingByID(ctx context.Context, id int64) (*domain.TableBooking, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	b, ok := m.bookings[id]
	if !ok {
		return nil, apperrors.NotFound("booking not found")
	}
	cp := b
	return &cp, nil
}

func (m *MemoryStore) ListBookings(ctx context.Context, f BookingFilter) ([]domain.TableBooking, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	out := make([]domain.TableBooking, 0)
	for _, b := range m.bookings {
		if f.UserID != 0 && b.UserID != f.UserID {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		if f.Date != "" && b.BookingDate != f.Date {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookingDate != out[j].BookingDate {
			return out[i].BookingDate < out[j].BookingDate
		}
		if out[i].BookingTime != out[j].BookingTime {
			return out[i].BookingTime < out[j].BookingTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemoryStore) UpdateBooking(ctx context.Context, b *domain.TableBooking) error {
	m.wlock(ctx)
	defer m.wunlock(ctx)

	if _, ok := m.bookings[b.ID]; !ok {
		return apperrors.NotFound("booking not found")
	}
	m.bookings[b.ID] = *b
	return nil
}

func (m *MemoryStore) CountActive(ctx context.Context, date, timeOfDay string) (int, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	count := 0
	for _, b := range m.bookings {
		if b.BookingDate == date && b.BookingTime == timeOfDay && b.Status.CountsTowardsCapacity() {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) ActiveCountsByTime(ctx context.Context, date string) (map[string]int, error) {
	m.rlock(ctx)
	defer m.runlock(ctx)

	counts := make(map[string]int)
	for _, b := range m.bookings {
		if b.BookingDate == date && b.Status.CountsTowardsCapacity() {
			counts[b.BookingTime]++
		}
	}
	return counts, nil
}

// MemoryOrders adapts MemoryStore to the OrderRepository interface.
type MemoryOrders struct{ store *MemoryStore }

func NewMemoryOrders(store *MemoryStore) *MemoryOrders { return &MemoryOrders{store: store} }

func (mo *MemoryOrders) Create(ctx context.Context, o *domain.Order) error {
	return mo.store.CreateOrder(ctx, o)
}

func (mo *MemoryOrders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return mo.store.GetOrderByID(ctx, id)
}

func (mo *MemoryOrders) List(ctx context.Context, f OrderFilter) ([]domain.Order, error) {
	return mo.store.ListOrders(ctx, f)
}

func (mo *MemoryOrders) UpdateStatus(ctx context.Context, id int64, from, to domain.OrderStatus, isPaid bool) error {
	return mo.store.UpdateOrderStatus(ctx, id, from, to, isPaid)
}

// MemoryBookings adapts MemoryStore to the BookingRepository interface.
type MemoryBookings struct{ store *MemoryStore }

func NewMemoryBookings(store *MemoryStore) *MemoryBookings { return &MemoryBookings{store: store} }

func (mb *MemoryBookings) Create(ctx context.Context, b *domain.TableBooking) error {
	return mb.store.CreateBooking(ctx, b)
}

func (mb *MemoryBookings) GetByID(ctx context.Context, id int64) (*domain.TableBooking, error) {
	return mb.store.GetBookingByID(ctx, id)
}

func (mb *MemoryBookings) List(ctx context.Context, f BookingFilter) ([]domain.TableBooking, error) {
	return mb.store.ListBookings(ctx, f)
}

func (mb *MemoryBookings) Update(ctx context.Context, b *domain.TableBooking) error {
	return mb.store.UpdateBooking(ctx, b)
}

func (mb *MemoryBookings) CountActive(ctx context.Context, date, timeOfDay string) (int, error) {
	return mb.store.CountActive(ctx, date, timeOfDay)
}

func (mb *MemoryBookings) ActiveCountsByTime(ctx context.Context, date string) (map[string]int, error) {
	return mb.store.ActiveCountsByTime(ctx, date)
}
