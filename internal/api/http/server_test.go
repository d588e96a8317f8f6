package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"golden-samovar/internal/auth"
	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/service"
	"golden-samovar/internal/xpkg/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server *Server
	store  *repository.MemoryStore
	tokens *auth.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := repository.NewMemoryStore()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	nop := logger.Nop()

	authService := service.NewAuthService(store, tokens, nop)
	orderService := service.NewOrderService(store, store, repository.NewMemoryOrders(store), store, nop)
	bookingService := service.NewBookingService(repository.NewMemoryBookings(store), store, nop)
	menuService := service.NewMenuService(store)
	userService := service.NewUserService(store, store, nop)

	server := NewServer(authService, orderService, bookingService, menuService, userService, nop)
	return &testEnv{server: server, store: store, tokens: tokens}
}

// seedUser inserts a user directly and returns a token for it.
func (e *testEnv) seedUser(t *testing.T, email string, role domain.Role, points int) (*domain.User, string) {
	t.Helper()
	user := &domain.User{
		Email:       email,
		FirstName:   "Test",
		Role:        role,
		IsActive:    true,
		BonusPoints: points,
	}
	require.NoError(t, e.store.Create(context.Background(), user))
	token, err := e.tokens.Issue(user)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) seedMenu(t *testing.T) *domain.MenuItem {
	t.Helper()
	ctx := context.Background()
	cat := &domain.Category{Name: "Mains"}
	require.NoError(t, e.store.CreateCategory(ctx, cat))
	item := &domain.MenuItem{Name: "Borscht", Price: 20000, CategoryID: cat.ID, IsAvailable: true}
	require.NoError(t, e.store.CreateItem(ctx, item))
	return item
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.server.Engine().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	e := newTestEnv(t)
	rec := e.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":      "guest@example.com",
		"password":   "hunter22",
		"first_name": "Dana",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var registered struct {
		Token string      `json:"token"`
		User  domain.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, domain.RoleClient, registered.User.Role)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "guest@example.com",
		"password": "hunter22",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "guest@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/auth/profile", registered.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderEndpoints(t *testing.T) {
	e := newTestEnv(t)
	item := e.seedMenu(t)
	_, clientToken := e.seedUser(t, "client@example.com", domain.RoleClient, 100)
	_, staffToken := e.seedUser(t, "staff@example.com", domain.RoleStaff, 0)

	rec := e.do(t, http.MethodPost, "/api/orders", clientToken, gin.H{
		"items":             []gin.H{{"menu_item_id": item.ID, "quantity": 1}},
		"delivery_type":     "pickup",
		"payment_method":    "cash",
		"bonus_points_used": 50,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var order domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	assert.Equal(t, domain.Money(19500), order.TotalAmount)

	// clients cannot advance the lifecycle
	statusBody := gin.H{"status": "confirmed"}
	rec = e.do(t, http.MethodPatch, orderPath(order.ID)+"/status", clientToken, statusBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPatch, orderPath(order.ID)+"/status", staffToken, statusBody)
	assert.Equal(t, http.StatusOK, rec.Code)

	// skipping ahead is a bad request
	rec = e.do(t, http.MethodPatch, orderPath(order.ID)+"/status", staffToken, gin.H{"status": "delivered"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/orders/my", clientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mine []domain.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &mine))
	assert.Len(t, mine, 1)

	// the staff listing is gated
	rec = e.do(t, http.MethodGet, "/api/orders", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = e.do(t, http.MethodGet, "/api/orders", staffToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPost, orderPath(order.ID)+"/cancel", clientToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodGet, orderPath(9999), clientToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func orderPath(id int64) string {
	return "/api/orders/" + strconv.FormatInt(id, 10)
}

func TestBookingEndpoints(t *testing.T) {
	e := newTestEnv(t)
	_, clientToken := e.seedUser(t, "client@example.com", domain.RoleClient, 0)
	_, staffToken := e.seedUser(t, "staff@example.com", domain.RoleStaff, 0)

	date := time.Now().AddDate(0, 0, 7).Format("2006-01-02")
	rec := e.do(t, http.MethodPost, "/api/bookings", clientToken, gin.H{
		"booking_date":     date,
		"booking_time":     "18:00",
		"number_of_guests": 4,
		"contact_phone":    "+77010000000",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var booking domain.TableBooking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, domain.BookingStatusPending, booking.Status)

	rec = e.do(t, http.MethodGet, "/api/bookings/available-times?date="+date, clientToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var times []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &times))
	assert.NotEmpty(t, times)

	rec = e.do(t, http.MethodGet, "/api/bookings/available-times", clientToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = e.do(t, http.MethodPatch, "/api/bookings/"+strconv.FormatInt(booking.ID, 10)+"/status", staffToken, gin.H{
		"status":       "confirmed",
		"table_number": "T-5",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, "T-5", booking.TableNumber)

	rec = e.do(t, http.MethodGet, "/api/bookings", clientToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestMenuEndpoints(t *testing.T) {
	e := newTestEnv(t)
	item := e.seedMenu(t)
	_, clientToken := e.seedUser(t, "client@example.com", domain.RoleClient, 0)
	_, staffToken := e.seedUser(t, "staff@example.com", domain.RoleStaff, 0)

	// the catalog is public
	rec := e.do(t, http.MethodGet, "/api/menu", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []domain.MenuItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)

	rec = e.do(t, http.MethodGet, "/api/categories", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	newItem := gin.H{"name": "Pelmeni", "price": 12000, "category_id": item.CategoryID, "is_available": true}

	rec = e.do(t, http.MethodPost, "/api/menu", "", newItem)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/menu", clientToken, newItem)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodPost, "/api/menu", staffToken, newItem)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = e.do(t, http.MethodPost, "/api/menu", staffToken, gin.H{"name": "", "price": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUserAdminEndpoints(t *testing.T) {
	e := newTestEnv(t)
	client, _ := e.seedUser(t, "client@example.com", domain.RoleClient, 0)
	_, staffToken := e.seedUser(t, "staff@example.com", domain.RoleStaff, 0)
	_, adminToken := e.seedUser(t, "admin@example.com", domain.RoleAdmin, 0)

	rec := e.do(t, http.MethodGet, "/api/users", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = e.do(t, http.MethodGet, "/api/users", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	path := "/api/users/" + strconv.FormatInt(client.ID, 10)
	rec = e.do(t, http.MethodPost, path+"/bonus-points", adminToken, gin.H{"points": 100})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 100, resp["bonus_points"])

	rec = e.do(t, http.MethodPatch, path+"/role", adminToken, gin.H{"role": "staff"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = e.do(t, http.MethodPatch, path+"/status", adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
