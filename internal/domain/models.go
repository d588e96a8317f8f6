package domain

import "time"

type Role string

const (
	RoleClient Role = "client"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role may act on other users' orders and bookings.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	BonusPoints  int       `json:"bonus_points"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	SortOrder   int    `json:"sort_order"`
}

type MenuItem struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Price       Money  `json:"price"`
	CategoryID  int64  `json:"category_id"`
	IsAvailable bool   `json:"is_available"`
}

type DeliveryType string

const (
	DeliveryTypeDelivery DeliveryType = "delivery"
	DeliveryTypePickup   DeliveryType = "pickup"
)

func (t DeliveryType) Valid() bool {
	return t == DeliveryTypeDelivery || t == DeliveryTypePickup
}

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodOnline PaymentMethod = "online"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodOnline:
		return true
	}
	return false
}

type Order struct {
	ID              int64         `json:"id"`
	OrderNumber     string        `json:"order_number"`
	UserID          int64         `json:"user_id"`
	Status          OrderStatus   `json:"status"`
	TotalAmount     Money         `json:"total_amount"`
	DeliveryType    DeliveryType  `json:"delivery_type"`
	DeliveryAddress string        `json:"delivery_address,omitempty"`
	DeliveryTime    *time.Time    `json:"delivery_time,omitempty"`
	PaymentMethod   PaymentMethod `json:"payment_method"`
	IsPaid          bool          `json:"is_paid"`
	Notes           string        `json:"notes,omitempty"`
	BonusPointsUsed int           `json:"bonus_points_used"`
	CreatedAt       time.Time     `json:"created_at"`
	Items           []OrderItem   `json:"items,omitempty"`
}

// OrderItem snapshots the menu price at order time; it is never updated
// after the order is created.
type OrderItem struct {
	ID         int64  `json:"id"`
	OrderID    int64  `json:"order_id"`
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  Money  `json:"unit_price"`
	LineTotal  Money  `json:"line_total"`
	Notes      string `json:"notes,omitempty"`
}

type TableBooking struct {
	ID              int64         `json:"id"`
	UserID          int64         `json:"user_id"`
	BookingDate     string        `json:"booking_date"`
	BookingTime     string        `json:"booking_time"`
	NumberOfGuests  int           `json:"number_of_guests"`
	TableNumber     string        `json:"table_number,omitempty"`
	Status          BookingStatus `json:"status"`
	SpecialRequests string        `json:"special_requests,omitempty"`
	ContactPhone    string        `json:"contact_phone"`
	Hall            string        `json:"hall"`
	CreatedAt       time.Time     `json:"created_at"`
}
