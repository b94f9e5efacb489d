package models

import (
	"time"
)

// Payment status values. Terminal once verified or denied; a denied order
// needs manual out-of-band resolution.
const (
	PaymentPending  = "pending"
	PaymentVerified = "verified"
	PaymentDenied   = "denied"
)

// Order status values. Targets are not validated against the current value;
// the management surface constrains the usual choices.
const (
	StatusProcessing     = "processing"
	StatusPrepared       = "prepared"
	StatusOutForDelivery = "out-for-delivery"
	StatusDelivered      = "delivered"
	StatusCancelled      = "cancelled"
)

const (
	CartActive     = "active"
	CartCheckedOut = "checked_out"
)

// OrderNumberPrefix is the brand prefix of the human-readable order number.
const OrderNumberPrefix = "SOCHOW"

type User struct {
	ID        int64     `json:"id"`
	ChatID    string    `json:"chat_id"`
	Name      string    `json:"name"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type MenuItem struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	PriceNaira  int64     `json:"price_naira"`
	Available   bool      `json:"available"`
	ImageRef    *string   `json:"image_ref,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CartLine is a cart item joined with its menu item name. UnitPrice is
// frozen at the value the item had when it was first added.
type CartLine struct {
	ID         int64  `json:"id"`
	CartID     int64  `json:"cart_id"`
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
}

func (l CartLine) LineTotal() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

type Order struct {
	ID              int64     `json:"id"`
	Number          string    `json:"number"`
	UserID          int64     `json:"user_id"`
	CartID          int64     `json:"cart_id"`
	TotalNaira      int64     `json:"total_naira"`
	DeliveryAddress string    `json:"delivery_address"`
	ContactNumber   string    `json:"contact_number"`
	PaymentStatus   string    `json:"payment_status"`
	OrderStatus     string    `json:"order_status"`
	RiderContact    *string   `json:"rider_contact,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type OrderItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type Receipt struct {
	ID            int64     `json:"id"`
	OrderID       int64     `json:"order_id"`
	UserID        int64     `json:"user_id"`
	ImageRef      string    `json:"image_ref"`
	AdminVerified bool      `json:"admin_verified"`
	AdminNotes    *string   `json:"admin_notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// AdminAction is an append-only audit record of a staff action on an order.
type AdminAction struct {
	ID        int64     `json:"id"`
	AdminID   string    `json:"admin_id"`
	OrderID   int64     `json:"order_id"`
	Action    string    `json:"action"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Audit action kinds.
const (
	ActionVerifyPayment = "verify_payment"
	ActionDenyPayment   = "deny_payment"
	ActionStatusChange  = "status_change"
	ActionCancel        = "cancel"
)

// Notification is the message published to the notifications fanout
// exchange. The subscriber routes it to the customer chat or the staff
// channel based on Audience.
type Notification struct {
	Audience    string    `json:"audience"` // "customer" | "staff"
	ChatID      string    `json:"chat_id,omitempty"`
	OrderNumber string    `json:"order_number,omitempty"`
	Text        string    `json:"text"`
	ImageRef    string    `json:"image_ref,omitempty"`
	SentAt      time.Time `json:"sent_at"`
}

const (
	AudienceCustomer = "customer"
	AudienceStaff    = "staff"
)
