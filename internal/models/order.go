package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the buyer-facing lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// PaymentStatus tracks the buyer's payment for an order.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// DeliveryAddress is the structured shipping destination captured at
// checkout. Stored as jsonb on the order row.
type DeliveryAddress struct {
	Name       string `json:"name"`
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country"`
}

// Order is the buyer-facing record of a checkout. Monetary fields are
// immutable once created; only status-transition operations touch the row.
//
// Invariants: TotalAmount = sum of line totals + DeliveryFee, and
// CommissionAmount = sum of line commission amounts, exactly.
type Order struct {
	ID               string          `json:"id"`
	OrderNumber      string          `json:"order_number"`
	BuyerID          string          `json:"buyer_id"`
	TotalAmount      int64           `json:"total_amount"`
	CommissionAmount int64           `json:"commission_amount"`
	CommissionRate   decimal.Decimal `json:"commission_rate"`
	DeliveryFee      int64           `json:"delivery_fee"`
	Status           OrderStatus     `json:"status"`
	PaymentStatus    PaymentStatus   `json:"payment_status"`
	DeliveryAddress  DeliveryAddress `json:"delivery_address"`
	PhoneNumber      string          `json:"phone_number"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	ShippedAt        *time.Time      `json:"shipped_at,omitempty"`
	DeliveredAt      *time.Time      `json:"delivered_at,omitempty"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`

	Items    []OrderItem             `json:"items,omitempty"`
	Tracking []DeliveryTrackingEvent `json:"tracking,omitempty"`
}

// CanCancel reports whether the order may still be cancelled by the buyer.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// OrderItem is one seller's portion of an order, with a point-in-time
// snapshot of the listing for display durability.
//
// Invariant: SellerAmount + CommissionAmount = TotalPrice, exactly.
type OrderItem struct {
	ID               string    `json:"id"`
	OrderID          string    `json:"order_id"`
	ListingID        string    `json:"listing_id,omitempty"`
	SellerID         string    `json:"seller_id"`
	Quantity         int       `json:"quantity"`
	UnitPrice        int64     `json:"unit_price"`
	TotalPrice       int64     `json:"total_price"`
	CommissionAmount int64     `json:"commission_amount"`
	SellerAmount     int64     `json:"seller_amount"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	ImageURL         string    `json:"image_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// SellerPaymentStatus tracks a payable owed to a seller.
type SellerPaymentStatus string

const (
	SellerPaymentStatusPending    SellerPaymentStatus = "pending"
	SellerPaymentStatusProcessing SellerPaymentStatus = "processing"
	SellerPaymentStatusPaid       SellerPaymentStatus = "paid"
)

// SellerPayment is created 1:1 with each order item at checkout, in
// pending status, and never independently of an order item.
type SellerPayment struct {
	ID             string              `json:"id"`
	SellerID       string              `json:"seller_id"`
	OrderID        string              `json:"order_id"`
	OrderItemID    string              `json:"order_item_id"`
	Amount         int64               `json:"amount"`
	Status         SellerPaymentStatus `json:"status"`
	PaymentDetails json.RawMessage     `json:"payment_details,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
	ProcessedAt    *time.Time          `json:"processed_at,omitempty"`
}

// DeliveryTrackingEvent is one entry in an order's append-only status
// history. The first event is written at order creation with status
// pending.
type DeliveryTrackingEvent struct {
	ID        string    `json:"id"`
	OrderID   string    `json:"order_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Location  string    `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckoutRequest carries the delivery and contact details for creating
// an order from the cart. Totals are never taken from the client.
type CheckoutRequest struct {
	DeliveryAddress DeliveryAddress `json:"delivery_address" binding:"required"`
	PhoneNumber     string          `json:"phone_number" binding:"required"`
	Notes           string          `json:"notes"`
}

// UpdateOrderStatusRequest transitions an order's status. Message, when
// set, becomes the tracking entry text for the transition.
type UpdateOrderStatusRequest struct {
	Status  OrderStatus `json:"status" binding:"required"`
	Message string      `json:"message"`
}

// AddTrackingRequest appends a delivery tracking event to an order.
type AddTrackingRequest struct {
	Status   string `json:"status" binding:"required"`
	Message  string `json:"message" binding:"required"`
	Location string `json:"location"`
}
