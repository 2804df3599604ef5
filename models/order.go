package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentMethodCOD     PaymentMethod = "cod"
	PaymentMethodGateway PaymentMethod = "gateway"
)

type RefundStatus string

const RefundInitiated RefundStatus = "initiated"

// CancellationWindow is how long after creation a customer may self-cancel.
const CancellationWindow = time.Hour

// forward lists the only legal forward moves of the status machine.
// cancelled is reachable from any non-terminal state and handled separately.
var forward = map[OrderStatus]OrderStatus{
	OrderStatusPending:        OrderStatusConfirmed,
	OrderStatusConfirmed:      OrderStatusPreparing,
	OrderStatusPreparing:      OrderStatusOutForDelivery,
	OrderStatusOutForDelivery: OrderStatusDelivered,
}

// ValidStatus reports whether s names a known order status.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether from may move to to. Backward moves are
// never legal; cancelled and delivered are terminal.
func CanTransition(from, to OrderStatus) bool {
	if from == OrderStatusCancelled || from == OrderStatusDelivered {
		return false
	}
	if to == OrderStatusCancelled {
		return true
	}
	for cur := from; ; {
		next, ok := forward[cur]
		if !ok {
			return false
		}
		if next == to {
			return true
		}
		cur = next
	}
}

type StatusEntry struct {
	Status    OrderStatus `bson:"status" json:"status"`
	Timestamp Timestamp   `bson:"timestamp" json:"timestamp"`
	Note      string      `bson:"note" json:"note"`
}

type GatewayRefs struct {
	OrderID   string `bson:"order_id,omitempty" json:"order_id,omitempty"`
	PaymentID string `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	Signature string `bson:"signature,omitempty" json:"signature,omitempty"`
}

type Order struct {
	ID                   string        `bson:"id" json:"id"`
	UserID               string        `bson:"user_id" json:"user_id"`
	Items                []CartItem    `bson:"items" json:"items"`
	TotalAmount          float64       `bson:"total_amount" json:"total_amount"`
	DiscountAmount       float64       `bson:"discount_amount" json:"discount_amount"`
	FinalAmount          float64       `bson:"final_amount" json:"final_amount"`
	DeliveryCharge       float64       `bson:"delivery_charge" json:"delivery_charge"`
	CouponCode           string        `bson:"coupon_code,omitempty" json:"coupon_code,omitempty"`
	Status               OrderStatus   `bson:"status" json:"status"`
	PaymentStatus        PaymentStatus `bson:"payment_status" json:"payment_status"`
	PaymentMethod        PaymentMethod `bson:"payment_method" json:"payment_method"`
	DeliveryAddress      string        `bson:"delivery_address" json:"delivery_address"`
	Phone                string        `bson:"phone" json:"phone"`
	Email                string        `bson:"email" json:"email"`
	Gateway              GatewayRefs   `bson:"gateway" json:"gateway"`
	StatusHistory        []StatusEntry `bson:"status_history" json:"status_history"`
	CancellationDeadline Timestamp     `bson:"cancellation_deadline" json:"cancellation_deadline"`
	AdvanceRequired      bool          `bson:"advance_required" json:"advance_required"`
	AdvanceAmount        *float64      `bson:"advance_amount,omitempty" json:"advance_amount,omitempty"`
	AdvancePaid          bool          `bson:"advance_paid" json:"advance_paid"`
	RefundStatus         *RefundStatus `bson:"refund_status,omitempty" json:"refund_status,omitempty"`
	CreatedAt            Timestamp     `bson:"created_at" json:"created_at"`
	UpdatedAt            Timestamp     `bson:"updated_at" json:"updated_at"`
}

// AdvanceThreshold is the order total above which a part payment is asked
// for up front; AdvanceFraction is the share requested.
const (
	AdvanceThreshold = 5000.0
	AdvanceFraction  = 0.5
)

// InitialStatus returns the status a freshly placed order starts in:
// cash-on-delivery is confirmed immediately, gateway orders wait for payment.
func InitialStatus(method PaymentMethod) OrderStatus {
	if method == PaymentMethodCOD {
		return OrderStatusConfirmed
	}
	return OrderStatusPending
}

// NewOrder assembles an order from an already-priced item snapshot. Items
// are value-copied so later catalog edits cannot reach into the order.
func NewOrder(userID string, items []CartItem, total, discount, deliveryCharge float64,
	couponCode, address, phone, email string, method PaymentMethod) Order {

	snapshot := make([]CartItem, len(items))
	copy(snapshot, items)

	now := Now()
	status := InitialStatus(method)
	o := Order{
		ID:                   uuid.New().String(),
		UserID:               userID,
		Items:                snapshot,
		TotalAmount:          Round2(total),
		DiscountAmount:       Round2(discount),
		FinalAmount:          Round2(total - discount),
		DeliveryCharge:       Round2(deliveryCharge),
		CouponCode:           couponCode,
		Status:               status,
		PaymentStatus:        PaymentPending,
		PaymentMethod:        method,
		DeliveryAddress:      address,
		Phone:                phone,
		Email:                email,
		StatusHistory:        []StatusEntry{{Status: status, Timestamp: now, Note: "created"}},
		CancellationDeadline: At(now.Add(CancellationWindow)),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if o.FinalAmount >= AdvanceThreshold {
		amount := Round2(o.FinalAmount * AdvanceFraction)
		o.AdvanceRequired = true
		o.AdvanceAmount = &amount
	}
	return o
}

// CanCustomerCancel applies the self-service cancellation rule: inside the
// window and not already on the road, delivered or cancelled.
func (o *Order) CanCustomerCancel(now time.Time) bool {
	if !now.Before(o.CancellationDeadline.Time) {
		return false
	}
	switch o.Status {
	case OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return false
	}
	return true
}

// CanAdminCancel allows cancellation of anything not already terminal.
func (o *Order) CanAdminCancel() bool {
	return o.Status != OrderStatusCancelled && o.Status != OrderStatusDelivered
}

// AppendStatus records a transition in the append-only history.
func (o *Order) AppendStatus(status OrderStatus, note string) {
	now := Now()
	o.Status = status
	o.StatusHistory = append(o.StatusHistory, StatusEntry{Status: status, Timestamp: now, Note: note})
	o.UpdatedAt = now
}

// EstimatedDelivery is reported on the tracking payload for orders still in
// flight.
func (o *Order) EstimatedDelivery() *Timestamp {
	switch o.Status {
	case OrderStatusDelivered, OrderStatusCancelled:
		return nil
	}
	est := At(o.CreatedAt.Time.Add(48 * time.Hour))
	return &est
}

// IllegalTransition describes a rejected status move.
type IllegalTransition struct {
	From, To OrderStatus
}

func (e *IllegalTransition) Error() string {
	return fmt.Sprintf("cannot move order from %s to %s", e.From, e.To)
}

// Transition validates and applies an admin status change.
func (o *Order) Transition(to OrderStatus, note string) error {
	if !CanTransition(o.Status, to) {
		return &IllegalTransition{From: o.Status, To: to}
	}
	o.AppendStatus(to, note)
	return nil
}
