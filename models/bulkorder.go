package models

import (
	"fmt"

	"github.com/google/uuid"
)

type BulkOrderStatus string

const (
	BulkOrderPending   BulkOrderStatus = "pending"
	BulkOrderContacted BulkOrderStatus = "contacted"
	BulkOrderConfirmed BulkOrderStatus = "confirmed"
	BulkOrderCompleted BulkOrderStatus = "completed"
	BulkOrderRejected  BulkOrderStatus = "rejected"
)

func ValidBulkOrderStatus(s BulkOrderStatus) bool {
	switch s {
	case BulkOrderPending, BulkOrderContacted, BulkOrderConfirmed,
		BulkOrderCompleted, BulkOrderRejected:
		return true
	}
	return false
}

// BulkOrder is a large-quantity enquiry submitted from the public form;
// fulfilment happens over the phone, so it never enters the order engine.
type BulkOrder struct {
	ID          string          `bson:"id" json:"id"`
	Name        string          `bson:"name" json:"name"`
	Phone       string          `bson:"phone" json:"phone"`
	Email       string          `bson:"email,omitempty" json:"email,omitempty"`
	ProductName string          `bson:"product_name" json:"product_name"`
	Quantity    string          `bson:"quantity" json:"quantity"`
	Occasion    string          `bson:"occasion,omitempty" json:"occasion,omitempty"`
	Message     string          `bson:"message,omitempty" json:"message,omitempty"`
	Status      BulkOrderStatus `bson:"status" json:"status"`
	CreatedAt   Timestamp       `bson:"created_at" json:"created_at"`
	UpdatedAt   Timestamp       `bson:"updated_at" json:"updated_at"`
}

type BulkOrderCreate struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	ProductName string `json:"product_name"`
	Quantity    string `json:"quantity"`
	Occasion    string `json:"occasion"`
	Message     string `json:"message"`
}

func (b *BulkOrderCreate) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !ValidPhone(b.Phone) {
		return fmt.Errorf("a valid phone number is required")
	}
	if b.ProductName == "" || b.Quantity == "" {
		return fmt.Errorf("product_name and quantity are required")
	}
	return nil
}

func NewBulkOrder(in BulkOrderCreate) BulkOrder {
	now := Now()
	return BulkOrder{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		ProductName: in.ProductName,
		Quantity:    in.Quantity,
		Occasion:    in.Occasion,
		Message:     in.Message,
		Status:      BulkOrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
