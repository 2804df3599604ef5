package models

import (
	"fmt"

	"github.com/google/uuid"
)

type Review struct {
	ID         string    `bson:"id" json:"id"`
	ProductID  string    `bson:"product_id" json:"product_id"`
	UserID     string    `bson:"user_id" json:"user_id"`
	UserName   string    `bson:"user_name" json:"user_name"`
	Rating     int       `bson:"rating" json:"rating"`
	Comment    string    `bson:"comment" json:"comment"`
	Images     []string  `bson:"images" json:"images"`
	IsApproved bool      `bson:"is_approved" json:"is_approved"`
	CreatedAt  Timestamp `bson:"created_at" json:"created_at"`
}

type ReviewCreate struct {
	ProductID string   `json:"product_id"`
	Rating    int      `json:"rating"`
	Comment   string   `json:"comment"`
	Images    []string `json:"images"`
}

func (r *ReviewCreate) Validate() error {
	if r.ProductID == "" {
		return fmt.Errorf("product_id is required")
	}
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be within [1,5]")
	}
	return nil
}

// NewReview builds a pending review; it counts toward the product aggregate
// only after approval.
func NewReview(in ReviewCreate, userID, userName string) Review {
	return Review{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		UserID:    userID,
		UserName:  userName,
		Rating:    in.Rating,
		Comment:   in.Comment,
		Images:    in.Images,
		CreatedAt: Now(),
	}
}
