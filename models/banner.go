package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Banner struct {
	ID           string     `bson:"id" json:"id"`
	Title        string     `bson:"title" json:"title"`
	Subtitle     string     `bson:"subtitle,omitempty" json:"subtitle,omitempty"`
	ImageURL     string     `bson:"image_url" json:"image_url"`
	CTAText      string     `bson:"cta_text,omitempty" json:"cta_text,omitempty"`
	CTALink      string     `bson:"cta_link,omitempty" json:"cta_link,omitempty"`
	DisplayOrder int        `bson:"display_order" json:"display_order"`
	IsActive     bool       `bson:"is_active" json:"is_active"`
	StartDate    *Timestamp `bson:"start_date,omitempty" json:"start_date,omitempty"`
	EndDate      *Timestamp `bson:"end_date,omitempty" json:"end_date,omitempty"`
	CreatedAt    Timestamp  `bson:"created_at" json:"created_at"`
	UpdatedAt    Timestamp  `bson:"updated_at" json:"updated_at"`
}

type BannerCreate struct {
	Title        string     `json:"title"`
	Subtitle     string     `json:"subtitle"`
	ImageURL     string     `json:"image_url"`
	CTAText      string     `json:"cta_text"`
	CTALink      string     `json:"cta_link"`
	DisplayOrder int        `json:"display_order"`
	IsActive     bool       `json:"is_active"`
	StartDate    *Timestamp `json:"start_date,omitempty"`
	EndDate      *Timestamp `json:"end_date,omitempty"`
}

func (b *BannerCreate) Validate() error {
	if b.Title == "" {
		return fmt.Errorf("title is required")
	}
	if b.ImageURL == "" {
		return fmt.Errorf("image_url is required")
	}
	return nil
}

func NewBanner(in BannerCreate) Banner {
	now := Now()
	return Banner{
		ID:           uuid.New().String(),
		Title:        in.Title,
		Subtitle:     in.Subtitle,
		ImageURL:     in.ImageURL,
		CTAText:      in.CTAText,
		CTALink:      in.CTALink,
		DisplayOrder: in.DisplayOrder,
		IsActive:     in.IsActive,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Live reports whether the banner should be shown at the given instant.
func (b *Banner) Live(now time.Time) bool {
	if !b.IsActive {
		return false
	}
	if b.StartDate != nil && now.Before(b.StartDate.Time) {
		return false
	}
	if b.EndDate != nil && now.After(b.EndDate.Time) {
		return false
	}
	return true
}
