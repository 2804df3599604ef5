package models

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

type ProductCategory string

const (
	CategoryMithai         ProductCategory = "mithai"
	CategoryNamkeen        ProductCategory = "namkeen"
	CategoryFarsan         ProductCategory = "farsan"
	CategoryBengaliSweets  ProductCategory = "bengali_sweets"
	CategoryDryFruitSweets ProductCategory = "dry_fruit_sweets"
	CategoryLaddu          ProductCategory = "laddu"
	CategoryFestival       ProductCategory = "festival_special"
)

// Valid reports whether c is one of the fixed categories.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryMithai, CategoryNamkeen, CategoryFarsan, CategoryBengaliSweets,
		CategoryDryFruitSweets, CategoryLaddu, CategoryFestival:
		return true
	}
	return false
}

// DefaultRating is assigned on creation and whenever a product has no
// approved reviews left.
const DefaultRating = 4.5

// Variant is a purchasable size of a product with its own price.
type Variant struct {
	Weight        string   `bson:"weight" json:"weight"`
	Price         float64  `bson:"price" json:"price"`
	OriginalPrice *float64 `bson:"original_price,omitempty" json:"original_price,omitempty"`
	IsAvailable   bool     `bson:"is_available" json:"is_available"`
}

type Product struct {
	ID                 string          `bson:"id" json:"id"`
	Name               string          `bson:"name" json:"name"`
	Description        string          `bson:"description" json:"description"`
	Category           ProductCategory `bson:"category" json:"category"`
	ImageURL           string          `bson:"image_url" json:"image_url"`
	MediaGallery       []string        `bson:"media_gallery" json:"media_gallery"`
	Ingredients        []string        `bson:"ingredients" json:"ingredients"`
	Variants           []Variant       `bson:"variants" json:"variants"`
	IsAvailable        bool            `bson:"is_available" json:"is_available"`
	IsSoldOut          bool            `bson:"is_sold_out" json:"is_sold_out"`
	IsFeatured         bool            `bson:"is_featured" json:"is_featured"`
	DiscountPercentage *int            `bson:"discount_percentage,omitempty" json:"discount_percentage,omitempty"`
	Rating             float64         `bson:"rating" json:"rating"`
	ReviewCount        int             `bson:"review_count" json:"review_count"`
	CreatedAt          Timestamp       `bson:"created_at" json:"created_at"`
	UpdatedAt          Timestamp       `bson:"updated_at" json:"updated_at"`
}

// ProductCreate is the admin payload for creating or replacing a product.
type ProductCreate struct {
	Name               string          `json:"name"`
	Description        string          `json:"description"`
	Category           ProductCategory `json:"category"`
	ImageURL           string          `json:"image_url"`
	MediaGallery       []string        `json:"media_gallery"`
	Ingredients        []string        `json:"ingredients"`
	Variants           []Variant       `json:"variants"`
	IsAvailable        bool            `json:"is_available"`
	IsSoldOut          bool            `json:"is_sold_out"`
	IsFeatured         bool            `json:"is_featured"`
	DiscountPercentage *int            `json:"discount_percentage,omitempty"`
}

// Validate enforces the product invariants: an available product carries at
// least one variant, variant weights are unique, prices are non-negative and
// the discount percentage stays within [0,100].
func (p *ProductCreate) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !p.Category.Valid() {
		return fmt.Errorf("unknown category %q", p.Category)
	}
	if p.IsAvailable && len(p.Variants) == 0 {
		return fmt.Errorf("an available product needs at least one variant")
	}
	seen := make(map[string]bool, len(p.Variants))
	for _, v := range p.Variants {
		if v.Weight == "" {
			return fmt.Errorf("variant weight is required")
		}
		if seen[v.Weight] {
			return fmt.Errorf("duplicate variant weight %q", v.Weight)
		}
		seen[v.Weight] = true
		if v.Price < 0 {
			return fmt.Errorf("variant %q has a negative price", v.Weight)
		}
	}
	if p.DiscountPercentage != nil && (*p.DiscountPercentage < 0 || *p.DiscountPercentage > 100) {
		return fmt.Errorf("discount_percentage must be within [0,100]")
	}
	return nil
}

// NewProduct assembles a Product from a validated create payload.
func NewProduct(in ProductCreate) Product {
	now := Now()
	return Product{
		ID:                 uuid.New().String(),
		Name:               in.Name,
		Description:        in.Description,
		Category:           in.Category,
		ImageURL:           in.ImageURL,
		MediaGallery:       in.MediaGallery,
		Ingredients:        in.Ingredients,
		Variants:           in.Variants,
		IsAvailable:        in.IsAvailable,
		IsSoldOut:          in.IsSoldOut,
		IsFeatured:         in.IsFeatured,
		DiscountPercentage: in.DiscountPercentage,
		Rating:             DefaultRating,
		ReviewCount:        0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// FindVariant returns the variant with the given weight, if present.
func (p *Product) FindVariant(weight string) (Variant, bool) {
	for _, v := range p.Variants {
		if v.Weight == weight {
			return v, true
		}
	}
	return Variant{}, false
}

// RemovedWeights lists weights present in p but absent from newVariants.
// The catalog uses this to purge stale cart items on update.
func (p *Product) RemovedWeights(newVariants []Variant) []string {
	kept := make(map[string]bool, len(newVariants))
	for _, v := range newVariants {
		kept[v.Weight] = true
	}
	var removed []string
	for _, v := range p.Variants {
		if !kept[v.Weight] {
			removed = append(removed, v.Weight)
		}
	}
	return removed
}

// AggregateRating reduces a set of approved review ratings to the stored
// (rating, review_count) pair: the mean rounded to one decimal, or the
// default when no approved review exists.
func AggregateRating(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return DefaultRating, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10, len(ratings)
}
