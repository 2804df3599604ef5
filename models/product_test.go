package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductCreate() ProductCreate {
	return ProductCreate{
		Name:     "Kaju Katli",
		Category: CategoryMithai,
		Variants: []Variant{
			{Weight: "250g", Price: 300, IsAvailable: true},
			{Weight: "500g", Price: 580, IsAvailable: true},
		},
		IsAvailable: true,
	}
}

func TestProductCreateValidate(t *testing.T) {
	good := validProductCreate()
	assert.NoError(t, good.Validate())

	bad := validProductCreate()
	bad.Name = ""
	assert.Error(t, bad.Validate())

	bad = validProductCreate()
	bad.Category = "sweets"
	assert.Error(t, bad.Validate())

	bad = validProductCreate()
	bad.Variants = nil
	assert.Error(t, bad.Validate(), "available product needs a variant")

	unavailable := validProductCreate()
	unavailable.IsAvailable = false
	unavailable.Variants = nil
	assert.NoError(t, unavailable.Validate())

	bad = validProductCreate()
	bad.Variants[1].Weight = "250g"
	assert.Error(t, bad.Validate(), "duplicate weight")

	bad = validProductCreate()
	bad.Variants[0].Price = -1
	assert.Error(t, bad.Validate())

	bad = validProductCreate()
	bad.DiscountPercentage = ptrInt(101)
	assert.Error(t, bad.Validate())
}

func TestNewProductDefaults(t *testing.T) {
	p := NewProduct(validProductCreate())

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, DefaultRating, p.Rating)
	assert.Equal(t, 0, p.ReviewCount)
}

func TestFindVariant(t *testing.T) {
	p := NewProduct(validProductCreate())

	v, ok := p.FindVariant("500g")
	require.True(t, ok)
	assert.Equal(t, 580.0, v.Price)

	_, ok = p.FindVariant("1kg")
	assert.False(t, ok)
}

func TestRemovedWeights(t *testing.T) {
	p := NewProduct(validProductCreate())

	removed := p.RemovedWeights([]Variant{{Weight: "500g", Price: 600}})
	assert.Equal(t, []string{"250g"}, removed)

	assert.Nil(t, p.RemovedWeights(p.Variants))
}

func TestAggregateRating(t *testing.T) {
	rating, count := AggregateRating(nil)
	assert.Equal(t, DefaultRating, rating)
	assert.Equal(t, 0, count)

	rating, count = AggregateRating([]int{5, 4, 4})
	assert.Equal(t, 4.3, rating)
	assert.Equal(t, 3, count)

	rating, _ = AggregateRating([]int{3, 4})
	assert.Equal(t, 3.5, rating)
}
