package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeItemSumsQuantity(t *testing.T) {
	items := []CartItem{{ProductID: "p1", VariantWeight: "500g", Quantity: 1, UnitPrice: 450}}

	items = MergeItem(items, CartItem{ProductID: "p1", VariantWeight: "500g", Quantity: 2, UnitPrice: 475})

	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, 475.0, items[0].UnitPrice, "merge refreshes the unit price")
}

func TestMergeItemDistinctVariants(t *testing.T) {
	items := []CartItem{{ProductID: "p1", VariantWeight: "500g", Quantity: 1, UnitPrice: 450}}

	items = MergeItem(items, CartItem{ProductID: "p1", VariantWeight: "1kg", Quantity: 1, UnitPrice: 880})
	items = MergeItem(items, CartItem{ProductID: "p2", VariantWeight: "500g", Quantity: 1, UnitPrice: 300})

	assert.Len(t, items, 3)
}

func TestSubtotal(t *testing.T) {
	items := []CartItem{
		{ProductID: "p1", VariantWeight: "500g", Quantity: 2, UnitPrice: 450},
		{ProductID: "p2", VariantWeight: "250g", Quantity: 1, UnitPrice: 199.5},
	}
	assert.Equal(t, 1099.5, Subtotal(items))
	assert.Equal(t, 0.0, Subtotal(nil))
}
