package models

// CartItem is keyed by (product_id, variant_weight) within a cart.
type CartItem struct {
	ProductID     string  `bson:"product_id" json:"product_id"`
	VariantWeight string  `bson:"variant_weight" json:"variant_weight"`
	Quantity      int     `bson:"quantity" json:"quantity"`
	UnitPrice     float64 `bson:"unit_price" json:"unit_price"`
}

type Cart struct {
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	UpdatedAt Timestamp  `bson:"updated_at" json:"updated_at"`
}

// MergeItem folds item into items under the cart uniqueness rule: an
// existing (product_id, variant_weight) entry absorbs the quantity and picks
// up the fresh unit price; otherwise the item is appended.
func MergeItem(items []CartItem, item CartItem) []CartItem {
	for i, existing := range items {
		if existing.ProductID == item.ProductID && existing.VariantWeight == item.VariantWeight {
			items[i].Quantity += item.Quantity
			items[i].UnitPrice = item.UnitPrice
			return items
		}
	}
	return append(items, item)
}

// Subtotal is the pre-discount, pre-delivery sum of the items.
func Subtotal(items []CartItem) float64 {
	total := 0.0
	for _, it := range items {
		total += it.UnitPrice * float64(it.Quantity)
	}
	return total
}
