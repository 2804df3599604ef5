package utils

import (
	"fmt"
	"net/url"
)

// WhatsAppLink builds a wa.me click-to-chat URL for the shop number with a
// prefilled message.
func WhatsAppLink(shopPhone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", shopPhone, url.QueryEscape(message))
}

// OrderWhatsAppMessage is the confirmation text sent after placement.
func OrderWhatsAppMessage(orderID string, finalAmount float64) string {
	return fmt.Sprintf("Hello! I have placed order %s for ₹%.2f. Please confirm my order.", orderID, finalAmount)
}

// BulkOrderWhatsAppMessage is the enquiry text for a bulk-order request.
func BulkOrderWhatsAppMessage(name, productName, quantity string) string {
	return fmt.Sprintf("Hello! I am %s and I would like a bulk order of %s (%s). Please get in touch.", name, productName, quantity)
}
