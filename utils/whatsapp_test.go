package utils

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhatsAppLink(t *testing.T) {
	link := WhatsAppLink("918989549544", "Hello! Order #42 & more")

	require.True(t, strings.HasPrefix(link, "https://wa.me/918989549544?text="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "Hello! Order #42 & more", parsed.Query().Get("text"))
}

func TestOrderWhatsAppMessage(t *testing.T) {
	msg := OrderWhatsAppMessage("abc-123", 1499.5)
	assert.Contains(t, msg, "abc-123")
	assert.Contains(t, msg, "1499.50")
}

func TestBulkOrderWhatsAppMessage(t *testing.T) {
	msg := BulkOrderWhatsAppMessage("Priya", "Motichoor Laddu", "25 kg")
	assert.Contains(t, msg, "Priya")
	assert.Contains(t, msg, "Motichoor Laddu")
	assert.Contains(t, msg, "25 kg")
}
