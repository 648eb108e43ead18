// Package checkout builds the WhatsApp order hand-off. Orders are not stored:
// the shopper's own WhatsApp client sends the prefilled message.
package checkout

import (
	"fmt"
	"strings"

	"github.com/todobabyrio/todobaby_api/internal/cart"
	"github.com/todobabyrio/todobaby_api/internal/models"
)

const (
	sendURL    = "https://api.whatsapp.com/send"
	contactURL = "https://wa.me/"
)

// BuildOrderMessage renders the order summary sent to the store.
func BuildOrderMessage(settings *models.StoreSettings, customerName, address string, items []models.CartItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "¡Hola %s! 👋\n\nMi nombre es %s y me gustaría hacer el siguiente pedido:\n\n", settings.StoreName, customerName)
	for _, it := range items {
		fmt.Fprintf(&b, "*%s* (x%d) - $%s\n", it.Name, it.Quantity, it.LineTotal().StringFixed(2))
	}
	fmt.Fprintf(&b, "\n*Total Estimado:* $%s\n", cart.Total(items).StringFixed(2))
	fmt.Fprintf(&b, "\n*Dirección de entrega:*\n%s\n\n¡Muchas gracias!", address)
	return b.String()
}

// WhatsAppURL returns the api.whatsapp.com deep link carrying message.
func WhatsAppURL(number, message string) string {
	return sendURL + "?phone=" + phoneDigits(number) + "&text=" + EncodeURIComponent(message)
}

// ContactURL returns the short wa.me chat link for number.
func ContactURL(number string) string {
	return contactURL + phoneDigits(number)
}

func phoneDigits(number string) string {
	return strings.ReplaceAll(strings.TrimSpace(number), "+", "")
}

// EncodeURIComponent percent-encodes s the way browsers do for a URI
// component: everything except A-Z a-z 0-9 - _ . ! ~ * ' ( ) is escaped
// byte by byte from its UTF-8 form.
func EncodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 3)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0F])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
