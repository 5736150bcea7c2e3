package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/example/tmstore/pkg/cart"
)

// The WhatsApp checkout is a second fulfillment path next to the persisted
// order flow. It only composes a message and a deep link; nothing is
// recorded server-side, deliberately mirroring the persisted path rather
// than being reconciled with it.

// WhatsAppMessage lists the cart lines and total as a plain-text order
// request addressed to the store.
func WhatsAppMessage(storeName, currency string, sub Submission) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s, I would like to order:\n\n", storeName)
	var total int64
	for _, it := range sub.Items {
		variant := variantLabel(it)
		fmt.Fprintf(&b, "- %s%s x%d @ %s\n", it.ProductName, variant, it.Quantity, FormatPrice(currency, it.Price))
		total += it.Price * int64(it.Quantity)
	}
	fmt.Fprintf(&b, "\nTotal: %s\n", FormatPrice(currency, total))
	if sub.CustomerName != "" {
		fmt.Fprintf(&b, "\nName: %s\n", sub.CustomerName)
	}
	if sub.ShippingAddress != "" {
		fmt.Fprintf(&b, "Address: %s\n", sub.ShippingAddress)
	}
	return b.String()
}

// WhatsAppLink builds the wa.me deep link carrying the composed message.
func WhatsAppLink(phoneNumber, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", phoneNumber, url.QueryEscape(message))
}

func variantLabel(it cart.Item) string {
	switch {
	case it.Size != "" && it.Color != "":
		return fmt.Sprintf(" (%s, %s)", it.Size, it.Color)
	case it.Size != "":
		return fmt.Sprintf(" (%s)", it.Size)
	case it.Color != "":
		return fmt.Sprintf(" (%s)", it.Color)
	}
	return ""
}

// FormatPrice renders a minor-unit amount with dot thousand separators,
// e.g. 1850000 -> "Rp 1.850.000" for IDR.
func FormatPrice(currency string, amount int64) string {
	digits := fmt.Sprintf("%d", amount)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(d)
	}
	prefix := currency
	if currency == "IDR" {
		prefix = "Rp"
	}
	return fmt.Sprintf("%s %s", prefix, b.String())
}
