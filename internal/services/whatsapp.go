package services

import (
	"fmt"
	"net/url"
	"strconv"
)

// ContactLink builds the WhatsApp deep link shown on the item detail page.
// The message text is fixed wording; callers must not pre-encode the name.
// Returns "" when no contact number is configured.
func ContactLink(number, itemName string, price float64) string {
	if number == "" {
		return ""
	}

	msg := fmt.Sprintf("Estoy interesado en %s por valor de $%s", itemName, FormatPrice(price))

	v := url.Values{}
	v.Set("text", msg)
	return "https://wa.me/" + number + "?" + v.Encode()
}

// FormatPrice renders a price without trailing zeros ($25, not $25.00).
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
