// Package whatsapp builds the chat deep link a customer uses to notify a field
// owner about a booking request. Nothing is sent from the server.
package whatsapp

import (
	"fmt"
	"net/url"
	"strings"

	"canchas-backend/internal/calendar"
	"canchas-backend/internal/model"
)

const (
	baseURL = "https://wa.me/"

	// DefaultCountryPrefix is the Argentine mobile prefix.
	DefaultCountryPrefix = "549"
)

// Link returns https://wa.me/<digits>?text=<message>. Non-digits are stripped
// from phone and prefix is prepended unless the number already starts with it.
// An empty string is returned when phone has no digits.
func Link(phone, message, prefix string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	if digits == "" {
		return ""
	}
	if prefix != "" && !strings.HasPrefix(digits, prefix) {
		digits = prefix + digits
	}
	return baseURL + digits + "?text=" + escapeText(message)
}

// escapeText is url.QueryEscape with spaces written as %20.
func escapeText(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BookingRequestMessage is the text the customer forwards to the owner.
func BookingRequestMessage(field model.Field, slot model.Slot, customer model.Customer, loginURL string) string {
	var b strings.Builder
	b.WriteString("📞 *Nueva solicitud de turno*\n\n")
	fmt.Fprintf(&b, "👟 *Cancha:* %s\n", field.Name)
	fmt.Fprintf(&b, "📅 *Fecha:* %s\n", calendar.DayMonth(slot.Date))
	fmt.Fprintf(&b, "⏰ *Hora:* %s hs\n\n", slot.Time)
	fmt.Fprintf(&b, "🧑 *Cliente:* %s\n", customer.Name)
	fmt.Fprintf(&b, "📞 *Teléfono:* %s\n", customer.Phone)
	fmt.Fprintf(&b, "🪪 *DNI:* %s\n", customer.NationalID)
	if loginURL != "" {
		fmt.Fprintf(&b, "\n🔗 Aceptá o rechazá el turno: %s\n", loginURL)
	}
	return b.String()
}
