package dispatch

import (
	"net/url"
	"strings"
)

// countryCode is prefixed onto WhatsApp numbers; local SMS keeps the raw
// local form because carriers route it without one.
const countryCode = "252"

// PrimaryPhone extracts the first number from a free-form phone field.
// Records imported in bulk often carry several numbers separated by "/",
// "," or spaces; only the first is dialed. All non-digits are stripped.
func PrimaryPhone(phone string) string {
	first := strings.FieldsFunc(strings.TrimSpace(phone), func(r rune) bool {
		return r == '/' || r == ',' || r == ' ' || r == '\t'
	})
	if len(first) == 0 {
		return ""
	}

	var b strings.Builder
	for _, r := range first[0] {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// WhatsAppLink builds a wa.me deep link carrying the reminder text. The
// number gets the 252 country code when absent; local leading zeros are
// dropped first so "0634..." becomes "252634...".
func WhatsAppLink(phone, text string) string {
	digits := PrimaryPhone(phone)
	if digits == "" {
		return ""
	}
	if !strings.HasPrefix(digits, countryCode) {
		digits = countryCode + strings.TrimLeft(digits, "0")
	}
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}

// SMSLink builds an sms: link with the reminder as the body, keeping the
// local-format number as dialed.
func SMSLink(phone, text string) string {
	digits := PrimaryPhone(phone)
	if digits == "" {
		return ""
	}
	return "sms:" + digits + "?body=" + url.QueryEscape(text)
}
