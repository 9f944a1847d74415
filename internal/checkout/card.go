// Package checkout validates payment instruments and submits frozen
// reservation sessions to the payment service.  All instrument
// validation happens locally, before any network call, so invalid
// input never reaches the remote service.
package checkout

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// Card networks detected from the leading digits of the card number.
// The network decides the expected CVV length.
const (
	CardVisa       = "visa"
	CardMastercard = "mastercard"
	CardAmex       = "amex"
	CardDiscover   = "discover"
	CardDefault    = "default"
)

// CardDetails is the payment instrument the user typed into the
// checkout form.  Number and Expiry may contain the display
// formatting (spaces, the MM/YY slash); validation strips it.
type CardDetails struct {
	Number string // card number, digits possibly grouped by spaces
	Expiry string // expiry in MM/YY form
	CVV    string // security code
	Name   string // cardholder name
}

// FieldErrors maps form field names to user-facing validation
// messages.  It is fully recoverable: the user corrects the fields
// and resubmits.  An empty map means the instrument is valid.
type FieldErrors map[string]string

// Error implements the error interface so a FieldErrors value can
// travel through error returns.
func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for field, msg := range fe {
		parts = append(parts, field+": "+msg)
	}
	return "invalid payment details (" + strings.Join(parts, "; ") + ")"
}

var (
	nonDigits   = regexp.MustCompile(`\D`)
	nameLetters = regexp.MustCompile(`^[A-Za-z\s]+$`)

	errNotANumber = errors.New("not a number")
)

// ValidateCard checks every field of the instrument and returns the
// combined field-keyed error map.  A nil map means all fields passed.
func ValidateCard(card CardDetails, now time.Time) FieldErrors {
	errs := FieldErrors{}
	if msg := validateNumber(card.Number); msg != "" {
		errs["cardNumber"] = msg
	}
	if msg := validateExpiry(card.Expiry, now); msg != "" {
		errs["expiry"] = msg
	}
	if msg := validateCVV(card.CVV, DetectCardType(card.Number)); msg != "" {
		errs["cvv"] = msg
	}
	if msg := validateName(card.Name); msg != "" {
		errs["cardName"] = msg
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// DetectCardType identifies the card network from the number prefix.
func DetectCardType(number string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	switch {
	case strings.HasPrefix(digits, "4"):
		return CardVisa
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return CardMastercard
	case strings.HasPrefix(digits, "34"), strings.HasPrefix(digits, "37"):
		return CardAmex
	case strings.HasPrefix(digits, "6011"), strings.HasPrefix(digits, "65"):
		return CardDiscover
	}
	return CardDefault
}

// validateNumber checks length bounds and the Luhn checksum.
func validateNumber(number string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	if digits == "" {
		return "Card number is required"
	}
	if len(digits) < 13 || len(digits) > 19 {
		return "Card number must be between 13 and 19 digits"
	}
	if !luhnValid(digits) {
		return "Invalid card number"
	}
	return ""
}

// luhnValid runs the Luhn checksum over a digit string, doubling
// every second digit from the right.
func luhnValid(digits string) bool {
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// validateExpiry checks the MM/YY expiry against the current date.
// Cards expired before the current month are rejected, as are
// expiries more than twenty years out.
func validateExpiry(expiry string, now time.Time) string {
	if expiry == "" {
		return "Expiry date is required"
	}
	if len(expiry) < 5 {
		return "Please enter a valid expiry date"
	}
	parts := strings.SplitN(expiry, "/", 2)
	if len(parts) != 2 {
		return "Please enter a valid expiry date"
	}
	month, errM := atoiStrict(parts[0])
	year, errY := atoiStrict(parts[1])
	if errM != nil || errY != nil {
		return "Please enter a valid expiry date"
	}
	year += 2000
	if month < 1 || month > 12 {
		return "Invalid month"
	}
	curYear, curMonth := now.Year(), int(now.Month())
	if year < curYear || (year == curYear && month < curMonth) {
		return "Card has expired"
	}
	if year > curYear+20 {
		return "Expiry date too far in the future"
	}
	return ""
}

// validateCVV checks the security code length for the card network:
// four digits for amex, three for everything else.
func validateCVV(cvv, cardType string) string {
	if cvv == "" {
		return "Security code is required"
	}
	required := 3
	if cardType == CardAmex {
		required = 4
	}
	if len(cvv) != required {
		if required == 4 {
			return "Security code must be 4 digits"
		}
		return "Security code must be 3 digits"
	}
	for i := 0; i < len(cvv); i++ {
		if cvv[i] < '0' || cvv[i] > '9' {
			return "Security code must contain only digits"
		}
	}
	return ""
}

// validateName checks the cardholder name: letters and spaces only,
// at least three characters after trimming.
func validateName(name string) string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "Cardholder name is required"
	}
	if len(trimmed) < 3 {
		return "Cardholder name is too short"
	}
	if !nameLetters.MatchString(name) {
		return "Cardholder name can only contain letters and spaces"
	}
	return ""
}

// atoiStrict parses a non-empty all-digit string.
func atoiStrict(s string) (int, error) {
	if s == "" {
		return 0, errNotANumber
	}
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, errNotANumber
		}
		n = n*10 + int(s[i]-'0')
	}
	return n, nil
}

// FormatCardNumber groups a card number into blocks of four digits
// for display, e.g. "4111111111111111" -> "4111 1111 1111 1111".
func FormatCardNumber(number string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	if digits == "" {
		return ""
	}
	parts := make([]string, 0, (len(digits)+3)/4)
	for i := 0; i < len(digits); i += 4 {
		end := i + 4
		if end > len(digits) {
			end = len(digits)
		}
		parts = append(parts, digits[i:end])
	}
	return strings.Join(parts, " ")
}

// MaskCardNumber keeps the first and last four digits and masks the
// middle for receipts and previews.
func MaskCardNumber(number string) string {
	digits := nonDigits.ReplaceAllString(number, "")
	if len(digits) <= 8 {
		return FormatCardNumber(digits)
	}
	masked := strings.Repeat("•", len(digits)-8)
	return digits[:4] + " " + masked + " " + digits[len(digits)-4:]
}
