package cardgen

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// panLen is the only card number length this issuer produces: BIN +
// customer number + trailing check digit.
const panLen = 16

// CheckDigit computes the Luhn check digit for a card number body (the
// PAN without its last digit). Digits at even 0-based positions are
// doubled, values above 9 are reduced by 9, and the digit that brings
// the sum to the next multiple of 10 is returned.
func CheckDigit(body string) string {
	sum := 0
	for i := 0; i < len(body); i++ {
		d := int(body[i] - '0')
		if i%2 == 0 {
			d *= 2
		}
		if d > 9 {
			d -= 9
		}
		sum += d
	}
	if sum%10 == 0 {
		return "0"
	}
	return string('0' + byte(10-sum%10))
}

// ValidatePAN checks PAN length, digits-only and the Luhn check digit.
func ValidatePAN(pan string) error {
	if pan == "" {
		return fmt.Errorf("pan is required")
	}
	if !IsDigits(pan) {
		return fmt.Errorf("pan must contain digits only")
	}
	if len(pan) != panLen {
		return fmt.Errorf("pan must be %d digits (got %d)", panLen, len(pan))
	}
	body := pan[:len(pan)-1]
	if cd := CheckDigit(body); pan[len(pan)-1] != cd[0] {
		return fmt.Errorf("invalid luhn check digit")
	}
	return nil
}

// GeneratePAN generates a 16-digit PAN: the issuer BIN, a random
// customer number and the Luhn check digit.
func GeneratePAN(bin string) (string, error) {
	if err := ValidateBIN(bin); err != nil {
		return "", err
	}
	fill := panLen - 1 - len(bin)
	digits, err := randomDigits(fill)
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	body := bin + digits
	return body + CheckDigit(body), nil
}

// GeneratePIN generates a numeric PIN of the given length. Leading
// zeros are allowed; every position is drawn independently.
func GeneratePIN(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("pin length must be positive")
	}
	pin, err := randomDigits(length)
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return pin, nil
}

// ValidateBIN accepts the 6-digit issuer identification numbers this
// application mints cards under.
func ValidateBIN(bin string) error {
	if bin == "" {
		return fmt.Errorf("bin is required")
	}
	if !IsDigits(bin) {
		return fmt.Errorf("bin must contain digits only")
	}
	if len(bin) != 6 {
		return fmt.Errorf("bin must be 6 digits")
	}
	return nil
}

// randomDigits generates a digit string of the given length using
// rejection sampling so the 0-9 distribution stays unbiased.
func randomDigits(count int) (string, error) {
	if count <= 0 {
		return "", nil
	}
	const threshold = 250 // 256 - (256 % 10)
	var sb strings.Builder
	sb.Grow(count)
	buf := make([]byte, 64)
	for sb.Len() < count {
		n, err := rand.Read(buf)
		if err != nil {
			return "", err
		}
		for i := 0; i < n && sb.Len() < count; i++ {
			if buf[i] < threshold {
				sb.WriteByte('0' + buf[i]%10)
			}
		}
	}
	return sb.String(), nil
}

func IsDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// MaskPAN keeps the BIN and last four digits; everything in between is
// replaced. Used anywhere a card number might end up in a log line.
func MaskPAN(pan string) string {
	n := len(pan)
	if n == 0 {
		return ""
	}
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	if n < 10 {
		return strings.Repeat("*", n-4) + pan[n-4:]
	}
	return pan[:6] + strings.Repeat("*", n-10) + pan[n-4:]
}
