package utils

import (
	"regexp"
	"strings"
)

// FormatPhoneNumber formats a phone number to a standard format
// Removes all non-digit characters and ensures it starts with country code
func FormatPhoneNumber(phoneNumber string) string {
	// Remove all non-digit characters
	re := regexp.MustCompile(`\D`)
	digits := re.ReplaceAllString(phoneNumber, "")

	// If it doesn't start with country code, assume Côte d'Ivoire (+225)
	if len(digits) > 0 && !strings.HasPrefix(digits, "225") {
		// Remove leading zeros
		digits = strings.TrimLeft(digits, "0")
		// Add Côte d'Ivoire country code
		digits = "225" + digits
	}

	if digits == "" {
		return ""
	}
	return "+" + digits
}
