package logger

import (
	"strings"

	masker "github.com/goliatone/go-masker"
)

const maskRule = "preserveEnds(2,2)"

var sensitiveFields = []string{
	"session_id", "token", "password", "email", "phone",
}

func init() {
	for _, field := range sensitiveFields {
		masker.Default.RegisterMaskField(field, maskRule)
	}
}

// Mask hides the middle of a sensitive value so it can be logged.
func Mask(value string) string {
	if value == "" {
		return ""
	}
	if masked, err := masker.Default.String(maskRule, value); err == nil {
		return masked
	}
	runes := []rune(value)
	if len(runes) <= 4 {
		return strings.Repeat("*", len(runes))
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-4) + string(runes[len(runes)-2:])
}
