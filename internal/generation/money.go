package generation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var nonNumeric = regexp.MustCompile(`[^\d,.\-]`)

// ParseNumber converts the number formats found in the workbook into a
// float. Chilean sheets mix thousands dots with comma decimals, so the
// parser disambiguates rather than assuming one locale:
//
//	"3,0"      -> 3.0
//	"$2.000"   -> 2000
//	"2.000,50" -> 2000.5
//	"20.00"    -> 20.0
//
// Empty cells parse as zero.
func ParseNumber(raw string) (float64, error) {
	cleaned := nonNumeric.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return 0, nil
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		// Dots are thousands separators, the comma is the decimal mark.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case strings.Count(cleaned, ".") > 1:
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	case strings.Count(cleaned, ".") == 1:
		// A single dot followed by exactly three digits is a thousands
		// separator ("14.500"), otherwise it is a decimal mark ("20.00").
		left, right, _ := strings.Cut(cleaned, ".")
		digits := strings.TrimPrefix(left, "-")
		if len(right) == 3 && len(digits) >= 1 && len(digits) <= 3 {
			cleaned = left + right
		}
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse number %q: %w", raw, err)
	}
	return value, nil
}

// FormatCLP renders a value as Chilean pesos with dot thousands separators
// and no decimals.
func FormatCLP(value float64) string {
	rounded := int64(value + 0.5)
	if value < 0 {
		rounded = int64(value - 0.5)
	}

	digits := strconv.FormatInt(rounded, 10)
	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := "$" + strings.Join(groups, ".")
	if negative {
		out = "-" + out
	}
	return out
}
