package recipe

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/hammamikhairi/ottomeasure/internal/domain"
)

// ParseAmount turns a stored amount string into a number. It accepts
// decimals ("1.5"), fractions ("1/2") and mixed numbers ("1 1/2", a whole
// number followed by a fraction). An empty string is zero. Signs, extra
// parts, NaN and infinite values are rejected with domain.ErrInvalidAmount.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if strings.ContainsAny(s, "+-") {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}

	var (
		total float64
		err   error
	)
	switch parts := strings.Fields(s); len(parts) {
	case 1:
		total, err = parsePart(parts[0])
	case 2:
		total, err = parseMixed(parts[0], parts[1])
	default:
		err = fmt.Errorf("too many parts")
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidAmount, s)
	}
	if err := CheckAmount(total); err != nil {
		return 0, fmt.Errorf("%w: %q", err, s)
	}
	return total, nil
}

// parseMixed reads "N a/b" where N is a whole number.
func parseMixed(whole, frac string) (float64, error) {
	if !isWhole(whole) {
		return 0, fmt.Errorf("%q is not a whole number", whole)
	}
	if !strings.Contains(frac, "/") {
		return 0, fmt.Errorf("%q is not a fraction", frac)
	}
	n, err := strconv.ParseFloat(whole, 64)
	if err != nil {
		return 0, err
	}
	f, err := parsePart(frac)
	if err != nil {
		return 0, err
	}
	return n + f, nil
}

func isWhole(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return s != ""
}

func parsePart(p string) (float64, error) {
	num, den, ok := strings.Cut(p, "/")
	if !ok {
		return strconv.ParseFloat(p, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, err
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("zero denominator")
	}
	return n / d, nil
}

// CheckAmount rejects values the conversion code does not accept.
func CheckAmount(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return domain.ErrInvalidAmount
	}
	return nil
}

// FormatAmount renders an amount for storage with no trailing zeros.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
