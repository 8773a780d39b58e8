package numeric

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxAmount is the ceiling for any magnitude: 10 trillion.
const MaxAmount = 10_000_000_000_000

var magnitudePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)([kmbt])?$`)

type tier struct {
	suffix  string
	display string
	exp     int32
}

// tiers is ordered from the plain value to the largest multiplier.
var tiers = []tier{
	{suffix: "", display: "", exp: 0},
	{suffix: "k", display: "K", exp: 3},
	{suffix: "m", display: "M", exp: 6},
	{suffix: "b", display: "B", exp: 9},
	{suffix: "t", display: "T", exp: 12},
}

var (
	thousand     = decimal.New(1, 3)
	maxAmountDec = decimal.New(MaxAmount, 0)
)

// Magnitude is the result of parsing a human-entered magnitude string.
type Magnitude struct {
	// Value is the raw numeric value, e.g. 1500000 for "1.5m".
	Value float64
	// Canonical is the autocorrected spelling of the input, e.g. "1m" for "1000k".
	Canonical string
	// Corrected reports whether Canonical differs from what the user typed.
	Corrected bool
}

// ParseMagnitude parses strings like "1.5m", "200k" or "750" into their raw value.
func ParseMagnitude(input string) (float64, error) {
	m, err := ParseMagnitudeDetailed(input)
	if err != nil {
		return 0, err
	}
	return m.Value, nil
}

// ParseMagnitudeDetailed parses a magnitude and also reports its autocorrected form.
func ParseMagnitudeDetailed(input string) (Magnitude, error) {
	lit, idx, err := parseLiteral(input)
	if err != nil {
		return Magnitude{}, err
	}

	value := lit.Shift(tiers[idx].exp)
	if value.GreaterThan(maxAmountDec) {
		return Magnitude{}, parseError(input, ErrTooLarge)
	}

	canonical := canonicalize(lit, idx)
	return Magnitude{
		Value:     value.InexactFloat64(),
		Canonical: canonical,
		Corrected: canonical != normalizeInput(input),
	}, nil
}

// Autocorrect rewrites a magnitude into its canonical tier, e.g. "1000k" becomes "1m"
// and "2500000" becomes "2.5m". The numeric value never changes, so applying it twice
// yields the same string.
func Autocorrect(input string) (string, error) {
	m, err := ParseMagnitudeDetailed(input)
	if err != nil {
		return "", err
	}
	return m.Canonical, nil
}

// FormatMagnitude renders a value with the largest fitting tier and at most two
// fractional digits, e.g. 1545000 becomes "1.55M". Display only.
func FormatMagnitude(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	if v < 0 {
		return "-" + FormatMagnitude(-v)
	}

	d := decimal.NewFromFloat(v)
	idx := 0
	for idx < len(tiers)-1 && d.GreaterThanOrEqual(decimal.New(1, tiers[idx+1].exp)) {
		idx++
	}

	mantissa := d.Shift(-tiers[idx].exp).Round(2)
	// 999999 rounds to 1000K; show it as 1M instead.
	if idx < len(tiers)-1 && mantissa.GreaterThanOrEqual(thousand) {
		idx++
		mantissa = d.Shift(-tiers[idx].exp).Round(2)
	}

	return mantissa.String() + tiers[idx].display
}

// RoundCents rounds half away from zero to two fractional digits. Non-finite
// values are returned unchanged.
func RoundCents(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func normalizeInput(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

// parseLiteral validates the input and returns the numeric literal and its tier index.
func parseLiteral(input string) (decimal.Decimal, int, error) {
	s := normalizeInput(input)
	if s == "" {
		return decimal.Zero, 0, parseError(input, ErrEmpty)
	}
	if strings.Contains(s, ",") {
		return decimal.Zero, 0, parseError(input, ErrForbiddenSeparator)
	}

	match := magnitudePattern.FindStringSubmatch(s)
	if match == nil {
		return decimal.Zero, 0, parseError(input, ErrBadFormat)
	}

	lit, err := decimal.NewFromString(match[1])
	if err != nil {
		return decimal.Zero, 0, parseError(input, ErrBadFormat)
	}

	idx := 0
	for i, t := range tiers {
		if t.suffix == match[2] {
			idx = i
			break
		}
	}
	return lit, idx, nil
}

// canonicalize promotes the mantissa to higher tiers until it is below 1000 or the
// largest tier is reached.
func canonicalize(mantissa decimal.Decimal, idx int) string {
	for idx < len(tiers)-1 && mantissa.GreaterThanOrEqual(thousand) {
		mantissa = mantissa.Shift(-3)
		idx++
	}
	return mantissa.String() + tiers[idx].suffix
}
