package numeric

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// StackSize is the number of sub-units in one stack.
	StackSize = 64
	// MaxStacks is the largest accepted stack count.
	MaxStacks = 150_000_000_000
	// MaxItems is the ceiling for item quantities.
	MaxItems = MaxAmount
	// MaxKills is the largest accepted kill count.
	MaxKills = 10_000
	// MaxInfoLength is the maximum number of characters of an info loan.
	MaxInfoLength = 10_000
)

var (
	integerPattern   = regexp.MustCompile(`^\d+$`)
	stackAmountRegex = regexp.MustCompile(`^(\S+)\s*stacks?(?:\s*\+\s*(\d+))?$`)
)

// StackDisplay is an item quantity split into whole stacks and leftover units.
type StackDisplay struct {
	Stacks int64 `json:"stacks"`
	Extra  int64 `json:"extra"`
}

// String renders the breakdown, e.g. "2 stack + 10" or "3 stack".
func (s StackDisplay) String() string {
	if s.Extra > 0 {
		return fmt.Sprintf("%d stack + %d", s.Stacks, s.Extra)
	}
	return fmt.Sprintf("%d stack", s.Stacks)
}

// ParseItemQuantity converts stacks plus extra units into a unit count.
func ParseItemQuantity(stacks, extra int64) (int64, error) {
	input := fmt.Sprintf("%d stack + %d", stacks, extra)
	if extra < 0 || extra >= StackSize {
		return 0, parseError(input, ErrInvalidExtra)
	}
	if stacks < 0 || stacks > MaxStacks {
		return 0, parseError(input, ErrTooManyStacks)
	}

	total := stacks*StackSize + extra
	if total > MaxItems {
		return 0, parseError(input, ErrTooManyItems)
	}
	return total, nil
}

// ParseItemFields parses the raw stack and extra fields of an item form.
// The stack count accepts magnitude suffixes ("1.5k") and an empty extra means zero.
func ParseItemFields(stacks, extra string) (int64, error) {
	n, err := parseWholeMagnitude(stacks)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return 0, parseError(stacks, ErrTooManyStacks)
		}
		return 0, err
	}

	e := int64(0)
	if trimmed := strings.TrimSpace(extra); trimmed != "" {
		if !integerPattern.MatchString(trimmed) {
			return 0, parseError(extra, ErrInvalidExtra)
		}
		e, err = strconv.ParseInt(trimmed, 10, 64)
		if err != nil {
			return 0, parseError(extra, ErrInvalidExtra)
		}
	}

	return ParseItemQuantity(n, e)
}

// ParseItemAmount parses an item quantity written either as stacks ("3 stack + 20")
// or as plain units ("500", "1.2k").
func ParseItemAmount(input string) (int64, error) {
	s := normalizeInput(input)
	if match := stackAmountRegex.FindStringSubmatch(s); match != nil {
		return ParseItemFields(match[1], match[2])
	}

	n, err := parseWholeMagnitude(input)
	if err != nil {
		if errors.Is(err, ErrTooLarge) {
			return 0, parseError(input, ErrTooManyItems)
		}
		return 0, err
	}
	return n, nil
}

// ToStackDisplay splits a unit count into stacks of 64.
func ToStackDisplay(units int64) StackDisplay {
	return StackDisplay{Stacks: units / StackSize, Extra: units % StackSize}
}

// RoundHalfUp rounds to the nearest integer, with halves rounded up.
func RoundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// ParseKillCount parses a plain non-negative integer of at most 10,000.
func ParseKillCount(input string) (int64, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return 0, parseError(input, ErrEmpty)
	}
	if strings.Contains(s, ",") {
		return 0, parseError(input, ErrForbiddenSeparator)
	}
	if !integerPattern.MatchString(s) {
		return 0, parseError(input, ErrBadFormat)
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n > MaxKills {
		return 0, parseError(input, ErrTooManyKills)
	}
	return n, nil
}

// ParseInfoText validates the free text of an info loan.
func ParseInfoText(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", parseError(input, ErrEmpty)
	}
	if utf8.RuneCountInString(s) > MaxInfoLength {
		return "", parseError(fmt.Sprintf("%.20s...", s), ErrTextTooLong)
	}
	return s, nil
}

// parseWholeMagnitude parses a magnitude that must resolve to a whole number.
func parseWholeMagnitude(input string) (int64, error) {
	lit, idx, err := parseLiteral(input)
	if err != nil {
		return 0, err
	}

	value := lit.Shift(tiers[idx].exp)
	if value.GreaterThan(maxAmountDec) {
		return 0, parseError(input, ErrTooLarge)
	}
	if !value.IsInteger() {
		return 0, parseError(input, ErrBadFormat)
	}
	return value.IntPart(), nil
}
