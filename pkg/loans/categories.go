package loans

import (
	"errors"
	"strconv"

	"github.com/Ettuli11/BlockDebt/pkg/models"
	"github.com/Ettuli11/BlockDebt/pkg/numeric"
)

// categoryRule holds everything that differs between loan categories.
type categoryRule struct {
	label        string
	parseCreate  func(req CreateRequest) (amount float64, notes string, err error)
	parsePayment func(input string) (float64, error)
	format       func(v float64) string
	accrues      bool
	stacks       bool
	// whole categories are paid in whole units while the balance compounds into fractions.
	whole bool
}

var categoryRules = map[models.Category]categoryRule{
	models.MONEY: {
		label: "Money",
		parseCreate: func(req CreateRequest) (float64, string, error) {
			v, err := numeric.ParseMagnitude(req.Amount)
			return v, "", err
		},
		parsePayment: numeric.ParseMagnitude,
		format:       numeric.FormatMagnitude,
		accrues:      true,
	},
	models.ITEM: {
		label: "Item",
		parseCreate: func(req CreateRequest) (float64, string, error) {
			var units int64
			var err error
			if req.Stacks != "" {
				units, err = numeric.ParseItemFields(req.Stacks, req.Extra)
			} else {
				units, err = numeric.ParseItemAmount(req.Amount)
			}
			return float64(units), "", err
		},
		parsePayment: func(input string) (float64, error) {
			units, err := numeric.ParseItemAmount(input)
			return float64(units), err
		},
		format:  formatCount,
		accrues: true,
		stacks:  true,
		whole:   true,
	},
	models.KILL: {
		label: "Kill",
		parseCreate: func(req CreateRequest) (float64, string, error) {
			n, err := numeric.ParseKillCount(req.Amount)
			return float64(n), "", err
		},
		parsePayment: func(input string) (float64, error) {
			n, err := numeric.ParseKillCount(input)
			return float64(n), err
		},
		format:  formatCount,
		accrues: true,
		whole:   true,
	},
	models.INFO: {
		label: "Info",
		parseCreate: func(req CreateRequest) (float64, string, error) {
			notes, err := numeric.ParseInfoText(req.Notes)
			return 0, notes, err
		},
		format: func(float64) string { return "-" },
	},
}

var errNoBalance = errors.New("info loans have no balance to pay")

func ruleFor(c models.Category) (categoryRule, bool) {
	r, ok := categoryRules[c]
	return r, ok
}

// payable is the largest payment the balance accepts: the balance as displayed,
// whole units for items and kills, cents for money.
func (r categoryRule) payable(balance float64) float64 {
	if r.whole {
		return float64(numeric.RoundHalfUp(balance))
	}
	return numeric.RoundCents(balance)
}

// settled reports whether nothing payable is left.
func (r categoryRule) settled(balance float64) bool {
	if r.whole {
		return numeric.RoundHalfUp(balance) <= 0
	}
	return balance <= Epsilon
}

func formatCount(v float64) string {
	return strconv.FormatInt(numeric.RoundHalfUp(v), 10)
}

// FormatAmount renders an amount the way its category is displayed.
func FormatAmount(c models.Category, v float64) string {
	r, ok := ruleFor(c)
	if !ok {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return r.format(v)
}

// Label returns the human name of a category.
func Label(c models.Category) string {
	if r, ok := ruleFor(c); ok {
		return r.label
	}
	return string(c)
}
