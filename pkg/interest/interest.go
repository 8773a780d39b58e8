package interest

import (
	"math"
	"time"
)

// DailyRate is the compounding rate applied once per elapsed day.
const DailyRate = 0.03

// Day is the accrual period.
const Day = 24 * time.Hour

// Result describes one application of accrual.
type Result struct {
	// Days is the number of interest-bearing days applied.
	Days int `json:"days"`
	// Previous is the balance before accrual.
	Previous float64 `json:"previous"`
	// Amount is the balance after accrual.
	Amount float64 `json:"amount"`
	// At is the new accrual watermark.
	At time.Time `json:"at"`
}

// ElapsedDays counts the whole days between last and now that are not holidays.
// periods is the number of whole days regardless of holidays.
func ElapsedDays(last, now time.Time, cal *Calendar) (days, periods int) {
	if !now.After(last) {
		return 0, 0
	}

	periods = int(now.Sub(last) / Day)
	for i := 1; i <= periods; i++ {
		if !cal.IsHoliday(last.Add(time.Duration(i) * Day)) {
			days++
		}
	}
	return days, periods
}

// Compound grows amount by DailyRate for each day, on the already grown balance.
func Compound(amount float64, days int) float64 {
	if days <= 0 {
		return amount
	}
	return amount * math.Pow(1+DailyRate, float64(days))
}

// Apply computes the accrual of balance since last. It reports false when no
// interest-bearing day has elapsed, in which case nothing should be written.
//
// The watermark advances by whole days only, so the partial day already elapsed
// still counts towards the next accrual.
func Apply(balance float64, last, now time.Time, cal *Calendar) (Result, bool) {
	days, periods := ElapsedDays(last, now, cal)
	if days == 0 {
		return Result{Previous: balance, Amount: balance, At: last}, false
	}

	return Result{
		Days:     days,
		Previous: balance,
		Amount:   Compound(balance, days),
		At:       last.Add(time.Duration(periods) * Day),
	}, true
}
