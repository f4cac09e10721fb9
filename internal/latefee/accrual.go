// Package latefee computes the amount accrued on an overdue installment from a
// resolved fee configuration. The computation is pure: it performs no I/O and
// callers persist the result if they need it.
package latefee

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency controls how often the late fee is charged past the grace period.
type Frequency string

const (
	FrequencyOneTime Frequency = "one-time"
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Fee value kinds
const (
	TypePercentage = "percentage"
	TypeFlat       = "flat"
)

// Rule is the late-fee portion of a fee configuration payload.
type Rule struct {
	Enabled         bool            `json:"enabled"`
	GracePeriodDays int             `json:"grace_period_days"`
	Type            string          `json:"type"`
	Value           decimal.Decimal `json:"value"`
	Frequency       Frequency       `json:"frequency"`
	MaxCap          decimal.Decimal `json:"max_cap"`
}

// Accrue returns the late fee due on an installment as of the given instant.
// A disabled rule or an asOf within the grace period accrues nothing. MaxCap
// bounds the result; a non-positive cap means uncapped.
func Accrue(rule Rule, installmentAmount decimal.Decimal, dueDate, asOf time.Time) decimal.Decimal {
	if !rule.Enabled {
		return decimal.Zero
	}

	overdueStart := dueDate.AddDate(0, 0, rule.GracePeriodDays)
	if !asOf.After(overdueStart) {
		return decimal.Zero
	}

	units := elapsedUnits(rule.Frequency, overdueStart, asOf)
	if units == 0 {
		return decimal.Zero
	}

	var perUnit decimal.Decimal
	if rule.Type == TypePercentage {
		perUnit = installmentAmount.Mul(rule.Value).Div(decimal.NewFromInt(100))
	} else {
		perUnit = rule.Value
	}

	amount := perUnit.Mul(decimal.NewFromInt(int64(units)))
	if rule.MaxCap.IsPositive() && amount.GreaterThan(rule.MaxCap) {
		return rule.MaxCap
	}
	return amount
}

// elapsedUnits counts whole units between overdueStart and asOf. asOf is known
// to be strictly after overdueStart.
func elapsedUnits(freq Frequency, overdueStart, asOf time.Time) int {
	switch freq {
	case FrequencyOneTime:
		return 1
	case FrequencyWeekly:
		return int(asOf.Sub(overdueStart).Hours() / (24 * 7))
	case FrequencyMonthly:
		return wholeMonthsBetween(overdueStart, asOf)
	default:
		// daily
		return int(asOf.Sub(overdueStart).Hours() / 24)
	}
}

// wholeMonthsBetween counts whole calendar months from start to end, clamping
// at month ends so that e.g. Jan 31 + 1 month lands on the last day of
// February rather than spilling into March.
func wholeMonthsBetween(start, end time.Time) int {
	months := 0
	for {
		next := addMonthsClamped(start, months+1)
		if next.After(end) {
			return months
		}
		months++
	}
}

func addMonthsClamped(t time.Time, months int) time.Time {
	year, month, day := t.Date()
	hour, min, sec := t.Clock()

	firstOfTarget := time.Date(year, month+time.Month(months), 1, 0, 0, 0, 0, t.Location())
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	if day > lastDay {
		day = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, hour, min, sec, t.Nanosecond(), t.Location())
}
