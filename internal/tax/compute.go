// Package tax computes itemized tax breakdowns from the active tax rules of a
// branch.
package tax

import (
	"policy-service/internal/model"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RuleSource supplies the active tax rules for a branch in creation order.
type RuleSource interface {
	ActiveTaxRules(orgID, branchID uint) ([]model.TaxRule, error)
}

// BreakdownEntry is one rule's contribution to the total.
type BreakdownEntry struct {
	Name   string          `json:"name"`
	Code   string          `json:"code"`
	Rate   decimal.Decimal `json:"rate"`
	Kind   string          `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Result is the computed tax for a base amount.
type Result struct {
	TotalTax  decimal.Decimal  `json:"total_tax"`
	Breakdown []BreakdownEntry `json:"breakdown"`
}

// Computer resolves rules and computes breakdowns. It reads rule state only;
// nothing is written.
type Computer struct {
	rules RuleSource
}

// NewComputer returns a computer over the given rule source
func NewComputer(rules RuleSource) *Computer {
	return &Computer{rules: rules}
}

// Compute returns the tax breakdown for a base amount charged under a branch
// and category. A non-positive base yields a zeroed result, not an error.
// Percentage amounts are rounded half-up to the nearest integer per rule,
// never on the aggregate. Breakdown order follows rule creation order.
func (c *Computer) Compute(baseAmount decimal.Decimal, orgID, branchID uint, category string) (Result, error) {
	result := Result{TotalTax: decimal.Zero, Breakdown: []BreakdownEntry{}}
	if !baseAmount.IsPositive() {
		return result, nil
	}

	rules, err := c.rules.ActiveTaxRules(orgID, branchID)
	if err != nil {
		return Result{}, err
	}

	for _, rule := range rules {
		if rule.AppliesTo != category && rule.AppliesTo != model.TaxAppliesAll {
			continue
		}

		var amount decimal.Decimal
		if rule.Kind == model.TaxKindPercentage {
			// Round half-up per rule. Decimal.Round is half-away-from-zero,
			// which coincides with half-up for non-negative amounts.
			amount = baseAmount.Mul(rule.Rate).Div(hundred).Round(0)
		} else {
			amount = rule.Rate
		}

		result.Breakdown = append(result.Breakdown, BreakdownEntry{
			Name:   rule.Name,
			Code:   rule.Code,
			Rate:   rule.Rate,
			Kind:   rule.Kind,
			Amount: amount,
		})
		result.TotalTax = result.TotalTax.Add(amount)
	}

	return result, nil
}
