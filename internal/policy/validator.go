package policy

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Validator is a pure predicate over a stored payload. Validators run before a
// lock transition; a domain may register zero, one or many.
type Validator func(payload json.RawMessage) error

var hundred = decimal.NewFromInt(100)

// DefaultValidators returns the validator registry for all domains. Domains
// absent from the map lock without any invariant check.
func DefaultValidators() map[Domain][]Validator {
	return map[Domain][]Validator{
		DomainExam:   {ExamWeightageValidator},
		DomainFee:    {FeePolicyValidator},
		DomainHostel: {HostelConfigValidator},
	}
}

// ExamWeightageValidator requires the weightages of included exam types to
// total exactly 100.
func ExamWeightageValidator(payload json.RawMessage) error {
	var p ExamPolicy
	if err := json.Unmarshal(payload, &p); err != nil {
		return &ValidationError{Detail: "exam policy payload is malformed: " + err.Error()}
	}

	total := decimal.Zero
	for _, et := range p.ExamTypes {
		if et.IsIncluded {
			total = total.Add(et.Weightage)
		}
	}
	if !total.Equal(hundred) {
		return &ValidationError{
			Detail: fmt.Sprintf("included exam type weightage must total 100, got %s", total.String()),
		}
	}
	return nil
}

// FeePolicyValidator checks the structural invariants of a fee policy:
// discount percentages within [0,100], a positive installment count when
// installments are enabled, and a non-negative late-fee value.
func FeePolicyValidator(payload json.RawMessage) error {
	var p FeePolicy
	if err := json.Unmarshal(payload, &p); err != nil {
		return &ValidationError{Detail: "fee policy payload is malformed: " + err.Error()}
	}

	for _, d := range p.Discounts {
		if d.Percentage.IsNegative() || d.Percentage.GreaterThan(hundred) {
			return &ValidationError{
				Detail: fmt.Sprintf("discount %q percentage must be between 0 and 100, got %s", d.Name, d.Percentage.String()),
			}
		}
	}
	if p.Installments.Enabled && p.Installments.Count < 1 {
		return &ValidationError{Detail: "installment count must be at least 1 when installments are enabled"}
	}
	if p.LateFee.Value.IsNegative() {
		return &ValidationError{Detail: "late fee value must not be negative"}
	}
	return nil
}

// HostelConfigValidator requires an enabled hostel configuration to allow at
// least one bed per room.
func HostelConfigValidator(payload json.RawMessage) error {
	var p HostelConfig
	if err := json.Unmarshal(payload, &p); err != nil {
		return &ValidationError{Detail: "hostel configuration payload is malformed: " + err.Error()}
	}
	if p.Enabled && p.MaxBedsPerRoom < 1 {
		return &ValidationError{Detail: "max beds per room must be at least 1 when hostels are enabled"}
	}
	return nil
}

// validatePayloadShape rejects a save whose payload does not unmarshal into
// the domain's structured type. Domains without a structured payload accept
// any JSON object.
func validatePayloadShape(domain Domain, payload json.RawMessage) error {
	if len(payload) == 0 || !json.Valid(payload) {
		return &ValidationError{Detail: "payload must be a valid JSON document"}
	}

	var err error
	switch domain {
	case DomainExam:
		err = json.Unmarshal(payload, &ExamPolicy{})
	case DomainFee:
		err = json.Unmarshal(payload, &FeePolicy{})
	case DomainHostel:
		err = json.Unmarshal(payload, &HostelConfig{})
	default:
		err = json.Unmarshal(payload, &map[string]interface{}{})
	}
	if err != nil {
		return &ValidationError{Detail: fmt.Sprintf("%s payload is malformed: %v", domain, err)}
	}
	return nil
}
