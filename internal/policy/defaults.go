package policy

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// DefaultPayload returns the built-in payload a non-persisted default
// configuration carries for a domain. Domains without a structured payload get
// an empty object.
func DefaultPayload(domain Domain) json.RawMessage {
	var payload interface{}
	switch domain {
	case DomainExam:
		payload = ExamPolicy{
			ExamTypes: []ExamType{},
			GradeBands: []GradeBand{
				{Grade: "A", Min: decimal.NewFromInt(80), Max: decimal.NewFromInt(100)},
				{Grade: "B", Min: decimal.NewFromInt(65), Max: decimal.NewFromInt(79)},
				{Grade: "C", Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(64)},
				{Grade: "D", Min: decimal.NewFromInt(40), Max: decimal.NewFromInt(49)},
				{Grade: "F", Min: decimal.NewFromInt(0), Max: decimal.NewFromInt(39)},
			},
			PromotionMinPercent: decimal.NewFromInt(40),
			ResultsVisible:      false,
		}
	case DomainFee:
		payload = FeePolicy{
			Installments: InstallmentRule{Enabled: false, Count: 1},
			Discounts:    []DiscountRule{},
			Refund:       RefundRule{Mode: "manual"},
		}
	case DomainHostel:
		payload = HostelConfig{
			Enabled:        false,
			AllowedTypes:   []string{},
			MaxHostels:     0,
			MaxBedsPerRoom: 4,
		}
	default:
		return json.RawMessage(`{}`)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		// The default payloads are static structs; marshalling cannot fail.
		return json.RawMessage(`{}`)
	}
	return raw
}
