package policy

import (
	"encoding/json"
	"testing"
)

func TestExamWeightageValidator(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "included total 100 passes",
			payload: `{"exam_types":[{"weightage":60,"is_included":true},{"weightage":40,"is_included":true}]}`,
		},
		{
			name:    "excluded types do not count",
			payload: `{"exam_types":[{"weightage":100,"is_included":true},{"weightage":50,"is_included":false}]}`,
		},
		{
			name:    "fractional weightages summing to 100 pass",
			payload: `{"exam_types":[{"weightage":33.5,"is_included":true},{"weightage":66.5,"is_included":true}]}`,
		},
		{
			name:    "total under 100 fails",
			payload: `{"exam_types":[{"weightage":40,"is_included":true}]}`,
			wantErr: true,
		},
		{
			name:    "total over 100 fails",
			payload: `{"exam_types":[{"weightage":60,"is_included":true},{"weightage":60,"is_included":true}]}`,
			wantErr: true,
		},
		{
			name:    "no included types fails",
			payload: `{"exam_types":[]}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ExamWeightageValidator(json.RawMessage(tt.payload))
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFeePolicyValidator(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{
			name:    "empty policy passes",
			payload: `{}`,
		},
		{
			name:    "discount above 100 fails",
			payload: `{"discounts":[{"name":"sibling","percentage":120}]}`,
			wantErr: true,
		},
		{
			name:    "negative discount fails",
			payload: `{"discounts":[{"name":"sibling","percentage":-5}]}`,
			wantErr: true,
		},
		{
			name:    "enabled installments need a count",
			payload: `{"installments":{"enabled":true,"count":0}}`,
			wantErr: true,
		},
		{
			name:    "negative late fee value fails",
			payload: `{"late_fee":{"enabled":true,"value":-10}}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := FeePolicyValidator(json.RawMessage(tt.payload))
			if tt.wantErr && err == nil {
				t.Fatal("expected validation error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestHostelConfigValidator(t *testing.T) {
	if err := HostelConfigValidator(json.RawMessage(`{"enabled":true,"max_beds_per_room":0}`)); err == nil {
		t.Fatal("enabled configuration with zero beds per room must fail")
	}
	if err := HostelConfigValidator(json.RawMessage(`{"enabled":false,"max_beds_per_room":0}`)); err != nil {
		t.Fatalf("disabled configuration is not constrained: %v", err)
	}
}
