package policy

import (
	"policy-service/internal/latefee"

	"github.com/shopspring/decimal"
)

// ExamType is one weighted assessment category inside an exam policy.
type ExamType struct {
	Name       string          `json:"name"`
	Weightage  decimal.Decimal `json:"weightage"`
	IsIncluded bool            `json:"is_included"`
}

// GradeBand maps a score range to a grade label.
type GradeBand struct {
	Grade string          `json:"grade"`
	Min   decimal.Decimal `json:"min"`
	Max   decimal.Decimal `json:"max"`
}

// ExamPolicy is the payload for the exam domain.
type ExamPolicy struct {
	ExamTypes           []ExamType      `json:"exam_types"`
	GradeBands          []GradeBand     `json:"grade_bands"`
	PromotionMinPercent decimal.Decimal `json:"promotion_min_percent"`
	ResultsVisible      bool            `json:"results_visible"`
}

// InstallmentRule controls how a fee may be split across installments.
type InstallmentRule struct {
	Enabled bool `json:"enabled"`
	Count   int  `json:"count"`
}

// DiscountRule is one named percentage discount.
type DiscountRule struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
}

// RefundRule controls how refunds are handled.
type RefundRule struct {
	Mode string `json:"mode"`
}

// FeePolicy is the payload for the fee domain.
type FeePolicy struct {
	Installments InstallmentRule `json:"installments"`
	LateFee      latefee.Rule    `json:"late_fee"`
	Discounts    []DiscountRule  `json:"discounts"`
	Refund       RefundRule      `json:"refund"`
}

// RoomFees maps room types to their per-term fee. CourseFlat is the fallback
// charged when the type-specific fee is unset.
type RoomFees struct {
	Single     decimal.Decimal `json:"single"`
	Double     decimal.Decimal `json:"double"`
	Triple     decimal.Decimal `json:"triple"`
	Dormitory  decimal.Decimal `json:"dormitory"`
	CourseFlat decimal.Decimal `json:"course_flat"`
}

// SafetyRules are the posture flags snapshotted onto a hostel at creation.
type SafetyRules struct {
	CurfewEnforced   bool `json:"curfew_enforced"`
	VisitorLogging   bool `json:"visitor_logging"`
	BiometricEntry   bool `json:"biometric_entry"`
	WardenPerFloor   bool `json:"warden_per_floor"`
	FireSafetyChecks bool `json:"fire_safety_checks"`
}

// HostelConfig is the payload for the hostel domain.
type HostelConfig struct {
	Enabled        bool        `json:"enabled"`
	AllowedTypes   []string    `json:"allowed_types"`
	MaxHostels     int         `json:"max_hostels"`
	MaxBedsPerRoom int         `json:"max_beds_per_room"`
	Fees           RoomFees    `json:"fees"`
	Safety         SafetyRules `json:"safety"`
}
