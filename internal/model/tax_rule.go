package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Tax rule kinds
const (
	TaxKindPercentage = "percentage"
	TaxKindFlat       = "flat"
)

// TaxAppliesAll marks a rule that applies to every charge category
const TaxAppliesAll = "all"

// TaxRule is one named levy applied to amounts charged under a branch
type TaxRule struct {
	ID        uint            `json:"id" gorm:"primarykey"`
	OrgID     uint            `json:"org_id" gorm:"index;not null"`
	BranchID  uint            `json:"branch_id" gorm:"not null;uniqueIndex:idx_tax_branch_code"`
	Name      string          `json:"name" gorm:"type:varchar(100);not null"`
	Code      string          `json:"code" gorm:"type:varchar(50);not null;uniqueIndex:idx_tax_branch_code"`
	Rate      decimal.Decimal `json:"rate" gorm:"type:decimal(10,4);not null"`
	Kind      string          `json:"kind" gorm:"type:varchar(20);not null;default:'percentage'"`
	AppliesTo string          `json:"applies_to" gorm:"type:varchar(50);not null;default:'all'"`
	Active    bool            `json:"active" gorm:"default:true"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
	DeletedAt gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}
