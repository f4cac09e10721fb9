package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Room types derived from beds per room
const (
	RoomTypeSingle    = "Single"
	RoomTypeDouble    = "Double"
	RoomTypeTriple    = "Triple"
	RoomTypeDormitory = "Dormitory"
)

// Room statuses
const (
	RoomStatusAvailable = "available"
	RoomStatusOccupied  = "occupied"
)

// Building is one block template inside a hostel. Rooms are expanded from it.
type Building struct {
	ID            uint   `json:"id" gorm:"primarykey"`
	HostelID      uint   `json:"hostel_id" gorm:"index;not null"`
	Code          string `json:"code" gorm:"type:varchar(20);not null"`
	TotalFloors   int    `json:"total_floors" gorm:"default:0"`
	RoomsPerFloor int    `json:"rooms_per_floor" gorm:"default:0"`
	BedsPerRoom   int    `json:"beds_per_room" gorm:"default:0"`
	WardenID      *uint  `json:"warden_id"`
}

// Room is generated inventory owned by a hostel. Rooms are regenerated wholesale
// whenever the owning hostel's building templates change, never edited one by one.
type Room struct {
	ID           uint            `json:"id" gorm:"primarykey"`
	HostelID     uint            `json:"hostel_id" gorm:"index;not null"`
	Number       string          `json:"number" gorm:"type:varchar(20);not null"`
	BuildingCode string          `json:"building_code" gorm:"type:varchar(20);not null"`
	Floor        int             `json:"floor" gorm:"not null"`
	RoomType     string          `json:"room_type" gorm:"type:varchar(20);not null"`
	Capacity     int             `json:"capacity" gorm:"not null"`
	Fee          decimal.Decimal `json:"fee" gorm:"type:decimal(12,2);not null"`
	Status       string          `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
}

// Hostel is one residential building group for a branch. Safety flags are a
// snapshot of the branch hostel configuration taken at creation time.
type Hostel struct {
	ID       uint   `json:"id" gorm:"primarykey"`
	OrgID    uint   `json:"org_id" gorm:"index;not null"`
	BranchID uint   `json:"branch_id" gorm:"index;not null"`
	Name     string `json:"name" gorm:"type:varchar(100);not null"`
	Type     string `json:"type" gorm:"type:varchar(20);not null"`

	Buildings []Building `json:"buildings" gorm:"foreignKey:HostelID;constraint:OnDelete:CASCADE"`
	Rooms     []Room     `json:"rooms" gorm:"foreignKey:HostelID;constraint:OnDelete:CASCADE"`

	// Safety posture snapshotted from the hostel configuration.
	CurfewEnforced   bool `json:"curfew_enforced"`
	VisitorLogging   bool `json:"visitor_logging"`
	BiometricEntry   bool `json:"biometric_entry"`
	WardenPerFloor   bool `json:"warden_per_floor"`
	FireSafetyChecks bool `json:"fire_safety_checks"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
