package hostel

import (
	"fmt"
	"strings"

	"policy-service/internal/model"
	"policy-service/internal/policy"

	"github.com/shopspring/decimal"
)

// BuildingSpec is one block template supplied in a hostel request.
type BuildingSpec struct {
	Code          string `json:"code"`
	TotalFloors   int    `json:"total_floors"`
	RoomsPerFloor int    `json:"rooms_per_floor"`
	BedsPerRoom   int    `json:"beds_per_room"`
	WardenID      *uint  `json:"warden_id,omitempty"`
}

// RoomTypeForBeds maps bed count to the room type charged for it
func RoomTypeForBeds(beds int) string {
	switch {
	case beds <= 1:
		return model.RoomTypeSingle
	case beds == 2:
		return model.RoomTypeDouble
	case beds == 3:
		return model.RoomTypeTriple
	default:
		return model.RoomTypeDormitory
	}
}

// FeeForRoomType returns the configured fee for a room type, falling back to
// the flat course fee when the type-specific fee is unset.
func FeeForRoomType(fees policy.RoomFees, roomType string) decimal.Decimal {
	var fee decimal.Decimal
	switch roomType {
	case model.RoomTypeSingle:
		fee = fees.Single
	case model.RoomTypeDouble:
		fee = fees.Double
	case model.RoomTypeTriple:
		fee = fees.Triple
	default:
		fee = fees.Dormitory
	}
	if fee.IsZero() {
		return fees.CourseFlat
	}
	return fee
}

// blockIdentifier strips the "B-" building prefix from a code; codes without
// the prefix are used as-is.
func blockIdentifier(code string) string {
	if trimmed := strings.TrimPrefix(code, "B-"); trimmed != "" {
		return trimmed
	}
	return code
}

// GenerateRooms deterministically expands building templates into room
// inventory. One room is generated per (floor, index) pair, numbered with the
// block identifier, the floor number and a two-digit 1-based index, e.g.
// "A101" for block A, floor 1, room 1. Templates with a zero dimension
// generate nothing.
func GenerateRooms(buildings []BuildingSpec, fees policy.RoomFees) []model.Room {
	var rooms []model.Room
	for _, b := range buildings {
		if b.TotalFloors <= 0 || b.RoomsPerFloor <= 0 || b.BedsPerRoom <= 0 {
			continue
		}

		block := blockIdentifier(b.Code)
		roomType := RoomTypeForBeds(b.BedsPerRoom)
		fee := FeeForRoomType(fees, roomType)

		for floor := 1; floor <= b.TotalFloors; floor++ {
			for idx := 1; idx <= b.RoomsPerFloor; idx++ {
				rooms = append(rooms, model.Room{
					Number:       fmt.Sprintf("%s%d%02d", block, floor, idx),
					BuildingCode: b.Code,
					Floor:        floor,
					RoomType:     roomType,
					Capacity:     b.BedsPerRoom,
					Fee:          fee,
					Status:       model.RoomStatusAvailable,
				})
			}
		}
	}
	return rooms
}
