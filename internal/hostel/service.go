// Package hostel validates hostel-creation requests against the branch hostel
// configuration and expands building templates into room inventory.
package hostel

import (
	"encoding/json"
	"fmt"

	"policy-service/internal/model"
	"policy-service/internal/policy"

	"github.com/shopspring/decimal"
)

// ConfigResolver supplies the effective configuration for a scope.
type ConfigResolver interface {
	Resolve(domain policy.Domain, scope policy.Scope) (*model.Configuration, string, error)
}

// Store is the persistence surface hostel creation needs.
type Store interface {
	CountHostels(orgID, branchID uint) (int64, error)
	CreateHostel(h *model.Hostel) error
	GetHostel(id, orgID uint) (*model.Hostel, error)
	RegenerateHostel(h *model.Hostel) error
}

// RoomSpec is an explicit room supplied in a request, used verbatim instead of
// template expansion.
type RoomSpec struct {
	Number       string          `json:"number"`
	BuildingCode string          `json:"building_code"`
	Floor        int             `json:"floor"`
	RoomType     string          `json:"room_type"`
	Capacity     int             `json:"capacity"`
	Fee          decimal.Decimal `json:"fee"`
}

// CreateRequest carries everything needed to create a hostel for a branch.
type CreateRequest struct {
	OrgID     uint
	BranchID  uint
	Name      string
	Type      string
	Buildings []BuildingSpec
	Rooms     []RoomSpec
}

// Service runs the validation gate and room generation for hostels.
type Service struct {
	resolver ConfigResolver
	store    Store
	maxRooms int
}

// NewService returns a hostel service. maxRooms bounds the rooms one request
// may generate; values below 1 fall back to 2000.
func NewService(resolver ConfigResolver, store Store, maxRooms int) *Service {
	if maxRooms < 1 {
		maxRooms = 2000
	}
	return &Service{resolver: resolver, store: store, maxRooms: maxRooms}
}

// CreateHostel validates the request against the branch hostel configuration
// and persists the hostel with its generated rooms. Every check runs before
// any write; a failure leaves nothing behind.
func (s *Service) CreateHostel(req CreateRequest) (*model.Hostel, error) {
	cfg, err := s.branchConfig(req.OrgID, req.BranchID)
	if err != nil {
		return nil, err
	}

	if err := s.checkType(cfg, req.Type); err != nil {
		return nil, err
	}

	count, err := s.store.CountHostels(req.OrgID, req.BranchID)
	if err != nil {
		return nil, err
	}
	if count >= int64(cfg.MaxHostels) {
		return nil, &policy.ConfigurationLimitError{
			Detail: fmt.Sprintf("branch already has %d of %d allowed hostels", count, cfg.MaxHostels),
		}
	}

	rooms, err := s.buildRooms(req, cfg)
	if err != nil {
		return nil, err
	}

	hostel := &model.Hostel{
		OrgID:    req.OrgID,
		BranchID: req.BranchID,
		Name:     req.Name,
		Type:     req.Type,
		Rooms:    rooms,

		// Safety posture is snapshotted here so later configuration edits do
		// not retroactively change an existing hostel.
		CurfewEnforced:   cfg.Safety.CurfewEnforced,
		VisitorLogging:   cfg.Safety.VisitorLogging,
		BiometricEntry:   cfg.Safety.BiometricEntry,
		WardenPerFloor:   cfg.Safety.WardenPerFloor,
		FireSafetyChecks: cfg.Safety.FireSafetyChecks,
	}
	for _, b := range req.Buildings {
		hostel.Buildings = append(hostel.Buildings, model.Building{
			Code:          b.Code,
			TotalFloors:   b.TotalFloors,
			RoomsPerFloor: b.RoomsPerFloor,
			BedsPerRoom:   b.BedsPerRoom,
			WardenID:      b.WardenID,
		})
	}

	if err := s.store.CreateHostel(hostel); err != nil {
		return nil, err
	}
	return hostel, nil
}

// UpdateBuildings replaces a hostel's building templates and regenerates its
// room inventory wholesale under the current branch configuration.
func (s *Service) UpdateBuildings(hostelID, orgID uint, buildings []BuildingSpec) (*model.Hostel, error) {
	hostel, err := s.store.GetHostel(hostelID, orgID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.branchConfig(orgID, hostel.BranchID)
	if err != nil {
		return nil, err
	}

	rooms, err := s.buildRooms(CreateRequest{Buildings: buildings}, cfg)
	if err != nil {
		return nil, err
	}

	hostel.Buildings = nil
	for _, b := range buildings {
		hostel.Buildings = append(hostel.Buildings, model.Building{
			HostelID:      hostel.ID,
			Code:          b.Code,
			TotalFloors:   b.TotalFloors,
			RoomsPerFloor: b.RoomsPerFloor,
			BedsPerRoom:   b.BedsPerRoom,
			WardenID:      b.WardenID,
		})
	}
	hostel.Rooms = nil
	for _, r := range rooms {
		r.HostelID = hostel.ID
		hostel.Rooms = append(hostel.Rooms, r)
	}

	if err := s.store.RegenerateHostel(hostel); err != nil {
		return nil, err
	}
	return hostel, nil
}

func (s *Service) branchConfig(orgID, branchID uint) (*policy.HostelConfig, error) {
	scope := policy.Scope{OrgID: orgID, BranchID: &branchID}
	cfg, tier, err := s.resolver.Resolve(policy.DomainHostel, scope)
	if err != nil {
		return nil, err
	}
	if policy.IsDefault(tier) {
		return nil, &policy.NotFoundError{Detail: "configure hostel setup first"}
	}

	var hc policy.HostelConfig
	if err := json.Unmarshal(cfg.Payload, &hc); err != nil {
		return nil, fmt.Errorf("stored hostel configuration is unreadable: %w", err)
	}
	return &hc, nil
}

func (s *Service) checkType(cfg *policy.HostelConfig, hostelType string) error {
	if !cfg.Enabled {
		return &policy.ValidationError{Detail: "hostel module is disabled for this branch"}
	}
	for _, allowed := range cfg.AllowedTypes {
		if allowed == hostelType {
			return nil
		}
	}
	return &policy.ValidationError{
		Detail: fmt.Sprintf("hostel type %q is not allowed for this branch", hostelType),
	}
}

// buildRooms returns the room list for a request: explicit rooms verbatim when
// supplied, template expansion otherwise. Capacity and room-count bounds are
// checked here, before anything is written.
func (s *Service) buildRooms(req CreateRequest, cfg *policy.HostelConfig) ([]model.Room, error) {
	if len(req.Rooms) > 0 {
		rooms := make([]model.Room, 0, len(req.Rooms))
		for _, r := range req.Rooms {
			if r.Capacity > cfg.MaxBedsPerRoom {
				return nil, &policy.ValidationError{
					Detail: fmt.Sprintf("room %s capacity %d exceeds the configured maximum of %d beds", r.Number, r.Capacity, cfg.MaxBedsPerRoom),
				}
			}
			rooms = append(rooms, model.Room{
				Number:       r.Number,
				BuildingCode: r.BuildingCode,
				Floor:        r.Floor,
				RoomType:     r.RoomType,
				Capacity:     r.Capacity,
				Fee:          r.Fee,
				Status:       model.RoomStatusAvailable,
			})
		}
		return rooms, nil
	}

	planned := 0
	for _, b := range req.Buildings {
		if b.BedsPerRoom > cfg.MaxBedsPerRoom {
			return nil, &policy.ValidationError{
				Detail: fmt.Sprintf("building %s beds per room %d exceeds the configured maximum of %d", b.Code, b.BedsPerRoom, cfg.MaxBedsPerRoom),
			}
		}
		if b.TotalFloors > 0 && b.RoomsPerFloor > 0 && b.BedsPerRoom > 0 {
			planned += b.TotalFloors * b.RoomsPerFloor
		}
	}
	if planned > s.maxRooms {
		return nil, &policy.ValidationError{
			Detail: fmt.Sprintf("request would generate %d rooms, more than the %d allowed per request", planned, s.maxRooms),
		}
	}

	return GenerateRooms(req.Buildings, cfg.Fees), nil
}
