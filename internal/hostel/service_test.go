package hostel

import (
	"encoding/json"
	"errors"
	"testing"

	"policy-service/internal/model"
	"policy-service/internal/policy"

	"github.com/shopspring/decimal"
)

func uintPtr(v uint) *uint {
	return &v
}

func storeWithConfig(t *testing.T, branchID uint, cfg policy.HostelConfig) *policy.MemoryStore {
	t.Helper()
	store := policy.NewMemoryStore()
	payload, err := json.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal hostel config: %v", err)
	}
	err = store.CreateConfiguration(&model.Configuration{
		Domain:   string(policy.DomainHostel),
		OrgID:    1,
		BranchID: uintPtr(branchID),
		Payload:  payload,
	})
	if err != nil {
		t.Fatalf("seed hostel config: %v", err)
	}
	return store
}

func newService(store *policy.MemoryStore) *Service {
	return NewService(policy.NewResolver(store), store, 2000)
}

func baseConfig() policy.HostelConfig {
	return policy.HostelConfig{
		Enabled:        true,
		AllowedTypes:   []string{"boys", "girls"},
		MaxHostels:     2,
		MaxBedsPerRoom: 4,
		Fees: policy.RoomFees{
			Single:     decimal.NewFromInt(9000),
			Double:     decimal.NewFromInt(6000),
			Triple:     decimal.NewFromInt(4500),
			CourseFlat: decimal.NewFromInt(3000),
		},
		Safety: policy.SafetyRules{CurfewEnforced: true, FireSafetyChecks: true},
	}
}

func TestCreateHostelGeneratesRooms(t *testing.T) {
	store := storeWithConfig(t, 5, baseConfig())
	svc := newService(store)

	created, err := svc.CreateHostel(CreateRequest{
		OrgID:    1,
		BranchID: 5,
		Name:     "North Wing",
		Type:     "boys",
		Buildings: []BuildingSpec{
			{Code: "B-A", TotalFloors: 2, RoomsPerFloor: 2, BedsPerRoom: 2},
		},
	})
	if err != nil {
		t.Fatalf("create hostel: %v", err)
	}

	if len(created.Rooms) != 4 {
		t.Fatalf("expected 4 rooms, got %d", len(created.Rooms))
	}
	wantNumbers := []string{"A101", "A102", "A201", "A202"}
	for i, want := range wantNumbers {
		room := created.Rooms[i]
		if room.Number != want {
			t.Fatalf("room %d: expected number %s, got %s", i, want, room.Number)
		}
		if room.RoomType != model.RoomTypeDouble {
			t.Fatalf("room %s: expected Double, got %s", room.Number, room.RoomType)
		}
		if !room.Fee.Equal(decimal.NewFromInt(6000)) {
			t.Fatalf("room %s: expected double-room fee 6000, got %s", room.Number, room.Fee)
		}
		if room.Status != model.RoomStatusAvailable {
			t.Fatalf("room %s: expected available status, got %s", room.Number, room.Status)
		}
	}

	// Safety posture is a snapshot of the configuration at creation.
	if !created.CurfewEnforced || !created.FireSafetyChecks {
		t.Fatal("expected safety flags snapshotted from configuration")
	}
	if created.VisitorLogging {
		t.Fatal("unset safety flag must stay unset")
	}
}

func TestCreateHostelFeeFallsBackToCourseFlat(t *testing.T) {
	cfg := baseConfig()
	cfg.Fees.Dormitory = decimal.Zero // unset, falls back to course flat
	store := storeWithConfig(t, 5, cfg)

	created, err := newService(store).CreateHostel(CreateRequest{
		OrgID:    1,
		BranchID: 5,
		Name:     "Dorm Block",
		Type:     "boys",
		Buildings: []BuildingSpec{
			{Code: "B-D", TotalFloors: 1, RoomsPerFloor: 1, BedsPerRoom: 4},
		},
	})
	if err != nil {
		t.Fatalf("create hostel: %v", err)
	}
	if created.Rooms[0].RoomType != model.RoomTypeDormitory {
		t.Fatalf("expected Dormitory for 4 beds, got %s", created.Rooms[0].RoomType)
	}
	if !created.Rooms[0].Fee.Equal(decimal.NewFromInt(3000)) {
		t.Fatalf("expected course-flat fallback fee 3000, got %s", created.Rooms[0].Fee)
	}
}

func TestCreateHostelRequiresConfiguration(t *testing.T) {
	store := policy.NewMemoryStore()

	_, err := newService(store).CreateHostel(CreateRequest{OrgID: 1, BranchID: 5, Name: "X", Type: "boys"})
	var notFound *policy.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError without configuration, got %v", err)
	}
}

func TestCreateHostelDisabledConfiguration(t *testing.T) {
	cfg := baseConfig()
	cfg.Enabled = false
	store := storeWithConfig(t, 5, cfg)

	_, err := newService(store).CreateHostel(CreateRequest{OrgID: 1, BranchID: 5, Name: "X", Type: "boys"})
	var validation *policy.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for disabled module, got %v", err)
	}
}

func TestCreateHostelTypeNotAllowed(t *testing.T) {
	store := storeWithConfig(t, 5, baseConfig())

	_, err := newService(store).CreateHostel(CreateRequest{OrgID: 1, BranchID: 5, Name: "X", Type: "staff"})
	var validation *policy.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for disallowed type, got %v", err)
	}
}

func TestCreateHostelCapacityExceeded(t *testing.T) {
	store := storeWithConfig(t, 5, baseConfig())

	_, err := newService(store).CreateHostel(CreateRequest{
		OrgID:    1,
		BranchID: 5,
		Name:     "X",
		Type:     "boys",
		Buildings: []BuildingSpec{
			{Code: "B-A", TotalFloors: 1, RoomsPerFloor: 1, BedsPerRoom: 6},
		},
	})
	var validation *policy.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for capacity above 4 beds, got %v", err)
	}

	count, _ := store.CountHostels(1, 5)
	if count != 0 {
		t.Fatalf("failed creation must persist nothing, found %d hostels", count)
	}
}

func TestCreateHostelExplicitRoomCapacityChecked(t *testing.T) {
	store := storeWithConfig(t, 5, baseConfig())

	_, err := newService(store).CreateHostel(CreateRequest{
		OrgID:    1,
		BranchID: 5,
		Name:     "X",
		Type:     "boys",
		Rooms: []RoomSpec{
			{Number: "A101", Capacity: 9, RoomType: model.RoomTypeDormitory},
		},
	})
	var validation *policy.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for explicit room over capacity, got %v", err)
	}
}

func TestCreateHostelExplicitRoomsUsedVerbatim(t *testing.T) {
	store := storeWithConfig(t, 5, baseConfig())

	created, err := newService(store).CreateHostel(CreateRequest{
		OrgID:    1,
		BranchID: 5,
		Name:     "Annex",
		Type:     "girls",
		Buildings: []BuildingSpec{
			{Code: "B-A", TotalFloors: 3, RoomsPerFloor: 10, BedsPerRoom: 2},
		},
		Rooms: []RoomSpec{
			{Number: "G-1", BuildingCode: "B-A", Floor: 1, RoomType: model.RoomTypeSingle, Capacity: 1, Fee: decimal.NewFromInt(100)},
		},
	})
	if err != nil {
		t.Fatalf("create hostel: %v", err)
	}
	if len(created.Rooms) != 1 {
		t.Fatalf("explicit rooms must suppress template expansion, got %d rooms", len(created.Rooms))
	}
	if created.Rooms[0].Number != "G-1" {
		t.Fatalf("expected verbatim room number G-1, got %s", created.Rooms[0].Number)
	}
}

func TestCreateHostelMaxHostelsLimit(t *testing.T) {
	store := storeWithConfig(t, 5, baseConfig())
	svc := newService(store)

	req := CreateRequest{
		OrgID:    1,
		BranchID: 5,
		Type:     "boys",
		Buildings: []BuildingSpec{
			{Code: "B-A", TotalFloors: 1, RoomsPerFloor: 1, BedsPerRoom: 1},
		},
	}
	for i, name := range []string{"First", "Second"} {
		req.Name = name
		if _, err := svc.CreateHostel(req); err != nil {
			t.Fatalf("hostel %d: %v", i+1, err)
		}
	}

	req.Name = "Third"
	_, err := svc.CreateHostel(req)
	var limit *policy.ConfigurationLimitError
	if !errors.As(err, &limit) {
		t.Fatalf("expected ConfigurationLimitError at the cap, got %v", err)
	}

	count, _ := store.CountHostels(1, 5)
	if count != 2 {
		t.Fatalf("rejected creation must persist nothing, found %d hostels", count)
	}
}

func TestCreateHostelRoomBound(t *testing.T) {
	store := storeWithConfig(t, 5, baseConfig())
	svc := NewService(policy.NewResolver(store), store, 100)

	_, err := svc.CreateHostel(CreateRequest{
		OrgID:    1,
		BranchID: 5,
		Name:     "Huge",
		Type:     "boys",
		Buildings: []BuildingSpec{
			{Code: "B-A", TotalFloors: 20, RoomsPerFloor: 20, BedsPerRoom: 2},
		},
	})
	var validation *policy.ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError for 400 planned rooms over the 100 bound, got %v", err)
	}
}

func TestUpdateBuildingsRegeneratesRooms(t *testing.T) {
	store := storeWithConfig(t, 5, baseConfig())
	svc := newService(store)

	created, err := svc.CreateHostel(CreateRequest{
		OrgID:    1,
		BranchID: 5,
		Name:     "North Wing",
		Type:     "boys",
		Buildings: []BuildingSpec{
			{Code: "B-A", TotalFloors: 2, RoomsPerFloor: 2, BedsPerRoom: 2},
		},
	})
	if err != nil {
		t.Fatalf("create hostel: %v", err)
	}

	updated, err := svc.UpdateBuildings(created.ID, 1, []BuildingSpec{
		{Code: "B-B", TotalFloors: 1, RoomsPerFloor: 3, BedsPerRoom: 1},
	})
	if err != nil {
		t.Fatalf("update buildings: %v", err)
	}
	if len(updated.Rooms) != 3 {
		t.Fatalf("expected rooms regenerated wholesale to 3, got %d", len(updated.Rooms))
	}
	if updated.Rooms[0].Number != "B101" || updated.Rooms[0].RoomType != model.RoomTypeSingle {
		t.Fatalf("unexpected regenerated room: %+v", updated.Rooms[0])
	}

	stored, err := store.GetHostel(created.ID, 1)
	if err != nil {
		t.Fatalf("get hostel: %v", err)
	}
	if len(stored.Rooms) != 3 {
		t.Fatalf("store must hold the regenerated inventory, got %d rooms", len(stored.Rooms))
	}
}

func TestGenerateRoomsSkipsZeroDimensionTemplates(t *testing.T) {
	rooms := GenerateRooms([]BuildingSpec{
		{Code: "B-A", TotalFloors: 0, RoomsPerFloor: 5, BedsPerRoom: 2},
		{Code: "B-B", TotalFloors: 1, RoomsPerFloor: 0, BedsPerRoom: 2},
		{Code: "B-C", TotalFloors: 1, RoomsPerFloor: 1, BedsPerRoom: 0},
	}, policy.RoomFees{})
	if len(rooms) != 0 {
		t.Fatalf("zero-dimension templates must generate nothing, got %d rooms", len(rooms))
	}
}

func TestRoomTypeForBeds(t *testing.T) {
	tests := []struct {
		beds int
		want string
	}{
		{1, model.RoomTypeSingle},
		{2, model.RoomTypeDouble},
		{3, model.RoomTypeTriple},
		{4, model.RoomTypeDormitory},
		{8, model.RoomTypeDormitory},
	}
	for _, tt := range tests {
		if got := RoomTypeForBeds(tt.beds); got != tt.want {
			t.Fatalf("RoomTypeForBeds(%d) = %s, want %s", tt.beds, got, tt.want)
		}
	}
}
