package policy

import (
	"fmt"
	"sync"
	"time"

	"policy-service/internal/model"
)

// MemoryStore is an in-process Store with the same semantics as the Postgres
// store: scope uniqueness, versioned writes, creation-order rule listing and
// all-or-nothing hostel creation. Engine tests run against it.
type MemoryStore struct {
	mu sync.Mutex

	nextConfigID uint
	configs      map[string]*model.Configuration

	nextRuleID uint
	taxRules   []model.TaxRule

	nextHostelID uint
	hostels      map[uint]*model.Hostel
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextConfigID: 1,
		configs:      map[string]*model.Configuration{},
		nextRuleID:   1,
		nextHostelID: 1,
		hostels:      map[uint]*model.Hostel{},
	}
}

func scopeKey(domain Domain, scope Scope) string {
	branch := "-"
	if scope.BranchID != nil {
		branch = fmt.Sprintf("%d", *scope.BranchID)
	}
	return fmt.Sprintf("%s|%d|%s|%s", domain, scope.OrgID, branch, scope.SecondaryKey)
}

func copyConfig(cfg *model.Configuration) *model.Configuration {
	dup := *cfg
	dup.Payload = append([]byte(nil), cfg.Payload...)
	return &dup
}

// GetConfiguration returns a snapshot of the stored record for an exact scope
func (s *MemoryStore) GetConfiguration(domain Domain, scope Scope) (*model.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, ok := s.configs[scopeKey(domain, scope)]
	if !ok {
		return nil, &NotFoundError{Detail: fmt.Sprintf("no %s configuration for %s", domain, scope)}
	}
	return copyConfig(cfg), nil
}

// CreateConfiguration inserts a new record, enforcing scope uniqueness
func (s *MemoryStore) CreateConfiguration(cfg *model.Configuration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scopeKey(Domain(cfg.Domain), Scope{OrgID: cfg.OrgID, BranchID: cfg.BranchID, SecondaryKey: cfg.SecondaryKey})
	if _, exists := s.configs[key]; exists {
		return &ConflictError{Detail: fmt.Sprintf("a %s configuration already exists for this scope", cfg.Domain)}
	}

	if cfg.Version == "" {
		cfg.Version = InitialVersion
	}
	cfg.ID = s.nextConfigID
	s.nextConfigID++
	now := time.Now()
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	s.configs[key] = copyConfig(cfg)
	return nil
}

// UpdateConfigurationVersioned applies a versioned write, bumping the stamp
func (s *MemoryStore) UpdateConfigurationVersioned(cfg *model.Configuration, expectedVersion string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for key, stored := range s.configs {
		if stored.ID != cfg.ID {
			continue
		}
		if stored.Version != expectedVersion {
			return &ConflictError{
				Detail: fmt.Sprintf("version %s is no longer current for the %s configuration; re-read and retry", expectedVersion, cfg.Domain),
			}
		}
		updated := copyConfig(cfg)
		updated.Version = bumpVersion(expectedVersion)
		updated.CreatedAt = stored.CreatedAt
		updated.UpdatedAt = time.Now()
		s.configs[key] = updated
		cfg.Version = updated.Version
		return nil
	}
	return &NotFoundError{Detail: fmt.Sprintf("no %s configuration with id %d", cfg.Domain, cfg.ID)}
}

// AddTaxRule seeds a rule, assigning creation order
func (s *MemoryStore) AddTaxRule(rule model.TaxRule) model.TaxRule {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule.ID = s.nextRuleID
	s.nextRuleID++
	s.taxRules = append(s.taxRules, rule)
	return rule
}

// ActiveTaxRules returns the active rules for a branch in creation order
func (s *MemoryStore) ActiveTaxRules(orgID, branchID uint) ([]model.TaxRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rules []model.TaxRule
	for _, r := range s.taxRules {
		if r.OrgID == orgID && r.BranchID == branchID && r.Active {
			rules = append(rules, r)
		}
	}
	return rules, nil
}

// CountHostels counts hostels for a branch
func (s *MemoryStore) CountHostels(orgID, branchID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, h := range s.hostels {
		if h.OrgID == orgID && h.BranchID == branchID {
			count++
		}
	}
	return count, nil
}

// CreateHostel stores a hostel with its buildings and rooms atomically
func (s *MemoryStore) CreateHostel(h *model.Hostel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h.ID = s.nextHostelID
	s.nextHostelID++
	now := time.Now()
	h.CreatedAt = now
	h.UpdatedAt = now

	dup := *h
	dup.Buildings = append([]model.Building(nil), h.Buildings...)
	dup.Rooms = append([]model.Room(nil), h.Rooms...)
	s.hostels[h.ID] = &dup
	return nil
}

// GetHostel returns a snapshot of a stored hostel
func (s *MemoryStore) GetHostel(id, orgID uint) (*model.Hostel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hostels[id]
	if !ok || h.OrgID != orgID {
		return nil, &NotFoundError{Detail: fmt.Sprintf("hostel %d not found", id)}
	}
	dup := *h
	dup.Buildings = append([]model.Building(nil), h.Buildings...)
	dup.Rooms = append([]model.Room(nil), h.Rooms...)
	return &dup, nil
}

// RegenerateHostel replaces a hostel's buildings and rooms wholesale
func (s *MemoryStore) RegenerateHostel(h *model.Hostel) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.hostels[h.ID]
	if !ok {
		return &NotFoundError{Detail: fmt.Sprintf("hostel %d not found", h.ID)}
	}
	dup := *h
	dup.CreatedAt = stored.CreatedAt
	dup.UpdatedAt = time.Now()
	dup.Buildings = append([]model.Building(nil), h.Buildings...)
	dup.Rooms = append([]model.Room(nil), h.Rooms...)
	s.hostels[h.ID] = &dup
	return nil
}
