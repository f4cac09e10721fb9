package policy

import (
	"errors"
	"fmt"

	"policy-service/internal/model"

	"gorm.io/gorm"
)

// Store is the persistence surface the engine needs. Writes against a
// configuration are versioned: the store accepts them only when the caller's
// expected version still matches, and bumps the stamp atomically on success.
type Store interface {
	GetConfiguration(domain Domain, scope Scope) (*model.Configuration, error)
	CreateConfiguration(cfg *model.Configuration) error
	UpdateConfigurationVersioned(cfg *model.Configuration, expectedVersion string) error

	ActiveTaxRules(orgID, branchID uint) ([]model.TaxRule, error)

	CountHostels(orgID, branchID uint) (int64, error)
	CreateHostel(h *model.Hostel) error
	GetHostel(id, orgID uint) (*model.Hostel, error)
	RegenerateHostel(h *model.Hostel) error
}

// GormStore is the production Store backed by Postgres through gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps a gorm connection in a Store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) scopeQuery(domain Domain, scope Scope) *gorm.DB {
	q := s.db.Where("domain = ? AND org_id = ? AND secondary_key = ?",
		string(domain), scope.OrgID, scope.SecondaryKey)
	if scope.BranchID == nil {
		return q.Where("branch_id IS NULL")
	}
	return q.Where("branch_id = ?", *scope.BranchID)
}

// GetConfiguration returns the stored record for an exact scope
func (s *GormStore) GetConfiguration(domain Domain, scope Scope) (*model.Configuration, error) {
	var cfg model.Configuration
	result := s.scopeQuery(domain, scope).First(&cfg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Detail: fmt.Sprintf("no %s configuration for %s", domain, scope)}
		}
		return nil, result.Error
	}
	return &cfg, nil
}

// CreateConfiguration inserts a new record; a duplicate scope surfaces as a
// ConflictError.
func (s *GormStore) CreateConfiguration(cfg *model.Configuration) error {
	if cfg.Version == "" {
		cfg.Version = InitialVersion
	}
	result := s.db.Create(cfg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return &ConflictError{Detail: fmt.Sprintf("a %s configuration already exists for this scope", cfg.Domain)}
		}
		return result.Error
	}
	return nil
}

// UpdateConfigurationVersioned writes payload, lock state and audit fields,
// accepting the write only while the stored version still matches
// expectedVersion. The version stamp is bumped in the same statement.
func (s *GormStore) UpdateConfigurationVersioned(cfg *model.Configuration, expectedVersion string) error {
	newVersion := bumpVersion(expectedVersion)

	result := s.db.Model(&model.Configuration{}).
		Where("id = ? AND version = ?", cfg.ID, expectedVersion).
		Updates(map[string]interface{}{
			"payload":            cfg.Payload,
			"locked":             cfg.Locked,
			"version":            newVersion,
			"last_unlock_reason": cfg.LastUnlockReason,
			"unlocked_by":        cfg.UnlockedBy,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &ConflictError{
			Detail: fmt.Sprintf("version %s is no longer current for the %s configuration; re-read and retry", expectedVersion, cfg.Domain),
		}
	}
	cfg.Version = newVersion
	return nil
}

// ActiveTaxRules returns the active rules for a branch in creation order
func (s *GormStore) ActiveTaxRules(orgID, branchID uint) ([]model.TaxRule, error) {
	var rules []model.TaxRule
	result := s.db.
		Where("org_id = ? AND branch_id = ? AND active = ?", orgID, branchID, true).
		Order("id asc").
		Find(&rules)
	if result.Error != nil {
		return nil, result.Error
	}
	return rules, nil
}

// CountHostels counts non-deleted hostels for a branch
func (s *GormStore) CountHostels(orgID, branchID uint) (int64, error) {
	var count int64
	result := s.db.Model(&model.Hostel{}).
		Where("org_id = ? AND branch_id = ?", orgID, branchID).
		Count(&count)
	return count, result.Error
}

// CreateHostel persists a hostel with its buildings and generated rooms in a
// single transaction; nothing is visible on failure.
func (s *GormStore) CreateHostel(h *model.Hostel) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(h).Error
	})
}

// GetHostel loads a hostel with its buildings and rooms
func (s *GormStore) GetHostel(id, orgID uint) (*model.Hostel, error) {
	var h model.Hostel
	result := s.db.
		Preload("Buildings").
		Preload("Rooms", func(db *gorm.DB) *gorm.DB { return db.Order("rooms.id asc") }).
		Where("id = ? AND org_id = ?", id, orgID).
		First(&h)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Detail: fmt.Sprintf("hostel %d not found", id)}
		}
		return nil, result.Error
	}
	return &h, nil
}

// RegenerateHostel replaces a hostel's building templates and room inventory
// wholesale inside one transaction.
func (s *GormStore) RegenerateHostel(h *model.Hostel) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("hostel_id = ?", h.ID).Delete(&model.Room{}).Error; err != nil {
			return err
		}
		if err := tx.Where("hostel_id = ?", h.ID).Delete(&model.Building{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(h).Error
	})
}
