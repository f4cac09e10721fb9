package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"policy-service/internal/audit"
	"policy-service/internal/model"
)

// MinUnlockReasonLength is the shortest accepted unlock reason.
const MinUnlockReasonLength = 5

// Governor runs the lock/unlock state machine for every domain. All domains
// start unlocked on creation; lock transitions are gated by the registered
// domain validators.
type Governor struct {
	store      Store
	validators map[Domain][]Validator
	sink       *audit.Sink
}

// NewGovernor returns a governor over the given store and validator registry.
// The audit sink may be nil; governance then proceeds without audit events.
func NewGovernor(store Store, validators map[Domain][]Validator, sink *audit.Sink) *Governor {
	if validators == nil {
		validators = DefaultValidators()
	}
	return &Governor{store: store, validators: validators, sink: sink}
}

// Save replaces the stored payload for a scope. Creation is always allowed;
// updates require the record to be unlocked and the caller's version to still
// be current.
func (g *Governor) Save(domain Domain, scope Scope, payload json.RawMessage, expectedVersion, actor string) (*model.Configuration, error) {
	if err := validatePayloadShape(domain, payload); err != nil {
		return nil, err
	}

	cfg, err := g.store.GetConfiguration(domain, scope)
	if err != nil {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		return g.create(domain, scope, payload, actor)
	}

	if cfg.Locked {
		return nil, &LockedPolicyError{Domain: domain, Scope: scope}
	}

	cfg.Payload = payload
	if err := g.store.UpdateConfigurationVersioned(cfg, expectedVersion); err != nil {
		return nil, err
	}

	g.notify(domain, scope, "save", actor, "payload updated to version "+cfg.Version)
	return cfg, nil
}

// Lock validates the stored payload against the domain invariants and, when
// they hold, freezes the record.
func (g *Governor) Lock(domain Domain, scope Scope, expectedVersion, actor string) (*model.Configuration, error) {
	cfg, err := g.store.GetConfiguration(domain, scope)
	if err != nil {
		return nil, err
	}

	for _, validate := range g.validators[domain] {
		if err := validate(cfg.Payload); err != nil {
			return nil, err
		}
	}

	cfg.Locked = true
	if err := g.store.UpdateConfigurationVersioned(cfg, expectedVersion); err != nil {
		return nil, err
	}

	g.notify(domain, scope, "lock", actor, "")
	return cfg, nil
}

// Unlock lifts the lock, recording the audited reason and the acting user.
// Unlocking an already-unlocked record succeeds; the transition is idempotent
// toward the unlocked state.
func (g *Governor) Unlock(domain Domain, scope Scope, reason, expectedVersion, actor string) (*model.Configuration, error) {
	reason = strings.TrimSpace(reason)
	if len(reason) < MinUnlockReasonLength {
		return nil, &ValidationError{
			Detail: fmt.Sprintf("unlock reason must be at least %d characters", MinUnlockReasonLength),
		}
	}

	cfg, err := g.store.GetConfiguration(domain, scope)
	if err != nil {
		return nil, err
	}

	cfg.Locked = false
	cfg.LastUnlockReason = reason
	cfg.UnlockedBy = actor
	if err := g.store.UpdateConfigurationVersioned(cfg, expectedVersion); err != nil {
		return nil, err
	}

	g.notify(domain, scope, "unlock", actor, reason)
	return cfg, nil
}

func (g *Governor) create(domain Domain, scope Scope, payload json.RawMessage, actor string) (*model.Configuration, error) {
	cfg := &model.Configuration{
		Domain:       string(domain),
		OrgID:        scope.OrgID,
		BranchID:     scope.BranchID,
		SecondaryKey: scope.SecondaryKey,
		Payload:      payload,
		Locked:       false,
		Version:      InitialVersion,
	}
	if err := g.store.CreateConfiguration(cfg); err != nil {
		return nil, err
	}
	g.notify(domain, scope, "create", actor, "")
	return cfg, nil
}

func (g *Governor) notify(domain Domain, scope Scope, action, actor, detail string) {
	if g.sink == nil {
		return
	}
	g.sink.Notify(audit.Event{
		Domain: string(domain),
		Scope:  scope.String(),
		Action: action,
		Actor:  actor,
		Detail: detail,
	})
}
