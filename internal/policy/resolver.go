package policy

import (
	"errors"

	"policy-service/internal/model"
)

// Resolution tiers, reported alongside the resolved record.
const (
	TierBranch  = "branch"
	TierOrgWide = "org-wide"
	TierDefault = "default"
)

// Resolver selects the effective configuration for a scope using
// branch, organization-wide, built-in-default precedence. Resolution is total:
// every request resolves to something, and callers that need existence must
// check the returned tier.
type Resolver struct {
	store Store
}

// NewResolver returns a resolver over the given store
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve returns the effective configuration for a scope and the tier it was
// found at. A TierDefault result is synthesized, never persisted.
func (r *Resolver) Resolve(domain Domain, scope Scope) (*model.Configuration, string, error) {
	cfg, err := r.store.GetConfiguration(domain, scope)
	if err == nil {
		if scope.BranchID != nil {
			return cfg, TierBranch, nil
		}
		return cfg, TierOrgWide, nil
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, "", err
	}

	// Branch-specific record absent: fall back to the organization-wide one,
	// keeping the secondary key fixed.
	if scope.BranchID != nil {
		cfg, err = r.store.GetConfiguration(domain, scope.OrgWide())
		if err == nil {
			return cfg, TierOrgWide, nil
		}
		if !errors.As(err, &notFound) {
			return nil, "", err
		}
	}

	return defaultConfiguration(domain, scope), TierDefault, nil
}

// IsDefault reports whether a resolution tier is the synthesized default
func IsDefault(tier string) bool {
	return tier == TierDefault
}

func defaultConfiguration(domain Domain, scope Scope) *model.Configuration {
	return &model.Configuration{
		Domain:       string(domain),
		OrgID:        scope.OrgID,
		BranchID:     scope.BranchID,
		SecondaryKey: scope.SecondaryKey,
		Payload:      DefaultPayload(domain),
		Locked:       false,
		Version:      InitialVersion,
	}
}
