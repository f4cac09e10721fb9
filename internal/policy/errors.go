package policy

import "fmt"

// ValidationError reports a malformed payload, a failed domain invariant, a
// too-short unlock reason or an exceeded room capacity. Detail is safe to
// render to the caller.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string {
	return e.Detail
}

// LockedPolicyError reports a mutation attempted against a locked record.
type LockedPolicyError struct {
	Domain Domain
	Scope  Scope
}

func (e *LockedPolicyError) Error() string {
	return fmt.Sprintf("%s configuration for %s is locked; unlock it before saving", e.Domain, e.Scope)
}

// ConflictError reports an optimistic-concurrency version mismatch or a
// duplicate-key violation on create.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string {
	return e.Detail
}

// NotFoundError reports a missing record on an operation that requires one to
// exist.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string {
	return e.Detail
}

// ConfigurationLimitError reports that a configured cardinality limit has been
// reached.
type ConfigurationLimitError struct {
	Detail string
}

func (e *ConfigurationLimitError) Error() string {
	return e.Detail
}
