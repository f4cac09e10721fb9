package policy

import (
	"fmt"
)

// Domain tags the business area a configuration belongs to.
type Domain string

const (
	DomainExam      Domain = "exam"
	DomainFee       Domain = "fee"
	DomainAdmission Domain = "admission"
	DomainAsset     Domain = "asset"
	DomainDocument  Domain = "document"
	DomainPayroll   Domain = "payroll"
	DomainSupport   Domain = "support"
	DomainTransport Domain = "transport"
	DomainHostel    Domain = "hostel"
)

var knownDomains = map[Domain]bool{
	DomainExam:      true,
	DomainFee:       true,
	DomainAdmission: true,
	DomainAsset:     true,
	DomainDocument:  true,
	DomainPayroll:   true,
	DomainSupport:   true,
	DomainTransport: true,
	DomainHostel:    true,
}

// ParseDomain validates a domain tag from the request path
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !knownDomains[d] {
		return "", &ValidationError{Detail: fmt.Sprintf("unknown configuration domain %q", s)}
	}
	return d, nil
}

// Scope identifies which configuration instance applies. A nil BranchID means
// the organization-wide record. SecondaryKey is a domain-dependent axis such as
// an academic-year id or financial-year string; empty means none.
type Scope struct {
	OrgID        uint
	BranchID     *uint
	SecondaryKey string
}

// OrgWide returns the organization-wide variant of the scope with the same
// secondary key.
func (s Scope) OrgWide() Scope {
	return Scope{OrgID: s.OrgID, SecondaryKey: s.SecondaryKey}
}

func (s Scope) String() string {
	branch := "org-wide"
	if s.BranchID != nil {
		branch = fmt.Sprintf("branch:%d", *s.BranchID)
	}
	if s.SecondaryKey != "" {
		return fmt.Sprintf("org:%d/%s/%s", s.OrgID, branch, s.SecondaryKey)
	}
	return fmt.Sprintf("org:%d/%s", s.OrgID, branch)
}
