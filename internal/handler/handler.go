package handler

import (
	"errors"
	"net/http"
	"strconv"

	"policy-service/internal/audit"
	"policy-service/internal/hostel"
	"policy-service/internal/policy"
	"policy-service/internal/tax"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var (
	resolver *policy.Resolver
	governor *policy.Governor
	computer *tax.Computer
	hostels  *hostel.Service
)

// Init wires the engine components the handlers delegate to. The audit sink
// may be nil (tests).
func Init(s policy.Store, sink *audit.Sink, maxRoomsPerRequest int) {
	resolver = policy.NewResolver(s)
	governor = policy.NewGovernor(s, policy.DefaultValidators(), sink)
	computer = tax.NewComputer(s)
	hostels = hostel.NewService(resolver, s, maxRoomsPerRequest)
}

// respondDomainError maps the engine error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is a server fault and is logged as such.
func respondDomainError(c echo.Context, log *zap.Logger, err error) error {
	var (
		validation *policy.ValidationError
		locked     *policy.LockedPolicyError
		notFound   *policy.NotFoundError
		conflict   *policy.ConflictError
		limit      *policy.ConfigurationLimitError
	)
	switch {
	case errors.As(err, &validation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": validation.Detail})
	case errors.As(err, &locked):
		return c.JSON(http.StatusForbidden, echo.Map{"error": locked.Error()})
	case errors.As(err, &notFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": notFound.Detail})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": conflict.Detail})
	case errors.As(err, &limit):
		return c.JSON(http.StatusConflict, echo.Map{"error": limit.Detail})
	default:
		log.Error("Unhandled engine error", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// scopeFromRequest builds the configuration scope from the authenticated
// organization and the branch_id/secondary_key query parameters.
func scopeFromRequest(c echo.Context) (policy.Scope, error) {
	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return policy.Scope{}, errors.New("organization context missing")
	}

	scope := policy.Scope{OrgID: orgID, SecondaryKey: c.QueryParam("secondary_key")}
	if raw := c.QueryParam("branch_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return policy.Scope{}, &policy.ValidationError{Detail: "branch_id must be a positive integer"}
		}
		branchID := uint(id)
		scope.BranchID = &branchID
	}
	return scope, nil
}

func actorFromContext(c echo.Context) string {
	if email, ok := c.Get("email").(string); ok {
		return email
	}
	return ""
}
