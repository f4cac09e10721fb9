package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"policy-service/internal/policy"
	"policy-service/pkg/logger"
	"policy-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// SavePolicyRequest carries the full replacement payload and the version the
// caller last read.
type SavePolicyRequest struct {
	Payload json.RawMessage `json:"payload"`
	Version string          `json:"version"`
}

// LockPolicyRequest carries the version the caller last read
type LockPolicyRequest struct {
	Version string `json:"version"`
}

// UnlockPolicyRequest carries the audited reason and the last-read version
type UnlockPolicyRequest struct {
	Reason  string `json:"reason"`
	Version string `json:"version"`
}

// ResolvePolicy handles reading the effective configuration for a scope
func ResolvePolicy(c echo.Context) error {
	log := logger.FromContext(c)

	domain, err := policy.ParseDomain(c.Param("domain"))
	if err != nil {
		return respondDomainError(c, log, err)
	}
	scope, err := scopeFromRequest(c)
	if err != nil {
		return respondDomainError(c, log, err)
	}

	cfg, tier, err := resolver.Resolve(domain, scope)
	if err != nil {
		log.Error("Failed to resolve configuration",
			zap.String("domain", string(domain)),
			zap.Error(err))
		return respondDomainError(c, log, err)
	}
	prometheus.RecordResolution(string(domain), tier)

	log.Info("Configuration resolved",
		zap.String("domain", string(domain)),
		zap.String("scope", scope.String()),
		zap.String("tier", tier))
	return c.JSON(http.StatusOK, echo.Map{
		"configuration": cfg,
		"is_default":    policy.IsDefault(tier),
	})
}

// SavePolicy handles replacing the payload of an unlocked configuration
func SavePolicy(c echo.Context) error {
	log := logger.FromContext(c)

	domain, err := policy.ParseDomain(c.Param("domain"))
	if err != nil {
		return respondDomainError(c, log, err)
	}
	scope, err := scopeFromRequest(c)
	if err != nil {
		return respondDomainError(c, log, err)
	}

	var req SavePolicyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	cfg, err := governor.Save(domain, scope, req.Payload, req.Version, actorFromContext(c))
	if err != nil {
		recordOutcome(domain, "save", err)
		log.Warn("Configuration save rejected",
			zap.String("domain", string(domain)),
			zap.String("scope", scope.String()),
			zap.Error(err))
		return respondDomainError(c, log, err)
	}
	prometheus.RecordTransition(string(domain), "save", "ok")

	log.Info("Configuration saved",
		zap.String("domain", string(domain)),
		zap.String("scope", scope.String()),
		zap.String("version", cfg.Version))
	return c.JSON(http.StatusOK, cfg)
}

// LockPolicy handles the lock transition with its validation gate
func LockPolicy(c echo.Context) error {
	log := logger.FromContext(c)

	domain, err := policy.ParseDomain(c.Param("domain"))
	if err != nil {
		return respondDomainError(c, log, err)
	}
	scope, err := scopeFromRequest(c)
	if err != nil {
		return respondDomainError(c, log, err)
	}

	var req LockPolicyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	cfg, err := governor.Lock(domain, scope, req.Version, actorFromContext(c))
	if err != nil {
		recordOutcome(domain, "lock", err)
		log.Warn("Configuration lock rejected",
			zap.String("domain", string(domain)),
			zap.String("scope", scope.String()),
			zap.Error(err))
		return respondDomainError(c, log, err)
	}
	prometheus.RecordTransition(string(domain), "lock", "ok")

	log.Info("Configuration locked",
		zap.String("domain", string(domain)),
		zap.String("scope", scope.String()),
		zap.String("version", cfg.Version))
	return c.JSON(http.StatusOK, cfg)
}

// UnlockPolicy handles the audited unlock transition
func UnlockPolicy(c echo.Context) error {
	log := logger.FromContext(c)

	domain, err := policy.ParseDomain(c.Param("domain"))
	if err != nil {
		return respondDomainError(c, log, err)
	}
	scope, err := scopeFromRequest(c)
	if err != nil {
		return respondDomainError(c, log, err)
	}

	var req UnlockPolicyRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	cfg, err := governor.Unlock(domain, scope, req.Reason, req.Version, actorFromContext(c))
	if err != nil {
		recordOutcome(domain, "unlock", err)
		log.Warn("Configuration unlock rejected",
			zap.String("domain", string(domain)),
			zap.String("scope", scope.String()),
			zap.Error(err))
		return respondDomainError(c, log, err)
	}
	prometheus.RecordTransition(string(domain), "unlock", "ok")

	log.Info("Configuration unlocked",
		zap.String("domain", string(domain)),
		zap.String("scope", scope.String()),
		zap.String("unlocked_by", cfg.UnlockedBy))
	return c.JSON(http.StatusOK, cfg)
}

func recordOutcome(domain policy.Domain, action string, err error) {
	var conflict *policy.ConflictError
	if errors.As(err, &conflict) {
		prometheus.RecordVersionConflict(string(domain))
		prometheus.RecordTransition(string(domain), action, "conflict")
		return
	}
	prometheus.RecordTransition(string(domain), action, "rejected")
}
