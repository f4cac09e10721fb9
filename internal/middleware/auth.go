package middleware

import (
	"net/http"
	"strings"

	"policy-service/pkg/jwtutil"
	"policy-service/pkg/logger"
	"policy-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and extracts the organization context
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)
		prometheus.AuthAttemptsCounter.Inc()

		// Get the Authorization header
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			log.Warn("Missing Authorization header")
			prometheus.AuthErrorsCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing authorization token"})
		}

		// Check if it's a Bearer token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Invalid Authorization header format")
			prometheus.AuthErrorsCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid authorization format, expected Bearer token"})
		}

		// Validate the token
		claims, err := jwtutil.ValidateToken(parts[1])
		if err != nil {
			log.Error("Invalid JWT token", zap.Error(err))
			prometheus.AuthErrorsCounter.Inc()
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid or expired token"})
		}

		// Store user info in context for later use
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Set("user_role", claims.Role)

		// Every engine call needs an explicit organization; reject tokens
		// without one rather than falling back to any ambient default.
		if claims.OrgID == nil {
			log.Warn("JWT token does not contain org_id")
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "org_id is required in the token"})
		}
		c.Set("org_id", *claims.OrgID)
		if claims.BranchID != nil {
			c.Set("branch_id", *claims.BranchID)
		}

		log.Debug("Request authenticated",
			zap.Uint("user_id", claims.UserID),
			zap.Uint("org_id", *claims.OrgID))

		return next(c)
	}
}

// GetOrgIDFromContext retrieves the organization ID from the context
func GetOrgIDFromContext(c echo.Context) (uint, bool) {
	orgID, ok := c.Get("org_id").(uint)
	return orgID, ok
}

// GetActorFromContext returns the acting user's email for audit fields
func GetActorFromContext(c echo.Context) string {
	if email, ok := c.Get("email").(string); ok {
		return email
	}
	return ""
}
