package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"policy-service/internal/latefee"
	"policy-service/internal/policy"
	"policy-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// LateFeePreviewRequest asks for the late fee an installment would accrue
// under the branch's resolved fee policy.
type LateFeePreviewRequest struct {
	BranchID          *uint           `json:"branch_id"`
	SecondaryKey      string          `json:"secondary_key"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	DueDate           string          `json:"due_date"`
	AsOf              string          `json:"as_of"`
}

// PreviewLateFee handles computing the accrued late fee for an overdue
// installment. The computation is read-only; nothing is persisted.
func PreviewLateFee(c echo.Context) error {
	log := logger.FromContext(c)

	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req LateFeePreviewRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "due_date must be formatted as YYYY-MM-DD"})
	}
	asOf := time.Now()
	if req.AsOf != "" {
		asOf, err = time.Parse("2006-01-02", req.AsOf)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "as_of must be formatted as YYYY-MM-DD"})
		}
	}

	scope := policy.Scope{OrgID: orgID, BranchID: req.BranchID, SecondaryKey: req.SecondaryKey}
	cfg, tier, err := resolver.Resolve(policy.DomainFee, scope)
	if err != nil {
		return respondDomainError(c, log, err)
	}

	var feePolicy policy.FeePolicy
	if err := json.Unmarshal(cfg.Payload, &feePolicy); err != nil {
		log.Error("Stored fee policy is unreadable", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	amount := latefee.Accrue(feePolicy.LateFee, req.InstallmentAmount, dueDate, asOf)

	log.Info("Late fee previewed",
		zap.String("scope", scope.String()),
		zap.String("tier", tier),
		zap.String("amount_due", amount.String()))
	return c.JSON(http.StatusOK, echo.Map{
		"amount_due": amount,
		"is_default": policy.IsDefault(tier),
	})
}
