package handler

import (
	"net/http"
	"time"

	"policy-service/internal/model"
	"policy-service/pkg/database"
	"policy-service/pkg/logger"
	"policy-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ComputeTaxRequest carries the amount and the scope to compute tax for
type ComputeTaxRequest struct {
	BaseAmount decimal.Decimal `json:"base_amount"`
	BranchID   uint            `json:"branch_id"`
	Category   string          `json:"category"`
}

// TaxRuleRequest defines the structure for tax rule creation/update requests
type TaxRuleRequest struct {
	BranchID  uint            `json:"branch_id"`
	Name      string          `json:"name"`
	Code      string          `json:"code"`
	Rate      decimal.Decimal `json:"rate"`
	Kind      string          `json:"kind"`
	AppliesTo string          `json:"applies_to"`
	Active    bool            `json:"active"`
}

// ComputeTax handles computing a tax breakdown for a base amount
func ComputeTax(c echo.Context) error {
	log := logger.FromContext(c)

	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req ComputeTaxRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	start := time.Now()
	result, err := computer.Compute(req.BaseAmount, orgID, req.BranchID, req.Category)
	if err != nil {
		log.Error("Failed to compute tax",
			zap.Uint("branch_id", req.BranchID),
			zap.Error(err))
		return respondDomainError(c, log, err)
	}
	prometheus.TaxComputationDuration.WithLabelValues(req.Category).Observe(time.Since(start).Seconds())

	log.Info("Tax computed",
		zap.Uint("branch_id", req.BranchID),
		zap.String("category", req.Category),
		zap.String("total_tax", result.TotalTax.String()),
		zap.Int("rules_applied", len(result.Breakdown)))
	return c.JSON(http.StatusOK, result)
}

// ListTaxRules handles retrieving tax rules for a branch
func ListTaxRules(c echo.Context) error {
	log := logger.FromContext(c)

	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	query := database.GetDB().Where("org_id = ?", orgID)
	if branchID := c.QueryParam("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}

	var rules []model.TaxRule
	if result := query.Order("id asc").Find(&rules); result.Error != nil {
		log.Error("Failed to list tax rules", zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve tax rules"})
	}

	log.Info("Tax rules retrieved", zap.Int("count", len(rules)))
	return c.JSON(http.StatusOK, rules)
}

// CreateTaxRule handles creating a new tax rule
func CreateTaxRule(c echo.Context) error {
	log := logger.FromContext(c)

	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req TaxRuleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" || req.Code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and code are required"})
	}
	if req.Kind != model.TaxKindPercentage && req.Kind != model.TaxKindFlat {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be percentage or flat"})
	}

	// Check if a rule with this code already exists for the branch
	var count int64
	database.GetDB().Model(&model.TaxRule{}).
		Where("branch_id = ? AND code = ?", req.BranchID, req.Code).
		Count(&count)
	if count > 0 {
		log.Warn("Tax rule with this code already exists", zap.String("code", req.Code))
		return c.JSON(http.StatusConflict, echo.Map{"error": "tax rule with this code already exists for the branch"})
	}

	appliesTo := req.AppliesTo
	if appliesTo == "" {
		appliesTo = model.TaxAppliesAll
	}

	rule := model.TaxRule{
		OrgID:     orgID,
		BranchID:  req.BranchID,
		Name:      req.Name,
		Code:      req.Code,
		Rate:      req.Rate,
		Kind:      req.Kind,
		AppliesTo: appliesTo,
		Active:    req.Active,
	}
	if result := database.GetDB().Create(&rule); result.Error != nil {
		log.Error("Failed to create tax rule",
			zap.String("code", req.Code),
			zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create tax rule"})
	}

	log.Info("Tax rule created",
		zap.Uint("id", rule.ID),
		zap.String("code", rule.Code),
		zap.String("kind", rule.Kind))
	return c.JSON(http.StatusCreated, rule)
}

// UpdateTaxRule handles updating an existing tax rule
func UpdateTaxRule(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req TaxRuleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	var rule model.TaxRule
	if result := database.GetDB().Where("org_id = ?", orgID).First(&rule, id); result.Error != nil {
		log.Error("Tax rule not found", zap.String("id", id), zap.Error(result.Error))
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tax rule not found"})
	}

	// A code change must not collide with a sibling rule
	if req.Code != "" && req.Code != rule.Code {
		var count int64
		database.GetDB().Model(&model.TaxRule{}).
			Where("branch_id = ? AND code = ? AND id != ?", rule.BranchID, req.Code, rule.ID).
			Count(&count)
		if count > 0 {
			return c.JSON(http.StatusConflict, echo.Map{"error": "tax rule with this code already exists for the branch"})
		}
		rule.Code = req.Code
	}

	if req.Name != "" {
		rule.Name = req.Name
	}
	if req.Kind != "" {
		rule.Kind = req.Kind
	}
	if req.AppliesTo != "" {
		rule.AppliesTo = req.AppliesTo
	}
	rule.Rate = req.Rate
	rule.Active = req.Active

	if result := database.GetDB().Save(&rule); result.Error != nil {
		log.Error("Failed to update tax rule", zap.String("id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update tax rule"})
	}

	log.Info("Tax rule updated", zap.Uint("id", rule.ID), zap.String("code", rule.Code))
	return c.JSON(http.StatusOK, rule)
}

// DeleteTaxRule handles deleting a tax rule (soft delete)
func DeleteTaxRule(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")

	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	result := database.GetDB().Where("org_id = ?", orgID).Delete(&model.TaxRule{}, id)
	if result.Error != nil {
		log.Error("Failed to delete tax rule", zap.String("id", id), zap.Error(result.Error))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete tax rule"})
	}
	if result.RowsAffected == 0 {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tax rule not found"})
	}

	log.Info("Tax rule deleted", zap.String("id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "tax rule deleted successfully"})
}
