package handler

import (
	"net/http"
	"strconv"

	"policy-service/internal/hostel"
	"policy-service/pkg/logger"
	"policy-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CreateHostelRequest defines the structure for hostel creation requests
type CreateHostelRequest struct {
	BranchID  uint                  `json:"branch_id"`
	Name      string                `json:"name"`
	Type      string                `json:"type"`
	Buildings []hostel.BuildingSpec `json:"buildings"`
	Rooms     []hostel.RoomSpec     `json:"rooms"`
}

// UpdateBuildingsRequest defines the structure for building template updates
type UpdateBuildingsRequest struct {
	Buildings []hostel.BuildingSpec `json:"buildings"`
}

// CreateHostel handles creating a hostel with generated room inventory
func CreateHostel(c echo.Context) error {
	log := logger.FromContext(c)

	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	var req CreateHostelRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}
	if req.Name == "" || req.Type == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and type are required"})
	}

	created, err := hostels.CreateHostel(hostel.CreateRequest{
		OrgID:     orgID,
		BranchID:  req.BranchID,
		Name:      req.Name,
		Type:      req.Type,
		Buildings: req.Buildings,
		Rooms:     req.Rooms,
	})
	if err != nil {
		log.Warn("Hostel creation rejected",
			zap.Uint("branch_id", req.BranchID),
			zap.String("type", req.Type),
			zap.Error(err))
		return respondDomainError(c, log, err)
	}
	prometheus.RoomsGeneratedHistogram.Observe(float64(len(created.Rooms)))

	log.Info("Hostel created",
		zap.Uint("id", created.ID),
		zap.Uint("branch_id", created.BranchID),
		zap.String("type", created.Type),
		zap.Int("rooms", len(created.Rooms)))
	return c.JSON(http.StatusCreated, created)
}

// UpdateHostelBuildings handles replacing a hostel's building templates,
// regenerating its rooms wholesale
func UpdateHostelBuildings(c echo.Context) error {
	log := logger.FromContext(c)

	orgID, ok := c.Get("org_id").(uint)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hostel ID"})
	}

	var req UpdateBuildingsRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	updated, err := hostels.UpdateBuildings(uint(id), orgID, req.Buildings)
	if err != nil {
		log.Warn("Hostel building update rejected",
			zap.Uint64("hostel_id", id),
			zap.Error(err))
		return respondDomainError(c, log, err)
	}
	prometheus.RoomsGeneratedHistogram.Observe(float64(len(updated.Rooms)))

	log.Info("Hostel buildings updated",
		zap.Uint("id", updated.ID),
		zap.Int("rooms", len(updated.Rooms)))
	return c.JSON(http.StatusOK, updated)
}
