package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"workspace-service/internal/model"
	"workspace-service/internal/query"
	"workspace-service/internal/tenant"
	"workspace-service/pkg/database"
	"workspace-service/pkg/logger"
)

// SavePreference upserts the requesting user's active flag for a
// calendar. A missing row means active, so only explicit choices are
// stored.
func SavePreference(c echo.Context) error {
	log := logger.FromEcho(c)

	tc, ok := tenant.FromEcho(c)
	if !ok {
		log.Error("Tenant context missing from request")
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "tenant context required"})
	}
	if !tc.Authenticated {
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "authentication required"})
	}

	var req struct {
		CalendarID string `json:"calendar_id"`
		Active     *bool  `json:"active"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse preference request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "invalid request"})
	}
	if req.CalendarID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "error": "calendar_id is required"})
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	db := database.GetDB()

	var calendar model.Calendar
	cb := (&query.Builder{}).TenantScope(tc).Where("id = ?", req.CalendarID)
	if err := cb.Apply(db).First(&calendar).Error; err != nil {
		log.Warn("Calendar not found for preference", zap.String("calendar_id", req.CalendarID))
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "error": "calendar not found"})
	}

	var pref model.CalendarPreference
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("user_id = ? AND calendar_id = ? AND client_id = ? AND app_id = ?",
				tc.UserID, req.CalendarID, tc.ClientID, tc.AppID).
			First(&pref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pref = model.CalendarPreference{
				UserID:     tc.UserID,
				CalendarID: req.CalendarID,
				Active:     active,
				ClientID:   tc.ClientID,
				AppID:      tc.AppID,
			}
			return tx.Create(&pref).Error
		}
		if err != nil {
			return err
		}
		pref.Active = active
		return tx.Model(&pref).Update("active", active).Error
	})
	if err != nil {
		log.Error("Failed to save preference",
			zap.String("calendar_id", req.CalendarID),
			zap.Uint("user_id", tc.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "error": "preference save failed"})
	}

	log.Info("Preference saved",
		zap.String("calendar_id", req.CalendarID),
		zap.Uint("user_id", tc.UserID),
		zap.Bool("active", active))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "preference": pref})
}
