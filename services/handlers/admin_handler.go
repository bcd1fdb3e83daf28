package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Jaywinner/academy_api/dto"
	"github.com/Jaywinner/academy_api/shared"
)

type AdminHandler struct {
	progressSvc    ProgressServiceInterface
	achievementSvc AchievementServiceInterface
	adminSvc       AdminServiceInterface
	exportSvc      ExportServiceInterface
}

func NewAdminHandler(progressSvc ProgressServiceInterface, achievementSvc AchievementServiceInterface, adminSvc AdminServiceInterface, exportSvc ExportServiceInterface) *AdminHandler {
	return &AdminHandler{
		progressSvc:    progressSvc,
		achievementSvc: achievementSvc,
		adminSvc:       adminSvc,
		exportSvc:      exportSvc,
	}
}

// @Summary Grant XP
// @Description Grant a user XP directly
// @Tags admin
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Admin identity"
// @Param request body dto.AdminGrantXPRequest true "Grant payload"
// @Success 200 {object} shared.Response{data=dto.XPGrantResponse}
// @Router /api/v1/admin/xp [post]
func (h *AdminHandler) GrantXP(c *fiber.Ctx) error {
	var req dto.AdminGrantXPRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	grant, err := h.progressSvc.GrantXP(req.UserID, req.Amount)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", grant)
}

// @Summary Award Achievement
// @Description Award a named special achievement with a fixed XP bonus
// @Tags admin
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Admin identity"
// @Param request body dto.AdminAwardRequest true "Award payload"
// @Success 200 {object} shared.Response{data=dto.AdminAwardResponse}
// @Router /api/v1/admin/award [post]
func (h *AdminHandler) Award(c *fiber.Ctx) error {
	var req dto.AdminAwardRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	award, err := h.achievementSvc.AdminAward(req.UserID, req.Name)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", award)
}

// @Summary Reset User
// @Description Wipe a user's XP, achievements, completions and quiz attempts
// @Tags admin
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Admin identity"
// @Param id path string true "User ID"
// @Success 200 {object} shared.Response
// @Router /api/v1/admin/reset/{id} [post]
func (h *AdminHandler) ResetUser(c *fiber.Ctx) error {
	if err := h.progressSvc.ResetUser(c.Params("id")); err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", nil)
}

// @Summary Platform Stats
// @Description Get aggregate platform counters
// @Tags admin
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Admin identity"
// @Success 200 {object} shared.Response{data=dto.PlatformStats}
// @Router /api/v1/admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.adminSvc.GetPlatformStats()
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}

// @Summary Export Data
// @Description Download the full platform state as a spreadsheet
// @Tags admin
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param X-User-ID header string true "Admin identity"
// @Success 200 {file} binary
// @Router /api/v1/admin/export [get]
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	buf, err := h.exportSvc.BuildWorkbook()
	if err != nil {
		return err
	}

	filename := "academy_export_" + time.Now().Format("2006-01-02") + ".xlsx"
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	return c.Send(buf.Bytes())
}
