package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jaywinner/academy_api/shared"
)

type AchievementHandler struct {
	achievementSvc AchievementServiceInterface
}

func NewAchievementHandler(achievementSvc AchievementServiceInterface) *AchievementHandler {
	return &AchievementHandler{achievementSvc: achievementSvc}
}

// @Summary List Achievements
// @Description Get the full badge table
// @Tags achievements
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]dto.Achievement}
// @Router /api/v1/achievements [get]
func (h *AchievementHandler) ListDefinitions(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", h.achievementSvc.Definitions())
}

// @Summary Get User Achievements
// @Description Get a user's achievement summary grouped by category
// @Tags achievements
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} shared.Response{data=dto.AchievementSummaryResponse}
// @Router /api/v1/users/{id}/achievements [get]
func (h *AchievementHandler) GetSummary(c *fiber.Ctx) error {
	summary, err := h.achievementSvc.GetSummary(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", summary)
}
