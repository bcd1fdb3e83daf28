package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Jaywinner/academy_api/shared"
)

type LeaderboardHandler struct {
	progressSvc ProgressServiceInterface
}

func NewLeaderboardHandler(progressSvc ProgressServiceInterface) *LeaderboardHandler {
	return &LeaderboardHandler{progressSvc: progressSvc}
}

// @Summary Get Leaderboard
// @Description Get the top users ranked by XP
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param limit query int false "Limit results (default 10)"
// @Success 200 {object} shared.Response{data=[]dto.LeaderboardEntry}
// @Router /api/v1/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *fiber.Ctx) error {
	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	leaderboard, err := h.progressSvc.GetLeaderboard(limit)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", leaderboard)
}
