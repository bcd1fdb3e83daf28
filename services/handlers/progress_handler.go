package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jaywinner/academy_api/dto"
	"github.com/Jaywinner/academy_api/middleware"
	"github.com/Jaywinner/academy_api/shared"
)

type ProgressHandler struct {
	progressSvc ProgressServiceInterface
}

func NewProgressHandler(progressSvc ProgressServiceInterface) *ProgressHandler {
	return &ProgressHandler{progressSvc: progressSvc}
}

// @Summary Register User
// @Description Register the calling user, keeping existing progress on re-register
// @Tags users
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} shared.Response{data=model.User}
// @Router /api/v1/users/register [post]
func (h *ProgressHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	user, err := h.progressSvc.Register(middleware.UserID(c), req.Username)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Success", user)
}

// @Summary Get Progress
// @Description Get a user's XP, level and per-course completion
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} shared.Response{data=dto.UserProgressResponse}
// @Router /api/v1/users/{id}/progress [get]
func (h *ProgressHandler) GetProgress(c *fiber.Ctx) error {
	progress, err := h.progressSvc.GetProgress(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", progress)
}

// @Summary Complete Lesson
// @Description Mark a lesson done, grant its XP and evaluate achievements
// @Tags lessons
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.CompleteLessonRequest true "Lesson coordinate"
// @Success 200 {object} shared.Response{data=dto.LessonResultResponse}
// @Router /api/v1/lessons/complete [post]
func (h *ProgressHandler) CompleteLesson(c *fiber.Ctx) error {
	var req dto.CompleteLessonRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	userID := middleware.UserID(c)
	username := req.Username
	if username == "" {
		username = userID
	}

	result, err := h.progressSvc.CompleteLesson(userID, username, req.Course, req.Module, req.Lesson)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}
