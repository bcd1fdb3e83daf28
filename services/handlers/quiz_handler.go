package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Jaywinner/academy_api/dto"
	"github.com/Jaywinner/academy_api/middleware"
	"github.com/Jaywinner/academy_api/shared"
)

type QuizHandler struct {
	quizSvc QuizServiceInterface
}

func NewQuizHandler(quizSvc QuizServiceInterface) *QuizHandler {
	return &QuizHandler{quizSvc: quizSvc}
}

// @Summary Start Lesson Quiz
// @Description Open a single-question quiz session for a lesson
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.StartLessonQuizRequest true "Lesson coordinate"
// @Success 201 {object} shared.Response{data=dto.QuizSessionResponse}
// @Router /api/v1/quiz/lesson [post]
func (h *QuizHandler) StartLessonQuiz(c *fiber.Ctx) error {
	var req dto.StartLessonQuizRequest
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

	session, err := h.quizSvc.StartLessonQuiz(userID, username, req.Course, req.Module, req.Lesson)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Success", session)
}

// @Summary Start Module Quiz
// @Description Open a shuffled multi-question quiz session over a module
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param request body dto.StartModuleQuizRequest true "Module coordinate"
// @Success 201 {object} shared.Response{data=dto.QuizSessionResponse}
// @Router /api/v1/quiz/module [post]
func (h *QuizHandler) StartModuleQuiz(c *fiber.Ctx) error {
	var req dto.StartModuleQuizRequest
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

	session, err := h.quizSvc.StartModuleQuiz(userID, username, req.Course, req.Module)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusCreated, "Success", session)
}

// @Summary Submit Answer
// @Description Grade the current question of a quiz session
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param session path string true "Session ID"
// @Param request body dto.SubmitAnswerRequest true "Answer index"
// @Success 200 {object} shared.Response{data=dto.AnswerResponse}
// @Router /api/v1/quiz/{session}/answer [post]
func (h *QuizHandler) SubmitAnswer(c *fiber.Ctx) error {
	var req dto.SubmitAnswerRequest
	if err := c.BodyParser(&req); err != nil {
		return shared.NewBadRequestError(err, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return shared.ResponseJSON(c, fiber.StatusBadRequest, "Validation failed", dto.FormatValidationErrors(err))
	}

	result, err := h.quizSvc.SubmitAnswer(c.Params("session"), middleware.UserID(c), *req.Answer)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Next Question
// @Description Advance a module quiz session to the following question
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param session path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.QuizSessionResponse}
// @Router /api/v1/quiz/{session}/next [post]
func (h *QuizHandler) NextQuestion(c *fiber.Ctx) error {
	view, err := h.quizSvc.NextQuestion(c.Params("session"), middleware.UserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", view)
}

// @Summary Finish Quiz
// @Description Close a module quiz session and pay out XP
// @Tags quiz
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Caller identity"
// @Param session path string true "Session ID"
// @Success 200 {object} shared.Response{data=dto.QuizResultResponse}
// @Router /api/v1/quiz/{session}/finish [post]
func (h *QuizHandler) FinishQuiz(c *fiber.Ctx) error {
	result, err := h.quizSvc.FinishQuiz(c.Params("session"), middleware.UserID(c))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", result)
}

// @Summary Get Quiz Stats
// @Description Get a user's aggregate quiz performance
// @Tags quiz
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} shared.Response{data=dto.QuizStatsResponse}
// @Router /api/v1/users/{id}/quiz-stats [get]
func (h *QuizHandler) GetQuizStats(c *fiber.Ctx) error {
	stats, err := h.quizSvc.GetQuizStats(c.Params("id"))
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", stats)
}
