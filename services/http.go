package services

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	log "github.com/sirupsen/logrus"

	"github.com/Jaywinner/academy_api/middleware"
	"github.com/Jaywinner/academy_api/services/handlers"
	"github.com/Jaywinner/academy_api/shared"
)

type HttpService struct {
	context.DefaultService

	contentSvc     *ContentService
	progressSvc    *ProgressService
	achievementSvc *AchievementService
	quizSvc        *QuizService
	exportSvc      *ExportService
	sqlSvc         *SqliteService

	port   int
	server *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if port := os.Getenv("HTTP_PORT"); port != "" {
		var err error
		if svc.port, err = strconv.Atoi(port); err != nil {
			return err
		}
	} else {
		svc.port = 8000
	}

	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.contentSvc = svc.Service(CONTENT_SVC).(*ContentService)
	svc.progressSvc = svc.Service(PROGRESS_SVC).(*ProgressService)
	svc.achievementSvc = svc.Service(ACHIEVEMENT_SVC).(*AchievementService)
	svc.quizSvc = svc.Service(QUIZ_SVC).(*QuizService)
	svc.exportSvc = svc.Service(EXPORT_SVC).(*ExportService)
	svc.sqlSvc = svc.Service(SQLITE_SVC).(*SqliteService)

	app := fiber.New(fiber.Config{
		ErrorHandler: svc.handleError,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, " + shared.HeaderUserID,
	}))
	app.Use(MonitoringMiddleware())

	app.Get("/ping", svc.ping)

	contentHandler := handlers.NewContentHandler(svc.contentSvc)
	progressHandler := handlers.NewProgressHandler(svc.progressSvc)
	achievementHandler := handlers.NewAchievementHandler(svc.achievementSvc)
	quizHandler := handlers.NewQuizHandler(svc.quizSvc)
	leaderboardHandler := handlers.NewLeaderboardHandler(svc.progressSvc)
	adminHandler := handlers.NewAdminHandler(svc.progressSvc, svc.achievementSvc, svc.sqlSvc, svc.exportSvc)

	v1 := app.Group("/api/v1")

	v1.Get("/ping", svc.ping)

	v1.Get("/courses", contentHandler.ListCourses)
	v1.Get("/courses/:course", contentHandler.GetCourse)
	v1.Get("/courses/:course/modules/:module/lessons/:lesson", contentHandler.GetLesson)
	v1.Get("/lessons/next", contentHandler.NextLesson)

	v1.Get("/achievements", achievementHandler.ListDefinitions)
	v1.Get("/leaderboard", leaderboardHandler.GetLeaderboard)

	v1.Get("/users/:id/progress", progressHandler.GetProgress)
	v1.Get("/users/:id/achievements", achievementHandler.GetSummary)
	v1.Get("/users/:id/quiz-stats", quizHandler.GetQuizStats)

	authed := v1.Group("", middleware.RequireUser())
	authed.Post("/users/register", progressHandler.Register)
	authed.Post("/lessons/complete", progressHandler.CompleteLesson)

	authed.Post("/quiz/lesson", quizHandler.StartLessonQuiz)
	authed.Post("/quiz/module", quizHandler.StartModuleQuiz)
	authed.Post("/quiz/:session/answer", quizHandler.SubmitAnswer)
	authed.Post("/quiz/:session/next", quizHandler.NextQuestion)
	authed.Post("/quiz/:session/finish", quizHandler.FinishQuiz)

	admin := v1.Group("/admin", middleware.RequireUser(), middleware.AdminOnly())
	admin.Post("/xp", adminHandler.GrantXP)
	admin.Post("/award", adminHandler.Award)
	admin.Post("/reset/:id", adminHandler.ResetUser)
	admin.Get("/stats", adminHandler.Stats)
	admin.Get("/export", adminHandler.Export)

	app.Use(func(c *fiber.Ctx) error {
		return shared.ResponseJSON(c, fiber.StatusNotFound, "Page not found", nil)
	})

	svc.server = app

	log.WithField("port", svc.port).Info("HTTP server started")
	return svc.server.Listen(fmt.Sprintf(":%v", svc.port))
}

func (svc *HttpService) Shutdown() {
	if svc.server != nil {
		_ = svc.server.Shutdown()
	}
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set("Cache-Control", "max-age=10")

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

func (svc *HttpService) handleError(c *fiber.Ctx, err error) error {
	if appErr, ok := shared.GetAppError(err); ok {
		return shared.ResponseJSON(c, appErr.StatusCode, appErr.Message, appErr.Data)
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return shared.ResponseJSON(c, fiberErr.Code, fiberErr.Message, nil)
	}

	log.WithError(err).Error("Unhandled request error")
	return shared.ResponseInternalError(c, err)
}
