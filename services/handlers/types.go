package handlers

import (
	"bytes"

	"github.com/Jaywinner/academy_api/dto"
	"github.com/Jaywinner/academy_api/model"
)

type ContentServiceInterface interface {
	ListCourses() []model.Course
	GetCourse(courseID int) (*model.Course, error)
	GetLesson(courseID, moduleID, lessonID int) (*model.Lesson, error)
	ResolveNextLesson(courseID, moduleID, lessonID int) *model.Coordinate
}

type ProgressServiceInterface interface {
	Register(userID, username string) (*model.User, error)
	CompleteLesson(userID, username string, courseID, moduleID, lessonID int) (*dto.LessonResultResponse, error)
	GetProgress(userID string) (*dto.UserProgressResponse, error)
	GetLeaderboard(limit int) ([]dto.LeaderboardEntry, error)
	GrantXP(userID string, amount int) (*dto.XPGrantResponse, error)
	ResetUser(userID string) error
}

type AchievementServiceInterface interface {
	Definitions() []dto.Achievement
	GetSummary(userID string) (*dto.AchievementSummaryResponse, error)
	AdminAward(userID, name string) (*dto.AdminAwardResponse, error)
}

type QuizServiceInterface interface {
	StartLessonQuiz(userID, username string, courseID, moduleID, lessonID int) (*dto.QuizSessionResponse, error)
	StartModuleQuiz(userID, username string, courseID, moduleID int) (*dto.QuizSessionResponse, error)
	SubmitAnswer(sessionID, userID string, answerIndex int) (*dto.AnswerResponse, error)
	NextQuestion(sessionID, userID string) (*dto.QuizSessionResponse, error)
	FinishQuiz(sessionID, userID string) (*dto.QuizResultResponse, error)
	GetQuizStats(userID string) (*dto.QuizStatsResponse, error)
}

type AdminServiceInterface interface {
	GetPlatformStats() (*dto.PlatformStats, error)
}

type ExportServiceInterface interface {
	BuildWorkbook() (*bytes.Buffer, error)
}
