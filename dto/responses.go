package dto

import (
	"github.com/Jaywinner/academy_api/model"
)

// Achievement is one row of the badge table, also used to report freshly
// awarded badges.
type Achievement struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category"`
	Requirement int    `json:"requirement,omitempty"`
	BonusXP     int    `json:"bonus_xp"`
}

// XPGrantResponse reports what a single XP award did to the user.
type XPGrantResponse struct {
	User            *model.User   `json:"user"`
	Amount          int           `json:"amount"`
	OldLevel        int           `json:"old_level"`
	NewLevel        int           `json:"new_level"`
	LeveledUp       bool          `json:"leveled_up"`
	NewAchievements []Achievement `json:"new_achievements"`
}

// LessonResultResponse is the composite outcome of finishing a lesson.
type LessonResultResponse struct {
	User            *model.User       `json:"user"`
	Lesson          *model.Lesson     `json:"lesson"`
	XPEarned        int               `json:"xp_earned"`
	LeveledUp       bool              `json:"leveled_up"`
	NewLevel        int               `json:"new_level"`
	NewAchievements []Achievement     `json:"new_achievements"`
	NextLesson      *model.Coordinate `json:"next_lesson,omitempty"`
}

// AdminAwardResponse reports an admin badge award. Re-awarding a title the
// user already holds is not an error; AlreadyGranted flags it instead.
type AdminAwardResponse struct {
	Achievement     Achievement   `json:"achievement"`
	AlreadyGranted  bool          `json:"already_granted"`
	NewAchievements []Achievement `json:"new_achievements,omitempty"`
}

type CourseProgress struct {
	CourseID  int    `json:"course_id"`
	Title     string `json:"title"`
	Completed int64  `json:"completed"`
	Total     int    `json:"total"`
}

type UserProgressResponse struct {
	User             *model.User      `json:"user"`
	CompletedLessons int64            `json:"completed_lessons"`
	XPToNextLevel    int              `json:"xp_to_next_level"`
	Courses          []CourseProgress `json:"courses"`
}

type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	XP       int    `json:"xp"`
	Level    int    `json:"level"`
}

// AchievementSummaryResponse mirrors what the profile page shows.
type AchievementSummaryResponse struct {
	Username          string                              `json:"username"`
	XP                int                                 `json:"xp"`
	Level             int                                 `json:"level"`
	TotalAchievements int                                 `json:"total_achievements"`
	CompletedLessons  int64                               `json:"completed_lessons"`
	PerfectQuizzes    int64                               `json:"perfect_quizzes"`
	ByCategory        map[string][]model.AchievementGrant `json:"achievements_by_category"`
}

// QuizSessionResponse is the client-facing snapshot of a running quiz.
// Correct answer indexes never leave the server.
type QuizSessionResponse struct {
	SessionID      string   `json:"session_id"`
	Kind           string   `json:"kind"`
	QuestionNumber int      `json:"question_number"`
	TotalQuestions int      `json:"total_questions"`
	Question       string   `json:"question"`
	Options        []string `json:"options"`
}

// AnswerResponse reports one submitted answer. For lesson quizzes the
// session finishes in the same call and Result carries the payout.
type AnswerResponse struct {
	Correct         bool                `json:"correct"`
	CorrectIndex    int                 `json:"correct_index"`
	Explanation     string              `json:"explanation"`
	AlreadyAnswered bool                `json:"already_answered"`
	Finished        bool                `json:"finished"`
	Result          *QuizResultResponse `json:"result,omitempty"`
}

// QuizResultResponse is the final payout of a finished session.
type QuizResultResponse struct {
	Score           int           `json:"score"`
	Total           int           `json:"total"`
	Percentage      float64       `json:"percentage"`
	XPEarned        int           `json:"xp_earned"`
	Perfect         bool          `json:"perfect"`
	NewAchievements []Achievement `json:"new_achievements"`
}

type QuizStatsResponse struct {
	TotalAttempts  int     `json:"total_attempts"`
	AveragePercent float64 `json:"average_percent"`
	BestPercent    float64 `json:"best_percent"`
	PerfectScores  int     `json:"perfect_scores"`
	Rating         string  `json:"rating"`
}

// PlatformStats is the aggregate snapshot served to admins.
type PlatformStats struct {
	TotalUsers        int64 `json:"total_users"`
	TotalXP           int64 `json:"total_xp"`
	TotalCompletions  int64 `json:"total_completions"`
	TotalAchievements int64 `json:"total_achievements"`
	TotalQuizAttempts int64 `json:"total_quiz_attempts"`
}
