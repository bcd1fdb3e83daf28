package model

import "time"

// LessonCompletion marks one lesson done for one user. Re-completion
// overwrites the timestamp instead of adding a second row.
type LessonCompletion struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;uniqueIndex:idx_completion_coord"`
	CourseID    int       `json:"course_id" gorm:"not null;uniqueIndex:idx_completion_coord"`
	ModuleID    int       `json:"module_id" gorm:"not null;uniqueIndex:idx_completion_coord"`
	LessonID    int       `json:"lesson_id" gorm:"not null;uniqueIndex:idx_completion_coord"`
	Completed   bool      `json:"completed" gorm:"default:true"`
	CompletedAt time.Time `json:"completed_at"`
}

// AchievementGrant records a badge awarded to a user. Key is the stable
// achievement identifier; the unique index is what makes concurrent
// evaluator passes safe.
type AchievementGrant struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"not null;uniqueIndex:idx_grant_key"`
	Key       string    `json:"key" gorm:"not null;uniqueIndex:idx_grant_key"`
	Name      string    `json:"name" gorm:"not null"`
	Category  string    `json:"category" gorm:"not null"`
	AwardedAt time.Time `json:"awarded_at"`
}

// QuizAttempt is append-only. Module-wide quizzes store lesson 0 and
// Kind "module"; perfect attempts are the ones where Score == Total.
type QuizAttempt struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	UserID      string    `json:"user_id" gorm:"not null;index"`
	CourseID    int       `json:"course_id" gorm:"not null"`
	ModuleID    int       `json:"module_id" gorm:"not null"`
	LessonID    int       `json:"lesson_id" gorm:"not null"`
	Kind        string    `json:"kind" gorm:"not null;default:lesson"`
	Score       int       `json:"score" gorm:"not null"`
	Total       int       `json:"total" gorm:"not null"`
	AttemptedAt time.Time `json:"attempted_at"`
}
