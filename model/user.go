package model

import "time"

// User is the learner record. The ID is the chat platform's user id and is
// assigned externally; XP only ever grows and Level is derived from it.
type User struct {
	ID            string    `json:"id" gorm:"primaryKey"`
	Username      string    `json:"username" gorm:"not null"`
	XP            int       `json:"xp" gorm:"default:0"`
	Level         int       `json:"level" gorm:"default:1"`
	CurrentCourse int       `json:"current_course" gorm:"default:1"`
	CurrentModule int       `json:"current_module" gorm:"default:1"`
	CurrentLesson int       `json:"current_lesson" gorm:"default:1"`
	JoinedAt      time.Time `json:"joined_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
