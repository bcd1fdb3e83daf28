// model/content.go
package model

// Course is the top of the static curriculum hierarchy. The catalog is
// loaded once at startup and never mutated; all addressing is by integer
// coordinates (course, module, lesson).
type Course struct {
	ID          int            `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Level       string         `json:"level"` // Beginner, Intermediate, Advanced
	Modules     map[int]Module `json:"modules"`
}

type Module struct {
	Title   string         `json:"title"`
	Lessons map[int]Lesson `json:"lessons"`
}

type Lesson struct {
	Title    string    `json:"title"`
	Content  string    `json:"content"`
	XPReward int       `json:"xp_reward"`
	Quiz     *Quiz     `json:"quiz,omitempty"`
	Exercise *Exercise `json:"practical_exercise,omitempty"`
}

// Quiz is a single multiple-choice question; Correct indexes into Options.
type Quiz struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Correct     int      `json:"correct"`
	Explanation string   `json:"explanation"`
}

// Exercise is an ungraded hands-on prompt attached to a lesson.
type Exercise struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Steps       []string `json:"steps,omitempty"`
}

// Coordinate addresses one lesson in the catalog.
type Coordinate struct {
	Course int `json:"course"`
	Module int `json:"module"`
	Lesson int `json:"lesson"`
}
