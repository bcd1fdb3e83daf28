package dto

// Registration

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=64"`
}

func (r RegisterRequest) Validate() error {
	return validate.Struct(r)
}

// Lessons

type CompleteLessonRequest struct {
	Username string `json:"username,omitempty"`
	Course   int    `json:"course" validate:"required,gte=1"`
	Module   int    `json:"module" validate:"required,gte=1"`
	Lesson   int    `json:"lesson" validate:"required,gte=1"`
}

func (r CompleteLessonRequest) Validate() error {
	return validate.Struct(r)
}

// Quizzes

type StartLessonQuizRequest struct {
	Username string `json:"username,omitempty"`
	Course   int    `json:"course" validate:"required,gte=1"`
	Module   int    `json:"module" validate:"required,gte=1"`
	Lesson   int    `json:"lesson" validate:"required,gte=1"`
}

func (r StartLessonQuizRequest) Validate() error {
	return validate.Struct(r)
}

type StartModuleQuizRequest struct {
	Username string `json:"username,omitempty"`
	Course   int    `json:"course" validate:"required,gte=1"`
	Module   int    `json:"module" validate:"required,gte=1"`
}

func (r StartModuleQuizRequest) Validate() error {
	return validate.Struct(r)
}

type SubmitAnswerRequest struct {
	Answer *int `json:"answer" validate:"required,gte=0"`
}

func (r SubmitAnswerRequest) Validate() error {
	return validate.Struct(r)
}

// Admin

type AdminGrantXPRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Amount int    `json:"amount" validate:"required,gte=1,lte=10000"`
}

func (r AdminGrantXPRequest) Validate() error {
	return validate.Struct(r)
}

type AdminAwardRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Name   string `json:"name" validate:"required,min=1,max=100"`
}

func (r AdminAwardRequest) Validate() error {
	return validate.Struct(r)
}
