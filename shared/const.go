package shared

const (
	UserID = "user_id"

	HeaderUserID = "X-User-ID"

	CategoryXPMilestone      = "xp_milestone"
	CategoryLessonCompletion = "lesson_completion"
	CategoryCourseCompletion = "course_completion"
	CategoryPerfectQuiz      = "perfect_quiz"
	CategoryDailyStreak      = "daily_streak"
	CategorySpecial          = "special"
	CategoryLevelUp          = "level_up"

	QuizKindLesson = "lesson"
	QuizKindModule = "module"
)
