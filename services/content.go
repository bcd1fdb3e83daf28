// services/content.go
package services

import (
	"fmt"
	"sort"

	"github.com/alphabatem/common/context"

	"github.com/Jaywinner/academy_api/model"
	"github.com/Jaywinner/academy_api/shared"
)

// ContentService is the read-only curriculum store. The catalog is a static
// literal loaded at configure time; nothing here touches the database.
type ContentService struct {
	context.DefaultService

	courses map[int]model.Course
}

const CONTENT_SVC = "content_svc"

func (svc ContentService) Id() string {
	return CONTENT_SVC
}

func (svc *ContentService) Configure(ctx *context.Context) error {
	svc.courses = defaultCatalog()
	return svc.DefaultService.Configure(ctx)
}

func (svc *ContentService) Start() error {
	return nil
}

func (svc *ContentService) GetCourse(courseID int) (*model.Course, error) {
	course, ok := svc.courses[courseID]
	if !ok {
		return nil, shared.NewNotFoundError(fmt.Errorf("course %d", courseID), "Course not found")
	}
	return &course, nil
}

func (svc *ContentService) GetModule(courseID, moduleID int) (*model.Module, error) {
	course, err := svc.GetCourse(courseID)
	if err != nil {
		return nil, err
	}

	module, ok := course.Modules[moduleID]
	if !ok {
		return nil, shared.NewNotFoundError(fmt.Errorf("course %d module %d", courseID, moduleID), "Module not found")
	}
	return &module, nil
}

func (svc *ContentService) GetLesson(courseID, moduleID, lessonID int) (*model.Lesson, error) {
	module, err := svc.GetModule(courseID, moduleID)
	if err != nil {
		return nil, err
	}

	lesson, ok := module.Lessons[lessonID]
	if !ok {
		return nil, shared.NewNotFoundError(
			fmt.Errorf("course %d module %d lesson %d", courseID, moduleID, lessonID), "Lesson not found")
	}
	return &lesson, nil
}

// ListCourses returns the catalog ordered by course id.
func (svc *ContentService) ListCourses() []model.Course {
	ids := make([]int, 0, len(svc.courses))
	for id := range svc.courses {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	courses := make([]model.Course, len(ids))
	for i, id := range ids {
		courses[i] = svc.courses[id]
	}
	return courses
}

// CourseLessonCount sums the lesson counts of every module in the course.
func (svc *ContentService) CourseLessonCount(courseID int) (int, error) {
	course, err := svc.GetCourse(courseID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, module := range course.Modules {
		total += len(module.Lessons)
	}
	return total, nil
}

// ResolveNextLesson returns the successor coordinate: next lesson in the
// module, else first lesson of the next module, else first lesson of the
// next course, else nil when the curriculum is exhausted.
func (svc *ContentService) ResolveNextLesson(courseID, moduleID, lessonID int) *model.Coordinate {
	if _, err := svc.GetLesson(courseID, moduleID, lessonID+1); err == nil {
		return &model.Coordinate{Course: courseID, Module: moduleID, Lesson: lessonID + 1}
	}

	if _, err := svc.GetModule(courseID, moduleID+1); err == nil {
		return &model.Coordinate{Course: courseID, Module: moduleID + 1, Lesson: 1}
	}

	if _, err := svc.GetCourse(courseID + 1); err == nil {
		return &model.Coordinate{Course: courseID + 1, Module: 1, Lesson: 1}
	}

	return nil
}

// ModuleQuizzes collects the quiz of every lesson in the module that has
// one, ordered by lesson id so callers get a deterministic base set.
func (svc *ContentService) ModuleQuizzes(courseID, moduleID int) ([]model.Quiz, error) {
	module, err := svc.GetModule(courseID, moduleID)
	if err != nil {
		return nil, err
	}

	lessonIDs := make([]int, 0, len(module.Lessons))
	for id := range module.Lessons {
		lessonIDs = append(lessonIDs, id)
	}
	sort.Ints(lessonIDs)

	var quizzes []model.Quiz
	for _, id := range lessonIDs {
		if lesson := module.Lessons[id]; lesson.Quiz != nil {
			quizzes = append(quizzes, *lesson.Quiz)
		}
	}
	return quizzes, nil
}
