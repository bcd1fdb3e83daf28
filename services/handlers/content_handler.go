package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Jaywinner/academy_api/shared"
)

type ContentHandler struct {
	contentSvc ContentServiceInterface
}

func NewContentHandler(contentSvc ContentServiceInterface) *ContentHandler {
	return &ContentHandler{contentSvc: contentSvc}
}

// @Summary List Courses
// @Description Get the full course catalog
// @Tags content
// @Accept json
// @Produce json
// @Success 200 {object} shared.Response{data=[]model.Course}
// @Router /api/v1/courses [get]
func (h *ContentHandler) ListCourses(c *fiber.Ctx) error {
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", h.contentSvc.ListCourses())
}

// @Summary Get Course
// @Description Get one course with its modules and lessons
// @Tags content
// @Accept json
// @Produce json
// @Param course path int true "Course ID"
// @Success 200 {object} shared.Response{data=model.Course}
// @Router /api/v1/courses/{course} [get]
func (h *ContentHandler) GetCourse(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("course")
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid course id")
	}

	course, err := h.contentSvc.GetCourse(courseID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", course)
}

// @Summary Get Lesson
// @Description Get one lesson by coordinate
// @Tags content
// @Accept json
// @Produce json
// @Param course path int true "Course ID"
// @Param module path int true "Module ID"
// @Param lesson path int true "Lesson ID"
// @Success 200 {object} shared.Response{data=model.Lesson}
// @Router /api/v1/courses/{course}/modules/{module}/lessons/{lesson} [get]
func (h *ContentHandler) GetLesson(c *fiber.Ctx) error {
	courseID, err := c.ParamsInt("course")
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid course id")
	}
	moduleID, err := c.ParamsInt("module")
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid module id")
	}
	lessonID, err := c.ParamsInt("lesson")
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid lesson id")
	}

	lesson, err := h.contentSvc.GetLesson(courseID, moduleID, lessonID)
	if err != nil {
		return err
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", lesson)
}

// @Summary Next Lesson
// @Description Resolve the lesson that follows the given coordinate
// @Tags content
// @Accept json
// @Produce json
// @Param course query int true "Course ID"
// @Param module query int true "Module ID"
// @Param lesson query int true "Lesson ID"
// @Success 200 {object} shared.Response{data=model.Coordinate}
// @Router /api/v1/lessons/next [get]
func (h *ContentHandler) NextLesson(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Query("course"))
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid course id")
	}
	moduleID, err := strconv.Atoi(c.Query("module"))
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid module id")
	}
	lessonID, err := strconv.Atoi(c.Query("lesson"))
	if err != nil {
		return shared.NewBadRequestError(err, "Invalid lesson id")
	}

	if _, err := h.contentSvc.GetLesson(courseID, moduleID, lessonID); err != nil {
		return err
	}

	next := h.contentSvc.ResolveNextLesson(courseID, moduleID, lessonID)
	if next == nil {
		return shared.ResponseJSON(c, fiber.StatusOK, "Curriculum complete", nil)
	}

	return shared.ResponseJSON(c, fiber.StatusOK, "Success", next)
}
