package handlers

import (
	"net/http"
	"strconv"

	"github.com/sambadiop7-hash/fibem-school/internal/application/usecase"
	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	content    domain.ContentIndex
	enrollment *usecase.EnrollmentUseCase
	progress   *usecase.ProgressUseCase
}

func NewCourseHandler(content domain.ContentIndex, e *usecase.EnrollmentUseCase, p *usecase.ProgressUseCase) *CourseHandler {
	return &CourseHandler{content: content, enrollment: e, progress: p}
}

// GET /api/v1/courses?search=&category=&limit=&offset=
func (h *CourseHandler) List(c *gin.Context) {
	search := c.Query("search")
	category := c.Query("category")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 20
	}

	courses, total, err := h.content.ListCourses(c, search, category, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "total_count": total})
}

// GET /api/v1/courses/:courseId
// Деталь курса + прогресс текущего пользователя, если он записан.
func (h *CourseHandler) GetOne(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	course, err := h.content.GetCourseDetail(c, courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"course":              course,
		"enrolled":            false,
		"progress_percentage": 0.0,
	}

	enrolled, err := h.enrollment.IsEnrolled(c, userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}

	if enrolled {
		summary, err := h.progress.GetCourseProgress(c, userID, courseID)
		if err != nil {
			respondError(c, err)
			return
		}
		detailed, err := h.progress.GetDetailedCourseProgress(c, userID, courseID)
		if err != nil {
			respondError(c, err)
			return
		}

		resp["enrolled"] = true
		resp["progress_percentage"] = summary.ProgressPercentage
		resp["completed_lessons"] = summary.CompletedLessons
		resp["total_lessons"] = summary.TotalLessons
		resp["user_progress"] = detailed
	}

	c.JSON(http.StatusOK, resp)
}
