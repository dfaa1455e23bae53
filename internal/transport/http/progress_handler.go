package handlers

import (
	"net/http"

	"github.com/sambadiop7-hash/fibem-school/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	enrollment *usecase.EnrollmentUseCase
	progress   *usecase.ProgressUseCase
}

func NewProgressHandler(e *usecase.EnrollmentUseCase, p *usecase.ProgressUseCase) *ProgressHandler {
	return &ProgressHandler{enrollment: e, progress: p}
}

// POST /api/v1/courses/:courseId/enroll
func (h *ProgressHandler) Enroll(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	if err := h.enrollment.StartCourseProgress(c, userID, courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// PUT /api/v1/lessons/:lessonId/progress
func (h *ProgressHandler) UpdateLessonProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lessonID, ok := pathUUID(c, "lessonId")
	if !ok {
		return
	}

	var req struct {
		ProgressPercentage int `json:"progress_percentage"`
		WatchTimeSeconds   int `json:"watch_time_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	row, err := h.progress.UpdateLessonProgress(c, userID, lessonID, req.ProgressPercentage, req.WatchTimeSeconds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// POST /api/v1/lessons/:lessonId/complete
func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	lessonID, ok := pathUUID(c, "lessonId")
	if !ok {
		return
	}

	row, err := h.progress.MarkLessonAsCompleted(c, userID, lessonID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// GET /api/v1/courses/:courseId/progress
func (h *ProgressHandler) GetCourseProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	summary, err := h.progress.GetCourseProgress(c, userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /api/v1/courses/:courseId/progress/details
func (h *ProgressHandler) GetDetailedProgress(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	rows, err := h.progress.GetDetailedCourseProgress(c, userID, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": rows})
}
