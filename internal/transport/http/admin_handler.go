package handlers

import (
	"net/http"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/gin-gonic/gin"
)

// AdminHandler - тонкий слой управления контентом.
// Авторство курсов не входит в ядро, но каскадные удаления
// должны вызываться именно отсюда, сверху вниз.
type AdminHandler struct {
	content domain.ContentIndex
}

func NewAdminHandler(content domain.ContentIndex) *AdminHandler {
	return &AdminHandler{content: content}
}

// POST /api/v1/admin/courses
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Level       string `json:"level"`
		Duration    string `json:"duration"`
		CoverURL    string `json:"cover_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	course := &domain.Course{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Level:        domain.CourseLevel(req.Level),
		Duration:     req.Duration,
		CoverURL:     req.CoverURL,
		InstructorID: userID,
		Status:       domain.CourseStatusDraft,
	}
	if course.Level == "" {
		course.Level = domain.LevelBeginner
	}

	if err := h.content.CreateCourse(c, course); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}

// POST /api/v1/admin/courses/:courseId/publish
func (h *AdminHandler) PublishCourse(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	if err := h.content.UpdateCourseStatus(c, courseID, domain.CourseStatusPublished); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// POST /api/v1/admin/courses/:courseId/chapters
func (h *AdminHandler) AddChapter(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	var req struct {
		Title      string `json:"title" binding:"required"`
		OrderIndex int    `json:"order_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chapter := &domain.Chapter{
		CourseID:   courseID,
		Title:      req.Title,
		OrderIndex: req.OrderIndex,
	}
	if err := h.content.AddChapter(c, chapter); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, chapter)
}

// POST /api/v1/admin/chapters/:chapterId/lessons
func (h *AdminHandler) AddLesson(c *gin.Context) {
	chapterID, ok := pathUUID(c, "chapterId")
	if !ok {
		return
	}

	var req struct {
		Title       string `json:"title" binding:"required"`
		ContentType string `json:"content_type"`
		VideoURL    string `json:"video_url"`
		DocumentURL string `json:"document_url"`
		OrderIndex  int    `json:"order_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lesson := &domain.Lesson{
		ChapterID:   chapterID,
		Title:       req.Title,
		ContentType: domain.ContentType(req.ContentType),
		VideoURL:    req.VideoURL,
		DocumentURL: req.DocumentURL,
		OrderIndex:  req.OrderIndex,
	}
	if lesson.ContentType == "" {
		lesson.ContentType = domain.ContentVideo
	}

	if err := h.content.AddLesson(c, lesson); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// DELETE /api/v1/admin/courses/:courseId
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	if err := h.content.DeleteCourse(c, courseID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/v1/admin/chapters/:chapterId
func (h *AdminHandler) DeleteChapter(c *gin.Context) {
	chapterID, ok := pathUUID(c, "chapterId")
	if !ok {
		return
	}

	if err := h.content.DeleteChapter(c, chapterID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DELETE /api/v1/admin/lessons/:lessonId
func (h *AdminHandler) DeleteLesson(c *gin.Context) {
	lessonID, ok := pathUUID(c, "lessonId")
	if !ok {
		return
	}

	if err := h.content.DeleteLesson(c, lessonID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
