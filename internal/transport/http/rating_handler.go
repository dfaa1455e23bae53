package handlers

import (
	"net/http"
	"strconv"

	"github.com/sambadiop7-hash/fibem-school/internal/application/usecase"

	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	rating *usecase.RatingUseCase
}

func NewRatingHandler(r *usecase.RatingUseCase) *RatingHandler {
	return &RatingHandler{rating: r}
}

// POST /api/v1/courses/:courseId/rating
func (h *RatingHandler) Rate(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	saved, err := h.rating.RateCourse(c, courseID, userID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// GET /api/v1/courses/:courseId/rating - моя оценка
func (h *RatingHandler) GetMyRating(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	rating, err := h.rating.GetUserRating(c, courseID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rating)
}

// GET /api/v1/courses/:courseId/ratings?page=1&page_size=10
func (h *RatingHandler) List(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))

	ratings, total, err := h.rating.GetCourseRatings(c, courseID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ratings":     ratings,
		"total_count": total,
		"page":        page,
	})
}

// GET /api/v1/courses/:courseId/ratings/stats
func (h *RatingHandler) Stats(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	stats, err := h.rating.GetCourseRatingStats(c, courseID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// DELETE /api/v1/courses/:courseId/rating
func (h *RatingHandler) Delete(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}

	if err := h.rating.DeleteRating(c, courseID, userID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
