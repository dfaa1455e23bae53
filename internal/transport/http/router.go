package handlers

import (
	"time"

	"github.com/sambadiop7-hash/fibem-school/internal/infrastructure/security"
	"github.com/sambadiop7-hash/fibem-school/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(
	courseHandler *CourseHandler,
	progressHandler *ProgressHandler,
	ratingHandler *RatingHandler,
	adminHandler *AdminHandler,
	limiter *middleware.RateLimiter,
	tm *security.TokenManager,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.Default()

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowCredentials = true
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"}
	r.Use(cors.New(config))

	api := r.Group("/api/v1")
	{
		courses := api.Group("/courses")
		courses.Use(middleware.AuthMiddleware(tm))
		{
			courses.GET("", courseHandler.List)
			courses.GET("/:courseId", courseHandler.GetOne)

			courses.POST("/:courseId/enroll", progressHandler.Enroll)
			courses.GET("/:courseId/progress", progressHandler.GetCourseProgress)
			courses.GET("/:courseId/progress/details", progressHandler.GetDetailedProgress)

			// Оценки пишем нечасто, лимит защищает пересчёт агрегатов
			courses.POST("/:courseId/rating", limiter.Limit("rate_course", 10, 1*time.Minute), ratingHandler.Rate)
			courses.GET("/:courseId/rating", ratingHandler.GetMyRating)
			courses.DELETE("/:courseId/rating", ratingHandler.Delete)
			courses.GET("/:courseId/ratings", ratingHandler.List)
			courses.GET("/:courseId/ratings/stats", ratingHandler.Stats)
		}

		lessons := api.Group("/lessons")
		lessons.Use(middleware.AuthMiddleware(tm))
		{
			lessons.PUT("/:lessonId/progress", progressHandler.UpdateLessonProgress)
			lessons.POST("/:lessonId/complete", progressHandler.CompleteLesson)
		}

		admin := api.Group("/admin")
		admin.Use(middleware.AuthMiddleware(tm), middleware.AdminOnly())
		{
			admin.POST("/courses", adminHandler.CreateCourse)
			admin.POST("/courses/:courseId/publish", adminHandler.PublishCourse)
			admin.POST("/courses/:courseId/chapters", adminHandler.AddChapter)
			admin.POST("/chapters/:chapterId/lessons", adminHandler.AddLesson)
			admin.DELETE("/courses/:courseId", adminHandler.DeleteCourse)
			admin.DELETE("/chapters/:chapterId", adminHandler.DeleteChapter)
			admin.DELETE("/lessons/:lessonId", adminHandler.DeleteLesson)
		}
	}

	return r
}
