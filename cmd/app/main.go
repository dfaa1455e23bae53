package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sambadiop7-hash/fibem-school/config"
	"github.com/sambadiop7-hash/fibem-school/internal/application/usecase"
	"github.com/sambadiop7-hash/fibem-school/internal/domain"
	"github.com/sambadiop7-hash/fibem-school/internal/infrastructure/repository"
	"github.com/sambadiop7-hash/fibem-school/internal/infrastructure/security"
	"github.com/sambadiop7-hash/fibem-school/internal/middleware"
	handlers "github.com/sambadiop7-hash/fibem-school/internal/transport/http"

	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("Config load failed: %v", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("DB connect failed: %v", err)
	}

	// Миграции
	if err := db.AutoMigrate(
		&domain.Course{},
		&domain.Chapter{},
		&domain.Lesson{},
		&domain.LessonProgress{},
		&domain.CourseRating{},
	); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}

	// Репозитории
	courseRepo := repository.NewCourseRepository(db, rdb)
	progressRepo := repository.NewProgressRepository(db)
	ratingRepo := repository.NewRatingRepository(db, rdb)

	// Сценарии
	enrollmentUC := usecase.NewEnrollmentUseCase(courseRepo, progressRepo)
	progressUC := usecase.NewProgressUseCase(courseRepo, progressRepo)
	ratingUC := usecase.NewRatingUseCase(courseRepo, progressRepo, ratingRepo)

	// Транспорт
	tm := security.NewTokenManager(cfg.JWTSecret)
	limiter := middleware.NewRateLimiter(rdb)

	courseHandler := handlers.NewCourseHandler(courseRepo, enrollmentUC, progressUC)
	progressHandler := handlers.NewProgressHandler(enrollmentUC, progressUC)
	ratingHandler := handlers.NewRatingHandler(ratingUC)
	adminHandler := handlers.NewAdminHandler(courseRepo)

	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	r := handlers.NewRouter(courseHandler, progressHandler, ratingHandler, adminHandler, limiter, tm, origins)

	log.Printf("School API running on %s", cfg.HTTPPort)
	if err := r.Run(cfg.HTTPPort); err != nil {
		log.Fatalf("Serve failed: %v", err)
	}
}
