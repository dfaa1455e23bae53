package usecase

import (
	"context"
	"log"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/google/uuid"
)

const DefaultRatingsPageSize = 10

type RatingUseCase struct {
	content  domain.ContentIndex
	progress domain.ProgressRepository
	ratings  domain.RatingRepository
}

func NewRatingUseCase(content domain.ContentIndex, progress domain.ProgressRepository, ratings domain.RatingRepository) *RatingUseCase {
	return &RatingUseCase{content: content, progress: progress, ratings: ratings}
}

// RateCourse - поставить оценку или обновить свою старую.
// Оценивать может только записанный на курс пользователь.
func (uc *RatingUseCase) RateCourse(ctx context.Context, courseID, userID uuid.UUID, rating int, comment string) (*domain.CourseRating, error) {
	// Валидация до любых походов в базу
	if err := domain.ValidateRating(rating, comment); err != nil {
		return nil, err
	}

	status, err := uc.content.GetCourseStatus(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !status.Exists {
		return nil, domain.ErrCourseNotFound
	}
	if !status.Published {
		return nil, domain.ErrCourseNotPublished
	}

	enrolled, err := uc.progress.CountByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled == 0 {
		return nil, domain.ErrNotEnrolled
	}

	saved, err := uc.ratings.Upsert(ctx, &domain.CourseRating{
		CourseID: courseID,
		UserID:   userID,
		Rating:   rating,
		Comment:  comment,
	})
	if err != nil {
		return nil, err
	}

	log.Printf("User %s rated course %s: %d", userID, courseID, rating)
	return saved, nil
}

func (uc *RatingUseCase) GetUserRating(ctx context.Context, courseID, userID uuid.UUID) (*domain.CourseRating, error) {
	return uc.ratings.FindByCourseAndUser(ctx, courseID, userID)
}

// GetCourseRatings - постраничный список оценок курса, свежие первыми.
// page нумеруется с 1.
func (uc *RatingUseCase) GetCourseRatings(ctx context.Context, courseID uuid.UUID, page, pageSize int) ([]domain.CourseRating, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultRatingsPageSize
	}
	offset := (page - 1) * pageSize
	return uc.ratings.ListByCourse(ctx, courseID, pageSize, offset)
}

func (uc *RatingUseCase) GetCourseRatingStats(ctx context.Context, courseID uuid.UUID) (*domain.RatingStats, error) {
	return uc.ratings.Stats(ctx, courseID)
}

// DeleteRating удаляет оценку пользователя и пересчитывает среднее.
func (uc *RatingUseCase) DeleteRating(ctx context.Context, courseID, userID uuid.UUID) error {
	return uc.ratings.Delete(ctx, courseID, userID)
}
