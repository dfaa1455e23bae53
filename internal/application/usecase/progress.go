package usecase

import (
	"context"
	"log"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/google/uuid"
)

type ProgressUseCase struct {
	content  domain.ContentIndex
	progress domain.ProgressRepository
}

func NewProgressUseCase(content domain.ContentIndex, progress domain.ProgressRepository) *ProgressUseCase {
	return &ProgressUseCase{content: content, progress: progress}
}

// UpdateLessonProgress применяет отчет плеера о просмотре.
// Merge (max, max) коммутативен: отчеты можно применять в любом порядке,
// результат один и тот же. При достижении порога урок завершается
// автоматически.
func (uc *ProgressUseCase) UpdateLessonProgress(ctx context.Context, userID, lessonID uuid.UUID, percentage, watchTime int) (*domain.LessonProgress, error) {
	if percentage < 0 || percentage > domain.MaxProgressPercentage {
		return nil, domain.ErrInvalidProgress
	}
	if watchTime < 0 {
		return nil, domain.ErrInvalidWatchTime
	}

	// Курс-владелец определяется через индекс контента
	lesson, err := uc.content.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	row, err := uc.progress.MergeUpdate(ctx, userID, lesson.CourseID, lessonID, percentage, watchTime)
	if err != nil {
		return nil, err
	}

	if row.Completed {
		log.Printf("Lesson %s completed by user %s", lessonID, userID)
	}
	return row, nil
}

// MarkLessonAsCompleted завершает урок вручную, без учета процента.
// Идемпотентен.
func (uc *ProgressUseCase) MarkLessonAsCompleted(ctx context.Context, userID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	lesson, err := uc.content.GetLesson(ctx, lessonID)
	if err != nil {
		return nil, err
	}
	return uc.progress.MarkCompleted(ctx, userID, lesson.CourseID, lessonID)
}

// GetCourseProgress - сводка по курсу: сколько уроков пройдено
// и общий процент.
func (uc *ProgressUseCase) GetCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*domain.CourseProgressSummary, error) {
	totalLessons, err := uc.content.CountLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}

	started, err := uc.progress.CountByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	completed, err := uc.progress.CountCompleted(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	var percentage float64
	if totalLessons > 0 {
		percentage = float64(completed) / float64(totalLessons) * 100
	}

	return &domain.CourseProgressSummary{
		CourseID:           courseID,
		UserID:             userID,
		TotalLessons:       int(totalLessons),
		CompletedLessons:   int(completed),
		ProgressPercentage: percentage,
		IsStarted:          started > 0,
		IsCompleted:        totalLessons > 0 && completed == totalLessons,
	}, nil
}

// GetDetailedCourseProgress возвращает все строки прогресса по курсу.
// Если после записи в курс добавили уроки, недостающие строки
// досоздаются здесь (self-healing).
func (uc *ProgressUseCase) GetDetailedCourseProgress(ctx context.Context, userID, courseID uuid.UUID) ([]domain.LessonProgress, error) {
	rows, err := uc.progress.FindByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		// Нет ни одной строки - значит, не записан. Чинить нечего.
		return rows, nil
	}

	lessons, err := uc.content.ListLessonsOrdered(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if len(rows) >= len(lessons) {
		return rows, nil
	}

	// Досоздаем строки для уроков, добавленных после записи
	existing := make(map[uuid.UUID]bool, len(rows))
	for _, row := range rows {
		existing[row.LessonID] = true
	}

	var missing []domain.LessonProgress
	for _, lesson := range lessons {
		if !existing[lesson.ID] {
			missing = append(missing, domain.LessonProgress{
				UserID:   userID,
				CourseID: courseID,
				LessonID: lesson.ID,
			})
		}
	}

	if len(missing) > 0 {
		inserted, err := uc.progress.CreateBatch(ctx, missing)
		if err != nil {
			return nil, err
		}
		log.Printf("Initialized %d missing progress rows for user %s in course %s", inserted, userID, courseID)
		return uc.progress.FindByUserAndCourse(ctx, userID, courseID)
	}

	return rows, nil
}
