package usecase

import (
	"context"
	"log"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/google/uuid"
)

type EnrollmentUseCase struct {
	content  domain.ContentIndex
	progress domain.ProgressRepository
}

func NewEnrollmentUseCase(content domain.ContentIndex, progress domain.ProgressRepository) *EnrollmentUseCase {
	return &EnrollmentUseCase{content: content, progress: progress}
}

// StartCourseProgress записывает пользователя на курс: создает по строке
// прогресса на каждый урок и один раз увеличивает счетчик студентов.
// Повторный вызов - no-op, не ошибка.
func (uc *EnrollmentUseCase) StartCourseProgress(ctx context.Context, userID, courseID uuid.UUID) error {
	// 1. Курс существует и опубликован
	status, err := uc.content.GetCourseStatus(ctx, courseID)
	if err != nil {
		return err
	}
	if !status.Exists {
		return domain.ErrCourseNotFound
	}
	if !status.Published {
		return domain.ErrCourseNotPublished
	}

	// 2. Уже записан? Тогда ничего не делаем
	count, err := uc.progress.CountByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	// 3. В курсе должен быть хотя бы один урок
	lessons, err := uc.content.ListLessonsOrdered(ctx, courseID)
	if err != nil {
		return err
	}
	if len(lessons) == 0 {
		return domain.ErrCourseHasNoLessons
	}

	rows := make([]domain.LessonProgress, 0, len(lessons))
	for _, lesson := range lessons {
		rows = append(rows, domain.LessonProgress{
			UserID:   userID,
			CourseID: courseID,
			LessonID: lesson.ID,
		})
	}

	// 4. Вставка всей пачки атомарна. Если параллельный запрос успел
	// первым, вставится 0 строк - тогда счетчик студентов не трогаем,
	// иначе удвоим его на ровном месте.
	inserted, err := uc.progress.CreateBatch(ctx, rows)
	if err != nil {
		return err
	}
	if inserted == 0 {
		return nil
	}

	if err := uc.content.IncrementStudents(ctx, courseID); err != nil {
		return err
	}

	log.Printf("User %s enrolled in course %s (%d lessons)", userID, courseID, len(lessons))
	return nil
}

// IsEnrolled: пользователь записан, если у него есть хотя бы одна
// строка прогресса по курсу.
func (uc *EnrollmentUseCase) IsEnrolled(ctx context.Context, userID, courseID uuid.UUID) (bool, error) {
	count, err := uc.progress.CountByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
