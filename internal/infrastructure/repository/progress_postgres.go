package repository

import (
	"context"
	"time"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	db *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// CreateBatch вставляет пачку строк одним INSERT.
// ON CONFLICT DO NOTHING: гонка двух одновременных записей на курс
// не создаст дублей и не будет ошибкой.
func (r *ProgressRepository) CreateBatch(ctx context.Context, rows []domain.LessonProgress) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&rows)

	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// MergeUpdate - атомарный merge прогресса.
// Читать строку в Go и писать обратно нельзя: два конкурентных апдейта
// потеряют больший watch_time. Поэтому merge делается прямо в SQL
// через GREATEST, одним UPDATE.
func (r *ProgressRepository) MergeUpdate(ctx context.Context, userID, courseID, lessonID uuid.UUID, percentage, watchTime int) (*domain.LessonProgress, error) {
	var row domain.LessonProgress

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Лениво материализуем строку, если записи на курс по какой-то
		// причине нет (self-healing после добавления уроков в курс)
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&domain.LessonProgress{
			UserID:   userID,
			CourseID: courseID,
			LessonID: lessonID,
		}).Error; err != nil {
			return err
		}

		// 2. Merge (max, max) - коммутативный и идемпотентный
		if err := tx.Model(&domain.LessonProgress{}).
			Where("user_id = ? AND lesson_id = ?", userID, lessonID).
			Updates(map[string]interface{}{
				"progress_percentage": gorm.Expr("GREATEST(progress_percentage, ?)", percentage),
				"watch_time_seconds":  gorm.Expr("GREATEST(watch_time_seconds, ?)", watchTime),
			}).Error; err != nil {
			return err
		}

		// 3. Автозавершение при достижении порога.
		// Процент принудительно ставится в 100, completed терминален.
		if err := tx.Model(&domain.LessonProgress{}).
			Where("user_id = ? AND lesson_id = ? AND completed = false AND progress_percentage >= ?",
				userID, lessonID, domain.CompletionThreshold).
			Updates(map[string]interface{}{
				"progress_percentage": domain.MaxProgressPercentage,
				"completed":           true,
				"completed_at":        time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// MarkCompleted безусловно завершает урок. Если урок уже completed,
// ничего не трогаем (completed_at не перештамповывается).
func (r *ProgressRepository) MarkCompleted(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	var row domain.LessonProgress

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).Create(&domain.LessonProgress{
			UserID:   userID,
			CourseID: courseID,
			LessonID: lessonID,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&domain.LessonProgress{}).
			Where("user_id = ? AND lesson_id = ? AND completed = false", userID, lessonID).
			Updates(map[string]interface{}{
				"progress_percentage": domain.MaxProgressPercentage,
				"completed":           true,
				"completed_at":        time.Now().UTC(),
			}).Error; err != nil {
			return err
		}

		return tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *ProgressRepository) FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) ([]domain.LessonProgress, error) {
	var rows []domain.LessonProgress
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at asc").
		Find(&rows).Error
	return rows, err
}

func (r *ProgressRepository) CountByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.LessonProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) CountCompleted(ctx context.Context, userID, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.LessonProgress{}).
		Where("user_id = ? AND course_id = ? AND completed = true", userID, courseID).
		Count(&count).Error
	return count, err
}
