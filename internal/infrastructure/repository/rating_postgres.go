package repository

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const ratingStatsTTL = 10 * time.Minute

type RatingRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewRatingRepository(db *gorm.DB, rdb *redis.Client) *RatingRepository {
	return &RatingRepository{db: db, rdb: rdb}
}

// Upsert - одна оценка на пару (course_id, user_id).
// Гонка двух вставок разруливается констрейнтом: проигравший INSERT
// превращается в UPDATE. Средняя оценка курса пересчитывается в той же
// транзакции из фактического набора оценок, не из кеша.
func (r *RatingRepository) Upsert(ctx context.Context, rating *domain.CourseRating) (*domain.CourseRating, error) {
	var saved domain.CourseRating

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "course_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rating":     rating.Rating,
				"comment":    rating.Comment,
				"updated_at": time.Now().UTC(),
			}),
		}).Create(rating).Error; err != nil {
			return err
		}

		if err := r.recomputeCourseAggregates(tx, rating.CourseID); err != nil {
			return err
		}

		return tx.Where("course_id = ? AND user_id = ?", rating.CourseID, rating.UserID).
			First(&saved).Error
	})
	if err != nil {
		return nil, err
	}

	r.invalidateStats(ctx, rating.CourseID)
	return &saved, nil
}

func (r *RatingRepository) FindByCourseAndUser(ctx context.Context, courseID, userID uuid.UUID) (*domain.CourseRating, error) {
	var rating domain.CourseRating
	err := r.db.WithContext(ctx).
		Where("course_id = ? AND user_id = ?", courseID, userID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rating, nil
}

func (r *RatingRepository) ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]domain.CourseRating, int64, error) {
	var ratings []domain.CourseRating
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.CourseRating{}).
		Where("course_id = ?", courseID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := query.Limit(limit).Offset(offset).
		Order("created_at desc"). // Сначала свежие
		Find(&ratings).Error
	if err != nil {
		return nil, 0, err
	}
	return ratings, total, nil
}

// === КЕШИРУЕМ СТАТИСТИКУ ОЦЕНОК ===
// Кеш сбрасывается при каждой записи/удалении оценки, так что
// отдаем либо свежее, либо пересчитанное из БД.
func (r *RatingRepository) Stats(ctx context.Context, courseID uuid.UUID) (*domain.RatingStats, error) {
	key := statsKey(courseID)

	val, err := r.rdb.Get(ctx, key).Result()
	if err == nil {
		var stats domain.RatingStats
		if json.Unmarshal([]byte(val), &stats) == nil {
			return &stats, nil
		}
	}

	type bucket struct {
		Rating int
		Count  int64
	}
	var buckets []bucket
	if err := r.db.WithContext(ctx).Model(&domain.CourseRating{}).
		Select("rating, count(*) as count").
		Where("course_id = ?", courseID).
		Group("rating").
		Scan(&buckets).Error; err != nil {
		return nil, err
	}

	stats := domain.EmptyRatingStats()
	var sum, total int64
	for _, b := range buckets {
		stats.Distribution[b.Rating] = b.Count
		sum += int64(b.Rating) * b.Count
		total += b.Count
	}
	stats.TotalRatings = total
	if total > 0 {
		stats.AverageRating = roundToOneDecimal(float64(sum) / float64(total))
	}

	if data, err := json.Marshal(stats); err == nil {
		r.rdb.Set(ctx, key, data, ratingStatsTTL)
	}

	return stats, nil
}

func (r *RatingRepository) Delete(ctx context.Context, courseID, userID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("course_id = ? AND user_id = ?", courseID, userID).
			Delete(&domain.CourseRating{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrRatingNotFound
		}
		return r.recomputeCourseAggregates(tx, courseID)
	})
	if err != nil {
		return err
	}

	r.invalidateStats(ctx, courseID)
	return nil
}

// recomputeCourseAggregates пересчитывает average_rating и rating_count
// одним UPDATE из авторитетного набора оценок. COALESCE дает 0.0,
// когда оценок не осталось. Округление до одного знака через *10/10,
// чтобы не зависеть от диалектной сигнатуры ROUND.
func (r *RatingRepository) recomputeCourseAggregates(tx *gorm.DB, courseID uuid.UUID) error {
	return tx.Model(&domain.Course{}).
		Where("id = ?", courseID).
		Updates(map[string]interface{}{
			"average_rating": gorm.Expr(
				"COALESCE((SELECT ROUND(AVG(rating) * 10) / 10 FROM course_ratings WHERE course_id = ?), 0)",
				courseID),
			"rating_count": gorm.Expr(
				"(SELECT COUNT(*) FROM course_ratings WHERE course_id = ?)",
				courseID),
		}).Error
}

func (r *RatingRepository) invalidateStats(ctx context.Context, courseID uuid.UUID) {
	r.rdb.Del(ctx, statsKey(courseID))
}

func statsKey(courseID uuid.UUID) string {
	return "course:rating_stats:" + courseID.String()
}

func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
