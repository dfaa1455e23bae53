package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	courseListTTL   = 10 * time.Minute
	courseDetailTTL = 1 * time.Hour
)

type CourseRepository struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewCourseRepository(db *gorm.DB, rdb *redis.Client) *CourseRepository {
	return &CourseRepository{db: db, rdb: rdb}
}

func (r *CourseRepository) GetCourse(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	var course domain.Course
	err := r.db.WithContext(ctx).First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// GetCourseStatus - легкая проверка перед записью/оценкой,
// без вытягивания всего курса.
func (r *CourseRepository) GetCourseStatus(ctx context.Context, courseID uuid.UUID) (*domain.CourseStatusInfo, error) {
	var row struct {
		Status domain.CourseStatus
	}
	err := r.db.WithContext(ctx).Model(&domain.Course{}).
		Select("status").
		Where("id = ?", courseID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &domain.CourseStatusInfo{Exists: false}, nil
	}
	if err != nil {
		return nil, err
	}
	return &domain.CourseStatusInfo{
		Exists:    true,
		Published: row.Status == domain.CourseStatusPublished,
	}, nil
}

// === КЕШИРУЕМ СПИСОК КУРСОВ ===
func (r *CourseRepository) ListCourses(ctx context.Context, search, category string, limit, offset int) ([]domain.Course, int64, error) {
	key := fmt.Sprintf("courses:list:%s:%s:%d:%d", search, category, limit, offset)

	// 1. Кеш
	val, err := r.rdb.Get(ctx, key).Result()
	if err == nil {
		var cached struct {
			Courses []domain.Course
			Total   int64
		}
		if json.Unmarshal([]byte(val), &cached) == nil {
			return cached.Courses, cached.Total, nil
		}
	}

	// 2. БД: наружу отдаем только опубликованные
	var courses []domain.Course
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("status = ?", domain.CourseStatusPublished)
	if search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := query.Limit(limit).Offset(offset).Order("created_at desc").Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	// 3. Кеш на 10 минут, курсы публикуются нечасто
	cacheData := struct {
		Courses []domain.Course
		Total   int64
	}{courses, total}
	if data, err := json.Marshal(cacheData); err == nil {
		r.rdb.Set(ctx, key, data, courseListTTL)
	}

	return courses, total, nil
}

// === КЕШИРУЕМ ДЕТАЛЬ КУРСА (С ГЛАВАМИ И УРОКАМИ) ===
func (r *CourseRepository) GetCourseDetail(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	key := "course:detail:" + courseID.String()

	val, err := r.rdb.Get(ctx, key).Result()
	if err == nil {
		var c domain.Course
		if json.Unmarshal([]byte(val), &c) == nil {
			return &c, nil
		}
	}

	var course domain.Course
	err = r.db.WithContext(ctx).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		Preload("Chapters.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).
		First(&course, "id = ?", courseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(course); err == nil {
		r.rdb.Set(ctx, key, data, courseDetailTTL)
	}

	return &course, nil
}

func (r *CourseRepository) GetLesson(ctx context.Context, lessonID uuid.UUID) (*domain.Lesson, error) {
	var lesson domain.Lesson
	err := r.db.WithContext(ctx).First(&lesson, "id = ?", lessonID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

// ListLessonsOrdered - уроки курса в порядке прохождения:
// сначала по порядку глав, внутри главы по порядку уроков.
func (r *CourseRepository) ListLessonsOrdered(ctx context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	var lessons []domain.Lesson
	err := r.db.WithContext(ctx).
		Joins("JOIN chapters ON chapters.id = lessons.chapter_id").
		Where("chapters.course_id = ?", courseID).
		Order("chapters.order_index asc, lessons.order_index asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *CourseRepository) CountLessons(ctx context.Context, courseID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// IncrementStudents - атомарный инкремент прямо в SQL.
// Read-then-write здесь недопустим: две конкурентные записи
// потеряют одного студента.
func (r *CourseRepository) IncrementStudents(ctx context.Context, courseID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", courseID).
		Update("students_count", gorm.Expr("students_count + 1")).Error
}

func (r *CourseRepository) CreateCourse(ctx context.Context, course *domain.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *CourseRepository) UpdateCourseStatus(ctx context.Context, courseID uuid.UUID, status domain.CourseStatus) error {
	result := r.db.WithContext(ctx).Model(&domain.Course{}).
		Where("id = ?", courseID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrCourseNotFound
	}
	r.invalidateDetail(ctx, courseID)
	return nil
}

func (r *CourseRepository) AddChapter(ctx context.Context, chapter *domain.Chapter) error {
	if err := r.db.WithContext(ctx).Create(chapter).Error; err != nil {
		return err
	}
	r.invalidateDetail(ctx, chapter.CourseID)
	return nil
}

func (r *CourseRepository) AddLesson(ctx context.Context, lesson *domain.Lesson) error {
	// CourseID дублируется в уроке - разрешаем его из главы
	if lesson.CourseID == uuid.Nil {
		var chapter domain.Chapter
		if err := r.db.WithContext(ctx).First(&chapter, "id = ?", lesson.ChapterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		lesson.CourseID = chapter.CourseID
	}

	if err := r.db.WithContext(ctx).Create(lesson).Error; err != nil {
		return err
	}
	r.invalidateDetail(ctx, lesson.CourseID)
	return nil
}

// DeleteCourse - явный каскад сверху вниз, одной транзакцией:
// оценки -> прогресс -> уроки -> главы -> курс.
// Никаких ORM-каскадов: порядок и видимость удаления должны быть
// детерминированными.
func (r *CourseRepository) DeleteCourse(ctx context.Context, courseID uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("course_id = ?", courseID).Delete(&domain.CourseRating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&domain.LessonProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&domain.Lesson{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&domain.Chapter{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&domain.Course{}, "id = ?", courseID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrCourseNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.invalidateDetail(ctx, courseID)
	return nil
}

func (r *CourseRepository) DeleteChapter(ctx context.Context, chapterID uuid.UUID) error {
	var chapter domain.Chapter
	if err := r.db.WithContext(ctx).First(&chapter, "id = ?", chapterID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uuid.UUID
		if err := tx.Model(&domain.Lesson{}).
			Where("chapter_id = ?", chapterID).
			Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&domain.LessonProgress{}).Error; err != nil {
				return err
			}
			if err := tx.Where("chapter_id = ?", chapterID).Delete(&domain.Lesson{}).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&domain.Chapter{}, "id = ?", chapterID).Error
	})
	if err != nil {
		return err
	}
	r.invalidateDetail(ctx, chapter.CourseID)
	return nil
}

func (r *CourseRepository) DeleteLesson(ctx context.Context, lessonID uuid.UUID) error {
	var lesson domain.Lesson
	if err := r.db.WithContext(ctx).First(&lesson, "id = ?", lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrLessonNotFound
		}
		return err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("lesson_id = ?", lessonID).Delete(&domain.LessonProgress{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Lesson{}, "id = ?", lessonID).Error
	})
	if err != nil {
		return err
	}
	r.invalidateDetail(ctx, lesson.CourseID)
	return nil
}

func (r *CourseRepository) invalidateDetail(ctx context.Context, courseID uuid.UUID) {
	r.rdb.Del(ctx, "course:detail:"+courseID.String())
}
