package domain

import (
	"context"

	"github.com/google/uuid"
)

// ContentIndex - read-модель контента курса плюс каскадное удаление.
// Создание/удаление контента вызывается админским слоем, ядро прогресса
// пользуется только чтением.
type ContentIndex interface {
	GetCourse(ctx context.Context, courseID uuid.UUID) (*Course, error)
	GetCourseStatus(ctx context.Context, courseID uuid.UUID) (*CourseStatusInfo, error)
	GetCourseDetail(ctx context.Context, courseID uuid.UUID) (*Course, error)
	ListCourses(ctx context.Context, search, category string, limit, offset int) ([]Course, int64, error)

	GetLesson(ctx context.Context, lessonID uuid.UUID) (*Lesson, error)
	ListLessonsOrdered(ctx context.Context, courseID uuid.UUID) ([]Lesson, error)
	CountLessons(ctx context.Context, courseID uuid.UUID) (int64, error)

	// Атомарный инкремент счетчика студентов (никакого кеша).
	IncrementStudents(ctx context.Context, courseID uuid.UUID) error

	CreateCourse(ctx context.Context, course *Course) error
	UpdateCourseStatus(ctx context.Context, courseID uuid.UUID, status CourseStatus) error
	AddChapter(ctx context.Context, chapter *Chapter) error
	AddLesson(ctx context.Context, lesson *Lesson) error

	// Каскады сверху вниз: курс -> главы -> уроки -> прогресс/оценки.
	DeleteCourse(ctx context.Context, courseID uuid.UUID) error
	DeleteChapter(ctx context.Context, chapterID uuid.UUID) error
	DeleteLesson(ctx context.Context, lessonID uuid.UUID) error
}

// ProgressRepository - хранилище строк прогресса по урокам.
type ProgressRepository interface {
	// CreateBatch вставляет строки одним запросом. Конфликт по
	// (user_id, lesson_id) молча пропускается; возвращается число
	// реально вставленных строк.
	CreateBatch(ctx context.Context, rows []LessonProgress) (int64, error)

	// MergeUpdate выполняет атомарный merge (max, max) и переход
	// в completed при достижении порога. Строка создается лениво,
	// если ее нет. Возвращает строку после обновления.
	MergeUpdate(ctx context.Context, userID, courseID, lessonID uuid.UUID, percentage, watchTime int) (*LessonProgress, error)

	// MarkCompleted безусловно завершает урок (100%, completed=true).
	// Повторный вызов ничего не меняет.
	MarkCompleted(ctx context.Context, userID, courseID, lessonID uuid.UUID) (*LessonProgress, error)

	FindByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) ([]LessonProgress, error)
	CountByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (int64, error)
	CountCompleted(ctx context.Context, userID, courseID uuid.UUID) (int64, error)
}

// RatingRepository - хранилище оценок. Upsert и Delete обязаны в той же
// транзакции пересчитывать average_rating/rating_count курса из
// фактического набора оценок.
type RatingRepository interface {
	Upsert(ctx context.Context, rating *CourseRating) (*CourseRating, error)
	FindByCourseAndUser(ctx context.Context, courseID, userID uuid.UUID) (*CourseRating, error)
	ListByCourse(ctx context.Context, courseID uuid.UUID, limit, offset int) ([]CourseRating, int64, error)
	Stats(ctx context.Context, courseID uuid.UUID) (*RatingStats, error)
	Delete(ctx context.Context, courseID, userID uuid.UUID) error
}
