package repository

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Репозитории гоняются на встроенном sqlite: вся конфликтная логика
// (ON CONFLICT, merge, пересчет агрегатов) выражена переносимым SQL.
// GREATEST - единственная postgres-функция, регистрируем ее руками.

const testDriver = "sqlite3_school"

var registerDriverOnce sync.Once

var schemaDDL = []string{
	`CREATE TABLE courses (
		id TEXT PRIMARY KEY,
		title TEXT,
		description TEXT,
		category TEXT,
		level TEXT DEFAULT 'beginner',
		duration TEXT,
		cover_url TEXT,
		instructor_id TEXT,
		status TEXT DEFAULT 'draft',
		students_count INTEGER DEFAULT 0,
		average_rating REAL DEFAULT 0,
		rating_count INTEGER DEFAULT 0,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE chapters (
		id TEXT PRIMARY KEY,
		course_id TEXT,
		title TEXT,
		order_index INTEGER DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE lessons (
		id TEXT PRIMARY KEY,
		chapter_id TEXT,
		course_id TEXT,
		title TEXT,
		content_type TEXT DEFAULT 'video',
		video_url TEXT,
		document_url TEXT,
		order_index INTEGER DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE lesson_progress (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		course_id TEXT,
		lesson_id TEXT,
		progress_percentage INTEGER DEFAULT 0,
		watch_time_seconds INTEGER DEFAULT 0,
		completed BOOLEAN DEFAULT false,
		completed_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (user_id, lesson_id)
	)`,
	`CREATE TABLE course_ratings (
		id TEXT PRIMARY KEY,
		course_id TEXT,
		user_id TEXT,
		rating INTEGER,
		comment TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (course_id, user_id)
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	registerDriverOnce.Do(func() {
		sql.Register(testDriver, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("greatest", func(a, b int64) int64 {
					if a > b {
						return a
					}
					return b
				}, true)
			},
		})
	})

	db, err := gorm.Open(sqlite.Dialector{DriverName: testDriver, DSN: ":memory:"}, &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// :memory: живет в рамках одного соединения
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range schemaDDL {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

// deadRedis - клиент на адрес, где никто не слушает: кеш-ветки
// репозиториев fail-open и уходят сразу в БД.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
}

type testRepos struct {
	courses  *CourseRepository
	progress *ProgressRepository
	ratings  *RatingRepository
}

func newTestRepos(t *testing.T) *testRepos {
	t.Helper()
	db := newTestDB(t)
	rdb := deadRedis()
	return &testRepos{
		courses:  NewCourseRepository(db, rdb),
		progress: NewProgressRepository(db),
		ratings:  NewRatingRepository(db, rdb),
	}
}

// seedCourse создает курс с одной главой и уроками через сами
// репозиторные методы.
func (tr *testRepos) seedCourse(t *testing.T, status domain.CourseStatus, lessonCount int) (*domain.Course, []domain.Lesson) {
	t.Helper()
	ctx := context.Background()

	course := &domain.Course{Title: "Python с нуля", Category: "Программирование", Status: status}
	require.NoError(t, tr.courses.CreateCourse(ctx, course))

	chapter := &domain.Chapter{CourseID: course.ID, Title: "Введение", OrderIndex: 1}
	require.NoError(t, tr.courses.AddChapter(ctx, chapter))

	lessons := make([]domain.Lesson, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		lesson := &domain.Lesson{ChapterID: chapter.ID, Title: "Урок", OrderIndex: i + 1}
		require.NoError(t, tr.courses.AddLesson(ctx, lesson))
		lessons = append(lessons, *lesson)
	}
	return course, lessons
}
