package usecase

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/sambadiop7-hash/fibem-school/internal/domain"

	"github.com/google/uuid"
)

// In-memory реализации репозиториев с той же семантикой конфликтов
// и merge, что и у Postgres-версий.

type fakeContentIndex struct {
	courses map[uuid.UUID]*domain.Course
	lessons []domain.Lesson
}

func newFakeContentIndex() *fakeContentIndex {
	return &fakeContentIndex{courses: make(map[uuid.UUID]*domain.Course)}
}

func (f *fakeContentIndex) addCourse(status domain.CourseStatus, lessonCount int) (uuid.UUID, []uuid.UUID) {
	courseID := uuid.New()
	f.courses[courseID] = &domain.Course{ID: courseID, Title: "course", Status: status}

	lessonIDs := make([]uuid.UUID, 0, lessonCount)
	for i := 0; i < lessonCount; i++ {
		id := uuid.New()
		f.lessons = append(f.lessons, domain.Lesson{
			ID:         id,
			CourseID:   courseID,
			OrderIndex: i + 1,
		})
		lessonIDs = append(lessonIDs, id)
	}
	return courseID, lessonIDs
}

func (f *fakeContentIndex) GetCourse(_ context.Context, courseID uuid.UUID) (*domain.Course, error) {
	course, ok := f.courses[courseID]
	if !ok {
		return nil, domain.ErrCourseNotFound
	}
	return course, nil
}

func (f *fakeContentIndex) GetCourseStatus(_ context.Context, courseID uuid.UUID) (*domain.CourseStatusInfo, error) {
	course, ok := f.courses[courseID]
	if !ok {
		return &domain.CourseStatusInfo{}, nil
	}
	return &domain.CourseStatusInfo{Exists: true, Published: course.IsPublished()}, nil
}

func (f *fakeContentIndex) GetCourseDetail(ctx context.Context, courseID uuid.UUID) (*domain.Course, error) {
	return f.GetCourse(ctx, courseID)
}

func (f *fakeContentIndex) ListCourses(_ context.Context, _, _ string, _, _ int) ([]domain.Course, int64, error) {
	out := make([]domain.Course, 0, len(f.courses))
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeContentIndex) GetLesson(_ context.Context, lessonID uuid.UUID) (*domain.Lesson, error) {
	for i := range f.lessons {
		if f.lessons[i].ID == lessonID {
			return &f.lessons[i], nil
		}
	}
	return nil, domain.ErrLessonNotFound
}

func (f *fakeContentIndex) ListLessonsOrdered(_ context.Context, courseID uuid.UUID) ([]domain.Lesson, error) {
	var out []domain.Lesson
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderIndex < out[j].OrderIndex })
	return out, nil
}

func (f *fakeContentIndex) CountLessons(ctx context.Context, courseID uuid.UUID) (int64, error) {
	lessons, _ := f.ListLessonsOrdered(ctx, courseID)
	return int64(len(lessons)), nil
}

func (f *fakeContentIndex) IncrementStudents(_ context.Context, courseID uuid.UUID) error {
	course, ok := f.courses[courseID]
	if !ok {
		return domain.ErrCourseNotFound
	}
	course.StudentsCount++
	return nil
}

func (f *fakeContentIndex) CreateCourse(_ context.Context, course *domain.Course) error {
	if course.ID == uuid.Nil {
		course.ID = uuid.New()
	}
	f.courses[course.ID] = course
	return nil
}

func (f *fakeContentIndex) UpdateCourseStatus(_ context.Context, courseID uuid.UUID, status domain.CourseStatus) error {
	course, ok := f.courses[courseID]
	if !ok {
		return domain.ErrCourseNotFound
	}
	course.Status = status
	return nil
}

func (f *fakeContentIndex) AddChapter(_ context.Context, _ *domain.Chapter) error { return nil }

func (f *fakeContentIndex) AddLesson(_ context.Context, lesson *domain.Lesson) error {
	if lesson.ID == uuid.Nil {
		lesson.ID = uuid.New()
	}
	f.lessons = append(f.lessons, *lesson)
	return nil
}

func (f *fakeContentIndex) DeleteCourse(_ context.Context, courseID uuid.UUID) error {
	delete(f.courses, courseID)
	kept := f.lessons[:0]
	for _, l := range f.lessons {
		if l.CourseID != courseID {
			kept = append(kept, l)
		}
	}
	f.lessons = kept
	return nil
}

func (f *fakeContentIndex) DeleteChapter(_ context.Context, _ uuid.UUID) error { return nil }

func (f *fakeContentIndex) DeleteLesson(_ context.Context, lessonID uuid.UUID) error {
	kept := f.lessons[:0]
	for _, l := range f.lessons {
		if l.ID != lessonID {
			kept = append(kept, l)
		}
	}
	f.lessons = kept
	return nil
}

type progressKey struct {
	userID   uuid.UUID
	lessonID uuid.UUID
}

type fakeProgressRepo struct {
	rows map[progressKey]*domain.LessonProgress
}

func newFakeProgressRepo() *fakeProgressRepo {
	return &fakeProgressRepo{rows: make(map[progressKey]*domain.LessonProgress)}
}

func (f *fakeProgressRepo) CreateBatch(_ context.Context, rows []domain.LessonProgress) (int64, error) {
	var inserted int64
	for _, row := range rows {
		key := progressKey{userID: row.UserID, lessonID: row.LessonID}
		if _, exists := f.rows[key]; exists {
			continue
		}
		r := row
		r.ID = uuid.New()
		f.rows[key] = &r
		inserted++
	}
	return inserted, nil
}

func (f *fakeProgressRepo) MergeUpdate(_ context.Context, userID, courseID, lessonID uuid.UUID, percentage, watchTime int) (*domain.LessonProgress, error) {
	key := progressKey{userID: userID, lessonID: lessonID}
	row, ok := f.rows[key]
	if !ok {
		row = &domain.LessonProgress{
			ID:       uuid.New(),
			UserID:   userID,
			CourseID: courseID,
			LessonID: lessonID,
		}
		f.rows[key] = row
	}

	// merge (max, max)
	if percentage > row.ProgressPercentage {
		row.ProgressPercentage = percentage
	}
	if watchTime > row.WatchTimeSeconds {
		row.WatchTimeSeconds = watchTime
	}

	if !row.Completed && row.ProgressPercentage >= domain.CompletionThreshold {
		now := time.Now().UTC()
		row.ProgressPercentage = domain.MaxProgressPercentage
		row.Completed = true
		row.CompletedAt = &now
	}

	copied := *row
	return &copied, nil
}

func (f *fakeProgressRepo) MarkCompleted(_ context.Context, userID, courseID, lessonID uuid.UUID) (*domain.LessonProgress, error) {
	key := progressKey{userID: userID, lessonID: lessonID}
	row, ok := f.rows[key]
	if !ok {
		row = &domain.LessonProgress{
			ID:       uuid.New(),
			UserID:   userID,
			CourseID: courseID,
			LessonID: lessonID,
		}
		f.rows[key] = row
	}
	if !row.Completed {
		now := time.Now().UTC()
		row.ProgressPercentage = domain.MaxProgressPercentage
		row.Completed = true
		row.CompletedAt = &now
	}
	copied := *row
	return &copied, nil
}

func (f *fakeProgressRepo) FindByUserAndCourse(_ context.Context, userID, courseID uuid.UUID) ([]domain.LessonProgress, error) {
	var out []domain.LessonProgress
	for _, row := range f.rows {
		if row.UserID == userID && row.CourseID == courseID {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (f *fakeProgressRepo) CountByUserAndCourse(ctx context.Context, userID, courseID uuid.UUID) (int64, error) {
	rows, _ := f.FindByUserAndCourse(ctx, userID, courseID)
	return int64(len(rows)), nil
}

func (f *fakeProgressRepo) CountCompleted(ctx context.Context, userID, courseID uuid.UUID) (int64, error) {
	rows, _ := f.FindByUserAndCourse(ctx, userID, courseID)
	var n int64
	for _, row := range rows {
		if row.Completed {
			n++
		}
	}
	return n, nil
}

type ratingKey struct {
	courseID uuid.UUID
	userID   uuid.UUID
}

type fakeRatingRepo struct {
	rows map[ratingKey]*domain.CourseRating
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{rows: make(map[ratingKey]*domain.CourseRating)}
}

func (f *fakeRatingRepo) Upsert(_ context.Context, rating *domain.CourseRating) (*domain.CourseRating, error) {
	key := ratingKey{courseID: rating.CourseID, userID: rating.UserID}
	if row, ok := f.rows[key]; ok {
		row.Rating = rating.Rating
		row.Comment = rating.Comment
		row.UpdatedAt = time.Now().UTC()
		copied := *row
		return &copied, nil
	}
	r := *rating
	r.ID = uuid.New()
	r.CreatedAt = time.Now().UTC()
	r.UpdatedAt = r.CreatedAt
	f.rows[key] = &r
	copied := r
	return &copied, nil
}

func (f *fakeRatingRepo) FindByCourseAndUser(_ context.Context, courseID, userID uuid.UUID) (*domain.CourseRating, error) {
	row, ok := f.rows[ratingKey{courseID: courseID, userID: userID}]
	if !ok {
		return nil, domain.ErrRatingNotFound
	}
	copied := *row
	return &copied, nil
}

func (f *fakeRatingRepo) ListByCourse(_ context.Context, courseID uuid.UUID, limit, offset int) ([]domain.CourseRating, int64, error) {
	var all []domain.CourseRating
	for _, row := range f.rows {
		if row.CourseID == courseID {
			all = append(all, *row)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeRatingRepo) Stats(_ context.Context, courseID uuid.UUID) (*domain.RatingStats, error) {
	stats := domain.EmptyRatingStats()
	var sum int64
	for _, row := range f.rows {
		if row.CourseID == courseID {
			stats.Distribution[row.Rating]++
			stats.TotalRatings++
			sum += int64(row.Rating)
		}
	}
	if stats.TotalRatings > 0 {
		stats.AverageRating = math.Round(float64(sum)/float64(stats.TotalRatings)*10) / 10
	}
	return stats, nil
}

func (f *fakeRatingRepo) Delete(_ context.Context, courseID, userID uuid.UUID) error {
	key := ratingKey{courseID: courseID, userID: userID}
	if _, ok := f.rows[key]; !ok {
		return domain.ErrRatingNotFound
	}
	delete(f.rows, key)
	return nil
}
