package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CompletionThreshold - процент просмотра, после которого урок
// автоматически считается пройденным. При этом сохраняемый процент
// принудительно ставится в 100 (решение продукта, не баг).
const CompletionThreshold = 80

// MaxProgressPercentage - верхняя граница процента просмотра.
const MaxProgressPercentage = 100

type LessonProgress struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_lesson;index:idx_user_course" json:"user_id"`
	CourseID uuid.UUID `gorm:"type:uuid;index:idx_user_course" json:"course_id"`
	LessonID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_user_lesson" json:"lesson_id"`

	// Оба поля монотонные: при конкурентных апдейтах берется максимум.
	ProgressPercentage int `gorm:"default:0" json:"progress_percentage"`
	WatchTimeSeconds   int `gorm:"default:0" json:"watch_time_seconds"`

	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}

// BeforeCreate: ставим ID, если пустой. Пачки строк при записи на курс
// приходят без ID.
func (p *LessonProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// CourseProgressSummary - сводка прогресса пользователя по курсу.
type CourseProgressSummary struct {
	CourseID           uuid.UUID `json:"course_id"`
	UserID             uuid.UUID `json:"user_id"`
	TotalLessons       int       `json:"total_lessons"`
	CompletedLessons   int       `json:"completed_lessons"`
	ProgressPercentage float64   `json:"progress_percentage"`
	IsStarted          bool      `json:"is_started"`
	IsCompleted        bool      `json:"is_completed"`
}
