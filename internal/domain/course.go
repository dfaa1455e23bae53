package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
	CourseStatusArchived  CourseStatus = "archived"
)

type CourseLevel string

const (
	LevelBeginner     CourseLevel = "beginner"
	LevelIntermediate CourseLevel = "intermediate"
	LevelAdvanced     CourseLevel = "advanced"
)

type Course struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Title       string      `gorm:"index" json:"title"`
	Description string      `json:"description"`
	Category    string      `gorm:"index" json:"category"`
	Level       CourseLevel `gorm:"default:'beginner'" json:"level"`
	Duration    string      `json:"duration"` // "6 месяцев", "45 часов" и т.д.
	CoverURL    string      `json:"cover_url"`

	InstructorID uuid.UUID    `gorm:"type:uuid;index" json:"instructor_id"`
	Status       CourseStatus `gorm:"default:'draft';index" json:"status"`

	// Агрегаты. Меняются только атомарными UPDATE в репозитории,
	// никогда через read-modify-write на загруженной структуре.
	StudentsCount int     `gorm:"default:0" json:"students_count"`
	AverageRating float64 `gorm:"default:0" json:"average_rating"`
	RatingCount   int64   `gorm:"default:0" json:"rating_count"`

	Chapters []Chapter `gorm:"foreignKey:CourseID" json:"chapters,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Course) IsPublished() bool {
	return c.Status == CourseStatusPublished
}

// BeforeCreate: ставим ID, если пустой
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

type Chapter struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CourseID   uuid.UUID `gorm:"type:uuid;index" json:"course_id"`
	Title      string    `json:"title"`
	OrderIndex int       `json:"order_index"` // Для сортировки (1, 2, 3...)

	Lessons []Lesson `gorm:"foreignKey:ChapterID" json:"lessons,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (ch *Chapter) BeforeCreate(tx *gorm.DB) error {
	if ch.ID == uuid.Nil {
		ch.ID = uuid.New()
	}
	return nil
}

type ContentType string

const (
	ContentVideo    ContentType = "video"
	ContentDocument ContentType = "document"
	ContentText     ContentType = "text"
)

type Lesson struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ChapterID uuid.UUID `gorm:"type:uuid;index" json:"chapter_id"`
	// Дублируем CourseID, чтобы прогресс не ходил каждый раз через chapters
	CourseID uuid.UUID `gorm:"type:uuid;index" json:"course_id"`

	Title       string      `json:"title"`
	ContentType ContentType `gorm:"default:'video'" json:"content_type"`
	VideoURL    string      `json:"video_url,omitempty"`
	DocumentURL string      `json:"document_url,omitempty"`
	OrderIndex  int         `json:"order_index"`

	CreatedAt time.Time `json:"created_at"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// CourseStatusInfo - результат проверки курса перед записью/оценкой.
type CourseStatusInfo struct {
	Exists    bool
	Published bool
}
