package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MinRating        = 1
	MaxRating        = 5
	MaxCommentLength = 500
)

type CourseRating struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_course_user" json:"course_id"`
	UserID   uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_course_user" json:"user_id"`

	Rating  int    `json:"rating"` // 1-5
	Comment string `gorm:"size:500" json:"comment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CourseRating) TableName() string {
	return "course_ratings"
}

func (cr *CourseRating) BeforeCreate(tx *gorm.DB) error {
	if cr.ID == uuid.Nil {
		cr.ID = uuid.New()
	}
	return nil
}

// ValidateRating проверяет входные данные ДО похода в базу.
func ValidateRating(rating int, comment string) error {
	if rating < MinRating || rating > MaxRating {
		return ErrInvalidRating
	}
	if len([]rune(comment)) > MaxCommentLength {
		return ErrCommentTooLong
	}
	return nil
}

// RatingStats - статистика оценок курса.
// Distribution всегда содержит все ключи 1..5, даже если оценок нет.
type RatingStats struct {
	AverageRating float64       `json:"average_rating"`
	TotalRatings  int64         `json:"total_ratings"`
	Distribution  map[int]int64 `json:"distribution"`
}

// EmptyRatingStats - статистика для курса без единой оценки.
func EmptyRatingStats() *RatingStats {
	return &RatingStats{
		AverageRating: 0.0,
		TotalRatings:  0,
		Distribution:  map[int]int64{1: 0, 2: 0, 3: 0, 4: 0, 5: 0},
	}
}
