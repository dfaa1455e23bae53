package domain

import "errors"

// Базовые виды ошибок. Конкретные ошибки ниже оборачивают их,
// чтобы транспортный слой мог матчить через errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidState = errors.New("invalid state")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrValidation   = errors.New("validation error")
)

var (
	ErrCourseNotFound = wrap("course not found", ErrNotFound)
	ErrLessonNotFound = wrap("lesson not found", ErrNotFound)
	ErrRatingNotFound = wrap("rating not found", ErrNotFound)

	ErrCourseNotPublished = wrap("course is not published", ErrInvalidState)
	ErrCourseHasNoLessons = wrap("course has no lessons yet", ErrInvalidState)

	// Оценивать курс может только записанный на него пользователь.
	ErrNotEnrolled = wrap("user is not enrolled in this course", ErrForbidden)

	ErrInvalidRating  = wrap("rating must be between 1 and 5", ErrValidation)
	ErrCommentTooLong = wrap("comment must be at most 500 characters", ErrValidation)

	ErrInvalidProgress  = wrap("progress percentage must be between 0 and 100", ErrValidation)
	ErrInvalidWatchTime = wrap("watch time cannot be negative", ErrValidation)
)

type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func wrap(msg string, kind error) error {
	return &kindError{msg: msg, kind: kind}
}
