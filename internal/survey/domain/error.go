package domain

import "errors"

var (
	ErrInvalidID       = errors.New("invalid_survey_id")
	ErrNotFound        = errors.New("survey_response_not_found")
	ErrInvalidQuestion = errors.New("invalid_question_code")
)
