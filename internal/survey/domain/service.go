package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

// SurveyInput is the survey element of a visit upload. Re-submitting the same
// visit and survey_code replaces the previous answer set.
type SurveyInput struct {
	SurveyCode string            `json:"survey_code"`
	Answers    map[string]string `json:"answers"`
}

type Service interface {
	UpsertForVisit(ctx context.Context, tx *gorm.DB, visitID, customerID snowflake.ID, input SurveyInput) (SurveyResponse, error)
	GetByVisit(ctx context.Context, rawVisitID string) ([]SurveyResponse, error)
}
