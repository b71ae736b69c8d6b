package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, response *SurveyResponse) error
	FindByVisitAndCode(ctx context.Context, db *gorm.DB, visitID snowflake.ID, surveyCode string) (*SurveyResponse, error)
	FindByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]SurveyResponse, error)
	ReplaceAnswers(ctx context.Context, db *gorm.DB, responseID snowflake.ID, answers []SurveyAnswer) error
	Touch(ctx context.Context, db *gorm.DB, response *SurveyResponse) error
	DeleteByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) error
}
