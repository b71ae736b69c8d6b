package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/survey/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, response *domain.SurveyResponse) error {
	return db.WithContext(ctx).Omit("Answers").Create(response).Error
}

func (r *repo) FindByVisitAndCode(ctx context.Context, db *gorm.DB, visitID snowflake.ID, surveyCode string) (*domain.SurveyResponse, error) {
	var response domain.SurveyResponse
	err := db.WithContext(ctx).
		Preload("Answers").
		Where("visit_id = ? AND survey_code = ?", visitID, surveyCode).
		First(&response).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &response, nil
}

func (r *repo) FindByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) ([]domain.SurveyResponse, error) {
	var responses []domain.SurveyResponse
	err := db.WithContext(ctx).
		Preload("Answers").
		Where("visit_id = ?", visitID).
		Order("survey_code asc").
		Find(&responses).Error
	if err != nil {
		return nil, err
	}
	return responses, nil
}

func (r *repo) ReplaceAnswers(ctx context.Context, db *gorm.DB, responseID snowflake.ID, answers []domain.SurveyAnswer) error {
	err := db.WithContext(ctx).Exec(`DELETE FROM survey_answers WHERE response_id = ?`, responseID).Error
	if err != nil {
		return err
	}
	if len(answers) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&answers).Error
}

func (r *repo) Touch(ctx context.Context, db *gorm.DB, response *domain.SurveyResponse) error {
	return db.WithContext(ctx).Exec(
		`UPDATE survey_responses SET updated_at = ? WHERE id = ?`,
		response.UpdatedAt,
		response.ID,
	).Error
}

func (r *repo) DeleteByVisit(ctx context.Context, db *gorm.DB, visitID snowflake.ID) error {
	err := db.WithContext(ctx).Exec(
		`DELETE FROM survey_answers WHERE response_id IN (SELECT id FROM survey_responses WHERE visit_id = ?)`,
		visitID,
	).Error
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Exec(`DELETE FROM survey_responses WHERE visit_id = ?`, visitID).Error
}
