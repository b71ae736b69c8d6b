package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/survey/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("survey.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) UpsertForVisit(ctx context.Context, tx *gorm.DB, visitID, customerID snowflake.ID, input domain.SurveyInput) (domain.SurveyResponse, error) {
	code := strings.TrimSpace(input.SurveyCode)
	if code == "" {
		code = "default"
	}
	for question := range input.Answers {
		if strings.TrimSpace(question) == "" {
			return domain.SurveyResponse{}, domain.ErrInvalidQuestion
		}
	}

	now := time.Now().UTC()

	response, err := s.repo.FindByVisitAndCode(ctx, tx, visitID, code)
	if err != nil {
		return domain.SurveyResponse{}, err
	}
	if response == nil {
		response = &domain.SurveyResponse{
			ID:         s.genID.Generate(),
			VisitID:    visitID,
			CustomerID: customerID,
			SurveyCode: code,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Insert(ctx, tx, response); err != nil {
			return domain.SurveyResponse{}, err
		}
	} else {
		response.UpdatedAt = now
		if err := s.repo.Touch(ctx, tx, response); err != nil {
			return domain.SurveyResponse{}, err
		}
	}

	questions := make([]string, 0, len(input.Answers))
	for question := range input.Answers {
		questions = append(questions, question)
	}
	sort.Strings(questions)

	answers := make([]domain.SurveyAnswer, 0, len(questions))
	for _, question := range questions {
		answers = append(answers, domain.SurveyAnswer{
			ID:           s.genID.Generate(),
			ResponseID:   response.ID,
			QuestionCode: question,
			Answer:       input.Answers[question],
		})
	}
	if err := s.repo.ReplaceAnswers(ctx, tx, response.ID, answers); err != nil {
		return domain.SurveyResponse{}, err
	}

	response.Answers = answers
	return *response, nil
}

func (s *Service) GetByVisit(ctx context.Context, rawVisitID string) ([]domain.SurveyResponse, error) {
	visitID, err := snowflake.ParseString(strings.TrimSpace(rawVisitID))
	if err != nil || visitID == 0 {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindByVisit(ctx, s.db, visitID)
}
