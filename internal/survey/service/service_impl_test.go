package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldline/fieldline/internal/survey/domain"
	"github.com/fieldline/fieldline/internal/survey/repository"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSurveyService(t *testing.T) (domain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	dsn := fmt.Sprintf("file:surveys_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := db.AutoMigrate(&domain.SurveyResponse{}, &domain.SurveyAnswer{}); err != nil {
		t.Fatal(err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatal(err)
	}

	svc := New(Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: repository.Provide()})
	return svc, db, node
}

func TestUpsertReplacesAnswersOnResubmit(t *testing.T) {
	svc, db, node := setupSurveyService(t)
	ctx := context.Background()
	visitID := node.Generate()
	customerID := node.Generate()

	first, err := svc.UpsertForVisit(ctx, db, visitID, customerID, domain.SurveyInput{
		SurveyCode: "availability",
		Answers:    map[string]string{"q1": "yes", "q2": "3"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(first.Answers))
	}

	second, err := svc.UpsertForVisit(ctx, db, visitID, customerID, domain.SurveyInput{
		SurveyCode: "availability",
		Answers:    map[string]string{"q1": "no"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID != first.ID {
		t.Fatalf("expected same response row, got new id %s", second.ID)
	}
	if len(second.Answers) != 1 {
		t.Fatalf("expected answers replaced, got %d", len(second.Answers))
	}
	if second.Answers[0].Answer != "no" {
		t.Fatalf("expected updated answer, got %q", second.Answers[0].Answer)
	}

	var count int64
	db.Model(&domain.SurveyAnswer{}).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 answer row after replace, got %d", count)
	}
}

func TestDistinctSurveyCodesCreateSeparateResponses(t *testing.T) {
	svc, db, node := setupSurveyService(t)
	ctx := context.Background()
	visitID := node.Generate()
	customerID := node.Generate()

	if _, err := svc.UpsertForVisit(ctx, db, visitID, customerID, domain.SurveyInput{
		SurveyCode: "availability",
		Answers:    map[string]string{"q1": "yes"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.UpsertForVisit(ctx, db, visitID, customerID, domain.SurveyInput{
		SurveyCode: "pricing",
		Answers:    map[string]string{"q1": "12000"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	responses, err := svc.GetByVisit(ctx, visitID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(responses) != 2 {
		t.Fatalf("expected 2 responses, got %d", len(responses))
	}
}

func TestUpsertRejectsBlankQuestionCode(t *testing.T) {
	svc, db, node := setupSurveyService(t)

	_, err := svc.UpsertForVisit(context.Background(), db, node.Generate(), node.Generate(), domain.SurveyInput{
		SurveyCode: "availability",
		Answers:    map[string]string{" ": "yes"},
	})
	if err != domain.ErrInvalidQuestion {
		t.Fatalf("expected ErrInvalidQuestion, got %v", err)
	}
}
