package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type SurveyResponse struct {
	ID         snowflake.ID   `json:"id,string" gorm:"primaryKey"`
	VisitID    snowflake.ID   `json:"visit_id,string" gorm:"uniqueIndex:uq_survey_responses_visit"`
	CustomerID snowflake.ID   `json:"customer_id,string"`
	SurveyCode string         `json:"survey_code" gorm:"uniqueIndex:uq_survey_responses_visit"`
	Answers    []SurveyAnswer `json:"answers" gorm:"foreignKey:ResponseID"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func (SurveyResponse) TableName() string { return "survey_responses" }

type SurveyAnswer struct {
	ID           snowflake.ID `json:"id,string" gorm:"primaryKey"`
	ResponseID   snowflake.ID `json:"response_id,string" gorm:"index"`
	QuestionCode string       `json:"question_code"`
	Answer       string       `json:"answer"`
}

func (SurveyAnswer) TableName() string { return "survey_answers" }
