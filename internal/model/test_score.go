package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TestScore 每个 (user_id, test_id) 至多一行，重新计分时覆盖
// swagger:model TestScore
type TestScore struct {
	ID             uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint            `gorm:"not null;uniqueIndex:idx_test_scores_user_test" json:"user_id"`
	TestID         uint            `gorm:"not null;uniqueIndex:idx_test_scores_user_test" json:"test_id"`
	Score          decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"score"`
	TotalQuestions int             `gorm:"not null" json:"total_questions"`
	CorrectAnswers int             `gorm:"not null" json:"correct_answers"`
	CompletedAt    time.Time       `json:"completed_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (TestScore) TableName() string {
	return "test_scores"
}
