package repository

import (
	"context"
	"errors"
	"jobquest_backend/internal/model"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoreRepository struct {
	DB *gorm.DB
}

func NewScoreRepository(db *gorm.DB) *ScoreRepository {
	return &ScoreRepository{DB: db}
}

// Upsert 单条语句完成插入或覆盖（postgres/sqlite: ON CONFLICT，mysql: ON DUPLICATE KEY）
func (r *ScoreRepository) Upsert(ctx context.Context, score *model.TestScore) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "test_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"score", "total_questions", "correct_answers", "completed_at", "updated_at",
		}),
	}).Create(score).Error
}

// Find 没有成绩时返回 (nil, nil)
func (r *ScoreRepository) Find(ctx context.Context, userID, testID uint) (*model.TestScore, error) {
	var s model.TestScore
	err := r.DB.WithContext(ctx).Where("user_id = ? AND test_id = ?", userID, testID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

type UserScoreRow struct {
	TestID         uint            `json:"test_id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Difficulty     string          `json:"difficulty"`
	Score          decimal.Decimal `json:"score"`
	TotalQuestions int             `json:"total_questions"`
	CorrectAnswers int             `json:"correct_answers"`
	CompletedAt    time.Time       `json:"completed_at"`
}

func (r *ScoreRepository) ListByUser(ctx context.Context, userID uint) ([]UserScoreRow, error) {
	var rows []UserScoreRow
	err := r.DB.WithContext(ctx).Table("test_scores ts").
		Select("ts.test_id, t.title, t.description, t.difficulty, ts.score, ts.total_questions, ts.correct_answers, ts.completed_at").
		Joins("JOIN tests t ON t.id = ts.test_id AND t.deleted_at IS NULL").
		Where("ts.user_id = ?", userID).
		Order("ts.completed_at desc").
		Scan(&rows).Error
	return rows, err
}
