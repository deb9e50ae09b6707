package repository

import (
	"context"
	"jobquest_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

func (r *AnswerRepository) Create(ctx context.Context, answer *model.UserAnswer) error {
	return r.DB.WithContext(ctx).Create(answer).Error
}

// ListForTest 返回用户在某张试卷下的所有作答，按提交顺序排列
func (r *AnswerRepository) ListForTest(ctx context.Context, userID, testID uint) ([]model.UserAnswer, error) {
	var answers []model.UserAnswer
	err := r.DB.WithContext(ctx).
		Joins("JOIN questions q ON q.id = user_answers.question_id AND q.deleted_at IS NULL").
		Where("user_answers.user_id = ? AND q.test_id = ?", userID, testID).
		Order("user_answers.created_at asc, user_answers.id asc").
		Find(&answers).Error
	return answers, err
}
