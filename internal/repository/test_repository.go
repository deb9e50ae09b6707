package repository

import (
	"context"
	"errors"
	"jobquest_backend/internal/model"
	"jobquest_backend/internal/util"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

func (r *TestRepository) List(ctx context.Context) ([]model.Test, error) {
	var tests []model.Test
	err := r.DB.WithContext(ctx).Order("id asc").Find(&tests).Error
	return tests, err
}

func (r *TestRepository) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.WithContext(ctx).First(&test, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrTestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &test, nil
}

// CreateWithQuestions 在一个事务里创建试卷和题目
func (r *TestRepository) CreateWithQuestions(ctx context.Context, test *model.Test, questions []model.Question) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions").Create(test).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		for i := range questions {
			questions[i].TestID = test.ID
		}
		if err := tx.Create(&questions).Error; err != nil {
			return err
		}
		test.Questions = questions
		return nil
	})
}
