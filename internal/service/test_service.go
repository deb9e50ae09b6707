package service

import (
	"context"
	"fmt"
	"jobquest_backend/internal/grading"
	"jobquest_backend/internal/model"
	"jobquest_backend/internal/util"
	"slices"
	"strings"
)

type TestService struct {
	Tests     TestStore
	Questions QuestionStore
}

func NewTestService(tests TestStore, questions QuestionStore) *TestService {
	return &TestService{Tests: tests, Questions: questions}
}

type QuestionInput struct {
	Type          model.QuestionType `json:"type" binding:"required,oneof=mcq text"`
	Prompt        string             `json:"prompt" binding:"required"`
	Options       map[string]string  `json:"options"`
	CorrectOption string             `json:"correct_option"`
	CorrectAnswer string             `json:"correct_answer"`
}

type CreateTestInput struct {
	Title       string          `json:"title" binding:"required"`
	Description string          `json:"description"`
	Difficulty  string          `json:"difficulty"`
	Questions   []QuestionInput `json:"questions" binding:"required,min=1,dive"`
}

func (s *TestService) ListTests(ctx context.Context) ([]grading.TestView, error) {
	tests, err := s.Tests.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]grading.TestView, len(tests))
	for i := range tests {
		if views[i], err = grading.ViewOfTest(&tests[i]); err != nil {
			return nil, err
		}
	}
	return views, nil
}

// GetQuestions 返回答题用的题目，不含标准答案
func (s *TestService) GetQuestions(ctx context.Context, testID uint) ([]grading.QuestionView, error) {
	if _, err := s.Tests.FindByID(ctx, testID); err != nil {
		return nil, err
	}
	questions, err := s.Questions.ListByTest(ctx, testID)
	if err != nil {
		return nil, err
	}
	return grading.ViewOfQuestions(questions)
}

// CreateTest 管理员录入试卷，题目与试卷在同一事务中写入
func (s *TestService) CreateTest(ctx context.Context, in *CreateTestInput) (*model.Test, error) {
	questions := make([]model.Question, 0, len(in.Questions))
	for i, qi := range in.Questions {
		q, err := buildQuestion(qi)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		questions = append(questions, q)
	}

	test := &model.Test{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Difficulty:  in.Difficulty,
	}
	if err := s.Tests.CreateWithQuestions(ctx, test, questions); err != nil {
		return nil, err
	}
	return test, nil
}

func buildQuestion(in QuestionInput) (model.Question, error) {
	q := model.Question{Type: in.Type, Prompt: strings.TrimSpace(in.Prompt)}
	if q.Prompt == "" {
		return q, fmt.Errorf("%w: empty prompt", util.ErrInvalidQuestion)
	}

	switch in.Type {
	case model.QuestionMCQ:
		if !slices.Contains(model.OptionLabels, in.CorrectOption) {
			return q, fmt.Errorf("%w: correct_option must be one of %s", util.ErrInvalidQuestion, strings.Join(model.OptionLabels, ","))
		}
		if strings.TrimSpace(in.Options[in.CorrectOption]) == "" {
			return q, fmt.Errorf("%w: option %s is empty", util.ErrInvalidQuestion, in.CorrectOption)
		}
		q.OptionA = in.Options["A"]
		q.OptionB = in.Options["B"]
		q.OptionC = in.Options["C"]
		q.OptionD = in.Options["D"]
		q.CorrectOption = in.CorrectOption
	case model.QuestionText:
		if strings.TrimSpace(in.CorrectAnswer) == "" {
			return q, fmt.Errorf("%w: correct_answer is required", util.ErrInvalidQuestion)
		}
		q.CorrectAnswer = in.CorrectAnswer
	default:
		return q, fmt.Errorf("%w: unknown type %q", util.ErrInvalidQuestion, in.Type)
	}
	return q, nil
}
