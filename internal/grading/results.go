package grading

import (
	"fmt"
	"jobquest_backend/internal/model"
	"time"

	"github.com/jinzhu/copier"
)

type TestView struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	CreatedAt   time.Time `json:"created_at"`
}

// QuestionView 不包含 correct_option / correct_answer
type QuestionView struct {
	ID      uint               `json:"id"`
	TestID  uint               `json:"test_id"`
	Type    model.QuestionType `json:"type"`
	Prompt  string             `json:"prompt"`
	Options map[string]string  `json:"options,omitempty"`
}

type DetailedResult struct {
	Test           TestView       `json:"test"`
	Questions      []QuestionView `json:"questions"`
	Answers        []GradedAnswer `json:"answers"`
	Score          string         `json:"score"`
	CorrectAnswers int            `json:"correctAnswers"`
	TotalQuestions int            `json:"totalQuestions"`
	CompletedAt    time.Time      `json:"completedAt"`
}

// ViewOfTest 内嵌 BaseModel 的 ID、CreatedAt 由 copier 按字段名展开复制
func ViewOfTest(t *model.Test) (TestView, error) {
	var v TestView
	if err := copier.Copy(&v, t); err != nil {
		return TestView{}, fmt.Errorf("copy test %d: %w", t.ID, err)
	}
	return v, nil
}

// ViewOfQuestions Options 来自 Question.Options() 方法，copier 会调用同名无参方法填充
func ViewOfQuestions(questions []model.Question) ([]QuestionView, error) {
	views := make([]QuestionView, len(questions))
	for i := range questions {
		if err := copier.Copy(&views[i], &questions[i]); err != nil {
			return nil, fmt.Errorf("copy question %d: %w", questions[i].ID, err)
		}
	}
	return views, nil
}

// Assemble 组装复盘数据：汇总数字以已保存的成绩为准，逐题对错实时重算
func Assemble(test *model.Test, questions []model.Question, answers []model.UserAnswer, score *model.TestScore) (*DetailedResult, []*Miss, error) {
	graded, misses := GradeAnswers(questions, answers)

	testView, err := ViewOfTest(test)
	if err != nil {
		return nil, misses, err
	}
	questionViews, err := ViewOfQuestions(questions)
	if err != nil {
		return nil, misses, err
	}

	return &DetailedResult{
		Test:           testView,
		Questions:      questionViews,
		Answers:        graded,
		Score:          FormatScore(score.Score),
		CorrectAnswers: score.CorrectAnswers,
		TotalQuestions: score.TotalQuestions,
		CompletedAt:    score.CompletedAt,
	}, misses, nil
}
