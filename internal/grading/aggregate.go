package grading

import (
	"jobquest_backend/internal/model"
	"jobquest_backend/internal/util"

	"github.com/shopspring/decimal"
)

// GradedAnswer 附带判定结果的作答，仅用于响应，不落库
type GradedAnswer struct {
	model.UserAnswer
	IsCorrect       bool     `json:"is_correct"`
	SimilarityScore *float64 `json:"similarity_score,omitempty"`
}

type Tally struct {
	Correct int
	Total   int
	Score   decimal.Decimal
}

// GradeAnswers 对属于题目集合的作答逐一评分。同一题多次提交时只取最新一次；
// 引用了不存在题目的作答被跳过并记为 Miss。
func GradeAnswers(questions []model.Question, answers []model.UserAnswer) ([]GradedAnswer, []*Miss) {
	var misses []*Miss

	keys := make(map[uint]Key, len(questions))
	known := make(map[uint]bool, len(questions))
	for i := range questions {
		q := &questions[i]
		known[q.ID] = true
		key, err := KeyOf(q)
		if err != nil {
			misses = append(misses, err.(*Miss))
			continue
		}
		keys[q.ID] = key
	}

	graded := make([]GradedAnswer, 0, len(answers))
	for _, a := range latestByQuestion(answers) {
		if !known[a.QuestionID] {
			misses = append(misses, &Miss{Reason: MissMissingQuestion, QuestionID: a.QuestionID, AnswerID: a.ID})
			continue
		}

		ga := GradedAnswer{UserAnswer: a}
		if key, ok := keys[a.QuestionID]; ok {
			out := Grade(key, ResponseOf(&a))
			ga.IsCorrect = out.Correct
			ga.SimilarityScore = out.Similarity
		}
		graded = append(graded, ga)
	}

	return graded, misses
}

// Aggregate 统计正确数并按题目总数计算百分比，未作答的题目视为错误
func Aggregate(questions []model.Question, answers []model.UserAnswer) (Tally, []*Miss, error) {
	if len(questions) == 0 {
		return Tally{}, nil, util.ErrNoQuestions
	}

	graded, misses := GradeAnswers(questions, answers)

	t := Tally{Total: len(questions)}
	for _, g := range graded {
		if g.IsCorrect {
			t.Correct++
		}
	}
	t.Score = Percent(t.Correct, t.Total)

	return t, misses, nil
}

var hundred = decimal.NewFromInt(100)

// Percent correct/total*100，按十进制四舍五入到两位小数（14.375 -> 14.38）。total 必须大于 0
func Percent(correct, total int) decimal.Decimal {
	return decimal.NewFromInt(int64(correct)).Mul(hundred).Div(decimal.NewFromInt(int64(total))).Round(2)
}

// FormatScore 固定两位小数，例如 "50.00"
func FormatScore(v decimal.Decimal) string {
	return v.StringFixed(2)
}

// latestByQuestion 每道题保留最新的一次作答，结果按首次出现的顺序排列
func latestByQuestion(answers []model.UserAnswer) []model.UserAnswer {
	idx := make(map[uint]int, len(answers))
	out := make([]model.UserAnswer, 0, len(answers))
	for _, a := range answers {
		i, seen := idx[a.QuestionID]
		if !seen {
			idx[a.QuestionID] = len(out)
			out = append(out, a)
			continue
		}
		if newer(a, out[i]) {
			out[i] = a
		}
	}
	return out
}

func newer(a, b model.UserAnswer) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID > b.ID
	}
	return a.CreatedAt.After(b.CreatedAt)
}
