package grading

import (
	"fmt"
	"jobquest_backend/internal/model"
)

// SimilarityThreshold 文本题判定正确的最低相似度（含等于）
const SimilarityThreshold = 0.5

// Key 是题目的标准答案，只有 MCQKey 和 TextKey 两种实现
type Key interface {
	isKey()
}

type MCQKey struct {
	CorrectOption string
}

type TextKey struct {
	CorrectAnswer string
}

func (MCQKey) isKey()  {}
func (TextKey) isKey() {}

// KeyOf 从题目记录构造标准答案，未知题型返回 *Miss
func KeyOf(q *model.Question) (Key, error) {
	switch q.Type {
	case model.QuestionMCQ:
		return MCQKey{CorrectOption: q.CorrectOption}, nil
	case model.QuestionText:
		return TextKey{CorrectAnswer: q.CorrectAnswer}, nil
	}
	return nil, &Miss{
		Reason:     MissUnknownType,
		QuestionID: q.ID,
		Detail:     fmt.Sprintf("unknown question type %q", q.Type),
	}
}

// Response 作答内容，语音作答不参与评分
type Response struct {
	SelectedOption string
	AnswerText     string
}

func ResponseOf(a *model.UserAnswer) Response {
	return Response{SelectedOption: a.SelectedOption, AnswerText: a.AnswerText}
}

type Outcome struct {
	Correct bool
	// Similarity 仅文本题且双方非空时有值
	Similarity *float64
}

func Grade(key Key, resp Response) Outcome {
	switch k := key.(type) {
	case MCQKey:
		return Outcome{Correct: resp.SelectedOption != "" && resp.SelectedOption == k.CorrectOption}
	case TextKey:
		return gradeText(k, resp)
	}
	return Outcome{}
}

func gradeText(k TextKey, resp Response) Outcome {
	answer := Normalize(resp.AnswerText)
	expected := Normalize(k.CorrectAnswer)
	if answer == "" || expected == "" {
		return Outcome{}
	}

	sim := Similarity(answer, expected)
	return Outcome{Correct: sim >= SimilarityThreshold, Similarity: &sim}
}
