package service

import (
	"context"
	"errors"
	"fmt"
	"jobquest_backend/internal/grading"
	"jobquest_backend/internal/model"
	"jobquest_backend/internal/repository"
	"jobquest_backend/internal/util"
	"jobquest_backend/pkg/logger"
	"jobquest_backend/pkg/monitoring"
	"jobquest_backend/pkg/tracing"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

type ScoreService struct {
	Tests     TestStore
	Questions QuestionStore
	Answers   AnswerStore
	Scores    ScoreStore
	now       func() time.Time
}

func NewScoreService(tests TestStore, questions QuestionStore, answers AnswerStore, scores ScoreStore) *ScoreService {
	return &ScoreService{
		Tests:     tests,
		Questions: questions,
		Answers:   answers,
		Scores:    scores,
		now:       time.Now,
	}
}

// ScoreResult calculate-score 的对外结果，score/percentage 固定两位小数
type ScoreResult struct {
	Score          string `json:"score"`
	Percentage     string `json:"percentage"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
}

// CalculateScore 对用户在该试卷下的作答重新评分并覆盖成绩记录
func (s *ScoreService) CalculateScore(ctx context.Context, userID, testID uint) (*ScoreResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ScoreService.CalculateScore")
	defer span.End()
	span.SetAttributes(attribute.Int("user.id", int(userID)), attribute.Int("test.id", int(testID)))

	result, err := s.calculate(ctx, userID, testID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		monitoring.ScoreCalculations.WithLabelValues(outcomeOf(err)).Inc()
		return nil, err
	}
	monitoring.ScoreCalculations.WithLabelValues("ok").Inc()
	return result, nil
}

func (s *ScoreService) calculate(ctx context.Context, userID, testID uint) (*ScoreResult, error) {
	if _, err := s.Tests.FindByID(ctx, testID); err != nil {
		return nil, err
	}

	questions, err := s.Questions.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	answers, err := s.Answers.ListForTest(ctx, userID, testID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	tally, misses, err := grading.Aggregate(questions, answers)
	if err != nil {
		return nil, err
	}
	logMisses(userID, testID, misses)

	record := &model.TestScore{
		UserID:         userID,
		TestID:         testID,
		Score:          tally.Score,
		TotalQuestions: tally.Total,
		CorrectAnswers: tally.Correct,
		CompletedAt:    s.now(),
	}
	if err := s.Scores.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("upsert score: %w", err)
	}

	logger.Log.Info("test scored",
		zap.Uint("user_id", userID),
		zap.Uint("test_id", testID),
		zap.Int("correct", tally.Correct),
		zap.Int("total", tally.Total),
		zap.Stringer("score", tally.Score),
	)

	formatted := grading.FormatScore(tally.Score)
	return &ScoreResult{
		Score:          formatted,
		Percentage:     formatted,
		CorrectAnswers: tally.Correct,
		TotalQuestions: tally.Total,
	}, nil
}

// GetDetailedResults 复盘数据，必须先完成计分
func (s *ScoreService) GetDetailedResults(ctx context.Context, userID, testID uint) (*grading.DetailedResult, error) {
	ctx, span := tracing.Tracer.Start(ctx, "ScoreService.GetDetailedResults")
	defer span.End()

	test, err := s.Tests.FindByID(ctx, testID)
	if err != nil {
		return nil, err
	}

	score, err := s.Scores.Find(ctx, userID, testID)
	if err != nil {
		return nil, fmt.Errorf("find score: %w", err)
	}
	if score == nil {
		return nil, util.ErrNotCompleted
	}

	questions, err := s.Questions.ListByTest(ctx, testID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	answers, err := s.Answers.ListForTest(ctx, userID, testID)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}

	result, misses, err := grading.Assemble(test, questions, answers, score)
	logMisses(userID, testID, misses)
	if err != nil {
		return nil, fmt.Errorf("assemble result: %w", err)
	}
	return result, nil
}

func (s *ScoreService) ListUserScores(ctx context.Context, userID uint) ([]repository.UserScoreRow, error) {
	return s.Scores.ListByUser(ctx, userID)
}

type Completion struct {
	Completed bool             `json:"completed"`
	Score     *decimal.Decimal `json:"score"`
}

func (s *ScoreService) CheckCompletion(ctx context.Context, userID, testID uint) (*Completion, error) {
	score, err := s.Scores.Find(ctx, userID, testID)
	if err != nil {
		return nil, err
	}
	if score == nil {
		return &Completion{}, nil
	}
	return &Completion{Completed: true, Score: &score.Score}, nil
}

func logMisses(userID, testID uint, misses []*grading.Miss) {
	for _, m := range misses {
		monitoring.GradingMisses.WithLabelValues(string(m.Reason)).Inc()
		logger.Log.Warn("grading miss, counted as incorrect",
			zap.Uint("user_id", userID),
			zap.Uint("test_id", testID),
			zap.Uint("question_id", m.QuestionID),
			zap.Uint("answer_id", m.AnswerID),
			zap.String("reason", string(m.Reason)),
			zap.String("detail", m.Detail),
		)
	}
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, util.ErrNoQuestions):
		return "no_questions"
	case errors.Is(err, util.ErrTestNotFound):
		return "not_found"
	}
	return "error"
}
