package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"jobquest_backend/internal/model"
	"jobquest_backend/internal/util"
	"jobquest_backend/pkg/logger"
	"jobquest_backend/pkg/monitoring"
	"os"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AnswerService struct {
	Questions QuestionStore
	Answers   AnswerStore
	Storage   FileStore
	probe     func(path string) (*util.AudioInfo, error)
}

func NewAnswerService(questions QuestionStore, answers AnswerStore, storage FileStore) *AnswerService {
	return &AnswerService{
		Questions: questions,
		Answers:   answers,
		Storage:   storage,
		probe:     util.GetAudioInfo,
	}
}

type SubmitAnswerInput struct {
	QuestionID uint   `json:"question_id" binding:"required"`
	AnswerText string `json:"answer_text"`
	IsMCQ      bool   `json:"is_mcq"`
}

// SubmitAnswer 追加一条作答记录，不覆盖之前的提交
func (s *AnswerService) SubmitAnswer(ctx context.Context, userID uint, in *SubmitAnswerInput) (*model.UserAnswer, error) {
	if _, err := s.Questions.FindByID(ctx, in.QuestionID); err != nil {
		return nil, err
	}

	payload := strings.TrimSpace(in.AnswerText)
	if payload == "" {
		return nil, fmt.Errorf("%w: answer_text is required", util.ErrInvalidAnswer)
	}

	answer := &model.UserAnswer{UserID: userID, QuestionID: in.QuestionID}
	kind := "text"
	if in.IsMCQ {
		if !slices.Contains(model.OptionLabels, payload) {
			return nil, fmt.Errorf("%w: selected option must be one of %s", util.ErrInvalidAnswer, strings.Join(model.OptionLabels, ","))
		}
		answer.SelectedOption = payload
		kind = "mcq"
	} else {
		answer.AnswerText = in.AnswerText
	}

	if err := s.Answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	monitoring.AnswersSubmitted.WithLabelValues(kind).Inc()
	return answer, nil
}

// SubmitVoiceAnswer 保存录音作答。录音只存档不评分，时长探测失败不影响提交
func (s *AnswerService) SubmitVoiceAnswer(ctx context.Context, userID, testID, questionID uint, filename string, reader io.Reader) (*model.UserAnswer, error) {
	q, err := s.Questions.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if q.TestID != testID {
		return nil, util.ErrQuestionNotFound
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	head = head[:n]

	mimeType, err := util.ValidateMimeType(bytes.NewReader(head), util.AllowedAudioTypes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrInvalidAudio, err)
	}

	ext := path.Ext(filename)
	tmp, err := os.CreateTemp("", "voice-*"+ext)
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())

	_, err = io.Copy(tmp, io.MultiReader(bytes.NewReader(head), reader))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, fmt.Errorf("save audio: %w", err)
	}

	var duration float64
	if info, err := s.probe(tmp.Name()); err != nil {
		logger.Log.Warn("probe audio failed", zap.Uint("question_id", questionID), zap.Error(err))
	} else {
		duration = info.Duration
	}

	name := path.Join(util.VoiceAnswerDir, strconv.FormatUint(uint64(testID), 10), uuid.New().String()+ext)
	url, err := s.Storage.UploadFile(ctx, name, tmp.Name(), mimeType)
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	answer := &model.UserAnswer{
		UserID:        userID,
		QuestionID:    questionID,
		AudioPath:     url,
		AudioDuration: duration,
	}
	if err := s.Answers.Create(ctx, answer); err != nil {
		return nil, err
	}
	monitoring.AnswersSubmitted.WithLabelValues("voice").Inc()
	return answer, nil
}
