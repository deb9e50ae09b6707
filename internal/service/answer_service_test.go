package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"jobquest_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnswerFixture() (*AnswerService, *fakeAnswers, *fakeStorage) {
	bank := seedBank()
	answers := &fakeAnswers{bank: bank, clock: time.Now()}
	storage := &fakeStorage{}
	svc := NewAnswerService(questionLookup{bank}, answers, storage)
	svc.probe = func(path string) (*util.AudioInfo, error) {
		return &util.AudioInfo{Duration: 3.5, Codec: "pcm_s16le"}, nil
	}
	return svc, answers, storage
}

func TestSubmitAnswer(t *testing.T) {
	svc, answers, _ := newAnswerFixture()
	ctx := context.Background()

	a, err := svc.SubmitAnswer(ctx, 1, &SubmitAnswerInput{QuestionID: 1, AnswerText: "A", IsMCQ: true})
	require.NoError(t, err)
	assert.Equal(t, "A", a.SelectedOption)
	assert.Empty(t, a.AnswerText)

	a, err = svc.SubmitAnswer(ctx, 1, &SubmitAnswerInput{QuestionID: 3, AnswerText: "a goroutine"})
	require.NoError(t, err)
	assert.Equal(t, "a goroutine", a.AnswerText)
	assert.Empty(t, a.SelectedOption)

	// 重复提交追加记录
	_, err = svc.SubmitAnswer(ctx, 1, &SubmitAnswerInput{QuestionID: 1, AnswerText: "B", IsMCQ: true})
	require.NoError(t, err)
	assert.Len(t, answers.answers, 3)
}

func TestSubmitAnswer_Rejects(t *testing.T) {
	svc, answers, _ := newAnswerFixture()
	ctx := context.Background()

	tests := []struct {
		name string
		in   SubmitAnswerInput
		want error
	}{
		{"unknown question", SubmitAnswerInput{QuestionID: 99, AnswerText: "A", IsMCQ: true}, util.ErrQuestionNotFound},
		{"empty text", SubmitAnswerInput{QuestionID: 3, AnswerText: "  "}, util.ErrInvalidAnswer},
		{"bad option", SubmitAnswerInput{QuestionID: 1, AnswerText: "E", IsMCQ: true}, util.ErrInvalidAnswer},
		{"lowercase option", SubmitAnswerInput{QuestionID: 1, AnswerText: "a", IsMCQ: true}, util.ErrInvalidAnswer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitAnswer(ctx, 1, &tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Empty(t, answers.answers)
}

func wavBytes() []byte {
	return append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 1024)...)
}

func TestSubmitVoiceAnswer(t *testing.T) {
	svc, answers, storage := newAnswerFixture()
	ctx := context.Background()
	data := wavBytes()

	a, err := svc.SubmitVoiceAnswer(ctx, 1, 1, 3, "answer.wav", bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 3.5, a.AudioDuration)
	assert.True(t, strings.HasPrefix(a.AudioPath, "/uploads/tests/1/"))
	assert.True(t, strings.HasSuffix(a.AudioPath, ".wav"))
	assert.Empty(t, a.AnswerText)

	require.Len(t, storage.uploads, 1)
	assert.Equal(t, data, storage.uploads[0].data)
	assert.True(t, strings.HasPrefix(storage.uploads[0].contentType, "audio/"))
	assert.Len(t, answers.answers, 1)
}

func TestSubmitVoiceAnswer_ProbeFailureStillSaves(t *testing.T) {
	svc, answers, _ := newAnswerFixture()
	svc.probe = func(string) (*util.AudioInfo, error) { return nil, errors.New("ffprobe not found") }

	a, err := svc.SubmitVoiceAnswer(context.Background(), 1, 1, 3, "answer.wav", bytes.NewReader(wavBytes()))
	require.NoError(t, err)
	assert.Zero(t, a.AudioDuration)
	assert.Len(t, answers.answers, 1)
}

func TestSubmitVoiceAnswer_Rejects(t *testing.T) {
	svc, answers, storage := newAnswerFixture()
	ctx := context.Background()

	_, err := svc.SubmitVoiceAnswer(ctx, 1, 1, 3, "notes.txt", strings.NewReader("just some plain text"))
	assert.ErrorIs(t, err, util.ErrInvalidAudio)

	_, err = svc.SubmitVoiceAnswer(ctx, 1, 2, 3, "answer.wav", bytes.NewReader(wavBytes()))
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	_, err = svc.SubmitVoiceAnswer(ctx, 1, 1, 99, "answer.wav", bytes.NewReader(wavBytes()))
	assert.ErrorIs(t, err, util.ErrQuestionNotFound)

	assert.Empty(t, answers.answers)
	assert.Empty(t, storage.uploads)
}
