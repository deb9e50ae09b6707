package service

import (
	"context"
	"io"
	"jobquest_backend/internal/model"
	"jobquest_backend/internal/repository"
	"jobquest_backend/internal/util"
	"os"
	"sort"
	"sync"
	"time"
)

type fakeUsers struct {
	mu    sync.Mutex
	users []*model.User
}

func (f *fakeUsers) Create(ctx context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user.ID = uint(len(f.users) + 1)
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUsers) FindByID(ctx context.Context, id uint) (*model.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, util.ErrUserNotFound
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, util.ErrUserNotFound
}

func (f *fakeUsers) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email || u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) UpdateProfilePic(ctx context.Context, userID uint, url string) error {
	u, err := f.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	u.ProfilePic = url
	return nil
}

// fakeBank 同时充当 TestStore 和 QuestionStore
type fakeBank struct {
	tests     []model.Test
	questions []model.Question
}

func (f *fakeBank) List(ctx context.Context) ([]model.Test, error) {
	return f.tests, nil
}

func (f *fakeBank) FindByID(ctx context.Context, id uint) (*model.Test, error) {
	for i := range f.tests {
		if f.tests[i].ID == id {
			return &f.tests[i], nil
		}
	}
	return nil, util.ErrTestNotFound
}

func (f *fakeBank) CreateWithQuestions(ctx context.Context, test *model.Test, questions []model.Question) error {
	test.ID = uint(len(f.tests) + 1)
	f.tests = append(f.tests, *test)
	for _, q := range questions {
		q.ID = uint(len(f.questions) + 1)
		q.TestID = test.ID
		f.questions = append(f.questions, q)
	}
	return nil
}

func (f *fakeBank) ListByTest(ctx context.Context, testID uint) ([]model.Question, error) {
	var out []model.Question
	for _, q := range f.questions {
		if q.TestID == testID {
			out = append(out, q)
		}
	}
	return out, nil
}

type questionLookup struct{ bank *fakeBank }

func (l questionLookup) ListByTest(ctx context.Context, testID uint) ([]model.Question, error) {
	return l.bank.ListByTest(ctx, testID)
}

func (l questionLookup) FindByID(ctx context.Context, id uint) (*model.Question, error) {
	for i := range l.bank.questions {
		if l.bank.questions[i].ID == id {
			return &l.bank.questions[i], nil
		}
	}
	return nil, util.ErrQuestionNotFound
}

type fakeAnswers struct {
	bank    *fakeBank
	answers []model.UserAnswer
	clock   time.Time
}

func (f *fakeAnswers) Create(ctx context.Context, answer *model.UserAnswer) error {
	f.clock = f.clock.Add(time.Second)
	answer.ID = uint(len(f.answers) + 1)
	answer.CreatedAt = f.clock
	f.answers = append(f.answers, *answer)
	return nil
}

func (f *fakeAnswers) ListForTest(ctx context.Context, userID, testID uint) ([]model.UserAnswer, error) {
	inTest := map[uint]bool{}
	for _, q := range f.bank.questions {
		if q.TestID == testID {
			inTest[q.ID] = true
		}
	}
	var out []model.UserAnswer
	for _, a := range f.answers {
		if a.UserID == userID && inTest[a.QuestionID] {
			out = append(out, a)
		}
	}
	return out, nil
}

type scoreKey struct{ user, test uint }

type fakeScores struct {
	bank    *fakeBank
	scores  map[scoreKey]*model.TestScore
	upserts int
}

func newFakeScores(bank *fakeBank) *fakeScores {
	return &fakeScores{bank: bank, scores: map[scoreKey]*model.TestScore{}}
}

func (f *fakeScores) Upsert(ctx context.Context, score *model.TestScore) error {
	f.upserts++
	cp := *score
	f.scores[scoreKey{score.UserID, score.TestID}] = &cp
	return nil
}

func (f *fakeScores) Find(ctx context.Context, userID, testID uint) (*model.TestScore, error) {
	return f.scores[scoreKey{userID, testID}], nil
}

func (f *fakeScores) ListByUser(ctx context.Context, userID uint) ([]repository.UserScoreRow, error) {
	var rows []repository.UserScoreRow
	for k, s := range f.scores {
		if k.user != userID {
			continue
		}
		test, _ := f.bank.FindByID(ctx, k.test)
		rows = append(rows, repository.UserScoreRow{
			TestID:         k.test,
			Title:          test.Title,
			Score:          s.Score,
			TotalQuestions: s.TotalQuestions,
			CorrectAnswers: s.CorrectAnswers,
			CompletedAt:    s.CompletedAt,
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].CompletedAt.After(rows[j].CompletedAt) })
	return rows, nil
}

type fakeTokens struct {
	revoked map[string]time.Duration
	err     error
}

func (f *fakeTokens) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if f.revoked == nil {
		f.revoked = map[string]time.Duration{}
	}
	f.revoked[jti] = ttl
	return nil
}

func (f *fakeTokens) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.revoked[jti]
	return ok, nil
}

type upload struct {
	name        string
	contentType string
	data        []byte
}

type fakeStorage struct {
	uploads []upload
}

func (f *fakeStorage) Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, upload{filename, contentType, data})
	return "/uploads/" + filename, nil
}

func (f *fakeStorage) UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return "", err
	}
	f.uploads = append(f.uploads, upload{filename, contentType, data})
	return "/uploads/" + filename, nil
}

// seedBank 一套试卷：两道选择题 + 两道文本题
func seedBank() *fakeBank {
	bank := &fakeBank{}
	test := &model.Test{Title: "Go basics", Difficulty: "easy"}
	_ = bank.CreateWithQuestions(context.Background(), test, []model.Question{
		{Type: model.QuestionMCQ, Prompt: "q1", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "A"},
		{Type: model.QuestionMCQ, Prompt: "q2", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "B"},
		{Type: model.QuestionText, Prompt: "q3", CorrectAnswer: "goroutine"},
		{Type: model.QuestionText, Prompt: "q4", CorrectAnswer: "channel"},
	})
	return bank
}
