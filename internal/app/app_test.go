package app

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"jobquest_backend/internal/config"
	"jobquest_backend/internal/model"
	"jobquest_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t   *testing.T
	app *App
	db  *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Server:    config.ServerConfig{Port: "0", Mode: gin.TestMode},
		JWT:       config.JWTConfig{Secret: "0123456789abcdef0123456789abcdef", ExpireTime: time.Hour},
		Storage:   config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Upload:    config.UploadConfig{MaxAudioMB: 1, MaxAvatarMB: 1},
		RateLimit: config.RateLimitConfig{MaxRequests: 1000, WindowMinutes: 1},
	}
	return &testServer{t: t, app: build(cfg, db, nil), db: db}
}

func (s *testServer) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return s.send(req, token)
}

func (s *testServer) send(req *http.Request, token string) (int, envelope) {
	s.t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.app.Router.ServeHTTP(w, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/api/login", "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, code, env.Message)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	return data.Token
}

func (s *testServer) createAdmin() string {
	s.t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(s.t, err)
	require.NoError(s.t, s.db.Create(&model.User{
		Username: "admin", Email: "admin@example.com", Password: string(hashed), Role: model.Admin,
	}).Error)
	return s.login("admin@example.com", "admin-pass")
}

func TestQuizFlow(t *testing.T) {
	s := newTestServer(t)
	admin := s.createAdmin()

	code, env := s.do(http.MethodPost, "/api/register", "", gin.H{
		"username": "alice", "email": "alice@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.NotContains(t, string(env.Data), "secret1")
	student := s.login("alice@example.com", "secret1")

	code, _ = s.do(http.MethodPost, "/api/admin/tests", student, gin.H{"title": "x"})
	assert.Equal(t, http.StatusForbidden, code)

	code, env = s.do(http.MethodPost, "/api/admin/tests", admin, gin.H{
		"title":      "Go basics",
		"difficulty": "easy",
		"questions": []gin.H{
			{"type": "mcq", "prompt": "q1", "options": gin.H{"A": "a", "B": "b", "C": "c", "D": "d"}, "correct_option": "A"},
			{"type": "mcq", "prompt": "q2", "options": gin.H{"A": "a", "B": "b", "C": "c", "D": "d"}, "correct_option": "B"},
			{"type": "text", "prompt": "q3", "correct_answer": "The quick brown fox"},
			{"type": "text", "prompt": "q4", "correct_answer": "channel"},
		},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var test struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &test))
	testPath := "/api/tests/" + itoa(test.ID)

	code, env = s.do(http.MethodGet, testPath+"/questions", student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "correct")
	assert.NotContains(t, string(env.Data), "quick brown")
	var questions []struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &questions))
	require.Len(t, questions, 4)

	code, _ = s.do(http.MethodGet, testPath+"/results", student, nil)
	assert.Equal(t, http.StatusConflict, code)

	submit := func(questionID uint, text string, mcq bool) int {
		code, _ := s.do(http.MethodPost, "/api/tests/submit", student, gin.H{
			"question_id": questionID, "answer_text": text, "is_mcq": mcq,
		})
		return code
	}
	assert.Equal(t, http.StatusCreated, submit(questions[0].ID, "A", true))
	assert.Equal(t, http.StatusCreated, submit(questions[1].ID, "C", true))
	assert.Equal(t, http.StatusCreated, submit(questions[2].ID, "the quick brown fox", false))
	assert.Equal(t, http.StatusNotFound, submit(9999, "A", true))
	assert.Equal(t, http.StatusBadRequest, submit(questions[3].ID, "", false))

	code, env = s.do(http.MethodPost, "/api/tests/calculate-score", student, gin.H{"test_id": test.ID})
	require.Equal(t, http.StatusOK, code, env.Message)
	assert.JSONEq(t, `{"score":"50.00","percentage":"50.00","correctAnswers":2,"totalQuestions":4}`, string(env.Data))

	// 重新计分覆盖旧成绩
	assert.Equal(t, http.StatusCreated, submit(questions[1].ID, "B", true))
	code, env = s.do(http.MethodPost, "/api/tests/calculate-score", student, gin.H{"test_id": test.ID})
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"score":"75.00"`)

	var rows int64
	require.NoError(t, s.db.Model(&model.TestScore{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)

	code, env = s.do(http.MethodGet, testPath+"/results", student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), "correct_option")
	assert.NotContains(t, string(env.Data), "correct_answer")
	var result struct {
		Score   string `json:"score"`
		Answers []struct {
			QuestionID uint `json:"question_id"`
			IsCorrect  bool `json:"is_correct"`
		} `json:"answers"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "75.00", result.Score)
	assert.Len(t, result.Answers, 3)

	code, env = s.do(http.MethodGet, testPath+"/completion", student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"completed":true,"score":"75"}`, string(env.Data))

	code, env = s.do(http.MethodGet, "/api/tests/scores", student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), "Go basics")
}

func TestCalculateScore_UnknownTest(t *testing.T) {
	s := newTestServer(t)
	admin := s.createAdmin()

	code, env := s.do(http.MethodPost, "/api/tests/calculate-score", admin, gin.H{"test_id": 42})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "No questions found", env.Message)

	code, _ = s.do(http.MethodPost, "/api/tests/calculate-score", admin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodGet, "/api/tests/42/results", admin, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = s.do(http.MethodGet, "/api/tests/abc/results", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	code, _ := s.do(http.MethodGet, "/api/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("username", "bob"))
	require.NoError(t, mw.WriteField("email", "bob@example.com"))
	require.NoError(t, mw.WriteField("password", "secret1"))
	part, err := mw.CreateFormFile("profile_pic", "me.png")
	require.NoError(t, err)
	_, err = part.Write(append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/register", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	code, env := s.send(req, "")
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Contains(t, string(env.Data), "/uploads/avatars/")

	code, _ = s.do(http.MethodPost, "/api/register", "", gin.H{"username": "bob", "email": "bob2@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, code)
	code, _ = s.do(http.MethodPost, "/api/register", "", gin.H{"username": "bo", "email": "bo@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = s.do(http.MethodPost, "/api/login", "", gin.H{"email": "bob@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, code)

	token := s.login("bob@example.com", "secret1")
	code, env = s.do(http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(env.Data), `"username":"bob"`)
	assert.NotContains(t, string(env.Data), "password")

	code, _ = s.do(http.MethodPost, "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestSubmitVoiceAnswer_Route(t *testing.T) {
	s := newTestServer(t)
	admin := s.createAdmin()

	code, env := s.do(http.MethodPost, "/api/admin/tests", admin, gin.H{
		"title":     "Speaking",
		"questions": []gin.H{{"type": "text", "prompt": "introduce yourself", "correct_answer": "hello"}},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var test struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &test))

	var q model.Question
	require.NoError(t, s.db.Where("test_id = ?", test.ID).First(&q).Error)

	voice := func(content []byte) (int, envelope) {
		var body bytes.Buffer
		mw := multipart.NewWriter(&body)
		require.NoError(t, mw.WriteField("question_id", itoa(q.ID)))
		part, err := mw.CreateFormFile("audio", "answer.wav")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/tests/"+itoa(test.ID)+"/voice", &body)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		return s.send(req, admin)
	}

	code, env = voice(append([]byte("RIFF\x24\x00\x00\x00WAVEfmt "), make([]byte, 256)...))
	require.Equal(t, http.StatusCreated, code, env.Message)
	assert.Contains(t, string(env.Data), "/uploads/tests/")

	code, _ = voice([]byte("plain text pretending to be audio"))
	assert.Equal(t, http.StatusBadRequest, code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
