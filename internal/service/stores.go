package service

import (
	"context"
	"io"
	"jobquest_backend/internal/model"
	"jobquest_backend/internal/repository"
	"time"
)

// 以下接口由 internal/repository 中的实现满足，测试里用内存实现替换

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	UpdateProfilePic(ctx context.Context, userID uint, url string) error
}

type TestStore interface {
	List(ctx context.Context) ([]model.Test, error)
	FindByID(ctx context.Context, id uint) (*model.Test, error)
	CreateWithQuestions(ctx context.Context, test *model.Test, questions []model.Question) error
}

type QuestionStore interface {
	ListByTest(ctx context.Context, testID uint) ([]model.Question, error)
	FindByID(ctx context.Context, id uint) (*model.Question, error)
}

type AnswerStore interface {
	Create(ctx context.Context, answer *model.UserAnswer) error
	ListForTest(ctx context.Context, userID, testID uint) ([]model.UserAnswer, error)
}

type ScoreStore interface {
	Upsert(ctx context.Context, score *model.TestScore) error
	Find(ctx context.Context, userID, testID uint) (*model.TestScore, error)
	ListByUser(ctx context.Context, userID uint) ([]repository.UserScoreRow, error)
}

type TokenStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// FileStore 是 StorageService 对外暴露的上传能力
type FileStore interface {
	Upload(ctx context.Context, filename string, reader io.Reader, size int64, contentType string) (string, error)
	UploadFile(ctx context.Context, filename string, localPath string, contentType string) (string, error)
}
