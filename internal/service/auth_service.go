package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"jobquest_backend/internal/config"
	"jobquest_backend/internal/model"
	"jobquest_backend/internal/util"
	"jobquest_backend/pkg/logger"
	"path"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users   UserStore
	Tokens  TokenStore
	Storage FileStore
	JWT     config.JWTConfig
}

func NewAuthService(users UserStore, tokens TokenStore, storage FileStore, cfg config.JWTConfig) *AuthService {
	return &AuthService{
		Users:   users,
		Tokens:  tokens,
		Storage: storage,
		JWT:     cfg,
	}
}

// Register 创建学生账号，邮箱和用户名均不能重复
func (s *AuthService) Register(ctx context.Context, user *model.User) error {
	user.Email = strings.TrimSpace(strings.ToLower(user.Email))
	user.Username = strings.TrimSpace(user.Username)

	exists, err := s.Users.ExistsByEmailOrUsername(ctx, user.Email, user.Username)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrEmailRegistered
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	user.Role = model.Student

	return s.Users.Create(ctx, user)
}

// SetProfilePic 上传头像并更新用户记录
func (s *AuthService) SetProfilePic(ctx context.Context, user *model.User, filename string, reader io.Reader, size int64) error {
	head := make([]byte, 512)
	n, err := io.ReadFull(reader, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return err
	}
	head = head[:n]

	mimeType, err := util.ValidateMimeType(bytes.NewReader(head), util.AllowedImageTypes)
	if err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidAvatar, err)
	}

	name := path.Join(util.AvatarDir, uuid.New().String()+path.Ext(filename))
	url, err := s.Storage.Upload(ctx, name, io.MultiReader(bytes.NewReader(head), reader), size, mimeType)
	if err != nil {
		return fmt.Errorf("upload avatar: %w", err)
	}

	if err := s.Users.UpdateProfilePic(ctx, user.ID, url); err != nil {
		return err
	}
	user.ProfilePic = url
	return nil
}

// Login 校验密码并签发 token。邮箱不存在和密码错误返回同一个错误
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *model.User, error) {
	user, err := s.Users.FindByEmail(ctx, strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			return "", nil, util.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout 把 token 的 jti 加入黑名单直到其自然过期；未配置 redis 时为空操作
func (s *AuthService) Logout(ctx context.Context, claims *util.Claims) error {
	if s.Tokens == nil {
		return nil
	}
	return s.Tokens.Revoke(ctx, claims.ID, claims.RemainingTTL())
}

// IsRevoked 供鉴权中间件调用，redis 故障时放行并记录日志
func (s *AuthService) IsRevoked(ctx context.Context, claims *util.Claims) bool {
	if s.Tokens == nil || claims.ID == "" {
		return false
	}
	revoked, err := s.Tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		logger.Log.Warn("token revocation check failed", zap.Error(err))
		return false
	}
	return revoked
}

func (s *AuthService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	return s.Users.FindByID(ctx, userID)
}
