package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email or username already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrTestNotFound       = errors.New("test not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNoQuestions        = errors.New("no questions found")
	ErrNotCompleted       = errors.New("test not completed")
	ErrInvalidAnswer      = errors.New("invalid answer")
	ErrInvalidQuestion    = errors.New("invalid question")
	ErrInvalidAudio       = errors.New("invalid audio file")
	ErrInvalidAvatar      = errors.New("invalid profile picture")
	ErrTokenRevoked       = errors.New("token revoked")
)
