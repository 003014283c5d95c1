package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kasir/internal/hash"
	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/repo"
	"github.com/Skotchmaster/kasir/internal/tokens"
)

const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"

	minPasswordLen = 4
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
	AccessTTL time.Duration
}

type LoginResult struct {
	AccessToken string    `json:"access_token"`
	AccessExp   time.Time `json:"access_exp"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
}

// SeedDefaultUser creates the admin operator on an empty users table.
func (s *AuthService) SeedDefaultUser(ctx context.Context) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "auth.seed")

	n, err := s.Repo.CountUsers(ctx)
	if err != nil {
		return false, storeErr("count users", err)
	}
	if n > 0 {
		return false, nil
	}

	pwHash, err := hash.HashPassword(DefaultPassword)
	if err != nil {
		return false, fmt.Errorf("hash default password: %w", err)
	}
	if err := s.Repo.CreateUser(ctx, &models.User{Username: DefaultUsername, PasswordHash: pwHash}); err != nil {
		return false, storeErr("seed default user", err)
	}
	l.Warn("default_user_created", "username", DefaultUsername, "reason", "change the default password")
	return true, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if username == "" || password == "" {
		return nil, validation("username and password are required")
	}

	user, err := s.Repo.FindUserByUsername(ctx, username)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		l.Warn("login_failed", "status", 401, "reason", "unknown user")
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, storeErr("login", err)
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password")
		return nil, ErrUnauthorized
	}

	exp := time.Now().Add(s.AccessTTL)
	token, err := tokens.SignAccessToken(user.ID, user.Username, exp, s.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		AccessExp:   exp,
		UserID:      user.ID,
		Username:    user.Username,
	}, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return validation("new password must be at least %d characters", minPasswordLen)
	}
	user, err := s.Repo.FindUser(ctx, userID)
	if err != nil {
		return storeErr("change password", err)
	}
	if !hash.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrUnauthorized
	}

	pwHash, err := hash.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return storeErr("change password", s.Repo.UpdatePasswordHash(ctx, userID, pwHash))
}
