package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	emailaddress "github.com/mcnijman/go-emailaddress"
	"go.uber.org/multierr"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/events"
	"github.com/Skotchmaster/techstore/internal/hash"
	"github.com/Skotchmaster/techstore/internal/logging"
	"github.com/Skotchmaster/techstore/internal/models"
	"github.com/Skotchmaster/techstore/internal/repo"
	"github.com/Skotchmaster/techstore/internal/tokens"
)

const MinPasswordLength = 6

type AuthService struct {
	Repo   *repo.GormRepo
	Tokens *tokens.Issuer
	Events events.Publisher
}

type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = normalizeEmail(email)

	var errs error
	switch {
	case email == "":
		errs = multierr.Append(errs, errors.New("email is required"))
	default:
		if _, err := emailaddress.Parse(email); err != nil {
			errs = multierr.Append(errs, errors.New("email is not a valid address"))
		}
	}
	switch {
	case password == "":
		errs = multierr.Append(errs, errors.New("password is required"))
	case len(password) < MinPasswordLength:
		errs = multierr.Append(errs, fmt.Errorf("password must be at least %d characters", MinPasswordLength))
	case len(password) > hash.MaxPasswordBytes:
		errs = multierr.Append(errs, fmt.Errorf("password must be at most %d bytes", hash.MaxPasswordBytes))
	}
	if errs != nil {
		return nil, validationError(errs)
	}

	pwHash, err := hash.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		l.Warn("register_error", "status", 400, "reason", "password too long")
		return nil, validationError(err)
	}
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			l.Warn("register_error", "status", 409, "reason", "email already registered")
			return nil, fmt.Errorf("user with this email %w", ErrConflict)
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID, map[string]any{
		"type":    "user_registered",
		"user_id": user.ID,
		"email":   user.Email,
	})

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		return nil, validationError(errors.New("email and password are required"))
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hash.CheckMissing(password)
			l.Warn("login_failed", "status", 401, "reason", "unknown email")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "password mismatch")
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.Tokens.Issue(tokens.Identity{ID: user.ID, Email: user.Email, Name: user.Name})
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	publish(ctx, s.Events, events.TopicUsers, user.ID, map[string]any{
		"type":    "user_logged_in",
		"user_id": user.ID,
	})

	return &LoginResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) VerifyToken(token string) (*tokens.Identity, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	id := claims.Identity()
	return &id, nil
}
