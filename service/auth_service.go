package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"campus-election-backend/auth"
	"campus-election-backend/cache"
	"campus-election-backend/models"
	"campus-election-backend/repository"
)

const (
	msgStudentIDTaken    = "A user with this Student ID already exists."
	msgEmailTaken        = "This email address is already registered."
	msgPasswordsMismatch = "Passwords do not match."
)

// RegisterInput is a registration request that already passed structural
// validation (student ID format, email syntax, required fields).
type RegisterInput struct {
	StudentID       string
	Email           string
	Nickname        string
	Password        string
	PasswordConfirm string
}

// AuthService registers and authenticates students.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*models.User, auth.TokenPair, error)
	Login(ctx context.Context, studentID, password string) (*models.User, auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (string, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
}

type AuthServiceImpl struct {
	users   repository.UserRepository
	tokens  *auth.TokenManager
	results *cache.ResultsCache
}

// NewAuthService creates the auth service. results may be nil; registration
// invalidates it because turnout depends on the user count.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, results *cache.ResultsCache) AuthService {
	return &AuthServiceImpl{users: users, tokens: tokens, results: results}
}

// Register creates the user and profile together and returns a token pair.
// Rule violations come back as FieldErrors.
func (s *AuthServiceImpl) Register(ctx context.Context, in RegisterInput) (*models.User, auth.TokenPair, error) {
	in.Email = strings.TrimSpace(in.Email)

	errs, err := s.checkUnique(ctx, in)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	for _, problem := range auth.ValidatePassword(in.Password, in.StudentID) {
		errs.Add("password", problem)
	}
	if len(errs) > 0 {
		return nil, auth.TokenPair{}, errs
	}
	if in.Password != in.PasswordConfirm {
		return nil, auth.TokenPair{}, FieldErrors{"password": {msgPasswordsMismatch}}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	user := &models.User{
		Username:     in.StudentID,
		PasswordHash: hash,
		Profile: models.Profile{
			StudentID: in.StudentID,
			Email:     in.Email,
			Nickname:  in.Nickname,
		},
	}
	if err := s.users.CreateUserWithProfile(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// lost a race with a concurrent registration
			if errs, checkErr := s.checkUnique(ctx, in); checkErr == nil && len(errs) > 0 {
				return nil, auth.TokenPair{}, errs
			}
			return nil, auth.TokenPair{}, FieldErrors{"student_id": {msgStudentIDTaken}}
		}
		return nil, auth.TokenPair{}, fmt.Errorf("failed to create user: %w", err)
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}

	s.results.Invalidate(ctx)
	slog.Info("user registered", "user_id", user.ID, "student_id", in.StudentID)
	return user, pair, nil
}

func (s *AuthServiceImpl) checkUnique(ctx context.Context, in RegisterInput) (FieldErrors, error) {
	errs := FieldErrors{}

	taken, err := s.users.StudentIDExists(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}
	if taken {
		errs.Add("student_id", msgStudentIDTaken)
	}

	taken, err = s.users.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		errs.Add("email", msgEmailTaken)
	}
	return errs, nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, studentID, password string) (*models.User, auth.TokenPair, error) {
	user, err := s.users.GetUserByUsername(ctx, studentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		slog.Info("login failed", "student_id", studentID)
		return nil, auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(user.ID, user.Username)
	if err != nil {
		return nil, auth.TokenPair{}, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *AuthServiceImpl) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.Verify(refreshToken, auth.RefreshToken)
	if err != nil {
		return "", ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrInvalidToken
	}
	if err != nil {
		return "", err
	}
	return s.tokens.IssueAccess(user.ID, user.Username)
}

// Authenticate resolves a bearer access token to its user.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Verify(accessToken, auth.AccessToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
