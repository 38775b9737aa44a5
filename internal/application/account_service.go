package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tkarls/memberbase/internal/domain/entity"
	repo "github.com/tkarls/memberbase/internal/domain/repository"
	"github.com/tkarls/memberbase/pkg/helpers"
)

const minPasswordLength = 6

// Service is the composition root for account operations. Handlers stay
// thin; everything they need is injected here.
type Service struct {
	Repo   repo.UserRepository
	JWT    *helpers.JWTManager
	Hasher *helpers.Hasher
	Logger *logrus.Logger
}

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, hasher *helpers.Hasher, logger *logrus.Logger) *Service {
	return &Service{
		Repo:   repo,
		JWT:    jwt,
		Hasher: hasher,
		Logger: logger,
	}
}

// Session is the outcome of a successful register or login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// Register creates an account with defaulted membership state and logs the
// caller straight in.
func (s *Service) Register(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" {
		return nil, invalidInput("email", "is required")
	}
	if len(password) < minPasswordLength {
		return nil, invalidInput("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).Error("hash password failed")
		}
		return nil, err
	}

	u := &entity.User{
		ID:              uuid.NewString(),
		Email:           email,
		PasswordHash:    hash,
		MembershipLevel: entity.MembershipBronze,
		Points:          0,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return s.startSession(u)
}

// Login validates email/password and issues a fresh session token. Unknown
// email and wrong password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil || !s.Hasher.Verify(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.startSession(u)
}

func (s *Service) startSession(u *entity.User) (*Session, error) {
	token, exp, err := s.JWT.Issue(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("issue session token failed")
		}
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: exp, User: u}, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	return u, nil
}

// UpdateProfile validates the provided fields and applies them sparsely;
// fields left nil keep their stored value.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd entity.ProfileUpdate) (*entity.User, error) {
	if upd.MembershipLevel != nil && !upd.MembershipLevel.Valid() {
		return nil, invalidInput("membershipLevel", "must be one of Bronze, Silver, Gold, Platinum")
	}
	if upd.Points != nil && *upd.Points < 0 {
		return nil, invalidInput("points", "must not be negative")
	}
	if upd.Phone != nil && !entity.ValidPhone(*upd.Phone) {
		return nil, invalidInput("phone", "may only contain digits, spaces, +, - and parentheses")
	}

	u, err := s.Repo.UpdateProfile(ctx, userID, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", userID).Debug("profile updated")
	}
	return u, nil
}
