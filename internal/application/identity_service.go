package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/community-events/internal/domain/apperr"
	"github.com/oksasatya/community-events/internal/domain/entity"
	repo "github.com/oksasatya/community-events/internal/domain/repository"
	"github.com/oksasatya/community-events/pkg/helpers"
	"github.com/oksasatya/community-events/pkg/metrics"
)

const (
	MinPasswordLen = 6
	MaxPasswordLen = 72 // bcrypt input limit
)

// dummyHash is compared against when the email is unknown so both
// authentication failures cost one bcrypt comparison.
var dummyHash, _ = helpers.HashPassword("community-events-placeholder")

type IdentityService struct {
	Users   repo.UserRepository
	Blobs   repo.BlobStore
	JWT     *helpers.JWTManager
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
}

func NewIdentityService(users repo.UserRepository, blobs repo.BlobStore, jwt *helpers.JWTManager, m *metrics.Metrics, logger *logrus.Logger) *IdentityService {
	return &IdentityService{Users: users, Blobs: blobs, JWT: jwt, Metrics: m, Logger: logger}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Surname  string
	Phone    string
}

type AuthResult struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
	Email     string
	ImageURL  string
}

// Register creates a user with a hashed password. The image namespace is
// provisioned before the record is written.
func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	const op = "application.IdentityService.Register"

	email := normalizeEmail(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%s: email: %w", op, apperr.ErrValidation)
	}
	if len(in.Password) < MinPasswordLen || len(in.Password) > MaxPasswordLen {
		return nil, fmt.Errorf("%s: password: %w", op, apperr.ErrValidation)
	}
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return nil, fmt.Errorf("%s: %w", op, apperr.ErrDuplicateIdentity)
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: hash: %w", op, err)
	}
	u := &entity.User{
		ID:       uuid.NewString(),
		Email:    email,
		Password: hash,
		Name:     strings.TrimSpace(in.Name),
		Surname:  strings.TrimSpace(in.Surname),
		Phone:    strings.TrimSpace(in.Phone),
	}
	if err := s.Blobs.Provision(ctx, repo.KindUsers, u.ID); err != nil {
		return nil, fmt.Errorf("%s: provision: %w", op, err)
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.Logger != nil {
		s.Logger.WithField("user_id", u.ID).Info("user registered")
	}
	return u, nil
}

// Authenticate verifies the credentials and issues an access token. Unknown
// email and wrong password return the same bare ErrInvalidCredentials.
func (s *IdentityService) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	u, err := s.Users.GetByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		helpers.CompareHashAndPassword(dummyHash, password)
		return nil, apperr.ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("application.IdentityService.Authenticate: %w", err)
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, apperr.ErrInvalidCredentials
	}

	token, exp, err := s.JWT.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, fmt.Errorf("application.IdentityService.Authenticate: token: %w", err)
	}
	return &AuthResult{UserID: u.ID, Token: token, ExpiresAt: exp, Email: u.Email, ImageURL: u.ImageURL}, nil
}

// ChangePassword re-verifies the old password before storing the new one.
func (s *IdentityService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	const op = "application.IdentityService.ChangePassword"

	if len(newPassword) < MinPasswordLen || len(newPassword) > MaxPasswordLen {
		return fmt.Errorf("%s: new password: %w", op, apperr.ErrValidation)
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return apperr.ErrInvalidCredentials
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%s: hash: %w", op, err)
	}
	if err := s.Users.UpdatePassword(ctx, u.ID, hash); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfile resolves a user by id or email.
func (s *IdentityService) GetProfile(ctx context.Context, ref string) (*entity.User, error) {
	u, err := findUser(ctx, s.Users, ref)
	if err != nil {
		return nil, fmt.Errorf("application.IdentityService.GetProfile: %w", err)
	}
	return u, nil
}

// AttachImage stores an image for the user named by userRef and records it
// as the avatar. Only the user may attach their own image.
func (s *IdentityService) AttachImage(ctx context.Context, actorID, userRef, name string, data []byte) (string, error) {
	const op = "application.IdentityService.AttachImage"

	u, err := findUser(ctx, s.Users, userRef)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if u.ID != actorID {
		return "", fmt.Errorf("%s: %w", op, apperr.ErrForbidden)
	}
	ref, err := s.Blobs.Store(ctx, repo.KindUsers, u.ID, name, data)
	s.Metrics.ObserveBlobWrite(repo.KindUsers, err)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	u.ImageURL = ref
	if err := s.Users.Update(ctx, u); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return ref, nil
}

// ReplaceImage overwrites the acting user's current avatar in place.
func (s *IdentityService) ReplaceImage(ctx context.Context, actorID string, data []byte) (string, error) {
	const op = "application.IdentityService.ReplaceImage"

	u, err := s.Users.GetByID(ctx, actorID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if u.ImageURL == "" {
		return "", fmt.Errorf("%s: no avatar set: %w", op, apperr.ErrNotFound)
	}
	err = s.Blobs.Replace(ctx, u.ImageURL, data)
	s.Metrics.ObserveBlobWrite(repo.KindUsers, err)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return u.ImageURL, nil
}
