package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/monocle-dev/taskboard/internal/apperror"
	"github.com/monocle-dev/taskboard/internal/auth"
	"github.com/monocle-dev/taskboard/internal/dto"
	"github.com/monocle-dev/taskboard/internal/models"
	"github.com/monocle-dev/taskboard/internal/repository"
	"gorm.io/gorm"
)

const minPasswordLength = 8

var errInvalidCredentials = apperror.Unauthorized("Invalid email or password")

type AuthService struct {
	db     *gorm.DB
	users  *repository.UserRepository
	issuer *auth.Issuer
	google auth.GoogleVerifier
	log    *slog.Logger
}

func NewAuthService(db *gorm.DB, issuer *auth.Issuer, google auth.GoogleVerifier, log *slog.Logger) *AuthService {
	return &AuthService{
		db:     db,
		users:  repository.NewUserRepository(),
		issuer: issuer,
		google: google,
		log:    log,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.DisplayName)

	fields := map[string]string{}
	if email == "" {
		fields["email"] = "Email is required"
	}
	if name == "" {
		fields["displayName"] = "Display name is required"
	}
	if len(req.Password) < minPasswordLength {
		fields["password"] = "Password must be at least 8 characters"
	}
	if len(fields) > 0 {
		return nil, apperror.Validation("Invalid registration", fields)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := inTx(ctx, s.db, func(tx *gorm.DB) (*dto.UserResponse, error) {
		taken, err := s.users.ExistsByEmail(tx, email)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errEmailTaken()
		}

		user, err := s.users.Create(tx, &models.User{
			Email:        email,
			DisplayName:  name,
			PasswordHash: &hash,
		})
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, errEmailTaken()
		}
		return user, err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("user registered", "user_id", user.ID)
	return s.authResponse(*user)
}

func errEmailTaken() error {
	return apperror.Validation("Registration failed", map[string]string{"email": "Email is already registered"})
}

func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := inTx(ctx, s.db, func(tx *gorm.DB) (*models.User, error) {
		return s.users.FindByEmail(tx, email)
	})
	if err != nil {
		return nil, err
	}

	if user == nil || user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, req.Password) {
		return nil, errInvalidCredentials
	}

	return s.authResponse(dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	})
}

// GoogleLogin signs in with a Google ID token. The token is verified before any database
// work starts. An unknown Google account is linked to an existing user with the same email
// or registered as a new password-less user.
func (s *AuthService) GoogleLogin(ctx context.Context, req dto.GoogleLoginRequest) (*dto.AuthResponse, error) {
	identity, err := s.google.Verify(ctx, req.IDToken)
	if err != nil {
		s.log.Debug("google token rejected", "error", err)
		return nil, apperror.Unauthorized("Invalid Google token")
	}

	email := normalizeEmail(identity.Email)

	user, err := inTx(ctx, s.db, func(tx *gorm.DB) (*models.User, error) {
		user, err := s.users.FindByGoogleID(tx, identity.Subject)
		if err != nil || user != nil {
			return user, err
		}

		user, err = s.users.FindByEmail(tx, email)
		if err != nil {
			return nil, err
		}
		if user != nil {
			if user.GoogleID != nil && *user.GoogleID != identity.Subject {
				return nil, apperror.Unauthorized("Email is linked to a different Google account")
			}
			if _, err := s.users.LinkGoogleID(tx, user.ID, identity.Subject); err != nil {
				return nil, err
			}
			user.GoogleID = &identity.Subject
			return user, nil
		}

		name := strings.TrimSpace(identity.Name)
		if name == "" {
			name, _, _ = strings.Cut(email, "@")
		}

		user = &models.User{
			Email:       email,
			DisplayName: name,
			GoogleID:    &identity.Subject,
		}
		if _, err := s.users.Create(tx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
	if err != nil {
		return nil, err
	}

	return s.authResponse(dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		CreatedAt:   user.CreatedAt,
	})
}

func (s *AuthService) CurrentUser(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := inTx(ctx, s.db, func(tx *gorm.DB) (*dto.UserResponse, error) {
		return s.users.FindByID(tx, userID)
	})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user", userID)
	}
	return user, nil
}

func (s *AuthService) authResponse(user dto.UserResponse) (*dto.AuthResponse, error) {
	token, err := s.issuer.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: user}, nil
}
