package service

import (
	"context"
	"strings"

	"golden-samovar/internal/auth"
	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
	"golden-samovar/internal/xpkg/logger"
)

type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	mylog  logger.Logger
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, mylog logger.Logger) *AuthService {
	return &AuthService{users: users, tokens: tokens, mylog: mylog}
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type AuthResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

func (in RegisterInput) validate() error {
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return apperrors.Validation("a valid email is required")
	}
	if len(in.Password) < 6 {
		return apperrors.Validation("password must be at least 6 characters")
	}
	if in.FirstName == "" {
		return apperrors.Validation("first_name is required")
	}
	return nil
}

// Register creates a client account with a zero points balance and issues a
// token right away.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	user := &domain.User{
		Email:        strings.ToLower(in.Email),
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Phone:        in.Phone,
		Role:         domain.RoleClient,
		IsActive:     true,
		BonusPoints:  0,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}

	s.mylog.Action("user_registered").With("email", user.Email).Info("new user registered")
	return &AuthResult{Token: token, User: user}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, apperrors.Internal("failed to issue token", err)
	}

	s.mylog.Action("user_logged_in").With("email", user.Email).Info("user logged in")
	return &AuthResult{Token: token, User: user}, nil
}

// ResolvePrincipal turns a bearer token into the request principal; it
// rejects tokens of deleted or deactivated accounts.
func (s *AuthService) ResolvePrincipal(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindNotFound {
			return nil, apperrors.Unauthorized("unknown account")
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}
	return user, nil
}

func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetByID(ctx, userID)
}

type UpdateProfileInput struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}
	if in.Phone != "" {
		user.Phone = in.Phone
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
