package service

import (
	"context"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/repository"
	"golden-samovar/internal/xpkg/apperrors"
	"golden-samovar/internal/xpkg/logger"
)

// UserService covers the admin-only user management surface.
type UserService struct {
	users repository.UserRepository
	tx    repository.TxManager
	mylog logger.Logger
}

func NewUserService(users repository.UserRepository, tx repository.TxManager, mylog logger.Logger) *UserService {
	return &UserService{users: users, tx: tx, mylog: mylog}
}

func (s *UserService) List(ctx context.Context, p Principal, f repository.UserFilter) ([]domain.User, error) {
	if err := Authorize(p, ActionManageUsers, 0); err != nil {
		return nil, err
	}
	if f.Role != "" && !f.Role.Valid() {
		return nil, apperrors.Validation("unknown role: %s", f.Role)
	}
	return s.users.List(ctx, f)
}

func (s *UserService) Get(ctx context.Context, p Principal, userID int64) (*domain.User, error) {
	if err := Authorize(p, ActionManageUsers, 0); err != nil {
		return nil, err
	}
	return s.users.GetByID(ctx, userID)
}

// UpdateRole changes another user's role; admins cannot change their own.
func (s *UserService) UpdateRole(ctx context.Context, p Principal, userID int64, role domain.Role) (*domain.User, error) {
	if err := Authorize(p, ActionManageUsers, 0); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.Validation("unknown role: %s", role)
	}
	if userID == p.UserID {
		return nil, apperrors.Business("cannot change your own role")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.mylog.Action("user_role_updated").With("user_id", userID).With("role", role).Info("user role updated")
	return user, nil
}

// ToggleActive flips the active flag; admins cannot deactivate themselves.
func (s *UserService) ToggleActive(ctx context.Context, p Principal, userID int64) (*domain.User, error) {
	if err := Authorize(p, ActionManageUsers, 0); err != nil {
		return nil, err
	}
	if userID == p.UserID {
		return nil, apperrors.Business("cannot deactivate your own account")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.IsActive = !user.IsActive
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	s.mylog.Action("user_status_toggled").With("user_id", userID).With("is_active", user.IsActive).
		Info("user active flag toggled")
	return user, nil
}

// GrantBonusPoints is the explicit admin credit to a user's balance.
func (s *UserService) GrantBonusPoints(ctx context.Context, p Principal, userID int64, points int) (int, error) {
	if err := Authorize(p, ActionManageUsers, 0); err != nil {
		return 0, err
	}
	if points <= 0 {
		return 0, apperrors.Validation("points must be positive")
	}

	var balance int
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		var err error
		balance, err = s.users.AddBonusPoints(ctx, userID, points)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.mylog.Action("bonus_points_granted").With("user_id", userID).With("points", points).
		Info("bonus points granted")
	return balance, nil
}
