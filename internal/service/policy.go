package service

import (
	"golden-samovar/internal/domain"
	"golden-samovar/internal/xpkg/apperrors"
)

// Principal is the resolved identity of the caller for one request.
type Principal struct {
	UserID int64
	Role   domain.Role
}

// Action names the operations the policy gates. Ownership-sensitive actions
// carry the resource owner's id into Authorize.
type Action int

const (
	ActionReadOrder Action = iota
	ActionCancelOrder
	ActionAdvanceOrder
	ActionListAllOrders
	ActionReadBooking
	ActionCancelBooking
	ActionManageBooking
	ActionListAllBookings
	ActionManageCatalog
	ActionManageUsers
)

// Authorize centralizes the ownership-or-role rule: staff and admin may act
// on anything except user administration, which is admin only; clients are
// limited to resources they own, and never to staff-only actions.
func Authorize(p Principal, action Action, ownerID int64) error {
	switch action {
	case ActionManageUsers:
		if p.Role != domain.RoleAdmin {
			return apperrors.ErrAccessDenied
		}
		return nil

	case ActionAdvanceOrder, ActionListAllOrders, ActionManageBooking, ActionListAllBookings, ActionManageCatalog:
		if !p.Role.IsStaff() {
			return apperrors.ErrAccessDenied
		}
		return nil

	case ActionReadOrder, ActionCancelOrder, ActionReadBooking, ActionCancelBooking:
		if p.Role.IsStaff() || p.UserID == ownerID {
			return nil
		}
		return apperrors.ErrAccessDenied
	}
	return apperrors.ErrAccessDenied
}
