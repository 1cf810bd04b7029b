package service

import (
	"context"

	"github.com/tnqbao/gau-game-panel/apperror"
	"github.com/tnqbao/gau-game-panel/entity"
)

type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*entity.User, error)
}

type SubuserLookup interface {
	Exists(ctx context.Context, serverID, userID uint) (bool, error)
}

// AccessService decides whether a user has any relationship to a server.
type AccessService struct {
	users    UserLookup
	subusers SubuserLookup
}

func NewAccessService(users UserLookup, subusers SubuserLookup) *AccessService {
	return &AccessService{users: users, subusers: subusers}
}

// Authorize returns a forbidden error unless the user owns the server, is a
// subuser of it, or is a root admin.
func (a *AccessService) Authorize(ctx context.Context, server *entity.Server, userID uint) error {
	if server.OwnerID == userID {
		return nil
	}

	isSubuser, err := a.subusers.Exists(ctx, server.ID, userID)
	if err != nil {
		return apperror.Wrap(err, apperror.CodeInternal, "failed to check server access")
	}
	if isSubuser {
		return nil
	}

	admin, err := a.IsRootAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if admin {
		return nil
	}

	return apperror.Forbiddenf("user %d has no access to server %s", userID, server.UUIDShort)
}

// IsRootAdmin reports false for unknown users.
func (a *AccessService) IsRootAdmin(ctx context.Context, userID uint) (bool, error) {
	user, err := a.users.GetByID(ctx, userID)
	if err != nil {
		if apperror.IsCode(err, apperror.CodeNotFound) {
			return false, nil
		}
		return false, apperror.Wrap(err, apperror.CodeInternal, "failed to load user")
	}
	return user.RootAdmin, nil
}
