package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/censusgap-backend/internal/data/repos"
	types "github.com/yungbote/censusgap-backend/internal/domain"
	"github.com/yungbote/censusgap-backend/internal/platform/apierr"
	"github.com/yungbote/censusgap-backend/internal/platform/ctxutil"
	"github.com/yungbote/censusgap-backend/internal/platform/logger"
)

var (
	ErrUserExists   = errors.New("user already exists")
	ErrUserNotFound = errors.New("delete failed, no user with that id found")
	ErrForbidden    = errors.New("request rejected")
)

type UserService interface {
	Create(ctx context.Context, username, password string) (*types.User, error)
	DeleteSelf(ctx context.Context, userID uuid.UUID) error
}

type userService struct {
	db       *gorm.DB
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(db *gorm.DB, log *logger.Logger, userRepo repos.UserRepo) UserService {
	serviceLog := log.With("service", "UserService")
	return &userService{db: db, log: serviceLog, userRepo: userRepo}
}

func (us *userService) Create(ctx context.Context, username, password string) (*types.User, error) {
	username = strings.TrimSpace(username)
	hashed, err := HashPassword(password)
	if err != nil {
		return nil, apierr.New(http.StatusInternalServerError, "hash_failed", err)
	}
	user := &types.User{
		ID:             uuid.New(),
		Username:       username,
		HashedPassword: hashed,
	}
	err = us.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := us.userRepo.UsernameExists(ctx, tx, username)
		if err != nil {
			return fmt.Errorf("check username: %w", err)
		}
		if exists {
			return apierr.New(http.StatusConflict, "user_exists", ErrUserExists)
		}
		if _, err := us.userRepo.Create(ctx, tx, []*types.User{user}); err != nil {
			// lost a race with a concurrent insert of the same username
			return apierr.New(http.StatusConflict, "user_exists", ErrUserExists)
		}
		return nil
	})
	if err != nil {
		var ae *apierr.Error
		if errors.As(err, &ae) {
			return nil, err
		}
		us.log.Error("Create user failed", "error", err)
		return nil, apierr.New(http.StatusInternalServerError, "create_user_failed", err)
	}
	us.log.Info("User created", "user_id", user.ID.String())
	return user, nil
}

// DeleteSelf removes the user with userID when it is the authenticated caller.
func (us *userService) DeleteSelf(ctx context.Context, userID uuid.UUID) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Username == "" {
		return apierr.New(http.StatusUnauthorized, "unauthorized", ErrMissingRequestData)
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		us.log.Warn("Load user for delete failed", "error", err)
		return apierr.New(http.StatusInternalServerError, "load_user_failed", err)
	}
	if len(users) == 0 {
		return apierr.New(http.StatusNotFound, "user_not_found", ErrUserNotFound)
	}
	if users[0].Username != rd.Username {
		return apierr.New(http.StatusForbidden, "forbidden", ErrForbidden)
	}
	if err := us.userRepo.FullDeleteByIDs(ctx, nil, []uuid.UUID{userID}); err != nil {
		us.log.Error("Delete user failed", "user_id", userID.String(), "error", err)
		return apierr.New(http.StatusInternalServerError, "delete_failed", fmt.Errorf("delete failed, could not commit change to db"))
	}
	return nil
}
