package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/censusgap-backend/internal/data/repos"
	"github.com/yungbote/censusgap-backend/internal/data/repos/testutil"
	"github.com/yungbote/censusgap-backend/internal/platform/apierr"
	"github.com/yungbote/censusgap-backend/internal/platform/ctxutil"
)

func TestUserServiceCreate(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	svc := NewUserService(db, log, userRepo)
	ctx := context.Background()

	u, err := svc.Create(ctx, "  bob ", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)
	assert.NotEqual(t, "hunter22", u.HashedPassword)
	require.NoError(t, CheckPassword(u.HashedPassword, "hunter22"))

	_, err = svc.Create(ctx, "bob", "other")
	require.ErrorIs(t, err, ErrUserExists)
	assert.Equal(t, http.StatusConflict, apierr.StatusOf(err))
}

func TestUserServiceDeleteSelf(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	svc := NewUserService(db, log, userRepo)
	ctx := context.Background()

	bob, err := svc.Create(ctx, "bob", "pw-bob")
	require.NoError(t, err)
	carol, err := svc.Create(ctx, "carol", "pw-carol")
	require.NoError(t, err)

	err = svc.DeleteSelf(ctx, bob.ID)
	assert.Equal(t, http.StatusUnauthorized, apierr.StatusOf(err))

	asBob := ctxutil.WithRequestData(ctx, &ctxutil.RequestData{Username: "bob", TokenKind: TokenKindAccess})

	err = svc.DeleteSelf(asBob, carol.ID)
	require.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, http.StatusForbidden, apierr.StatusOf(err))

	err = svc.DeleteSelf(asBob, uuid.New())
	require.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, http.StatusNotFound, apierr.StatusOf(err))

	require.NoError(t, svc.DeleteSelf(asBob, bob.ID))
	remaining, err := userRepo.GetByIDs(ctx, nil, []uuid.UUID{bob.ID, carol.ID})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "carol", remaining[0].Username)
}
