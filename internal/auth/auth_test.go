package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"balift/internal/apperr"
	"balift/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(store.NewTestStore(t), zaptest.NewLogger(t))
}

func TestRegisterAndAuthenticate(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "secret1", false)
	require.NoError(t, err)
	require.NotZero(t, id)

	u, err := svc.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, id, u.ID)
	require.Equal(t, "alice", u.Username)
	require.False(t, u.IsAdmin)

	// wrong password and unknown user fail identically
	_, wrongPw := svc.Authenticate(ctx, "alice", "not-it")
	_, unknown := svc.Authenticate(ctx, "nobody", "secret1")
	require.Error(t, wrongPw)
	require.Error(t, unknown)
	require.Equal(t, wrongPw.Error(), unknown.Error())
	require.Equal(t, apperr.EUnauthorized, apperr.ErrorCode(wrongPw))
}

func TestRegisterShortPassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	_, err := svc.Register(context.Background(), "alice", "abc", false)
	require.Equal(t, apperr.EInvalid, apperr.ErrorCode(err))

	// nothing was written
	users, err := svc.Users(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Register(ctx, "alice", "secret1", false)
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "different1", true)
	require.Equal(t, apperr.EConflict, apperr.ErrorCode(err))

	// the first account is unaffected
	u, err := svc.Authenticate(ctx, "alice", "secret1")
	require.NoError(t, err)
	require.Equal(t, first, u.ID)
	require.False(t, u.IsAdmin)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	id, err := svc.Register(ctx, "alice", "secret1", false)
	require.NoError(t, err)

	before, err := svc.UserByID(ctx, id)
	require.NoError(t, err)

	// wrong old password leaves the hash unchanged
	err = svc.ChangePassword(ctx, id, "not-it", "newsecret")
	require.Equal(t, apperr.EInvalid, apperr.ErrorCode(err))
	after, err := svc.UserByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, before.PasswordHash, after.PasswordHash)

	// too-short replacement is rejected before the old password is checked
	err = svc.ChangePassword(ctx, id, "secret1", "abc")
	require.Equal(t, apperr.EInvalid, apperr.ErrorCode(err))

	// missing user
	err = svc.ChangePassword(ctx, id+1000, "secret1", "newsecret")
	require.Equal(t, apperr.ENotFound, apperr.ErrorCode(err))

	require.NoError(t, svc.ChangePassword(ctx, id, "secret1", "newsecret"))
	_, err = svc.Authenticate(ctx, "alice", "newsecret")
	require.NoError(t, err)
	_, err = svc.Authenticate(ctx, "alice", "secret1")
	require.Error(t, err)
}

func TestUsersOrderedByUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"carol", "alice", "bob"} {
		_, err := svc.Register(ctx, name, "secret1", false)
		require.NoError(t, err)
	}

	users, err := svc.Users(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	require.Equal(t, "alice", users[0].Username)
	require.Equal(t, "bob", users[1].Username)
	require.Equal(t, "carol", users[2].Username)
}
