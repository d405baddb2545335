// Package auth verifies credentials, manages user accounts and browser
// sessions, and exposes the authorization guards used by the routing layer.
package auth

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"balift/internal/apperr"
	"balift/internal/model"
	"balift/internal/store"
)

// Service answers credential and account questions against the users table.
type Service struct {
	store *store.Store
	log   *zap.Logger
}

func NewService(store *store.Store, log *zap.Logger) *Service {
	return &Service{store: store, log: log}
}

// errInvalidCredentials is returned for both unknown usernames and wrong
// passwords so callers cannot probe which usernames exist.
var errInvalidCredentials = apperr.New(apperr.EUnauthorized, "invalid username or password")

// Authenticate looks up the user by exact username and checks the password
// against the stored bcrypt hash.
func (s *Service) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	var u model.User
	err := s.store.DB.GetContext(ctx, &u,
		"SELECT id, username, password_hash, is_admin, created_at FROM users WHERE username = ?",
		username)
	if errors.Is(err, sql.ErrNoRows) {
		s.log.Debug("login for unknown username", zap.String("username", username))
		return model.User{}, errInvalidCredentials
	}
	if err != nil {
		return model.User{}, apperr.Wrap(err, apperr.EInternal, "look up user")
	}

	if !VerifyPassword(password, u.PasswordHash) {
		s.log.Debug("login with wrong password", zap.String("username", username))
		return model.User{}, errInvalidCredentials
	}
	return u, nil
}

// Register creates a user account. The password must be at least six
// characters and the username must not be taken.
func (s *Service) Register(ctx context.Context, username, password string, isAdmin bool) (int64, error) {
	if len(password) < minPasswordLength {
		return 0, apperr.New(apperr.EInvalid, "password must be at least %d characters", minPasswordLength)
	}

	var exists int
	err := s.store.DB.GetContext(ctx, &exists,
		"SELECT COUNT(*) FROM users WHERE username = ?", username)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.EInternal, "check username")
	}
	if exists > 0 {
		return 0, apperr.New(apperr.EConflict, "username %q already exists", username)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.EInternal, "hash password")
	}

	res, err := s.store.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, is_admin) VALUES (?, ?, ?)",
		username, hash, isAdmin)
	if err != nil {
		s.log.Error("register user", zap.String("username", username), zap.Error(err))
		return 0, apperr.Wrap(err, apperr.EInternal, "create user")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Wrap(err, apperr.EInternal, "create user")
	}
	s.log.Info("user registered", zap.Int64("user_id", id), zap.Bool("is_admin", isAdmin))
	return id, nil
}

// ChangePassword replaces the user's hash after confirming the old password.
func (s *Service) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return apperr.New(apperr.EInvalid, "new password must be at least %d characters", minPasswordLength)
	}

	u, err := s.UserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !VerifyPassword(oldPassword, u.PasswordHash) {
		return apperr.New(apperr.EInvalid, "current password is incorrect")
	}

	hash, err := HashPassword(newPassword)
	if err != nil {
		return apperr.Wrap(err, apperr.EInternal, "hash password")
	}
	if _, err := s.store.DB.ExecContext(ctx,
		"UPDATE users SET password_hash = ? WHERE id = ?", hash, userID); err != nil {
		s.log.Error("change password", zap.Int64("user_id", userID), zap.Error(err))
		return apperr.Wrap(err, apperr.EInternal, "update password")
	}
	return nil
}

// UserByID returns the user including the password hash; callers must not
// expose the hash.
func (s *Service) UserByID(ctx context.Context, userID int64) (model.User, error) {
	var u model.User
	err := s.store.DB.GetContext(ctx, &u,
		"SELECT id, username, password_hash, is_admin, created_at FROM users WHERE id = ?",
		userID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, apperr.New(apperr.ENotFound, "user not found")
	}
	if err != nil {
		return model.User{}, apperr.Wrap(err, apperr.EInternal, "look up user")
	}
	return u, nil
}

// Users lists all accounts ordered by username, for the admin user page.
func (s *Service) Users(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	err := s.store.DB.SelectContext(ctx, &users,
		"SELECT id, username, password_hash, is_admin, created_at FROM users ORDER BY username")
	if err != nil {
		return nil, apperr.Wrap(err, apperr.EInternal, "list users")
	}
	return users, nil
}
