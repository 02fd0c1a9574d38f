package main

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when a login and password pair does not match a stored user.
var ErrBadCredentials = errors.New("invalid login or password")

type UserServiceProvider interface {
	Add(ctx context.Context, login, password string, roles ...Role) (User, error)
	Authenticate(ctx context.Context, login, password string) (User, error)
}

type UserService struct {
	logger *zap.Logger
	users  *Collection[User]
}

func NewUserService(logger *zap.Logger, users *Collection[User]) UserServiceProvider {
	return &UserService{logger: logger, users: users}
}

// Add stores a new user with the bcrypt hash of its password.
func (us *UserService) Add(ctx context.Context, login, password string, roles ...Role) (User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, WrapDomainError(ErrStoreFailure, "failed to hash user password", err)
	}
	saved, err := us.users.Save(ctx, User{Login: login, PasswordHash: string(hash), Roles: roles})
	return saved, translateError(err, "", "Same user login already exists", "")
}

// Authenticate returns the user owning login if password matches its hash.
func (us *UserService) Authenticate(ctx context.Context, login, password string) (User, error) {
	user, err := us.users.FindOne(ctx, Filter{"login": login})
	if errors.Is(err, ErrDocumentNotFound) {
		return User{}, ErrBadCredentials
	}
	if err != nil {
		return User{}, translateError(err, "", "", "")
	}
	if err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		us.logger.Debug("service: password mismatch", zap.String("user.login", login))
		return User{}, ErrBadCredentials
	}
	return user, nil
}
