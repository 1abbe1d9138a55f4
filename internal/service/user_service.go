package service

import (
	"context"

	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/storage"
)

// UserService manages account records and their link to owned codes.
type UserService struct {
	store storage.UserStore
}

// NewUserService constructs a UserService over the given store.
func NewUserService(store storage.UserStore) *UserService {
	return &UserService{store: store}
}

// Register creates an account. The password hash arrives opaque from the
// credential layer; only presence is checked here.
func (s *UserService) Register(ctx context.Context, fullName, email, passwordHash string, emailVerified bool) (model.UserRecord, error) {
	if fullName == "" || email == "" || passwordHash == "" {
		return model.UserRecord{}, ErrMissingFields
	}

	rec := model.UserRecord{
		FullName:      fullName,
		Email:         email,
		EmailVerified: emailVerified,
		PasswordHash:  passwordHash,
		OwnedCodes:    []string{},
	}

	return s.store.Save(ctx, rec)
}

// FindByEmail looks up an account. Absence is reported via the boolean.
func (s *UserService) FindByEmail(ctx context.Context, email string) (model.UserRecord, bool, error) {
	if email == "" {
		return model.UserRecord{}, false, nil
	}

	return s.store.FindByEmail(ctx, email)
}

// UpdateByEmail merges a partial update into the account.
func (s *UserService) UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (model.UserRecord, bool, error) {
	if email == "" {
		return model.UserRecord{}, false, nil
	}

	return s.store.UpdateByEmail(ctx, email, upd)
}

// AppendOwnedCodes adds codes to the account's owned set, preserving
// creation order and dropping codes already present. Used by the
// association worker after a URL is created for an authenticated user;
// deliberately a separate write from URL creation. The merge runs inside
// the store's critical section so concurrent appends for the same email
// never overwrite each other.
func (s *UserService) AppendOwnedCodes(ctx context.Context, email string, codes []string) (model.UserRecord, bool, error) {
	if email == "" {
		return model.UserRecord{}, false, nil
	}

	return s.store.AppendCodes(ctx, email, codes)
}
