// Package storage defines the store interfaces shared by the file, memory
// and postgres backends, plus the sentinel errors callers branch on.
package storage

import (
	"context"
	"errors"

	"github.com/zippy-link/zippy/internal/model"
)

var (
	// ErrCodeExists is returned by URLStore.Save together with the record
	// already holding the requested short code. The value is valid; the
	// sentinel only reports that nothing new was created.
	ErrCodeExists = errors.New("short code already exists")

	// ErrDuplicateEmail is returned by UserStore.Save when an account with
	// the same email is already registered.
	ErrDuplicateEmail = errors.New("user with this email already exists")
)

// URLStore persists short-code mappings. Save must check code uniqueness
// and append atomically: concurrent Save calls for the same code must
// result in exactly one stored record.
type URLStore interface {
	Save(ctx context.Context, rec model.URLRecord) (model.URLRecord, error)

	FindByCode(ctx context.Context, code string) (model.URLRecord, bool, error)

	FindByOriginalURL(ctx context.Context, originalURL string) (model.URLRecord, bool, error)
}

// UserStore persists account records keyed by email.
type UserStore interface {
	Save(ctx context.Context, rec model.UserRecord) (model.UserRecord, error)

	FindByEmail(ctx context.Context, email string) (model.UserRecord, bool, error)

	// UpdateByEmail merges upd into the matching record and persists it.
	// The boolean reports whether a record matched; no match is not an
	// error.
	UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (model.UserRecord, bool, error)

	// AppendCodes adds codes to the account's owned set. The read, merge
	// and write happen inside the store's critical section, so concurrent
	// appends for the same email never lose each other's codes.
	AppendCodes(ctx context.Context, email string, codes []string) (model.UserRecord, bool, error)
}

// Pinger reports backend health for the /ping endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
