// Package postgres implements the stores on PostgreSQL. Uniqueness of
// short codes and emails is enforced by primary keys, so the insert-time
// collision check happens inside the database rather than under a process
// mutex.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/storage"
)

// Storage holds the connection pool shared by the URL and user stores.
type Storage struct {
	pool *pgxpool.Pool
}

// NewStorage connects to the database and creates the schema if needed.
func NewStorage(dsn string) (*Storage, error) {
	if dsn == "" {
		return nil, errors.New("database connection string is empty")
	}

	ctx := context.Background()
	pool, err := pgxpool.Connect(ctx, dsn)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, err
	}

	s := &Storage{pool: pool}
	if err := s.createTables(ctx); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Storage) createTables(ctx context.Context) error {
	createURLs := `
		CREATE TABLE IF NOT EXISTS urls (
			short_code VARCHAR(12) PRIMARY KEY,
			original_url TEXT NOT NULL,
			owned_by_user BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	if _, err := s.pool.Exec(ctx, createURLs); err != nil {
		return err
	}

	createUsers := `
		CREATE TABLE IF NOT EXISTS users (
			email TEXT PRIMARY KEY,
			full_name TEXT NOT NULL,
			email_verified BOOLEAN NOT NULL DEFAULT FALSE,
			password_hash TEXT NOT NULL,
			owned_codes TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		);
	`

	_, err := s.pool.Exec(ctx, createUsers)
	return err
}

// Ping reports database health.
func (s *Storage) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *Storage) Close() {
	s.pool.Close()
}

// URLStore returns the storage.URLStore view of the database.
func (s *Storage) URLStore() *URLStore {
	return &URLStore{pool: s.pool}
}

// UserStore returns the storage.UserStore view of the database.
func (s *Storage) UserStore() *UserStore {
	return &UserStore{pool: s.pool}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// URLStore implements storage.URLStore on the urls table.
type URLStore struct {
	pool *pgxpool.Pool
}

// Save inserts rec; a primary key conflict returns the record already
// holding the code together with storage.ErrCodeExists.
func (s *URLStore) Save(ctx context.Context, rec model.URLRecord) (model.URLRecord, error) {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO urls (short_code, original_url, owned_by_user) VALUES ($1, $2, $3)",
		rec.ShortCode, rec.OriginalURL, rec.OwnedByUser)
	if err == nil {
		return rec, nil
	}

	if !isUniqueViolation(err) {
		return model.URLRecord{}, fmt.Errorf("error inserting URL: %w", err)
	}

	existing, found, ferr := s.FindByCode(ctx, rec.ShortCode)
	if ferr != nil {
		return model.URLRecord{}, ferr
	}
	if !found {
		// Conflicting row vanished between insert and select; caller
		// retries via the allocation loop.
		return model.URLRecord{}, fmt.Errorf("error inserting URL: %w", err)
	}

	return existing, storage.ErrCodeExists
}

// FindByCode retrieves the record for a short code.
func (s *URLStore) FindByCode(ctx context.Context, code string) (model.URLRecord, bool, error) {
	var rec model.URLRecord
	err := s.pool.QueryRow(ctx,
		"SELECT short_code, original_url, owned_by_user FROM urls WHERE short_code = $1",
		code).Scan(&rec.ShortCode, &rec.OriginalURL, &rec.OwnedByUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.URLRecord{}, false, nil
		}
		return model.URLRecord{}, false, fmt.Errorf("error querying URL: %w", err)
	}

	return rec, true, nil
}

// FindByOriginalURL retrieves the earliest record stored for originalURL.
func (s *URLStore) FindByOriginalURL(ctx context.Context, originalURL string) (model.URLRecord, bool, error) {
	var rec model.URLRecord
	err := s.pool.QueryRow(ctx,
		"SELECT short_code, original_url, owned_by_user FROM urls WHERE original_url = $1 ORDER BY created_at LIMIT 1",
		originalURL).Scan(&rec.ShortCode, &rec.OriginalURL, &rec.OwnedByUser)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.URLRecord{}, false, nil
		}
		return model.URLRecord{}, false, fmt.Errorf("error querying URL: %w", err)
	}

	return rec, true, nil
}

// UserStore implements storage.UserStore on the users table.
type UserStore struct {
	pool *pgxpool.Pool
}

// Save inserts rec; a primary key conflict maps to storage.ErrDuplicateEmail.
func (s *UserStore) Save(ctx context.Context, rec model.UserRecord) (model.UserRecord, error) {
	if rec.OwnedCodes == nil {
		rec.OwnedCodes = []string{}
	}

	_, err := s.pool.Exec(ctx,
		"INSERT INTO users (email, full_name, email_verified, password_hash, owned_codes) VALUES ($1, $2, $3, $4, $5)",
		rec.Email, rec.FullName, rec.EmailVerified, rec.PasswordHash, rec.OwnedCodes)
	if err != nil {
		if isUniqueViolation(err) {
			return model.UserRecord{}, storage.ErrDuplicateEmail
		}
		return model.UserRecord{}, fmt.Errorf("error inserting user: %w", err)
	}

	return rec, nil
}

// FindByEmail retrieves the account registered under email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (model.UserRecord, bool, error) {
	rec, found, err := findUser(ctx, s.pool, email)
	if err != nil {
		return model.UserRecord{}, false, err
	}

	return rec, found, nil
}

// UpdateByEmail merges upd into the stored row inside a transaction so
// the read-modify-write cycle sees a consistent record.
func (s *UserStore) UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (model.UserRecord, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.UserRecord{}, false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var rec model.UserRecord
	err = tx.QueryRow(ctx,
		"SELECT email, full_name, email_verified, password_hash, owned_codes FROM users WHERE email = $1 FOR UPDATE",
		email).Scan(&rec.Email, &rec.FullName, &rec.EmailVerified, &rec.PasswordHash, &rec.OwnedCodes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserRecord{}, false, nil
		}
		return model.UserRecord{}, false, fmt.Errorf("error querying user: %w", err)
	}

	rec = upd.Apply(rec)
	if rec.OwnedCodes == nil {
		rec.OwnedCodes = []string{}
	}

	_, err = tx.Exec(ctx,
		"UPDATE users SET full_name = $1, email_verified = $2, password_hash = $3, owned_codes = $4 WHERE email = $5",
		rec.FullName, rec.EmailVerified, rec.PasswordHash, rec.OwnedCodes, email)
	if err != nil {
		return model.UserRecord{}, false, fmt.Errorf("error updating user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.UserRecord{}, false, fmt.Errorf("error committing update: %w", err)
	}

	return rec, true, nil
}

// AppendCodes merges codes into the stored row's owned set inside a
// transaction with the row locked, so concurrent appends serialize.
func (s *UserStore) AppendCodes(ctx context.Context, email string, codes []string) (model.UserRecord, bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return model.UserRecord{}, false, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var rec model.UserRecord
	err = tx.QueryRow(ctx,
		"SELECT email, full_name, email_verified, password_hash, owned_codes FROM users WHERE email = $1 FOR UPDATE",
		email).Scan(&rec.Email, &rec.FullName, &rec.EmailVerified, &rec.PasswordHash, &rec.OwnedCodes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserRecord{}, false, nil
		}
		return model.UserRecord{}, false, fmt.Errorf("error querying user: %w", err)
	}

	rec.AppendCodes(codes)
	if rec.OwnedCodes == nil {
		rec.OwnedCodes = []string{}
	}

	_, err = tx.Exec(ctx,
		"UPDATE users SET owned_codes = $1 WHERE email = $2",
		rec.OwnedCodes, email)
	if err != nil {
		return model.UserRecord{}, false, fmt.Errorf("error updating user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return model.UserRecord{}, false, fmt.Errorf("error committing update: %w", err)
	}

	return rec, true, nil
}

func findUser(ctx context.Context, pool *pgxpool.Pool, email string) (model.UserRecord, bool, error) {
	var rec model.UserRecord
	err := pool.QueryRow(ctx,
		"SELECT email, full_name, email_verified, password_hash, owned_codes FROM users WHERE email = $1",
		email).Scan(&rec.Email, &rec.FullName, &rec.EmailVerified, &rec.PasswordHash, &rec.OwnedCodes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.UserRecord{}, false, nil
		}
		return model.UserRecord{}, false, fmt.Errorf("error querying user: %w", err)
	}

	return rec, true, nil
}
