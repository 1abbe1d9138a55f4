// Package memory implements the stores on plain maps for tests and
// development runs.
package memory

import (
	"context"
	"sync"

	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/storage"
)

// URLStore implements an in-memory storage.URLStore.
type URLStore struct {
	records []model.URLRecord
	byCode  map[string]int
	mu      sync.RWMutex
}

// NewURLStore creates a new in-memory URL store.
func NewURLStore() *URLStore {
	return &URLStore{
		byCode: make(map[string]int),
	}
}

// Save stores rec unless the short code is taken, in which case the
// existing record comes back with storage.ErrCodeExists.
func (s *URLStore) Save(ctx context.Context, rec model.URLRecord) (model.URLRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, exists := s.byCode[rec.ShortCode]; exists {
		return s.records[i], storage.ErrCodeExists
	}

	s.byCode[rec.ShortCode] = len(s.records)
	s.records = append(s.records, rec)

	return rec, nil
}

// FindByCode retrieves the record for a short code.
func (s *URLStore) FindByCode(ctx context.Context, code string) (model.URLRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, found := s.byCode[code]
	if !found {
		return model.URLRecord{}, false, nil
	}

	return s.records[i], true, nil
}

// FindByOriginalURL retrieves the first record stored for originalURL.
func (s *URLStore) FindByOriginalURL(ctx context.Context, originalURL string) (model.URLRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.OriginalURL == originalURL {
			return rec, true, nil
		}
	}

	return model.URLRecord{}, false, nil
}

// Len reports the number of stored records.
func (s *URLStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// UserStore implements an in-memory storage.UserStore.
type UserStore struct {
	byEmail map[string]model.UserRecord
	mu      sync.RWMutex
}

// NewUserStore creates a new in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{
		byEmail: make(map[string]model.UserRecord),
	}
}

// Save stores rec unless the email is already registered.
func (s *UserStore) Save(ctx context.Context, rec model.UserRecord) (model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[rec.Email]; exists {
		return model.UserRecord{}, storage.ErrDuplicateEmail
	}

	if rec.OwnedCodes == nil {
		rec.OwnedCodes = []string{}
	}

	s.byEmail[rec.Email] = rec
	return rec, nil
}

// FindByEmail retrieves the account registered under email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (model.UserRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, found := s.byEmail[email]
	return rec, found, nil
}

// UpdateByEmail merges upd into the stored record.
func (s *UserStore) UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (model.UserRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, found := s.byEmail[email]
	if !found {
		return model.UserRecord{}, false, nil
	}

	rec = upd.Apply(rec)
	s.byEmail[email] = rec

	return rec, true, nil
}

// AppendCodes merges codes into the stored record's owned set under the
// store lock.
func (s *UserStore) AppendCodes(ctx context.Context, email string, codes []string) (model.UserRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, found := s.byEmail[email]
	if !found {
		return model.UserRecord{}, false, nil
	}

	rec.OwnedCodes = append([]string(nil), rec.OwnedCodes...)
	rec.AppendCodes(codes)
	s.byEmail[email] = rec

	return rec, true, nil
}

// Len reports the number of stored accounts.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.byEmail)
}
