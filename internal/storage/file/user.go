package file

import (
	"context"
	"sync"

	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/storage"
)

// UserStore is a file-backed storage.UserStore. Users and URLs are
// independent collections with independent locks; no operation spans
// both files.
type UserStore struct {
	path string
	mu   sync.Mutex
}

// NewUserStore creates a user store persisting to the given file path.
func NewUserStore(path string) (*UserStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	return &UserStore{path: path}, nil
}

// Save appends rec unless the email is already registered.
func (s *UserStore) Save(ctx context.Context, rec model.UserRecord) (model.UserRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords[model.UserRecord](s.path)
	if err != nil {
		return model.UserRecord{}, err
	}

	for _, existing := range records {
		if existing.Email == rec.Email {
			return model.UserRecord{}, storage.ErrDuplicateEmail
		}
	}

	if rec.OwnedCodes == nil {
		rec.OwnedCodes = []string{}
	}

	records = append(records, rec)
	if err := replaceRecords(s.path, records); err != nil {
		return model.UserRecord{}, err
	}

	return rec, nil
}

// FindByEmail returns the account registered under email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (model.UserRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords[model.UserRecord](s.path)
	if err != nil {
		return model.UserRecord{}, false, err
	}

	for _, rec := range records {
		if rec.Email == email {
			return rec, true, nil
		}
	}

	return model.UserRecord{}, false, nil
}

// UpdateByEmail merges upd into the matching record and persists the
// collection. A missing account is reported via the boolean, not an
// error.
func (s *UserStore) UpdateByEmail(ctx context.Context, email string, upd model.UserUpdate) (model.UserRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords[model.UserRecord](s.path)
	if err != nil {
		return model.UserRecord{}, false, err
	}

	for i, rec := range records {
		if rec.Email != email {
			continue
		}

		records[i] = upd.Apply(rec)
		if err := replaceRecords(s.path, records); err != nil {
			return model.UserRecord{}, false, err
		}

		return records[i], true, nil
	}

	return model.UserRecord{}, false, nil
}

// AppendCodes merges codes into the matching record's owned set and
// persists the collection, all under the store lock.
func (s *UserStore) AppendCodes(ctx context.Context, email string, codes []string) (model.UserRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords[model.UserRecord](s.path)
	if err != nil {
		return model.UserRecord{}, false, err
	}

	for i := range records {
		if records[i].Email != email {
			continue
		}

		records[i].AppendCodes(codes)
		if err := replaceRecords(s.path, records); err != nil {
			return model.UserRecord{}, false, err
		}

		return records[i], true, nil
	}

	return model.UserRecord{}, false, nil
}
