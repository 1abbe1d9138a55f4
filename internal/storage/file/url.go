package file

import (
	"context"
	"sync"

	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/storage"
)

// URLStore is a file-backed storage.URLStore. The mutex serializes whole
// load/mutate/replace cycles, which closes the read-modify-write race
// between concurrent saves.
type URLStore struct {
	path string
	mu   sync.Mutex
}

// NewURLStore creates a URL store persisting to the given file path.
func NewURLStore(path string) (*URLStore, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	return &URLStore{path: path}, nil
}

// Save appends rec unless its short code is already taken, in which case
// the existing record is returned together with storage.ErrCodeExists and
// the collection is left unchanged.
func (s *URLStore) Save(ctx context.Context, rec model.URLRecord) (model.URLRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords[model.URLRecord](s.path)
	if err != nil {
		return model.URLRecord{}, err
	}

	for _, existing := range records {
		if existing.ShortCode == rec.ShortCode {
			return existing, storage.ErrCodeExists
		}
	}

	records = append(records, rec)
	if err := replaceRecords(s.path, records); err != nil {
		return model.URLRecord{}, err
	}

	return rec, nil
}

// FindByCode returns the record holding the given short code. Codes are
// case-sensitive.
func (s *URLStore) FindByCode(ctx context.Context, code string) (model.URLRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords[model.URLRecord](s.path)
	if err != nil {
		return model.URLRecord{}, false, err
	}

	for _, rec := range records {
		if rec.ShortCode == code {
			return rec, true, nil
		}
	}

	return model.URLRecord{}, false, nil
}

// FindByOriginalURL returns the first record for the given original URL
// in insertion order.
func (s *URLStore) FindByOriginalURL(ctx context.Context, originalURL string) (model.URLRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := loadRecords[model.URLRecord](s.path)
	if err != nil {
		return model.URLRecord{}, false, err
	}

	for _, rec := range records {
		if rec.OriginalURL == originalURL {
			return rec, true, nil
		}
	}

	return model.URLRecord{}, false, nil
}
