package service

import (
	"context"
	"errors"
	"net/url"

	"github.com/zippy-link/zippy/internal/allocator"
	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/storage"
)

// ErrMissingFields is returned when a create request lacks a required
// field. The caller's input is at fault; the request is not retried.
var ErrMissingFields = errors.New("missing required fields")

// saveRetries bounds re-allocation when a freshly allocated code loses
// the insert race to a concurrent request.
const saveRetries = 3

// URLService enforces the creation and lookup contract over a URL store.
type URLService struct {
	store   storage.URLStore
	alloc   *allocator.Allocator
	baseURL string
}

// NewURLService constructs a URLService over the given store.
func NewURLService(store storage.URLStore, alloc *allocator.Allocator, baseURL string) *URLService {
	return &URLService{
		store:   store,
		alloc:   alloc,
		baseURL: baseURL,
	}
}

// Create persists a new mapping. With an empty shortCode a free code is
// allocated. With an explicit shortCode that is already taken, the
// existing record is returned together with storage.ErrCodeExists, so
// repeating a create with the same code is idempotent, never an error
// and never a duplicate.
func (s *URLService) Create(ctx context.Context, originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error) {
	if originalURL == "" {
		return model.URLRecord{}, ErrMissingFields
	}

	if shortCode == "" {
		return s.createGenerated(ctx, originalURL, ownedByUser)
	}

	rec := model.URLRecord{
		OriginalURL: originalURL,
		ShortCode:   shortCode,
		OwnedByUser: ownedByUser,
	}

	return s.store.Save(ctx, rec)
}

func (s *URLService) createGenerated(ctx context.Context, originalURL string, ownedByUser bool) (model.URLRecord, error) {
	exists := func(code string) bool {
		_, found, err := s.store.FindByCode(ctx, code)
		return err == nil && found
	}

	var lastErr error
	for attempt := 0; attempt < saveRetries; attempt++ {
		code, err := s.alloc.Allocate(exists)
		if err != nil {
			return model.URLRecord{}, err
		}

		rec := model.URLRecord{
			OriginalURL: originalURL,
			ShortCode:   code,
			OwnedByUser: ownedByUser,
		}

		saved, err := s.store.Save(ctx, rec)
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, storage.ErrCodeExists) {
			return model.URLRecord{}, err
		}

		// A concurrent request took the code between the allocation
		// check and the insert. Allocate again.
		lastErr = err
	}

	return model.URLRecord{}, lastErr
}

// FindByCode resolves a short code. Absence is reported via the boolean,
// not an error.
func (s *URLService) FindByCode(ctx context.Context, code string) (model.URLRecord, bool, error) {
	if code == "" {
		return model.URLRecord{}, false, nil
	}

	return s.store.FindByCode(ctx, code)
}

// FindByOriginalURL returns the first mapping stored for originalURL.
func (s *URLService) FindByOriginalURL(ctx context.Context, originalURL string) (model.URLRecord, bool, error) {
	if originalURL == "" {
		return model.URLRecord{}, false, nil
	}

	return s.store.FindByOriginalURL(ctx, originalURL)
}

// AbsoluteURL renders the public short URL for a code.
func (s *URLService) AbsoluteURL(code string) string {
	shortURL, err := url.JoinPath(s.baseURL, code)
	if err != nil {
		return s.baseURL + "/" + code
	}
	return shortURL
}
