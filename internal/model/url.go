package model

// URLRecord is a persisted short-code mapping. Records are append-only:
// once created they are never mutated, and short codes are unique across
// the whole collection. The same original URL may appear under several
// codes.
type URLRecord struct {
	OriginalURL string `json:"original_url"`
	ShortCode   string `json:"short_code"`
	OwnedByUser bool   `json:"owned_by_user"`
}

// OwnedURL is the external representation returned in API responses.
type OwnedURL struct {
	ShortURL    string `json:"short_url"`
	OriginalURL string `json:"original_url"`
}
