package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zippy-link/zippy/internal/auth"
	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/storage"
)

type mockURLService struct {
	createFunc     func(originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error)
	findByCodeFunc func(code string) (model.URLRecord, bool, error)
}

func (m *mockURLService) Create(ctx context.Context, originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error) {
	return m.createFunc(originalURL, shortCode, ownedByUser)
}

func (m *mockURLService) FindByCode(ctx context.Context, code string) (model.URLRecord, bool, error) {
	return m.findByCodeFunc(code)
}

func (m *mockURLService) AbsoluteURL(code string) string {
	return "http://localhost:8080/" + code
}

type mockUserService struct {
	registerFunc    func(fullName, email, passwordHash string, emailVerified bool) (model.UserRecord, error)
	findByEmailFunc func(email string) (model.UserRecord, bool, error)
}

func (m *mockUserService) Register(ctx context.Context, fullName, email, passwordHash string, emailVerified bool) (model.UserRecord, error) {
	return m.registerFunc(fullName, email, passwordHash, emailVerified)
}

func (m *mockUserService) FindByEmail(ctx context.Context, email string) (model.UserRecord, bool, error) {
	return m.findByEmailFunc(email)
}

func newTestHandler(urls *mockURLService, users *mockUserService) http.Handler {
	h := NewHandler(urls, users, nil, auth.NewJWTService("test-secret"), nil)
	return h.RegisterRoutes()
}

func TestHandler_handleShorten(t *testing.T) {
	tests := []struct {
		name        string
		requestBody string
		contentType string
		mockCreate  func(originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error)
		wantStatus  int
		wantInfo    string
	}{
		{
			name:        "Random short URL",
			requestBody: `{"url":"https://example.com","random_url":true}`,
			contentType: "application/json",
			mockCreate: func(originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error) {
				return model.URLRecord{OriginalURL: originalURL, ShortCode: "abc123"}, nil
			},
			wantStatus: http.StatusOK,
			wantInfo:   "Short Url created successfully",
		},
		{
			name:        "Custom short URL",
			requestBody: `{"url":"https://example.com","shorturl":"custom"}`,
			contentType: "application/json",
			mockCreate: func(originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error) {
				return model.URLRecord{OriginalURL: originalURL, ShortCode: shortCode}, nil
			},
			wantStatus: http.StatusOK,
			wantInfo:   "Short Url created successfully",
		},
		{
			name:        "Custom short URL already taken",
			requestBody: `{"url":"https://example.com","shorturl":"custom"}`,
			contentType: "application/json",
			mockCreate: func(originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error) {
				return model.URLRecord{OriginalURL: "https://first.example", ShortCode: "custom"}, storage.ErrCodeExists
			},
			wantStatus: http.StatusOK,
			wantInfo:   "the shortened url already exists, try new one",
		},
		{
			name:        "Invalid URL",
			requestBody: `{"url":"not a url","random_url":true}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "Missing short URL without random",
			requestBody: `{"url":"https://example.com"}`,
			contentType: "application/json",
			wantStatus:  http.StatusBadRequest,
		},
		{
			name:        "Wrong content type",
			requestBody: `{"url":"https://example.com","random_url":true}`,
			contentType: "text/plain",
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			urls := &mockURLService{createFunc: tt.mockCreate}
			router := newTestHandler(urls, &mockUserService{})

			req := httptest.NewRequest(http.MethodPost, "/api/shorten", bytes.NewBufferString(tt.requestBody))
			req.Header.Set("Content-Type", tt.contentType)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			if tt.wantInfo != "" {
				var resp ShortenResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshaling response: %v", err)
				}
				if resp.Info != tt.wantInfo {
					t.Errorf("info = %q, want %q", resp.Info, tt.wantInfo)
				}
			}
		})
	}
}

func TestHandler_handleRedirect(t *testing.T) {
	urls := &mockURLService{
		findByCodeFunc: func(code string) (model.URLRecord, bool, error) {
			if code == "abc123" {
				return model.URLRecord{OriginalURL: "https://example.com", ShortCode: "abc123"}, true, nil
			}
			return model.URLRecord{}, false, nil
		},
	}
	router := newTestHandler(urls, &mockUserService{})

	t.Run("Existing code redirects", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusFound)
		}
		if loc := rec.Header().Get("Location"); loc != "https://example.com" {
			t.Errorf("Location = %q, want %q", loc, "https://example.com")
		}
	})

	t.Run("Unknown code is not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/doesnotexist", nil)
		rec := httptest.NewRecorder()

		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d, want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func TestHandler_handleWelcome(t *testing.T) {
	router := newTestHandler(&mockURLService{}, &mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if body := rec.Body.String(); body == "" {
		t.Error("welcome body is empty")
	}
}

func TestHandler_handlePing_NoPinger(t *testing.T) {
	router := newTestHandler(&mockURLService{}, &mockUserService{})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
