package handler

import (
	"context"
	"errors"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/zippy-link/zippy/internal/middleware"
	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/proto"
	"github.com/zippy-link/zippy/internal/storage"
)

type mockAssociator struct {
	submitFunc func(email string, codes []string) error
}

func (m *mockAssociator) Submit(email string, codes []string) error {
	if m.submitFunc != nil {
		return m.submitFunc(email, codes)
	}
	return nil
}

func authedContext(email string) context.Context {
	return context.WithValue(context.Background(), middleware.UserEmailKey, email)
}

func TestShortenerGRPCServer_ShortenURL(t *testing.T) {
	urls := &mockURLService{
		createFunc: func(originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error) {
			return model.URLRecord{OriginalURL: originalURL, ShortCode: "abc123"}, nil
		},
	}
	srv := NewShortenerGRPCServer(urls, &mockUserService{}, nil)

	resp, err := srv.ShortenURL(context.Background(), &proto.ShortenRequest{Url: "https://example.com", Random: true})
	if err != nil {
		t.Fatalf("ShortenURL() error = %v", err)
	}
	if !resp.Created {
		t.Error("ShortenURL() created = false, want true")
	}
	if resp.ShortUrl != "http://localhost:8080/abc123" {
		t.Errorf("ShortenURL() short_url = %q, want %q", resp.ShortUrl, "http://localhost:8080/abc123")
	}
}

func TestShortenerGRPCServer_ShortenURL_CodeTaken(t *testing.T) {
	urls := &mockURLService{
		createFunc: func(originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error) {
			return model.URLRecord{OriginalURL: "https://first.example", ShortCode: shortCode}, storage.ErrCodeExists
		},
	}
	srv := NewShortenerGRPCServer(urls, &mockUserService{}, nil)

	resp, err := srv.ShortenURL(context.Background(), &proto.ShortenRequest{Url: "https://example.com", ShortCode: "custom"})
	if err != nil {
		t.Fatalf("ShortenURL() error = %v", err)
	}
	if resp.Created {
		t.Error("ShortenURL() created = true, want false")
	}
	if resp.OriginalUrl != "https://first.example" {
		t.Errorf("ShortenURL() original_url = %q, want existing mapping", resp.OriginalUrl)
	}
}

func TestShortenerGRPCServer_ShortenURL_AssociatorErrorDoesNotFail(t *testing.T) {
	urls := &mockURLService{
		createFunc: func(originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error) {
			return model.URLRecord{OriginalURL: originalURL, ShortCode: "abc123"}, nil
		},
	}
	submitted := false
	associator := &mockAssociator{
		submitFunc: func(email string, codes []string) error {
			submitted = true
			return errors.New("queue full")
		},
	}
	srv := NewShortenerGRPCServer(urls, &mockUserService{}, associator)

	resp, err := srv.ShortenURL(authedContext("ada@example.com"), &proto.ShortenRequest{Url: "https://example.com", Random: true})
	if err != nil {
		t.Fatalf("ShortenURL() error = %v, want nil despite Submit failure", err)
	}
	if !resp.Created {
		t.Error("ShortenURL() created = false, want true")
	}
	if !submitted {
		t.Error("Submit was not called for an authenticated create")
	}
}

func TestShortenerGRPCServer_ExpandURL_NotFound(t *testing.T) {
	urls := &mockURLService{
		findByCodeFunc: func(code string) (model.URLRecord, bool, error) {
			return model.URLRecord{}, false, nil
		},
	}
	srv := NewShortenerGRPCServer(urls, &mockUserService{}, nil)

	_, err := srv.ExpandURL(context.Background(), &proto.ExpandRequest{Code: "missing"})
	if status.Code(err) != codes.NotFound {
		t.Errorf("ExpandURL() code = %v, want %v", status.Code(err), codes.NotFound)
	}
}
