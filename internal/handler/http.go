package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/zippy-link/zippy/internal/auth"
	"github.com/zippy-link/zippy/internal/logger"
	"github.com/zippy-link/zippy/internal/middleware"
	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/service"
	"github.com/zippy-link/zippy/internal/storage"
)

// urlPattern is the syntax gate applied at the transport boundary; the
// core persists whatever passes it without re-validating.
var urlPattern = regexp.MustCompile(`https?://(www\.)?[-a-zA-Z0-9@:%._\+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b([-a-zA-Z0-9()@:%_\+.~#?&/=]*)`)

// URLService is the directory surface the handlers consume.
type URLService interface {
	Create(ctx context.Context, originalURL, shortCode string, ownedByUser bool) (model.URLRecord, error)
	FindByCode(ctx context.Context, code string) (model.URLRecord, bool, error)
	AbsoluteURL(code string) string
}

// UserService is the account surface the handlers consume.
type UserService interface {
	Register(ctx context.Context, fullName, email, passwordHash string, emailVerified bool) (model.UserRecord, error)
	FindByEmail(ctx context.Context, email string) (model.UserRecord, bool, error)
}

// Associator receives ownership bookkeeping requests after a create.
type Associator interface {
	Submit(email string, codes []string) error
}

// Pinger reports storage health for /ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler serves the HTTP API.
type Handler struct {
	urls       URLService
	users      UserService
	associator Associator
	jwtService *auth.JWTService
	pinger     Pinger
}

// NewHandler constructs a Handler. associator and pinger may be nil when
// the deployment has no user worker or no database to check.
func NewHandler(urls URLService, users UserService, associator Associator, jwtService *auth.JWTService, pinger Pinger) *Handler {
	return &Handler{
		urls:       urls,
		users:      users,
		associator: associator,
		jwtService: jwtService,
		pinger:     pinger,
	}
}

// RegisterRoutes builds the chi router with the middleware stack.
func (h *Handler) RegisterRoutes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(logger.RequestLogger)

	r.Use(middleware.GzipReader)
	r.Use(middleware.GzipMiddleware)

	authMW := middleware.NewAuthMiddleware(h.jwtService)
	r.Use(authMW.Identify)

	r.Post("/api/shorten", h.handleShorten)
	r.Post("/api/register", h.handleRegister)
	r.Post("/api/login", h.handleLogin)
	r.With(authMW.RequireAuth).Get("/api/user/urls", h.handleUserURLs)
	r.Get("/ping", h.handlePing)
	r.Get("/", h.handleWelcome)
	r.Get("/{code}", h.handleRedirect)

	return r
}

// ShortenRequest is the creation payload.
type ShortenRequest struct {
	URL       string `json:"url"`
	ShortURL  string `json:"shorturl"`
	RandomURL bool   `json:"random_url"`
}

// ShortenResponse reports the stored mapping.
type ShortenResponse struct {
	Info        string `json:"info"`
	OriginalURL string `json:"original_url"`
	ShortURL    string `json:"short_url"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handleShorten(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	contentEncoding := r.Header.Get("Content-Encoding")

	if contentEncoding != "gzip" && !strings.Contains(contentType, "application/json") {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var request ShortenRequest
	if err := json.Unmarshal(body, &request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	if !urlPattern.MatchString(request.URL) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid URL"})
		return
	}

	shortCode := request.ShortURL
	if request.RandomURL {
		shortCode = ""
	} else if shortCode == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Short URL is required unless a random one is requested"})
		return
	}

	email, authenticated := middleware.GetUserEmailFromContext(r.Context())

	rec, err := h.urls.Create(r.Context(), request.URL, shortCode, authenticated)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrCodeExists):
			writeJSON(w, http.StatusOK, ShortenResponse{
				Info:        "the shortened url already exists, try new one",
				OriginalURL: rec.OriginalURL,
				ShortURL:    h.urls.AbsoluteURL(rec.ShortCode),
			})
		case errors.Is(err, service.ErrMissingFields):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to create short URL"})
		}
		return
	}

	if authenticated && h.associator != nil {
		// Ownership bookkeeping is a separate, asynchronous write; the
		// mapping itself is already durable at this point.
		if err := h.associator.Submit(email, []string{rec.ShortCode}); err != nil {
			log.Error().Err(err).Str("email", email).Str("code", rec.ShortCode).
				Msg("Failed to submit ownership update")
		}
	}

	writeJSON(w, http.StatusOK, ShortenResponse{
		Info:        "Short Url created successfully",
		OriginalURL: rec.OriginalURL,
		ShortURL:    h.urls.AbsoluteURL(rec.ShortCode),
	})
}

func (h *Handler) handleRedirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	rec, found, err := h.urls.FindByCode(r.Context(), code)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "The requested Url is not found"})
		return
	}

	w.Header().Set("Location", rec.OriginalURL)
	w.WriteHeader(http.StatusFound)
}

func (h *Handler) handleWelcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("[INFO] Welcome to Zippy - Compact Fast URL Shortner"))
}

func (h *Handler) handlePing(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.pinger.Ping(r.Context()); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
