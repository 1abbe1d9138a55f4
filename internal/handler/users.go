package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/zippy-link/zippy/internal/middleware"
	"github.com/zippy-link/zippy/internal/model"
	"github.com/zippy-link/zippy/internal/service"
	"github.com/zippy-link/zippy/internal/storage"
)

// RegisterRequest is the account creation payload.
type RegisterRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the session creation payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	FullName      string `json:"full_name"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var request RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if request.Password == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Password is required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	rec, err := h.users.Register(r.Context(), request.FullName, request.Email, string(hash), false)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrDuplicateEmail):
			writeJSON(w, http.StatusConflict, errorResponse{Error: "User with this email already exists"})
		case errors.Is(err, service.ErrMissingFields):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to register user"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, UserResponse{
		FullName:      rec.FullName,
		Email:         rec.Email,
		EmailVerified: rec.EmailVerified,
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var request LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	rec, found, err := h.users.FindByEmail(r.Context(), request.Email)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if !found || bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(request.Password)) != nil {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Invalid email or password"})
		return
	}

	token, err := h.jwtService.GenerateToken(rec.Email)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		MaxAge:   86400,
	})

	writeJSON(w, http.StatusOK, UserResponse{
		FullName:      rec.FullName,
		Email:         rec.Email,
		EmailVerified: rec.EmailVerified,
	})
}

func (h *Handler) handleUserURLs(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	rec, found, err := h.users.FindByEmail(r.Context(), email)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Account not found"})
		return
	}

	if len(rec.OwnedCodes) == 0 {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	urls := make([]model.OwnedURL, 0, len(rec.OwnedCodes))
	for _, code := range rec.OwnedCodes {
		mapping, mapped, err := h.urls.FindByCode(r.Context(), code)
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if !mapped {
			continue
		}

		urls = append(urls, model.OwnedURL{
			ShortURL:    h.urls.AbsoluteURL(code),
			OriginalURL: mapping.OriginalURL,
		})
	}

	writeJSON(w, http.StatusOK, urls)
}
