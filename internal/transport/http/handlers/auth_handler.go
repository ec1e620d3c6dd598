package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/vedran77/lawnpool/internal/domain"
	"github.com/vedran77/lawnpool/internal/service"
)

const googleCallbackPath = "/api/auth/google/callback"

type AuthHandler struct {
	authService *service.AuthService
	baseURL     string
}

// NewAuthHandler builds the auth routes. An empty baseURL derives the OAuth
// redirect from the request.
func NewAuthHandler(authService *service.AuthService, baseURL string) *AuthHandler {
	return &AuthHandler{authService: authService, baseURL: strings.TrimRight(baseURL, "/")}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input service.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	resp, err := h.authService.Register(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "register", err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input service.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		writeDomainError(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	user, err := h.authService.Verify(r.Context(), r.URL.Query().Get("token"))
	if err != nil {
		writeDomainError(w, r, "verify token", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	target, err := h.authService.GoogleAuthURL(r.URL.Query().Get("userType"), h.callbackURL(r))
	if err != nil {
		if errors.Is(err, service.ErrGoogleNotConfigured) {
			writeError(w, http.StatusInternalServerError, "Google OAuth is not configured")
			return
		}
		writeDomainError(w, r, "google start", err)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}

func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	code := q.Get("code")
	if q.Get("error") != "" || code == "" {
		redirectWithError(w, r, "oauth_failed")
		return
	}

	resp, err := h.authService.GoogleCallback(r.Context(), code, q.Get("state"), h.callbackURL(r))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidState):
			redirectWithError(w, r, "invalid_state")
		case errors.Is(err, service.ErrGoogleNotConfigured):
			redirectWithError(w, r, "oauth_failed")
		default:
			log.Error().Err(err).Msg("google callback")
			redirectWithError(w, r, "oauth_error")
		}
		return
	}

	summary, err := json.Marshal(callbackUser(resp.User))
	if err != nil {
		redirectWithError(w, r, "oauth_error")
		return
	}

	target := "/?" + url.Values{
		"token": {resp.AccessToken},
		"user":  {string(summary)},
	}.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}

// callbackURL prefers the configured base URL, then proxy headers, then the
// request itself.
func (h *AuthHandler) callbackURL(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL + googleCallbackPath
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme, _, _ = strings.Cut(proto, ",")
	}
	host := r.Host
	if fwd := r.Header.Get("X-Forwarded-Host"); fwd != "" {
		host, _, _ = strings.Cut(fwd, ",")
	}
	return strings.TrimSpace(scheme) + "://" + strings.TrimSpace(host) + googleCallbackPath
}

func redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?error="+code, http.StatusFound)
}

type callbackSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	UserType string  `json:"userType"`
	Picture  *string `json:"picture,omitempty"`
}

func callbackUser(u *domain.User) callbackSummary {
	return callbackSummary{
		ID:       u.ID.String(),
		Name:     u.Name,
		Email:    u.Email,
		UserType: u.Role,
		Picture:  u.AvatarURL,
	}
}
