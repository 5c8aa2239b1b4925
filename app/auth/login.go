package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/models"
)

const invalidCredentials = "unable to log in with provided credentials"

type CredentialFinder interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// CookieConfig controls the token cookie set on login.
type CookieConfig struct {
	Domain string
	Secure bool
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type LoginHandler struct {
	users  CredentialFinder
	tokens *TokenIssuer
	cookie CookieConfig
}

func NewLoginHandler(users CredentialFinder, tokens *TokenIssuer, cookie CookieConfig) *LoginHandler {
	return &LoginHandler{
		users:  users,
		tokens: tokens,
		cookie: cookie,
	}
}

// HandleLogin exchanges an email and password for an access token.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := api.DecodeJSON(r, &req); err != nil {
		api.WriteError(w, r, err)
		return
	}
	if err := api.Validate(req, &api.ValidationError{}); err != nil {
		api.WriteError(w, r, err)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			api.WriteMessage(w, http.StatusBadRequest, invalidCredentials)
			return
		}
		api.WriteError(w, r, err)
		return
	}
	if !user.IsActive || !CheckPassword(user.PasswordHash, req.Password) {
		api.WriteMessage(w, http.StatusBadRequest, invalidCredentials)
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Email)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Domain:   h.cookie.Domain,
		MaxAge:   int(h.tokens.TTL().Seconds()),
		Secure:   h.cookie.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	api.WriteJSON(w, http.StatusOK, LoginResponse{Token: token})
}
