package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mytheresa/sales-api/app/api"
	"github.com/mytheresa/sales-api/logger"
	"github.com/mytheresa/sales-api/models"
)

// CookieName is the cookie the login endpoint sets with the access token.
const CookieName = "token"

type UserFinder interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Authenticate resolves the caller from a Bearer token or the token cookie.
// Requests without valid credentials continue anonymously; rejecting them is
// left to the policies of each endpoint.
func Authenticate(tokens *TokenIssuer, users UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := tokenFromRequest(r)
			if raw == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := tokens.Parse(raw)
			if err != nil {
				logger.FromContext(r.Context()).Debug("ignoring invalid token", logger.FieldError, err)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					next.ServeHTTP(w, r)
					return
				}
				api.WriteError(w, r, err)
				return
			}
			if !user.IsActive {
				next.ServeHTTP(w, r)
				return
			}

			caller := &Caller{UserID: user.ID, Email: user.Email}
			log := logger.FromContext(r.Context()).With(logger.FieldUserID, user.ID)
			ctx := logger.WithContext(WithCaller(r.Context(), caller), log)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if cookie, err := r.Cookie(CookieName); err == nil {
		return cookie.Value
	}
	return ""
}
