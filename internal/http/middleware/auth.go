package middleware

import (
	"context"
	"net/http"
	"strings"

	"admissions/internal/common"
	"admissions/internal/domain/user"
	"admissions/internal/http/response"
	"admissions/internal/security"
)

type contextKey string

const ContextUserKey contextKey = "current_user"

type AuthMiddleware struct {
	jwt   *security.JWTProvider
	users user.Repository
}

func NewAuthMiddleware(jwt *security.JWTProvider, users user.Repository) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, users: users}
}

// Authenticate validates the bearer token and loads the account it names.
// Tokens of deactivated accounts are rejected even before expiry.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "missing authorization header", nil))
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid authorization header", nil))
			return
		}
		userID, _, err := m.jwt.Parse(parts[1])
		if err != nil {
			response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
			return
		}
		account, err := m.users.GetByID(r.Context(), userID)
		if err != nil {
			if common.Is(err, common.CodeNotFound) {
				response.Error(w, common.NewError(common.CodeUnauthorized, "invalid token", err))
				return
			}
			response.Error(w, err)
			return
		}
		if !account.IsActive {
			response.Error(w, common.NewError(common.CodeForbidden, "user is not active", nil))
			return
		}
		ctx := context.WithValue(r.Context(), ContextUserKey, account)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		account, ok := CurrentUser(r.Context())
		if !ok {
			response.Error(w, common.NewError(common.CodeUnauthorized, "authentication required", nil))
			return
		}
		if account.Role != user.RoleAdmin {
			response.Error(w, common.NewError(common.CodeForbidden, "admin role required", nil))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func CurrentUser(ctx context.Context) (*user.User, bool) {
	account, ok := ctx.Value(ContextUserKey).(*user.User)
	return account, ok
}
