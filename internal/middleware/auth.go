package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gatherly/api/internal/model"
	"github.com/gatherly/api/pkg/token"
)

// TokenVerifier defines the interface for session token verification
type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// Auth returns a middleware that requires a valid session token
func Auth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessionFromRequest(r, verifier)
			if err != nil {
				switch {
				case errors.Is(err, token.ErrTokenExpired):
					model.NewUnauthorizedError("token expired").WriteJSON(w)
				case errors.Is(err, token.ErrInvalidSignature):
					model.NewUnauthorizedError("invalid token signature").WriteJSON(w)
				default:
					model.NewUnauthorizedError(err.Error()).WriteJSON(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth is like Auth but doesn't require authentication.
// A valid token puts a session in context; anything else passes the
// request through anonymously.
func OptionalAuth(verifier TokenVerifier) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessionFromRequest(r, verifier)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the session from context. The zero Session means
// the request is anonymous.
func GetSession(ctx context.Context) model.Session {
	if s, ok := ctx.Value(SessionKey).(model.Session); ok {
		return s
	}
	return model.Session{}
}

var (
	errMissingAuthHeader = errors.New("missing authorization header")
	errBadAuthFormat     = errors.New("invalid authorization header format")
)

func sessionFromRequest(r *http.Request, verifier TokenVerifier) (model.Session, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return model.Session{}, errMissingAuthHeader
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return model.Session{}, errBadAuthFormat
	}

	claims, err := verifier.Verify(parts[1])
	if err != nil {
		return model.Session{}, err
	}

	return model.Session{
		UserID: claims.SubjectID(),
		Name:   claims.Name,
		Email:  claims.Email,
	}, nil
}
