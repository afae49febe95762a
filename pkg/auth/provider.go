package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

type contextKey string

const (
	UserContextKey  contextKey = "auth.user"
	EmailContextKey contextKey = "auth.email"
)

var ErrUnauthorized = errors.New("unauthorized")

type Provider interface {
	Authenticate(ctx context.Context, r *http.Request) (context.Context, error)
}

// User returns the authenticated user of ctx, or an empty string.
func User(ctx context.Context) string {
	user, _ := ctx.Value(UserContextKey).(string)
	return user
}

func WithUser(ctx context.Context, user string) context.Context {
	return context.WithValue(ctx, UserContextKey, user)
}

// BearerToken extracts the token of an "Authorization: Bearer" header.
func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")

	if header == "" {
		return "", errors.New("missing authorization header")
	}

	token, ok := strings.CutPrefix(header, "Bearer ")

	if !ok || token == "" {
		return "", errors.New("invalid authorization header")
	}

	return token, nil
}
