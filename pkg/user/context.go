package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const UserIDKey contextKey = "userID"

var ErrNoUser = errors.New("user not found in context")

// CurrentID retrieves the authenticated user's ID from the context.
// Returns ErrNoUser if no ID is present.
func CurrentID(ctx context.Context) (string, error) {
	id, ok := ctx.Value(UserIDKey).(string)
	if !ok || id == "" {
		log.Trace("user not found in context")
		return "", ErrNoUser
	}
	return id, nil
}

func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}
