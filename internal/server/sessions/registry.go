package sessions

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
)

// TokenBytes is the amount of randomness in a session token.
const TokenBytes = 32

const maxCreateAttempts = 5

var errTokenCollision = errors.New("could not generate a unique session token")

// Registry issues, resolves and destroys sessions.
type Registry struct {
	store Store
	// readRand is a seam for tests.
	readRand func([]byte) (int, error)
}

func NewRegistry(store Store) *Registry {
	return &Registry{store: store, readRand: rand.Read}
}

// Create issues a new session token bound to username.
func (r *Registry) Create(ctx context.Context, username string) (string, error) {
	for range maxCreateAttempts {
		token, err := r.newToken()
		if err != nil {
			return "", fmt.Errorf("session token: %w", err)
		}

		stored, err := r.store.SetIfAbsent(ctx, token, username)
		if err != nil {
			return "", fmt.Errorf("session store: %w", err)
		}
		if stored {
			return token, nil
		}
	}
	return "", errTokenCollision
}

// Resolve returns the username bound to token. An empty or unknown token is
// reported with ok == false.
func (r *Registry) Resolve(ctx context.Context, token string) (username string, ok bool, err error) {
	if token == "" {
		return "", false, nil
	}
	return r.store.Get(ctx, token)
}

// Destroy ends the session. It is idempotent.
func (r *Registry) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return r.store.Delete(ctx, token)
}

// Active returns the number of live sessions.
func (r *Registry) Active() int {
	return r.store.Len()
}

func (r *Registry) newToken() (string, error) {
	b := make([]byte, TokenBytes)
	if _, err := r.readRand(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
