// Package session reads Valkey-backed HTTP sessions. Sessions are issued by
// the external identity provider, which stores them as JSON under
// "session:<id>" and hands the browser the id in a cookie. This service
// never creates or mutates them.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent by the browser.
	CookieName = "folio_session"

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"
)

// Data holds the session payload stored in Valkey. UserID is a UUID for
// regular accounts and a fixed sentinel for the environment admin.
type Data struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"created_at"`
}

// Store reads sessions from Valkey.
type Store struct {
	client *redis.Client
}

// NewStore creates a session store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get retrieves session data using the session ID from the request cookie.
// Returns nil if no valid session exists.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, nil // No cookie = no session (not an error)
	}
	return s.Lookup(ctx, cookie.Value)
}

// Lookup retrieves session data by ID. Returns nil if the session expired
// or never existed.
func (s *Store) Lookup(ctx context.Context, id string) (*Data, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}
