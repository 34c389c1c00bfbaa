// Package registry tracks live searcher sessions.
//
// A session records where its automaton came from (inline entries, a stored
// dictionary, or a snapshot object) plus size metadata and an expiry. The
// Store interface has two implementations:
//   - memory: in-process map, the default
//   - redis: shared backend for multi-instance deployments
//
// Get returns nil, nil for a missing session and nil, ErrExpired for one
// past its TTL. Cleanup removes expired sessions and may be a no-op where
// the backend expires keys itself.
package registry

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrExpired is returned when a session exists but has exceeded its TTL.
var ErrExpired = errors.New("session expired")

// SourceKind tells how a session's automaton was built.
type SourceKind string

const (
	// SourceInline sessions are built from request entries and live only in
	// the process that created them.
	SourceInline SourceKind = "inline"

	// SourceDictionary sessions compile from a stored dictionary and can be
	// rebuilt on any instance.
	SourceDictionary SourceKind = "dictionary"

	// SourceSnapshot sessions decode from a snapshot object and can be
	// rebuilt on any instance.
	SourceSnapshot SourceKind = "snapshot"
)

// DefaultTTL is the session lifetime when the caller does not choose one.
const DefaultTTL = 24 * time.Hour

// Session describes one live searcher.
type Session struct {
	ID           string     `json:"id"`
	Kind         SourceKind `json:"kind"`
	SourceRef    string     `json:"source_ref,omitempty"`
	KeywordCount int        `json:"keyword_count"`
	NodeCount    int        `json:"node_count"`
	CreatedAt    time.Time  `json:"created_at"`
	ExpiresAt    time.Time  `json:"expires_at"`
}

// New creates a session with a fresh id. ttl <= 0 falls back to DefaultTTL.
func New(kind SourceKind, sourceRef string, keywordCount, nodeCount int, ttl time.Duration) *Session {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := time.Now()
	return &Session{
		ID:           uuid.NewString(),
		Kind:         kind,
		SourceRef:    sourceRef,
		KeywordCount: keywordCount,
		NodeCount:    nodeCount,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

// IsExpired reports whether the session has exceeded its TTL.
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// Rehydratable reports whether the automaton can be rebuilt from the
// session's source after an in-process cache miss.
func (s *Session) Rehydratable() bool {
	return s.Kind == SourceDictionary || s.Kind == SourceSnapshot
}

// TTL returns the remaining lifetime, zero when already expired.
func (s *Session) TTL() time.Duration {
	left := time.Until(s.ExpiresAt)
	if left < 0 {
		return 0
	}
	return left
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist.
	// Returns nil, ErrExpired if the session exists but has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session.
	Set(ctx context.Context, session *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op for backends with
	// native key expiry).
	Cleanup(ctx context.Context) error
}

// Sweep runs Cleanup on the store every interval until ctx is done. Errors
// are reported through onError when non-nil.
func Sweep(ctx context.Context, store Store, interval time.Duration, onError func(error)) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := store.Cleanup(ctx); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
