// Package correlation maps in-flight party lookups to the process instance
// waiting on their answer. Entries are TTL-bound; removal has
// at-most-one-winner semantics so a success callback, an error callback and
// expiry can race safely.
package correlation

import (
	"context"
	"errors"
	"time"

	"github.com/paycrux/switch-connector/internal/model"
)

var (
	// ErrNotFound marks a dangling callback: no live entry for the key.
	ErrNotFound = errors.New("correlation entry not found")
	// ErrAlreadyConsumed marks a duplicate callback: the entry was taken
	// by an earlier terminal outcome.
	ErrAlreadyConsumed = errors.New("correlation entry already consumed")
)

// Entry is the pending-request metadata stored per correlation key.
type Entry struct {
	TransactionID string    `json:"transactionId"`
	TenantID      string    `json:"tenantId"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Store holds at most one live Entry per key.
type Store interface {
	// Put registers a pending lookup. A second Put for the same key
	// overwrites the previous entry and restarts its TTL.
	Put(ctx context.Context, key string, e Entry) error
	// Take removes and returns the entry for key. Exactly one concurrent
	// caller wins; losers get ErrAlreadyConsumed, expired or unknown keys
	// get ErrNotFound.
	Take(ctx context.Context, key string) (Entry, error)
}

// Key derives the correlation key from the callback path segments.
func Key(idType model.IdentifierType, partyID string) string {
	return idType.String() + "/" + partyID
}
