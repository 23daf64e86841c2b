// Package process abstracts the long-running workflow engine behind a
// start-and-signal interface. The engine owns process state, retries and
// timeouts; the connector only starts lookup flows and publishes resume
// messages.
package process

import (
	"context"
	"errors"

	"github.com/paycrux/switch-connector/internal/model"
)

// ErrNoWaitingInstance reports that no process instance was waiting for a
// published signal. Delivery is best-effort; callers do not retry.
var ErrNoWaitingInstance = errors.New("no process instance waiting for signal")

type Engine interface {
	// StartLookup starts a lookup flow with its initial variables.
	StartLookup(ctx context.Context, flowID string, variables map[string]any) error
	// Publish signals the suspended instance matched by the signal's
	// correlation key.
	Publish(ctx context.Context, sig model.ProcessSignal) error
}
