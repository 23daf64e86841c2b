package process

import (
	"context"
	"sync"

	"github.com/paycrux/switch-connector/internal/model"
)

// StartedProcess records one StartLookup call on the in-process engine.
type StartedProcess struct {
	FlowID    string
	Variables map[string]any
}

// InProcEngine is an in-process substitute for the external workflow engine.
// A waiter registered with Await stands in for a suspended instance; a
// Publish with no waiter is a delivery miss, matching the best-effort
// semantic of the real engine.
type InProcEngine struct {
	mu      sync.Mutex
	started []StartedProcess
	waiters map[string]chan model.ProcessSignal
}

func NewInProcEngine() *InProcEngine {
	return &InProcEngine{waiters: make(map[string]chan model.ProcessSignal)}
}

func (e *InProcEngine) StartLookup(_ context.Context, flowID string, variables map[string]any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.started = append(e.started, StartedProcess{FlowID: flowID, Variables: variables})
	return nil
}

// Await registers a waiting instance for a correlation key. The returned
// channel receives at most one signal.
func (e *InProcEngine) Await(correlationKey string) <-chan model.ProcessSignal {
	ch := make(chan model.ProcessSignal, 1)
	e.mu.Lock()
	e.waiters[correlationKey] = ch
	e.mu.Unlock()
	return ch
}

func (e *InProcEngine) Publish(_ context.Context, sig model.ProcessSignal) error {
	e.mu.Lock()
	ch, ok := e.waiters[sig.CorrelationKey]
	if ok {
		delete(e.waiters, sig.CorrelationKey)
	}
	e.mu.Unlock()

	if !ok {
		return ErrNoWaitingInstance
	}
	ch <- sig
	close(ch)
	return nil
}

// Started returns a copy of the recorded process starts.
func (e *InProcEngine) Started() []StartedProcess {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]StartedProcess, len(e.started))
	copy(out, e.started)
	return out
}
