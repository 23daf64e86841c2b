package process

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/paycrux/switch-connector/internal/model"
)

func TestInProcEngineStartAndSignal(t *testing.T) {
	e := NewInProcEngine()
	ctx := context.Background()

	vars := map[string]any{model.VarTransactionID: "tx-1"}
	if err := e.StartLookup(ctx, "party-lookup-tn01", vars); err != nil {
		t.Fatalf("start: %v", err)
	}

	starts := e.Started()
	if len(starts) != 1 || starts[0].FlowID != "party-lookup-tn01" {
		t.Fatalf("started = %+v", starts)
	}

	ch := e.Await("tx-1")
	sig := model.ProcessSignal{
		MessageName:    model.MsgPayeeLookupAnswered,
		CorrelationKey: "tx-1",
		Variables:      map[string]any{model.VarPayeeFspID: "FSPB"},
		TTL:            30 * time.Second,
	}
	if err := e.Publish(ctx, sig); err != nil {
		t.Fatalf("publish: %v", err)
	}

	got := <-ch
	if got.Variables[model.VarPayeeFspID] != "FSPB" {
		t.Fatalf("signal = %+v", got)
	}
}

func TestInProcEnginePublishWithoutWaiter(t *testing.T) {
	e := NewInProcEngine()

	err := e.Publish(context.Background(), model.ProcessSignal{CorrelationKey: "tx-gone"})
	if !errors.Is(err, ErrNoWaitingInstance) {
		t.Fatalf("expected ErrNoWaitingInstance, got %v", err)
	}
}

func TestInProcEngineWaiterConsumedOnce(t *testing.T) {
	e := NewInProcEngine()
	ctx := context.Background()

	ch := e.Await("tx-2")
	if err := e.Publish(ctx, model.ProcessSignal{CorrelationKey: "tx-2"}); err != nil {
		t.Fatalf("first publish: %v", err)
	}
	<-ch

	err := e.Publish(ctx, model.ProcessSignal{CorrelationKey: "tx-2"})
	if !errors.Is(err, ErrNoWaitingInstance) {
		t.Fatalf("second publish must miss, got %v", err)
	}
}
