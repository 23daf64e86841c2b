package perf

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/paycrux/switch-connector/internal/headers"
	"github.com/paycrux/switch-connector/internal/model"
)

type answerRecorder struct {
	mu      sync.Mutex
	answers []model.PartiesAnswer
	ctxs    []headers.AnswerContext
}

func (r *answerRecorder) SendLookupAnswer(_ context.Context, answer model.PartiesAnswer, hctx headers.AnswerContext) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.answers = append(r.answers, answer)
	r.ctxs = append(r.ctxs, hctx)
	return nil
}

func (r *answerRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.answers)
}

func TestSimulateZeroDelayIsDeterministic(t *testing.T) {
	rec := &answerRecorder{}
	sim := NewSimulator(rec, 0, nil)

	req := model.LookupRequest{
		PartyIDType:     model.IDTypeMSISDN,
		PartyIdentifier: "27821234567",
		TenantID:        "tn01",
		Source:          "FSPA",
	}
	out := sim.Simulate(req, "FSPLOCAL")

	if out.Failed || out.PayeeFspID != "FSPLOCAL" {
		t.Fatalf("expected configured provider in outcome, got %+v", out)
	}
	// delay 0 delivers synchronously through the answer-sender interface,
	// never over the network
	if rec.count() != 1 {
		t.Fatalf("expected exactly one fabricated answer, got %d", rec.count())
	}

	answer := rec.answers[0]
	info := answer.Party.PartyIDInfo
	if info.FspID != "FSPLOCAL" || info.PartyIDType != model.IDTypeMSISDN || info.PartyIdentifier != "27821234567" {
		t.Fatalf("unexpected fabricated answer: %+v", info)
	}
	if rec.ctxs[0].Source != "FSPLOCAL" || rec.ctxs[0].Destination != "FSPA" {
		t.Fatalf("unexpected answer identities: %+v", rec.ctxs[0])
	}
}

func TestSimulateDelaysDelivery(t *testing.T) {
	rec := &answerRecorder{}
	sim := NewSimulator(rec, 20*time.Millisecond, nil)

	req := model.LookupRequest{PartyIDType: model.IDTypeMSISDN, PartyIdentifier: "27821234567"}
	out := sim.Simulate(req, "FSPLOCAL")

	if out.PayeeFspID != "FSPLOCAL" {
		t.Fatalf("outcome = %+v", out)
	}
	// the outcome returns immediately; the answer is scheduled
	if rec.count() != 0 {
		t.Fatal("answer delivered before the configured delay")
	}

	deadline := time.Now().Add(2 * time.Second)
	for rec.count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("delayed answer never delivered")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
