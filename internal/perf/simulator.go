// Package perf fabricates delayed lookup answers for load testing the
// synchronous ingest path without a live counterparty.
package perf

import (
	"context"
	"time"

	"github.com/paycrux/switch-connector/internal/headers"
	"github.com/paycrux/switch-connector/internal/model"
	"go.uber.org/zap"
)

// AnswerSender is the outbound-dispatcher-facing interface the simulator
// feeds, so downstream correlation logic is unaware of the substitution.
type AnswerSender interface {
	SendLookupAnswer(ctx context.Context, answer model.PartiesAnswer, hctx headers.AnswerContext) error
}

type Simulator struct {
	sender AnswerSender
	delay  time.Duration
	log    *zap.Logger
}

func NewSimulator(sender AnswerSender, delay time.Duration, log *zap.Logger) *Simulator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Simulator{sender: sender, delay: delay, log: log}
}

// Simulate fabricates a successful outcome for the request using only the
// configured FSP id of the resolved tenant, and schedules its delivery
// through the answer sender after the configured delay. The delay never
// occupies a worker goroutine; with no delay the answer is delivered
// synchronously.
func (s *Simulator) Simulate(req model.LookupRequest, fspID string) model.LookupOutcome {
	answer := model.PartiesAnswer{Party: model.Party{PartyIDInfo: model.PartyIdInfo{
		PartyIDType:     req.PartyIDType,
		PartyIdentifier: req.PartyIdentifier,
		FspID:           fspID,
	}}}
	hctx := headers.AnswerContext{
		Source:      fspID,
		Destination: req.Source,
		Date:        req.Date,
		TraceParent: req.TraceParent,
	}

	deliver := func() {
		if err := s.sender.SendLookupAnswer(context.Background(), answer, hctx); err != nil {
			s.log.Warn("perf: simulated answer delivery failed",
				zap.String("partyId", req.PartyIdentifier), zap.Error(err))
		}
	}

	if s.delay <= 0 {
		deliver()
	} else {
		time.AfterFunc(s.delay, deliver)
	}

	return model.SuccessOutcome(fspID)
}
