// Package resumer matches terminal lookup outcomes to their suspended
// process instance and resumes it exactly once.
package resumer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/paycrux/switch-connector/internal/correlation"
	"github.com/paycrux/switch-connector/internal/metrics"
	"github.com/paycrux/switch-connector/internal/model"
	"github.com/paycrux/switch-connector/internal/process"
	"github.com/paycrux/switch-connector/internal/repository"
	"go.uber.org/zap"
)

type Resumer struct {
	store     correlation.Store
	engine    process.Engine
	journal   repository.LookupsRepository // optional
	signalTTL time.Duration
	log       *zap.Logger
}

func New(store correlation.Store, engine process.Engine, journal repository.LookupsRepository, signalTTL time.Duration, log *zap.Logger) *Resumer {
	if signalTTL <= 0 {
		signalTTL = 30 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resumer{store: store, engine: engine, journal: journal, signalTTL: signalTTL, log: log}
}

// Resume consumes the correlation entry for key and signals the waiting
// process with the normalized outcome variables. The entry is checked
// before any side effect: duplicates and dangling callbacks are reported
// and produce no resumption. Signal delivery is best-effort; a miss is
// dropped, the engine's own timeout handling reacts to silence.
func (r *Resumer) Resume(ctx context.Context, key string, out model.LookupOutcome) error {
	entry, err := r.store.Take(ctx, key)
	if err != nil {
		switch {
		case errors.Is(err, correlation.ErrAlreadyConsumed):
			metrics.CallbacksTotal.WithLabelValues("duplicate").Inc()
			r.log.Warn("duplicate callback ignored", zap.String("key", key))
		case errors.Is(err, correlation.ErrNotFound):
			metrics.CallbacksTotal.WithLabelValues("dangling").Inc()
			r.log.Warn("dangling callback ignored", zap.String("key", key))
		default:
			return fmt.Errorf("take correlation entry: %w", err)
		}
		return err
	}

	if out.Failed {
		metrics.CallbacksTotal.WithLabelValues("error").Inc()
	} else {
		metrics.CallbacksTotal.WithLabelValues("success").Inc()
	}

	sig := model.ProcessSignal{
		MessageName:    model.MsgPayeeLookupAnswered,
		CorrelationKey: entry.TransactionID,
		Variables:      Variables(out),
		TTL:            r.signalTTL,
	}
	if err := r.engine.Publish(ctx, sig); err != nil {
		// at-most-once, best-effort: dropped by design
		metrics.SignalsTotal.WithLabelValues("missed").Inc()
		r.log.Warn("signal delivery miss",
			zap.String("correlationKey", entry.TransactionID), zap.Error(err))
	} else {
		metrics.SignalsTotal.WithLabelValues("published").Inc()
	}

	r.updateJournal(ctx, entry.TransactionID, out)
	return nil
}

// Variables maps an outcome to the process variables the waiting step reads.
func Variables(out model.LookupOutcome) map[string]any {
	if out.Failed {
		return map[string]any{
			model.VarErrorInformation: string(out.ErrorInformation),
			model.VarLookupFailed:     true,
		}
	}
	return map[string]any{model.VarPayeeFspID: out.PayeeFspID}
}

func (r *Resumer) updateJournal(ctx context.Context, transactionID string, out model.LookupOutcome) {
	if r.journal == nil {
		return
	}

	var err error
	if out.Failed {
		err = r.journal.MarkFailed(ctx, nil, transactionID)
	} else {
		err = r.journal.MarkResolved(ctx, nil, transactionID, out.PayeeFspID)
	}
	if err != nil {
		r.log.Error("journal update failed",
			zap.String("transactionId", transactionID), zap.Error(err))
	}
}
