package worker

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/paycrux/switch-connector/internal/config"
	"github.com/paycrux/switch-connector/internal/correlation"
	"github.com/paycrux/switch-connector/internal/dispatcher"
	"github.com/paycrux/switch-connector/internal/headers"
	"github.com/paycrux/switch-connector/internal/kafka"
	"github.com/paycrux/switch-connector/internal/metrics"
	"github.com/paycrux/switch-connector/internal/model"
	"github.com/paycrux/switch-connector/internal/resumer"
	"github.com/paycrux/switch-connector/internal/util"
)

// transportErrorInfo is the synthesized error payload a waiting process
// receives when the outbound leg could not be sent at all.
var transportErrorInfo = []byte(`{"errorInformation":{"errorCode":"2003","errorDescription":"party lookup request could not be delivered"}}`)

// LookupWorker consumes the workflow engine's outbound-leg commands:
// - lookup: register the pending correlation, GET parties at the switch,
// - answer / answer-error: PUT this side's answer to a peer's lookup.
// A transport failure on the lookup leg is treated as an error callback so
// the waiting process is resumed instead of left hanging.
type LookupWorker struct {
	// Dependencies
	Cfg      config.Config
	Consumer *kafka.Consumer
	Switch   *dispatcher.SwitchClient
	Store    correlation.Store
	Resumer  *resumer.Resumer

	// Behavior
	Workers int // number of goroutines processing commands
}

func NewLookupWorker(
	cfg config.Config,
	consumer *kafka.Consumer,
	sw *dispatcher.SwitchClient,
	store correlation.Store,
	res *resumer.Resumer,
) *LookupWorker {
	return &LookupWorker{
		Cfg:      cfg,
		Consumer: consumer,
		Switch:   sw,
		Store:    store,
		Resumer:  res,
		Workers:  32,
	}
}

// Run starts the worker and blocks until ctx is cancelled.
func (w *LookupWorker) Run(ctx context.Context) error {
	if w.Workers <= 0 {
		w.Workers = 32
	}

	msgCh := make(chan kafka.Message, w.Workers*2)

	// Fetcher goroutine
	go func() {
		defer close(msgCh)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				m, err := w.Consumer.Fetch(ctx)
				if err != nil {
					if ctx.Err() != nil {
						return
					}
					log.Printf("[lookup] kafka fetch err: %v", err)
					time.Sleep(200 * time.Millisecond)
					continue
				}
				msgCh <- m
			}
		}
	}()

	// Start processors
	for i := 0; i < w.Workers; i++ {
		go w.runProcessor(ctx, msgCh)
	}

	// Block until shutdown
	<-ctx.Done()
	return nil
}

func (w *LookupWorker) runProcessor(ctx context.Context, in <-chan kafka.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			w.processOne(ctx, m)
		}
	}
}

func (w *LookupWorker) processOne(ctx context.Context, m kafka.Message) {
	var cmd model.LookupCommand
	if err := json.Unmarshal(m.Value, &cmd); err != nil || !cmd.Type.Valid() {
		_ = w.Consumer.Commit(ctx, m) // poison → commit, skip
		if err != nil {
			log.Printf("[lookup] bad command json: %v", err)
		} else {
			log.Printf("[lookup] invalid command type %q", cmd.Type)
		}
		return
	}

	switch cmd.Type {
	case model.CommandLookup:
		w.handleLookup(ctx, cmd)
	case model.CommandAnswer:
		w.handleAnswer(ctx, cmd)
	case model.CommandAnswerError:
		w.handleAnswerError(ctx, cmd)
	}

	// Always commit (at-most-once resumption is guarded by the store, not the log)
	if err := w.Consumer.Commit(ctx, m); err != nil {
		log.Printf("[lookup] commit err: %v", err)
	}
}

// commandPartyID normalizes the command's party identifier the same way the
// callback receiver normalizes its path segment, so the key stored here is
// the key the callback derives.
func commandPartyID(cmd model.LookupCommand) string {
	if cmd.PartyIDType == model.IDTypeMSISDN {
		return util.NormalizeMsisdn(cmd.PartyIdentifier)
	}
	return cmd.PartyIdentifier
}

func (w *LookupWorker) handleLookup(ctx context.Context, cmd model.LookupCommand) {
	tenant, err := w.Cfg.TenantByID(cmd.TenantID)
	if err != nil {
		log.Printf("[lookup] tx=%s: %v", cmd.TransactionID, err)
		return
	}

	req := model.LookupRequest{
		PartyIDType:     cmd.PartyIDType,
		PartyIdentifier: commandPartyID(cmd),
		TenantID:        tenant.TenantID,
		Source:          tenant.FspID,
		Destination:     cmd.Destination,
		Date:            cmd.Date,
		TraceParent:     util.EnsureTraceParent(cmd.TraceParent),
	}

	// Register the pending correlation before the request leaves, so the
	// callback cannot outrun it.
	key := correlation.Key(req.PartyIDType, req.PartyIdentifier)
	if err := w.Store.Put(ctx, key, correlation.Entry{
		TransactionID: cmd.TransactionID,
		TenantID:      tenant.TenantID,
		CreatedAt:     time.Now(),
	}); err != nil {
		log.Printf("[lookup] store put tx=%s: %v", cmd.TransactionID, err)
		return
	}

	if err := w.Switch.SendLookupRequest(ctx, req); err != nil {
		log.Printf("[lookup] send tx=%s: %v", cmd.TransactionID, err)
		// transport failure == error callback for correlation purposes
		_ = w.Resumer.Resume(ctx, key, model.FailureOutcome(transportErrorInfo))
		return
	}
	metrics.LookupsTotal.WithLabelValues("dispatched").Inc()
}

func (w *LookupWorker) handleAnswer(ctx context.Context, cmd model.LookupCommand) {
	tenant, err := w.Cfg.TenantByID(cmd.TenantID)
	if err != nil {
		log.Printf("[answer] tx=%s: %v", cmd.TransactionID, err)
		return
	}

	fspID := cmd.FspID
	if fspID == "" {
		fspID = tenant.FspID
	}
	answer := model.PartiesAnswer{Party: model.Party{PartyIDInfo: model.PartyIdInfo{
		PartyIDType:     cmd.PartyIDType,
		PartyIdentifier: commandPartyID(cmd),
		FspID:           fspID,
	}}}

	if err := w.Switch.SendLookupAnswer(ctx, answer, w.answerContext(tenant, cmd)); err != nil {
		log.Printf("[answer] send tx=%s: %v", cmd.TransactionID, err)
		return
	}
	metrics.LookupsTotal.WithLabelValues("answer_sent").Inc()
}

func (w *LookupWorker) handleAnswerError(ctx context.Context, cmd model.LookupCommand) {
	tenant, err := w.Cfg.TenantByID(cmd.TenantID)
	if err != nil {
		log.Printf("[answer-error] tx=%s: %v", cmd.TransactionID, err)
		return
	}

	if err := w.Switch.SendLookupError(ctx, cmd.PartyIDType, commandPartyID(cmd), cmd.ErrorInfo, w.answerContext(tenant, cmd)); err != nil {
		log.Printf("[answer-error] send tx=%s: %v", cmd.TransactionID, err)
		return
	}
	metrics.LookupsTotal.WithLabelValues("answer_sent").Inc()
}

func (w *LookupWorker) answerContext(tenant config.TenantConfig, cmd model.LookupCommand) headers.AnswerContext {
	return headers.AnswerContext{
		Source:      tenant.FspID,
		Destination: cmd.Destination,
		Date:        cmd.Date,
		TraceParent: cmd.TraceParent,
	}
}
