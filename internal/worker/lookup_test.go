package worker

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/paycrux/switch-connector/internal/config"
	"github.com/paycrux/switch-connector/internal/correlation"
	"github.com/paycrux/switch-connector/internal/dispatcher"
	"github.com/paycrux/switch-connector/internal/model"
	"github.com/paycrux/switch-connector/internal/process"
	"github.com/paycrux/switch-connector/internal/resumer"
)

type capturedCall struct {
	method string
	path   string
	body   []byte
}

func newSwitchStub(t *testing.T, status int) (*httptest.Server, *capturedCall) {
	t.Helper()
	got := &capturedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.method = r.Method
		got.path = r.URL.Path
		got.body, _ = io.ReadAll(r.Body)
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)
	return srv, got
}

func newWorkerFixture(t *testing.T, switchURL string) (*LookupWorker, *correlation.MemoryStore, *process.InProcEngine) {
	t.Helper()
	cfg := config.Config{
		Process: config.ProcessConfig{SignalTTL: 30 * time.Second},
		Tenants: []config.TenantConfig{
			{Domain: "tenanta.example.com", TenantID: "tn-a", FspID: "FSPLOCAL"},
		},
	}
	store := correlation.NewMemoryStore(30 * time.Second)
	engine := process.NewInProcEngine()
	res := resumer.New(store, engine, nil, cfg.Process.SignalTTL, nil)
	sw := dispatcher.NewSwitchClient(switchURL, 100)

	return &LookupWorker{Cfg: cfg, Switch: sw, Store: store, Resumer: res}, store, engine
}

func TestHandleLookupNormalizesIdentifier(t *testing.T) {
	srv, got := newSwitchStub(t, http.StatusAccepted)
	w, store, _ := newWorkerFixture(t, srv.URL)
	ctx := context.Background()

	w.handleLookup(ctx, model.LookupCommand{
		Type:            model.CommandLookup,
		TransactionID:   "tx-1",
		TenantID:        "tn-a",
		PartyIDType:     model.IDTypeMSISDN,
		PartyIdentifier: "+27 82 123 4567",
	})

	// the outbound path and the stored key both carry the normalized form,
	// so the callback derives the same key from its own path segment
	if got.path != "/parties/MSISDN/27821234567" {
		t.Fatalf("outbound path = %q", got.path)
	}

	entry, err := store.Take(ctx, correlation.Key(model.IDTypeMSISDN, "27821234567"))
	if err != nil {
		t.Fatalf("callback-derived key misses the stored entry: %v", err)
	}
	if entry.TransactionID != "tx-1" || entry.TenantID != "tn-a" {
		t.Fatalf("entry = %+v", entry)
	}
}

func TestHandleLookupTransportFailureResumesProcess(t *testing.T) {
	srv, _ := newSwitchStub(t, http.StatusOK)
	srv.Close()
	w, _, engine := newWorkerFixture(t, srv.URL)

	ch := engine.Await("tx-2")
	w.handleLookup(context.Background(), model.LookupCommand{
		Type:            model.CommandLookup,
		TransactionID:   "tx-2",
		TenantID:        "tn-a",
		PartyIDType:     model.IDTypeMSISDN,
		PartyIdentifier: "27821234567",
	})

	sig := <-ch
	if sig.Variables[model.VarLookupFailed] != true {
		t.Fatalf("partyLookupFailed = %v", sig.Variables[model.VarLookupFailed])
	}

	raw, _ := sig.Variables[model.VarErrorInformation].(string)
	var payload struct {
		ErrorInformation struct {
			ErrorCode string `json:"errorCode"`
		} `json:"errorInformation"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		t.Fatalf("decode errorInformation %q: %v", raw, err)
	}
	if payload.ErrorInformation.ErrorCode != "2003" {
		t.Fatalf("errorCode = %q", payload.ErrorInformation.ErrorCode)
	}
}

func TestHandleLookupUnknownTenant(t *testing.T) {
	srv, got := newSwitchStub(t, http.StatusAccepted)
	w, store, _ := newWorkerFixture(t, srv.URL)

	w.handleLookup(context.Background(), model.LookupCommand{
		Type:            model.CommandLookup,
		TransactionID:   "tx-3",
		TenantID:        "tn-z",
		PartyIDType:     model.IDTypeMSISDN,
		PartyIdentifier: "27821234567",
	})

	if got.method != "" {
		t.Fatal("unknown tenant must not reach the switch")
	}
	if _, err := store.Take(context.Background(), correlation.Key(model.IDTypeMSISDN, "27821234567")); err == nil {
		t.Fatal("unknown tenant must not register a correlation entry")
	}
}

func TestHandleAnswerLeg(t *testing.T) {
	srv, got := newSwitchStub(t, http.StatusOK)
	w, _, _ := newWorkerFixture(t, srv.URL)

	w.handleAnswer(context.Background(), model.LookupCommand{
		Type:            model.CommandAnswer,
		TransactionID:   "tx-4",
		TenantID:        "tn-a",
		PartyIDType:     model.IDTypeMSISDN,
		PartyIdentifier: "+27821234567",
		Destination:     "FSPA",
	})

	if got.method != http.MethodPut || got.path != "/parties/MSISDN/27821234567" {
		t.Fatalf("%s %s", got.method, got.path)
	}

	var answer model.PartiesAnswer
	if err := json.Unmarshal(got.body, &answer); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	// no explicit FspID on the command: the tenant's identity answers
	if answer.Party.PartyIDInfo.FspID != "FSPLOCAL" {
		t.Fatalf("fspId = %q", answer.Party.PartyIDInfo.FspID)
	}
	if answer.Party.PartyIDInfo.PartyIdentifier != "27821234567" {
		t.Fatalf("partyIdentifier = %q", answer.Party.PartyIDInfo.PartyIdentifier)
	}
}

func TestHandleAnswerErrorLeg(t *testing.T) {
	srv, got := newSwitchStub(t, http.StatusOK)
	w, _, _ := newWorkerFixture(t, srv.URL)

	payload := []byte(`{"errorInformation":{"errorCode":"3204","errorDescription":"Party not found"}}`)
	w.handleAnswerError(context.Background(), model.LookupCommand{
		Type:            model.CommandAnswerError,
		TransactionID:   "tx-5",
		TenantID:        "tn-a",
		PartyIDType:     model.IDTypeMSISDN,
		PartyIdentifier: "+27821234567",
		ErrorInfo:       payload,
	})

	if got.path != "/parties/MSISDN/27821234567/error" {
		t.Fatalf("path = %q", got.path)
	}
	if string(got.body) != string(payload) {
		t.Fatalf("error payload altered: %s", got.body)
	}
}
