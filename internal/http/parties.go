package http

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/paycrux/switch-connector/internal/config"
	"github.com/paycrux/switch-connector/internal/correlation"
	"github.com/paycrux/switch-connector/internal/headers"
	"github.com/paycrux/switch-connector/internal/http/middleware"
	"github.com/paycrux/switch-connector/internal/metrics"
	"github.com/paycrux/switch-connector/internal/model"
	"github.com/paycrux/switch-connector/internal/perf"
	"github.com/paycrux/switch-connector/internal/process"
	"github.com/paycrux/switch-connector/internal/repository"
	"github.com/paycrux/switch-connector/internal/resumer"
	"github.com/paycrux/switch-connector/internal/util"
)

// PartiesDeps wires the party-lookup handlers.
type PartiesDeps struct {
	Cfg     config.Config
	Engine  process.Engine
	Sim     *perf.Simulator // nil unless perf mode
	Resumer *resumer.Resumer
	Journal repository.LookupsRepository // optional
}

// lookupHandler accepts the inbound party lookup. The lookup itself resolves
// asynchronously: the handler only resolves the tenant, triggers either the
// perf simulator or a process start, and acknowledges with 202.
func lookupHandler(deps PartiesDeps) echo.HandlerFunc {
	return func(c echo.Context) error {
		idType, ok := model.ParseIdentifierType(c.Param("idType"))
		if !ok {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "unsupported identifier type"})
		}

		partyID := c.Param("id")
		if idType == model.IDTypeMSISDN {
			partyID = util.NormalizeMsisdn(partyID)
		}
		if partyID == "" {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "bad request"})
		}

		tenant, ok := middleware.TenantFromCtx(c)
		if !ok {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "unknown tenant"})
		}

		h := c.Request().Header
		req := model.LookupRequest{
			PartyIDType:     idType,
			PartyIdentifier: partyID,
			TenantID:        tenant.TenantID,
			Source:          h.Get(headers.FspiopSource),
			Date:            h.Get(headers.Date),
			TraceParent:     h.Get(headers.TraceParent),
		}

		metrics.LookupsTotal.WithLabelValues("received").Inc()

		if deps.Sim != nil {
			metrics.LookupsTotal.WithLabelValues("simulated").Inc()
			go deps.Sim.Simulate(req, tenant.FspID)
		} else {
			startLookupProcess(deps, tenant, req)
		}

		return c.NoContent(http.StatusAccepted)
	}
}

// startLookupProcess starts the long-running lookup flow. Fire-and-forget
// from the HTTP perspective: the inbound response does not wait for it.
func startLookupProcess(deps PartiesDeps, tenant config.TenantConfig, req model.LookupRequest) {
	txID := util.NewTransactionID()
	variables := map[string]any{
		model.VarTransactionID: txID,
		model.VarPartyIDType:   req.PartyIDType.String(),
		model.VarPartyID:       req.PartyIdentifier,
		model.VarTenantID:      tenant.TenantID,
		model.VarDate:          req.Date,
		model.VarTraceParent:   req.TraceParent,
		model.VarFspiopSource:  req.Source,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if deps.Journal != nil {
			err := deps.Journal.InsertPending(ctx, nil, model.Lookup{
				TransactionID:   txID,
				TenantID:        tenant.TenantID,
				PartyIDType:     req.PartyIDType,
				PartyIdentifier: req.PartyIdentifier,
			})
			if err != nil {
				log.Errorf("journal insert failed: %v", err)
			}
		}

		flowID := deps.Cfg.Process.FlowID(tenant.TenantID)
		if err := deps.Engine.StartLookup(ctx, flowID, variables); err != nil {
			log.Errorf("process start failed flow=%s tx=%s: %v", flowID, txID, err)
			return
		}
		metrics.LookupsTotal.WithLabelValues("process_started").Inc()
	}()
}

// callbackHandler receives the switch's asynchronous success answer and
// resumes the matching process. The callback itself is always acknowledged
// with 200; the true outcome travels on the resumer path only.
func callbackHandler(deps PartiesDeps) echo.HandlerFunc {
	return func(c echo.Context) error {
		idType, partyID, ok := callbackKeyParams(c)
		if !ok {
			return c.NoContent(http.StatusOK)
		}

		// decoded by hand: the switch sends the interoperability content
		// type, which echo's binder does not treat as JSON
		var answer model.PartiesAnswer
		if err := json.NewDecoder(c.Request().Body).Decode(&answer); err != nil {
			log.Errorf("parties callback: bad body for %s/%s: %v", idType, partyID, err)
			return c.NoContent(http.StatusOK)
		}

		out := model.SuccessOutcome(answer.Party.PartyIDInfo.FspID)
		key := correlation.Key(idType, partyID)
		_ = deps.Resumer.Resume(c.Request().Context(), key, out)

		return c.NoContent(http.StatusOK)
	}
}

// callbackErrorHandler receives the switch's error answer. The body is
// passed through as an opaque error payload.
func callbackErrorHandler(deps PartiesDeps) echo.HandlerFunc {
	return func(c echo.Context) error {
		idType, partyID, ok := callbackKeyParams(c)
		if !ok {
			return c.NoContent(http.StatusOK)
		}

		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			log.Errorf("parties error callback: read body for %s/%s: %v", idType, partyID, err)
			return c.NoContent(http.StatusOK)
		}

		key := correlation.Key(idType, partyID)
		_ = deps.Resumer.Resume(c.Request().Context(), key, model.FailureOutcome(body))

		return c.NoContent(http.StatusOK)
	}
}

// callbackKeyParams extracts and normalizes the correlation path segments.
// Malformed callbacks are acknowledged anyway; internal detail never leaks
// back to the counterparty.
func callbackKeyParams(c echo.Context) (model.IdentifierType, string, bool) {
	idType, ok := model.ParseIdentifierType(c.Param("idType"))
	if !ok {
		log.Errorf("parties callback: unsupported identifier type %q", c.Param("idType"))
		return "", "", false
	}

	partyID := c.Param("id")
	if idType == model.IDTypeMSISDN {
		partyID = util.NormalizeMsisdn(partyID)
	}
	if partyID == "" {
		log.Errorf("parties callback: empty party identifier")
		return "", "", false
	}

	return idType, partyID, true
}
