// Package headers translates between the connector's internal request and
// response representation and the FSPIOP header set the switch expects.
package headers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/paycrux/switch-connector/internal/model"
)

const (
	FspiopSource      = "FSPIOP-Source"
	FspiopDestination = "FSPIOP-Destination"
	TraceParent       = "Traceparent"
	Date              = "Date"

	// PartiesContentType is the interoperability content type for the
	// party-lookup resource.
	PartiesContentType = "application/vnd.interoperability.parties+json;version=1.0"
)

// LookupRequest builds the header set for an outbound GET /parties call.
// The source identity is the local FSP acting for the resolved tenant; the
// traceparent of the original request is propagated unchanged.
func LookupRequest(req model.LookupRequest) (http.Header, error) {
	if !req.PartyIDType.Valid() {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedIdentifier, req.PartyIDType)
	}

	h := http.Header{}
	h.Set(FspiopSource, req.Source)
	if req.Destination != "" {
		h.Set(FspiopDestination, req.Destination)
	}
	h.Set(Date, dateOrNow(req.Date))
	if req.TraceParent != "" {
		h.Set(TraceParent, req.TraceParent)
	}
	h.Set("Content-Type", PartiesContentType)
	h.Set("Accept", PartiesContentType)

	return h, nil
}

// AnswerContext carries the identities of an answer leg: the local FSP
// answering and the FSP that asked.
type AnswerContext struct {
	Source      string
	Destination string
	Date        string
	TraceParent string
}

// Answer builds the header set for an outbound PUT /parties answer.
func Answer(ctx AnswerContext) http.Header {
	h := http.Header{}
	h.Set(FspiopSource, ctx.Source)
	if ctx.Destination != "" {
		h.Set(FspiopDestination, ctx.Destination)
	}
	h.Set(Date, dateOrNow(ctx.Date))
	if ctx.TraceParent != "" {
		h.Set(TraceParent, ctx.TraceParent)
	}
	h.Set("Content-Type", PartiesContentType)

	return h
}

// AnswerPath derives the callback path segments for an outcome. The error
// variant carries no success-only segments beyond the /error suffix.
func AnswerPath(idType model.IdentifierType, partyID string, failed bool) (string, error) {
	if !idType.Valid() {
		return "", fmt.Errorf("%w: %q", model.ErrUnsupportedIdentifier, idType)
	}

	p := "/parties/" + idType.String() + "/" + partyID
	if failed {
		p += "/error"
	}
	return p, nil
}

func dateOrNow(d string) string {
	if d != "" {
		return d
	}
	return time.Now().UTC().Format(http.TimeFormat)
}
