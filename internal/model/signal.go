package model

import "time"

// MsgPayeeLookupAnswered is the message name a suspended lookup process
// subscribes to for its answer.
const MsgPayeeLookupAnswered = "payee-user-lookup"

// Process variable keys shared with the workflow engine.
const (
	VarTransactionID    = "transactionId"
	VarPartyIDType      = "partyIdType"
	VarPartyID          = "partyId"
	VarTenantID         = "tenantId"
	VarPayeeFspID       = "payeeFspId"
	VarErrorInformation = "errorInformation"
	VarLookupFailed     = "partyLookupFailed"
	VarDate             = "Date"
	VarTraceParent      = "traceparent"
	VarFspiopSource     = "fspiop-source"
)

// ProcessSignal resumes the suspended process matched by CorrelationKey.
// TTL bounds how long the engine keeps the message buffered when no
// instance has reached the waiting point yet.
type ProcessSignal struct {
	MessageName    string
	CorrelationKey string
	Variables      map[string]any
	TTL            time.Duration
}
