package model

import (
	"encoding/json"
	"time"
)

// LookupRequest is the connector-internal view of an inbound party lookup.
type LookupRequest struct {
	PartyIDType     IdentifierType
	PartyIdentifier string
	TenantID        string
	Source          string // FSPIOP source of the original request
	Destination     string // FSPIOP destination, optional
	Date            string
	TraceParent     string
}

// LookupOutcome is the terminal result of one party lookup. Exactly one of
// PayeeFspID / ErrorInformation is set; Failed marks the error variant.
type LookupOutcome struct {
	PayeeFspID       string
	ErrorInformation json.RawMessage
	Failed           bool
}

func SuccessOutcome(fspID string) LookupOutcome {
	return LookupOutcome{PayeeFspID: fspID}
}

func FailureOutcome(errInfo []byte) LookupOutcome {
	return LookupOutcome{ErrorInformation: errInfo, Failed: true}
}

type LookupStatus string

const (
	LookupPending  LookupStatus = "pending"
	LookupResolved LookupStatus = "resolved"
	LookupFailed   LookupStatus = "failed"
)

func (s LookupStatus) String() string { return string(s) }

func (s LookupStatus) Valid() bool {
	return s == LookupPending || s == LookupResolved || s == LookupFailed
}

// Lookup is the journal row persisted per in-flight party lookup.
type Lookup struct {
	TransactionID   string         `db:"transaction_id"`
	TenantID        string         `db:"tenant_id"`
	PartyIDType     IdentifierType `db:"party_id_type"`
	PartyIdentifier string         `db:"party_identifier"`
	Status          LookupStatus   `db:"status"`
	PayeeFspID      string         `db:"payee_fsp_id"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}
