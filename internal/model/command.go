package model

import "encoding/json"

// CommandType selects the outbound leg a LookupCommand drives.
type CommandType string

const (
	CommandLookup      CommandType = "lookup"       // payer side: GET parties at the switch
	CommandAnswer      CommandType = "answer"       // payee side: PUT the resolved party
	CommandAnswerError CommandType = "answer-error" // payee side: PUT the error payload
)

func (t CommandType) Valid() bool {
	return t == CommandLookup || t == CommandAnswer || t == CommandAnswerError
}

// LookupCommand is the envelope the workflow engine publishes when a
// suspended process step needs the connector to talk to the switch.
type LookupCommand struct {
	Type            CommandType     `json:"type"`
	TransactionID   string          `json:"transactionId"`
	TenantID        string          `json:"tenantId"`
	PartyIDType     IdentifierType  `json:"partyIdType"`
	PartyIdentifier string          `json:"partyId"`
	Destination     string          `json:"fspiopDestination,omitempty"`
	Date            string          `json:"date,omitempty"`
	TraceParent     string          `json:"traceparent,omitempty"`
	FspID           string          `json:"fspId,omitempty"`
	ErrorInfo       json.RawMessage `json:"errorInformation,omitempty"`
}
