package model

// PartyIdInfo identifies a party on the interoperability wire.
type PartyIdInfo struct {
	PartyIDType     IdentifierType `json:"partyIdType"`
	PartyIdentifier string         `json:"partyIdentifier"`
	PartySubIDType  string         `json:"partySubIdOrType,omitempty"`
	FspID           string         `json:"fspId,omitempty"`
}

type Party struct {
	PartyIDInfo PartyIdInfo `json:"partyIdInfo"`
}

// PartiesAnswer is the body of the switch's PUT /parties/{idType}/{id} callback.
type PartiesAnswer struct {
	Party Party `json:"party"`
}
