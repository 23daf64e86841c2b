package model

import (
	"errors"
	"strings"
)

// ErrUnsupportedIdentifier is returned when a party identifier type is not
// one of the interoperability identifier kinds.
var ErrUnsupportedIdentifier = errors.New("unsupported party identifier type")

// IdentifierType is the interoperability party identifier kind carried in
// the /parties/{idType}/{id} path.
type IdentifierType string

const (
	IDTypeMSISDN     IdentifierType = "MSISDN"
	IDTypeEmail      IdentifierType = "EMAIL"
	IDTypePersonalID IdentifierType = "PERSONAL_ID"
	IDTypeBusiness   IdentifierType = "BUSINESS"
	IDTypeDevice     IdentifierType = "DEVICE"
	IDTypeAccountID  IdentifierType = "ACCOUNT_ID"
	IDTypeIBAN       IdentifierType = "IBAN"
	IDTypeAlias      IdentifierType = "ALIAS"
)

func (t IdentifierType) String() string { return string(t) }

func (t IdentifierType) Valid() bool {
	switch t {
	case IDTypeMSISDN, IDTypeEmail, IDTypePersonalID, IDTypeBusiness,
		IDTypeDevice, IDTypeAccountID, IDTypeIBAN, IDTypeAlias:
		return true
	default:
		return false
	}
}

// ParseIdentifierType normalizes input to the enum form.
// Returns (value, true) if valid; otherwise (MSISDN, false).
func ParseIdentifierType(s string) (IdentifierType, bool) {
	t := IdentifierType(strings.ToUpper(strings.TrimSpace(s)))
	if t.Valid() {
		return t, true
	}
	return IDTypeMSISDN, false
}
