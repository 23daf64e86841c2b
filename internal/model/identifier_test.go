package model

import "testing"

func TestParseIdentifierType(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  IdentifierType
		ok    bool
	}{
		{
			name:  "accepts MSISDN",
			input: "MSISDN",
			want:  IDTypeMSISDN,
			ok:    true,
		},
		{
			name:  "normalizes casing and spacing",
			input: "  account_id ",
			want:  IDTypeAccountID,
			ok:    true,
		},
		{
			name:  "accepts IBAN",
			input: "IBAN",
			want:  IDTypeIBAN,
			ok:    true,
		},
		{
			name:  "rejects empty",
			input: "",
			ok:    false,
		},
		{
			name:  "rejects unknown kind",
			input: "PASSPORT",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseIdentifierType(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseIdentifierType(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Fatalf("ParseIdentifierType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestLookupOutcomeVariants(t *testing.T) {
	s := SuccessOutcome("FSPB")
	if s.Failed || s.PayeeFspID != "FSPB" || s.ErrorInformation != nil {
		t.Fatalf("unexpected success outcome: %+v", s)
	}

	f := FailureOutcome([]byte(`{"errorCode":"3204"}`))
	if !f.Failed || f.PayeeFspID != "" || string(f.ErrorInformation) != `{"errorCode":"3204"}` {
		t.Fatalf("unexpected failure outcome: %+v", f)
	}
}
