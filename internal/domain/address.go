package domain

import "encoding/json"

// CountryCode is an ISO 3166-1 alpha-2 country code accepted by the carrier.
type CountryCode string

const (
	CountryUS CountryCode = "US"
	CountryCA CountryCode = "CA"
	CountryPR CountryCode = "PR"
)

// Form keys submitted by the address form.
const (
	FieldCompany      = "company"
	FieldAddress1     = "address1"
	FieldAddress2     = "address2"
	FieldCity         = "city"
	FieldState        = "state"
	FieldZip          = "zip"
	FieldCountry      = "Country"
	FieldUrbanization = "urbanization"
)

// RawAddressInput holds sanitized form values before they are shaped for the carrier.
type RawAddressInput struct {
	Company         string `validate:"max=35"`
	AddressLine1    string `validate:"required,max=100"`
	AddressLine2    string `validate:"max=100"`
	City            string `validate:"required,max=40"`
	StateOrProvince string `validate:"required,max=35"`
	PostalCode      string `validate:"required,max=16"`
	CountryCode     string `validate:"required,country"`
	Urbanization    string `validate:"max=35"`
}

// AddressRequest is the carrier-shaped request derived from RawAddressInput.
// AddressLines always has two slots; the second may be empty.
type AddressRequest struct {
	ConsigneeName      string
	AddressLines       [2]string
	Locality           string
	Region             string
	PostalCodePrimary  string
	PostalCodeExtended *string
	CountryCode        CountryCode
	Urbanization       string
	RegionalOnly       bool
}

// Classification is the carrier's address classification (commercial, residential, unknown).
type Classification struct {
	Code        string `json:"Code,omitempty"`
	Description string `json:"Description,omitempty"`
}

// AddressKeyFormat mirrors the carrier's AddressKeyFormat element.
type AddressKeyFormat struct {
	ConsigneeName       string   `json:"ConsigneeName,omitempty"`
	AddressLine         []string `json:"AddressLine,omitempty"`
	Region              string   `json:"Region,omitempty"`
	PoliticalDivision2  string   `json:"PoliticalDivision2,omitempty"`
	PoliticalDivision1  string   `json:"PoliticalDivision1,omitempty"`
	PostcodePrimaryLow  string   `json:"PostcodePrimaryLow,omitempty"`
	PostcodeExtendedLow string   `json:"PostcodeExtendedLow,omitempty"`
	Urbanization        string   `json:"Urbanization,omitempty"`
	CountryCode         string   `json:"CountryCode,omitempty"`
	// Extra holds carrier elements not modelled above, keyed by element name.
	Extra map[string]any `json:"-"`
}

// Candidate is one address the carrier returned.
type Candidate struct {
	Classification   *Classification  `json:"AddressClassification,omitempty"`
	AddressKeyFormat AddressKeyFormat `json:"AddressKeyFormat"`
	Extra            map[string]any   `json:"-"`
}

// NormalizedAddress is the carrier's response substructure, passed through as-is.
type NormalizedAddress struct {
	ValidAddressIndicator struct{}        `json:"ValidAddressIndicator"`
	Classification        *Classification `json:"AddressClassification,omitempty"`
	Candidates            []Candidate     `json:"Candidate,omitempty"`
	// Extra carries the rest of the carrier response (Response block and any
	// unmodelled elements) so the client sees it verbatim.
	Extra map[string]any `json:"-"`
}

func (a NormalizedAddress) MarshalJSON() ([]byte, error) {
	type plain NormalizedAddress
	return marshalWithExtra(plain(a), a.Extra)
}

func (c Candidate) MarshalJSON() ([]byte, error) {
	type plain Candidate
	return marshalWithExtra(plain(c), c.Extra)
}

func (k AddressKeyFormat) MarshalJSON() ([]byte, error) {
	type plain AddressKeyFormat
	return marshalWithExtra(plain(k), k.Extra)
}

// marshalWithExtra encodes v and adds extra keys that v does not already set.
func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil || len(extra) == 0 {
		return b, err
	}
	fields := make(map[string]json.RawMessage, len(extra)+8)
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k, ev := range extra {
		if _, ok := fields[k]; ok {
			continue
		}
		raw, err := json.Marshal(ev)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}
	return json.Marshal(fields)
}
