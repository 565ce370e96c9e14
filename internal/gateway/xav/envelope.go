package xav

import "encoding/xml"

// Namespaces of the carrier's XOLTWS schemas.
const (
	nsSoapEnv  = "http://schemas.xmlsoap.org/soap/envelope/"
	nsSecurity = "http://www.ups.com/XMLSchema/XOLTWS/UPSS/v1.0"
	nsXAV      = "http://www.ups.com/XMLSchema/XOLTWS/xav/v1.0"
	nsCommon   = "http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0"
)

// requestOption is the only value the carrier has been observed to accept.
const requestOption = "1"

type requestEnvelope struct {
	XMLName  xml.Name      `xml:"soapenv:Envelope"`
	SoapEnv  string        `xml:"xmlns:soapenv,attr"`
	Security string        `xml:"xmlns:upss,attr"`
	XAV      string        `xml:"xmlns:xav,attr"`
	Common   string        `xml:"xmlns:common,attr"`
	Header   requestHeader `xml:"soapenv:Header"`
	Body     requestBody   `xml:"soapenv:Body"`
}

type requestHeader struct {
	Security upsSecurity `xml:"upss:UPSSecurity"`
}

type upsSecurity struct {
	UsernameToken      usernameToken      `xml:"upss:UsernameToken"`
	ServiceAccessToken serviceAccessToken `xml:"upss:ServiceAccessToken"`
}

type usernameToken struct {
	Username string `xml:"upss:Username"`
	Password string `xml:"upss:Password"`
}

type serviceAccessToken struct {
	AccessLicenseNumber string `xml:"upss:AccessLicenseNumber"`
}

type requestBody struct {
	XAVRequest xavRequest `xml:"xav:XAVRequest"`
}

type xavRequest struct {
	Request                  commonRequest     `xml:"common:Request"`
	RegionalRequestIndicator *string           `xml:"xav:RegionalRequestIndicator,omitempty"`
	AddressKeyFormat         requestAddressKey `xml:"xav:AddressKeyFormat"`
}

type commonRequest struct {
	RequestOption string `xml:"common:RequestOption"`
}

// requestAddressKey follows the schema's element order.
type requestAddressKey struct {
	ConsigneeName       string   `xml:"xav:ConsigneeName,omitempty"`
	AddressLine         []string `xml:"xav:AddressLine"`
	PoliticalDivision2  string   `xml:"xav:PoliticalDivision2"`
	PoliticalDivision1  string   `xml:"xav:PoliticalDivision1"`
	PostcodePrimaryLow  string   `xml:"xav:PostcodePrimaryLow"`
	PostcodeExtendedLow *string  `xml:"xav:PostcodeExtendedLow,omitempty"`
	Urbanization        string   `xml:"xav:Urbanization,omitempty"`
	CountryCode         string   `xml:"xav:CountryCode"`
}

// Response side matches on local names only; the carrier's prefixes vary.

type responseEnvelope struct {
	Body responseBody `xml:"Body"`
}

type responseBody struct {
	Fault       *soapFault   `xml:"Fault"`
	XAVResponse *xavResponse `xml:"XAVResponse"`
}

type soapFault struct {
	Code   string      `xml:"faultcode"`
	String string      `xml:"faultstring"`
	Detail faultDetail `xml:"detail"`
}

type faultDetail struct {
	Errors struct {
		ErrorDetail []struct {
			Severity         string `xml:"Severity"`
			PrimaryErrorCode struct {
				Code        string `xml:"Code"`
				Description string `xml:"Description"`
			} `xml:"PrimaryErrorCode"`
		} `xml:"ErrorDetail"`
	} `xml:"Errors"`
}

type xavResponse struct {
	Response                  node            `xml:"Response"`
	ValidAddressIndicator     *struct{}       `xml:"ValidAddressIndicator"`
	AmbiguousAddressIndicator *struct{}       `xml:"AmbiguousAddressIndicator"`
	NoCandidatesIndicator     *struct{}       `xml:"NoCandidatesIndicator"`
	AddressClassification     *classification `xml:"AddressClassification"`
	Candidate                 []candidate     `xml:"Candidate"`
	Other                     []node          `xml:",any"`
}

type classification struct {
	Code        string `xml:"Code"`
	Description string `xml:"Description"`
}

type candidate struct {
	AddressClassification *classification    `xml:"AddressClassification"`
	AddressKeyFormat      responseAddressKey `xml:"AddressKeyFormat"`
	Other                 []node             `xml:",any"`
}

type responseAddressKey struct {
	ConsigneeName       string   `xml:"ConsigneeName"`
	AddressLine         []string `xml:"AddressLine"`
	Region              string   `xml:"Region"`
	PoliticalDivision2  string   `xml:"PoliticalDivision2"`
	PoliticalDivision1  string   `xml:"PoliticalDivision1"`
	PostcodePrimaryLow  string   `xml:"PostcodePrimaryLow"`
	PostcodeExtendedLow string   `xml:"PostcodeExtendedLow"`
	Urbanization        string   `xml:"Urbanization"`
	CountryCode         string   `xml:"CountryCode"`
	Other               []node   `xml:",any"`
}
