package xav_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"xav-address-service/internal/domain"
	xavgw "xav-address-service/internal/gateway/xav"

	"github.com/stretchr/testify/require"
)

const validResponse = `<?xml version="1.0" encoding="UTF-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <xav:XAVResponse xmlns:xav="http://www.ups.com/XMLSchema/XOLTWS/xav/v1.0" xmlns:common="http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0">
      <common:Response>
        <common:ResponseStatus><common:Code>1</common:Code><common:Description>Success</common:Description></common:ResponseStatus>
      </common:Response>
      <xav:ValidAddressIndicator/>
      <xav:AddressClassification><xav:Code>1</xav:Code><xav:Description>Commercial</xav:Description></xav:AddressClassification>
      <xav:Candidate>
        <xav:AddressClassification><xav:Code>1</xav:Code><xav:Description>Commercial</xav:Description></xav:AddressClassification>
        <xav:AddressKeyFormat>
          <xav:AddressLine>517 S FOURTH BLVD</xav:AddressLine>
          <xav:PoliticalDivision2>LOUISVILLE</xav:PoliticalDivision2>
          <xav:PoliticalDivision1>CO</xav:PoliticalDivision1>
          <xav:PostcodePrimaryLow>55502</xav:PostcodePrimaryLow>
          <xav:PostcodeExtendedLow>1234</xav:PostcodeExtendedLow>
          <xav:Region>LOUISVILLE CO 55502-1234</xav:Region>
          <xav:CountryCode>US</xav:CountryCode>
        </xav:AddressKeyFormat>
      </xav:Candidate>
    </xav:XAVResponse>
  </soapenv:Body>
</soapenv:Envelope>`

const ambiguousResponse = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <xav:XAVResponse xmlns:xav="http://www.ups.com/XMLSchema/XOLTWS/xav/v1.0">
      <Response><ResponseStatus><Code>1</Code><Description>Success</Description></ResponseStatus></Response>
      <xav:AmbiguousAddressIndicator/>
      <xav:Candidate><xav:AddressKeyFormat><xav:AddressLine>1 MAIN ST</xav:AddressLine></xav:AddressKeyFormat></xav:Candidate>
    </xav:XAVResponse>
  </soapenv:Body>
</soapenv:Envelope>`

const faultResponse = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <soapenv:Fault>
      <faultcode>Client</faultcode>
      <faultstring>An exception has been raised as a result of client data.</faultstring>
      <detail>
        <err:Errors xmlns:err="http://www.ups.com/XMLSchema/XOLTWS/Error/v1.1">
          <err:ErrorDetail>
            <err:Severity>Authentication</err:Severity>
            <err:PrimaryErrorCode><err:Code>250003</err:Code><err:Description>Invalid Access License number</err:Description></err:PrimaryErrorCode>
          </err:ErrorDetail>
        </err:Errors>
      </detail>
    </soapenv:Fault>
  </soapenv:Body>
</soapenv:Envelope>`

func newClient(t *testing.T, url string, timeout time.Duration) *xavgw.Client {
	t.Helper()
	c, err := xavgw.NewClient(xavgw.Config{
		Endpoint:  url,
		Operation: "ProcessXAV",
		AccessKey: "LICENSE-1",
		Username:  "shipper",
		Password:  "s3cret",
		Timeout:   timeout,
	})
	require.NoError(t, err)
	return c
}

func sampleRequest() domain.AddressRequest {
	return domain.AddressRequest{
		ConsigneeName:     "Acme",
		AddressLines:      [2]string{"517 S. Fourth Blvd", ""},
		Locality:          "Louisville",
		Region:            "CO",
		PostalCodePrimary: "55502",
		CountryCode:       domain.CountryUS,
	}
}

func TestNewClient_RequiresEndpointAndOperation(t *testing.T) {
	_, err := xavgw.NewClient(xavgw.Config{Operation: "ProcessXAV"})
	require.Error(t, err)

	_, err = xavgw.NewClient(xavgw.Config{Endpoint: "http://localhost"})
	require.Error(t, err)
}

func TestClient_Validate_SendsEnvelope(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "ProcessXAV", r.Header.Get("SOAPAction"))
		require.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "text/xml"))
		b, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		body = string(b)
		_, _ = io.WriteString(w, validResponse)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), sampleRequest())
	require.NoError(t, err)

	require.Contains(t, body, "<upss:Username>shipper</upss:Username>")
	require.Contains(t, body, "<upss:Password>s3cret</upss:Password>")
	require.Contains(t, body, "<upss:AccessLicenseNumber>LICENSE-1</upss:AccessLicenseNumber>")
	require.Contains(t, body, "<common:RequestOption>1</common:RequestOption>")
	require.Contains(t, body, "<xav:AddressLine>517 S. Fourth Blvd</xav:AddressLine><xav:AddressLine></xav:AddressLine>")
	require.Contains(t, body, "<xav:PostcodePrimaryLow>55502</xav:PostcodePrimaryLow>")
	require.NotContains(t, body, "PostcodeExtendedLow")
	require.NotContains(t, body, "RegionalRequestIndicator")
	require.NotContains(t, body, "Urbanization")
}

func TestClient_Validate_EncodesOptionalElements(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = io.WriteString(w, validResponse)
	}))
	defer srv.Close()

	ext := ""
	req := sampleRequest()
	req.PostalCodeExtended = &ext
	req.RegionalOnly = true
	req.Urbanization = "Urb Las Gladiolas"

	_, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), req)
	require.NoError(t, err)
	require.Contains(t, body, "<xav:PostcodeExtendedLow></xav:PostcodeExtendedLow>")
	require.Contains(t, body, "<xav:RegionalRequestIndicator></xav:RegionalRequestIndicator>")
	require.Contains(t, body, "<xav:Urbanization>Urb Las Gladiolas</xav:Urbanization>")
}

func TestClient_Validate_DecodesValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, validResponse)
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.Equal(t, "Success", resp.StatusDescription)
	require.Equal(t, "1", resp.StatusCode)
	require.True(t, resp.Valid)
	require.False(t, resp.Ambiguous)
	require.NotEmpty(t, resp.Raw)

	require.NotNil(t, resp.Address.Classification)
	require.Equal(t, "Commercial", resp.Address.Classification.Description)
	require.Len(t, resp.Address.Candidates, 1)
	key := resp.Address.Candidates[0].AddressKeyFormat
	require.Equal(t, []string{"517 S FOURTH BLVD"}, key.AddressLine)
	require.Equal(t, "LOUISVILLE", key.PoliticalDivision2)
	require.Equal(t, "CO", key.PoliticalDivision1)
	require.Equal(t, "1234", key.PostcodeExtendedLow)
	require.Equal(t, "US", key.CountryCode)
}

const validWithExtrasResponse = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <xav:XAVResponse xmlns:xav="http://www.ups.com/XMLSchema/XOLTWS/xav/v1.0" xmlns:common="http://www.ups.com/XMLSchema/XOLTWS/Common/v1.0">
      <common:Response>
        <common:ResponseStatus><common:Code>1</common:Code><common:Description>Success</common:Description></common:ResponseStatus>
        <common:TransactionReference><common:CustomerContext>form-42</common:CustomerContext></common:TransactionReference>
      </common:Response>
      <xav:ValidAddressIndicator/>
      <xav:Candidate>
        <xav:AddressKeyFormat>
          <xav:AddressLine>1 MAIN ST</xav:AddressLine>
          <xav:AddressLine>STE 200</xav:AddressLine>
          <xav:CountryCode>US</xav:CountryCode>
          <xav:DeliveryPoint kind="dp">12</xav:DeliveryPoint>
        </xav:AddressKeyFormat>
        <xav:Confidence>High</xav:Confidence>
      </xav:Candidate>
      <xav:Alert><xav:Code>A1</xav:Code></xav:Alert>
      <xav:Alert><xav:Code>A2</xav:Code></xav:Alert>
    </xav:XAVResponse>
  </soapenv:Body>
</soapenv:Envelope>`

func TestClient_Validate_PassesUnmodelledElementsThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, validWithExtrasResponse)
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.True(t, resp.Valid)
	require.Equal(t, "Success", resp.StatusDescription)

	b, err := json.Marshal(resp.Address)
	require.NoError(t, err)
	require.JSONEq(t, `{
		"ValidAddressIndicator": {},
		"Response": {
			"ResponseStatus": {"Code": "1", "Description": "Success"},
			"TransactionReference": {"CustomerContext": "form-42"}
		},
		"Alert": [{"Code": "A1"}, {"Code": "A2"}],
		"Candidate": [{
			"Confidence": "High",
			"AddressKeyFormat": {
				"AddressLine": ["1 MAIN ST", "STE 200"],
				"CountryCode": "US",
				"DeliveryPoint": {"@attributes": {"kind": "dp"}, "0": "12"}
			}
		}]
	}`, string(b))
}

func TestClient_Validate_DecodesAmbiguous(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, ambiguousResponse)
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), sampleRequest())
	require.NoError(t, err)
	require.False(t, resp.Valid)
	require.True(t, resp.Ambiguous)
	require.Len(t, resp.Address.Candidates, 1)
}

func TestClient_Validate_Fault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, faultResponse)
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), sampleRequest())
	require.Error(t, err)

	var fault *xavgw.Fault
	require.True(t, errors.As(err, &fault))
	require.Equal(t, "Client", fault.Code)
	require.Equal(t, "250003", fault.ErrorCode)
	require.Equal(t, "Invalid Access License number", fault.Description)
	require.Contains(t, err.Error(), "xav gateway: ProcessXAV")

	require.NotNil(t, resp)
	require.Contains(t, string(resp.Raw), "250003")
}

func TestClient_Validate_Malformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html>not soap")
	}))
	defer srv.Close()

	resp, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), sampleRequest())
	require.ErrorIs(t, err, xavgw.ErrMalformed)
	require.Equal(t, "<html>not soap", string(resp.Raw))
}

func TestClient_Validate_EnvelopeWithoutResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<Envelope><Body></Body></Envelope>`)
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), sampleRequest())
	require.ErrorIs(t, err, xavgw.ErrMalformed)
}

func TestClient_Validate_HTTPStatusWithoutFault(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, "maintenance")
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL, time.Second).Validate(context.Background(), sampleRequest())
	require.ErrorIs(t, err, xavgw.ErrHTTPStatus)
}

func TestClient_Validate_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	resp, err := newClient(t, srv.URL, 50*time.Millisecond).Validate(context.Background(), sampleRequest())
	require.Nil(t, resp)
	require.ErrorIs(t, err, xavgw.ErrTimeout)
}

func TestClient_Validate_ContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	_, err := newClient(t, srv.URL, 5*time.Second).Validate(ctx, sampleRequest())
	require.ErrorIs(t, err, xavgw.ErrTimeout)
}

func TestClient_Validate_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newClient(t, url, time.Second).Validate(context.Background(), sampleRequest())
	require.Error(t, err)
	require.False(t, errors.Is(err, xavgw.ErrTimeout))
	require.False(t, errors.Is(err, xavgw.ErrMalformed))
}
