package xav

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"xav-address-service/internal/domain"
)

const maxResponseBytes = 1 << 20

// Config stores gateway settings.
type Config struct {
	Endpoint  string
	Operation string
	AccessKey string
	Username  string
	Password  string
	Timeout   time.Duration
	// HTTPClient overrides the default client built from Timeout.
	HTTPClient *http.Client
}

// Response is the decoded carrier answer. Raw is set whenever a body was read,
// including calls that end in a fault or a decode error.
type Response struct {
	Raw               []byte
	StatusCode        string
	StatusDescription string
	Valid             bool
	Ambiguous         bool
	NoCandidates      bool
	Address           domain.NormalizedAddress
}

// Client calls the carrier's address validation operation over SOAP 1.1.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient creates a gateway client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("xav gateway: endpoint is required")
	}
	if cfg.Operation == "" {
		return nil, errors.New("xav gateway: operation is required")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: hc}, nil
}

// Validate sends one validation request and decodes the answer.
func (c *Client) Validate(ctx context.Context, req domain.AddressRequest) (*Response, error) {
	payload, err := c.encode(req)
	if err != nil {
		return nil, fmt.Errorf("xav gateway: encode: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("xav gateway: new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "text/xml; charset=utf-8")
	httpReq.Header.Set("Accept", "text/xml")
	httpReq.Header.Set("SOAPAction", c.cfg.Operation)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("xav gateway: %s: %w: %w", c.cfg.Operation, ErrTimeout, err)
		}
		return nil, fmt.Errorf("xav gateway: %s: %w", c.cfg.Operation, err)
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes+1))
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("xav gateway: read body: %w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("xav gateway: read body: %w", err)
	}
	if len(raw) > maxResponseBytes {
		return nil, fmt.Errorf("xav gateway: %w: body exceeds %d bytes", ErrMalformed, maxResponseBytes)
	}

	resp, err := decode(raw, httpResp.StatusCode)
	if err != nil {
		return &Response{Raw: raw}, fmt.Errorf("xav gateway: %s: %w", c.cfg.Operation, err)
	}
	return resp, nil
}

func (c *Client) encode(req domain.AddressRequest) ([]byte, error) {
	env := requestEnvelope{
		SoapEnv:  nsSoapEnv,
		Security: nsSecurity,
		XAV:      nsXAV,
		Common:   nsCommon,
		Header: requestHeader{Security: upsSecurity{
			UsernameToken:      usernameToken{Username: c.cfg.Username, Password: c.cfg.Password},
			ServiceAccessToken: serviceAccessToken{AccessLicenseNumber: c.cfg.AccessKey},
		}},
		Body: requestBody{XAVRequest: xavRequest{
			Request: commonRequest{RequestOption: requestOption},
			AddressKeyFormat: requestAddressKey{
				ConsigneeName:       req.ConsigneeName,
				AddressLine:         []string{req.AddressLines[0], req.AddressLines[1]},
				PoliticalDivision2:  req.Locality,
				PoliticalDivision1:  req.Region,
				PostcodePrimaryLow:  req.PostalCodePrimary,
				PostcodeExtendedLow: req.PostalCodeExtended,
				Urbanization:        req.Urbanization,
				CountryCode:         string(req.CountryCode),
			},
		}},
	}
	if req.RegionalOnly {
		empty := ""
		env.Body.XAVRequest.RegionalRequestIndicator = &empty
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	if err := xml.NewEncoder(&buf).Encode(env); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(raw []byte, httpStatus int) (*Response, error) {
	var env responseEnvelope
	if err := xml.Unmarshal(raw, &env); err != nil {
		if httpStatus < 200 || httpStatus > 299 {
			return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, httpStatus)
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if env.Body.Fault != nil {
		return nil, faultFrom(env.Body.Fault)
	}
	x := env.Body.XAVResponse
	if x == nil {
		if httpStatus < 200 || httpStatus > 299 {
			return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, httpStatus)
		}
		return nil, fmt.Errorf("%w: no XAVResponse in body", ErrMalformed)
	}

	return &Response{
		Raw:               raw,
		StatusCode:        x.Response.text("ResponseStatus", "Code"),
		StatusDescription: x.Response.text("ResponseStatus", "Description"),
		Valid:             x.ValidAddressIndicator != nil,
		Ambiguous:         x.AmbiguousAddressIndicator != nil,
		NoCandidates:      x.NoCandidatesIndicator != nil,
		Address:           mapAddress(x),
	}, nil
}

func mapAddress(x *xavResponse) domain.NormalizedAddress {
	extra := groupNodes(x.Other)
	if len(x.Response.Children) > 0 {
		if extra == nil {
			extra = make(map[string]any, 1)
		}
		extra["Response"] = x.Response.value()
	}
	out := domain.NormalizedAddress{
		Classification: mapClassification(x.AddressClassification),
		Extra:          extra,
	}
	if len(x.Candidate) == 0 {
		return out
	}
	out.Candidates = make([]domain.Candidate, 0, len(x.Candidate))
	for _, c := range x.Candidate {
		k := c.AddressKeyFormat
		out.Candidates = append(out.Candidates, domain.Candidate{
			Classification: mapClassification(c.AddressClassification),
			AddressKeyFormat: domain.AddressKeyFormat{
				ConsigneeName:       k.ConsigneeName,
				AddressLine:         k.AddressLine,
				Region:              k.Region,
				PoliticalDivision2:  k.PoliticalDivision2,
				PoliticalDivision1:  k.PoliticalDivision1,
				PostcodePrimaryLow:  k.PostcodePrimaryLow,
				PostcodeExtendedLow: k.PostcodeExtendedLow,
				Urbanization:        k.Urbanization,
				CountryCode:         k.CountryCode,
				Extra:               groupNodes(k.Other),
			},
			Extra: groupNodes(c.Other),
		})
	}
	return out
}

func mapClassification(c *classification) *domain.Classification {
	if c == nil {
		return nil
	}
	return &domain.Classification{Code: c.Code, Description: c.Description}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
