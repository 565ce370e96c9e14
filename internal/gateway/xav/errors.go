package xav

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrTimeout is returned when the carrier did not answer in time.
	ErrTimeout = errors.New("carrier timeout")
	// ErrMalformed is returned when the body is not a usable SOAP response.
	ErrMalformed = errors.New("malformed carrier response")
	// ErrHTTPStatus is returned for a non-2xx answer without a SOAP fault.
	ErrHTTPStatus = errors.New("unexpected carrier http status")
)

// Fault is a SOAP fault returned by the carrier.
type Fault struct {
	Code        string
	String      string
	ErrorCode   string
	Description string
}

func (f *Fault) Error() string {
	var b strings.Builder
	b.WriteString("soap fault")
	if f.Code != "" {
		fmt.Fprintf(&b, " %s", f.Code)
	}
	if f.String != "" {
		fmt.Fprintf(&b, ": %s", f.String)
	}
	if f.ErrorCode != "" {
		fmt.Fprintf(&b, " (%s %s)", f.ErrorCode, f.Description)
	}
	return b.String()
}

func faultFrom(sf *soapFault) *Fault {
	f := &Fault{Code: sf.Code, String: sf.String}
	if details := sf.Detail.Errors.ErrorDetail; len(details) > 0 {
		f.ErrorCode = details[0].PrimaryErrorCode.Code
		f.Description = details[0].PrimaryErrorCode.Description
	}
	return f
}
