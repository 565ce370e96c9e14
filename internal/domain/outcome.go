package domain

// OutcomeKind tags a ValidationOutcome.
type OutcomeKind string

const (
	OutcomeValid   OutcomeKind = "valid"
	OutcomeInvalid OutcomeKind = "invalid"
	OutcomeFailed  OutcomeKind = "failed"
)

// Failure reasons reported with OutcomeFailed.
const (
	ReasonStatusRejected = "remote status rejected"
	ReasonTimeout        = "timeout"
	ReasonMalformed      = "malformed response"
	ReasonFault          = "remote fault"
	ReasonTransport      = "transport failure"
)

// ValidationOutcome is the result of one carrier validation. Build it with
// Valid, Invalid or Failed; the zero value is not meaningful.
type ValidationOutcome struct {
	kind    OutcomeKind
	address *NormalizedAddress
	reason  string
}

// Valid reports a confirmed address together with the carrier's normalized form.
func Valid(addr NormalizedAddress) ValidationOutcome {
	return ValidationOutcome{kind: OutcomeValid, address: &addr}
}

// Invalid reports that the carrier could not confirm the address.
func Invalid() ValidationOutcome {
	return ValidationOutcome{kind: OutcomeInvalid}
}

// Failed reports a transport or service failure.
func Failed(reason string) ValidationOutcome {
	return ValidationOutcome{kind: OutcomeFailed, reason: reason}
}

// Kind returns the outcome tag.
func (o ValidationOutcome) Kind() OutcomeKind { return o.kind }

// Address returns the normalized address for a Valid outcome.
func (o ValidationOutcome) Address() (NormalizedAddress, bool) {
	if o.kind != OutcomeValid || o.address == nil {
		return NormalizedAddress{}, false
	}
	return *o.address, true
}

// Reason returns the failure reason for a Failed outcome.
func (o ValidationOutcome) Reason() string { return o.reason }
