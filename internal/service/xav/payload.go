package xav

import (
	"encoding/json"
	"net/http"

	"xav-address-service/internal/domain"
	"xav-address-service/internal/logx"
)

// InvalidSentinel tells the form to ask the user for another address.
const InvalidSentinel = "invalid"

// failureBody is the only thing a caller learns about a failed validation.
var failureBody = []byte(`{"error":"address validation unavailable"}`)

// Payload is what the HTTP boundary writes back to the form.
type Payload struct {
	Status      int
	ContentType string
	Body        []byte
}

// ToClientPayload renders an outcome for the calling form.
func (s *Service) ToClientPayload(o domain.ValidationOutcome) Payload {
	switch o.Kind() {
	case domain.OutcomeValid:
		addr, _ := o.Address()
		body, err := json.Marshal(addr)
		if err != nil {
			s.logger.Error("encode normalized address", logx.Err(err))
			return failurePayload()
		}
		return Payload{Status: http.StatusOK, ContentType: "application/json", Body: body}
	case domain.OutcomeInvalid:
		return Payload{Status: http.StatusOK, ContentType: "text/plain; charset=utf-8", Body: []byte(InvalidSentinel)}
	default:
		return failurePayload()
	}
}

func failurePayload() Payload {
	return Payload{Status: http.StatusBadGateway, ContentType: "application/json", Body: failureBody}
}
