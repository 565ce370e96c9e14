package handlers

import (
	"context"

	"xav-address-service/internal/domain"
	"xav-address-service/internal/service/xav"
)

type addressUsecase interface {
	Check(ctx context.Context, in domain.RawAddressInput) (domain.ValidationOutcome, error)
	ToClientPayload(o domain.ValidationOutcome) xav.Payload
}

// NewAddressUsecase wires the validation Service into an addressUsecase.
func NewAddressUsecase(svc *xav.Service) addressUsecase {
	return svc
}
