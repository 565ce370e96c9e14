package xav

import (
	"context"

	"xav-address-service/internal/domain"
	xavgw "xav-address-service/internal/gateway/xav"
)

// carrierGateway performs the remote validation call.
type carrierGateway interface {
	Validate(ctx context.Context, req domain.AddressRequest) (*xavgw.Response, error)
}
