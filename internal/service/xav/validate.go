package xav

import (
	"context"
	"errors"
	"fmt"
	"time"

	"xav-address-service/internal/apperr"
	"xav-address-service/internal/domain"
	xavgw "xav-address-service/internal/gateway/xav"
	"xav-address-service/internal/logx"
)

// statusSuccess is the only status description treated as a completed call.
const statusSuccess = "Success"

const sinkTimeout = 2 * time.Second

// Validate performs one carrier call and classifies the answer. It never
// panics and never returns an error; failures become domain.Failed.
func (s *Service) Validate(ctx context.Context, req domain.AddressRequest) (out domain.ValidationOutcome) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			out = s.fail(ctx, domain.ReasonTransport, fmt.Errorf("panic during carrier call: %v", r), req)
		}
		s.metrics.ObserveOutcome(string(out.Kind()))
	}()

	start := time.Now()
	resp, err := s.gateway.Validate(ctx, req)
	elapsed := time.Since(start)

	if resp != nil && len(resp.Raw) > 0 {
		s.record(ctx, resp.Raw)
	}

	if err != nil {
		reason := failureReason(ctx, err)
		s.metrics.ObserveCarrierCall(reason, elapsed)
		return s.fail(ctx, reason, err, req)
	}
	s.metrics.ObserveCarrierCall("ok", elapsed)

	if resp.StatusDescription != statusSuccess {
		err := fmt.Errorf("carrier status %q (code %q)", resp.StatusDescription, resp.StatusCode)
		return s.fail(ctx, domain.ReasonStatusRejected, err, req)
	}

	if !resp.Valid {
		s.logger.Info("address not confirmed",
			logx.String("country", string(req.CountryCode)),
			logx.Bool("ambiguous", resp.Ambiguous),
			logx.Bool("no_candidates", resp.NoCandidates),
			logx.Int("candidates", len(resp.Address.Candidates)),
			logx.Duration("duration", elapsed),
		)
		return domain.Invalid()
	}

	s.logger.Info("address validated",
		logx.String("country", string(req.CountryCode)),
		logx.Duration("duration", elapsed),
	)
	return domain.Valid(resp.Address)
}

// Check builds the carrier request from raw input and validates it.
// Input errors are returned before any network call.
func (s *Service) Check(ctx context.Context, in domain.RawAddressInput) (domain.ValidationOutcome, error) {
	req, err := s.BuildRequest(in)
	if err != nil {
		return domain.ValidationOutcome{}, err
	}
	return s.Validate(ctx, req), nil
}

func (s *Service) fail(ctx context.Context, reason string, err error, req domain.AddressRequest) domain.ValidationOutcome {
	remote := &apperr.RemoteError{Reason: reason, Err: err}
	s.logger.Error("address validation failed",
		logx.String("reason", reason),
		logx.String("country", string(req.CountryCode)),
		logx.Err(remote),
	)
	s.reporter.Capture(ctx, remote, map[string]string{
		"reason":  reason,
		"country": string(req.CountryCode),
	})
	return domain.Failed(reason)
}

// record hands the raw body to the sink. The sink gets its own deadline so a
// timed out carrier call is still recorded.
func (s *Service) record(ctx context.Context, raw []byte) {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sinkTimeout)
	defer cancel()
	if err := s.sink.Record(sctx, raw); err != nil {
		s.logger.Warn("diagnostics sink failed", logx.Err(err))
	}
}

func failureReason(ctx context.Context, err error) string {
	var fault *xavgw.Fault
	switch {
	case errors.Is(err, xavgw.ErrTimeout),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(ctx.Err(), context.DeadlineExceeded):
		return domain.ReasonTimeout
	case errors.As(err, &fault):
		return domain.ReasonFault
	case errors.Is(err, xavgw.ErrMalformed):
		return domain.ReasonMalformed
	default:
		return domain.ReasonTransport
	}
}
