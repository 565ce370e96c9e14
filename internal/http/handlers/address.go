package handlers

import (
	"errors"
	"mime"
	"net/http"

	"xav-address-service/internal/apperr"
	"xav-address-service/internal/domain"
	"xav-address-service/internal/logx"
	"xav-address-service/internal/service/xav"
)

// AddressHandler serves the address form endpoint.
type AddressHandler struct {
	uc     addressUsecase
	logger logx.Logger
}

// NewAddressHandler wires an addressUsecase into HTTP handlers.
func NewAddressHandler(uc addressUsecase, logger logx.Logger) *AddressHandler {
	if logger == nil {
		logger = logx.Nop()
	}
	return &AddressHandler{uc: uc, logger: logger}
}

// Validate handles POST /validate. It accepts an urlencoded or multipart form,
// or a JSON object with the same keys.
func (h *AddressHandler) Validate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.readInput(w, r)
	if !ok {
		return
	}

	out, err := h.uc.Check(r.Context(), in)
	if err != nil {
		h.writeInputError(w, r, err)
		return
	}

	p := h.uc.ToClientPayload(out)
	w.Header().Set("Content-Type", p.ContentType)
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(p.Status)
	if _, err := w.Write(p.Body); err != nil {
		h.logger.Debug("validate response write failed",
			logx.String("request_id", reqID(r.Context())),
			logx.Err(err),
		)
	}
}

func (h *AddressHandler) readInput(w http.ResponseWriter, r *http.Request) (domain.RawAddressInput, bool) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var req addressRequest
		if !decodeJSON(h.logger, w, r, &req) {
			return domain.RawAddressInput{}, false
		}
		return req.toModel(), true
	}

	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(bodyLimit); err != nil {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid form")
			return domain.RawAddressInput{}, false
		}
	} else if err := r.ParseForm(); err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid form")
		return domain.RawAddressInput{}, false
	}

	in, err := xav.FromForm(r.PostForm)
	if err != nil {
		h.writeInputError(w, r, err)
		return domain.RawAddressInput{}, false
	}
	return in, true
}

func (h *AddressHandler) writeInputError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		h.logger.Info("address input rejected",
			logx.String("request_id", reqID(r.Context())),
			logx.Err(err),
		)
		writeJSON(h.logger, w, r, http.StatusBadRequest, errResponse{Error: "invalid input", Fields: verr.Fields})
	case errors.Is(err, apperr.ErrInvalid):
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid input")
	default:
		h.logger.Error("validate request failed",
			logx.String("request_id", reqID(r.Context())),
			logx.Err(err),
		)
		writeError(h.logger, w, r, http.StatusInternalServerError, "internal error")
	}
}
