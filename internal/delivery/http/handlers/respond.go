package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hashperks/loyalty-service/internal/delivery/http/dto/response"
	"github.com/hashperks/loyalty-service/internal/domain"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON rejects unknown fields and trailing data.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validationf("request body is required")
		}
		return domain.Validationf("invalid request body: %v", err)
	}
	if dec.More() {
		return domain.Validationf("request body must contain a single JSON object")
	}
	return nil
}

func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthMissing, domain.KindAuthInvalid, domain.KindAuthExpired:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindGatewayFailure:
		return http.StatusBadGateway
	case domain.KindGatewayTimeout:
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)
	body := response.ErrorBody{Kind: string(kind), Message: err.Error()}

	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		body.Message = de.Message
	}

	switch {
	case status >= http.StatusInternalServerError:
		body.ErrorID = s.newErrorID()
		if kind == domain.KindInternal {
			body.Message = "internal server error"
		}
		slog.Error("request failed",
			"error_id", body.ErrorID,
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"kind", kind,
			"error", err,
		)
	case kind == domain.KindForbidden || kind == domain.KindAuthInvalid:
		slog.Info("request rejected",
			"request_id", chimw.GetReqID(r.Context()),
			"path", r.URL.Path,
			"kind", kind,
		)
	}

	writeJSON(w, status, response.ErrorResponse{Error: body})
}
