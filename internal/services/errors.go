package services

import (
	"errors"
	"net/http"

	"go.uber.org/zap"
	goahttp "goa.design/goa/v3/http"
	goa "goa.design/goa/v3/pkg"

	apperrors "paramanu/pkg/errors"
)

// Goa error names used in responses.
const (
	ErrNameBadRequest   = "bad_request"
	ErrNameUnauthorized = "unauthorized"
	ErrNameNotFound     = "not_found"
	ErrNameConflict     = "conflict"
	ErrNameInternal     = "internal"
)

// ErrorBody is the JSON error response.
type ErrorBody struct {
	Name    string   `json:"name"`
	ID      string   `json:"id"`
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
}

// ToServiceError converts err into a goa service error and its HTTP status.
func ToServiceError(err error) (*goa.ServiceError, int) {
	var svcErr *goa.ServiceError
	if errors.As(err, &svcErr) {
		return svcErr, statusForName(svcErr.Name)
	}

	name, status := ErrNameInternal, http.StatusInternalServerError
	switch code := apperrors.CodeOf(err); code {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidPhone, apperrors.ErrCodeConsentRequired,
		apperrors.ErrCodeStepIncomplete, apperrors.ErrCodeBadRequest:
		name, status = ErrNameBadRequest, http.StatusBadRequest
	case apperrors.ErrCodeUnauthorized:
		name, status = ErrNameUnauthorized, http.StatusUnauthorized
	case apperrors.ErrCodeNotFound:
		name, status = ErrNameNotFound, http.StatusNotFound
	case apperrors.ErrCodeInvalidState, apperrors.ErrCodeSubmissionInFlight:
		name, status = ErrNameConflict, http.StatusConflict
	}

	fault := status == http.StatusInternalServerError
	return goa.NewServiceError(err, name, false, false, fault), status
}

func statusForName(name string) int {
	switch name {
	case ErrNameBadRequest:
		return http.StatusBadRequest
	case ErrNameUnauthorized:
		return http.StatusUnauthorized
	case ErrNameNotFound:
		return http.StatusNotFound
	case ErrNameConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError encodes err as an ErrorBody. Internal details of faults are
// logged, not returned.
func writeError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	svcErr, status := ToServiceError(err)

	body := ErrorBody{
		Name:    svcErr.Name,
		ID:      svcErr.ID,
		Code:    string(apperrors.CodeOf(err)),
		Message: apperrors.MessageOf(err),
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		body.Fields = appErr.Fields
	}

	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("error_id", svcErr.ID),
			zap.Error(err))
		if appErr == nil {
			body.Message = "internal server error"
		}
	}

	writeJSON(w, r, logger, status, body)
}

func writeJSON(w http.ResponseWriter, r *http.Request, logger *zap.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := goahttp.ResponseEncoder(r.Context(), w)
	w.WriteHeader(status)
	if err := enc.Encode(v); err != nil {
		logger.Error("Failed to encode response",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
}
