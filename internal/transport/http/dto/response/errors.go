package response

import (
	"net/http"

	"kamaru/internal/domain/errs"
)

// StatusOf maps an error kind onto its HTTP status.
func StatusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindAuthentication:
		return http.StatusUnauthorized
	case errs.KindAuthorization:
		return http.StatusForbidden
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindExpired:
		return http.StatusGone
	case errs.KindMedia, errs.KindDelivery:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// FromError builds the error body for err. Internal details are never exposed.
func FromError(err error) (int, ErrorResponse) {
	kind := errs.KindOf(err)

	return StatusOf(kind), ErrorResponseWithDetails(string(kind), errs.MessageOf(err))
}

// FromStatus builds the error body for errors raised by echo itself.
func FromStatus(status int, details string) ErrorResponse {
	var kind errs.Kind

	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnsupportedMediaType:
		kind = errs.KindValidation
	case http.StatusUnauthorized:
		kind = errs.KindAuthentication
	case http.StatusForbidden:
		kind = errs.KindAuthorization
	case http.StatusNotFound, http.StatusMethodNotAllowed:
		kind = errs.KindNotFound
	case http.StatusTooManyRequests:
		return ErrorResponseWithDetails("rate_limited", details)
	case http.StatusServiceUnavailable:
		return ErrorResponseWithDetails("timeout", details)
	default:
		kind = errs.KindInternal
		details = "internal server error"
	}

	return ErrorResponseWithDetails(string(kind), details)
}
