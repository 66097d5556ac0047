package api

import (
	"errors"
	"net/http"

	"ga-reports/internal/domain"
)

// httpStatusFromDomainError maps domain errors to HTTP status codes.
func httpStatusFromDomainError(err error) int {
	var notFound *domain.NotFoundError
	var validation *domain.ValidationError
	var noCredential *domain.NoCredentialError
	var transport *domain.TransportError
	var remote *domain.RemoteAPIError
	var empty *domain.EmptyResponseError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &noCredential):
		return http.StatusPreconditionFailed
	case errors.As(err, &transport):
		return http.StatusBadGateway
	case errors.As(err, &remote):
		return http.StatusBadGateway
	case errors.As(err, &empty):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
