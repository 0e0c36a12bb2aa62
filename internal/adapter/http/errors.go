package http

import (
	"errors"
	"net/http"

	"github.com/couchcryptid/plastic-waste-dashboard/internal/domain"
)

// statusFor maps the domain error taxonomy onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidMetric):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrParse), errors.Is(err, domain.ErrDispatchFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// userMessage is the headline shown in a page error block.
func userMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrSourceUnavailable):
		return "The dataset could not be read from storage."
	case errors.Is(err, domain.ErrParse):
		return "The dataset could not be parsed."
	case errors.Is(err, domain.ErrInvalidMetric):
		return "Unknown heatmap."
	case errors.Is(err, domain.ErrDispatchFailure):
		return "The report request could not be delivered."
	default:
		return "Something went wrong."
	}
}
