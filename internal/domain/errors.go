package domain

import "errors"

var (
	// ErrSourceUnavailable is returned when the object store cannot be reached
	// or the requested object does not exist.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrParse is returned for malformed or schema-mismatched tabular content.
	ErrParse = errors.New("parse error")

	// ErrInvalidMetric is returned for an unrecognized column selector.
	ErrInvalidMetric = errors.New("invalid metric")

	// ErrDispatchFailure is returned when the report notification could not
	// be delivered or the receiving function reported an error.
	ErrDispatchFailure = errors.New("dispatch failure")
)
