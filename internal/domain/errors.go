package domain

import "errors"

// Domain errors. Handlers map these to HTTP statuses with errors.Is.
var (
	// ErrEmptyQuery is returned when the query is empty after trimming.
	ErrEmptyQuery = errors.New("query must not be empty")

	// ErrQueryTooLong is returned when the query exceeds the allowed length.
	ErrQueryTooLong = errors.New("query exceeds maximum length")

	// ErrImageTooLarge is returned when the encoded image exceeds the configured ceiling.
	ErrImageTooLarge = errors.New("image too large")

	// ErrImageRequired is returned by the screenshot flow when no image was supplied.
	ErrImageRequired = errors.New("image is required")

	// ErrBackendUnavailable is returned when the generation backend fails or cannot be reached.
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrInternal is returned for unexpected faults during orchestration.
	ErrInternal = errors.New("internal error")
)
