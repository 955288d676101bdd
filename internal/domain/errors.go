package domain

import "errors"

var (
	// ErrInvalidInput signals missing or malformed required request fields.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")

	// ErrUpstreamUnavailable signals a failed, timed out or unconfigured remote backend.
	// Recovered locally by the fallback chain.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrRetrievalDegraded signals that similarity search failed or returned nothing.
	ErrRetrievalDegraded = errors.New("retrieval degraded")
	// ErrPersonalizationDegraded signals that the profile store failed.
	ErrPersonalizationDegraded = errors.New("personalization degraded")
	// ErrInternal signals an unexpected failure. Callers only ever see its message.
	ErrInternal = errors.New("internal error")
)
