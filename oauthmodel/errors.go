package oauthmodel

import "errors"

var (
	// ErrInvalidRequest is returned when a required identity field is missing.
	// Callers map it to the protocol level invalid_request error.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSerialization is returned when a request cannot be snapshotted or a
	// snapshot cannot be decoded.
	ErrSerialization = errors.New("snapshot serialization failed")
)
