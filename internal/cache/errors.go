package cache

import "errors"

var (
	// ErrInvalidKey indicates a cache key failed sanitization. The key is
	// rejected before any storage I/O happens.
	ErrInvalidKey = errors.New("cache: invalid key")

	// ErrNoEntry is returned by Store implementations when no durable
	// record exists for a key. Callers of Cache never see it; absent,
	// expired and corrupt entries are all reported as a plain miss.
	ErrNoEntry = errors.New("cache: no entry")
)
