// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across repo/service layers.
var (
	// ErrUnauthenticated indicates no acting user identity could be resolved.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrValidation indicates caller input violates a precondition (blank name, unknown service).
	ErrValidation = errors.New("validation failed")

	// ErrDuplicateCredential indicates a credential already exists for (owner, service).
	ErrDuplicateCredential = errors.New("credential already exists for service")

	// ErrCrypto indicates sealing or opening a credential failed (corrupt blob or wrong key).
	ErrCrypto = errors.New("crypto failure")

	// ErrPersistence indicates the datastore rejected a read or write.
	ErrPersistence = errors.New("persistence error")

	// ErrNotFound indicates the requested entity does not exist for the acting owner.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a unique constraint violation at the storage level.
	ErrAlreadyExists = errors.New("already exists")

	// ErrRateLimited indicates temporary login lock due to rate limiting.
	ErrRateLimited = errors.New("rate limited")
)
