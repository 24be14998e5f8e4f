package seed

import "errors"

var (
	// ErrDuplicateSeed indicates the URL is already registered.
	ErrDuplicateSeed = errors.New("seed url already exists")
	// ErrSeedNotFound indicates no seed matches the URL.
	ErrSeedNotFound = errors.New("seed url not found")
	// ErrInvalidInput indicates invalid seed input.
	ErrInvalidInput = errors.New("invalid seed input")
)
