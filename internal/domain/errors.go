package domain

import "errors"

var (
	// ErrNoInterests signals a profile with no interest tags to search on.
	ErrNoInterests = errors.New("profile has no interests")
	// ErrUnsupportedStrategy signals an unknown recommendation strategy name.
	ErrUnsupportedStrategy = errors.New("unsupported recommendation strategy")
	// ErrInvalidLimit signals a result limit outside the allowed range.
	ErrInvalidLimit = errors.New("invalid result limit")

	// ErrInvalidProfile signals a profile that fails validation.
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrProfileNotFound signals a missing user profile.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrProfileExists signals a duplicate user profile.
	ErrProfileExists = errors.New("profile already exists")

	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrVectorStoreError signals a vector index failure.
	ErrVectorStoreError = errors.New("vector store error")
	// ErrBillStoreError signals a bill metadata store failure.
	ErrBillStoreError = errors.New("bill store error")
)
