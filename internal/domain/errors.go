package domain

import "errors"

var (
	// ErrInvalidInput is returned when the caller supplied empty or malformed input
	ErrInvalidInput = errors.New("invalid input")

	// ErrSearchProvider is returned when a shopping search call fails
	ErrSearchProvider = errors.New("shopping search provider request failed")

	// ErrImageGeneration is returned when the image model fails to produce an image
	ErrImageGeneration = errors.New("image generation failed")

	// ErrExtraction is returned when the furniture extractor cannot be reached
	ErrExtraction = errors.New("furniture extraction failed")

	// ErrNotFound is returned when a gallery record does not exist
	ErrNotFound = errors.New("not found")

	// ErrImageHost is returned when the cloud image host fails or is not configured
	ErrImageHost = errors.New("image host request failed")

	// ErrCorruptRecord is returned when data read back from storage cannot be decoded
	ErrCorruptRecord = errors.New("stored record is unreadable")

	// ErrRateLimited is returned when the per-client rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")
)
