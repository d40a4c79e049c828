package models

import (
	"errors"
)

// Predefined errors for steganography operations, surfaced at the HTTP
// boundary via ErrorResponse. These mirror the core's sentinel kinds
// (internal/stego) plus a few request-validation errors specific to the
// multipart form surface.
var (
	ErrInvalidMP3           = errors.New("failed to parse audio data, not a valid MP3 file")
	ErrInsufficientCapacity = errors.New("insufficient carrier capacity for the provided payload")
	ErrInvalidBitsPerFrame  = errors.New("bits_per_frame must be an integer between 1 and 8")
	ErrInvalidFraction      = errors.New("fraction must be in (0,1]")
	ErrInvalidStegoKey      = errors.New("stego key cannot be empty when vigenere encryption is requested")
	ErrMagicNotFound        = errors.New("stego header not found - wrong key or parameters")
	ErrIncompletePayload    = errors.New("embedded payload is incomplete or the carrier was truncated")
	ErrFileTooLarge         = errors.New("file size exceeds maximum allowed limit")
	ErrInvalidFileFormat    = errors.New("invalid file format")
	ErrCorruptedData        = errors.New("embedded data appears to be corrupted")
	ErrExtractionFailed     = errors.New("failed to extract data - wrong key or parameters")
)

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
