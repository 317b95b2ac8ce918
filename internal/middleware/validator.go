package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
)

// ErrInvalidInput marks a request the client must fix; the router maps it to 400.
var ErrInvalidInput = errors.New("invalid input")

// ValidateImageUpload rejects an empty upload and returns the sniffed content
// type. Non-image bytes are let through; the model decides what they are.
func ValidateImageUpload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image file", ErrInvalidInput)
	}
	return http.DetectContentType(data), nil
}

// ValidateVerificationID requires a UUID.
func ValidateVerificationID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: verification id cannot be empty", ErrInvalidInput)
	}
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: invalid verification id format", ErrInvalidInput)
	}
	return nil
}

// ParseLimit reads ?limit=; empty means 0 so the caller's default applies.
func ParseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: limit must be a non-negative integer", ErrInvalidInput)
	}
	return n, nil
}
