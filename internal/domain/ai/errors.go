package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrTimeout indicates the model call did not finish within the configured bound.
var ErrTimeout = errors.New("ai request timed out")

// ErrEmptyResponse is returned when the provider answers without any text choice.
var ErrEmptyResponse = errors.New("ai returned an empty response")

// ErrUpstream wraps any other provider failure (network, 5xx, bad request).
var ErrUpstream = errors.New("ai provider error")
