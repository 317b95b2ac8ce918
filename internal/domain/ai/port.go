package ai

import (
	"context"
	"encoding/base64"
)

// CompletionRequest is one multimodal call: two instruction texts and one image.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	ImageBase64  string
	MIMEType     string
	Temperature  float32
	MaxTokens    int
}

// DataURL renders the image as a data URI, e.g. data:image/jpeg;base64,....
func (r CompletionRequest) DataURL() string {
	mime := r.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	return "data:" + mime + ";base64," + r.ImageBase64
}

// ImageBytes decodes ImageBase64 for providers that take raw bytes.
func (r CompletionRequest) ImageBytes() ([]byte, error) {
	return base64.StdEncoding.DecodeString(r.ImageBase64)
}

// Client is the external vision model: instructions + image in, free-form text out.
type Client interface {
	Name() string
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
