package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/bryanwahyu/id-verify/internal/domain/ai"
)

const defaultModel = "gemini-2.5-flash"

// Client calls Gemini with the same instruction pair as the OpenAI client.
// A genai client is opened per call, as one request makes exactly one call.
type Client struct {
	APIKey string
	Model  string
	opts   []option.ClientOption
}

func NewClient(apiKey, model string, opts ...option.ClientOption) *Client {
	return &Client{
		APIKey: strings.TrimSpace(apiKey),
		Model:  strings.TrimSpace(model),
		opts:   opts,
	}
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Complete(ctx context.Context, in ai.CompletionRequest) (string, error) {
	if c.APIKey == "" {
		return "", fmt.Errorf("%w: GEMINI_API_KEY is empty", ai.ErrUpstream)
	}
	img, err := in.ImageBytes()
	if err != nil {
		return "", fmt.Errorf("gemini: bad base64 image: %w", err)
	}

	opts := append([]option.ClientOption{option.WithAPIKey(c.APIKey)}, c.opts...)
	cl, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return "", fmt.Errorf("%w: gemini client: %w", ai.ErrUpstream, err)
	}
	defer cl.Close()

	model := c.Model
	if model == "" {
		model = defaultModel
	}
	m := cl.GenerativeModel(model)
	m.SetTemperature(in.Temperature)
	if in.MaxTokens > 0 {
		m.SetMaxOutputTokens(int32(in.MaxTokens))
	}
	m.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(in.SystemPrompt)},
	}

	mime := in.MIMEType
	if mime == "" {
		mime = "image/jpeg"
	}
	resp, err := m.GenerateContent(ctx,
		genai.Text(in.UserPrompt),
		&genai.Blob{MIMEType: mime, Data: img},
	)
	if err != nil {
		return "", classify(err)
	}

	txt := firstText(resp)
	if txt == "" {
		return "", ai.ErrEmptyResponse
	}
	return txt, nil
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range cand.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			return s
		}
	}
	return ""
}

func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ai.ErrTimeout, err)
	}
	var gErr *googleapi.Error
	if errors.As(err, &gErr) && gErr.Code == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s", ai.ErrQuotaExceeded, gErr.Message)
	}
	if strings.Contains(err.Error(), "RESOURCE_EXHAUSTED") || strings.Contains(err.Error(), "ResourceExhausted") {
		return fmt.Errorf("%w: %w", ai.ErrQuotaExceeded, err)
	}
	return fmt.Errorf("%w: gemini generate: %w", ai.ErrUpstream, err)
}
