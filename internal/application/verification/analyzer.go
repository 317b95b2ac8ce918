package verification

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bryanwahyu/id-verify/internal/domain/ai"
	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
	"github.com/bryanwahyu/id-verify/internal/infra/ai/prompt"
)

const (
	DefaultTimeout   = 120 * time.Second
	DefaultMaxTokens = 1800
)

// Analyzer turns one front image into an Outcome via the external model.
type Analyzer struct {
	Client    ai.Client
	Timeout   time.Duration
	MaxTokens int
}

func NewAnalyzer(client ai.Client, timeout time.Duration, maxTokens int) *Analyzer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Analyzer{Client: client, Timeout: timeout, MaxTokens: maxTokens}
}

// Analyze makes exactly one model call. Model errors are returned; a reply
// that cannot be recovered into JSON is a Failed outcome, not an error.
func (a *Analyzer) Analyze(ctx context.Context, image []byte, currentDate string) (domain.Outcome, error) {
	req := ai.CompletionRequest{
		SystemPrompt: prompt.GetSystemPrompt(),
		UserPrompt:   prompt.GetUserPrompt(currentDate),
		ImageBase64:  base64.StdEncoding.EncodeToString(image),
		MIMEType:     SniffImageMIME(image),
		Temperature:  0,
		MaxTokens:    a.MaxTokens,
	}

	ctx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()

	reply, err := a.Client.Complete(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, ai.ErrTimeout) {
			err = fmt.Errorf("%w after %s: %w", ai.ErrTimeout, a.Timeout, err)
		}
		return domain.Outcome{}, err
	}

	parsed, err := domain.Recover(reply)
	if err != nil {
		return domain.Failed(reply, err), nil
	}
	return domain.Succeeded(parsed, reply), nil
}

// SniffImageMIME detects png/gif/webp and defaults everything else to JPEG.
func SniffImageMIME(b []byte) string {
	ct := http.DetectContentType(b)
	switch {
	case strings.HasPrefix(ct, "image/png"),
		strings.HasPrefix(ct, "image/gif"),
		strings.HasPrefix(ct, "image/webp"):
		return ct
	default:
		return "image/jpeg"
	}
}
