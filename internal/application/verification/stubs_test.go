package verification

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bryanwahyu/id-verify/internal/domain/ai"
	"github.com/bryanwahyu/id-verify/internal/domain/failures"
	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
)

// jpegBytes starts with the JPEG SOI marker so content sniffing sees an image.
var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}

type stubClient struct {
	reply string
	err   error
	block bool

	mu   sync.Mutex
	reqs []ai.CompletionRequest
}

func (c *stubClient) Name() string { return "stub" }

func (c *stubClient) Complete(ctx context.Context, req ai.CompletionRequest) (string, error) {
	c.mu.Lock()
	c.reqs = append(c.reqs, req)
	c.mu.Unlock()
	if c.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return c.reply, c.err
}

func (c *stubClient) calls() []ai.CompletionRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ai.CompletionRequest(nil), c.reqs...)
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type memRepo struct {
	saved   []*domain.Record
	saveErr error
}

func (r *memRepo) Save(_ context.Context, rec *domain.Record) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saved = append(r.saved, rec)
	return nil
}

func (r *memRepo) Get(_ context.Context, id domain.VerificationID) (*domain.Record, error) {
	for _, rec := range r.saved {
		if rec.ID == id {
			return rec, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) Latest(_ context.Context, limit int) ([]*domain.Record, error) {
	if limit > len(r.saved) {
		limit = len(r.saved)
	}
	return r.saved[:limit], nil
}

type memFailures struct {
	saved []*failures.Failure
}

func (r *memFailures) Save(_ context.Context, f *failures.Failure) error {
	r.saved = append(r.saved, f)
	return nil
}

func (r *memFailures) ListByVerification(_ context.Context, id string, limit int) ([]*failures.Failure, error) {
	var out []*failures.Failure
	for _, f := range r.saved {
		if f.VerificationID == id && len(out) < limit {
			out = append(out, f)
		}
	}
	return out, nil
}

type memImages struct {
	keys []string
	ct   []string
	err  error
}

func (s *memImages) Put(_ context.Context, key string, _ []byte, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.keys = append(s.keys, key)
	s.ct = append(s.ct, contentType)
	return "http://minio.local/id-front/" + key, nil
}

var errBoom = errors.New("boom")
