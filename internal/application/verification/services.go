package verification

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/bryanwahyu/id-verify/internal/application"
	"github.com/bryanwahyu/id-verify/internal/domain/failures"
	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
)

const (
	DefaultLatestLimit = 10
	MaxLatestLimit     = 100
)

// Service implements use-cases untuk verifikasi KTP/ID depan.
// Repo, Failures and Images are optional; nil disables that side effect.
// Service is safe for concurrent use; it holds no per-request state.
type Service struct {
	Analyzer *Analyzer
	Repo     domain.Repository
	Failures failures.Repository
	Images   domain.ImageStore
	Clock    application.Clock
	Logger   *slog.Logger
}

// VerifyCommand is one uploaded front image.
type VerifyCommand struct {
	Image       []byte
	Filename    string
	ContentType string
}

// Verification is what the ingress returns: the body plus bookkeeping.
type Verification struct {
	ID       domain.VerificationID
	Result   domain.Result
	Fallback bool
}

// Verify runs one analysis. Only model errors are returned; a parse failure
// comes back as the fallback result and storage problems are only logged.
func (s *Service) Verify(ctx context.Context, cmd VerifyCommand) (Verification, error) {
	id := domain.VerificationID(uuid.New().String())
	req := domain.Request{
		Image:       cmd.Image,
		Filename:    cmd.Filename,
		ContentType: cmd.ContentType,
		CurrentDate: application.Today(s.clock()),
	}

	outcome, err := s.Analyzer.Analyze(ctx, req.Image, req.CurrentDate)
	if err != nil {
		s.recordFailure(ctx, id, failures.PhaseModel, err.Error(), "")
		return Verification{ID: id}, err
	}

	if !outcome.OK() {
		s.logger().Warn("model reply could not be recovered",
			"verification_id", id, "error", outcome.ParseError())
		s.recordFailure(ctx, id, failures.PhaseParse, outcome.ParseError().Error(), outcome.Raw())
	}

	result := outcome.Result()
	v := Verification{ID: id, Result: result, Fallback: !outcome.OK()}

	imageURL := s.archiveImage(ctx, id, req)
	s.saveRecord(ctx, v, imageURL)

	return v, nil
}

// Get ambil 1 verifikasi by id
func (s *Service) Get(ctx context.Context, id domain.VerificationID) (*domain.Record, error) {
	if s.Repo == nil {
		return nil, fmt.Errorf("%w: persistence disabled", domain.ErrNotFound)
	}
	return s.Repo.Get(ctx, id)
}

// Latest ambil N verifikasi terakhir
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if s.Repo == nil {
		return nil, fmt.Errorf("%w: persistence disabled", domain.ErrNotFound)
	}
	return s.Repo.Latest(ctx, ClampLimit(limit))
}

// FailuresOf lists recorded failures for one verification id.
func (s *Service) FailuresOf(ctx context.Context, id domain.VerificationID, limit int) ([]*failures.Failure, error) {
	if s.Failures == nil {
		return nil, fmt.Errorf("%w: persistence disabled", domain.ErrNotFound)
	}
	return s.Failures.ListByVerification(ctx, string(id), ClampLimit(limit))
}

// ClampLimit applies the default and the upper bound to a listing limit.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLatestLimit
	}
	if limit > MaxLatestLimit {
		return MaxLatestLimit
	}
	return limit
}

func (s *Service) archiveImage(ctx context.Context, id domain.VerificationID, req domain.Request) string {
	if s.Images == nil {
		return ""
	}
	now := s.clock().Now()
	key := fmt.Sprintf("front/%04d/%02d/%s%s", now.Year(), int(now.Month()), id, imageExt(req))
	ct := req.ContentType
	if ct == "" || ct == "application/octet-stream" {
		ct = SniffImageMIME(req.Image)
	}
	url, err := s.Images.Put(ctx, key, req.Image, ct)
	if err != nil {
		s.logger().Error("archive image failed", "verification_id", id, "key", key, "error", err)
		s.recordFailure(ctx, id, failures.PhaseStorage, "archive image: "+err.Error(), "")
		return ""
	}
	return url
}

func (s *Service) saveRecord(ctx context.Context, v Verification, imageURL string) {
	if s.Repo == nil {
		return
	}
	rec, err := domain.NewRecord(v.ID, v.Result, v.Fallback, s.clock().Now())
	if err != nil {
		s.logger().Error("build record failed", "verification_id", v.ID, "error", err)
		return
	}
	rec.ImageURL = imageURL
	if s.Analyzer != nil && s.Analyzer.Client != nil {
		rec.Provider = s.Analyzer.Client.Name()
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		s.logger().Error("save record failed", "verification_id", v.ID, "error", err)
		s.recordFailure(ctx, v.ID, failures.PhaseStorage, "save record: "+err.Error(), "")
	}
}

func (s *Service) recordFailure(ctx context.Context, id domain.VerificationID, phase failures.Phase, msg, details string) {
	if s.Failures == nil {
		return
	}
	f := &failures.Failure{
		VerificationID: string(id),
		Phase:          phase,
		Message:        msg,
		DetailsJSON:    details,
		CreatedAt:      s.clock().Now(),
	}
	if s.Analyzer != nil && s.Analyzer.Client != nil {
		f.Provider = s.Analyzer.Client.Name()
	}
	// the request context may already be cancelled after a model timeout
	if err := s.Failures.Save(context.WithoutCancel(ctx), f); err != nil {
		s.logger().Error("save failure failed", "verification_id", id, "phase", phase, "error", err)
	}
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func imageExt(req domain.Request) string {
	switch ext := strings.ToLower(filepath.Ext(req.Filename)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}
	switch SniffImageMIME(req.Image) {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
