package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appverif "github.com/bryanwahyu/id-verify/internal/application/verification"
	domai "github.com/bryanwahyu/id-verify/internal/domain/ai"
	"github.com/bryanwahyu/id-verify/internal/domain/failures"
	domain "github.com/bryanwahyu/id-verify/internal/domain/verification"
	"github.com/bryanwahyu/id-verify/internal/middleware"
)

const (
	// FrontField is the multipart field carrying the front-side photo.
	FrontField = "id_card_front"

	DefaultMaxUploadBytes = 10 << 20
)

var errBadUpload = errors.New("bad upload")

// Options carries the optional parts of the HTTP surface.
type Options struct {
	MaxUploadBytes int64
	AllowedOrigins []string
	APIKeys        map[string]string
	RateLimiter    *middleware.RateLimiter
	Metrics        *middleware.Metrics
	Checkers       map[string]middleware.HealthChecker
	Logger         *slog.Logger
}

type Router struct {
	svc       *appverif.Service
	metrics   *middleware.Metrics
	maxUpload int64
	logger    *slog.Logger
}

func NewRouter(svc *appverif.Service, opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Metrics == nil {
		opts.Metrics = middleware.NewMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	r := &Router{svc: svc, metrics: opts.Metrics, maxUpload: opts.MaxUploadBytes, logger: opts.Logger}

	mux := chi.NewRouter()
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Verification-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(middleware.Logging(opts.Logger))
	mux.Use(opts.Metrics.Middleware)
	if opts.RateLimiter != nil {
		mux.Use(opts.RateLimiter.Middleware)
	}
	mux.Use(middleware.APIKeyAuth(opts.APIKeys))

	mux.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "Go verification service running"})
	})
	mux.Get("/health", middleware.HealthHandler(opts.Checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/metrics", opts.Metrics.Handler)

	mux.Post("/verify-front", r.wrap(r.handleVerifyFront))
	mux.Route("/verifications", func(rt chi.Router) {
		rt.Get("/latest", r.wrap(r.handleLatest))
		rt.Get("/{id}", r.wrap(r.handleGet))
		rt.Get("/{id}/failures", r.wrap(r.handleFailures))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		code := statusFor(err)
		if code >= 500 {
			r.logger.Error("request failed", "path", req.URL.Path, "status", code, "error", err)
		}
		writeError(w, code, err.Error())
	}
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errBadUpload), errors.Is(err, middleware.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domai.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domai.ErrUpstream), errors.Is(err, domai.ErrEmptyResponse):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// POST /verify-front
// multipart/form-data, field id_card_front
func (r *Router) handleVerifyFront(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.maxUpload)
	if err := req.ParseMultipartForm(r.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return fmt.Errorf("%w: %v", errBadUpload, err)
	}
	if req.MultipartForm != nil {
		defer req.MultipartForm.RemoveAll()
	}

	file, header, err := req.FormFile(FrontField)
	if err != nil {
		return fmt.Errorf("%w: field %s is required", errBadUpload, FrontField)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", errBadUpload, FrontField, err)
	}
	sniffed, err := middleware.ValidateImageUpload(data)
	if err != nil {
		return err
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = sniffed
	}

	v, err := r.svc.Verify(req.Context(), appverif.VerifyCommand{
		Image:       data,
		Filename:    header.Filename,
		ContentType: contentType,
	})
	if err != nil {
		r.metrics.ObserveModelError()
		w.Header().Set("X-Verification-ID", string(v.ID))
		return err
	}
	r.metrics.ObserveVerdict(v.Result.Verdict() == domain.VerdictOriginal, v.Fallback)

	w.Header().Set("X-Verification-ID", string(v.ID))
	writeJSON(w, http.StatusOK, v.Result)
	return nil
}

// GET /verifications/latest?limit=10
func (r *Router) handleLatest(w http.ResponseWriter, req *http.Request) error {
	limit, err := middleware.ParseLimit(req.URL.Query().Get("limit"))
	if err != nil {
		return err
	}
	items, err := r.svc.Latest(req.Context(), limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*domain.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
	return nil
}

// GET /verifications/{id}
func (r *Router) handleGet(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateVerificationID(id); err != nil {
		return err
	}
	rec, err := r.svc.Get(req.Context(), domain.VerificationID(id))
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, rec)
	return nil
}

// GET /verifications/{id}/failures?limit=20
func (r *Router) handleFailures(w http.ResponseWriter, req *http.Request) error {
	id := chi.URLParam(req, "id")
	if err := middleware.ValidateVerificationID(id); err != nil {
		return err
	}
	limit, err := middleware.ParseLimit(req.URL.Query().Get("limit"))
	if err != nil {
		return err
	}
	items, err := r.svc.FailuresOf(req.Context(), domain.VerificationID(id), limit)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*failures.Failure{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"verification_id": id,
		"items":           items,
		"count":           len(items),
		"limit":           appverif.ClampLimit(limit),
	})
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
