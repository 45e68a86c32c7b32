package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"instalytics/internal/refresher"
	"instalytics/pkg/analytics"
	"instalytics/pkg/config"
	errs "instalytics/pkg/errors"
	"instalytics/pkg/instagram"
	"instalytics/pkg/logger"
)

// Analysis modes accepted by Analyze
const (
	ModeProfile = "profile"
	ModePost    = "post"
)

// Fetcher retrieves raw records from the provider
type Fetcher interface {
	FetchProfile(ctx context.Context, handle string) (*instagram.RawRecord, error)
	FetchPost(ctx context.Context, shortcode string) (*instagram.RawRecord, error)
}

// AnalyzeRequest names the account (or post) to analyze. AccountRef accepts
// a profile URL, an @-handle or a bare handle; Mode defaults to profile.
type AnalyzeRequest struct {
	AccountRef string `json:"accountRef" binding:"required"`
	Mode       string `json:"mode,omitempty"`
}

// AnalyzeResult is the uniform envelope every analysis run produces:
// either a report or a typed error, never both. Err keeps the typed form
// for status mapping; Error/ErrorType are what serialize.
type AnalyzeResult struct {
	Success   bool                 `json:"success"`
	Data      *analytics.Analytics `json:"data,omitempty"`
	Error     string               `json:"error,omitempty"`
	ErrorType errs.ErrorType       `json:"errorType,omitempty"`
	Err       *errs.Error          `json:"-"`
}

// Service runs the full resolve-fetch-normalize-aggregate pipeline
type Service struct {
	fetcher    Fetcher
	normalizer *analytics.Normalizer
	aggregator *analytics.Aggregator
	cfg        *config.Config
	logger     logger.Logger
}

// NewService creates a pipeline Service
func NewService(cfg *config.Config, fetcher Fetcher, log logger.Logger) *Service {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Service{
		fetcher:    fetcher,
		normalizer: analytics.NewNormalizer(&cfg.Analytics),
		aggregator: analytics.NewAggregator(cfg.Analytics),
		cfg:        cfg,
		logger:     log,
	}
}

// Analyze runs one analysis and wraps the outcome in the result envelope
func (s *Service) Analyze(ctx context.Context, req AnalyzeRequest) AnalyzeResult {
	var (
		report *analytics.Analytics
		err    error
	)

	switch req.Mode {
	case ModePost:
		report, err = s.runPost(ctx, req.AccountRef)
	case ModeProfile, "":
		report, err = s.RunAccount(ctx, req.AccountRef)
	default:
		err = &errs.Error{
			Type:    errs.ErrorTypeResolution,
			Message: "unknown analysis mode: " + req.Mode,
		}
	}

	if err != nil {
		typed := asTypedError(err)
		return AnalyzeResult{
			Success:   false,
			Error:     typed.Message,
			ErrorType: typed.Type,
			Err:       typed,
		}
	}
	return AnalyzeResult{Success: true, Data: report}
}

// RunAccount resolves ref to a handle, fetches the profile record and
// derives a full report from its post window.
func (s *Service) RunAccount(ctx context.Context, ref string) (*analytics.Analytics, error) {
	handle, err := instagram.ResolveAccountRef(ref)
	if err != nil {
		return nil, err
	}

	log := s.logger.WithField("handle", handle)
	log.Debug("Running account analysis")

	record, err := s.fetcher.FetchProfile(ctx, handle)
	if err != nil {
		return nil, err
	}

	return s.buildReport(record, handle), nil
}

// runPost analyzes the single post behind a post URL or shortcode
func (s *Service) runPost(ctx context.Context, ref string) (*analytics.Analytics, error) {
	shortcode, err := instagram.ResolvePostRef(ref)
	if err != nil {
		return nil, err
	}

	record, err := s.fetcher.FetchPost(ctx, shortcode)
	if err != nil {
		return nil, err
	}

	return s.buildReport(record, record.Username), nil
}

func (s *Service) buildReport(record *instagram.RawRecord, fallbackHandle string) *analytics.Analytics {
	profile, posts := s.normalizer.Normalize(record, fallbackHandle)
	stats := s.aggregator.ComputeStats(profile, posts)

	return &analytics.Analytics{
		ID:          uuid.NewString(),
		Profile:     profile,
		Posts:       posts,
		Stats:       stats,
		GeneratedAt: time.Now().UTC(),
	}
}

// RefreshAll analyzes every ref concurrently and returns the successful
// reports keyed by handle, along with the success count. A failed account
// is logged and skipped; it never aborts the batch.
func (s *Service) RefreshAll(ctx context.Context, refs []string) (map[string]*analytics.Analytics, int) {
	reports := make(map[string]*analytics.Analytics, len(refs))
	if len(refs) == 0 {
		return reports, 0
	}

	// Dedupe refs that alias the same account ("natgeo", "@natgeo", the
	// profile URL) so each handle runs once and the success count always
	// equals the number of handles in the result map.
	seen := make(map[string]bool, len(refs))
	jobs := make([]refresher.RefreshJob, 0, len(refs))
	for _, ref := range refs {
		handle, err := instagram.ResolveAccountRef(ref)
		if err != nil {
			// Label unresolvable refs by the raw ref so the
			// failure is still attributable in logs
			handle = ref
		}
		if seen[handle] {
			continue
		}
		seen[handle] = true
		jobs = append(jobs, refresher.RefreshJob{Handle: handle, Ref: ref})
	}

	workers := s.cfg.Analytics.RefreshWorkers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(jobs) {
		workers = len(jobs)
	}

	pool := refresher.NewWorkerPool(ctx, workers, s, s.logger)
	pool.Start()

	go func() {
		defer pool.Stop()
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				return
			}
		}
	}()

	for result := range pool.Results() {
		if result.Err != nil {
			s.logger.WarnWithFields("Account refresh failed", map[string]interface{}{
				"handle": result.Job.Handle,
				"error":  result.Err.Error(),
			})
			continue
		}
		reports[result.Report.Profile.Handle] = result.Report
	}

	return reports, len(reports)
}

// asTypedError coerces any error into the typed form the envelope carries
func asTypedError(err error) *errs.Error {
	if typed, ok := err.(*errs.Error); ok {
		return typed
	}
	return &errs.Error{Type: errs.ErrorTypeUnknown, Message: err.Error()}
}
