package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driving"
	"github.com/Jasgro/decipher-finetune/internal/logger"
)

// DefaultConcurrency bounds parallel downloads when the request does not
// set a limit.
const DefaultConcurrency = 3

// runKindFetch labels fetch batches in the run store.
const runKindFetch = "fetch"

// Ensure FetchService implements the interface.
var _ driving.FetchOrchestrator = (*FetchService)(nil)

// FetchService downloads survey XML exports in bounded-concurrency
// batches, resolving titles against the listing endpoint first.
type FetchService struct {
	api   driven.SurveyAPI
	files driven.FileStore
	runs  driven.RunStore
}

// NewFetchService creates a fetch orchestrator. The run store is
// optional; a nil store disables run bookkeeping and resume.
func NewFetchService(api driven.SurveyAPI, files driven.FileStore, runs driven.RunStore) *FetchService {
	return &FetchService{
		api:   api,
		files: files,
		runs:  runs,
	}
}

// target is one survey to download after title resolution.
type target struct {
	// item is the user-facing identifier for reporting: the requested
	// title, or the requested path.
	item  string
	path  string
	title string
}

// Fetch downloads every requested survey. Unresolvable titles and
// per-survey download failures become skips; an authentication failure
// aborts the whole batch since every remaining request would fail the
// same way.
func (s *FetchService) Fetch(ctx context.Context, req driving.FetchRequest) (*domain.BatchReport, error) {
	if len(req.Titles) == 0 && len(req.Paths) == 0 {
		return nil, fmt.Errorf("%w: no surveys requested", domain.ErrInvalidInput)
	}
	if req.OutputDir == "" {
		return nil, fmt.Errorf("%w: output directory is required", domain.ErrInvalidInput)
	}

	concurrency := req.Concurrency
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}

	report := &domain.BatchReport{Requested: len(req.Titles) + len(req.Paths)}

	targets, err := s.resolve(ctx, req, report)
	if err != nil {
		return nil, err
	}

	runID, done, err := s.startRun(ctx, req.ResumeRunID)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for _, tgt := range targets {
		if done[tgt.item] {
			logger.Debug("skipping %s: already downloaded in run %s", tgt.item, runID)
			mu.Lock()
			report.AddSuccess()
			mu.Unlock()
			continue
		}

		tgt := tgt
		g.Go(func() error {
			skip, err := s.download(gctx, tgt, req.OutputDir, runID)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			if skip != nil {
				report.Skips = append(report.Skips, *skip)
			} else {
				report.AddSuccess()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return report, err
	}

	if s.runs != nil {
		if err := s.runs.FinishRun(ctx, runID); err != nil {
			logger.Warn("failed to finish run %s: %v", runID, err)
		}
	}

	logger.Info("fetch complete: %d succeeded, %d skipped", report.Succeeded, report.Skipped())
	return report, nil
}

// resolve turns requested titles into survey paths via the listing
// endpoint. Titles matching no survey or more than one survey become
// skips; direct paths pass through untouched.
func (s *FetchService) resolve(ctx context.Context, req driving.FetchRequest, report *domain.BatchReport) ([]target, error) {
	targets := make([]target, 0, len(req.Titles)+len(req.Paths))

	if len(req.Titles) > 0 {
		surveys, err := s.api.ListSurveys(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("listing surveys: %w", err)
		}

		byTitle := make(map[string][]domain.Survey, len(surveys))
		for _, sv := range surveys {
			key := domain.NormalizeTitle(sv.Title)
			byTitle[key] = append(byTitle[key], sv)
		}

		for _, title := range req.Titles {
			matches := byTitle[domain.NormalizeTitle(title)]
			switch len(matches) {
			case 0:
				logger.Warn("no survey titled %q", title)
				report.AddSkip(title, domain.SkipNotFound, "no survey with this title")
			case 1:
				targets = append(targets, target{item: title, path: matches[0].Path, title: matches[0].Title})
			default:
				logger.Warn("title %q matches %d surveys, skipping", title, len(matches))
				report.AddSkip(title, domain.SkipAmbiguous,
					fmt.Sprintf("%v: %d surveys share this title", domain.ErrAmbiguousTitle, len(matches)))
			}
		}
	}

	for _, path := range req.Paths {
		sv := domain.Survey{Path: path}
		targets = append(targets, target{item: path, path: path, title: sv.ID()})
	}

	return targets, nil
}

// startRun opens run bookkeeping. With a resume identifier the existing
// run is continued and its succeeded items are skipped.
func (s *FetchService) startRun(ctx context.Context, resumeRunID string) (string, map[string]bool, error) {
	if s.runs == nil {
		return "", nil, nil
	}

	if resumeRunID != "" {
		done, err := s.runs.SucceededItems(ctx, resumeRunID)
		if err != nil {
			return "", nil, fmt.Errorf("loading run %s: %w", resumeRunID, err)
		}
		logger.Info("resuming run %s: %d surveys already downloaded", resumeRunID, len(done))
		return resumeRunID, done, nil
	}

	runID, err := s.runs.CreateRun(ctx, runKindFetch)
	if err != nil {
		return "", nil, fmt.Errorf("creating run: %w", err)
	}
	return runID, nil, nil
}

// download fetches one survey and writes it atomically. Auth failures
// are returned as errors and abort the batch; everything else becomes a
// skip.
func (s *FetchService) download(ctx context.Context, tgt target, outputDir, runID string) (*domain.Skip, error) {
	data, err := s.api.DownloadSurveyXML(ctx, tgt.path)
	if err != nil {
		if errors.Is(err, domain.ErrAuthFailed) {
			return nil, err
		}

		skip := classifyDownloadError(tgt.item, err)
		logger.Warn("skipping %s: %v", tgt.item, err)
		s.recordItem(ctx, runID, tgt.item, driven.ItemSkipped, skip.Detail)
		return &skip, nil
	}

	sv := domain.Survey{Path: tgt.path, Title: tgt.title}
	path := filepath.Join(outputDir, domain.ExportFilename(tgt.title, sv.ID()))
	if err := s.files.WriteAtomic(path, data); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}

	logger.Debug("downloaded %s -> %s (%d bytes)", tgt.path, path, len(data))
	s.recordItem(ctx, runID, tgt.item, driven.ItemSucceeded, "")
	return nil, nil
}

func (s *FetchService) recordItem(ctx context.Context, runID, item, status, detail string) {
	if s.runs == nil {
		return
	}
	if err := s.runs.RecordItem(ctx, runID, item, status, detail); err != nil {
		logger.Warn("failed to record %s in run %s: %v", item, runID, err)
	}
}

func classifyDownloadError(item string, err error) domain.Skip {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Skip{Item: item, Reason: domain.SkipNotFound, Detail: err.Error()}
	}
	return domain.Skip{Item: item, Reason: domain.SkipTransient, Detail: err.Error()}
}
