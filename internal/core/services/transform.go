package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driving"
	"github.com/Jasgro/decipher-finetune/internal/logger"
)

// Ensure TransformService implements the interface.
var _ driving.Transformer = (*TransformService)(nil)

// TransformService runs the transform pipeline stages over survey XML
// files on disk. Every stage writes new artifacts; inputs are never
// mutated, so any stage can be re-run safely.
type TransformService struct {
	files    driven.FileStore
	cleaner  driven.Cleaner
	splitter driven.Splitter
	encoder  driven.Encoder
}

// NewTransformService creates a transform service.
func NewTransformService(
	files driven.FileStore,
	cleaner driven.Cleaner,
	splitter driven.Splitter,
	encoder driven.Encoder,
) *TransformService {
	return &TransformService{
		files:    files,
		cleaner:  cleaner,
		splitter: splitter,
		encoder:  encoder,
	}
}

// CleanAll cleans every survey XML file under inputDir into outputDir,
// keeping file names. Files that fail to parse are skipped and counted;
// one bad export never aborts the batch.
func (s *TransformService) CleanAll(ctx context.Context, inputDir, outputDir string) (*domain.BatchReport, error) {
	paths, err := s.files.ListXML(inputDir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", inputDir, err)
	}

	report := &domain.BatchReport{Requested: len(paths)}

	for _, path := range paths {
		doc, err := s.readDocument(path)
		if err != nil {
			return report, err
		}

		cleaned, err := s.cleaner.Clean(ctx, doc)
		if err != nil {
			logger.Warn("skipping %s: %v", filepath.Base(path), err)
			report.AddSkip(filepath.Base(path), domain.SkipParse, err.Error())
			continue
		}

		outPath := filepath.Join(outputDir, filepath.Base(path))
		if err := s.files.WriteAtomic(outPath, cleaned.Raw); err != nil {
			return report, fmt.Errorf("writing %s: %w", outPath, err)
		}
		report.AddSuccess()
	}

	logger.Info("clean complete: %d succeeded, %d skipped", report.Succeeded, report.Skipped())
	return report, nil
}

// SplitAll extracts question records from every cleaned XML file under
// inputDir, in file name order. Convention mismatches within a document
// are carried into the report without discarding the document's other
// questions.
func (s *TransformService) SplitAll(ctx context.Context, inputDir string) ([]domain.Question, *domain.BatchReport, error) {
	paths, err := s.files.ListXML(inputDir)
	if err != nil {
		return nil, nil, fmt.Errorf("listing %s: %w", inputDir, err)
	}

	report := &domain.BatchReport{Requested: len(paths)}
	var questions []domain.Question

	for _, path := range paths {
		doc, err := s.readDocument(path)
		if err != nil {
			return nil, report, err
		}

		res, err := s.splitter.Split(ctx, doc)
		if err != nil {
			logger.Warn("skipping %s: %v", filepath.Base(path), err)
			report.AddSkip(filepath.Base(path), domain.SkipParse, err.Error())
			continue
		}

		questions = append(questions, res.Questions...)
		report.Skips = append(report.Skips, res.Mismatches...)
		report.AddSuccess()
	}

	logger.Info("split complete: %d question(s) from %d file(s)", len(questions), report.Succeeded)
	return questions, report, nil
}

// EncodeAll encodes questions into conversation examples. Questions
// without usable content are skipped and counted.
func (s *TransformService) EncodeAll(ctx context.Context, questions []domain.Question) ([]domain.ConversationExample, *domain.BatchReport, error) {
	report := &domain.BatchReport{Requested: len(questions)}
	examples := make([]domain.ConversationExample, 0, len(questions))

	for _, q := range questions {
		ex, err := s.encoder.Encode(ctx, q)
		if err != nil {
			if errors.Is(err, domain.ErrEmptyQuestion) {
				logger.Debug("skipping %s: no usable content", q.ID)
				report.AddSkip(q.ID, domain.SkipEmpty, err.Error())
				continue
			}
			return nil, report, fmt.Errorf("encoding %s: %w", q.ID, err)
		}

		examples = append(examples, *ex)
		report.AddSuccess()
	}

	logger.Info("encode complete: %d example(s), %d skipped", len(examples), report.Skipped())
	return examples, report, nil
}

func (s *TransformService) readDocument(path string) (*domain.SurveyDocument, error) {
	raw, err := s.files.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &domain.SurveyDocument{
		SurveyID: surveyIDFromPath(path),
		Raw:      raw,
	}, nil
}

// surveyIDFromPath recovers the survey identifier from an export file
// name of the form <sanitized-title>--<id>.survey.xml. Files named any
// other way use the whole base name.
func surveyIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".survey.xml")
	base = strings.TrimSuffix(base, ".xml")
	if _, id, found := strings.Cut(base, "--"); found {
		return id
	}
	return base
}
