package services

import (
	"context"
	"fmt"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driving"
)

// DatasetDecoder parses a serialised dataset back into examples. The
// concrete wire format lives in the encoder adapter; the service only
// folds over the result.
type DatasetDecoder func(data []byte) ([]*domain.ConversationExample, error)

// Ensure StatsService implements the interface.
var _ driving.StatsService = (*StatsService)(nil)

// StatsService derives aggregate statistics from a produced dataset
// file. Counts are always recomputed from the file, never cached.
type StatsService struct {
	files  driven.FileStore
	decode DatasetDecoder
}

// NewStatsService creates a stats service.
func NewStatsService(files driven.FileStore, decode DatasetDecoder) *StatsService {
	return &StatsService{
		files:  files,
		decode: decode,
	}
}

// Summarize folds over the examples in the dataset file.
func (s *StatsService) Summarize(_ context.Context, dataPath string) (*domain.DatasetSummary, error) {
	raw, err := s.files.ReadFile(dataPath)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dataPath, err)
	}

	examples, err := s.decode(raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", dataPath, err)
	}

	summary := &domain.DatasetSummary{
		ExamplesProduced: len(examples),
		PerSurvey:        make(map[string]int),
	}

	for _, ex := range examples {
		summary.TotalTurns += len(ex.Turns)
		if ex.SurveyID != "" {
			summary.PerSurvey[ex.SurveyID]++
		}
		if ex.Metadata["parent"] != "" {
			summary.QuestionsSplit++
		}
	}
	summary.SurveysProcessed = len(summary.PerSurvey)

	return summary, nil
}
