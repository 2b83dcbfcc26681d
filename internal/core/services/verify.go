package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driving"
	"github.com/Jasgro/decipher-finetune/internal/logger"
)

// ResidualCheck reports whether raw markup still carries namespace
// declarations the cleaner should have removed.
type ResidualCheck func(raw []byte) bool

// Ensure VerifyService implements the interface.
var _ driving.Verifier = (*VerifyService)(nil)

// VerifyService re-checks cleaned output: cleaning must be idempotent
// and stripped namespaces must not reappear.
type VerifyService struct {
	files    driven.FileStore
	cleaner  driven.Cleaner
	residual ResidualCheck
}

// NewVerifyService creates a verify service. A nil residual check
// disables the residual-declaration scan.
func NewVerifyService(files driven.FileStore, cleaner driven.Cleaner, residual ResidualCheck) *VerifyService {
	return &VerifyService{
		files:    files,
		cleaner:  cleaner,
		residual: residual,
	}
}

// VerifyCleaned re-cleans every file under dir and reports documents
// whose second pass changed them or that still carry stripped
// declarations.
func (s *VerifyService) VerifyCleaned(ctx context.Context, dir string) (*driving.VerifyResult, error) {
	paths, err := s.files.ListXML(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	result := &driving.VerifyResult{}

	for _, path := range paths {
		raw, err := s.files.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		result.Checked++

		name := filepath.Base(path)

		cleaned, err := s.cleaner.Clean(ctx, &domain.SurveyDocument{SurveyID: surveyIDFromPath(path), Raw: raw})
		if err != nil {
			logger.Warn("%s no longer parses: %v", name, err)
			result.NotIdempotent = append(result.NotIdempotent, name)
			continue
		}
		if !bytes.Equal(raw, cleaned.Raw) {
			result.NotIdempotent = append(result.NotIdempotent, name)
		}

		if s.residual != nil && s.residual(raw) {
			result.ResidualDeclarations = append(result.ResidualDeclarations, name)
		}
	}

	return result, nil
}
