package driven

import (
	"context"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
)

// SurveyAPI is the survey platform client. The implementation handles
// authentication, rate limiting and bounded retries internally; callers
// see either a result, a typed API error, or a context error.
type SurveyAPI interface {
	// ListSurveys returns the surveys visible to the account, optionally
	// filtered by a title query. Order follows the platform listing.
	ListSurveys(ctx context.Context, query string) ([]domain.Survey, error)

	// DownloadSurveyXML fetches the raw survey.xml export for a survey path.
	DownloadSurveyXML(ctx context.Context, surveyPath string) ([]byte, error)

	// ValidateCredentials checks the configured API key with a
	// lightweight call. Returns an error wrapping domain.ErrAuthFailed
	// when the key is rejected.
	ValidateCredentials(ctx context.Context) error
}
