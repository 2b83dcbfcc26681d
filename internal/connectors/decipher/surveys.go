package decipher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
)

// Ensure Client implements the interface.
var _ driven.SurveyAPI = (*Client)(nil)

// surveyListing mirrors one entry of the listing endpoint response.
type surveyListing struct {
	Title     string `json:"title"`
	Path      string `json:"path"`
	CreatedOn string `json:"createdOn"`
}

// createdOnLayout is the timestamp format used by the listing endpoint.
const createdOnLayout = "2006-01-02 15:04:05"

// ListSurveys returns the surveys visible to the account. A non-empty
// query filters the listing server-side by title.
func (c *Client) ListSurveys(ctx context.Context, query string) ([]domain.Survey, error) {
	params := url.Values{}
	if query != "" {
		params.Set("query", query)
	}

	body, err := c.get(ctx, "/rh/companies/all/surveys", params)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}

	var listings []surveyListing
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("decode survey listing: %w", err)
	}

	surveys := make([]domain.Survey, 0, len(listings))
	for _, l := range listings {
		s := domain.Survey{Title: l.Title, Path: l.Path}
		if l.CreatedOn != "" {
			if t, err := time.Parse(createdOnLayout, l.CreatedOn); err == nil {
				s.CreatedAt = t
			}
		}
		surveys = append(surveys, s)
	}
	return surveys, nil
}

// DownloadSurveyXML fetches the raw survey.xml export for a survey path.
func (c *Client) DownloadSurveyXML(ctx context.Context, surveyPath string) ([]byte, error) {
	encoded := url.PathEscape(surveyPath)
	body, err := c.get(ctx, "/surveys/"+encoded+"/files/survey.xml", nil)
	if err != nil {
		return nil, fmt.Errorf("download survey %s: %w", surveyPath, err)
	}
	return body, nil
}

// ValidateCredentials checks the API key with a listing call.
func (c *Client) ValidateCredentials(ctx context.Context) error {
	if _, err := c.get(ctx, "/rh/companies/all/surveys", nil); err != nil {
		return fmt.Errorf("validate credentials: %w", err)
	}
	return nil
}
