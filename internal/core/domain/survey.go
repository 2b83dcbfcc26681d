package domain

import (
	"regexp"
	"strings"
	"time"
)

// Survey identifies a survey available on the platform, as returned by
// the listing endpoint.
type Survey struct {
	// Path is the API path of the survey (e.g. "selfserve/31c4/250741").
	Path string

	// Title is the human-readable survey title.
	Title string

	// CreatedAt is when the survey was created, if the listing reports it.
	CreatedAt time.Time
}

// ID returns the last path segment, which is the survey identifier.
func (s Survey) ID() string {
	path := strings.TrimRight(s.Path, "/")
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}

// SurveyDocument is one survey's XML export. The fetch pipeline creates
// one per downloaded survey; the cleaning stage consumes it and produces
// a new SurveyDocument with namespaces normalised. Documents are never
// mutated in place.
type SurveyDocument struct {
	// SurveyID identifies the source survey.
	SurveyID string

	// Raw is the XML markup.
	Raw []byte

	// Namespaces maps namespace prefix to URI as declared at the
	// document root. Empty for documents without declarations.
	Namespaces map[string]string
}

var unsafeFilenameChars = regexp.MustCompile(`[/\\:*?"<>|]`)
var filenameSeparators = regexp.MustCompile(`[-\s]+`)

// SanitizeTitle converts a survey title into a filesystem-safe name:
// unsafe characters become dashes, runs of whitespace and dashes
// collapse, and the result is lowercased.
func SanitizeTitle(title string) string {
	s := unsafeFilenameChars.ReplaceAllString(title, "-")
	s = filenameSeparators.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	return strings.ToLower(s)
}

// NormalizeTitle collapses internal whitespace for exact title matching.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(title), " ")
}

// ExportFilename is the on-disk name for a downloaded survey export,
// derived from the sanitised title and the survey identifier.
func ExportFilename(title, surveyID string) string {
	return SanitizeTitle(title) + "--" + surveyID + ".survey.xml"
}
