package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	storagefile "github.com/Jasgro/decipher-finetune/internal/adapters/driven/storage/file"
	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/core/ports/driven"
)

type stubSurveyAPI struct {
	surveys  []domain.Survey
	payloads map[string][]byte
}

func (s *stubSurveyAPI) ListSurveys(_ context.Context, _ string) ([]domain.Survey, error) {
	return s.surveys, nil
}

func (s *stubSurveyAPI) DownloadSurveyXML(_ context.Context, surveyPath string) ([]byte, error) {
	if data, ok := s.payloads[surveyPath]; ok {
		return data, nil
	}
	return nil, domain.ErrNotFound
}

func (s *stubSurveyAPI) ValidateCredentials(_ context.Context) error {
	return nil
}

// configureForTest wires real filesystem adapters and a stub API, and
// restores the previous wiring afterwards.
func configureForTest(t *testing.T, api driven.SurveyAPI) {
	t.Helper()

	prevConfig, prevFiles, prevRuns, prevAPI := configStore, fileStore, runStore, newSurveyAPI
	t.Cleanup(func() {
		configStore, fileStore, runStore, newSurveyAPI = prevConfig, prevFiles, prevRuns, prevAPI
	})

	Configure(Dependencies{
		Files: storagefile.NewStore(),
		NewSurveyAPI: func(_, _ string) driven.SurveyAPI {
			return api
		},
	})
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return buf.String(), err
}

const pipelineSurvey = `<survey xmlns:ns0="http://decipherinc.com/ss" xmlns:ns1="http://decipherinc.com/ss">
  <ns0:exec/>
  <ns1:exec/>
  <radio label="Q1">
    <title>Favourite colour?</title>
    <choice label="c1">Red</choice>
    <choice label="c2">Blue</choice>
  </radio>
  <radio label="Q5">
    <title>Rate each brand</title>
    <row label="Q5_1">Brand A</row>
    <row label="Q5_2">Brand B</row>
    <col label="c1">Good</col>
  </radio>
</survey>`

func TestPipelineEndToEnd(t *testing.T) {
	api := &stubSurveyAPI{
		surveys: []domain.Survey{{Path: "selfserve/9d3/proj001", Title: "Brand Tracker"}},
		payloads: map[string][]byte{
			"selfserve/9d3/proj001": []byte(pipelineSurvey),
		},
	}
	configureForTest(t, api)
	t.Setenv(envAPIKey, "test-key")

	dir := t.TempDir()
	rawDir := filepath.Join(dir, "raw")
	cleanDir := filepath.Join(dir, "clean")
	questionsFile := filepath.Join(dir, "questions.jsonl")
	datasetFile := filepath.Join(dir, "dataset.jsonl")

	out, err := execute(t, "fetch", "Brand Tracker", "--out", rawDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 succeeded, 0 skipped")

	out, err = execute(t, "clean", "--in", rawDir, "--out", cleanDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "1 succeeded, 0 skipped")

	cleaned, err := os.ReadFile(filepath.Join(cleanDir, "brand-tracker--proj001.survey.xml"))
	require.NoError(t, err)
	assert.NotContains(t, string(cleaned), "decipherinc.com")

	out, err = execute(t, "split", "--in", cleanDir, "--out", questionsFile)
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 question(s)")

	out, err = execute(t, "convert", "--in", questionsFile, "--out", datasetFile, "--metadata")
	require.NoError(t, err, out)
	assert.Contains(t, out, "3 example(s)")

	out, err = execute(t, "stats", "--data", datasetFile)
	require.NoError(t, err, out)
	assert.Contains(t, out, "Examples:")
	assert.Contains(t, out, "3")

	out, err = execute(t, "verify", "--in", cleanDir)
	require.NoError(t, err, out)
	assert.Contains(t, out, "OK")
}

func TestFetchMissingSurveyExitsZero(t *testing.T) {
	configureForTest(t, &stubSurveyAPI{})
	t.Setenv(envAPIKey, "test-key")

	outDir := t.TempDir()
	out, err := execute(t, "fetch", "--id", "p/gone", "--out", outDir)

	require.NoError(t, err)
	assert.Contains(t, out, "0 succeeded, 1 skipped")

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchWithoutCredentialsFails(t *testing.T) {
	configureForTest(t, &stubSurveyAPI{})
	t.Setenv(envAPIKey, "")

	_, err := execute(t, "fetch", "--id", "p/1", "--out", t.TempDir())
	assert.ErrorIs(t, err, domain.ErrMissingCredential)
}
