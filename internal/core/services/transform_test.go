package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jasgro/decipher-finetune/internal/cleaners/namespace"
	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/encoders/conversation"
	"github.com/Jasgro/decipher-finetune/internal/splitters/question"
)

func newTransformService(files *fakeFileStore) *TransformService {
	return NewTransformService(
		files,
		namespace.New(namespace.WithStripURIs(namespace.DefaultStripURI)),
		question.New(),
		conversation.New(conversation.Options{}),
	)
}

const rawSurvey = `<survey xmlns:ns0="http://decipherinc.com/ss" xmlns:ns1="http://decipherinc.com/ss">
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

func TestCleanAll(t *testing.T) {
	files := newFakeFileStore()
	require.NoError(t, files.WriteAtomic(filepath.Join("raw", "demo--s1.survey.xml"), []byte(rawSurvey)))

	svc := newTransformService(files)
	report, err := svc.CleanAll(context.Background(), "raw", "clean")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Requested)
	assert.Equal(t, 1, report.Succeeded)
	assert.Empty(t, report.Skips)

	cleaned, err := files.ReadFile(filepath.Join("clean", "demo--s1.survey.xml"))
	require.NoError(t, err)
	assert.NotContains(t, string(cleaned), "decipherinc.com")
	assert.Contains(t, string(cleaned), `<radio label="Q1">`)
}

func TestCleanAllMalformedFileSkipped(t *testing.T) {
	files := newFakeFileStore()
	require.NoError(t, files.WriteAtomic(filepath.Join("raw", "bad--s1.survey.xml"), []byte("<survey><radio>")))
	require.NoError(t, files.WriteAtomic(filepath.Join("raw", "good--s2.survey.xml"), []byte("<survey/>")))

	svc := newTransformService(files)
	report, err := svc.CleanAll(context.Background(), "raw", "clean")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Skips, 1)
	assert.Equal(t, domain.SkipParse, report.Skips[0].Reason)
	assert.Equal(t, "bad--s1.survey.xml", report.Skips[0].Item)
	assert.False(t, files.Exists(filepath.Join("clean", "bad--s1.survey.xml")))
}

func TestSplitAll(t *testing.T) {
	files := newFakeFileStore()
	require.NoError(t, files.WriteAtomic(filepath.Join("clean", "demo--s1.survey.xml"), []byte(rawSurvey)))

	svc := newTransformService(files)
	questions, report, err := svc.SplitAll(context.Background(), "clean")

	require.NoError(t, err)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, questions, 3)
	assert.Equal(t, "Q1", questions[0].ID)
	assert.Equal(t, "Q5_1", questions[1].ID)
	assert.Equal(t, "Q5_2", questions[2].ID)
	assert.Equal(t, "s1", questions[0].SurveyID)
}

func TestEndToEndTransformProducesZeroSkips(t *testing.T) {
	files := newFakeFileStore()
	require.NoError(t, files.WriteAtomic(filepath.Join("raw", "demo--s1.survey.xml"), []byte(rawSurvey)))

	svc := newTransformService(files)
	ctx := context.Background()

	cleanReport, err := svc.CleanAll(ctx, "raw", "clean")
	require.NoError(t, err)

	questions, splitReport, err := svc.SplitAll(ctx, "clean")
	require.NoError(t, err)

	examples, encodeReport, err := svc.EncodeAll(ctx, questions)
	require.NoError(t, err)

	assert.Zero(t, cleanReport.Skipped())
	assert.Zero(t, splitReport.Skipped())
	assert.Zero(t, encodeReport.Skipped())
	assert.Len(t, examples, 3)

	for _, ex := range examples {
		assert.Equal(t, "s1", ex.SurveyID)
		assert.NotEmpty(t, ex.TurnText(domain.RoleHuman))
		assert.NotEmpty(t, ex.TurnText(domain.RoleAssistant))
	}
}

func TestEncodeAllSkipsEmptyQuestions(t *testing.T) {
	svc := newTransformService(newFakeFileStore())

	questions := []domain.Question{
		{ID: "Q1", SurveyID: "s1", Label: "Prompt", Section: "<radio/>"},
		{ID: "Q2", SurveyID: "s1"},
	}

	examples, report, err := svc.EncodeAll(context.Background(), questions)

	require.NoError(t, err)
	assert.Len(t, examples, 1)
	assert.Equal(t, 1, report.Succeeded)
	require.Len(t, report.Skips, 1)
	assert.Equal(t, domain.SkipEmpty, report.Skips[0].Reason)
	assert.Equal(t, "Q2", report.Skips[0].Item)
}

func TestSurveyIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "out/brand-tracker--proj001.survey.xml", want: "proj001"},
		{path: "proj002.survey.xml", want: "proj002"},
		{path: "out/plain.xml", want: "plain"},
	}

	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, surveyIDFromPath(tc.path))
		})
	}
}
