package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jasgro/decipher-finetune/internal/core/domain"
	"github.com/Jasgro/decipher-finetune/internal/encoders/conversation"
)

func writeDataset(t *testing.T, files *fakeFileStore, path string, examples []*domain.ConversationExample) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, conversation.WriteJSONL(&buf, conversation.FormatShareGPT, examples))
	require.NoError(t, files.WriteAtomic(path, buf.Bytes()))
}

func shareGPTDecoder(data []byte) ([]*domain.ConversationExample, error) {
	return conversation.ReadDataset(bytes.NewReader(data), conversation.FormatShareGPT)
}

func TestSummarize(t *testing.T) {
	examples := []*domain.ConversationExample{
		{
			Turns: []domain.Turn{
				{Role: domain.RoleHuman, Text: "q"},
				{Role: domain.RoleAssistant, Text: "a"},
			},
			Metadata: map[string]string{"survey_id": "s1", "question_id": "Q1"},
		},
		{
			Turns: []domain.Turn{
				{Role: domain.RoleHuman, Text: "q"},
				{Role: domain.RoleAssistant, Text: "a"},
			},
			Metadata: map[string]string{"survey_id": "s1", "question_id": "Q5_1", "parent": "Q5", "index": "1"},
		},
		{
			Turns: []domain.Turn{
				{Role: domain.RoleSystem, Text: "sys"},
				{Role: domain.RoleHuman, Text: "q"},
				{Role: domain.RoleAssistant, Text: "a"},
			},
			Metadata: map[string]string{"survey_id": "s2", "question_id": "Q2"},
		},
	}

	files := newFakeFileStore()
	writeDataset(t, files, "data.jsonl", examples)

	svc := NewStatsService(files, shareGPTDecoder)
	summary, err := svc.Summarize(context.Background(), "data.jsonl")

	require.NoError(t, err)
	assert.Equal(t, 3, summary.ExamplesProduced)
	assert.Equal(t, 2, summary.SurveysProcessed)
	assert.Equal(t, 1, summary.QuestionsSplit)
	assert.Equal(t, 7, summary.TotalTurns)
	assert.Equal(t, map[string]int{"s1": 2, "s2": 1}, summary.PerSurvey)
	assert.Equal(t, []string{"s1", "s2"}, summary.TopSurveys(5))
}

func TestSummarizeEmptyDataset(t *testing.T) {
	files := newFakeFileStore()
	require.NoError(t, files.WriteAtomic("data.jsonl", nil))

	svc := NewStatsService(files, shareGPTDecoder)
	summary, err := svc.Summarize(context.Background(), "data.jsonl")

	require.NoError(t, err)
	assert.Zero(t, summary.ExamplesProduced)
	assert.Zero(t, summary.SurveysProcessed)
}

func TestSummarizeMissingFile(t *testing.T) {
	svc := NewStatsService(newFakeFileStore(), shareGPTDecoder)
	_, err := svc.Summarize(context.Background(), "missing.jsonl")
	assert.Error(t, err)
}

func TestSummarizeMalformedDataset(t *testing.T) {
	files := newFakeFileStore()
	require.NoError(t, files.WriteAtomic("data.jsonl", []byte("{bad\n")))

	svc := NewStatsService(files, shareGPTDecoder)
	_, err := svc.Summarize(context.Background(), "data.jsonl")
	assert.Error(t, err)
}
