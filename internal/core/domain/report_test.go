package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchReport(t *testing.T) {
	r := &BatchReport{Requested: 3}
	r.AddSuccess()
	r.AddSuccess()
	r.AddSkip("missing survey", SkipNotFound, "HTTP 404")

	assert.Equal(t, 2, r.Succeeded)
	assert.Equal(t, 1, r.Skipped())
	assert.Equal(t, "missing survey: not_found (HTTP 404)", r.Skips[0].String())
}

func TestSkipStringWithoutDetail(t *testing.T) {
	s := Skip{Item: "Q5", Reason: SkipConvention}
	assert.Equal(t, "Q5: convention_mismatch", s.String())
}

func TestDatasetSummaryTopSurveys(t *testing.T) {
	s := DatasetSummary{
		PerSurvey: map[string]int{
			"a": 2,
			"b": 5,
			"c": 2,
			"d": 1,
		},
	}

	assert.Equal(t, []string{"b", "a", "c"}, s.TopSurveys(3))
	assert.Equal(t, []string{"b", "a", "c", "d"}, s.TopSurveys(10))
}

func TestQuestionHasContent(t *testing.T) {
	assert.False(t, Question{}.HasContent())
	assert.False(t, Question{Label: "What?"}.HasContent())
	assert.False(t, Question{Section: "<radio/>"}.HasContent())
	assert.True(t, Question{Label: "What?", Section: "<radio/>"}.HasContent())
	assert.True(t, Question{Label: "What?", Options: []string{"Yes"}}.HasContent())
}

func TestQuestionIsSubItem(t *testing.T) {
	assert.True(t, Question{ID: "Q5_1", Parent: "Q5", Index: 1}.IsSubItem())
	assert.False(t, Question{ID: "Q5"}.IsSubItem())
}

func TestConversationExampleTurnText(t *testing.T) {
	e := ConversationExample{Turns: []Turn{
		{Role: RoleHuman, Text: "prompt"},
		{Role: RoleAssistant, Text: "response"},
	}}

	assert.Equal(t, "prompt", e.TurnText(RoleHuman))
	assert.Equal(t, "response", e.TurnText(RoleAssistant))
	assert.Equal(t, "", e.TurnText(RoleSystem))
}
