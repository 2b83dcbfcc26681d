package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurveyID(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		expected string
	}{
		{
			name:     "nested path",
			path:     "selfserve/31c4/250741",
			expected: "250741",
		},
		{
			name:     "trailing slash",
			path:     "selfserve/31c4/250741/",
			expected: "250741",
		},
		{
			name:     "single segment",
			path:     "250741",
			expected: "250741",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := Survey{Path: tc.path}
			assert.Equal(t, tc.expected, s.ID())
		})
	}
}

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "unsafe characters",
			title:    `Brand Tracker: Q3/Q4 "Wave 2"`,
			expected: "brand-tracker-q3-q4-wave-2",
		},
		{
			name:     "collapses whitespace and dashes",
			title:    "Customer  Satisfaction -- 2024",
			expected: "customer-satisfaction-2024",
		},
		{
			name:     "already clean",
			title:    "simple",
			expected: "simple",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeTitle(tc.title))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	assert.Equal(t, "Customer Satisfaction 2024", NormalizeTitle("  Customer   Satisfaction\t2024 "))
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename("Brand Tracker Wave 2", "250741")
	assert.Equal(t, "brand-tracker-wave-2--250741.survey.xml", got)
}
