package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain text", "  Road bike ", "Road bike"},
		{"tags", "<b>bike</b>", "bike"},
		{"ampersand survives", "Chairs & tables", "Chairs & tables"},
		{"less-than survives", "size < 40", "size < 40"},
		{"encoded script", "&lt;script&gt;alert(1)&lt;/script&gt;", ""},
		{"encoded image handler", "&lt;img src=x onerror=alert(1)&gt;Chair", "Chair"},
		{"double encoded tag", "&amp;lt;b&amp;gt;Desk&amp;lt;/b&amp;gt;", "Desk"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned := cleanText(tt.input)
			assert.Equal(t, tt.expected, cleaned)
			assert.NotContains(t, cleaned, "<script")
			assert.NotContains(t, cleaned, "<img")
		})
	}
}
