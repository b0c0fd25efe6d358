package app

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

const maxCleanPasses = 5

var textPolicy = bluemonday.StrictPolicy()

// cleanText strips markup from user supplied text and trims it. Entities are
// decoded and sanitized again until the text is stable, so encoded markup
// cannot come back as live HTML.
func cleanText(s string) string {
	for i := 0; i < maxCleanPasses; i++ {
		cleaned := html.UnescapeString(textPolicy.Sanitize(s))
		if cleaned == s {
			return strings.TrimSpace(cleaned)
		}
		s = cleaned
	}
	// still changing, keep the escaped form
	return strings.TrimSpace(textPolicy.Sanitize(s))
}

func cleanImages(images []string) []string {
	out := make([]string, 0, len(images))
	for _, image := range images {
		if image = strings.TrimSpace(image); image != "" {
			out = append(out, image)
		}
	}
	return out
}
