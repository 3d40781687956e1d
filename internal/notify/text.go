package notify

import (
	"regexp"
	"strings"
)

var (
	brRe      = regexp.MustCompile(`(?i)<br\s*/?>`)
	pCloseRe  = regexp.MustCompile(`(?i)</p>`)
	tagRe     = regexp.MustCompile(`<[^>]+>`)
	blankRuns = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText downgrades the HTML report body to plain text for chat
// channels that cannot render HTML.
func HTMLToText(html string) string {
	text := brRe.ReplaceAllString(html, "\n")
	text = pCloseRe.ReplaceAllString(text, "\n\n")
	text = tagRe.ReplaceAllString(text, "")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
