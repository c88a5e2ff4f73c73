package candidate

import (
	"regexp"
	"time"
)

// templatePattern matches markup such as <date format="2006/01/02"/>.
// The format is a Go time layout.
var templatePattern = regexp.MustCompile(`<date\s+format="([^"]*)"\s*/>`)

// HasTemplate reports whether text contains template markup.
func HasTemplate(text string) bool {
	return templatePattern.MatchString(text)
}

// ParseTemplate expands template markup in the candidate text using now.
// Candidates without markup are returned unchanged.
func ParseTemplate(c Candidate, now time.Time) Candidate {
	if !HasTemplate(c.Text) {
		return c
	}
	out := c
	out.Text = templatePattern.ReplaceAllStringFunc(c.Text, func(m string) string {
		layout := templatePattern.FindStringSubmatch(m)[1]
		return now.Format(layout)
	})
	return out
}
