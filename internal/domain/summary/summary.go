// Package summary holds the summarizer output and the parser for its
// labeled reply format.
package summary

import (
	"regexp"
	"strings"
)

// Summary is the summarizer's view of a query. Both fields may be empty
// but are never absent.
type Summary struct {
	text       string
	resolution string
}

// New creates a Summary from trimmed text.
func New(text, resolution string) Summary {
	return Summary{text: strings.TrimSpace(text), resolution: strings.TrimSpace(resolution)}
}

// Text returns the issue summary.
func (s Summary) Text() string { return s.text }

// Resolution returns the recommended resolution.
func (s Summary) Resolution() string { return s.resolution }

// IsEmpty reports whether neither field carries content.
func (s Summary) IsEmpty() bool { return s.text == "" && s.resolution == "" }

// labelRe matches a section label at the start of a line. Markdown emphasis
// and heading marks around the label are tolerated.
var labelRe = regexp.MustCompile(`(?im)^[ \t*#_]*(summary|resolution)[ \t*_]*:[ \t*_]*`)

// Parse splits a summarizer reply into summary and resolution.
//
// Grammar: the reply is a sequence of sections, each introduced by a line
// starting with "Summary:" or "Resolution:" (case-insensitive). Text before
// the first label belongs to the summary when no "Summary:" section exists.
// Unlabeled replies are entirely summary. The first section of each kind
// wins; a missing resolution is the empty string.
func Parse(reply string) Summary {
	matches := labelRe.FindAllStringSubmatchIndex(reply, -1)
	if len(matches) == 0 {
		return New(reply, "")
	}

	var text, resolution string
	var haveText, haveResolution bool
	for i, m := range matches {
		end := len(reply)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := reply[m[1]:end]
		switch strings.ToLower(reply[m[2]:m[3]]) {
		case "summary":
			if !haveText {
				text, haveText = body, true
			}
		case "resolution":
			if !haveResolution {
				resolution, haveResolution = body, true
			}
		}
	}
	if !haveText {
		text = reply[:matches[0][0]]
	}
	return New(text, resolution)
}

// Usage is the token accounting of one summarizer call.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
}

// Total returns prompt plus completion tokens.
func (u Usage) Total() int { return u.PromptTokens + u.CompletionTokens }
