// Package transcript turns decoded caption segments into readable
// paragraph text and localizes caption track labels for display.
package transcript

import (
	"strings"

	"github.com/ymatsuda/captionize/pkg/models"
)

// gapThresholdMs is the silence between two segments that forces a
// paragraph break even without sentence-ending punctuation.
const gapThresholdMs = 5000

// sentenceEnders are the punctuation marks that close a paragraph.
const sentenceEnders = "。！？"

// Format converts an ordered segment sequence into paragraph text.
// A segment containing sentence-ending punctuation commits the current
// line; otherwise a gap of more than gapThresholdMs since the previous
// segment's end commits the line before the segment is appended.
// Paragraphs are joined with a blank line. Empty input yields "".
func Format(segments []models.CaptionSegment) string {
	if len(segments) == 0 {
		return ""
	}

	var lines []string
	var current strings.Builder
	var lastEndMs int64

	appendText := func(text string) {
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(text)
	}

	commit := func() {
		if line := strings.TrimSpace(current.String()); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	for _, seg := range segments {
		if strings.ContainsAny(seg.Text, sentenceEnders) {
			appendText(seg.Text)
			commit()
			lastEndMs = seg.EndMs()
			continue
		}

		if lastEndMs > 0 && seg.StartMs-lastEndMs > gapThresholdMs && current.Len() > 0 {
			commit()
		}

		appendText(seg.Text)
		lastEndMs = seg.EndMs()
	}

	commit()

	return strings.Join(lines, "\n\n")
}
