package domain

import (
	"iter"
	"regexp"
	"strings"
)

// SectionHeader opens the accident subsection when it starts a line.
const SectionHeader = "ACCIDENT"

// wordRe tells content lines from section terminators: a line with no word
// character at all closes the section.
var wordRe = regexp.MustCompile(`\w`)

// AccidentLines yields the lines that fall inside ACCIDENT sections of lines.
//
// A section starts after a line beginning with [SectionHeader] and ends at the
// next line without a word character; neither boundary line is yielded.
// Sections may repeat, so concatenated reports are all captured. Input that
// ends mid-section yields whatever was seen.
func AccidentLines(lines iter.Seq[Line]) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		inSection := false
		for line := range lines {
			if !inSection {
				inSection = strings.HasPrefix(line.Text, SectionHeader)
				continue
			}
			if !wordRe.MatchString(line.Text) {
				inSection = false
				continue
			}
			if !yield(line) {
				return
			}
		}
	}
}
