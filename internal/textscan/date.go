package textscan

import (
	"regexp"
	"strings"
)

var weekdayDateRegex = regexp.MustCompile(
	`(الأحد|الاثنين|الثلاثاء|الأربعاء|الخميس|الجمعة|السبت)\s+([0-3]?\d-[0-1]?\d)`,
)

// FindDateLabel returns the first "<weekday> <day>-<month>" pair in text,
// formatted with a single space.
func FindDateLabel(text string) (string, bool) {
	groups := weekdayDateRegex.FindStringSubmatch(text)
	if len(groups) < 3 {
		return "", false
	}
	return groups[1] + " " + groups[2], true
}

var innerWhitespace = regexp.MustCompile(`\s+`)

// CollapseWhitespace trims s and replaces every whitespace run with a
// single space.
func CollapseWhitespace(s string) string {
	return innerWhitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}

// Phrase extracts the text captured by the first matching pattern, in
// order. Each pattern must have exactly one capture group.
type Phrase []*regexp.Regexp

func (p Phrase) Find(text string) (string, bool) {
	for _, pattern := range p {
		groups := pattern.FindStringSubmatch(text)
		if len(groups) < 2 {
			continue
		}
		value := CollapseWhitespace(groups[1])
		if value == "" {
			continue
		}
		return value, true
	}
	return "", false
}
