// Package textscan locates the time token that follows a prayer label in
// free-form localized text.
package textscan

import (
	"regexp"
	"strconv"
	"strings"

	"prayertimes/internal/prayer"
)

const (
	// CommaSeparators are the latin and arabic commas.
	CommaSeparators = ",،"
	// ColonSeparators are the ascii and fullwidth colons.
	ColonSeparators = ":："

	DefaultMaxGap = 6
)

type Options struct {
	// Separators is the set of punctuation runes allowed, together with
	// whitespace, between a label and its time token.
	Separators string
	// MaxGap bounds the number of runes between a label and its time
	// token, zero means DefaultMaxGap.
	MaxGap int
}

// Scanner holds one compiled pattern per prayer. It is safe for concurrent
// use.
type Scanner struct {
	patterns map[prayer.Name]*regexp.Regexp
}

// New compiles a pattern for every name in vocab that carries at least one
// non-empty label.
func New(vocab prayer.Vocabulary, opts Options) *Scanner {
	if opts.MaxGap <= 0 {
		opts.MaxGap = DefaultMaxGap
	}
	gap := `[\s\p{Zs}` + quoteClass(opts.Separators) + `]{0,` + strconv.Itoa(opts.MaxGap) + `}`

	patterns := make(map[prayer.Name]*regexp.Regexp, len(vocab))
	for name, labels := range vocab {
		var quoted []string
		for _, l := range labels {
			if l == "" {
				continue
			}
			quoted = append(quoted, regexp.QuoteMeta(l))
		}
		if len(quoted) == 0 {
			continue
		}
		patterns[name] = regexp.MustCompile(
			`(?:` + strings.Join(quoted, "|") + `)` + gap + `(\d{1,2}:\d{1,2})(?:\D|$)`,
		)
	}
	return &Scanner{patterns: patterns}
}

// Find returns the raw time token that follows the first label occurrence
// of name. The token is not normalized.
func (s *Scanner) Find(text string, name prayer.Name) (string, bool) {
	pattern, ok := s.patterns[name]
	if !ok {
		return "", false
	}
	groups := pattern.FindStringSubmatch(text)
	if len(groups) < 2 {
		return "", false
	}
	return groups[1], true
}

// ScanAll runs Find for every known prayer name, names that were not found
// are left out of the result.
func (s *Scanner) ScanAll(text string) map[prayer.Name]string {
	out := map[prayer.Name]string{}
	for _, name := range prayer.Names {
		token, ok := s.Find(text, name)
		if ok {
			out[name] = token
		}
	}
	return out
}

// Into records every token found in text into p, names already present in
// p are left untouched.
func (s *Scanner) Into(p prayer.PartialSchedule, text string) {
	for name, token := range s.ScanAll(text) {
		if _, ok := p.Times[name]; ok {
			continue
		}
		p.Record(name, token)
	}
}

func quoteClass(runes string) string {
	var out strings.Builder
	for _, r := range runes {
		switch r {
		case '\\', ']', '[', '^', '-':
			out.WriteRune('\\')
		}
		out.WriteRune(r)
	}
	return out.String()
}
