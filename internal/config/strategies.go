package config

import (
	"fmt"

	"github.com/antzucaro/matchr"
)

const (
	StrategyStaticHtml      = "static_html"
	StrategyRenderedBrowser = "rendered_browser"
	StrategyJsonApi         = "json_api"
)

// KnownStrategies is every strategy name the registry can build, in the
// default priority order.
var KnownStrategies = []string{
	StrategyStaticHtml,
	StrategyRenderedBrowser,
	StrategyJsonApi,
}

// UnknownStrategyError is returned when the plan names a strategy that
// does not exist. Suggestion is empty when nothing is close enough.
type UnknownStrategyError struct {
	Name       string
	Suggestion string
}

func (e *UnknownStrategyError) Error() string {
	if e.Suggestion == "" {
		return fmt.Sprintf("unknown strategy %q", e.Name)
	}
	return fmt.Sprintf("unknown strategy %q, did you mean %q?", e.Name, e.Suggestion)
}

const suggestionThreshold = 0.7

// Suggest returns the known name most similar to name.
func Suggest(name string, known []string) (string, bool) {
	best := ""
	bestScore := 0.0
	for _, k := range known {
		score := matchr.JaroWinkler(name, k, false)
		if score > bestScore {
			best = k
			bestScore = score
		}
	}
	if bestScore < suggestionThreshold {
		return "", false
	}
	return best, true
}

// CheckStrategyNames fails on the first unknown or repeated name.
func CheckStrategyNames(names []string, known []string) error {
	if len(names) == 0 {
		return fmt.Errorf("strategy plan is empty")
	}
	seen := map[string]bool{}
	for _, name := range names {
		found := false
		for _, k := range known {
			if k == name {
				found = true
				break
			}
		}
		if !found {
			suggestion, _ := Suggest(name, known)
			return &UnknownStrategyError{Name: name, Suggestion: suggestion}
		}
		if seen[name] {
			return fmt.Errorf("strategy %q is listed more than once", name)
		}
		seen[name] = true
	}
	return nil
}
