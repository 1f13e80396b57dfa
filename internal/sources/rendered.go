package sources

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"prayertimes/internal/browser"
	"prayertimes/internal/components/assert"
	"prayertimes/internal/components/diagnostics"
	"prayertimes/internal/components/telemetry"
	"prayertimes/internal/prayer"
	"prayertimes/internal/textscan"

	"go.opentelemetry.io/otel/attribute"
)

const (
	report_rendered_fetch    = "rendered_browser.fetch"
	report_rendered_validate = "rendered_browser.validate"
)

// DebugBodyFile is the diagnostic artifact written when the rendered text
// did not contain every required time.
const DebugBodyFile = "debug_body.txt"

var renderedLocality = textscan.Phrase{
	regexp.MustCompile(`(?m)أوقات الصلاة في\s*([^\n\r]+?)\s*(?:اليوم|غداً|مواقيت|$)`),
	regexp.MustCompile(`(?m)مواقيت الصلاة في\s*([^\n\r]+?)\s*(?:اليوم|غداً|$)`),
}

type RenderedBrowserOptions struct {
	UserAgent      string
	Locale         string
	Settle         time.Duration
	DismissTimeout time.Duration
	// Dismissals defaults to browser.DefaultDismissals.
	Dismissals []browser.Dismissal
	// Diagnostics receives DebugBodyFile, it can be nil.
	Diagnostics diagnostics.Output
}

// RenderedBrowser loads the page in a real browser so client side
// rendering has run, then scans the visible text.
type RenderedBrowser struct {
	name        string
	page        browser.Page
	renderer    browser.Renderer
	scanner     *textscan.Scanner
	diagnostics diagnostics.Output
	tel         telemetry.API
}

func NewRenderedBrowser(name, url string, renderer browser.Renderer, opts RenderedBrowserOptions, tel telemetry.API) RenderedBrowser {
	assert.NotEmptyStr(name)
	assert.NotEmptyStr(url)
	assert.NotNil(renderer)
	assert.NotNil(tel)

	dismissals := opts.Dismissals
	if dismissals == nil {
		dismissals = browser.DefaultDismissals
	}
	output := opts.Diagnostics
	if output == nil {
		output = diagnostics.Discard{}
	}

	return RenderedBrowser{
		name: name,
		page: browser.Page{
			URL:            url,
			UserAgent:      opts.UserAgent,
			Locale:         opts.Locale,
			Settle:         opts.Settle,
			Dismissals:     dismissals,
			DismissTimeout: opts.DismissTimeout,
		},
		renderer: renderer,
		scanner: textscan.New(prayer.ArabicVocabulary, textscan.Options{
			Separators: textscan.CommaSeparators + textscan.ColonSeparators,
		}),
		diagnostics: output,
		tel:         telemetry.NewScopedAPI("sources", tel),
	}
}

func (s RenderedBrowser) Name() string { return s.name }
func (s RenderedBrowser) URL() string  { return s.page.URL }

func (s RenderedBrowser) Fetch(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "RenderedBrowser.Fetch")
	defer span.End()

	text, err := s.renderer.Render(ctx, s.page)
	if err != nil {
		ferr := &FetchError{
			Strategy: s.name,
			Timeout:  isTimeout(ctx, err),
			Err:      err,
		}
		s.tel.ReportWarning(report_rendered_fetch, ferr)
		return "", ferr
	}
	span.SetAttributes(attribute.Int("text_length", len(text)))
	return text, nil
}

func (s RenderedBrowser) Parse(ctx context.Context, raw string) (prayer.PartialSchedule, error) {
	_, span := tracer.Start(ctx, "RenderedBrowser.Parse")
	defer span.End()

	if strings.TrimSpace(raw) == "" {
		return prayer.PartialSchedule{}, &ParseError{Strategy: s.name, Err: errors.New("rendered page has no text")}
	}

	partial := prayer.NewPartialSchedule()
	s.scanner.Into(partial, raw)
	partial.Locality, _ = renderedLocality.Find(raw)
	partial.DateLabel, _ = textscan.FindDateLabel(raw)

	span.SetAttributes(attribute.Int("times", len(partial.Times)))
	return partial, nil
}

// OnValidationFailure keeps the rendered text around for offline
// debugging, see the parse subcommand.
func (s RenderedBrowser) OnValidationFailure(_ context.Context, raw string, err error) {
	s.diagnostics.Write(DebugBodyFile, raw)
	s.tel.ReportWarning(report_rendered_validate, err, DebugBodyFile)
}
