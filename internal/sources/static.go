package sources

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"prayertimes/internal/components/assert"
	"prayertimes/internal/components/telemetry"
	"prayertimes/internal/prayer"
	"prayertimes/internal/textscan"
	"prayertimes/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const (
	report_static_fetch = "static_html.fetch"
	report_static_parse = "static_html.parse"
)

var tracer = otel.Tracer("prayertimes/sources")

// staticLocality stops at the next marker, the end of the line, or any tag
// so markup never leaks into the name.
var staticLocality = textscan.Phrase{
	regexp.MustCompile(`(?m)أوقات الصلاة في\s*([^<\n\r]+?)\s*(?:مواقيت|</title>|<|$)`),
}

// StaticHtml scrapes the server rendered page with a single GET.
type StaticHtml struct {
	name    string
	url     string
	http    *resty.Client
	scanner *textscan.Scanner
	tel     telemetry.API
}

func NewStaticHtml(name, url string, opts HttpOptions, tel telemetry.API) (StaticHtml, error) {
	assert.NotEmptyStr(name)
	assert.NotEmptyStr(url)
	assert.NotNil(tel)

	tel = telemetry.NewScopedAPI("sources", tel)
	client, err := newHttpClient(opts, tel)
	if err != nil {
		return StaticHtml{}, err
	}

	return StaticHtml{
		name: name,
		url:  url,
		http: client,
		scanner: textscan.New(prayer.ArabicVocabulary, textscan.Options{
			Separators: textscan.CommaSeparators,
		}),
		tel: tel,
	}, nil
}

func (s StaticHtml) Name() string { return s.name }
func (s StaticHtml) URL() string  { return s.url }

func (s StaticHtml) Fetch(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "StaticHtml.Fetch")
	defer span.End()

	body, err := get(ctx, s.http, s.name, s.url, nil)
	if err != nil {
		s.tel.ReportWarning(report_static_fetch, err)
		return "", err
	}
	span.SetAttributes(attribute.Int("body_length", len(body)))
	return body, nil
}

// Parse scans the raw markup first and falls back to the document's
// visible text for labels that sit in a different element than their
// time.
func (s StaticHtml) Parse(ctx context.Context, raw string) (prayer.PartialSchedule, error) {
	ctx, span := tracer.Start(ctx, "StaticHtml.Parse")
	defer span.End()

	if strings.TrimSpace(raw) == "" {
		return prayer.PartialSchedule{}, &ParseError{Strategy: s.name, Err: errors.New("empty document")}
	}

	partial := prayer.NewPartialSchedule()
	s.scanner.Into(partial, raw)
	partial.Locality, _ = staticLocality.Find(raw)
	partial.DateLabel, _ = textscan.FindDateLabel(raw)

	if len(partial.Times) < len(prayer.Names) || partial.Locality == "" || partial.DateLabel == "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err != nil {
			s.tel.ReportBroken(report_static_parse, err)
			return prayer.PartialSchedule{}, &ParseError{Strategy: s.name, Err: err}
		}
		visible := htmlutil.VisibleText(ctx, doc.Selection)
		s.scanner.Into(partial, visible)
		if partial.Locality == "" {
			partial.Locality, _ = renderedLocality.Find(visible)
		}
		if partial.DateLabel == "" {
			partial.DateLabel, _ = textscan.FindDateLabel(visible)
		}
	}

	span.SetAttributes(attribute.Int("times", len(partial.Times)))
	s.tel.ReportDebug(
		"static html parsed",
		"times", len(partial.Times),
		"malformed", len(partial.Malformed),
		"locality", partial.Locality,
	)
	return partial, nil
}
