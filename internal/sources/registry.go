package sources

import (
	"fmt"

	"prayertimes/internal/browser"
	"prayertimes/internal/components/diagnostics"
	"prayertimes/internal/components/telemetry"
	"prayertimes/internal/config"
)

type Deps struct {
	Tel telemetry.API
	// Renderer defaults to a chromedp renderer using the configured remote
	// allocator.
	Renderer    browser.Renderer
	Diagnostics diagnostics.Output
	// HttpDumps returns where a strategy's http client dumps its messages,
	// it can be nil.
	HttpDumps func(strategy string) telemetry.MessageOutput
}

func (d Deps) dumps(strategy string) telemetry.MessageOutput {
	if d.HttpDumps == nil {
		return nil
	}
	return d.HttpDumps(strategy)
}

// New builds the strategy registered under name.
func New(name string, cfg config.Config, deps Deps) (Strategy, error) {
	switch name {
	case config.StrategyStaticHtml:
		timeout, err := cfg.StepTimeout(name)
		if err != nil {
			return nil, err
		}
		s, err := NewStaticHtml(
			name,
			fmt.Sprintf(cfg.StaticHtml.URL, cfg.Town.ID),
			HttpOptions{
				UserAgent:         cfg.StaticHtml.UserAgent,
				AcceptLanguage:    cfg.StaticHtml.AcceptLanguage,
				Timeout:           timeout,
				CloudflareBypass:  !cfg.StaticHtml.DisableCloudflareBypass,
				RequestsPerSecond: cfg.StaticHtml.RequestsPerSecond,
				MessageOutput:     deps.dumps(name),
			},
			deps.Tel,
		)
		if err != nil {
			return nil, err
		}
		return s, nil
	case config.StrategyRenderedBrowser:
		renderer := deps.Renderer
		if renderer == nil {
			renderer = browser.NewChrome(cfg.RenderedBrowser.RemoteAllocator, deps.Tel)
		}
		return NewRenderedBrowser(
			name,
			fmt.Sprintf(cfg.RenderedBrowser.URL, cfg.Town.ID),
			renderer,
			RenderedBrowserOptions{
				UserAgent:      cfg.RenderedBrowser.UserAgent,
				Locale:         cfg.RenderedBrowser.Locale,
				Settle:         cfg.Settle(),
				DismissTimeout: cfg.DismissTimeout(),
				Diagnostics:    deps.Diagnostics,
			},
			deps.Tel,
		), nil
	case config.StrategyJsonApi:
		timeout, err := cfg.StepTimeout(name)
		if err != nil {
			return nil, err
		}
		s, err := NewJsonApi(
			name,
			cfg.JsonApi.URL,
			JsonApiQuery{
				City:    cfg.JsonApi.City,
				Country: cfg.JsonApi.Country,
				Method:  cfg.JsonApi.Method,
			},
			HttpOptions{
				UserAgent:     cfg.StaticHtml.UserAgent,
				Timeout:       timeout,
				MessageOutput: deps.dumps(name),
			},
			deps.Tel,
		)
		if err != nil {
			return nil, err
		}
		return s, nil
	}

	suggestion, _ := config.Suggest(name, config.KnownStrategies)
	return nil, &config.UnknownStrategyError{Name: name, Suggestion: suggestion}
}
