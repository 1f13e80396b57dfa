// Package config resolves the run configuration from built-in defaults, an
// optional prayertimes.json5 (plus its .local override) and PRAYERTIMES_*
// environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"prayertimes/internal/components/telemetry"

	"dario.cat/mergo"
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const DefaultFile = "prayertimes.json5"

const (
	IPhoneUserAgent       = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"
	DefaultAcceptLanguage = "ar,en;q=0.8"
)

type Town struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

type StaticHtml struct {
	// URL is a format string taking the town id.
	URL            string `json:"url"`
	UserAgent      string `json:"user_agent"`
	AcceptLanguage string `json:"accept_language"`
	// DisableCloudflareBypass turns off the tls fingerprint transport.
	DisableCloudflareBypass bool    `json:"disable_cloudflare_bypass"`
	RequestsPerSecond       float64 `json:"requests_per_second"`
}

type RenderedBrowser struct {
	// URL is a format string taking the town id.
	URL       string `json:"url"`
	UserAgent string `json:"user_agent"`
	Locale    string `json:"locale"`
	// RemoteAllocator is the devtools websocket url of an already running
	// browser, empty means a local one is launched.
	RemoteAllocator string `json:"remote_allocator"`
	Settle          string `json:"settle"`
	DismissTimeout  string `json:"dismiss_timeout"`
}

type JsonApi struct {
	URL     string `json:"url"`
	City    string `json:"city"`
	Country string `json:"country"`
	Method  int    `json:"method"`
}

type Step struct {
	Name string `json:"name"`
	// Timeout is a time.ParseDuration string, empty means the strategy's
	// default.
	Timeout string `json:"timeout"`
}

type Config struct {
	Town           Town   `json:"town"`
	Output         string `json:"output"`
	DiagnosticsDir string `json:"diagnostics_dir"`
	Verbose        bool   `json:"verbose"`

	Strategies []Step `json:"strategies"`

	StaticHtml      StaticHtml      `json:"static_html"`
	RenderedBrowser RenderedBrowser `json:"rendered_browser"`
	JsonApi         JsonApi         `json:"json_api"`

	Otlp telemetry.OtlpConfig `json:"otlp"`
}

var defaultTimeouts = map[string]time.Duration{
	StrategyStaticHtml:      20 * time.Second,
	StrategyRenderedBrowser: 60 * time.Second,
	StrategyJsonApi:         20 * time.Second,
}

func Default() Config {
	return Config{
		Town: Town{
			ID:       237,
			Name:     "باقة الغربية",
			Timezone: "Asia/Jerusalem",
		},
		Output:         "prayers_237.json",
		DiagnosticsDir: ".dev/diagnostics",
		Strategies: []Step{
			{Name: StrategyStaticHtml},
			{Name: StrategyRenderedBrowser},
			{Name: StrategyJsonApi},
		},
		StaticHtml: StaticHtml{
			URL:               "https://www.shobiddak.com/prayers/prayer_today?town_id=%d",
			UserAgent:         IPhoneUserAgent,
			AcceptLanguage:    DefaultAcceptLanguage,
			RequestsPerSecond: 1,
		},
		RenderedBrowser: RenderedBrowser{
			URL:            "https://www.shobiddak.com/prayers/prayer_today?town_id=%d",
			UserAgent:      IPhoneUserAgent,
			Locale:         "ar",
			Settle:         "1500ms",
			DismissTimeout: "1500ms",
		},
		JsonApi: JsonApi{
			URL:     "https://api.aladhan.com/v1/timingsByCity",
			City:    "Baqa al-Gharbiyye",
			Country: "Israel",
			Method:  3,
		},
	}
}

type envOverrides struct {
	TownID          *int     `env:"TOWN_ID"`
	TownName        string   `env:"TOWN_NAME"`
	Output          string   `env:"OUTPUT"`
	DiagnosticsDir  string   `env:"DIAGNOSTICS_DIR"`
	Verbose         *bool    `env:"VERBOSE"`
	Strategies      []string `env:"STRATEGIES" envSeparator:","`
	RemoteAllocator string   `env:"REMOTE_ALLOCATOR"`
}

func (o envOverrides) apply(cfg *Config) {
	if o.TownID != nil {
		cfg.Town.ID = *o.TownID
	}
	if o.TownName != "" {
		cfg.Town.Name = o.TownName
	}
	if o.Output != "" {
		cfg.Output = o.Output
	}
	if o.DiagnosticsDir != "" {
		cfg.DiagnosticsDir = o.DiagnosticsDir
	}
	if o.Verbose != nil {
		cfg.Verbose = *o.Verbose
	}
	if len(o.Strategies) > 0 {
		cfg.Strategies = StepsFromNames(o.Strategies)
	}
	if o.RemoteAllocator != "" {
		cfg.RenderedBrowser.RemoteAllocator = o.RemoteAllocator
	}
}

// StepsFromNames builds a plan with default timeouts.
func StepsFromNames(names []string) []Step {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	return steps
}

// Load resolves the configuration. An empty path searches for DefaultFile
// from the cwd upwards and carries on with defaults if none is found, an
// explicit path must exist.
func Load(path string) (Config, error) {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	var file Config
	if path != "" {
		file, err = ReadFile[Config](path)
	} else {
		file, err = ReadRecursively[Config](DefaultFile)
		if os.IsNotExist(err) {
			err = nil
		}
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	err = mergo.Merge(&cfg, file, mergo.WithOverride)
	if err != nil {
		return Config{}, fmt.Errorf("merge config: %w", err)
	}

	overrides, err := env.ParseAsWithOptions[envOverrides](env.Options{
		Prefix: "PRAYERTIMES_",
	})
	if err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	overrides.apply(&cfg)

	err = cfg.Validate()
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Town.ID <= 0 {
		return fmt.Errorf("town.id must be positive, got %d", c.Town.ID)
	}
	if c.Town.Name == "" {
		return fmt.Errorf("town.name must not be empty")
	}

	names := make([]string, len(c.Strategies))
	for i, s := range c.Strategies {
		names[i] = s.Name
	}
	err := CheckStrategyNames(names, KnownStrategies)
	if err != nil {
		return err
	}
	for _, s := range c.Strategies {
		_, err := c.Timeout(s)
		if err != nil {
			return err
		}
	}

	for field, value := range map[string]string{
		"rendered_browser.settle":          c.RenderedBrowser.Settle,
		"rendered_browser.dismiss_timeout": c.RenderedBrowser.DismissTimeout,
	} {
		_, err := parseDuration(field, value, 0)
		if err != nil {
			return err
		}
	}
	return nil
}

// Timeout resolves the timeout of a plan step.
func (c Config) Timeout(s Step) (time.Duration, error) {
	return parseDuration(
		fmt.Sprintf("strategies[%s].timeout", s.Name),
		s.Timeout,
		defaultTimeouts[s.Name],
	)
}

// StepTimeout is Timeout for the plan step named name, strategies that are
// not in the plan get their default.
func (c Config) StepTimeout(name string) (time.Duration, error) {
	for _, s := range c.Strategies {
		if s.Name == name {
			return c.Timeout(s)
		}
	}
	return c.Timeout(Step{Name: name})
}

func (c Config) Settle() time.Duration {
	d, _ := parseDuration("", c.RenderedBrowser.Settle, 1500*time.Millisecond)
	return d
}

func (c Config) DismissTimeout() time.Duration {
	d, _ := parseDuration("", c.RenderedBrowser.DismissTimeout, 1500*time.Millisecond)
	return d
}

func parseDuration(field, value string, fallback time.Duration) (time.Duration, error) {
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", field, value)
	}
	return d, nil
}
