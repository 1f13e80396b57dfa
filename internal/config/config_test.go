package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		os.Chdir(wd)
	})
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	for _, step := range cfg.Strategies {
		timeout, err := cfg.Timeout(step)
		require.NoError(t, err)
		require.Equal(t, defaultTimeouts[step.Name], timeout)
	}
	require.Equal(t, 1500*time.Millisecond, cfg.Settle())
}

func TestLoadFileAndLocalOverride(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, DefaultFile), `{
		// comments are allowed
		town: { name: "باقة" },
		strategies: [
			{ name: "json_api", timeout: "5s" },
			{ name: "static_html" },
		],
		json_api: { method: 4 },
	}`)
	writeFile(t, filepath.Join(root, "prayertimes.local.json5"), `{
		output: "out/today.json",
	}`)
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	chdir(t, nested)

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, 237, cfg.Town.ID)
	require.Equal(t, "باقة", cfg.Town.Name)
	require.Equal(t, "out/today.json", cfg.Output)
	require.Equal(t, 4, cfg.JsonApi.Method)
	require.Equal(t, "Israel", cfg.JsonApi.Country)
	require.Equal(t, []Step{
		{Name: StrategyJsonApi, Timeout: "5s"},
		{Name: StrategyStaticHtml},
	}, cfg.Strategies)

	timeout, err := cfg.Timeout(cfg.Strategies[0])
	require.NoError(t, err)
	require.Equal(t, 5*time.Second, timeout)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	chdir(t, t.TempDir())
	_, err := Load("missing.json5")
	require.Error(t, err)
	require.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadEnvironment(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRAYERTIMES_TOWN_ID", "12")
	t.Setenv("PRAYERTIMES_STRATEGIES", "json_api,static_html")
	t.Setenv("PRAYERTIMES_VERBOSE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 12, cfg.Town.ID)
	require.True(t, cfg.Verbose)
	require.Equal(t, StepsFromNames([]string{"json_api", "static_html"}), cfg.Strategies)
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ".env"), "PRAYERTIMES_OUTPUT=from-dotenv.json\n")
	t.Cleanup(func() {
		os.Unsetenv("PRAYERTIMES_OUTPUT")
	})

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "from-dotenv.json", cfg.Output)
}

func TestLoadUnknownStrategy(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRAYERTIMES_STRATEGIES", "static_htm")

	_, err := Load("")
	var unknown *UnknownStrategyError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "static_htm", unknown.Name)
	require.Equal(t, StrategyStaticHtml, unknown.Suggestion)
	require.Contains(t, err.Error(), `did you mean "static_html"`)
}

func TestValidate(t *testing.T) {
	table := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "town id", mutate: func(c *Config) { c.Town.ID = 0 }},
		{name: "town name", mutate: func(c *Config) { c.Town.Name = "" }},
		{name: "empty plan", mutate: func(c *Config) { c.Strategies = nil }},
		{name: "duplicate", mutate: func(c *Config) {
			c.Strategies = StepsFromNames([]string{"json_api", "json_api"})
		}},
		{name: "bad timeout", mutate: func(c *Config) { c.Strategies[0].Timeout = "soon" }},
		{name: "negative timeout", mutate: func(c *Config) { c.Strategies[0].Timeout = "-1s" }},
		{name: "bad settle", mutate: func(c *Config) { c.RenderedBrowser.Settle = "1.5" }},
	}

	for _, row := range table {
		cfg := Default()
		row.mutate(&cfg)
		require.Error(t, cfg.Validate(), row.name)
	}
	require.NoError(t, Default().Validate())
}

func TestSuggest(t *testing.T) {
	suggestion, ok := Suggest("rendered", KnownStrategies)
	require.True(t, ok)
	require.Equal(t, StrategyRenderedBrowser, suggestion)

	_, ok = Suggest("zzzz", KnownStrategies)
	require.False(t, ok)
}
