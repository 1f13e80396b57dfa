package commands

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"prayertimes/cmd/prayertimes/globals"
	"prayertimes/internal/prayer"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(globals.Set(context.Background(), &globals.Value{}))
}

func writeConfig(t *testing.T, dir, staticURL string) string {
	t.Helper()
	path := filepath.Join(dir, "prayertimes.json5")
	contents := fmt.Sprintf(`{
		// points at the test server
		diagnostics_dir: %q,
		strategies: [{ name: "static_html", timeout: "5s" }],
		static_html: {
			url: %q,
			disable_cloudflare_bypass: true,
			requests_per_second: 100,
		},
	}`, filepath.Join(dir, "diagnostics"), staticURL)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func TestScrapeThenShow(t *testing.T) {
	fixture, err := os.ReadFile(filepath.Join("..", "..", "..", "internal", "sources", "testdata", "shobiddak_today.html"))
	require.NoError(t, err)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(fixture)
	}))
	defer server.Close()

	dir := t.TempDir()
	cfg := writeConfig(t, dir, server.URL+"/prayers/prayer_today?town_id=%d")
	out := filepath.Join(dir, "prayers.json")

	require.NoError(t, execute(t, "scrape", "--config", cfg, "--out", out))

	written, err := os.ReadFile(out)
	require.NoError(t, err)
	schedule, err := prayer.DecodeSchedule(written)
	require.NoError(t, err)
	require.Equal(t, "static_html", schedule.Source())
	require.Equal(t, prayer.Locality{Key: 237, Name: "باقة الغربية"}, schedule.Locality())

	require.NoError(t, execute(t, "show", "--config", cfg, out))

	t.Run("verbose", func(t *testing.T) {
		t.Cleanup(func() {
			require.NoError(t, rootCmd.PersistentFlags().Set("verbose", "false"))
		})
		verboseOut := filepath.Join(dir, "prayers-verbose.json")

		require.NoError(t, execute(t, "scrape", "--verbose", "--config", cfg, "--out", verboseOut))

		written, err := os.ReadFile(verboseOut)
		require.NoError(t, err)
		schedule, err := prayer.DecodeSchedule(written)
		require.NoError(t, err)
		require.Equal(t, "static_html", schedule.Source())

		dump, err := os.ReadFile(filepath.Join(dir, "diagnostics", "resty", "static_html", "001_get.txt"))
		require.NoError(t, err)
		require.Contains(t, string(dump), "<NO BODY AVAILABLE>")
		require.Contains(t, string(dump), "town_id=237")
	})
}

func TestScrapeAllFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dir := t.TempDir()
	cfg := writeConfig(t, dir, server.URL+"/?town_id=%d")
	out := filepath.Join(dir, "prayers.json")

	err := execute(t, "scrape", "--config", cfg, "--out", out)
	require.ErrorContains(t, err, "all 1 strategies failed")
	_, statErr := os.Stat(out)
	require.True(t, os.IsNotExist(statErr))
}

func TestParseSavedBody(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "http://localhost/?town_id=%d")
	body := filepath.Join("..", "..", "..", "internal", "sources", "testdata", "rendered_body.txt")

	require.NoError(t, execute(t, "parse", "--config", cfg, "--strategy", "rendered_browser", body))

	broken := filepath.Join(dir, "broken.txt")
	require.NoError(t, os.WriteFile(broken, []byte("الفجر 04:50"), 0600))
	err := execute(t, "parse", "--config", cfg, "--strategy", "rendered_browser", broken)
	require.ErrorContains(t, err, "rendered_browser: validate")
}

func TestStrategies(t *testing.T) {
	dir := t.TempDir()
	cfg := writeConfig(t, dir, "http://localhost/?town_id=%d")
	require.NoError(t, execute(t, "strategies", "--config", cfg))
}
