package browser

import (
	"context"
	"fmt"

	"prayertimes/internal/components/assert"
	"prayertimes/internal/components/besteffort"
	"prayertimes/internal/components/telemetry"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	report_chrome_render  = "chrome.render"
	report_chrome_dismiss = "chrome.dismiss"
)

var tracer = otel.Tracer("prayertimes/browser")

// Chrome implements Renderer with chromedp. A zero RemoteURL launches a
// local headless chrome for every Render call.
type Chrome struct {
	remoteURL string
	tel       telemetry.API
}

func NewChrome(remoteURL string, tel telemetry.API) Chrome {
	assert.NotNil(tel)
	return Chrome{
		remoteURL: remoteURL,
		tel:       telemetry.NewScopedAPI("browser", tel),
	}
}

func (c Chrome) allocator(ctx context.Context, page Page) (context.Context, context.CancelFunc) {
	if c.remoteURL != "" {
		return chromedp.NewRemoteAllocator(ctx, c.remoteURL)
	}

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if page.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(page.UserAgent))
	}
	if page.Locale != "" {
		opts = append(opts, chromedp.Flag("lang", page.Locale))
	}
	return chromedp.NewExecAllocator(ctx, opts...)
}

func (c Chrome) Render(ctx context.Context, page Page) (string, error) {
	ctx, span := tracer.Start(ctx, "Chrome.Render")
	defer span.End()
	span.SetAttributes(
		attribute.String("url", page.URL),
		attribute.Bool("remote", c.remoteURL != ""),
	)

	allocCtx, cancelAlloc := c.allocator(ctx, page)
	defer cancelAlloc()
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	setup := chromedp.Tasks{}
	if page.Locale != "" {
		setup = append(setup, emulation.SetLocaleOverride().WithLocale(page.Locale))
	}
	if page.UserAgent != "" {
		setup = append(setup, emulation.SetUserAgentOverride(page.UserAgent).WithAcceptLanguage(page.Locale))
	}
	err := chromedp.Run(
		tabCtx,
		setup,
		chromedp.Navigate(page.URL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(page.Settle),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "navigate")
		c.tel.ReportWarning(report_chrome_render, fmt.Errorf("navigate: %w", err), page.URL)
		return "", fmt.Errorf("navigate: %w", err)
	}

	dismissals := besteffort.List{Timeout: page.DismissTimeout}
	for _, d := range page.Dismissals {
		dismissals.Actions = append(dismissals.Actions, besteffort.Action{
			Name: d.Name,
			Run: func(ctx context.Context) error {
				return c.dismiss(ctx, d)
			},
		})
	}
	dismissals.Run(tabCtx, telemetry.NewScopedAPI("dismiss", c.tel))

	var text string
	err = chromedp.Run(tabCtx, chromedp.Text("body", &text, chromedp.ByQuery))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extract text")
		c.tel.ReportWarning(report_chrome_render, fmt.Errorf("extract text: %w", err), page.URL)
		return "", fmt.Errorf("extract text: %w", err)
	}

	span.SetAttributes(attribute.Int("text_length", len(text)))
	return text, nil
}

// dismiss clicks the first node matching d. A missing node is not an
// error, the overlay is simply not there on this load.
func (c Chrome) dismiss(ctx context.Context, d Dismissal) error {
	by := chromedp.ByQueryAll
	if d.XPath {
		by = chromedp.BySearch
	}

	var nodes []*cdp.Node
	err := chromedp.Run(ctx, chromedp.Nodes(d.Selector, &nodes, by, chromedp.AtLeast(0)))
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return nil
	}

	c.tel.ReportDebug("clicking overlay control", report_chrome_dismiss, d.Name)
	return chromedp.Run(ctx, chromedp.MouseClickNode(nodes[0]))
}
