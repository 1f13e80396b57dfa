package sources

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http/cookiejar"
	"time"

	"prayertimes/internal/components/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// HttpOptions configures the resty client shared by the http strategies.
type HttpOptions struct {
	UserAgent      string
	AcceptLanguage string
	// Timeout bounds a single request, the orchestrator's step timeout
	// still applies on top of it.
	Timeout          time.Duration
	CloudflareBypass bool
	// RequestsPerSecond defaults to 1.
	RequestsPerSecond float64
	// MessageOutput receives full http dumps, it can be nil.
	MessageOutput telemetry.MessageOutput
}

func newHttpClient(opts HttpOptions, tel telemetry.API) (*resty.Client, error) {
	httpClient := resty.New()
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	httpClient.SetCookieJar(jar)
	if opts.CloudflareBypass {
		httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	}

	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	if opts.AcceptLanguage != "" {
		httpClient.SetHeader("accept-language", opts.AcceptLanguage)
	}
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	// burst of 1 so manual re-runs inside one process never hit the source
	// faster than rps
	rateLimiter := rate.NewLimiter(rate.Limit(rps), 1)
	httpClient.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return rateLimiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(httpClient, tel, opts.MessageOutput)

	return httpClient, nil
}

// get performs one GET and maps every failure to a *FetchError.
func get(ctx context.Context, client *resty.Client, strategy, url string, query map[string]string) (string, error) {
	res, err := client.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		return "", &FetchError{
			Strategy: strategy,
			Timeout:  isTimeout(ctx, err),
			Err:      err,
		}
	}
	if !res.IsSuccess() {
		return "", &FetchError{
			Strategy: strategy,
			Status:   res.StatusCode(),
			Err:      fmt.Errorf("%s", res.Status()),
		}
	}
	return res.String(), nil
}

func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
