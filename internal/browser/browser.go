// Package browser renders a page in headless chrome and returns its
// visible text.
package browser

import (
	"context"
	"time"
)

// Dismissal is a control that may cover the page, like a consent dialog
// or an interstitial ad.
type Dismissal struct {
	Name     string
	Selector string
	// XPath selects with an xpath expression instead of a css selector.
	XPath bool
}

// DefaultDismissals are tried in order, each one independently.
var DefaultDismissals = []Dismissal{
	{Name: `button[aria-label="Close"]`, Selector: `button[aria-label="Close"]`},
	{Name: `button[aria-label="إغلاق"]`, Selector: `button[aria-label="إغلاق"]`},
	{Name: "text=إغلاق", Selector: `//*[normalize-space(text())="إغلاق"]`, XPath: true},
	{Name: "text=Close", Selector: `//*[normalize-space(text())="Close"]`, XPath: true},
	{Name: "text=×", Selector: `//*[normalize-space(text())="×"]`, XPath: true},
	{Name: ".close", Selector: `.close`},
	{Name: "#close", Selector: `#close`},
}

type Page struct {
	URL       string
	UserAgent string
	Locale    string
	// Settle is waited after the body is ready so client side scripts can
	// fill in the page.
	Settle         time.Duration
	Dismissals     []Dismissal
	DismissTimeout time.Duration
}

// Renderer is the only capability the rendered strategy needs from a
// browser.
//
// note: fault injection point
type Renderer interface {
	// Render loads page and returns the body's rendered text. Every
	// browser resource acquired for the call is released before it
	// returns.
	Render(ctx context.Context, page Page) (string, error)
}
