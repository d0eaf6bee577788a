// Package browser adapts playwright to the page interface used by the assertion catalog.
package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/themizzi/storecheck/internal/verify"
	"go.uber.org/zap"
)

// Viewport used for every page, matching a laptop screen
const (
	ViewportWidth  = 1440
	ViewportHeight = 800
)

// Options configure a Session
type Options struct {
	Headless bool
	// ActionTimeout bounds a single playwright call. Retrying is left to verify.Waiter.
	ActionTimeout time.Duration
	BaseURL       string
}

// Session owns the playwright driver and one browser
type Session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	opts    Options
	logger  *zap.Logger
}

// Launch starts playwright and a Chromium browser.
// Browsers are installed with: go run github.com/playwright-community/playwright-go/cmd/playwright@latest install chromium
func Launch(opts Options, logger *zap.Logger) (*Session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return nil, fmt.Errorf("failed to launch chromium: %w", err)
	}

	logger.Info("browser launched", zap.Bool("headless", opts.Headless), zap.String("version", browser.Version()))
	return &Session{pw: pw, browser: browser, opts: opts, logger: logger}, nil
}

// NewSession wraps an already running browser. Close does not stop it.
func NewSession(browser playwright.Browser, opts Options, logger *zap.Logger) *Session {
	return &Session{browser: browser, opts: opts, logger: logger}
}

// NewPage opens a page in a fresh browser context, so cookies and storage are
// not shared between scenarios. Closing the page closes its context.
func (s *Session) NewPage() (*Page, error) {
	ctxOpts := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{Width: ViewportWidth, Height: ViewportHeight},
	}
	if s.opts.BaseURL != "" {
		ctxOpts.BaseURL = playwright.String(s.opts.BaseURL)
	}

	bctx, err := s.browser.NewContext(ctxOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create browser context: %w", err)
	}
	page, err := bctx.NewPage()
	if err != nil {
		_ = bctx.Close()
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	if s.opts.ActionTimeout > 0 {
		page.SetDefaultTimeout(float64(s.opts.ActionTimeout.Milliseconds()))
	}
	return &Page{page: page, bctx: bctx}, nil
}

// Close shuts the browser and the driver
func (s *Session) Close() error {
	if s.pw == nil {
		return nil
	}
	if err := s.browser.Close(); err != nil {
		s.logger.Warn("failed to close browser", zap.Error(err))
	}
	return s.pw.Stop()
}

// Page implements verify.Page over a playwright page
type Page struct {
	page playwright.Page
	bctx playwright.BrowserContext
}

var _ verify.Page = (*Page)(nil)

// Goto implements verify.Page
func (p *Page) Goto(ctx context.Context, url string) error {
	opts := playwright.PageGotoOptions{}
	if deadline, ok := ctx.Deadline(); ok {
		opts.Timeout = playwright.Float(float64(time.Until(deadline).Milliseconds()))
	}
	if _, err := p.page.Goto(url, opts); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return nil
}

// URL implements verify.Page
func (p *Page) URL() string {
	return p.page.URL()
}

// Locate implements verify.Page
func (p *Page) Locate(selector string) verify.Element {
	return &Locator{loc: p.page.Locator(selector)}
}

// Contains implements verify.Page
func (p *Page) Contains(selector, text string) verify.Element {
	return &Locator{loc: p.page.Locator(textSelector(selector, text))}
}

// Close closes the page and its browser context
func (p *Page) Close() error {
	if err := p.page.Close(); err != nil {
		return err
	}
	return p.bctx.Close()
}

// textSelector selects the smallest elements matching selector that contain text
func textSelector(selector, text string) string {
	if selector == "" {
		selector = "*"
	}
	quoted := `"` + strings.ReplaceAll(strings.ReplaceAll(text, `\`, `\\`), `"`, `\"`) + `"`
	return fmt.Sprintf("%s:text(%s)", selector, quoted)
}

// Locator implements verify.Element over a playwright locator. Queries and
// actions target the first match.
type Locator struct {
	loc playwright.Locator
}

var _ verify.Element = (*Locator)(nil)

func (l *Locator) wrap(loc playwright.Locator) verify.Element {
	return &Locator{loc: loc}
}

// Locate implements verify.Element
func (l *Locator) Locate(selector string) verify.Element {
	return l.wrap(l.loc.Locator(selector))
}

// Contains implements verify.Element
func (l *Locator) Contains(selector, text string) verify.Element {
	return l.wrap(l.loc.Locator(textSelector(selector, text)))
}

// Filter implements verify.Element
func (l *Locator) Filter(text string) verify.Element {
	return l.wrap(l.loc.Filter(playwright.LocatorFilterOptions{HasText: text}))
}

// Nth implements verify.Element
func (l *Locator) Nth(i int) verify.Element {
	return l.wrap(l.loc.Nth(i))
}

// First implements verify.Element
func (l *Locator) First() verify.Element {
	return l.wrap(l.loc.First())
}

// Next implements verify.Element
func (l *Locator) Next() verify.Element {
	return l.wrap(l.loc.Locator("xpath=following-sibling::*[1]"))
}

// Siblings implements verify.Element
func (l *Locator) Siblings() verify.Element {
	return l.wrap(l.loc.Locator("xpath=preceding-sibling::* | following-sibling::*"))
}

// Children implements verify.Element
func (l *Locator) Children() verify.Element {
	return l.wrap(l.loc.Locator("xpath=./*"))
}

// Parent implements verify.Element
func (l *Locator) Parent() verify.Element {
	return l.wrap(l.loc.Locator("xpath=.."))
}

// Count implements verify.Element
func (l *Locator) Count() (int, error) {
	return l.loc.Count()
}

// Text implements verify.Element
func (l *Locator) Text() (string, error) {
	return l.loc.First().TextContent()
}

// Attribute implements verify.Element
func (l *Locator) Attribute(name string) (string, error) {
	return l.loc.First().GetAttribute(name)
}

// CSS implements verify.Element
func (l *Locator) CSS(property string) (string, error) {
	v, err := l.loc.First().Evaluate("(el, p) => getComputedStyle(el).getPropertyValue(p)", property)
	if err != nil {
		return "", err
	}
	s, _ := v.(string)
	return s, nil
}

// Visible implements verify.Element
func (l *Locator) Visible() (bool, error) {
	return l.loc.First().IsVisible()
}

// HasClass implements verify.Element
func (l *Locator) HasClass(name string) (bool, error) {
	v, err := l.loc.First().Evaluate("(el, c) => el.classList.contains(c)", name)
	if err != nil {
		return false, err
	}
	b, _ := v.(bool)
	return b, nil
}

// Value implements verify.Element
func (l *Locator) Value() (string, error) {
	return l.loc.First().InputValue()
}

// Click implements verify.Element
func (l *Locator) Click() error {
	return l.loc.First().Click()
}

// Type implements verify.Element
func (l *Locator) Type(text string) error {
	return l.loc.First().PressSequentially(text)
}

// Clear implements verify.Element
func (l *Locator) Clear() error {
	return l.loc.First().Clear()
}

// Select implements verify.Element. value matches an option value, then a label.
func (l *Locator) Select(value string) error {
	first := l.loc.First()
	if _, err := first.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}}); err == nil {
		return nil
	}
	_, err := first.SelectOption(playwright.SelectOptionValues{Labels: &[]string{value}})
	return err
}

// ScrollIntoView implements verify.Element
func (l *Locator) ScrollIntoView() error {
	return l.loc.First().ScrollIntoViewIfNeeded()
}

// Blur implements verify.Element
func (l *Locator) Blur() error {
	return l.loc.First().Blur()
}
