// Package htmlpage is an in-memory browser page over a parsed HTML document.
// It runs no scripts: behavior that pages implement in JavaScript is emulated
// with click and input handlers registered on the page.
package htmlpage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/themizzi/storecheck/internal/verify"
	"golang.org/x/net/html"
)

// ErrNoElement is returned when an action targets an empty selection
var ErrNoElement = errors.New("no element matches")

// Fetcher loads a document. It returns the final URL after redirects.
type Fetcher interface {
	Fetch(ctx context.Context, method, target string, form url.Values) (finalURL string, markup string, err error)
}

// Handler emulates page script for an element event
type Handler func(p *Page, target *html.Node) error

type binding struct {
	selector Selector
	handler  Handler
}

// Page implements verify.Page over an in-memory document. It is not safe for
// concurrent use.
type Page struct {
	ctx     context.Context
	fetcher Fetcher
	url     string
	doc     *html.Node
	sheet   []rule
	onClick []binding
	onInput []binding
}

var _ verify.Page = (*Page)(nil)

// New creates an empty page that loads documents through fetcher, which may be nil
func New(fetcher Fetcher) *Page {
	p := &Page{ctx: context.Background(), fetcher: fetcher}
	_ = p.Load("about:blank", "")
	return p
}

// FromHTML creates a page showing markup at address
func FromHTML(address, markup string) (*Page, error) {
	p := New(nil)
	if err := p.Load(address, markup); err != nil {
		return nil, err
	}
	return p, nil
}

// Load replaces the document with markup served at address
func (p *Page) Load(address, markup string) error {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("parse %s: %w", address, err)
	}
	p.url = address
	p.doc = doc
	p.sheet = parseStylesheets(doc)
	return nil
}

// Goto fetches target and loads it
func (p *Page) Goto(ctx context.Context, target string) error {
	p.ctx = ctx
	return p.navigate(http.MethodGet, target, nil)
}

func (p *Page) navigate(method, target string, form url.Values) error {
	if p.fetcher == nil {
		return fmt.Errorf("navigate to %s: page has no fetcher", target)
	}
	abs, err := p.resolve(target)
	if err != nil {
		return err
	}
	final, markup, err := p.fetcher.Fetch(p.ctx, method, abs, form)
	if err != nil {
		return fmt.Errorf("navigate to %s: %w", abs, err)
	}
	return p.Load(final, markup)
}

func (p *Page) resolve(target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", target, err)
	}
	base, err := url.Parse(p.url)
	if err != nil || !base.IsAbs() {
		return ref.String(), nil
	}
	return base.ResolveReference(ref).String(), nil
}

// URL returns the address of the current document
func (p *Page) URL() string {
	return p.url
}

// Document returns the root node of the current document
func (p *Page) Document() *html.Node {
	return p.doc
}

// Locate returns the elements matching selector
func (p *Page) Locate(selector string) verify.Element {
	return p.root().Locate(selector)
}

// Contains returns the deepest elements matching selector whose text contains text
func (p *Page) Contains(selector, text string) verify.Element {
	return p.root().Contains(selector, text)
}

func (p *Page) root() *Selection {
	return &Selection{page: p, desc: "document", resolve: func() ([]*html.Node, error) {
		return []*html.Node{p.doc}, nil
	}}
}

// OnClick registers a handler run instead of the default click behavior for
// elements matching selector
func (p *Page) OnClick(selector string, h Handler) error {
	sel, err := ParseSelector(selector)
	if err != nil {
		return err
	}
	p.onClick = append(p.onClick, binding{selector: sel, handler: h})
	return nil
}

// OnInput registers a handler run after the value of an element matching
// selector changes by typing, clearing or selecting
func (p *Page) OnInput(selector string, h Handler) error {
	sel, err := ParseSelector(selector)
	if err != nil {
		return err
	}
	p.onInput = append(p.onInput, binding{selector: sel, handler: h})
	return nil
}

// SetInnerHTML replaces the children of every element matching selector
func (p *Page) SetInnerHTML(selector, markup string) error {
	sel, err := ParseSelector(selector)
	if err != nil {
		return err
	}
	targets := descendants(p.doc, sel)
	if len(targets) == 0 {
		return fmt.Errorf("%w: %s", ErrNoElement, selector)
	}
	for _, n := range targets {
		nodes, err := html.ParseFragment(strings.NewReader(markup), n)
		if err != nil {
			return fmt.Errorf("parse fragment: %w", err)
		}
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			n.RemoveChild(c)
			c = next
		}
		for _, c := range nodes {
			n.AppendChild(c)
		}
	}
	return nil
}

// Fetch loads target through the page fetcher without navigating
func (p *Page) Fetch(target string) (string, error) {
	if p.fetcher == nil {
		return "", fmt.Errorf("fetch %s: page has no fetcher", target)
	}
	abs, err := p.resolve(target)
	if err != nil {
		return "", err
	}
	_, body, err := p.fetcher.Fetch(p.ctx, http.MethodGet, abs, nil)
	return body, err
}

func (p *Page) dispatch(bindings []binding, target *html.Node) (bool, error) {
	handled := false
	for _, b := range bindings {
		if b.selector.Match(target) {
			handled = true
			if err := b.handler(p, target); err != nil {
				return true, err
			}
		}
	}
	return handled, nil
}

func (p *Page) click(n *html.Node) error {
	for e := n; e != nil; e = parentElement(e) {
		handled, err := p.dispatch(p.onClick, e)
		if err != nil || handled {
			return err
		}
	}

	if a := closest(n, "a"); a != nil {
		href := strings.TrimSpace(Attr(a, "href"))
		if href != "" && href != "#" && !strings.HasPrefix(href, "javascript:") {
			return p.navigate(http.MethodGet, href, nil)
		}
	}
	submits := n.Data == "a" || n.Data == "button" ||
		n.Data == "input" && strings.EqualFold(Attr(n, "type"), "submit")
	if form := closest(n, "form"); form != nil && submits {
		return p.submit(form)
	}
	return nil
}

func (p *Page) input(n *html.Node) error {
	_, err := p.dispatch(p.onInput, n)
	return err
}

func (p *Page) submit(form *html.Node) error {
	values := url.Values{}
	for _, field := range descendants(form, MustParseSelector("input, select, textarea")) {
		name := Attr(field, "name")
		if name == "" {
			continue
		}
		if t := strings.ToLower(Attr(field, "type")); (t == "checkbox" || t == "radio") && !hasAttr(field, "checked") {
			continue
		}
		values.Add(name, fieldValue(field))
	}

	method := strings.ToUpper(Attr(form, "method"))
	action := Attr(form, "action")
	if action == "" {
		action = p.url
	}
	if method != http.MethodPost {
		u, err := url.Parse(action)
		if err != nil {
			return fmt.Errorf("parse form action %q: %w", action, err)
		}
		u.RawQuery = values.Encode()
		return p.navigate(http.MethodGet, u.String(), nil)
	}
	return p.navigate(http.MethodPost, action, values)
}

func hasAttr(n *html.Node, name string) bool {
	_, ok := lookupAttr(n, name)
	return ok
}

func fieldValue(n *html.Node) string {
	switch n.Data {
	case "select":
		options := descendants(n, MustParseSelector("option"))
		for _, o := range options {
			if hasAttr(o, "selected") {
				return optionValue(o)
			}
		}
		if len(options) > 0 {
			return optionValue(options[0])
		}
		return ""
	case "textarea":
		return TextContent(n)
	default:
		return Attr(n, "value")
	}
}

func optionValue(o *html.Node) string {
	if v, ok := lookupAttr(o, "value"); ok {
		return v
	}
	return verify.NormalizeSpace(TextContent(o))
}

// HTTPFetcher fetches documents over HTTP with a cookie jar, like a browser profile
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates a fetcher with an empty cookie jar
func NewHTTPFetcher() *HTTPFetcher {
	jar, _ := cookiejar.New(nil)
	return &HTTPFetcher{Client: &http.Client{Jar: jar}}
}

// Fetch implements Fetcher
func (f *HTTPFetcher) Fetch(ctx context.Context, method, target string, form url.Values) (string, string, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return "", "", err
	}
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return "", "", err
	}
	defer resp.Body.Close()

	markup, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", "", fmt.Errorf("%s %s: status %d", method, target, resp.StatusCode)
	}
	return resp.Request.URL.String(), string(markup), nil
}
