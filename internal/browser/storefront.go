package browser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/themizzi/storecheck/internal/browser/htmlpage"
	"golang.org/x/net/html"
)

// Storefront markup driven by static/js/storefront.js
const (
	searchInput     = `input[placeholder="search"]`
	searchPopup     = "#searchterm_options"
	searchSuggest   = "/search/suggest?term="
	carouselThumb   = ".carousel_thumbs > *"
	carouselFocused = "focus"
)

// EmulateStorefront registers handlers on p standing in for the storefront
// script: search suggestions as the visitor types and carousel thumb focus.
// Handlers survive navigation, so this is called once per page.
func EmulateStorefront(p *htmlpage.Page) error {
	if err := p.OnInput(searchInput, suggest); err != nil {
		return fmt.Errorf("failed to bind search input: %w", err)
	}
	if err := p.OnClick(carouselThumb, focusThumb); err != nil {
		return fmt.Errorf("failed to bind carousel: %w", err)
	}
	return nil
}

func suggest(p *htmlpage.Page, input *html.Node) error {
	term := strings.TrimSpace(htmlpage.Attr(input, "value"))
	markup := ""
	if term != "" {
		body, err := p.Fetch(searchSuggest + url.QueryEscape(term))
		if err != nil {
			return fmt.Errorf("failed to fetch suggestions: %w", err)
		}
		markup = body
	}

	if err := p.SetInnerHTML(searchPopup, markup); err != nil {
		return err
	}
	sel, ok := p.Locate(searchPopup).(*htmlpage.Selection)
	if !ok {
		return fmt.Errorf("unexpected selection type for %s", searchPopup)
	}
	nodes, err := sel.Nodes()
	if err != nil {
		return err
	}

	display := "none"
	if strings.TrimSpace(markup) != "" {
		display = "block"
	}
	for _, n := range nodes {
		htmlpage.SetStyle(n, "display", display)
	}
	return nil
}

func focusThumb(_ *htmlpage.Page, thumb *html.Node) error {
	if thumb.Parent == nil {
		return nil
	}
	for n := thumb.Parent.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			htmlpage.RemoveClass(n, carouselFocused)
		}
	}
	htmlpage.AddClass(thumb, carouselFocused)
	return nil
}
