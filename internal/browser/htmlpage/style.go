package htmlpage

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// rule is one stylesheet rule. Rules apply in source order, without specificity.
type rule struct {
	selector Selector
	decls    map[string]string
}

var cssComment = regexp.MustCompile(`(?s)/\*.*?\*/`)

var inherited = map[string]bool{
	"text-transform": true,
	"visibility":     true,
	"color":          true,
	"font-size":      true,
	"font-weight":    true,
}

var initial = map[string]string{
	"text-transform": "none",
	"visibility":     "visible",
}

var inlineTags = map[string]bool{
	"a": true, "span": true, "strong": true, "b": true, "i": true, "em": true,
	"img": true, "label": true, "input": true, "select": true, "button": true,
	"br": true, "small": true, "textarea": true,
}

var hiddenTags = map[string]bool{
	"head": true, "script": true, "style": true, "title": true, "meta": true,
	"link": true, "template": true, "noscript": true,
}

// parseStylesheets reads every <style> element of doc
func parseStylesheets(doc *html.Node) []rule {
	var rules []rule
	for _, n := range descendants(doc, MustParseSelector("style")) {
		rules = append(rules, parseCSS(rawText(n))...)
	}
	return rules
}

func rawText(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

func parseCSS(src string) []rule {
	src = cssComment.ReplaceAllString(src, "")
	var rules []rule
	for _, block := range strings.Split(src, "}") {
		head, body, ok := strings.Cut(block, "{")
		if !ok {
			continue
		}
		sel, err := ParseSelector(strings.TrimSpace(head))
		if err != nil {
			continue
		}
		rules = append(rules, rule{selector: sel, decls: parseDecls(body)})
	}
	return rules
}

func parseDecls(body string) map[string]string {
	decls := map[string]string{}
	for _, d := range strings.Split(body, ";") {
		prop, val, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important"))
		decls[strings.ToLower(strings.TrimSpace(prop))] = val
	}
	return decls
}

// computed resolves property for n from inline style, stylesheet rules,
// inheritance and defaults
func (p *Page) computed(n *html.Node, property string) string {
	property = strings.ToLower(property)
	if v, ok := p.declared(n, property); ok {
		return v
	}
	if inherited[property] {
		if parent := parentElement(n); parent != nil {
			return p.computed(parent, property)
		}
		return initial[property]
	}
	if property == "display" {
		if _, ok := lookupAttr(n, "hidden"); ok || hiddenTags[n.Data] {
			return "none"
		}
		if inlineTags[n.Data] {
			return "inline"
		}
		return "block"
	}
	return initial[property]
}

func (p *Page) declared(n *html.Node, property string) (string, bool) {
	if v, ok := parseDecls(Attr(n, "style"))[property]; ok {
		return v, true
	}
	var val string
	var found bool
	for _, r := range p.sheet {
		if v, ok := r.decls[property]; ok && r.selector.Match(n) {
			val, found = v, true
		}
	}
	return val, found
}

// SetStyle sets one inline style property on n
func SetStyle(n *html.Node, property, value string) {
	decls := parseDecls(Attr(n, "style"))
	decls[strings.ToLower(property)] = value
	var b strings.Builder
	for k, v := range decls {
		b.WriteString(k + ": " + v + "; ")
	}
	SetAttr(n, "style", strings.TrimSpace(b.String()))
}

func (p *Page) visible(n *html.Node) bool {
	if n == nil || !isAncestor(p.doc, n) {
		return false
	}
	if n.Data == "input" && strings.EqualFold(Attr(n, "type"), "hidden") {
		return false
	}
	if p.computed(n, "visibility") == "hidden" {
		return false
	}
	for e := n; e != nil; e = parentElement(e) {
		if p.computed(e, "display") == "none" {
			return false
		}
	}
	return true
}
