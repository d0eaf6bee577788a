package htmlpage

import (
	"fmt"
	"strings"

	"github.com/themizzi/storecheck/internal/verify"
	"golang.org/x/net/html"
)

// Selection is a lazily resolved set of elements of a Page
type Selection struct {
	page    *Page
	desc    string
	resolve func() ([]*html.Node, error)
}

var _ verify.Element = (*Selection)(nil)

// Nodes resolves the selection against the current document
func (s *Selection) Nodes() ([]*html.Node, error) {
	return s.resolve()
}

func (s *Selection) derive(desc string, fn func([]*html.Node) ([]*html.Node, error)) *Selection {
	return &Selection{page: s.page, desc: s.desc + " " + desc, resolve: func() ([]*html.Node, error) {
		nodes, err := s.resolve()
		if err != nil {
			return nil, err
		}
		return fn(nodes)
	}}
}

func (s *Selection) each(desc string, fn func(*html.Node) []*html.Node) *Selection {
	return s.derive(desc, func(nodes []*html.Node) ([]*html.Node, error) {
		var out []*html.Node
		seen := map[*html.Node]bool{}
		for _, n := range nodes {
			for _, m := range fn(n) {
				if !seen[m] {
					seen[m] = true
					out = append(out, m)
				}
			}
		}
		return out, nil
	})
}

func (s *Selection) first() (*html.Node, error) {
	nodes, err := s.resolve()
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoElement, s.desc)
	}
	return nodes[0], nil
}

func textIncludes(n *html.Node, text string) bool {
	return strings.Contains(verify.NormalizeSpace(TextContent(n)), verify.NormalizeSpace(text))
}

// Locate implements verify.Element
func (s *Selection) Locate(selector string) verify.Element {
	sel, err := ParseSelector(selector)
	if err != nil {
		return s.derive(selector, func([]*html.Node) ([]*html.Node, error) { return nil, err })
	}
	return s.each(selector, func(n *html.Node) []*html.Node {
		return descendants(n, sel)
	})
}

// Contains implements verify.Element
func (s *Selection) Contains(selector, text string) verify.Element {
	var sel Selector
	if selector != "" && selector != "*" {
		var err error
		if sel, err = ParseSelector(selector); err != nil {
			return s.derive(selector, func([]*html.Node) ([]*html.Node, error) { return nil, err })
		}
	}

	desc := fmt.Sprintf("%s:contains(%q)", selector, text)
	return s.derive(desc, func(nodes []*html.Node) ([]*html.Node, error) {
		var matched []*html.Node
		seen := map[*html.Node]bool{}
		for _, root := range nodes {
			for _, n := range descendants(root, sel) {
				if !seen[n] && textIncludes(n, text) {
					seen[n] = true
					matched = append(matched, n)
				}
			}
		}

		var deepest []*html.Node
		for _, n := range matched {
			inner := false
			for _, m := range matched {
				if m != n && isAncestor(n, m) {
					inner = true
					break
				}
			}
			if !inner {
				deepest = append(deepest, n)
			}
		}
		return deepest, nil
	})
}

// Filter implements verify.Element
func (s *Selection) Filter(text string) verify.Element {
	return s.derive(fmt.Sprintf(":has-text(%q)", text), func(nodes []*html.Node) ([]*html.Node, error) {
		var out []*html.Node
		for _, n := range nodes {
			if textIncludes(n, text) {
				out = append(out, n)
			}
		}
		return out, nil
	})
}

// Nth implements verify.Element
func (s *Selection) Nth(i int) verify.Element {
	return s.derive(fmt.Sprintf(":nth(%d)", i), func(nodes []*html.Node) ([]*html.Node, error) {
		if i < 0 || i >= len(nodes) {
			return nil, nil
		}
		return nodes[i : i+1], nil
	})
}

// First implements verify.Element
func (s *Selection) First() verify.Element {
	return s.Nth(0)
}

// Next implements verify.Element
func (s *Selection) Next() verify.Element {
	return s.each(":next", func(n *html.Node) []*html.Node {
		if next := nextElement(n); next != nil {
			return []*html.Node{next}
		}
		return nil
	})
}

// Siblings implements verify.Element
func (s *Selection) Siblings() verify.Element {
	return s.each(":siblings", func(n *html.Node) []*html.Node {
		parent := n.Parent
		if parent == nil {
			return nil
		}
		var out []*html.Node
		for _, c := range elementChildren(parent) {
			if c != n {
				out = append(out, c)
			}
		}
		return out
	})
}

// Children implements verify.Element
func (s *Selection) Children() verify.Element {
	return s.each(":children", elementChildren)
}

// Parent implements verify.Element
func (s *Selection) Parent() verify.Element {
	return s.each(":parent", func(n *html.Node) []*html.Node {
		if p := parentElement(n); p != nil {
			return []*html.Node{p}
		}
		return nil
	})
}

// Count implements verify.Element
func (s *Selection) Count() (int, error) {
	nodes, err := s.resolve()
	return len(nodes), err
}

// Text implements verify.Element
func (s *Selection) Text() (string, error) {
	n, err := s.first()
	if err != nil {
		return "", err
	}
	return TextContent(n), nil
}

// Attribute implements verify.Element
func (s *Selection) Attribute(name string) (string, error) {
	n, err := s.first()
	if err != nil {
		return "", err
	}
	return Attr(n, name), nil
}

// CSS implements verify.Element
func (s *Selection) CSS(property string) (string, error) {
	n, err := s.first()
	if err != nil {
		return "", err
	}
	return s.page.computed(n, property), nil
}

// Visible implements verify.Element. An empty selection is not visible.
func (s *Selection) Visible() (bool, error) {
	nodes, err := s.resolve()
	if err != nil || len(nodes) == 0 {
		return false, err
	}
	return s.page.visible(nodes[0]), nil
}

// HasClass implements verify.Element
func (s *Selection) HasClass(name string) (bool, error) {
	n, err := s.first()
	if err != nil {
		return false, err
	}
	return HasClass(n, name), nil
}

// Value implements verify.Element
func (s *Selection) Value() (string, error) {
	n, err := s.first()
	if err != nil {
		return "", err
	}
	return fieldValue(n), nil
}

func (s *Selection) actionable() (*html.Node, error) {
	n, err := s.first()
	if err != nil {
		return nil, err
	}
	if !s.page.visible(n) {
		return nil, fmt.Errorf("element %s is not visible", s.desc)
	}
	return n, nil
}

// Click implements verify.Element
func (s *Selection) Click() error {
	n, err := s.actionable()
	if err != nil {
		return err
	}
	return s.page.click(n)
}

// Type implements verify.Element
func (s *Selection) Type(text string) error {
	n, err := s.actionable()
	if err != nil {
		return err
	}
	SetAttr(n, "value", Attr(n, "value")+text)
	return s.page.input(n)
}

// Clear implements verify.Element
func (s *Selection) Clear() error {
	n, err := s.actionable()
	if err != nil {
		return err
	}
	SetAttr(n, "value", "")
	return s.page.input(n)
}

// Select implements verify.Element. value matches an option's value or label.
func (s *Selection) Select(value string) error {
	n, err := s.actionable()
	if err != nil {
		return err
	}
	if n.Data != "select" {
		return fmt.Errorf("element %s is not a select", s.desc)
	}

	options := descendants(n, MustParseSelector("option"))
	var chosen *html.Node
	for _, o := range options {
		if optionValue(o) == value || verify.NormalizeSpace(TextContent(o)) == value {
			chosen = o
			break
		}
	}
	if chosen == nil {
		return fmt.Errorf("element %s has no option %q", s.desc, value)
	}
	for _, o := range options {
		RemoveAttr(o, "selected")
	}
	SetAttr(chosen, "selected", "selected")
	return s.page.input(n)
}

// ScrollIntoView implements verify.Element
func (s *Selection) ScrollIntoView() error {
	_, err := s.first()
	return err
}

// Blur implements verify.Element
func (s *Selection) Blur() error {
	_, err := s.first()
	return err
}
