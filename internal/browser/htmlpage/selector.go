package htmlpage

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// Selector is a parsed CSS selector list. Supported: type and universal
// selectors, #id, .class, [attr], [attr=v], [attr*=v], [attr^=v], [attr$=v],
// [attr~=v], descendant and child combinators, and comma separated lists.
type Selector []complexSelector

type complexSelector []step

type step struct {
	combinator byte
	compound   compound
}

type compound struct {
	tag     string
	id      string
	classes []string
	attrs   []attrMatcher
}

type attrMatcher struct {
	name string
	op   string
	val  string
}

// ParseSelector parses a CSS selector list
func ParseSelector(s string) (Selector, error) {
	parts, err := splitList(s)
	if err != nil {
		return nil, err
	}
	out := make(Selector, 0, len(parts))
	for _, part := range parts {
		cs, err := parseComplex(part)
		if err != nil {
			return nil, fmt.Errorf("selector %q: %w", s, err)
		}
		out = append(out, cs)
	}
	return out, nil
}

// MustParseSelector is ParseSelector that panics on error
func MustParseSelector(s string) Selector {
	sel, err := ParseSelector(s)
	if err != nil {
		panic(err)
	}
	return sel
}

// Match reports whether n matches any selector of the list
func (s Selector) Match(n *html.Node) bool {
	for _, cs := range s {
		if cs.matchAt(len(cs)-1, n) {
			return true
		}
	}
	return false
}

func splitList(s string) ([]string, error) {
	var parts []string
	var quote byte
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	if quote != 0 || depth != 0 {
		return nil, fmt.Errorf("selector %q: unbalanced brackets or quotes", s)
	}
	return append(parts, s[start:]), nil
}

func parseComplex(s string) (complexSelector, error) {
	var out complexSelector
	var comb byte
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			if len(out) > 0 && comb == 0 {
				comb = ' '
			}
			i++
		case c == '>':
			if len(out) == 0 {
				return nil, fmt.Errorf("combinator without left side")
			}
			comb = '>'
			i++
		default:
			cp, n, err := parseCompound(s[i:])
			if err != nil {
				return nil, err
			}
			if len(out) == 0 {
				comb = 0
			}
			out = append(out, step{combinator: comb, compound: cp})
			comb = 0
			i += n
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	if comb == '>' {
		return nil, fmt.Errorf("combinator without right side")
	}
	return out, nil
}

func parseCompound(s string) (compound, int, error) {
	var cp compound
	i := 0
	if s[0] == '*' {
		i = 1
	} else if j := identEnd(s, 0); j > 0 {
		cp.tag = strings.ToLower(s[:j])
		i = j
	}

	for i < len(s) {
		switch s[i] {
		case '#', '.':
			j := identEnd(s, i+1)
			if j == i+1 {
				return cp, 0, fmt.Errorf("missing name after %q", s[i])
			}
			if s[i] == '#' {
				cp.id = s[i+1 : j]
			} else {
				cp.classes = append(cp.classes, s[i+1:j])
			}
			i = j
		case '[':
			end := strings.IndexByte(s[i:], ']')
			if end < 0 {
				return cp, 0, fmt.Errorf("unterminated attribute selector")
			}
			am, err := parseAttr(s[i+1 : i+end])
			if err != nil {
				return cp, 0, err
			}
			cp.attrs = append(cp.attrs, am)
			i += end + 1
		case ':':
			return cp, 0, fmt.Errorf("pseudo-classes are not supported")
		default:
			if i == 0 {
				return cp, 0, fmt.Errorf("unexpected %q", s[i])
			}
			return cp, i, nil
		}
	}
	return cp, i, nil
}

func parseAttr(body string) (attrMatcher, error) {
	eq := strings.IndexByte(body, '=')
	if eq < 0 {
		name := strings.TrimSpace(body)
		if name == "" {
			return attrMatcher{}, fmt.Errorf("empty attribute selector")
		}
		return attrMatcher{name: strings.ToLower(name)}, nil
	}

	am := attrMatcher{op: "="}
	nameEnd := eq
	if eq > 0 && strings.ContainsRune("*^$~", rune(body[eq-1])) {
		am.op = body[eq-1 : eq+1]
		nameEnd = eq - 1
	}
	am.name = strings.ToLower(strings.TrimSpace(body[:nameEnd]))
	if am.name == "" {
		return attrMatcher{}, fmt.Errorf("empty attribute name")
	}
	val := strings.TrimSpace(body[eq+1:])
	if len(val) >= 2 && (val[0] == '"' || val[0] == '\'') && val[len(val)-1] == val[0] {
		val = val[1 : len(val)-1]
	}
	am.val = val
	return am, nil
}

func identEnd(s string, i int) int {
	for i < len(s) {
		c := s[i]
		if c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80 {
			i++
			continue
		}
		break
	}
	return i
}

func (cs complexSelector) matchAt(i int, n *html.Node) bool {
	if !cs[i].compound.match(n) {
		return false
	}
	if i == 0 {
		return true
	}
	if cs[i].combinator == '>' {
		p := parentElement(n)
		return p != nil && cs.matchAt(i-1, p)
	}
	for p := parentElement(n); p != nil; p = parentElement(p) {
		if cs.matchAt(i-1, p) {
			return true
		}
	}
	return false
}

func (cp compound) match(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}
	if cp.tag != "" && n.Data != cp.tag {
		return false
	}
	if cp.id != "" && Attr(n, "id") != cp.id {
		return false
	}
	for _, c := range cp.classes {
		if !HasClass(n, c) {
			return false
		}
	}
	for _, am := range cp.attrs {
		if !am.match(n) {
			return false
		}
	}
	return true
}

func (am attrMatcher) match(n *html.Node) bool {
	v, ok := lookupAttr(n, am.name)
	if !ok {
		return false
	}
	switch am.op {
	case "":
		return true
	case "=":
		return v == am.val
	case "*=":
		return am.val != "" && strings.Contains(v, am.val)
	case "^=":
		return am.val != "" && strings.HasPrefix(v, am.val)
	case "$=":
		return am.val != "" && strings.HasSuffix(v, am.val)
	case "~=":
		for _, f := range strings.Fields(v) {
			if f == am.val {
				return true
			}
		}
	}
	return false
}
