// Package verify holds the page assertion catalog. Every procedure runs against the
// Page interface, so it can be exercised against a real browser or an in-memory fake.
package verify

import "context"

// Page is the browser as seen by the assertion catalog
type Page interface {
	Goto(ctx context.Context, url string) error
	URL() string
	Locate(selector string) Element
	Contains(selector, text string) Element
}

// Element is a lazily evaluated set of DOM elements, re-resolved on every call.
// Query and action methods act on the first element of the set.
type Element interface {
	// Locate returns descendants matching a CSS selector
	Locate(selector string) Element
	// Contains returns the deepest descendants matching selector whose text contains text
	Contains(selector, text string) Element
	// Filter keeps elements whose text contains text
	Filter(text string) Element
	Nth(i int) Element
	First() Element
	Next() Element
	Siblings() Element
	Children() Element
	Parent() Element

	Count() (int, error)
	Text() (string, error)
	Attribute(name string) (string, error)
	CSS(property string) (string, error)
	Visible() (bool, error)
	HasClass(name string) (bool, error)
	Value() (string, error)

	Click() error
	Type(text string) error
	Clear() error
	Select(value string) error
	ScrollIntoView() error
	Blur() error
}
