package verify

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeSpace trims s and collapses inner whitespace runs to a single space
func NormalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func isVisible(el Element) error {
	ok, err := el.Visible()
	if err != nil {
		return err
	}
	if !ok {
		return mismatch("visible", "hidden")
	}
	return nil
}

func isHidden(el Element) error {
	ok, err := el.Visible()
	if err != nil {
		return err
	}
	if ok {
		return mismatch("hidden", "visible")
	}
	return nil
}

func textEquals(el Element, want string) error {
	got, err := el.Text()
	if err != nil {
		return err
	}
	if NormalizeSpace(got) != NormalizeSpace(want) {
		return mismatch(strconv.Quote(want), strconv.Quote(NormalizeSpace(got)))
	}
	return nil
}

func textContains(el Element, want string) error {
	got, err := el.Text()
	if err != nil {
		return err
	}
	if !strings.Contains(NormalizeSpace(got), NormalizeSpace(want)) {
		return mismatch("text containing "+strconv.Quote(want), strconv.Quote(NormalizeSpace(got)))
	}
	return nil
}

func attributeContains(el Element, name, want string) error {
	got, err := el.Attribute(name)
	if err != nil {
		return err
	}
	if !strings.Contains(got, want) {
		return mismatch(fmt.Sprintf("%s containing %q", name, want), strconv.Quote(got))
	}
	return nil
}

func cssEquals(el Element, property, want string) error {
	got, err := el.CSS(property)
	if err != nil {
		return err
	}
	if strings.TrimSpace(got) != want {
		return mismatch(fmt.Sprintf("%s: %s", property, want), fmt.Sprintf("%s: %s", property, got))
	}
	return nil
}

func countEquals(el Element, want int) error {
	got, err := el.Count()
	if err != nil {
		return err
	}
	if got != want {
		return mismatch(fmt.Sprintf("%d elements", want), fmt.Sprintf("%d elements", got))
	}
	return nil
}

func countAtLeast(el Element, want int) error {
	got, err := el.Count()
	if err != nil {
		return err
	}
	if got < want {
		return mismatch(fmt.Sprintf("at least %d elements", want), fmt.Sprintf("%d elements", got))
	}
	return nil
}

func hasClass(el Element, name string, want bool) error {
	got, err := el.HasClass(name)
	if err != nil {
		return err
	}
	if got != want {
		return mismatch(fmt.Sprintf("class %s present=%t", name, want), fmt.Sprintf("present=%t", got))
	}
	return nil
}

func valueEquals(el Element, want string) error {
	got, err := el.Value()
	if err != nil {
		return err
	}
	if got != want {
		return mismatch(strconv.Quote(want), strconv.Quote(got))
	}
	return nil
}

// all runs checks in order and stops at the first failure
func all(checks ...func() error) error {
	for _, check := range checks {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}
