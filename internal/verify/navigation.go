package verify

import (
	"context"
	"strconv"
	"strings"
)

// Selectors for the consent banner and the age gate
const (
	cookiePopupSelector  = ".cookiepreferences_popup"
	cookieTitleSelector  = ".popupTextTitle"
	cookieButtonSelector = ".btn_medium"
	ageYearSelector      = "#ageYear"
	ageMonthSelector     = "#ageMonth"
	ageDaySelector       = "#ageDay"
)

// BirthDate is what the age gate form is filled with
type BirthDate struct {
	Year  string
	Month string
	Day   string
}

// DefaultBirthDate is old enough for every age-gated product
var DefaultBirthDate = BirthDate{Year: "1980", Month: "February", Day: "12"}

// VerifyURL checks the current URL includes "<id>/<slug of name>"
func (c *Catalog) VerifyURL(ctx context.Context, id, name string) error {
	want := id + "/" + URLSlug(name)
	return c.expect(ctx, "url includes "+want, func() error {
		got := c.page.URL()
		if !strings.Contains(got, want) {
			return mismatch("url containing "+strconv.Quote(want), strconv.Quote(got))
		}
		return nil
	})
}

// VerifyCartURL checks the browser is on the cart page
func (c *Catalog) VerifyCartURL(ctx context.Context) error {
	return c.expect(ctx, "url is cart", func() error {
		got := c.page.URL()
		if !strings.Contains(got, "cart/") {
			return mismatch("url containing \"cart/\"", strconv.Quote(got))
		}
		return nil
	})
}

// ResolveCookies checks the consent banner offers both choices and rejects
// optional cookies
func (c *Catalog) ResolveCookies(ctx context.Context) error {
	popup := c.page.Locate(cookiePopupSelector)
	titles := popup.Locate(cookieTitleSelector)
	accept := popup.Locate(cookieButtonSelector).Filter("Accept All").First()
	reject := popup.Locate(cookieButtonSelector).Filter("Reject All").First()

	if err := c.expect(ctx, "cookie banner titles", func() error {
		return all(
			func() error { return countEquals(titles, 2) },
			func() error { return isVisible(titles.First()) },
		)
	}); err != nil {
		return err
	}
	if err := c.expect(ctx, "cookie banner accept button", func() error {
		return isVisible(accept)
	}); err != nil {
		return err
	}
	if err := c.expect(ctx, "cookie banner reject button", func() error {
		return all(
			func() error { return isVisible(reject) },
			reject.Click,
		)
	}); err != nil {
		return err
	}
	return c.expect(ctx, "cookie banner dismissed", func() error {
		return isHidden(popup)
	})
}

// ResolveAgeCheck fills the age gate with birth and opens the product page
func (c *Catalog) ResolveAgeCheck(ctx context.Context, birth BirthDate) error {
	fields := []struct {
		selector string
		value    string
	}{
		{ageYearSelector, birth.Year},
		{ageMonthSelector, birth.Month},
		{ageDaySelector, birth.Day},
	}

	for i, f := range fields {
		el := c.page.Locate(f.selector)
		if err := c.expect(ctx, "age gate "+f.selector, func() error {
			return all(
				func() error {
					if i == 0 {
						return el.ScrollIntoView()
					}
					return nil
				},
				func() error { return isVisible(el) },
				func() error { return el.Select(f.value) },
				el.Blur,
			)
		}); err != nil {
			return err
		}
	}

	year := c.page.Locate(ageYearSelector)
	if err := c.expect(ctx, "age gate year kept", func() error {
		return valueEquals(year, birth.Year)
	}); err != nil {
		return err
	}

	view := c.page.Contains("a", "View Page").First()
	return c.expect(ctx, "age gate view page", func() error {
		return all(
			func() error { return isVisible(view) },
			view.Click,
		)
	})
}
