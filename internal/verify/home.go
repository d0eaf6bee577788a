package verify

import (
	"context"
	"fmt"
)

const (
	searchInputSelector  = `input[placeholder="search"]`
	searchPopupSelector  = "#searchterm_options"
	searchMatchSelector  = ".match_name"
	carouselSectionClass = ".home_ctn"
	carouselThumbs       = ".carousel_thumbs"
	focusClass           = "focus"
)

func (c *Catalog) uppercaseHeader(ctx context.Context, header string, scroll bool) (Element, error) {
	el := c.page.Contains("*", header).First()
	err := c.expect(ctx, "section header "+header, func() error {
		return all(
			func() error {
				if scroll {
					return el.ScrollIntoView()
				}
				return nil
			},
			func() error { return isVisible(el) },
			func() error { return cssEquals(el, "text-transform", "uppercase") },
		)
	})
	return el, err
}

// CheckHomeSection checks an uppercase header is followed by a list holding
// exactly the given labels
func (c *Catalog) CheckHomeSection(ctx context.Context, header string, labels ...string) error {
	h, err := c.uppercaseHeader(ctx, header, false)
	if err != nil {
		return err
	}

	list := h.Next().Children()
	if err := c.expect(ctx, "section "+header+" size", func() error {
		return countEquals(list, len(labels))
	}); err != nil {
		return err
	}
	for _, label := range labels {
		item := list.Filter(label).First()
		if err := c.expect(ctx, "section "+header+" item "+label, func() error {
			return isVisible(item)
		}); err != nil {
			return err
		}
	}
	return nil
}

// CheckGenreSection checks an uppercase header whose siblings are exactly the
// given labels
func (c *Catalog) CheckGenreSection(ctx context.Context, header string, labels ...string) error {
	h, err := c.uppercaseHeader(ctx, header, true)
	if err != nil {
		return err
	}

	siblings := h.Siblings()
	if err := c.expect(ctx, "genre "+header+" size", func() error {
		return countEquals(siblings, len(labels))
	}); err != nil {
		return err
	}
	for _, label := range labels {
		item := siblings.Filter(label).First()
		if err := c.expect(ctx, "genre "+header+" item "+label, func() error {
			return isVisible(item)
		}); err != nil {
			return err
		}
	}
	return nil
}

// VerifyCarousel checks the carousel under header has total thumbnails and that
// clicking each one moves the focus to it alone
func (c *Catalog) VerifyCarousel(ctx context.Context, header string, total int) error {
	section := c.page.Locate(carouselSectionClass).Filter(header).First()
	thumbs := section.Locate(carouselThumbs).First()
	items := thumbs.Children()

	if err := c.expect(ctx, "carousel "+header, func() error {
		return all(
			section.ScrollIntoView,
			func() error { return isVisible(thumbs) },
			func() error { return countEquals(items, total) },
		)
	}); err != nil {
		return err
	}

	for i := 0; i < total; i++ {
		item := items.Nth(i)
		check := fmt.Sprintf("carousel %s thumb %d", header, i)
		if err := c.expect(ctx, check, item.Click); err != nil {
			return err
		}
		if err := c.expect(ctx, check+" focused", func() error {
			if err := hasClass(item, focusClass, true); err != nil {
				return err
			}
			for j := 0; j < total; j++ {
				if j == i {
					continue
				}
				if err := hasClass(items.Nth(j), focusClass, false); err != nil {
					return fmt.Errorf("thumb %d: %w", j, err)
				}
			}
			return nil
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) typeSearch(ctx context.Context, term string) error {
	input := c.page.Locate(searchInputSelector).First()
	return c.expect(ctx, "search input", func() error {
		return all(
			input.ScrollIntoView,
			func() error { return isVisible(input) },
			input.Clear,
			func() error { return input.Type(term) },
		)
	})
}

// ExpectSearchPopupShown checks the suggestion popup is displayed with exactly
// one match, reading exactly label
func (c *Catalog) ExpectSearchPopupShown(ctx context.Context, label string) error {
	return c.searchPopupShown(ctx, label, true)
}

// searchPopupShown checks the popup is displayed and its first match reads
// label. single also requires that match to be the only one.
func (c *Catalog) searchPopupShown(ctx context.Context, label string, single bool) error {
	popup := c.page.Locate(searchPopupSelector).First()
	matches := popup.Locate(searchMatchSelector)
	match := matches.First()
	return c.expect(ctx, "search popup shown", func() error {
		return all(
			func() error { return isVisible(popup) },
			func() error { return cssEquals(popup, "display", "block") },
			func() error {
				if single {
					return countEquals(matches, 1)
				}
				return nil
			},
			func() error { return textEquals(match, label) },
		)
	})
}

// ExpectSearchPopupHidden checks the suggestion popup is not displayed
func (c *Catalog) ExpectSearchPopupHidden(ctx context.Context) error {
	popup := c.page.Locate(searchPopupSelector).First()
	return c.expect(ctx, "search popup hidden", func() error {
		return all(
			func() error { return isHidden(popup) },
			func() error { return cssEquals(popup, "display", "none") },
		)
	})
}

// VerifySearchPopup types id into the search field, checks the popup shows
// label, then clears the field and checks the popup hides again
func (c *Catalog) VerifySearchPopup(ctx context.Context, id, label string) error {
	if err := c.typeSearch(ctx, id); err != nil {
		return err
	}
	if err := c.ExpectSearchPopupShown(ctx, label); err != nil {
		return err
	}

	input := c.page.Locate(searchInputSelector).First()
	if err := c.expect(ctx, "search input cleared", input.Clear); err != nil {
		return err
	}
	return c.ExpectSearchPopupHidden(ctx)
}

// SearchItem types id into the search field and opens the first suggestion,
// which must read exactly label
func (c *Catalog) SearchItem(ctx context.Context, id, label string) error {
	if err := c.typeSearch(ctx, id); err != nil {
		return err
	}
	if err := c.searchPopupShown(ctx, label, false); err != nil {
		return err
	}

	match := c.page.Locate(searchPopupSelector).Locate(searchMatchSelector).First()
	return c.expect(ctx, "open search suggestion", match.Click)
}
