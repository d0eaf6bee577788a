package verify

import (
	"context"
	"fmt"
)

const (
	appNameSelector     = ".apphub_HomeHeaderContent"
	breadcrumbsSelector = ".breadcrumbs"
	glanceSelector      = ".glance_ctn"
	glanceLeftSelector  = ".glance_ctn_responsive_left"
	headerImageSelector = ".game_header_image_ctn img"
	snippetSelector     = ".game_description_snippet"
	tagsLabel           = "Popular user-defined tags for this product:"
	requirementsHeader  = "System Requirements"
	requirementColumns  = ".game_area_sys_req_leftCol, .game_area_sys_req_rightCol, .game_area_sys_req_full"
)

// GlanceDetails are the expected values of the summary block beside the media
type GlanceDetails struct {
	HeaderImage      string
	ShortDescription string
	ReleaseDate      string
	Developer        string
	Publisher        string
}

// VerifyItemTitle checks the product header is visible and shows name
func (c *Catalog) VerifyItemTitle(ctx context.Context, name string) error {
	header := c.page.Locate(appNameSelector).First()
	title := header.Contains("*", name).First()
	return c.expect(ctx, "item title "+name, func() error {
		return all(
			func() error { return isVisible(header) },
			func() error { return isVisible(title) },
		)
	})
}

// VerifyBreadcrumbs checks the breadcrumb trail reads exactly labels, in order
func (c *Catalog) VerifyBreadcrumbs(ctx context.Context, labels ...string) error {
	trail := c.page.Locate(breadcrumbsSelector).First()
	crumbs := trail.Locate("div").First().Children()

	if err := c.expect(ctx, "breadcrumbs", func() error {
		return all(
			trail.ScrollIntoView,
			func() error { return countEquals(crumbs, len(labels)) },
		)
	}); err != nil {
		return err
	}
	for i, label := range labels {
		crumb := crumbs.Nth(i)
		if err := c.expect(ctx, fmt.Sprintf("breadcrumb %d", i), func() error {
			return textEquals(crumb, label)
		}); err != nil {
			return err
		}
	}
	return nil
}

// VerifyItemGlanceDetails checks the header image, description, review labels,
// release date, developer and publisher of the glance block
func (c *Catalog) VerifyItemGlanceDetails(ctx context.Context, want GlanceDetails) error {
	glance := c.page.Locate(glanceSelector).First()
	img := glance.Locate(headerImageSelector).First()
	snippet := glance.Locate(snippetSelector).First()

	if err := c.expect(ctx, "glance header image", func() error {
		return all(
			glance.ScrollIntoView,
			func() error { return isVisible(img) },
			func() error { return attributeContains(img, "src", want.HeaderImage) },
		)
	}); err != nil {
		return err
	}
	if err := c.expect(ctx, "glance description", func() error {
		return all(
			func() error { return isVisible(snippet) },
			func() error { return textContains(snippet, want.ShortDescription) },
		)
	}); err != nil {
		return err
	}

	left := glance.Locate(glanceLeftSelector)
	label := func(text string) Element {
		return left.Contains("*", text).First()
	}
	labelled := func(text string) error {
		el := label(text)
		return all(
			func() error { return isVisible(el) },
			func() error { return cssEquals(el, "text-transform", "uppercase") },
		)
	}

	for _, text := range []string{"Recent Reviews", "All Reviews"} {
		if err := c.expect(ctx, "glance "+text, func() error {
			return labelled(text)
		}); err != nil {
			return err
		}
	}

	release := label("Release Date").Next()
	if err := c.expect(ctx, "glance release date", func() error {
		return all(
			func() error { return labelled("Release Date") },
			func() error { return textContains(release, want.ReleaseDate) },
			func() error { return isVisible(release) },
		)
	}); err != nil {
		return err
	}

	for _, row := range []struct{ label, value string }{
		{"Developer", want.Developer},
		{"Publisher", want.Publisher},
	} {
		link := label(row.label).Next().Contains("a", row.value).First()
		if err := c.expect(ctx, "glance "+row.label, func() error {
			return all(
				func() error { return labelled(row.label) },
				func() error { return isVisible(link) },
			)
		}); err != nil {
			return err
		}
	}
	return nil
}

// VerifyItemTags checks the first len(tags) user tags read tags, in order
func (c *Catalog) VerifyItemTags(ctx context.Context, tags ...string) error {
	list := c.page.Locate(glanceSelector).Contains("*", tagsLabel).First().Next().Children()

	if err := c.expect(ctx, "tags", func() error {
		return countAtLeast(list, len(tags))
	}); err != nil {
		return err
	}
	for i, tag := range tags {
		el := list.Nth(i)
		if err := c.expect(ctx, fmt.Sprintf("tag %d", i), func() error {
			return all(
				func() error { return textContains(el, tag) },
				func() error { return isVisible(el) },
			)
		}); err != nil {
			return err
		}
	}
	return nil
}

func (c *Catalog) purchaseBlock(ctx context.Context, name string) (Element, error) {
	header := c.page.Contains("h1", "Buy "+name).First()
	err := c.expect(ctx, "purchase block "+name, func() error {
		return all(
			header.ScrollIntoView,
			func() error { return isVisible(header) },
		)
	})
	return header.Parent(), err
}

// VerifyItemPrice checks the purchase block of name. A discount of "-0%" checks
// only the plain price; any other discount checks the badge, the struck-through
// original price and the final price.
func (c *Catalog) VerifyItemPrice(ctx context.Context, name, original, discount, final string) error {
	block, err := c.purchaseBlock(ctx, name)
	if err != nil {
		return err
	}

	if discount == NoDiscount {
		price := block.Locate(".game_purchase_price").First()
		return c.expect(ctx, "price "+name, func() error {
			return all(
				func() error { return isVisible(price) },
				func() error { return textEquals(price, final) },
			)
		})
	}

	for _, part := range []struct{ selector, want string }{
		{".discount_pct", discount},
		{".discount_original_price", original},
		{".discount_final_price", final},
	} {
		el := block.Locate(part.selector).First()
		want := part.want
		if err := c.expect(ctx, "price "+name+" "+part.selector, func() error {
			return all(
				func() error { return isVisible(el) },
				func() error { return textEquals(el, want) },
			)
		}); err != nil {
			return err
		}
	}
	return nil
}

// AddItemToCart clicks the first link of the purchase block of name
func (c *Catalog) AddItemToCart(ctx context.Context, name string) error {
	block, err := c.purchaseBlock(ctx, name)
	if err != nil {
		return err
	}
	link := block.Locate("a").First()
	return c.expect(ctx, "add to cart "+name, func() error {
		return all(
			func() error { return isVisible(link) },
			link.Click,
		)
	})
}

// VerifyRequirements checks each value is visible in the requirements column of
// kind ("Minimum" or "Recommended"). Extra requirements and order are not checked.
func (c *Catalog) VerifyRequirements(ctx context.Context, kind string, values ...string) error {
	header := c.page.Contains("h2", requirementsHeader).First()
	if err := c.expect(ctx, "requirements section", func() error {
		return all(
			header.ScrollIntoView,
			func() error { return isVisible(header) },
		)
	}); err != nil {
		return err
	}

	column := header.Parent().Locate(requirementColumns).Filter(kind).First()
	for _, value := range values {
		el := column.Contains("*", value).First()
		if err := c.expect(ctx, "requirement "+kind+" "+value, func() error {
			return isVisible(el)
		}); err != nil {
			return err
		}
	}
	return nil
}

// VerifyCartTotal checks the estimated total contains want
func (c *Catalog) VerifyCartTotal(ctx context.Context, want string) error {
	price := c.page.Locate(".estimated_total_box").Filter("Estimated total").Locate(".price").First()
	return c.expect(ctx, "cart total", func() error {
		return all(
			price.ScrollIntoView,
			func() error { return textContains(price, want) },
		)
	})
}
