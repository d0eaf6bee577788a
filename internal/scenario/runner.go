// Package scenario drives the assertion catalog through the item details and
// cart total scenarios.
package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/themizzi/storecheck/internal/config"
	"github.com/themizzi/storecheck/internal/models"
	"github.com/themizzi/storecheck/internal/pricing"
	"github.com/themizzi/storecheck/internal/services"
	"github.com/themizzi/storecheck/internal/verify"
	"go.uber.org/zap"
)

// PageFactory opens a fresh browser page with no cookies. The returned func
// closes it.
type PageFactory func() (verify.Page, func() error, error)

// Runner runs scenarios against the store configured in StoreConfig
type Runner struct {
	catalog services.CatalogService
	newPage PageFactory
	store   *config.StoreConfig
	wait    verify.Waiter
	logger  *zap.Logger
}

// NewRunner creates a scenario runner. Page checks wait up to store.Timeout.
func NewRunner(catalog services.CatalogService, newPage PageFactory, store *config.StoreConfig, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		catalog: catalog,
		newPage: newPage,
		store:   store,
		wait:    verify.Waiter{Timeout: store.Timeout, Interval: verify.DefaultInterval},
		logger:  logger,
	}
}

// Run executes scenarios in order. Each item of an item scenario is a case of
// its own; a failure or error in one case never stops its siblings. A cart
// scenario is a single case.
// Cancelling ctx stops the run after the current case.
func (r *Runner) Run(ctx context.Context, scenarios []config.Scenario) Report {
	var report Report
	for _, sc := range scenarios {
		if ctx.Err() != nil {
			r.logger.Warn("run cancelled", zap.String("scenario", sc.Name), zap.Error(ctx.Err()))
			break
		}

		log := r.logger.With(zap.String("scenario", sc.Name), zap.String("kind", string(sc.Kind)), zap.String("cc", sc.Country))
		log.Info("scenario started", zap.Strings("items", sc.Items))

		var results []Result
		switch sc.Kind {
		case config.KindItem:
			results = r.runItems(ctx, sc)
		case config.KindCart:
			results = []Result{r.runCart(ctx, sc)}
		default:
			results = []Result{{Scenario: sc.Name, Kind: sc.Kind, Status: StatusError, Err: fmt.Errorf("unknown scenario kind %q", sc.Kind)}}
		}

		for _, res := range results {
			res.log(log)
		}
		report.Results = append(report.Results, results...)
	}
	return report
}

// runItems checks every item as its own case: each is fetched and checked on
// its own, so a bad record or a broken page only costs that item
func (r *Runner) runItems(ctx context.Context, sc config.Scenario) []Result {
	var results []Result
	for _, id := range sc.Items {
		if ctx.Err() != nil {
			break
		}

		start := time.Now()
		items, err := r.catalog.Collect(ctx, []string{id}, sc.Country)
		if err != nil {
			results = append(results, newResult(sc, id, err, time.Since(start)))
			continue
		}
		item, _ := items.Get(id)

		err = r.withPage(func(page verify.Page) error {
			return r.CheckItem(ctx, page, sc, id, item)
		})
		results = append(results, newResult(sc, id, err, time.Since(start)))
	}
	return results
}

func (r *Runner) runCart(ctx context.Context, sc config.Scenario) Result {
	start := time.Now()
	items, err := r.catalog.Collect(ctx, sc.Items, sc.Country)
	if err != nil {
		return newResult(sc, "", err, time.Since(start))
	}

	err = r.withPage(func(page verify.Page) error {
		return r.CheckCart(ctx, page, sc, items)
	})
	return newResult(sc, "", err, time.Since(start))
}

func (r *Runner) withPage(fn func(verify.Page) error) (err error) {
	page, closePage, err := r.newPage()
	if err != nil {
		return fmt.Errorf("failed to open page: %w", err)
	}
	defer func() {
		if cerr := closePage(); cerr != nil {
			r.logger.Warn("failed to close page", zap.Error(cerr))
		}
	}()
	return fn(page)
}

// CheckItem opens item from the store front and checks its product page
// against the API record
func (r *Runner) CheckItem(ctx context.Context, page verify.Page, sc config.Scenario, id string, item *models.NormalizedProduct) error {
	cat := verify.NewCatalog(page, r.wait, r.logger.With(zap.String("item", id)))

	if err := r.openStore(ctx, cat, sc); err != nil {
		return err
	}
	if err := r.openItem(ctx, cat, id, item); err != nil {
		return err
	}
	if err := cat.VerifyItemTitle(ctx, item.Name); err != nil {
		return err
	}
	if err := cat.VerifyItemGlanceDetails(ctx, glanceDetails(item)); err != nil {
		return err
	}

	if po := item.PriceOverview; po != nil && !item.IsFree {
		err := cat.VerifyItemPrice(ctx, item.Name, po.InitialFormatted, verify.DiscountLabel(po.DiscountPercent), po.FinalFormatted)
		if err != nil {
			return err
		}
	}

	if err := cat.VerifyRequirements(ctx, "Minimum", values(item.PCRequirements.Minimum)...); err != nil {
		return err
	}
	if len(item.PCRequirements.Recommended) > 0 {
		return cat.VerifyRequirements(ctx, "Recommended", values(item.PCRequirements.Recommended)...)
	}
	return nil
}

// CheckCart adds every item of items to the cart and checks the cart total
// against the sum of their final prices
func (r *Runner) CheckCart(ctx context.Context, page verify.Page, sc config.Scenario, items *models.ItemCollection) error {
	expected, err := ExpectedTotal(sc.Country, items)
	if err != nil {
		return err
	}

	cat := verify.NewCatalog(page, r.wait, r.logger.With(zap.String("scenario", sc.Name)))
	if err := r.openStore(ctx, cat, sc); err != nil {
		return err
	}

	for _, id := range items.IDs() {
		item, _ := items.Get(id)
		if err := r.openItem(ctx, cat, id, item); err != nil {
			return err
		}
		if err := cat.AddItemToCart(ctx, item.Name); err != nil {
			return err
		}
		if err := cat.VerifyCartURL(ctx); err != nil {
			return err
		}
	}

	return cat.VerifyCartTotal(ctx, expected)
}

func (r *Runner) openStore(ctx context.Context, cat *verify.Catalog, sc config.Scenario) error {
	if err := cat.Page().Goto(ctx, r.store.URL("?cc="+sc.Country)); err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	if sc.ResolveCookies {
		return cat.ResolveCookies(ctx)
	}
	return nil
}

// openItem searches for id and follows the suggestion, passing the age gate
// when the store shows one
func (r *Runner) openItem(ctx context.Context, cat *verify.Catalog, id string, item *models.NormalizedProduct) error {
	if err := cat.SearchItem(ctx, id, item.Name); err != nil {
		return err
	}

	page := cat.Page()
	var gated bool
	err := r.wait.Until(ctx, "open item "+id, func() error {
		u := page.URL()
		switch {
		case strings.Contains(u, "/agecheck/"):
			gated = true
			return nil
		case strings.Contains(u, "/app/"+id):
			return nil
		}
		return &verify.AssertionFailure{Expected: "product page or age check", Actual: u}
	})
	if err != nil {
		return err
	}

	if gated {
		r.logger.Debug("age gate shown", zap.String("item", id))
		if err := cat.ResolveAgeCheck(ctx, verify.DefaultBirthDate); err != nil {
			return err
		}
	}
	return cat.VerifyURL(ctx, id, item.Name)
}

// ExpectedTotal sums final prices in the locale of country cc: dollar totals
// for the US store, euro totals everywhere else
func ExpectedTotal(cc string, items *models.ItemCollection) (string, error) {
	if pricing.CurrencyFor(cc) == "USD" {
		return pricing.SumFinalPricesUS(items.Items())
	}
	return pricing.SumFinalPrices(items.Items())
}

func glanceDetails(item *models.NormalizedProduct) verify.GlanceDetails {
	return verify.GlanceDetails{
		HeaderImage:      item.HeaderImage,
		ShortDescription: item.ShortDescription,
		ReleaseDate:      item.ReleaseDate.Date,
		Developer:        item.Developer(),
		Publisher:        item.Publisher(),
	}
}

// values returns the requirement values, ordered by label for stable logs
func values(m models.RequirementMap) []string {
	labels := make([]string, 0, len(m))
	for label := range m {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	out := make([]string, 0, len(m))
	for _, label := range labels {
		out = append(out, m[label])
	}
	return out
}
