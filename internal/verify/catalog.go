package verify

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Catalog runs the store's page checks against a Page. Every check is retried by
// the Waiter until it passes or times out, so callers see a single pass or fail.
type Catalog struct {
	page   Page
	wait   Waiter
	logger *zap.Logger
}

// NewCatalog creates a Catalog. A nil logger disables check logging.
func NewCatalog(page Page, wait Waiter, logger *zap.Logger) *Catalog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{page: page, wait: wait, logger: logger}
}

// Page returns the page the catalog checks
func (c *Catalog) Page() Page {
	return c.page
}

func (c *Catalog) expect(ctx context.Context, check string, fn func() error) error {
	start := time.Now()
	err := c.wait.Until(ctx, check, fn)
	if err != nil {
		c.logger.Warn("check failed", zap.String("check", check), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return err
	}
	c.logger.Debug("check passed", zap.String("check", check), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// URLSlug turns a product name into the path segment the store uses for it
func URLSlug(name string) string {
	return strings.ReplaceAll(strings.ReplaceAll(name, ":", ""), " ", "_")
}

// DiscountLabel renders a discount percentage as shown on the price badge
func DiscountLabel(percent int) string {
	return "-" + strconv.Itoa(percent) + "%"
}

// NoDiscount is the label for a product sold at full price
const NoDiscount = "-0%"
