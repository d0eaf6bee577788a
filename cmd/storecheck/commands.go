package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/themizzi/storecheck/internal/browser"
	"github.com/themizzi/storecheck/internal/browser/htmlpage"
	internalcli "github.com/themizzi/storecheck/internal/cli"
	"github.com/themizzi/storecheck/internal/config"
	"github.com/themizzi/storecheck/internal/database"
	"github.com/themizzi/storecheck/internal/models"
	"github.com/themizzi/storecheck/internal/repository"
	"github.com/themizzi/storecheck/internal/scenario"
	"github.com/themizzi/storecheck/internal/services"
	"github.com/themizzi/storecheck/internal/verify"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// ServeCommand returns the serve command
func ServeCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Start the fixture storefront",
		Action: func(c *cli.Context) error {
			var cartRepo services.CartRepository = repository.NewMemoryCartRepository()

			if config.PostgresEnabled(os.Getenv) {
				pgConfig, err := config.LoadPostgresConfig(os.Getenv)
				if err != nil {
					return fmt.Errorf("invalid postgres configuration: %w", err)
				}
				if err := database.Connect(pgConfig); err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer database.Close()
				logger.Info("connected to database", zap.String("host", pgConfig.Host))

				if err := database.RunMigrations(logger); err != nil {
					return fmt.Errorf("failed to run database migrations: %w", err)
				}
				cartRepo = repository.NewCartRepository()
			} else {
				logger.Info("POSTGRES_HOSTNAME not set, carts are kept in memory")
			}

			deps, err := internalcli.BuildServerDependencies(
				config.LoadServerConfig(os.Getenv),
				config.LoadFixtureConfig(os.Getenv),
				cartRepo,
				logger,
			)
			if err != nil {
				return err
			}

			return internalcli.RunServe(deps)
		},
	}
}

var countryFlag = &cli.StringFlag{
	Name:  "cc",
	Usage: "country code sent to the API, overrides STORE_COUNTRY",
}

// FetchCommand returns the fetch command
func FetchCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Usage:     "Fetch and normalize product records",
		ArgsUsage: "ID...",
		Flags: []cli.Flag{
			countryFlag,
			&cli.BoolFlag{Name: "json", Usage: "print normalized records as JSON"},
		},
		Action: func(c *cli.Context) error {
			items, _, err := collect(c, logger)
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return writeJSON(c.App.Writer, items)
			}
			return writeItems(c.App.Writer, items)
		},
	}
}

// TotalCommand returns the total command
func TotalCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:      "total",
		Usage:     "Print the expected cart total of products",
		ArgsUsage: "ID...",
		Flags:     []cli.Flag{countryFlag},
		Action: func(c *cli.Context) error {
			items, cc, err := collect(c, logger)
			if err != nil {
				return err
			}
			total, err := scenario.ExpectedTotal(cc, items)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, total)
			return err
		},
	}
}

// RunCommand returns the run command
func RunCommand(logger *zap.Logger) *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the scenarios against the store",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "scenarios", Usage: "YAML scenario file, defaults to the item details and cart total scenarios"},
			&cli.StringFlag{Name: "engine", Value: "chromium", Usage: "chromium, or html to drive the fixture storefront without a browser"},
		},
		Action: func(c *cli.Context) error {
			store, err := config.LoadStoreConfig(os.Getenv)
			if err != nil {
				return err
			}

			scenarios := config.DefaultScenarios()
			if path := c.String("scenarios"); path != "" {
				if scenarios, err = config.LoadScenarios(path); err != nil {
					return err
				}
			}

			newPage, closeEngine, err := pageFactory(c.String("engine"), store, logger)
			if err != nil {
				return err
			}
			defer closeEngine()

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			catalog := services.NewCatalogService(services.NewProductInfoClient(store, logger), logger)
			report := scenario.NewRunner(catalog, newPage, store, logger).Run(ctx, scenarios)

			if err := report.WriteTable(c.App.Writer); err != nil {
				return err
			}
			if !report.OK() {
				return cli.Exit(report.Summary(), 1)
			}
			return nil
		},
	}
}

// pageFactory opens pages on the named engine. The returned func releases the engine.
func pageFactory(engine string, store *config.StoreConfig, logger *zap.Logger) (scenario.PageFactory, func() error, error) {
	switch engine {
	case "chromium":
		session, err := browser.Launch(browser.Options{Headless: store.Headless, ActionTimeout: store.Timeout}, logger)
		if err != nil {
			return nil, nil, err
		}
		newPage := func() (verify.Page, func() error, error) {
			page, err := session.NewPage()
			if err != nil {
				return nil, nil, err
			}
			return page, page.Close, nil
		}
		return newPage, session.Close, nil

	case "html":
		newPage := func() (verify.Page, func() error, error) {
			page := htmlpage.New(htmlpage.NewHTTPFetcher())
			if err := browser.EmulateStorefront(page); err != nil {
				return nil, nil, err
			}
			return page, func() error { return nil }, nil
		}
		return newPage, func() error { return nil }, nil
	}
	return nil, nil, fmt.Errorf("unknown engine %q", engine)
}

// collect fetches the IDs given as arguments and returns them with the country they were priced for
func collect(c *cli.Context, logger *zap.Logger) (*models.ItemCollection, string, error) {
	if c.NArg() == 0 {
		return nil, "", cli.Exit("at least one product ID is required", 2)
	}

	store, err := config.LoadStoreConfig(os.Getenv)
	if err != nil {
		return nil, "", err
	}
	cc := store.Country
	if v := c.String("cc"); v != "" {
		cc = strings.ToLower(v)
	}

	catalog := services.NewCatalogService(services.NewProductInfoClient(store, logger), logger)
	items, err := catalog.Collect(context.Background(), c.Args().Slice(), cc)
	return items, cc, err
}

func writeJSON(w io.Writer, items *models.ItemCollection) error {
	records := make(map[string]*models.NormalizedProduct, items.Len())
	for _, id := range items.IDs() {
		records[id], _ = items.Get(id)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

// writeItems prints one row per product
func writeItems(w io.Writer, items *models.ItemCollection) error {
	rows := [][]string{{"ID", "NAME", "PRICE", "RELEASED", "DEVELOPER", "REQUIREMENTS"}}
	for _, id := range items.IDs() {
		item, _ := items.Get(id)
		rows = append(rows, []string{
			id,
			item.Name,
			price(item),
			item.ReleaseDate.Date,
			item.Developer(),
			strconv.Itoa(len(item.PCRequirements.Minimum)) + "/" + strconv.Itoa(len(item.PCRequirements.Recommended)),
		})
	}
	return scenario.WriteColumns(w, rows)
}

func price(item *models.NormalizedProduct) string {
	switch {
	case item.IsFree:
		return "Free"
	case item.PriceOverview == nil:
		return "-"
	case item.PriceOverview.DiscountPercent > 0:
		return fmt.Sprintf("%s (%s %s)", item.PriceOverview.FinalFormatted, verify.DiscountLabel(item.PriceOverview.DiscountPercent), item.PriceOverview.InitialFormatted)
	}
	return item.PriceOverview.FinalFormatted
}
