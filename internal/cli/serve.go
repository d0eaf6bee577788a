package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/themizzi/storecheck/internal/config"
	"github.com/themizzi/storecheck/internal/handlers"
	"github.com/themizzi/storecheck/internal/repository"
	"github.com/themizzi/storecheck/internal/services"
	"go.uber.org/zap"
)

// ServerDependencies holds all dependencies needed for the fixture storefront
type ServerDependencies struct {
	ServerConfig             config.ServerConfig
	StaticDir                string
	Logger                   *zap.Logger
	HomeHandler              http.Handler
	SearchSuggestHandler     http.Handler
	ProductHandler           http.Handler
	AgeCheckHandler          http.Handler
	CookiePreferencesHandler http.Handler
	CartAddHandler           http.Handler
	CartHandler              http.Handler
	AppDetailsHandler        http.Handler
}

// BuildServerDependencies loads the fixture products and creates every handler.
// Carts are kept in cartRepo.
func BuildServerDependencies(serverConfig config.ServerConfig, fixture config.FixtureConfig, cartRepo services.CartRepository, logger *zap.Logger) (ServerDependencies, error) {
	deps := ServerDependencies{
		ServerConfig: serverConfig,
		StaticDir:    fixture.StaticDir,
		Logger:       logger,
	}

	products, err := repository.LoadProductRepository(fixture.DataDir)
	if err != nil {
		return deps, fmt.Errorf("failed to load fixture products: %w", err)
	}
	logger.Info("fixture products loaded", zap.String("dir", fixture.DataDir), zap.Int("count", len(products.All())))

	cartService := services.NewCartService(cartRepo, logger)

	if deps.HomeHandler, err = handlers.NewHomeHandler(fixture.TemplateDir, products, logger); err != nil {
		return deps, fmt.Errorf("failed to create home handler: %w", err)
	}
	if deps.SearchSuggestHandler, err = handlers.NewSearchSuggestHandler(fixture.TemplateDir, products, logger); err != nil {
		return deps, fmt.Errorf("failed to create search handler: %w", err)
	}
	if deps.ProductHandler, err = handlers.NewProductHandler(fixture.TemplateDir, products, logger); err != nil {
		return deps, fmt.Errorf("failed to create product handler: %w", err)
	}
	if deps.AgeCheckHandler, err = handlers.NewAgeCheckHandler(fixture.TemplateDir, products, logger); err != nil {
		return deps, fmt.Errorf("failed to create age check handler: %w", err)
	}
	if deps.CartHandler, err = handlers.NewCartHandler(fixture.TemplateDir, cartService, logger); err != nil {
		return deps, fmt.Errorf("failed to create cart handler: %w", err)
	}
	deps.CookiePreferencesHandler = handlers.NewCookiePreferencesHandler(logger)
	deps.CartAddHandler = handlers.NewCartAddHandler(cartService, products, logger)
	deps.AppDetailsHandler = handlers.NewAppDetailsHandler(products, logger)

	return deps, nil
}

// NewRouter maps the storefront routes onto the handlers of deps
func NewRouter(deps ServerDependencies) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", deps.HomeHandler)
	mux.Handle("/search/suggest", deps.SearchSuggestHandler)
	mux.Handle("/app/{id}/", deps.ProductHandler)
	mux.Handle("/agecheck/app/{id}/", deps.AgeCheckHandler)
	mux.Handle("/cookiepreferences", deps.CookiePreferencesHandler)
	mux.Handle("/cart/add", deps.CartAddHandler)
	mux.Handle("/cart/", deps.CartHandler)
	mux.Handle("/api/appdetails", deps.AppDetailsHandler)

	staticDir := deps.StaticDir
	if staticDir == "" {
		staticDir = "static"
	}
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	return mux
}

// RunServe starts the fixture storefront and blocks until SIGINT or SIGTERM
func RunServe(deps ServerDependencies) error {
	listener, server, err := StartServer(deps)
	if err != nil {
		return err
	}
	defer listener.Close()

	return WaitForShutdown(server, nil, deps.logger())
}

// StartServer creates and starts the HTTP server, returning the listener and server
func StartServer(deps ServerDependencies) (net.Listener, *http.Server, error) {
	logger := deps.logger()

	addr := fmt.Sprintf(":%s", deps.ServerConfig.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create listener: %w", err)
	}

	server := &http.Server{
		Handler:           NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", listener.Addr().String()))
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}()

	return listener, server, nil
}

// WaitForShutdown waits for a shutdown signal and gracefully shuts down the server.
// If shutdown is nil, a channel is created and registered with signal.Notify.
func WaitForShutdown(server *http.Server, shutdown chan os.Signal, logger *zap.Logger) error {
	return WaitForShutdownWithTimeout(server, shutdown, 30*time.Second, logger)
}

// WaitForShutdownWithTimeout allows specifying a custom shutdown timeout (primarily for testing)
func WaitForShutdownWithTimeout(server *http.Server, shutdown chan os.Signal, shutdownTimeout time.Duration, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	if shutdown == nil {
		shutdown = make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(shutdown)
	}

	sig := <-shutdown
	logger.Info("shutting down server", zap.Stringer("signal", sig))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		// Close does not report listener errors, so this only fails on
		// errors from closing tracked connections.
		if err := server.Close(); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	logger.Info("server stopped")
	return nil
}

func (d ServerDependencies) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
