package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/bazaargo/storefront/internal/api"
	"github.com/bazaargo/storefront/internal/auth"
	"github.com/bazaargo/storefront/internal/cart"
	"github.com/bazaargo/storefront/internal/checkout"
	"github.com/bazaargo/storefront/internal/config"
	"github.com/bazaargo/storefront/internal/logger"
	"github.com/bazaargo/storefront/internal/offline"
	"github.com/bazaargo/storefront/internal/storage"
)

// app wires the storefront components once per invocation. The CLI commands
// play the role of the UI pages: they call the cart store and the API client
// and surface local failures inline.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	store    *storage.BoltStore
	cart     *cart.Store
	backend  *api.Client
	auth     *auth.Manager
	checkout *checkout.Service
}

func (a *app) init() error {
	a.cfg = config.Load()

	log, err := logger.New(a.cfg.Debug)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.log = log

	if err := os.MkdirAll(filepath.Dir(a.cfg.StatePath), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	a.store, err = storage.Open(a.cfg.StatePath)
	if err != nil {
		return err
	}

	cache, err := offline.NewBoltCache(a.store.DB(), a.cfg.CacheVersion)
	if err != nil {
		return err
	}
	if err := cache.Activate(); err != nil {
		return fmt.Errorf("purge stale cache versions: %w", err)
	}

	httpClient := &http.Client{
		Timeout: a.cfg.RequestTimeout,
		Transport: otelhttp.NewTransport(
			offline.NewTransport(http.DefaultTransport, cache, a.log),
		),
	}

	a.cart = cart.NewStore(cart.Config{
		CODFee:            a.cfg.CODFee,
		FreeDeliveryAbove: a.cfg.FreeDeliveryAbove,
	}, a.log)

	persister := cart.NewPersister(a.store, a.log)
	lines, err := persister.Load()
	if err != nil {
		return err
	}
	a.cart.Restore(lines)
	persister.Attach(a.cart)

	// The API client and auth manager reference each other through the
	// TokenSource/SessionClearer interfaces, so wire auth in two steps.
	verifier := auth.NewHTTPVerifier(a.cfg.VerifierBaseURL, httpClient)
	a.auth = auth.NewManager(verifier, nil, a.store, a.cart, a.log)
	a.backend = api.NewClient(api.Config{
		BaseURL:    a.cfg.APIBaseURL,
		HTTPClient: httpClient,
		Tokens:     a.auth,
		Navigator:  &termNavigator{},
		Sessions:   a.auth,
		Logger:     a.log,
	})
	a.auth.SetBackend(a.backend)
	a.auth.Load()

	a.checkout = checkout.NewService(a.cart, a.backend, a.log)
	return nil
}

func (a *app) close() {
	if a.log != nil {
		_ = a.log.Sync()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Local marketplace storefront",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newCategoriesCmd(a),
		newShopsCmd(a),
		newProductsCmd(a),
		newProductCmd(a),
		newStatsCmd(a),
		newCartCmd(a),
		newCouponCmd(a),
		newCheckoutCmd(a),
		newOrdersCmd(a),
		newOrderCmd(a),
		newCancelCmd(a),
		newReviewCmd(a),
		newNewsletterCmd(a),
	)
	return root
}
