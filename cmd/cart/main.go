// Command cart is the on-device shopping cart: pick products, keep a cart
// between runs and hand it off as a WhatsApp order.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/sweetcrumb/storefront/internal/cart"
	"github.com/sweetcrumb/storefront/internal/catalog"
	"github.com/sweetcrumb/storefront/internal/config"
	"github.com/sweetcrumb/storefront/internal/logging"
	"github.com/sweetcrumb/storefront/internal/matcher"
	"github.com/sweetcrumb/storefront/internal/order"
	"github.com/sweetcrumb/storefront/internal/storage"
	"go.uber.org/zap"
)

// app holds everything a command needs. It is built once per process, so
// the interactive shell shares one store and pulse across commands.
type app struct {
	out io.Writer
	in  io.Reader

	cfg       *config.Config
	logger    *zap.Logger
	catalog   *catalog.Catalog
	matcher   *matcher.Matcher
	backend   storage.Backend
	store     *cart.Store
	pulse     *cart.Pulse
	formatter *order.Formatter
}

// Global flags
type rootFlags struct {
	backend string
	dir     string
	catalog string
	verbose bool
}

func newRootCmd(a *app) *cobra.Command {
	var flags rootFlags

	root := &cobra.Command{
		Use:   "cart",
		Short: "SweetCrumb bakery cart",
		Long: `cart keeps a bakery order on this device.

Add products with their pack, size, flavors or toppings, review the cart,
and print a WhatsApp link that sends the order to the shop.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.store != nil {
				return nil
			}
			return a.init(flags)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.out)
	root.SetIn(a.in)

	root.PersistentFlags().StringVar(&flags.backend, "backend", "", "cart storage: file, sqlite or memory (default from CART_BACKEND)")
	root.PersistentFlags().StringVar(&flags.dir, "dir", "", "directory for file and sqlite storage (default from CART_DIR)")
	root.PersistentFlags().StringVar(&flags.catalog, "catalog", "", "catalog YAML file (default: configured catalog source)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newProductsCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newRemoveCmd(a),
		newSetQtyCmd(a),
		newClearCmd(a),
		newCheckoutCmd(a),
		newShellCmd(a),
	)
	return root
}

func (a *app) init(flags rootFlags) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if flags.backend != "" {
		cfg.Cart.Backend = flags.backend
	}
	if flags.dir != "" {
		cfg.Cart.Dir = flags.dir
	}
	if flags.verbose {
		cfg.LogLevel = "debug"
	} else if cfg.LogLevel == "info" {
		// Progress goes to stdout; only problems reach the log.
		cfg.LogLevel = "warn"
	}
	a.cfg = cfg

	logger, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	a.logger = logger

	var cat *catalog.Catalog
	if flags.catalog != "" {
		cat, err = catalog.LoadFile(flags.catalog)
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		cat, err = catalog.Open(ctx, cfg.CatalogSource, cfg.DatabaseURL)
		cancel()
	}
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	a.catalog = cat
	a.matcher = matcher.New(cat.Products())

	backend, err := storage.Open(cfg.Cart.Backend, cfg.Cart.Dir)
	if err != nil {
		return fmt.Errorf("open cart storage: %w", err)
	}
	a.backend = backend
	a.store = cart.NewStore(backend, logger.Named("cart"))
	a.pulse = cart.NewPulse(a.store, cfg.Cart.PulseDelay)
	a.formatter = order.NewFormatter(cfg.WhatsApp.Phone, cfg.WhatsApp.BaseURL, cfg.ShopName, cat)

	logger.Debug("cart ready",
		zap.String("backend", cfg.Cart.Backend),
		zap.String("dir", cfg.Cart.Dir),
		zap.Int("items", len(a.store.Items())),
	)
	return nil
}

func (a *app) close() {
	if a.pulse != nil {
		a.pulse.Stop()
	}
	if a.backend != nil {
		if err := a.backend.Close(); err != nil {
			a.logger.Warn("close cart storage", zap.Error(err))
		}
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func main() {
	a := &app{out: os.Stdout, in: os.Stdin}
	err := newRootCmd(a).Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
