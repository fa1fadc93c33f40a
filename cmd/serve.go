package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"restaurant-cart/internal/cartstore"
	"restaurant-cart/internal/messaging"
	"restaurant-cart/internal/models"
	"restaurant-cart/internal/server"
	"restaurant-cart/internal/services/auth"
	"restaurant-cart/internal/services/badge"
	"restaurant-cart/internal/services/cart"
	"restaurant-cart/internal/services/checkout"
	"restaurant-cart/internal/services/contact"
	"restaurant-cart/internal/services/order"
	"restaurant-cart/internal/services/payment"
)

var errBrokerClosed = errors.New("rabbitmq connection closed")

var (
	servePort  int
	serveBadge bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve the menu, cart, auth, checkout, orders and contact endpoints.

With --badge the header badge view runs in the same process and follows
the cart through the store, exactly as a separate badge process would.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "HTTP port (default from config)")
	serveCmd.Flags().BoolVar(&serveBadge, "badge", false, "Also run the header badge view in-process")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	log := newLogger("server")
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer d.Close()

	store, sources, err := openStore(cfg, d, log)
	if err != nil {
		return err
	}

	// in-process watchers hear about writes from this server immediately
	broadcaster := cartstore.NewBroadcaster()
	notifiers := []cart.ChangeNotifier{broadcaster}
	var publisher *messaging.Publisher
	if d.mq != nil {
		publisher = messaging.NewPublisher(d.mq, log)
		notifiers = append(notifiers, publisher)
	}

	manager := cart.NewManager(store, "server-"+uuid.NewString()[:8], log, notifiers...)

	provider := auth.NewSimulated(auth.Options{
		CountryCode: cfg.Auth.CountryCode,
		OTPLength:   cfg.Auth.OTPLength,
		OTPTTL:      cfg.Auth.OTPTTL,
		SessionTTL:  cfg.Auth.SessionTTL,
	}, log)
	defer provider.OnAuthStateChange(func(c auth.StateChange) {
		fields := map[string]interface{}{"event": string(c.Event)}
		if c.Session != nil {
			fields["user_id"] = c.Session.UserID
		}
		log.Info("auth_state_changed", "Auth state changed", "", fields)
	})()

	var repo order.Repository = order.NewMemoryRepository()
	if d.db != nil {
		repo = order.NewPostgresRepository(d.db)
	}
	orders := order.NewService(repo, log)

	var checkoutNotifier checkout.Notifier
	var contactNotifier contact.Notifier
	if publisher != nil {
		checkoutNotifier = publisher
		contactNotifier = publisher
	}

	checkoutService := checkout.NewService(provider, manager,
		payment.NewGateway(cfg.Checkout.PaymentDelay, log),
		orders, checkoutNotifier,
		checkout.Options{
			TaxBasisPoints: cfg.Checkout.TaxBasisPoints,
			DeliveryFee:    models.Amount(cfg.Checkout.DeliveryFee),
			ClearOnSuccess: cfg.Checkout.ClearOnSuccess,
		}, log)

	mux := http.NewServeMux()
	cart.NewHandler(manager, log).RegisterRoutes(mux)
	auth.NewHandler(provider, log).RegisterRoutes(mux)
	checkout.NewHandler(checkoutService, log).RegisterRoutes(mux)
	order.NewHandler(orders, provider, log).RegisterRoutes(mux)
	contact.NewHandler(contact.NewService(contactNotifier, log), log).RegisterRoutes(mux)
	mux.HandleFunc("GET /health", server.Health("restaurant-cart", healthChecks(store, d)))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.New(cfg.Server.Port, mux, log).Run(gctx)
	})
	if serveBadge {
		watcher := cartstore.NewWatcher(store, cfg.Store.PollInterval, log, append(sources, broadcaster)...)
		g.Go(func() error {
			return badge.New(watcher, log, nil).Run(gctx)
		})
	}

	err = g.Wait()
	log.Info("service_stopped", "Service stopped gracefully", "", nil)
	return err
}

func healthChecks(store *cartstore.Store, d *deps) map[string]server.Check {
	checks := map[string]server.Check{
		"store": func(ctx context.Context) error {
			_, err := store.Load(ctx)
			return err
		},
	}
	if d.db != nil {
		checks["database"] = d.db.Ping
	}
	if d.mq != nil {
		checks["rabbitmq"] = func(context.Context) error {
			if d.mq.IsClosed() {
				return errBrokerClosed
			}
			return nil
		}
	}
	return checks
}
