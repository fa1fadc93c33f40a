package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"restaurant-cart/internal/cartstore"
	"restaurant-cart/internal/services/badge"
)

var badgeCmd = &cobra.Command{
	Use:   "badge",
	Short: "Follow the persisted cart and print the header badge",
	Long: `Watch the cart store and print the item count and total every time they
change, whether the change came from this machine or another process.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		log := newLogger("badge")
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

		out := cmd.OutOrStdout()
		watcher := cartstore.NewWatcher(store, cfg.Store.PollInterval, log, sources...)
		return badge.New(watcher, log, func(s badge.State) {
			fmt.Fprintf(out, "🛒 %d  %s\n", s.Count, s.Total)
		}).Run(ctx)
	},
}
