package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"restaurant-cart/internal/config"
	"restaurant-cart/internal/logger"
)

var (
	configPath string
	backend    string
	offline    bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "restaurant-cart",
	Short: "Restaurant ordering site backend",
	Long: `Menu, cart, checkout and notifications for the restaurant ordering site.

Every process reads and writes the same persisted cart, so a badge or a
second server started against the same store converges on the same state.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "Override store.backend (memory, file, sqlite, postgres)")
	rootCmd.PersistentFlags().BoolVar(&offline, "offline", false, "Run without PostgreSQL and RabbitMQ")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(badgeCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(menuCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults when the
// default path does not exist
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if _, statErr := os.Stat(configPath); statErr != nil && !cmd.Flags().Changed("config") {
		cfg = config.Default()
	} else {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	}

	if backend != "" {
		cfg.Store.Backend = backend
		cfg.Store.Path = ""
	}
	if offline {
		cfg.Database = config.DatabaseConfig{}
		cfg.RabbitMQ = config.RabbitMQConfig{}
	}
	if backend != "" || offline {
		if err := cfg.Normalize(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newLogger(mode string) *logger.Logger {
	return logger.New(fmt.Sprintf("restaurant-cart-%s", mode))
}
