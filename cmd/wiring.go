package main

import (
	"context"
	"fmt"
	"io"

	"restaurant-cart/internal/cartstore"
	"restaurant-cart/internal/config"
	"restaurant-cart/internal/database"
	"restaurant-cart/internal/logger"
	"restaurant-cart/internal/messaging"
)

// deps holds the external connections one process opened
type deps struct {
	db      *database.DB
	mq      *messaging.Connection
	closers []func()
}

// connect opens PostgreSQL and RabbitMQ when they are configured
func connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*deps, error) {
	d := &deps{}

	if url := cfg.DatabaseURL(); url != "" {
		db, err := database.New(ctx, url, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		d.closers = append(d.closers, db.Close)
		log.Info("db_connected", "Connected to PostgreSQL database", "startup", nil)

		if err := db.RunMigrations(ctx); err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		d.db = db
	}

	if url := cfg.RabbitMQURL(); url != "" {
		mq, err := messaging.New(ctx, url, log)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("failed to initialize messaging: %w", err)
		}
		d.closers = append(d.closers, func() { mq.Close() })
		log.Info("rabbitmq_connected", "Connected to RabbitMQ", "startup", nil)
		d.mq = mq
	}

	return d, nil
}

// Close releases connections in reverse order
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// openStore builds the configured KV backend and the event sources that
// report writes to it from other processes
func openStore(cfg *config.Config, d *deps, log *logger.Logger) (*cartstore.Store, []cartstore.EventSource, error) {
	var kv cartstore.KV

	switch cfg.Store.Backend {
	case config.BackendMemory:
		kv = cartstore.NewMemoryKV()
	case config.BackendFile:
		fileKV, err := cartstore.NewFileKV(cfg.Store.Path, log)
		if err != nil {
			return nil, nil, err
		}
		kv = fileKV
	case config.BackendSQLite:
		sqliteKV, err := cartstore.NewSQLiteKV(cfg.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		d.closers = append(d.closers, func() { closeQuietly(sqliteKV, log) })
		kv = sqliteKV
	case config.BackendPostgres:
		if d.db == nil {
			return nil, nil, fmt.Errorf("store backend postgres requires a database connection")
		}
		kv = cartstore.NewPostgresKV(d.db)
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %s", cfg.Store.Backend)
	}

	var sources []cartstore.EventSource
	if es, ok := kv.(cartstore.EventSource); ok {
		sources = append(sources, es)
	}
	if d.mq != nil {
		sources = append(sources, messaging.NewCartEvents(d.mq, log))
	}

	log.Info("store_opened", "Cart store ready", "startup", map[string]interface{}{
		"backend":       cfg.Store.Backend,
		"path":          cfg.Store.Path,
		"key":           cfg.Store.Key,
		"event_sources": len(sources),
	})
	return cartstore.NewStore(kv, cfg.Store.Key, log), sources, nil
}

func closeQuietly(c io.Closer, log *logger.Logger) {
	if err := c.Close(); err != nil {
		log.Warn("close_failed", "Failed to close resource", "", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
