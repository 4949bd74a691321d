// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/vanishvote/auth"
	"github.com/danielhkuo/vanishvote/cliparse"
	"github.com/danielhkuo/vanishvote/db"
	"github.com/danielhkuo/vanishvote/polls"
	"github.com/danielhkuo/vanishvote/router"
	"github.com/danielhkuo/vanishvote/store"
	"github.com/danielhkuo/vanishvote/store/mongostore"
	"github.com/danielhkuo/vanishvote/store/sqlstore"
)

func main() {
	var err error

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Connect to the poll store
	st, err := openStore(cfg)
	if err != nil {
		slog.Error("store setup failed", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("Poll store ready", "type", cfg.DatabaseType)

	hasher, err := auth.NewHasher(cfg.IdentitySalt)
	if err != nil {
		slog.Error("identity hasher setup failed", "error", err)
		os.Exit(1)
	}

	svc := polls.NewService(st, hasher, polls.Options{
		Policy:       cfg.VotePolicy,
		StoreTimeout: cfg.StoreTimeout,
	})

	// Create server
	server := http.Server{
		Handler:           router.NewRouter(svc, cfg),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal, then let in-flight requests finish
		<-ctrlc
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "vote_policy", cfg.VotePolicy)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}

// openStore connects the backend named by cfg.DatabaseType, creating the
// schema or indexes it needs
func openStore(cfg cliparse.Config) (store.Store, error) {
	switch cfg.DatabaseType {
	case cliparse.DatabaseMongo:
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return mongostore.Connect(ctx, cfg.DatabaseURL, cfg.MongoDatabase)

	case cliparse.DatabaseSQLite, cliparse.DatabasePostgres:
		dialect := db.Dialect(cfg.DatabaseType)
		conn, err := db.Open(dialect, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := db.CreateSchema(conn, dialect); err != nil {
			conn.Close()
			return nil, fmt.Errorf("schema creation failed: %w", err)
		}
		return sqlstore.New(conn), nil

	default:
		return nil, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}
}
