// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"net/netip"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/danielhkuo/vanishvote/middleware"
	"github.com/danielhkuo/vanishvote/polls"
)

// Database types
const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
	DatabaseMongo    = "mongo"
)

type Config struct {
	Port          int
	DatabaseURL   string
	DatabaseType  string
	MongoDatabase string
	IdentitySalt  string
	VotePolicy    polls.VotePolicy
	StoreTimeout  time.Duration
	CORSOrigins   []string

	// TrustedProxies may set X-Forwarded-For and X-Real-IP; empty trusts no one
	TrustedProxies []netip.Prefix
}

// ParseFlags reads flags, then environment variables, then the env file.
// Flags win over env; values already in the environment win over the file.
func ParseFlags(args []string) (Config, error) {
	var cfg Config
	var envFile, votePolicy, corsOrigins, trustedProxies string

	fs := flag.NewFlagSet("vanishvote", flag.ContinueOnError)

	// Network config (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabaseURL, "d", "", "Database URL")
	fs.StringVar(&cfg.DatabaseType, "t", "", "Database type (sqlite, postgres or mongo)")
	fs.StringVar(&cfg.MongoDatabase, "mongo-db", "", "Mongo database name")
	fs.StringVar(&envFile, "env-file", ".env", "Env file to load if present")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.IdentitySalt, "identity-salt", "", "Identity hashing salt (prefer env)")

	// Policy
	fs.StringVar(&votePolicy, "vote-policy", "", "Vote policy (once or permissive)")
	fs.DurationVar(&cfg.StoreTimeout, "store-timeout", 0, "Timeout for each store operation")
	fs.StringVar(&corsOrigins, "cors-origins", "", "Comma-separated allowed origins")
	fs.StringVar(&trustedProxies, "trusted-proxies", "", "Comma-separated proxy IPs or CIDRs allowed to set X-Forwarded-For")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := loadEnvFile(envFile); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3318 // default
		}
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("database URL required (use -d or DATABASE_URL env)")
	}

	if cfg.DatabaseType == "" {
		cfg.DatabaseType = os.Getenv("DATABASE_TYPE")
		if cfg.DatabaseType == "" {
			cfg.DatabaseType = DatabaseSQLite
		}
	}
	switch cfg.DatabaseType {
	case DatabaseSQLite, DatabasePostgres, DatabaseMongo:
	default:
		return Config{}, fmt.Errorf("unknown database type %q", cfg.DatabaseType)
	}

	if cfg.MongoDatabase == "" {
		cfg.MongoDatabase = os.Getenv("MONGO_DATABASE")
		if cfg.MongoDatabase == "" {
			cfg.MongoDatabase = "vanishvote"
		}
	}

	// Secrets - MUST be provided
	if cfg.IdentitySalt == "" {
		cfg.IdentitySalt = os.Getenv("IDENTITY_SALT")
	}
	if cfg.IdentitySalt == "" {
		return Config{}, errors.New("IDENTITY_SALT required")
	}

	if votePolicy == "" {
		votePolicy = os.Getenv("VOTE_POLICY")
		if votePolicy == "" {
			votePolicy = string(polls.PolicyOnce)
		}
	}
	policy, err := polls.ParseVotePolicy(votePolicy)
	if err != nil {
		return Config{}, err
	}
	cfg.VotePolicy = policy

	if cfg.StoreTimeout == 0 {
		if s := os.Getenv("STORE_TIMEOUT"); s != "" {
			d, err := time.ParseDuration(s)
			if err != nil {
				return Config{}, errors.New("invalid STORE_TIMEOUT env variable")
			}
			cfg.StoreTimeout = d
		} else {
			cfg.StoreTimeout = 5 * time.Second
		}
	}
	if cfg.StoreTimeout < 0 {
		return Config{}, errors.New("store timeout must not be negative")
	}

	if corsOrigins == "" {
		corsOrigins = os.Getenv("CORS_ORIGINS")
	}
	cfg.CORSOrigins = splitOrigins(corsOrigins)

	if trustedProxies == "" {
		trustedProxies = os.Getenv("TRUSTED_PROXIES")
	}
	proxies, err := middleware.ParseTrustedProxies(strings.Split(trustedProxies, ","))
	if err != nil {
		return Config{}, err
	}
	cfg.TrustedProxies = proxies

	return cfg, nil
}

// loadEnvFile loads path into the environment without overriding existing
// variables. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func splitOrigins(s string) []string {
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
