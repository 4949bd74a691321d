// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Sources

Each setting is read from, in order of precedence:

 1. CLI flag
 2. environment variable
 3. the env file (default .env, loaded with godotenv; missing is fine)
 4. built-in default

# Settings

	-p                 PORT             3318
	-d                 DATABASE_URL     required
	-t                 DATABASE_TYPE    sqlite (sqlite, postgres, mongo)
	--mongo-db         MONGO_DATABASE   vanishvote
	--identity-salt    IDENTITY_SALT    required
	--vote-policy      VOTE_POLICY      once (once, permissive)
	--store-timeout    STORE_TIMEOUT    5s
	--cors-origins     CORS_ORIGINS     * (comma-separated)
	--trusted-proxies  TRUSTED_PROXIES  none (comma-separated IPs or CIDRs)
	--env-file                          .env

# Validation

ParseFlags returns an error if DATABASE_URL or IDENTITY_SALT is missing,
or if the database type, vote policy, timeout or a trusted proxy is invalid.
*/
package cliparse
