package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/erazemk/oglasnik/internal/auth"
	"github.com/erazemk/oglasnik/internal/db"
	"github.com/erazemk/oglasnik/internal/store"
)

// cmdToken mints a seller token signed with the database's secret.
func cmdToken(args []string) error {
	var common commonFlags
	fs := newFlagSet("token", &common)

	var subject, name string
	var ttl time.Duration
	fs.StringVar(&subject, "sub", "", "")
	fs.StringVar(&subject, "s", "", "")
	fs.StringVar(&name, "name", "", "")
	fs.StringVar(&name, "n", "", "")
	fs.DurationVar(&ttl, "ttl", auth.TokenExpiry, "")
	fs.DurationVar(&ttl, "t", auth.TokenExpiry, "")

	if err := parse(fs, args); err != nil {
		return err
	}
	if subject == "" {
		return errors.New("-sub is required")
	}

	database, secret, err := openForTokens(common)
	if err != nil {
		return err
	}
	defer database.Close()

	token, err := auth.GenerateToken(secret, subject, name, ttl)
	if err != nil {
		return fmt.Errorf("generating token: %w", err)
	}
	fmt.Println(token)
	return nil
}

// cmdRevoke withdraws a seller token before it expires.
func cmdRevoke(args []string) error {
	var common commonFlags
	fs := newFlagSet("revoke", &common)

	// The token comes first; flags may follow it.
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		fs.Usage()
		return errors.New("token argument is required")
	}
	tokenStr := args[0]
	if err := parse(fs, args[1:]); err != nil {
		return err
	}

	database, secret, err := openForTokens(common)
	if err != nil {
		return err
	}
	defer database.Close()

	claims, err := auth.ValidateToken(secret, tokenStr)
	if err != nil {
		return fmt.Errorf("validating token: %w", err)
	}

	revocations := &store.Revocations{DB: database}
	if err := revocations.Revoke(context.Background(), claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	fmt.Printf("revoked token %s for %s\n", claims.ID, claims.Subject)
	return nil
}

// openForTokens opens the configured database and loads its signing secret.
func openForTokens(common commonFlags) (*sql.DB, string, error) {
	cfg, err := loadConfig(common)
	if err != nil {
		return nil, "", err
	}

	database, err := db.Open(cfg.DB.Path)
	if err != nil {
		return nil, "", fmt.Errorf("opening database: %w", err)
	}

	if err := db.Migrate(database); err != nil {
		database.Close()
		return nil, "", fmt.Errorf("migrating database: %w", err)
	}

	secret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		database.Close()
		return nil, "", fmt.Errorf("loading jwt secret: %w", err)
	}
	return database, secret, nil
}
