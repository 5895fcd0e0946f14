package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"mediameter/internal/config"
	"mediameter/internal/models"
	"mediameter/internal/storage"
)

// grant-tokens credits purchased or promotional media tokens to an
// account from the command line. Pack purchases are fulfilled by the
// payment webhook in production; this tool covers manual fulfillment
// and support credits.
func main() {
	userID := flag.String("user", "", "user ID to credit")
	amount := flag.Int64("amount", 0, "media tokens to grant")
	reason := flag.String("reason", "manual grant", "reason recorded in the audit entry")
	packID := flag.String("pack", "", "pack ID, if this grant fulfills a purchase")
	flag.Parse()

	if *userID == "" || *amount <= 0 {
		fmt.Fprintln(os.Stderr, "usage: grant-tokens -user <id> -amount <tokens> [-reason <text>] [-pack <id>]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := storage.NewDB(storage.DBConfig{
		DSN:              cfg.Database.URL,
		MaxOpenConns:     cfg.Database.MaxOpenConns,
		MaxIdleConns:     cfg.Database.MaxIdleConns,
		ConnMaxLifetime:  cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:  cfg.Database.ConnMaxIdleTime,
		AccountCacheSize: 10, // Minimal cache for CLI tool
		AccountCacheTTL:  5 * time.Minute,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.EnsureSchema(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to ensure schema: %v\n", err)
		os.Exit(1)
	}

	refType := "manual"
	refID := ""
	if *packID != "" {
		refType = "pack"
		refID = *packID
	}

	repo := storage.NewLedgerRepository(db)
	acct, err := repo.Grant(ctx, *userID, *amount, refType, refID, models.JSONB{"reason": *reason})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to grant tokens: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Granted %d media tokens to %s\n", *amount, *userID)
	fmt.Printf("Balance: %d  Reserved: %d  Available: %d\n", acct.Balance, acct.Reserved, acct.Available())
}
