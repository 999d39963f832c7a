package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/apexbill/apexbill-backend/internal/setuptokens"
	"github.com/apexbill/apexbill-backend/pkg/config"
	"github.com/apexbill/apexbill-backend/pkg/db"
	"github.com/apexbill/apexbill-backend/pkg/logger"
)

// Mints a single-use setup token bound to an email address. Redeeming it
// through the API creates the first superadmin account.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "setup-token"})

	_ = godotenv.Load()

	email := flag.String("email", "", "email address the token is bound to")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "setup-token",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithField(context.Background(), "email", *email)

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	record, err := setuptokens.NewRepository(dbClient.DB()).Create(ctx, *email)
	if err != nil {
		logg.Error(ctx, "failed to create setup token", err)
		os.Exit(1)
	}

	logg.Info(ctx, "setup token created")
	fmt.Println(record.Token)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
