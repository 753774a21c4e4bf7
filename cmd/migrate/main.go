package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/refarm-eos/refarm-backend/internal/accounts"
	"github.com/refarm-eos/refarm-backend/pkg/config"
	"github.com/refarm-eos/refarm-backend/pkg/db"
	"github.com/refarm-eos/refarm-backend/pkg/logger"
	"github.com/refarm-eos/refarm-backend/pkg/migrate"
)

func main() {
	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate|seed-admin")
	dir := flag.String("dir", migrate.DefaultDir, "goose migrations directory")
	name := flag.String("name", "", "migration name (for -cmd=create)")
	version := flag.String("version", "", "target version YYYYMMDDHHMMSS (for -cmd=version)")
	adminEmail := flag.String("admin-email", "", "admin email (for -cmd=seed-admin)")
	adminPassword := flag.String("admin-password", "", "admin password (for -cmd=seed-admin)")
	adminName := flag.String("admin-name", "", "admin display name (for -cmd=seed-admin)")
	flag.Parse()

	_ = godotenv.Load()

	logg := logger.New(logger.Options{ServiceName: "migrate"})
	ctx := context.Background()

	cfg, err := config.Load()
	fatalIf(ctx, logg, "load config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx = logg.WithFields(ctx, map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": *dir,
	})

	// create and validate work on the filesystem only.
	switch *cmd {
	case "create":
		if *name == "" {
			fail("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(*dir, *name)
		if err != nil {
			fail(fmt.Sprintf("create migration: %v", err))
		}
		fmt.Println("created migration:", path)
		return
	case "validate":
		if err := migrate.ValidateDir(*dir); err != nil {
			fail(fmt.Sprintf("migration validation failed: %v", err))
		}
		fmt.Println("migration validation passed")
		return
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	fatalIf(ctx, logg, "open database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.DB().DB()
	fatalIf(ctx, logg, "unwrap sql handle", err)

	switch *cmd {
	case "up", "down", "status":
		if err := migrate.Run(ctx, sqlDB, *dir, *cmd); err != nil {
			fail(fmt.Sprintf("goose %s failed: %v", *cmd, err))
		}
	case "version":
		if *version == "" {
			fail("missing -version for version command")
		}
		if err := migrate.MigrateToVersion(ctx, sqlDB, *dir, *version); err != nil {
			fail(fmt.Sprintf("goose version migrate failed: %v", err))
		}
	case "seed-admin":
		if *adminEmail == "" || *adminPassword == "" {
			fail("missing -admin-email or -admin-password for seed-admin")
		}
		accountService, err := accounts.NewService(accounts.ServiceParams{
			Repo:     accounts.NewRepository(dbClient.DB()),
			Password: cfg.Password,
		})
		fatalIf(ctx, logg, "create account service", err)
		admin, err := accountService.SeedAdmin(ctx, accounts.SeedAdminInput{
			Email:       *adminEmail,
			Password:    *adminPassword,
			DisplayName: *adminName,
		})
		if err != nil {
			fail(fmt.Sprintf("seed admin: %v", err))
		}
		fmt.Println("seeded admin:", admin.Email)
	default:
		fail("unknown -cmd value: " + *cmd)
	}
}

func fatalIf(ctx context.Context, logg *logger.Logger, step string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, step, err)
	os.Exit(1)
}

func fail(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
