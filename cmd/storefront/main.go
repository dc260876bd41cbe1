// Storefront Core - session and catalog API for the storefront.
//
// This is the main entry point. It loads configuration, opens the SQLite
// store, seeds the first super-admin, wires the optional MQTT and InfluxDB
// sinks and serves the HTTP API until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nerrad567/storefront-core/internal/api"
	"github.com/nerrad567/storefront-core/internal/audit"
	"github.com/nerrad567/storefront-core/internal/auth"
	"github.com/nerrad567/storefront-core/internal/catalog"
	"github.com/nerrad567/storefront-core/internal/infrastructure/config"
	"github.com/nerrad567/storefront-core/internal/infrastructure/database"
	"github.com/nerrad567/storefront-core/internal/infrastructure/influxdb"
	"github.com/nerrad567/storefront-core/internal/infrastructure/logging"
	"github.com/nerrad567/storefront-core/internal/infrastructure/mqtt"
	"github.com/nerrad567/storefront-core/migrations"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
func run(ctx context.Context) error { //nolint:gocognit,gocyclo // linear startup sequence
	log := logging.Default()
	log.Info("starting Storefront Core",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log = logging.New(cfg.Logging, version)
	log.Info("configuration loaded",
		"path", configPath,
		"environment", cfg.Environment,
		"store_id", cfg.Store.ID,
	)

	tokens, err := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  cfg.Security.Tokens.AccessSecret,
		RefreshSecret: cfg.Security.Tokens.RefreshSecret,
		AccessTTL:     cfg.Security.Tokens.AccessTokenTTL(),
		RefreshTTL:    cfg.Security.Tokens.RefreshTokenTTL(),
	})
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	db, err := database.Open(ctx, database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx, migrations.FS); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	users := auth.NewUserRepository(db.DB)
	if _, seedErr := auth.SeedSuperAdmin(ctx, users,
		cfg.Seed.SuperAdminName, cfg.Seed.SuperAdminEmail, cfg.Seed.SuperAdminPassword,
		log.With("component", "seed").Logger); seedErr != nil {
		return fmt.Errorf("seeding super-admin: %w", seedErr)
	}

	deps := api.Deps{
		Config: cfg.API,
		Logger: log.With("component", "api"),
		Users:  users,
		Tokens: tokens,
		Cookies: auth.NewSessionCookies(auth.CookieConfig{
			Secure:     cfg.IsProduction(),
			Path:       cfg.Session.CookiePath,
			Domain:     cfg.Session.CookieDomain,
			AccessTTL:  tokens.TTL(auth.AccessToken),
			RefreshTTL: tokens.TTL(auth.RefreshToken),
		}),
		Maintenance: auth.NewMaintenanceState(false),
		Categories:  catalog.NewSQLiteRepository(db.DB),
		SystemLogs:  audit.NewSQLiteRepository(db.DB),
		DB:          db,
		Version:     version,
	}

	if cfg.MQTT.Enabled {
		mqttClient, mqttErr := mqtt.Connect(cfg.MQTT)
		if mqttErr != nil {
			return fmt.Errorf("connecting to MQTT: %w", mqttErr)
		}
		defer func() {
			log.Info("disconnecting from MQTT")
			if closeErr := mqttClient.Close(); closeErr != nil {
				log.Error("error closing MQTT", "error", closeErr)
			}
		}()
		mqttClient.SetLogger(log)
		mqttClient.SetOnConnect(func() {
			log.Info("MQTT connected")
		})
		log.Info("MQTT connected",
			"broker", fmt.Sprintf("%s:%d", cfg.MQTT.Broker.Host, cfg.MQTT.Broker.Port),
			"client_id", cfg.MQTT.Broker.ClientID,
		)

		// Late subscribers learn the current state from the retained message.
		if pubErr := mqttClient.PublishMaintenance(deps.Maintenance.Enabled(), ""); pubErr != nil {
			log.Warn("publishing initial maintenance state failed", "error", pubErr)
		}
		deps.Events = mqttClient
	} else {
		log.Info("MQTT disabled")
	}

	influxClient, err := influxdb.Connect(ctx, cfg.InfluxDB)
	switch {
	case errors.Is(err, influxdb.ErrDisabled):
		log.Info("InfluxDB disabled")
	case err != nil:
		return fmt.Errorf("connecting to InfluxDB: %w", err)
	default:
		defer func() {
			log.Info("closing InfluxDB connection")
			if closeErr := influxClient.Close(); closeErr != nil {
				log.Error("error closing InfluxDB", "error", closeErr)
			}
		}()
		influxClient.SetOnError(func(err error) {
			log.Error("InfluxDB write error", "error", err)
		})
		log.Info("InfluxDB connected",
			"url", cfg.InfluxDB.URL,
			"org", cfg.InfluxDB.Org,
			"bucket", cfg.InfluxDB.Bucket,
		)
		deps.Telemetry = influxClient
	}

	server, err := api.New(deps)
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("initialisation complete, waiting for shutdown signal",
		"address", fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
	)

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")
	return nil
}

// getConfigPath returns the configuration file path from STOREFRONT_CONFIG
// or the default location.
func getConfigPath() string {
	if path := os.Getenv("STOREFRONT_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
