package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/nexushealth/nexus/internal/config"
	"github.com/nexushealth/nexus/internal/domain/clinical"
	"github.com/nexushealth/nexus/internal/domain/diagnostics"
	"github.com/nexushealth/nexus/internal/domain/identity"
	"github.com/nexushealth/nexus/internal/domain/medication"
	"github.com/nexushealth/nexus/internal/facade"
	"github.com/nexushealth/nexus/internal/intent"
	"github.com/nexushealth/nexus/internal/platform/db"
	"github.com/nexushealth/nexus/internal/platform/docstore"
	"github.com/nexushealth/nexus/internal/platform/events"
	"github.com/nexushealth/nexus/internal/platform/middleware"
	"github.com/nexushealth/nexus/internal/platform/watch"
	"github.com/nexushealth/nexus/internal/platform/ws"
	"github.com/nexushealth/nexus/internal/session"
	"github.com/nexushealth/nexus/internal/tools"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "nexus-server",
		Short: "NexusHealth clinical demo backend",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(dbCmd())
	rootCmd.AddCommand(routeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func newLogger(env string) zerolog.Logger {
	if env == "development" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

// repos bundles the per-collection repositories for one store driver.
type repos struct {
	patients      identity.PatientRepository
	prescriptions medication.PrescriptionRepository
	labOrders     diagnostics.LabOrderRepository
	symptoms      clinical.SymptomRepository
	vitals        clinical.VitalRepository
}

func runServer() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := newLogger(cfg.Env)

	ctx := context.Background()
	bus := events.NewBus()
	inv := events.NewInvalidator(bus)

	var (
		r       repos
		reset   facade.Resetter
		health  echo.HandlerFunc
		watcher *watch.Watcher
	)

	switch cfg.StoreDriver {
	case config.DriverFile:
		store := docstore.NewFileStore(cfg.DataFile, logger)
		if _, err := store.Load(ctx); err != nil {
			logger.Fatal().Err(err).Msg("failed to open store file")
		}
		r = repos{
			patients:      identity.NewPatientRepoFile(store),
			prescriptions: medication.NewPrescriptionRepoFile(store),
			labOrders:     diagnostics.NewLabOrderRepoFile(store),
			symptoms:      clinical.NewSymptomRepoFile(store),
			vitals:        clinical.NewVitalRepoFile(store),
		}
		reset = func(ctx context.Context) error {
			_, err := store.Reset(ctx)
			return err
		}
		health = func(c echo.Context) error {
			return c.JSON(http.StatusOK, map[string]string{"status": "ok", "driver": config.DriverFile})
		}

		watcher, err = watch.New(store, bus, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to start store watcher")
		}
		defer watcher.Close()
		logger.Info().Str("path", store.Path()).Msg("file store ready")

	case config.DriverPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		r = repos{
			patients:      identity.NewPatientRepoPG(pool),
			prescriptions: medication.NewPrescriptionRepoPG(pool),
			labOrders:     diagnostics.NewLabOrderRepoPG(pool),
			symptoms:      clinical.NewSymptomRepoPG(pool),
			vitals:        clinical.NewVitalRepoPG(pool),
		}
		reset = func(ctx context.Context) error {
			return db.ResetToSeed(ctx, pool, docstore.SeedDocument())
		}
		health = db.HealthHandler(pool)
		logger.Info().Msg("connected to database")
	}

	// Services
	patientSvc := identity.NewService(r.patients)
	rxSvc := medication.NewService(r.prescriptions)
	rxSvc.SetInvalidator(inv)
	labSvc := diagnostics.NewService(r.labOrders)
	labSvc.SetInvalidator(inv)
	clinSvc := clinical.NewService(r.symptoms, r.vitals)
	clinSvc.SetInvalidator(inv)

	f := facade.New(patientSvc, rxSvc, labSvc, clinSvc, reset, inv, logger)
	sessions := session.NewManager(f, bus, logger)
	defer sessions.Close()
	registry := tools.NewRegistry(f)

	hub := ws.NewHub(logger)
	relay := ws.NewRelay(bus, hub, logger)
	defer relay.Close()

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", health)

	apiV1 := e.Group("/api/v1")
	identity.NewHandler(patientSvc).RegisterRoutes(apiV1)
	medication.NewHandler(rxSvc).RegisterRoutes(apiV1)
	diagnostics.NewHandler(labSvc).RegisterRoutes(apiV1)
	clinical.NewHandler(clinSvc).RegisterRoutes(apiV1)
	intent.NewHandler().RegisterRoutes(apiV1)
	tools.NewHandler(registry).RegisterRoutes(apiV1)
	session.NewHandler(sessions).RegisterRoutes(apiV1)
	ws.NewHandler(hub, logger).RegisterRoutes(apiV1)
	facade.NewHandler(f).RegisterRoutes(apiV1.Group("/admin"))

	// Start server
	addr := ":" + cfg.Port
	go func() {
		logger.Info().Str("addr", addr).Str("driver", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}

func dbCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database administration",
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			_, pool, err := connect()
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(context.Background())
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}
			fmt.Printf("Applied %d migration(s).\n", count)
			return nil
		},
	}
	migrateCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(migrateCmd)

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Reset all tables to the seed dataset",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := connect()
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := db.ResetToSeed(context.Background(), pool, docstore.SeedDocument()); err != nil {
				return fmt.Errorf("seed failed: %w", err)
			}
			fmt.Println("Database reset to seed data.")
			return nil
		},
	}
	cmd.AddCommand(seedCmd)

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Alias for seed: wipe and reseed all tables",
		RunE:  seedCmd.RunE,
	}
	cmd.AddCommand(resetCmd)

	return cmd
}

func connect() (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required for db commands")
	}
	pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, nil, err
	}
	return cfg, pool, nil
}

func routeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "route <message>",
		Short: "Classify a message and print the portal it routes to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portal := intent.Route(args[0])
			fmt.Printf("%s %s\n", portal, portal.Path())
			return nil
		},
	}
}
