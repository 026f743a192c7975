package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/crypto/bcrypt"

	appanalytics "github.com/jhoicas/stock-tracker/internal/application/analytics"
	"github.com/jhoicas/stock-tracker/internal/application/auth"
	"github.com/jhoicas/stock-tracker/internal/application/inventory"
	"github.com/jhoicas/stock-tracker/internal/application/purchasing"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/externalapi"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/fallback"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/memory"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/stock-tracker/internal/infrastructure/pdf"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-tracker/internal/infrastructure/snapshot"
	httpRouter "github.com/jhoicas/stock-tracker/internal/interfaces/http"
	"github.com/jhoicas/stock-tracker/pkg/config"
	"github.com/jhoicas/stock-tracker/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	m := metrics.New()
	ctx := context.Background()

	// Almacenamiento: PostgreSQL como principal y snapshot local como respaldo.
	// Si PostgreSQL no está disponible al arrancar, el servicio inicia degradado.
	var primary repository.Store
	if cfg.DB.Enabled {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err == nil {
			err = postgres.Migrate(ctx, pool)
			if err != nil {
				pool.Close()
			}
		}
		if err != nil {
			log.Warn().Err(err).Msg("PostgreSQL no disponible, se usará el snapshot local")
		} else {
			defer pool.Close()
			primary = postgres.NewStore(pool)
		}
	}

	snap, err := snapshot.New(cfg.Store.SnapshotPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Store.SnapshotPath).Msg("abrir snapshot local")
	}
	store := fallback.New(primary, snap, cfg.DB.OpTimeout, log, m)
	if err := store.Warm(ctx); err != nil {
		log.Warn().Err(err).Msg("no se pudo sincronizar el snapshot con PostgreSQL")
	}

	itemUC := inventory.NewItemUseCase(store)
	reportUC := inventory.NewReportUseCase(store, store, itemUC, log, m)
	replenishmentUC := inventory.NewReplenishmentUseCase(store)
	dashboardUC := appanalytics.NewDashboardUseCase(store, store, store)

	externalAPI := externalapi.NewClient(cfg.ExternalAPI, log, m)
	orderUC := purchasing.NewOrderUseCase(
		store, store, externalAPI,
		infrapdf.NewOrderPDFGenerator(cfg.App.Name),
		replenishmentUC, log,
	)

	users, err := memory.NewDemoDirectory(bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("directorio de usuarios")
	}
	authUC := auth.NewAuthUseCase(users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.ExternalAPI.Timeout + time.Second*5,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Stock Tracker API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		ItemUC:          itemUC,
		ReportUC:        reportUC,
		ReplenishmentUC: replenishmentUC,
		OrderUC:         orderUC,
		DashboardUC:     dashboardUC,
		Health:          store,
		Metrics:         m,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
