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
	appbilling "github.com/facturia/facturia-api/internal/application/billing"
	infraemail "github.com/facturia/facturia-api/internal/infrastructure/email"
	infrapdf "github.com/facturia/facturia-api/internal/infrastructure/pdf"
	"github.com/facturia/facturia-api/internal/infrastructure/peppol"
	"github.com/facturia/facturia-api/internal/infrastructure/postgres"
	infrastorage "github.com/facturia/facturia-api/internal/infrastructure/storage"
	httpRouter "github.com/facturia/facturia-api/internal/interfaces/http"
	"github.com/facturia/facturia-api/pkg/config"
	"github.com/facturia/facturia-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	docRepo := postgres.NewDocumentRepository(pool)
	partyRepo := postgres.NewPartyRepository(pool)
	issuerRepo := postgres.NewIssuerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Red de intercambio: directorio + access point comparten cliente
	peppolClient := peppol.NewClient(cfg.Peppol)
	resolver := appbilling.NewRoutingResolver(peppolClient, cfg.Billing.FallbackCountry)
	formatter := appbilling.NewFormatter(resolver)

	artifactStore := infrastorage.NewSupabaseStore(cfg.Storage)
	emailGateway := infraemail.NewResendService(cfg.Email, log.WithComponent("email"))

	orchestrator := appbilling.NewSubmitOrchestrator(
		formatter, peppolClient, artifactStore, emailGateway,
		log.WithComponent("submit"),
	)

	renderer := infrapdf.NewMarotoRenderer()

	documentUC := appbilling.NewDocumentUseCase(
		txRunner, docRepo, partyRepo, issuerRepo, renderer, orchestrator,
	)
	partyUC := appbilling.NewPartyUseCase(partyRepo)
	issuerUC := appbilling.NewIssuerUseCase(issuerRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Facturia API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		DocumentUC: documentUC,
		PartyUC:    partyUC,
		IssuerUC:   issuerUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	// Barrido diario de vencidos: pending con vencimiento pasado → overdue.
	// Idempotente, así que correrlo de más no hace daño.
	sweepCtx, stopSweep := context.WithCancel(ctx)
	go runOverdueSweep(sweepCtx, documentUC, cfg.Billing.SweepHourUTC, log.WithComponent("sweep"))

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	stopSweep()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

// runOverdueSweep ejecuta el barrido al arrancar y luego una vez al día a la
// hora configurada (UTC).
func runOverdueSweep(ctx context.Context, uc *appbilling.DocumentUseCase, hourUTC int, log *logger.Logger) {
	sweep := func() {
		marked, err := uc.SweepOverdue(ctx)
		if err != nil {
			log.Error().Err(err).Msg("barrido de vencidos fallido")
			return
		}
		if marked > 0 {
			log.Info().Int64("marked", marked).Msg("documentos marcados como vencidos")
		}
	}

	sweep()
	for {
		now := time.Now().UTC()
		next := time.Date(now.Year(), now.Month(), now.Day(), hourUTC, 0, 0, 0, time.UTC)
		if !next.After(now) {
			next = next.Add(24 * time.Hour)
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(next.Sub(now)):
			sweep()
		}
	}
}
