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

	"github.com/jhoicas/Medistore-api/internal/application/auth"
	"github.com/jhoicas/Medistore-api/internal/application/profile"
	"github.com/jhoicas/Medistore-api/internal/application/session"
	"github.com/jhoicas/Medistore-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/Medistore-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Medistore-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Medistore-api/internal/interfaces/http"
	"github.com/jhoicas/Medistore-api/pkg/config"
	"github.com/jhoicas/Medistore-api/pkg/logger"
	"github.com/jhoicas/Medistore-api/pkg/retry"
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

	// Repositorios
	principalRepo := postgres.NewPrincipalRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Perfiles: caché TTL + fetch auto-reparador con reintentos
	profileCache := profile.NewCache(time.Duration(cfg.Cache.ProfileTTLMinutes)*time.Minute, nil)
	retryCfg := retry.Config{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: time.Duration(cfg.Retry.InitialDelayMS) * time.Millisecond,
	}
	profileSvc := profile.NewService(profileCache, profileRepo, principalRepo, retryCfg, log)

	// Sesiones: bus de eventos + tracker que precarga el perfil al entrar
	sessionMgr := session.NewManager()
	tracker := session.NewTracker(sessionMgr, profileSvc, log)
	defer tracker.Close()

	authUC := auth.NewUseCase(principalRepo, profileSvc, sessionMgr, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.AdminInviteCode, log)

	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	orderUC := usecase.NewOrderUseCase(orderRepo, productRepo, txRunner)
	messageUC := usecase.NewMessageUseCase(messageRepo)
	receiptGen := infrapdf.NewReceiptGenerator(cfg.App.Name)

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
		Title:    cfg.App.Name,
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:     authUC,
		ProfileSvc: profileSvc,
		CategoryUC: categoryUC,
		ProductUC:  productUC,
		OrderUC:    orderUC,
		MessageUC:  messageUC,
		Receipt:    receiptGen,
		JWTSecret:  cfg.JWT.Secret,
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
