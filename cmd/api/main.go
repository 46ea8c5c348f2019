package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/fairwaylabs/caddie-api/internal/config"
	"github.com/fairwaylabs/caddie-api/internal/database"
	"github.com/fairwaylabs/caddie-api/internal/handler"
	"github.com/fairwaylabs/caddie-api/internal/middleware"
	"github.com/fairwaylabs/caddie-api/internal/models"
	"github.com/fairwaylabs/caddie-api/internal/repository"
	"github.com/fairwaylabs/caddie-api/internal/router"
	"github.com/fairwaylabs/caddie-api/internal/service"
	"github.com/fairwaylabs/caddie-api/pkg/ai"
	"github.com/fairwaylabs/caddie-api/pkg/ghin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Analysis{}, &models.RoundRecord{}, &models.CourseStrategy{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	coach, err := ai.New(ai.Config{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.ModelName,
		VisionModel: cfg.VisionModel,
		Logger:      logger,
	})
	if err != nil {
		log.Fatalf("failed to create model client: %v", err)
	}

	ghinClient, err := ghin.NewClient(ghin.Config{
		BaseURL:       cfg.GHINBaseURL,
		AdminEmail:    cfg.GHINAdminEmail,
		AdminPassword: cfg.GHINAdminPassword,
		Logger:        logger,
	})
	if err != nil {
		log.Fatalf("failed to create handicap service client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	analysisRepo := repository.NewAnalysisRepository(db)
	strategyRepo := repository.NewCourseStrategyRepository(db)

	handicapService := service.NewHandicapService(ghinClient, redisClient, cfg.GolferCacheTTL, logger)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTTTL, logger)
	userService := service.NewUserService(userRepo, handicapService, logger)
	analysisService := service.NewAnalysisService(db, userRepo, analysisRepo, coach, handicapService, logger)
	strategyService := service.NewCourseStrategyService(strategyRepo, userRepo, coach, logger)
	billingService := service.NewBillingService(userRepo, service.BillingConfig{
		SecretKey:         cfg.StripeSecretKey,
		WebhookSecret:     cfg.StripeWebhookSecret,
		PriceCreditsSmall: cfg.PriceCreditsSmall,
		PriceCreditsLarge: cfg.PriceCreditsLarge,
		PriceProMonthly:   cfg.PriceProMonthly,
		SuccessURL:        cfg.CheckoutSuccessURL,
		CancelURL:         cfg.CheckoutCancelURL,
	}, logger)

	authHandler := handler.NewAuthHandler(authService, validate, logger)
	userHandler := handler.NewUserHandler(userService, validate, logger)
	analysisHandler := handler.NewAnalysisHandler(analysisService, validate, logger)
	strategyHandler := handler.NewCourseStrategyHandler(strategyService, validate, logger)
	billingHandler := handler.NewBillingHandler(billingService, validate, logger)
	handicapHandler := handler.NewHandicapHandler(handicapService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    60 << 20,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:           authHandler,
		UserHandler:           userHandler,
		AnalysisHandler:       analysisHandler,
		CourseStrategyHandler: strategyHandler,
		BillingHandler:        billingHandler,
		HandicapHandler:       handicapHandler,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
