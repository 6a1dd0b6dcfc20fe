package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/app"
	"github.com/nahuelmendez6/int-com-back/internal/config"
	"github.com/nahuelmendez6/int-com-back/internal/database"
	apphttp "github.com/nahuelmendez6/int-com-back/internal/http"
	"github.com/nahuelmendez6/int-com-back/internal/http/handlers"
	httpmw "github.com/nahuelmendez6/int-com-back/internal/http/middleware"
	"github.com/nahuelmendez6/int-com-back/internal/migrations"
	"github.com/nahuelmendez6/int-com-back/internal/observability"
	"github.com/nahuelmendez6/int-com-back/internal/realtime"
	"github.com/nahuelmendez6/int-com-back/internal/repository/postgres"
)

func main() {
	cfg := config.Load()
	logger := observability.NewLogger(cfg.LogLevel)
	db, err := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	}, logger)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if cfg.RunMigrations {
		if err := migrations.Up(db); err != nil {
			log.Fatal(err)
		}
	}

	redisClient := database.NewRedis(cfg.RedisURL, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	userRepo := postgres.NewUserRepository(db)
	customerRepo := postgres.NewCustomerRepository(db)
	providerRepo := postgres.NewProviderRepository(db)
	petitionRepo := postgres.NewPetitionRepository(db)
	postulationRepo := postgres.NewPostulationRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	settingsRepo := postgres.NewNotificationSettingsRepository(db)
	offerRepo := postgres.NewOfferRepository(db)
	interestRepo := postgres.NewInterestRepository(db)

	channel := realtime.NewRedisChannel(redisClient, cfg.PublishTimeout)

	matchingService := app.NewMatchingService(petitionRepo, providerRepo, customerRepo)
	notificationService := app.NewNotificationService(notificationRepo, settingsRepo, userRepo, customerRepo, providerRepo, postulationRepo, matchingService, channel, logger)
	petitionService := app.NewPetitionService(petitionRepo, matchingService, notificationService)
	postulationService := app.NewPostulationService(postulationRepo, petitionRepo, notificationService)
	offerService := app.NewOfferService(offerRepo, interestRepo, customerRepo, providerRepo)
	hireService := app.NewHireService(postulationRepo, petitionRepo, customerRepo, providerRepo)

	var limiter httpmw.Limiter
	if redisLimiter := httpmw.NewRedisLimiter(redisClient); redisLimiter != nil {
		limiter = redisLimiter
	} else {
		limiter = httpmw.NewRateLimiter()
	}

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		PetitionHandler:     handlers.NewPetitionHandler(petitionService),
		PostulationHandler:  handlers.NewPostulationHandler(postulationService, limiter),
		NotificationHandler: handlers.NewNotificationHandler(notificationService),
		OfferHandler:        handlers.NewOfferHandler(offerService),
		HireHandler:         handlers.NewHireHandler(hireService),
		IdentityMiddleware:  httpmw.NewIdentityMiddleware(userRepo),
		Logger:              logger,
		RequestTimeout:      cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("API started on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err)
	}
}
