package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meetio/config"
	"meetio/cron"
	"meetio/database"
	"meetio/database/repository"
	bookingRepo "meetio/database/repository/booking"
	expertRepo "meetio/database/repository/expert"
	userRepoPkg "meetio/database/repository/user"
	"meetio/database/seed"
	"meetio/handlers"
	"meetio/middleware"
	"meetio/routes"
	"meetio/services/catalog"
	"meetio/services/notification"
	"meetio/services/reservation"
	"meetio/services/user"
	"meetio/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	experts := expertRepo.NewMongoExpertRepo()
	bookings := bookingRepo.NewMongoBookingRepo()
	users := userRepoPkg.NewMongoUserRepo()
	txnRunner := repository.NewMongoTxnRunner(database.MongoClient)

	if config.AppConfig.AutoSeed {
		if err := seed.Experts(context.Background(), experts); err != nil {
			logger.Sugar().Fatalf("main: failed to seed experts: %v", err)
		}
	}

	// services.
	hub := notification.NewHub()
	userService := &user.DefaultUserService{Repo: users}
	catalogService := &catalog.DefaultCatalogService{
		Repo:  experts,
		Cache: utils.GetCacheClient(),
	}
	reservationService := &reservation.DefaultReservationService{
		Experts:   experts,
		Bookings:  bookings,
		Txn:       txnRunner,
		Hub:       hub,
		Scheduler: cron.NewCompletionScheduler(),
	}

	// Background worker sweeping confirmed bookings to completed.
	cron.InitCompletionWorker(reservationService)

	handlerBundle := &routes.Handlers{
		Auth:     handlers.NewAuthHandler(userService),
		Experts:  handlers.NewExpertHandler(catalogService),
		Bookings: handlers.NewBookingHandler(reservationService),
		Realtime: handlers.NewRealtimeHandler(hub),
		Users:    userService,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "5000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
