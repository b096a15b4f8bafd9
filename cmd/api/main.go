package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"tavolina/internal/config"
	"tavolina/internal/database"
	"tavolina/internal/metrics"
	"tavolina/internal/modules/reservation"
	"tavolina/internal/modules/timeslot"
	"tavolina/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := newLogger(cfg.AppEnv)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	metrics.Register()

	slotRepo := repository.NewTimeSlotRepository(db)
	reservationRepo := repository.NewReservationRepository(db)

	slotService := timeslot.NewService(slotRepo, reservationRepo, cfg.AllowPastDates, logger)
	slotHandler := timeslot.NewHandler(slotService)

	reservationService := reservation.NewService(reservationRepo, slotService, logger)
	reservationHandler := reservation.NewHandler(reservationService)

	r := gin.Default()

	// The site, the admin dashboard and the POS client all call this API
	// from different origins.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
	}))

	api := r.Group("/api")
	{
		slotHandler.RegisterRoutes(api)
		reservationHandler.RegisterRoutes(api)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if err := r.Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}

func newLogger(appEnv string) (*zap.Logger, error) {
	if appEnv == "prod" || appEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
