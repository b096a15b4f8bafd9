package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"tavolina/internal/config"
	"tavolina/internal/database"
	"tavolina/internal/modules/timeslot"
	"tavolina/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	slotRepo := repository.NewTimeSlotRepository(db)
	reservationRepo := repository.NewReservationRepository(db)
	service := timeslot.NewService(slotRepo, reservationRepo, true, logger)

	created, err := service.SeedDefaultSlots(context.Background())
	if err != nil {
		log.Fatal("Seeding failed:", err)
	}

	if len(created) == 0 {
		log.Println("Slot catalog already seeded, nothing to do")
		return
	}
	for _, slot := range created {
		log.Printf("Created slot %s (capacity %d)", slot.Time, slot.MaxCapacity)
	}
}
