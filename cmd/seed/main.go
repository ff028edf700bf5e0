package main

import (
	"context"
	"flag"
	"time"

	"github.com/RouteClouds/Health-Care-Management-System/config"
	"github.com/RouteClouds/Health-Care-Management-System/internal/infrastructure/database"
	"github.com/RouteClouds/Health-Care-Management-System/internal/seed"

	"github.com/sirupsen/logrus"
)

func main() {
	patients := flag.Int("patients", 0, "number of demo patients to generate")
	perPatient := flag.Int("appointments", 2, "appointments to book per demo patient")
	fakeSeed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed for generated data")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewPostgresConnection(cfg.DB, true)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(cfg.DB); err != nil {
		logrus.Fatalf("Failed to migrate: %v", err)
	}

	loc, err := cfg.Scheduler.Location()
	if err != nil {
		logrus.Fatalf("Invalid scheduler time zone: %v", err)
	}

	ctx := context.Background()
	seeder := seed.NewSeeder(db, logrus.StandardLogger(), loc)

	doctors, err := seeder.Reference(ctx)
	if err != nil {
		logrus.Fatalf("Failed to seed reference data: %v", err)
	}

	if _, err := seeder.Patients(ctx, doctors, *patients, *perPatient, *fakeSeed); err != nil {
		logrus.Fatalf("Failed to seed patients: %v", err)
	}

	logrus.Info("Database seeding completed")
}
