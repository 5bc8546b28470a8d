package main

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"dealership/internal/config"
	"dealership/internal/db"
	"dealership/internal/model"
	"dealership/internal/repository"
)

func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.Car{}, &model.Image{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	carRepo := repository.NewCarRepository(gormDB)

	count, err := carRepo.Count(ctx)
	if err != nil {
		log.Fatalf("Failed to count cars: %v", err)
	}
	if count > 0 {
		log.Printf("Catalog already holds %d cars, nothing to do", count)
		return
	}

	seeded := 0
	for _, car := range sampleCars() {
		if err := carRepo.Create(ctx, &car); err != nil {
			log.Printf("Failed to seed %s %s: %v", car.Brand, car.Model, err)
			continue
		}
		seeded++
	}
	log.Printf("Seeded %d cars", seeded)
}

func sampleCars() []model.Car {
	return []model.Car{
		{Brand: "BMW", Model: "X5", ProductionYear: 2020, Price: decimal.NewFromInt(150000), FuelType: "Diesel", Mileage: 45000, EngineCapacity: 3.0, Transmission: "Automatic"},
		{Brand: "Audi", Model: "A4", ProductionYear: 2019, Price: decimal.NewFromInt(85000), FuelType: "Gasoline", Mileage: 32000, EngineCapacity: 2.0, Transmission: "Automatic"},
		{Brand: "Mercedes", Model: "C-Class", ProductionYear: 2021, Price: decimal.NewFromInt(120000), FuelType: "Gasoline", Mileage: 28000, EngineCapacity: 2.0, Transmission: "Automatic"},
		{Brand: "Volkswagen", Model: "Golf", ProductionYear: 2018, Price: decimal.NewFromInt(65000), FuelType: "Diesel", Mileage: 55000, EngineCapacity: 1.6, Transmission: "Manual"},
		{Brand: "Toyota", Model: "Corolla", ProductionYear: 2022, Price: decimal.NewFromInt(95000), FuelType: "Hybrid", Mileage: 15000, EngineCapacity: 1.8, Transmission: "Automatic"},
		{Brand: "Ford", Model: "Focus", ProductionYear: 2020, Price: decimal.NewFromInt(75000), FuelType: "Gasoline", Mileage: 38000, EngineCapacity: 1.5, Transmission: "Manual"},
		{Brand: "Skoda", Model: "Octavia", ProductionYear: 2021, Price: decimal.NewFromInt(90000), FuelType: "Diesel", Mileage: 25000, EngineCapacity: 2.0, Transmission: "Automatic"},
		{Brand: "Hyundai", Model: "i30", ProductionYear: 2019, Price: decimal.NewFromInt(70000), FuelType: "Gasoline", Mileage: 42000, EngineCapacity: 1.4, Transmission: "Manual"},
		{Brand: "Kia", Model: "Sportage", ProductionYear: 2020, Price: decimal.NewFromInt(110000), FuelType: "Diesel", Mileage: 35000, EngineCapacity: 1.6, Transmission: "Automatic"},
		{Brand: "Peugeot", Model: "308", ProductionYear: 2021, Price: decimal.NewFromInt(80000), FuelType: "Gasoline", Mileage: 22000, EngineCapacity: 1.2, Transmission: "Manual"},
	}
}
