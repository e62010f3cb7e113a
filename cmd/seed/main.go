// Command main runs the database seeder for tracemap.
package main

import (
	"flag"
	"log"

	"tracemap/internal/config"
	"tracemap/internal/database"
	"tracemap/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 10, "Number of users to create")
	numTraces := flag.Int("traces", 40, "Number of traces to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	centerLat := flag.Float64("lat", 37.5665, "Latitude of the seeded area center")
	centerLng := flag.Float64("lng", 126.9780, "Longitude of the seeded area center")
	flag.Parse()

	log.Printf("Seeding %d users and %d traces around (%.4f, %.4f), clean=%v",
		*numUsers, *numTraces, *centerLat, *centerLng, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.DefaultOptions()
	opts.NumUsers = *numUsers
	opts.NumTraces = *numTraces
	opts.ShouldClean = *shouldClean
	opts.DryRun = *dryRun
	opts.CenterLat = *centerLat
	opts.CenterLng = *centerLng

	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Println("Seeding complete")
}
