package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"movieshelf/app"
	"movieshelf/config"
	"movieshelf/omdb"
	"movieshelf/scheduler"
	"movieshelf/storage"
	"movieshelf/website"
)

func main() {
	// Initialize logger with timestamp
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Starting Movie Shelf application...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize storage
	sqliteStorage := storage.NewSQLiteStorage(cfg.DataPath)
	if err := sqliteStorage.Initialize(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer sqliteStorage.Close()

	displayDatabaseStats(sqliteStorage)

	siteGenerator := website.NewGenerator(cfg.StaticPath, cfg.SiteTitle)

	switch cfg.RunMode {
	case config.ModeExport:
		runExportMode(cfg, sqliteStorage, siteGenerator)
	default:
		runInteractiveMode(cfg, sqliteStorage, siteGenerator)
	}

	log.Println("Application exiting")
}

// runInteractiveMode drives the menu loop on stdin/stdout.
func runInteractiveMode(cfg config.Config, store *storage.SQLiteStorage, site *website.Generator) {
	fetcher, err := omdb.NewHTTPClient(cfg.OMDbBaseURL, cfg.OMDbAPIKey, time.Duration(cfg.OMDbTimeoutSecs)*time.Second, log.Default())
	if err != nil {
		log.Fatalf("Failed to create OMDb client: %v", err)
	}

	session := app.NewSession(store, fetcher, site, os.Stdin, os.Stdout)
	if err := session.Run(context.Background()); err != nil {
		log.Fatalf("Session error: %v", err)
	}
}

// runExportMode regenerates every user's page nightly until interrupted.
func runExportMode(cfg config.Config, store *storage.SQLiteStorage, site *website.Generator) {
	log.Println("Starting in export mode")

	sched := scheduler.NewScheduler()
	exportJob := scheduler.NewWebsiteExportJob(store, site)

	if err := sched.AddNightlyJob(exportJob); err != nil {
		log.Fatalf("Failed to schedule website export job: %v", err)
	}

	sched.Start()
	log.Println("Scheduler started. Websites will be regenerated at 2:00 AM daily")

	// Run the job once at startup if specified
	if cfg.RunAtStartup {
		log.Println("Running initial website export at startup")
		if err := sched.RunJobNow(exportJob.Name()); err != nil {
			log.Printf("Error running initial job: %v", err)
		}
	}

	// Set up signal handling for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	log.Println("Application running. Press Ctrl+C to exit")

	sig := <-quit
	log.Printf("Received signal %s, shutting down...", sig)

	sched.Stop()
}

// displayDatabaseStats shows database statistics
func displayDatabaseStats(db *storage.SQLiteStorage) {
	stats, err := db.GetStats()
	if err != nil {
		log.Printf("Error getting database stats: %v", err)
		return
	}

	log.Printf("Users: %d", stats["users"])
	log.Printf("Movies: %d", stats["movies"])
}
