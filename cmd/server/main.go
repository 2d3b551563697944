package main

import (
	"context"
	"log"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/dquiroga/segundavida/internal/config"
	"github.com/dquiroga/segundavida/internal/database"
	"github.com/dquiroga/segundavida/internal/handlers"
	"github.com/dquiroga/segundavida/internal/middleware"
	"github.com/dquiroga/segundavida/internal/monitoring"
	"github.com/dquiroga/segundavida/internal/services"
)

// orphanGracePeriod keeps freshly uploaded objects out of the startup
// reconciliation sweep so an in-flight item creation is never raced.
const orphanGracePeriod = 24 * time.Hour

func main() {
	// Load .env file if it exists
	godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create admin user if it doesn't exist
	if err := database.EnsureAdminUser(db, cfg); err != nil {
		log.Printf("Warning: Could not ensure admin user: %v", err)
	}

	// Initialize image storage
	images, err := services.NewImageStore(
		cfg.S3Endpoint, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3Region, cfg.S3PublicURL, cfg.S3UseSSL,
	)
	if err != nil {
		log.Fatalf("Failed to initialize image storage: %v", err)
	}
	if err := images.EnsureBucket(context.Background()); err != nil {
		log.Printf("Warning: Failed to ensure storage bucket exists: %v", err)
	}

	// Sweep orphaned image objects on startup. Failed upload batches and
	// deleted items both leave objects behind; this reconciles storage
	// against the rows that actually reference images.
	go func() {
		ctx := context.Background()
		urls, err := db.ListAllImageURLs(ctx)
		if err != nil {
			log.Printf("Warning: Failed to list referenced images: %v", err)
			return
		}
		removed, err := images.ReconcileOrphans(ctx, urls, orphanGracePeriod)
		if err != nil {
			log.Printf("Warning: Storage reconciliation incomplete: %v", err)
		}
		if removed > 0 {
			monitoring.OrphanedObjectsRemoved.Add(float64(removed))
			log.Printf("Removed %d orphaned image object(s) from storage", removed)
		}
	}()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
		BodyLimit:    64 * 1024 * 1024, // multi-image upload batches
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PATCH, DELETE, OPTIONS",
	}))
	app.Use(monitoring.Middleware())

	// Create handler with dependencies
	h := handlers.New(db, db, images, cfg)

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Prometheus scrape endpoint
	app.Get("/metrics", monitoring.Handler())

	// API routes
	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.Logout)
	auth.Get("/me", middleware.AuthRequired(cfg), h.GetCurrentUser)
	auth.Post("/refresh", middleware.AuthRequired(cfg), h.RefreshToken)

	// Public catalog routes
	items := api.Group("/items")
	items.Get("/", h.ListItems)
	items.Get("/:id", h.GetItem)

	// Admin routes (admin only)
	admin := api.Group("/admin", middleware.AuthRequired(cfg), middleware.AdminRequired())
	admin.Post("/items", h.CreateItem)
	admin.Patch("/items/:id/sold", h.UpdateSoldStatus)
	admin.Patch("/items/:id/reserved", h.UpdateReservedStatus)
	admin.Patch("/items/:id/main-image", h.UpdateMainImage)
	admin.Patch("/items/:id/notes", h.UpdateNotes)
	admin.Delete("/items/:id", h.DeleteItem)
	admin.Delete("/images", h.DeleteImage)
	admin.Get("/stats", h.GetCatalogStats)

	// Static files - serve the SPA
	app.Static("/", cfg.StaticDir, fiber.Static{
		Index:  "index.html",
		Browse: false,
	})

	// Fallback for SPA-style routing (/, /ropa, /item/:id, /admin, /auth/signin)
	app.Get("/*", func(c *fiber.Ctx) error {
		return c.SendFile(filepath.Join(cfg.StaticDir, "index.html"))
	})

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
