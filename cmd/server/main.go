package main // Entry point package

import (
	"context" // context for startup deadlines
	"log"     // Logging library
	"time"    // timeouts for startup work

	"github.com/joho/godotenv"    // loads .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/eventsystem/event-booking/internal/blob"       // venue image storage
	"github.com/eventsystem/event-booking/internal/config"     // environment config
	"github.com/eventsystem/event-booking/internal/database"   // MySQL connection pool
	"github.com/eventsystem/event-booking/internal/handler"    // HTTP handlers
	"github.com/eventsystem/event-booking/internal/middleware" // rate limiting and response cache
	"github.com/eventsystem/event-booking/internal/queue"      // background booking consumer
	"github.com/eventsystem/event-booking/internal/repository" // data access layer
	"github.com/eventsystem/event-booking/internal/router"     // route registration
	"github.com/eventsystem/event-booking/internal/rules"      // admission, conflict and deletion rules
	queue_publisher "github.com/eventsystem/event-booking/internal/service"
	"github.com/eventsystem/event-booking/migrations" // embedded schema migrations
)

func main() {
	_ = godotenv.Load() // load .env if present; real env vars win

	cfg := config.Load()                    // load environment config (fatal on missing vars)
	cacheCfg := config.LoadCacheConfig()    // Redis response cache settings
	limitCfg := config.LoadRateLimitConfig() // Redis rate limiter settings

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName) // open MySQL pool
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second) // bound startup work
	defer cancel()
	if err := migrations.Apply(ctx, db); err != nil { // bring schema up to date
		log.Fatalf("migrations: %v", err)
	}

	rdb := config.NewRedisClient() // nil when Redis is unreachable; cache and limiter fail open

	// Repositories own all SQL against their tables.
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	venueRepo := repository.NewVenueRepo(db)
	eventRepo := repository.NewEventRepo(db)
	bookingRepo := repository.NewBookingRepo(db)

	// Rule engines answer allow/reject questions as plain values; handlers
	// translate rejections into HTTP responses.
	conflicts := rules.NewConflictChecker(eventRepo)
	admitter := rules.NewBookingAdmitter(eventRepo, bookingRepo)
	guard := rules.NewDeletionGuard(eventRepo, bookingRepo)

	blobStore, err := blob.NewDiskStore(cfg.BlobDir, cfg.BlobBaseURL) // venue image uploads
	if err != nil {
		log.Fatalf("blob store: %v", err)
	}

	authH := handler.NewAuthHandler(userRepo, tokenRepo, cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays, cfg.BcryptCost)
	publicH := handler.NewPublicHandler(venueRepo, eventRepo)
	adminH := handler.NewAdminHandler(venueRepo, eventRepo, conflicts, guard, blobStore)
	bookingH := handler.NewBookingHandler(bookingRepo, admitter, queue_publisher.PublishBookingCreated)

	e := echo.New()                                 // create Echo instance
	e.Use(middleware.RateLimit(limitCfg, rdb))      // per-IP token bucket across the whole API
	e.Static(cfg.BlobBaseURL, cfg.BlobDir)          // serve uploaded venue images

	router.RegisterRoutes(e)                          // health check
	router.RegisterAuth(e, authH, cfg.JWTSecret)      // register/login/refresh/logout + /me
	router.RegisterPublic(e, publicH, middleware.ResponseCache(cacheCfg, rdb)) // cached guest browsing
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)    // venue and event management
	router.RegisterBookings(e, bookingH, cfg.JWTSecret)

	go func() { // background consumer logs booking.created messages
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
