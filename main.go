package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"airline-backoffice/config"
	"airline-backoffice/controllers"
	"airline-backoffice/events"
	"airline-backoffice/routes"
	"airline-backoffice/services"
	"airline-backoffice/session"
)

func main() {
	// Load .env (optional)
	envErr := godotenv.Load()

	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if envErr != nil {
		log.Warn(".env not found or couldn't load it; continuing with environment variables")
	}
	gin.SetMode(cfg.GinMode)

	db, err := config.ConnectDatabase(cfg.DB, log)
	if err != nil {
		log.WithError(err).Fatal("database connect failed")
	}
	log.WithField("driver", cfg.DB.Driver).Info("database connection established and migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pricing := services.NewPricingService(db)
	if err := pricing.EnsureRates(ctx); err != nil {
		log.WithError(err).Fatal("ensure add-on rates")
	}

	store := newSessionStore(ctx, cfg, db, log)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventsEnabled {
		publisher = events.NewAMQPPublisher(cfg.RabbitMQURL)
		log.WithField("queue", events.BookingCommittedQueue).Info("booking events enabled")
	}

	// Initialize services
	flightService := services.NewFlightService(db)
	routeService := services.NewRouteService(db)
	passengerService := services.NewPassengerService(db)
	crewService := services.NewCrewService(db)
	sessionService := services.NewBookingSessionService(db, store, pricing)
	bookingService := services.NewBookingService(db, store, publisher, log)

	// Initialize controllers
	if err := controllers.RegisterValidators(); err != nil {
		log.WithError(err).Fatal("register validators")
	}
	router := routes.SetupRouter(routes.Controllers{
		Flights:        controllers.NewFlightController(flightService, pricing, log),
		Routes:         controllers.NewRouteController(routeService, log),
		Passengers:     controllers.NewPassengerController(passengerService, log),
		Crew:           controllers.NewCrewController(crewService, log),
		BookingSession: controllers.NewBookingSessionController(sessionService, bookingService, log),
		Bookings:       controllers.NewBookingController(bookingService, sessionService, log),
	}, routes.Options{
		CORSOrigins: cfg.CORSOrigins,
		SessionTTL:  cfg.SessionTTL,
		Log:         log,
	})

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("ListenAndServe")
		}
	}()

	<-ctx.Done()
	log.Warn("shutdown signal received, shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}

	log.Info("server stopped gracefully")
}

// newSessionStore picks Redis when asked for and reachable, otherwise the
// database table. The database store gets an hourly purge of expired rows.
func newSessionStore(ctx context.Context, cfg config.AppConfig, db *gorm.DB, log *logrus.Logger) session.Store {
	if cfg.SessionStore == "redis" {
		if client := config.NewRedisClient(); client != nil {
			log.Info("booking sessions stored in redis")
			return session.NewRedisStore(client, cfg.SessionPrefix, cfg.SessionTTL)
		}
		log.Warn("redis unavailable; booking sessions fall back to the database")
	}

	store := session.NewDBStore(db, cfg.SessionTTL)
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				n, err := store.PurgeExpired(ctx, now)
				if err != nil {
					log.WithError(err).Warn("purge expired booking sessions")
					continue
				}
				if n > 0 {
					log.WithField("purged", n).Info("expired booking sessions removed")
				}
			}
		}
	}()
	return store
}
