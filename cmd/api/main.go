package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"buildpro.org/internal/booking"
	"buildpro.org/internal/config"
	"buildpro.org/internal/gate"
	"buildpro.org/internal/httpapi"
	"buildpro.org/internal/identity"
	"buildpro.org/internal/obs"
	"buildpro.org/internal/store/pg"
	"buildpro.org/internal/stream"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	obs.Init()
	obs.InitBuildInfo(version, commit)

	// Record store: Postgres when a DSN is configured, in-memory otherwise.
	var store booking.Store
	var pgStore *pg.Store
	if cfg.DatabaseURL != "" {
		pgStore, err = pg.Open(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		store = pgStore
	} else {
		log.Println("no BUILDPRO_PG_DSN set, using in-memory record store")
		store = booking.NewInMemory()
	}

	// Access gate: exactly one strategy per deployment.
	var (
		gt   gate.Gate
		auth gate.Authenticator
	)
	switch cfg.GateMode {
	case config.GateStatic:
		static := gate.NewStatic(cfg.AdminLoginID, cfg.AdminPassword)
		gt, auth = static, static
	case config.GateDelegated:
		if pgStore == nil {
			log.Fatal("delegated gate requires BUILDPRO_PG_DSN for the profile store")
		}
		provider := identity.NewJWTProvider(cfg.AuthSecret, pgStore,
			identity.WithSessionTTL(cfg.SessionTTLDuration()))
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := pgStore.Ping(ctx); err != nil {
				log.Printf("profile store ping: %v", err)
			}
			provider.MarkReady()
		}()
		gt, auth = gate.NewDelegated(provider), provider
	}

	api := httpapi.New(version, cfg.Flow(), store, gt, auth, stream.New(),
		httpapi.WithRateLimit(cfg.RateBurst, cfg.RatePerSec),
		httpapi.WithMaxBodyBytes(cfg.MaxBodyBytes),
	)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		// No write timeout: the dashboard event feed holds its response open.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("Starting buildpro-api %s (%s flow, %s gate) on %s",
		version, cfg.BookingFlow, cfg.GateMode, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	if pgStore != nil {
		_ = pgStore.Close()
	}
	log.Println("Stopped")
}
