package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"mytube/domain/repository"
	"mytube/infrastructure/cache"
	supabaseclient "mytube/infrastructure/clients/supabase"
	youtubeclient "mytube/infrastructure/clients/youtube"
	"mytube/infrastructure/configuration"
	"mytube/infrastructure/logger"
	"mytube/infrastructure/persistence"
	"mytube/infrastructure/realtime"
	httpHandler "mytube/interfaces/http"
	"mytube/server"
	"mytube/usecase"
)

const (
	appIdleTimeout = 30 * time.Minute
	sweepInterval  = 10 * time.Minute
)

var httpServer *http.Server

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
	}
}

func main() {
	defer recoverPanic()
	ctx := context.Background()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)

	g, ctx := errgroup.WithContext(ctx)

	// Load env from files (non-destructive; OS env still has precedence)
	configuration.LoadEnvFromFile("config.env", ".env")

	app := configuration.C.App

	store := initiateStore(ctx)

	catalog := initiateCatalog(ctx)

	supabaseCfg := &supabaseclient.Config{
		URL:     configuration.C.Supabase.URL,
		AnonKey: configuration.C.Supabase.AnonKey,
	}
	newIdentity := func(accessToken string) repository.IIdentity {
		return supabaseclient.NewClient(supabaseCfg).WithAccessToken(accessToken)
	}

	hub := realtime.NewSessionHub()
	registry := usecase.NewRegistry(newIdentity, catalog, store, hub)

	authHandler := httpHandler.NewAuthHandler(registry)
	appHandler := httpHandler.NewAppHandler(registry, hub)

	router := server.InitiateRouter(authHandler, appHandler)

	// Background sweeper retiring idle client apps
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				registry.Sweep(appIdleTimeout)
			}
		}
	})

	port := app.Port
	logger.GetLogger().WithFields(map[string]interface{}{"port": port, "tls": app.TLSEnabled}).Info("Starting application")
	g.Go(func() error {
		httpServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: router,
		}
		if app.TLSEnabled {
			cert := app.TLSCertFile
			key := app.TLSKeyFile
			if cert == "" || key == "" {
				logger.GetLogger().Error("TLS enabled but cert or key path empty; falling back to HTTP")
				if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			} else {
				logger.GetLogger().WithFields(map[string]interface{}{"cert": cert, "key": key}).Info("Serving HTTPS")
				if err := httpServer.ListenAndServeTLS(cert, key); !errors.Is(err, http.ErrServerClosed) {
					return err
				}
			}
		} else {
			if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
		}
		return nil
	})

	select {
	case <-interrupt:
		logger.GetLogger().Info("Application shutdown requested")
	case <-ctx.Done():
	}

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if httpServer != nil {
		_ = httpServer.Shutdown(shutdownCtx)
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.GetLogger().WithField("error", err).Error("Server returned an error")
		os.Exit(2)
	}
}

// initiateStore picks the preference-store vendor. Redis is the default;
// Postgres is an explicit opt-in; anything unreachable degrades to the
// in-memory store so the app still serves signed-out traffic.
func initiateStore(ctx context.Context) repository.IPreferenceStore {
	switch configuration.C.Store.Vendor {
	case "postgres":
		psqlDb, err := persistence.NewPostgreSQLDB()
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("PostgreSQL not available - falling back to in-memory store")
			return persistence.NewMemoryPreferenceStore()
		}
		if err := persistence.EnsurePreferenceSchema(psqlDb); err != nil {
			logger.GetLogger().WithField("error", err).Error("failed ensuring preference schema")
		}
		logger.GetLogger().Info("PostgreSQL preference store initialized")
		return persistence.NewPreferenceRepository(psqlDb)
	case "memory":
		return persistence.NewMemoryPreferenceStore()
	default:
		redisClient, err := cache.NewCache(
			ctx,
			fmt.Sprintf("%s:%s", configuration.C.RedisClient.Host, configuration.C.RedisClient.Port),
			configuration.C.RedisClient.Username,
			configuration.C.RedisClient.Password,
		)
		if err != nil {
			logger.GetLogger().WithField("error", err).Warn("Redis not available - falling back to in-memory store")
			return persistence.NewMemoryPreferenceStore()
		}
		logger.GetLogger().Info("Redis client initialized successfully.")
		return cache.NewPreferenceStore(redisClient)
	}
}

// initiateCatalog builds the YouTube Data API client. Without credentials the
// catalog stays nil and grids simply never load.
func initiateCatalog(ctx context.Context) repository.ICatalog {
	youtubeConfig, err := configuration.GetYouTubeConfig()
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("YouTube configuration not found - catalog disabled")
		return nil
	}

	if youtubeConfig.APIKey == "" && youtubeConfig.AccessToken == "" {
		logger.GetLogger().Info("YouTube API credentials not configured - catalog disabled")
		return nil
	}

	catalog, err := youtubeclient.NewClient(ctx, &youtubeclient.Config{
		APIKey:       youtubeConfig.APIKey,
		ClientID:     youtubeConfig.ClientID,
		ClientSecret: youtubeConfig.ClientSecret,
		RedirectURL:  youtubeConfig.RedirectURL,
		AccessToken:  youtubeConfig.AccessToken,
		RefreshToken: youtubeConfig.RefreshToken,
	})
	if err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to initialize YouTube client - catalog disabled")
		return nil
	}
	logger.GetLogger().Info("YouTube catalog client initialized")
	return catalog
}
