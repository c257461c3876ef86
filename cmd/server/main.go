package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/labtrack/backend/internal/auth"
	"github.com/labtrack/backend/internal/config"
	"github.com/labtrack/backend/internal/extraction"
	"github.com/labtrack/backend/internal/server"
	"github.com/labtrack/backend/internal/service"
	"github.com/labtrack/backend/internal/store"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if !cfg.IsProduction() {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	ctx := context.Background()

	var storeImpl store.Store
	if cfg.UseMemoryStore {
		logger.Info().Msg("using in-memory store for local development")
		storeImpl = store.NewMemoryStore()
	} else {
		firestoreClient, err := firestore.NewClient(ctx, cfg.GoogleCloudProject)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to create Firestore client")
		}
		defer firestoreClient.Close()
		storeImpl = store.NewFirestoreStore(firestoreClient)
	}

	tokens, err := auth.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize auth")
	}

	geminiClient := extraction.NewGeminiClient(cfg.GeminiAPIKey, logger)
	extractor := extraction.NewService(geminiClient, logger)
	parameterService := service.NewParameterService(storeImpl, logger)
	userService := service.NewUserService(storeImpl, logger)

	srv := server.New(extractor, parameterService, userService, tokens, cfg.IsProduction(), logger)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"User-Agent",
		},
		AllowCredentials: true,
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(c.Handler(srv.Router()), &http2.Server{}),
	}

	logger.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
