package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mhayashi/salon-shift-api/pkg/auth"
	"github.com/mhayashi/salon-shift-api/pkg/config"
	"github.com/mhayashi/salon-shift-api/pkg/gemini"
	"github.com/mhayashi/salon-shift-api/pkg/handlers"
	"github.com/mhayashi/salon-shift-api/pkg/storage"
	"github.com/mhayashi/salon-shift-api/pkg/store"
	"github.com/mhayashi/salon-shift-api/pkg/utils"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	utils.InitLogger()

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := storage.OpenDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open database")
	}
	if err := auth.EnsureAdminExists(db); err != nil {
		log.Error().Err(err).Msg("Could not ensure admin user")
	}

	kv := storage.NewGormKV(db)
	cfg := config.Load(kv)
	s := store.New(storage.NewGateway(kv))
	ai := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)

	h := &handlers.Handler{Store: s, Gemini: ai, Config: cfg, DB: db}
	r := handlers.SetupRouter(h)

	log.Info().Str("port", cfg.Port).Msg("Server starting")
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Could not run server")
	}
}
