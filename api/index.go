package handler

import (
	"net/http"

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

var r *gin.Engine

func init() {
	// Load .env if it exists (for local testing with vercel dev)
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	utils.InitLogger()
	gin.SetMode(gin.ReleaseMode)

	db, err := storage.OpenDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not open database")
	}
	_ = auth.EnsureAdminExists(db)

	kv := storage.NewGormKV(db)
	cfg := config.Load(kv)
	s := store.New(storage.NewGateway(kv))
	ai := gemini.NewClient(cfg.GeminiBaseURL, cfg.GeminiModel, cfg.GeminiAPIKey)

	h := &handlers.Handler{Store: s, Gemini: ai, Config: cfg, DB: db}
	r = handlers.SetupRouter(h)
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
