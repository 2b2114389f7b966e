// Command corebot runs the Summarization Core as a standalone process,
// exposing health/readiness probes and a summarize trigger over HTTP for
// local development and smoke testing. Production callers are expected to
// embed internal/engine directly; this binary is a thin external shell
// around the in-process Engine API (spec.md §6).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/summarybot/corebot/internal/cachebackend"
	"github.com/summarybot/corebot/internal/config"
	"github.com/summarybot/corebot/internal/engine"
	"github.com/summarybot/corebot/internal/llmclient"
	"github.com/summarybot/corebot/internal/observability"
	"github.com/summarybot/corebot/internal/permcache"
	"github.com/summarybot/corebot/internal/summarize"
	"github.com/summarybot/corebot/internal/summarycache"
	"github.com/summarybot/corebot/internal/version"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		_ = godotenv.Load("example.env")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		log.Fatal().Err(err).Msg("failed to load config")
	}

	observability.InitLogger(cfg.LogPath, cfg.LogLevel)

	shutdown, err := observability.InitOTel(context.Background(), cfg.Obs)
	if err != nil {
		log.Warn().Err(err).Msg("otel init failed, continuing without observability")
		shutdown = nil
	}
	if shutdown != nil {
		defer func() { _ = shutdown(context.Background()) }()
	}

	httpClient := observability.NewHTTPClient(nil)

	backend, err := cachebackend.New(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct cache backend")
	}
	if err := backend.Initialize(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("failed to initialize cache backend")
	}
	defer func() { _ = backend.Close(context.Background()) }()

	cache := summarycache.New(backend, int(cfg.Cache.TTL.Seconds()))

	permCache, err := permcache.New(permcache.Config{
		Capacity: cfg.PermissionCache.Capacity,
		TTL:      cfg.PermissionCache.TTL,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to construct permission cache")
	}

	llm := llmclient.New(cfg.Anthropic, cfg.RateLimit, httpClient)

	eng := engine.New(llm, cache, engine.Config{
		MaxPromptTokens: cfg.Prompt.MaxContextTokens - cfg.Prompt.ReservedTokens,
		MaxConcurrency:  cfg.Engine.MaxConcurrency,
	})

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "ok (%s)\n", version.Version)
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		status := eng.HealthCheck(r.Context())
		w.Header().Set("Content-Type", "application/json")
		if status.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(status)
	})
	mux.HandleFunc("/permcache/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(permCache.Stats())
	})
	mux.HandleFunc("/usage", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(llm.UsageStats().Snap())
	})
	mux.HandleFunc("/summarize", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req summarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
		defer cancel()

		opts := summarize.DefaultSummaryOptions()
		if req.Length != "" {
			opts.Length = summarize.SummaryLength(req.Length)
		}

		result, sumErr := eng.Summarize(ctx, req.Messages, opts, nil, req.ChannelID, req.GuildID)
		if sumErr != nil {
			log.Error().Err(sumErr).Str("kind", string(sumErr.Kind)).Msg("summarize failed")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": string(sumErr.Kind), "message": sumErr.UserMessage})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(result)
	})

	addr := ":32181"
	log.Info().Str("addr", addr).Str("version", version.Version).Msg("corebot listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
}

type summarizeRequest struct {
	ChannelID string              `json:"channel_id"`
	GuildID   string              `json:"guild_id"`
	Length    string              `json:"length"`
	Messages  []summarize.Message `json:"messages"`
}
