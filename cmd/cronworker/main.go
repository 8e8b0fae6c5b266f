package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rupert648/feed-the-moose/internal/config"
)

// cronworker periodically invokes the scheduled feeding check on the API
// server, presenting the shared secret as a bearer credential. It is the
// external trigger: all scheduling logic lives server-side.
func main() {
	cfg := config.Load()
	if cfg.Auth.SharedSecret == "" {
		log.Fatal("❌ SHARED_SECRET must be set")
	}

	checkURL := getEnv("CHECK_URL", "http://localhost:"+cfg.App.Port+"/api/v1/cron/check-feedings")
	schedule := getEnv("CHECK_SCHEDULE", "*/5 * * * *")

	level, err := zerolog.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("component", "cronworker").Logger()

	client := &http.Client{Timeout: 60 * time.Second}

	c := cron.New()
	_, err = c.AddFunc(schedule, func() {
		runCheck(client, checkURL, cfg.Auth.SharedSecret, logger)
	})
	if err != nil {
		log.Fatalf("❌ Invalid CHECK_SCHEDULE %q: %v", schedule, err)
	}

	c.Start()
	logger.Info().Str("url", checkURL).Str("schedule", schedule).Msg("cron worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Let an in-flight check finish
	<-c.Stop().Done()
	logger.Info().Msg("cron worker stopped")
}

func runCheck(client *http.Client, url, secret string, logger zerolog.Logger) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		logger.Error().Err(err).Msg("failed to build check request")
		return
	}
	req.Header.Set("Authorization", "Bearer "+secret)

	resp, err := client.Do(req)
	if err != nil {
		logger.Error().Err(err).Msg("check request failed")
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
	if resp.StatusCode != http.StatusOK {
		logger.Error().Int("status", resp.StatusCode).Str("body", string(body)).Msg("check returned non-OK")
		return
	}
	logger.Info().Str("body", string(body)).Msg("check complete")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
