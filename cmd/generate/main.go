// Command generate runs review payloads from a JSON file through the same
// pipeline as POST /generate-review/. The file holds one payload object or an
// array of them. The daily cap applies exactly as it does over HTTP.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"movie_review/internal/adapters/observability"
	"movie_review/internal/adapters/webhook"
	"movie_review/internal/app"
	"movie_review/internal/domain"
	"movie_review/internal/shared"
	"movie_review/internal/storage"
)

func main() {
	path := flag.String("f", "", "path to a JSON payload object or array of objects (- for stdin)")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := shared.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	payloads, err := readPayloads(*path)
	if err != nil {
		log.Fatal().Err(err).Msg("read payloads failed")
	}

	ctx := context.Background()
	log.Info().
		Int("payloads", len(payloads)).
		Int("workers", cfg.GenerateWorkers).
		Int("daily_limit", cfg.DailyLimit).
		Msg("generator starting")

	repo, closeRepo, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("store open failed")
	}
	defer closeRepo()

	gw, err := webhook.New(cfg.WebhookURL, webhook.Options{
		Timeout:     cfg.WebhookTimeout(),
		RPS:         cfg.WebhookRPS,
		MaxInFlight: cfg.WebhookMaxInFlight,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize webhook client")
	}

	gen := app.NewGenerationService(repo, gw, cfg.DailyLimit)

	sem := semaphore.NewWeighted(int64(cfg.GenerateWorkers))
	var (
		wg     sync.WaitGroup
		failed atomic.Int32
	)
	for i, p := range payloads {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(idx int, payload json.RawMessage) {
			defer wg.Done()
			defer sem.Release(1)

			rv, err := gen.Generate(ctx, payload)
			if err != nil {
				failed.Add(1)
				ev := log.Warn()
				if !errors.Is(err, domain.ErrRateLimited) {
					ev = log.Error()
				}
				ev.Int("item", idx).Str("kind", domain.Kind(err)).Err(err).Msg("generate failed")
				return
			}
			log.Info().Int("item", idx).Str("id", rv.ID).Msg("generate ok")
		}(i, p)
	}

	wg.Wait()
	log.Info().Int32("failed", failed.Load()).Int("total", len(payloads)).Msg("generation completed")
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

// readPayloads accepts a single JSON object or an array of objects.
func readPayloads(path string) ([]json.RawMessage, error) {
	var (
		b   []byte
		err error
	)
	switch path {
	case "":
		return nil, errors.New("-f is required")
	case "-":
		b, err = io.ReadAll(os.Stdin)
	default:
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, err
	}
	return splitPayloads(b)
}

func splitPayloads(b []byte) ([]json.RawMessage, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil, errors.New("empty input")
	}
	if b[0] == '{' {
		if !json.Valid(b) {
			return nil, errors.New("input is not valid JSON")
		}
		return []json.RawMessage{b}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("input must be an object or an array of objects: %w", err)
	}
	for i, it := range items {
		if t := bytes.TrimSpace(it); len(t) == 0 || t[0] != '{' {
			return nil, fmt.Errorf("item %d is not a JSON object", i)
		}
	}
	return items, nil
}
