package shared_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"movie_review/internal/shared"
)

// isolate points the loader at a config path that does not exist.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("REVIEWS_CONFIG_FILE", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	c, err := shared.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.DailyLimit != 2 || c.WebhookTimeout() != 600*time.Second || c.StoreDriver != "mongo" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.HTTPAddr != ":8000" || c.CacheTTL() != 5*time.Minute {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yml := "webhook_url: https://hook.example.test/from-file\ndaily_limit: 5\nstore_driver: memory\n"
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("REVIEWS_CONFIG_FILE", path)
	t.Setenv("REVIEWS_DAILY_LIMIT", "7")
	t.Setenv("REVIEWS_WEBHOOK_TIMEOUT_SECONDS", "30")

	c, err := shared.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.WebhookURL != "https://hook.example.test/from-file" {
		t.Fatalf("webhook_url from file: %q", c.WebhookURL)
	}
	if c.DailyLimit != 7 || c.WebhookTimeout() != 30*time.Second || c.StoreDriver != "memory" {
		t.Fatalf("unexpected config: %+v", c)
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string][2]string{
		"driver": {"REVIEWS_STORE_DRIVER", "postgres"},
		"limit":  {"REVIEWS_DAILY_LIMIT", "0"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv(kv[0], kv[1])
			if _, err := shared.Load(); err == nil {
				t.Fatalf("expected error for %s=%s", kv[0], kv[1])
			}
		})
	}
}
