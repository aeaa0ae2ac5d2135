package webhook_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"movie_review/internal/adapters/webhook"
	"movie_review/internal/domain"
)

func TestClient_ForwardsPayloadVerbatim(t *testing.T) {
	payload := json.RawMessage(`{"movie":"Heat",  "tags":["crime"], "n": 1.50}`)
	var gotBody, gotCT, gotMethod string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		gotBody, gotCT, gotMethod = string(b), r.Header.Get("Content-Type"), r.Method
		_, _ = w.Write([]byte("  ```json\n{\"title\":\"T\"}\n```  "))
	}))
	defer ts.Close()

	cl, err := webhook.New(ts.URL, webhook.Options{Timeout: 2 * time.Second, RPS: 100})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	out, err := cl.Generate(context.Background(), payload)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if gotMethod != http.MethodPost || gotCT != "application/json" || gotBody != string(payload) {
		t.Fatalf("request: %s %s %q", gotMethod, gotCT, gotBody)
	}
	// raw text is returned untouched; cleanup happens upstream
	if out != "  ```json\n{\"title\":\"T\"}\n```  " {
		t.Fatalf("unexpected body %q", out)
	}
}

func TestClient_NoRetryOnServerError(t *testing.T) {
	var hits int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("Scenario failed"))
	}))
	defer ts.Close()

	cl, _ := webhook.New(ts.URL, webhook.Options{Timeout: time.Second, RPS: 100})
	out, err := cl.Generate(context.Background(), json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("status errors are not transport errors: %v", err)
	}
	if out != "Scenario failed" || atomic.LoadInt32(&hits) != 1 {
		t.Fatalf("body=%q hits=%d", out, hits)
	}
}

func TestClient_TimeoutIsGatewayUnavailable(t *testing.T) {
	release := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer ts.Close()
	defer close(release)

	cl, _ := webhook.New(ts.URL, webhook.Options{Timeout: 50 * time.Millisecond, RPS: 100})
	_, err := cl.Generate(context.Background(), json.RawMessage(`{}`))
	if !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	cl, _ := webhook.New(url, webhook.Options{Timeout: time.Second, RPS: 100})
	if _, err := cl.Generate(context.Background(), json.RawMessage(`{}`)); !errors.Is(err, domain.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
}

func TestNew_RequiresURL(t *testing.T) {
	if _, err := webhook.New("", webhook.Options{}); err == nil {
		t.Fatalf("expected error for empty URL")
	}
}
