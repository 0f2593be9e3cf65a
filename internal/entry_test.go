package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/vibecard/internal/message"
	"github.com/starford/vibecard/internal/models"
	"github.com/starford/vibecard/internal/testutil"
)

func TestNewProvider_Static(t *testing.T) {
	cfg := NewDefaultConfig().Provider
	cfg.FallbackMessage = "Fixed."

	p, prompts, err := NewProvider(context.Background(), cfg, testutil.QuietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if prompts == nil {
		t.Fatal("prompts should default to the built-in set")
	}
	if got := p.Generate(context.Background(), models.VibeLove, "Ann"); got != "Fixed." {
		t.Errorf("got %q", got)
	}
}

func TestNewProvider_PromptsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	if err := os.WriteFile(path, []byte("prompts:\n  sorry: \"Apologise to {{.Recipient}}\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewDefaultConfig().Provider
	cfg.PromptsPath = path

	_, prompts, err := NewProvider(context.Background(), cfg, testutil.QuietLogger())
	if err != nil {
		t.Fatal(err)
	}
	got, err := prompts.Render(models.VibeSorry, "Ann")
	if err != nil {
		t.Fatal(err)
	}
	if got != "Apologise to Ann" {
		t.Errorf("got %q", got)
	}
}

func TestNewProvider_BadPromptsFile(t *testing.T) {
	cfg := NewDefaultConfig().Provider
	cfg.PromptsPath = filepath.Join(t.TempDir(), "missing.yaml")
	if _, _, err := NewProvider(context.Background(), cfg, testutil.QuietLogger()); err == nil {
		t.Fatal("expected error for missing prompts file")
	}
}

func TestHTTPHandler_Routes(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Share.BaseURL = "https://cards.example.com/"
	svc, _, err := NewCardService(context.Background(), cfg, testutil.QuietLogger())
	if err != nil {
		t.Fatal(err)
	}
	h := NewHTTPHandler(svc, cfg.Auth)

	for _, path := range []string{"/health/live", "/health/ready", "/api/vibes"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"vibe":"friend","recipient_name":"Ann","sender_name":"Bob"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/cards", body)
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /api/cards = %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), message.Fallback) {
		t.Errorf("static provider message missing: %s", rec.Body.String())
	}
}

func TestRun_RequiresConfig(t *testing.T) {
	if err := Run(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
	if err := RunMCP(context.Background()); err == nil {
		t.Fatal("expected error without config")
	}
}
