package message

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"

	"github.com/starford/vibecard/internal/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type fakeGenerator struct {
	resp   *genai.GenerateContentResponse
	err    error
	model  string
	prompt string
	config *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: genai.NewContentFromText(text, genai.RoleModel)},
		},
	}
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	if got := (Static{Message: "hi"}).Generate(ctx, models.VibeLove, "Maya"); got != "hi" {
		t.Errorf("Generate = %q", got)
	}
	if got := (Static{}).Generate(ctx, models.VibeLove, "Maya"); got != Fallback {
		t.Errorf("empty Static = %q, want fallback", got)
	}
}

func TestFunc(t *testing.T) {
	p := Func(func(_ context.Context, v models.Vibe, r string) string {
		return v.Param() + ":" + r
	})
	if got := p.Generate(context.Background(), models.VibeSorry, "Alex"); got != "sorry:Alex" {
		t.Errorf("Generate = %q", got)
	}
}

func TestDefaultPrompts_AllVibes(t *testing.T) {
	p := DefaultPrompts()
	for _, v := range models.Vibes {
		got, err := p.Render(v, "Maya")
		if err != nil {
			t.Fatalf("Render(%s): %v", v, err)
		}
		if !strings.Contains(got, "Maya") || !strings.Contains(got, "15 words") {
			t.Errorf("Render(%s) = %q", v, got)
		}
	}
}

func writePrompts(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadPrompts_Override(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writePrompts(t, path, "prompts:\n  Birthday: \"Cheer for {{.Recipient}}!\"\n")

	p, err := LoadPrompts(path)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := p.Render(models.VibeBirthday, "Maya")
	if got != "Cheer for Maya!" {
		t.Errorf("birthday = %q", got)
	}
	love, _ := p.Render(models.VibeLove, "Maya")
	if !strings.Contains(love, "poet") {
		t.Errorf("love prompt should keep the default, got %q", love)
	}
}

func TestReload_InvalidKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writePrompts(t, path, "prompts:\n  sorry: \"Forgive me, {{.Recipient}}\"\n")
	p, err := LoadPrompts(path)
	if err != nil {
		t.Fatal(err)
	}

	for _, body := range []string{
		"prompts:\n  sorry: \"{{.Recipient\"\n",
		"prompts:\n  happy: \"hi\"\n",
		"prompts: [unclosed\n",
	} {
		writePrompts(t, path, body)
		if err := p.Reload(path); err == nil {
			t.Errorf("Reload(%q) should fail", body)
		}
	}
	got, _ := p.Render(models.VibeSorry, "Alex")
	if got != "Forgive me, Alex" {
		t.Errorf("sorry = %q, previous prompts should survive", got)
	}
}

func TestGenAI_Generate(t *testing.T) {
	fake := &fakeGenerator{resp: textResponse("  \"Shine on, legend.\"\n")}
	g := newGenAI(fake, GenAIConfig{Logger: quietLogger()})

	got := g.Generate(context.Background(), models.VibeBirthday, "Maya")
	if got != "Shine on, legend." {
		t.Errorf("Generate = %q", got)
	}
	if fake.model != DefaultModel {
		t.Errorf("model = %q", fake.model)
	}
	if !strings.Contains(fake.prompt, "Maya") {
		t.Errorf("prompt = %q", fake.prompt)
	}
	if fake.config.Temperature == nil || *fake.config.Temperature != DefaultTemperature {
		t.Errorf("temperature = %v", fake.config.Temperature)
	}
	if fake.config.TopK == nil || *fake.config.TopK != DefaultTopK {
		t.Errorf("topK = %v", fake.config.TopK)
	}
}

func TestGenAI_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeGenerator
	}{
		{"error", &fakeGenerator{err: errors.New("quota exceeded")}},
		{"nil response", &fakeGenerator{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGenAI(tt.fake, GenAIConfig{Logger: quietLogger()})
			if got := g.Generate(context.Background(), models.VibeLove, "Maya"); got != Fallback {
				t.Errorf("Generate = %q, want fallback", got)
			}
		})
	}
}

func TestGenAI_EmptyResponse(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
	}{
		{"blank text", textResponse("   ")},
		{"only quotes", textResponse(`""`)},
		{"single quote", textResponse(`'`)},
		{"no candidates", &genai.GenerateContentResponse{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGenAI(&fakeGenerator{resp: tt.resp}, GenAIConfig{Logger: quietLogger()})
			if got := g.Generate(context.Background(), models.VibeBirthday, "Maya"); got != EmptyResponseMessage {
				t.Errorf("Generate = %q, want %q", got, EmptyResponseMessage)
			}
		})
	}
}

func TestGenAI_StripsOneQuotePerSide(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"Shine on."`, "Shine on."},
		{`'Shine on.'`, "Shine on."},
		{`""Shine on.""`, `"Shine on."`},
		{`Shine on, 'legend'`, "Shine on, 'legend"},
		{`Shine on.`, "Shine on."},
	}
	for _, tt := range tests {
		g := newGenAI(&fakeGenerator{resp: textResponse(tt.in)}, GenAIConfig{Logger: quietLogger()})
		if got := g.Generate(context.Background(), models.VibeLove, "Maya"); got != tt.want {
			t.Errorf("Generate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenAI_CustomFallback(t *testing.T) {
	g := newGenAI(&fakeGenerator{err: errors.New("down")}, GenAIConfig{Fallback: "You matter.", Logger: quietLogger()})
	if got := g.Generate(context.Background(), models.VibeFriend, "Sam"); got != "You matter." {
		t.Errorf("Generate = %q", got)
	}
}

func TestNewGenAI_RequiresKey(t *testing.T) {
	if _, err := NewGenAI(context.Background(), GenAIConfig{}); err == nil {
		t.Error("expected error without API key")
	}
}

func TestWatchPrompts_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.yaml")
	writePrompts(t, path, "prompts:\n  friend: \"v1 {{.Recipient}}\"\n")
	p, err := LoadPrompts(path)
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- WatchPrompts(ctx, p, path, quietLogger()) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writePrompts(t, path, "prompts:\n  friend: \"v2 {{.Recipient}}\"\n")

	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if got, _ := p.Render(models.VibeFriend, "Sam"); got == "v2 Sam" {
			cancel()
			if err := <-done; err != nil {
				t.Errorf("WatchPrompts: %v", err)
			}
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Error("prompts were not reloaded")
}
