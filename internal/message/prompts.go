package message

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"sync"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/starford/vibecard/internal/models"
)

// TargetWords is the length the prompts ask the model for.
const TargetWords = 15

var defaultPrompts = map[models.Vibe]string{
	models.VibeLove: "You are a celebrated romantic poet. Write one breathtaking sentence for {{.Recipient}} " +
		"in about {{.Words}} words, weaving a few tender Urdu or Hindi words into poetic English. Cinematic romance.",
	models.VibePropose: "Write one elegant, profound marriage proposal sentence for {{.Recipient}} in about {{.Words}} words. " +
		"It should read like a royal promise: dignified and deeply emotional.",
	models.VibeSorry: "Write one gentle, sincere apology for {{.Recipient}} in about {{.Words}} words. " +
		"It should feel like a soft hug: quiet and beautiful.",
	models.VibeFriend: "Write one loud, chaotic, deeply appreciative tribute to a best friend named {{.Recipient}} " +
		"in about {{.Words}} words. Modern slang, maximum hype.",
	models.VibeBirthday: "Write one high-energy, premium birthday wish for {{.Recipient}} in about {{.Words}} words. " +
		"Make it feel like a grand celebration with words like Legend, Unstoppable and Iconic.",
}

// PromptData is the value prompt templates are executed with.
type PromptData struct {
	Recipient string
	Words     int
}

// promptFile is the on-disk layout of a prompts override file:
//
//	prompts:
//	  love: "..."
//	  birthday: "..."
type promptFile struct {
	Prompts map[string]string `yaml:"prompts"`
}

// Prompts holds one template per vibe. It is safe for concurrent use; the
// set can be swapped while generations are running.
type Prompts struct {
	mu    sync.RWMutex
	tmpls map[models.Vibe]*template.Template
}

// DefaultPrompts returns the built-in prompt set.
func DefaultPrompts() *Prompts {
	tmpls, err := compile(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("message: built-in prompts: %v", err))
	}
	return &Prompts{tmpls: tmpls}
}

// LoadPrompts returns the built-in set overridden by the YAML file at path.
func LoadPrompts(path string) (*Prompts, error) {
	p := DefaultPrompts()
	if err := p.Reload(path); err != nil {
		return nil, err
	}
	return p, nil
}

// Reload re-reads path and replaces the vibes it names. On error the current
// set is left untouched.
func (p *Prompts) Reload(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("message: read prompts %s: %w", path, err)
	}
	var f promptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("message: parse prompts %s: %w", path, err)
	}

	merged := make(map[models.Vibe]string, len(defaultPrompts))
	for v, text := range defaultPrompts {
		merged[v] = text
	}
	for key, text := range f.Prompts {
		v, err := models.ParseVibe(key)
		if err != nil {
			return fmt.Errorf("message: prompts %s: %w", path, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		merged[v] = text
	}

	tmpls, err := compile(merged)
	if err != nil {
		return fmt.Errorf("message: prompts %s: %w", path, err)
	}

	p.mu.Lock()
	p.tmpls = tmpls
	p.mu.Unlock()
	return nil
}

// Render builds the prompt for vibe and recipient.
func (p *Prompts) Render(vibe models.Vibe, recipient string) (string, error) {
	p.mu.RLock()
	tmpl, ok := p.tmpls[vibe]
	p.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("message: no prompt for vibe %q", vibe)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, PromptData{Recipient: recipient, Words: TargetWords}); err != nil {
		return "", fmt.Errorf("message: render %s prompt: %w", vibe, err)
	}
	return buf.String(), nil
}

func compile(src map[models.Vibe]string) (map[models.Vibe]*template.Template, error) {
	out := make(map[models.Vibe]*template.Template, len(src))
	for v, text := range src {
		t, err := template.New(v.Param()).Option("missingkey=error").Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parse %s prompt: %w", v.Param(), err)
		}
		out[v] = t
	}
	return out, nil
}
