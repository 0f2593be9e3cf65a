package internal

import (
	"fmt"
	"log/slog"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/vibecard/internal/message"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Provider modes.
const (
	ProviderModeStatic = "static"
	ProviderModeGenAI  = "genai"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Share    ShareConfig       `yaml:"share"`
	Provider ProviderConfig    `yaml:"provider"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Share.Validate(); err != nil {
		return err
	}
	if err := c.Provider.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// ShareConfig holds the page that share links point at.
type ShareConfig struct {
	BaseURL string `yaml:"base_url"`
}

// Validate validates the share configuration.
func (c *ShareConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.BaseURL, validation.Required),
	); err != nil {
		return err
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("share: base_url %q must be an absolute http(s) URL", c.BaseURL)
	}
	return nil
}

// ProviderConfig configures the message provider.
//
// Mode selects the implementation:
//   - "static" (default): always answers with FallbackMessage; no network.
//   - "genai": Google Gemini; APIKey must be non-empty.
type ProviderConfig struct {
	Mode            string  `yaml:"mode"`
	APIKey          string  `yaml:"api_key"`
	Model           string  `yaml:"model"`
	Temperature     float32 `yaml:"temperature"`
	TopK            float32 `yaml:"top_k"`
	TopP            float32 `yaml:"top_p"`
	FallbackMessage string  `yaml:"fallback_message"`
	// PromptsPath optionally points at a YAML file of per-vibe prompts. It is
	// watched and reloaded on change.
	PromptsPath string `yaml:"prompts_path"`
}

// Validate validates the provider configuration.
func (c *ProviderConfig) Validate() error {
	if c.Mode == "" {
		c.Mode = ProviderModeStatic
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(ProviderModeStatic, ProviderModeGenAI)),
		validation.Field(&c.Temperature, validation.Min(float32(0)), validation.Max(float32(2))),
		validation.Field(&c.TopK, validation.Min(float32(0))),
		validation.Field(&c.TopP, validation.Min(float32(0)), validation.Max(float32(1))),
	); err != nil {
		return err
	}
	if c.Mode == ProviderModeGenAI && c.APIKey == "" {
		return fmt.Errorf("provider: mode is %q but api_key is empty", ProviderModeGenAI)
	}
	return nil
}

// AuthConfig holds API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Share: ShareConfig{
			BaseURL: "http://localhost:8080/",
		},
		Provider: ProviderConfig{
			Mode:            ProviderModeStatic,
			Model:           message.DefaultModel,
			Temperature:     message.DefaultTemperature,
			TopK:            message.DefaultTopK,
			TopP:            message.DefaultTopP,
			FallbackMessage: message.Fallback,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
