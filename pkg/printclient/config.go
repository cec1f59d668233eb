package printclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/caarlos0/env/v11"
)

// APIKeyEnv is the environment variable holding the board API key.
const APIKeyEnv = "PRINTBOARD_API_KEY"

// DefaultPrintMessage is the description sent with every print request.
const DefaultPrintMessage = "Print job requested"

// Config is the immutable client configuration. Build it once and pass it to NewClient.
type Config struct {
	Endpoints Endpoints
	APIKey    string

	// HTTPClient defaults to a client without an overall timeout.
	HTTPClient *http.Client

	// StepTimeout bounds each remote call of a run. Zero means no bound
	// beyond the caller's context.
	StepTimeout time.Duration

	PrintMessage string
}

// Settings are the raw client settings as read from the environment.
type Settings struct {
	BaseURL      string        `env:"PRINTBOARD_BASE_URL" envDefault:"http://localhost:8676"`
	IdentityURL  string        `env:"PRINTBOARD_IDENTITY_URL" envDefault:"https://api.ipify.org?format=json"`
	APIKey       string        `env:"PRINTBOARD_API_KEY"`
	StepTimeout  time.Duration `env:"PRINTBOARD_STEP_TIMEOUT"`
	PrintMessage string        `env:"PRINTBOARD_PRINT_MESSAGE" envDefault:"Print job requested"`
}

// LoadSettings reads the PRINTBOARD_* environment variables.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse client env: %w", err)
	}
	return s, nil
}

// Config builds the immutable client configuration from s.
func (s Settings) Config() Config {
	return Config{
		Endpoints:    NewEndpoints(s.BaseURL, s.IdentityURL),
		APIKey:       s.APIKey,
		StepTimeout:  s.StepTimeout,
		PrintMessage: s.PrintMessage,
	}
}

// LoadConfig reads the client configuration from the environment once.
func LoadConfig() (Config, error) {
	s, err := LoadSettings()
	if err != nil {
		return Config{}, err
	}
	return s.Config(), nil
}
