package core

import (
	"fmt"
	"os"
	"strings"
)

// DefaultServerURL is the public KoboToolbox instance used when
// KOBO_SERVER is not set.
const DefaultServerURL = "https://kf.kobotoolbox.org"

// Config holds process-wide settings read once at startup and passed into
// the API client and tool service.
type Config struct {
	// APIToken authorizes every KoboToolbox API call. Required.
	APIToken string
	// ServerURL is the KoboToolbox instance base URL, no trailing slash.
	ServerURL string
	// HTTPListen enables the ops HTTP server when non-empty.
	HTTPListen string
}

// ConfigFromEnv reads configuration from the environment. Validation is a
// separate step so callers decide when a missing token is fatal.
func ConfigFromEnv() Config {
	server := strings.TrimSpace(os.Getenv("KOBO_SERVER"))
	if server == "" {
		server = DefaultServerURL
	}
	return Config{
		APIToken:   strings.TrimSpace(os.Getenv("KOBO_API_TOKEN")),
		ServerURL:  strings.TrimRight(server, "/"),
		HTTPListen: strings.TrimSpace(os.Getenv("KOBOHUB_HTTP_LISTEN")),
	}
}

func (c Config) Validate() error {
	if c.APIToken == "" {
		return fmt.Errorf("KOBO_API_TOKEN environment variable is not set")
	}
	if c.ServerURL == "" {
		return fmt.Errorf("server URL is empty")
	}
	return nil
}
