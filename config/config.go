// Package config loads the process configuration from environment variables.
//
// Recognized variables:
//   - GHL_API_DOMAIN: base URL of the GHL API (required)
//   - GHL_APP_CLIENT_ID: OAuth client id of this app (required)
//   - GHL_APP_CLIENT_SECRET: OAuth client secret of this app (required)
//   - GHL_APP_SSO_KEY: shared secret used to decrypt SSO payloads
//   - ZENEXA_BACKEND_URL: base URL of the Zenexa backend that receives
//     forwarded webhook events
//   - MONGODB_URI: Mongo connection string; when unset an in-memory store
//     is used
//   - PORT: HTTP listen port (default: 8080)
//   - LOG_LEVEL: minimum log severity (default: info)
//   - DEFAULT_LOCATION_ID: fallback location id for the demo UI
package config

import (
	"fmt"
	"os"
)

type Config struct {
	APIDomain         string // GHL API base URL
	ClientID          string // OAuth client credentials
	ClientSecret      string
	SSOKey            string // shared secret for SSO payload decryption
	ZenexaBackendURL  string // downstream forwarding target
	MongoURI          string
	Port              string
	LogLevel          string
	DefaultLocationID string
}

func Load() Config {
	return Config{
		APIDomain:         os.Getenv("GHL_API_DOMAIN"),
		ClientID:          os.Getenv("GHL_APP_CLIENT_ID"),
		ClientSecret:      os.Getenv("GHL_APP_CLIENT_SECRET"),
		SSOKey:            os.Getenv("GHL_APP_SSO_KEY"),
		ZenexaBackendURL:  os.Getenv("ZENEXA_BACKEND_URL"),
		MongoURI:          os.Getenv("MONGODB_URI"),
		Port:              getEnv("PORT", "8080"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		DefaultLocationID: os.Getenv("DEFAULT_LOCATION_ID"),
	}
}

func (c Config) Validate() error {
	if c.APIDomain == "" {
		return fmt.Errorf("GHL_API_DOMAIN is required")
	}
	if c.ClientID == "" {
		return fmt.Errorf("GHL_APP_CLIENT_ID is required")
	}
	if c.ClientSecret == "" {
		return fmt.Errorf("GHL_APP_CLIENT_SECRET is required")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
