package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("GHL_API_DOMAIN", "https://services.leadconnectorhq.com")
	t.Setenv("GHL_APP_CLIENT_ID", "client-id")
	t.Setenv("GHL_APP_CLIENT_SECRET", "client-secret")
	t.Setenv("PORT", "9999")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "https://services.leadconnectorhq.com", cfg.APIDomain)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing api domain",
			cfg:     Config{ClientID: "id", ClientSecret: "secret"},
			wantErr: "GHL_API_DOMAIN is required",
		},
		{
			name:    "missing client id",
			cfg:     Config{APIDomain: "https://example.com", ClientSecret: "secret"},
			wantErr: "GHL_APP_CLIENT_ID is required",
		},
		{
			name:    "missing client secret",
			cfg:     Config{APIDomain: "https://example.com", ClientID: "id"},
			wantErr: "GHL_APP_CLIENT_SECRET is required",
		},
		{
			name: "valid",
			cfg:  Config{APIDomain: "https://example.com", ClientID: "id", ClientSecret: "secret"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tc.wantErr)
			}
		})
	}
}
