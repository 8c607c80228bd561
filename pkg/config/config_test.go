package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ZENDESK_SUBDOMAIN", "")
	t.Setenv("LLM_API_KEY", "")
	t.Setenv("REDIS_ADDR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Meeting.InactivityTimeout != 30*time.Minute {
		t.Fatalf("expected 30m inactivity timeout, got %s", cfg.Meeting.InactivityTimeout)
	}
	if cfg.Meeting.DefaultInterval != 7*24*time.Hour {
		t.Fatalf("expected one week meeting interval, got %s", cfg.Meeting.DefaultInterval)
	}
	if cfg.Zendesk.Enabled() || cfg.LLM.Enabled() || cfg.Redis.Enabled() {
		t.Fatal("expected optional integrations to be disabled by default")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")
	t.Setenv("MEETING_MAX_DURATION", "90m")
	t.Setenv("ZENDESK_SUBDOMAIN", "acme")
	t.Setenv("ZENDESK_API_TOKEN", "tok")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %s", cfg.Server.Port)
	}
	if len(cfg.Server.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 origins, got %v", cfg.Server.AllowedOrigins)
	}
	if cfg.Meeting.MaxDuration != 90*time.Minute {
		t.Fatalf("expected 90m max duration, got %s", cfg.Meeting.MaxDuration)
	}
	if !cfg.Zendesk.Enabled() {
		t.Fatal("expected zendesk to be enabled")
	}
	if got := cfg.Zendesk.APIBaseURL(); got != "https://acme.zendesk.com" {
		t.Fatalf("unexpected zendesk base url %s", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"zero inactivity", func(c *Config) { c.Meeting.InactivityTimeout = 0 }, true},
		{"zero max duration", func(c *Config) { c.Meeting.MaxDuration = 0 }, true},
		{"oauth without secret", func(c *Config) { c.Zendesk.OAuthClientID = "id" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Server:   ServerConfig{Port: "8080"},
				Database: DatabaseConfig{Name: "db"},
				Meeting: MeetingConfig{
					InactivityTimeout: time.Minute,
					MaxDuration:       time.Hour,
					WatchdogInterval:  time.Second,
				},
			}
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
