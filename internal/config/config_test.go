package config

import (
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		App:      &AppConfig{},
		Security: &SecurityConfig{JWTSecret: "secret"},
		DocStore: &DocStoreConfig{Provider: DocStoreMemory},
		Database: &DatabaseConfig{},
		Firebase: &FirebaseConfig{},
		NewRelic: &NewRelicConfig{},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"memory store", func(c *Config) {}, false},
		{"missing secret", func(c *Config) { c.Security.JWTSecret = "" }, true},
		{"unknown provider", func(c *Config) { c.DocStore.Provider = "sqlite" }, true},
		{"firestore without project", func(c *Config) { c.DocStore.Provider = DocStoreFirestore }, true},
		{"firestore with project", func(c *Config) {
			c.DocStore.Provider = DocStoreFirestore
			c.Firebase.ProjectID = "ride-admin"
		}, false},
		{"mongodb without uri", func(c *Config) { c.DocStore.Provider = DocStoreMongoDB }, true},
		{"new relic without key", func(c *Config) { c.NewRelic.Enabled = true }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DOCSTORE_PROVIDER", DocStoreMemory)
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://admin.example.com, https://ops.example.com")
	t.Setenv("APP_SEARCH_DEBOUNCE", "nonsense")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.App.Currency != "RWF" || cfg.App.Port != 8080 {
		t.Errorf("unexpected app defaults: %+v", cfg.App)
	}
	if cfg.App.SearchDebounce != 300*time.Millisecond {
		t.Errorf("expected fallback debounce, got %v", cfg.App.SearchDebounce)
	}
	if got := cfg.Security.CORSAllowedOrigins; len(got) != 2 || got[1] != "https://ops.example.com" {
		t.Errorf("unexpected origins %v", got)
	}
	if cfg.Notification.Endpoint == "" || cfg.Storage.Provider != "local" {
		t.Errorf("unexpected notification or storage defaults")
	}
}
