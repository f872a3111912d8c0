package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App          *AppConfig          `yaml:"app"`
	Security     *SecurityConfig     `yaml:"security"`
	Logging      *LoggingConfig      `yaml:"logging"`
	DocStore     *DocStoreConfig     `yaml:"docstore"`
	Database     *DatabaseConfig     `yaml:"database"`
	Firebase     *FirebaseConfig     `yaml:"firebase"`
	Redis        *RedisConfig        `yaml:"redis"`
	Storage      *StorageConfig      `yaml:"storage"`
	Notification *NotificationConfig `yaml:"notification"`
	WebSocket    *WebSocketConfig    `yaml:"websocket"`
	NewRelic     *NewRelicConfig     `yaml:"newrelic"`
}

type AppConfig struct {
	Name        string        `yaml:"name"`
	Version     string        `yaml:"version"`
	Environment string        `yaml:"environment"`
	Port        int           `yaml:"port"`
	Host        string        `yaml:"host"`
	Debug       bool          `yaml:"debug"`
	Currency    string        `yaml:"currency"`
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// SearchDebounce is the quiet period applied to filter input on live account feeds.
	SearchDebounce time.Duration `yaml:"search_debounce"`
}

type SecurityConfig struct {
	JWTSecret          string        `yaml:"jwt_secret"`
	SessionTTL         time.Duration `yaml:"session_ttl"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins"`
	TrustedProxies     []string      `yaml:"trusted_proxies"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	Output     string `yaml:"output"`
	TimeFormat string `yaml:"time_format"`
	Caller     bool   `yaml:"caller"`
	Colors     bool   `yaml:"colors"`
}

type NewRelicConfig struct {
	AppName    string `yaml:"app_name"`
	LicenseKey string `yaml:"license_key"`
	Enabled    bool   `yaml:"enabled"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{
		App:          loadAppConfig(),
		Security:     loadSecurityConfig(),
		Logging:      loadLoggingConfig(),
		DocStore:     loadDocStoreConfig(),
		Database:     loadDatabaseConfig(),
		Firebase:     loadFirebaseConfig(),
		Redis:        loadRedisConfig(),
		Storage:      loadStorageConfig(),
		Notification: loadNotificationConfig(),
		WebSocket:    loadWebSocketConfig(),
		NewRelic:     loadNewRelicConfig(),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects combinations the server cannot start with.
func (c *Config) Validate() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}

	switch c.DocStore.Provider {
	case DocStoreFirestore:
		if c.Firebase.ProjectID == "" && c.Firebase.CredentialsFile == "" {
			return fmt.Errorf("firestore provider requires FIREBASE_PROJECT_ID or FIREBASE_CREDENTIALS_FILE")
		}
	case DocStoreMongoDB:
		if c.Database.URI == "" {
			return fmt.Errorf("mongodb provider requires MONGODB_URI")
		}
	case DocStoreMemory:
	default:
		return fmt.Errorf("unknown DOCSTORE_PROVIDER %q", c.DocStore.Provider)
	}

	if c.NewRelic.Enabled && c.NewRelic.LicenseKey == "" {
		return fmt.Errorf("NEW_RELIC_LICENSE_KEY must be set when New Relic is enabled")
	}

	return nil
}

func loadAppConfig() *AppConfig {
	return &AppConfig{
		Name:           getEnv("APP_NAME", "RideAdmin"),
		Version:        getEnv("APP_VERSION", "1.0.0"),
		Environment:    getEnv("APP_ENV", "development"),
		Port:           getEnvAsInt("APP_PORT", 8080),
		Host:           getEnv("APP_HOST", "0.0.0.0"),
		Debug:          getEnvAsBool("APP_DEBUG", false),
		Currency:       getEnv("APP_CURRENCY", "RWF"),
		ReadTimeout:    getEnvAsDuration("APP_READ_TIMEOUT", 15*time.Second),
		SearchDebounce: getEnvAsDuration("APP_SEARCH_DEBOUNCE", 300*time.Millisecond),
	}
}

func loadSecurityConfig() *SecurityConfig {
	return &SecurityConfig{
		JWTSecret:          getEnv("JWT_SECRET", ""),
		SessionTTL:         getEnvAsDuration("SESSION_TTL", 12*time.Hour),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
	}
}

func loadLoggingConfig() *LoggingConfig {
	return &LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Format:     getEnv("LOG_FORMAT", "json"),
		Output:     getEnv("LOG_OUTPUT", "stdout"),
		TimeFormat: getEnv("LOG_TIME_FORMAT", time.RFC3339),
		Caller:     getEnvAsBool("LOG_CALLER", false),
		Colors:     getEnvAsBool("LOG_COLORS", false),
	}
}

func loadNewRelicConfig() *NewRelicConfig {
	licenseKey := getEnv("NEW_RELIC_LICENSE_KEY", "")
	return &NewRelicConfig{
		AppName:    getEnv("NEW_RELIC_APP_NAME", "ride-admin"),
		LicenseKey: licenseKey,
		Enabled:    getEnvAsBool("NEW_RELIC_ENABLED", licenseKey != ""),
	}
}

func (c *AppConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *AppConfig) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return defaultValue
}
