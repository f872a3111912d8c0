package config

import (
	"time"
)

const (
	DocStoreFirestore = "firestore"
	DocStoreMongoDB   = "mongodb"
	DocStoreMemory    = "memory"
)

// DocStoreConfig selects the backend that holds users, bookings and payments.
type DocStoreConfig struct {
	Provider string `yaml:"provider"`
	// SeedFile is an optional JSON fixture loaded into the memory provider.
	SeedFile string `yaml:"seed_file"`
}

type DatabaseConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	MaxPoolSize    int           `yaml:"max_pool_size"`
	MinPoolSize    int           `yaml:"min_pool_size"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SocketTimeout  time.Duration `yaml:"socket_timeout"`
}

func loadDocStoreConfig() *DocStoreConfig {
	return &DocStoreConfig{
		Provider: getEnv("DOCSTORE_PROVIDER", DocStoreFirestore),
		SeedFile: getEnv("DOCSTORE_SEED_FILE", ""),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017/?replicaSet=rs0"),
		Database:       getEnv("MONGODB_DATABASE", "ride_admin"),
		MaxPoolSize:    getEnvAsInt("MONGODB_MAX_POOL_SIZE", 50),
		MinPoolSize:    getEnvAsInt("MONGODB_MIN_POOL_SIZE", 2),
		ConnectTimeout: getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		SocketTimeout:  getEnvAsDuration("MONGODB_SOCKET_TIMEOUT", 30*time.Second),
	}
}
