package config

import (
	"time"
)

type StorageConfig struct {
	Provider string              `yaml:"provider"`
	URLTTL   time.Duration       `yaml:"url_ttl"`
	Local    *LocalStorageConfig `yaml:"local"`
	AWS      *AWSStorageConfig   `yaml:"aws"`
	GCP      *GCPStorageConfig   `yaml:"gcp"`
}

type LocalStorageConfig struct {
	BaseURL string `yaml:"base_url"`
}

type AWSStorageConfig struct {
	Region string `yaml:"region"`
	Bucket string `yaml:"bucket"`
}

type GCPStorageConfig struct {
	Bucket          string `yaml:"bucket"`
	CredentialsFile string `yaml:"credentials_file"`
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Provider: getEnv("STORAGE_PROVIDER", "local"),
		URLTTL:   getEnvAsDuration("STORAGE_URL_TTL", 15*time.Minute),
		Local: &LocalStorageConfig{
			BaseURL: getEnv("STORAGE_LOCAL_URL", "http://localhost:8080/uploads"),
		},
		AWS: &AWSStorageConfig{
			Region: getEnv("AWS_S3_REGION", "us-east-1"),
			Bucket: getEnv("AWS_S3_BUCKET", ""),
		},
		GCP: &GCPStorageConfig{
			Bucket:          getEnv("GCP_STORAGE_BUCKET", ""),
			CredentialsFile: getEnv("GCP_CREDENTIALS_FILE", getEnv("FIREBASE_CREDENTIALS_FILE", "")),
		},
	}
}
