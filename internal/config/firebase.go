package config

type FirebaseConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
	// WebAPIKey authorizes password sign-in against Identity Toolkit.
	WebAPIKey string `yaml:"web_api_key"`
}

func loadFirebaseConfig() *FirebaseConfig {
	return &FirebaseConfig{
		ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		CredentialsFile: getEnv("FIREBASE_CREDENTIALS_FILE", ""),
		WebAPIKey:       getEnv("FIREBASE_WEB_API_KEY", ""),
	}
}
