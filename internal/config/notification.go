package config

import (
	"time"
)

// NotificationConfig describes the channels used to tell a driver their
// account was approved. The HTTP endpoint is always used; the others are
// enabled by filling in their settings.
type NotificationConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
	SNS      *SNSConfig    `yaml:"sns"`
	Twilio   *TwilioConfig `yaml:"twilio"`
	FCM      *FCMConfig    `yaml:"fcm"`
}

type SNSConfig struct {
	Region   string `yaml:"region"`
	TopicARN string `yaml:"topic_arn"`
}

type TwilioConfig struct {
	AccountSID string `yaml:"account_sid"`
	AuthToken  string `yaml:"auth_token"`
	FromNumber string `yaml:"from_number"`
}

type FCMConfig struct {
	Enabled     bool   `yaml:"enabled"`
	TopicPrefix string `yaml:"topic_prefix"`
}

func loadNotificationConfig() *NotificationConfig {
	return &NotificationConfig{
		Endpoint: getEnv("NOTIFY_DRIVER_URL", "http://localhost:3000/api/notify-driver"),
		Timeout:  getEnvAsDuration("NOTIFY_TIMEOUT", 10*time.Second),
		SNS: &SNSConfig{
			Region:   getEnv("AWS_REGION", "us-east-1"),
			TopicARN: getEnv("NOTIFY_SNS_TOPIC_ARN", ""),
		},
		Twilio: &TwilioConfig{
			AccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber: getEnv("TWILIO_FROM_NUMBER", ""),
		},
		FCM: &FCMConfig{
			Enabled:     getEnvAsBool("NOTIFY_FCM_ENABLED", false),
			TopicPrefix: getEnv("NOTIFY_FCM_TOPIC_PREFIX", "driver_"),
		},
	}
}

func (c *TwilioConfig) Configured() bool {
	return c.AccountSID != "" && c.AuthToken != "" && c.FromNumber != ""
}
