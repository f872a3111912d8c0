package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
)

// FCMNotifier pushes to the topic the driver app subscribes to, named
// prefix + driver id.
type FCMNotifier struct {
	client      *messaging.Client
	topicPrefix string
}

func NewFCMNotifier(ctx context.Context, app *firebase.App, topicPrefix string) (*FCMNotifier, error) {
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &FCMNotifier{
		client:      client,
		topicPrefix: topicPrefix,
	}, nil
}

func (f *FCMNotifier) Name() string {
	return "fcm"
}

func (f *FCMNotifier) NotifyDriverApproved(ctx context.Context, approval *DriverApproval) error {
	if approval.DriverID == "" {
		return ErrNoRecipient
	}

	message := &messaging.Message{
		Topic: f.topicPrefix + approval.DriverID,
		Notification: &messaging.Notification{
			Title: "Account approved",
			Body:  approval.message(),
		},
		Data: map[string]string{
			"event":     "driver_approved",
			"driver_id": approval.DriverID,
		},
	}

	if _, err := f.client.Send(ctx, message); err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	return nil
}
