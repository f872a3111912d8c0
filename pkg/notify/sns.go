package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snsTypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// SNSPublisher is the subset of the SNS client used here.
type SNSPublisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes approval events to a topic for downstream consumers.
type SNSNotifier struct {
	client   SNSPublisher
	topicARN string
}

func NewSNSNotifier(ctx context.Context, region, topicARN string) (*SNSNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewSNSNotifierWithClient(sns.NewFromConfig(cfg), topicARN), nil
}

func NewSNSNotifierWithClient(client SNSPublisher, topicARN string) *SNSNotifier {
	return &SNSNotifier{
		client:   client,
		topicARN: topicARN,
	}
}

func (s *SNSNotifier) Name() string {
	return "sns"
}

func (s *SNSNotifier) NotifyDriverApproved(ctx context.Context, approval *DriverApproval) error {
	payload, err := json.Marshal(map[string]string{
		"event":     "driver_approved",
		"driver_id": approval.DriverID,
		"email":     approval.Email,
		"name":      approval.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Subject:  aws.String("Driver approved"),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]snsTypes.MessageAttributeValue{
			"event": {
				DataType:    aws.String("String"),
				StringValue: aws.String("driver_approved"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to publish approval: %w", err)
	}
	return nil
}
