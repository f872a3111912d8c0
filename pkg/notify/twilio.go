package notify

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioNotifier texts the driver's phone number.
type TwilioNotifier struct {
	client     *twilio.RestClient
	fromNumber string
}

func NewTwilioNotifier(accountSID, authToken, fromNumber string) *TwilioNotifier {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &TwilioNotifier{
		client:     client,
		fromNumber: fromNumber,
	}
}

func (t *TwilioNotifier) Name() string {
	return "twilio"
}

func (t *TwilioNotifier) NotifyDriverApproved(ctx context.Context, approval *DriverApproval) error {
	if approval.Phone == "" {
		return ErrNoRecipient
	}

	params := &api.CreateMessageParams{}
	params.SetTo(approval.Phone)
	params.SetFrom(t.fromNumber)
	params.SetBody(approval.message())

	if _, err := t.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("failed to send SMS: %w", err)
	}
	return nil
}
