// Package notify tells drivers their account has been approved. Every channel
// is best-effort: callers log failures and move on.
package notify

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoRecipient is returned by a channel that has no address for the driver.
// Fanout does not treat it as a failure.
var ErrNoRecipient = errors.New("no recipient for channel")

type DriverApproval struct {
	DriverID string `json:"-"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Phone    string `json:"-"`
}

func (a *DriverApproval) message() string {
	name := a.Name
	if name == "" {
		name = "driver"
	}
	return fmt.Sprintf("Hello %s, your driver account has been approved. You can now go online and accept rides.", name)
}

type Notifier interface {
	Name() string
	NotifyDriverApproved(ctx context.Context, approval *DriverApproval) error
}
