package notify

import (
	"context"
	"errors"
	"fmt"

	"rideadmin/pkg/logger"
)

// Fanout delivers to every channel in order and keeps going past failures.
type Fanout struct {
	notifiers []Notifier
	logger    *logger.Logger
}

func NewFanout(log *logger.Logger, notifiers ...Notifier) *Fanout {
	return &Fanout{
		notifiers: notifiers,
		logger:    log.WithComponent("notify"),
	}
}

func (f *Fanout) Name() string {
	return "fanout"
}

func (f *Fanout) Channels() []string {
	names := make([]string, 0, len(f.notifiers))
	for _, n := range f.notifiers {
		names = append(names, n.Name())
	}
	return names
}

func (f *Fanout) NotifyDriverApproved(ctx context.Context, approval *DriverApproval) error {
	var errs []error
	for _, n := range f.notifiers {
		err := n.NotifyDriverApproved(ctx, approval)
		switch {
		case err == nil:
			f.logger.WithFields(map[string]interface{}{
				"channel":   n.Name(),
				"driver_id": approval.DriverID,
			}).Debug("Driver approval notification sent")
		case errors.Is(err, ErrNoRecipient):
			f.logger.WithFields(map[string]interface{}{
				"channel":   n.Name(),
				"driver_id": approval.DriverID,
			}).Debug("Driver approval notification skipped")
		default:
			errs = append(errs, fmt.Errorf("%s: %w", n.Name(), err))
		}
	}
	return errors.Join(errs...)
}
