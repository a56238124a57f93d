package services

import "context"

// Notifier enqueues user-facing notification emails. Implemented by the
// tasks package on top of asynq; services treat delivery as best-effort and
// log enqueue failures instead of failing the operation.
type Notifier interface {
	NotifyOfferDecision(ctx context.Context, recipientEmail, listingName, decision string, price float64) error
	NotifyTrackingUpdate(ctx context.Context, recipientEmail, trackingRef, status, description string) error
}

// NoopNotifier discards all notifications. Used in tests and when the
// background worker is not running.
type NoopNotifier struct{}

func (NoopNotifier) NotifyOfferDecision(ctx context.Context, recipientEmail, listingName, decision string, price float64) error {
	return nil
}

func (NoopNotifier) NotifyTrackingUpdate(ctx context.Context, recipientEmail, trackingRef, status, description string) error {
	return nil
}
