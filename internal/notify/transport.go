// Package notify delivers reminder messages. Delivery is fire-and-forget:
// no confirmation is read back and failures are reported, never retried.
package notify

import (
	"context"
	"log"
)

type Transport interface {
	Deliver(ctx context.Context, destination, subject, body string) error
}

// LogTransport stands in when no real transport is configured.
type LogTransport struct{}

func (LogTransport) Deliver(_ context.Context, destination, subject, body string) error {
	log.Printf("[NOTIFY] to=%s subject=%q body=%q", destination, subject, body)
	return nil
}
