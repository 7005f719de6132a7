// Package notification delivers best-effort messages about new form
// submissions: confirmation emails to the submitter and alerts to the team.
package notification

import (
	"context"
	"errors"
	"log/slog"

	"github.com/prokizzle/feeling-mindful-website/internal/logging"
)

const (
	// KindBetaSignup announces a new beta tester.
	KindBetaSignup = "beta_signup"
	// KindDeletionRequest announces a new data-deletion request.
	KindDeletionRequest = "data_deletion_request"
	// KindDeletionConfirmation is the email sent to whoever asked for deletion.
	KindDeletionConfirmation = "data_deletion_confirmation"
)

// Message describes a notification payload. Destination is an email address
// for confirmations and is ignored by topic-based notifiers.
type Message struct {
	Kind        string
	Destination string
	Subject     string
	Body        string
}

// Notifier delivers notifications to downstream systems.
type Notifier interface {
	Send(ctx context.Context, message Message) error
}

// LoggerNotifier writes notifications to the structured logger. It is the
// fallback when no AWS region is configured.
type LoggerNotifier struct {
	logger *slog.Logger
}

// NewLoggerNotifier constructs a logging notifier.
func NewLoggerNotifier(logger *slog.Logger) *LoggerNotifier {
	return &LoggerNotifier{logger: logger}
}

// Send writes the message to the structured logger. The destination is
// fingerprinted.
func (n *LoggerNotifier) Send(_ context.Context, message Message) error {
	if n == nil || n.logger == nil {
		return nil
	}
	n.logger.Info("notification",
		slog.String("kind", message.Kind),
		slog.String("destination_fp", logging.Fingerprint(message.Destination)),
		slog.String("subject", message.Subject),
	)
	return nil
}

// Multi sends to every notifier in turn and joins their errors.
type Multi []Notifier

// Send implements Notifier.
func (m Multi) Send(ctx context.Context, message Message) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Send(ctx, message); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Filter passes only messages whose Kind is listed.
func Filter(next Notifier, kinds ...string) Notifier {
	allowed := make(map[string]struct{}, len(kinds))
	for _, k := range kinds {
		allowed[k] = struct{}{}
	}
	return filtered{next: next, kinds: allowed}
}

type filtered struct {
	next  Notifier
	kinds map[string]struct{}
}

func (f filtered) Send(ctx context.Context, message Message) error {
	if _, ok := f.kinds[message.Kind]; !ok {
		return nil
	}
	return f.next.Send(ctx, message)
}
