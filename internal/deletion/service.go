package deletion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prokizzle/feeling-mindful-website/internal/logging"
	"github.com/prokizzle/feeling-mindful-website/internal/metrics"
	"github.com/prokizzle/feeling-mindful-website/internal/notification"
	"github.com/prokizzle/feeling-mindful-website/internal/validation"
)

const (
	// FailureMessage is the only error text shown when a request cannot be saved.
	FailureMessage = "Something went wrong. Please try again or contact us directly."
	successFormat  = "We've received your data deletion request for %s. You'll receive a confirmation email shortly."

	confirmationSubject = "We received your data deletion request"
	confirmationBody    = `We've received a request to delete the personal data associated with this email address.

We'll verify the address matches an account in our system and your data will be permanently deleted within 30 days of your request. You'll receive a final confirmation once deletion is complete.

If you didn't make this request, reply to this email and let us know.

Feeling Mindful`
)

var (
	// ErrInvalid wraps the validator errors for a rejected request.
	ErrInvalid = errors.New("invalid deletion request")
	// ErrSubmission reports that the request could not be stored.
	ErrSubmission = errors.New("deletion request submission failed")
)

// Input is the data collected by the deletion form.
type Input struct {
	Email  string `json:"email" validate:"required,email,max=320"`
	Reason string `json:"reason,omitempty" validate:"max=2000"`
}

// SuccessMessage is shown once the request for email is stored.
func SuccessMessage(email string) string {
	return fmt.Sprintf(successFormat, email)
}

// Service accepts data-deletion requests.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService builds a deletion service. notifier may be nil.
func NewService(repo Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger, validate: validation.New()}
}

// Submit validates in and stores exactly one pending request. A blank reason
// is stored as null.
func (s *Service) Submit(ctx context.Context, in Input) (Request, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Reason = strings.TrimSpace(in.Reason)
	if err := s.validate.StructCtx(ctx, in); err != nil {
		metrics.FormSubmissions.WithLabelValues(metrics.FormDeletionRequest, metrics.OutcomeInvalid).Inc()
		return Request{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	req := Request{Email: in.Email, Status: StatusPending}
	if in.Reason != "" {
		reason := in.Reason
		req.Reason = &reason
	}

	start := time.Now()
	id, err := s.repo.Create(ctx, req)
	metrics.ObserveWrite(Collection, start)
	if err != nil {
		metrics.FormSubmissions.WithLabelValues(metrics.FormDeletionRequest, metrics.OutcomeFailed).Inc()
		s.logger.ErrorContext(ctx, "store deletion request",
			slog.String("collection", Collection),
			logging.Email(req.Email),
			slog.Any("error", err),
		)
		return Request{}, fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	req.ID = id
	metrics.FormSubmissions.WithLabelValues(metrics.FormDeletionRequest, metrics.OutcomeCreated).Inc()
	s.logger.InfoContext(ctx, "deletion request stored", slog.String("id", id), logging.Email(req.Email))

	s.notify(ctx, req)
	return req, nil
}

func (s *Service) notify(ctx context.Context, req Request) {
	if s.notifier == nil {
		return
	}
	messages := []notification.Message{
		{
			Kind:        notification.KindDeletionConfirmation,
			Destination: req.Email,
			Subject:     confirmationSubject,
			Body:        confirmationBody,
		},
		{
			Kind:    notification.KindDeletionRequest,
			Subject: "New data deletion request",
			Body:    fmt.Sprintf("Deletion request %s is pending (email fingerprint %s).", req.ID, logging.Fingerprint(req.Email)),
		},
	}
	for _, msg := range messages {
		if err := s.notifier.Send(ctx, msg); err != nil {
			metrics.NotificationFailures.WithLabelValues(msg.Kind).Inc()
			s.logger.WarnContext(ctx, "notify deletion request",
				slog.String("id", req.ID),
				slog.String("kind", msg.Kind),
				slog.Any("error", err),
			)
		}
	}
}
