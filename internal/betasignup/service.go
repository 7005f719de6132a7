package betasignup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/prokizzle/feeling-mindful-website/internal/apps"
	"github.com/prokizzle/feeling-mindful-website/internal/logging"
	"github.com/prokizzle/feeling-mindful-website/internal/metrics"
	"github.com/prokizzle/feeling-mindful-website/internal/notification"
	"github.com/prokizzle/feeling-mindful-website/internal/validation"
)

// FailureMessage is the only error text shown when a signup cannot be saved.
const FailureMessage = "Something went wrong. Please try again."

var (
	// ErrInvalid wraps the validator errors for a rejected signup.
	ErrInvalid = errors.New("invalid beta signup")
	// ErrSubmission reports that the signup could not be stored.
	ErrSubmission = errors.New("beta signup submission failed")
)

// Input is the data collected by the signup form.
type Input struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=320"`
	Platform   string `json:"platform,omitempty" validate:"omitempty,oneof=iOS Android Both"`
	Experience string `json:"experience,omitempty" validate:"omitempty,oneof=new some regular"`
	App        string `json:"app,omitempty" validate:"required,oneof=awareness simple-rituals"`
}

// Service accepts beta signups.
type Service struct {
	repo     Repository
	notifier notification.Notifier
	logger   *slog.Logger
	validate *validator.Validate
}

// NewService builds a signup service. notifier may be nil.
func NewService(repo Repository, notifier notification.Notifier, logger *slog.Logger) *Service {
	v := validation.New()
	v.RegisterStructValidation(requireShownFields, Input{})
	return &Service{repo: repo, notifier: notifier, logger: logger, validate: v}
}

// requireShownFields makes platform and experience mandatory for apps whose
// form shows them.
func requireShownFields(sl validator.StructLevel) {
	in := sl.Current().Interface().(Input)
	cfg, ok := apps.Configs[in.App]
	if !ok {
		return
	}
	if cfg.ShowPlatform && in.Platform == "" {
		sl.ReportError(in.Platform, "platform", "Platform", "required", "")
	}
	if cfg.ShowExperience && in.Experience == "" {
		sl.ReportError(in.Experience, "experience", "Experience", "required", "")
	}
}

// Normalize trims input, applies the default app and maps display labels and
// platform spellings onto their canonical values.
func Normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.App = strings.ToLower(strings.TrimSpace(in.App))
	if in.App == "" {
		in.App = apps.Default
	}
	in.Platform = canonicalPlatform(strings.TrimSpace(in.Platform))
	in.Experience = canonicalExperience(strings.TrimSpace(in.Experience))
	return in
}

func canonicalPlatform(p string) string {
	for _, known := range apps.Platforms {
		if strings.EqualFold(p, known) {
			return known
		}
	}
	return p
}

func canonicalExperience(e string) string {
	for level, label := range apps.ExperienceLabels {
		if strings.EqualFold(e, level) || strings.EqualFold(e, label) {
			return level
		}
	}
	return e
}

// Submit validates in and stores exactly one signup.
func (s *Service) Submit(ctx context.Context, in Input) (Signup, error) {
	in = Normalize(in)
	if cfg, ok := apps.ConfigFor(in.App); ok {
		// hidden fields are never stored, so whatever was sent is dropped
		if !cfg.ShowPlatform {
			in.Platform = ""
		}
		if !cfg.ShowExperience {
			in.Experience = ""
		}
	}
	if err := s.validate.StructCtx(ctx, in); err != nil {
		metrics.FormSubmissions.WithLabelValues(metrics.FormBetaSignup, metrics.OutcomeInvalid).Inc()
		return Signup{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	cfg, _ := apps.ConfigFor(in.App)
	signup := Signup{
		Name:     in.Name,
		Email:    in.Email,
		Platform: apps.DefaultPlatform,
		App:      in.App,
	}
	if cfg.ShowPlatform {
		signup.Platform = in.Platform
	}
	if cfg.ShowExperience {
		experience := in.Experience
		signup.Experience = &experience
	}

	start := time.Now()
	id, err := s.repo.Create(ctx, signup)
	metrics.ObserveWrite(Collection, start)
	if err != nil {
		metrics.FormSubmissions.WithLabelValues(metrics.FormBetaSignup, metrics.OutcomeFailed).Inc()
		s.logger.ErrorContext(ctx, "store beta signup",
			slog.String("collection", Collection),
			slog.String("app", signup.App),
			logging.Email(signup.Email),
			slog.Any("error", err),
		)
		return Signup{}, fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	signup.ID = id
	metrics.FormSubmissions.WithLabelValues(metrics.FormBetaSignup, metrics.OutcomeCreated).Inc()
	s.logger.InfoContext(ctx, "beta signup stored",
		slog.String("id", id),
		slog.String("app", signup.App),
		logging.Email(signup.Email),
	)

	s.notify(ctx, signup)
	return signup, nil
}

func (s *Service) notify(ctx context.Context, signup Signup) {
	if s.notifier == nil {
		return
	}
	msg := notification.Message{
		Kind:    notification.KindBetaSignup,
		Subject: fmt.Sprintf("New %s beta signup", signup.App),
		Body:    fmt.Sprintf("Signup %s for %s on %s.", signup.ID, signup.App, signup.Platform),
	}
	if err := s.notifier.Send(ctx, msg); err != nil {
		metrics.NotificationFailures.WithLabelValues(msg.Kind).Inc()
		s.logger.WarnContext(ctx, "notify beta signup", slog.String("id", signup.ID), slog.Any("error", err))
	}
}
