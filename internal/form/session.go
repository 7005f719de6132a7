package form

import (
	"context"
	"fmt"
	"sync"
)

// Submitter performs the single write for a submitted form and returns the
// message to show on success.
type Submitter interface {
	Submit(ctx context.Context, values map[string]string) (string, error)
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, values map[string]string) (string, error)

// Submit implements Submitter.
func (f SubmitterFunc) Submit(ctx context.Context, values map[string]string) (string, error) {
	return f(ctx, values)
}

// Session is a Modal shared between goroutines, wired to a Submitter.
type Session struct {
	mu             sync.Mutex
	modal          Modal
	submitter      Submitter
	failureMessage string
}

// NewSession builds a closed session. failureMessage is the only error text
// ever shown after a failed write.
func NewSession(fields []Field, submitter Submitter, failureMessage string) *Session {
	return &Session{modal: New(fields), submitter: submitter, failureMessage: failureMessage}
}

// State returns a snapshot of the form.
func (s *Session) State() Modal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.modal.clone()
}

// Open shows the form.
func (s *Session) Open() {
	s.apply(Opened{})
}

// Close hides and resets the form. It reports false when a submission is in
// flight, in which case nothing changes.
func (s *Session) Close() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modal.Phase == Submitting {
		return false
	}
	s.modal, _ = Reduce(s.modal, Closed{})
	return true
}

// Change sets field to value.
func (s *Session) Change(field, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkEditable(); err != nil {
		return err
	}
	if !s.modal.HasField(field) {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	s.modal, _ = Reduce(s.modal, Changed{Field: field, Value: value})
	return nil
}

// Submit writes the current values through the Submitter. Only one write is
// ever in flight per session; a concurrent call returns ErrBusy without
// reaching the Submitter.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()
	if err := s.checkEditable(); err != nil {
		s.mu.Unlock()
		return err
	}
	next, cmd := Reduce(s.modal, SubmitRequested{})
	s.modal = next
	if cmd == nil {
		missing := next.Missing
		s.mu.Unlock()
		return fmt.Errorf("%w: %v", ErrRequired, missing)
	}
	s.mu.Unlock()

	settled := false
	defer func() {
		// a panicking Submitter still leaves the form editable
		if !settled {
			s.apply(Failed{Message: s.failureMessage})
		}
	}()

	msg, err := s.submitter.Submit(ctx, cmd.Values)
	settled = true
	if err != nil {
		s.apply(Failed{Message: s.failureMessage})
		return fmt.Errorf("%w: %w", ErrSubmission, err)
	}
	s.apply(Succeeded{Message: msg})
	return nil
}

func (s *Session) apply(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.modal, _ = Reduce(s.modal, ev)
}

func (s *Session) checkEditable() error {
	switch {
	case !s.modal.Open:
		return ErrClosed
	case s.modal.Phase == Submitting:
		return ErrBusy
	case s.modal.Phase == Success:
		return ErrCompleted
	}
	return nil
}
