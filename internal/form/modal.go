// Package form models the site's submission forms as a finite-state record.
// A Modal is a plain value; Reduce moves it from one state to the next and
// says when a store write must happen. Session wraps a Modal for use by one
// client at a time.
package form

import (
	"errors"
	"fmt"
	"strings"
)

// Phase is where a form is in its submission lifecycle.
type Phase int

const (
	// Editing accepts changes and a submit.
	Editing Phase = iota
	// Submitting has exactly one write in flight.
	Submitting
	// Success is terminal until the form is closed.
	Success
)

func (p Phase) String() string {
	switch p {
	case Editing:
		return "editing"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

var (
	// ErrRequired reports a submit with required fields left blank.
	ErrRequired = errors.New("required field missing")
	// ErrBusy reports a submit or change while a submission is in flight.
	ErrBusy = errors.New("submission in progress")
	// ErrClosed reports an operation on a form that is not open.
	ErrClosed = errors.New("form is closed")
	// ErrCompleted reports an operation on a form that already succeeded.
	ErrCompleted = errors.New("form already submitted")
	// ErrSubmission is the one failure kind a submitter can produce.
	ErrSubmission = errors.New("submission failed")
	// ErrUnknownField reports a change to a field the form does not have.
	ErrUnknownField = errors.New("unknown field")
)

// Field describes one input.
type Field struct {
	Name     string
	Label    string
	Required bool
	Options  []string
}

// Modal is the complete state of one form instance.
type Modal struct {
	Open           bool
	Phase          Phase
	Values         map[string]string
	Missing        []string
	Error          string
	SuccessMessage string
	Fields         []Field
}

// New returns a closed, empty form with the given fields.
func New(fields []Field) Modal {
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		values[f.Name] = ""
	}
	return Modal{Phase: Editing, Values: values, Fields: fields}
}

// Value returns the current value of field.
func (m Modal) Value(field string) string {
	return m.Values[field]
}

// HasField reports whether name is one of the form's fields.
func (m Modal) HasField(name string) bool {
	for _, f := range m.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// missing lists required fields that are blank.
func (m Modal) missing() []string {
	var out []string
	for _, f := range m.Fields {
		if f.Required && strings.TrimSpace(m.Values[f.Name]) == "" {
			out = append(out, f.Name)
		}
	}
	return out
}

func (m Modal) clone() Modal {
	values := make(map[string]string, len(m.Values))
	for k, v := range m.Values {
		values[k] = v
	}
	m.Values = values
	if m.Missing != nil {
		m.Missing = append([]string(nil), m.Missing...)
	}
	return m
}

// RequiredMessage renders the validation message for missing fields.
func RequiredMessage(fields []string) string {
	return fmt.Sprintf("Please fill in: %s.", strings.Join(fields, ", "))
}
