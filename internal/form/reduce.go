package form

// Event is something that happened to a form.
type Event interface {
	event()
}

// Opened shows the form.
type Opened struct{}

// Closed hides the form and clears it. Ignored while submitting.
type Closed struct{}

// Changed sets one field.
type Changed struct {
	Field string
	Value string
}

// SubmitRequested asks for the current values to be written.
type SubmitRequested struct{}

// Succeeded settles an in-flight write.
type Succeeded struct {
	Message string
}

// Failed settles an in-flight write that did not go through. Message is the
// text to show; it is not derived from the underlying error.
type Failed struct {
	Message string
}

func (Opened) event()          {}
func (Closed) event()          {}
func (Changed) event()         {}
func (SubmitRequested) event() {}
func (Succeeded) event()       {}
func (Failed) event()          {}

// Command is the side effect requested by a transition: write Values once.
type Command struct {
	Values map[string]string
}

// Reduce applies ev to m and returns the next state. A non-nil Command is
// returned only on the Editing to Submitting transition of an open form; the caller must
// perform exactly one write and report back with Succeeded or Failed. m is
// never modified.
func Reduce(m Modal, ev Event) (Modal, *Command) {
	next := m.clone()

	switch e := ev.(type) {
	case Opened:
		next.Open = true

	case Closed:
		if m.Phase == Submitting {
			return next, nil
		}
		return New(m.Fields), nil

	case Changed:
		if !m.Open || m.Phase != Editing || !m.HasField(e.Field) {
			return next, nil
		}
		next.Values[e.Field] = e.Value

	case SubmitRequested:
		if !m.Open || m.Phase != Editing {
			return next, nil
		}
		if missing := m.missing(); len(missing) > 0 {
			next.Missing = missing
			next.Error = RequiredMessage(missing)
			return next, nil
		}
		next.Phase = Submitting
		next.Missing = nil
		next.Error = ""
		cmd := &Command{Values: make(map[string]string, len(m.Values))}
		for k, v := range m.Values {
			cmd.Values[k] = v
		}
		return next, cmd

	case Succeeded:
		if m.Phase != Submitting {
			return next, nil
		}
		next.Phase = Success
		next.SuccessMessage = e.Message

	case Failed:
		if m.Phase != Submitting {
			return next, nil
		}
		next.Phase = Editing
		next.Error = e.Message
	}

	return next, nil
}
