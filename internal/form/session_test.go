package form

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const failure = "Something went wrong. Please try again."

// blockingSubmitter holds every write until release is closed.
type blockingSubmitter struct {
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
	err     error
}

func newBlockingSubmitter() *blockingSubmitter {
	return &blockingSubmitter{started: make(chan struct{}, 8), release: make(chan struct{})}
}

func (b *blockingSubmitter) Submit(ctx context.Context, _ map[string]string) (string, error) {
	b.calls.Add(1)
	b.started <- struct{}{}
	select {
	case <-b.release:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	if b.err != nil {
		return "", b.err
	}
	return "thanks", nil
}

func openDeletion(t *testing.T, sub Submitter) *Session {
	t.Helper()
	s := NewSession(DeletionFields(), sub, failure)
	s.Open()
	require.NoError(t, s.Change("email", "user@example.com"))
	return s
}

func TestSessionConcurrentSubmitWritesOnce(t *testing.T) {
	sub := newBlockingSubmitter()
	s := openDeletion(t, sub)

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.Submit(context.Background()) }()
	<-sub.started

	var wg sync.WaitGroup
	errs := make(chan error, 5)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Submit(context.Background())
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.ErrorIs(t, err, ErrBusy)
	}

	assert.False(t, s.Close(), "close must be refused while submitting")
	assert.ErrorIs(t, s.Change("email", "other@example.com"), ErrBusy)

	close(sub.release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, int32(1), sub.calls.Load())

	state := s.State()
	assert.Equal(t, Success, state.Phase)
	assert.Equal(t, "thanks", state.SuccessMessage)
	assert.ErrorIs(t, s.Submit(context.Background()), ErrCompleted)
}

func TestSessionFailureReturnsToEditing(t *testing.T) {
	calls := 0
	sub := SubmitterFunc(func(context.Context, map[string]string) (string, error) {
		calls++
		return "", errors.New("permission-denied: missing or insufficient permissions")
	})
	s := openDeletion(t, sub)
	require.NoError(t, s.Change("reason", "moving on"))

	err := s.Submit(context.Background())
	require.ErrorIs(t, err, ErrSubmission)
	assert.Equal(t, 1, calls)

	state := s.State()
	assert.Equal(t, Editing, state.Phase)
	assert.Equal(t, failure, state.Error)
	assert.Equal(t, "user@example.com", state.Value("email"))
	assert.Equal(t, "moving on", state.Value("reason"))
}

func TestSessionRequiredFieldBlocksWrite(t *testing.T) {
	called := false
	sub := SubmitterFunc(func(context.Context, map[string]string) (string, error) {
		called = true
		return "", nil
	})
	s := NewSession(BetaSignupFields("simple-rituals"), sub, failure)
	s.Open()
	require.NoError(t, s.Change("name", "Ada"))

	err := s.Submit(context.Background())
	require.ErrorIs(t, err, ErrRequired)
	assert.False(t, called)
	assert.Equal(t, []string{"email"}, s.State().Missing)
}

func TestSessionClosedAndUnknownField(t *testing.T) {
	s := NewSession(DeletionFields(), SubmitterFunc(func(context.Context, map[string]string) (string, error) {
		return "", nil
	}), failure)

	assert.ErrorIs(t, s.Change("email", "x@example.com"), ErrClosed)
	assert.ErrorIs(t, s.Submit(context.Background()), ErrClosed)

	s.Open()
	assert.ErrorIs(t, s.Change("phone", "1"), ErrUnknownField)
}

func TestSessionCloseAfterSuccessResets(t *testing.T) {
	s := openDeletion(t, SubmitterFunc(func(context.Context, map[string]string) (string, error) {
		return "ok", nil
	}))
	require.NoError(t, s.Submit(context.Background()))
	require.True(t, s.Close())

	s.Open()
	state := s.State()
	assert.Equal(t, Editing, state.Phase)
	assert.Empty(t, state.SuccessMessage)
	assert.Empty(t, state.Value("email"))
}

func TestSessionStateIsSnapshot(t *testing.T) {
	s := openDeletion(t, SubmitterFunc(func(context.Context, map[string]string) (string, error) {
		return "", nil
	}))
	snap := s.State()
	snap.Values["email"] = "mutated"
	assert.Equal(t, "user@example.com", s.State().Value("email"))
}

func TestSessionRecoversFromPanickingSubmitter(t *testing.T) {
	s := openDeletion(t, SubmitterFunc(func(context.Context, map[string]string) (string, error) {
		panic("transport exploded")
	}))

	assert.Panics(t, func() { _ = s.Submit(context.Background()) })

	state := s.State()
	assert.Equal(t, Editing, state.Phase)
	assert.Equal(t, failure, state.Error)
	assert.Equal(t, "user@example.com", state.Value("email"))
	assert.True(t, s.Close())
}
