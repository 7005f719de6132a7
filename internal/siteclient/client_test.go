package siteclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prokizzle/feeling-mindful-website/internal/betasignup"
	"github.com/prokizzle/feeling-mindful-website/internal/deletion"
	"github.com/prokizzle/feeling-mindful-website/internal/form"
)

func TestSubmitBetaSignupSendsIdempotencyKey(t *testing.T) {
	var keys []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, betaSignupPath, r.URL.Path)
		keys = append(keys, r.Header.Get(idempotencyKey))

		var in betasignup.Input
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Ada", in.Name)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(BetaSignupResponse{ID: "01J", App: in.App, Message: "thanks"})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", srv.Client())
	for i := 0; i < 2; i++ {
		resp, err := c.SubmitBetaSignup(context.Background(), betasignup.Input{Name: "Ada", Email: "ada@example.com", App: "simple-rituals"})
		require.NoError(t, err)
		assert.Equal(t, "thanks", resp.Message)
	}

	require.Len(t, keys, 2)
	for _, k := range keys {
		_, err := uuid.Parse(k)
		assert.NoError(t, err)
	}
	assert.NotEqual(t, keys[0], keys[1])
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"email is required","fields":{"email":"email is required"}}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, srv.Client()).SubmitDeletionRequest(context.Background(), deletion.Input{})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "email is required", apiErr.Message)
	assert.Equal(t, map[string]string{"email": "email is required"}, apiErr.Fields)
}

func TestAPIErrorWithoutBody(t *testing.T) {
	doer := DoerFunc(func(*http.Request) (*http.Response, error) {
		rec := httptest.NewRecorder()
		rec.WriteHeader(http.StatusBadGateway)
		return rec.Result(), nil
	})
	_, err := New("http://site", doer).SubmitDeletionRequest(context.Background(), deletion.Input{Email: "a@example.com"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
}

func TestDeletionSessionFailureShowsStaticMessage(t *testing.T) {
	doer := DoerFunc(func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection refused")
	})
	s := New("http://site", doer).NewDeletionSession()
	s.Open()
	require.NoError(t, s.Change("email", "a@example.com"))

	err := s.Submit(context.Background())
	require.ErrorIs(t, err, form.ErrSubmission)
	assert.Equal(t, deletion.FailureMessage, s.State().Error)
	assert.Equal(t, "a@example.com", s.State().Value("email"))
}
