// Package siteclient calls the form endpoints over HTTP. It is what the
// site's form sessions use to perform their single write.
package siteclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prokizzle/feeling-mindful-website/internal/betasignup"
	"github.com/prokizzle/feeling-mindful-website/internal/deletion"
	"github.com/prokizzle/feeling-mindful-website/internal/form"
	"github.com/prokizzle/feeling-mindful-website/internal/validation"
)

const (
	betaSignupPath = "/api/v1/beta-signups"
	deletionPath   = "/api/v1/data-deletion-requests"
	idempotencyKey = "Idempotency-Key"
	defaultTimeout = 15 * time.Second
)

// Doer sends an HTTP request. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do implements Doer.
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
	// Fields holds per-field messages for a rejected form.
	Fields map[string]string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to one API base URL.
type Client struct {
	baseURL string
	doer    Doer
}

// New builds a client. A nil doer uses an http.Client with a short timeout.
func New(baseURL string, doer Doer) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), doer: doer}
}

// BetaSignupResponse is returned by a successful signup.
type BetaSignupResponse struct {
	ID      string `json:"id"`
	App     string `json:"app"`
	Message string `json:"message"`
}

// DeletionResponse is returned by a successful deletion request.
type DeletionResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// SubmitBetaSignup posts one signup.
func (c *Client) SubmitBetaSignup(ctx context.Context, in betasignup.Input) (BetaSignupResponse, error) {
	var out BetaSignupResponse
	err := c.post(ctx, betaSignupPath, in, &out)
	return out, err
}

// SubmitDeletionRequest posts one deletion request.
func (c *Client) SubmitDeletionRequest(ctx context.Context, in deletion.Input) (DeletionResponse, error) {
	var out DeletionResponse
	err := c.post(ctx, deletionPath, in, &out)
	return out, err
}

// post sends body with a fresh idempotency key, so a call is one logical
// write even if the transport retries it.
func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(idempotencyKey, uuid.NewString())

	resp, err := c.doer.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var e validation.Response
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			apiErr.Message = e.Error
			apiErr.Fields = e.Fields
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// BetaSubmitter adapts the client to a beta signup form for app.
func (c *Client) BetaSubmitter(app string) form.Submitter {
	return form.SubmitterFunc(func(ctx context.Context, values map[string]string) (string, error) {
		resp, err := c.SubmitBetaSignup(ctx, betasignup.Input{
			Name:       values["name"],
			Email:      values["email"],
			Platform:   values["platform"],
			Experience: values["experience"],
			App:        app,
		})
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	})
}

// DeletionSubmitter adapts the client to the data-deletion form.
func (c *Client) DeletionSubmitter() form.Submitter {
	return form.SubmitterFunc(func(ctx context.Context, values map[string]string) (string, error) {
		resp, err := c.SubmitDeletionRequest(ctx, deletion.Input{
			Email:  values["email"],
			Reason: values["reason"],
		})
		if err != nil {
			return "", err
		}
		return resp.Message, nil
	})
}

// NewBetaSession returns a form session for app backed by c.
func (c *Client) NewBetaSession(app string) *form.Session {
	return form.NewSession(form.BetaSignupFields(app), c.BetaSubmitter(app), betasignup.FailureMessage)
}

// NewDeletionSession returns a data-deletion form session backed by c.
func (c *Client) NewDeletionSession() *form.Session {
	return form.NewSession(form.DeletionFields(), c.DeletionSubmitter(), deletion.FailureMessage)
}
