// Package enrollment provides the HTTP client for the biometric enrollment
// collaborator. The credential lifecycle treats it as best-effort: callers
// log failures and move on, and the expiration sweep retries releases.
package enrollment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	domainEnrollment "portaria/internal/domain/enrollment"
	"portaria/internal/shared/config"
	"portaria/internal/shared/logger"
)

const (
	// Maximum response body size drained for connection reuse (16KB)
	maxResponseDrain = 16 << 10
)

type enrollmentRequest struct {
	CredentialID string `json:"credential_id"`
}

// HTTPCollaborator implements enrollment.Collaborator over the collaborator's
// REST API.
type HTTPCollaborator struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Interface
}

// NewHTTPCollaborator creates a new HTTP enrollment collaborator client
func NewHTTPCollaborator(cfg *config.EnrollmentConfig, logger logger.Interface) *HTTPCollaborator {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPCollaborator{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

var _ domainEnrollment.Collaborator = (*HTTPCollaborator)(nil)

// RequestEnrollment asks the collaborator to start biometric capture for a
// freshly issued credential.
func (c *HTTPCollaborator) RequestEnrollment(ctx context.Context, credentialShortID string) error {
	return c.post(ctx, "/enrollments", credentialShortID)
}

// ReleaseEnrollment asks the collaborator to delete captured material. The
// collaborator treats an unknown credential as already released, so repeated
// calls are safe.
func (c *HTTPCollaborator) ReleaseEnrollment(ctx context.Context, credentialShortID string) error {
	return c.delete(ctx, "/enrollments/"+credentialShortID)
}

func (c *HTTPCollaborator) post(ctx context.Context, path, credentialShortID string) error {
	body, err := json.Marshal(enrollmentRequest{CredentialID: credentialShortID})
	if err != nil {
		return fmt.Errorf("failed to marshal enrollment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build enrollment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *HTTPCollaborator) delete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build enrollment request: %w", err)
	}

	return c.do(req)
}

func (c *HTTPCollaborator) do(req *http.Request) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("enrollment collaborator unreachable: %w", err)
	}
	defer resp.Body.Close()

	// Drain a bounded amount so the connection can be reused
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseDrain))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	// 404 on release means the material is already gone
	if req.Method == http.MethodDelete && resp.StatusCode == http.StatusNotFound {
		return nil
	}

	return fmt.Errorf("enrollment collaborator returned status %d", resp.StatusCode)
}
