// Package enrollment defines the consumed interface to the biometric
// enrollment collaborator. Calls are fire-and-forget from the credential
// lifecycle's point of view: failures are logged, never block or roll back a
// lifecycle operation.
package enrollment

import "context"

// Collaborator manages biometric enrollment resources keyed by credential
// short ID.
type Collaborator interface {
	// RequestEnrollment asks the collaborator to start capture for a freshly
	// issued credential.
	RequestEnrollment(ctx context.Context, credentialShortID string) error

	// ReleaseEnrollment asks the collaborator to delete captured material for
	// a credential whose window closed. Idempotent on the collaborator side.
	ReleaseEnrollment(ctx context.Context, credentialShortID string) error
}
