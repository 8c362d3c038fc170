package usecases

import (
	"context"
	"errors"
	"testing"
	"time"

	"portaria/internal/application/credential/testutil"
	"portaria/internal/domain/sponsor"
	apperrors "portaria/internal/shared/errors"
)

func testPolicy() IssuancePolicy {
	return IssuancePolicy{
		MaxWindowHours: 48,
		MinEntries:     1,
		MaxEntries:     50,
		CodeLength:     6,
		CodeRetryLimit: 10,
	}
}

func testSponsor(t *testing.T) *sponsor.Sponsor {
	t.Helper()
	s, err := sponsor.ReconstructSponsor(1, "sp_xK9mP2vL3nQ4", "Ana Lima", 42, 7, true)
	if err != nil {
		t.Fatalf("ReconstructSponsor failed: %v", err)
	}
	return s
}

func issueSetup(t *testing.T) (*IssueCredentialUseCase, *testutil.MockCredentialRepository, *testutil.MockEnrollmentCollaborator, time.Time) {
	t.Helper()
	repo := testutil.NewMockCredentialRepository()
	sponsors := testutil.NewMockSponsorDirectory()
	sponsors.AddSponsor(testSponsor(t))
	enroller := testutil.NewMockEnrollmentCollaborator()

	uc := NewIssueCredentialUseCase(repo, sponsors, enroller, testPolicy(), testutil.NewMockLogger())
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }
	return uc, repo, enroller, now
}

func validIssueCommand(now time.Time) IssueCredentialCommand {
	return IssueCredentialCommand{
		Name:       "Maria Souza",
		SponsorID:  1,
		ValidFrom:  now,
		ValidUntil: now.Add(4 * time.Hour),
		MaxEntries: 2,
		Locations:  []string{"main-gate"},
	}
}

func TestIssueCredential(t *testing.T) {
	uc, repo, _, now := issueSetup(t)

	result, err := uc.Execute(context.Background(), validIssueCommand(now))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if result.Status != "active" {
		t.Errorf("status = %q, want active", result.Status)
	}
	if len(result.Code) != 6 {
		t.Errorf("code length = %d, want 6", len(result.Code))
	}
	if result.CurrentEntries != 0 {
		t.Errorf("current entries = %d, want 0", result.CurrentEntries)
	}

	stored, err := repo.GetByShortID(context.Background(), result.ID)
	if err != nil {
		t.Fatalf("issued credential not persisted: %v", err)
	}
	if stored.Code() != result.Code {
		t.Errorf("persisted code %q does not match response %q", stored.Code(), result.Code)
	}
}

func TestIssueCredentialWindowTooLong(t *testing.T) {
	uc, _, _, now := issueSetup(t)

	cmd := validIssueCommand(now)
	cmd.ValidUntil = now.Add(49 * time.Hour)

	_, err := uc.Execute(context.Background(), cmd)
	if !apperrors.IsValidationError(err) {
		t.Errorf("49h window: error = %v, want validation error", err)
	}
}

func TestIssueCredentialWindowInPast(t *testing.T) {
	uc, _, _, now := issueSetup(t)

	cmd := validIssueCommand(now)
	cmd.ValidFrom = now.Add(-2 * time.Hour)

	_, err := uc.Execute(context.Background(), cmd)
	if !apperrors.IsValidationError(err) {
		t.Errorf("past start: error = %v, want validation error", err)
	}
}

func TestIssueCredentialEntryBounds(t *testing.T) {
	uc, _, _, now := issueSetup(t)

	for _, entries := range []int{0, 51} {
		cmd := validIssueCommand(now)
		cmd.MaxEntries = entries
		if _, err := uc.Execute(context.Background(), cmd); !apperrors.IsValidationError(err) {
			t.Errorf("max entries %d: error = %v, want validation error", entries, err)
		}
	}
}

func TestIssueCredentialEntryCeiling(t *testing.T) {
	uc, _, _, now := issueSetup(t)

	cmd := validIssueCommand(now)
	cmd.MaxEntries = 50

	result, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Execute failed for max entries 50: %v", err)
	}
	if result.MaxEntries != 50 {
		t.Errorf("max entries = %d, want 50", result.MaxEntries)
	}
}

func TestIssueCredentialUnknownSponsor(t *testing.T) {
	uc, _, _, now := issueSetup(t)

	cmd := validIssueCommand(now)
	cmd.SponsorID = 99

	_, err := uc.Execute(context.Background(), cmd)
	if !apperrors.IsValidationError(err) {
		t.Errorf("unknown sponsor: error = %v, want validation error", err)
	}
}

func TestIssueCredentialInactiveSponsor(t *testing.T) {
	repo := testutil.NewMockCredentialRepository()
	sponsors := testutil.NewMockSponsorDirectory()
	inactive, _ := sponsor.ReconstructSponsor(2, "sp_aaaaaaaaaaaa", "Carlos Dias", 43, 7, false)
	sponsors.AddSponsor(inactive)

	uc := NewIssueCredentialUseCase(repo, sponsors, testutil.NewMockEnrollmentCollaborator(), testPolicy(), testutil.NewMockLogger())
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	cmd := validIssueCommand(now)
	cmd.SponsorID = 2

	if _, err := uc.Execute(context.Background(), cmd); !apperrors.IsValidationError(err) {
		t.Errorf("inactive sponsor: error = %v, want validation error", err)
	}
}

func TestIssueCredentialCodeExhaustion(t *testing.T) {
	uc, repo, _, now := issueSetup(t)

	repo.SetCodeAlwaysInUse(true)
	_, err := uc.Execute(context.Background(), validIssueCommand(now))
	if !apperrors.IsCodeExhaustionError(err) {
		t.Errorf("exhausted retries: error = %v, want code exhaustion", err)
	}
}

func TestIssueCredentialProbeFailure(t *testing.T) {
	uc, repo, _, now := issueSetup(t)

	repo.SetCodeInUseError(errors.New("connection refused"))
	if _, err := uc.Execute(context.Background(), validIssueCommand(now)); err == nil {
		t.Error("probe failure should surface an error")
	}
}

func TestIssueCredentialRequestsEnrollment(t *testing.T) {
	uc, _, enroller, now := issueSetup(t)

	cmd := validIssueCommand(now)
	cmd.Biometric = true

	result, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	// The enrollment call is fire-and-forget; poll briefly.
	deadline := time.After(2 * time.Second)
	for {
		if reqs := enroller.Requested(); len(reqs) == 1 {
			if reqs[0] != result.ID {
				t.Errorf("enrollment requested for %q, want %q", reqs[0], result.ID)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("enrollment request never arrived")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestIssueCredentialEnrollmentFailureDoesNotBlock(t *testing.T) {
	uc, repo, enroller, now := issueSetup(t)
	enroller.SetRequestError(errors.New("enrollment service down"))

	cmd := validIssueCommand(now)
	cmd.Biometric = true

	result, err := uc.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("Execute failed despite collaborator being down: %v", err)
	}

	if _, err := repo.GetByShortID(context.Background(), result.ID); err != nil {
		t.Errorf("credential should be persisted regardless of enrollment: %v", err)
	}
}
