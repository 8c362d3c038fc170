package usecases

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portaria/internal/application/credential/testutil"
	"portaria/internal/domain/credential"
)

func admissionSetup(t *testing.T) (*AttemptAdmissionUseCase, *testutil.MockCredentialRepository, time.Time) {
	t.Helper()
	repo := testutil.NewMockCredentialRepository()
	uc := NewAttemptAdmissionUseCase(repo, 2*time.Second, testutil.NewMockLogger())
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }
	return uc, repo, now
}

func seedCredential(t *testing.T, repo *testutil.MockCredentialRepository, code string, from, until time.Time, maxEntries int, locations []string) *credential.Credential {
	t.Helper()
	c, err := credential.NewCredential(
		"xK9mP2vL3nQ4", code, "Maria Souza", "", "",
		1, 0, from, until, maxEntries, locations, false,
	)
	if err != nil {
		t.Fatalf("NewCredential failed: %v", err)
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	return c
}

func entryCmd(code, location string) AttemptAdmissionCommand {
	return AttemptAdmissionCommand{Code: code, Direction: credential.DirectionEntry, Location: location}
}

func TestAttemptAdmissionGranted(t *testing.T) {
	uc, repo, now := admissionSetup(t)
	c := seedCredential(t, repo, "AB3K9X", now.Add(-time.Hour), now.Add(time.Hour), 2, []string{"main-gate"})

	result, err := uc.Execute(context.Background(), entryCmd("AB3K9X", "main-gate"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Outcome != "granted" {
		t.Fatalf("outcome = %q, want granted", result.Outcome)
	}
	if result.VisitorName != "Maria Souza" {
		t.Errorf("visitor name = %q", result.VisitorName)
	}
	if c.CurrentEntries() != 1 {
		t.Errorf("entry counter = %d, want 1", c.CurrentEntries())
	}

	events := repo.AllEvents()
	if len(events) != 1 {
		t.Fatalf("recorded %d events, want 1", len(events))
	}
	if events[0].Outcome() != credential.OutcomeGranted {
		t.Errorf("event outcome = %s", events[0].Outcome())
	}
}

func TestAttemptAdmissionCodeNormalization(t *testing.T) {
	uc, repo, now := admissionSetup(t)
	seedCredential(t, repo, "AB3K9X", now.Add(-time.Hour), now.Add(time.Hour), 2, []string{"main-gate"})

	result, err := uc.Execute(context.Background(), entryCmd("  ab3k9x ", "main-gate"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Outcome != "granted" {
		t.Errorf("lowercase input should normalize and grant, got %q %q", result.Outcome, result.DenialReason)
	}
}

func TestAttemptAdmissionDenials(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, repo *testutil.MockCredentialRepository, now time.Time) *credential.Credential
		cmd        AttemptAdmissionCommand
		wantReason credential.DenialReason
	}{
		{
			name: "unknown code",
			setup: func(t *testing.T, repo *testutil.MockCredentialRepository, now time.Time) *credential.Credential {
				return nil
			},
			cmd:        entryCmd("ZZZZZZ", "main-gate"),
			wantReason: credential.DenialUnknownCode,
		},
		{
			name: "revoked",
			setup: func(t *testing.T, repo *testutil.MockCredentialRepository, now time.Time) *credential.Credential {
				c := seedCredential(t, repo, "AB3K9X", now.Add(-time.Hour), now.Add(time.Hour), 2, []string{"main-gate"})
				c.Revoke("admin:7", "incident", now.Add(-time.Minute))
				return c
			},
			cmd:        entryCmd("AB3K9X", "main-gate"),
			wantReason: credential.DenialRevoked,
		},
		{
			name: "expired",
			setup: func(t *testing.T, repo *testutil.MockCredentialRepository, now time.Time) *credential.Credential {
				return seedCredential(t, repo, "AB3K9X", now.Add(-2*time.Hour), now.Add(-time.Hour), 2, []string{"main-gate"})
			},
			cmd:        entryCmd("AB3K9X", "main-gate"),
			wantReason: credential.DenialExpired,
		},
		{
			name: "window not open yet",
			setup: func(t *testing.T, repo *testutil.MockCredentialRepository, now time.Time) *credential.Credential {
				return seedCredential(t, repo, "AB3K9X", now.Add(time.Hour), now.Add(2*time.Hour), 2, []string{"main-gate"})
			},
			cmd:        entryCmd("AB3K9X", "main-gate"),
			wantReason: credential.DenialWindowNotOpen,
		},
		{
			name: "location not authorized",
			setup: func(t *testing.T, repo *testutil.MockCredentialRepository, now time.Time) *credential.Credential {
				return seedCredential(t, repo, "AB3K9X", now.Add(-time.Hour), now.Add(time.Hour), 2, []string{"garage"})
			},
			cmd:        entryCmd("AB3K9X", "main-gate"),
			wantReason: credential.DenialLocationNotAuthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, repo, now := admissionSetup(t)
			cred := tt.setup(t, repo, now)

			result, err := uc.Execute(context.Background(), tt.cmd)
			if err != nil {
				t.Fatalf("Execute failed: %v", err)
			}
			if result.Outcome != "denied" {
				t.Fatalf("outcome = %q, want denied", result.Outcome)
			}
			if result.DenialReason != tt.wantReason.String() {
				t.Errorf("denial reason = %q, want %q", result.DenialReason, tt.wantReason)
			}

			events := repo.AllEvents()
			if len(events) != 1 {
				t.Fatalf("recorded %d events, want 1", len(events))
			}
			if events[0].DenialReason() != tt.wantReason {
				t.Errorf("event reason = %q, want %q", events[0].DenialReason(), tt.wantReason)
			}
			if cred != nil && cred.CurrentEntries() != 0 {
				t.Errorf("denied attempt consumed quota: current entries = %d, want 0", cred.CurrentEntries())
			}
		})
	}
}

func TestAttemptAdmissionQuotaExhausted(t *testing.T) {
	uc, repo, now := admissionSetup(t)
	seedCredential(t, repo, "AB3K9X", now.Add(-time.Hour), now.Add(time.Hour), 1, []string{"main-gate"})

	first, err := uc.Execute(context.Background(), entryCmd("AB3K9X", "main-gate"))
	if err != nil || first.Outcome != "granted" {
		t.Fatalf("first attempt: %v %+v", err, first)
	}

	second, err := uc.Execute(context.Background(), entryCmd("AB3K9X", "main-gate"))
	if err != nil {
		t.Fatalf("second attempt failed: %v", err)
	}
	if second.Outcome != "denied" || second.DenialReason != credential.DenialEntryLimitReached.String() {
		t.Errorf("second attempt = %+v, want entry_limit_reached denial", second)
	}
}

func TestAttemptAdmissionConcurrentLastSlot(t *testing.T) {
	uc, repo, now := admissionSetup(t)
	c := seedCredential(t, repo, "AB3K9X", now.Add(-time.Hour), now.Add(time.Hour), 1, []string{"main-gate"})

	const attempts = 8
	results := make([]string, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r, err := uc.Execute(context.Background(), entryCmd("AB3K9X", "main-gate"))
			if err != nil {
				t.Errorf("attempt %d failed: %v", i, err)
				return
			}
			results[i] = r.Outcome
		}(i)
	}
	wg.Wait()

	granted := 0
	for _, outcome := range results {
		if outcome == "granted" {
			granted++
		}
	}
	if granted != 1 {
		t.Errorf("granted %d of %d concurrent attempts for one slot, want exactly 1", granted, attempts)
	}
	if c.CurrentEntries() != 1 {
		t.Errorf("entry counter = %d, want 1", c.CurrentEntries())
	}
}

func TestAttemptAdmissionExitDoesNotConsume(t *testing.T) {
	uc, repo, now := admissionSetup(t)
	c := seedCredential(t, repo, "AB3K9X", now.Add(-time.Hour), now.Add(time.Hour), 1, []string{"main-gate"})

	result, err := uc.Execute(context.Background(), AttemptAdmissionCommand{
		Code:      "AB3K9X",
		Direction: credential.DirectionExit,
		Location:  "main-gate",
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Outcome != "granted" {
		t.Fatalf("exit outcome = %q, want granted", result.Outcome)
	}
	if c.CurrentEntries() != 0 {
		t.Errorf("exit consumed a slot: counter = %d", c.CurrentEntries())
	}
}

func TestAttemptAdmissionFailsClosedOnStoreError(t *testing.T) {
	uc, repo, _ := admissionSetup(t)
	repo.SetFindError(errors.New("connection reset"))

	result, err := uc.Execute(context.Background(), entryCmd("AB3K9X", "main-gate"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Outcome != "denied" || result.DenialReason != credential.DenialStoreError.String() {
		t.Errorf("store fault = %+v, want store_error denial", result)
	}
}

func TestAttemptAdmissionFailsClosedOnTimeout(t *testing.T) {
	uc, repo, _ := admissionSetup(t)
	repo.SetFindError(context.DeadlineExceeded)

	result, err := uc.Execute(context.Background(), entryCmd("AB3K9X", "main-gate"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Outcome != "denied" || result.DenialReason != credential.DenialTimeout.String() {
		t.Errorf("timeout = %+v, want timeout denial", result)
	}
}

func TestAttemptAdmissionRecordsEventEvenWhenConsumeFaults(t *testing.T) {
	uc, repo, now := admissionSetup(t)
	seedCredential(t, repo, "AB3K9X", now.Add(-time.Hour), now.Add(time.Hour), 1, []string{"main-gate"})
	repo.SetConsumeError(errors.New("deadlock"))

	result, err := uc.Execute(context.Background(), entryCmd("AB3K9X", "main-gate"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.DenialReason != credential.DenialStoreError.String() {
		t.Errorf("reason = %q, want store_error", result.DenialReason)
	}
	if len(repo.AllEvents()) != 1 {
		t.Errorf("fault path must still record its event")
	}
}

func TestAttemptAdmissionRejectsMalformedRequests(t *testing.T) {
	uc, _, _ := admissionSetup(t)

	if _, err := uc.Execute(context.Background(), AttemptAdmissionCommand{Code: "AB3K9X", Direction: "sideways", Location: "main-gate"}); err == nil {
		t.Error("invalid direction should be rejected")
	}
	if _, err := uc.Execute(context.Background(), AttemptAdmissionCommand{Code: "AB3K9X", Direction: credential.DirectionEntry}); err == nil {
		t.Error("missing location should be rejected")
	}
	if _, err := uc.Execute(context.Background(), AttemptAdmissionCommand{Code: "   ", Direction: credential.DirectionEntry, Location: "main-gate"}); err == nil {
		t.Error("blank code should be rejected")
	}
}
