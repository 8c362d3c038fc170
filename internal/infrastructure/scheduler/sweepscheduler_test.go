package scheduler

import (
	"context"
	"testing"
	"time"

	"portaria/internal/application/credential/testutil"
	credentialUsecases "portaria/internal/application/credential/usecases"
	"portaria/internal/domain/credential"
)

func TestSweepSchedulerCleansBacklogOnStart(t *testing.T) {
	repo := testutil.NewMockCredentialRepository()
	enroller := testutil.NewMockEnrollmentCollaborator()
	log := testutil.NewMockLogger()

	now := time.Now().UTC()
	c, err := credential.NewCredential(
		"aaaaaaaaaaaa", "AAAAAA", "Maria Souza", "", "",
		1, 0, now.Add(-2*time.Hour), now.Add(-time.Hour), 1, []string{"main-gate"}, false,
	)
	if err != nil {
		t.Fatalf("NewCredential failed: %v", err)
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	sweepUC := credentialUsecases.NewSweepExpiredCredentialsUseCase(repo, enroller, 100, log)
	s := NewSweepScheduler(sweepUC, time.Hour, log)

	s.Start(context.Background())
	defer s.Stop()

	waitForCleanup(t, repo, "startup sweep never cleaned the backlog")
}

// waitForCleanup polls until the repository reports no pending cleanup work.
// Observing through the repository keeps the test on the same lock the sweep
// goroutine writes under.
func waitForCleanup(t *testing.T, repo *testutil.MockCredentialRepository, msg string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		pending, err := repo.ListExpiredPendingCleanup(context.Background(), time.Now().UTC(), 10)
		if err != nil {
			t.Fatalf("ListExpiredPendingCleanup failed: %v", err)
		}
		if len(pending) == 0 {
			return
		}
		select {
		case <-deadline:
			t.Fatal(msg)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSweepSchedulerStopIsIdempotent(t *testing.T) {
	repo := testutil.NewMockCredentialRepository()
	enroller := testutil.NewMockEnrollmentCollaborator()
	log := testutil.NewMockLogger()

	sweepUC := credentialUsecases.NewSweepExpiredCredentialsUseCase(repo, enroller, 100, log)
	s := NewSweepScheduler(sweepUC, 10*time.Millisecond, log)

	s.Start(context.Background())
	time.Sleep(30 * time.Millisecond)

	s.Stop()
	s.Stop()
}

func TestSweepSchedulerRunsOnTicks(t *testing.T) {
	repo := testutil.NewMockCredentialRepository()
	enroller := testutil.NewMockEnrollmentCollaborator()
	log := testutil.NewMockLogger()

	sweepUC := credentialUsecases.NewSweepExpiredCredentialsUseCase(repo, enroller, 100, log)
	s := NewSweepScheduler(sweepUC, 10*time.Millisecond, log)

	s.Start(context.Background())
	defer s.Stop()

	// Seed an expired credential after the startup pass; a later tick must
	// pick it up.
	time.Sleep(30 * time.Millisecond)
	now := time.Now().UTC()
	c, err := credential.NewCredential(
		"bbbbbbbbbbbb", "BBBBBB", "Maria Souza", "", "",
		1, 0, now.Add(-2*time.Hour), now.Add(-time.Hour), 1, []string{"main-gate"}, false,
	)
	if err != nil {
		t.Fatalf("NewCredential failed: %v", err)
	}
	if err := repo.Create(context.Background(), c); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	waitForCleanup(t, repo, "tick sweep never cleaned the credential")
}
