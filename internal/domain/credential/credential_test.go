package credential

import (
	"errors"
	"testing"
	"time"
)

func TestNewCredentialValidation(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	from := now
	until := now.Add(4 * time.Hour)

	tests := []struct {
		name    string
		mutate  func(shortID, code, visitor *string, sponsorID, maxEntries *int, locations *[]string, from, until *time.Time)
		wantErr bool
	}{
		{"valid", func(_, _, _ *string, _, _ *int, _ *[]string, _, _ *time.Time) {}, false},
		{"missing short ID", func(s, _, _ *string, _, _ *int, _ *[]string, _, _ *time.Time) { *s = "" }, true},
		{"missing code", func(_, c, _ *string, _, _ *int, _ *[]string, _, _ *time.Time) { *c = "" }, true},
		{"missing name", func(_, _, n *string, _, _ *int, _ *[]string, _, _ *time.Time) { *n = "" }, true},
		{"missing sponsor", func(_, _, _ *string, sp, _ *int, _ *[]string, _, _ *time.Time) { *sp = 0 }, true},
		{"zero max entries", func(_, _, _ *string, _, me *int, _ *[]string, _, _ *time.Time) { *me = 0 }, true},
		{"no locations", func(_, _, _ *string, _, _ *int, l *[]string, _, _ *time.Time) { *l = nil }, true},
		{"inverted window", func(_, _, _ *string, _, _ *int, _ *[]string, f, u *time.Time) { *u = f.Add(-time.Hour) }, true},
		{"empty window", func(_, _, _ *string, _, _ *int, _ *[]string, f, u *time.Time) { *u = *f }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shortID, code, visitor := "xK9mP2vL3nQ4", "AB3K9X", "Maria Souza"
			sponsorID, maxEntries := 1, 2
			locations := []string{"main-gate"}
			f, u := from, until
			tt.mutate(&shortID, &code, &visitor, &sponsorID, &maxEntries, &locations, &f, &u)

			_, err := NewCredential(shortID, code, visitor, "", "", uint(sponsorID), 0, f, u, maxEntries, locations, false)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewCredential error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewCredentialDefaults(t *testing.T) {
	now := time.Now().UTC()
	c, err := NewCredential("xK9mP2vL3nQ4", "AB3K9X", "Maria Souza", "12345678900", "+5511999990000",
		1, 2, now, now.Add(time.Hour), 3, []string{"main-gate", "garage"}, true)
	if err != nil {
		t.Fatalf("NewCredential failed: %v", err)
	}

	if c.CurrentEntries() != 0 {
		t.Errorf("CurrentEntries = %d, want 0", c.CurrentEntries())
	}
	if !c.AutoExpire() {
		t.Error("AutoExpire should default to true")
	}
	if !c.IsActive() {
		t.Error("new credential should be active")
	}
	if c.Version() != 1 {
		t.Errorf("Version = %d, want 1", c.Version())
	}
	if !c.BiometricRequested() {
		t.Error("biometric flag should be carried")
	}
	if c.CleanedUpAt() != nil {
		t.Error("cleanup marker should start unset")
	}
}

func TestRevokeIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	c := testCredential(t, now.Add(-time.Hour), now.Add(time.Hour))

	c.Revoke("admin:7", "visitor left early", now)

	if c.IsActive() {
		t.Fatal("credential should be inactive after revoke")
	}
	if !c.ValidUntil().Equal(now) {
		t.Errorf("ValidUntil = %v, want collapsed to %v", c.ValidUntil(), now)
	}
	versionAfterFirst := c.Version()
	notesAfterFirst := len(c.Notes())

	// Second revoke is a no-op, not an error.
	c.Revoke("admin:7", "again", now.Add(time.Minute))

	if c.Version() != versionAfterFirst {
		t.Errorf("second revoke bumped version to %d, want %d", c.Version(), versionAfterFirst)
	}
	if len(c.Notes()) != notesAfterFirst {
		t.Errorf("second revoke appended a note")
	}
	if !c.ValidUntil().Equal(now) {
		t.Errorf("second revoke moved ValidUntil to %v", c.ValidUntil())
	}
}

func TestExtendUntil(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	until := now.Add(time.Hour)
	c := testCredential(t, now.Add(-time.Hour), until)

	if err := c.ExtendUntil(30*time.Minute, "resident:1", "guest delayed", now); err != nil {
		t.Fatalf("ExtendUntil failed: %v", err)
	}
	if want := until.Add(30 * time.Minute); !c.ValidUntil().Equal(want) {
		t.Errorf("ValidUntil = %v, want %v", c.ValidUntil(), want)
	}
	if !c.ValidFrom().Before(c.ValidUntil()) {
		t.Error("window invariant violated after extension")
	}
	if len(c.Notes()) != 1 {
		t.Fatalf("expected one audit note, got %d", len(c.Notes()))
	}
	if c.Notes()[0].Actor != "resident:1" {
		t.Errorf("note actor = %q", c.Notes()[0].Actor)
	}

	if err := c.ExtendUntil(0, "resident:1", "zero", now); err == nil {
		t.Error("zero extension should be rejected")
	}

	c.Revoke("admin:7", "done", now)
	if err := c.ExtendUntil(time.Hour, "resident:1", "late", now); !errors.Is(err, ErrCredentialRevoked) {
		t.Errorf("extending revoked credential: error = %v, want ErrCredentialRevoked", err)
	}
}

func TestRecordEntry(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

	t.Run("consumes slots up to the quota", func(t *testing.T) {
		c := testCredential(t, now.Add(-time.Hour), now.Add(time.Hour))
		if err := c.RecordEntry(now); err != nil {
			t.Fatalf("first entry: %v", err)
		}
		if c.CurrentEntries() != 1 {
			t.Errorf("CurrentEntries = %d, want 1", c.CurrentEntries())
		}
		if err := c.RecordEntry(now); !errors.Is(err, ErrEntryLimitReached) {
			t.Errorf("over-quota entry: error = %v, want ErrEntryLimitReached", err)
		}
		if c.CurrentEntries() != 1 {
			t.Errorf("denied entry mutated counter to %d", c.CurrentEntries())
		}
	})

	t.Run("rejects outside window", func(t *testing.T) {
		c := testCredential(t, now.Add(time.Hour), now.Add(2*time.Hour))
		if err := c.RecordEntry(now); !errors.Is(err, ErrWindowClosed) {
			t.Errorf("before window: error = %v, want ErrWindowClosed", err)
		}

		c = testCredential(t, now.Add(-2*time.Hour), now.Add(-time.Hour))
		if err := c.RecordEntry(now); !errors.Is(err, ErrWindowClosed) {
			t.Errorf("after window: error = %v, want ErrWindowClosed", err)
		}
	})

	t.Run("rejects revoked", func(t *testing.T) {
		c := testCredential(t, now.Add(-time.Hour), now.Add(time.Hour))
		c.Revoke("admin:7", "incident", now)
		if err := c.RecordEntry(now); !errors.Is(err, ErrCredentialRevoked) {
			t.Errorf("revoked entry: error = %v, want ErrCredentialRevoked", err)
		}
	})
}

func TestMarkCleanedUpIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)
	c := testCredential(t, now.Add(-2*time.Hour), now.Add(-time.Hour))

	c.MarkCleanedUp(now)
	first := c.CleanedUpAt()
	if first == nil {
		t.Fatal("cleanup marker not set")
	}

	c.MarkCleanedUp(now.Add(time.Hour))
	if !c.CleanedUpAt().Equal(*first) {
		t.Error("second MarkCleanedUp moved the marker")
	}
}

func TestReconstructRejectsCounterOutOfRange(t *testing.T) {
	now := time.Now().UTC()
	_, err := ReconstructCredential(
		1, "xK9mP2vL3nQ4", "AB3K9X", "Maria Souza", "", "",
		1, 0, now.Add(-time.Hour), now.Add(time.Hour),
		2, 3, true, []string{"main-gate"}, true, nil, false, nil,
		now, now, 1,
	)
	if err == nil {
		t.Error("ReconstructCredential should reject currentEntries > maxEntries")
	}
}

func TestAuthorizedAt(t *testing.T) {
	now := time.Now().UTC()
	c, err := NewCredential("xK9mP2vL3nQ4", "AB3K9X", "Maria Souza", "", "",
		1, 0, now, now.Add(time.Hour), 1, []string{"main-gate", "garage"}, false)
	if err != nil {
		t.Fatalf("NewCredential failed: %v", err)
	}

	if !c.AuthorizedAt("garage") {
		t.Error("garage should be authorized")
	}
	if c.AuthorizedAt("pool") {
		t.Error("pool should not be authorized")
	}
}
