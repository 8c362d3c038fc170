// Package testutil provides mock implementations for testing the credential
// application layer.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"portaria/internal/domain/credential"
	"portaria/internal/domain/enrollment"
	"portaria/internal/domain/sponsor"
	"portaria/internal/shared/logger"
)

// MockCredentialRepository is an in-memory implementation of
// credential.Repository for testing. ConsumeEntry serializes on the
// repository lock, which gives it the same one-winner guarantee the SQL
// conditional update gives the real store.
type MockCredentialRepository struct {
	mu             sync.RWMutex
	byID           map[uint]*credential.Credential
	byShortID      map[string]*credential.Credential
	byCode         map[string]*credential.Credential
	events         []*credential.AccessEvent
	condoBySponsor map[uint]uint
	nextID         uint
	nextEventID    uint

	codeAlwaysInUse bool

	// Error injection for testing
	createError      error
	getError         error
	findError        error
	codeInUseError   error
	updateError      error
	consumeError     error
	listActiveError  error
	listExpiredError error
	markError        error
	appendEventError error
	listEventsError  error
}

// NewMockCredentialRepository creates a new mock credential repository.
func NewMockCredentialRepository() *MockCredentialRepository {
	return &MockCredentialRepository{
		byID:           make(map[uint]*credential.Credential),
		byShortID:      make(map[string]*credential.Credential),
		byCode:         make(map[string]*credential.Credential),
		condoBySponsor: make(map[uint]uint),
	}
}

// Create persists a new credential in the mock repository.
func (m *MockCredentialRepository) Create(ctx context.Context, c *credential.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createError != nil {
		return m.createError
	}

	if c.ID() == 0 {
		m.nextID++
		if err := c.SetID(m.nextID); err != nil {
			return err
		}
	}

	m.byID[c.ID()] = c
	m.byShortID[c.ShortID()] = c
	m.byCode[c.Code()] = c
	return nil
}

// GetByID retrieves a credential by internal ID.
func (m *MockCredentialRepository) GetByID(ctx context.Context, id uint) (*credential.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getError != nil {
		return nil, m.getError
	}

	c, ok := m.byID[id]
	if !ok {
		return nil, credential.ErrCredentialNotFound
	}
	return c, nil
}

// GetByShortID retrieves a credential by public identifier.
func (m *MockCredentialRepository) GetByShortID(ctx context.Context, shortID string) (*credential.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.getError != nil {
		return nil, m.getError
	}

	c, ok := m.byShortID[shortID]
	if !ok {
		return nil, credential.ErrCredentialNotFound
	}
	return c, nil
}

// FindByCode retrieves a credential by access code.
func (m *MockCredentialRepository) FindByCode(ctx context.Context, code string) (*credential.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.findError != nil {
		return nil, m.findError
	}

	c, ok := m.byCode[code]
	if !ok {
		return nil, credential.ErrCredentialNotFound
	}
	return c, nil
}

// CodeInUse reports whether an access code is already assigned.
func (m *MockCredentialRepository) CodeInUse(ctx context.Context, code string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.codeInUseError != nil {
		return false, m.codeInUseError
	}
	if m.codeAlwaysInUse {
		return true, nil
	}

	_, ok := m.byCode[code]
	return ok, nil
}

// SetCodeAlwaysInUse makes every uniqueness probe report a collision.
func (m *MockCredentialRepository) SetCodeAlwaysInUse(v bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codeAlwaysInUse = v
}

// Update persists aggregate mutations.
func (m *MockCredentialRepository) Update(ctx context.Context, c *credential.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.updateError != nil {
		return m.updateError
	}

	if _, ok := m.byID[c.ID()]; !ok {
		return credential.ErrCredentialNotFound
	}

	m.byID[c.ID()] = c
	m.byShortID[c.ShortID()] = c
	m.byCode[c.Code()] = c
	return nil
}

// ConsumeEntry atomically consumes one admission slot. The repository lock
// covers both the checks and the increment, so concurrent callers see each
// other's consumption.
func (m *MockCredentialRepository) ConsumeEntry(ctx context.Context, id uint, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.consumeError != nil {
		return false, m.consumeError
	}

	c, ok := m.byID[id]
	if !ok {
		return false, credential.ErrCredentialNotFound
	}

	if err := c.RecordEntry(now); err != nil {
		switch err {
		case credential.ErrCredentialRevoked, credential.ErrWindowClosed, credential.ErrEntryLimitReached:
			return false, nil
		default:
			return false, err
		}
	}
	return true, nil
}

// SetSponsorCondominium records which condominium a sponsor belongs to, for
// ListActiveByCondominium filtering.
func (m *MockCredentialRepository) SetSponsorCondominium(sponsorID, condominiumID uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.condoBySponsor[sponsorID] = condominiumID
}

// ListActiveByCondominium returns live credentials of the condominium's
// sponsors ordered by ascending window end.
func (m *MockCredentialRepository) ListActiveByCondominium(ctx context.Context, condominiumID uint, now time.Time) ([]*credential.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listActiveError != nil {
		return nil, m.listActiveError
	}

	result := make([]*credential.Credential, 0)
	for _, c := range m.byID {
		if m.condoBySponsor[c.SponsorID()] != condominiumID {
			continue
		}
		if !c.IsActive() || !now.Before(c.ValidUntil()) {
			continue
		}
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ValidUntil().Before(result[j].ValidUntil())
	})
	return result, nil
}

// ListExpiredPendingCleanup returns credentials past their window without a
// cleanup marker.
func (m *MockCredentialRepository) ListExpiredPendingCleanup(ctx context.Context, now time.Time, limit int) ([]*credential.Credential, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listExpiredError != nil {
		return nil, m.listExpiredError
	}

	result := make([]*credential.Credential, 0)
	for _, c := range m.byID {
		if !c.IsActive() || now.Before(c.ValidUntil()) || c.CleanedUpAt() != nil {
			continue
		}
		result = append(result, c)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MarkCleanedUp sets the sweep marker.
func (m *MockCredentialRepository) MarkCleanedUp(ctx context.Context, id uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.markError != nil {
		return m.markError
	}

	c, ok := m.byID[id]
	if !ok {
		return credential.ErrCredentialNotFound
	}
	c.MarkCleanedUp(at)
	return nil
}

// AppendAccessEvent records one gate decision.
func (m *MockCredentialRepository) AppendAccessEvent(ctx context.Context, e *credential.AccessEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.appendEventError != nil {
		return m.appendEventError
	}

	if e.ID() == 0 {
		m.nextEventID++
		if err := e.SetID(m.nextEventID); err != nil {
			return err
		}
	}
	m.events = append(m.events, e)
	return nil
}

// ListAccessEvents returns recorded gate decisions for a credential, newest
// first.
func (m *MockCredentialRepository) ListAccessEvents(ctx context.Context, credentialID uint, limit int) ([]*credential.AccessEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.listEventsError != nil {
		return nil, m.listEventsError
	}

	result := make([]*credential.AccessEvent, 0)
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].CredentialID() != credentialID {
			continue
		}
		result = append(result, m.events[i])
		if limit > 0 && len(result) >= limit {
			break
		}
	}
	return result, nil
}

// AllEvents returns every recorded event, oldest first.
func (m *MockCredentialRepository) AllEvents() []*credential.AccessEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*credential.AccessEvent, len(m.events))
	copy(out, m.events)
	return out
}

// SetCreateError sets the error to return on Create calls.
func (m *MockCredentialRepository) SetCreateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createError = err
}

// SetGetError sets the error to return on GetByID and GetByShortID calls.
func (m *MockCredentialRepository) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetFindError sets the error to return on FindByCode calls.
func (m *MockCredentialRepository) SetFindError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.findError = err
}

// SetCodeInUseError sets the error to return on CodeInUse calls.
func (m *MockCredentialRepository) SetCodeInUseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.codeInUseError = err
}

// SetUpdateError sets the error to return on Update calls.
func (m *MockCredentialRepository) SetUpdateError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateError = err
}

// SetConsumeError sets the error to return on ConsumeEntry calls.
func (m *MockCredentialRepository) SetConsumeError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.consumeError = err
}

// SetListExpiredError sets the error to return on ListExpiredPendingCleanup calls.
func (m *MockCredentialRepository) SetListExpiredError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listExpiredError = err
}

// SetMarkError sets the error to return on MarkCleanedUp calls.
func (m *MockCredentialRepository) SetMarkError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markError = err
}

// SetAppendEventError sets the error to return on AppendAccessEvent calls.
func (m *MockCredentialRepository) SetAppendEventError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendEventError = err
}

// MockSponsorDirectory is a mock implementation of sponsor.Directory.
type MockSponsorDirectory struct {
	mu       sync.RWMutex
	sponsors map[uint]*sponsor.Sponsor
	err      error
}

// NewMockSponsorDirectory creates a new mock sponsor directory.
func NewMockSponsorDirectory() *MockSponsorDirectory {
	return &MockSponsorDirectory{
		sponsors: make(map[uint]*sponsor.Sponsor),
	}
}

// AddSponsor registers a sponsor for lookup.
func (m *MockSponsorDirectory) AddSponsor(s *sponsor.Sponsor) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sponsors[s.ID()] = s
}

// GetActiveSponsor returns the sponsor if present and active.
func (m *MockSponsorDirectory) GetActiveSponsor(ctx context.Context, id uint) (*sponsor.Sponsor, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.err != nil {
		return nil, m.err
	}

	s, ok := m.sponsors[id]
	if !ok || !s.IsActive() {
		return nil, sponsor.ErrSponsorNotFound
	}
	return s, nil
}

// SetError sets the error to return on GetActiveSponsor calls.
func (m *MockSponsorDirectory) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// MockEnrollmentCollaborator is a mock implementation of
// enrollment.Collaborator that records the credentials it was asked about.
type MockEnrollmentCollaborator struct {
	mu           sync.RWMutex
	requested    []string
	released     []string
	requestError error
	releaseError error
}

// NewMockEnrollmentCollaborator creates a new mock enrollment collaborator.
func NewMockEnrollmentCollaborator() *MockEnrollmentCollaborator {
	return &MockEnrollmentCollaborator{}
}

// RequestEnrollment records an enrollment request.
func (m *MockEnrollmentCollaborator) RequestEnrollment(ctx context.Context, credentialShortID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.requestError != nil {
		return m.requestError
	}
	m.requested = append(m.requested, credentialShortID)
	return nil
}

// ReleaseEnrollment records an enrollment release.
func (m *MockEnrollmentCollaborator) ReleaseEnrollment(ctx context.Context, credentialShortID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.releaseError != nil {
		return m.releaseError
	}
	m.released = append(m.released, credentialShortID)
	return nil
}

// Requested returns the short IDs enrollment was requested for.
func (m *MockEnrollmentCollaborator) Requested() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.requested))
	copy(out, m.requested)
	return out
}

// Released returns the short IDs enrollment was released for.
func (m *MockEnrollmentCollaborator) Released() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, len(m.released))
	copy(out, m.released)
	return out
}

// SetRequestError sets the error to return on RequestEnrollment calls.
func (m *MockEnrollmentCollaborator) SetRequestError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestError = err
}

// SetReleaseError sets the error to return on ReleaseEnrollment calls.
func (m *MockEnrollmentCollaborator) SetReleaseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releaseError = err
}

// MockLogger is a logger.Interface implementation that records log calls.
type MockLogger struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// LogEntry records a log call.
type LogEntry struct {
	Level   string
	Message string
}

// NewMockLogger creates a new mock logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{entries: make([]LogEntry, 0)}
}

// Debug logs a debug message.
func (m *MockLogger) Debug(msg string, args ...any) { m.log("DEBUG", msg) }

// Info logs an info message.
func (m *MockLogger) Info(msg string, args ...any) { m.log("INFO", msg) }

// Warn logs a warning message.
func (m *MockLogger) Warn(msg string, args ...any) { m.log("WARN", msg) }

// Error logs an error message.
func (m *MockLogger) Error(msg string, args ...any) { m.log("ERROR", msg) }

// With returns a logger with additional fields.
func (m *MockLogger) With(args ...any) logger.Interface { return m }

// Named returns a named logger.
func (m *MockLogger) Named(name string) logger.Interface { return m }

// Debugw logs a debug message with key-value pairs.
func (m *MockLogger) Debugw(msg string, keysAndValues ...interface{}) { m.log("DEBUG", msg) }

// Infow logs an info message with key-value pairs.
func (m *MockLogger) Infow(msg string, keysAndValues ...interface{}) { m.log("INFO", msg) }

// Warnw logs a warning message with key-value pairs.
func (m *MockLogger) Warnw(msg string, keysAndValues ...interface{}) { m.log("WARN", msg) }

// Errorw logs an error message with key-value pairs.
func (m *MockLogger) Errorw(msg string, keysAndValues ...interface{}) { m.log("ERROR", msg) }

// Fatalw logs a fatal message with key-value pairs.
func (m *MockLogger) Fatalw(msg string, keysAndValues ...interface{}) { m.log("FATAL", msg) }

func (m *MockLogger) log(level, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg})
}

// Entries returns a copy of the recorded log entries.
func (m *MockLogger) Entries() []LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]LogEntry, len(m.entries))
	copy(out, m.entries)
	return out
}

var _ credential.Repository = (*MockCredentialRepository)(nil)
var _ sponsor.Directory = (*MockSponsorDirectory)(nil)
var _ enrollment.Collaborator = (*MockEnrollmentCollaborator)(nil)
var _ logger.Interface = (*MockLogger)(nil)
