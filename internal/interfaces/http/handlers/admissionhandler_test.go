package handlers

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portaria/internal/application/credential/dto"
	apptestutil "portaria/internal/application/credential/testutil"
	"portaria/internal/application/credential/usecases"
	"portaria/internal/interfaces/http/handlers/testutil"
)

func newTestAdmissionHandler(t *testing.T) (*AdmissionHandler, *apptestutil.MockCredentialRepository) {
	t.Helper()

	repo := apptestutil.NewMockCredentialRepository()
	log := testutil.NewMockLogger()

	handler := NewAdmissionHandler(
		usecases.NewAttemptAdmissionUseCase(repo, 2*time.Second, log),
		log,
	)
	return handler, repo
}

func TestAdmissionHandler_AttemptAdmission_Granted(t *testing.T) {
	handler, repo := newTestAdmissionHandler(t)
	seedTestCredential(t, repo, "gc_aB3dE5fG7hJ9", "AB3K9X", time.Now().UTC().Add(4*time.Hour))

	req := AttemptAdmissionRequest{Code: "AB3K9X", Direction: "entry", Location: "main-gate"}

	c, w := testutil.NewTestContext(http.MethodPost, "/admission/attempt", req)
	handler.AttemptAdmission(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.True(t, resp.Success)

	var result dto.AdmissionDecisionDTO
	require.NoError(t, jsonUnmarshal(resp.Data, &result))
	assert.Equal(t, "granted", result.Outcome)
	assert.Equal(t, "Maria Souza", result.VisitorName)
	assert.Empty(t, result.DenialReason)
}

func TestAdmissionHandler_AttemptAdmission_UnknownCode(t *testing.T) {
	handler, _ := newTestAdmissionHandler(t)

	req := AttemptAdmissionRequest{Code: "ZZZZZZ", Direction: "entry", Location: "main-gate"}

	c, w := testutil.NewTestContext(http.MethodPost, "/admission/attempt", req)
	handler.AttemptAdmission(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.True(t, resp.Success)

	var result dto.AdmissionDecisionDTO
	require.NoError(t, jsonUnmarshal(resp.Data, &result))
	assert.Equal(t, "denied", result.Outcome)
	assert.Equal(t, "unknown_code", result.DenialReason)
	assert.Empty(t, result.VisitorName)
}

func TestAdmissionHandler_AttemptAdmission_StoreFaultStillAnswers(t *testing.T) {
	handler, repo := newTestAdmissionHandler(t)
	repo.SetFindError(assert.AnError)

	req := AttemptAdmissionRequest{Code: "AB3K9X", Direction: "entry", Location: "main-gate"}

	c, w := testutil.NewTestContext(http.MethodPost, "/admission/attempt", req)
	handler.AttemptAdmission(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	require.True(t, resp.Success)

	var result dto.AdmissionDecisionDTO
	require.NoError(t, jsonUnmarshal(resp.Data, &result))
	assert.Equal(t, "denied", result.Outcome)
	assert.Equal(t, "store_error", result.DenialReason)
}

func TestAdmissionHandler_AttemptAdmission_InvalidBody(t *testing.T) {
	handler, _ := newTestAdmissionHandler(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing code", map[string]any{"direction": "entry", "location": "main-gate"}},
		{"bad direction", map[string]any{"code": "AB3K9X", "direction": "sideways", "location": "main-gate"}},
		{"missing location", map[string]any{"code": "AB3K9X", "direction": "entry"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, w := testutil.NewTestContext(http.MethodPost, "/admission/attempt", tt.body)
			handler.AttemptAdmission(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)

			var resp testutil.APIResponse
			require.NoError(t, testutil.ParseResponse(w, &resp))
			assert.False(t, resp.Success)
		})
	}
}
