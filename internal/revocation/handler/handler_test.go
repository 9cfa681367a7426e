package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worldvault/internal/revocation"
)

type stubService struct {
	calls []revocation.RevokeInput
	err   error
}

func (s *stubService) Revoke(_ context.Context, input revocation.RevokeInput) error {
	s.calls = append(s.calls, input)
	return s.err
}

func newTestRouter(t *testing.T, svc *stubService) *chi.Mux {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	New(svc, logger).Register(r)
	return r
}

func postJSON(t *testing.T, router *chi.Mux, path string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleRevoke(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(t, svc)

	w := postJSON(t, router, "/revoke", map[string]any{
		"jti":    "ctok_deadbeef",
		"reason": "user_revoked",
	})

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "revoked", resp["status"])
	assert.Equal(t, "ctok_deadbeef", resp["token_id"])

	require.Len(t, svc.calls, 1)
	assert.Equal(t, "ctok_deadbeef", svc.calls[0].TokenID.String())
	assert.Equal(t, "user_revoked", svc.calls[0].Reason)
}

func TestHandleRevokeDefaultsReason(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(t, svc)

	w := postJSON(t, router, "/revoke", map[string]any{"jti": "ctok_deadbeef"})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.calls, 1)
	assert.Equal(t, "user_revoked", svc.calls[0].Reason)
}

func TestHandleRevokeRejectsBadTokenID(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(t, svc)

	w := postJSON(t, router, "/revoke", map[string]any{"jti": "sess_123"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.calls)
}

func TestHandleWebhook(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(t, svc)

	w := postJSON(t, router, "/webhooks/revocation", map[string]any{
		"event_type":      "CONSENT_REVOKED",
		"subject_did":     "did:wv:user:alice",
		"agent_did":       "did:wv:agent:assistant",
		"jti":             "ctok_deadbeef",
		"reason":          "dashboard revocation",
		"idempotency_key": "evt_1",
	})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, svc.calls, 1)
	input := svc.calls[0]
	assert.Equal(t, "did:wv:user:alice", input.Subject)
	assert.Equal(t, "did:wv:agent:assistant", input.Agent)
	assert.Equal(t, "CONSENT_REVOKED", input.EventType)
	assert.Equal(t, "evt_1", input.IdempotencyKey)
}

func TestHandleWebhookRejectsUnknownEventType(t *testing.T) {
	svc := &stubService{}
	router := newTestRouter(t, svc)

	w := postJSON(t, router, "/webhooks/revocation", map[string]any{
		"event_type": "CONSENT_GRANTED",
		"jti":        "ctok_deadbeef",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, svc.calls)
}
