package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/signal-verifier/internal/application/verify"
	"github.com/signal-verifier/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHistoryReader struct{ mock.Mock }

func (m *mockHistoryReader) RecentByUser(ctx context.Context, userID string, limit int32) ([]domain.HistoryEntry, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HistoryEntry), args.Error(1)
}

// newSubmitHandler builds a handler over a worker with a single-slot queue and
// no consumer, so tests can observe both the queued and the queue-full paths.
func newSubmitHandler() *VerificationHandler {
	worker := verify.NewWorker(verify.WorkerDeps{QueueSize: 1})
	return NewVerificationHandler(worker, new(mockHistoryReader))
}

func TestVerificationSubmit_Queued(t *testing.T) {
	h := newSubmitHandler()

	body := `{"submitter_id":"u-1","display_name":"Alice","guild_id":"g-1","image_base64":"cG5n"}`
	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/v1/verifications", strings.NewReader(body)))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), "verification queued")
}

func TestVerificationSubmit_InvalidJSON(t *testing.T) {
	h := newSubmitHandler()

	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/v1/verifications", strings.NewReader("{broken")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerificationSubmit_MissingFields(t *testing.T) {
	h := newSubmitHandler()

	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/v1/verifications", strings.NewReader(`{"submitter_id":"u-1"}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerificationSubmit_BadBase64(t *testing.T) {
	h := newSubmitHandler()

	body := `{"submitter_id":"u-1","guild_id":"g-1","image_base64":"not base64!!"}`
	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/v1/verifications", strings.NewReader(body)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerificationSubmit_QueueFull(t *testing.T) {
	h := newSubmitHandler()

	body := `{"submitter_id":"u-1","guild_id":"g-1","image_base64":"cG5n"}`
	rec := httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/v1/verifications", strings.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = httptest.NewRecorder()
	h.Submit(rec, httptest.NewRequest(http.MethodPost, "/v1/verifications", strings.NewReader(body)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestVerificationHistory_ReturnsEntries(t *testing.T) {
	history := new(mockHistoryReader)
	history.On("RecentByUser", mock.Anything, "u-1", int32(10)).
		Return([]domain.HistoryEntry{
			{EntryID: "e-2", UserID: "u-1", Project: "kaito", Score: "1266.88", Tier: "Top Signal"},
			{EntryID: "e-1", UserID: "u-1", Project: "wallchain", Score: "85", Tier: "Signal Amplifier"},
		}, nil)

	h := NewVerificationHandler(verify.NewWorker(verify.WorkerDeps{QueueSize: 1}), history)
	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/users/u-1/history", nil), "userID", "u-1")
	h.History(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "e-2")
	assert.Contains(t, rec.Body.String(), "1266.88")
}

func TestVerificationHistory_CustomLimit(t *testing.T) {
	history := new(mockHistoryReader)
	history.On("RecentByUser", mock.Anything, "u-1", int32(3)).Return([]domain.HistoryEntry{}, nil)

	h := NewVerificationHandler(verify.NewWorker(verify.WorkerDeps{QueueSize: 1}), history)
	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/users/u-1/history?limit=3", nil), "userID", "u-1")
	h.History(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	history.AssertCalled(t, "RecentByUser", mock.Anything, "u-1", int32(3))
}

func TestVerificationHistory_InvalidLimit(t *testing.T) {
	h := NewVerificationHandler(verify.NewWorker(verify.WorkerDeps{QueueSize: 1}), new(mockHistoryReader))
	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/users/u-1/history?limit=0", nil), "userID", "u-1")
	h.History(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerificationHistory_StoreFailure(t *testing.T) {
	history := new(mockHistoryReader)
	history.On("RecentByUser", mock.Anything, "u-1", int32(10)).
		Return(nil, errors.New("query failed"))

	h := NewVerificationHandler(verify.NewWorker(verify.WorkerDeps{QueueSize: 1}), history)
	rec := httptest.NewRecorder()
	req := withURLParam(httptest.NewRequest(http.MethodGet, "/v1/users/u-1/history", nil), "userID", "u-1")
	h.History(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
