package link

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/signal-verifier/internal/domain"
	"github.com/signal-verifier/internal/infrastructure/xoauth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockIdentityStore struct{ mock.Mock }

func (m *mockIdentityStore) Get(ctx context.Context, userID string) (*domain.LinkedIdentity, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkedIdentity), args.Error(1)
}

func (m *mockIdentityStore) Save(ctx context.Context, l *domain.LinkedIdentity) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *mockIdentityStore) Delete(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type mockPendingStore struct{ mock.Mock }

func (m *mockPendingStore) Put(state, userID, codeVerifier string) error {
	args := m.Called(state, userID, codeVerifier)
	return args.Error(0)
}

func (m *mockPendingStore) Pop(state string) (*domain.PendingLink, error) {
	args := m.Called(state)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PendingLink), args.Error(1)
}

type mockExchanger struct{ mock.Mock }

func (m *mockExchanger) AuthorizeURL(state, codeChallenge string) string {
	args := m.Called(state, codeChallenge)
	return args.String(0)
}

func (m *mockExchanger) ExchangeCode(ctx context.Context, code, codeVerifier string) (*xoauth.Token, error) {
	args := m.Called(ctx, code, codeVerifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xoauth.Token), args.Error(1)
}

func (m *mockExchanger) Me(ctx context.Context, accessToken string) (*xoauth.Profile, error) {
	args := m.Called(ctx, accessToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*xoauth.Profile), args.Error(1)
}

func newTestService(ids IdentityStore, pending PendingStore, ex Exchanger) *service {
	return NewService(ServiceDeps{
		Identities:    ids,
		Pending:       pending,
		Exchanger:     ex,
		LinkSecret:    "test-secret",
		PublicBaseURL: "https://verifier.example.com",
	}).(*service)
}

func TestStartURL_RoundTripsThroughVerify(t *testing.T) {
	s := newTestService(nil, nil, nil)

	raw := s.StartURL("u-1")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/x/start", parsed.Path)

	q := parsed.Query()
	assert.Equal(t, "u-1", q.Get("user_id"))
	assert.NoError(t, s.VerifyStartSignature(q.Get("user_id"), q.Get("ts"), q.Get("sig")))
}

func TestVerifyStartSignature_TamperedUserID(t *testing.T) {
	s := newTestService(nil, nil, nil)

	raw := s.StartURL("u-1")
	q, err := url.Parse(raw)
	require.NoError(t, err)

	err = s.VerifyStartSignature("u-2", q.Query().Get("ts"), q.Query().Get("sig"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyStartSignature_ExpiredLink(t *testing.T) {
	s := newTestService(nil, nil, nil)

	ts := strconv.FormatInt(time.Now().Add(-11*time.Minute).Unix(), 10)
	err := s.VerifyStartSignature("u-1", ts, s.sign("u-1", ts))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestVerifyStartSignature_JustInsideTTL(t *testing.T) {
	s := newTestService(nil, nil, nil)
	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	ts := strconv.FormatInt(1_700_000_000-int64(StartLinkTTL.Seconds()), 10)
	assert.NoError(t, s.VerifyStartSignature("u-1", ts, s.sign("u-1", ts)))
}

func TestVerifyStartSignature_MalformedTimestamp(t *testing.T) {
	s := newTestService(nil, nil, nil)
	err := s.VerifyStartSignature("u-1", "yesterday", "deadbeef")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestBeginAuthorization_StoresPendingAndReturnsAuthorizeURL(t *testing.T) {
	pending := new(mockPendingStore)
	ex := new(mockExchanger)

	var storedState, storedVerifier string
	pending.On("Put", mock.Anything, "u-1", mock.Anything).Run(func(args mock.Arguments) {
		storedState = args.String(0)
		storedVerifier = args.String(2)
	}).Return(nil)
	ex.On("AuthorizeURL", mock.Anything, mock.Anything).Return("https://x.com/i/oauth2/authorize?state=abc")

	s := newTestService(nil, pending, ex)
	got, err := s.BeginAuthorization(context.Background(), "u-1")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "https://x.com/i/oauth2/authorize"))
	assert.NotEmpty(t, storedState)
	assert.NotEmpty(t, storedVerifier)
	ex.AssertCalled(t, "AuthorizeURL", storedState, mock.Anything)
}

func TestBeginAuthorization_PendingStoreFailure(t *testing.T) {
	pending := new(mockPendingStore)
	pending.On("Put", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("disk full"))

	s := newTestService(nil, pending, new(mockExchanger))
	_, err := s.BeginAuthorization(context.Background(), "u-1")
	require.Error(t, err)
}

func TestCompleteLink_HappyPath(t *testing.T) {
	ids := new(mockIdentityStore)
	pending := new(mockPendingStore)
	ex := new(mockExchanger)

	pending.On("Pop", "state-1").
		Return(&domain.PendingLink{UserID: "u-1", CodeVerifier: "verifier-1"}, nil)
	ex.On("ExchangeCode", mock.Anything, "code-1", "verifier-1").
		Return(&xoauth.Token{AccessToken: "at-1"}, nil)
	ex.On("Me", mock.Anything, "at-1").
		Return(&xoauth.Profile{ID: "42", Username: "alice", Name: "Alice", VerifiedType: "blue"}, nil)

	var saved *domain.LinkedIdentity
	ids.On("Save", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*domain.LinkedIdentity)
	}).Return(nil)

	s := newTestService(ids, pending, ex)
	s.now = func() time.Time { return time.Unix(1_700_000_000, 0) }

	linked, err := s.CompleteLink(context.Background(), "state-1", "code-1")

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "u-1", linked.UserID)
	assert.Equal(t, "42", linked.ExternalUserID)
	assert.Equal(t, "alice", linked.ExternalUsername)
	assert.Equal(t, "blue", linked.VerifiedType)
	assert.Equal(t, int64(1_700_000_000), linked.LinkedAt)
	assert.Equal(t, linked, saved)
}

func TestCompleteLink_UnknownState(t *testing.T) {
	pending := new(mockPendingStore)
	pending.On("Pop", "state-x").Return(nil, domain.ErrNotFound)

	s := newTestService(new(mockIdentityStore), pending, new(mockExchanger))
	_, err := s.CompleteLink(context.Background(), "state-x", "code-1")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompleteLink_ExchangeFailure_NothingSaved(t *testing.T) {
	ids := new(mockIdentityStore)
	pending := new(mockPendingStore)
	ex := new(mockExchanger)

	pending.On("Pop", "state-1").
		Return(&domain.PendingLink{UserID: "u-1", CodeVerifier: "verifier-1"}, nil)
	ex.On("ExchangeCode", mock.Anything, "code-1", "verifier-1").
		Return(nil, errors.New("provider rejected the code"))

	s := newTestService(ids, pending, ex)
	_, err := s.CompleteLink(context.Background(), "state-1", "code-1")

	require.Error(t, err)
	ids.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestUnlink_ReportsWhetherAnythingWasRemoved(t *testing.T) {
	ids := new(mockIdentityStore)
	ids.On("Delete", mock.Anything, "u-1").Return(true, nil)
	ids.On("Delete", mock.Anything, "u-2").Return(false, nil)

	s := newTestService(ids, nil, nil)

	removed, err := s.Unlink(context.Background(), "u-1")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.Unlink(context.Background(), "u-2")
	require.NoError(t, err)
	assert.False(t, removed)
}
