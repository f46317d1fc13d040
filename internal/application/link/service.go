package link

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"github.com/signal-verifier/internal/domain"
	"github.com/signal-verifier/internal/infrastructure/xoauth"
	"github.com/signal-verifier/internal/pkg/pkce"
	pkgtoken "github.com/signal-verifier/internal/pkg/token"
)

// StartLinkTTL bounds how long a signed start link stays valid. Mirrors the
// pending-store TTL so neither half of the flow outlives the other.
const StartLinkTTL = 10 * time.Minute

// IdentityStore is the persistence surface for linked identities.
type IdentityStore interface {
	Get(ctx context.Context, userID string) (*domain.LinkedIdentity, error)
	Save(ctx context.Context, l *domain.LinkedIdentity) error
	Delete(ctx context.Context, userID string) (bool, error)
}

// PendingStore holds in-flight linking attempts keyed by state token.
type PendingStore interface {
	Put(state, userID, codeVerifier string) error
	Pop(state string) (*domain.PendingLink, error)
}

// Exchanger completes the provider side of the flow: PKCE code exchange and
// profile fetch.
type Exchanger interface {
	AuthorizeURL(state, codeChallenge string) string
	ExchangeCode(ctx context.Context, code, codeVerifier string) (*xoauth.Token, error)
	Me(ctx context.Context, accessToken string) (*xoauth.Profile, error)
}

// Service drives the account-linking flow: signed start links, PKCE
// authorization hand-off, and callback completion.
type Service interface {
	StartURL(userID string) string
	VerifyStartSignature(userID, ts, sig string) error
	BeginAuthorization(ctx context.Context, userID string) (string, error)
	CompleteLink(ctx context.Context, state, code string) (*domain.LinkedIdentity, error)
	Status(ctx context.Context, userID string) (*domain.LinkedIdentity, error)
	Unlink(ctx context.Context, userID string) (bool, error)
}

type ServiceDeps struct {
	Identities    IdentityStore
	Pending       PendingStore
	Exchanger     Exchanger
	LinkSecret    string
	PublicBaseURL string // e.g. https://verifier.example.com
}

type service struct {
	identities    IdentityStore
	pending       PendingStore
	exchanger     Exchanger
	linkSecret    []byte
	publicBaseURL string
	now           func() time.Time
}

func NewService(deps ServiceDeps) Service {
	return &service{
		identities:    deps.Identities,
		pending:       deps.Pending,
		exchanger:     deps.Exchanger,
		linkSecret:    []byte(deps.LinkSecret),
		publicBaseURL: deps.PublicBaseURL,
		now:           time.Now,
	}
}

// StartURL builds the signed link a user follows to begin linking. The HMAC
// over "<user_id>:<unix_ts>" keeps a third party from minting a start link
// for someone else's user id.
func (s *service) StartURL(userID string) string {
	ts := strconv.FormatInt(s.now().Unix(), 10)
	q := url.Values{}
	q.Set("user_id", userID)
	q.Set("ts", ts)
	q.Set("sig", s.sign(userID, ts))
	return s.publicBaseURL + "/x/start?" + q.Encode()
}

// VerifyStartSignature checks the HMAC and rejects stale timestamps.
func (s *service) VerifyStartSignature(userID, ts, sig string) error {
	tsInt, err := strconv.ParseInt(ts, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed timestamp: %w", domain.ErrBadRequest)
	}
	if s.now().Unix()-tsInt > int64(StartLinkTTL.Seconds()) {
		return fmt.Errorf("start link expired: %w", domain.ErrUnauthorized)
	}
	expected := s.sign(userID, ts)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return fmt.Errorf("invalid start link signature: %w", domain.ErrUnauthorized)
	}
	return nil
}

// BeginAuthorization mints a state token and PKCE pair, records the pending
// attempt, and returns the provider authorize URL to redirect the user to.
func (s *service) BeginAuthorization(ctx context.Context, userID string) (string, error) {
	state, err := pkgtoken.NewState()
	if err != nil {
		return "", err
	}
	pair, err := pkce.NewPair()
	if err != nil {
		return "", err
	}
	if err := s.pending.Put(state, userID, pair.Verifier); err != nil {
		return "", fmt.Errorf("store pending link: %w", err)
	}
	return s.exchanger.AuthorizeURL(state, pair.Challenge), nil
}

// CompleteLink consumes the pending state, exchanges the authorization code,
// fetches the profile, and persists the linked identity. Every failure aborts
// the attempt without writing a partial identity; the user restarts with a
// fresh signed link.
func (s *service) CompleteLink(ctx context.Context, state, code string) (*domain.LinkedIdentity, error) {
	entry, err := s.pending.Pop(state)
	if err != nil {
		return nil, fmt.Errorf("unknown or expired state: %w", err)
	}

	tok, err := s.exchanger.ExchangeCode(ctx, code, entry.CodeVerifier)
	if err != nil {
		return nil, err
	}
	profile, err := s.exchanger.Me(ctx, tok.AccessToken)
	if err != nil {
		return nil, err
	}

	linked := &domain.LinkedIdentity{
		UserID:              entry.UserID,
		ExternalUserID:      profile.ID,
		ExternalUsername:    profile.Username,
		ExternalDisplayName: profile.Name,
		Verified:            profile.Verified,
		VerifiedType:        profile.VerifiedType,
		LinkedAt:            s.now().Unix(),
	}
	if err := s.identities.Save(ctx, linked); err != nil {
		return nil, fmt.Errorf("save linked identity: %w", err)
	}
	slog.Info("account linked", "user_id", entry.UserID, "external_username", profile.Username)
	return linked, nil
}

func (s *service) Status(ctx context.Context, userID string) (*domain.LinkedIdentity, error) {
	return s.identities.Get(ctx, userID)
}

func (s *service) Unlink(ctx context.Context, userID string) (bool, error) {
	return s.identities.Delete(ctx, userID)
}

func (s *service) sign(userID, ts string) string {
	mac := hmac.New(sha256.New, s.linkSecret)
	mac.Write([]byte(userID + ":" + ts))
	return hex.EncodeToString(mac.Sum(nil))
}
