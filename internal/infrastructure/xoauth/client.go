package xoauth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/signal-verifier/internal/domain"
)

const (
	defaultAuthorizeURL = "https://x.com/i/oauth2/authorize"
	defaultTokenURL     = "https://api.x.com/2/oauth2/token"
	defaultMeURL        = "https://api.x.com/2/users/me"

	requestTimeout = 15 * time.Second
)

// Token is the provider's token-exchange response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Profile is the authenticated user's profile as returned by /2/users/me.
type Profile struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	Name         string `json:"name"`
	Verified     bool   `json:"verified"`
	VerifiedType string `json:"verified_type"`
}

// Client completes the PKCE authorization-code flow against the X API.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string // empty for public clients
	redirectURI  string
	scopes       string

	authorizeURL string
	tokenURL     string
	meURL        string
}

func NewClient(clientID, clientSecret, redirectURI, scopes string) *Client {
	if scopes == "" {
		scopes = "users.read tweet.read"
	}
	return &Client{
		httpClient:   &http.Client{Timeout: requestTimeout},
		clientID:     clientID,
		clientSecret: clientSecret,
		redirectURI:  redirectURI,
		scopes:       scopes,
		authorizeURL: defaultAuthorizeURL,
		tokenURL:     defaultTokenURL,
		meURL:        defaultMeURL,
	}
}

// AuthorizeURL builds the provider authorization URL for one linking attempt.
func (c *Client) AuthorizeURL(state, codeChallenge string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", c.clientID)
	q.Set("redirect_uri", c.redirectURI)
	q.Set("scope", c.scopes)
	q.Set("state", state)
	q.Set("code_challenge", codeChallenge)
	q.Set("code_challenge_method", "S256")
	return c.authorizeURL + "?" + q.Encode()
}

// ExchangeCode trades an authorization code plus its PKCE verifier for an
// access token. Confidential clients additionally authenticate with Basic
// auth. Any non-2xx status aborts the link attempt; there is no retry.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Token, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("redirect_uri", c.redirectURI)
	form.Set("code_verifier", codeVerifier)
	form.Set("client_id", c.clientID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.clientSecret != "" {
		basic := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
		req.Header.Set("Authorization", "Basic "+basic)
	}

	var tok Token
	if err := c.doJSON(req, &tok); err != nil {
		return nil, fmt.Errorf("token exchange: %w", err)
	}
	if tok.AccessToken == "" {
		return nil, fmt.Errorf("token exchange returned no access token: %w", domain.ErrUnauthorized)
	}
	return &tok, nil
}

// Me fetches the authenticated user's profile with the bearer token.
func (c *Client) Me(ctx context.Context, accessToken string) (*Profile, error) {
	u := c.meURL + "?" + url.Values{
		"user.fields": {"id,username,name,verified,verified_type"},
	}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	var payload struct {
		Data Profile `json:"data"`
	}
	if err := c.doJSON(req, &payload); err != nil {
		return nil, fmt.Errorf("profile fetch: %w", err)
	}
	return &payload.Data, nil
}

func (c *Client) doJSON(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return fmt.Errorf("%s failed (%d): %s", req.URL.Path, resp.StatusCode, body)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
