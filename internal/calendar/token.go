package calendar

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"booking-service/internal/apperr"
	"booking-service/internal/clock"
)

const (
	// tokenRefreshMargin keeps a token from being handed out right before it expires.
	tokenRefreshMargin = 5 * time.Minute
	defaultTokenLife   = time.Hour
)

// TokenFetcher performs the actual OAuth token exchange.
type TokenFetcher interface {
	Fetch(ctx context.Context) (*oauth2.Token, error)
}

// RefreshFetcher exchanges a long-lived refresh token for an access token.
type RefreshFetcher struct {
	Config       *oauth2.Config
	RefreshToken string
}

// NewRefreshFetcher builds a fetcher against Google's OAuth endpoint.
func NewRefreshFetcher(clientID, clientSecret, refreshToken string) *RefreshFetcher {
	return &RefreshFetcher{
		Config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
		},
		RefreshToken: refreshToken,
	}
}

func (f *RefreshFetcher) Fetch(ctx context.Context) (*oauth2.Token, error) {
	if f.RefreshToken == "" {
		return nil, errors.New("refresh token not configured")
	}
	// A source built from a token with only a refresh token always refreshes.
	src := f.Config.TokenSource(ctx, &oauth2.Token{RefreshToken: f.RefreshToken})
	return src.Token()
}

// TokenCache hands out a bearer token, refreshing it through the fetcher
// when it is missing or close to expiry.
type TokenCache struct {
	Fetcher TokenFetcher
	Clock   clock.Clock

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

func NewTokenCache(f TokenFetcher, c clock.Clock) *TokenCache {
	if c == nil {
		c = clock.System()
	}
	return &TokenCache{Fetcher: f, Clock: c}
}

func (tc *TokenCache) Get(ctx context.Context) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	now := tc.Clock.Now()
	if tc.token != "" && tc.expiresAt.After(now.Add(tokenRefreshMargin)) {
		return tc.token, nil
	}

	tok, err := tc.Fetcher.Fetch(ctx)
	if err != nil {
		return "", apperr.Upstream("OAuth error", err)
	}
	if tok == nil || tok.AccessToken == "" {
		return "", apperr.Upstream("OAuth error", errors.New("no access_token returned by Google"))
	}

	tc.token = tok.AccessToken
	if tok.Expiry.IsZero() {
		tc.expiresAt = now.Add(defaultTokenLife)
	} else {
		tc.expiresAt = tok.Expiry
	}
	return tc.token, nil
}

// Invalidate drops the cached token so the next Get fetches a new one.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	tc.token = ""
	tc.expiresAt = time.Time{}
	tc.mu.Unlock()
}
