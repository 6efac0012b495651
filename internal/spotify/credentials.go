package spotify

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/aharlow/nowbar/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
)

// expirySkew retires access tokens slightly early so a token that expires
// mid-request doesn't surface as an upstream 401.
const expirySkew = 30 * time.Second

// TokenStore persists the credential between process runs.
//
// Implementations must tolerate Load returning (nil, nil) when no snapshot
// has been saved yet.
type TokenStore interface {
	Load(ctx context.Context) (*oauth2.Token, error)
	Save(ctx context.Context, token *oauth2.Token) error
}

// Credentials holds the single live Spotify credential for the process.
//
// The credential is lazily initialized on first use, mutated only by the
// refresh routine, and never exposed to widget clients.
type Credentials struct {
	config     *oauth2.Config
	httpClient *http.Client
	store      TokenStore
	logger     *log.Logger

	mu          sync.Mutex
	token       *oauth2.Token
	initialized bool
	seed        seedToken
}

type seedToken struct {
	accessToken  string
	refreshToken string
	expiry       time.Time
}

// NewCredentials creates a credential manager from the credentials map
// produced by [shared.SpotifyConfig.Map].
//
// The store and logger are optional; a nil store disables persistence.
func NewCredentials(credentials map[string]string, expiry int64, store TokenStore, logger *log.Logger) (*Credentials, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-currently-playing",
			"user-read-recently-played",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	seed := seedToken{
		accessToken:  credentials["access_token"],
		refreshToken: credentials["refresh_token"],
	}
	if expiry > 0 {
		seed.expiry = time.Unix(expiry, 0)
	}

	return &Credentials{
		config:     config,
		httpClient: http.DefaultClient,
		store:      store,
		logger:     logger,
		seed:       seed,
	}, nil
}

// SetHTTPClient overrides the HTTP client used for token exchanges. Used by
// tests to inject a mock transport.
func (c *Credentials) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// OAuthConfig exposes the underlying [oauth2.Config] for the authorization
// code flow run by the auth command.
func (c *Credentials) OAuthConfig() *oauth2.Config {
	return c.config
}

// AuthURL returns the authorization URL for user login.
func (c *Credentials) AuthURL(state string) string {
	return c.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// AccessToken returns a valid bearer token, lazily initializing the
// credential and refreshing it when absent or expired.
func (c *Credentials) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		c.initialize(ctx)
		c.initialized = true
	}

	if c.valid() {
		return c.token.AccessToken, nil
	}

	if err := c.refresh(ctx); err != nil {
		return "", err
	}

	return c.token.AccessToken, nil
}

// Adopt replaces the credential with a token obtained out of band (the
// authorization code flow) and persists it.
func (c *Credentials) Adopt(ctx context.Context, token *oauth2.Token) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.token = token
	c.initialized = true
	c.persist(ctx)
}

// initialize seeds the credential from the token store when a snapshot
// exists, otherwise from configuration. Called with the mutex held.
func (c *Credentials) initialize(ctx context.Context) {
	if c.store != nil {
		if stored, err := c.store.Load(ctx); err != nil {
			c.logger.Warn("failed to load stored token", "error", err)
		} else if stored != nil && stored.RefreshToken != "" {
			c.token = stored
			return
		}
	}

	c.token = &oauth2.Token{
		AccessToken:  c.seed.accessToken,
		RefreshToken: c.seed.refreshToken,
		Expiry:       c.seed.expiry,
	}
}

// valid reports whether the in-memory access token can still be used.
// Called with the mutex held.
func (c *Credentials) valid() bool {
	if c.token == nil || c.token.AccessToken == "" {
		return false
	}
	if c.token.Expiry.IsZero() {
		return false
	}
	return time.Now().Before(c.token.Expiry.Add(-expirySkew))
}

// refresh exchanges the refresh token for a fresh access token, rotating the
// refresh token if Spotify issues a new one. Called with the mutex held.
func (c *Credentials) refresh(ctx context.Context) error {
	if c.token == nil || c.token.RefreshToken == "" {
		return shared.ErrNoRefreshToken
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	fresh, err := c.config.TokenSource(ctx, &oauth2.Token{RefreshToken: c.token.RefreshToken}).Token()
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if fresh.RefreshToken == "" {
		fresh.RefreshToken = c.token.RefreshToken
	} else if fresh.RefreshToken != c.token.RefreshToken {
		c.logger.Info("refresh token rotated by upstream")
	}

	c.token = fresh
	c.persist(ctx)

	return nil
}

// persist writes the credential to the token store, best effort. Called with
// the mutex held.
func (c *Credentials) persist(ctx context.Context) {
	if c.store == nil || c.token == nil {
		return
	}
	if err := c.store.Save(ctx, c.token); err != nil {
		c.logger.Warn("failed to persist token", "error", err)
	}
}
