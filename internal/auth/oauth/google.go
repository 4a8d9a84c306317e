package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	authorizeEndpoint = "https://accounts.google.com/o/oauth2/auth"
	tokenEndpoint     = "https://oauth2.googleapis.com/token"
	userinfoEndpoint  = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// GoogleConfig holds the OAuth configuration for Google authentication.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

// GoogleClient handles OAuth 2.0 authentication with Google. It is the
// identity bridge: it exchanges an authorization code for an access token
// and resolves that token to a Google identity.
type GoogleClient struct {
	config     GoogleConfig
	httpClient *http.Client

	// Endpoint overrides for tests; zero values mean the real Google URLs.
	tokenURL    string
	userinfoURL string
}

// GoogleUser is the external identity record resolved from an access token.
type GoogleUser struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// NewGoogleClient creates a new Google OAuth client with a bounded timeout.
func NewGoogleClient(config GoogleConfig) *GoogleClient {
	return &GoogleClient{
		config: config,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GenerateAuthURL creates the Google authorization URL for initiating the
// OAuth flow. The state parameter should come from GenerateState and must be
// validated on callback.
func (c *GoogleClient) GenerateAuthURL(state string) string {
	params := url.Values{
		"client_id":     {c.config.ClientID},
		"redirect_uri":  {c.config.RedirectURI},
		"scope":         {"openid email profile"},
		"response_type": {"code"},
		"state":         {state},
	}
	return authorizeEndpoint + "?" + params.Encode()
}

// ExchangeCode exchanges an authorization code for an access token. Any
// non-success response is fatal for the login attempt; there is no retry.
func (c *GoogleClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	data := url.Values{
		"client_id":     {c.config.ClientID},
		"client_secret": {c.config.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {c.config.RedirectURI},
	}

	endpoint := c.tokenURL
	if endpoint == "" {
		endpoint = tokenEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		strings.NewReader(data.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		Error       string `json:"error"`
		ErrorDesc   string `json:"error_description"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}

	if tokenResp.Error != "" {
		return "", fmt.Errorf("Google OAuth error: %s - %s", tokenResp.Error, tokenResp.ErrorDesc)
	}

	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("no access token in response")
	}

	return tokenResp.AccessToken, nil
}

// FetchUserProfile resolves the access token to the authenticated user's
// Google identity.
func (c *GoogleClient) FetchUserProfile(ctx context.Context, accessToken string) (*GoogleUser, error) {
	endpoint := c.userinfoURL
	if endpoint == "" {
		endpoint = userinfoEndpoint
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create userinfo request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch user profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to fetch user profile with status %d: %s", resp.StatusCode, string(body))
	}

	var user GoogleUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}

	if user.ID == "" {
		return nil, fmt.Errorf("userinfo response missing id")
	}

	return &user, nil
}

// GenerateState generates a cryptographically secure random state parameter
// for CSRF protection of the OAuth redirect.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random state: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
