package discord

// Package discord provides the HTTP client for Discord's OAuth2 token
// endpoint and identity API.

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/Axelware/Life-dashboard/internal/domain/auth"
	apperrors "github.com/Axelware/Life-dashboard/internal/errors"
)

// DefaultBaseURL is the Discord API root.
const DefaultBaseURL = "https://discord.com/api"

// Endpoint is Discord's OAuth2 endpoint for the authorization code flow.
var Endpoint = oauth2.Endpoint{
	AuthURL:  "https://discord.com/oauth2/authorize",
	TokenURL: DefaultBaseURL + "/oauth2/token",
}

// Config holds configuration for the Discord client.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scope        string
	BaseURL      string       // Optional, defaults to DefaultBaseURL
	HTTPClient   *http.Client // Optional, defaults to a 30s-timeout client
}

// Client implements the IdentityClient port against the Discord API.
type Client struct {
	cfg        Config
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Discord API client.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSuffix(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{cfg: cfg, baseURL: baseURL, httpClient: httpClient}
}

// OAuth2 returns the oauth2 configuration used by the login flow
// (authorize URL construction and the authorization code exchange).
func (c *Client) OAuth2() *oauth2.Config {
	endpoint := Endpoint
	if c.baseURL != DefaultBaseURL {
		endpoint = oauth2.Endpoint{
			AuthURL:  c.baseURL + "/oauth2/authorize",
			TokenURL: c.baseURL + "/oauth2/token",
		}
	}
	return &oauth2.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		RedirectURL:  c.cfg.RedirectURL,
		Scopes:       strings.Fields(c.cfg.Scope),
		Endpoint:     endpoint,
	}
}

// tokenResponse is the wire shape of Discord's token endpoint reply.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
}

// RefreshToken performs a single refresh_token grant against the token
// endpoint. Discord expects the redirect URI and scope to be resent on
// refresh, which is why this is a hand-built form POST rather than an
// oauth2.TokenSource round-trip.
//
// A non-200 status or an "error" field in the body yields an
// *errors.UpstreamError; no retry is attempted here.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (domainauth.Token, error) {
	form := url.Values{
		"client_id":     {c.cfg.ClientID},
		"client_secret": {c.cfg.ClientSecret},
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
		"redirect_uri":  {c.cfg.RedirectURL},
		"scope":         {c.cfg.Scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return domainauth.Token{}, fmt.Errorf("build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domainauth.Token{}, fmt.Errorf("refresh token: %w", err)
	}
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domainauth.Token{}, fmt.Errorf("read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return domainauth.Token{}, &apperrors.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    "something went wrong while requesting a refreshed access token",
			Body:       string(body),
		}
	}

	var payload tokenResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return domainauth.Token{}, fmt.Errorf("decode token response: %w", err)
	}
	if payload.Error != "" {
		return domainauth.Token{}, &apperrors.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    payload.Error,
			Body:       string(body),
		}
	}

	return domainauth.Token{
		AccessToken:  payload.AccessToken,
		RefreshToken: payload.RefreshToken,
		ExpiresIn:    payload.ExpiresIn,
	}, nil
}

// userResponse is the wire shape of GET /users/@me.
// Discord serializes snowflake IDs as strings.
type userResponse struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	Avatar        *string `json:"avatar"`
}

// CurrentUser fetches the profile of the token's owner.
func (c *Client) CurrentUser(ctx context.Context, accessToken string) (domainauth.User, error) {
	var payload userResponse
	if err := c.getJSON(ctx, "/users/@me", accessToken, &payload); err != nil {
		return domainauth.User{}, err
	}

	id, err := strconv.ParseInt(payload.ID, 10, 64)
	if err != nil {
		return domainauth.User{}, fmt.Errorf("parse user id %q: %w", payload.ID, err)
	}

	user := domainauth.User{
		ID:            id,
		Username:      payload.Username,
		Discriminator: payload.Discriminator,
	}
	if payload.Avatar != nil {
		user.Avatar = *payload.Avatar
	}
	return user, nil
}

// guildResponse is the wire shape of one entry of GET /users/@me/guilds.
type guildResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        *string `json:"icon"`
	Owner       bool    `json:"owner"`
	Permissions string  `json:"permissions"`
}

// CurrentUserGuilds fetches the full guild list of the token's owner,
// preserving the API's ordering.
func (c *Client) CurrentUserGuilds(ctx context.Context, accessToken string) ([]domainauth.Guild, error) {
	var payload []guildResponse
	if err := c.getJSON(ctx, "/users/@me/guilds", accessToken, &payload); err != nil {
		return nil, err
	}

	guilds := make([]domainauth.Guild, 0, len(payload))
	for _, g := range payload {
		id, err := strconv.ParseInt(g.ID, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse guild id %q: %w", g.ID, err)
		}
		guild := domainauth.Guild{
			ID:          id,
			Name:        g.Name,
			Owner:       g.Owner,
			Permissions: g.Permissions,
		}
		if g.Icon != nil {
			guild.Icon = *g.Icon
		}
		guilds = append(guilds, guild)
	}
	return guilds, nil
}

// getJSON performs an authenticated GET against the identity API and
// decodes the response into dst.
func (c *Client) getJSON(ctx context.Context, route, accessToken string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+route, nil)
	if err != nil {
		return fmt.Errorf("build request %s: %w", route, err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", route, err)
	}
	defer closeBody(resp)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response %s: %w", route, err)
	}

	if resp.StatusCode != http.StatusOK {
		return &apperrors.UpstreamError{
			StatusCode: resp.StatusCode,
			Message:    "GET " + route + " failed",
			Body:       string(body),
		}
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response %s: %w", route, err)
	}
	return nil
}

func closeBody(resp *http.Response) {
	if cerr := resp.Body.Close(); cerr != nil {
		// Nothing useful to do with a body close failure.
		_ = cerr
	}
}
