package discord

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Axelware/Life-dashboard/internal/errors"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/callback",
		Scope:        "identify guilds",
		BaseURL:      server.URL,
	})
}

func TestClientRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("success resends redirect uri and scope", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/oauth2/token", r.URL.Path)
			require.NoError(t, r.ParseForm())

			assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
			assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))
			assert.Equal(t, "http://localhost:8080/callback", r.PostForm.Get("redirect_uri"))
			assert.Equal(t, "identify guilds", r.PostForm.Get("scope"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"access_token":"new-access","refresh_token":"new-refresh","expires_in":3600}`))
		}))

		token, err := client.RefreshToken(ctx, "old-refresh")
		require.NoError(t, err)
		assert.Equal(t, "new-access", token.AccessToken)
		assert.Equal(t, "new-refresh", token.RefreshToken)
		assert.Equal(t, 3600, token.ExpiresIn)
		assert.True(t, token.ObtainedAt.IsZero())
	})

	t.Run("non-200 yields a definitive upstream error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
		}))

		_, err := client.RefreshToken(ctx, "old-refresh")
		require.Error(t, err)

		var upstream *apperrors.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
		assert.True(t, upstream.Definitive())
	})

	t.Run("error field in a 200 body yields an upstream error", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"error":"invalid_request"}`))
		}))

		_, err := client.RefreshToken(ctx, "old-refresh")
		require.Error(t, err)

		var upstream *apperrors.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, "invalid_request", upstream.Message)
	})

	t.Run("server outage is not definitive", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))

		_, err := client.RefreshToken(ctx, "old-refresh")
		require.Error(t, err)

		var upstream *apperrors.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.False(t, upstream.Definitive())
	})
}

func TestClientCurrentUser(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the snowflake id", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/users/@me", r.URL.Path)
			assert.Equal(t, "Bearer the-token", r.Header.Get("Authorization"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"238356301439041536","username":"axel","discriminator":"0001","avatar":"abc123"}`))
		}))

		user, err := client.CurrentUser(ctx, "the-token")
		require.NoError(t, err)
		assert.Equal(t, int64(238356301439041536), user.ID)
		assert.Equal(t, "axel", user.Username)
		assert.Equal(t, "0001", user.Discriminator)
		assert.Equal(t, "abc123", user.Avatar)
	})

	t.Run("null avatar", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"1","username":"axel","discriminator":"0","avatar":null}`))
		}))

		user, err := client.CurrentUser(ctx, "the-token")
		require.NoError(t, err)
		assert.Empty(t, user.Avatar)
	})

	t.Run("unauthorized", func(t *testing.T) {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))

		_, err := client.CurrentUser(ctx, "bad-token")
		require.Error(t, err)

		var upstream *apperrors.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, http.StatusUnauthorized, upstream.StatusCode)
	})
}

func TestClientCurrentUserGuilds(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/@me/guilds", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"3","name":"gamma","icon":null,"owner":true,"permissions":"2147483647"},
			{"id":"1","name":"alpha","icon":"icon1","owner":false,"permissions":"104324161"}
		]`))
	}))

	guilds, err := client.CurrentUserGuilds(context.Background(), "the-token")
	require.NoError(t, err)
	require.Len(t, guilds, 2)

	// API order is preserved as-is.
	assert.Equal(t, int64(3), guilds[0].ID)
	assert.Equal(t, "gamma", guilds[0].Name)
	assert.True(t, guilds[0].Owner)
	assert.Empty(t, guilds[0].Icon)

	assert.Equal(t, int64(1), guilds[1].ID)
	assert.Equal(t, "icon1", guilds[1].Icon)
	assert.Equal(t, "104324161", guilds[1].Permissions)
}

func TestClientOAuth2(t *testing.T) {
	client := NewClient(Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURL:  "http://localhost:8080/callback",
		Scope:        "identify guilds",
	})

	conf := client.OAuth2()
	assert.Equal(t, "client-id", conf.ClientID)
	assert.Equal(t, []string{"identify", "guilds"}, conf.Scopes)
	assert.Equal(t, Endpoint.AuthURL, conf.Endpoint.AuthURL)

	url := conf.AuthCodeURL("the-state")
	assert.Contains(t, url, "state=the-state")
	assert.Contains(t, url, "client_id=client-id")
}
