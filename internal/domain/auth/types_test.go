package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenExpired(t *testing.T) {
	obtained := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	token := Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    3600,
		ObtainedAt:   obtained,
	}

	tests := []struct {
		name    string
		now     time.Time
		margin  time.Duration
		expired bool
	}{
		{
			name:    "fresh token",
			now:     obtained.Add(10 * time.Minute),
			expired: false,
		},
		{
			name:    "just before expiry",
			now:     obtained.Add(3600*time.Second - time.Nanosecond),
			expired: false,
		},
		{
			name:    "exactly at expiry",
			now:     obtained.Add(3600 * time.Second),
			expired: true,
		},
		{
			name:    "past expiry",
			now:     obtained.Add(3700 * time.Second),
			expired: true,
		},
		{
			name:    "margin brings expiry forward",
			now:     obtained.Add(3590 * time.Second),
			margin:  30 * time.Second,
			expired: true,
		},
		{
			name:    "within margin-adjusted lifetime",
			now:     obtained.Add(3560 * time.Second),
			margin:  30 * time.Second,
			expired: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expired, token.Expired(tt.now, tt.margin))
		})
	}
}

func TestUserExpired(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	user := User{ID: 1, Username: "axel", FetchedAt: fetched}

	assert.False(t, user.Expired(fetched.Add(4*time.Minute), 5*time.Minute))
	assert.True(t, user.Expired(fetched.Add(5*time.Minute), 5*time.Minute))
	assert.True(t, user.Expired(fetched.Add(6*time.Minute), 5*time.Minute))
}

func TestGuildExpired(t *testing.T) {
	fetched := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	guild := Guild{ID: 10, Name: "guild", FetchedAt: fetched}

	assert.False(t, guild.Expired(fetched.Add(299*time.Second), 300*time.Second))
	assert.True(t, guild.Expired(fetched.Add(300*time.Second), 300*time.Second))
}

func TestFindGuild(t *testing.T) {
	guilds := []Guild{
		{ID: 1, Name: "first"},
		{ID: 2, Name: "second"},
		{ID: 3, Name: "third"},
	}

	found := FindGuild(guilds, 2)
	require.NotNil(t, found)
	assert.Equal(t, "second", found.Name)

	assert.Nil(t, FindGuild(guilds, 4))
	assert.Nil(t, FindGuild(nil, 1))
}
