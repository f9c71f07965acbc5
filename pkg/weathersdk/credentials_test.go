package weathersdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCredentialsValid(t *testing.T) {
	t.Parallel()

	require.True(t, Credentials{AccessToken: "a", RefreshToken: "r"}.Valid())
	require.False(t, Credentials{AccessToken: "a"}.Valid(), "lone access token is invalid")
	require.False(t, Credentials{RefreshToken: "r"}.Valid())
	require.False(t, Credentials{}.Valid())
}

func TestJWTExpiryParser(t *testing.T) {
	t.Parallel()

	parser := jwtExpiryParser{}

	t.Run("reads the exp claim", func(t *testing.T) {
		exp := time.Now().Add(90 * time.Minute).Truncate(time.Second)
		got, err := parser.ExpiresAt(makeJWT(t, exp))
		require.NoError(t, err)
		require.True(t, got.Equal(exp))
	})

	t.Run("rejects a non-JWT token", func(t *testing.T) {
		_, err := parser.ExpiresAt("opaque-blob")
		require.Error(t, err)
	})
}

func TestExpiringSoon(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	parser := jwtExpiryParser{}

	tests := map[string]struct {
		exp  time.Time
		want bool
	}{
		"well in the future":      {now.Add(time.Hour), false},
		"just outside the grace":  {now.Add(ExpiryGrace + time.Minute), false},
		"inside the grace window": {now.Add(2 * time.Minute), true},
		"already expired":         {now.Add(-time.Minute), true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got := expiringSoon(parser, makeJWT(t, tc.exp), now)
			require.Equal(t, tc.want, got)
		})
	}

	t.Run("unparseable token counts as expiring", func(t *testing.T) {
		require.True(t, expiringSoon(parser, "opaque-blob", now))
	})
}
