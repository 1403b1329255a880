package token_test

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/go-google-auth/token"
	"github.com/stretchr/testify/require"
)

// compactToken assembles a three-segment JWT around the given payload. The
// signature segment is garbage on purpose: Decode must never look at it.
func compactToken(t *testing.T, payload map[string]any) string {
	t.Helper()
	encoded, err := json.Marshal(payload)
	require.NoError(t, err)

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256","typ":"JWT"}`))
	return header + "." + base64.RawURLEncoding.EncodeToString(encoded) + ".not-a-signature"
}

func TestDecode(t *testing.T) {
	t.Run("extracts claims without checking the signature", func(t *testing.T) {
		raw := compactToken(t, map[string]any{
			"iss":   "https://accounts.google.com",
			"sub":   "123",
			"aud":   "client-id.apps.googleusercontent.com",
			"exp":   1756600000,
			"iat":   1756596400,
			"email": "jane@example.com",
			"name":  "Jane Doe",
			"hd":    "example.com",
		})

		claims, err := token.Decode(raw)
		require.NoError(t, err)
		require.Equal(t, "https://accounts.google.com", claims.Issuer)
		require.Equal(t, "123", claims.Subject)
		require.Equal(t, "client-id.apps.googleusercontent.com", claims.Audience)
		require.Equal(t, int64(1756600000), claims.Expiry)
		require.Equal(t, int64(1756596400), claims.IssuedAt)
		require.Equal(t, "jane@example.com", claims.Email)
		require.Equal(t, "Jane Doe", claims.Name)
		require.Equal(t, "example.com", claims.HostedDomain)
	})

	t.Run("optional claims stay at zero values", func(t *testing.T) {
		claims, err := token.Decode(compactToken(t, map[string]any{"sub": "123"}))
		require.NoError(t, err)
		require.Equal(t, "123", claims.Subject)
		require.Empty(t, claims.Email)
		require.Empty(t, claims.Name)
		require.Nil(t, claims.EmailVerified)
	})

	t.Run("accepts padded base64url payloads", func(t *testing.T) {
		payload := base64.URLEncoding.EncodeToString([]byte(`{"sub":"padded"}`))
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RS256"}`))

		claims, err := token.Decode(header + "." + payload + ".sig")
		require.NoError(t, err)
		require.Equal(t, "padded", claims.Subject)
	})

	t.Run("rejects tokens without three segments", func(t *testing.T) {
		for _, raw := range []string{"", "onesegment", "two.segments", "a.b.c.d"} {
			_, err := token.Decode(raw)
			require.ErrorIs(t, err, token.ErrDecode, "input %q", raw)
		}
	})

	t.Run("rejects a payload that is not base64url", func(t *testing.T) {
		_, err := token.Decode("header.!!!not-base64!!!.sig")
		require.ErrorIs(t, err, token.ErrDecode)
	})

	t.Run("rejects a payload that is not JSON", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte("not json"))
		_, err := token.Decode("header." + payload + ".sig")
		require.ErrorIs(t, err, token.ErrDecode)
	})
}
