package logger

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSafeHeadersRedactsSensitiveValues(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/notes", nil)
	r.Header.Set("Authorization", "Bearer secret-token")
	r.Header.Set("Cookie", "session=abc")
	r.Header.Set("Accept", "application/json")

	got := SafeHeaders(r)
	require.NotContains(t, got, "secret-token")
	require.NotContains(t, got, "session=abc")
	require.Contains(t, got, "Authorization=<redacted>")
	require.Contains(t, got, "Cookie=<redacted>")
	require.Contains(t, got, "Accept=application/json")
}
