package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cpnotes/pkg/errs"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	Init("test-secret")

	tok, err := Sign("alice", time.Minute)
	require.NoError(t, err)

	username, err := Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "alice", username)

	require.NoError(t, VerifyUser("alice", tok))
	require.ErrorIs(t, VerifyUser("bob", tok), errs.ErrNotLoggedIn)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	Init("test-secret")

	_, err := Verify("")
	require.ErrorIs(t, err, errs.ErrNotLoggedIn)

	_, err = Verify("not-a-token")
	require.ErrorIs(t, err, errs.ErrNotLoggedIn)

	expired, err := Sign("alice", -time.Minute)
	require.NoError(t, err)
	_, err = Verify(expired)
	require.ErrorIs(t, err, errs.ErrNotLoggedIn)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	Init("other-secret")
	tok, err := Sign("alice", time.Minute)
	require.NoError(t, err)

	Init("test-secret")
	_, err = Verify(tok)
	require.ErrorIs(t, err, errs.ErrNotLoggedIn)
}
