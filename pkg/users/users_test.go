package users_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/blob"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/store"
	"cpnotes/pkg/users"
)

const bucket = "cpnotes-cache"

func setup(t *testing.T) *blob.MemoryStore {
	t.Helper()
	require.NoError(t, store.Open(t.TempDir()))
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	auth.Init("test-secret")
	return blob.NewMemoryStore()
}

func token(t *testing.T, username string) string {
	t.Helper()
	tok, err := auth.Sign(username, time.Minute)
	require.NoError(t, err)
	return tok
}

func TestCreateIsIdempotent(t *testing.T) {
	setup(t)

	created, err := users.Create("alice", "alice@example.com")
	require.NoError(t, err)
	require.True(t, created)

	created, err = users.Create("alice", "other@example.com")
	require.NoError(t, err)
	require.False(t, created)
}

func TestContributionAccruesWithoutProfile(t *testing.T) {
	setup(t)

	require.NoError(t, users.ApplyContribution("alice", 8))
	require.NoError(t, users.ApplyContribution("alice", -7))

	n, err := users.GetContribution("alice")
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestGetProfileEmailVisibility(t *testing.T) {
	blobs := setup(t)
	ctx := context.Background()

	_, err := users.Create("alice", "alice@example.com")
	require.NoError(t, err)

	own, err := users.GetProfile(ctx, blobs, bucket, "alice", token(t, "alice"))
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", own.Email)

	// other users and anonymous requesters never see the email
	other, err := users.GetProfile(ctx, blobs, bucket, "alice", token(t, "bob"))
	require.NoError(t, err)
	require.Empty(t, other.Email)

	anon, err := users.GetProfile(ctx, blobs, bucket, "alice", "garbage-token")
	require.NoError(t, err)
	require.Empty(t, anon.Email)

	_, err = users.GetProfile(ctx, blobs, bucket, "nobody", "")
	require.ErrorIs(t, err, errs.ErrUserNotFound)
}

func TestAvatarFallbackAndUpload(t *testing.T) {
	blobs := setup(t)
	ctx := context.Background()

	require.NoError(t, blobs.Put(ctx, bucket, "avatar/!.txt", []byte("default-avatar"), "text/plain"))
	_, err := users.Create("alice", "")
	require.NoError(t, err)

	profile, err := users.GetProfile(ctx, blobs, bucket, "alice", "")
	require.NoError(t, err)
	require.Equal(t, "default-avatar", profile.AvatarData)

	payload := "data:image/png;base64,iVBORw0KGgo="
	require.NoError(t, users.UpdateProfile(ctx, blobs, bucket, "alice", payload, token(t, "alice")))

	profile, err = users.GetProfile(ctx, blobs, bucket, "alice", "")
	require.NoError(t, err)
	require.Equal(t, payload, profile.AvatarData)
}

func TestUpdateProfileRejectsBadPayload(t *testing.T) {
	blobs := setup(t)
	ctx := context.Background()

	err := users.UpdateProfile(ctx, blobs, bucket, "alice", "data:image/gif;base64,AAAA", token(t, "alice"))
	require.ErrorIs(t, err, errs.ErrBadFileType)

	err = users.UpdateProfile(ctx, blobs, bucket, "alice", "data:image/png;base64,AAAA", token(t, "bob"))
	require.ErrorIs(t, err, errs.ErrNotLoggedIn)
}

func TestGetUsersServesCachedPages(t *testing.T) {
	blobs := setup(t)
	ctx := context.Background()

	cached := `[{"username":"alice","contribution":8}]`
	require.NoError(t, blobs.Put(ctx, bucket, "users_1.json", []byte(cached), "application/json"))

	page, err := users.GetUsers(ctx, blobs, bucket, 1)
	require.NoError(t, err)
	require.JSONEq(t, cached, string(page))

	var parsed []map[string]any
	require.NoError(t, json.Unmarshal(page, &parsed))
	require.Len(t, parsed, 1)

	_, err = users.GetUsers(ctx, blobs, bucket, 2)
	require.ErrorIs(t, err, errs.ErrPageNotFound)
}
