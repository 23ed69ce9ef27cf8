// Package users owns user rows (identity, contribution score, avatar
// pointer) and the blob-cached public user listing.
package users

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"cpnotes/pkg/auth"
	"cpnotes/pkg/blob"
	"cpnotes/pkg/errs"
	"cpnotes/pkg/models"
	"cpnotes/pkg/store"
)

const (
	avatarPrefix   = "avatar/"
	userFilePrefix = "users_"

	// defaultAvatarUser is the pseudo-user whose avatar blob is served for
	// accounts that never uploaded one.
	defaultAvatarUser = "!"
)

var allowedAvatarExtensions = []string{"jpg", "jpeg", "png"}

// Create inserts a fresh user row. A second create for the same username
// is a no-op.
func Create(username, email string) (bool, error) {
	rec := store.Record{
		"username":     username,
		"contribution": int64(0),
	}
	if email != "" {
		rec["email"] = email
	}
	return store.InsertIfAbsent(store.UsersTable, rec)
}

// ApplyContribution adds delta to the user's contribution score. The row
// is created from a zero baseline when absent, so scores accrue even if
// the like arrives before the profile write.
func ApplyContribution(username string, delta int64) error {
	_, _, err := store.UpdateAdditive(store.UsersTable, username, "",
		map[string]int64{"contribution": delta}, store.UpdateOptions{})
	return err
}

// GetContribution reads the user's current contribution score.
func GetContribution(username string) (int64, error) {
	rec, err := store.GetItem(store.UsersTable, username, "")
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, errs.ErrUserNotFound
	}
	return rec.Int("contribution"), nil
}

// GetProfile returns the public profile of username. The email attribute
// is only revealed when tokenString authenticates the profile owner; an
// invalid token degrades to the anonymous view instead of failing.
func GetProfile(ctx context.Context, blobs blob.Store, bucket, username, tokenString string) (models.Profile, error) {
	requester, err := auth.Verify(tokenString)
	if err != nil {
		requester = ""
	}

	rec, err := store.GetItem(store.UsersTable, username, "")
	if err != nil {
		return models.Profile{}, err
	}
	if rec == nil {
		return models.Profile{}, errs.ErrUserNotFound
	}

	profile := models.Profile{
		Username:     username,
		Contribution: rec.Int("contribution"),
	}
	if requester == username {
		profile.Email = rec.String("email")
	}

	avatarUser := defaultAvatarUser
	if rec.String("avatarExtension") != "" {
		avatarUser = username
	}
	if data, err := getAvatar(ctx, blobs, bucket, avatarUser); err == nil {
		profile.AvatarData = string(data)
	} else if errs.KindOf(err) != errs.KindNotFound {
		return models.Profile{}, err
	}
	return profile, nil
}

// GetUsers serves one page of the contribution-ranked user listing from
// the blob cache. Pages are rebuilt out of band; a page the rebuild never
// wrote is out of range.
func GetUsers(ctx context.Context, blobs blob.Store, bucket string, page int) (json.RawMessage, error) {
	data, err := blobs.Get(ctx, bucket, userFilePrefix+strconv.Itoa(page)+".json")
	if err != nil {
		if errs.KindOf(err) == errs.KindNotFound {
			return nil, errs.Wrap(errs.ErrPageNotFound, err)
		}
		return nil, err
	}
	if !json.Valid(data) {
		return nil, errs.Internal("users cache page", errs.New(errs.KindBadInput, "BadCachePage", "cached page is not valid JSON"))
	}
	return json.RawMessage(data), nil
}

// UpdateProfile applies profile mutations for username. Only the avatar
// is client-mutable today; identity fields belong to the auth provider.
func UpdateProfile(ctx context.Context, blobs blob.Store, bucket, username, avatarData, tokenString string) error {
	if err := auth.VerifyUser(username, tokenString); err != nil {
		return err
	}
	if avatarData == "" {
		return nil
	}
	return updateAvatar(ctx, blobs, bucket, username, avatarData)
}

// updateAvatar validates the data-URL payload, records the extension on
// the user row, and writes the payload to the blob store.
func updateAvatar(ctx context.Context, blobs blob.Store, bucket, username, avatarData string) error {
	extension := ""
	for _, allowed := range allowedAvatarExtensions {
		if strings.HasPrefix(avatarData, "data:image/"+allowed+";base64,") {
			extension = allowed
			break
		}
	}
	if extension == "" {
		return errs.ErrBadFileType
	}

	_, _, err := store.UpdateSet(store.UsersTable, username, "",
		store.Record{"avatarExtension": extension}, store.UpdateOptions{})
	if err != nil {
		return err
	}
	return blobs.Put(ctx, bucket, avatarPrefix+username+".txt", []byte(avatarData), "text/plain")
}

func getAvatar(ctx context.Context, blobs blob.Store, bucket, username string) ([]byte, error) {
	return blobs.Get(ctx, bucket, avatarPrefix+username+".txt")
}
