// Package validation bounds client-supplied payloads before they reach
// the repositories. Limits are configured once at startup.
package validation

import (
	"fmt"
	"strings"

	"cpnotes/pkg/config"
	"cpnotes/pkg/errs"
)

// Limits bounds the mutable payloads clients can submit.
type Limits struct {
	MaxTitleLen     int
	MaxNoteBytes    int64
	MaxCommentBytes int64
	MaxAvatarBytes  int64
}

var limits = Limits{
	MaxTitleLen:     config.DefaultTitleLen,
	MaxNoteBytes:    config.DefaultNoteBytes,
	MaxCommentBytes: config.DefaultCommentBytes,
	MaxAvatarBytes:  config.DefaultAvatarBytes,
}

// SetLimits installs the configured limits, keeping defaults for any
// zero field.
func SetLimits(l Limits) {
	if l.MaxTitleLen > 0 {
		limits.MaxTitleLen = l.MaxTitleLen
	}
	if l.MaxNoteBytes > 0 {
		limits.MaxNoteBytes = l.MaxNoteBytes
	}
	if l.MaxCommentBytes > 0 {
		limits.MaxCommentBytes = l.MaxCommentBytes
	}
	if l.MaxAvatarBytes > 0 {
		limits.MaxAvatarBytes = l.MaxAvatarBytes
	}
}

// ValidateUsername rejects usernames with characters that would collide
// with the persisted key encoding or the upstream platform APIs.
func ValidateUsername(username string) error {
	if username == "" || len(username) > 64 {
		return errs.ErrBadUsername
	}
	for i := 0; i < len(username); i++ {
		c := username[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '-' || c == '.':
		default:
			return errs.ErrBadUsername
		}
	}
	return nil
}

// ValidatePlatform checks the platform path segment.
func ValidatePlatform(platform string) error {
	if platform == "" || strings.ContainsAny(platform, "#@!|/") {
		return errs.New(errs.KindBadInput, "BadPlatform", "Unknown platform!")
	}
	return nil
}

// ValidateNote bounds the note title and content payload.
func ValidateNote(title, content string) error {
	if len(title) > limits.MaxTitleLen {
		return errs.New(errs.KindBadInput, "TitleTooLong",
			fmt.Sprintf("Title must be at most %d characters!", limits.MaxTitleLen))
	}
	if int64(len(content)) > limits.MaxNoteBytes {
		return errs.New(errs.KindBadInput, "NoteTooLarge", "Note content is too large!")
	}
	return nil
}

// ValidateComment bounds a comment body and rejects empty ones.
func ValidateComment(content string) error {
	if strings.TrimSpace(content) == "" {
		return errs.New(errs.KindBadInput, "EmptyComment", "Comment must not be empty!")
	}
	if int64(len(content)) > limits.MaxCommentBytes {
		return errs.New(errs.KindBadInput, "CommentTooLarge", "Comment is too large!")
	}
	return nil
}

// ValidateAvatar bounds the avatar data-URL payload size. Type checking
// happens where the payload is decoded.
func ValidateAvatar(avatarData string) error {
	if int64(len(avatarData)) > limits.MaxAvatarBytes {
		return errs.New(errs.KindBadInput, "AvatarTooLarge", "Avatar image is too large!")
	}
	return nil
}
