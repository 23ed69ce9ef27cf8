package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cpnotes/pkg/config"
	"cpnotes/pkg/errs"
)

func TestValidateUsername(t *testing.T) {
	require.NoError(t, ValidateUsername("alice"))
	require.NoError(t, ValidateUsername("a.b-c_9"))

	for _, bad := range []string{"", "a;b", "a#b", "a b", "a|b", strings.Repeat("x", 65)} {
		require.ErrorIs(t, ValidateUsername(bad), errs.ErrBadUsername, "username %q", bad)
	}
}

func TestValidateComment(t *testing.T) {
	require.NoError(t, ValidateComment("looks right"))
	require.Error(t, ValidateComment("   "))

	SetLimits(Limits{MaxCommentBytes: 8})
	t.Cleanup(func() { SetLimits(Limits{MaxCommentBytes: config.DefaultCommentBytes}) })
	require.Error(t, ValidateComment("way past the limit"))
}

func TestValidateNoteLimits(t *testing.T) {
	SetLimits(Limits{MaxTitleLen: 5, MaxNoteBytes: 10})
	t.Cleanup(func() {
		SetLimits(Limits{MaxTitleLen: config.DefaultTitleLen, MaxNoteBytes: config.DefaultNoteBytes})
	})

	require.NoError(t, ValidateNote("ok", "short"))
	require.Error(t, ValidateNote("toolongtitle", "short"))
	require.Error(t, ValidateNote("ok", "content past limit"))
}
