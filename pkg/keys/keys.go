// Package keys encodes the hierarchical identifiers persisted by the
// store: platform -> contest -> problem. Encoded forms are fixed-width and
// compare correctly under plain lexicographic ordering, so range scans over
// a partition walk contests in creation order.
package keys

import (
	"fmt"
	"strings"
	"time"
)

const (
	// FieldSep separates hierarchy levels inside a stored identifier.
	FieldSep = "#"
	// AltSep joins a contest ordinal with its alphanumeric code.
	AltSep = "@"
	// Sentinel is the scope key for global counters and the sort key of
	// singleton rows.
	Sentinel = "!"
	// HighSentinel terminates root-comment sort keys; it sorts after every
	// inverted-timestamp reply suffix.
	HighSentinel = "Z"

	contestIDLength = 8
)

// TimeLayout is the persisted timestamp format. Fixed-width millisecond
// precision keeps lexicographic and chronological ordering identical.
const TimeLayout = "2006-01-02T15:04:05.000Z"

// NowISO returns the current UTC time in the persisted layout.
func NowISO() string {
	return time.Now().UTC().Format(TimeLayout)
}

// InflatePrefixZeroes left-pads s with zeroes to totalLength.
func InflatePrefixZeroes(s string, totalLength int) (string, error) {
	if len(s) > totalLength {
		return "", fmt.Errorf("input string length exceeds total length: %q", s)
	}
	return strings.Repeat("0", totalLength-len(s)) + s, nil
}

// RemovePrefixZeroes strips leading zeroes from s.
func RemovePrefixZeroes(s string) string {
	return strings.TrimLeft(s, "0")
}

// EncodeContestID renders a contest ordinal as a fixed-width sortable key.
// Platforms whose public contest ids are alphanumeric pass the code as
// altCode; it rides along after the ordinal.
func EncodeContestID(ordinal string, altCode string) (string, error) {
	padded, err := InflatePrefixZeroes(ordinal, contestIDLength)
	if err != nil {
		return "", err
	}
	if altCode == "" {
		return padded, nil
	}
	return padded + AltSep + altCode, nil
}

// DecodeContestID is the inverse of EncodeContestID, returning the display
// form: the alphanumeric code when present, else the unpadded ordinal.
func DecodeContestID(key string) string {
	if i := strings.Index(key, AltSep); i >= 0 {
		return key[i+len(AltSep):]
	}
	return RemovePrefixZeroes(key)
}

// ContestOrdinal returns the unpadded numeric ordinal of an encoded key.
func ContestOrdinal(key string) string {
	if i := strings.Index(key, AltSep); i >= 0 {
		key = key[:i]
	}
	return RemovePrefixZeroes(key)
}

// InflateContestID converts a client-facing contest id ("1500",
// "123@abc123") to the stored fixed-width key.
func InflateContestID(contestID string) (string, error) {
	ordinal, alt := contestID, ""
	if j := strings.Index(contestID, AltSep); j >= 0 {
		ordinal, alt = contestID[:j], contestID[j+len(AltSep):]
	}
	return EncodeContestID(ordinal, alt)
}

// EncodeProblemID composes a stored problem id from an encoded contest key
// and a problem code.
func EncodeProblemID(contestKey, problemCode string) string {
	return contestKey + FieldSep + problemCode
}

// InflateProblemID converts a client-facing problem id
// ("1500#A", "123@abc123#A") to the stored fixed-width form.
func InflateProblemID(problemID string) (string, error) {
	i := strings.Index(problemID, FieldSep)
	if i < 0 {
		return "", fmt.Errorf("malformed problem id: %q", problemID)
	}
	contestPart, problemCode := problemID[:i], problemID[i+len(FieldSep):]
	if problemCode == "" {
		return "", fmt.Errorf("malformed problem id: %q", problemID)
	}
	ordinal, alt := contestPart, ""
	if j := strings.Index(contestPart, AltSep); j >= 0 {
		ordinal, alt = contestPart[:j], contestPart[j+len(AltSep):]
	}
	contestKey, err := EncodeContestID(ordinal, alt)
	if err != nil {
		return "", err
	}
	return EncodeProblemID(contestKey, problemCode), nil
}

// DeflateProblemID converts a stored problem id back to its display form.
func DeflateProblemID(dbProblemID string) string {
	i := strings.Index(dbProblemID, FieldSep)
	if i < 0 {
		return RemovePrefixZeroes(dbProblemID)
	}
	contestKey, problemCode := dbProblemID[:i], dbProblemID[i+len(FieldSep):]
	if j := strings.Index(contestKey, AltSep); j >= 0 {
		return RemovePrefixZeroes(contestKey[:j]) + AltSep + contestKey[j+len(AltSep):] +
			FieldSep + problemCode
	}
	return RemovePrefixZeroes(contestKey) + FieldSep + problemCode
}

// NoteID is the note sort key and counter scope id: platform#problemId
// with the problem id already in stored form.
func NoteID(platform, dbProblemID string) string {
	return platform + FieldSep + dbProblemID
}

// LikeTarget is the like-ledger partition for a note.
func LikeTarget(noteAuthor, platform, dbProblemID string) string {
	return "NOTE" + FieldSep + noteAuthor + FieldSep + platform + FieldSep + dbProblemID + FieldSep + "LIKE"
}

// ThreadPartition is the comment-thread partition for a note.
func ThreadPartition(noteAuthor, platform, dbProblemID string) string {
	return "NOTE" + FieldSep + noteAuthor + FieldSep + platform + FieldSep + dbProblemID
}

// PublishedPrefix renders the boolean-as-integer published flag that
// prefixes every secondary-index partition key, separating published from
// unpublished items.
func PublishedPrefix(published bool) string {
	if published {
		return "1"
	}
	return "0"
}

// IndexPartition prefixes a scope key with the published flag.
func IndexPartition(published bool, scope string) string {
	if scope == "" {
		return PublishedPrefix(published)
	}
	return PublishedPrefix(published) + FieldSep + scope
}

// Invert maps each character to chr(0x5A - c), so that ascending string
// order over the result equals descending chronological order. Only valid
// for strings whose characters do not exceed 'Z' (ISO-8601 timestamps).
func Invert(s string) string {
	b := []byte(s)
	out := make([]byte, len(b))
	for i, c := range b {
		out[i] = byte(0x5A - int(c))
	}
	return string(out)
}

// HierarchyScopes expands a scope id into itself plus every #-truncated
// prefix, ending with the global sentinel. The loop is bounded by the
// number of separators in the id.
func HierarchyScopes(scopeID string) []string {
	scopes := []string{scopeID}
	s := scopeID
	for {
		i := strings.LastIndex(s, FieldSep)
		if i < 0 {
			break
		}
		s = s[:i]
		scopes = append(scopes, s)
	}
	scopes = append(scopes, Sentinel)
	return scopes
}
