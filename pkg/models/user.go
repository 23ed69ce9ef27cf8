package models

// User is a user row: identity plus the incrementally maintained
// contribution score.
type User struct {
	Username        string `json:"username"`
	Email           string `json:"email,omitempty"`
	Contribution    int64  `json:"contribution"`
	AvatarExtension string `json:"avatarExtension,omitempty"`
}

// Profile is the client-facing projection of a user. Email is only
// populated when the requester is the profile owner.
type Profile struct {
	Username     string `json:"username"`
	Contribution int64  `json:"contribution"`
	Email        string `json:"email,omitempty"`
	AvatarData   string `json:"avatarData,omitempty"`
}

// ProblemInfo is the catalog's view of a problem, denormalized into notes
// on write.
type ProblemInfo struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	ContestCode string `json:"contestCode"`
	ContestName string `json:"contestName"`
	Link        string `json:"link,omitempty"`
	Level       string `json:"level,omitempty"`
}

// ContestInfo is the catalog's view of a contest.
type ContestInfo struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
