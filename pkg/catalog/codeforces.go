package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"cpnotes/pkg/errs"
)

const (
	userInfoEndpoint = "https://codeforces.com/api/user.info?handles="
	maxAttempts      = 3
)

// CodeforcesUser is the subset of the user.info response the service
// consumes when validating a platform handle.
type CodeforcesUser struct {
	Handle string `json:"handle"`
	Rating int64  `json:"rating"`
	Rank   string `json:"rank"`
	Avatar string `json:"avatar"`
}

// CodeforcesClient looks up user handles against the public Codeforces
// API, retrying transient failures before reporting the platform down.
type CodeforcesClient struct {
	endpoint string
	client   *retryablehttp.Client
}

// NewCodeforcesClient builds a client with retry policy matching the
// documented attempt budget.
func NewCodeforcesClient() *CodeforcesClient {
	c := retryablehttp.NewClient()
	c.RetryMax = maxAttempts - 1
	c.RetryWaitMin = 200 * time.Millisecond
	c.RetryWaitMax = 2 * time.Second
	c.Logger = nil
	return &CodeforcesClient{endpoint: userInfoEndpoint, client: c}
}

// GetUserInfo fetches the Codeforces profile for handle. A handle the
// platform cannot have maps to UserNotFound without a network call;
// exhausted retries map to PlatformDown.
func (c *CodeforcesClient) GetUserInfo(ctx context.Context, handle string) (CodeforcesUser, error) {
	// ';' is the handles-list separator of the upstream API, so a handle
	// containing it can never exist.
	if strings.Contains(handle, ";") {
		return CodeforcesUser{}, errs.ErrUserNotFound
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+handle, nil)
	if err != nil {
		return CodeforcesUser{}, errs.Internal("codeforces request", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return CodeforcesUser{}, errs.Wrap(errs.ErrPlatformDown, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return CodeforcesUser{}, errs.ErrUserNotFound
	case resp.StatusCode != http.StatusOK:
		return CodeforcesUser{}, errs.ErrPlatformDown
	}

	var body struct {
		Status string           `json:"status"`
		Result []CodeforcesUser `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return CodeforcesUser{}, errs.Wrap(errs.ErrPlatformDown, err)
	}
	if body.Status != "OK" || len(body.Result) == 0 {
		return CodeforcesUser{}, errs.ErrUserNotFound
	}
	return body.Result[0], nil
}
