package sdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// GetProfile fetches a profile by username.
func (c *Client) GetProfile(ctx context.Context, username string) (p Profile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get_profile", start, err) }()

	err = c.do(ctx, http.MethodGet, profilePath(username), nil, nil, &p)
	return p, err
}

// PutProfile creates or replaces a profile. The username in the
// profile body is ignored; the one passed here wins.
func (c *Client) PutProfile(ctx context.Context, username string, p Profile) (stored Profile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("put_profile", start, err) }()

	err = c.do(ctx, http.MethodPut, profilePath(username), nil, p, &stored)
	return stored, err
}

// DeleteProfile removes a profile. Deleting an unknown profile returns
// ErrProfileNotFound.
func (c *Client) DeleteProfile(ctx context.Context, username string) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("delete_profile", start, err) }()

	return c.do(ctx, http.MethodDelete, profilePath(username), nil, nil, nil)
}

// ListProfiles returns the usernames of all stored profiles.
func (c *Client) ListProfiles(ctx context.Context) (list ProfileList, err error) {
	start := time.Now()
	defer func() { c.obs.observe("list_profiles", start, err) }()

	err = c.do(ctx, http.MethodGet, "/v1/profiles", nil, nil, &list)
	return list, err
}

// SaveBill bookmarks a bill on the user's profile and returns the
// updated profile.
func (c *Client) SaveBill(ctx context.Context, username string, billID int64) (p Profile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("save_bill", start, err) }()

	err = c.do(ctx, http.MethodPost, savedBillPath(username, billID), nil, nil, &p)
	return p, err
}

// UnsaveBill removes a bookmark and returns the updated profile.
// Removing a bill that was never saved is not an error.
func (c *Client) UnsaveBill(ctx context.Context, username string, billID int64) (p Profile, err error) {
	start := time.Now()
	defer func() { c.obs.observe("unsave_bill", start, err) }()

	err = c.do(ctx, http.MethodDelete, savedBillPath(username, billID), nil, nil, &p)
	return p, err
}

func profilePath(username string) string {
	return "/v1/profiles/" + url.PathEscape(username)
}

func savedBillPath(username string, billID int64) string {
	return profilePath(username) + "/saved/" + strconv.FormatInt(billID, 10)
}
