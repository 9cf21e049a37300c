package commerce

import (
	"context"
	"fmt"
	"net/url"
)

// FetchProfile looks up a customer profile by email. Returns
// ErrProfileNotFound when the filter matches nothing.
func (c *Client) FetchProfile(ctx context.Context, email string) (*Profile, error) {
	endpoint := fmt.Sprintf("%s/1.0/profiles?filter=email,%s", c.BaseURL, url.QueryEscape(email))

	var response profilesResponse
	if err := c.getJSON(ctx, endpoint, "fetch_profile", &response); err != nil {
		return nil, fmt.Errorf("failed to fetch profile for %s: %w", email, err)
	}

	if len(response.Profiles) == 0 {
		return nil, fmt.Errorf("profile for %s: %w", email, ErrProfileNotFound)
	}

	return &response.Profiles[0], nil
}
