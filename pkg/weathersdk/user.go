package weathersdk

import (
	"context"
	"fmt"
)

// Profile fetches the authenticated user's profile. Not cached: profile
// reads are rare and staleness here is confusing.
func (c *Client) Profile(ctx context.Context) (*Profile, error) {
	raw, err := c.Get(ctx, "/v1/user/me", nil, false)
	if err != nil {
		return nil, err
	}

	var p Profile
	if err := decodeJSON(raw, &p); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}
	return &p, nil
}

// UpdateProfile writes the profile and returns the server's updated copy.
func (c *Client) UpdateProfile(ctx context.Context, p Profile) (*Profile, error) {
	raw, err := c.Post(ctx, "/v1/user/me", p)
	if err != nil {
		return nil, err
	}

	var updated Profile
	if err := decodeJSON(raw, &updated); err != nil {
		return nil, fmt.Errorf("decode profile response: %w", err)
	}
	return &updated, nil
}

// ChangePassword rotates the account password. The server validates the
// current password; rejections surface as ValidationError.
func (c *Client) ChangePassword(ctx context.Context, current, newPassword string) error {
	if current == "" || newPassword == "" {
		return &ValidationError{Detail: "current and new password are required"}
	}

	_, err := c.Post(ctx, "/v1/user/password", map[string]string{
		"current_password": current,
		"new_password":     newPassword,
	})
	return err
}
