package authsdk

import (
	"context"
	"net/http"
)

// GetUserInfo reads the claims released by accessToken.
func (c *SDKClient) GetUserInfo(ctx context.Context, accessToken string) (UserInfo, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.Paths.UserInfo, nil, map[string]string{
		"Authorization": "Bearer " + accessToken,
	})
	if err != nil {
		return nil, err
	}

	info := UserInfo{}
	if err := decodeJSON(resp, &info, http.StatusOK); err != nil {
		return nil, err
	}
	return info, nil
}
