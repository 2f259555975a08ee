package authsdk

import (
	"context"
	"net/http"
)

// GetHealth checks that the provider is up.
func (c *SDKClient) GetHealth(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, c.Paths.Health, nil, nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}

// GetEnvHealth checks the provider's configuration. A misconfigured
// provider yields an *APIError whose Problems lists what is wrong.
func (c *SDKClient) GetEnvHealth(ctx context.Context) error {
	resp, err := c.doRequest(ctx, http.MethodGet, c.Paths.EnvHealth, nil, nil)
	if err != nil {
		return err
	}
	return checkStatus(resp, http.StatusOK)
}
