package clients

import "slices"

// Client holds the registered details of an OAuth2 client that the request
// model needs when a token request is turned into a request.
// Registration and lookup belong to the caller.
type Client struct {
	ID          string   `json:"id"`
	Scopes      []string `json:"scopes"`      // Allowed scopes for this client
	Authorities []string `json:"authorities"` // Authorities granted to the client itself
	ResourceIDs []string `json:"resourceIds"` // Resource servers the client's tokens are valid for
}

// HasScope checks if the client has permission for a specific scope
func (c *Client) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}
