package oauthmodel

import (
	"maps"
	"slices"

	"github.com/jrsteele09/go-oauth-request/clients"
	"github.com/jrsteele09/go-oauth-request/internal/utils"
	"github.com/jrsteele09/go-oauth-request/oauth2"
	"github.com/pkg/errors"
)

// TokenRequest holds the parameters of an OAuth2 token request.
// This represents the request body sent to the /token endpoint.
type TokenRequest struct {
	// GrantType is the grant the client is asking for.
	// Required: Yes
	// Example: "password", "authorization_code", "refresh_token"
	GrantType string

	// ClientID identifies the OAuth2 client making the request.
	// Required: Yes (for all grant types)
	// Example: "web-app-client"
	ClientID string

	// Scope is the requested scope, sorted and de-duplicated.
	// Required: No (the client's registered scopes apply when empty)
	Scope []string

	// RequestParameters is the full decoded request body.
	// May contain credentials (password, client_secret) that must not leak
	// into the resulting Request.
	RequestParameters map[string]string
}

// NewTokenRequest builds a TokenRequest from the decoded body of a token
// endpoint call. params is copied.
func NewTokenRequest(params map[string]string) *TokenRequest {
	parsed := ParseParameters(params)
	return &TokenRequest{
		GrantType:         parsed.GrantType,
		ClientID:          parsed.ClientID,
		Scope:             parsed.Scope,
		RequestParameters: utils.CopyMap(params),
	}
}

// Copy returns a deep copy of t with its scope normalised. A nil receiver
// yields nil.
func (t *TokenRequest) Copy() *TokenRequest {
	if t == nil {
		return nil
	}
	return &TokenRequest{
		GrantType:         t.GrantType,
		ClientID:          t.ClientID,
		Scope:             utils.SortedSet(t.Scope),
		RequestParameters: utils.CopyMap(t.RequestParameters),
	}
}

// Equal reports whether t and o hold the same logical content.
func (t *TokenRequest) Equal(o *TokenRequest) bool {
	if t == nil || o == nil {
		return t == o
	}
	return t.GrantType == o.GrantType &&
		t.ClientID == o.ClientID &&
		slices.Equal(utils.SortedSet(t.Scope), utils.SortedSet(o.Scope)) &&
		maps.Equal(t.RequestParameters, o.RequestParameters)
}

// CreateRequest turns the token request into an approved Request for client.
//
// Credentials are stripped from the request parameters and grant_type is set
// so that it can be read back from the Request. Authorities and resource IDs
// come from the client. When the token request names no scope, the client's
// registered scopes are used; otherwise every requested scope must be
// registered, unless the client registers none.
func (t *TokenRequest) CreateRequest(client *clients.Client) (*Request, error) {
	if client == nil {
		return nil, errors.Wrap(ErrInvalidRequest, "[CreateRequest] client is required")
	}
	if t.ClientID != "" && t.ClientID != client.ID {
		return nil, errors.Wrapf(ErrInvalidRequest, "[CreateRequest] client_id %q does not match client %q", t.ClientID, client.ID)
	}

	params := utils.CopyMap(t.RequestParameters)
	delete(params, oauth2.ParamPassword)
	delete(params, oauth2.ParamClientSecret)
	params[oauth2.ParamGrantType] = t.GrantType

	scopes := t.Scope
	if len(scopes) == 0 {
		scopes = client.Scopes
	} else if len(client.Scopes) > 0 {
		for _, scope := range scopes {
			if !client.HasScope(scope) {
				return nil, errors.Wrapf(ErrInvalidRequest, "[CreateRequest] scope %q is not registered for client %q", scope, client.ID)
			}
		}
	}

	authorities := make([]Authority, 0, len(client.Authorities))
	for _, a := range client.Authorities {
		authorities = append(authorities, Authority(a))
	}

	return NewRequest(RequestParams{
		RequestParameters: params,
		ClientID:          client.ID,
		Authorities:       authorities,
		Approved:          true,
		Scopes:            scopes,
		ResourceIDs:       client.ResourceIDs,
		GrantType:         t.GrantType,
	})
}
