package oauthmodel

import "github.com/jrsteele09/go-oauth-request/oauth2"

// Parameters is the parsed view of the recognised OAuth2 request parameters.
// It is produced from the raw, untrusted parameter map received at the
// /oauth/authorize or /oauth/token endpoint. No value is validated here.
type Parameters struct {
	// ClientID identifies the application making the request.
	// Flow: All OAuth flows
	// Source: client_id
	// Validated against: client registry (downstream)
	ClientID string

	// Scope is the requested permission set.
	// Flow: All OAuth flows
	// Source: scope, space or comma delimited
	// Example: "openid profile" -> ["openid", "profile"]
	// Empty (non-nil) when the parameter is absent
	Scope []string

	// GrantType is the grant_type parameter as sent.
	// Flow: Token endpoint
	// Example: "password", "authorization_code"
	GrantType string

	// ResponseType is the response_type parameter as sent.
	// Flow: Authorization endpoint
	// Example: "code", "token", "id_token token"
	ResponseType string

	// ResponseTypes is ResponseType split into its distinct values.
	ResponseTypes []string

	// RedirectURI is where the authorization response is sent.
	// Flow: Authorization endpoint
	// Validated against: registered redirect URIs (downstream)
	RedirectURI string

	// State is the opaque client value echoed back on redirect.
	State string
}

// ParseParameters extracts the recognised parameters from params.
// params is only read, never modified.
func ParseParameters(params map[string]string) Parameters {
	return Parameters{
		ClientID:      params[oauth2.ParamClientID],
		Scope:         oauth2.ParseParameterList(params[oauth2.ParamScope]),
		GrantType:     params[oauth2.ParamGrantType],
		ResponseType:  params[oauth2.ParamResponseType],
		ResponseTypes: oauth2.ParseParameterList(params[oauth2.ParamResponseType]),
		RedirectURI:   params[oauth2.ParamRedirectURI],
		State:         params[oauth2.ParamState],
	}
}

// ResolvedGrantType returns the grant type these parameters resolve to.
func (p Parameters) ResolvedGrantType() string {
	return ResolveGrantType(p.GrantType, p.ResponseType)
}
