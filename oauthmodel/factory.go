package oauthmodel

// FromParameters builds a Request for the authorization endpoint from the raw
// request parameters. Client ID, scopes, redirect URI and response types are
// taken from params and the grant type is derived from them.
func FromParameters(params map[string]string, approved bool) (*Request, error) {
	parsed := ParseParameters(params)
	return NewRequest(RequestParams{
		RequestParameters: params,
		ClientID:          parsed.ClientID,
		Approved:          approved,
		Scopes:            parsed.Scope,
		RedirectURI:       parsed.RedirectURI,
		ResponseTypes:     parsed.ResponseTypes,
		GrantType:         parsed.ResolvedGrantType(),
	})
}
