package oauth2

// Request parameter names recognised by the request model.
// Values arrive from a decoded query string or form body.
const (
	ParamClientID     = "client_id"
	ParamClientSecret = "client_secret"
	ParamScope        = "scope"
	ParamGrantType    = "grant_type"
	ParamResponseType = "response_type"
	ParamRedirectURI  = "redirect_uri"
	ParamState        = "state"
	ParamPassword     = "password"
)

// ResponseType represents the OAuth 2.0 response type.
// Determines what is returned from the authorization endpoint.
type ResponseType string

const (
	// CodeResponseType indicates the authorization code flow.
	// Used in: Authorization Code Flow
	// Returns an authorization code that must be exchanged for tokens at the token endpoint.
	// Example: /oauth/authorize?response_type=code&client_id=...
	CodeResponseType ResponseType = "code"

	// TokenResponseType indicates the implicit flow.
	// Used in: Implicit Flow (deprecated by OAuth 2.1, still seen from legacy clients)
	// Returns an access token directly from the authorization endpoint.
	// Example: /oauth/authorize?response_type=token&client_id=...
	// Any response type containing "token" (e.g. "id_token") is treated as implicit.
	TokenResponseType ResponseType = "token"
)

// GrantType represents the OAuth 2.0 grant type a request is processed under.
// Determines what credentials are required to obtain tokens.
type GrantType string

const (
	// AuthorizationCodeGrant exchanges an authorization code for tokens.
	// Used in: Standard Authorization Code Flow
	// Token request includes: code, client_id, client_secret, redirect_uri, code_verifier (if PKCE)
	AuthorizationCodeGrant GrantType = "authorization_code"

	// ClientCredentialsCodeGrant allows machine-to-machine authentication.
	// Used in: Backend service authentication (no user context)
	// Token request includes: client_id, client_secret, scope
	ClientCredentialsCodeGrant GrantType = "client_credentials"

	// RefreshTokenCodeGrant exchanges a refresh token for new tokens.
	// Used in: Token refresh flow (get new access token without re-authenticating user)
	// Token request includes: refresh_token, client_id, client_secret
	RefreshTokenCodeGrant GrantType = "refresh_token"

	// PasswordGrant exchanges resource owner credentials for tokens.
	// Used in: Resource Owner Password Credentials flow (trusted first-party clients)
	// Token request includes: username, password, client_id, scope
	PasswordGrant GrantType = "password"

	// ImplicitGrant is never sent as a grant_type parameter.
	// It is derived when an authorization request asks for response_type=token.
	ImplicitGrant GrantType = "implicit"
)

// String returns the grant type as it appears on the wire.
func (g GrantType) String() string {
	return string(g)
}
