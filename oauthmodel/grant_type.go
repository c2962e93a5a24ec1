package oauthmodel

import (
	"strings"

	"github.com/jrsteele09/go-oauth-request/oauth2"
)

// ResolveGrantType derives the effective grant type of a request.
//
// An explicit grant type always wins. Without one, a response type containing
// "token" resolves to the implicit grant. Otherwise the result is empty, and
// rejecting it is left to the caller's grant type policy.
func ResolveGrantType(grantType, responseType string) string {
	if grantType != "" {
		return grantType
	}
	if strings.Contains(responseType, string(oauth2.TokenResponseType)) {
		return oauth2.ImplicitGrant.String()
	}
	return ""
}
