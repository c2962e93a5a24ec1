package oauthmodel_test

import (
	"testing"

	"github.com/jrsteele09/go-oauth-request/oauth2"
	"github.com/jrsteele09/go-oauth-request/oauthmodel"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestResolveGrantType(t *testing.T) {
	tests := []struct {
		name         string
		grantType    string
		responseType string
		expected     string
	}{
		{name: "explicit grant type", grantType: oauth2.PasswordGrant.String(), expected: "password"},
		{name: "client credentials", grantType: oauth2.ClientCredentialsCodeGrant.String(), expected: "client_credentials"},
		{name: "refresh token", grantType: oauth2.RefreshTokenCodeGrant.String(), expected: "refresh_token"},
		{name: "token response type", responseType: string(oauth2.TokenResponseType), expected: oauth2.ImplicitGrant.String()},
		{name: "id_token response type", responseType: "id_token", expected: oauth2.ImplicitGrant.String()},
		{name: "multiple response types", responseType: "code token", expected: oauth2.ImplicitGrant.String()},
		{name: "explicit grant beats response type", grantType: oauth2.AuthorizationCodeGrant.String(), responseType: string(oauth2.TokenResponseType), expected: "authorization_code"},
		{name: "code response type", responseType: string(oauth2.CodeResponseType), expected: ""},
		{name: "nothing supplied", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, oauthmodel.ResolveGrantType(tt.grantType, tt.responseType))
		})
	}
}

func TestResolveGrantType_Properties(t *testing.T) {
	t.Run("response type token without grant type is implicit", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			params := rapid.MapOf(rapid.StringMatching(`[a-z]{1,8}`), rapid.String()).Draw(t, "params")
			delete(params, "grant_type")
			params["client_id"] = "theClient"
			params["response_type"] = "token"

			require.Equal(t, "implicit", oauthmodel.ParseParameters(params).ResolvedGrantType())
		})
	})

	t.Run("explicit grant type always wins", func(t *testing.T) {
		rapid.Check(t, func(t *rapid.T) {
			grantType := rapid.StringMatching(`[a-z_]{1,20}`).Draw(t, "grantType")
			responseType := rapid.SampledFrom([]string{"", "code", "token", "id_token token"}).Draw(t, "responseType")

			require.Equal(t, grantType, oauthmodel.ResolveGrantType(grantType, responseType))
		})
	})
}
