package oauthmodel

import (
	"bytes"
	"maps"
	"reflect"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/jrsteele09/go-oauth-request/internal/utils"
	"github.com/jrsteele09/go-oauth-request/oauth2"
	"github.com/pkg/errors"
)

// Authority is a permission granted to the principal behind a request,
// e.g. "ROLE_CLIENT".
type Authority string

func (a Authority) String() string {
	return string(a)
}

// RequestParams holds the construction arguments of a Request.
// None of the containers are retained by the Request.
type RequestParams struct {
	RequestParameters map[string]string
	ClientID          string `validate:"required"`
	Authorities       []Authority
	Approved          bool
	Scopes            []string
	ResourceIDs       []string
	RedirectURI       string
	ResponseTypes     []string
	Extensions        map[string]any

	// GrantType is set by token endpoint flows that know the grant type up
	// front. When empty it is derived from RequestParameters.
	GrantType string
}

// Request is an immutable, normalised OAuth2 request.
//
// Sets are held sorted and de-duplicated. Every accessor returns a copy, and
// every "mutation" returns a new Request, so a Request can be shared between
// goroutines without locking.
type Request struct {
	requestParameters map[string]string
	clientID          string
	authorities       []Authority
	approved          bool
	scopes            []string
	resourceIDs       []string
	redirectURI       string
	responseTypes     []string
	extensions        map[string]any
	grantType         string
	refresh           *TokenRequest
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewRequest builds a Request from p, copying every container.
// It fails with ErrInvalidRequest when the client ID is missing.
func NewRequest(p RequestParams) (*Request, error) {
	if err := validate.Struct(p); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
			return nil, errors.Wrapf(ErrInvalidRequest, "[NewRequest] %s failed %q", validationErrs[0].Field(), validationErrs[0].Tag())
		}
		return nil, errors.Wrap(ErrInvalidRequest, err.Error())
	}

	grantType := p.GrantType
	if grantType == "" {
		grantType = ResolveGrantType(p.RequestParameters[oauth2.ParamGrantType], p.RequestParameters[oauth2.ParamResponseType])
	}

	return &Request{
		requestParameters: utils.CopyMap(p.RequestParameters),
		clientID:          p.ClientID,
		authorities:       utils.SortedSet(p.Authorities),
		approved:          p.Approved,
		scopes:            utils.SortedSet(p.Scopes),
		resourceIDs:       utils.SortedSet(p.ResourceIDs),
		redirectURI:       p.RedirectURI,
		responseTypes:     utils.SortedSet(p.ResponseTypes),
		extensions:        copyExtensions(p.Extensions),
		grantType:         grantType,
	}, nil
}

func (r *Request) RequestParameters() map[string]string {
	return utils.CopyMap(r.requestParameters)
}

// RequestParameter returns a single raw request parameter.
func (r *Request) RequestParameter(key string) (string, bool) {
	v, ok := r.requestParameters[key]
	return v, ok
}

func (r *Request) ClientID() string {
	return r.clientID
}

func (r *Request) Authorities() []Authority {
	return slices.Clone(r.authorities)
}

// IsApproved reports whether a resource owner or administrator approved the request.
func (r *Request) IsApproved() bool {
	return r.approved
}

func (r *Request) Scopes() []string {
	return slices.Clone(r.scopes)
}

func (r *Request) ResourceIDs() []string {
	return slices.Clone(r.resourceIDs)
}

// RedirectURI returns the redirect URI, or "" when none was supplied.
func (r *Request) RedirectURI() string {
	return r.redirectURI
}

func (r *Request) ResponseTypes() []string {
	return slices.Clone(r.responseTypes)
}

func (r *Request) Extensions() map[string]any {
	return copyExtensions(r.extensions)
}

func (r *Request) Extension(key string) (any, bool) {
	v, ok := r.extensions[key]
	if !ok {
		return nil, false
	}
	return copyExtensionValue(v), true
}

// GrantType returns the grant type resolved at construction. It is "" when
// none could be determined.
func (r *Request) GrantType() string {
	return r.grantType
}

// IsRefresh reports whether the request is being replayed for a refresh token grant.
func (r *Request) IsRefresh() bool {
	return r.refresh != nil
}

// RefreshTokenRequest returns the token request of a refresh, or nil.
func (r *Request) RefreshTokenRequest() *TokenRequest {
	return r.refresh.Copy()
}

// WithRequestParameters returns a copy of r holding params as its request
// parameters. The grant type is not re-derived.
func (r *Request) WithRequestParameters(params map[string]string) *Request {
	c := *r
	c.requestParameters = utils.CopyMap(params)
	return &c
}

// NarrowScope returns a copy of r with its scopes replaced.
func (r *Request) NarrowScope(scopes []string) *Request {
	c := *r
	c.scopes = utils.SortedSet(scopes)
	return &c
}

// WithRefresh returns a copy of r marked as a refresh of tokenRequest.
func (r *Request) WithRefresh(tokenRequest *TokenRequest) *Request {
	c := *r
	c.refresh = tokenRequest.Copy()
	return &c
}

// Equal reports whether r and o hold the same logical content.
func (r *Request) Equal(o *Request) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.clientID == o.clientID &&
		r.grantType == o.grantType &&
		r.approved == o.approved &&
		r.redirectURI == o.redirectURI &&
		slices.Equal(r.authorities, o.authorities) &&
		slices.Equal(r.scopes, o.scopes) &&
		slices.Equal(r.resourceIDs, o.resourceIDs) &&
		slices.Equal(r.responseTypes, o.responseTypes) &&
		maps.Equal(r.requestParameters, o.requestParameters) &&
		maps.EqualFunc(r.extensions, o.extensions, extensionValueEqual) &&
		r.refresh.Equal(o.refresh)
}

func copyExtensions(extensions map[string]any) map[string]any {
	out := make(map[string]any, len(extensions))
	for k, v := range extensions {
		out[k] = copyExtensionValue(v)
	}
	return out
}

// copyExtensionValue deep copies the container kinds the snapshot codec
// understands and widens numbers to the 64 bit kinds it decodes to.
// Values of other kinds are deep copied by reflection; they are kept on the
// request but MarshalSnapshot rejects them.
func copyExtensionValue(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return uint64(val)
	case uint8:
		return uint64(val)
	case uint16:
		return uint64(val)
	case uint32:
		return uint64(val)
	case float32:
		return float64(val)
	case []string:
		return append([]string{}, val...)
	case []byte:
		return append([]byte{}, val...)
	case map[string]string:
		return utils.CopyMap(val)
	case nil, string, bool, int64, uint64, float64:
		return v
	}
	return deepCopy(reflect.ValueOf(v), map[copyKey]reflect.Value{}).Interface()
}

type copyKey struct {
	typ reflect.Type
	ptr uintptr
	len int
}

// deepCopy copies slices, arrays, maps and pointers recursively. Shared and
// cyclic references are preserved through seen. Struct values are copied as
// a whole; containers reached through struct fields stay shared.
func deepCopy(v reflect.Value, seen map[copyKey]reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		key := copyKey{typ: v.Type(), ptr: v.Pointer(), len: v.Len()}
		if c, ok := seen[key]; ok {
			return c
		}
		c := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		seen[key] = c
		for i := 0; i < v.Len(); i++ {
			c.Index(i).Set(deepCopy(v.Index(i), seen))
		}
		return c
	case reflect.Array:
		c := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			c.Index(i).Set(deepCopy(v.Index(i), seen))
		}
		return c
	case reflect.Map:
		if v.IsNil() {
			return v
		}
		key := copyKey{typ: v.Type(), ptr: v.Pointer()}
		if c, ok := seen[key]; ok {
			return c
		}
		c := reflect.MakeMapWithSize(v.Type(), v.Len())
		seen[key] = c
		iter := v.MapRange()
		for iter.Next() {
			c.SetMapIndex(iter.Key(), deepCopy(iter.Value(), seen))
		}
		return c
	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		key := copyKey{typ: v.Type(), ptr: v.Pointer()}
		if c, ok := seen[key]; ok {
			return c
		}
		c := reflect.New(v.Type().Elem())
		seen[key] = c
		c.Elem().Set(deepCopy(v.Elem(), seen))
		return c
	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		c := reflect.New(v.Type()).Elem()
		c.Set(deepCopy(v.Elem(), seen))
		return c
	}
	return v
}

func extensionValueEqual(a, b any) bool {
	switch av := a.(type) {
	case []string:
		bv, ok := b.([]string)
		return ok && slices.Equal(av, bv)
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case map[string]string:
		bv, ok := b.(map[string]string)
		return ok && maps.Equal(av, bv)
	}
	return reflect.DeepEqual(a, b)
}
