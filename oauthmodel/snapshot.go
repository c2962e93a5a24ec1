package oauthmodel

import (
	"bytes"
	"fmt"

	"github.com/jrsteele09/go-oauth-request/internal/utils"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v4"
)

// snapshotVersion is the first element of every snapshot.
const snapshotVersion = 1

// A snapshot is a msgpack array whose elements always appear in this order.
// Sets are written sorted and maps are written with sorted keys, so equal
// requests always produce identical bytes.
const (
	fieldVersion = iota
	fieldClientID
	fieldGrantType
	fieldApproved
	fieldRedirectURI
	fieldAuthorities
	fieldScopes
	fieldResourceIDs
	fieldResponseTypes
	fieldRequestParameters
	fieldExtensions
	fieldRefresh
	snapshotFieldCount
)

// Extension values are written as a [kind, value] pair.
const (
	kindNil     = "nil"
	kindString  = "string"
	kindBool    = "bool"
	kindInt     = "int"
	kindUint    = "uint"
	kindFloat   = "float"
	kindBytes   = "bytes"
	kindStrings = "strings"
	kindMap     = "map"
)

// MarshalSnapshot encodes r deterministically for use as a cache key or an
// audit record. It fails with ErrSerialization when an extension value is of
// a kind the encoding does not support.
func MarshalSnapshot(r *Request) ([]byte, error) {
	if r == nil {
		return nil, errors.Wrap(ErrSerialization, "[MarshalSnapshot] request is nil")
	}

	var buf bytes.Buffer
	w := snapshotWriter{enc: msgpack.NewEncoder(&buf)}

	authorities := make([]string, len(r.authorities))
	for i, a := range r.authorities {
		authorities[i] = string(a)
	}

	steps := []func() error{
		func() error { return w.arrayLen(snapshotFieldCount) },
		func() error { return w.enc.EncodeUint(snapshotVersion) },
		func() error { return w.enc.EncodeString(r.clientID) },
		func() error { return w.enc.EncodeString(r.grantType) },
		func() error { return w.enc.EncodeBool(r.approved) },
		func() error { return w.enc.EncodeString(r.redirectURI) },
		func() error { return w.set(authorities) },
		func() error { return w.set(r.scopes) },
		func() error { return w.set(r.resourceIDs) },
		func() error { return w.set(r.responseTypes) },
		func() error { return w.stringMap(r.requestParameters) },
		func() error { return w.extensions(r.extensions) },
		func() error { return w.tokenRequest(r.refresh) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			if errors.Is(err, ErrSerialization) {
				return nil, err
			}
			return nil, errors.Wrapf(ErrSerialization, "[MarshalSnapshot] %v", err)
		}
	}
	return buf.Bytes(), nil
}

// UnmarshalSnapshot decodes a snapshot produced by MarshalSnapshot.
func UnmarshalSnapshot(data []byte) (*Request, error) {
	reader := bytes.NewReader(data)
	rd := snapshotReader{dec: msgpack.NewDecoder(reader), src: reader}

	r, err := rd.request()
	if err != nil {
		return nil, errors.Wrapf(ErrSerialization, "[UnmarshalSnapshot] %v", err)
	}
	if reader.Len() != 0 {
		return nil, errors.Wrapf(ErrSerialization, "[UnmarshalSnapshot] %d trailing bytes", reader.Len())
	}
	if r.clientID == "" {
		return nil, errors.Wrap(ErrSerialization, "[UnmarshalSnapshot] snapshot has no client id")
	}
	return r, nil
}

type snapshotWriter struct {
	enc *msgpack.Encoder
}

func (w snapshotWriter) arrayLen(n int) error {
	return w.enc.EncodeArrayLen(n)
}

func (w snapshotWriter) set(values []string) error {
	sorted := utils.SortedSet(values)
	if err := w.enc.EncodeArrayLen(len(sorted)); err != nil {
		return err
	}
	for _, v := range sorted {
		if err := w.enc.EncodeString(v); err != nil {
			return err
		}
	}
	return nil
}

func (w snapshotWriter) list(values []string) error {
	if err := w.enc.EncodeArrayLen(len(values)); err != nil {
		return err
	}
	for _, v := range values {
		if err := w.enc.EncodeString(v); err != nil {
			return err
		}
	}
	return nil
}

func (w snapshotWriter) stringMap(m map[string]string) error {
	if err := w.enc.EncodeMapLen(len(m)); err != nil {
		return err
	}
	for _, k := range utils.SortedKeys(m) {
		if err := w.enc.EncodeString(k); err != nil {
			return err
		}
		if err := w.enc.EncodeString(m[k]); err != nil {
			return err
		}
	}
	return nil
}

func (w snapshotWriter) extensions(m map[string]any) error {
	if err := w.enc.EncodeMapLen(len(m)); err != nil {
		return err
	}
	for _, k := range utils.SortedKeys(m) {
		if err := w.enc.EncodeString(k); err != nil {
			return err
		}
		if err := w.extensionValue(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func (w snapshotWriter) extensionValue(key string, v any) error {
	v = copyExtensionValue(v)

	var kind string
	switch v.(type) {
	case nil:
		kind = kindNil
	case string:
		kind = kindString
	case bool:
		kind = kindBool
	case int64:
		kind = kindInt
	case uint64:
		kind = kindUint
	case float64:
		kind = kindFloat
	case []byte:
		kind = kindBytes
	case []string:
		kind = kindStrings
	case map[string]string:
		kind = kindMap
	default:
		return errors.Wrapf(ErrSerialization, "[MarshalSnapshot] extension %q has unsupported type %T", key, v)
	}

	if err := w.enc.EncodeArrayLen(2); err != nil {
		return err
	}
	if err := w.enc.EncodeString(kind); err != nil {
		return err
	}
	switch val := v.(type) {
	case nil:
		return w.enc.EncodeNil()
	case string:
		return w.enc.EncodeString(val)
	case bool:
		return w.enc.EncodeBool(val)
	case int64:
		return w.enc.EncodeInt(val)
	case uint64:
		return w.enc.EncodeUint(val)
	case float64:
		return w.enc.EncodeFloat64(val)
	case []byte:
		return w.enc.EncodeBytes(val)
	case []string:
		return w.list(val)
	default:
		return w.stringMap(val.(map[string]string))
	}
}

func (w snapshotWriter) tokenRequest(t *TokenRequest) error {
	if t == nil {
		return w.enc.EncodeNil()
	}
	if err := w.enc.EncodeArrayLen(4); err != nil {
		return err
	}
	if err := w.enc.EncodeString(t.GrantType); err != nil {
		return err
	}
	if err := w.enc.EncodeString(t.ClientID); err != nil {
		return err
	}
	if err := w.set(t.Scope); err != nil {
		return err
	}
	return w.stringMap(t.RequestParameters)
}

type snapshotReader struct {
	dec *msgpack.Decoder
	src *bytes.Reader
}

// checkLen rejects a container length that cannot fit in the unread input.
// Every element takes at least one byte, so a larger n means a corrupt header.
func (rd snapshotReader) checkLen(n int) error {
	if n > rd.src.Len() {
		return fmt.Errorf("length %d exceeds the %d bytes left", n, rd.src.Len())
	}
	return nil
}

func (rd snapshotReader) request() (*Request, error) {
	n, err := rd.dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n != snapshotFieldCount {
		return nil, fmt.Errorf("expected %d fields, got %d", snapshotFieldCount, n)
	}
	version, err := rd.dec.DecodeUint64()
	if err != nil {
		return nil, err
	}
	if version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", version)
	}

	r := &Request{}
	if r.clientID, err = rd.dec.DecodeString(); err != nil {
		return nil, err
	}
	if r.grantType, err = rd.dec.DecodeString(); err != nil {
		return nil, err
	}
	if r.approved, err = rd.dec.DecodeBool(); err != nil {
		return nil, err
	}
	if r.redirectURI, err = rd.dec.DecodeString(); err != nil {
		return nil, err
	}
	authorities, err := rd.list()
	if err != nil {
		return nil, err
	}
	r.authorities = make([]Authority, len(authorities))
	for i, a := range authorities {
		r.authorities[i] = Authority(a)
	}
	if r.scopes, err = rd.list(); err != nil {
		return nil, err
	}
	if r.resourceIDs, err = rd.list(); err != nil {
		return nil, err
	}
	if r.responseTypes, err = rd.list(); err != nil {
		return nil, err
	}
	if r.requestParameters, err = rd.stringMap(); err != nil {
		return nil, err
	}
	if r.extensions, err = rd.extensions(); err != nil {
		return nil, err
	}
	if r.refresh, err = rd.tokenRequest(); err != nil {
		return nil, err
	}

	r.authorities = utils.SortedSet(r.authorities)
	r.scopes = utils.SortedSet(r.scopes)
	r.resourceIDs = utils.SortedSet(r.resourceIDs)
	r.responseTypes = utils.SortedSet(r.responseTypes)
	return r, nil
}

func (rd snapshotReader) list() ([]string, error) {
	n, err := rd.dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("unexpected nil list")
	}
	if err := rd.checkLen(n); err != nil {
		return nil, err
	}
	values := make([]string, n)
	for i := range values {
		if values[i], err = rd.dec.DecodeString(); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func (rd snapshotReader) stringMap() (map[string]string, error) {
	n, err := rd.dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("unexpected nil map")
	}
	if err := rd.checkLen(n); err != nil {
		return nil, err
	}
	m := make(map[string]string, n)
	for i := 0; i < n; i++ {
		k, err := rd.dec.DecodeString()
		if err != nil {
			return nil, err
		}
		if m[k], err = rd.dec.DecodeString(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (rd snapshotReader) extensions() (map[string]any, error) {
	n, err := rd.dec.DecodeMapLen()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("unexpected nil extensions")
	}
	if err := rd.checkLen(n); err != nil {
		return nil, err
	}
	m := make(map[string]any, n)
	for i := 0; i < n; i++ {
		k, err := rd.dec.DecodeString()
		if err != nil {
			return nil, err
		}
		if m[k], err = rd.extensionValue(); err != nil {
			return nil, fmt.Errorf("extension %q: %w", k, err)
		}
	}
	return m, nil
}

func (rd snapshotReader) extensionValue() (any, error) {
	n, err := rd.dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n != 2 {
		return nil, fmt.Errorf("expected [kind, value], got %d elements", n)
	}
	kind, err := rd.dec.DecodeString()
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindNil:
		return nil, rd.dec.DecodeNil()
	case kindString:
		return rd.dec.DecodeString()
	case kindBool:
		return rd.dec.DecodeBool()
	case kindInt:
		return rd.dec.DecodeInt64()
	case kindUint:
		return rd.dec.DecodeUint64()
	case kindFloat:
		return rd.dec.DecodeFloat64()
	case kindBytes:
		return rd.dec.DecodeBytes()
	case kindStrings:
		return rd.list()
	case kindMap:
		return rd.stringMap()
	}
	return nil, fmt.Errorf("unknown extension kind %q", kind)
}

func (rd snapshotReader) tokenRequest() (*TokenRequest, error) {
	n, err := rd.dec.DecodeArrayLen()
	if err != nil {
		return nil, err
	}
	if n == -1 {
		return nil, nil
	}
	if n != 4 {
		return nil, fmt.Errorf("expected 4 token request fields, got %d", n)
	}
	t := &TokenRequest{}
	if t.GrantType, err = rd.dec.DecodeString(); err != nil {
		return nil, err
	}
	if t.ClientID, err = rd.dec.DecodeString(); err != nil {
		return nil, err
	}
	if t.Scope, err = rd.list(); err != nil {
		return nil, err
	}
	if t.RequestParameters, err = rd.stringMap(); err != nil {
		return nil, err
	}
	return t, nil
}
