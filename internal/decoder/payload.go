package decoder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
	"github.com/feral-file/ff-uniques-indexer/internal/types"
)

// renamedFields maps class/instance names to the names used from the collection/item rename onwards
var renamedFields = map[string]string{
	"class":         "collection",
	"instance":      "item",
	"maybeInstance": "maybeItem",
}

// fieldReader reads normalized fields out of a payload of any schema version.
// The first failure is kept and every later read returns a zero value.
type fieldReader struct {
	values map[string]json.RawMessage
	prefix uint16
	err    error
}

// newFieldReader indexes a payload by field name.
// V1 payloads are positional tuples (a bare value when the event has one field),
// later versions are objects keyed by name.
func newFieldReader(version domain.SchemaVersion, payload []byte, names []string, prefix uint16) (*fieldReader, error) {
	r := &fieldReader{
		values: make(map[string]json.RawMessage, len(names)),
		prefix: prefix,
	}

	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", domain.ErrMalformedPayload)
	}

	if version == domain.SchemaV1 {
		var tuple []json.RawMessage
		switch {
		case payload[0] == '[':
			if err := json.Unmarshal(payload, &tuple); err != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
			}
		case len(names) == 1:
			tuple = []json.RawMessage{payload}
		default:
			return nil, fmt.Errorf("%w: expected a tuple of %d fields", domain.ErrMalformedPayload, len(names))
		}
		if len(tuple) != len(names) {
			return nil, fmt.Errorf("%w: expected %d fields, got %d", domain.ErrMalformedPayload, len(names), len(tuple))
		}
		for i, name := range names {
			r.values[name] = tuple[i]
		}
		return r, nil
	}

	if payload[0] != '{' {
		return nil, fmt.Errorf("%w: expected an object", domain.ErrMalformedPayload)
	}
	var object map[string]json.RawMessage
	if err := json.Unmarshal(payload, &object); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedPayload, err)
	}
	for _, name := range names {
		key := name
		if version >= domain.SchemaV9230 {
			if renamed, ok := renamedFields[name]; ok {
				key = renamed
			}
		}
		if value, ok := object[key]; ok {
			r.values[name] = value
		}
	}

	return r, nil
}

// Err returns the first read failure
func (r *fieldReader) Err() error {
	return r.err
}

func (r *fieldReader) fail(name string, format string, args ...any) {
	if r.err == nil {
		r.err = fmt.Errorf("%w: field %s: %s", domain.ErrMalformedPayload, name, fmt.Sprintf(format, args...))
	}
}

// raw returns the field value, failing when it is absent
func (r *fieldReader) raw(name string) (json.RawMessage, bool) {
	if r.err != nil {
		return nil, false
	}
	value, ok := r.values[name]
	if !ok {
		r.fail(name, "missing")
		return nil, false
	}
	return value, true
}

func isNull(value json.RawMessage) bool {
	return len(value) == 0 || string(value) == "null"
}

// scalar returns the text of a JSON number or string
func scalar(value json.RawMessage) (string, bool) {
	if len(value) > 0 && value[0] == '"' {
		var s string
		if err := json.Unmarshal(value, &s); err != nil {
			return "", false
		}
		return s, true
	}
	if isNull(value) || value[0] == '{' || value[0] == '[' || value[0] == 't' || value[0] == 'f' {
		return "", false
	}
	return string(value), true
}

func (r *fieldReader) uint(name string, bits int) uint64 {
	value, ok := r.raw(name)
	if !ok {
		return 0
	}
	text, ok := scalar(value)
	if !ok {
		r.fail(name, "expected an unsigned integer, got %s", value)
		return 0
	}
	n, err := strconv.ParseUint(text, 10, bits)
	if err != nil {
		r.fail(name, "%v", err)
		return 0
	}
	return n
}

func (r *fieldReader) u32(name string) uint32 {
	return uint32(r.uint(name, 32))
}

func (r *fieldReader) u8(name string) uint8 {
	return uint8(r.uint(name, 8))
}

// optU32 reads an optional id; an absent or null field yields nil
func (r *fieldReader) optU32(name string) *uint32 {
	if r.err != nil {
		return nil
	}
	value, ok := r.values[name]
	if !ok || isNull(value) {
		return nil
	}
	n := r.u32(name)
	if r.err != nil {
		return nil
	}
	return &n
}

// address reads 0x-hex account bytes and encodes them with the network prefix.
// Bytes of an unsupported length yield domain.NoAddress.
func (r *fieldReader) address(name string) domain.Address {
	value, ok := r.raw(name)
	if !ok {
		return domain.NoAddress
	}
	if isNull(value) {
		return domain.NoAddress
	}
	raw, ok := r.hexBytes(name, value)
	if !ok {
		return domain.NoAddress
	}
	address, err := domain.EncodeAddress(raw, r.prefix)
	if err != nil {
		return domain.NoAddress
	}
	return address
}

// optAddress reads an optional address; an absent field yields domain.NoAddress
func (r *fieldReader) optAddress(name string) domain.Address {
	if r.err != nil {
		return domain.NoAddress
	}
	if _, ok := r.values[name]; !ok {
		return domain.NoAddress
	}
	return r.address(name)
}

// amount reads a balance given as a JSON number, a decimal string or a 0x-hex quantity
func (r *fieldReader) amount(name string) *big.Int {
	value, ok := r.raw(name)
	if !ok {
		return nil
	}
	text, ok := scalar(value)
	if !ok {
		r.fail(name, "expected an integer, got %s", value)
		return nil
	}
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		n, err := hexutil.DecodeBig(text)
		if err != nil {
			r.fail(name, "%v", err)
			return nil
		}
		return n
	}
	n, ok := new(big.Int).SetString(text, 10)
	if !ok {
		r.fail(name, "invalid integer %q", text)
		return nil
	}
	if n.Sign() < 0 {
		r.fail(name, "negative amount %s", text)
		return nil
	}
	return n
}

// bytes reads 0x-hex bytes and renders them as text
func (r *fieldReader) bytes(name string) string {
	value, ok := r.raw(name)
	if !ok {
		return ""
	}
	raw, ok := r.hexBytes(name, value)
	if !ok {
		return ""
	}
	return types.BytesToString(raw)
}

func (r *fieldReader) hexBytes(name string, value json.RawMessage) ([]byte, bool) {
	var text string
	if err := json.Unmarshal(value, &text); err != nil {
		r.fail(name, "expected a hex string, got %s", value)
		return nil, false
	}
	raw, err := hexutil.Decode(text)
	if err != nil {
		r.fail(name, "%v", err)
		return nil, false
	}
	return raw, true
}

func (r *fieldReader) boolean(name string) bool {
	value, ok := r.raw(name)
	if !ok {
		return false
	}
	var b bool
	if err := json.Unmarshal(value, &b); err != nil {
		r.fail(name, "expected a boolean, got %s", value)
		return false
	}
	return b
}

