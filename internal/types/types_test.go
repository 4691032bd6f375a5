package types

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringPtr(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "empty string", input: ""},
		{name: "non-empty string", input: "test"},
		{name: "unicode string", input: "测试"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := StringPtr(tt.input)
			require.NotNil(t, result)
			assert.Equal(t, tt.input, *result)
		})
	}
}

func TestStringNilOrEmpty(t *testing.T) {
	assert.True(t, StringNilOrEmpty(nil))
	assert.True(t, StringNilOrEmpty(StringPtr("")))
	assert.False(t, StringNilOrEmpty(StringPtr("x")))
}

func TestSafeString(t *testing.T) {
	assert.Equal(t, "", SafeString(nil))
	assert.Equal(t, "x", SafeString(StringPtr("x")))
}

func TestBytesToString(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{name: "utf8 text", input: []byte("ipfs://QmHash"), expected: "ipfs://QmHash"},
		{name: "empty", input: []byte{}, expected: ""},
		{name: "binary", input: []byte{0xff, 0x00, 0x10}, expected: "0xff0010"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, BytesToString(tt.input))
		})
	}
}

func TestBigInt_Arithmetic(t *testing.T) {
	a := MustBigInt("340282366920938463463374607431768211455") // u128 max
	b := NewBigInt(1)

	sum := a.Add(b)
	assert.Equal(t, "340282366920938463463374607431768211456", sum.String())
	// receiver untouched
	assert.Equal(t, "340282366920938463463374607431768211455", a.String())

	diff := NewBigInt(40).Sub(NewBigInt(100))
	assert.Equal(t, "-60", diff.String())
	assert.Equal(t, -1, diff.Sign())

	var zero BigInt
	assert.True(t, zero.IsZero())
	assert.Equal(t, "0", zero.String())
	assert.Equal(t, 0, zero.Cmp(NewBigInt(0)))
	assert.Equal(t, "5", zero.Add(NewBigInt(5)).String())
}

func TestBigIntFrom_Copies(t *testing.T) {
	src := big.NewInt(10)
	v := BigIntFrom(src)
	src.SetInt64(99)
	assert.Equal(t, "10", v.String())

	out := v.Int()
	out.SetInt64(1)
	assert.Equal(t, "10", v.String())

	assert.True(t, BigIntFrom(nil).IsZero())
}

func TestParseBigInt(t *testing.T) {
	v, err := ParseBigInt("123456789012345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", v.String())

	_, err = ParseBigInt("12a")
	assert.Error(t, err)

	assert.Panics(t, func() { MustBigInt("") })
}

func TestBigInt_Scan(t *testing.T) {
	tests := []struct {
		name     string
		src      any
		expected string
		wantErr  bool
	}{
		{name: "string", src: "500", expected: "500"},
		{name: "bytes", src: []byte("-7"), expected: "-7"},
		{name: "int64", src: int64(42), expected: "42"},
		{name: "nil", src: nil, expected: "0"},
		{name: "float not supported", src: 1.5, wantErr: true},
		{name: "garbage string", src: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v BigInt
			err := v.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, v.String())
		})
	}
}

func TestBigInt_Value(t *testing.T) {
	v, err := NewBigInt(-3).Value()
	require.NoError(t, err)
	assert.Equal(t, "-3", v)
}

func TestBigInt_JSON(t *testing.T) {
	var fromString, fromNumber BigInt
	require.NoError(t, json.Unmarshal([]byte(`"1000000000000000000000"`), &fromString))
	require.NoError(t, json.Unmarshal([]byte(`1000000000000000000000`), &fromNumber))
	assert.Equal(t, 0, fromString.Cmp(fromNumber))

	out, err := json.Marshal(fromString)
	require.NoError(t, err)
	assert.Equal(t, `"1000000000000000000000"`, string(out))

	var bad BigInt
	assert.Error(t, json.Unmarshal([]byte(`true`), &bad))
}
