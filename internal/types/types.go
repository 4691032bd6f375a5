package types

import (
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// StringPtr converts a string to a pointer to a string
func StringPtr(s string) *string {
	return &s
}

// StringNilOrEmpty checks if a pointer to a string is nil or empty
func StringNilOrEmpty(s *string) bool {
	return s == nil || *s == ""
}

// SafeString returns a safe string from a pointer to a string
func SafeString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Uint32Ptr converts a uint32 to a pointer to a uint32
func Uint32Ptr(v uint32) *uint32 {
	return &v
}

// BytesToString renders on-chain bytes as text when they are valid UTF-8, otherwise as 0x-prefixed hex
func BytesToString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return hexutil.Encode(b)
}
