package domain

import (
	"bytes"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/blake2b"
)

// Address is an SS58 encoded account address
type Address string

// NoAddress is produced when raw account bytes fail validation
const NoAddress Address = ""

const maxSS58Prefix = 16383

var ss58Preimage = []byte("SS58PRE")

// Valid reports whether the address was successfully encoded
func (a Address) Valid() bool {
	return a != NoAddress
}

// String returns the string representation of the address
func (a Address) String() string {
	return string(a)
}

// Ptr returns a pointer to the address string, or nil for NoAddress
func (a Address) Ptr() *string {
	if !a.Valid() {
		return nil
	}
	s := string(a)
	return &s
}

// IsValidAddressLength checks the raw byte length against the lengths SS58 can carry
func IsValidAddressLength(n int) bool {
	switch n {
	case 1, 2, 4, 8, 32, 33:
		return true
	default:
		return false
	}
}

// EncodeAddress encodes raw account bytes with the given SS58 network prefix
func EncodeAddress(raw []byte, prefix uint16) (Address, error) {
	if !IsValidAddressLength(len(raw)) {
		return NoAddress, fmt.Errorf("%w: %d bytes", ErrInvalidAddress, len(raw))
	}
	if prefix > maxSS58Prefix {
		return NoAddress, fmt.Errorf("ss58 prefix %d out of range", prefix)
	}

	input := append(encodePrefix(prefix), raw...)
	sum := ss58Checksum(input)
	out := append(input, sum[:checksumLength(len(raw))]...)

	return Address(base58.Encode(out)), nil
}

// DecodeAddress decodes an SS58 address into its raw account bytes and network prefix
func DecodeAddress(address Address) ([]byte, uint16, error) {
	data, err := base58.Decode(string(address))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to decode base58: %w", err)
	}
	if len(data) < 2 {
		return nil, 0, fmt.Errorf("%w: %d bytes", ErrInvalidAddress, len(data))
	}

	prefixLen := 1
	prefix := uint16(data[0])
	if data[0]&0b0100_0000 != 0 {
		if len(data) < 3 {
			return nil, 0, fmt.Errorf("%w: %d bytes", ErrInvalidAddress, len(data))
		}
		prefixLen = 2
		lower := uint16(data[0]&0b0011_1111)<<2 | uint16(data[1]>>6)
		upper := uint16(data[1] & 0b0011_1111)
		prefix = lower | upper<<8
	} else if data[0] >= 64 {
		return nil, 0, fmt.Errorf("invalid ss58 prefix byte %d", data[0])
	}

	for _, rawLen := range []int{1, 2, 4, 8, 32, 33} {
		sumLen := checksumLength(rawLen)
		if prefixLen+rawLen+sumLen != len(data) {
			continue
		}
		input := data[:prefixLen+rawLen]
		sum := ss58Checksum(input)
		if !bytes.Equal(sum[:sumLen], data[prefixLen+rawLen:]) {
			return nil, 0, fmt.Errorf("invalid ss58 checksum")
		}
		raw := make([]byte, rawLen)
		copy(raw, data[prefixLen:prefixLen+rawLen])
		return raw, prefix, nil
	}

	return nil, 0, fmt.Errorf("%w: %d encoded bytes", ErrInvalidAddress, len(data))
}

func encodePrefix(prefix uint16) []byte {
	if prefix < 64 {
		return []byte{byte(prefix)}
	}
	return []byte{
		byte((prefix&0b1111_1100)>>2) | 0b0100_0000,
		byte(prefix>>8) | byte((prefix&0b0000_0011)<<6),
	}
}

func checksumLength(rawLen int) int {
	if rawLen == 32 || rawLen == 33 {
		return 2
	}
	return 1
}

func ss58Checksum(input []byte) [blake2b.Size]byte {
	buf := make([]byte, 0, len(ss58Preimage)+len(input))
	buf = append(buf, ss58Preimage...)
	buf = append(buf, input...)
	return blake2b.Sum512(buf)
}
