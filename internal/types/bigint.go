package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/big"
)

// BigInt is an arbitrary precision integer persisted as numeric(78,0).
// Arithmetic returns new values; the receiver is never mutated.
type BigInt struct {
	i *big.Int
}

// NewBigInt creates a BigInt from an int64
func NewBigInt(v int64) BigInt {
	return BigInt{i: big.NewInt(v)}
}

// BigIntFrom creates a BigInt holding a copy of v
func BigIntFrom(v *big.Int) BigInt {
	if v == nil {
		return BigInt{}
	}
	return BigInt{i: new(big.Int).Set(v)}
}

// ParseBigInt parses a base 10 integer
func ParseBigInt(s string) (BigInt, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return BigInt{}, fmt.Errorf("invalid integer %q", s)
	}
	return BigInt{i: v}, nil
}

// MustBigInt parses a base 10 integer and panics on failure
func MustBigInt(s string) BigInt {
	v, err := ParseBigInt(s)
	if err != nil {
		panic(err)
	}
	return v
}

// BigIntPtr returns a pointer to a copy of v
func BigIntPtr(v BigInt) *BigInt {
	return &v
}

// Int returns a copy of the underlying value
func (b BigInt) Int() *big.Int {
	if b.i == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(b.i)
}

// Add returns b + o
func (b BigInt) Add(o BigInt) BigInt {
	return BigInt{i: new(big.Int).Add(b.Int(), o.Int())}
}

// Sub returns b - o
func (b BigInt) Sub(o BigInt) BigInt {
	return BigInt{i: new(big.Int).Sub(b.Int(), o.Int())}
}

// Cmp compares b and o
func (b BigInt) Cmp(o BigInt) int {
	return b.Int().Cmp(o.Int())
}

// Sign returns -1, 0 or +1
func (b BigInt) Sign() int {
	if b.i == nil {
		return 0
	}
	return b.i.Sign()
}

// IsZero reports whether the value is zero
func (b BigInt) IsZero() bool {
	return b.Sign() == 0
}

// String returns the base 10 representation
func (b BigInt) String() string {
	if b.i == nil {
		return "0"
	}
	return b.i.String()
}

// Value implements driver.Valuer
func (b BigInt) Value() (driver.Value, error) {
	return b.String(), nil
}

// Scan implements sql.Scanner
func (b *BigInt) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		b.i = new(big.Int)
		return nil
	case string:
		return b.setString(v)
	case []byte:
		return b.setString(string(v))
	case int64:
		b.i = big.NewInt(v)
		return nil
	default:
		return fmt.Errorf("cannot scan %T into BigInt", src)
	}
}

// MarshalJSON encodes the value as a JSON string
func (b BigInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON accepts a JSON string or number
func (b *BigInt) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return b.setString(s)
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid integer: %w", err)
	}
	return b.setString(n.String())
}

func (b *BigInt) setString(s string) error {
	v, err := ParseBigInt(s)
	if err != nil {
		return err
	}
	b.i = v.i
	return nil
}
