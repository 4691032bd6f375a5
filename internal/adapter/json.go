package adapter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// JSON defines an interface for block (de)serialization to enable mocking
//
//go:generate mockgen -source=json.go -destination=../mocks/json.go -package=mocks -mock_names=JSON=MockJSON
type JSON interface {
	Marshal(v interface{}) ([]byte, error)
	Unmarshal(data []byte, v interface{}) error
}

type stdJSON struct {
	strict bool
}

// NewJSON creates a JSON codec backed by encoding/json
func NewJSON() JSON {
	return &stdJSON{}
}

// NewStrictJSON creates a JSON codec that rejects unknown fields and trailing data.
// Hand-written block files go through it so that a misspelled field is an error instead of a zero value.
func NewStrictJSON() JSON {
	return &stdJSON{strict: true}
}

func (j *stdJSON) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (j *stdJSON) Unmarshal(data []byte, v interface{}) error {
	if !j.strict {
		return json.Unmarshal(data, v)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}
