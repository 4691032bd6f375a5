package domain

import "errors"

var (
	// ErrUnknownEventKind is returned when no decoder is registered for an event kind
	ErrUnknownEventKind = errors.New("unknown event kind")

	// ErrUnsupportedVersion is returned when an event kind has no layout for the declared schema version
	ErrUnsupportedVersion = errors.New("unsupported schema version")

	// ErrMalformedPayload is returned when a payload does not match the layout of its schema version
	ErrMalformedPayload = errors.New("malformed event payload")

	// ErrMissingParent is returned when an entity that must already exist is not found
	ErrMissingParent = errors.New("required parent entity not found")

	// ErrLedgerRowNotFound is returned when a settlement event cannot find the ledger row it settles
	ErrLedgerRowNotFound = errors.New("ledger row not found")

	// ErrInvalidAddress is returned when raw address bytes have an unsupported length
	ErrInvalidAddress = errors.New("invalid address length")
)
