package decoder

import (
	"fmt"
	"slices"

	"github.com/feral-file/ff-uniques-indexer/internal/domain"
)

var (
	// Assets and Balances layouts did not change with the collection/item rename
	fungibleVersions = []domain.SchemaVersion{domain.SchemaV1, domain.SchemaV700}
	// Uniques kinds that predate the rename
	classicVersions = []domain.SchemaVersion{domain.SchemaV1, domain.SchemaV700, domain.SchemaV9230}
	// Uniques kinds dropped by the rename
	preRenameVersions = []domain.SchemaVersion{domain.SchemaV1, domain.SchemaV700}
	// Uniques kinds introduced with the rename
	renamedVersions = []domain.SchemaVersion{domain.SchemaV9230}
	// Uniques marketplace kinds
	marketVersions = []domain.SchemaVersion{domain.SchemaV9270}
)

// Error describes an event that could not be decoded
type Error struct {
	Kind    domain.EventKind
	Version domain.SchemaVersion
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("decode %s (version %d): %v", e.Kind, e.Version, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type layoutKey struct {
	kind    domain.EventKind
	version domain.SchemaVersion
}

// layout lists the field names in positional order and builds the normalized event
type layout struct {
	fields []string
	build  func(r *fieldReader) Event
}

// Decoder turns raw versioned payloads into normalized events.
// It holds no mutable state after construction and is safe for concurrent use.
type Decoder struct {
	prefix  uint16
	kinds   map[domain.EventKind]struct{}
	layouts map[layoutKey]layout
}

// New creates a decoder encoding addresses with the given SS58 network prefix
func New(prefix uint16) *Decoder {
	d := &Decoder{
		prefix:  prefix,
		kinds:   make(map[domain.EventKind]struct{}),
		layouts: make(map[layoutKey]layout),
	}
	registerAssets(d)
	registerUniques(d)
	registerBalances(d)
	return d
}

// register adds one layout for every listed version of a kind
func (d *Decoder) register(kind domain.EventKind, versions []domain.SchemaVersion, fields []string, build func(r *fieldReader) Event) {
	d.kinds[kind] = struct{}{}
	for _, version := range versions {
		d.layouts[layoutKey{kind: kind, version: version}] = layout{fields: fields, build: build}
	}
}

// Decode normalizes a raw payload.
// Only an exact (kind, version) match is decoded; nothing is inferred from neighbouring versions.
func (d *Decoder) Decode(kind domain.EventKind, version domain.SchemaVersion, payload []byte) (Event, error) {
	if _, ok := d.kinds[kind]; !ok {
		return nil, &Error{Kind: kind, Version: version, Err: domain.ErrUnknownEventKind}
	}

	l, ok := d.layouts[layoutKey{kind: kind, version: version}]
	if !ok {
		return nil, &Error{Kind: kind, Version: version, Err: domain.ErrUnsupportedVersion}
	}

	r, err := newFieldReader(version, payload, l.fields, d.prefix)
	if err != nil {
		return nil, &Error{Kind: kind, Version: version, Err: err}
	}

	event := l.build(r)
	if err := r.Err(); err != nil {
		return nil, &Error{Kind: kind, Version: version, Err: err}
	}

	return event, nil
}

// Supports reports whether the kind has at least one known layout
func (d *Decoder) Supports(kind domain.EventKind) bool {
	_, ok := d.kinds[kind]
	return ok
}

// Versions returns the schema versions known for a kind in ascending order
func (d *Decoder) Versions(kind domain.EventKind) []domain.SchemaVersion {
	var versions []domain.SchemaVersion
	for key := range d.layouts {
		if key.kind == kind {
			versions = append(versions, key.version)
		}
	}
	slices.Sort(versions)
	return versions
}

// Kinds returns every kind the decoder knows
func (d *Decoder) Kinds() []domain.EventKind {
	kinds := make([]domain.EventKind, 0, len(d.kinds))
	for kind := range d.kinds {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}
