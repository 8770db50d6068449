package snapshot

import (
	"errors"
	"fmt"
)

var (
	// ErrCorrupt is returned when a snapshot is truncated or malformed.
	ErrCorrupt = errors.New("snapshot: corrupt data")
	// ErrChecksumMismatch is returned when a block fails its CRC32C check.
	// It wraps ErrCorrupt.
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", ErrCorrupt)
	// ErrUnsupportedVersion is returned for snapshots of an unknown format version.
	ErrUnsupportedVersion = errors.New("snapshot: unsupported version")
	// ErrUnknownCodec is returned when the header names a codec that is not
	// registered with package codec.
	ErrUnknownCodec = errors.New("snapshot: unknown codec")
	// ErrUnknownCompression is returned for an unknown compression id.
	ErrUnknownCompression = errors.New("snapshot: unknown compression")
	// ErrLengthMismatch is returned by Encode when a sequence yields a
	// different number of elements than its Len reported.
	ErrLengthMismatch = errors.New("snapshot: sequence length changed during encode")
)
