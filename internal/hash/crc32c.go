package hash

import (
	"fmt"
	"hash"
	"hash/crc32"
)

// crc32cTable is pre-computed for CRC32-Castagnoli polynomial.
var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32 for streaming input.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// MismatchError reports a checksum that does not match its data.
type MismatchError struct {
	Want, Got uint32
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: want %08x, got %08x", e.Want, e.Got)
}

// Verify returns a *MismatchError if the checksum of data is not want.
func Verify(data []byte, want uint32) error {
	if got := CRC32C(data); got != want {
		return &MismatchError{Want: want, Got: got}
	}
	return nil
}
