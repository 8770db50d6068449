// Package hash provides the block checksum of the snapshot format.
//
// Every compressed block is followed by the CRC32-Castagnoli (CRC32C)
// checksum of its stored bytes. CRC32C is hardware accelerated on x86
// (SSE4.2) and ARM64 (CRC extension) and detects all burst errors up to
// 32 bits.
//
//	sum := hash.CRC32C(stored)
//	if err := hash.Verify(stored, sum); err != nil { ... }
package hash
