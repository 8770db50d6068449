// Package blobstore provides the storage abstraction snapshots are saved to.
//
// A blob is an immutable, named byte sequence. Implementations must be safe
// for concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-memory, for tests
//   - LocalStore: local filesystem with atomic writes and mmap reads
//   - RateLimitedStore: wraps any store with a byte-rate limit
//   - minio.Store: MinIO and other S3-compatible object stores
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//
// # Custom Implementations
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)           // Open for reading
//	    Create(ctx, name) (WritableBlob, error) // Create for streaming writes
//	    Put(ctx, name, data) error              // Atomic write
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// A Blob that can expose its whole contents without copying implements
// Mappable; snapshot loading uses it when available.
package blobstore
