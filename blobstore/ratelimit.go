package blobstore

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// RateLimitedStore wraps a BlobStore and limits the bytes per second moved
// through it in either direction.
type RateLimitedStore struct {
	inner   BlobStore
	limiter *rate.Limiter
}

// NewRateLimitedStore limits inner to bytesPerSec. The burst equals one
// second of traffic; larger reads and writes are split into burst-sized
// waits. A non-positive bytesPerSec disables limiting.
func NewRateLimitedStore(inner BlobStore, bytesPerSec int) *RateLimitedStore {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if bytesPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec)
	}
	return &RateLimitedStore{
		inner:   inner,
		limiter: limiter,
	}
}

// wait blocks until n bytes are admitted.
func (s *RateLimitedStore) wait(ctx context.Context, n int) error {
	if s.limiter.Limit() == rate.Inf {
		return ctx.Err()
	}
	burst := s.limiter.Burst()
	for n > 0 {
		chunk := min(n, burst)
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Open opens a blob whose reads are rate limited.
func (s *RateLimitedStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &limitedBlob{Blob: b, store: s}, nil
}

// Create creates a blob whose writes are rate limited. Writes wait on ctx.
func (s *RateLimitedStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &limitedWritableBlob{WritableBlob: w, store: s, ctx: ctx}, nil
}

// Put waits for len(data) bytes, then writes the blob.
func (s *RateLimitedStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.wait(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob. It is not rate limited.
func (s *RateLimitedStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List is not rate limited.
func (s *RateLimitedStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type limitedBlob struct {
	Blob
	store *RateLimitedStore
}

func (b *limitedBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.store.wait(ctx, len(p)); err != nil {
		return 0, err
	}
	return b.Blob.ReadAt(ctx, p, off)
}

type limitedWritableBlob struct {
	WritableBlob
	store *RateLimitedStore
	ctx   context.Context
}

func (w *limitedWritableBlob) Write(p []byte) (int, error) {
	if err := w.store.wait(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.WritableBlob.Write(p)
}

// Abort forwards to the wrapped blob. It returns errors.ErrUnsupported if
// that blob cannot abort.
func (w *limitedWritableBlob) Abort() error {
	if a, ok := w.WritableBlob.(Aborter); ok {
		return a.Abort()
	}
	return errors.ErrUnsupported
}
