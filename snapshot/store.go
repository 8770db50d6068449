package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/hupe1980/bucketvec/blobstore"
)

// Save encodes seq into the blob called name. The blob only becomes visible
// once the snapshot is complete; on failure the partial blob is aborted or
// deleted.
func Save[T any](ctx context.Context, store blobstore.BlobStore, name string, seq Sequence[T], opts ...Option) (int64, error) {
	o := buildOptions(opts)

	w, err := store.Create(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("snapshot: create %s: %w", name, err)
	}

	n, err := Encode(ctx, w, seq, opts...)
	if err == nil {
		err = w.Sync()
	}
	if err != nil {
		if derr := discard(ctx, store, name, w); derr != nil {
			err = errors.Join(err, derr)
		}
		o.logger.ErrorContext(ctx, "snapshot save failed", "name", name, "error", err)
		return n, err
	}

	if err := w.Close(); err != nil {
		o.logger.ErrorContext(ctx, "snapshot save failed", "name", name, "error", err)
		return n, fmt.Errorf("snapshot: commit %s: %w", name, err)
	}

	o.logger.InfoContext(ctx, "snapshot saved",
		"name", name,
		"elements", seq.Len(),
		"bytes", n,
		"codec", o.codec.Name(),
		"compression", o.compression.String(),
	)
	return n, nil
}

func discard(ctx context.Context, store blobstore.BlobStore, name string, w blobstore.WritableBlob) error {
	if a, ok := w.(blobstore.Aborter); ok {
		if err := a.Abort(); err == nil {
			return nil
		}
	}
	// Without abort support the partial blob is committed, then removed.
	_ = w.Close()
	return store.Delete(context.WithoutCancel(ctx), name)
}

// Load decodes the blob called name and appends its elements to dst.
// Blobs that support memory mapping are decoded straight from the mapping.
func Load[T any](ctx context.Context, store blobstore.BlobStore, name string, dst Appender[T], opts ...Option) (int, error) {
	o := buildOptions(opts)

	blob, err := store.Open(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("snapshot: open %s: %w", name, err)
	}
	defer blob.Close()

	var r io.Reader
	if m, ok := blob.(blobstore.Mappable); ok {
		if data, err := m.Bytes(); err == nil {
			r = bytes.NewReader(data)
		}
	}
	if r == nil {
		r = blobstore.NewReader(ctx, blob)
	}

	n, err := Decode(ctx, r, dst, opts...)
	if err != nil {
		o.logger.ErrorContext(ctx, "snapshot load failed", "name", name, "elements", n, "error", err)
		return n, fmt.Errorf("snapshot: load %s: %w", name, err)
	}

	o.logger.InfoContext(ctx, "snapshot loaded", "name", name, "elements", n, "bytes", blob.Size())
	return n, nil
}
