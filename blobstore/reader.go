package blobstore

import (
	"context"
	"io"
)

// NewReader returns an io.Reader over the whole blob. Every Read is a
// ReadAt call with ctx, so cancelling ctx aborts a long sequential read.
func NewReader(ctx context.Context, blob Blob) io.Reader {
	return &reader{ctx: ctx, blob: blob, limit: blob.Size()}
}

type reader struct {
	ctx   context.Context
	blob  Blob
	off   int64
	limit int64
}

func (r *reader) Read(p []byte) (int, error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}

	n, err := r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	if err == io.EOF && n > 0 {
		err = nil
	}
	return n, err
}
