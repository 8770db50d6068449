package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/hupe1980/bucketvec/blobstore"
	"github.com/minio/minio-go/v7"
)

var errUploadAborted = errors.New("minio: upload aborted")

// Store keeps snapshot blobs as objects under a common key prefix.
type Store struct {
	client *minio.Client
	bucket string
	prefix string
}

// NewStore returns a Store for bucket. Object keys are rootPrefix joined with
// the blob name, e.g. "snapshots/ids.bvec".
func NewStore(client *minio.Client, bucket, rootPrefix string) *Store {
	return &Store{client: client, bucket: bucket, prefix: rootPrefix}
}

func (s *Store) key(name string) string { return path.Join(s.prefix, name) }

// relName turns an object key back into a blob name.
func relName(key, rootPrefix string) string {
	return strings.TrimPrefix(strings.TrimPrefix(key, rootPrefix), "/")
}

func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NotFound":
		return true
	}
	return false
}

// byteRange clamps a read of n bytes at off to an object of size bytes and
// returns the inclusive range for a ranged GET.
func byteRange(off int64, n int, size int64) (first, last int64, ok bool) {
	if n == 0 || off < 0 || off >= size {
		return 0, 0, false
	}
	return off, min(off+int64(n), size) - 1, true
}

// Open stats the object; reads are served by ranged GETs.
func (s *Store) Open(ctx context.Context, name string) (blobstore.Blob, error) {
	key := s.key(name)
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	switch {
	case isNotFound(err):
		return nil, blobstore.ErrNotFound
	case err != nil:
		return nil, err
	}
	return &object{client: s.client, bucket: s.bucket, key: key, size: info.Size}, nil
}

// Put uploads data in a single request.
func (s *Store) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(name), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	return err
}

// Create streams writes into a multipart upload through a pipe. The object
// appears once Close returns nil; Abort cancels the upload.
func (s *Store) Create(ctx context.Context, name string) (blobstore.WritableBlob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	pr, pw := io.Pipe()
	u := &upload{pw: pw, cancel: cancel, done: make(chan error, 1)}

	go func() {
		_, err := s.client.PutObject(ctx, s.bucket, s.key(name), pr, -1, minio.PutObjectOptions{})
		_ = pr.CloseWithError(err)
		u.done <- err
	}()
	return u, nil
}

// Delete removes the object. A missing object is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	err := s.client.RemoveObject(ctx, s.bucket, s.key(name), minio.RemoveObjectOptions{})
	if err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

// List returns the sorted blob names starting with prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	opts := minio.ListObjectsOptions{Prefix: s.key(prefix), Recursive: true}

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, opts) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		// path.Join drops a trailing slash of prefix, so filter again.
		if name := relName(obj.Key, s.prefix); name != "" && strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names, nil
}

type object struct {
	client *minio.Client
	bucket string
	key    string
	size   int64
}

func (o *object) Size() int64  { return o.size }
func (o *object) Close() error { return nil }

func (o *object) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	first, last, ok := byteRange(off, len(p), o.size)
	if !ok {
		return 0, io.EOF
	}

	var opts minio.GetObjectOptions
	if err := opts.SetRange(first, last); err != nil {
		return 0, err
	}
	r, err := o.client.GetObject(ctx, o.bucket, o.key, opts)
	if err != nil {
		return 0, err
	}
	defer r.Close()

	n, err := io.ReadFull(r, p[:last-first+1])
	if err == nil && n < len(p) {
		err = io.EOF
	}
	return n, err
}

type upload struct {
	pw     *io.PipeWriter
	cancel context.CancelFunc
	done   chan error

	once sync.Once
	err  error
}

func (u *upload) Write(p []byte) (int, error) { return u.pw.Write(p) }

func (u *upload) Sync() error { return nil }

func (u *upload) Close() error {
	u.once.Do(func() {
		u.err = u.pw.Close()
		if err := <-u.done; u.err == nil {
			u.err = err
		}
		u.cancel()
	})
	return u.err
}

func (u *upload) Abort() error {
	u.once.Do(func() {
		_ = u.pw.CloseWithError(errUploadAborted)
		u.cancel()
		<-u.done
	})
	return nil
}
