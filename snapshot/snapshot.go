package snapshot

import (
	"bufio"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/hupe1980/bucketvec/codec"
	"github.com/hupe1980/bucketvec/internal/conv"
	"github.com/hupe1980/bucketvec/internal/hash"
	"golang.org/x/sync/errgroup"
)

const (
	magic         = "BVEC"
	formatVersion = 1

	// maxBlockBytes bounds the declared size of a single block.
	maxBlockBytes = 1 << 30
)

// Sequence is a source of elements with a known length, such as
// *bucketvec.Vec.
type Sequence[T any] interface {
	Len() int
	Values() iter.Seq[T]
}

// Appender receives decoded elements in order, such as *bucketvec.Vec.
type Appender[T any] interface {
	Append(values ...T)
}

// Header describes a snapshot.
type Header struct {
	Version     uint8
	Compression Compression
	Codec       string
	Count       int
	BlockSize   int
}

// Blocks returns the number of blocks that follow the header.
func (h Header) Blocks() int {
	if h.Count == 0 {
		return 0
	}
	return (h.Count-1)/h.BlockSize + 1
}

func (h Header) appendTo(dst []byte) ([]byte, error) {
	count, err := conv.IntToUint64(h.Count)
	if err != nil {
		return nil, err
	}
	blockSize, err := conv.IntToUint64(h.BlockSize)
	if err != nil {
		return nil, err
	}

	dst = append(dst, magic...)
	dst = append(dst, h.Version, byte(h.Compression), byte(len(h.Codec)))
	dst = append(dst, h.Codec...)
	dst = binary.AppendUvarint(dst, count)
	dst = binary.AppendUvarint(dst, blockSize)
	return dst, nil
}

// ReadHeader reads and validates the header of a snapshot. r may be read
// beyond the end of the header.
func ReadHeader(r io.Reader) (Header, error) {
	return readHeader(bufio.NewReader(r))
}

func readHeader(br *bufio.Reader) (Header, error) {
	var fixed [7]byte
	if _, err := io.ReadFull(br, fixed[:]); err != nil {
		return Header{}, corrupt(err)
	}
	if string(fixed[:4]) != magic {
		return Header{}, fmt.Errorf("%w: bad magic %q", ErrCorrupt, fixed[:4])
	}

	h := Header{
		Version:     fixed[4],
		Compression: Compression(fixed[5]),
	}
	if h.Version != formatVersion {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}
	if !h.Compression.valid() {
		return Header{}, fmt.Errorf("%w: %d", ErrUnknownCompression, fixed[5])
	}

	name := make([]byte, fixed[6])
	if _, err := io.ReadFull(br, name); err != nil {
		return Header{}, corrupt(err)
	}
	h.Codec = string(name)

	var err error
	if h.Count, err = readInt(br); err != nil {
		return Header{}, err
	}
	if h.BlockSize, err = readInt(br); err != nil {
		return Header{}, err
	}
	if h.BlockSize < 1 {
		return Header{}, fmt.Errorf("%w: block size %d", ErrCorrupt, h.BlockSize)
	}
	return h, nil
}

func readInt(br *bufio.Reader) (int, error) {
	vr := varintReader{br: br}
	u, err := binary.ReadUvarint(&vr)
	if err != nil {
		if vr.err != nil && !errors.Is(vr.err, io.EOF) {
			return 0, vr.err
		}
		// Truncated or overlong varint.
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	v, err := conv.Uint64ToInt(u)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return v, nil
}

// varintReader remembers the last error of the underlying reader so
// readInt can tell I/O failures from malformed varints.
type varintReader struct {
	br  *bufio.Reader
	err error
}

func (r *varintReader) ReadByte() (byte, error) {
	b, err := r.br.ReadByte()
	if err != nil {
		r.err = err
	}
	return b, err
}

// corrupt maps truncation to ErrCorrupt and passes other errors through.
func corrupt(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %w", ErrCorrupt, io.ErrUnexpectedEOF)
	}
	return err
}

func resolveCodec(name string, configured codec.Codec) (codec.Codec, error) {
	if configured != nil && configured.Name() == name {
		return configured, nil
	}
	if c, ok := codec.ByName(name); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

// Encode writes seq to w and returns the number of bytes written.
//
// seq must not change while it is encoded. Blocks are marshalled and
// compressed by up to WithConcurrency goroutines.
func Encode[T any](ctx context.Context, w io.Writer, seq Sequence[T], opts ...Option) (n int64, err error) {
	o := buildOptions(opts)
	start := time.Now()

	var elements int
	defer func() {
		o.metrics.RecordSnapshotSave(elements, n, time.Since(start), err)
		o.logger.DebugContext(ctx, "snapshot encoded",
			"elements", elements,
			"bytes", n,
			"duration", time.Since(start),
			"error", err,
		)
	}()

	cw := &countingWriter{w: w}
	elements, err = encode(ctx, cw, seq, o)
	return cw.n, err
}

type encodedBlock struct {
	rawLen     int
	stored     []byte
	compressed bool
	sum        uint32
}

func encodeBlock[T any](o *options, block []T) (encodedBlock, error) {
	raw, err := o.codec.Marshal(block)
	if err != nil {
		return encodedBlock{}, fmt.Errorf("snapshot: marshal block: %w", err)
	}
	if len(raw) > maxBlockBytes {
		return encodedBlock{}, fmt.Errorf("snapshot: block of %d bytes exceeds %d, use a smaller block size", len(raw), maxBlockBytes)
	}

	stored, compressed, err := compress(o.compression, raw)
	if err != nil {
		return encodedBlock{}, err
	}
	return encodedBlock{
		rawLen:     len(raw),
		stored:     stored,
		compressed: compressed,
		sum:        hash.CRC32C(stored),
	}, nil
}

func (b encodedBlock) writeTo(w io.Writer) error {
	var storedLen int
	if b.compressed {
		storedLen = len(b.stored)
	}

	hdr := make([]byte, 0, 2*binary.MaxVarintLen64+4)
	hdr = binary.AppendUvarint(hdr, uint64(b.rawLen))
	hdr = binary.AppendUvarint(hdr, uint64(storedLen))
	hdr = binary.LittleEndian.AppendUint32(hdr, b.sum)

	if _, err := w.Write(hdr); err != nil {
		return err
	}
	_, err := w.Write(b.stored)
	return err
}

func encode[T any](ctx context.Context, w io.Writer, seq Sequence[T], o options) (int, error) {
	if !o.compression.valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(o.compression))
	}
	name := o.codec.Name()
	if name == "" || len(name) > 255 {
		return 0, fmt.Errorf("%w: invalid name %q", ErrUnknownCodec, name)
	}

	count := seq.Len()
	h := Header{
		Version:     formatVersion,
		Compression: o.compression,
		Codec:       name,
		Count:       count,
		BlockSize:   o.blockSize,
	}
	hdr, err := h.appendTo(nil)
	if err != nil {
		return 0, err
	}

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(hdr); err != nil {
		return 0, err
	}

	batch := make([][]T, 0, o.concurrency)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		encoded := make([]encodedBlock, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, block := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				var err error
				encoded[i], err = encodeBlock(&o, block)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		// Output order is element order regardless of completion order.
		for _, b := range encoded {
			if err := b.writeTo(bw); err != nil {
				return err
			}
		}
		batch = batch[:0]
		return nil
	}

	written := 0
	block := make([]T, 0, min(o.blockSize, count))
	for v := range seq.Values() {
		if written == count {
			return written, ErrLengthMismatch
		}
		block = append(block, v)
		written++

		if len(block) == o.blockSize {
			batch = append(batch, block)
			block = make([]T, 0, min(o.blockSize, count-written))
			if len(batch) == o.concurrency {
				if err := flush(); err != nil {
					return written, err
				}
			}
		}
	}
	if written != count {
		return written, ErrLengthMismatch
	}
	if len(block) > 0 {
		batch = append(batch, block)
	}
	if err := flush(); err != nil {
		return written, err
	}

	return written, bw.Flush()
}

// Decode reads a snapshot from r and appends its elements to dst in order.
// It returns the number of elements appended.
//
// The codec and compression are taken from the header. If an error occurs
// after some blocks were decoded, dst keeps the elements appended so far.
func Decode[T any](ctx context.Context, r io.Reader, dst Appender[T], opts ...Option) (n int, err error) {
	o := buildOptions(opts)
	start := time.Now()
	cr := &countingReader{r: r}

	defer func() {
		o.metrics.RecordSnapshotLoad(n, cr.n, time.Since(start), err)
		o.logger.DebugContext(ctx, "snapshot decoded",
			"elements", n,
			"bytes", cr.n,
			"duration", time.Since(start),
			"error", err,
		)
	}()

	return decode(ctx, bufio.NewReader(cr), dst, o)
}

type storedBlock struct {
	index      int
	want       int
	rawLen     int
	stored     []byte
	compressed bool
	sum        uint32
}

func readBlock(br *bufio.Reader, index, want int) (storedBlock, error) {
	rawLen, err := readInt(br)
	if err != nil {
		return storedBlock{}, err
	}
	storedLen, err := readInt(br)
	if err != nil {
		return storedBlock{}, err
	}
	if rawLen > maxBlockBytes || storedLen > maxBlockBytes {
		return storedBlock{}, fmt.Errorf("%w: block %d: length out of range", ErrCorrupt, index)
	}

	var sum [4]byte
	if _, err := io.ReadFull(br, sum[:]); err != nil {
		return storedBlock{}, corrupt(err)
	}

	b := storedBlock{
		index:      index,
		want:       want,
		rawLen:     rawLen,
		compressed: storedLen != 0,
		sum:        binary.LittleEndian.Uint32(sum[:]),
	}

	size := rawLen
	if b.compressed {
		size = storedLen
	}
	// Memory grows with the bytes actually present, not the declared size.
	stored, err := io.ReadAll(io.LimitReader(br, int64(size)))
	if err != nil {
		return storedBlock{}, err
	}
	if len(stored) < size {
		return storedBlock{}, fmt.Errorf("%w: block %d: %w", ErrCorrupt, index, io.ErrUnexpectedEOF)
	}
	b.stored = stored
	return b, nil
}

func decodeBlock[T any](c Compression, cd codec.Codec, b storedBlock) ([]T, error) {
	if err := hash.Verify(b.stored, b.sum); err != nil {
		return nil, fmt.Errorf("%w: block %d: %w", ErrChecksumMismatch, b.index, err)
	}

	raw := b.stored
	if b.compressed {
		var err error
		if raw, err = decompress(c, b.stored, b.rawLen); err != nil {
			return nil, fmt.Errorf("block %d: %w", b.index, err)
		}
	}

	var values []T
	if err := cd.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("%w: block %d: %w", ErrCorrupt, b.index, err)
	}
	if len(values) != b.want {
		return nil, fmt.Errorf("%w: block %d holds %d elements, want %d", ErrCorrupt, b.index, len(values), b.want)
	}
	return values, nil
}

func decode[T any](ctx context.Context, br *bufio.Reader, dst Appender[T], o options) (int, error) {
	h, err := readHeader(br)
	if err != nil {
		return 0, err
	}
	cd, err := resolveCodec(h.Codec, o.codec)
	if err != nil {
		return 0, err
	}

	decoded := 0
	batch := make([]storedBlock, 0, o.concurrency)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}

		out := make([][]T, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		for i, b := range batch {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				var err error
				out[i], err = decodeBlock[T](h.Compression, cd, b)
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, values := range out {
			dst.Append(values...)
			decoded += len(values)
		}
		batch = batch[:0]
		return nil
	}

	remaining := h.Count
	for i := range h.Blocks() {
		if err := ctx.Err(); err != nil {
			return decoded, err
		}

		want := min(h.BlockSize, remaining)
		remaining -= want

		b, err := readBlock(br, i, want)
		if err != nil {
			return decoded, err
		}
		batch = append(batch, b)
		if len(batch) == o.concurrency {
			if err := flush(); err != nil {
				return decoded, err
			}
		}
	}
	if err := flush(); err != nil {
		return decoded, err
	}

	if _, err := br.ReadByte(); err == nil {
		return decoded, fmt.Errorf("%w: trailing data after last block", ErrCorrupt)
	} else if !errors.Is(err, io.EOF) {
		return decoded, err
	}
	return decoded, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
