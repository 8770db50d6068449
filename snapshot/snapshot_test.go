package snapshot_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"iter"
	"runtime"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/hupe1980/bucketvec"
	"github.com/hupe1980/bucketvec/codec"
	"github.com/hupe1980/bucketvec/internal/hash"
	"github.com/hupe1980/bucketvec/metrics"
	"github.com/hupe1980/bucketvec/snapshot"
	"github.com/hupe1980/bucketvec/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ snapshot.Sequence[int] = (*bucketvec.Vec[int])(nil)
	_ snapshot.Appender[int] = (*bucketvec.Vec[int])(nil)
)

type point struct {
	X, Y int
	Tag  string
}

func encodeVec[T any](t *testing.T, v *bucketvec.Vec[T], opts ...snapshot.Option) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := snapshot.Encode(context.Background(), &buf, v, opts...)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	rng := testutil.NewRNG(7)
	ints := rng.Ints(2_500, 1_000_000)

	compressions := []snapshot.Compression{
		snapshot.CompressionNone,
		snapshot.CompressionLZ4,
		snapshot.CompressionZSTD,
	}
	codecs := []codec.Codec{codec.JSON{}, codec.GoJSON{}}

	for _, c := range compressions {
		for _, cd := range codecs {
			t.Run(c.String()+"/"+cd.Name(), func(t *testing.T) {
				src, err := bucketvec.FromSlice(ints, bucketvec.WithStartCapacity(3), bucketvec.WithGrowthRate(1.5))
				require.NoError(t, err)

				data := encodeVec(t, src,
					snapshot.WithCompression(c),
					snapshot.WithCodec(cd),
					snapshot.WithBlockSize(100),
				)

				// Different policy on the receiving side.
				dst := bucketvec.MustNew[int](bucketvec.WithStartCapacity(16), bucketvec.WithGrowthRate(1))
				n, err := snapshot.Decode(context.Background(), bytes.NewReader(data), dst)
				require.NoError(t, err)
				assert.Equal(t, len(ints), n)
				assert.True(t, bucketvec.Equal(src, dst))
			})
		}
	}
}

func TestRoundTrip_Structs(t *testing.T) {
	src := bucketvec.MustNew[point]()
	for i := range 300 {
		src.Push(point{X: i, Y: -i, Tag: strings.Repeat("p", i%5)})
	}

	data := encodeVec(t, src, snapshot.WithBlockSize(64), snapshot.WithCompression(snapshot.CompressionZSTD))

	dst := bucketvec.MustNew[point]()
	n, err := snapshot.Decode(context.Background(), bytes.NewReader(data), dst)
	require.NoError(t, err)
	assert.Equal(t, 300, n)
	assert.Equal(t, slices.Collect(src.Values()), slices.Collect(dst.Values()))
}

func TestRoundTrip_Empty(t *testing.T) {
	src := bucketvec.MustNew[string]()
	data := encodeVec(t, src)

	h, err := snapshot.ReadHeader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, 0, h.Count)
	assert.Equal(t, 0, h.Blocks())

	dst := bucketvec.MustNew[string]()
	n, err := snapshot.Decode(context.Background(), bytes.NewReader(data), dst)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.True(t, dst.IsEmpty())
}

func TestRoundTrip_ConcurrencyKeepsOrder(t *testing.T) {
	src, err := bucketvec.FromSlice(testutil.NewRNG(1).Perm(1_000))
	require.NoError(t, err)

	data := encodeVec(t, src, snapshot.WithBlockSize(7), snapshot.WithConcurrency(3))

	dst := bucketvec.MustNew[int]()
	_, err = snapshot.Decode(context.Background(), bytes.NewReader(data), dst, snapshot.WithConcurrency(5))
	require.NoError(t, err)
	assert.True(t, bucketvec.Equal(src, dst))
}

func TestReadHeader(t *testing.T) {
	src, err := bucketvec.FromSlice([]int{1, 2, 3, 4, 5})
	require.NoError(t, err)

	data := encodeVec(t, src,
		snapshot.WithBlockSize(2),
		snapshot.WithCodec(codec.GoJSON{}),
		snapshot.WithCompression(snapshot.CompressionZSTD),
	)

	h, err := snapshot.ReadHeader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, snapshot.Header{
		Version:     1,
		Compression: snapshot.CompressionZSTD,
		Codec:       "go-json",
		Count:       5,
		BlockSize:   2,
	}, h)
	assert.Equal(t, 3, h.Blocks())
}

func TestCompression_ShrinksRepetitiveData(t *testing.T) {
	src, err := bucketvec.FromSlice(make([]int, 5_000))
	require.NoError(t, err)

	plain := encodeVec(t, src, snapshot.WithCompression(snapshot.CompressionNone))
	lz4 := encodeVec(t, src, snapshot.WithCompression(snapshot.CompressionLZ4))
	zstd := encodeVec(t, src, snapshot.WithCompression(snapshot.CompressionZSTD))

	assert.Less(t, len(lz4), len(plain))
	assert.Less(t, len(zstd), len(plain))
}

func TestDecode_Errors(t *testing.T) {
	src, err := bucketvec.FromSlice([]int{10, 20, 30, 40, 50, 60})
	require.NoError(t, err)
	valid := encodeVec(t, src, snapshot.WithBlockSize(4), snapshot.WithCompression(snapshot.CompressionNone))

	tests := []struct {
		name   string
		mutate func([]byte) []byte
		want   error
	}{
		{"empty input", func([]byte) []byte { return nil }, snapshot.ErrCorrupt},
		{"bad magic", func(b []byte) []byte { b[0] = 'X'; return b }, snapshot.ErrCorrupt},
		{"unsupported version", func(b []byte) []byte { b[4] = 9; return b }, snapshot.ErrUnsupportedVersion},
		{"unknown compression", func(b []byte) []byte { b[5] = 42; return b }, snapshot.ErrUnknownCompression},
		{"flipped payload byte", func(b []byte) []byte { b[len(b)-2] ^= 0xff; return b }, snapshot.ErrChecksumMismatch},
		{"truncated", func(b []byte) []byte { return b[:len(b)-3] }, snapshot.ErrCorrupt},
		{"trailing data", func(b []byte) []byte { return append(b, 0) }, snapshot.ErrCorrupt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(bytes.Clone(valid))
			dst := bucketvec.MustNew[int]()
			_, err := snapshot.Decode(context.Background(), bytes.NewReader(data), dst)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_ChecksumMismatchIsCorrupt(t *testing.T) {
	assert.ErrorIs(t, snapshot.ErrChecksumMismatch, snapshot.ErrCorrupt)
}

func TestDecode_KeepsPrefixOnError(t *testing.T) {
	src, err := bucketvec.FromSlice([]int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	data := encodeVec(t, src,
		snapshot.WithBlockSize(2),
		snapshot.WithConcurrency(1),
		snapshot.WithCompression(snapshot.CompressionNone),
	)

	dst := bucketvec.MustNew[int]()
	n, err := snapshot.Decode(context.Background(), bytes.NewReader(data[:len(data)-1]), dst, snapshot.WithConcurrency(1))
	require.ErrorIs(t, err, snapshot.ErrCorrupt)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int{1, 2, 3, 4}, slices.Collect(dst.Values()))
}

type upperCodec struct{}

func (upperCodec) Name() string { return "snapshot-test-upper" }

func (upperCodec) Marshal(v any) ([]byte, error) {
	b, err := json.Marshal(v)
	return bytes.ToUpper(b), err
}

func (upperCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(bytes.ToLower(data), v)
}

type registeredCodec struct{ upperCodec }

func (registeredCodec) Name() string { return "snapshot-test-registered" }

func TestCustomCodec(t *testing.T) {
	src, err := bucketvec.FromSlice([]string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	data := encodeVec(t, src, snapshot.WithCodec(upperCodec{}), snapshot.WithCompression(snapshot.CompressionNone))

	h, err := snapshot.ReadHeader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "snapshot-test-upper", h.Codec)

	t.Run("unregistered", func(t *testing.T) {
		_, err := snapshot.Decode(context.Background(), bytes.NewReader(data), bucketvec.MustNew[string]())
		assert.ErrorIs(t, err, snapshot.ErrUnknownCodec)
	})

	t.Run("passed as option", func(t *testing.T) {
		dst := bucketvec.MustNew[string]()
		_, err := snapshot.Decode(context.Background(), bytes.NewReader(data), dst, snapshot.WithCodec(upperCodec{}))
		require.NoError(t, err)
		assert.True(t, bucketvec.Equal(src, dst))
	})

	t.Run("registered", func(t *testing.T) {
		codec.Register(registeredCodec{})
		data := encodeVec(t, src, snapshot.WithCodec(registeredCodec{}))

		dst := bucketvec.MustNew[string]()
		_, err := snapshot.Decode(context.Background(), bytes.NewReader(data), dst)
		require.NoError(t, err)
		assert.True(t, bucketvec.Equal(src, dst))
	})
}

// lyingSeq reports a length that differs from what it yields.
type lyingSeq struct {
	n      int
	values []int
}

func (s lyingSeq) Len() int              { return s.n }
func (s lyingSeq) Values() iter.Seq[int] { return slices.Values(s.values) }

func TestEncode_LengthMismatch(t *testing.T) {
	for _, seq := range []lyingSeq{
		{n: 5, values: []int{1, 2, 3}},
		{n: 2, values: []int{1, 2, 3}},
	} {
		var buf bytes.Buffer
		_, err := snapshot.Encode(context.Background(), &buf, seq)
		assert.ErrorIs(t, err, snapshot.ErrLengthMismatch)
	}
}

func TestEncode_UnknownCompression(t *testing.T) {
	var buf bytes.Buffer
	_, err := snapshot.Encode(context.Background(), &buf, bucketvec.MustNew[int](), snapshot.WithCompression(99))
	assert.ErrorIs(t, err, snapshot.ErrUnknownCompression)
}

func TestEncode_Cancelled(t *testing.T) {
	src, err := bucketvec.FromSlice([]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err = snapshot.Encode(ctx, &buf, src, snapshot.WithBlockSize(3))
	assert.ErrorIs(t, err, context.Canceled)

	valid := encodeVec(t, src, snapshot.WithBlockSize(3))
	_, err = snapshot.Decode(ctx, bytes.NewReader(valid), bucketvec.MustNew[int]())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetrics(t *testing.T) {
	m := &metrics.Basic{}
	src, err := bucketvec.FromSlice([]int{1, 2, 3, 4, 5, 6, 7})
	require.NoError(t, err)

	data := encodeVec(t, src, snapshot.WithMetrics(m))
	_, err = snapshot.Decode(context.Background(), bytes.NewReader(data), bucketvec.MustNew[int](), snapshot.WithMetrics(m))
	require.NoError(t, err)
	_, err = snapshot.Decode(context.Background(), bytes.NewReader(data[:5]), bucketvec.MustNew[int](), snapshot.WithMetrics(m))
	require.Error(t, err)

	stats := m.Stats()
	assert.Equal(t, int64(1), stats.SaveCount)
	assert.Equal(t, int64(7), stats.SaveElements)
	assert.Equal(t, int64(len(data)), stats.SaveBytes)
	assert.Equal(t, int64(0), stats.SaveErrors)
	assert.Equal(t, int64(2), stats.LoadCount)
	assert.Equal(t, int64(1), stats.LoadErrors)
	assert.Equal(t, int64(7), stats.LoadElements)
	assert.Equal(t, int64(len(data)+5), stats.LoadBytes)
}

// rawHeader builds a header by hand so tests can declare arbitrary counts.
func rawHeader(c snapshot.Compression, count []byte) []byte {
	b := []byte("BVEC")
	b = append(b, 1, byte(c), byte(len("json")))
	b = append(b, "json"...)
	b = append(b, count...)
	return binary.AppendUvarint(b, 1)
}

func TestDecode_VarintOverflow(t *testing.T) {
	count := bytes.Repeat([]byte{0xff}, 10)
	data := rawHeader(snapshot.CompressionNone, count)

	_, err := snapshot.ReadHeader(bytes.NewReader(data))
	assert.True(t, errors.Is(err, snapshot.ErrCorrupt), "got %v", err)

	_, err = snapshot.Decode(context.Background(), bytes.NewReader(data), bucketvec.MustNew[int]())
	assert.ErrorIs(t, err, snapshot.ErrCorrupt)
}

func TestDecode_ReaderErrorIsNotCorrupt(t *testing.T) {
	boom := errors.New("boom")
	r := io.MultiReader(bytes.NewReader([]byte("BVEC\x01\x00\x04json")), iotest.ErrReader(boom))

	_, err := snapshot.ReadHeader(r)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, snapshot.ErrCorrupt)
}

func TestDecode_OversizedBlockFailsCheaply(t *testing.T) {
	data := rawHeader(snapshot.CompressionNone, binary.AppendUvarint(nil, 1))
	data = binary.AppendUvarint(data, 1<<30) // rawLen
	data = binary.AppendUvarint(data, 0)     // stored raw
	data = append(data, 0, 0, 0, 0)
	data = append(data, "[1]"...)

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := snapshot.Decode(context.Background(), bytes.NewReader(data), bucketvec.MustNew[int]())
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, snapshot.ErrCorrupt)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
}

func TestDecode_ImpossibleExpansion(t *testing.T) {
	for _, c := range []snapshot.Compression{snapshot.CompressionLZ4, snapshot.CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			stored := []byte("0123456789")

			data := rawHeader(c, binary.AppendUvarint(nil, 1))
			data = binary.AppendUvarint(data, 1<<30)
			data = binary.AppendUvarint(data, uint64(len(stored)))
			data = binary.LittleEndian.AppendUint32(data, hash.CRC32C(stored))
			data = append(data, stored...)

			var before, after runtime.MemStats
			runtime.ReadMemStats(&before)
			_, err := snapshot.Decode(context.Background(), bytes.NewReader(data), bucketvec.MustNew[int]())
			runtime.ReadMemStats(&after)

			require.ErrorIs(t, err, snapshot.ErrCorrupt)
			assert.NotErrorIs(t, err, snapshot.ErrChecksumMismatch)
			assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(64<<20))
		})
	}
}
