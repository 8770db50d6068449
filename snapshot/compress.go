package snapshot

import (
	"fmt"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the block compression algorithm.
type Compression uint8

const (
	// CompressionNone stores blocks as produced by the codec.
	CompressionNone Compression = 0
	// CompressionLZ4 uses LZ4 block compression (fast, moderate ratio).
	CompressionLZ4 Compression = 1
	// CompressionZSTD uses Zstandard (slower, better ratio).
	CompressionZSTD Compression = 2
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionLZ4:
		return "lz4"
	case CompressionZSTD:
		return "zstd"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

func (c Compression) valid() bool {
	return c <= CompressionZSTD
}

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	return dec
}

// compress returns the stored form of raw. ok is false if compression did
// not save at least 10%, in which case raw should be stored as is.
func compress(c Compression, raw []byte) (stored []byte, ok bool, err error) {
	switch c {
	case CompressionNone:
		return raw, false, nil
	case CompressionLZ4:
		dst := make([]byte, lz4.CompressBlockBound(len(raw)))
		n, err := lz4.CompressBlock(raw, dst, nil)
		if err != nil {
			return nil, false, err
		}
		stored = dst[:n]
	case CompressionZSTD:
		enc := getZstdEncoder()
		stored = enc.EncodeAll(raw, nil)
		zstdEncoderPool.Put(enc)
	default:
		return nil, false, fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(c))
	}

	// n == 0 signals incompressible input for LZ4.
	if len(stored) == 0 || float64(len(stored)) > float64(len(raw))*0.9 {
		return raw, false, nil
	}
	return stored, true, nil
}

const (
	// maxLZ4Ratio is the largest expansion an LZ4 block can encode: every
	// input byte yields at most 255 output bytes.
	maxLZ4Ratio = 255
	// maxZSTDRatio is the largest expansion of a zstd frame: an RLE block of
	// 4 bytes decodes to at most 128 KiB.
	maxZSTDRatio = 128 << 10 / 4
)

// decompress restores a compressed block of rawLen bytes.
func decompress(c Compression, stored []byte, rawLen int) ([]byte, error) {
	switch c {
	case CompressionLZ4:
		if rawLen > len(stored)*maxLZ4Ratio {
			return nil, fmt.Errorf("%w: lz4: %d bytes cannot expand to %d", ErrCorrupt, len(stored), rawLen)
		}
		raw := make([]byte, rawLen)
		n, err := lz4.UncompressBlock(stored, raw)
		if err != nil {
			return nil, fmt.Errorf("%w: lz4: %w", ErrCorrupt, err)
		}
		if n != rawLen {
			return nil, fmt.Errorf("%w: lz4: decompressed %d bytes, want %d", ErrCorrupt, n, rawLen)
		}
		return raw, nil

	case CompressionZSTD:
		if rawLen > len(stored)*maxZSTDRatio {
			return nil, fmt.Errorf("%w: zstd: %d bytes cannot expand to %d", ErrCorrupt, len(stored), rawLen)
		}
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)

		// The output buffer grows with the decoded data.
		out, err := dec.DecodeAll(stored, make([]byte, 0, min(rawLen, 4*len(stored))))
		if err != nil {
			return nil, fmt.Errorf("%w: zstd: %w", ErrCorrupt, err)
		}
		if len(out) != rawLen {
			return nil, fmt.Errorf("%w: zstd: decompressed %d bytes, want %d", ErrCorrupt, len(out), rawLen)
		}
		return out, nil

	default:
		// CompressionNone never produces compressed blocks.
		return nil, fmt.Errorf("%w: compressed block in %s snapshot", ErrCorrupt, c)
	}
}
