// Package compression provides the codecs used to seal frame
// segments. A segment is compressed exactly once, when the partition
// task that wrote it seals it, and decompressed lazily on first read.
//
// Algorithms trade speed against ratio:
//   - LZ4: extremely fast, decent compression (the default)
//   - Snappy/S2: fast, moderate compression
//   - Zstd: best ratio, good speed
//   - None: pass-through, for tests and very hot paths
//
// All compressors are safe for concurrent use.
package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/quasar/pkg/qerrors"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Snappy represents snappy compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

// Level controls the speed/ratio trade-off for algorithms that
// support it.
type Level int

const (
	// Fastest prioritizes speed over ratio
	Fastest Level = 1
	// Default balances speed and ratio
	Default Level = 5
	// Best maximizes compression ratio
	Best Level = 9
)

// Config selects an algorithm and level.
type Config struct {
	Algorithm Algorithm `yaml:"algorithm" json:"algorithm"`
	Level     Level     `yaml:"level" json:"level"`
}

// Compressor compresses and decompresses byte slices. Inputs are
// never modified.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// NewCompressor creates a compressor for the configured algorithm.
func NewCompressor(config *Config) (Compressor, error) {
	if config == nil {
		config = &Config{Algorithm: LZ4, Level: Default}
	}
	switch config.Algorithm {
	case None, "":
		return noneCompressor{}, nil
	case Snappy:
		return snappyCompressor{}, nil
	case S2:
		return s2Compressor{}, nil
	case LZ4:
		return lz4Compressor{level: lz4Level(config.Level)}, nil
	case Zstd:
		return newZstdCompressor(config.Level)
	default:
		return nil, qerrors.Newf(qerrors.ErrorTypeConfig,
			"unsupported compression algorithm %q", config.Algorithm)
	}
}

type noneCompressor struct{}

func (noneCompressor) Compress(data []byte) ([]byte, error)   { return data, nil }
func (noneCompressor) Decompress(data []byte) ([]byte, error) { return data, nil }
func (noneCompressor) Algorithm() Algorithm                   { return None }

type snappyCompressor struct{}

func (snappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (snappyCompressor) Decompress(data []byte) ([]byte, error) {
	return snappy.Decode(nil, data)
}

func (snappyCompressor) Algorithm() Algorithm { return Snappy }

type s2Compressor struct{}

func (s2Compressor) Compress(data []byte) ([]byte, error) {
	return s2.Encode(nil, data), nil
}

func (s2Compressor) Decompress(data []byte) ([]byte, error) {
	return s2.Decode(nil, data)
}

func (s2Compressor) Algorithm() Algorithm { return S2 }

type lz4Compressor struct {
	level lz4.CompressionLevel
}

func lz4Level(level Level) lz4.CompressionLevel {
	switch {
	case level <= Fastest:
		return lz4.Fast
	case level >= Best:
		return lz4.Level9
	default:
		return lz4.Level4
	}
}

func (lc lz4Compressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if err := w.Apply(lz4.CompressionLevelOption(lc.level)); err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (lc lz4Compressor) Decompress(data []byte) ([]byte, error) {
	r := lz4.NewReader(bytes.NewReader(data))
	return io.ReadAll(r)
}

func (lc lz4Compressor) Algorithm() Algorithm { return LZ4 }

type zstdCompressor struct {
	encoder *zstd.Encoder
	decoder *zstd.Decoder
}

func newZstdCompressor(level Level) (*zstdCompressor, error) {
	var zl zstd.EncoderLevel
	switch {
	case level <= Fastest:
		zl = zstd.SpeedFastest
	case level >= Best:
		zl = zstd.SpeedBestCompression
	default:
		zl = zstd.SpeedDefault
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zl))
	if err != nil {
		return nil, err
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &zstdCompressor{encoder: encoder, decoder: decoder}, nil
}

func (zc *zstdCompressor) Compress(data []byte) ([]byte, error) {
	return zc.encoder.EncodeAll(data, nil), nil
}

func (zc *zstdCompressor) Decompress(data []byte) ([]byte, error) {
	return zc.decoder.DecodeAll(data, nil)
}

func (zc *zstdCompressor) Algorithm() Algorithm { return Zstd }
