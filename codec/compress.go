package codec

import (
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// None passes streams through unchanged.
type None struct{}

func (None) Name() string      { return "none" }
func (None) Extension() string { return "" }

func (None) NewReader(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(r), nil }

func (None) NewWriter(w io.Writer) (io.WriteCloser, error) { return nopWriteCloser{w}, nil }

// Gzip reads and writes gzip streams.
type Gzip struct{}

func (Gzip) Name() string      { return "gzip" }
func (Gzip) Extension() string { return ".gz" }

func (Gzip) NewReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zr, nil
}

func (Gzip) NewWriter(w io.Writer) (io.WriteCloser, error) { return gzip.NewWriter(w), nil }

// Zstd reads and writes zstandard streams.
type Zstd struct{}

func (Zstd) Name() string      { return "zstd" }
func (Zstd) Extension() string { return ".zst" }

func (Zstd) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

func (Zstd) NewWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

// LZ4 reads and writes lz4 frame streams.
type LZ4 struct{}

func (LZ4) Name() string      { return "lz4" }
func (LZ4) Extension() string { return ".lz4" }

func (LZ4) NewReader(r io.Reader) (io.ReadCloser, error) { return io.NopCloser(lz4.NewReader(r)), nil }

func (LZ4) NewWriter(w io.Writer) (io.WriteCloser, error) { return lz4.NewWriter(w), nil }

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
