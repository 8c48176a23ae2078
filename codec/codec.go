// Package codec centralizes the encodings used for datasets and reports.
//
// Compression wraps dataset streams and is chosen from the file suffix, so
// "blobs.txt.zst" is read through zstd while "blobs.txt" is read as is.
// Codec encodes structured values such as run reports.
package codec

import (
	"fmt"
	"io"
	"path"
	"strings"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used for reports.
var Default Codec = JSON{}

// Compression wraps a byte stream.
// Implementations must be safe for concurrent use.
type Compression interface {
	// Name returns the stable name of the compression ("none", "gzip", ...).
	Name() string
	// Extension returns the file suffix including the dot, or "" for None.
	Extension() string
	NewReader(r io.Reader) (io.ReadCloser, error)
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

var compressions = []Compression{None{}, Gzip{}, Zstd{}, LZ4{}}

// ByName returns a built-in compression by its stable name.
func ByName(name string) (Compression, bool) {
	for _, c := range compressions {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// ForFile returns the compression matching the suffix of name, or None.
func ForFile(name string) Compression {
	ext := strings.ToLower(path.Ext(name))
	if ext == "" {
		return None{}
	}
	for _, c := range compressions[1:] {
		if c.Extension() == ext {
			return c
		}
	}
	return None{}
}

// MustMarshal is a helper for tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
