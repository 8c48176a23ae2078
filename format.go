package fastkmeans

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/hupe1980/fastkmeans/codec"
)

// DatasetSource opens named dataset blobs. blobstore.Store satisfies it.
type DatasetSource interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// DatasetSink stores named dataset blobs. blobstore.Store satisfies it.
type DatasetSink interface {
	Put(ctx context.Context, name string, data []byte) error
}

// readChunk caps the initial value buffer of ReadDataset.
const readChunk = 1 << 16

// ReadDataset parses the text format: a header line "n d" followed by n*d
// whitespace-separated floating-point values. Line breaks carry no meaning
// beyond separating values.
func ReadDataset(r io.Reader) (*Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)

	next := func(what string) (string, error) {
		if sc.Scan() {
			return sc.Text(), nil
		}
		if err := sc.Err(); err != nil {
			return "", err
		}
		return "", invalidArgument("dataset truncated: missing %s", what)
	}

	var shape [2]int
	for i, what := range []string{"point count", "dimension"} {
		tok, err := next(what)
		if err != nil {
			return nil, err
		}
		v, err := strconv.Atoi(tok)
		if err != nil {
			return nil, invalidArgument("dataset header %s %q: %v", what, tok, err)
		}
		shape[i] = v
	}

	n, d := shape[0], shape[1]
	if err := checkShape(n, d); err != nil {
		return nil, err
	}

	// The header alone never sizes the buffer; values grow it as they arrive.
	data := make([]float64, 0, min(n*d, readChunk))
	for idx := 0; idx < n*d; idx++ {
		tok, err := next(fmt.Sprintf("value %d of point %d", idx%d, idx/d))
		if err != nil {
			return nil, err
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, invalidArgument("point %d: %v", idx/d, err)
		}
		data = append(data, v)
	}
	return &Dataset{n: n, d: d, data: data}, nil
}

// WriteDataset writes ds in the text format, each value as a signed
// three-decimal number.
func WriteDataset(w io.Writer, ds *Dataset) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d\n", ds.n, ds.d); err != nil {
		return err
	}
	buf := make([]byte, 0, 16)
	for i := 0; i < ds.n; i++ {
		for j, v := range ds.row(i) {
			if j > 0 {
				_ = bw.WriteByte(' ')
			}
			buf = strconv.AppendFloat(buf[:0], v, 'f', 3, 64)
			if v >= 0 {
				_ = bw.WriteByte(' ')
			}
			_, _ = bw.Write(buf)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// LoadDataset opens name from src and parses it, decompressing according to
// the name's suffix (.gz, .zst, .lz4).
func LoadDataset(ctx context.Context, src DatasetSource, name string) (*Dataset, error) {
	rc, err := src.Open(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", name, err)
	}
	defer func() { _ = rc.Close() }()

	dec, err := codec.ForFile(name).NewReader(rc)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", name, err)
	}
	defer func() { _ = dec.Close() }()

	ds, err := ReadDataset(dec)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", name, err)
	}
	return ds, nil
}

// SaveDataset writes ds to dst under name, compressing according to the
// name's suffix.
func SaveDataset(ctx context.Context, dst DatasetSink, name string, ds *Dataset) error {
	var buf bytes.Buffer
	enc, err := codec.ForFile(name).NewWriter(&buf)
	if err != nil {
		return fmt.Errorf("save dataset %s: %w", name, err)
	}
	if err := WriteDataset(enc, ds); err != nil {
		return fmt.Errorf("save dataset %s: %w", name, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("save dataset %s: %w", name, err)
	}
	return dst.Put(ctx, name, buf.Bytes())
}
