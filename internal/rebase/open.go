package rebase

import (
	"compress/gzip"
	"io"
	"os"
	"strings"
)

// multiCloser closes every wrapped io.Closer when Close is called and
// reports the first failure.
type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// openInput opens a sequence or table file for reading. "-" means stdin.
// Gzipped files are detected by the two magic bytes or a .gz suffix and
// unwrapped transparently.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var sig [2]byte
	n, _ := f.Read(sig[:])
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		f.Close()
		return nil, err
	}

	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		return &multiCloser{Reader: gz, closers: []io.Closer{gz, f}}, nil
	}

	return f, nil
}

// gzipWriteCloser flushes the gzip stream before closing the backing file.
type gzipWriteCloser struct {
	io.Writer
	gz *gzip.Writer
	f  *os.File
}

func (g *gzipWriteCloser) Close() error {
	err := g.gz.Close()
	if ferr := g.f.Close(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// createOutput creates a file for writing, wrapping it in a gzip stream
// when the path carries a .gz suffix. "-" means stdout.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	if strings.HasSuffix(path, ".gz") {
		gz := gzip.NewWriter(f)
		return &gzipWriteCloser{Writer: gz, gz: gz, f: f}, nil
	}

	return f, nil
}
