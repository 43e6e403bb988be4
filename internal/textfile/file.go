package textfile

import (
	"io"
	"os"

	"go.dw1.io/mmapfile"
	"go.dw1.io/safemath"
)

var (
	_ io.Reader       = (*File)(nil)
	_ io.Writer       = (*File)(nil)
	_ io.Closer       = (*File)(nil)
	_ io.StringWriter = (*File)(nil)
)

// File wraps either a memory-mapped file (preferred) or a plain os.File when
// mmap is unavailable for the file or platform.
type File struct {
	mm *mmapfile.MmapFile
	os *os.File
}

// Open opens name for reading, mapping it into memory when possible. Empty
// files and platforms without mmap use the os.File path.
func Open(name string) (*File, error) {
	if mf, err := mmapfile.Open(name); err == nil {
		return &File{mm: mf}, nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	return &File{os: f}, nil
}

// Create creates or truncates name for writing exactly size bytes. A mapped
// file has a fixed length, so size must be the final length of the content.
func Create(name string, size int, perm os.FileMode) (*File, error) {
	n, err := safemath.ConvertAny[int64](size)
	if err != nil {
		return nil, err
	}

	flag := os.O_RDWR | os.O_CREATE | os.O_TRUNC
	if n > 0 {
		if mf, err := mmapfile.OpenFile(name, flag, perm, n); err == nil {
			return &File{mm: mf}, nil
		}
	}

	f, err := os.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}

	return &File{os: f}, nil
}

// ReadAll returns the whole content of the file. For a mapped file the result
// aliases the mapping and is valid until Close.
func (f *File) ReadAll() ([]byte, error) {
	if f.mm != nil {
		return f.mm.Bytes(), nil
	}

	return io.ReadAll(f.os)
}

func (f *File) Read(p []byte) (int, error) {
	if f.mm != nil {
		return f.mm.Read(p)
	}

	return f.os.Read(p)
}

// Write writes len(p) bytes, advancing the current offset.
func (f *File) Write(p []byte) (int, error) {
	if f.mm != nil {
		return f.mm.Write(p)
	}

	return f.os.Write(p)
}

// WriteString writes the contents of s, advancing the current offset.
func (f *File) WriteString(s string) (int, error) {
	if f.mm != nil {
		return f.mm.WriteString(s)
	}

	return f.os.WriteString(s)
}

// Mapped reports whether the file is memory-mapped.
func (f *File) Mapped() bool {
	return f.mm != nil
}

// Len returns the mapped length, or the file size for the os.File fallback.
func (f *File) Len() int {
	if f.mm != nil {
		return f.mm.Len()
	}

	info, err := f.os.Stat()
	if err != nil {
		return 0
	}

	n, err := safemath.ConvertAny[int](info.Size())
	if err != nil {
		return 0
	}

	return n
}

// Name returns the original file name.
func (f *File) Name() string {
	if f.mm != nil {
		return f.mm.Name()
	}

	return f.os.Name()
}

// Sync flushes data to disk.
func (f *File) Sync() error {
	if f.mm != nil {
		return f.mm.Sync()
	}

	return f.os.Sync()
}

// Close releases resources held by the file.
func (f *File) Close() error {
	if f.mm != nil {
		return f.mm.Close()
	}

	return f.os.Close()
}
