package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only memory mapping of a regular file. An empty file maps
// to an empty data slice.
type File struct {
	path string
	data []byte
}

// Open maps the file at path read-only.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return &File{path: path}, nil
	}

	// The mapping outlives the descriptor; closing f here is fine.
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, &os.PathError{Op: "mmap", Path: path, Err: err}
	}
	return &File{path: path, data: data}, nil
}

// Data returns the full file content. The slice is invalidated by Close.
func (m *File) Data() []byte { return m.data }

// Len returns the mapped size in bytes.
func (m *File) Len() int { return len(m.data) }

// Path returns the mapped file's path.
func (m *File) Path() string { return m.path }

// Close unmaps the file. All views into Data become invalid.
func (m *File) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	if err := unix.Munmap(data); err != nil {
		return &os.PathError{Op: "munmap", Path: m.path, Err: err}
	}
	return nil
}
