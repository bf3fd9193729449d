// Package fs provides the narrow filesystem facade bsoncat needs: opening a
// buffer file for reading and writing a decoded document out atomically.
//
// The main types are:
//   - [FS]: interface for filesystem operations
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation backed by [os] and
//     [github.com/natefinch/atomic]
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// Satisfied by [os.File]; usable with any stdlib function accepting
// [io.Reader], [io.Closer], or [io.Seeker].
type File interface {
	io.ReadCloser
	io.Seeker

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations bsoncat performs: opening a buffer
// file for reading, and writing a dump file durably.
type FS interface {
	// Open opens a file for reading. See [os.Open].
	Open(path string) (File, error)

	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to path via a temp file + rename, so a
	// reader never observes a partially written dump.
	WriteFileAtomic(path string, data []byte) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)
}

// Compile-time interface check.
var _ File = (*os.File)(nil)
