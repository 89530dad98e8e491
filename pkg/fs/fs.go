// Package fs provides the filesystem seam used by the document store.
//
// The main types are:
//   - [FS]: interface for the handful of operations the store performs
//   - [File]: interface for open files (satisfied by [os.File])
//   - [Real]: production implementation using [os] and atomic renames
//   - [Chaos]: testing implementation that injects I/O failures
//   - [Locker]: flock(2) based advisory locks on dedicated lock files
//
// Example usage:
//
//	fsys := fs.NewReal()
//	data, err := fsys.ReadFile("recipes.json")
//	if err != nil {
//	    return err
//	}
//
//	// ... mutate ...
//
//	err = fsys.WriteFileAtomic("recipes.json", out, 0o644)
package fs

import (
	"io"
	"os"
)

// File represents an open file descriptor.
//
// This interface is satisfied by [os.File]. Lock files are the only files the
// store opens directly; everything else goes through [FS.ReadFile] and
// [FS.WriteFileAtomic].
type File interface {
	io.ReadWriteCloser

	// Fd returns the file descriptor. See [os.File.Fd].
	// Used by [Locker] for flock.
	Fd() uintptr

	// Stat returns the [os.FileInfo] for this file. See [os.File.Stat].
	Stat() (os.FileInfo, error)
}

// FS defines the filesystem operations needed to load and persist a single
// backing file.
//
// Two implementations are provided:
//   - [Real]: production use, wraps [os] package
//   - [Chaos]: testing use, injects failures
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic replaces the file at path with data.
	// Uses a temp file + rename so readers never observe a partial file.
	// perm is applied when the file is created; an existing file keeps its mode.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// OpenFile opens a file with specified flags and permissions. See [os.OpenFile].
	OpenFile(path string, flag int, perm os.FileMode) (File, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Stat returns file info. See [os.Stat].
	Stat(path string) (os.FileInfo, error)

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)
}

// Compile-time interface checks.
var (
	_ File = (*os.File)(nil)
	_ FS   = (*Real)(nil)
	_ FS   = (*Chaos)(nil)
)
