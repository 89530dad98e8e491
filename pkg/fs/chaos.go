package fs

import (
	"errors"
	iofs "io/fs"
	"math/rand"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate     float64 // Fail ReadFile entirely
	PartialReadRate  float64 // Return truncated data from ReadFile
	WriteFailRate    float64 // Fail WriteFileAtomic before touching the file
	PartialWriteRate float64 // Write a truncated file in place, then fail (simulates a crash mid-write)
	OpenFailRate     float64 // Fail OpenFile
}

// DefaultChaosConfig returns a config with reasonable fault rates for testing.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		ReadFailRate:     0.02,
		PartialReadRate:  0.02,
		WriteFailRate:    0.02,
		PartialWriteRate: 0.03,
		OpenFailRate:     0.02,
	}
}

// ChaosMode controls how Chaos behaves.
type ChaosMode uint8

const (
	// ChaosModePassthrough behaves like the underlying FS.
	ChaosModePassthrough ChaosMode = iota

	// ChaosModeInject enables fault-rate injection.
	ChaosModeInject
)

// Chaos wraps an [FS] and injects failures for testing.
//
// All injected errors are real OS errors (syscall.Errno wrapped in
// *fs.PathError), so errors.Is against syscall errnos keeps working. Use
// [IsInjected] to tell injected errors from real ones.
//
// The zero mode is [ChaosModePassthrough]; call [Chaos.SetMode] to start
// injecting.
type Chaos struct {
	fs     FS
	mu     sync.Mutex
	rng    *rand.Rand
	config ChaosConfig
	mode   atomic.Uint32

	readFails     atomic.Int64
	partialReads  atomic.Int64
	writeFails    atomic.Int64
	partialWrites atomic.Int64
	openFails     atomic.Int64
}

// NewChaos creates a new Chaos filesystem wrapping the given [FS].
// The seed controls random fault injection for reproducibility.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:     fs,
		rng:    rand.New(rand.NewSource(seed)),
		config: config,
	}
}

// SetMode updates Chaos behavior. Safe to call concurrently with operations.
func (c *Chaos) SetMode(m ChaosMode) { c.mode.Store(uint32(m)) }

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	ReadFails     int64
	PartialReads  int64
	WriteFails    int64
	PartialWrites int64
	OpenFails     int64
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	return ChaosStats{
		ReadFails:     c.readFails.Load(),
		PartialReads:  c.partialReads.Load(),
		WriteFails:    c.writeFails.Load(),
		PartialWrites: c.partialWrites.Load(),
		OpenFails:     c.openFails.Load(),
	}
}

// TotalFaults returns the total number of injected faults.
func (c *Chaos) TotalFaults() int64 {
	s := c.Stats()

	return s.ReadFails + s.PartialReads + s.WriteFails + s.PartialWrites + s.OpenFails
}

func (c *Chaos) injecting() bool {
	return ChaosMode(c.mode.Load()) == ChaosModeInject
}

// should returns true with the given probability when chaos is injecting.
func (c *Chaos) should(rate float64) bool {
	if !c.injecting() {
		return false
	}

	return c.randFloat() < rate
}

func (c *Chaos) randFloat() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Float64()
}

func (c *Chaos) randIntn(n int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rng.Intn(n)
}

func (c *Chaos) pickRandom(errs []syscall.Errno) syscall.Errno {
	return errs[c.randIntn(len(errs))]
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if c.should(c.config.ReadFailRate) {
		c.readFails.Add(1)

		return nil, pathError("read", path, c.pickRandom([]syscall.Errno{syscall.EIO, syscall.EACCES}))
	}

	data, err := c.fs.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if len(data) > 1 && c.should(c.config.PartialReadRate) {
		c.partialReads.Add(1)

		return data[:c.randIntn(len(data)-1)+1], nil
	}

	return data, nil
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if c.should(c.config.WriteFailRate) {
		c.writeFails.Add(1)

		return pathError("write", path, c.pickRandom([]syscall.Errno{syscall.EIO, syscall.ENOSPC, syscall.EROFS}))
	}

	// Partial write: bypass the atomic rename and leave a torn file behind.
	if len(data) > 1 && c.should(c.config.PartialWriteRate) {
		c.partialWrites.Add(1)
		cutoff := c.randIntn(len(data)-1) + 1

		f, err := c.fs.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
		if err != nil {
			return err
		}

		_, err = f.Write(data[:cutoff])
		closeErr := f.Close()

		if err = errors.Join(err, closeErr); err != nil {
			return err
		}

		return pathError("write", path, syscall.EIO)
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) OpenFile(path string, flag int, perm os.FileMode) (File, error) {
	if c.should(c.config.OpenFailRate) {
		c.openFails.Add(1)

		return nil, pathError("open", path, c.pickRandom([]syscall.Errno{syscall.EACCES, syscall.EMFILE}))
	}

	return c.fs.OpenFile(path, flag, perm)
}

// A passthrough wrapper for the underlying [FS.MkdirAll].
func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	return c.fs.MkdirAll(path, perm)
}

// A passthrough wrapper for the underlying [FS.Stat].
func (c *Chaos) Stat(path string) (os.FileInfo, error) {
	return c.fs.Stat(path)
}

// A passthrough wrapper for the underlying [FS.Exists].
func (c *Chaos) Exists(path string) (bool, error) {
	return c.fs.Exists(path)
}

// IsInjected reports whether err (or any wrapped error) was injected by [Chaos].
// Returns false if err is nil.
func IsInjected(err error) bool {
	if err == nil {
		return false
	}

	var pathErr *iofs.PathError
	if errors.As(err, &pathErr) {
		_, ok := injectedPathErrors.Load(pathErr)

		return ok
	}

	return false
}

var injectedPathErrors sync.Map // map[*fs.PathError]struct{}

// pathError creates an *fs.PathError with the given op, path and errno and
// registers it as injected.
func pathError(op, path string, errno syscall.Errno) error {
	pe := &iofs.PathError{Op: op, Path: path, Err: errno}
	injectedPathErrors.Store(pe, struct{}{})

	return pe
}
