package docstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/calvinalkan/recipebox/pkg/fs"
)

// State is the lifecycle state of a [Store].
type State int32

const (
	// StateUnloaded is the state after a failed load. It is terminal.
	StateUnloaded State = iota

	// StateLoading is the state between [Open] and the end of the load.
	StateLoading

	// StateLoaded permits all operations.
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

const (
	defaultFileMode    = 0o644
	defaultLockTimeout = 10 * time.Second
)

// Option configures a [Store].
type Option func(*Store)

// WithFS sets the filesystem used for every read and write.
// Defaults to [fs.NewReal].
func WithFS(fsys fs.FS) Option {
	return func(s *Store) { s.fs = fsys }
}

// WithLogger sets the logger. Defaults to [zap.NewNop].
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithFileMode sets the permissions used when the backing file has to be
// created by a write. An existing file keeps its mode.
func WithFileMode(perm os.FileMode) Option {
	return func(s *Store) { s.perm = perm }
}

// WithLockTimeout bounds how long a write waits for the cross-process lock.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// Store is a JSON-file backed document store holding recipes, the pantry
// and users.
//
// The backing file is read once, asynchronously, by [Open]. Until that
// finishes, and forever if it fails, every operation returns
// [ErrNotLoaded]. Mutations hold an exclusive lock across the in-memory
// change and the rewrite of the backing file, so they are serialized against
// each other and against readers.
//
// All methods are safe for concurrent use.
type Store struct {
	path     string
	lockPath string

	fs          fs.FS
	locker      *fs.Locker
	log         *zap.Logger
	perm        os.FileMode
	lockTimeout time.Duration

	state   atomic.Int32
	ready   chan struct{}
	loadErr error // written once before ready is closed

	mu  sync.RWMutex
	doc *document
}

// Open returns a store for the backing file at path and starts loading it
// in the background. It never blocks. Use [Store.Ready] or [Store.Wait] to
// learn when the load finished.
func Open(path string, opts ...Option) *Store {
	s := newStore(path, opts)
	s.state.Store(int32(StateLoading))

	go s.load()

	return s
}

// Create writes a backing file with three empty collections. It fails
// with an error matching [os.ErrExist] if path already exists. Only the
// filesystem, file mode and lock timeout options apply.
func Create(path string, opts ...Option) error {
	s := newStore(path, opts)
	s.doc = newDocument()

	exists, err := s.fs.Exists(path)
	if err != nil {
		return withContext(err, "create", "", "")
	}

	if exists {
		return withContext(fmt.Errorf("%w: %s", os.ErrExist, path), "create", "", "")
	}

	if err := s.persist(); err != nil {
		return withContext(fmt.Errorf("%w: %w", ErrPersist, err), "create", "", "")
	}

	return nil
}

func newStore(path string, opts []Option) *Store {
	s := &Store{
		path:        path,
		lockPath:    path + ".lock",
		fs:          fs.NewReal(),
		log:         zap.NewNop(),
		perm:        defaultFileMode,
		lockTimeout: defaultLockTimeout,
		ready:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.locker = fs.NewLocker(s.fs)
	s.log = s.log.With(zap.String("path", path))

	return s
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// State returns the current lifecycle state.
func (s *Store) State() State { return State(s.state.Load()) }

// Ready returns a channel that is closed once the load attempt finished,
// successfully or not.
func (s *Store) Ready() <-chan struct{} { return s.ready }

// Err returns the load error once the load attempt finished, nil otherwise.
func (s *Store) Err() error {
	select {
	case <-s.ready:
		return s.loadErr
	default:
		return nil
	}
}

// Wait blocks until the load attempt finished or ctx is done. It returns
// the load error, or ctx's error.
func (s *Store) Wait(ctx context.Context) error {
	select {
	case <-s.ready:
		return s.loadErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) load() {
	defer close(s.ready)

	start := time.Now()

	s.log.Debug("loading backing file")

	doc, err := s.readDocument()
	if err != nil {
		s.loadErr = withContext(fmt.Errorf("%w: %w", ErrLoad, err), "load", "", "")
		s.state.Store(int32(StateUnloaded))
		s.log.Error("backing file load failed", zap.Error(err))

		return
	}

	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()

	s.state.Store(int32(StateLoaded))

	s.log.Debug("backing file loaded",
		zap.Int("recipes", doc.recipes.len()),
		zap.Int("pantry", doc.pantry.len()),
		zap.Int("users", doc.users.len()),
		zap.Duration("took", time.Since(start)),
	)
}

func (s *Store) readDocument() (*document, error) {
	data, err := s.fs.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	return doc, nil
}

func (s *Store) checkLoaded(op, collection string) error {
	if s.State() != StateLoaded {
		return &Error{Op: op, Collection: collection, Err: ErrNotLoaded}
	}

	return nil
}

// read runs fn under the shared lock once the store is loaded.
func (s *Store) read(op, collection string, fn func(d *document)) error {
	if err := s.checkLoaded(op, collection); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	fn(s.doc)

	return nil
}

// write runs fn under the exclusive lock once the store is loaded, and
// rewrites the backing file if fn reports that it should. The in-memory
// change is kept even when the rewrite fails.
func (s *Store) write(op, collection, key string, fn func(d *document) (persist bool)) error {
	if err := s.checkLoaded(op, collection); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !fn(s.doc) {
		return nil
	}

	if err := s.persist(); err != nil {
		s.log.Error("persist failed",
			zap.String("op", op),
			zap.String("collection", collection),
			zap.Error(err),
		)

		return withContext(fmt.Errorf("%w: %w", ErrPersist, err), op, collection, key)
	}

	return nil
}

// persist rewrites the whole backing file. Caller must hold mu exclusively.
func (s *Store) persist() error {
	data, err := s.doc.encode()
	if err != nil {
		return err
	}

	lock, err := s.locker.LockWithTimeout(s.lockPath, s.lockTimeout)
	if err != nil {
		return fmt.Errorf("lock %s: %w", s.lockPath, err)
	}

	writeErr := s.fs.WriteFileAtomic(s.path, data, s.perm)
	closeErr := lock.Close()

	if err := errors.Join(writeErr, closeErr); err != nil {
		return err
	}

	s.log.Debug("backing file written", zap.Int("bytes", len(data)))

	return nil
}

// Stats holds record counts.
type Stats struct {
	Recipes int
	Pantry  int
	Users   int
}

// Stats returns the number of records in each collection.
func (s *Store) Stats() (Stats, error) {
	var st Stats

	err := s.read("stats", "", func(d *document) {
		st = Stats{
			Recipes: d.recipes.len(),
			Pantry:  d.pantry.len(),
			Users:   d.users.len(),
		}
	})

	return st, err
}
