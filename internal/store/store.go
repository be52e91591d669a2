// Package store owns the authoritative action collection and its backing
// file. Every mutation rewrites the whole file and notifies subscribers.
package store

import (
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xolan/lookback/internal/journal"
	"github.com/xolan/lookback/internal/logging"
	"github.com/xolan/lookback/internal/storage"
	"go.uber.org/zap"
)

// Store holds the action collection in memory and persists it to a single
// file. Mutate-then-save runs under one lock so a persisted snapshot never
// interleaves two mutations.
type Store struct {
	path    string
	log     *zap.Logger
	now     func() time.Time
	newID   func() string
	backups int
	seed    bool

	mu      sync.Mutex
	actions journal.Collection
	saveErr error
	// blocked is set while an unusable file could not be moved aside;
	// writes are refused until a later Load succeeds.
	blocked error

	subMu     sync.Mutex
	subs      map[int]func(Event)
	subOrder  []int
	nextSubID int
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report load and save failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = logging.Component(l, "store") }
}

// WithClock sets the time source used for sample data.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator sets the id source. Ids already present in the
// collection are skipped.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// WithBackups sets how many rotating backups are kept (0 disables).
func WithBackups(n int) Option {
	return func(s *Store) { s.backups = n }
}

// WithSeeding controls whether a failed load seeds the sample actions.
// When disabled the store starts empty.
func WithSeeding(enabled bool) Option {
	return func(s *Store) { s.seed = enabled }
}

// New creates a Store for the file at path and loads it.
func New(path string, opts ...Option) *Store {
	s := &Store{
		path:    path,
		log:     logging.Component(zap.NewNop(), "store"),
		now:     time.Now,
		newID:   uuid.NewString,
		backups: storage.DefaultBackupCount,
		seed:    true,
		actions: journal.Collection{},
		subs:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Load()
	return s
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load replaces the collection with the file's contents. Any failure
// (missing file, unreadable, undecodable, duplicate ids) falls back to the
// sample data, which is persisted immediately. Load never fails.
func (s *Store) Load() {
	s.mu.Lock()
	ev := s.loadLocked()
	s.mu.Unlock()

	s.publish(ev)
}

func (s *Store) loadLocked() Event {
	s.blocked = nil
	data, err := storage.ReadFile(s.path)
	if err == nil {
		var c journal.Collection
		c, err = journal.Decode(data)
		if err == nil {
			err = c.Validate()
		}
		if err == nil {
			s.actions = c
			s.log.Debug("loaded actions",
				zap.String("path", s.path),
				zap.Int("actions", len(c)),
				zap.Int("entries", c.EntryCount()))
			return Event{Type: EventLoaded}
		}
		s.log.Warn("journal file is corrupt, starting over", zap.String("path", s.path), zap.Error(err))
	} else if errors.Is(err, os.ErrNotExist) {
		s.log.Info("no journal file, creating one", zap.String("path", s.path))
	} else {
		s.log.Warn("failed to read journal file, starting over", zap.String("path", s.path), zap.Error(err))
	}

	s.actions = journal.Collection{}
	if s.seed {
		s.actions = SampleActions(s.now(), s.freshID)
	}

	// Whatever sits at the path could not be used: move it aside before
	// writing. If that fails the new collection stays in memory only.
	corruptPath, qerr := storage.QuarantineCorrupt(s.path)
	if qerr != nil {
		s.blocked = fmt.Errorf("journal not saved, %s could not be moved aside: %w", s.path, qerr)
		s.saveErr = s.blocked
		s.log.Error("failed to quarantine unusable journal", zap.String("path", s.path), zap.Error(qerr))
		return Event{Type: EventSeeded, SaveErr: s.saveErr}
	}
	if corruptPath != "" {
		s.log.Warn("quarantined unusable journal", zap.String("path", s.path), zap.String("quarantined_to", corruptPath))
	}
	return Event{Type: EventSeeded, SaveErr: s.saveLocked()}
}

// Save writes the whole collection to the backing file. The error is also
// logged and remembered, see SaveErr.
func (s *Store) Save() error {
	s.mu.Lock()
	err := s.saveLocked()
	s.mu.Unlock()
	return err
}

func (s *Store) saveLocked() error {
	err := s.writeLocked()
	s.saveErr = err
	if err != nil {
		s.log.Error("failed to save actions", zap.String("path", s.path), zap.Error(err))
	}
	return err
}

func (s *Store) writeLocked() error {
	if s.blocked != nil {
		return s.blocked
	}
	data, err := journal.Encode(s.actions)
	if err != nil {
		return err
	}
	if err := storage.CreateBackup(s.path, s.backups); err != nil {
		// Backup failures are logged; the save proceeds.
		s.log.Warn("failed to back up journal", zap.String("path", s.path), zap.Error(err))
	}
	return storage.WriteFileAtomic(s.path, data)
}

// SaveErr returns the error of the most recent save, nil if it succeeded.
// In-memory state is kept when a save fails, so memory and disk may differ
// until the next successful save.
func (s *Store) SaveErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveErr
}

// maxIDAttempts bounds how often a colliding custom generator is retried
// before falling back to a random uuid.
const maxIDAttempts = 100

// freshID draws ids until one is not used anywhere in the collection.
// Caller must hold s.mu.
func (s *Store) freshID() string {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id != "" && !s.actions.HasID(id) {
			return id
		}
	}
	for {
		if id := uuid.NewString(); !s.actions.HasID(id) {
			return id
		}
	}
}
