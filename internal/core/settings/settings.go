// Package settings owns the current configuration and its append-only
// snapshot history.
//
// Every read returns a deep copy of the latest value. Snapshots are never
// mutated or pruned; Restore copies a snapshot back into the current
// configuration and leaves History untouched.
package settings

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/addrwatch/internal/core/domain"
)

// DefaultSnapshotName names the snapshot taken of the initial configuration.
const DefaultSnapshotName = "Default Config"

// AlertPusher receives the SYSTEM alerts emitted on save and restore.
type AlertPusher interface {
	Push(ctx context.Context, alert domain.Alert) bool
}

// Archive persists snapshots outside the process.
type Archive interface {
	Append(ctx context.Context, snap domain.Snapshot) error
	Load(ctx context.Context) ([]domain.Snapshot, error)
}

// Config holds the store's dependencies. Alerts and Archive are optional.
type Config struct {
	Initial domain.Configuration
	Alerts  AlertPusher
	Archive Archive
	Logger  *slog.Logger
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	current domain.Configuration
	history []domain.Snapshot

	alerts  AlertPusher
	archive Archive
	log     *slog.Logger

	now   func() time.Time
	newID func() string
}

// New validates cfg.Initial and seeds History with a "Default Config" snapshot.
func New(cfg Config) (*Store, error) {
	if err := Validate(cfg.Initial); err != nil {
		return nil, err
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	s := &Store{
		current: cfg.Initial.Clone(),
		alerts:  cfg.Alerts,
		archive: cfg.Archive,
		log:     log,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	s.history = []domain.Snapshot{{
		ID:            s.newID(),
		Name:          DefaultSnapshotName,
		CreatedAt:     s.now(),
		Configuration: cfg.Initial.Clone(),
	}}
	return s, nil
}

// LoadArchive appends archived snapshots after the default one, in archive
// order. Snapshots whose id is already in History are skipped.
func (s *Store) LoadArchive(ctx context.Context) (int, error) {
	if s.archive == nil {
		return 0, nil
	}
	snaps, err := s.archive.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load snapshot archive: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	loaded := 0
	for _, snap := range snaps {
		if s.indexOf(snap.ID) >= 0 {
			continue
		}
		snap.Configuration = snap.Configuration.Clone()
		s.history = append(s.history, snap)
		loaded++
	}
	return loaded, nil
}

// Current returns a copy of the current configuration.
func (s *Store) Current() domain.Configuration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// Update applies patch to the current configuration after validation.
func (s *Store) Update(patch Patch) (domain.Configuration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := patch.Apply(s.current)
	if err := Validate(next); err != nil {
		return domain.Configuration{}, err
	}
	s.current = next
	return next.Clone(), nil
}

// Save appends a snapshot of the current configuration. A blank name becomes
// "Auto-Save HH:MM:SS".
func (s *Store) Save(ctx context.Context, name string) (domain.Snapshot, error) {
	now := s.now()
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Auto-Save " + now.Format("15:04:05")
	}

	s.mu.Lock()
	snap := domain.Snapshot{
		ID:            s.newID(),
		Name:          name,
		CreatedAt:     now,
		Configuration: s.current.Clone(),
	}
	s.history = append(s.history, snap)
	s.mu.Unlock()

	if s.archive != nil {
		if err := s.archive.Append(ctx, cloneSnapshot(snap)); err != nil {
			s.log.Warn("snapshot archive append failed, kept in memory", "snapshot", snap.ID, "error", err)
		}
	}

	s.emit(ctx, domain.SeverityLow, "Config checkpoint saved: "+name, now)
	return cloneSnapshot(snap), nil
}

// Restore replaces the current configuration with a copy of snapshot id.
func (s *Store) Restore(ctx context.Context, id string) (domain.Snapshot, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return domain.Snapshot{}, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	snap := cloneSnapshot(s.history[idx])
	s.current = snap.Configuration.Clone()
	s.mu.Unlock()

	s.emit(ctx, domain.SeverityMedium, "Restored: "+snap.Name, s.now())
	return snap, nil
}

// History returns copies of every snapshot, oldest first.
func (s *Store) History() []domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.Snapshot, len(s.history))
	for i, snap := range s.history {
		result[i] = cloneSnapshot(snap)
	}
	return result
}

// Snapshot returns a copy of snapshot id.
func (s *Store) Snapshot(id string) (domain.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return domain.Snapshot{}, false
	}
	return cloneSnapshot(s.history[idx]), true
}

func (s *Store) indexOf(id string) int {
	for i := range s.history {
		if s.history[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) emit(ctx context.Context, severity domain.Severity, message string, at time.Time) {
	if s.alerts == nil {
		return
	}
	s.alerts.Push(ctx, domain.Alert{
		ID:        s.newID(),
		Kind:      domain.AlertKindSystem,
		Message:   message,
		From:      "System",
		To:        "Local",
		Timestamp: at,
		Severity:  severity,
	})
}

func cloneSnapshot(snap domain.Snapshot) domain.Snapshot {
	snap.Configuration = snap.Configuration.Clone()
	return snap
}
