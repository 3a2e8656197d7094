package faqfile

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/yanqian/faq-admin/internal/domain/faq"
	apperrors "github.com/yanqian/faq-admin/pkg/errors"
)

// Config controls where the collection lives and how backups are kept.
type Config struct {
	Path string
	// Purpose prefixes backup file names: <purpose>_backup_<YYYYMMDD>_<HHMMSS>.json.
	Purpose string
	// Keep is the number of backups retained. 0 keeps all, negative disables backups.
	Keep int
}

// Mirror receives a copy of every backup snapshot.
type Mirror interface {
	Put(ctx context.Context, name string, data []byte) error
}

// Store keeps the FAQ collection in memory and rewrites the whole JSON file on
// every mutation.
type Store struct {
	cfg    Config
	mirror Mirror
	clock  faq.Clock
	logger *slog.Logger

	mu        sync.Mutex
	records   []faq.Record
	lastWrite [sha256.Size]byte
}

// NewStore constructs an empty store. Call Load to read the backing file.
func NewStore(cfg Config, mirror Mirror, clock faq.Clock, logger *slog.Logger) *Store {
	if cfg.Purpose == "" {
		cfg.Purpose = "faq"
	}
	return &Store{
		cfg:     cfg,
		mirror:  mirror,
		clock:   clock,
		logger:  logger.With("component", "faqfile.store"),
		records: []faq.Record{},
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.cfg.Path
}

// Load replaces the collection with the file content. A missing file yields an
// empty collection. A corrupt file also leaves the collection empty and
// returns a load_failed error.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.cfg.Path)
	if errors.Is(err, fs.ErrNotExist) {
		s.records = []faq.Record{}
		s.logger.Info("faq file not found, starting empty", "path", s.cfg.Path)
		return nil
	}
	if err != nil {
		s.records = []faq.Record{}
		return apperrors.Wrap(faq.CodeLoadFailed, fmt.Sprintf("failed to read %s", s.cfg.Path), err)
	}
	records, err := s.decode(data)
	if err != nil {
		s.records = []faq.Record{}
		s.logger.Error("faq file corrupt", "path", s.cfg.Path, "error", err)
		return apperrors.Wrap(faq.CodeLoadFailed, fmt.Sprintf("failed to parse %s", s.cfg.Path), err)
	}
	s.records = records
	s.lastWrite = sha256.Sum256(data)
	s.logger.Info("faq file loaded", "path", s.cfg.Path, "records", len(records))
	return nil
}

// ReloadIfChanged re-reads the file when its content differs from what this
// store last read or wrote. Unlike Load, a corrupt file leaves the current
// collection in place.
func (s *Store) ReloadIfChanged(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, apperrors.Wrap(faq.CodeLoadFailed, fmt.Sprintf("failed to read %s", s.cfg.Path), err)
	}
	sum := sha256.Sum256(data)
	if sum == s.lastWrite {
		return false, nil
	}
	records, err := s.decode(data)
	if err != nil {
		return false, apperrors.Wrap(faq.CodeLoadFailed, fmt.Sprintf("failed to parse %s", s.cfg.Path), err)
	}
	s.records = records
	s.lastWrite = sum
	s.logger.Info("faq file reloaded", "path", s.cfg.Path, "records", len(records))
	return true, nil
}

// decode parses file content, warning about entries that had to be dropped.
// The dropped entries survive in the backup taken by the next save.
func (s *Store) decode(data []byte) ([]faq.Record, error) {
	decoded, err := faq.DecodeFile(data, s.clock)
	if err != nil {
		return nil, err
	}
	if len(decoded.Skipped) > 0 {
		s.logger.Warn("faq entries missing question or answer skipped", "path", s.cfg.Path, "entries", decoded.Skipped)
	}
	return decoded.Records, nil
}

// Save backs up the current file and overwrites it with the collection.
func (s *Store) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// Add appends record when it passes the duplicate guard, then saves.
func (s *Store) Add(ctx context.Context, record faq.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := faq.CheckDuplicate(s.records, record); err != nil {
		return err
	}
	s.records = append(s.records, record.Clone())
	return s.saveLocked(ctx)
}

// Replace swaps the record with id for replacement. The guard runs against the
// collection without the old record, and the original position is kept.
func (s *Store) Replace(ctx context.Context, id string, replacement faq.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	others := make([]faq.Record, 0, len(s.records))
	for i, r := range s.records {
		if r.ID == id {
			idx = i
			continue
		}
		others = append(others, r)
	}
	if idx < 0 {
		return apperrors.Wrap(faq.CodeNotFound, fmt.Sprintf("faq %q not found", id), faq.ErrNotFound)
	}
	if err := faq.CheckDuplicate(others, replacement); err != nil {
		return err
	}
	next := make([]faq.Record, 0, len(s.records))
	next = append(next, s.records[:idx]...)
	next = append(next, replacement.Clone())
	next = append(next, s.records[idx+1:]...)
	s.records = next
	return s.saveLocked(ctx)
}

// Remove drops the record with id and saves. Unknown ids still save.
func (s *Store) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]faq.Record, 0, len(s.records))
	for _, r := range s.records {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.records = kept
	return s.saveLocked(ctx)
}

// All returns a deep copy of the collection.
func (s *Store) All(ctx context.Context) []faq.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return faq.CloneAll(s.records)
}

// Export returns the exact bytes Save writes to disk.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := faq.EncodeRecords(s.records)
	if err != nil {
		return nil, apperrors.Wrap("faq_error", "failed to encode collection", err)
	}
	return data, nil
}

// Mutate applies fn to a copy of the collection and saves when fn changed anything.
func (s *Store) Mutate(ctx context.Context, fn func(records []faq.Record) ([]faq.Record, int)) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, changed := fn(faq.CloneAll(s.records))
	if changed == 0 {
		return 0, nil
	}
	s.records = next
	if err := s.saveLocked(ctx); err != nil {
		return changed, err
	}
	return changed, nil
}

func (s *Store) saveLocked(ctx context.Context) error {
	data, err := faq.EncodeRecords(s.records)
	if err != nil {
		return apperrors.Wrap(faq.CodeSaveFailed, "failed to encode collection", err)
	}

	prior, err := os.ReadFile(s.cfg.Path)
	switch {
	case err == nil:
		if err := s.backupLocked(ctx, prior); err != nil {
			return apperrors.Wrap(faq.CodeSaveFailed, "failed to write backup", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return apperrors.Wrap(faq.CodeSaveFailed, fmt.Sprintf("failed to read %s", s.cfg.Path), err)
	}

	if err := writeAtomic(s.cfg.Path, data); err != nil {
		s.logger.Error("faq file write failed", "path", s.cfg.Path, "error", err)
		return apperrors.Wrap(faq.CodeSaveFailed, fmt.Sprintf("failed to write %s", s.cfg.Path), err)
	}
	s.lastWrite = sha256.Sum256(data)
	s.logger.Debug("faq file saved", "path", s.cfg.Path, "records", len(s.records))
	return nil
}

func (s *Store) backupLocked(ctx context.Context, prior []byte) error {
	if s.cfg.Keep < 0 {
		return nil
	}
	dir := filepath.Dir(s.cfg.Path)
	now := s.now()
	name := BackupName(s.cfg.Purpose, now)
	created, err := writeExclusive(filepath.Join(dir, name), prior)
	if err != nil {
		return err
	}
	if !created {
		// An earlier save this second already captured the older content.
		s.logger.Debug("faq backup for this second exists, keeping it", "backup", name)
		return nil
	}
	if s.mirror != nil {
		if err := s.mirror.Put(ctx, name, prior); err != nil {
			s.logger.Warn("faq backup mirror failed", "backup", name, "error", err)
		}
	}
	if s.cfg.Keep > 0 {
		removed, err := PruneBackups(dir, s.cfg.Purpose, s.cfg.Keep)
		if err != nil {
			s.logger.Warn("faq backup prune failed", "error", err)
		} else if len(removed) > 0 {
			s.logger.Debug("faq backups pruned", "removed", len(removed))
		}
	}
	return nil
}

func (s *Store) now() time.Time {
	if s.clock == nil {
		return time.Now()
	}
	return s.clock()
}

// writeExclusive creates path with data. It reports false without writing when
// the file already exists.
func writeExclusive(path string, data []byte) (bool, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return false, err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return false, err
	}
	return true, nil
}

// writeAtomic writes data to a temp file in the target directory and renames it into place.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return err
	}
	return nil
}

var _ faq.Repository = (*Store)(nil)
