package faqfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const backupTimeLayout = "20060102_150405"

// BackupName formats the backup file name for purpose at t.
func BackupName(purpose string, t time.Time) string {
	return fmt.Sprintf("%s_backup_%s.json", purpose, t.Format(backupTimeLayout))
}

// ListBackups returns the backup files for purpose in dir, oldest first.
func ListBackups(dir, purpose string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	prefix := purpose + "_backup_"
	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		stamp := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		if _, err := time.Parse(backupTimeLayout, stamp); err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// PruneBackups deletes the oldest backups so that at most keep remain, and
// returns the removed names. keep <= 0 removes nothing.
func PruneBackups(dir, purpose string, keep int) ([]string, error) {
	if keep <= 0 {
		return nil, nil
	}
	names, err := ListBackups(dir, purpose)
	if err != nil {
		return nil, err
	}
	if len(names) <= keep {
		return nil, nil
	}
	stale := names[:len(names)-keep]
	removed := make([]string, 0, len(stale))
	for _, name := range stale {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return removed, fmt.Errorf("remove backup %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	return removed, nil
}
