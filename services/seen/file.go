package seen

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"partsnotifier/logger"
	"partsnotifier/pkg/errors"
)

// FileStore implements Store with a line-oriented text file, one post id
// per line. The whole set is held in memory during a run and flushed
// once at the end via a temp file rename.
type FileStore struct {
	path string
	ids  map[string]struct{}
	log  *logger.Logger
}

// Ensure FileStore implements Store
var _ Store = (*FileStore)(nil)

// NewFileStore creates a file-backed seen-set store
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		ids:  make(map[string]struct{}),
		log:  logger.ForSeenStore(),
	}
}

// Load reads the seen file, tolerating a missing or unreadable file
// (empty set, warning) and blank or duplicate lines. Re-notifying a few
// posts beats crash-looping on a corrupt file.
func (s *FileStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn().Err(err).Str("path", s.path).Msg("Seen file unreadable, starting with empty set")
		}
		return nil
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			s.ids[line] = struct{}{}
		}
	}
	return nil
}

// Contains reports whether the id was already notified
func (s *FileStore) Contains(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add records the id in memory; it becomes durable on Persist. The
// newly-added report only reflects this process's view of the set, so
// overlapping runs sharing a file can still race between Load calls.
func (s *FileStore) Add(id string) (bool, error) {
	if _, ok := s.ids[id]; ok {
		return false, nil
	}
	s.ids[id] = struct{}{}
	return true, nil
}

// Persist writes the set to a temp file and renames it into place so a
// crash mid-write never truncates the previous set.
func (s *FileStore) Persist() error {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(id)
		sb.WriteByte('\n')
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0644); err != nil {
		return errors.NewSeenStore("file", fmt.Sprintf("failed to write %s", tmp), err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.NewSeenStore("file", fmt.Sprintf("failed to replace %s", s.path), err)
	}
	return nil
}

// Close is a no-op for the file store
func (s *FileStore) Close() error {
	return nil
}

// Len returns the number of tracked ids
func (s *FileStore) Len() int {
	return len(s.ids)
}
