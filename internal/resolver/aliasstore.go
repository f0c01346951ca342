package resolver

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/predictfc/football-predict/internal/platform/logging"
)

// AliasStore is the durable lower(alias) -> team id mapping the resolver
// learns into. Appends are serialized through one mutex so concurrent
// resolve calls cannot lose updates; reads take the same lock because the
// map is small and resolve traffic is modest.
type AliasStore struct {
	mu             sync.Mutex
	path           string
	unresolvedPath string
	aliases        map[string]int64
	logger         *logging.Logger
	now            func() time.Time
}

func NewAliasStore(path, unresolvedPath string, logger *logging.Logger) (*AliasStore, error) {
	if logger == nil {
		logger = logging.Default()
	}

	s := &AliasStore{
		path:           path,
		unresolvedPath: unresolvedPath,
		aliases:        make(map[string]int64),
		logger:         logger,
		now:            time.Now,
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get looks up a learned alias, case-insensitively.
func (s *AliasStore) Get(alias string) (int64, bool) {
	key := strings.ToLower(strings.TrimSpace(alias))
	if key == "" {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.aliases[key]
	return id, ok
}

// Learn records an alias -> team mapping and persists the table. A raw name
// maps to exactly one team; on conflict the newest write wins and the
// override is logged for curation.
func (s *AliasStore) Learn(alias string, teamID int64) error {
	key := strings.ToLower(strings.TrimSpace(alias))
	if key == "" || teamID == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.aliases[key]; ok {
		if existing == teamID {
			return nil
		}
		s.logger.Warn("alias remapped", "alias", key, "old_team_id", existing, "new_team_id", teamID)
	}
	s.aliases[key] = teamID

	if err := s.flushLocked(); err != nil {
		return fmt.Errorf("persist alias table: %w", err)
	}
	return nil
}

// Len reports the number of learned aliases.
func (s *AliasStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.aliases)
}

// All returns a copy of the alias table for export.
func (s *AliasStore) All() map[string]int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]int64, len(s.aliases))
	for alias, id := range s.aliases {
		out[alias] = id
	}
	return out
}

// RecordUnresolved appends a failed lookup to the unresolved audit table for
// offline curation.
func (s *AliasStore) RecordUnresolved(name, source string) error {
	if s.unresolvedPath == "" || strings.TrimSpace(name) == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	writeHeader := false
	if _, err := os.Stat(s.unresolvedPath); os.IsNotExist(err) {
		if err := os.MkdirAll(filepath.Dir(s.unresolvedPath), 0o755); err != nil {
			return fmt.Errorf("create unresolved log dir: %w", err)
		}
		writeHeader = true
	}

	f, err := os.OpenFile(s.unresolvedPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open unresolved log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if writeHeader {
		if err := w.Write([]string{"name", "source", "timestamp"}); err != nil {
			return fmt.Errorf("write unresolved log header: %w", err)
		}
	}
	if err := w.Write([]string{name, source, s.now().UTC().Format(time.RFC3339)}); err != nil {
		return fmt.Errorf("write unresolved log row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// Flush rewrites the alias table file from memory.
func (s *AliasStore) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushLocked()
}

func (s *AliasStore) load() error {
	if s.path == "" {
		return nil
	}

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open alias table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("read alias table: %w", err)
	}

	for idx, row := range rows {
		if idx == 0 || len(row) < 2 {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[1]), 10, 64)
		if err != nil {
			s.logger.Warn("skip malformed alias row", "row", idx, "value", row[1])
			continue
		}
		s.aliases[strings.ToLower(strings.TrimSpace(row[0]))] = id
	}

	s.logger.Info("alias table loaded", "path", s.path, "count", len(s.aliases))
	return nil
}

// flushLocked writes the table to a temp file and renames it into place so a
// crash mid-write never truncates the learned mappings.
func (s *AliasStore) flushLocked() error {
	if s.path == "" {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create alias table dir: %w", err)
	}

	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create alias table temp file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write([]string{"alias", "team_id"}); err != nil {
		f.Close()
		return fmt.Errorf("write alias table header: %w", err)
	}

	keys := make([]string, 0, len(s.aliases))
	for alias := range s.aliases {
		keys = append(keys, alias)
	}
	sort.Strings(keys)
	for _, alias := range keys {
		if err := w.Write([]string{alias, strconv.FormatInt(s.aliases[alias], 10)}); err != nil {
			f.Close()
			return fmt.Errorf("write alias table row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush alias table: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close alias table temp file: %w", err)
	}
	return os.Rename(tmp, s.path)
}
