package selections

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/floraos/retail-insights/pkg/models/domain"
	"github.com/floraos/retail-insights/pkg/models/store"
)

// Store persists saved date-range selections. The contract is append-only:
// there is no delete or update, and Load returns selections in the order
// they were saved.
type Store interface {
	Load(ctx context.Context) ([]domain.SavedSelection, error)
	Save(ctx context.Context, sel domain.SavedSelection) error
}

type fileStore struct {
	path string

	mu     sync.Mutex
	cache  []store.Selection
	loaded bool
}

// NewFileStore creates a store backed by a flat JSON file at path. The file
// does not need to exist yet.
func NewFileStore(path string) (Store, error) {
	if path == "" {
		return nil, fmt.Errorf("selection store path is empty")
	}
	return &fileStore{path: path}, nil
}

func (s *fileStore) Load(ctx context.Context) ([]domain.SavedSelection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	out := make([]domain.SavedSelection, 0, len(s.cache))
	for _, rec := range s.cache {
		sel, err := rec.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, sel)
	}
	return out, nil
}

func (s *fileStore) Save(ctx context.Context, sel domain.SavedSelection) error {
	if err := sel.Range().Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}

	updated := append(append([]store.Selection{}, s.cache...), store.FromDomain(sel))
	if err := s.rewrite(updated); err != nil {
		return &domain.PersistenceError{Op: "save", Err: err}
	}
	s.cache = updated

	zerolog.Ctx(ctx).Info().
		Str("selection", sel.Label()).
		Int("total", len(updated)).
		Msg("saved date selection")
	return nil
}

// ensureLoaded reads the file once per process. A missing file is an empty
// store, not an error. Callers hold s.mu.
func (s *fileStore) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		s.cache = nil
		s.loaded = true
		return nil
	}
	if err != nil {
		return &domain.PersistenceError{Op: "load", Err: err}
	}

	var recs []store.Selection
	if err := json.Unmarshal(data, &recs); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", s.path).Msg("selection file is not readable as JSON")
		return &domain.PersistenceError{Op: "load", Err: err}
	}

	s.cache = recs
	s.loaded = true
	return nil
}

// rewrite replaces the file contents atomically: the new sequence lands in
// a temp file first and is renamed over the destination, so a crash
// mid-write leaves the previous contents intact.
func (s *fileStore) rewrite(recs []store.Selection) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}
	return nil
}
