package jsonstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/signal-verifier/internal/domain"
)

// PendingTTL is how long a pending link stays redeemable. Mirrors the
// staleness bound on signed start links.
const PendingTTL = 10 * time.Minute

// PendingStore persists in-flight linking attempts in a single JSON file,
// keyed by state token. One mutex spans every load→GC→mutate→persist cycle,
// and every persist rewrites the whole file via temp-file-then-rename so a
// crash mid-write never leaves a partial file visible. Adequate for the
// single-digit concurrent links this store sees.
type PendingStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewPendingStore(path string) *PendingStore {
	return &PendingStore{path: path, now: time.Now}
}

// Put records a pending link under state, overwriting any previous entry for
// the same token. Expired entries are garbage-collected on the way.
func (s *PendingStore) Put(state, userID, codeVerifier string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.loadAndSweep()
	if err != nil {
		return err
	}
	pending[state] = domain.PendingLink{
		UserID:       userID,
		CodeVerifier: codeVerifier,
		CreatedAt:    s.now().Unix(),
	}
	return s.persist(pending)
}

// Pop removes and returns the pending link for state. A missing or expired
// entry yields domain.ErrNotFound; a second Pop of the same state always
// does, which is what makes each state token single-use.
func (s *PendingStore) Pop(state string) (*domain.PendingLink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.loadAndSweep()
	if err != nil {
		return nil, err
	}
	entry, ok := pending[state]
	delete(pending, state)
	if err := s.persist(pending); err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("pending link not found: %w", domain.ErrNotFound)
	}
	return &entry, nil
}

// loadAndSweep reads the store file and drops entries older than PendingTTL.
// A missing or corrupted file starts fresh rather than wedging the flow.
func (s *PendingStore) loadAndSweep() (map[string]domain.PendingLink, error) {
	pending := make(map[string]domain.PendingLink)

	data, err := os.ReadFile(s.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return pending, nil
	case err != nil:
		return nil, fmt.Errorf("read pending store: %w", err)
	}

	if err := json.Unmarshal(data, &pending); err != nil {
		return make(map[string]domain.PendingLink), nil
	}

	cutoff := s.now().Unix() - int64(PendingTTL.Seconds())
	for state, entry := range pending {
		if entry.CreatedAt < cutoff {
			delete(pending, state)
		}
	}
	return pending, nil
}

func (s *PendingStore) persist(pending map[string]domain.PendingLink) error {
	data, err := json.MarshalIndent(pending, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal pending store: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".pending-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write pending store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp store file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace pending store: %w", err)
	}
	return nil
}
