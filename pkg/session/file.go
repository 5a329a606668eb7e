package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/report"
)

// latestFile holds the ID of the most recently stored plan.
const latestFile = "latest"

// FileStore is a file-based plan store for the CLI.
// Plans are stored as JSON files in a config directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a new file-based plan store.
// If baseDir is empty, defaults to ~/.config/cortex/plans/
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "cortex", "plans")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create plan dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) planPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Get(ctx context.Context, id string) (report.State, error) {
	if err := errors.ValidatePlanID(id); err != nil {
		return report.State{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(id)
}

func (s *FileStore) read(id string) (report.State, error) {
	data, err := os.ReadFile(s.planPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return report.State{}, notFound(id)
		}
		return report.State{}, fmt.Errorf("read plan file: %w", err)
	}

	var st report.State
	if err := json.Unmarshal(data, &st); err != nil {
		return report.State{}, fmt.Errorf("parse plan: %w", err)
	}
	return st, nil
}

func (s *FileStore) Latest(ctx context.Context) (report.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(s.baseDir, latestFile))
	if err != nil {
		if os.IsNotExist(err) {
			return report.State{}, notFound("")
		}
		return report.State{}, fmt.Errorf("read latest plan pointer: %w", err)
	}
	id := string(data)
	if errors.ValidatePlanID(id) != nil {
		return report.State{}, notFound("")
	}
	st, err := s.read(id)
	if errors.Is(err, errors.ErrCodePlanNotFound) {
		return report.State{}, notFound("")
	}
	return st, err
}

func (s *FileStore) Set(ctx context.Context, st report.State) error {
	if err := checkState(st); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal plan: %w", err)
	}
	if err := os.WriteFile(s.planPath(st.ID), data, 0600); err != nil {
		return fmt.Errorf("write plan file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.baseDir, latestFile), []byte(st.ID), 0600); err != nil {
		return fmt.Errorf("write latest plan pointer: %w", err)
	}
	return nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := errors.ValidatePlanID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.planPath(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove plan file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for plan files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
