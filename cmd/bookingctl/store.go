package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"roomdesk/internal/auth"
)

// fileStore keeps the CLI's one session on disk so later commands reuse
// the backend token. It implements auth.Repository.
type fileStore struct {
	path string
}

func newFileStore(path string) *fileStore {
	return &fileStore{path: path}
}

func defaultStorePath() string {
	if p := os.Getenv("ROOMDESK_SESSION_FILE"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".roomdesk-session.json"
	}
	return filepath.Join(dir, "roomdesk", "session.json")
}

func (f *fileStore) Save(_ context.Context, s *auth.Session, _ time.Duration) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *fileStore) Get(ctx context.Context, id string) (*auth.Session, error) {
	s, err := f.Current(ctx)
	if err != nil {
		return nil, err
	}
	if s.ID != id {
		return nil, auth.ErrSessionNotFound
	}
	return s, nil
}

func (f *fileStore) Delete(_ context.Context, _ string) error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Current returns the stored session whatever its id.
func (f *fileStore) Current(_ context.Context) (*auth.Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, auth.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var s auth.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
