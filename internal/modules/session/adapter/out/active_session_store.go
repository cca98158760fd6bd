package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mindflow/internal/modules/session/domain"
	sessionout "mindflow/internal/modules/session/port/out"
	apperrors "mindflow/internal/platform/errors"
)

type FileActiveSessionStore struct {
	path string
}

type activeFile struct {
	SchemaVersion int            `json:"schema_version"`
	Session       domain.Session `json:"session"`
}

func NewFileActiveSessionStore(stateDir string) sessionout.ActiveSessionStore {
	return &FileActiveSessionStore{path: filepath.Join(stateDir, "active-session.json")}
}

func (s *FileActiveSessionStore) SaveActive(_ context.Context, session domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create active session dir: %w", err)
	}
	payload, err := json.MarshalIndent(activeFile{SchemaVersion: domain.SchemaVersion, Session: session}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal active session: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write active session: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace active session: %w", err)
	}
	return nil
}

func (s *FileActiveSessionStore) LoadActive(_ context.Context) (domain.Session, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Session{}, apperrors.ErrNoActiveSession
		}
		return domain.Session{}, fmt.Errorf("read active session: %w", err)
	}
	var file activeFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return domain.Session{}, fmt.Errorf("decode active session: %w", err)
	}
	if file.Session.ID == "" {
		return domain.Session{}, apperrors.ErrNoActiveSession
	}
	return file.Session, nil
}

func (s *FileActiveSessionStore) ClearActive(_ context.Context) error {
	if err := os.Remove(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clear active session: %w", err)
	}
	return nil
}
