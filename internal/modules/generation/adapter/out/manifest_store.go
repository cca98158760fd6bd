package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"mindflow/internal/modules/generation/domain"
	genout "mindflow/internal/modules/generation/port/out"
)

// FileManifestStore reads generator plugin manifests from a JSON file.
// Relative binary paths resolve against baseDir.
type FileManifestStore struct {
	baseDir string
	path    string
}

func NewFileManifestStore(baseDir, path string) genout.ManifestStore {
	return &FileManifestStore{baseDir: baseDir, path: path}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []domain.Manifest{}, nil
		}
		return nil, fmt.Errorf("read generator manifest: %w", err)
	}
	var manifests []domain.Manifest
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&manifests); err != nil {
		return nil, fmt.Errorf("decode generator manifests: %w", err)
	}
	for i := range manifests {
		if manifests[i].Binary != "" && !filepath.IsAbs(manifests[i].Binary) {
			manifests[i].Binary = filepath.Clean(filepath.Join(s.baseDir, manifests[i].Binary))
		}
	}
	return manifests, nil
}
