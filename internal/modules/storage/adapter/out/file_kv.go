package out

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

type fileStageKey struct{}

type fileStage struct {
	mu     sync.Mutex
	writes map[string]*string
	order  []string
}

// FileKV keeps one file per key under dir. Writes go through a temp file and
// rename. Transactions stage writes in memory and apply them on success.
type FileKV struct {
	dir string
}

func NewFileKV(dir string) (*FileKV, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create kv dir: %w", err)
	}
	return &FileKV{dir: dir}, nil
}

func (f *FileKV) path(key string) string {
	return filepath.Join(f.dir, url.QueryEscape(key)+".json")
}

func (f *FileKV) Get(ctx context.Context, key string) (string, bool, error) {
	if stage, ok := ctx.Value(fileStageKey{}).(*fileStage); ok {
		stage.mu.Lock()
		staged, found := stage.writes[key]
		stage.mu.Unlock()
		if found {
			if staged == nil {
				return "", false, nil
			}
			return *staged, true, nil
		}
	}
	payload, err := os.ReadFile(f.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read %s: %w", key, err)
	}
	return string(payload), true, nil
}

func (f *FileKV) Set(ctx context.Context, key, value string) error {
	if stage, ok := ctx.Value(fileStageKey{}).(*fileStage); ok {
		stage.put(key, &value)
		return nil
	}
	return f.write(key, value)
}

func (f *FileKV) Delete(ctx context.Context, key string) error {
	if stage, ok := ctx.Value(fileStageKey{}).(*fileStage); ok {
		stage.put(key, nil)
		return nil
	}
	return f.remove(key)
}

func (s *fileStage) put(key string, value *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.writes[key]; !ok {
		s.order = append(s.order, key)
	}
	s.writes[key] = value
}

func (f *FileKV) write(key, value string) error {
	tmp, err := os.CreateTemp(f.dir, ".kv-*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", key, err)
	}
	if _, err := tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.path(key)); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("rename %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) remove(key string) error {
	if err := os.Remove(f.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (f *FileKV) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(fileStageKey{}).(*fileStage); ok {
		return fn(ctx)
	}
	stage := &fileStage{writes: map[string]*string{}}
	if err := fn(context.WithValue(ctx, fileStageKey{}, stage)); err != nil {
		return err
	}
	for _, key := range stage.order {
		var err error
		if value := stage.writes[key]; value != nil {
			err = f.write(key, *value)
		} else {
			err = f.remove(key)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (f *FileKV) Close() error {
	return nil
}
