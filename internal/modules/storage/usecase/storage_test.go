package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	contentdomain "mindflow/internal/modules/content/domain"
	storageout "mindflow/internal/modules/storage/adapter/out"
	"mindflow/internal/modules/storage/dto"
	"mindflow/internal/modules/storage/service"
	"mindflow/internal/modules/storage/usecase"
	apperrors "mindflow/internal/platform/errors"
	"mindflow/internal/platform/id"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

type countingReloader struct{ calls int }

func (r *countingReloader) Reload(context.Context) error {
	r.calls++
	return nil
}

func TestExportImportThroughSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	kv, err := storageout.NewSQLiteKV(filepath.Join(t.TempDir(), "mindflow.db"), fixedClock{})
	if err != nil {
		t.Fatalf("open kv: %v", err)
	}
	defer kv.Close()
	svc := service.NewPersistenceService(kv, kv, fixedClock{}, id.RandomHex{}, nil)
	state := contentdomain.EmptyState()
	state.Courses = []contentdomain.Course{{ID: "c1", Title: "Go", Progress: contentdomain.NewProgress(), Topics: []contentdomain.Topic{}}}
	if err := svc.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloader := &countingReloader{}
	uc := usecase.NewInteractor(svc, reloader)
	out, err := uc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if out.Version != "1.3" || len(out.Keys) == 0 {
		t.Fatalf("unexpected export %+v", out)
	}
	var decoded map[string]any
	if err := json.Unmarshal(out.Payload, &decoded); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if _, ok := decoded["courses"].(string); !ok {
		t.Fatalf("courses should be a raw string in the bundle: %T", decoded["courses"])
	}

	if err := uc.Import(ctx, dto.ImportInput{Payload: out.Payload}); !errors.Is(err, apperrors.ErrNotConfirmed) {
		t.Fatalf("unconfirmed import should fail, got %v", err)
	}
	if err := uc.Reset(ctx, dto.ResetInput{Confirm: true}); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if err := uc.Import(ctx, dto.ImportInput{Payload: out.Payload, Confirm: true}); err != nil {
		t.Fatalf("import: %v", err)
	}
	loaded, err := svc.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Courses) != 1 || loaded.Courses[0].ID != "c1" {
		t.Fatalf("course not restored: %+v", loaded.Courses)
	}
	if reloader.calls != 2 {
		t.Fatalf("reload calls = %d, want 2", reloader.calls)
	}
}
