package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/content/service"
	"mindflow/internal/platform/id"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC) }

type memorySnapshots struct {
	state   domain.State
	saves   int
	saveErr error
}

func (m *memorySnapshots) Load(context.Context) (domain.State, error) {
	return m.state.Clone(), nil
}

func (m *memorySnapshots) Save(_ context.Context, state domain.State) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.state = state.Clone()
	return nil
}

func TestReloadReconcilesDanglingFolderMembers(t *testing.T) {
	t.Parallel()
	state := domain.EmptyState()
	state.Courses = []domain.Course{{ID: "c1", Title: "Go", Progress: domain.NewProgress()}}
	state.Folders = []domain.Folder{{ID: "f1", Name: "Mine", CourseIDs: []string{"c1", "gone", "c1"}, ArticleIDs: []string{"missing"}}}
	store := service.NewStore(&memorySnapshots{state: state}, fixedClock{}, id.RandomHex{}, nil)

	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}
	folder := store.Snapshot().Folders[0]
	if len(folder.CourseIDs) != 1 || len(folder.ArticleIDs) != 0 {
		t.Fatalf("dangling members kept: %+v", folder)
	}
}

func TestUpdateCommitsOnlyAfterSave(t *testing.T) {
	t.Parallel()
	snapshots := &memorySnapshots{state: domain.EmptyState()}
	store := service.NewStore(snapshots, fixedClock{}, id.RandomHex{}, nil)
	ctx := context.Background()

	err := store.Update(ctx, func(state *domain.State) error {
		return state.CreateFolder(domain.Folder{ID: "f1", Name: "Work"})
	})
	if err != nil || len(store.Snapshot().Folders) != 1 || snapshots.saves != 1 {
		t.Fatalf("update = %v, folders %d, saves %d", err, len(store.Snapshot().Folders), snapshots.saves)
	}

	snapshots.saveErr = errors.New("disk full")
	err = store.Update(ctx, func(state *domain.State) error {
		return state.CreateFolder(domain.Folder{ID: "f2", Name: "Play"})
	})
	if err == nil || len(store.Snapshot().Folders) != 1 {
		t.Fatalf("failed save must leave state unchanged: %v", err)
	}

	snapshots.saveErr = nil
	boom := errors.New("boom")
	err = store.Update(ctx, func(state *domain.State) error {
		state.Folders = nil
		return boom
	})
	if !errors.Is(err, boom) || len(store.Snapshot().Folders) != 1 {
		t.Fatalf("failed mutation must leave state unchanged: %v", err)
	}
}

func TestSnapshotIsIsolatedFromCallers(t *testing.T) {
	t.Parallel()
	store := service.NewStore(&memorySnapshots{state: domain.EmptyState()}, fixedClock{}, id.RandomHex{}, nil)
	ctx := context.Background()
	if err := store.Update(ctx, func(state *domain.State) error {
		return state.CreateFolder(domain.Folder{ID: "f1", Name: "Work"})
	}); err != nil {
		t.Fatalf("update: %v", err)
	}
	snap := store.Snapshot()
	snap.Folders[0].Name = "changed"
	if store.Snapshot().Folders[0].Name != "Work" {
		t.Fatalf("snapshot shares memory with the store")
	}
}

func TestSubscribersAreSignalledAndCoalesced(t *testing.T) {
	t.Parallel()
	store := service.NewStore(&memorySnapshots{state: domain.EmptyState()}, fixedClock{}, id.RandomHex{}, nil)
	ch, cancel := store.Subscribe()
	defer cancel()
	ctx := context.Background()
	for _, name := range []string{"a", "b"} {
		if err := store.Update(ctx, func(state *domain.State) error {
			return state.CreateFolder(domain.Folder{ID: name, Name: name})
		}); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	select {
	case <-ch:
	default:
		t.Fatalf("expected a change signal")
	}
	select {
	case <-ch:
		t.Fatalf("signals should coalesce")
	default:
	}
	if store.Today() != "2026-03-14" {
		t.Fatalf("today = %q", store.Today())
	}
}
