package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/storage/domain"
	"mindflow/internal/modules/storage/service"
)

type fixedClock struct{}

func (fixedClock) Now() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }

type seqID struct {
	mu sync.Mutex
	n  int
}

func (s *seqID) New() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("gen-%d", s.n)
}

type memoryKV struct {
	data   map[string]string
	sets   map[string]int
	failOn string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{data: map[string]string{}, sets: map[string]int{}}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	if key == m.failOn {
		return errors.New("disk full")
	}
	m.data[key] = value
	m.sets[key]++
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *memoryKV) Close() error { return nil }

// Within snapshots the map and restores it when fn fails.
func (m *memoryKV) Within(ctx context.Context, fn func(context.Context) error) error {
	backup := map[string]string{}
	for k, v := range m.data {
		backup[k] = v
	}
	if err := fn(ctx); err != nil {
		m.data = backup
		return err
	}
	return nil
}

func newService(kv *memoryKV) *service.PersistenceService {
	return service.NewPersistenceService(kv, kv, fixedClock{}, &seqID{}, nil)
}

func sampleState() contentdomain.State {
	state := contentdomain.EmptyState()
	progress := contentdomain.NewProgress()
	progress.Set("s1", 1700000000000)
	state.Courses = []contentdomain.Course{{
		ID:       "c1",
		Title:    "Go",
		Progress: progress,
		Topics: []contentdomain.Topic{{ID: "t1", Title: "Basics", Subtopics: []contentdomain.Subtopic{
			{ID: "s1", Title: "Intro", Type: contentdomain.SubtopicArticle, Article: &contentdomain.ArticleData{Objective: "o"}},
		}}},
	}}
	state.Articles = []contentdomain.Article{{ID: "a1", Title: "Post", Body: "# hi"}}
	state.Folders = []contentdomain.Folder{{ID: "f1", Name: "Main", CourseIDs: []string{"c1"}, ArticleIDs: []string{"a1"}}}
	state.Profile.XP = 200
	state.LastActiveCourseID = "c1"
	return state
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()
	kv := newMemoryKV()
	svc := newService(kv)
	ctx := context.Background()
	if err := svc.Save(ctx, sampleState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	if !strings.Contains(kv.data[domain.KeyFolders], `"courses":[{"id":"c1"}]`) {
		t.Fatalf("folders should persist id refs only: %s", kv.data[domain.KeyFolders])
	}
	if kv.data[domain.KeyLastActiveCourse] != "c1" {
		t.Fatalf("last active course should be a raw string: %q", kv.data[domain.KeyLastActiveCourse])
	}
	loaded, err := newService(kv).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(loaded.Courses) != 1 || !loaded.Courses[0].Progress.Has("s1") || loaded.Profile.XP != 200 {
		t.Fatalf("unexpected state: %+v", loaded)
	}
	if !loaded.Folders[0].HasArticle("a1") {
		t.Fatalf("folder membership lost")
	}
}

func TestSaveSkipsUnchangedKeys(t *testing.T) {
	t.Parallel()
	kv := newMemoryKV()
	svc := newService(kv)
	ctx := context.Background()
	state := sampleState()
	if err := svc.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	state.Profile.XP = 300
	if err := svc.Save(ctx, state); err != nil {
		t.Fatalf("second save: %v", err)
	}
	if kv.sets[domain.KeyCourses] != 1 || kv.sets[domain.KeyProfile] != 2 {
		t.Fatalf("unexpected write counts: %v", kv.sets)
	}
}

func TestLoadDropsDanglingFolderRefsAndSurvivesCorruptKeys(t *testing.T) {
	t.Parallel()
	kv := newMemoryKV()
	kv.data[domain.KeyCourses] = `[{"id":"c1","title":"Go","topics":[],"progress":{}}]`
	kv.data[domain.KeyFolders] = `[{"id":"f1","name":"Main","courses":[{"id":"c1"},{"id":"ghost"},null]}]`
	kv.data[domain.KeyProjects] = `{not json`
	kv.data[domain.KeyProfile] = `{"id":"guest","name":"Guest","xp":40,"level":2,"achievements":["firstSteps"]}`
	state, err := newService(kv).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := state.Folders[0].CourseIDs; len(got) != 1 || got[0] != "c1" {
		t.Fatalf("dangling refs kept: %v", got)
	}
	if state.Folders[0].ArticleIDs == nil {
		t.Fatalf("missing articles list should default to empty")
	}
	if len(state.Projects) != 0 {
		t.Fatalf("corrupt projects should default to empty")
	}
	if state.Profile.Level != 2 || state.Profile.Habits == nil {
		t.Fatalf("profile not normalized: %+v", state.Profile)
	}
}

func TestLoadMigratesLegacyProfileAndTopicIDs(t *testing.T) {
	t.Parallel()
	kv := newMemoryKV()
	kv.data[domain.KeyCourses] = `[{"id":"c1","title":"Go","progress":{},"topics":[{"title":"Basics","subtopics":[{"id":"s1","type":"quiz","title":"Q","data":{"description":"d","questions":[]}}]}]}]`
	kv.data[domain.KeyProfile] = `{"id":"guest","xp":0,"level":1,"achievements":[],
	  "articles":[{"id":"a1","title":"Old","subtitle":"","blogPost":"x"}],
	  "folders":[{"id":"f1","name":"Legacy","courses":[{"id":"c1"}],"articles":[{"id":"a1"}]}],
	  "learningPlans":[{"id":"p1","title":"Plan","startDate":0,"duration":1,"dailyTasks":[],"status":"active","folderId":"f1"}]}`
	state, err := newService(kv).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(state.Articles) != 1 || len(state.Folders) != 1 || len(state.Plans) != 1 {
		t.Fatalf("legacy collections not merged: %+v", state)
	}
	if state.Courses[0].Topics[0].ID == "" {
		t.Fatalf("topic id not assigned")
	}
	if strings.Contains(kv.data[domain.KeyProfile], "learningPlans") {
		t.Fatalf("profile should be re-saved without legacy fields: %s", kv.data[domain.KeyProfile])
	}
	if !strings.Contains(kv.data[domain.KeyCourses], `"id":"gen-`) {
		t.Fatalf("assigned topic ids should be persisted: %s", kv.data[domain.KeyCourses])
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()
	source := newMemoryKV()
	svc := newService(source)
	ctx := context.Background()
	if err := svc.Save(ctx, sampleState()); err != nil {
		t.Fatalf("save: %v", err)
	}
	backup, err := svc.Export(ctx)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if backup.BackupVersion != "1.3" || backup.Timestamp == 0 || backup.Courses == nil {
		t.Fatalf("unexpected backup header: %+v", backup)
	}
	raw, err := json.Marshal(backup)
	if err != nil {
		t.Fatalf("marshal backup: %v", err)
	}

	target := newMemoryKV()
	target.data[domain.KeyArticles] = `[{"id":"stale"}]`
	target.data[domain.KeyTheme] = "dark"
	if err := newService(target).Import(ctx, raw); err != nil {
		t.Fatalf("import: %v", err)
	}
	for _, key := range []string{domain.KeyCourses, domain.KeyFolders, domain.KeyProjects, domain.KeyArticles, domain.KeyProfile} {
		if target.data[key] != source.data[key] {
			t.Fatalf("key %s differs after import:\n%s\n%s", key, target.data[key], source.data[key])
		}
	}
	if target.data[domain.KeyTheme] != "dark" {
		t.Fatalf("import must not touch theme")
	}
}

func TestImportFailsClosed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cases := map[string]string{
		"missing folders":  `{"courses":"[]","projects":"[]"}`,
		"not json":         `{"courses":`,
		"invalid payload":  `{"courses":"[{","folders":"[]","projects":"[]"}`,
		"non string field": `{"courses":[],"folders":"[]","projects":"[]"}`,
	}
	for name, raw := range cases {
		kv := newMemoryKV()
		kv.data[domain.KeyCourses] = `[{"id":"keep"}]`
		err := newService(kv).Import(ctx, []byte(raw))
		if err == nil {
			t.Fatalf("%s: import should fail", name)
		}
		if kv.data[domain.KeyCourses] != `[{"id":"keep"}]` {
			t.Fatalf("%s: storage changed on failed import", name)
		}
	}
	kv := newMemoryKV()
	err := newService(kv).Import(ctx, []byte(`{"courses":"[]","projects":"[]"}`))
	if !errors.Is(err, domain.ErrMissingBackupKey) {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestImportRollsBackOnWriteFailure(t *testing.T) {
	t.Parallel()
	kv := newMemoryKV()
	kv.data[domain.KeyCourses] = `[{"id":"keep"}]`
	kv.failOn = domain.KeyProjects
	err := newService(kv).Import(context.Background(), []byte(`{"courses":"[]","folders":"[]","projects":"[]"}`))
	if err == nil {
		t.Fatalf("import should surface write failure")
	}
	if kv.data[domain.KeyCourses] != `[{"id":"keep"}]` {
		t.Fatalf("partial import was not rolled back")
	}
}

func TestResetKeepsThemeAndQuest(t *testing.T) {
	t.Parallel()
	kv := newMemoryKV()
	svc := newService(kv)
	ctx := context.Background()
	state := sampleState()
	state.Theme = "light"
	state.SetQuest(contentdomain.DailyQuest{Title: "q", XP: 50}, "2026-01-01")
	if err := svc.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := svc.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok := kv.data[domain.KeyCourses]; ok {
		t.Fatalf("courses should be cleared")
	}
	if kv.data[domain.KeyTheme] != "light" || kv.data[domain.KeyQuestDate] != "2026-01-01" {
		t.Fatalf("theme and quest should survive reset: %v", kv.data)
	}
}
