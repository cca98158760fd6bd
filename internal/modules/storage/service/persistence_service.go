package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/storage/domain"
	storageout "mindflow/internal/modules/storage/port/out"
	"mindflow/internal/platform/clock"
	"mindflow/internal/platform/id"
	"mindflow/internal/platform/logger"
	"mindflow/internal/platform/tx"
)

// PersistenceService maps the learner state onto one JSON payload per key.
type PersistenceService struct {
	kv    storageout.KV
	tx    tx.Manager
	clock clock.Clock
	idGen id.Generator
	log   *logger.Logger

	mu      sync.Mutex
	written map[string]string
}

func NewPersistenceService(kv storageout.KV, txm tx.Manager, clock clock.Clock, idGen id.Generator, log *logger.Logger) *PersistenceService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PersistenceService{kv: kv, tx: txm, clock: clock, idGen: idGen, log: log, written: map[string]string{}}
}

// Load reads every key independently. Missing keys give empty defaults and
// corrupt keys are logged and replaced by defaults. Folder members that no
// longer exist are dropped.
func (s *PersistenceService) Load(ctx context.Context) (contentdomain.State, error) {
	raw := map[string]string{}
	for _, key := range domain.AllKeys {
		value, ok, err := s.kv.Get(ctx, key)
		if err != nil {
			return contentdomain.State{}, fmt.Errorf("read %s: %w", key, err)
		}
		if ok {
			raw[key] = value
		}
	}

	state := contentdomain.EmptyState()
	state.Courses, _ = decodeKey(s, raw, domain.KeyCourses, state.Courses)
	state.Projects, _ = decodeKey(s, raw, domain.KeyProjects, state.Projects)
	state.Articles, _ = decodeKey(s, raw, domain.KeyArticles, state.Articles)
	state.Plans, _ = decodeKey(s, raw, domain.KeyLearningPlans, state.Plans)
	state.ChatHistory, _ = decodeKey(s, raw, domain.KeyChatHistory, state.ChatHistory)
	state.TestResults, _ = decodeKey(s, raw, domain.KeyTestResults, state.TestResults)

	storedFolders, _ := decodeKey(s, raw, domain.KeyFolders, []domain.StoredFolder{})
	for _, stored := range storedFolders {
		state.Folders = append(state.Folders, domain.FolderFromStored(stored))
	}

	profile, _ := decodeKey(s, raw, domain.KeyProfile, domain.StoredProfile{Profile: contentdomain.GuestProfile()})
	state.Profile = normalizeProfile(profile.Profile)

	if quest, ok := decodeKey(s, raw, domain.KeyQuest, contentdomain.DailyQuest{}); ok {
		state.Quest = &quest
	}
	state.Theme = raw[domain.KeyTheme]
	state.LastActiveCourseID = raw[domain.KeyLastActiveCourse]
	state.QuestDate = raw[domain.KeyQuestDate]

	migrated := false
	if profile.HasLegacy() {
		mergeLegacy(&state, profile)
		migrated = true
		s.log.Info("migrated legacy profile collections", "articles", len(profile.LegacyArticles), "folders", len(profile.LegacyFolders), "plans", len(profile.LegacyLearningPlans))
	}
	for i := range state.Courses {
		before := countTopicIDs(state.Courses[i])
		state.Courses[i].EnsureIDs(s.idGen.New)
		if countTopicIDs(state.Courses[i]) != before {
			migrated = true
		}
		if state.Courses[i].Progress.Len() == 0 {
			state.Courses[i].Progress = contentdomain.NewProgress()
		}
	}
	if dropped := state.Reconcile(); dropped > 0 {
		s.log.Debug("dropped dangling folder references", "count", dropped)
	}

	s.mu.Lock()
	s.written = raw
	s.mu.Unlock()
	if migrated {
		if err := s.Save(ctx, state); err != nil {
			return contentdomain.State{}, fmt.Errorf("save migrated state: %w", err)
		}
	}
	return state, nil
}

func decodeKey[T any](s *PersistenceService, raw map[string]string, key string, fallback T) (T, bool) {
	value, ok := raw[key]
	if !ok || value == "" {
		return fallback, false
	}
	out := fallback
	if err := json.Unmarshal([]byte(value), &out); err != nil {
		s.log.Warn("ignoring corrupt stored value", "key", key, "error", err)
		return fallback, false
	}
	return out, true
}

func normalizeProfile(profile contentdomain.Profile) contentdomain.Profile {
	if profile.ID == "" {
		profile.ID = contentdomain.GuestID
	}
	if profile.Level < 1 {
		profile.Level = 1
	}
	if profile.Achievements == nil {
		profile.Achievements = []contentdomain.AchievementID{}
	}
	if profile.Habits == nil {
		profile.Habits = []contentdomain.Habit{}
	}
	for i := range profile.Habits {
		if profile.Habits[i].History == nil {
			profile.Habits[i].History = map[string]bool{}
		}
	}
	return profile
}

func mergeLegacy(state *contentdomain.State, profile domain.StoredProfile) {
	for _, article := range profile.LegacyArticles {
		if state.ArticleIndex(article.ID) < 0 {
			state.Articles = append(state.Articles, article)
		}
	}
	for _, stored := range profile.LegacyFolders {
		if state.FolderIndex(stored.ID) < 0 {
			state.Folders = append(state.Folders, domain.FolderFromStored(stored))
		}
	}
	for _, plan := range profile.LegacyLearningPlans {
		if state.PlanIndex(plan.ID) < 0 {
			state.Plans = append(state.Plans, plan)
		}
	}
}

func countTopicIDs(course contentdomain.Course) int {
	n := 0
	for _, topic := range course.Topics {
		if topic.ID != "" {
			n++
		}
		for _, sub := range topic.Subtopics {
			if sub.ID != "" {
				n++
			}
		}
	}
	return n
}

// Encode renders state as the payload for each key. Empty raw-string keys
// are omitted, which deletes them on save.
func Encode(state contentdomain.State) (domain.Snapshot, error) {
	folders := make([]domain.StoredFolder, 0, len(state.Folders))
	for _, folder := range state.Folders {
		folders = append(folders, domain.FolderToStored(folder))
	}
	values := []struct {
		key   string
		value any
	}{
		{domain.KeyCourses, nonNil(state.Courses)},
		{domain.KeyFolders, folders},
		{domain.KeyProjects, nonNil(state.Projects)},
		{domain.KeyArticles, nonNil(state.Articles)},
		{domain.KeyProfile, state.Profile},
		{domain.KeyLearningPlans, nonNil(state.Plans)},
		{domain.KeyChatHistory, nonNil(state.ChatHistory)},
		{domain.KeyTestResults, nonNil(state.TestResults)},
	}
	snapshot := domain.Snapshot{}
	for _, v := range values {
		encoded, err := domain.Encode(v.value)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", v.key, err)
		}
		snapshot[v.key] = encoded
	}
	if state.Quest != nil {
		encoded, err := domain.Encode(state.Quest)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", domain.KeyQuest, err)
		}
		snapshot[domain.KeyQuest] = encoded
	}
	for key, value := range map[string]string{
		domain.KeyTheme:            state.Theme,
		domain.KeyLastActiveCourse: state.LastActiveCourseID,
		domain.KeyQuestDate:        state.QuestDate,
	} {
		if value != "" {
			snapshot[key] = value
		}
	}
	return snapshot, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

// Save writes each key whose payload changed since the last load or save.
// Keys absent from the encoded state are deleted.
func (s *PersistenceService) Save(ctx context.Context, state contentdomain.State) error {
	snapshot, err := Encode(state)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range domain.AllKeys {
		value, present := snapshot[key]
		previous, existed := s.written[key]
		switch {
		case present && existed && previous == value:
			continue
		case present:
			if err := s.kv.Set(ctx, key, value); err != nil {
				return fmt.Errorf("write %s: %w", key, err)
			}
			s.written[key] = value
		case existed:
			if err := s.kv.Delete(ctx, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
			delete(s.written, key)
		}
	}
	return nil
}

// Export returns the raw stored strings as a versioned backup bundle.
func (s *PersistenceService) Export(ctx context.Context) (domain.Backup, error) {
	backup := domain.Backup{BackupVersion: domain.BackupVersion, Timestamp: s.clock.Now().UnixMilli()}
	targets := map[string]**string{
		domain.KeyCourses:       &backup.Courses,
		domain.KeyFolders:       &backup.Folders,
		domain.KeyProjects:      &backup.Projects,
		domain.KeyArticles:      &backup.Articles,
		domain.KeyProfile:       &backup.GuestUserProfile,
		domain.KeyChatHistory:   &backup.ChatHistory,
		domain.KeyTestResults:   &backup.TestResults,
		domain.KeyLearningPlans: &backup.LearningPlans,
	}
	for _, field := range domain.BackupFields {
		value, ok, err := s.kv.Get(ctx, field.Key)
		if err != nil {
			return domain.Backup{}, fmt.Errorf("read %s: %w", field.Key, err)
		}
		if ok {
			v := value
			*targets[field.Key] = &v
		}
	}
	return backup, nil
}

// Import validates the whole bundle before touching storage, then replaces
// every backup key inside one transaction.
func (s *PersistenceService) Import(ctx context.Context, raw []byte) error {
	values, err := domain.ParseBackup(raw)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err = s.tx.Within(ctx, func(txCtx context.Context) error {
		for _, field := range domain.BackupFields {
			value := values[field.Key]
			if value == nil {
				if err := s.kv.Delete(txCtx, field.Key); err != nil {
					return fmt.Errorf("clear %s: %w", field.Key, err)
				}
				continue
			}
			if err := s.kv.Set(txCtx, field.Key, *value); err != nil {
				return fmt.Errorf("write %s: %w", field.Key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.written = map[string]string{}
	return nil
}

// Reset deletes every learning key. Theme and quest are kept.
func (s *PersistenceService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.tx.Within(ctx, func(txCtx context.Context) error {
		for _, key := range domain.LearningKeys {
			if err := s.kv.Delete(txCtx, key); err != nil {
				return fmt.Errorf("delete %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.written = map[string]string{}
	return nil
}
