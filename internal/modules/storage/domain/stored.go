package domain

import (
	"encoding/json"

	contentdomain "mindflow/internal/modules/content/domain"
)

// StoredRef is a folder member as persisted. Older data may hold whole
// objects or nulls; only the id is read.
type StoredRef struct {
	ID string `json:"id"`
}

type StoredFolder struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Courses  []*StoredRef `json:"courses"`
	Articles []*StoredRef `json:"articles"`
}

// StoredProfile is the persisted profile. The legacy fields are only read
// to migrate data written before they became top-level collections.
type StoredProfile struct {
	contentdomain.Profile
	LegacyArticles      []contentdomain.Article      `json:"articles,omitempty"`
	LegacyFolders       []StoredFolder               `json:"folders,omitempty"`
	LegacyLearningPlans []contentdomain.LearningPlan `json:"learningPlans,omitempty"`
}

func (p StoredProfile) HasLegacy() bool {
	return len(p.LegacyArticles) > 0 || len(p.LegacyFolders) > 0 || len(p.LegacyLearningPlans) > 0
}

func FolderToStored(folder contentdomain.Folder) StoredFolder {
	out := StoredFolder{ID: folder.ID, Name: folder.Name, Courses: []*StoredRef{}, Articles: []*StoredRef{}}
	for _, id := range folder.CourseIDs {
		out.Courses = append(out.Courses, &StoredRef{ID: id})
	}
	for _, id := range folder.ArticleIDs {
		out.Articles = append(out.Articles, &StoredRef{ID: id})
	}
	return out
}

func FolderFromStored(stored StoredFolder) contentdomain.Folder {
	return contentdomain.Folder{
		ID:         stored.ID,
		Name:       stored.Name,
		CourseIDs:  refIDs(stored.Courses),
		ArticleIDs: refIDs(stored.Articles),
	}
}

func refIDs(refs []*StoredRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		if ref != nil && ref.ID != "" {
			out = append(out, ref.ID)
		}
	}
	return out
}

// Snapshot is the encoded form of a state, one JSON payload per key.
type Snapshot map[string]string

func Encode(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
