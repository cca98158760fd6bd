package domain

import (
	"fmt"
	"strings"
)

// Folder groups courses and articles by id. Members always name entries of
// the global collections.
type Folder struct {
	ID         string
	Name       string
	CourseIDs  []string
	ArticleIDs []string
}

func (f Folder) Validate() error {
	if strings.TrimSpace(f.ID) == "" {
		return fmt.Errorf("folder id is required")
	}
	if strings.TrimSpace(f.Name) == "" {
		return fmt.Errorf("folder name is required")
	}
	return nil
}

func (f Folder) HasCourse(id string) bool {
	return containsID(f.CourseIDs, id)
}

func (f Folder) HasArticle(id string) bool {
	return containsID(f.ArticleIDs, id)
}

func (f Folder) Clone() Folder {
	f.CourseIDs = append([]string(nil), f.CourseIDs...)
	f.ArticleIDs = append([]string(nil), f.ArticleIDs...)
	return f
}

func containsID(ids []string, id string) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}
