package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

const BackupVersion = "1.3"

var ErrMissingBackupKey = errors.New("missing required backup key")

// Backup holds raw stored strings, so every content field is JSON text
// embedded in JSON. A nil field means the key was never written.
type Backup struct {
	Courses          *string `json:"courses"`
	Folders          *string `json:"folders"`
	Projects         *string `json:"projects"`
	Articles         *string `json:"articles"`
	GuestUserProfile *string `json:"guestUserProfile"`
	ChatHistory      *string `json:"chatHistory"`
	TestResults      *string `json:"testResults"`
	LearningPlans    *string `json:"learningPlans"`
	BackupVersion    string  `json:"backupVersion"`
	Timestamp        int64   `json:"timestamp"`
}

// RequiredBackupKeys must be present in an import file, possibly as null.
var RequiredBackupKeys = []string{"courses", "folders", "projects"}

// BackupField ties a bundle field to its storage key.
type BackupField struct {
	Name string
	Key  string
}

var BackupFields = []BackupField{
	{Name: "courses", Key: KeyCourses},
	{Name: "folders", Key: KeyFolders},
	{Name: "projects", Key: KeyProjects},
	{Name: "articles", Key: KeyArticles},
	{Name: "guestUserProfile", Key: KeyProfile},
	{Name: "chatHistory", Key: KeyChatHistory},
	{Name: "testResults", Key: KeyTestResults},
	{Name: "learningPlans", Key: KeyLearningPlans},
}

// ParseBackup decodes and fully validates an import file. It returns the
// values to write keyed by storage key; a nil value means the key is cleared.
func ParseBackup(raw []byte) (map[string]*string, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode backup: %w", err)
	}
	for _, name := range RequiredBackupKeys {
		if _, ok := fields[name]; !ok {
			return nil, fmt.Errorf("import failed: %w %q", ErrMissingBackupKey, name)
		}
	}
	out := make(map[string]*string, len(BackupFields))
	for _, field := range BackupFields {
		value, ok := fields[field.Name]
		if !ok || string(value) == "null" {
			out[field.Key] = nil
			continue
		}
		var text string
		if err := json.Unmarshal(value, &text); err != nil {
			return nil, fmt.Errorf("backup field %q must be a string: %w", field.Name, err)
		}
		if text == "" {
			out[field.Key] = nil
			continue
		}
		if !json.Valid([]byte(text)) {
			return nil, fmt.Errorf("backup field %q does not hold valid json", field.Name)
		}
		out[field.Key] = &text
	}
	return out, nil
}
