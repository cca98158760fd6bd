package domain

type Project struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Steps       []ProjectStep `json:"steps"`
	Course      *CourseRef    `json:"course,omitempty"`
	Progress    Progress      `json:"progress"`
}

type ProjectStep struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	CodeStub    string `json:"codeStub"`
	Challenge   string `json:"challenge"`
}

func (p Project) HasStep(id string) bool {
	for _, step := range p.Steps {
		if step.ID == id {
			return true
		}
	}
	return false
}

func (p Project) Clone() Project {
	out := p
	out.Steps = append([]ProjectStep(nil), p.Steps...)
	out.Progress = p.Progress.Clone()
	return out
}
