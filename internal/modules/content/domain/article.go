package domain

type Article struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Subtitle string     `json:"subtitle"`
	Body     string     `json:"blogPost"`
	Course   *CourseRef `json:"course,omitempty"`
}
