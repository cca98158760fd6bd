package domain

import (
	"fmt"
	"strings"

	"mindflow/internal/platform/markdown"
	"mindflow/internal/platform/slug"
)

const ProgressBlock = "progress"

// Document is one markdown file produced by an export. When KeepBody is set
// an existing file keeps its body and only the Managed block is rewritten.
type Document struct {
	Dir      string
	Name     string
	Fields   []markdown.Field
	Body     string
	Managed  string
	KeepBody bool
}

func (d Document) FileName() string {
	return d.Name + ".md"
}

func documentName(title, id string) string {
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return slug.Make(title) + "-" + id
}

// CourseDocument renders the course outline with its progress checklist.
func CourseDocument(course Course, folder string) Document {
	fields := []markdown.Field{
		{Key: "id", Value: course.ID},
		{Key: "title", Value: course.Title},
		{Key: "level", Value: string(course.KnowledgeLevel)},
		{Key: "category", Value: course.Category},
		{Key: "technologies", Value: course.Technologies},
		{Key: "completed", Value: course.Progress.Len()},
		{Key: "total", Value: course.TotalSubtopics()},
	}
	if folder != "" {
		fields = append(fields, markdown.Field{Key: "folder", Value: folder})
	}
	var body strings.Builder
	fmt.Fprintf(&body, "# %s\n\n", course.Title)
	if course.Description != "" {
		fmt.Fprintf(&body, "%s\n\n", course.Description)
	}
	if course.About != "" {
		fmt.Fprintf(&body, "%s\n\n", course.About)
	}
	body.WriteString("## Notes\n")

	var checklist strings.Builder
	for _, topic := range course.Topics {
		fmt.Fprintf(&checklist, "### %s\n", topic.Title)
		for _, sub := range topic.Subtopics {
			mark := " "
			if course.Progress.Has(sub.ID) {
				mark = "x"
			}
			fmt.Fprintf(&checklist, "- [%s] %s (%s)\n", mark, sub.Title, sub.Type)
		}
	}
	return Document{
		Dir:      "courses",
		Name:     documentName(course.Title, course.ID),
		Fields:   fields,
		Body:     body.String(),
		Managed:  checklist.String(),
		KeepBody: true,
	}
}

func ArticleDocument(article Article, folder string) Document {
	fields := []markdown.Field{
		{Key: "id", Value: article.ID},
		{Key: "title", Value: article.Title},
	}
	if article.Subtitle != "" {
		fields = append(fields, markdown.Field{Key: "subtitle", Value: article.Subtitle})
	}
	if article.Course != nil {
		fields = append(fields, markdown.Field{Key: "course", Value: article.Course.Title})
	}
	if folder != "" {
		fields = append(fields, markdown.Field{Key: "folder", Value: folder})
	}
	return Document{
		Dir:    "articles",
		Name:   documentName(article.Title, article.ID),
		Fields: fields,
		Body:   fmt.Sprintf("# %s\n\n%s\n", article.Title, strings.TrimSpace(article.Body)),
	}
}
