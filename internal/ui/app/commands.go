package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	contentdomain "mindflow/internal/modules/content/domain"
	contentdto "mindflow/internal/modules/content/dto"
	sessiondto "mindflow/internal/modules/session/dto"
	apperrors "mindflow/internal/platform/errors"
	tasksview "mindflow/internal/ui/views/tasks"
)

// ─── palette execution ────────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	input = strings.TrimSpace(input)
	if input == "" {
		return m, nil
	}
	name, arg, _ := strings.Cut(input, " ")
	arg = strings.TrimSpace(arg)

	var courseID, subtopicID string
	if m.activeTab == tabCourses {
		courseID, subtopicID = m.courseView.Selected()
	}

	switch name {
	case "course:new":
		if arg == "" {
			return m.usage("course:new <topic>")
		}
		m.status = "generating course: " + arg
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.GenerateCourse(ctx, contentdto.GenerateCourseInput{Topic: arg})
			if err != nil {
				return "", err
			}
			return "course ready: " + out.Course.Title + unlockedSuffix(out.Unlocked), nil
		})

	case "course:bulk":
		topics := splitList(arg)
		if len(topics) == 0 {
			return m.usage("course:bulk <topic>; <topic>; …")
		}
		m.status = fmt.Sprintf("generating %d courses", len(topics))
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.BulkGenerateCourses(ctx, contentdto.BulkCoursesInput{Topics: topics})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%d of %d courses generated", out.Succeeded, len(out.Items)), nil
		})

	case "course:expand":
		if courseID == "" || subtopicID == "" || arg == "" {
			return m.usage("open a lesson, then course:expand <what to add>")
		}
		topicID, ok := m.topicOf(courseID, subtopicID)
		if !ok {
			return m.usage("lesson not found")
		}
		m.status = "expanding topic"
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.ExpandTopic(ctx, contentdto.ExpandTopicInput{
				CourseID:    courseID,
				TopicID:     topicID,
				SubtopicID:  subtopicID,
				Instruction: arg,
			})
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("%s now has %d lessons", out.Course.Title, out.Course.TotalSubtopics()), nil
		})

	case "course:move":
		if courseID == "" {
			return m.usage("select a course first")
		}
		folderID := arg
		if folderID == "none" {
			folderID = ""
		}
		return m, m.run(func(ctx context.Context) (string, error) {
			return "course moved", m.content.MoveCourse(ctx, courseID, folderID)
		})

	case "course:delete":
		if courseID == "" {
			return m.usage("select a course first")
		}
		return m.confirm("delete this course?", func(ctx context.Context) (string, error) {
			return "course deleted", m.content.DeleteCourse(ctx, courseID)
		})

	case "folder:new":
		if arg == "" {
			return m.usage("folder:new <name>")
		}
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.CreateFolder(ctx, arg)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("folder %s created (%s)", out.Name, out.ID), nil
		})

	case "article:new":
		if arg == "" {
			return m.usage("article:new <topic>")
		}
		m.status = "writing article: " + arg
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.GenerateArticle(ctx, contentdto.ArticleInput{Topic: arg})
			if err != nil {
				return "", err
			}
			status := "article ready: " + out.Article.Title
			if len(out.Ideas) > 0 {
				status += " · next: " + strings.Join(out.Ideas, ", ")
			}
			return status, nil
		})

	case "article:delete":
		id, ok := m.articleView.SelectedID()
		if m.activeTab != tabArticles || !ok {
			return m.usage("select an article first")
		}
		return m.confirm("delete this article?", func(ctx context.Context) (string, error) {
			return "article deleted", m.content.DeleteArticle(ctx, id)
		})

	case "project:new":
		if courseID == "" || subtopicID == "" {
			return m.usage("open a lesson, then project:new")
		}
		m.status = "generating project"
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.GenerateProject(ctx, courseID, subtopicID)
			if err != nil {
				return "", err
			}
			return "project ready: " + out.Project.Title + unlockedSuffix(out.Unlocked), nil
		})

	case "project:delete":
		id, ok := m.projectView.SelectedID()
		if m.activeTab != tabProjects || !ok {
			return m.usage("select a project first")
		}
		return m.confirm("delete this project?", func(ctx context.Context) (string, error) {
			return "project deleted", m.content.DeleteProject(ctx, id)
		})

	case "plan:new":
		daysArg, topic, _ := strings.Cut(arg, " ")
		days, err := strconv.Atoi(daysArg)
		if err != nil || strings.TrimSpace(topic) == "" {
			return m.usage("plan:new <days> <topic>")
		}
		topic = strings.TrimSpace(topic)
		m.status = "planning: " + topic
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.GeneratePlan(ctx, topic, days)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("plan ready: %s (%d days)", out.Plan.Title, out.Plan.Duration), nil
		})

	case "habit:new":
		goal := contentdomain.GoalDaily
		if rest, ok := strings.CutPrefix(arg, "weekly "); ok {
			goal, arg = contentdomain.GoalWeekly, strings.TrimSpace(rest)
		}
		if arg == "" {
			return m.usage("habit:new [weekly] <title>")
		}
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.AddHabit(ctx, contentdto.HabitInput{Title: arg, Goal: goal})
			if err != nil {
				return "", err
			}
			return "habit added: " + out.Title, nil
		})

	case "habit:delete":
		id, ok := m.habitView.SelectedID()
		if m.activeTab != tabHabits || !ok {
			return m.usage("select a habit first")
		}
		return m.confirm("delete this habit?", func(ctx context.Context) (string, error) {
			return "habit deleted", m.content.DeleteHabit(ctx, id)
		})

	case "quest":
		m.status = "fetching today's quest"
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.DailyQuest(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("quest: %s (+%d xp)", out.Quest.Title, out.Quest.XP), nil
		})

	case "quest:complete":
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.CompleteQuest(ctx)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("quest complete · level %d · %d xp", out.Level, out.XP), nil
		})

	case "export:markdown":
		dir := arg
		if dir == "" {
			dir = "notes"
		}
		return m, m.run(func(ctx context.Context) (string, error) {
			out, err := m.content.ExportMarkdown(ctx, dir)
			if err != nil {
				return "", err
			}
			return fmt.Sprintf("exported %d notes to %s", len(out.Paths), out.Dir), nil
		})

	case "task:minimize":
		return m, m.taskActionCmd(tasksview.ActionMinimize, "")

	case "study:last":
		return m, func() tea.Msg {
			out, err := m.sessions.Last(m.ctx)
			return sessionMsg{out: out, err: err, show: true}
		}
	}

	if kind, ok := strings.CutPrefix(name, "study:"); ok {
		return m, m.openStudyCmd(kind, arg, courseID, subtopicID)
	}
	m.status = "unknown command: " + name
	return m, nil
}

func (m Model) usage(text string) (tea.Model, tea.Cmd) {
	m.status = "usage: " + text
	return m, nil
}

func (m Model) confirm(prompt string, fn func(ctx context.Context) (string, error)) (tea.Model, tea.Cmd) {
	m.pending = &confirmation{prompt: prompt, run: m.run(fn)}
	return m, nil
}

func (m Model) topicOf(courseID, subtopicID string) (string, bool) {
	state := m.snapshot.State
	idx := state.CourseIndex(courseID)
	if idx < 0 {
		return "", false
	}
	course := state.Courses[idx]
	ti, _, ok := course.FindSubtopic(subtopicID)
	if !ok {
		return "", false
	}
	if course.Topics[ti].ID != "" {
		return course.Topics[ti].ID, true
	}
	return course.Topics[ti].Title, true
}

func splitList(arg string) []string {
	var out []string
	for _, part := range strings.Split(arg, ";") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func unlockedSuffix(ids []contentdomain.AchievementID) string {
	if len(ids) == 0 {
		return ""
	}
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		for _, a := range contentdomain.Achievements {
			if a.ID == id {
				names = append(names, a.Title)
			}
		}
	}
	return " · unlocked " + strings.Join(names, ", ")
}

// ─── async commands ───────────────────────────────────────────────────────────

// run executes fn off the update loop and reports its outcome.
func (m Model) run(fn func(ctx context.Context) (string, error)) tea.Cmd {
	return func() tea.Msg {
		status, err := fn(m.ctx)
		return resultMsg{status: status, err: err}
	}
}

func (m Model) toggleLessonCmd(courseID, subtopicID string) tea.Cmd {
	return m.run(func(ctx context.Context) (string, error) {
		out, err := m.content.ToggleSubtopic(ctx, courseID, subtopicID)
		if err != nil {
			return "", err
		}
		if !out.Completed {
			return "lesson marked not done", nil
		}
		status := fmt.Sprintf("lesson done · %d xp", out.XP)
		if out.LevelsGained > 0 {
			status = fmt.Sprintf("level up! now level %d", out.Level)
		}
		return status + unlockedSuffix(out.Unlocked), nil
	})
}

func (m Model) selectCourseCmd(courseID string) tea.Cmd {
	return m.run(func(ctx context.Context) (string, error) {
		return "", m.content.SelectCourse(ctx, courseID)
	})
}

func (m Model) toggleStepCmd(projectID, stepID string) tea.Cmd {
	return m.run(func(ctx context.Context) (string, error) {
		done, err := m.content.ToggleProjectStep(ctx, projectID, stepID)
		if err != nil {
			return "", err
		}
		if done {
			return "step done", nil
		}
		return "step reopened", nil
	})
}

func (m Model) toggleHabitCmd(habitID string) tea.Cmd {
	return m.run(func(ctx context.Context) (string, error) {
		out, err := m.content.ToggleHabit(ctx, habitID, "")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("streak %d", out.Streak) + unlockedSuffix(out.Unlocked), nil
	})
}

func (m Model) taskActionCmd(action tasksview.Action, taskID string) tea.Cmd {
	return m.run(func(context.Context) (string, error) {
		switch action {
		case tasksview.ActionMinimize:
			return "task minimized", m.tasks.Minimize()
		case tasksview.ActionRestore:
			out, err := m.tasks.Restore(taskID)
			return "restored " + out.Topic, err
		case tasksview.ActionCancel:
			if !m.tasks.Cancel(taskID) {
				return "", fmt.Errorf("task %q: %w", taskID, apperrors.ErrNotFound)
			}
			return "task cancelled", nil
		case tasksview.ActionDismiss:
			return "task dismissed", m.tasks.Dismiss(taskID)
		}
		return "", nil
	})
}

func (m Model) openStudyCmd(kind, arg, courseID, subtopicID string) tea.Cmd {
	input := sessiondto.OpenInput{Kind: kind, Subject: arg, CourseID: courseID, SubtopicID: subtopicID}
	switch kind {
	case "assessment":
		input.Kind, input.Assessment = "quick_quiz", true
	case "code_explain", "project_tutor":
		input.Code = arg
	}
	return func() tea.Msg {
		out, err := m.sessions.Open(m.ctx, input)
		return sessionMsg{out: out, err: err, show: true}
	}
}

func (m Model) replyCmd(kind, message string) tea.Cmd {
	return func() tea.Msg {
		out, err := m.sessions.Reply(m.ctx, kind, message)
		return sessionMsg{out: out, err: err}
	}
}

func (m Model) answersCmd(answers []int) tea.Cmd {
	return m.run(func(ctx context.Context) (string, error) {
		out, err := m.sessions.SubmitUnderstanding(ctx, answers)
		if err != nil {
			return "", err
		}
		if out.Passed {
			return fmt.Sprintf("%d/%d correct · lesson complete", out.Correct, out.Total), nil
		}
		return fmt.Sprintf("%d/%d correct · added review lesson %q", out.Correct, out.Total, out.RemedialTitle), nil
	})
}

func (m Model) closeSessionCmd(kind string) tea.Cmd {
	return m.run(func(context.Context) (string, error) {
		return "study session closed", m.sessions.Close(kind)
	})
}

// lastSessionCmd reports the session left open by a previous run.
func (m Model) lastSessionCmd() tea.Cmd {
	return func() tea.Msg {
		out, err := m.sessions.Last(m.ctx)
		if errors.Is(err, apperrors.ErrNoActiveSession) {
			return nil
		}
		if err != nil {
			return resultMsg{err: fmt.Errorf("last session: %w", err)}
		}
		return resultMsg{status: fmt.Sprintf("last study: %s %s (:study:last to reopen)", out.Kind, out.Subject)}
	}
}
