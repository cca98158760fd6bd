package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"mindflow/internal/bootstrap"
	"mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/content/dto"
	gendomain "mindflow/internal/modules/generation/domain"
	apperrors "mindflow/internal/platform/errors"
)

func confirm(yes bool, action string) error {
	if !yes {
		return fmt.Errorf("%s: pass --yes: %w", action, apperrors.ErrNotConfirmed)
	}
	return nil
}

func newCourseCmd(dataDir *string) *cobra.Command {
	course := &cobra.Command{Use: "course", Short: "Generate and study courses"}

	var in dto.GenerateCourseInput
	var level, goal, style, sourceKind string
	newCmd := &cobra.Command{
		Use:   "new <topic>",
		Short: "Generate a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Topic = args[0]
			in.Level = domain.KnowledgeLevel(level)
			in.Goal = gendomain.LearningGoal(goal)
			in.Style = gendomain.LearningStyle(style)
			in.SourceKind = gendomain.SourceKind(sourceKind)
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.GenerateCourse(cmd.Context(), in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "generated %s (%s) topics=%d lessons=%d\n",
					out.Course.Title, out.Course.ID, len(out.Course.Topics), out.Course.TotalSubtopics())
				printUnlocked(cmd.OutOrStdout(), out.Unlocked)
				return nil
			})
		},
	}
	newCmd.Flags().StringVar(&level, "level", "beginner", "knowledge level: beginner|intermediate|advanced")
	newCmd.Flags().StringVar(&goal, "goal", "", "learning goal: project|interview|theory|curiosity")
	newCmd.Flags().StringVar(&style, "style", "", "learning style: visual|code|balanced|interactive")
	newCmd.Flags().StringVar(&sourceKind, "source", "", "source material kind: syllabus|url|pdf")
	newCmd.Flags().StringVar(&in.SourceValue, "source-value", "", "syllabus text or file, URL, or PDF path")
	newCmd.Flags().StringVar(&in.FolderID, "folder", "", "folder id")
	newCmd.Flags().StringSliceVar(&in.Technologies, "tech", nil, "technologies to focus on")
	newCmd.Flags().BoolVar(&in.IncludeTheory, "theory", false, "include a theory topic")

	var bulkLevel, bulkFolder string
	bulkCmd := &cobra.Command{
		Use:   "bulk <topic>...",
		Short: "Generate several courses at once",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.BulkGenerateCourses(cmd.Context(), dto.BulkCoursesInput{
					Topics:   args,
					Level:    domain.KnowledgeLevel(bulkLevel),
					FolderID: bulkFolder,
				})
				printBulk(cmd.OutOrStdout(), out)
				return err
			})
		},
	}
	bulkCmd.Flags().StringVar(&bulkLevel, "level", "beginner", "knowledge level")
	bulkCmd.Flags().StringVar(&bulkFolder, "folder", "", "folder id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List courses",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				state := app.ContentCLI.Snapshot().State
				if len(state.Courses) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no courses")
					return nil
				}
				for _, c := range state.Courses {
					folder := state.FolderOfCourse(c.ID)
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-40s %s %3.0f%% folder=%s\n",
						c.ID, c.Title, c.KnowledgeLevel, c.PercentComplete(), orDash(folder))
				}
				return nil
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <course-id>",
		Short: "Show a course outline with progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				c, err := findCourse(app, args[0])
				if err != nil {
					return err
				}
				printCourse(cmd.OutOrStdout(), c)
				return nil
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle <course-id> <subtopic-id>",
		Short: "Toggle a lesson's completion",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.ToggleSubtopic(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed=%t level=%d xp=%d\n", out.Completed, out.Level, out.XP)
				if out.LevelsGained > 0 {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "level up! +%d\n", out.LevelsGained)
				}
				printUnlocked(cmd.OutOrStdout(), out.Unlocked)
				return nil
			})
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select <course-id>",
		Short: "Make a course the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.SelectCourse(cmd.Context(), args[0])
			})
		},
	}

	var expand dto.ExpandTopicInput
	expandCmd := &cobra.Command{
		Use:   "expand <course-id> <topic> <instruction>",
		Short: "Add follow-up lessons to a topic",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			expand.CourseID, expand.TopicID, expand.Instruction = args[0], args[1], args[2]
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.ExpandTopic(cmd.Context(), expand)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s now has %d lessons\n", out.Course.Title, out.Course.TotalSubtopics())
				return nil
			})
		},
	}
	expandCmd.Flags().StringVar(&expand.SubtopicID, "after", "", "insert after this subtopic id")

	remedialCmd := &cobra.Command{
		Use:   "remedial <course-id> <subtopic-id>",
		Short: "Insert a simpler lesson after a subtopic",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.InsertRemedial(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "inserted %s (%s)\n", out.Title, out.ID)
				return nil
			})
		},
	}

	noteCmd := &cobra.Command{
		Use:   "note <course-id> <subtopic-id> <note>",
		Short: "Save a note on a lesson",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.SaveSubtopicNote(cmd.Context(), args[0], args[1], args[2])
			})
		},
	}

	fixCmd := &cobra.Command{
		Use:   "fix-diagram <course-id> <subtopic-id> <block-id>",
		Short: "Regenerate a broken diagram block",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				code, err := app.ContentCLI.FixDiagram(cmd.Context(), args[0], args[1], args[2])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), code)
				return nil
			})
		},
	}

	var moveFolder string
	moveCmd := &cobra.Command{
		Use:   "move <course-id>",
		Short: "Move a course into a folder (none when --folder is empty)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.MoveCourse(cmd.Context(), args[0], moveFolder)
			})
		},
	}
	moveCmd.Flags().StringVar(&moveFolder, "folder", "", "target folder id")

	var interviewLevel string
	var interviewCount int
	interviewCmd := &cobra.Command{
		Use:   "interview <course-id>",
		Short: "Generate interview questions for a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.GenerateInterview(cmd.Context(), dto.InterviewInput{
					CourseID: args[0],
					Level:    domain.KnowledgeLevel(interviewLevel),
					Count:    interviewCount,
				})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "set %s (%s)\n", out.Set.ID, out.Set.Difficulty)
				for i, q := range out.Set.Questions {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n   %s\n", i+1, q.Question, q.Answer)
				}
				return nil
			})
		},
	}
	interviewCmd.Flags().StringVar(&interviewLevel, "level", "", "difficulty (default intermediate)")
	interviewCmd.Flags().IntVar(&interviewCount, "count", 0, "number of questions (default 5)")

	var elaborateIndex int
	elaborateCmd := &cobra.Command{
		Use:   "elaborate <course-id> <set-id>",
		Short: "Expand an interview answer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				answer, err := app.ContentCLI.ElaborateAnswer(cmd.Context(), args[0], args[1], elaborateIndex)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), answer)
				return nil
			})
		},
	}
	elaborateCmd.Flags().IntVar(&elaborateIndex, "question", 0, "question index (0-based)")

	var deleteYes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <course-id>",
		Short: "Delete a course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(deleteYes, "delete course"); err != nil {
				return err
			}
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.DeleteCourse(cmd.Context(), args[0])
			})
		},
	}
	deleteCmd.Flags().BoolVar(&deleteYes, "yes", false, "confirm deletion")

	var test dto.TestResultInput
	var testLevel string
	testCmd := &cobra.Command{
		Use:   "test-result <topic>",
		Short: "Record a skill test score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			test.Topic = args[0]
			test.Level = domain.KnowledgeLevel(testLevel)
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				unlocked, err := app.ContentCLI.RecordTestResult(cmd.Context(), test)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "recorded")
				for _, id := range unlocked {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "achievement unlocked: %s\n", id)
				}
				return nil
			})
		},
	}
	testCmd.Flags().StringVar(&testLevel, "level", "beginner", "test difficulty")
	testCmd.Flags().Float64Var(&test.Score, "score", 0, "score between 0 and 1")
	testCmd.Flags().IntVar(&test.QuestionCount, "questions", 1, "number of questions")

	course.AddCommand(newCmd, bulkCmd, listCmd, showCmd, toggleCmd, selectCmd, expandCmd, remedialCmd,
		noteCmd, fixCmd, moveCmd, interviewCmd, elaborateCmd, deleteCmd, testCmd)
	return course
}

func newFolderCmd(dataDir *string) *cobra.Command {
	folder := &cobra.Command{Use: "folder", Short: "Organize courses and articles"}

	folder.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List folders",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				folders := app.ContentCLI.Snapshot().State.Folders
				if len(folders) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no folders")
					return nil
				}
				for _, f := range folders {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s courses=%d articles=%d\n", f.ID, f.Name, len(f.CourseIDs), len(f.ArticleIDs))
				}
				return nil
			})
		},
	})
	folder.AddCommand(&cobra.Command{
		Use:   "new <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.CreateFolder(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", out.Name, out.ID)
				return nil
			})
		},
	})
	folder.AddCommand(&cobra.Command{
		Use:   "rename <folder-id> <name>",
		Short: "Rename a folder",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.RenameFolder(cmd.Context(), args[0], args[1])
			})
		},
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <folder-id>",
		Short: "Delete a folder, keeping its courses and articles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(yes, "delete folder"); err != nil {
				return err
			}
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.DeleteFolder(cmd.Context(), args[0])
			})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	folder.AddCommand(deleteCmd)
	return folder
}

func newArticleCmd(dataDir *string) *cobra.Command {
	article := &cobra.Command{Use: "article", Short: "Generate and read articles"}

	var in dto.ArticleInput
	newCmd := &cobra.Command{
		Use:   "new <topic>",
		Short: "Generate an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Topic = args[0]
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.GenerateArticle(cmd.Context(), in)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "generated %s (%s)\n", out.Article.Title, out.Article.ID)
				for _, idea := range out.Ideas {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "related: %s\n", idea)
				}
				return nil
			})
		},
	}
	newCmd.Flags().StringVar(&in.FolderID, "folder", "", "folder id")
	newCmd.Flags().StringVar(&in.CourseID, "course", "", "related course id")

	var bulk dto.BulkArticlesInput
	bulkCmd := &cobra.Command{
		Use:   "bulk <syllabus>",
		Short: "Generate articles for every topic of a syllabus (text or file)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bulk.Syllabus = args[0]
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.BulkGenerateArticles(cmd.Context(), bulk)
				printBulk(cmd.OutOrStdout(), out)
				return err
			})
		},
	}
	bulkCmd.Flags().StringVar(&bulk.FolderID, "folder", "", "folder id")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List articles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				articles := app.ContentCLI.Snapshot().State.Articles
				if len(articles) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no articles")
					return nil
				}
				for _, a := range articles {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", a.ID, a.Title)
				}
				return nil
			})
		},
	}

	showCmd := &cobra.Command{
		Use:   "show <article-id>",
		Short: "Print an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				state := app.ContentCLI.Snapshot().State
				idx := state.ArticleIndex(args[0])
				if idx < 0 {
					return fmt.Errorf("article %q: %w", args[0], apperrors.ErrNotFound)
				}
				a := state.Articles[idx]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n_%s_\n\n%s\n", a.Title, a.Subtitle, a.Body)
				return nil
			})
		},
	}

	var moveFolder string
	moveCmd := &cobra.Command{
		Use:   "move <article-id>",
		Short: "Move an article into a folder (none when --folder is empty)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.MoveArticle(cmd.Context(), args[0], moveFolder)
			})
		},
	}
	moveCmd.Flags().StringVar(&moveFolder, "folder", "", "target folder id")

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <article-id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(yes, "delete article"); err != nil {
				return err
			}
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.DeleteArticle(cmd.Context(), args[0])
			})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	article.AddCommand(newCmd, bulkCmd, listCmd, showCmd, moveCmd, deleteCmd)
	return article
}

func newProjectCmd(dataDir *string) *cobra.Command {
	project := &cobra.Command{Use: "project", Short: "Guided projects"}

	project.AddCommand(&cobra.Command{
		Use:   "new <course-id> <subtopic-id>",
		Short: "Generate a project from a lesson",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.GenerateProject(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "generated %s (%s) steps=%d\n", out.Project.Title, out.Project.ID, len(out.Project.Steps))
				printUnlocked(cmd.OutOrStdout(), out.Unlocked)
				return nil
			})
		},
	})
	project.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects with step progress",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				projects := app.ContentCLI.Snapshot().State.Projects
				if len(projects) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no projects")
					return nil
				}
				for _, p := range projects {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %d/%d\n", p.ID, p.Title, p.Progress.Len(), len(p.Steps))
					for _, step := range p.Steps {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s %s %s\n", check(p.Progress.Has(step.ID)), step.ID, step.Title)
					}
				}
				return nil
			})
		},
	})
	project.AddCommand(&cobra.Command{
		Use:   "toggle <project-id> <step-id>",
		Short: "Toggle a project step",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				done, err := app.ContentCLI.ToggleProjectStep(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed=%t\n", done)
				return nil
			})
		},
	})

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(yes, "delete project"); err != nil {
				return err
			}
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.DeleteProject(cmd.Context(), args[0])
			})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	project.AddCommand(deleteCmd)
	return project
}

func newPlanCmd(dataDir *string) *cobra.Command {
	plan := &cobra.Command{Use: "plan", Short: "Day-by-day learning plans"}

	var days int
	newCmd := &cobra.Command{
		Use:   "new <topic>",
		Short: "Generate a learning plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.GeneratePlan(cmd.Context(), args[0], days)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "generated %s (%s) days=%d folder=%s\n", out.Plan.Title, out.Plan.ID, out.Plan.Duration, out.Folder.ID)
				return nil
			})
		},
	}
	newCmd.Flags().IntVar(&days, "days", 7, "plan length in days")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List plans and their daily tasks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				plans := app.ContentCLI.Snapshot().State.Plans
				if len(plans) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plans")
					return nil
				}
				for _, p := range plans {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s [%s] %d/%d\n", p.ID, p.Title, p.Status, p.CompletedTasks(), len(p.DailyTasks))
					for _, task := range p.DailyTasks {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %s day %d %s %s course=%s\n",
							check(task.Completed), task.Day, formatMillis(task.Date), task.ID, task.CourseID)
					}
				}
				return nil
			})
		},
	}

	toggleCmd := &cobra.Command{
		Use:   "toggle <plan-id> <task-id>",
		Short: "Toggle a daily task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				done, err := app.ContentCLI.TogglePlanTask(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "completed=%t\n", done)
				return nil
			})
		},
	}

	rescheduleCmd := &cobra.Command{
		Use:   "reschedule <plan-id> <task-id> <YYYY-MM-DD>",
		Short: "Move a daily task to another date",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.RescheduleTask(cmd.Context(), args[0], args[1], args[2])
			})
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove-task <plan-id> <task-id>",
		Short: "Remove a daily task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.RemovePlanTask(cmd.Context(), args[0], args[1])
			})
		},
	}

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <plan-id>",
		Short: "Delete a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(yes, "delete plan"); err != nil {
				return err
			}
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.DeletePlan(cmd.Context(), args[0])
			})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	plan.AddCommand(newCmd, listCmd, toggleCmd, rescheduleCmd, removeCmd, deleteCmd)
	return plan
}

func newHabitCmd(dataDir *string) *cobra.Command {
	habit := &cobra.Command{Use: "habit", Short: "Track learning habits"}

	var goal string
	newCmd := &cobra.Command{
		Use:   "new <title>",
		Short: "Add a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.AddHabit(cmd.Context(), dto.HabitInput{Title: args[0], Goal: domain.HabitGoal(goal)})
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s) %s\n", out.Title, out.ID, out.Goal)
				return nil
			})
		},
	}
	newCmd.Flags().StringVar(&goal, "goal", "daily", "goal: daily|weekly")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List habits with streaks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				habits := app.ContentCLI.Snapshot().State.Profile.Habits
				if len(habits) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no habits")
					return nil
				}
				now := app.Clock.Now()
				today := now.UTC().Format("2006-01-02")
				for _, h := range habits {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s  %s (%s) streak=%d\n", check(h.DoneOn(today)), h.ID, h.Title, h.Goal, h.Streak(now))
				}
				return nil
			})
		},
	}

	var date string
	toggleCmd := &cobra.Command{
		Use:   "toggle <habit-id>",
		Short: "Toggle a habit for a day (today by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.ToggleHabit(cmd.Context(), args[0], date)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "done=%t streak=%d\n", out.Done, out.Streak)
				printUnlocked(cmd.OutOrStdout(), out.Unlocked)
				return nil
			})
		},
	}
	toggleCmd.Flags().StringVar(&date, "date", "", "day as YYYY-MM-DD")

	var yes bool
	deleteCmd := &cobra.Command{
		Use:   "delete <habit-id>",
		Short: "Delete a habit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(yes, "delete habit"); err != nil {
				return err
			}
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				return app.ContentCLI.DeleteHabit(cmd.Context(), args[0])
			})
		},
	}
	deleteCmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")

	habit.AddCommand(newCmd, listCmd, toggleCmd, deleteCmd)
	return habit
}

func findCourse(app *bootstrap.App, id string) (domain.Course, error) {
	state := app.ContentCLI.Snapshot().State
	idx := state.CourseIndex(id)
	if idx < 0 {
		return domain.Course{}, fmt.Errorf("course %q: %w", id, apperrors.ErrNotFound)
	}
	return state.Courses[idx], nil
}

func printCourse(w io.Writer, c domain.Course) {
	_, _ = fmt.Fprintf(w, "%s (%s)\n%s\nlevel=%s progress=%.0f%%\n", c.Title, c.ID, c.Description, c.KnowledgeLevel, c.PercentComplete())
	if len(c.Technologies) > 0 {
		_, _ = fmt.Fprintf(w, "technologies: %s\n", strings.Join(c.Technologies, ", "))
	}
	for _, topic := range c.Topics {
		_, _ = fmt.Fprintf(w, "\n## %s\n", topic.Title)
		for _, sub := range topic.Subtopics {
			adaptive := ""
			if sub.IsAdaptive {
				adaptive = " (review)"
			}
			_, _ = fmt.Fprintf(w, "  %s %s [%s] %s%s\n", check(c.Progress.Has(sub.ID)), sub.ID, sub.Type, sub.Title, adaptive)
		}
	}
}

func printBulk(w io.Writer, out dto.BulkResult) {
	for _, item := range out.Items {
		if item.Error != "" {
			_, _ = fmt.Fprintf(w, "failed %q: %s\n", item.Input, item.Error)
			continue
		}
		_, _ = fmt.Fprintf(w, "generated %s (%s)\n", item.Title, item.ID)
	}
	_, _ = fmt.Fprintf(w, "%d of %d succeeded\n", out.Succeeded, len(out.Items))
}

func printUnlocked(w io.Writer, ids []domain.AchievementID) {
	for _, id := range ids {
		_, _ = fmt.Fprintf(w, "achievement unlocked: %s\n", id)
	}
}

func check(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
