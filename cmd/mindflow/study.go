package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"mindflow/internal/bootstrap"
	sessiondto "mindflow/internal/modules/session/dto"
	apperrors "mindflow/internal/platform/errors"
)

func newStudyCmd(dataDir *string) *cobra.Command {
	study := &cobra.Command{Use: "study", Short: "Study sessions: stories, quizzes, tutors and more"}

	var in sessiondto.OpenInput
	var once bool
	openCmd := &cobra.Command{
		Use:   "open <kind>",
		Short: "Open a study session",
		Long: "Open a study session of one kind: story, analogy, flashcards, socratic, explore, mindmap,\n" +
			"define, practice, quick_quiz, understanding, project_tutor, article_tutor, chat,\n" +
			"live_interview, code_explain or article_ideas. Conversational kinds then read replies\n" +
			"from stdin, one per line; understanding reads the chosen option numbers.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in.Kind = args[0]
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Open(cmd.Context(), in)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				if once || out.Status != "ready" {
					return nil
				}
				switch {
				case out.Kind.Conversational():
					return converse(cmd.Context(), app, string(out.Kind), cmd.InOrStdin(), cmd.OutOrStdout())
				case out.Kind == "understanding":
					return answerUnderstanding(cmd.Context(), app, cmd.InOrStdin(), cmd.OutOrStdout())
				}
				return nil
			})
		},
	}
	openCmd.Flags().StringVar(&in.Subject, "subject", "", "subject when no lesson is given")
	openCmd.Flags().StringVar(&in.CourseID, "course", "", "course id")
	openCmd.Flags().StringVar(&in.SubtopicID, "subtopic", "", "lesson (subtopic) id")
	openCmd.Flags().StringVar(&in.Code, "code", "", "code for code_explain and project_tutor")
	openCmd.Flags().StringVar(&in.Context, "context", "", "surrounding context for code_explain")
	openCmd.Flags().StringVar(&in.Mode, "mode", "", "code_explain mode: explain|comment|refactor")
	openCmd.Flags().StringVar(&in.Level, "level", "", "knowledge level for quizzes and interviews")
	openCmd.Flags().IntVar(&in.Count, "count", 0, "number of quiz questions")
	openCmd.Flags().BoolVar(&in.Assessment, "assessment", false, "quick_quiz as a skill assessment")
	openCmd.Flags().BoolVar(&once, "once", false, "print the session and exit without reading stdin")

	lastCmd := &cobra.Command{
		Use:   "last",
		Short: "Show the most recent session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.SessionCLI.Last(cmd.Context())
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	study.AddCommand(openCmd, lastCmd)
	return study
}

func converse(ctx context.Context, app *bootstrap.App, kind string, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	seen := 0
	if out, err := app.SessionCLI.Get(kind); err == nil {
		seen = len(out.Transcript)
	}
	_, _ = fmt.Fprint(w, "> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			_, _ = fmt.Fprint(w, "> ")
			continue
		}
		if line == "/quit" {
			break
		}
		out, err := app.SessionCLI.Reply(ctx, kind, line)
		if err != nil {
			return err
		}
		if out.Status == "error" {
			_, _ = fmt.Fprintf(w, "error: %s\n", out.Error)
		}
		for _, msg := range out.Transcript[min(seen, len(out.Transcript)):] {
			if msg.Role == "model" {
				_, _ = fmt.Fprintf(w, "%s\n", msg.Content)
			}
		}
		seen = len(out.Transcript)
		_, _ = fmt.Fprint(w, "> ")
	}
	_, _ = fmt.Fprintln(w)
	return scanner.Err()
}

func answerUnderstanding(ctx context.Context, app *bootstrap.App, r io.Reader, w io.Writer) error {
	_, _ = fmt.Fprint(w, "answers (option numbers, space separated): ")
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return scanner.Err()
	}
	fields := strings.Fields(strings.ReplaceAll(scanner.Text(), ",", " "))
	answers := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return fmt.Errorf("answer %q: %w", f, apperrors.ErrInvalidInput)
		}
		answers = append(answers, n-1)
	}
	out, err := app.SessionCLI.SubmitUnderstanding(ctx, answers)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(w, "%d/%d correct\n", out.Correct, out.Total)
	if out.Passed {
		_, _ = fmt.Fprintf(w, "lesson complete (+xp, now %d)\n", out.XP)
		return nil
	}
	_, _ = fmt.Fprintf(w, "added review lesson %s (%s)\n", out.RemedialTitle, out.RemedialID)
	return nil
}

func printSession(w io.Writer, s sessiondto.SessionOutput) {
	_, _ = fmt.Fprintf(w, "[%s] %s (%s)\n", s.Kind, s.Subject, s.Status)
	if s.Error != "" {
		_, _ = fmt.Fprintf(w, "error: %s\n", s.Error)
		return
	}
	if s.Text != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", s.Text)
	}
	for _, item := range s.Items {
		_, _ = fmt.Fprintf(w, "- %s\n", item)
	}
	for i, card := range s.Flashcards {
		_, _ = fmt.Fprintf(w, "%d. Q: %s\n   A: %s\n", i+1, card.Question, card.Answer)
	}
	for i, q := range s.Quiz {
		_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			_, _ = fmt.Fprintf(w, "   %d) %s\n", j+1, opt)
		}
	}
	for _, rec := range s.Recommendations {
		_, _ = fmt.Fprintf(w, "- %s: %s\n", rec.Topic, rec.Reason)
	}
	if s.Practice != nil {
		for _, concept := range s.Practice.Concepts {
			_, _ = fmt.Fprintf(w, "\n## %s\n%s\n", concept.Title, concept.Description)
			if concept.CodeExample != "" {
				_, _ = fmt.Fprintf(w, "\n%s\n", concept.CodeExample)
			}
		}
		for i, q := range s.Practice.Quiz {
			_, _ = fmt.Fprintf(w, "%d. %s\n", i+1, q.Question)
		}
	}
	if s.MindMap != nil {
		_, _ = fmt.Fprintln(w, s.MindMap.Title)
		for _, topic := range s.MindMap.Children {
			_, _ = fmt.Fprintf(w, "├─ %s\n", topic.Title)
			for _, sub := range topic.Children {
				_, _ = fmt.Fprintf(w, "│  └─ %s\n", sub.Title)
			}
		}
	}
	for _, msg := range s.Transcript {
		_, _ = fmt.Fprintf(w, "%s: %s\n", msg.Role, msg.Content)
	}
}

func formatMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02")
}
