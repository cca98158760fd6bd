package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"mindflow/internal/bootstrap"
	"mindflow/internal/platform/config"
	"mindflow/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "mindflow",
		Short:         "Personal learning studio in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", ".", "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newCourseCmd(&dataDir))
	root.AddCommand(newFolderCmd(&dataDir))
	root.AddCommand(newArticleCmd(&dataDir))
	root.AddCommand(newProjectCmd(&dataDir))
	root.AddCommand(newPlanCmd(&dataDir))
	root.AddCommand(newHabitCmd(&dataDir))
	root.AddCommand(newProfileCmd(&dataDir))
	root.AddCommand(newQuestCmd(&dataDir))
	root.AddCommand(newChatCmd(&dataDir))
	root.AddCommand(newStudyCmd(&dataDir))
	root.AddCommand(newDataCmd(&dataDir))
	root.AddCommand(newGeneratorCmd(&dataDir))
	return root
}

// withApp loads configuration for dataDir, wires the application and runs fn.
// Command logs go to stderr.
func withApp(ctx context.Context, dataDir string, fn func(*bootstrap.App) error) error {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Mode, "stderr")
	if err != nil {
		return err
	}
	defer log.Sync()
	return run(ctx, cfg, log, fn)
}

func run(ctx context.Context, cfg config.Config, log *logger.Logger, fn func(*bootstrap.App) error) error {
	app, err := bootstrap.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(app)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the mindflow terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*dataDir)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(cfg.StateDir, 0o755); err != nil {
				return fmt.Errorf("create state dir: %w", err)
			}
			log, err := logger.New(cfg.Log.Mode, cfg.LogPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			return run(cmd.Context(), cfg, log, func(app *bootstrap.App) error {
				return bootstrap.RunTUI(cmd.Context(), app)
			})
		},
	}
}

func newProfileCmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show XP, level, achievements and habits",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				state := app.ContentCLI.Snapshot().State
				profile := state.Profile
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "%s level=%d xp=%d\n", profile.Name, profile.Level, profile.XP)
				if len(profile.Achievements) > 0 {
					names := make([]string, 0, len(profile.Achievements))
					for _, id := range profile.Achievements {
						names = append(names, string(id))
					}
					_, _ = fmt.Fprintf(out, "achievements: %s\n", strings.Join(names, ", "))
				}
				_, _ = fmt.Fprintf(out, "courses=%d articles=%d projects=%d plans=%d habits=%d\n",
					len(state.Courses), len(state.Articles), len(state.Projects), len(state.Plans), len(profile.Habits))
				next := app.ContentCLI.Snapshot().UpNext
				_, _ = fmt.Fprintf(out, "up next: %s (%s)\n", next.Title, next.CTA)
				return nil
			})
		},
	}
}

func newQuestCmd(dataDir *string) *cobra.Command {
	quest := &cobra.Command{
		Use:   "quest",
		Short: "Show today's quest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.DailyQuest(cmd.Context())
				if err != nil {
					return err
				}
				status := "open"
				if out.Quest.Completed {
					status = "done"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s (+%d xp)\n%s\n", out.Date, status, out.Quest.Title, out.Quest.XP, out.Quest.Description)
				return nil
			})
		},
	}
	quest.AddCommand(&cobra.Command{
		Use:   "complete",
		Short: "Complete today's quest",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.ContentCLI.CompleteQuest(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "quest complete level=%d xp=%d levels_gained=%d\n", out.Level, out.XP, out.LevelsGained)
				return nil
			})
		},
	})
	return quest
}

func newChatCmd(dataDir *string) *cobra.Command {
	var clearHistory bool
	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Talk to the learning assistant",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				if clearHistory {
					if err := app.ContentCLI.ClearChat(cmd.Context()); err != nil {
						return err
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "chat history cleared")
					return nil
				}
				if len(args) == 0 {
					for _, msg := range app.ContentCLI.Snapshot().State.ChatHistory {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", msg.Role, msg.Content)
					}
					return nil
				}
				reply, err := app.ContentCLI.Chat(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), reply)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&clearHistory, "clear", false, "clear the chat history")
	return cmd
}

func newDataCmd(dataDir *string) *cobra.Command {
	data := &cobra.Command{Use: "data", Short: "Backup, restore and reset stored data"}

	var outPath string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write a JSON backup of every stored key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				out, err := app.StorageCLI.Export(cmd.Context())
				if err != nil {
					return err
				}
				if strings.TrimSpace(outPath) == "" || outPath == "-" {
					_, err = cmd.OutOrStdout().Write(append(out.Payload, '\n'))
					return err
				}
				if err := os.WriteFile(outPath, out.Payload, 0o644); err != nil {
					return fmt.Errorf("write backup: %w", err)
				}
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported %d keys to %s\n", len(out.Keys), outPath)
				return nil
			})
		},
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "backup file (stdout when empty)")

	var importYes bool
	importCmd := &cobra.Command{
		Use:   "import <backup.json>",
		Short: "Replace all stored data with a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read backup: %w", err)
			}
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				if err := app.StorageCLI.Import(cmd.Context(), payload, importYes); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "import complete")
				return nil
			})
		},
	}
	importCmd.Flags().BoolVar(&importYes, "yes", false, "confirm replacing all data")

	var resetYes bool
	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all stored data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				if err := app.StorageCLI.Reset(cmd.Context(), resetYes); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "all data deleted")
				return nil
			})
		},
	}
	resetCmd.Flags().BoolVar(&resetYes, "yes", false, "confirm deleting all data")

	var markdownDir string
	markdownCmd := &cobra.Command{
		Use:   "markdown",
		Short: "Export courses and articles as markdown notes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				dir := markdownDir
				if strings.TrimSpace(dir) == "" {
					dir = filepath.Join(app.Config.DataDir, "notes")
				}
				out, err := app.ContentCLI.ExportMarkdown(cmd.Context(), dir)
				if err != nil {
					return err
				}
				for _, path := range out.Paths {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d notes to %s\n", len(out.Paths), out.Dir)
				return nil
			})
		},
	}
	markdownCmd.Flags().StringVar(&markdownDir, "dir", "", "output directory (default <data>/notes)")

	data.AddCommand(exportCmd, importCmd, resetCmd, markdownCmd)
	return data
}

func newGeneratorCmd(dataDir *string) *cobra.Command {
	generator := &cobra.Command{Use: "generator", Short: "Generation backend commands"}
	generator.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Check the configured generation backend",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), *dataDir, func(app *bootstrap.App) error {
				report, err := app.GenerationCLI.Doctor(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				_, _ = fmt.Fprintf(out, "backend=%s model=%s ready=%t\n", report.Backend, report.Model, report.Ready)
				for _, problem := range report.Problems {
					_, _ = fmt.Fprintf(out, "problem: %s\n", problem)
				}
				for _, check := range report.Plugins {
					_, _ = fmt.Fprintf(out, "plugin=%s selected=%t checksum=%t binary=%t lifecycle=%t",
						check.Name, check.Selected, check.ChecksumValid, check.BinaryReachable, check.LifecycleOK)
					if check.Error != "" {
						_, _ = fmt.Fprintf(out, " error=%q", check.Error)
					}
					_, _ = fmt.Fprintln(out)
				}
				return nil
			})
		},
	})
	return generator
}
