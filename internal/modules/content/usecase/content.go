package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/content/dto"
	contentin "mindflow/internal/modules/content/port/in"
	contentout "mindflow/internal/modules/content/port/out"
	"mindflow/internal/modules/content/service"
	genin "mindflow/internal/modules/generation/port/in"
	sourcein "mindflow/internal/modules/source/port/in"
	taskin "mindflow/internal/modules/task/port/in"
	"mindflow/internal/platform/clock"
	apperrors "mindflow/internal/platform/errors"
	"mindflow/internal/platform/logger"
)

type Interactor struct {
	store   *service.Store
	gen     genin.Usecase
	tasks   taskin.Usecase
	sources sourcein.Usecase
	writer  contentout.DocumentWriter
	log     *logger.Logger
}

func NewInteractor(
	store *service.Store,
	gen genin.Usecase,
	tasks taskin.Usecase,
	sources sourcein.Usecase,
	writer contentout.DocumentWriter,
	log *logger.Logger,
) contentin.Usecase {
	if log == nil {
		log = logger.Nop()
	}
	return &Interactor{store: store, gen: gen, tasks: tasks, sources: sources, writer: writer, log: log}
}

func (i *Interactor) State() domain.State {
	return i.store.Snapshot()
}

func (i *Interactor) Subscribe() (<-chan struct{}, func()) {
	return i.store.Subscribe()
}

func (i *Interactor) Reload(ctx context.Context) error {
	return i.store.Reload(ctx)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", apperrors.ErrInvalidInput, field)
	}
	return nil
}

func (i *Interactor) ToggleSubtopic(ctx context.Context, courseID, subtopicID string) (dto.ToggleOutput, error) {
	return i.toggle(ctx, courseID, subtopicID, (*domain.State).ToggleSubtopic)
}

func (i *Interactor) MarkSubtopicComplete(ctx context.Context, courseID, subtopicID string) (dto.ToggleOutput, error) {
	return i.toggle(ctx, courseID, subtopicID, (*domain.State).MarkSubtopicComplete)
}

func (i *Interactor) toggle(ctx context.Context, courseID, subtopicID string, op func(*domain.State, string, string, int64) (domain.ToggleResult, error)) (dto.ToggleOutput, error) {
	var out dto.ToggleOutput
	err := i.store.Update(ctx, func(state *domain.State) error {
		result, err := op(state, courseID, subtopicID, i.store.NowMillis())
		if err != nil {
			return err
		}
		out = dto.ToggleOutput{
			Completed:    result.Completed,
			LevelsGained: result.LevelsGained,
			XP:           state.Profile.XP,
			Level:        state.Profile.Level,
			Unlocked:     result.Unlocked,
		}
		return nil
	})
	return out, err
}

func (i *Interactor) SelectCourse(ctx context.Context, courseID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.SelectCourse(courseID)
	})
}

func (i *Interactor) SaveSubtopicNote(ctx context.Context, courseID, subtopicID, note string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.SaveSubtopicNote(courseID, subtopicID, note)
	})
}

func (i *Interactor) DeleteCourse(ctx context.Context, courseID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.DeleteCourse(courseID)
	})
}

func (i *Interactor) DeleteArticle(ctx context.Context, articleID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.DeleteArticle(articleID)
	})
}

func (i *Interactor) DeleteProject(ctx context.Context, projectID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.DeleteProject(projectID)
	})
}

func (i *Interactor) CreateFolder(ctx context.Context, name string) (domain.Folder, error) {
	if err := required("folder name", name); err != nil {
		return domain.Folder{}, err
	}
	folder := domain.Folder{ID: i.store.NewID(), Name: strings.TrimSpace(name), CourseIDs: []string{}, ArticleIDs: []string{}}
	err := i.store.Update(ctx, func(state *domain.State) error {
		return state.CreateFolder(folder)
	})
	if err != nil {
		return domain.Folder{}, err
	}
	return folder, nil
}

func (i *Interactor) RenameFolder(ctx context.Context, folderID, name string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.RenameFolder(folderID, name)
	})
}

func (i *Interactor) DeleteFolder(ctx context.Context, folderID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.DeleteFolder(folderID)
	})
}

func (i *Interactor) MoveCourseToFolder(ctx context.Context, courseID, folderID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.MoveCourseToFolder(courseID, folderID)
	})
}

func (i *Interactor) MoveArticleToFolder(ctx context.Context, articleID, folderID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.MoveArticleToFolder(articleID, folderID)
	})
}

func (i *Interactor) ToggleProjectStep(ctx context.Context, projectID, stepID string) (bool, error) {
	var done bool
	err := i.store.Update(ctx, func(state *domain.State) error {
		var err error
		done, err = state.ToggleProjectStep(projectID, stepID, i.store.NowMillis())
		return err
	})
	return done, err
}

func parseDate(value string) (time.Time, error) {
	day, err := time.ParseInLocation(clock.DateLayout, strings.TrimSpace(value), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must look like %s", apperrors.ErrInvalidInput, value, clock.DateLayout)
	}
	return day, nil
}

func (i *Interactor) RescheduleTask(ctx context.Context, planID, taskID, date string) error {
	day, err := parseDate(date)
	if err != nil {
		return err
	}
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.RescheduleTask(planID, taskID, day.UnixMilli())
	})
}

func (i *Interactor) ToggleTask(ctx context.Context, planID, taskID string) (bool, error) {
	var done bool
	err := i.store.Update(ctx, func(state *domain.State) error {
		var err error
		done, err = state.ToggleTask(planID, taskID)
		return err
	})
	return done, err
}

func (i *Interactor) RemoveTask(ctx context.Context, planID, taskID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.RemoveTask(planID, taskID)
	})
}

func (i *Interactor) DeletePlan(ctx context.Context, planID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.DeletePlan(planID)
	})
}

func (i *Interactor) AddHabit(ctx context.Context, input dto.HabitInput) (domain.Habit, error) {
	goal := input.Goal
	if goal == "" {
		goal = domain.GoalDaily
	}
	habit := domain.Habit{
		ID:        i.store.NewID(),
		Title:     strings.TrimSpace(input.Title),
		Goal:      goal,
		CreatedAt: i.store.NowMillis(),
		History:   map[string]bool{},
	}
	err := i.store.Update(ctx, func(state *domain.State) error {
		return state.AddHabit(habit)
	})
	if err != nil {
		return domain.Habit{}, err
	}
	return habit, nil
}

// ToggleHabit flips date, today when empty.
func (i *Interactor) ToggleHabit(ctx context.Context, habitID, date string) (dto.HabitToggleOutput, error) {
	if strings.TrimSpace(date) == "" {
		date = i.store.Today()
	}
	if _, err := parseDate(date); err != nil {
		return dto.HabitToggleOutput{}, err
	}
	now := i.store.Clock().Now()
	var out dto.HabitToggleOutput
	err := i.store.Update(ctx, func(state *domain.State) error {
		done, unlocked, err := state.ToggleHabit(habitID, date, now)
		if err != nil {
			return err
		}
		habit := state.Profile.Habits[state.HabitIndex(habitID)]
		out = dto.HabitToggleOutput{Done: done, Streak: habit.Streak(now), Unlocked: unlocked}
		return nil
	})
	return out, err
}

func (i *Interactor) DeleteHabit(ctx context.Context, habitID string) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		return state.DeleteHabit(habitID)
	})
}

func (i *Interactor) UpNext() domain.UpNext {
	state := i.store.Snapshot()
	return domain.SuggestUpNext(state.Courses, state.LastActiveCourseID)
}
