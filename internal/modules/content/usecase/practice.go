package usecase

import (
	"context"
	"fmt"
	"strings"

	"mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/content/dto"
	gendto "mindflow/internal/modules/generation/dto"
	apperrors "mindflow/internal/platform/errors"
)

const (
	defaultInterviewCount = 5
	maxInterviewCount     = 25
)

// GenerateInterviewQuestions appends a new question set to a course. Questions
// from earlier sets are sent along so the model avoids repeating them.
func (i *Interactor) GenerateInterviewQuestions(ctx context.Context, input dto.InterviewInput) (domain.InterviewQuestionSet, error) {
	count := input.Count
	if count == 0 {
		count = defaultInterviewCount
	}
	if count < 1 || count > maxInterviewCount {
		return domain.InterviewQuestionSet{}, fmt.Errorf("%w: question count must be between 1 and %d", apperrors.ErrInvalidInput, maxInterviewCount)
	}
	level := input.Level
	if level == "" {
		level = domain.LevelIntermediate
	}
	if err := level.Validate(); err != nil {
		return domain.InterviewQuestionSet{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	state := i.store.Snapshot()
	idx := state.CourseIndex(input.CourseID)
	if idx < 0 {
		return domain.InterviewQuestionSet{}, fmt.Errorf("course %q: %w", input.CourseID, apperrors.ErrNotFound)
	}
	course := state.Courses[idx]
	var existing []string
	for _, set := range course.InterviewQuestionSets {
		for _, q := range set.Questions {
			existing = append(existing, q.Question)
		}
	}
	questions, err := i.gen.InterviewQuestions(ctx, gendto.InterviewInput{Topic: course.Title, Level: level, Count: count, Existing: existing})
	if err != nil {
		return domain.InterviewQuestionSet{}, err
	}
	set := domain.InterviewQuestionSet{
		ID:            i.store.NewID(),
		Timestamp:     i.store.NowMillis(),
		Difficulty:    level,
		QuestionCount: len(questions),
		Questions:     questions,
	}
	if err := i.store.Update(ctx, func(state *domain.State) error {
		return state.AddInterviewSet(course.ID, set)
	}); err != nil {
		return domain.InterviewQuestionSet{}, err
	}
	return set, nil
}

// ElaborateAnswer replaces a stored answer with a longer explanation.
func (i *Interactor) ElaborateAnswer(ctx context.Context, courseID, setID string, index int) (string, error) {
	state := i.store.Snapshot()
	idx := state.CourseIndex(courseID)
	if idx < 0 {
		return "", fmt.Errorf("course %q: %w", courseID, apperrors.ErrNotFound)
	}
	var question domain.InterviewQuestion
	found := false
	for _, set := range state.Courses[idx].InterviewQuestionSets {
		if set.ID != setID {
			continue
		}
		if index < 0 || index >= len(set.Questions) {
			return "", fmt.Errorf("%w: question index %d out of range", apperrors.ErrInvalidInput, index)
		}
		question, found = set.Questions[index], true
	}
	if !found {
		return "", fmt.Errorf("interview question set %q: %w", setID, apperrors.ErrNotFound)
	}
	answer, err := i.gen.ElaborateAnswer(ctx, question.Question, question.Answer)
	if err != nil {
		return "", err
	}
	err = i.store.Update(ctx, func(state *domain.State) error {
		return state.SetInterviewAnswer(courseID, setID, index, answer)
	})
	return answer, err
}

func (i *Interactor) RecordTestResult(ctx context.Context, input dto.TestResultInput) ([]domain.AchievementID, error) {
	if err := required("topic", input.Topic); err != nil {
		return nil, err
	}
	if input.Score < 0 || input.Score > 1 {
		return nil, fmt.Errorf("%w: score must be between 0 and 1", apperrors.ErrInvalidInput)
	}
	if input.QuestionCount < 1 {
		return nil, fmt.Errorf("%w: question count must be positive", apperrors.ErrInvalidInput)
	}
	result := domain.TestResult{
		ID:            i.store.NewID(),
		Topic:         strings.TrimSpace(input.Topic),
		Difficulty:    input.Level,
		Score:         input.Score,
		QuestionCount: input.QuestionCount,
		Timestamp:     i.store.NowMillis(),
	}
	var unlocked []domain.AchievementID
	err := i.store.Update(ctx, func(state *domain.State) error {
		unlocked = state.RecordTestResult(result)
		return nil
	})
	return unlocked, err
}

// Chat sends message with the stored history. The user turn is kept even
// when the model fails so the conversation can be retried.
func (i *Interactor) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if err := required("message", message); err != nil {
		return "", err
	}
	var history []domain.ChatMessage
	hint := ""
	err := i.store.Update(ctx, func(state *domain.State) error {
		state.AppendChat(domain.ChatMessage{Role: domain.RoleUser, Content: message})
		history = append(history, state.ChatHistory...)
		if idx := state.CourseIndex(state.LastActiveCourseID); idx >= 0 {
			hint = fmt.Sprintf("The learner is currently studying %q.", state.Courses[idx].Title)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	reply, err := i.gen.Chat(ctx, gendto.ChatInput{History: history, Context: hint})
	if err != nil {
		return "", err
	}
	err = i.store.Update(ctx, func(state *domain.State) error {
		state.AppendChat(domain.ChatMessage{Role: domain.RoleModel, Content: reply})
		return nil
	})
	return reply, err
}

func (i *Interactor) ClearChat(ctx context.Context) error {
	return i.store.Update(ctx, func(state *domain.State) error {
		state.ClearChat()
		return nil
	})
}

// DailyQuest returns today's quest, generating one on the first call of the day.
func (i *Interactor) DailyQuest(ctx context.Context) (dto.QuestOutput, error) {
	today := i.store.Today()
	state := i.store.Snapshot()
	if state.Quest != nil && state.QuestDate == today {
		return dto.QuestOutput{Quest: *state.Quest, Date: today}, nil
	}
	quest, err := i.gen.DailyQuest(ctx)
	if err != nil {
		return dto.QuestOutput{}, err
	}
	quest.Completed = false
	if err := i.store.Update(ctx, func(state *domain.State) error {
		state.SetQuest(quest, today)
		return nil
	}); err != nil {
		return dto.QuestOutput{}, err
	}
	return dto.QuestOutput{Quest: quest, Date: today}, nil
}

func (i *Interactor) CompleteQuest(ctx context.Context) (dto.XPOutput, error) {
	today := i.store.Today()
	var out dto.XPOutput
	err := i.store.Update(ctx, func(state *domain.State) error {
		if state.QuestDate != today {
			return fmt.Errorf("no quest for %s: %w", today, apperrors.ErrNotFound)
		}
		levels, err := state.CompleteQuest()
		if err != nil {
			return err
		}
		out = dto.XPOutput{XP: state.Profile.XP, Level: state.Profile.Level, LevelsGained: levels}
		return nil
	})
	return out, err
}
