package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/content/dto"
	gendomain "mindflow/internal/modules/generation/domain"
	gendto "mindflow/internal/modules/generation/dto"
	sourcedto "mindflow/internal/modules/source/dto"
	taskdomain "mindflow/internal/modules/task/domain"
	taskdto "mindflow/internal/modules/task/dto"
	apperrors "mindflow/internal/platform/errors"

	"golang.org/x/sync/errgroup"
)

const bulkLimit = 3

func (i *Interactor) startTask(taskType taskdomain.Type, topic, message string) (string, error) {
	task, err := i.tasks.Start(taskdto.StartInput{Type: string(taskType), Topic: topic, Message: message})
	if err != nil {
		return "", err
	}
	return task.ID, nil
}

// failTask moves the task to its error state and hands err back.
func (i *Interactor) failTask(taskID string, err error) error {
	if _, ferr := i.tasks.Fail(taskID, err.Error()); ferr != nil {
		i.log.Warn("fail task", "task", taskID, "error", ferr)
	}
	return err
}

func (i *Interactor) taskAlive(taskID string) bool {
	board := i.tasks.Board()
	if board.Active != nil && board.Active.ID == taskID {
		return board.Active.Status == string(taskdomain.StatusGenerating)
	}
	for _, task := range board.Minimized {
		if task.ID == taskID {
			return task.Status == string(taskdomain.StatusGenerating)
		}
	}
	return false
}

// commit stores a generated result and then completes its task. A task
// cancelled before the store update leaves the state untouched; a failed
// save moves the task to its error state.
func (i *Interactor) commit(ctx context.Context, taskID string, result taskdto.ResultInput, apply func(*domain.State) error) error {
	err := i.store.Update(ctx, func(state *domain.State) error {
		if !i.taskAlive(taskID) {
			return domain.ErrCancelled
		}
		return apply(state)
	})
	if errors.Is(err, domain.ErrCancelled) {
		i.log.Info("discarded cancelled generation", "task", taskID)
		return err
	}
	if err != nil {
		return i.failTask(taskID, err)
	}
	alive, err := i.tasks.Complete(taskID, result)
	switch {
	case err != nil:
		i.log.Warn("complete task", "task", taskID, "error", err)
	case !alive:
		i.log.Info("task cancelled after its result was stored", "task", taskID)
	}
	return nil
}

func (i *Interactor) courseInput(ctx context.Context, input dto.GenerateCourseInput) (gendto.CourseInput, error) {
	out := gendto.CourseInput{
		Topic:         strings.TrimSpace(input.Topic),
		Level:         input.Level,
		Goal:          input.Goal,
		Style:         input.Style,
		Technologies:  strings.Join(input.Technologies, ", "),
		IncludeTheory: input.IncludeTheory,
	}
	if err := required("topic", out.Topic); err != nil {
		return out, err
	}
	if out.Level == "" {
		out.Level = domain.LevelBeginner
	}
	if err := out.Level.Validate(); err != nil {
		return out, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if input.SourceKind != "" {
		loaded, err := i.sources.Load(ctx, sourcedto.LoadInput{Kind: input.SourceKind, Value: input.SourceValue})
		if err != nil {
			return out, err
		}
		out.Source = &loaded.Source
	}
	return out, nil
}

func (i *Interactor) GenerateCourse(ctx context.Context, input dto.GenerateCourseInput) (dto.CourseResult, error) {
	genInput, err := i.courseInput(ctx, input)
	if err != nil {
		return dto.CourseResult{}, err
	}
	taskID, err := i.startTask(taskdomain.TypeCourseGeneration, genInput.Topic, fmt.Sprintf("Generating a course on %q", genInput.Topic))
	if err != nil {
		return dto.CourseResult{}, err
	}
	course, err := i.gen.Course(ctx, genInput)
	if err != nil {
		i.log.Warn("course generation failed", "topic", genInput.Topic, "detail", gendomain.Detail(err))
		return dto.CourseResult{TaskID: taskID}, i.failTask(taskID, err)
	}
	course.EnsureIDs(i.store.NewID)

	var unlocked []domain.AchievementID
	err = i.commit(ctx, taskID, taskdto.ResultInput{Message: "Course ready", CourseID: course.ID}, func(state *domain.State) error {
		unlocked = state.AddCourse(course, input.FolderID)
		return nil
	})
	if err != nil {
		return dto.CourseResult{TaskID: taskID}, err
	}
	i.log.Info("course generated", "course", course.ID, "topics", len(course.Topics))
	return dto.CourseResult{TaskID: taskID, Course: course, Unlocked: unlocked}, nil
}

// BulkGenerateCourses generates every topic independently under one task.
func (i *Interactor) BulkGenerateCourses(ctx context.Context, input dto.BulkCoursesInput) (dto.BulkResult, error) {
	topics := cleanList(input.Topics)
	if len(topics) == 0 {
		return dto.BulkResult{}, fmt.Errorf("%w: at least one topic is required", apperrors.ErrInvalidInput)
	}
	level := input.Level
	if level == "" {
		level = domain.LevelBeginner
	}
	if err := level.Validate(); err != nil {
		return dto.BulkResult{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	taskID, err := i.startTask(taskdomain.TypeBulkGeneration, strings.Join(topics, ", "), fmt.Sprintf("Generating %d courses", len(topics)))
	if err != nil {
		return dto.BulkResult{}, err
	}

	items := make([]dto.BulkItem, len(topics))
	var g errgroup.Group
	g.SetLimit(bulkLimit)
	for idx, topic := range topics {
		g.Go(func() error {
			items[idx] = i.bulkCourse(ctx, taskID, topic, level, input.FolderID)
			return nil
		})
	}
	_ = g.Wait()
	return i.finishBulk(taskID, "courses", items)
}

func (i *Interactor) bulkCourse(ctx context.Context, taskID, topic string, level domain.KnowledgeLevel, folderID string) dto.BulkItem {
	item := dto.BulkItem{Input: topic}
	course, err := i.gen.Course(ctx, gendto.CourseInput{Topic: topic, Level: level})
	if err != nil {
		item.Error = err.Error()
		return item
	}
	if !i.taskAlive(taskID) {
		item.Error = domain.ErrCancelled.Error()
		return item
	}
	course.EnsureIDs(i.store.NewID)
	if err := i.store.Update(ctx, func(state *domain.State) error {
		state.AddCourse(course, folderID)
		return nil
	}); err != nil {
		item.Error = err.Error()
		return item
	}
	item.ID, item.Title = course.ID, course.Title
	return item
}

func (i *Interactor) finishBulk(taskID, kind string, items []dto.BulkItem) (dto.BulkResult, error) {
	out := dto.BulkResult{TaskID: taskID, Items: items}
	firstID := ""
	for _, item := range items {
		if item.Error == "" {
			out.Succeeded++
			if firstID == "" {
				firstID = item.ID
			}
		}
	}
	if out.Succeeded == 0 {
		return out, i.failTask(taskID, fmt.Errorf("none of the %d %s could be generated", len(items), kind))
	}
	result := taskdto.ResultInput{Message: fmt.Sprintf("%d of %d %s generated", out.Succeeded, len(items), kind)}
	if kind == "courses" {
		result.CourseID = firstID
	}
	if alive, err := i.tasks.Complete(taskID, result); err != nil || !alive {
		i.log.Info("bulk task finished after cancel", "task", taskID)
	}
	return out, nil
}

func cleanList(values []string) []string {
	out := make([]string, 0, len(values))
	seen := map[string]bool{}
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func findSubtopic(state domain.State, courseID, subtopicID string) (domain.Course, domain.Topic, domain.Subtopic, error) {
	idx := state.CourseIndex(courseID)
	if idx < 0 {
		return domain.Course{}, domain.Topic{}, domain.Subtopic{}, fmt.Errorf("course %q: %w", courseID, apperrors.ErrNotFound)
	}
	course := state.Courses[idx]
	ti, si, ok := course.FindSubtopic(subtopicID)
	if !ok {
		return domain.Course{}, domain.Topic{}, domain.Subtopic{}, fmt.Errorf("subtopic %q: %w", subtopicID, apperrors.ErrNotFound)
	}
	return course, course.Topics[ti], course.Topics[ti].Subtopics[si], nil
}

func objective(sub domain.Subtopic) string {
	if sub.Article != nil {
		return sub.Article.Objective
	}
	return ""
}

func (i *Interactor) ExpandTopic(ctx context.Context, input dto.ExpandTopicInput) (dto.CourseResult, error) {
	if err := required("instruction", input.Instruction); err != nil {
		return dto.CourseResult{}, err
	}
	course, topic, sub, err := findSubtopic(i.store.Snapshot(), input.CourseID, input.SubtopicID)
	if err != nil {
		return dto.CourseResult{}, err
	}
	topicRef := input.TopicID
	if topicRef == "" {
		topicRef = topic.ID
	}
	taskID, err := i.startTask(taskdomain.TypeTopicExpansion, sub.Title, fmt.Sprintf("Expanding %q", sub.Title))
	if err != nil {
		return dto.CourseResult{}, err
	}
	subs, err := i.gen.FollowUpSubtopics(ctx, gendto.ExpandInput{
		CourseTitle:   course.Title,
		TopicTitle:    topic.Title,
		SubtopicTitle: sub.Title,
		Instruction:   input.Instruction,
	})
	if err != nil {
		return dto.CourseResult{TaskID: taskID}, i.failTask(taskID, err)
	}
	for idx := range subs {
		subs[idx].ID = ""
		domain.EnsureSubtopicIDs(&subs[idx], i.store.NewID)
	}
	err = i.commit(ctx, taskID, taskdto.ResultInput{Message: fmt.Sprintf("Added %d lessons", len(subs)), CourseID: course.ID}, func(state *domain.State) error {
		return state.ExpandTopic(course.ID, topicRef, sub.ID, subs)
	})
	if err != nil {
		return dto.CourseResult{TaskID: taskID}, err
	}
	state := i.store.Snapshot()
	return dto.CourseResult{TaskID: taskID, Course: state.Courses[state.CourseIndex(course.ID)]}, nil
}

// InsertRemedial adds a simpler lesson after a subtopic the learner struggled with.
func (i *Interactor) InsertRemedial(ctx context.Context, courseID, subtopicID string) (domain.Subtopic, error) {
	_, _, sub, err := findSubtopic(i.store.Snapshot(), courseID, subtopicID)
	if err != nil {
		return domain.Subtopic{}, err
	}
	remedial, err := i.gen.RemedialSubtopic(ctx, sub.Title, objective(sub))
	if err != nil {
		return domain.Subtopic{}, err
	}
	domain.EnsureSubtopicIDs(&remedial, i.store.NewID)
	err = i.store.Update(ctx, func(state *domain.State) error {
		return state.InsertRemedial(courseID, subtopicID, remedial)
	})
	if err != nil {
		return domain.Subtopic{}, err
	}
	remedial.IsAdaptive = true
	return remedial, nil
}

func (i *Interactor) FixDiagram(ctx context.Context, courseID, subtopicID, blockID string) (string, error) {
	_, _, sub, err := findSubtopic(i.store.Snapshot(), courseID, subtopicID)
	if err != nil {
		return "", err
	}
	current := ""
	if sub.Article != nil {
		for _, block := range sub.Article.ContentBlocks {
			if block.ID == blockID && block.Type == domain.BlockDiagram {
				current = block.Diagram
			}
		}
	}
	if current == "" {
		return "", fmt.Errorf("diagram block %q: %w", blockID, apperrors.ErrNotFound)
	}
	fixed, err := i.gen.FixDiagram(ctx, current)
	if err != nil {
		return "", err
	}
	err = i.store.Update(ctx, func(state *domain.State) error {
		return state.UpdateContentBlock(courseID, subtopicID, blockID, domain.BlockUpdate{Diagram: &fixed})
	})
	return fixed, err
}

func (i *Interactor) GenerateProject(ctx context.Context, courseID, subtopicID string) (dto.ProjectResult, error) {
	course, _, sub, err := findSubtopic(i.store.Snapshot(), courseID, subtopicID)
	if err != nil {
		return dto.ProjectResult{}, err
	}
	taskID, err := i.startTask(taskdomain.TypeProjectGeneration, sub.Title, fmt.Sprintf("Designing a project for %q", sub.Title))
	if err != nil {
		return dto.ProjectResult{}, err
	}
	project, err := i.gen.Project(ctx, gendto.ProjectInput{CourseTitle: course.Title, SubtopicTitle: sub.Title, Objective: objective(sub)})
	if err != nil {
		return dto.ProjectResult{TaskID: taskID}, i.failTask(taskID, err)
	}
	project.ID = i.store.NewID()
	for idx := range project.Steps {
		project.Steps[idx].ID = i.store.NewID()
	}
	project.Course = course.Ref()

	var unlocked []domain.AchievementID
	err = i.commit(ctx, taskID, taskdto.ResultInput{Message: "Project ready", ProjectID: project.ID}, func(state *domain.State) error {
		unlocked = state.AddProject(project)
		return nil
	})
	if err != nil {
		return dto.ProjectResult{TaskID: taskID}, err
	}
	return dto.ProjectResult{TaskID: taskID, Project: project, Unlocked: unlocked}, nil
}

// GenerateLearningPlan builds one placeholder course per planned day, filed
// in a folder named after the plan. days of 0 lets the model choose.
func (i *Interactor) GenerateLearningPlan(ctx context.Context, topic string, days int) (dto.PlanResult, error) {
	topic = strings.TrimSpace(topic)
	if err := required("topic", topic); err != nil {
		return dto.PlanResult{}, err
	}
	if days < 0 {
		return dto.PlanResult{}, fmt.Errorf("%w: duration must not be negative", apperrors.ErrInvalidInput)
	}
	taskID, err := i.startTask(taskdomain.TypePlanGeneration, topic, fmt.Sprintf("Planning %q", topic))
	if err != nil {
		return dto.PlanResult{}, err
	}
	draft, err := i.gen.LearningPlan(ctx, topic, days)
	if err != nil {
		return dto.PlanResult{TaskID: taskID}, i.failTask(taskID, err)
	}
	start := i.store.Clock().Now().UTC().Truncate(24 * time.Hour)
	plan, courses := domain.BuildPlan(i.store.NewID(), draft.PlanTitle, topic, start.UnixMilli(), draft.Days())
	folder := domain.Folder{ID: i.store.NewID(), Name: draft.PlanTitle}
	err = i.commit(ctx, taskID, taskdto.ResultInput{Message: fmt.Sprintf("%d day plan ready", plan.Duration), PlanID: plan.ID}, func(state *domain.State) error {
		return state.AddPlan(plan, courses, folder)
	})
	if err != nil {
		return dto.PlanResult{TaskID: taskID}, err
	}
	state := i.store.Snapshot()
	return dto.PlanResult{
		TaskID: taskID,
		Plan:   state.Plans[state.PlanIndex(plan.ID)],
		Folder: state.Folders[state.FolderIndex(folder.ID)],
	}, nil
}

func (i *Interactor) GenerateArticle(ctx context.Context, input dto.ArticleInput) (dto.ArticleResult, error) {
	topic := strings.TrimSpace(input.Topic)
	if err := required("topic", topic); err != nil {
		return dto.ArticleResult{}, err
	}
	var ref *domain.CourseRef
	if input.CourseID != "" {
		state := i.store.Snapshot()
		idx := state.CourseIndex(input.CourseID)
		if idx < 0 {
			return dto.ArticleResult{}, fmt.Errorf("course %q: %w", input.CourseID, apperrors.ErrNotFound)
		}
		ref = state.Courses[idx].Ref()
	}
	article, ideas, err := i.article(ctx, topic, ref)
	if err != nil {
		return dto.ArticleResult{}, err
	}
	if err := i.store.Update(ctx, func(state *domain.State) error {
		state.AddArticle(article, input.FolderID)
		return nil
	}); err != nil {
		return dto.ArticleResult{}, err
	}
	return dto.ArticleResult{Article: article, Ideas: ideas}, nil
}

func (i *Interactor) article(ctx context.Context, topic string, ref *domain.CourseRef) (domain.Article, []string, error) {
	draft, err := i.gen.BlogPost(ctx, topic)
	if err != nil {
		return domain.Article{}, nil, err
	}
	article := draft.ToArticle()
	article.ID = i.store.NewID()
	article.Course = ref
	return article, draft.RelatedTopics, nil
}

// BulkGenerateArticles splits a syllabus (inline or a file) into topics and
// writes one article per topic.
func (i *Interactor) BulkGenerateArticles(ctx context.Context, input dto.BulkArticlesInput) (dto.BulkResult, error) {
	loaded, err := i.sources.Load(ctx, sourcedto.LoadInput{Kind: gendomain.SourceSyllabus, Value: input.Syllabus})
	if err != nil {
		return dto.BulkResult{}, err
	}
	taskID, err := i.startTask(taskdomain.TypeBulkGeneration, loaded.Origin, "Generating articles from syllabus")
	if err != nil {
		return dto.BulkResult{}, err
	}
	topics, err := i.gen.ArticleTopics(ctx, loaded.Source.Content)
	if err != nil {
		return dto.BulkResult{TaskID: taskID}, i.failTask(taskID, err)
	}
	topics = cleanList(topics)

	items := make([]dto.BulkItem, len(topics))
	var g errgroup.Group
	g.SetLimit(bulkLimit)
	for idx, topic := range topics {
		g.Go(func() error {
			items[idx] = i.bulkArticle(ctx, taskID, topic, input.FolderID)
			return nil
		})
	}
	_ = g.Wait()
	return i.finishBulk(taskID, "articles", items)
}

func (i *Interactor) bulkArticle(ctx context.Context, taskID, topic, folderID string) dto.BulkItem {
	item := dto.BulkItem{Input: topic}
	article, _, err := i.article(ctx, topic, nil)
	if err != nil {
		item.Error = err.Error()
		return item
	}
	if !i.taskAlive(taskID) {
		item.Error = domain.ErrCancelled.Error()
		return item
	}
	if err := i.store.Update(ctx, func(state *domain.State) error {
		state.AddArticle(article, folderID)
		return nil
	}); err != nil {
		item.Error = err.Error()
		return item
	}
	item.ID, item.Title = article.ID, article.Title
	return item
}
