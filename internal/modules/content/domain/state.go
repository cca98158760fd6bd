package domain

import (
	"fmt"
	"strings"
	"time"

	apperrors "mindflow/internal/platform/errors"
)

const topicExplorerCourses = 5

// State is everything the learner owns. All mutations go through its methods
// so folder membership, progress and XP stay consistent.
type State struct {
	Courses            []Course
	Folders            []Folder
	Projects           []Project
	Articles           []Article
	Plans              []LearningPlan
	Profile            Profile
	ChatHistory        []ChatMessage
	TestResults        []TestResult
	Theme              string
	LastActiveCourseID string
	Quest              *DailyQuest
	QuestDate          string
}

func EmptyState() State {
	return State{
		Courses:     []Course{},
		Folders:     []Folder{},
		Projects:    []Project{},
		Articles:    []Article{},
		Plans:       []LearningPlan{},
		Profile:     GuestProfile(),
		ChatHistory: []ChatMessage{},
		TestResults: []TestResult{},
	}
}

type ToggleResult struct {
	Completed    bool
	LevelsGained int
	Unlocked     []AchievementID
}

type BlockUpdate struct {
	Text    *string
	Code    *string
	Diagram *string
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, apperrors.ErrNotFound)
}

func (s State) CourseIndex(id string) int {
	for i, course := range s.Courses {
		if course.ID == id {
			return i
		}
	}
	return -1
}

func (s State) ArticleIndex(id string) int {
	for i, article := range s.Articles {
		if article.ID == id {
			return i
		}
	}
	return -1
}

func (s State) ProjectIndex(id string) int {
	for i, project := range s.Projects {
		if project.ID == id {
			return i
		}
	}
	return -1
}

func (s State) FolderIndex(id string) int {
	for i, folder := range s.Folders {
		if folder.ID == id {
			return i
		}
	}
	return -1
}

func (s State) PlanIndex(id string) int {
	for i, plan := range s.Plans {
		if plan.ID == id {
			return i
		}
	}
	return -1
}

func (s State) HabitIndex(id string) int {
	for i, habit := range s.Profile.Habits {
		if habit.ID == id {
			return i
		}
	}
	return -1
}

// FolderOfCourse returns the id of the folder holding courseID, or "".
func (s State) FolderOfCourse(courseID string) string {
	for _, folder := range s.Folders {
		if folder.HasCourse(courseID) {
			return folder.ID
		}
	}
	return ""
}

func (s State) FolderOfArticle(articleID string) string {
	for _, folder := range s.Folders {
		if folder.HasArticle(articleID) {
			return folder.ID
		}
	}
	return ""
}

// AddCourse appends course and files it into folderID when that folder exists.
func (s *State) AddCourse(course Course, folderID string) []AchievementID {
	s.Courses = append(s.Courses, course)
	if idx := s.FolderIndex(folderID); folderID != "" && idx >= 0 && !s.Folders[idx].HasCourse(course.ID) {
		s.Folders[idx].CourseIDs = append(s.Folders[idx].CourseIDs, course.ID)
	}
	unlocked := []AchievementID{}
	if s.Profile.Unlock(AchievementCuriousMind) {
		unlocked = append(unlocked, AchievementCuriousMind)
	}
	if len(s.Courses) >= topicExplorerCourses && s.Profile.Unlock(AchievementTopicExplorer) {
		unlocked = append(unlocked, AchievementTopicExplorer)
	}
	return unlocked
}

// ToggleSubtopic flips completion. Completing awards XP; uncompleting never
// takes XP back.
func (s *State) ToggleSubtopic(courseID, subtopicID string, now int64) (ToggleResult, error) {
	idx := s.CourseIndex(courseID)
	if idx < 0 {
		return ToggleResult{}, notFound("course", courseID)
	}
	course := &s.Courses[idx]
	if _, _, ok := course.FindSubtopic(subtopicID); !ok {
		return ToggleResult{}, notFound("subtopic", subtopicID)
	}
	if course.Progress.Has(subtopicID) {
		course.Progress.Delete(subtopicID)
		return ToggleResult{Completed: false}, nil
	}
	course.Progress.Set(subtopicID, now)
	result := ToggleResult{Completed: true, LevelsGained: s.Profile.AwardXP(XPPerLesson), Unlocked: []AchievementID{}}
	if s.Profile.Unlock(AchievementFirstSteps) {
		result.Unlocked = append(result.Unlocked, AchievementFirstSteps)
	}
	return result, nil
}

// MarkSubtopicComplete completes subtopicID unless it already is.
func (s *State) MarkSubtopicComplete(courseID, subtopicID string, now int64) (ToggleResult, error) {
	idx := s.CourseIndex(courseID)
	if idx >= 0 && s.Courses[idx].Progress.Has(subtopicID) {
		return ToggleResult{Completed: true}, nil
	}
	return s.ToggleSubtopic(courseID, subtopicID, now)
}

// MoveCourseToFolder removes courseID from every folder and, unless folderID
// is empty, appends it to that folder.
func (s *State) MoveCourseToFolder(courseID, folderID string) error {
	if s.CourseIndex(courseID) < 0 {
		return notFound("course", courseID)
	}
	target := -1
	if folderID != "" {
		if target = s.FolderIndex(folderID); target < 0 {
			return notFound("folder", folderID)
		}
	}
	for i := range s.Folders {
		s.Folders[i].CourseIDs = removeID(s.Folders[i].CourseIDs, courseID)
	}
	if target >= 0 && !s.Folders[target].HasCourse(courseID) {
		s.Folders[target].CourseIDs = append(s.Folders[target].CourseIDs, courseID)
	}
	return nil
}

func (s *State) MoveArticleToFolder(articleID, folderID string) error {
	if s.ArticleIndex(articleID) < 0 {
		return notFound("article", articleID)
	}
	target := -1
	if folderID != "" {
		if target = s.FolderIndex(folderID); target < 0 {
			return notFound("folder", folderID)
		}
	}
	for i := range s.Folders {
		s.Folders[i].ArticleIDs = removeID(s.Folders[i].ArticleIDs, articleID)
	}
	if target >= 0 && !s.Folders[target].HasArticle(articleID) {
		s.Folders[target].ArticleIDs = append(s.Folders[target].ArticleIDs, articleID)
	}
	return nil
}

// DeleteCourse removes the course, every folder reference to it and any plan
// task that points at it.
func (s *State) DeleteCourse(courseID string) error {
	idx := s.CourseIndex(courseID)
	if idx < 0 {
		return notFound("course", courseID)
	}
	s.removeCourseAt(idx)
	for i := range s.Plans {
		tasks := s.Plans[i].DailyTasks[:0:0]
		for _, task := range s.Plans[i].DailyTasks {
			if task.CourseID != courseID {
				tasks = append(tasks, task)
			}
		}
		s.Plans[i].DailyTasks = tasks
	}
	return nil
}

func (s *State) removeCourseAt(idx int) {
	courseID := s.Courses[idx].ID
	s.Courses = append(s.Courses[:idx:idx], s.Courses[idx+1:]...)
	for i := range s.Folders {
		s.Folders[i].CourseIDs = removeID(s.Folders[i].CourseIDs, courseID)
	}
	if s.LastActiveCourseID == courseID {
		s.LastActiveCourseID = ""
	}
}

func (s *State) DeleteArticle(articleID string) error {
	idx := s.ArticleIndex(articleID)
	if idx < 0 {
		return notFound("article", articleID)
	}
	s.Articles = append(s.Articles[:idx:idx], s.Articles[idx+1:]...)
	for i := range s.Folders {
		s.Folders[i].ArticleIDs = removeID(s.Folders[i].ArticleIDs, articleID)
	}
	return nil
}

func (s *State) DeleteProject(projectID string) error {
	idx := s.ProjectIndex(projectID)
	if idx < 0 {
		return notFound("project", projectID)
	}
	s.Projects = append(s.Projects[:idx:idx], s.Projects[idx+1:]...)
	return nil
}

// ExpandTopic inserts subs right after the anchor subtopic, flagged adaptive.
func (s *State) ExpandTopic(courseID, topicRef, anchorID string, subs []Subtopic) error {
	idx := s.CourseIndex(courseID)
	if idx < 0 {
		return notFound("course", courseID)
	}
	course := &s.Courses[idx]
	ti := course.TopicIndex(topicRef)
	if ti < 0 {
		return notFound("topic", topicRef)
	}
	topic := &course.Topics[ti]
	anchor := -1
	for i, sub := range topic.Subtopics {
		if sub.ID == anchorID {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return notFound("subtopic", anchorID)
	}
	inserted := make([]Subtopic, 0, len(subs))
	for _, sub := range subs {
		sub.IsAdaptive = true
		inserted = append(inserted, sub)
	}
	merged := make([]Subtopic, 0, len(topic.Subtopics)+len(inserted))
	merged = append(merged, topic.Subtopics[:anchor+1]...)
	merged = append(merged, inserted...)
	merged = append(merged, topic.Subtopics[anchor+1:]...)
	topic.Subtopics = merged
	return nil
}

// InsertRemedial adds a single adaptive subtopic after the anchor, used when
// an understanding check fails.
func (s *State) InsertRemedial(courseID, anchorID string, sub Subtopic) error {
	idx := s.CourseIndex(courseID)
	if idx < 0 {
		return notFound("course", courseID)
	}
	ti, _, ok := s.Courses[idx].FindSubtopic(anchorID)
	if !ok {
		return notFound("subtopic", anchorID)
	}
	ref := s.Courses[idx].Topics[ti].ID
	if ref == "" {
		ref = s.Courses[idx].Topics[ti].Title
	}
	return s.ExpandTopic(courseID, ref, anchorID, []Subtopic{sub})
}

func (s *State) AddHabit(habit Habit) error {
	if err := habit.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if habit.History == nil {
		habit.History = map[string]bool{}
	}
	s.Profile.Habits = append(s.Profile.Habits, habit)
	return nil
}

// ToggleHabit flips date for the habit. Reaching a seven day streak unlocks
// dedicatedLearner.
func (s *State) ToggleHabit(habitID, date string, today time.Time) (bool, []AchievementID, error) {
	idx := s.HabitIndex(habitID)
	if idx < 0 {
		return false, nil, notFound("habit", habitID)
	}
	done, err := s.Profile.Habits[idx].Toggle(date)
	if err != nil {
		return false, nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	unlocked := []AchievementID{}
	if done && s.Profile.Habits[idx].Streak(today) >= streakForHabit && s.Profile.Unlock(AchievementDedicatedLearner) {
		unlocked = append(unlocked, AchievementDedicatedLearner)
	}
	return done, unlocked, nil
}

func (s *State) DeleteHabit(habitID string) error {
	idx := s.HabitIndex(habitID)
	if idx < 0 {
		return notFound("habit", habitID)
	}
	s.Profile.Habits = append(s.Profile.Habits[:idx:idx], s.Profile.Habits[idx+1:]...)
	return nil
}

func (s *State) CreateFolder(folder Folder) error {
	if err := folder.Validate(); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	if s.FolderIndex(folder.ID) >= 0 {
		return fmt.Errorf("folder %q: %w", folder.ID, apperrors.ErrConflict)
	}
	if folder.CourseIDs == nil {
		folder.CourseIDs = []string{}
	}
	if folder.ArticleIDs == nil {
		folder.ArticleIDs = []string{}
	}
	s.Folders = append(s.Folders, folder)
	return nil
}

func (s *State) RenameFolder(folderID, name string) error {
	idx := s.FolderIndex(folderID)
	if idx < 0 {
		return notFound("folder", folderID)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: folder name is required", apperrors.ErrInvalidInput)
	}
	s.Folders[idx].Name = name
	return nil
}

// DeleteFolder removes only the folder; its members become uncategorized.
func (s *State) DeleteFolder(folderID string) error {
	idx := s.FolderIndex(folderID)
	if idx < 0 {
		return notFound("folder", folderID)
	}
	s.Folders = append(s.Folders[:idx:idx], s.Folders[idx+1:]...)
	for i := range s.Plans {
		if s.Plans[i].FolderID == folderID {
			s.Plans[i].FolderID = ""
		}
	}
	return nil
}

func (s *State) SelectCourse(courseID string) error {
	if courseID != "" && s.CourseIndex(courseID) < 0 {
		return notFound("course", courseID)
	}
	s.LastActiveCourseID = courseID
	return nil
}

func (s *State) SaveSubtopicNote(courseID, subtopicID, note string) error {
	idx := s.CourseIndex(courseID)
	if idx < 0 {
		return notFound("course", courseID)
	}
	ti, si, ok := s.Courses[idx].FindSubtopic(subtopicID)
	if !ok {
		return notFound("subtopic", subtopicID)
	}
	s.Courses[idx].Topics[ti].Subtopics[si].Notes = note
	return nil
}

func (s *State) UpdateContentBlock(courseID, subtopicID, blockID string, update BlockUpdate) error {
	idx := s.CourseIndex(courseID)
	if idx < 0 {
		return notFound("course", courseID)
	}
	ti, si, ok := s.Courses[idx].FindSubtopic(subtopicID)
	if !ok {
		return notFound("subtopic", subtopicID)
	}
	sub := &s.Courses[idx].Topics[ti].Subtopics[si]
	if sub.Article == nil {
		return fmt.Errorf("%w: subtopic %q has no content blocks", apperrors.ErrInvalidInput, subtopicID)
	}
	article := &ArticleData{Objective: sub.Article.Objective, ContentBlocks: append([]ContentBlock(nil), sub.Article.ContentBlocks...)}
	for i := range article.ContentBlocks {
		block := &article.ContentBlocks[i]
		if block.ID != blockID {
			continue
		}
		if update.Text != nil {
			block.Text = *update.Text
		}
		if update.Code != nil {
			block.Code = *update.Code
		}
		if update.Diagram != nil {
			block.Diagram = *update.Diagram
		}
		sub.Article = article
		return nil
	}
	return notFound("content block", blockID)
}

func (s *State) AddProject(project Project) []AchievementID {
	s.Projects = append(s.Projects, project)
	if s.Profile.Unlock(AchievementProjectStarter) {
		return []AchievementID{AchievementProjectStarter}
	}
	return []AchievementID{}
}

// ToggleProjectStep flips completion of a step. Steps award no XP.
func (s *State) ToggleProjectStep(projectID, stepID string, now int64) (bool, error) {
	idx := s.ProjectIndex(projectID)
	if idx < 0 {
		return false, notFound("project", projectID)
	}
	project := &s.Projects[idx]
	if !project.HasStep(stepID) {
		return false, notFound("project step", stepID)
	}
	if project.Progress.Has(stepID) {
		project.Progress.Delete(stepID)
		return false, nil
	}
	project.Progress.Set(stepID, now)
	return true, nil
}

func (s *State) AddArticle(article Article, folderID string) {
	s.Articles = append(s.Articles, article)
	if idx := s.FolderIndex(folderID); folderID != "" && idx >= 0 && !s.Folders[idx].HasArticle(article.ID) {
		s.Folders[idx].ArticleIDs = append(s.Folders[idx].ArticleIDs, article.ID)
	}
}

// AddPlan stores the plan with its placeholder courses filed in folder.
func (s *State) AddPlan(plan LearningPlan, courses []Course, folder Folder) error {
	if err := s.CreateFolder(folder); err != nil {
		return err
	}
	plan.FolderID = folder.ID
	for _, course := range courses {
		s.Courses = append(s.Courses, course)
		s.Folders[len(s.Folders)-1].CourseIDs = append(s.Folders[len(s.Folders)-1].CourseIDs, course.ID)
	}
	s.Plans = append(s.Plans, plan)
	return nil
}

func (s *State) planTask(planID, taskID string) (*LearningPlan, int, error) {
	pi := s.PlanIndex(planID)
	if pi < 0 {
		return nil, -1, notFound("plan", planID)
	}
	plan := &s.Plans[pi]
	ti := plan.TaskIndex(taskID)
	if ti < 0 {
		return nil, -1, notFound("plan task", taskID)
	}
	return plan, ti, nil
}

func (s *State) RescheduleTask(planID, taskID string, date int64) error {
	plan, ti, err := s.planTask(planID, taskID)
	if err != nil {
		return err
	}
	plan.DailyTasks[ti].Date = date
	return nil
}

func (s *State) ToggleTask(planID, taskID string) (bool, error) {
	plan, ti, err := s.planTask(planID, taskID)
	if err != nil {
		return false, err
	}
	plan.DailyTasks[ti].Completed = !plan.DailyTasks[ti].Completed
	if plan.CompletedTasks() == len(plan.DailyTasks) {
		plan.Status = PlanCompleted
	} else if plan.Status == PlanCompleted {
		plan.Status = PlanActive
	}
	return plan.DailyTasks[ti].Completed, nil
}

// RemoveTask drops the task and the course generated for it.
func (s *State) RemoveTask(planID, taskID string) error {
	plan, ti, err := s.planTask(planID, taskID)
	if err != nil {
		return err
	}
	courseID := plan.DailyTasks[ti].CourseID
	plan.DailyTasks = append(plan.DailyTasks[:ti:ti], plan.DailyTasks[ti+1:]...)
	if ci := s.CourseIndex(courseID); ci >= 0 {
		s.removeCourseAt(ci)
	}
	return nil
}

// DeletePlan removes the plan and every course generated for it.
func (s *State) DeletePlan(planID string) error {
	pi := s.PlanIndex(planID)
	if pi < 0 {
		return notFound("plan", planID)
	}
	for ci := len(s.Courses) - 1; ci >= 0; ci-- {
		if s.Courses[ci].LearningPlanID == planID {
			s.removeCourseAt(ci)
		}
	}
	s.Plans = append(s.Plans[:pi:pi], s.Plans[pi+1:]...)
	return nil
}

func (s *State) AddInterviewSet(courseID string, set InterviewQuestionSet) error {
	idx := s.CourseIndex(courseID)
	if idx < 0 {
		return notFound("course", courseID)
	}
	s.Courses[idx].InterviewQuestionSets = append(s.Courses[idx].InterviewQuestionSets, set)
	return nil
}

func (s *State) SetInterviewAnswer(courseID, setID string, index int, answer string) error {
	idx := s.CourseIndex(courseID)
	if idx < 0 {
		return notFound("course", courseID)
	}
	sets := s.Courses[idx].InterviewQuestionSets
	for i := range sets {
		if sets[i].ID != setID {
			continue
		}
		if index < 0 || index >= len(sets[i].Questions) {
			return fmt.Errorf("%w: question index %d out of range", apperrors.ErrInvalidInput, index)
		}
		questions := append([]InterviewQuestion(nil), sets[i].Questions...)
		questions[index].Answer = answer
		sets[i].Questions = questions
		return nil
	}
	return notFound("interview question set", setID)
}

// RecordTestResult stores result newest first. A perfect score over three or more questions
// unlocks quizMaster.
func (s *State) RecordTestResult(result TestResult) []AchievementID {
	s.TestResults = append([]TestResult{result}, s.TestResults...)
	if result.Perfect() && result.QuestionCount >= 3 && s.Profile.Unlock(AchievementQuizMaster) {
		return []AchievementID{AchievementQuizMaster}
	}
	return []AchievementID{}
}

func (s *State) AppendChat(messages ...ChatMessage) {
	s.ChatHistory = append(s.ChatHistory, messages...)
}

func (s *State) ClearChat() {
	s.ChatHistory = []ChatMessage{}
}

func (s *State) SetQuest(quest DailyQuest, date string) {
	s.Quest = &quest
	s.QuestDate = date
}

// CompleteQuest marks today's quest done and awards its XP.
func (s *State) CompleteQuest() (int, error) {
	if s.Quest == nil {
		return 0, fmt.Errorf("daily quest: %w", apperrors.ErrNotFound)
	}
	if s.Quest.Completed {
		return 0, fmt.Errorf("daily quest already completed: %w", apperrors.ErrConflict)
	}
	quest := *s.Quest
	quest.Completed = true
	s.Quest = &quest
	return s.Profile.AwardXP(quest.XP), nil
}

// Reconcile drops folder members that name no existing course or article and
// removes duplicates. It returns how many references were dropped.
func (s *State) Reconcile() int {
	courses := map[string]bool{}
	for _, course := range s.Courses {
		courses[course.ID] = true
	}
	articles := map[string]bool{}
	for _, article := range s.Articles {
		articles[article.ID] = true
	}
	dropped := 0
	for i := range s.Folders {
		folder := &s.Folders[i]
		var kept int
		folder.CourseIDs, kept = filterIDs(folder.CourseIDs, courses)
		dropped += kept
		folder.ArticleIDs, kept = filterIDs(folder.ArticleIDs, articles)
		dropped += kept
	}
	if s.LastActiveCourseID != "" && !courses[s.LastActiveCourseID] {
		s.LastActiveCourseID = ""
	}
	return dropped
}

func filterIDs(ids []string, known map[string]bool) ([]string, int) {
	out := make([]string, 0, len(ids))
	seen := map[string]bool{}
	for _, id := range ids {
		if !known[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out, len(ids) - len(out)
}

func (s State) Clone() State {
	out := s
	out.Courses = make([]Course, len(s.Courses))
	for i, course := range s.Courses {
		out.Courses[i] = course.Clone()
	}
	out.Folders = make([]Folder, len(s.Folders))
	for i, folder := range s.Folders {
		out.Folders[i] = folder.Clone()
	}
	out.Projects = make([]Project, len(s.Projects))
	for i, project := range s.Projects {
		out.Projects[i] = project.Clone()
	}
	out.Articles = append([]Article{}, s.Articles...)
	out.Plans = make([]LearningPlan, len(s.Plans))
	for i, plan := range s.Plans {
		out.Plans[i] = plan.Clone()
	}
	out.Profile = s.Profile.Clone()
	out.ChatHistory = append([]ChatMessage{}, s.ChatHistory...)
	out.TestResults = append([]TestResult{}, s.TestResults...)
	if s.Quest != nil {
		quest := *s.Quest
		out.Quest = &quest
	}
	return out
}
