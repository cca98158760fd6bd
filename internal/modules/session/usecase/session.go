package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	contentdomain "mindflow/internal/modules/content/domain"
	contentin "mindflow/internal/modules/content/port/in"
	gendomain "mindflow/internal/modules/generation/domain"
	gendto "mindflow/internal/modules/generation/dto"
	genin "mindflow/internal/modules/generation/port/in"
	"mindflow/internal/modules/session/domain"
	sessiondto "mindflow/internal/modules/session/dto"
	sessionin "mindflow/internal/modules/session/port/in"
	"mindflow/internal/modules/session/service"
	apperrors "mindflow/internal/platform/errors"
	"mindflow/internal/platform/logger"
)

const defaultQuizCount = 5

type Interactor struct {
	svc     *service.SessionService
	gen     genin.Usecase
	content contentin.Usecase
	log     *logger.Logger
}

func NewInteractor(svc *service.SessionService, gen genin.Usecase, content contentin.Usecase, log *logger.Logger) sessionin.Usecase {
	if log == nil {
		log = logger.Nop()
	}
	return &Interactor{svc: svc, gen: gen, content: content, log: log}
}

// request is an OpenInput with its lesson resolved.
type request struct {
	sessiondto.OpenInput
	kind   domain.Kind
	course contentdomain.Course
	lesson *contentdomain.Subtopic
}

type applyFunc func(*domain.Session)

func parseKind(value string) (domain.Kind, error) {
	kind := domain.Kind(strings.TrimSpace(value))
	if err := kind.Validate(); err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrInvalidInput, err)
	}
	return kind, nil
}

func (i *Interactor) Open(ctx context.Context, input sessiondto.OpenInput) (sessiondto.SessionOutput, error) {
	req, err := i.prepare(input)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	session, err := i.svc.Open(req.kind, req.Subject, req.CourseID, req.SubtopicID)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	apply, genErr := i.generate(ctx, req)
	return i.settle(ctx, session, apply, genErr)
}

func (i *Interactor) prepare(input sessiondto.OpenInput) (request, error) {
	kind, err := parseKind(input.Kind)
	if err != nil {
		return request{}, err
	}
	req := request{OpenInput: input, kind: kind}
	req.Subject = strings.TrimSpace(req.Subject)

	if kind.NeedsLesson() || kind == domain.KindMindMap || req.CourseID != "" {
		state := i.content.State()
		idx := state.CourseIndex(req.CourseID)
		if idx < 0 {
			return request{}, fmt.Errorf("course %q: %w", req.CourseID, apperrors.ErrNotFound)
		}
		req.course = state.Courses[idx]
		if req.SubtopicID != "" || kind.NeedsLesson() {
			ti, si, ok := req.course.FindSubtopic(req.SubtopicID)
			if !ok {
				return request{}, fmt.Errorf("subtopic %q: %w", req.SubtopicID, apperrors.ErrNotFound)
			}
			sub := req.course.Topics[ti].Subtopics[si]
			req.lesson = &sub
		}
		if req.Subject == "" {
			req.Subject = req.course.Title
			if req.lesson != nil {
				req.Subject = req.lesson.Title
			}
		}
	}

	switch kind {
	case domain.KindChat, domain.KindMindMap:
	case domain.KindCodeExplain, domain.KindProjectTutor:
		if req.Subject == "" && strings.TrimSpace(req.Code) == "" {
			return request{}, fmt.Errorf("%w: code or instructions are required", apperrors.ErrInvalidInput)
		}
	default:
		if req.Subject == "" {
			return request{}, fmt.Errorf("%w: subject is required", apperrors.ErrInvalidInput)
		}
	}
	return req, nil
}

func (req request) material() string {
	if req.lesson != nil {
		return domain.LessonText(*req.lesson)
	}
	return req.Subject
}

// generate runs the call for the session kind and returns how to fill the
// session with the result.
func (i *Interactor) generate(ctx context.Context, req request) (applyFunc, error) {
	switch req.kind {
	case domain.KindStory:
		return text(i.gen.Story(ctx, req.Subject))
	case domain.KindAnalogy:
		return text(i.gen.Analogy(ctx, req.Subject))
	case domain.KindDefine:
		return text(i.gen.DefineTerm(ctx, req.Subject))
	case domain.KindCodeExplain:
		code := req.Code
		if code == "" {
			code = req.Subject
		}
		return text(i.gen.ExplainCode(ctx, gendto.ExplainCodeInput{Selected: code, Context: req.Context, Mode: gendomain.ExplainMode(req.Mode)}))
	case domain.KindFlashcards:
		cards, err := i.gen.Flashcards(ctx, req.Subject)
		return func(s *domain.Session) { s.Flashcards = cards }, err
	case domain.KindSocratic:
		quiz, err := i.gen.SocraticQuiz(ctx, req.material())
		return quizResult(quiz, err)
	case domain.KindUnderstanding:
		quiz, err := i.gen.UnderstandingCheck(ctx, req.material())
		return quizResult(quiz, err)
	case domain.KindQuickQuiz:
		input := gendto.QuizInput{Topic: req.Subject, Level: contentdomain.KnowledgeLevel(req.Level), Count: req.Count}
		if input.Level == "" {
			input.Level = contentdomain.LevelBeginner
		}
		if input.Count == 0 {
			input.Count = defaultQuizCount
		}
		if req.Assessment {
			return quizResult(i.gen.AssessmentQuiz(ctx, input))
		}
		return quizResult(i.gen.QuickPracticeQuiz(ctx, input))
	case domain.KindPractice:
		practice, err := i.gen.PracticeSession(ctx, req.Subject)
		return func(s *domain.Session) { s.Practice = &practice }, err
	case domain.KindExplore:
		recs, err := i.gen.RelatedTopics(ctx, req.Subject)
		return func(s *domain.Session) { s.Recommendations = recs }, err
	case domain.KindArticleIdeas:
		ideas, err := i.gen.ArticleIdeas(ctx, req.Subject)
		return func(s *domain.Session) { s.Items = ideas }, err
	case domain.KindMindMap:
		root := domain.BuildMindMap(req.course)
		return func(s *domain.Session) { s.MindMap = &root }, nil
	case domain.KindChat:
		return i.chatTurn(ctx, req.Subject)
	case domain.KindArticleTutor:
		opener := contentdomain.ChatMessage{Role: contentdomain.RoleUser, Content: fmt.Sprintf("Help me understand %q.", req.Subject)}
		return i.tutorTurn(ctx, req.material(), []contentdomain.ChatMessage{opener})
	case domain.KindLiveInterview:
		reply, err := i.gen.LiveInterview(ctx, gendto.ChatInput{Context: req.Subject})
		return func(s *domain.Session) {
			s.Transcript = []contentdomain.ChatMessage{{Role: contentdomain.RoleModel, Content: reply}}
		}, err
	case domain.KindProjectTutor:
		if strings.TrimSpace(req.Code) == "" {
			return func(s *domain.Session) { s.Text = req.material() }, nil
		}
		return i.reviewTurn(ctx, req.material(), nil, req.Code)
	default:
		return nil, fmt.Errorf("%w: unsupported session kind %q", apperrors.ErrInvalidInput, req.kind)
	}
}

func text(value string, err error) (applyFunc, error) {
	return func(s *domain.Session) { s.Text = value }, err
}

func quizResult(quiz []contentdomain.QuizData, err error) (applyFunc, error) {
	return func(s *domain.Session) { s.Quiz = quiz }, err
}

// chatTurn sends message through the persisted chat and mirrors its history.
// An empty message only loads the history.
func (i *Interactor) chatTurn(ctx context.Context, message string) (applyFunc, error) {
	if message != "" {
		if _, err := i.content.Chat(ctx, message); err != nil {
			return nil, err
		}
	}
	history := i.content.State().ChatHistory
	return func(s *domain.Session) { s.Transcript = history }, nil
}

func (i *Interactor) tutorTurn(ctx context.Context, lesson string, history []contentdomain.ChatMessage) (applyFunc, error) {
	reply, err := i.gen.Chat(ctx, gendto.ChatInput{History: history, Context: lesson})
	transcript := append(append([]contentdomain.ChatMessage(nil), history...), contentdomain.ChatMessage{Role: contentdomain.RoleModel, Content: reply})
	return func(s *domain.Session) { s.Transcript = transcript }, err
}

func (i *Interactor) reviewTurn(ctx context.Context, instructions string, history []contentdomain.ChatMessage, code string) (applyFunc, error) {
	review, err := i.gen.ReviewProjectCode(ctx, gendto.ReviewInput{Instructions: instructions, Code: code})
	transcript := append(append([]contentdomain.ChatMessage(nil), history...),
		contentdomain.ChatMessage{Role: contentdomain.RoleUser, Content: code},
		contentdomain.ChatMessage{Role: contentdomain.RoleModel, Content: review},
	)
	return func(s *domain.Session) {
		s.Text = instructions
		s.Transcript = transcript
	}, err
}

// settle moves a loading session to ready or error. A session closed while
// its call ran is reported as not found.
func (i *Interactor) settle(ctx context.Context, session domain.Session, apply applyFunc, genErr error) (sessiondto.SessionOutput, error) {
	resolved, ok := i.svc.Resolve(ctx, session.Kind, session.ID, func(s *domain.Session) {
		if genErr != nil {
			s.Fail(genErr.Error())
			return
		}
		apply(s)
		s.Ready()
	})
	if genErr != nil {
		i.log.Warn("study session failed", "kind", string(session.Kind), "detail", gendomain.Detail(genErr))
	}
	if !ok {
		return sessiondto.SessionOutput{}, fmt.Errorf("%s session was closed: %w", session.Kind, apperrors.ErrNotFound)
	}
	if genErr != nil && errors.Is(genErr, apperrors.ErrInvalidInput) {
		return sessiondto.SessionOutput{Session: resolved}, genErr
	}
	return sessiondto.SessionOutput{Session: resolved}, nil
}

// Reply continues a conversational session with one user turn.
func (i *Interactor) Reply(ctx context.Context, input sessiondto.ReplyInput) (sessiondto.SessionOutput, error) {
	kind, err := parseKind(input.Kind)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	if !kind.Conversational() {
		return sessiondto.SessionOutput{}, fmt.Errorf("%w: %s sessions do not take replies", apperrors.ErrInvalidInput, kind)
	}
	message := strings.TrimSpace(input.Message)
	if message == "" {
		return sessiondto.SessionOutput{}, fmt.Errorf("%w: message is required", apperrors.ErrInvalidInput)
	}
	session, ok := i.svc.Get(kind)
	if !ok {
		return sessiondto.SessionOutput{}, fmt.Errorf("%s session: %w", kind, apperrors.ErrNotFound)
	}
	if session.Status == domain.StatusLoading {
		return sessiondto.SessionOutput{}, fmt.Errorf("%s session is still loading: %w", kind, apperrors.ErrConflict)
	}
	session, ok = i.svc.Resolve(ctx, kind, session.ID, func(s *domain.Session) {
		s.Status = domain.StatusLoading
		s.Error = ""
	})
	if !ok {
		return sessiondto.SessionOutput{}, fmt.Errorf("%s session: %w", kind, apperrors.ErrNotFound)
	}

	var apply applyFunc
	switch kind {
	case domain.KindChat:
		apply, err = i.chatTurn(ctx, message)
	case domain.KindArticleTutor:
		history := append(session.Transcript, contentdomain.ChatMessage{Role: contentdomain.RoleUser, Content: message})
		apply, err = i.tutorTurn(ctx, i.lessonText(session), history)
	case domain.KindLiveInterview:
		history := append(session.Transcript, contentdomain.ChatMessage{Role: contentdomain.RoleUser, Content: message})
		reply, callErr := i.gen.LiveInterview(ctx, gendto.ChatInput{History: history, Context: session.Subject})
		apply, err = func(s *domain.Session) {
			s.Transcript = append(history, contentdomain.ChatMessage{Role: contentdomain.RoleModel, Content: reply})
		}, callErr
	case domain.KindProjectTutor:
		instructions := session.Text
		if instructions == "" {
			instructions = session.Subject
		}
		apply, err = i.reviewTurn(ctx, instructions, session.Transcript, message)
	}
	return i.settle(ctx, session, apply, err)
}

func (i *Interactor) lessonText(session domain.Session) string {
	state := i.content.State()
	if idx := state.CourseIndex(session.CourseID); idx >= 0 {
		course := state.Courses[idx]
		if ti, si, ok := course.FindSubtopic(session.SubtopicID); ok {
			return domain.LessonText(course.Topics[ti].Subtopics[si])
		}
	}
	return session.Subject
}

// SubmitUnderstanding grades the open understanding check. A full score
// completes the lesson; anything less adds a remedial lesson after it.
func (i *Interactor) SubmitUnderstanding(ctx context.Context, input sessiondto.UnderstandingInput) (sessiondto.UnderstandingOutput, error) {
	session, ok := i.svc.Get(domain.KindUnderstanding)
	if !ok {
		return sessiondto.UnderstandingOutput{}, fmt.Errorf("understanding session: %w", apperrors.ErrNotFound)
	}
	if session.Status != domain.StatusReady || len(session.Quiz) == 0 {
		return sessiondto.UnderstandingOutput{}, fmt.Errorf("understanding check is not ready: %w", apperrors.ErrConflict)
	}
	if len(input.Answers) != len(session.Quiz) {
		return sessiondto.UnderstandingOutput{}, fmt.Errorf("%w: expected %d answers, got %d", apperrors.ErrInvalidInput, len(session.Quiz), len(input.Answers))
	}
	out := sessiondto.UnderstandingOutput{Correct: domain.Score(session.Quiz, input.Answers), Total: len(session.Quiz)}
	out.Passed = out.Correct == out.Total
	if out.Passed {
		toggled, err := i.content.MarkSubtopicComplete(ctx, session.CourseID, session.SubtopicID)
		if err != nil {
			return out, err
		}
		out.XP = toggled.XP
	} else {
		remedial, err := i.content.InsertRemedial(ctx, session.CourseID, session.SubtopicID)
		if err != nil {
			return out, err
		}
		out.RemedialID, out.RemedialTitle = remedial.ID, remedial.Title
	}
	i.svc.Close(domain.KindUnderstanding)
	return out, nil
}

func (i *Interactor) Get(kind string) (sessiondto.SessionOutput, error) {
	k, err := parseKind(kind)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	session, ok := i.svc.Get(k)
	if !ok {
		return sessiondto.SessionOutput{}, fmt.Errorf("%s session: %w", k, apperrors.ErrNotFound)
	}
	return sessiondto.SessionOutput{Session: session}, nil
}

func (i *Interactor) List() []sessiondto.SessionOutput {
	sessions := i.svc.List()
	out := make([]sessiondto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, sessiondto.SessionOutput{Session: session})
	}
	return out
}

func (i *Interactor) Close(kind string) error {
	k, err := parseKind(kind)
	if err != nil {
		return err
	}
	i.svc.Close(k)
	return nil
}

func (i *Interactor) Last(ctx context.Context) (sessiondto.SessionOutput, error) {
	session, err := i.svc.Last(ctx)
	if err != nil {
		return sessiondto.SessionOutput{}, err
	}
	return sessiondto.SessionOutput{Session: session}, nil
}

func (i *Interactor) Subscribe() (<-chan struct{}, func()) {
	return i.svc.Subscribe()
}
