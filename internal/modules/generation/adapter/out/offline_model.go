package out

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mindflow/internal/modules/generation/domain"
	genout "mindflow/internal/modules/generation/port/out"
)

const (
	OfflineName    = "offline"
	OfflineVersion = "1.0.0"
	defaultDays    = 5
)

// OfflineModel answers every operation with deterministic content built from
// the request subject. It needs no network and is served in process or by the
// bundled plugin binary.
type OfflineModel struct{}

func NewOfflineModel() *OfflineModel {
	return &OfflineModel{}
}

var _ genout.Model = (*OfflineModel)(nil)

func (m *OfflineModel) Generate(ctx context.Context, req domain.Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := strings.TrimSpace(req.Subject)
	subject := full
	if subject == "" {
		subject = "your topic"
	}
	if len(subject) > 60 {
		subject = strings.TrimSpace(subject[:60])
	}
	var payload any
	switch req.Operation {
	case domain.OpCourse:
		payload = offlineCourse(subject)
	case domain.OpLearningPlan:
		payload = offlinePlan(subject, req.Count)
	case domain.OpBlogPost:
		payload = map[string]any{
			"title":         "A Practical Guide to " + subject,
			"subtitle":      "Everything you need to get started with " + subject + ".",
			"blogPost":      "## Introduction\n\n" + subject + " is easiest to learn by doing.\n\n## Key Ideas\n\n- Start small\n- Practice daily\n",
			"relatedTopics": []string{subject + " in Practice", "Testing " + subject, "Advanced " + subject},
		}
	case domain.OpArticleIdeas:
		payload = []string{"Applying " + subject, "Common Mistakes in " + subject, subject + " Beyond the Basics"}
	case domain.OpArticleTopics:
		payload = offlineArticleTopics(full)
	case domain.OpFlashcards:
		payload = []map[string]string{
			{"question": "What is " + subject + "?", "answer": subject + " is the topic you are studying."},
			{"question": "Why learn " + subject + "?", "answer": "It builds on fundamentals you already know."},
			{"question": "How do you practice " + subject + "?", "answer": "Work through small exercises every day."},
		}
	case domain.OpPracticeSession:
		payload = map[string]any{
			"topic": subject,
			"concepts": []map[string]string{
				{"title": "Core idea", "description": "The central concept behind " + subject + ".", "codeExample": "// " + subject},
				{"title": "Applying it", "description": "How " + subject + " appears in real code.", "codeExample": "// apply " + subject},
			},
			"quiz": offlineQuiz(subject, 3),
		}
	case domain.OpProject:
		payload = offlineProject(subject)
	case domain.OpFollowUpSubtopics:
		payload = []map[string]any{
			offlineSubtopic("Going Deeper: "+subject, subject),
			offlineSubtopic(subject+" in Practice", subject),
		}
	case domain.OpRemedialSubtopic:
		payload = offlineSubtopic("Understanding "+subject+": A Simpler Look", subject)
	case domain.OpSocraticQuiz, domain.OpUnderstandingCheck, domain.OpQuickPracticeQuiz, domain.OpAssessmentQuiz:
		count := req.Count
		if count <= 0 {
			count = 3
		}
		payload = offlineQuiz(subject, count)
	case domain.OpDailyQuest:
		payload = map[string]any{"title": "Complete 2 new lessons", "description": "Finish two lessons from any course today.", "xp": 200}
	case domain.OpRelatedTopics:
		payload = []map[string]string{
			{"topic": "Advanced " + subject, "reason": "It builds directly on what you just learned."},
			{"topic": subject + " Testing", "reason": "Testing cements understanding."},
			{"topic": subject + " Patterns", "reason": "Patterns show how experts apply it."},
		}
	case domain.OpInterviewQuestions:
		count := req.Count
		if count <= 0 {
			count = 3
		}
		questions := make([]map[string]string, 0, count)
		for i := 1; i <= count; i++ {
			questions = append(questions, map[string]string{
				"question": fmt.Sprintf("Question %d about %s?", i, subject),
				"answer":   fmt.Sprintf("A concise answer %d about %s.", i, subject),
			})
		}
		payload = questions
	case domain.OpStory:
		return fmt.Sprintf("**Mentor:** (smiling) Today we explore %s.\n**Learner:** (curious) Where do we start?\n**Mentor:** With one small example.", subject), nil
	case domain.OpAnalogy:
		return fmt.Sprintf("%s is like a recipe: follow the steps in order and the result is predictable.", subject), nil
	case domain.OpDefineTerm:
		return fmt.Sprintf("%s: a concept worth defining in your own words after one example.", subject), nil
	case domain.OpChat, domain.OpLiveInterview:
		last := ""
		if n := len(req.History); n > 0 {
			last = req.History[n-1].Text
		}
		if last == "" {
			return fmt.Sprintf("Hello! Let's talk about %s. What would you like to explore first?", subject), nil
		}
		return fmt.Sprintf("Good question about %q. Try breaking it into smaller steps and tell me what you find.", last), nil
	case domain.OpReviewProjectCode:
		return "Nice start. What happens when the input is empty?", nil
	case domain.OpElaborateAnswer:
		return fmt.Sprintf("In more depth: %s connects to the fundamentals through a concrete example.", subject), nil
	case domain.OpExplainCode:
		return "This snippet reads its input, transforms it and returns the result.", nil
	case domain.OpFixDiagram:
		return "graph TD\n  A[Start] --> B[End]", nil
	default:
		return "", fmt.Errorf("INVALID_ARGUMENT: unsupported operation %s", req.Operation)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func offlineQuiz(subject string, count int) []map[string]any {
	out := make([]map[string]any, 0, count)
	for i := 1; i <= count; i++ {
		out = append(out, map[string]any{
			"q":           fmt.Sprintf("Which statement about %s is true (%d)?", subject, i),
			"options":     []string{"It must be practiced", "It cannot be learned", "It has no uses", "It is unrelated to code"},
			"answer":      0,
			"explanation": "Practice is how every topic is learned.",
		})
	}
	return out
}

func offlineSubtopic(title, subject string) map[string]any {
	return map[string]any{
		"type":  "article",
		"title": title,
		"data": map[string]any{
			"objective": "Understand " + title + ".",
			"contentBlocks": []map[string]any{
				{"type": "text", "text": "## " + title + "\n\nThis lesson introduces " + subject + " step by step."},
				{"type": "code", "code": "// " + title + "\nfmt.Println(\"" + strings.ReplaceAll(subject, "\"", "'") + "\")"},
			},
		},
	}
}

func offlineCourse(subject string) map[string]any {
	topicNames := []string{"Foundations", "Core Techniques", "Real-World Practice"}
	lessonNames := []string{"Introduction", "Key Concepts", "Hands-On Exercise"}
	topics := make([]map[string]any, 0, len(topicNames))
	for _, topic := range topicNames {
		subs := make([]map[string]any, 0, len(lessonNames))
		for _, lesson := range lessonNames {
			subs = append(subs, offlineSubtopic(topic+": "+lesson, subject))
		}
		topics = append(topics, map[string]any{"title": topic, "subtopics": subs})
	}
	return map[string]any{
		"title":            "Mastering " + subject,
		"description":      "A practical path through " + subject + ".",
		"about":            "This learning path takes you from the basics of " + subject + " to applying it with confidence.",
		"category":         "General",
		"technologies":     []string{subject},
		"learningOutcomes": []string{"Explain the fundamentals of " + subject, "Apply " + subject + " to small projects"},
		"skills":           []string{subject},
		"overview": map[string]any{
			"duration":       "1 week",
			"totalTopics":    len(topicNames),
			"totalSubtopics": len(topicNames) * len(lessonNames),
			"keyFeatures":    []string{"Hands-on lessons", "Quizzes"},
		},
		"topics": topics,
	}
}

func offlinePlan(subject string, days int) map[string]any {
	if days <= 0 {
		days = defaultDays
	}
	breakdown := make([]map[string]any, 0, days)
	for day := 1; day <= days; day++ {
		breakdown = append(breakdown, map[string]any{
			"day":       day,
			"title":     fmt.Sprintf("%s, part %d", subject, day),
			"objective": fmt.Sprintf("Build day %d of your %s skills.", day, subject),
		})
	}
	return map[string]any{"planTitle": subject + " in " + fmt.Sprint(days) + " Days", "optimalDuration": days, "dailyBreakdown": breakdown}
}

func offlineArticleTopics(syllabus string) []string {
	out := []string{}
	for _, line := range strings.Split(syllabus, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*#0123456789. "))
		if line != "" {
			out = append(out, line)
		}
		if len(out) == 10 {
			break
		}
	}
	if len(out) == 0 {
		out = append(out, "Introduction")
	}
	return out
}

func offlineProject(subject string) map[string]any {
	steps := make([]map[string]string, 0, 3)
	for i, name := range []string{"Set up", "Build the core", "Polish"} {
		steps = append(steps, map[string]string{
			"title":       name,
			"description": fmt.Sprintf("Step %d of your %s project.", i+1, subject),
			"codeStub":    "// your code here",
			"challenge":   "Extend the step with one improvement of your own.",
		})
	}
	return map[string]any{"title": subject + " Mini Project", "description": "A guided project applying " + subject + ".", "steps": steps}
}
