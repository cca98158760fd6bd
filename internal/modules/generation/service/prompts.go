package service

import (
	"fmt"
	"strings"

	contentdomain "mindflow/internal/modules/content/domain"
	"mindflow/internal/modules/generation/domain"
)

const fence = "```"

func fenced(body string) string {
	return fence + "\n" + body + "\n" + fence
}

func sourcePrompt(source *domain.Source) string {
	if source == nil || strings.TrimSpace(source.Content) == "" {
		return ""
	}
	switch source.Kind {
	case domain.SourceSyllabus:
		return "**COURSE SOURCE:** Base the course on the following syllabus: \n" + fenced(source.Content)
	case domain.SourceURL:
		return "**COURSE SOURCE:** Base the course on the content from this URL: " + source.Content
	case domain.SourcePDF:
		return "**COURSE SOURCE:** Base the course on the following text extracted from a document: \n" + fenced(source.Content)
	default:
		return ""
	}
}

type coursePrompt struct {
	Topic        string
	Level        contentdomain.KnowledgeLevel
	Goal         domain.LearningGoal
	Style        domain.LearningStyle
	Source       *domain.Source
	Technologies string
	Theory       bool
}

func (p coursePrompt) String() string {
	var b strings.Builder
	b.WriteString("You are a world-class AI Technical Writer and Curriculum Designer. Your task is to generate a comprehensive, personalized learning path structured as a JSON object. This path must contain rich, self-contained educational content for each subtopic.\n\n")
	b.WriteString("**USER PROFILE & GOALS:**\n")
	fmt.Fprintf(&b, "*   **Knowledge Level:** %s\n", p.Level)
	fmt.Fprintf(&b, "*   **Primary Goal:** %s\n", p.Goal)
	fmt.Fprintf(&b, "*   **Learning Style:** %s\n", p.Style)
	if tech := strings.TrimSpace(p.Technologies); tech != "" {
		fmt.Fprintf(&b, "*   **Specific Technologies:** %s\n", tech)
	}
	if p.Theory {
		b.WriteString("*   **Theory:** Include the underlying theory and first principles, not only practical usage.\n")
	}
	if src := sourcePrompt(p.Source); src != "" {
		b.WriteString("\n" + src + "\n")
	}
	b.WriteString("\n**LEARNING PATH STRUCTURE (CRITICAL):**\n")
	fmt.Fprintf(&b, "Generate a complete JSON object for a learning path about %q. The path must contain:\n", p.Topic)
	b.WriteString("1.  **Top-Level Information:** title, description (tagline), about (detailed paragraph), category, technologies, learningOutcomes (bullet points), skills (tags), and an overview object with stats.\n")
	b.WriteString("2.  **Curriculum (topics & subtopics):**\n")
	b.WriteString("    *   The path must have 3-5 high-level **Topics**.\n")
	b.WriteString("    *   Each Topic must have 3-5 **Subtopics**. A Subtopic is a specific learning unit.\n")
	b.WriteString("    *   Each Subtopic must be of type 'article'.\n")
	b.WriteString("3.  **Content Generation (VERY IMPORTANT):**\n")
	b.WriteString("    *   For each 'article' subtopic, you MUST generate its content. The content is an array of 2-5 **Content Blocks**.\n")
	b.WriteString("    *   A Content Block can be of type 'text', 'code', 'diagram', 'quiz'.\n")
	fmt.Fprintf(&b, "    *   For an '%s' learning style, you should also incorporate advanced blocks like 'interactiveModel', 'hyperparameterSimulator', and 'triageChallenge' where appropriate to create a hands-on experience.\n", p.Style)
	b.WriteString("    *   'text' blocks should contain clear explanations in well-written Markdown.\n")
	b.WriteString("    *   'code' blocks should contain relevant, well-commented code examples.\n")
	b.WriteString("    *   'diagram' blocks must contain valid Mermaid.js syntax.\n")
	b.WriteString("    *   'quiz' blocks should be a single, relevant multiple-choice question.\n\n")
	b.WriteString("**REQUIREMENTS (STRICT):**\n")
	b.WriteString("*   Adhere strictly to the provided JSON schema. DO NOT add any extra fields.\n")
	b.WriteString("*   The content must be tailored to the user's knowledge level and goals.\n")
	b.WriteString("*   Calculate and fill in the 'overview' object with accurate totals (totalTopics, totalSubtopics) based on the curriculum you generate.\n")
	b.WriteString("*   Ensure all generated text (descriptions, outcomes, lesson content, etc.) is high-quality, well-written, and engaging.\n")
	return b.String()
}

func learningPlanPrompt(topic string, days int) string {
	duration := "First, determine the optimal number of days for a beginner to learn this topic comprehensively and use that duration for the plan."
	if days > 0 {
		duration = fmt.Sprintf("Create a plan that spans exactly %d days.", days)
	}
	return fmt.Sprintf(`You are an expert curriculum designer and project manager. Your task is to break down a large learning topic into a structured, day-by-day learning plan.

**Topic:** %q

**Instructions:**
1.  %s
2.  The plan should be logical, progressive, and cover the topic from fundamentals to more advanced concepts.
3.  For each day, define a specific, focused sub-topic title and a clear, one-sentence learning objective.
4.  Generate a concise, engaging title for the entire learning plan.

**Output Format:**
Return a single JSON object that strictly adheres to the provided schema. The 'dailyBreakdown' array must contain an entry for each day of the plan.
`, topic, duration)
}

func blogPostPrompt(topic string) string {
	return fmt.Sprintf(`You are an expert technical writer and content strategist for a high-quality tech blog.
Your task is to generate a complete, well-structured blog post on the given topic, and also provide ideas for the next article.

**Topic:** %q

**Requirements:**
1.  **Title:** Create a catchy, SEO-friendly title for the blog post.
2.  **Subtitle:** Write a brief, one-sentence subtitle that summarizes the article's value.
3.  **Blog Post Content:** The content MUST be in a single Markdown string.
    *   **Structure:** Use Markdown headings (## for sections, ### for sub-sections), lists, bold text, and code blocks to create a clear and readable article.
    *   **Content:** The post should be comprehensive, insightful, and practical for the reader. It should include clear explanations and relevant code examples where applicable.
    *   **Start:** The content should begin with the first section heading (e.g., `+"`## Introduction`"+`), not with the main title.
4.  **Related Topic Ideas:** Generate a list of exactly 3 to 5 related, but distinct, topic ideas that would be a logical next step for someone who just read the article.

Return the entire response as a single JSON object adhering to the provided schema.
`, topic)
}

func articleIdeasPrompt(courseTitle string) string {
	return fmt.Sprintf("Based on the course title %q, generate a list of 3-5 distinct and engaging blog post ideas. These ideas should be suitable for someone who has just completed the course and wants to explore related concepts or applications. Return only a JSON array of strings.", courseTitle)
}

func articleTopicsPrompt(syllabus string) string {
	return `You are an expert content strategist. Your task is to break down a broad topic or syllabus into a series of specific, engaging blog post titles.

**Input Syllabus/Topic:**
` + fenced(syllabus) + `

**Instructions:**
1.  Analyze the input to understand the key concepts and structure.
2.  Generate a list of 5 to 10 distinct and well-defined article topics that cover the main points of the input.
3.  Each topic should be a concise and compelling title for a blog post.

Return the list as a JSON array of strings.
`
}

func storyPrompt(topic string) string {
	return fmt.Sprintf("Create a short, engaging story for a learner about the topic %q. The story should be in the style of a short script or play, with character names in bold followed by their dialogue. Use mannerisms in parentheses. This helps to introduce the concept in a fun, memorable way.", topic)
}

func analogyPrompt(topic string) string {
	return fmt.Sprintf("Generate a simple, clear, and relatable analogy for the technical concept: %q. The analogy should help a beginner understand the core idea. Return only the analogy itself.", topic)
}

func flashcardsPrompt(topic string) string {
	return fmt.Sprintf("Generate a set of 5-10 concise flashcards for the topic %q. Each flashcard should have a clear question and a direct answer.", topic)
}

func practiceSessionPrompt(topic string) string {
	return fmt.Sprintf(`Create a comprehensive practice session for the topic: %q.
The session should include:
1.  2-3 **In-Depth Concepts**: For each concept, provide a title, a detailed but easy-to-understand description, and a relevant code example in an appropriate language.
2.  A 3-5 question **Quiz**: Each quiz question should be multiple choice with 4 options and include a clear explanation for the correct answer.

Return the entire session as a single JSON object adhering to the provided schema.
`, topic)
}

func projectPrompt(courseTitle, subtopicTitle, objective string) string {
	return fmt.Sprintf(`You are a senior software engineer creating a guided project for a learning platform.
Based on the following learning context, generate a complete guided project.

**Course:** %s
**Subtopic:** %s
**Objective:** %s

The project needs to be hands-on and directly related to the lesson's objective.
It should include:
1.  A clear **title** and a concise **description**.
2.  A series of 3-5 distinct **steps**.
3.  For each step, provide a **title**, a detailed **description** of what to do, a starting **code stub**, and a specific **challenge** for the learner to solve.

Return the entire project as a single JSON object adhering to the provided schema.
`, courseTitle, subtopicTitle, objective)
}

func followUpPrompt(courseTitle, topicTitle, subtopicTitle, instruction string) string {
	return fmt.Sprintf(`You are an expert curriculum designer. A user is currently studying a subtopic and wants to expand on it with more detail.
**Course:** %s
**Topic:** %s
**Current Subtopic:** %s
**User Request:** %q

Based on this, generate 2-3 new, follow-up subtopics that logically extend from the current one.
Each new subtopic must be of type 'article' and contain:
1. A clear 'title'.
2. A learning 'objective'.
3. An array of 'contentBlocks', which can be of type 'text' or 'code'. Keep content concise and focused.

Return an array of these new subtopic objects, adhering to the provided JSON schema.
`, courseTitle, topicTitle, subtopicTitle, instruction)
}

func socraticQuizPrompt(content string) string {
	return `Based on the following content, generate a short, 3-question multiple-choice quiz. The questions should test understanding of the key concepts. For each question, provide a Socratic-style explanation that guides the learner to the correct answer if they get it wrong, rather than just giving the answer.

Content:
---
` + content + `
---
`
}

func chatSystem(context string) string {
	return strings.TrimSpace("You are a helpful and knowledgeable AI assistant for a learning platform. " + context)
}

func liveInterviewStartPrompt(topic string) string {
	return fmt.Sprintf("You are an expert, friendly interviewer. Start a mock technical interview on the topic of %q. Introduce yourself and present the first open-ended problem.", topic)
}

func liveInterviewSystem(topic string) string {
	return fmt.Sprintf("You are a friendly interviewer conducting a mock technical interview on %q. Continue the conversation based on the history. Guide the user, but don't give away answers.", topic)
}

func explainCodePrompt(selected, fullContext string, mode domain.ExplainMode) string {
	action := "Provide a concise, clear explanation of what the selected snippet does."
	switch mode {
	case domain.ExplainComment:
		action = "Add detailed, explanatory comments to the following selected code snippet. Return only the commented code block, without any other text or markdown formatting."
	case domain.ExplainRefactor:
		action = "Suggest a refactoring for the following code snippet to improve its clarity, performance, or adherence to best practices. Explain your reasoning concisely after the code block."
	}
	prompt := action + "\nSelected snippet:\n" + fenced(selected) + "\n"
	if strings.TrimSpace(fullContext) != "" {
		prompt += "Full code context:\n" + fenced(fullContext) + "\n"
	}
	return prompt
}

func fixDiagramPrompt(syntax string) string {
	return "The following Mermaid diagram syntax is broken. Please fix it and return only the corrected, valid Mermaid syntax. Do not include any explanation or markdown formatting.\nBroken syntax:\n" + fence + "mermaid\n" + syntax + "\n" + fence
}

func quizPrompt(kind string, topic string, level contentdomain.KnowledgeLevel, count int) string {
	if kind == "assessment" {
		return fmt.Sprintf("Generate a challenging assessment quiz with %d questions for a user with %q knowledge of %q. Each question must have 4 options and a clear explanation for the correct answer.", count, level, topic)
	}
	return fmt.Sprintf("Generate a quick practice quiz with %d questions for a user with %q knowledge of %q. Include explanations.", count, level, topic)
}

func relatedTopicsPrompt(courseTitle string) string {
	return fmt.Sprintf(`A user has just completed a course on %q.
Based on this, generate 3 logical and relevant recommendations for the next course or topic they should learn.
For each recommendation, provide a 'topic' (the name of the next course) and a 'reason' (a one-sentence explanation of why it's a good next step).
`, courseTitle)
}

func dailyQuestPrompt() string {
	return `You are a motivational learning coach for a gamified education platform.
Generate a single, simple, and achievable "Daily Quest" for a user.
The quest should encourage a small amount of learning activity.
The XP reward should be between 150 and 300.

Examples:
- Complete 2 new lessons.
- Start learning a new topic.
- Spend 15 minutes practicing a concept.
- Take a skill assessment quiz.

Return the quest as a JSON object with the keys "title", "description", and "xp".
`
}

func defineTermPrompt(term string) string {
	return fmt.Sprintf("Provide a concise, clear, and easy-to-understand definition for the following technical term. Return only the definition text.\nTerm: %q", term)
}

func understandingCheckPrompt(lesson string) string {
	return `Based *only* on the key concepts from the following lesson content, generate a very short, 2-question multiple-choice quiz to check for understanding. The questions must be direct and simple. Provide a clear explanation for each correct answer.

Lesson Content:
---
` + lesson + `
---
`
}

func remedialPrompt(title, objective string) string {
	return fmt.Sprintf(`A student is struggling with the subtopic %q. Your task is to generate a new, simplified, remedial 'article' subtopic to help them understand the core concept.

**Original Subtopic Objective:** %s

**Instructions:**
1.  **Simplify Title:** Create a new title that is more approachable, like "Understanding [Concept]: A Simpler Look".
2.  **Simplify Objective:** Write a new, simpler objective.
3.  **Create Content Blocks:**
    *   Generate 2-3 content blocks.
    *   The first block should be a 'text' block using a simple analogy or a very basic, step-by-step explanation.
    *   The second block should be a 'code' block with a minimal, well-commented example.
    *   Avoid jargon where possible.

Return a single JSON object for the new subtopic, adhering to the provided schema.
`, title, objective)
}

func reviewCodePrompt(instructions, code string) string {
	return `You are an expert, friendly AI Pair Programmer. Your role is to provide constructive feedback on a student's code for a project step.

**BEHAVIOR:**
- Be encouraging and positive. Start with what they did well.
- Be a guide, not a solution provider. Point out potential issues or areas for improvement, and ask guiding questions.
- Keep feedback concise and focused on the user's code.

**Project Step Instructions:**
---
` + instructions + `
---

**Student's Code:**
` + fenced(code) + `

**Your Task:**
Review the student's code based on the instructions. Provide a short, helpful code review in Markdown format.
- If the code is good, praise it and perhaps suggest one minor improvement or edge case to consider.
- If there are errors, gently point them out and ask a question to help them find the solution.
- Return only your feedback text.
`
}

func interviewQuestionsPrompt(topic string, level contentdomain.KnowledgeLevel, count int, existing []string) string {
	asked := "None"
	if len(existing) > 0 {
		lines := make([]string, 0, len(existing))
		for _, q := range existing {
			lines = append(lines, "- "+q)
		}
		asked = strings.Join(lines, "\n")
	}
	return fmt.Sprintf(`Act as a senior technical interviewer preparing for a session.
Topic: %q
Difficulty: %q
Number of questions to generate: %d

Your task is to generate a new, unique set of interview questions. For each question, provide a concise but thorough answer, as if explaining it to a candidate.

**CRITICAL INSTRUCTION:** Do NOT repeat or create questions that are conceptually similar to the ones in the following list of already-asked questions.

Already asked questions to avoid:
%s

Generate a completely fresh set of %d questions.
`, topic, level, count, asked, count)
}

func elaboratePrompt(question, answer string) string {
	return fmt.Sprintf("A student is preparing for an interview. The question is: %q. The current answer is: %q. Elaborate on this answer. Explain it in more depth but using simple terminologies. Provide a clear example or code snippet if applicable. Return only the elaborated answer text.", question, answer)
}
