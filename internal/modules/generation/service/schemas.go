package service

// Response schemas use the Generative Language API type names.

func strField(description string) map[string]any {
	field := map[string]any{"type": "STRING"}
	if description != "" {
		field["description"] = description
	}
	return field
}

func intField(description string) map[string]any {
	field := map[string]any{"type": "INTEGER"}
	if description != "" {
		field["description"] = description
	}
	return field
}

func enumField(values ...string) map[string]any {
	return map[string]any{"type": "STRING", "enum": values}
}

func arrayOf(items map[string]any) map[string]any {
	return map[string]any{"type": "ARRAY", "items": items}
}

func boundedArray(items map[string]any, minItems, maxItems int) map[string]any {
	out := arrayOf(items)
	if minItems > 0 {
		out["minItems"] = minItems
	}
	if maxItems > 0 {
		out["maxItems"] = maxItems
	}
	return out
}

func object(properties map[string]any, required ...string) map[string]any {
	out := map[string]any{"type": "OBJECT", "properties": properties}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func stringList() map[string]any {
	return arrayOf(strField(""))
}

func numberList() map[string]any {
	return arrayOf(map[string]any{"type": "NUMBER"})
}

func quizSchema() map[string]any {
	return object(map[string]any{
		"q":           strField("The quiz question."),
		"options":     boundedArray(strField(""), 2, 4),
		"answer":      intField("The 0-based index of the correct answer."),
		"explanation": strField("A brief, clear explanation."),
	}, "q", "options", "answer", "explanation")
}

func interactiveModelSchema() map[string]any {
	return object(map[string]any{
		"title":       strField(""),
		"description": strField(""),
		"layers": arrayOf(object(map[string]any{
			"type":       enumField("input", "hidden", "output"),
			"neurons":    intField(""),
			"activation": enumField("relu", "sigmoid", "tanh"),
		})),
		"sampleInput":    numberList(),
		"expectedOutput": numberList(),
	}, "title", "description", "layers", "sampleInput", "expectedOutput")
}

func hyperparameterSimulatorSchema() map[string]any {
	return object(map[string]any{
		"title":       strField(""),
		"description": strField(""),
		"parameters": arrayOf(object(map[string]any{
			"name": strField(""),
			"options": arrayOf(object(map[string]any{
				"label":       strField(""),
				"description": strField(""),
			})),
		})),
		"outcomes": arrayOf(object(map[string]any{
			"combination": strField(""),
			"result": object(map[string]any{
				"trainingLoss":   numberList(),
				"validationLoss": numberList(),
				"description":    strField(""),
			}),
		})),
	}, "title", "description", "parameters", "outcomes")
}

func triageChallengeSchema() map[string]any {
	return object(map[string]any{
		"scenario": strField(""),
		"evidence": strField("A valid Mermaid.js graph syntax string."),
		"options": arrayOf(object(map[string]any{
			"title":       strField(""),
			"description": strField(""),
		})),
		"correctOptionIndex": intField(""),
		"explanation":        strField(""),
	}, "scenario", "evidence", "options", "correctOptionIndex", "explanation")
}

func contentBlockSchema() map[string]any {
	return object(map[string]any{
		"type":                    enumField("text", "code", "quiz", "diagram", "interactiveModel", "hyperparameterSimulator", "triageChallenge"),
		"text":                    strField("For 'text' blocks, the content in Markdown format."),
		"code":                    strField("For 'code' blocks, the code snippet."),
		"quiz":                    quizSchema(),
		"diagram":                 strField("A valid Mermaid.js graph syntax string."),
		"interactiveModel":        interactiveModelSchema(),
		"hyperparameterSimulator": hyperparameterSimulatorSchema(),
		"triageChallenge":         triageChallengeSchema(),
	}, "type")
}

func subtopicSchema() map[string]any {
	return object(map[string]any{
		"type":  enumField("article", "quiz", "project"),
		"title": strField(""),
		"data": object(map[string]any{
			"objective":     strField(""),
			"contentBlocks": arrayOf(contentBlockSchema()),
			"description":   strField(""),
			"questions":     arrayOf(quizSchema()),
			"codeStub":      strField(""),
			"challenge":     strField(""),
		}),
	}, "type", "title", "data")
}

func courseSchema() map[string]any {
	return object(map[string]any{
		"title":            strField(""),
		"description":      strField("A one-sentence tagline or subtitle for the course."),
		"about":            strField("A detailed, engaging paragraph describing the learning path."),
		"category":         strField("A high-level category, e.g., 'Web Development', 'Data Science', 'AI/ML'."),
		"technologies":     stringList(),
		"learningOutcomes": stringList(),
		"skills":           stringList(),
		"overview": object(map[string]any{
			"duration":       strField("Estimated time to complete, e.g., '1 week', '15 hours'."),
			"totalTopics":    intField(""),
			"totalSubtopics": intField(""),
			"keyFeatures":    boundedArray(strField(""), 0, 6),
		}, "duration", "totalTopics", "totalSubtopics", "keyFeatures"),
		"topics": arrayOf(object(map[string]any{
			"title":     strField(""),
			"subtopics": arrayOf(subtopicSchema()),
		}, "title", "subtopics")),
	}, "title", "description", "about", "category", "technologies", "learningOutcomes", "skills", "overview", "topics")
}

func blogPostSchema() map[string]any {
	return object(map[string]any{
		"title":         strField("A catchy, SEO-friendly title for the blog post."),
		"subtitle":      strField("A brief, one-sentence subtitle that summarizes the article."),
		"blogPost":      strField("The full blog post content in Markdown format, starting from the first section heading (##)."),
		"relatedTopics": stringList(),
	}, "title", "subtitle", "blogPost", "relatedTopics")
}

func flashcardSchema() map[string]any {
	return arrayOf(object(map[string]any{
		"question": strField(""),
		"answer":   strField(""),
	}, "question", "answer"))
}

func practiceSessionSchema() map[string]any {
	return object(map[string]any{
		"topic": strField(""),
		"concepts": arrayOf(object(map[string]any{
			"title":       strField(""),
			"description": strField(""),
			"codeExample": strField(""),
		}, "title", "description", "codeExample")),
		"quiz": arrayOf(quizSchema()),
	}, "topic", "concepts", "quiz")
}

func projectSchema() map[string]any {
	return object(map[string]any{
		"title":       strField(""),
		"description": strField(""),
		"steps": arrayOf(object(map[string]any{
			"title":       strField(""),
			"description": strField(""),
			"codeStub":    strField(""),
			"challenge":   strField(""),
		}, "title", "description", "codeStub", "challenge")),
	}, "title", "description", "steps")
}

func learningPlanSchema() map[string]any {
	return object(map[string]any{
		"planTitle":       strField("A concise, engaging title for the entire learning plan."),
		"optimalDuration": intField("The optimal number of days to complete this plan."),
		"dailyBreakdown": arrayOf(object(map[string]any{
			"day":       intField(""),
			"title":     strField("The specific, focused sub-topic for this day."),
			"objective": strField("A one-sentence learning objective for the day."),
		}, "day", "title", "objective")),
	}, "planTitle", "optimalDuration", "dailyBreakdown")
}

func questSchema() map[string]any {
	return object(map[string]any{
		"title":       strField(""),
		"description": strField(""),
		"xp":          intField(""),
	}, "title", "description", "xp")
}

func recommendationSchema() map[string]any {
	return arrayOf(object(map[string]any{
		"topic":  strField(""),
		"reason": strField(""),
	}, "topic", "reason"))
}

func interviewQuestionSchema() map[string]any {
	return arrayOf(object(map[string]any{
		"question": strField(""),
		"answer":   strField(""),
	}, "question", "answer"))
}
