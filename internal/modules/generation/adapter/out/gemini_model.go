package out

import (
	"context"
	"fmt"
	"strings"
	"time"

	"mindflow/internal/modules/generation/domain"
	genout "mindflow/internal/modules/generation/port/out"

	"github.com/go-resty/resty/v2"
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Contents          []geminiContent         `json:"contents"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content      geminiContent `json:"content"`
		FinishReason string        `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

type geminiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GeminiModel calls the Generative Language REST API.
type GeminiModel struct {
	client *resty.Client
	model  string
}

func NewGeminiModel(baseURL, apiKey, model string, timeout time.Duration) (*GeminiModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", domain.ErrBackendUnavailable)
	}
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("%w: model name is required", domain.ErrBackendUnavailable)
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("x-goog-api-key", apiKey).
		SetHeader("Content-Type", "application/json")
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &GeminiModel{client: client, model: model}, nil
}

var _ genout.Model = (*GeminiModel)(nil)

func (m *GeminiModel) Generate(ctx context.Context, req domain.Request) (string, error) {
	body := geminiRequest{}
	if req.System != "" {
		body.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
	}
	for _, turn := range req.History {
		body.Contents = append(body.Contents, geminiContent{Role: string(turn.Role), Parts: []geminiPart{{Text: turn.Text}}})
	}
	if req.Prompt != "" {
		body.Contents = append(body.Contents, geminiContent{Role: string(domain.RoleUser), Parts: []geminiPart{{Text: req.Prompt}}})
	}
	if len(body.Contents) == 0 {
		return "", fmt.Errorf("INVALID_ARGUMENT: request has no contents")
	}
	if req.Schema != nil {
		body.GenerationConfig = &geminiGenerationConfig{ResponseMimeType: "application/json", ResponseSchema: req.Schema}
	}

	var result geminiResponse
	var apiErr geminiError
	resp, err := m.client.R().
		SetContext(ctx).
		SetPathParam("model", m.model).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		if apiErr.Error.Status != "" {
			return "", fmt.Errorf("gemini %d %s: %s", resp.StatusCode(), apiErr.Error.Status, apiErr.Error.Message)
		}
		return "", fmt.Errorf("gemini status %d", resp.StatusCode())
	}
	if len(result.Candidates) == 0 {
		if result.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("gemini blocked prompt: %s", result.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("gemini returned no candidates")
	}
	var text strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		text.WriteString(part.Text)
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("gemini returned an empty candidate (%s)", result.Candidates[0].FinishReason)
	}
	return text.String(), nil
}
