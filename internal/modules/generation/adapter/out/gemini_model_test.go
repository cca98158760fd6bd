package out_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	genout "mindflow/internal/modules/generation/adapter/out"
	"mindflow/internal/modules/generation/domain"
	"mindflow/internal/modules/generation/service"
)

type capturedRequest struct {
	path   string
	apiKey string
	body   map[string]any
}

func geminiServer(t *testing.T, status int, response string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.apiKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGeminiModelSendsSchemaAndHistory(t *testing.T) {
	t.Parallel()
	var captured capturedRequest
	srv := geminiServer(t, http.StatusOK, `{"candidates":[{"content":{"role":"model","parts":[{"text":"[\"a\","},{"text":"\"b\"]"}]},"finishReason":"STOP"}]}`, &captured)
	model, err := genout.NewGeminiModel(srv.URL, "secret", "gemini-2.5-flash", 5*time.Second)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	got, err := model.Generate(context.Background(), domain.Request{
		Operation: domain.OpArticleIdeas,
		System:    "be brief",
		Prompt:    "ideas please",
		History:   []domain.Turn{{Role: domain.RoleUser, Text: "hi"}, {Role: domain.RoleModel, Text: "hello"}},
		Schema:    map[string]any{"type": "ARRAY", "items": map[string]any{"type": "STRING"}},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if got != `["a","b"]` {
		t.Fatalf("unexpected text %q", got)
	}
	if captured.path != "/v1beta/models/gemini-2.5-flash:generateContent" || captured.apiKey != "secret" {
		t.Fatalf("unexpected request %s key=%q", captured.path, captured.apiKey)
	}
	contents, _ := captured.body["contents"].([]any)
	if len(contents) != 3 {
		t.Fatalf("expected history plus prompt, got %d contents", len(contents))
	}
	config, _ := captured.body["generationConfig"].(map[string]any)
	if config["responseMimeType"] != "application/json" || config["responseSchema"] == nil {
		t.Fatalf("missing structured output config: %+v", config)
	}
	if captured.body["systemInstruction"] == nil {
		t.Fatalf("missing system instruction")
	}
}

func TestGeminiModelTextRequestHasNoSchema(t *testing.T) {
	t.Parallel()
	var captured capturedRequest
	srv := geminiServer(t, http.StatusOK, `{"candidates":[{"content":{"parts":[{"text":"a story"}]}}]}`, &captured)
	model, err := genout.NewGeminiModel(srv.URL, "secret", "m", 0)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	if _, err := model.Generate(context.Background(), domain.Request{Operation: domain.OpStory, Prompt: "tell"}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, ok := captured.body["generationConfig"]; ok {
		t.Fatalf("text request must not set generationConfig")
	}
}

func TestGeminiModelErrorsBecomeCallErrors(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name     string
		status   int
		response string
		message  string
	}{
		{
			name:     "invalid argument",
			status:   http.StatusBadRequest,
			response: `{"error":{"code":400,"message":"bad schema","status":"INVALID_ARGUMENT"}}`,
			message:  "Request contains an invalid argument.",
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			response: `{"error":{"code":500,"message":"oops","status":"INTERNAL"}}`,
			message:  "The AI model failed to generate content.",
		},
		{
			name:     "no candidates",
			status:   http.StatusOK,
			response: `{"candidates":[],"promptFeedback":{"blockReason":"SAFETY"}}`,
			message:  "The AI model failed to generate content.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var captured capturedRequest
			srv := geminiServer(t, tc.status, tc.response, &captured)
			model, err := genout.NewGeminiModel(srv.URL, "secret", "m", time.Second)
			if err != nil {
				t.Fatalf("new model: %v", err)
			}
			svc := service.NewGenerationService(model, nil)
			_, err = svc.Story(context.Background(), "Go")
			if !errors.Is(err, domain.ErrCall) {
				t.Fatalf("expected call error, got %v", err)
			}
			if err.Error() != tc.message {
				t.Fatalf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestGeminiModelRequiresAPIKey(t *testing.T) {
	t.Parallel()
	if _, err := genout.NewGeminiModel("http://localhost", "", "m", 0); !errors.Is(err, domain.ErrBackendUnavailable) {
		t.Fatalf("expected backend unavailable, got %v", err)
	}
}
