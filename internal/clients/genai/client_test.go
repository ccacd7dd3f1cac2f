package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldline/coachlab-backend/internal/lesson"
	"github.com/fieldline/coachlab-backend/internal/lesson/prompts"
	"github.com/fieldline/coachlab-backend/internal/pkg/logger"
)

func testPrompt(t *testing.T) prompts.Prompt {
	t.Helper()
	in := prompts.BuildInput("Hip Escape Fundamentals", "Brazilian Jiu-Jitsu", lesson.LevelBeginner, "45 minutes", "", lesson.DefaultConfig())
	p, err := prompts.Build(prompts.PromptLessonPlan, in)
	if err != nil {
		t.Fatalf("build prompt: %v", err)
	}
	return p
}

func testClient(srv *httptest.Server) Client {
	return NewClientWith(logger.NewNop(), srv.URL, "test-key", "test-model", DefaultGenerationParams(), srv.Client())
}

func envelope(outputText string) map[string]any {
	return map[string]any{
		"output": []any{
			map[string]any{
				"type": "message",
				"role": "assistant",
				"content": []any{
					map[string]any{"type": "output_text", "text": outputText},
				},
			},
		},
	}
}

func TestGenerateJSON_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/responses" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("request body not JSON: %v", err)
		}
		format, _ := body["text"].(map[string]any)["format"].(map[string]any)
		if format["type"] != "json_schema" || format["name"] != "lesson_plan" {
			t.Errorf("missing json_schema format: %v", format)
		}
		_ = json.NewEncoder(w).Encode(envelope(`{"title":"Hip Escape Fundamentals"}`))
	}))
	defer srv.Close()

	obj, err := testClient(srv).GenerateJSON(context.Background(), testPrompt(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if obj["title"] != "Hip Escape Fundamentals" {
		t.Fatalf("unexpected payload: %v", obj)
	}
}

func TestGenerateJSON_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv).GenerateJSON(context.Background(), testPrompt(t))
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if he.StatusCode != 500 {
		t.Fatalf("expected status 500, got %d", he.StatusCode)
	}
	if he.Body == "" {
		t.Fatalf("expected response body carried on the error")
	}
}

func TestGenerateJSON_RetryAfterCarried(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "3")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := testClient(srv).GenerateJSON(context.Background(), testPrompt(t))
	var he *HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *HTTPError, got %v", err)
	}
	if he.RetryAfter != 3*time.Second {
		t.Fatalf("expected RetryAfter=3s, got %s", he.RetryAfter)
	}
}

func TestGenerateJSON_NonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	_, err := testClient(srv).GenerateJSON(context.Background(), testPrompt(t))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Preview != "not json" {
		t.Fatalf("expected raw preview, got %q", pe.Preview)
	}
}

func TestGenerateJSON_NonJSONOutputText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(envelope("sorry, here is prose instead of JSON"))
	}))
	defer srv.Close()

	_, err := testClient(srv).GenerateJSON(context.Background(), testPrompt(t))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Preview == "" {
		t.Fatalf("expected raw text preview for diagnosis")
	}
}

func TestGenerateJSON_PreviewTruncated(t *testing.T) {
	long := make([]byte, previewBytes*3)
	for i := range long {
		long[i] = 'x'
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(envelope(string(long)))
	}))
	defer srv.Close()

	_, err := testClient(srv).GenerateJSON(context.Background(), testPrompt(t))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if len(pe.Preview) > previewBytes+3 {
		t.Fatalf("preview not truncated: %d bytes", len(pe.Preview))
	}
}

func TestNewClient_MissingCredential(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "")
	if _, err := NewClient(logger.NewNop()); err == nil {
		t.Fatalf("expected configuration error without GENAI_API_KEY")
	}
}

func TestGenerateJSON_Refusal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"refusal": "cannot comply"})
	}))
	defer srv.Close()

	_, err := testClient(srv).GenerateJSON(context.Background(), testPrompt(t))
	if err == nil {
		t.Fatalf("expected refusal error")
	}
}
