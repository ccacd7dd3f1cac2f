package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fieldline/coachlab-backend/internal/clients/genai"
	"github.com/fieldline/coachlab-backend/internal/lesson"
	"github.com/fieldline/coachlab-backend/internal/lesson/fallback"
	"github.com/fieldline/coachlab-backend/internal/lesson/prompts"
	"github.com/fieldline/coachlab-backend/internal/pkg/logger"
)

type fakeGenAI struct {
	calls   int
	results []fakeResult
}

type fakeResult struct {
	payload map[string]any
	err     error
}

func (f *fakeGenAI) GenerateJSON(ctx context.Context, p prompts.Prompt) (map[string]any, error) {
	idx := f.calls
	f.calls++
	if idx >= len(f.results) {
		idx = len(f.results) - 1
	}
	r := f.results[idx]
	return r.payload, r.err
}

// validPayload yields a model-shaped payload by round-tripping a fallback
// plan through JSON.
func validPayload(t *testing.T) map[string]any {
	t.Helper()
	plan := fallback.Generate("Hip Escape Fundamentals", "Brazilian Jiu-Jitsu", lesson.LevelBeginner, "45 minutes", "")
	b, err := json.Marshal(plan)
	if err != nil {
		t.Fatalf("marshal plan: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal plan: %v", err)
	}
	return out
}

func testRequest() GenerateLessonRequest {
	return GenerateLessonRequest{
		Topic:    "Hip Escape Fundamentals",
		Sport:    "Brazilian Jiu-Jitsu",
		Level:    lesson.LevelBeginner,
		Duration: "45 minutes",
	}
}

func newService(t *testing.T, client genai.Client, cache Cache) LessonGenService {
	t.Helper()
	t.Setenv("GENAI_DISABLED", "")
	t.Setenv("LESSONGEN_MAX_RETRIES", "")
	return NewLessonGenService(logger.NewNop(), client, cache)
}

func TestGenerate_RejectsMissingTopic(t *testing.T) {
	svc := newService(t, nil, nil)
	req := testRequest()
	req.Topic = "  "
	if _, err := svc.Generate(context.Background(), req); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGenerate_RejectsMissingSport(t *testing.T) {
	svc := newService(t, nil, nil)
	req := testRequest()
	req.Sport = ""
	if _, err := svc.Generate(context.Background(), req); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGenerate_RejectsUnknownLevel(t *testing.T) {
	svc := newService(t, nil, nil)
	req := testRequest()
	req.Level = "legendary"
	if _, err := svc.Generate(context.Background(), req); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestGenerate_ModelSuccess(t *testing.T) {
	fake := &fakeGenAI{results: []fakeResult{{payload: validPayload(t)}}}
	svc := newService(t, fake, nil)

	out, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Source != SourceModel || out.Cached {
		t.Fatalf("expected fresh model result, got source=%s cached=%v", out.Source, out.Cached)
	}
	if err := out.Plan.Validate(); err != nil {
		t.Fatalf("returned plan invalid: %v", err)
	}
	if out.Markdown == "" {
		t.Fatalf("expected rendered markdown")
	}
	if out.PlanID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Fatalf("expected assigned plan id")
	}
}

func TestGenerate_HTTPErrorFallsBack(t *testing.T) {
	fake := &fakeGenAI{results: []fakeResult{{err: &genai.HTTPError{StatusCode: 500, Body: "boom"}}}}
	svc := newService(t, fake, nil)

	out, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("fallback path must not error: %v", err)
	}
	if out.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", out.Source)
	}
	if err := out.Plan.Validate(); err != nil {
		t.Fatalf("fallback plan invalid: %v", err)
	}
	if fake.calls != 1 {
		t.Fatalf("expected a single attempt with zero retry budget, got %d", fake.calls)
	}
}

func TestGenerate_ParseErrorFallsBack(t *testing.T) {
	fake := &fakeGenAI{results: []fakeResult{{err: &genai.ParseError{Preview: "not json", Err: errors.New("invalid character")}}}}
	svc := newService(t, fake, nil)

	out, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("fallback path must not error: %v", err)
	}
	if out.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", out.Source)
	}
	if err := out.Plan.Validate(); err != nil {
		t.Fatalf("fallback plan invalid: %v", err)
	}
}

func TestGenerate_MalformedButParseablePayloadFallsBack(t *testing.T) {
	payload := validPayload(t)
	payload["parts"] = payload["parts"].([]any)[:2]
	fake := &fakeGenAI{results: []fakeResult{{payload: payload}}}
	svc := newService(t, fake, nil)

	out, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("fallback path must not error: %v", err)
	}
	if out.Source != SourceFallback {
		t.Fatalf("expected fallback for structurally wrong payload, got %s", out.Source)
	}
	if fake.calls != 1 {
		t.Fatalf("decode failures must not be retried, got %d calls", fake.calls)
	}
}

func TestGenerate_CacheHitSkipsClient(t *testing.T) {
	fake := &fakeGenAI{results: []fakeResult{{payload: validPayload(t)}}}
	cache := NewMemoryCache(time.Minute)
	svc := newService(t, fake, cache)

	first, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Cached {
		t.Fatalf("first generation must not be a cache hit")
	}

	second, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !second.Cached || second.Source != SourceModel {
		t.Fatalf("expected cache hit, got source=%s cached=%v", second.Source, second.Cached)
	}
	if fake.calls != 1 {
		t.Fatalf("expected one upstream call, got %d", fake.calls)
	}
	if second.PlanID == first.PlanID {
		t.Fatalf("each served result needs its own plan id")
	}
}

func TestGenerate_FallbackNotCached(t *testing.T) {
	fake := &fakeGenAI{results: []fakeResult{
		{err: &genai.HTTPError{StatusCode: 503, Body: "down", RetryAfter: time.Millisecond}},
		{payload: validPayload(t)},
	}}
	cache := NewMemoryCache(time.Minute)
	svc := newService(t, fake, cache)

	first, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.Source != SourceFallback {
		t.Fatalf("expected fallback first, got %s", first.Source)
	}

	second, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Source != SourceModel || second.Cached {
		t.Fatalf("fallback result must not poison the cache: source=%s cached=%v", second.Source, second.Cached)
	}
}

func TestGenerate_RetryBudgetHonored(t *testing.T) {
	fake := &fakeGenAI{results: []fakeResult{
		{err: &genai.HTTPError{StatusCode: 429, Body: "slow down", RetryAfter: time.Millisecond}},
		{payload: validPayload(t)},
	}}
	t.Setenv("GENAI_DISABLED", "")
	t.Setenv("LESSONGEN_MAX_RETRIES", "1")
	svc := NewLessonGenService(logger.NewNop(), fake, nil)

	out, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Source != SourceModel {
		t.Fatalf("expected model result after retry, got %s", out.Source)
	}
	if fake.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fake.calls)
	}
}

func TestGenerate_DisabledServesFallback(t *testing.T) {
	fake := &fakeGenAI{results: []fakeResult{{payload: validPayload(t)}}}
	t.Setenv("GENAI_DISABLED", "true")
	svc := NewLessonGenService(logger.NewNop(), fake, nil)

	out, err := svc.Generate(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Source != SourceFallback {
		t.Fatalf("expected fallback when disabled, got %s", out.Source)
	}
	if fake.calls != 0 {
		t.Fatalf("client must not be called when disabled, got %d calls", fake.calls)
	}
}

func TestGenerate_NotesReachFallback(t *testing.T) {
	fake := &fakeGenAI{results: []fakeResult{{err: &genai.HTTPError{StatusCode: 500, Body: "boom"}}}}
	svc := newService(t, fake, nil)

	req := testRequest()
	req.DetailedInstructions = "Emphasize the elbow-knee connection."
	out, err := svc.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, part := range out.Plan.Parts {
		for _, sec := range part.Sections {
			for _, block := range sec.Content {
				if block.Type == lesson.BlockParagraph && strings.Contains(block.Text, req.DetailedInstructions) {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatalf("instructor notes missing from fallback plan")
	}
}
