package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/fieldline/coachlab-backend/internal/clients/genai"
	"github.com/fieldline/coachlab-backend/internal/lesson"
	"github.com/fieldline/coachlab-backend/internal/lesson/fallback"
	"github.com/fieldline/coachlab-backend/internal/lesson/markdown"
	"github.com/fieldline/coachlab-backend/internal/lesson/prompts"
	"github.com/fieldline/coachlab-backend/internal/pkg/ctxutil"
	"github.com/fieldline/coachlab-backend/internal/pkg/httpx"
	"github.com/fieldline/coachlab-backend/internal/pkg/logger"
)

// ErrInvalidArgument rejects requests with missing or unknown fields
// before any prompt is composed.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	SourceModel    = "model"
	SourceFallback = "fallback"
)

type GenerateLessonRequest struct {
	Topic                string
	Sport                string
	Level                lesson.Level
	Duration             string
	DetailedInstructions string

	// Config is optional; lesson.DefaultConfig applies when nil.
	Config *lesson.Config
}

// GeneratedLesson is the service result: the structured plan, its
// rendering, and generation metadata. The caller owns persistence.
type GeneratedLesson struct {
	PlanID      uuid.UUID
	GeneratedAt time.Time
	Source      string
	Cached      bool
	Plan        *lesson.LessonPlan
	Markdown    string
}

type LessonGenService interface {
	Generate(ctx context.Context, req GenerateLessonRequest) (*GeneratedLesson, error)
}

type lessonGenService struct {
	log        *logger.Logger
	client     genai.Client
	cache      Cache
	disabled   bool
	maxRetries int
	timeout    time.Duration
}

// NewLessonGenService wires the generation pipeline. client may be nil
// (or GENAI_DISABLED=true) to serve fallback plans only; cache may be nil
// to disable caching.
func NewLessonGenService(log *logger.Logger, client genai.Client, cache Cache) LessonGenService {
	disabled := strings.EqualFold(strings.TrimSpace(os.Getenv("GENAI_DISABLED")), "true")

	maxRetries := 0
	if v := os.Getenv("LESSONGEN_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	timeoutSec := 120
	if v := os.Getenv("LESSONGEN_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	return &lessonGenService{
		log:        log.With("service", "LessonGenService"),
		client:     client,
		cache:      cache,
		disabled:   disabled,
		maxRetries: maxRetries,
		timeout:    time.Duration(timeoutSec) * time.Second,
	}
}

func (s *lessonGenService) Generate(ctx context.Context, req GenerateLessonRequest) (*GeneratedLesson, error) {
	ctx = ctxutil.Default(ctx)

	if strings.TrimSpace(req.Topic) == "" {
		return nil, fmt.Errorf("%w: topic required", ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Sport) == "" {
		return nil, fmt.Errorf("%w: sport required", ErrInvalidArgument)
	}
	if _, ok := lesson.ParseLevel(string(req.Level)); !ok {
		return nil, fmt.Errorf("%w: unknown level %q", ErrInvalidArgument, req.Level)
	}

	cfg := lesson.DefaultConfig()
	if req.Config != nil {
		cfg = *req.Config
	}

	in := prompts.BuildInput(req.Topic, req.Sport, req.Level, req.Duration, req.DetailedInstructions, cfg)
	p, err := prompts.Build(prompts.PromptLessonPlan, in)
	if err != nil {
		return nil, fmt.Errorf("compose lesson prompt: %w", err)
	}

	if plan, ok := s.cachedPlan(p.Fingerprint()); ok {
		s.log.Debug("Lesson served from cache", "fingerprint", p.Fingerprint())
		return s.result(plan, SourceModel, true), nil
	}

	if s.disabled || s.client == nil {
		s.log.Info("Generation disabled, serving fallback lesson", "topic", req.Topic)
		return s.fallbackResult(req), nil
	}

	plan, err := s.generateWithRetries(ctx, p)
	if err != nil {
		s.log.Warn("Lesson generation failed, serving fallback",
			"topic", req.Topic,
			"sport", req.Sport,
			"error", err.Error(),
		)
		return s.fallbackResult(req), nil
	}

	if s.cache != nil {
		s.cache.Set(p.Fingerprint(), plan)
	}
	return s.result(plan, SourceModel, false), nil
}

// generateWithRetries runs the single-shot client under a caller-side
// timeout, retrying only retryable failures up to the configured budget
// (default zero). The fallback decision stays with Generate.
func (s *lessonGenService) generateWithRetries(ctx context.Context, p prompts.Prompt) (*lesson.LessonPlan, error) {
	backoff := 1 * time.Second

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		raw, err := s.client.GenerateJSON(callCtx, p)
		cancel()

		if err == nil {
			plan, decodeErr := lesson.DecodePlan(raw)
			if decodeErr != nil {
				// A parseable but structurally wrong payload is treated
				// like a parse failure: no retry, caller falls back.
				return nil, decodeErr
			}
			return plan, nil
		}

		lastErr = err
		if !httpx.IsRetryableError(err) || attempt == s.maxRetries {
			return nil, err
		}

		sleepFor := backoff
		var he *genai.HTTPError
		if errors.As(err, &he) && he.RetryAfter > 0 {
			sleepFor = he.RetryAfter
		}
		sleepFor = httpx.JitterSleep(sleepFor)

		s.log.Warn("Lesson generation retrying",
			"attempt", attempt+1,
			"max_retries", s.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, lastErr
}

func (s *lessonGenService) cachedPlan(key string) (*lesson.LessonPlan, bool) {
	if s.cache == nil {
		return nil, false
	}
	return s.cache.Get(key)
}

func (s *lessonGenService) fallbackResult(req GenerateLessonRequest) *GeneratedLesson {
	plan := fallback.Generate(req.Topic, req.Sport, req.Level, req.Duration, req.DetailedInstructions)
	return s.result(plan, SourceFallback, false)
}

func (s *lessonGenService) result(plan *lesson.LessonPlan, source string, cached bool) *GeneratedLesson {
	return &GeneratedLesson{
		PlanID:      uuid.New(),
		GeneratedAt: time.Now().UTC(),
		Source:      source,
		Cached:      cached,
		Plan:        plan,
		Markdown:    markdown.Render(plan),
	}
}
