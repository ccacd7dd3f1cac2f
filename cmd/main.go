package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/fieldline/coachlab-backend/internal/clients/genai"
	"github.com/fieldline/coachlab-backend/internal/lesson"
	"github.com/fieldline/coachlab-backend/internal/pkg/logger"
	"github.com/fieldline/coachlab-backend/internal/services"
)

func main() {
	topic := flag.String("topic", "", "lesson topic (required)")
	sport := flag.String("sport", "", "sport (required)")
	level := flag.String("level", "beginner", "athlete level: beginner|intermediate|advanced")
	duration := flag.String("duration", "60 minutes", "session duration")
	notes := flag.String("notes", "", "optional instructor notes, embedded verbatim")
	detail := flag.String("detail", "comprehensive", "detail level: comprehensive|expert|masterclass")
	flag.Parse()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	lvl, ok := lesson.ParseLevel(*level)
	if !ok {
		log.Error("Unknown level", "level", *level)
		os.Exit(2)
	}
	detailLevel, ok := lesson.ParseDetailLevel(*detail)
	if !ok {
		log.Error("Unknown detail level", "detail", *detail)
		os.Exit(2)
	}
	cfg := lesson.DefaultConfig()
	cfg.DetailLevel = detailLevel

	// GenAI client. A missing credential is not fatal here: the service
	// serves the deterministic fallback plan instead.
	client, err := genai.NewClient(log)
	if err != nil {
		log.Warn("GenAI client unavailable, fallback generation only", "error", err.Error())
		client = nil
	}

	svc := services.NewLessonGenService(log, client, services.NewMemoryCache(services.DefaultCacheTTL))

	out, err := svc.Generate(context.Background(), services.GenerateLessonRequest{
		Topic:                *topic,
		Sport:                *sport,
		Level:                lvl,
		Duration:             *duration,
		DetailedInstructions: *notes,
		Config:               &cfg,
	})
	if err != nil {
		log.Error("Lesson generation rejected", "error", err.Error())
		os.Exit(2)
	}

	log.Info("Lesson generated",
		"plan_id", out.PlanID.String(),
		"source", out.Source,
		"parts", len(out.Plan.Parts),
		"blocks", out.Plan.TotalBlocks(),
	)
	fmt.Println(out.Markdown)
}
