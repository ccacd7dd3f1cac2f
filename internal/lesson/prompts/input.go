package prompts

import (
	"strings"

	"github.com/fieldline/coachlab-backend/internal/lesson"
)

// Input carries everything a prompt template or schema builder may need.
// Missing fields render as empty strings (templates use missingkey=zero).
type Input struct {
	Topic                string
	Sport                string
	Level                string
	Duration             string
	DetailedInstructions string

	// Structural bounds derived from the lesson config.
	DetailLevel string
	PartCount   int
	SectionsMin int
	SectionsMax int
	BlocksMin   int
	BlocksMax   int
	MinWords    int

	// Comma-joined optional content categories, empty when none requested.
	Categories string
}

// BuildInput derives the composer input from caller parameters and a
// generation config. The bounds fields are filled from cfg.Bounds() so the
// detail-level mapping stays in one place.
func BuildInput(topic, sport string, level lesson.Level, duration, detailedInstructions string, cfg lesson.Config) Input {
	b := cfg.Bounds()
	return Input{
		Topic:                strings.TrimSpace(topic),
		Sport:                strings.TrimSpace(sport),
		Level:                string(level),
		Duration:             strings.TrimSpace(duration),
		DetailedInstructions: strings.TrimSpace(detailedInstructions),
		DetailLevel:          string(cfg.DetailLevel),
		PartCount:            lesson.PartCount,
		SectionsMin:          b.SectionsMin,
		SectionsMax:          b.SectionsMax,
		BlocksMin:            b.BlocksMin,
		BlocksMax:            b.BlocksMax,
		MinWords:             b.MinWordsPerBlock,
		Categories:           strings.Join(cfg.Categories(), ", "),
	}
}
