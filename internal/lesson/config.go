package lesson

import "strings"

// DetailLevel names a generation preset. Each preset raises the structural
// minimums monotonically over the previous one.
type DetailLevel string

const (
	DetailComprehensive DetailLevel = "comprehensive"
	DetailExpert        DetailLevel = "expert"
	DetailMasterclass   DetailLevel = "masterclass"
)

func ParseDetailLevel(s string) (DetailLevel, bool) {
	switch DetailLevel(strings.ToLower(strings.TrimSpace(s))) {
	case DetailComprehensive:
		return DetailComprehensive, true
	case DetailExpert:
		return DetailExpert, true
	case DetailMasterclass:
		return DetailMasterclass, true
	}
	return "", false
}

// Bounds are the structural limits handed to the generation schema. They
// are the single source of truth for the detail-level mapping; nothing
// else may hardcode these numbers.
type Bounds struct {
	SectionsMin int
	SectionsMax int
	BlocksMin   int
	BlocksMax   int

	// MinWordsPerBlock is the minimum word target per content block.
	MinWordsPerBlock int
}

// Config controls one generation request. It is never persisted.
type Config struct {
	DetailLevel DetailLevel

	// Optional content categories requested from the generator.
	CompetitionApplication bool
	Physiology             bool
	Troubleshooting        bool
	Variations             bool
	Recovery               bool
	MentalTraining         bool
}

// DefaultConfig is the preset used when the caller supplies none.
func DefaultConfig() Config {
	return Config{
		DetailLevel:     DetailComprehensive,
		Troubleshooting: true,
		Variations:      true,
		Recovery:        true,
	}
}

// Bounds maps the detail level to its fixed structural limits:
// comprehensive (4-6 sections, 10-20 blocks), expert (5-8, 12-25),
// masterclass (6-10, 15-30).
func (c Config) Bounds() Bounds {
	switch c.DetailLevel {
	case DetailExpert:
		return Bounds{SectionsMin: 5, SectionsMax: 8, BlocksMin: 12, BlocksMax: 25, MinWordsPerBlock: 40}
	case DetailMasterclass:
		return Bounds{SectionsMin: 6, SectionsMax: 10, BlocksMin: 15, BlocksMax: 30, MinWordsPerBlock: 80}
	default:
		return Bounds{SectionsMin: 4, SectionsMax: 6, BlocksMin: 10, BlocksMax: 20, MinWordsPerBlock: 20}
	}
}

// Categories lists the requested optional content categories in a stable
// order, for prompt text.
func (c Config) Categories() []string {
	out := make([]string, 0, 6)
	if c.CompetitionApplication {
		out = append(out, "competition application")
	}
	if c.Physiology {
		out = append(out, "physiological context")
	}
	if c.Troubleshooting {
		out = append(out, "troubleshooting guidance")
	}
	if c.Variations {
		out = append(out, "technique variations")
	}
	if c.Recovery {
		out = append(out, "recovery work")
	}
	if c.MentalTraining {
		out = append(out, "mental training")
	}
	return out
}
