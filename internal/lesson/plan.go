package lesson

import (
	"fmt"
	"strings"
)

// Level is the athlete skill level a plan targets.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

func ParseLevel(s string) (Level, bool) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelBeginner:
		return LevelBeginner, true
	case LevelIntermediate:
		return LevelIntermediate, true
	case LevelAdvanced:
		return LevelAdvanced, true
	}
	return "", false
}

// BlockKind tags a ContentBlock variant.
type BlockKind string

const (
	BlockParagraph             BlockKind = "paragraph"
	BlockListItem              BlockKind = "list_item"
	BlockHeading               BlockKind = "heading"
	BlockExercise              BlockKind = "exercise"
	BlockSafetyNote            BlockKind = "safety_note"
	BlockTechniqueStep         BlockKind = "technique_step"
	BlockCoachingCue           BlockKind = "coaching_cue"
	BlockCommonMistake         BlockKind = "common_mistake"
	BlockBiomechanicalAnalysis BlockKind = "biomechanical_analysis"
	BlockProgressionDrill      BlockKind = "progression_drill"
	BlockAssessmentCriteria    BlockKind = "assessment_criteria"
)

// BlockKinds lists every recognized variant in schema order.
func BlockKinds() []BlockKind {
	return []BlockKind{
		BlockParagraph,
		BlockListItem,
		BlockHeading,
		BlockExercise,
		BlockSafetyNote,
		BlockTechniqueStep,
		BlockCoachingCue,
		BlockCommonMistake,
		BlockBiomechanicalAnalysis,
		BlockProgressionDrill,
		BlockAssessmentCriteria,
	}
}

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyExpert       Difficulty = "expert"
)

type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
	IntensityVariable Intensity = "variable"
)

// ContentBlock is the smallest content unit of a lesson. Optional fields
// are omitted from the wire shape when empty.
type ContentBlock struct {
	Type       BlockKind  `json:"type"`
	Text       string     `json:"text"`
	Level      int        `json:"level,omitempty"` // heading depth 1..4, headings only
	Duration   string     `json:"duration,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Intensity  Intensity  `json:"intensity,omitempty"`
	FocusArea  string     `json:"focus_area,omitempty"`
}

// LessonSection groups blocks under one topic inside a part.
type LessonSection struct {
	SectionTitle string         `json:"sectionTitle"`
	Content      []ContentBlock `json:"content"`
}

// LessonPart is one of the four phases of a lesson.
type LessonPart struct {
	PartTitle   string          `json:"partTitle"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Sections    []LessonSection `json:"sections"`
}

// PartCount is the fixed number of top-level phases in every plan:
// warm-up, technical instruction, practice, application & recovery.
const PartCount = 4

// LessonPlan is the root entity produced by one generation call. It is an
// immutable value: nothing mutates it after construction, and the caller
// owns any persistence.
type LessonPlan struct {
	Title     string       `json:"title"`
	Objective string       `json:"objective"`
	Duration  string       `json:"duration"`
	Sport     string       `json:"sport"`
	Level     Level        `json:"level"`
	Parts     []LessonPart `json:"parts"`
}

// Validate enforces the structural invariants a plan must satisfy
// regardless of which generator produced it.
func (p *LessonPlan) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("lesson plan: empty title")
	}
	if strings.TrimSpace(p.Objective) == "" {
		return fmt.Errorf("lesson plan: empty objective")
	}
	if len(p.Parts) != PartCount {
		return fmt.Errorf("lesson plan: expected %d parts, got %d", PartCount, len(p.Parts))
	}
	for i := range p.Parts {
		if strings.TrimSpace(p.Parts[i].PartTitle) == "" {
			return fmt.Errorf("lesson plan: part %d has empty title", i+1)
		}
	}
	return nil
}

// TotalBlocks counts content blocks across all parts and sections.
func (p *LessonPlan) TotalBlocks() int {
	n := 0
	for _, part := range p.Parts {
		for _, sec := range part.Sections {
			n += len(sec.Content)
		}
	}
	return n
}
