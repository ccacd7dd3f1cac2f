package prompts

import (
	_ "embed"
	"fmt"
)

// Prompt text lives in versioned template assets rather than inline string
// constants, so wording changes are reviewable on their own.

//go:embed templates/lesson_system.tmpl
var lessonSystemTmpl string

//go:embed templates/lesson_user.tmpl
var lessonUserTmpl string

func boundsSane(in Input) error {
	if in.PartCount <= 0 {
		return fmt.Errorf("part count must be positive, got %d", in.PartCount)
	}
	if in.SectionsMin <= 0 || in.SectionsMax < in.SectionsMin {
		return fmt.Errorf("bad section bounds %d-%d", in.SectionsMin, in.SectionsMax)
	}
	if in.BlocksMin <= 0 || in.BlocksMax < in.BlocksMin {
		return fmt.Errorf("bad content block bounds %d-%d", in.BlocksMin, in.BlocksMax)
	}
	return nil
}

func init() {
	RegisterSpec(Spec{
		Name:       PromptLessonPlan,
		Version:    1,
		SchemaName: "lesson_plan",
		Schema:     LessonPlanSchema,
		System:     lessonSystemTmpl,
		User:       lessonUserTmpl,
		Validators: []Validator{boundsSane},
	})
}
