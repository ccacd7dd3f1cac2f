package prompts

type PromptName string

const (
	// PromptLessonPlan produces a full structured lesson plan for one
	// coaching session.
	PromptLessonPlan PromptName = "lesson_plan"
)
